package palette

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestScale_ColorsBySortedYear(t *testing.T) {
	s := NewScale([]int{2021, 2019, 2020, 2021})

	assert.Equal(t, []int{2019, 2020, 2021}, s.Years())
	assert.Equal(t, Distinct[0], s.Color(2019))
	assert.Equal(t, Distinct[1], s.Color(2020))
	assert.Equal(t, Distinct[2], s.Color(2021))
}

func TestScale_Deterministic(t *testing.T) {
	a := NewScale([]int{2018, 2022, 2020})
	b := NewScale([]int{2020, 2018, 2022})

	for _, y := range []int{2018, 2020, 2022} {
		assert.Equal(t, a.Color(y), b.Color(y))
	}
}

func TestScale_WrapsAfterTwentyYears(t *testing.T) {
	years := make([]int, 0, 22)
	for y := 2000; y < 2022; y++ {
		years = append(years, y)
	}
	s := NewScale(years)

	assert.Equal(t, s.Color(2000), s.Color(2020))
	assert.Equal(t, s.Color(2001), s.Color(2021))
	assert.NotEqual(t, s.Color(2000), s.Color(2001))
}

func TestScale_UnknownYear(t *testing.T) {
	s := NewScale([]int{2020})
	assert.Equal(t, Fallback, s.Color(1999))
}
