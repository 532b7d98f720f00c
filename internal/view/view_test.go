package view

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/compmap/eventmap/internal/scene"
	"github.com/compmap/eventmap/pkg/core"
)

type recordingRescaler struct {
	calls []float64
}

func (r *recordingRescaler) Rescale(k float64) {
	r.calls = append(r.calls, k)
}

func (r *recordingRescaler) last() float64 {
	return r.calls[len(r.calls)-1]
}

func newController() (*Controller, *scene.Scene, *recordingRescaler) {
	s := scene.New(1000, 800)
	r := &recordingRescaler{}
	return New(s, r), s, r
}

func TestClamp(t *testing.T) {
	assert.Equal(t, 1.0, Clamp(0.5))
	assert.Equal(t, 1.0, Clamp(-3))
	assert.Equal(t, 1.0, Clamp(math.NaN()))
	assert.Equal(t, 20.0, Clamp(25))
	assert.Equal(t, 7.0, Clamp(7))
}

func TestZoomTo_Clamps(t *testing.T) {
	c, _, r := newController()

	assert.Equal(t, 1.0, c.ZoomTo(0.5).K)
	assert.Equal(t, 20.0, c.ZoomTo(50).K)
	assert.Equal(t, 20.0, r.last())
}

func TestZoomTo_KeepsCentreFixed(t *testing.T) {
	c, _, _ := newController()

	tr := c.ZoomTo(2)

	centre := tr.Apply(core.Point{X: 500, Y: 400})
	assert.InDelta(t, 500, centre.X, 1e-9)
	assert.InDelta(t, 400, centre.Y, 1e-9)
}

func TestZoomAt_AnchorsPoint(t *testing.T) {
	c, _, _ := newController()
	c.ZoomAt(200, 100, 2)

	before := c.Transform().Invert(core.Point{X: 300, Y: 300})
	c.ZoomAt(300, 300, 3)
	after := c.Transform().Apply(before)

	assert.Equal(t, 6.0, c.Transform().K)
	assert.InDelta(t, 300, after.X, 1e-9)
	assert.InDelta(t, 300, after.Y, 1e-9)
}

func TestZoomAt_ClampedFactor(t *testing.T) {
	c, _, _ := newController()

	tr := c.ZoomAt(100, 100, 0.1)
	assert.Equal(t, core.Identity, tr)

	c.ZoomAt(100, 100, 10)
	tr = c.ZoomAt(100, 100, 10)
	assert.Equal(t, 20.0, tr.K)
}

func TestSetAppliesToLayers(t *testing.T) {
	c, s, r := newController()

	c.Set(core.ViewTransform{X: 10, Y: 20, K: 4})

	assert.Equal(t, "translate(10,20) scale(4)", s.Layer(scene.LayerBaseMap).Attr("transform"))
	assert.Equal(t, "translate(10,20) scale(4)", s.Layer(scene.LayerMarkers).Attr("transform"))
	assert.Equal(t, 4.0, r.last())
}

func TestPan(t *testing.T) {
	c, _, _ := newController()
	c.ZoomTo(2)
	before := c.Transform()

	tr := c.Pan(15, -5)

	assert.Equal(t, before.X+15, tr.X)
	assert.Equal(t, before.Y-5, tr.Y)
	assert.Equal(t, 2.0, tr.K)
}

func TestReset_Animates(t *testing.T) {
	c, s, r := newController()
	c.Set(core.ViewTransform{X: -100, Y: -50, K: 5})

	c.Reset(DefaultResetDuration)
	assert.True(t, c.Animating())

	assert.True(t, c.Advance(375*time.Millisecond))
	mid := c.Transform()
	assert.InDelta(t, -50, mid.X, 1e-9)
	assert.InDelta(t, -25, mid.Y, 1e-9)
	assert.InDelta(t, 3, mid.K, 1e-9)
	assert.InDelta(t, 3, r.last(), 1e-9)

	assert.False(t, c.Advance(375*time.Millisecond))
	assert.False(t, c.Animating())
	assert.Equal(t, core.Identity, c.Transform())
	assert.Equal(t, "", s.Layer(scene.LayerMarkers).Attr("transform"))
	assert.Equal(t, 1.0, r.last())
}

func TestReset_InterruptedByGesture(t *testing.T) {
	c, _, _ := newController()
	c.ZoomTo(4)
	c.Reset(time.Second)

	c.Pan(10, 0)

	assert.False(t, c.Animating())
	assert.False(t, c.Advance(time.Second))
}

func TestResetNow(t *testing.T) {
	c, _, _ := newController()
	c.ZoomTo(8)

	c.ResetNow()

	assert.Equal(t, core.Identity, c.Transform())
	assert.False(t, c.Animating())

	c.ZoomTo(3)
	c.Reset(0)
	assert.Equal(t, core.Identity, c.Transform())
}
