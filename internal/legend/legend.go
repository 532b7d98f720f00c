// Package legend draws the year colour key, the count labels and exposes
// the country options offered to the user.
package legend

import (
	"fmt"
	"strconv"

	"github.com/compmap/eventmap/internal/palette"
	"github.com/compmap/eventmap/internal/scene"
	"github.com/compmap/eventmap/pkg/core"
)

// Layout constants, in pixels.
const (
	RightOffset = 200
	TopOffset   = 20
	RowHeight   = 25
	SwatchSize  = 20

	// HighlightStroke marks a selected swatch.
	HighlightStroke      = "#000"
	HighlightStrokeWidth = 3
)

// SwatchID returns the element id of the swatch for year.
func SwatchID(year int) string {
	return "year-" + strconv.Itoa(year)
}

// MissingLabel formats the missing-coordinates text.
func MissingLabel(n int) string {
	return fmt.Sprintf("Missing Coordinates: %d", n)
}

// Controls lists the choices the filter controls offer.
type Controls struct {
	Years       []int            `json:"years"`
	Countries   []string         `json:"countries"`
	CountryMode core.CountryMode `json:"countryMode"`
}

// Options configures a Legend.
type Options struct {
	Scene     *scene.Scene
	Colors    *palette.Scale
	Countries []string
	Mode      core.CountryMode
	// Missing is shown as a second label when ShowMissing is set.
	Missing     int
	ShowMissing bool
}

// Legend is the colour key plus the count labels.
type Legend struct {
	scene    *scene.Scene
	colors   *palette.Scale
	controls Controls

	swatches map[int]*scene.Element
	count    *scene.Element
	missing  *scene.Element

	onToggle func(year int)
}

// New draws the legend into the scene.
func New(opts Options) *Legend {
	l := &Legend{
		scene:  opts.Scene,
		colors: opts.Colors,
		controls: Controls{
			Years:       opts.Colors.Years(),
			Countries:   append([]string(nil), opts.Countries...),
			CountryMode: opts.Mode,
		},
		swatches: make(map[int]*scene.Element),
	}
	l.drawKey()
	l.drawLabels(opts.Missing, opts.ShowMissing)
	return l
}

func (l *Legend) drawKey() {
	width, height := l.scene.Size()

	key := l.scene.Layer(scene.LayerLegend).Append(scene.KindGroup, "color-key")
	key.SetAttr("transform", fmt.Sprintf("translate(%s,%d)", scene.FormatFloat(width-RightOffset), TopOffset))

	key.Append(scene.KindText, "color-key-title").
		SetFloat("x", 0).
		SetFloat("y", 0).
		SetAttr("font-weight", "bold").
		SetText("Year")

	for i, year := range l.controls.Years {
		item := key.Append(scene.KindGroup, "key-item")
		item.SetAttr("transform", fmt.Sprintf("translate(0,%d)", (i+1)*RowHeight))

		y := year
		swatch := item.Append(scene.KindRect, "swatch").
			SetID(SwatchID(year)).
			SetFloat("x", 0).
			SetFloat("y", 0).
			SetFloat("width", SwatchSize).
			SetFloat("height", SwatchSize).
			SetAttr("fill", l.colors.Color(year))
		swatch.On(scene.EventClick, func(*scene.Element, scene.PointerEvent) {
			if l.onToggle != nil {
				l.onToggle(y)
			}
		})
		l.swatches[year] = swatch

		item.Append(scene.KindText, "key-label").
			SetFloat("x", 30).
			SetFloat("y", 15).
			SetText(strconv.Itoa(year))
	}

	// grow the surface when the key does not fit
	keyHeight := float64((len(l.controls.Years) + 1) * RowHeight)
	if keyHeight > height-40 {
		l.scene.SetHeight(keyHeight + 40)
	}
}

func (l *Legend) drawLabels(missing int, showMissing bool) {
	_, height := l.scene.Size()
	overlay := l.scene.Layer(scene.LayerOverlay)

	l.count = overlay.Append(scene.KindText, "displayed-count").
		SetFloat("x", 50).
		SetFloat("y", height-20).
		SetAttr("font-size", "16px")

	if showMissing {
		l.missing = overlay.Append(scene.KindText, "missing-count").
			SetFloat("x", 50).
			SetFloat("y", height-45).
			SetAttr("font-size", "16px").
			SetText(MissingLabel(missing))
	}
}

// OnToggle sets the callback run when a year swatch is clicked.
func (l *Legend) OnToggle(fn func(year int)) {
	l.onToggle = fn
}

// Click simulates a click on the swatch for year.
func (l *Legend) Click(year int) bool {
	sw, ok := l.swatches[year]
	if !ok {
		return false
	}
	return sw.Dispatch(scene.PointerEvent{Type: scene.EventClick})
}

// Highlight marks the swatches of the selected years and clears the rest.
func (l *Legend) Highlight(state core.FilterState) {
	for year, sw := range l.swatches {
		if state.HasYear(year) {
			sw.SetAttr("stroke", HighlightStroke).SetFloat("stroke-width", HighlightStrokeWidth)
		} else {
			sw.SetAttr("stroke", "").SetAttr("stroke-width", "")
		}
	}
}

// Highlighted returns the years whose swatch is highlighted, ascending.
func (l *Legend) Highlighted() []int {
	out := make([]int, 0)
	for _, year := range l.controls.Years {
		if l.swatches[year].Attr("stroke") == HighlightStroke {
			out = append(out, year)
		}
	}
	return out
}

// Swatch returns the swatch element for year.
func (l *Legend) Swatch(year int) (*scene.Element, bool) {
	sw, ok := l.swatches[year]
	return sw, ok
}

// CountLabel returns the displayed-count text element.
func (l *Legend) CountLabel() *scene.Element {
	return l.count
}

// MissingLabelElement returns the missing-count element, or nil when hidden.
func (l *Legend) MissingLabelElement() *scene.Element {
	return l.missing
}

// Controls returns the filter choices.
func (l *Legend) Controls() Controls {
	return l.controls
}
