package reconcile

import (
	"fmt"
	"time"

	"github.com/compmap/eventmap/internal/scene"
	"github.com/compmap/eventmap/pkg/core"
)

const (
	// TooltipOpacity is the opacity a shown tooltip fades to.
	TooltipOpacity = 0.9

	// offset from the pointer, in pixels
	tooltipDX = 5
	tooltipDY = -28
)

// Tooltip is the single hover card shared by every marker.
type Tooltip struct {
	scene   *scene.Scene
	el      *scene.Element
	lines   []*scene.Element
	owner   string
	fadeIn  time.Duration
	fadeOut time.Duration
}

// NewTooltip draws a hidden tooltip in the tooltip layer.
func NewTooltip(s *scene.Scene, fadeIn, fadeOut time.Duration) *Tooltip {
	el := s.Layer(scene.LayerTooltip).Append(scene.KindGroup, "tooltip")
	el.SetFloat("opacity", 0).SetAttr("pointer-events", "none")

	el.Append(scene.KindRect, "tooltip-box").
		SetFloat("width", 200).
		SetFloat("height", 80).
		SetFloat("rx", 8).
		SetAttr("fill", "white").
		SetAttr("stroke", "#000")

	t := &Tooltip{scene: s, el: el, fadeIn: fadeIn, fadeOut: fadeOut}
	for i := 0; i < 4; i++ {
		line := el.Append(scene.KindText, "tooltip-line").
			SetFloat("x", 10).
			SetFloat("y", float64(20+i*16))
		t.lines = append(t.lines, line)
	}
	return t
}

// Show fills the tooltip with rec and fades it in next to the pointer.
func (t *Tooltip) Show(rec core.EventRecord, ev scene.PointerEvent) {
	text := TooltipLines(rec)
	for i, line := range t.lines {
		line.SetText(text[i])
	}
	t.el.SetAttr("transform", fmt.Sprintf("translate(%s,%s)",
		scene.FormatFloat(ev.X+tooltipDX), scene.FormatFloat(ev.Y+tooltipDY)))
	t.owner = rec.Key
	t.scene.Transition(t.el, "opacity", TooltipOpacity, t.fadeIn)
}

// Hide fades the tooltip out.
func (t *Tooltip) Hide() {
	t.scene.Transition(t.el, "opacity", 0, t.fadeOut)
}

// Cancel interrupts any transition started for key and hides the tooltip
// at once. Tooltips owned by other markers are left alone.
func (t *Tooltip) Cancel(key string) bool {
	if t.owner != key {
		return false
	}
	t.scene.Interrupt(t.el)
	t.el.SetFloat("opacity", 0)
	t.owner = ""
	return true
}

// Owner returns the key of the marker that last showed the tooltip.
func (t *Tooltip) Owner() string { return t.owner }

// Element returns the tooltip group.
func (t *Tooltip) Element() *scene.Element { return t.el }

// Opacity returns the current tooltip opacity.
func (t *Tooltip) Opacity() float64 { return t.el.AttrFloat("opacity") }

// TooltipLines formats the four tooltip lines for rec.
func TooltipLines(rec core.EventRecord) []string {
	return []string{
		"Name: " + rec.Name,
		"Location: " + rec.Location(),
		"Venue: " + rec.Venue,
		"Date: " + rec.Date,
	}
}
