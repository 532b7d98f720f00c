// Package scene is a small retained-mode scene graph: layered SVG
// elements with pointer handlers, affine layer transforms and timed
// attribute transitions.
package scene

import (
	"errors"
	"fmt"

	"github.com/compmap/eventmap/pkg/core"
)

// Layer names, in drawing order.
const (
	LayerBaseMap = "basemap"
	LayerMarkers = "markers"
	LayerOverlay = "overlay"
	LayerLegend  = "legend"
	LayerTooltip = "tooltip"
)

// ErrElementNotFound is returned when a pointer event targets an unknown id.
var ErrElementNotFound = errors.New("element not found")

// Scene is the drawing surface.
type Scene struct {
	width, height float64

	root    *Element
	layers  map[string]*Element
	pending map[*Element]*transition
}

// New creates an empty scene of the given size.
func New(width, height float64) *Scene {
	return &Scene{
		width:   width,
		height:  height,
		root:    newElement(KindGroup, "root"),
		layers:  make(map[string]*Element),
		pending: make(map[*Element]*transition),
	}
}

// Size returns the surface size.
func (s *Scene) Size() (float64, float64) { return s.width, s.height }

// SetHeight changes the surface height.
func (s *Scene) SetHeight(h float64) { s.height = h }

// Root returns the root group.
func (s *Scene) Root() *Element { return s.root }

// Layer returns the named top-level group, creating it on first use.
// Layers are drawn in creation order.
func (s *Scene) Layer(name string) *Element {
	if l, ok := s.layers[name]; ok {
		return l
	}
	l := s.root.Append(KindGroup, name)
	l.SetID(name)
	s.layers[name] = l
	return l
}

// SetLayerTransform applies t to the named layer.
func (s *Scene) SetLayerTransform(name string, t core.ViewTransform) {
	l := s.Layer(name)
	if t.IsIdentity() {
		l.SetAttr("transform", "")
		return
	}
	l.SetAttr("transform", FormatTransform(t))
}

// Find returns the element with the given id, or nil.
func (s *Scene) Find(id string) *Element {
	return s.root.Find(id)
}

// DispatchPointer delivers ev to the element with the given id.
func (s *Scene) DispatchPointer(id string, ev PointerEvent) (bool, error) {
	el := s.Find(id)
	if el == nil {
		return false, fmt.Errorf("%w: %s", ErrElementNotFound, id)
	}
	return el.Dispatch(ev), nil
}

// FormatTransform renders t as an SVG transform attribute.
func FormatTransform(t core.ViewTransform) string {
	return fmt.Sprintf("translate(%s,%s) scale(%s)", FormatFloat(t.X), FormatFloat(t.Y), FormatFloat(t.K))
}
