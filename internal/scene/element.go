package scene

import (
	"math"
	"strconv"
)

// Kind is the SVG element name an Element renders as.
type Kind string

const (
	KindGroup  Kind = "g"
	KindPath   Kind = "path"
	KindCircle Kind = "circle"
	KindRect   Kind = "rect"
	KindText   Kind = "text"
)

// Pointer event types.
const (
	EventMouseOver = "mouseover"
	EventMouseOut  = "mouseout"
	EventClick     = "click"
)

// PointerEvent is a pointer interaction at page coordinates.
type PointerEvent struct {
	Type string  `json:"type"`
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
}

// Handler reacts to a pointer event on an element.
type Handler func(el *Element, ev PointerEvent)

// Element is a node of the scene graph.
type Element struct {
	kind     Kind
	id       string
	class    string
	attrs    map[string]string
	text     string
	parent   *Element
	children []*Element
	handlers map[string]Handler
}

func newElement(kind Kind, class string) *Element {
	return &Element{
		kind:  kind,
		class: class,
		attrs: make(map[string]string),
	}
}

// Kind returns the element kind.
func (e *Element) Kind() Kind { return e.kind }

// ID returns the element id, empty if unset.
func (e *Element) ID() string { return e.id }

// SetID sets the element id.
func (e *Element) SetID(id string) *Element {
	e.id = id
	return e
}

// Class returns the element class.
func (e *Element) Class() string { return e.class }

// Attr returns an attribute value, empty if unset.
func (e *Element) Attr(name string) string { return e.attrs[name] }

// AttrFloat returns a numeric attribute, zero if unset or not a number.
func (e *Element) AttrFloat(name string) float64 {
	v, err := strconv.ParseFloat(e.attrs[name], 64)
	if err != nil {
		return 0
	}
	return v
}

// SetAttr sets an attribute. An empty value removes it.
func (e *Element) SetAttr(name, value string) *Element {
	if value == "" {
		delete(e.attrs, name)
		return e
	}
	e.attrs[name] = value
	return e
}

// SetFloat sets a numeric attribute.
func (e *Element) SetFloat(name string, v float64) *Element {
	return e.SetAttr(name, FormatFloat(v))
}

// Text returns the text content.
func (e *Element) Text() string { return e.text }

// SetText sets the text content.
func (e *Element) SetText(s string) *Element {
	e.text = s
	return e
}

// Append creates a child element and returns it.
func (e *Element) Append(kind Kind, class string) *Element {
	child := newElement(kind, class)
	child.parent = e
	e.children = append(e.children, child)
	return child
}

// Remove detaches the element from its parent. Handlers stay attached to
// the detached element but it no longer receives dispatched events.
func (e *Element) Remove() {
	if e.parent == nil {
		return
	}
	siblings := e.parent.children
	for i, c := range siblings {
		if c == e {
			e.parent.children = append(siblings[:i:i], siblings[i+1:]...)
			break
		}
	}
	e.parent = nil
}

// Attached reports whether the element is still part of a tree.
func (e *Element) Attached() bool { return e.parent != nil }

// Parent returns the parent element or nil.
func (e *Element) Parent() *Element { return e.parent }

// Children returns a copy of the child list.
func (e *Element) Children() []*Element {
	return append([]*Element(nil), e.children...)
}

// Clear removes every child.
func (e *Element) Clear() {
	for _, c := range e.children {
		c.parent = nil
	}
	e.children = nil
}

// On attaches h for the event type, replacing any previous handler.
// A nil handler detaches.
func (e *Element) On(event string, h Handler) *Element {
	if h == nil {
		delete(e.handlers, event)
		return e
	}
	if e.handlers == nil {
		e.handlers = make(map[string]Handler)
	}
	e.handlers[event] = h
	return e
}

// HasHandler reports whether a handler is attached for the event type.
func (e *Element) HasHandler(event string) bool {
	_, ok := e.handlers[event]
	return ok
}

// Dispatch runs the handler for ev.Type. It reports whether one ran.
func (e *Element) Dispatch(ev PointerEvent) bool {
	h, ok := e.handlers[ev.Type]
	if !ok {
		return false
	}
	h(e, ev)
	return true
}

// SelectAll returns descendants with the given class, depth first.
func (e *Element) SelectAll(class string) []*Element {
	var out []*Element
	e.walk(func(el *Element) {
		if el != e && el.class == class {
			out = append(out, el)
		}
	})
	return out
}

// Find returns the first descendant with the given id.
func (e *Element) Find(id string) *Element {
	var found *Element
	e.walk(func(el *Element) {
		if found == nil && el.id == id {
			found = el
		}
	})
	return found
}

func (e *Element) walk(fn func(*Element)) {
	fn(e)
	for _, c := range e.children {
		c.walk(fn)
	}
}

// FormatFloat renders v with at most three decimals.
func FormatFloat(v float64) string {
	return strconv.FormatFloat(math.Round(v*1000)/1000, 'f', -1, 64)
}
