package scene

import "time"

type transition struct {
	el       *Element
	attr     string
	from, to float64
	duration time.Duration
	elapsed  time.Duration
}

func (t *transition) step(dt time.Duration) bool {
	t.elapsed += dt
	if t.elapsed >= t.duration {
		t.el.SetFloat(t.attr, t.to)
		return true
	}
	frac := float64(t.elapsed) / float64(t.duration)
	t.el.SetFloat(t.attr, t.from+(t.to-t.from)*frac)
	return false
}

// Transition animates a numeric attribute of el towards to over duration,
// starting from its current value. A new transition on the same element
// replaces the pending one. A non-positive duration applies immediately.
func (s *Scene) Transition(el *Element, attr string, to float64, duration time.Duration) {
	delete(s.pending, el)
	if duration <= 0 {
		el.SetFloat(attr, to)
		return
	}
	s.pending[el] = &transition{
		el:       el,
		attr:     attr,
		from:     el.AttrFloat(attr),
		to:       to,
		duration: duration,
	}
}

// Interrupt cancels the pending transition on el, leaving the attribute at
// its current value. It reports whether one was pending.
func (s *Scene) Interrupt(el *Element) bool {
	if _, ok := s.pending[el]; !ok {
		return false
	}
	delete(s.pending, el)
	return true
}

// Pending reports whether el has a running transition.
func (s *Scene) Pending(el *Element) bool {
	_, ok := s.pending[el]
	return ok
}

// Advance moves every running transition forward by dt and returns how many
// are still running.
func (s *Scene) Advance(dt time.Duration) int {
	for el, t := range s.pending {
		if t.step(dt) {
			delete(s.pending, el)
		}
	}
	return len(s.pending)
}

// Settle runs every transition to completion.
func (s *Scene) Settle() {
	for el, t := range s.pending {
		t.el.SetFloat(t.attr, t.to)
		delete(s.pending, el)
	}
}
