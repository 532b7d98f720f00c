package core

// Delta describes what a single reconciliation pass changed on the surface.
type Delta struct {
	Entered   []string      `json:"entered"`
	Exited    []string      `json:"exited"`
	Kept      int           `json:"kept"`
	Count     int           `json:"count"`
	Transform ViewTransform `json:"transform"`
}

// Empty reports whether no marker was created or removed.
func (d Delta) Empty() bool {
	return len(d.Entered) == 0 && len(d.Exited) == 0
}
