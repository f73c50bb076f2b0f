package sim

// History is the ordered, append-only sequence of states. Index 0 holds the
// initial state; every small step appends exactly one entry.
type History []State

// Last returns the most recent entry.
func (h History) Last() State {
	return h[len(h)-1]
}

// Prev returns the entry before the most recent one, if there is one.
func (h History) Prev() (State, bool) {
	if len(h) < 2 {
		return State{}, false
	}
	return h[len(h)-2], true
}

// Clone returns an independent copy. States are immutable, so a shallow copy suffices.
func (h History) Clone() History {
	out := make(History, len(h))
	copy(out, h)
	return out
}

// WithNext returns a copy of h with s appended. Planners use it to ask whether
// a hypothetical action, recorded on the next small step, would trigger a process.
func (h History) WithNext(s State) History {
	out := make(History, len(h), len(h)+1)
	copy(out, h)
	return append(out, s)
}
