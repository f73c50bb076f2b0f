package sim

import "sort"

// ScheduledEvent is an effect that has been triggered but has not landed yet.
type ScheduledEvent struct {
	Process CausalProcess
	Origin  int // tick at which the process was triggered
}

// Schedule maps an absolute future tick to the events landing on it, in
// insertion order. Keys are never behind the owning model's clock: a key is
// deleted on the tick it is consumed.
type Schedule map[int][]ScheduledEvent

// Add appends an event landing at tick at.
func (s Schedule) Add(at int, ev ScheduledEvent) {
	s[at] = append(s[at], ev)
}

// Take removes and returns the events landing at tick at.
func (s Schedule) Take(at int) []ScheduledEvent {
	evs, ok := s[at]
	if !ok {
		return nil
	}
	delete(s, at)
	return evs
}

// Len returns the number of in-flight events.
func (s Schedule) Len() int {
	n := 0
	for _, evs := range s {
		n += len(evs)
	}
	return n
}

// Ticks returns the scheduled ticks in ascending order.
func (s Schedule) Ticks() []int {
	ticks := make([]int, 0, len(s))
	for t := range s {
		ticks = append(ticks, t)
	}
	sort.Ints(ticks)
	return ticks
}

// Clone returns a deep copy. Processes are shared since they are immutable.
func (s Schedule) Clone() Schedule {
	out := make(Schedule, len(s))
	for t, evs := range s {
		cp := make([]ScheduledEvent, len(evs))
		copy(cp, evs)
		out[t] = cp
	}
	return out
}

// PendingEvent is a read-only view of an in-flight event.
type PendingEvent struct {
	At      int
	Origin  int
	Process string
}

// Pending lists the in-flight events ordered by landing tick, then insertion order.
func (s Schedule) Pending() []PendingEvent {
	var out []PendingEvent
	for _, t := range s.Ticks() {
		for _, ev := range s[t] {
			out = append(out, PendingEvent{At: t, Origin: ev.Origin, Process: ev.Process.Name()})
		}
	}
	return out
}
