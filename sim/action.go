package sim

import "fmt"

// Action is an intervention do(Field = Value) supplied by an external actor.
// The zero value is NoAction: wait without injecting anything.
type Action struct {
	Field string
	Value any
}

// NoAction advances the world without an intervention.
var NoAction = Action{}

// Do builds the action do(field = value).
func Do(field string, value any) Action {
	return Action{Field: field, Value: value}
}

// Act builds an action on the transient action field, e.g. Act("toggle_faucet").
func Act(name string) Action {
	return Action{Field: ActionField, Value: name}
}

// IsNone reports whether a is the no-op action.
func (a Action) IsNone() bool {
	return a.Field == ""
}

// Apply sets the action's field on s.
func (a Action) Apply(s State) (State, error) {
	if a.IsNone() {
		return s, nil
	}
	return s.With(a.Field, a.Value)
}

func (a Action) String() string {
	if a.IsNone() {
		return "none"
	}
	return fmt.Sprintf("do(%s=%s)", a.Field, formatValue(a.Value))
}
