package sim

import (
	"fmt"
	"strings"
)

// ActionField is the transient field holding the currently pending action name.
// A nil value means no action is pending.
const ActionField = "action"

// Field is a single named value used to build a State.
type Field struct {
	Name  string
	Value any
}

// State is an immutable snapshot of named fields.
// Field order is fixed at construction and shared by every derived State,
// so two States built from the same schema compare field by field.
// Values must be comparable scalars (bool, string, int or nil).
type State struct {
	names  []string
	values []any
}

// NewState builds a State from the given fields, in order.
// The action field is appended (as none) when the caller does not declare it.
func NewState(fields ...Field) (State, error) {
	s := State{
		names:  make([]string, 0, len(fields)+1),
		values: make([]any, 0, len(fields)+1),
	}
	seen := make(map[string]bool, len(fields)+1)
	for _, f := range fields {
		if f.Name == "" {
			return State{}, &ConfigError{Field: f.Name, Reason: "empty field name"}
		}
		if seen[f.Name] {
			return State{}, &ConfigError{Field: f.Name, Reason: "duplicate field"}
		}
		if !isScalar(f.Value) {
			return State{}, &ConfigError{Field: f.Name, Reason: fmt.Sprintf("unsupported value type %T", f.Value)}
		}
		seen[f.Name] = true
		s.names = append(s.names, f.Name)
		s.values = append(s.values, f.Value)
	}
	if !seen[ActionField] {
		s.names = append(s.names, ActionField)
		s.values = append(s.values, nil)
	}
	return s, nil
}

func isScalar(v any) bool {
	switch v.(type) {
	case nil, bool, string, int:
		return true
	}
	return false
}

func (s State) index(name string) int {
	for i, n := range s.names {
		if n == name {
			return i
		}
	}
	return -1
}

// Fields returns the field names in declaration order.
func (s State) Fields() []string {
	out := make([]string, len(s.names))
	copy(out, s.names)
	return out
}

// Has reports whether the state declares the named field.
func (s State) Has(name string) bool {
	return s.index(name) >= 0
}

// Get returns the value of the named field.
func (s State) Get(name string) (any, bool) {
	i := s.index(name)
	if i < 0 {
		return nil, false
	}
	return s.values[i], true
}

// Bool returns the named field as a bool; missing or non-bool fields read as false.
func (s State) Bool(name string) bool {
	v, _ := s.Get(name)
	b, _ := v.(bool)
	return b
}

// Str returns the named field as a string; missing or non-string fields read as "".
func (s State) Str(name string) string {
	v, _ := s.Get(name)
	str, _ := v.(string)
	return str
}

// Action returns the pending action value, or nil if none is pending.
func (s State) Action() any {
	v, _ := s.Get(ActionField)
	return v
}

// With returns a copy of s with the named field set to value.
// Setting a field the state does not declare is a configuration error.
func (s State) With(name string, value any) (State, error) {
	i := s.index(name)
	if i < 0 {
		return s, &ConfigError{Field: name, Reason: "unknown state field"}
	}
	if !isScalar(value) {
		return s, &ConfigError{Field: name, Reason: fmt.Sprintf("unsupported value type %T", value)}
	}
	values := make([]any, len(s.values))
	copy(values, s.values)
	values[i] = value
	return State{names: s.names, values: values}, nil
}

// Update applies several field assignments at once.
func (s State) Update(fields ...Field) (State, error) {
	var err error
	for _, f := range fields {
		if s, err = s.With(f.Name, f.Value); err != nil {
			return s, err
		}
	}
	return s, nil
}

// Equal reports structural equality over all fields, including the action field.
func (s State) Equal(o State) bool {
	if len(s.names) != len(o.names) {
		return false
	}
	for i := range s.names {
		if s.names[i] != o.names[i] || s.values[i] != o.values[i] {
			return false
		}
	}
	return true
}

// IsZero reports whether s was never initialised.
func (s State) IsZero() bool {
	return len(s.names) == 0
}

// Signature is a reduced projection of the state over its non-transient fields,
// usable as a map key for deduplicating search nodes.
func (s State) Signature() string {
	var b strings.Builder
	for i, n := range s.names {
		if n == ActionField {
			continue
		}
		fmt.Fprintf(&b, "%s=%v;", n, s.values[i])
	}
	return b.String()
}

// Diff lists the fields whose values differ between s and o as "name=value" using o's values.
func (s State) Diff(o State) []string {
	var changed []string
	for i, n := range o.names {
		v, ok := s.Get(n)
		if !ok || v != o.values[i] {
			changed = append(changed, fmt.Sprintf("%s=%s", n, formatValue(o.values[i])))
		}
	}
	return changed
}

func (s State) String() string {
	parts := make([]string, len(s.names))
	for i, n := range s.names {
		parts[i] = fmt.Sprintf("%s=%s", n, formatValue(s.values[i]))
	}
	return "State(" + strings.Join(parts, ", ") + ")"
}

func formatValue(v any) string {
	if v == nil {
		return "none"
	}
	return fmt.Sprintf("%v", v)
}
