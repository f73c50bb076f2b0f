package sim

import (
	"errors"
	"fmt"
)

// ErrTickLimit is returned by BigStep when the per-call tick cap is reached
// while events are still pending.
var ErrTickLimit = errors.New("big step tick limit reached")

// ConfigError reports a programming or configuration mistake, such as an action
// naming a field the state does not have.
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("configuration error: %s", e.Reason)
	}
	return fmt.Sprintf("configuration error: %s %q", e.Reason, e.Field)
}
