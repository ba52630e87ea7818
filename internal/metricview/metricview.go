// Package metricview contains the metric view generation core: metadata
// resolution, definition body generation, and DDL statement building.
// All functions are pure; statement execution belongs to the engine.
package metricview

import "fmt"

// ConfigError reports a malformed effective metric view configuration.
// It is fatal for the affected artifact only.
type ConfigError struct {
	// Subject identifies what carried the bad config (artifact path or
	// view name)
	Subject string
	// Field is the missing or invalid field
	Field string
	// Message describes the problem
	Message string
}

func (e *ConfigError) Error() string {
	if e.Subject != "" {
		return fmt.Sprintf("%s: invalid metric view config: %s", e.Subject, e.Message)
	}
	return fmt.Sprintf("invalid metric view config: %s", e.Message)
}
