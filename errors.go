package htmlelements

import (
	"fmt"
	"strings"
)

// EventError describes a UI event that could not be applied.
type EventError struct {
	Action  string      // Event action name (e.g. "range")
	Field   string      // Payload field at fault, if any
	Value   interface{} // Offending value, if any
	Message string
	Hint    string
}

// Error implements the error interface.
func (e *EventError) Error() string {
	var b strings.Builder
	b.WriteString(e.Action)
	if e.Field != "" {
		b.WriteString(".")
		b.WriteString(e.Field)
	}
	b.WriteString(": ")
	b.WriteString(e.Message)
	return b.String()
}

// Format returns a multi-line description suitable for debug logs.
func (e *EventError) Format() string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("Event %q rejected: %s\n", e.Action, e.Message))
	if e.Field != "" {
		b.WriteString(fmt.Sprintf("  field: %s\n", e.Field))
	}
	if e.Value != nil {
		b.WriteString(fmt.Sprintf("  value: %#v\n", e.Value))
	}
	if e.Hint != "" {
		b.WriteString(fmt.Sprintf("  hint: %s\n", e.Hint))
	}
	return b.String()
}

// NewEventError creates a new EventError.
func NewEventError(action, message string) *EventError {
	return &EventError{
		Action:  action,
		Message: message,
	}
}

// WithField records which payload field was at fault.
func (e *EventError) WithField(field string, value interface{}) *EventError {
	e.Field = field
	e.Value = value
	return e
}

// WithHint adds a helpful hint to the error.
func (e *EventError) WithHint(hint string) *EventError {
	e.Hint = hint
	return e
}
