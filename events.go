package htmlelements

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Event action names as sent by the browser.
const (
	ActionText     = "text"
	ActionCheckbox = "checkbox"
	ActionRadio    = "radio"
	ActionRange    = "range"
	ActionSelect   = "select"
	ActionFile     = "file"
	ActionReset    = "reset"
	ActionSubmit   = "submit"
)

// Event is a decoded UI event.
type Event interface {
	Action() string
}

// TextChanged carries the raw value of the text input.
type TextChanged struct{ Value string }

// CheckboxToggled flips one checkbox.
type CheckboxToggled struct{ Key string }

// RadioSelected selects one radio value.
type RadioSelected struct{ Value Radio }

// RangeChanged carries the slider position, already parsed.
type RangeChanged struct{ Value int }

// OptionSelected carries the chosen select option.
type OptionSelected struct{ Value Option }

// FilePicked carries the display name of the first chosen file, or "" when
// the file list was empty.
type FilePicked struct{ Name string }

// Reset clears the text value and the chosen file.
type Reset struct{}

// Submitted is a form submission. It is suppressed.
type Submitted struct{}

func (TextChanged) Action() string     { return ActionText }
func (CheckboxToggled) Action() string { return ActionCheckbox }
func (RadioSelected) Action() string   { return ActionRadio }
func (RangeChanged) Action() string    { return ActionRange }
func (OptionSelected) Action() string  { return ActionSelect }
func (FilePicked) Action() string      { return ActionFile }
func (Reset) Action() string           { return ActionReset }
func (Submitted) Action() string       { return ActionSubmit }

// DecodeEvent converts a raw (action, data) pair into a typed event.
// Action names are matched case-insensitively.
func DecodeEvent(action string, data map[string]interface{}) (Event, error) {
	if data == nil {
		data = map[string]interface{}{}
	}

	act := strings.ToLower(strings.TrimSpace(action))
	switch act {
	case ActionText:
		v, err := stringField(act, data, "value")
		if err != nil {
			return nil, err
		}
		return TextChanged{Value: v}, nil

	case ActionCheckbox:
		key, err := stringField(act, data, "key")
		if err != nil {
			return nil, err
		}
		return CheckboxToggled{Key: key}, nil

	case ActionRadio:
		v, err := stringField(act, data, "value")
		if err != nil {
			return nil, err
		}
		return RadioSelected{Value: Radio(v)}, nil

	case ActionRange:
		raw, ok := data["value"]
		if !ok {
			return nil, NewEventError(act, "missing value").WithField("value", nil)
		}
		n, err := parseRange(raw)
		if err != nil {
			return nil, NewEventError(act, err.Error()).
				WithField("value", raw).
				WithHint("send the slider position as a number or numeric string")
		}
		return RangeChanged{Value: n}, nil

	case ActionSelect:
		v, err := stringField(act, data, "value")
		if err != nil {
			return nil, err
		}
		return OptionSelected{Value: Option(v)}, nil

	case ActionFile:
		return FilePicked{Name: firstFileName(data["files"])}, nil

	case ActionReset:
		return Reset{}, nil

	case ActionSubmit:
		return Submitted{}, nil
	}

	return nil, NewEventError(action, "unknown action").
		WithHint("expected one of text, checkbox, radio, range, select, file, reset, submit")
}

func stringField(action string, data map[string]interface{}, field string) (string, error) {
	raw, ok := data[field]
	if !ok {
		return "", NewEventError(action, "missing "+field).WithField(field, nil)
	}
	s, ok := raw.(string)
	if !ok {
		return "", NewEventError(action, fmt.Sprintf("%s must be a string", field)).WithField(field, raw)
	}
	return s, nil
}

// parseRange accepts the slider payload as a JSON number or a numeric string
// and returns it as an int. Clamping happens in the handler.
func parseRange(raw interface{}) (int, error) {
	switch v := raw.(type) {
	case float64:
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return 0, fmt.Errorf("value is not a finite number")
		}
		return int(math.Round(v)), nil
	case int:
		return v, nil
	case int64:
		return int(v), nil
	case json.Number:
		return parseRangeString(v.String())
	case string:
		return parseRangeString(v)
	}
	return 0, fmt.Errorf("value must be a number, got %T", raw)
}

func parseRangeString(s string) (int, error) {
	s = strings.TrimSpace(s)
	if n, err := strconv.Atoi(s); err == nil {
		return n, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("value %q is not numeric", s)
	}
	return int(math.Round(f)), nil
}

// firstFileName returns the name of the first entry of a file list. Entries
// may be plain names or objects with a "name" key. Anything else reads as
// "no selection".
func firstFileName(raw interface{}) string {
	list, ok := raw.([]interface{})
	if !ok || len(list) == 0 {
		return ""
	}
	switch f := list[0].(type) {
	case string:
		return f
	case map[string]interface{}:
		if name, ok := f["name"].(string); ok {
			return name
		}
	}
	return ""
}
