package htmlelements

import (
	"fmt"
	"strings"
)

// Radio is the value of the radio group. Exactly one value is selected at any time.
type Radio string

const (
	Radio1 Radio = "r1"
	Radio2 Radio = "r2"
)

// Radios lists the radio values in display order.
var Radios = []Radio{Radio1, Radio2}

// Valid reports whether r is a declared radio value.
func (r Radio) Valid() bool {
	return r == Radio1 || r == Radio2
}

// Option is a value of the select control.
type Option string

const (
	Option1 Option = "opt1"
	Option2 Option = "opt2"
	Option3 Option = "opt3"
)

// Options lists the select options in display order.
var Options = []Option{Option1, Option2, Option3}

// Valid reports whether o is a declared select option.
func (o Option) Valid() bool {
	for _, v := range Options {
		if o == v {
			return true
		}
	}
	return false
}

// Range bounds for the slider.
const (
	RangeMin = 0
	RangeMax = 100
)

// ClampRange limits v to [RangeMin, RangeMax].
func ClampRange(v int) int {
	if v < RangeMin {
		return RangeMin
	}
	if v > RangeMax {
		return RangeMax
	}
	return v
}

// Checkbox keys. The set is fixed.
const (
	CheckboxA = "a"
	CheckboxB = "b"
)

// CheckboxKeys lists the checkbox keys in display order.
var CheckboxKeys = []string{CheckboxA, CheckboxB}

// Checkboxes holds the two demo checkboxes.
type Checkboxes struct {
	A bool `json:"a" yaml:"a"`
	B bool `json:"b" yaml:"b"`
}

// Get returns the value for key. ok is false for keys outside the fixed set.
func (c Checkboxes) Get(key string) (checked bool, ok bool) {
	switch key {
	case CheckboxA:
		return c.A, true
	case CheckboxB:
		return c.B, true
	}
	return false, false
}

// Toggle returns a copy with key flipped.
func (c Checkboxes) Toggle(key string) (Checkboxes, bool) {
	switch key {
	case CheckboxA:
		c.A = !c.A
	case CheckboxB:
		c.B = !c.B
	default:
		return c, false
	}
	return c, true
}

// State is the view state of one display session.
//
// State is a value: handlers return a modified copy and never mutate the
// receiver, so a snapshot handed to the renderer cannot change underneath it.
type State struct {
	Text       string     `json:"text"`
	Checkboxes Checkboxes `json:"checkboxes"`
	Radio      Radio      `json:"radio"`
	Range      int        `json:"range"`
	Selected   Option     `json:"selected"`
	// FileName is empty when no file is chosen.
	FileName string `json:"fileName,omitempty"`
}

// DefaultState returns the state a new display session starts with.
func DefaultState() State {
	return State{
		Checkboxes: Checkboxes{A: true, B: false},
		Radio:      Radio1,
		Range:      50,
		Selected:   Option2,
	}
}

// HasFile reports whether a file is currently chosen.
func (s State) HasFile() bool {
	return s.FileName != ""
}

// WithText returns a copy with the text value replaced.
func (s State) WithText(v string) State {
	s.Text = v
	return s
}

// WithCheckboxes returns a copy with the checkbox values replaced.
func (s State) WithCheckboxes(c Checkboxes) State {
	s.Checkboxes = c
	return s
}

// WithRadio returns a copy with the radio selection replaced.
func (s State) WithRadio(r Radio) State {
	s.Radio = r
	return s
}

// WithRange returns a copy with the range value replaced, clamped to bounds.
func (s State) WithRange(v int) State {
	s.Range = ClampRange(v)
	return s
}

// WithSelected returns a copy with the selected option replaced.
func (s State) WithSelected(o Option) State {
	s.Selected = o
	return s
}

// WithFileName returns a copy with the chosen file replaced. Pass "" to clear.
func (s State) WithFileName(name string) State {
	s.FileName = name
	return s
}

// Validate checks the invariants of the data model.
func (s State) Validate() error {
	var problems []string
	if !s.Radio.Valid() {
		problems = append(problems, fmt.Sprintf("radio %q is not one of r1, r2", s.Radio))
	}
	if !s.Selected.Valid() {
		problems = append(problems, fmt.Sprintf("selected %q is not one of opt1, opt2, opt3", s.Selected))
	}
	if s.Range < RangeMin || s.Range > RangeMax {
		problems = append(problems, fmt.Sprintf("range %d is outside [%d, %d]", s.Range, RangeMin, RangeMax))
	}
	if len(problems) > 0 {
		return fmt.Errorf("invalid state: %s", strings.Join(problems, "; "))
	}
	return nil
}
