package htmlelements

import "fmt"

// Apply computes the state that follows ev. It never modifies prev; on error
// the returned state is prev unchanged.
func Apply(prev State, ev Event) (State, error) {
	switch e := ev.(type) {
	case TextChanged:
		return prev.WithText(e.Value), nil

	case CheckboxToggled:
		next, ok := prev.Checkboxes.Toggle(e.Key)
		if !ok {
			return prev, NewEventError(ActionCheckbox, fmt.Sprintf("unknown checkbox %q", e.Key)).
				WithField("key", e.Key).
				WithHint("checkbox keys are a and b")
		}
		return prev.WithCheckboxes(next), nil

	case RadioSelected:
		if !e.Value.Valid() {
			return prev, NewEventError(ActionRadio, fmt.Sprintf("unknown radio value %q", e.Value)).
				WithField("value", string(e.Value)).
				WithHint("radio values are r1 and r2")
		}
		return prev.WithRadio(e.Value), nil

	case RangeChanged:
		return prev.WithRange(e.Value), nil

	case OptionSelected:
		if !e.Value.Valid() {
			return prev, NewEventError(ActionSelect, fmt.Sprintf("unknown option %q", e.Value)).
				WithField("value", string(e.Value)).
				WithHint("options are opt1, opt2 and opt3")
		}
		return prev.WithSelected(e.Value), nil

	case FilePicked:
		return prev.WithFileName(e.Name), nil

	case Reset:
		// The file picker display is derived from FileName, so clearing the
		// name also clears the picker on the next render.
		return prev.WithText("").WithFileName(""), nil

	case Submitted:
		return prev, nil

	case nil:
		return prev, NewEventError("", "nil event")
	}

	return prev, NewEventError(ev.Action(), fmt.Sprintf("unsupported event type %T", ev))
}
