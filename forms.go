package htmlelements

import (
	"strconv"

	"golang.org/x/net/html"
)

const inputClass = "mt-1 block w-full rounded border p-2"

// optionLabels are the visible texts of the select options.
var optionLabels = map[Option]string{
	Option1: "Option 1",
	Option2: "Option 2",
	Option3: "Option 3",
}

var radioLabels = map[Radio]string{
	Radio1: "Radio 1",
	Radio2: "Radio 2",
}

var checkboxLabels = map[string]string{
	CheckboxA: "Option A",
	CheckboxB: "Option B",
}

// RangeLabel is the text shown next to the slider for a range value.
func RangeLabel(v int) string {
	return strconv.Itoa(v)
}

// renderForm builds the form controls section body. Controls that carry a
// data-action attribute are bound to State; the rest are uncontrolled demos.
func renderForm(s State) *html.Node {
	rangeText := RangeLabel(s.Range)

	textInputs := el("div", attrs("class", "grid sm:grid-cols-2 gap-3"),
		labelled("Text", el("input", attrs(
			"id", "text-input", "class", inputClass, "value", s.Text,
			"placeholder", "type something", "data-action", ActionText))),
		labelled("Email", el("input", attrs("type", "email", "class", inputClass, "placeholder", "you@example.com"))),
		labelled("Password", el("input", attrs("type", "password", "class", inputClass))),
		labelled("Number", el("input", attrs("type", "number", "class", inputClass))),
		labelled("Date", el("input", attrs("type", "date", "class", inputClass))),
		labelled("Color", el("input", attrs("type", "color", "class", "mt-1 block w-24 h-10 p-0"))),
		el("label", attrs("class", "block"),
			el("span", attrs("class", "text-sm"),
				text("Range "),
				el("small", attrs("id", "range-label"), text("("+rangeText+")")),
			),
			el("input", attrs(
				"id", "range-input", "type", "range",
				"min", strconv.Itoa(RangeMin), "max", strconv.Itoa(RangeMax),
				"value", rangeText, "class", "w-full", "data-action", ActionRange)),
		),
	)

	checkboxes := el("div", attrs("class", "flex gap-4 mt-2"))
	for _, key := range CheckboxKeys {
		checked, _ := s.Checkboxes.Get(key)
		checkboxes.AppendChild(el("label", nil,
			el("input", flag(attrs(
				"id", "checkbox-"+key, "type", "checkbox",
				"data-action", ActionCheckbox, "data-key", key), "checked", checked)),
			text(" "+checkboxLabels[key]),
		))
	}

	radios := el("div", attrs("class", "flex gap-4 mt-2"))
	for _, r := range Radios {
		radios.AppendChild(el("label", nil,
			el("input", flag(attrs(
				"id", "radio-"+string(r), "type", "radio", "name", "r",
				"value", string(r), "data-action", ActionRadio), "checked", s.Radio == r)),
			text(" "+radioLabels[r]),
		))
	}

	sel := el("select", attrs("id", "select-input", "class", inputClass, "data-action", ActionSelect))
	for _, o := range Options {
		sel.AppendChild(el("option", flag(attrs("value", string(o)), "selected", s.Selected == o), text(optionLabels[o])))
	}

	datalist := el("datalist", attrs("id", "browsers"))
	for _, b := range []string{"Chrome", "Firefox", "Edge"} {
		datalist.AppendChild(el("option", attrs("value", b)))
	}

	// The picker shows no selection whenever data-file-name is empty; the
	// client clears the input to match.
	fileLabel := el("label", attrs("class", "block"),
		el("span", attrs("class", "text-sm"), text("File")),
		el("input", attrs(
			"id", "file-input", "type", "file", "class", "mt-1",
			"data-action", ActionFile, "data-file-name", s.FileName)),
	)
	if s.HasFile() {
		fileLabel.AppendChild(el("div", attrs("id", "file-selected", "class", "mt-1 text-sm"), text("Selected: "+s.FileName)))
	}

	controls := el("div", attrs("class", "mt-4"),
		el("span", attrs("class", "text-sm"), text("Checkboxes")),
		checkboxes,
		el("div", attrs("class", "mt-3"),
			el("span", attrs("class", "text-sm"), text("Radio")),
			radios,
		),
		el("div", attrs("class", "mt-3"),
			el("label", attrs("class", "block"),
				el("span", attrs("class", "text-sm"), text("Textarea")),
				el("textarea", attrs("class", inputClass, "rows", "3"), text("Hello")),
			),
		),
		el("div", attrs("class", "mt-3"),
			el("label", attrs("class", "block"),
				el("span", attrs("class", "text-sm"), text("Select")),
				sel,
			),
		),
		el("div", attrs("class", "mt-3"),
			el("label", attrs("class", "block"),
				el("span", attrs("class", "text-sm"), text("Datalist")),
				el("input", attrs("list", "browsers", "class", inputClass, "placeholder", "Try typing 'Ch'")),
				datalist,
			),
		),
		el("div", attrs("class", "mt-3"), fileLabel),
		el("div", attrs("class", "mt-3 flex gap-2"),
			el("button", attrs("class", "px-3 py-1 rounded bg-slate-800 text-white", "type", "submit"), text("Submit")),
			el("button", attrs("id", "reset-button", "class", "px-3 py-1 rounded border", "type", "button", "data-action", ActionReset), text("Reset")),
		),
		el("div", attrs("class", "mt-3"),
			el("label", nil,
				text("Output element: "),
				el("output", attrs("id", "text-preview", "name", "out"), text("Preview: "+s.Text)),
			),
		),
		el("div", attrs("class", "mt-3"),
			el("label", nil, text("Progress & Meter")),
			el("div", attrs("class", "flex gap-3 items-center mt-1"),
				el("progress", attrs("id", "range-progress", "value", rangeText, "max", strconv.Itoa(RangeMax))),
				el("meter", attrs("id", "range-meter", "value", rangeText, "min", strconv.Itoa(RangeMin), "max", strconv.Itoa(RangeMax)), text(rangeText)),
			),
		),
	)

	return el("form", attrs("id", "demo-form", "data-action", ActionSubmit),
		el("fieldset", attrs("class", "border p-4 rounded"),
			el("legend", attrs("class", "font-semibold"), text("Text inputs")),
			textInputs,
			controls,
		),
	)
}

func labelled(caption string, control *html.Node) *html.Node {
	return el("label", attrs("class", "block"),
		el("span", attrs("class", "text-sm"), text(caption)),
		control,
	)
}
