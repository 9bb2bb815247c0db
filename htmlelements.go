// Package htmlelements renders a catalogue of HTML elements (text, media,
// form controls, semantic tags, disclosure widgets) and holds the small
// amount of view state that makes the form controls interactive.
//
// The component is a unidirectional loop driven by a host: the host decodes a
// UI event with DecodeEvent, applies it to a Store, re-renders with Render or
// RenderSections, and paints the result. Apply is pure; State is a value.
package htmlelements

// Version is the release of the component and its CLI.
const Version = "0.1.0-dev"
