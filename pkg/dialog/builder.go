package dialog

import "context"

// VGroup stacks children vertically
func VGroup(children ...Widget) Widget {
	return Widget{Kind: KindVGroup, Children: children}
}

// HGroup lays children out horizontally
func HGroup(children ...Widget) Widget {
	return Widget{Kind: KindHGroup, Children: children}
}

// Label is static text
func Label(text string) Widget {
	return Widget{Kind: KindLabel, Text: text}
}

// LineEdit is a single-line text input
func LineEdit(id, text, placeholder string) Widget {
	return Widget{Kind: KindLineEdit, ID: id, Text: text, Placeholder: placeholder}
}

// TextEdit is a multi-line read-only text area
func TextEdit(id, text string) Widget {
	return Widget{Kind: KindTextEdit, ID: id, Text: text, ReadOnly: true}
}

// Button is a push button; pressing it closes the window
func Button(id, text string) Widget {
	return Widget{Kind: KindButton, ID: id, Text: text, Weight: 1}
}

// ComboBox offers a fixed choice; the first item is selected initially
func ComboBox(id string, items ...string) Widget {
	return Widget{Kind: KindComboBox, ID: id, Items: items}
}

// CheckBox is a labelled toggle
func CheckBox(id, text string, checked bool) Widget {
	return Widget{Kind: KindCheckBox, ID: id, Text: text, Checked: checked}
}

// Slider selects an integer in [min, max]
func Slider(id string, lo, hi, value int) Widget {
	return Widget{Kind: KindSlider, ID: id, Min: lo, Max: hi, Value: value}
}

// Tree lists selectable rows
func Tree(id string, items ...string) Widget {
	return Widget{Kind: KindTree, ID: id, Items: items}
}

// WithID sets the widget id
func (w Widget) WithID(id string) Widget {
	w.ID = id
	return w
}

// Emphasized renders the text in bold
func (w Widget) Emphasized() Widget {
	w.Bold = true
	return w
}

// Framed draws a frame around a group
func (w Widget) Framed() Widget {
	w.Frame = true
	return w
}

// Wrapped enables word wrap on a label
func (w Widget) Wrapped() Widget {
	w.WordWrap = true
	return w
}

// Mono uses a fixed-width font
func (w Widget) Mono() Widget {
	w.Monospace = true
	return w
}

// BoundTo makes a label mirror the value of another widget
func (w Widget) BoundTo(id, format string) Widget {
	w.Bind = id
	w.Format = format
	return w
}

// WithDetails sets the text shown in a bound label for each tree selection
func (w Widget) WithDetails(details map[string]string) Widget {
	w.Details = details
	return w
}

// Message IDs
const (
	OK = "OK"
)

// Message builds a window with text and an OK button
func Message(title, text string) Window {
	return Window{
		ID:     "MessageWin",
		Title:  title,
		Width:  420,
		Height: 160,
		Root: VGroup(
			Label(text).Wrapped(),
			Button(OK, "OK"),
		),
	}
}

// Report builds a window with a scrollable monospace report and an OK button
func Report(title, text string) Window {
	return Window{
		ID:     "ReportWin",
		Title:  title,
		Width:  500,
		Height: 400,
		Root: VGroup(
			TextEdit("ReportText", text).Mono(),
			Button(OK, "OK"),
		),
	}
}

// ShowMessage runs a Message window
func ShowMessage(ctx context.Context, r Runner, title, text string) error {
	_, err := r.Run(ctx, Message(title, text))
	return err
}
