// Package dialog is a declarative description of modal windows. A Runner
// renders a Window, blocks until the user presses a button or closes it, and
// reports the button and the final widget values.
package dialog

import (
	"context"
	"strconv"
)

// Kind identifies a widget type
type Kind string

const (
	KindVGroup   Kind = "VGroup"
	KindHGroup   Kind = "HGroup"
	KindLabel    Kind = "Label"
	KindLineEdit Kind = "LineEdit"
	KindTextEdit Kind = "TextEdit"
	KindButton   Kind = "Button"
	KindComboBox Kind = "ComboBox"
	KindCheckBox Kind = "CheckBox"
	KindSlider   Kind = "Slider"
	KindTree     Kind = "Tree"
)

// Widget is one node of a window's layout tree
type Widget struct {
	Kind        Kind     `json:"kind"`
	ID          string   `json:"id,omitempty"`
	Text        string   `json:"text,omitempty"`
	Placeholder string   `json:"placeholder,omitempty"`
	Items       []string `json:"items,omitempty"`
	Checked     bool     `json:"checked,omitempty"`
	Min         int      `json:"min,omitempty"`
	Max         int      `json:"max,omitempty"`
	Value       int      `json:"value,omitempty"`
	ReadOnly    bool     `json:"readOnly,omitempty"`
	Bold        bool     `json:"bold,omitempty"`
	Monospace   bool     `json:"monospace,omitempty"`
	WordWrap    bool     `json:"wordWrap,omitempty"`
	Frame       bool     `json:"frame,omitempty"`
	Weight      float64  `json:"weight,omitempty"`

	// Bind names the widget whose value this label mirrors. Format is applied
	// to slider values ("%d%%"); Details maps tree selections to label text.
	Bind    string            `json:"bind,omitempty"`
	Format  string            `json:"format,omitempty"`
	Details map[string]string `json:"details,omitempty"`

	Children []Widget `json:"children,omitempty"`
}

// Window is a modal dialog
type Window struct {
	ID     string `json:"id"`
	Title  string `json:"title"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
	Root   Widget `json:"root"`
}

// Response is the outcome of running a Window
type Response struct {
	// Clicked is the ID of the pressed button, or "" when the window was closed
	Clicked string            `json:"clicked"`
	Values  map[string]string `json:"values"`
}

// Value returns the final text of widget id
func (r Response) Value(id string) string {
	return r.Values[id]
}

// Bool returns the checked state of a check box
func (r Response) Bool(id string) bool {
	v := r.Values[id]
	return v == "true" || v == "1" || v == "True"
}

// Int returns a slider value, or def when missing
func (r Response) Int(id string, def int) int {
	n, err := strconv.Atoi(r.Values[id])
	if err != nil {
		return def
	}
	return n
}

// Runner shows windows
type Runner interface {
	Run(ctx context.Context, w Window) (Response, error)
}

// Walk calls fn for w and every descendant, depth first
func Walk(w Widget, fn func(Widget)) {
	fn(w)
	for _, c := range w.Children {
		Walk(c, fn)
	}
}

// Find returns the widget with the given id
func (w Window) Find(id string) (Widget, bool) {
	var found Widget
	ok := false
	Walk(w.Root, func(x Widget) {
		if !ok && x.ID == id {
			found, ok = x, true
		}
	})
	return found, ok
}

// Defaults returns the values a window reports when nothing is edited
func (w Window) Defaults() map[string]string {
	values := map[string]string{}
	Walk(w.Root, func(x Widget) {
		if x.ID == "" {
			return
		}
		switch x.Kind {
		case KindLineEdit, KindTextEdit:
			values[x.ID] = x.Text
		case KindComboBox:
			if len(x.Items) > 0 {
				values[x.ID] = x.Items[0]
			}
		case KindCheckBox:
			values[x.ID] = strconv.FormatBool(x.Checked)
		case KindSlider:
			values[x.ID] = strconv.Itoa(x.Value)
		case KindTree:
			values[x.ID] = ""
		}
	})
	return values
}
