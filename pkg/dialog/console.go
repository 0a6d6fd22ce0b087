package dialog

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/menta2k/resolvekit/pkg/host"
)

const rule = "=================================================="

// ConsoleRunner renders windows as console prompts, for hosts without a UI manager
type ConsoleRunner struct {
	console host.Console
}

// NewConsoleRunner creates a runner that prints to and reads from c
func NewConsoleRunner(c host.Console) *ConsoleRunner {
	return &ConsoleRunner{console: c}
}

// Run prints the window, asks for every input in layout order and then for the button
func (r *ConsoleRunner) Run(ctx context.Context, w Window) (Response, error) {
	resp := Response{Values: w.Defaults()}
	if err := r.console.Print(ctx, "\n"+rule+"\n"+w.Title+"\n"+rule); err != nil {
		return resp, err
	}

	var (
		buttons   []Widget
		lastLabel string
		err       error
	)
	Walk(w.Root, func(x Widget) {
		if err != nil {
			return
		}
		switch x.Kind {
		case KindLabel:
			if x.Bind == "" && strings.TrimSpace(x.Text) != "" {
				lastLabel = strings.TrimSpace(x.Text)
				err = r.console.Print(ctx, x.Text)
			}
		case KindTextEdit:
			err = r.console.Print(ctx, x.Text)
		case KindLineEdit:
			err = r.lineEdit(ctx, x, prompt(x, lastLabel), resp.Values)
		case KindComboBox:
			err = r.choose(ctx, x, prompt(x, lastLabel), true, resp.Values)
		case KindTree:
			err = r.choose(ctx, x, prompt(x, lastLabel), false, resp.Values)
			if err == nil && x.ID != "" {
				err = r.details(ctx, w, x.ID, resp.Values[x.ID])
			}
		case KindCheckBox:
			err = r.checkBox(ctx, x, resp.Values)
		case KindSlider:
			err = r.slider(ctx, x, prompt(x, lastLabel), resp.Values)
		case KindButton:
			buttons = append(buttons, x)
		}
	})
	if err != nil {
		return resp, err
	}

	switch len(buttons) {
	case 0:
	case 1:
		resp.Clicked = buttons[0].ID
	default:
		lines := make([]string, len(buttons))
		for i, b := range buttons {
			lines[i] = fmt.Sprintf("  %d) %s", i+1, b.Text)
		}
		if err := r.console.Print(ctx, strings.Join(lines, "\n")); err != nil {
			return resp, err
		}
		answer, err := r.console.Prompt(ctx, fmt.Sprintf("Choose action (1-%d) [1]: ", len(buttons)))
		if err != nil {
			return resp, err
		}
		if i, ok := pick(answer, len(buttons), 1); ok {
			resp.Clicked = buttons[i].ID
		}
	}
	return resp, nil
}

func prompt(x Widget, lastLabel string) string {
	switch {
	case lastLabel != "":
		return strings.TrimSuffix(lastLabel, ":")
	case x.Placeholder != "":
		return x.Placeholder
	case x.Text != "" && x.Kind != KindLineEdit:
		return x.Text
	}
	return x.ID
}

func (r *ConsoleRunner) lineEdit(ctx context.Context, x Widget, label string, values map[string]string) error {
	q := label + ": "
	if x.Text != "" {
		q = fmt.Sprintf("%s [%s]: ", label, x.Text)
	}
	answer, err := r.console.Prompt(ctx, q)
	if err != nil {
		return err
	}
	if a := strings.TrimSpace(answer); a != "" {
		values[x.ID] = a
	}
	return nil
}

func (r *ConsoleRunner) choose(ctx context.Context, x Widget, label string, hasDefault bool, values map[string]string) error {
	if len(x.Items) == 0 {
		return nil
	}
	lines := make([]string, len(x.Items))
	for i, item := range x.Items {
		lines[i] = fmt.Sprintf("  %d. %s", i+1, item)
	}
	if err := r.console.Print(ctx, strings.Join(lines, "\n")); err != nil {
		return err
	}

	q := fmt.Sprintf("%s (1-%d): ", label, len(x.Items))
	def := 0
	if hasDefault {
		q = fmt.Sprintf("%s (1-%d) [1]: ", label, len(x.Items))
		def = 1
	}
	answer, err := r.console.Prompt(ctx, q)
	if err != nil {
		return err
	}
	if i, ok := pick(answer, len(x.Items), def); ok {
		values[x.ID] = x.Items[i]
	} else if !hasDefault {
		values[x.ID] = ""
	}
	return nil
}

// details prints the text a bound label would show for the current tree selection
func (r *ConsoleRunner) details(ctx context.Context, w Window, treeID, selected string) error {
	if selected == "" {
		return nil
	}
	var text string
	Walk(w.Root, func(x Widget) {
		if x.Kind == KindLabel && x.Bind == treeID {
			text = x.Details[selected]
		}
	})
	if text == "" {
		return nil
	}
	return r.console.Print(ctx, text)
}

func (r *ConsoleRunner) checkBox(ctx context.Context, x Widget, values map[string]string) error {
	def := "n"
	if x.Checked {
		def = "y"
	}
	answer, err := r.console.Prompt(ctx, fmt.Sprintf("%s (y/n) [%s]: ", x.Text, def))
	if err != nil {
		return err
	}
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes":
		values[x.ID] = "true"
	case "n", "no":
		values[x.ID] = "false"
	}
	return nil
}

func (r *ConsoleRunner) slider(ctx context.Context, x Widget, label string, values map[string]string) error {
	answer, err := r.console.Prompt(ctx, fmt.Sprintf("%s (%d-%d) [%d]: ", label, x.Min, x.Max, x.Value))
	if err != nil {
		return err
	}
	n, convErr := strconv.Atoi(strings.TrimSpace(answer))
	if convErr != nil {
		return nil
	}
	values[x.ID] = strconv.Itoa(max(x.Min, min(x.Max, n)))
	return nil
}

// pick converts a 1-based answer to an index; empty input selects def when def > 0
func pick(answer string, n, def int) (int, bool) {
	answer = strings.TrimSpace(answer)
	if answer == "" {
		if def > 0 {
			return def - 1, true
		}
		return 0, false
	}
	i, err := strconv.Atoi(answer)
	if err != nil || i < 1 || i > n {
		return 0, false
	}
	return i - 1, true
}
