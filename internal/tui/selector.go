package tui

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// Option is one selectable entry.
type Option struct {
	Label       string
	Description string
	Value       string
}

type selectorKeyMap struct {
	Up     key.Binding
	Down   key.Binding
	Select key.Binding
	Quit   key.Binding
}

func defaultSelectorKeyMap() selectorKeyMap {
	return selectorKeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		Select: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "select"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c", "esc"),
			key.WithHelp("q/esc", "quit"),
		),
	}
}

// Selector is a single-choice list.
type Selector struct {
	title     string
	options   []Option
	cursor    int
	selected  int
	keyMap    selectorKeyMap
	cancelled bool
}

// NewSelector creates a selector with the cursor on the first option.
func NewSelector(title string, options []Option) Selector {
	return Selector{
		title:    title,
		options:  options,
		selected: -1,
		keyMap:   defaultSelectorKeyMap(),
	}
}

// Init implements tea.Model.
func (s Selector) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (s Selector) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(msg, s.keyMap.Up):
			if s.cursor > 0 {
				s.cursor--
			}
		case key.Matches(msg, s.keyMap.Down):
			if s.cursor < len(s.options)-1 {
				s.cursor++
			}
		case key.Matches(msg, s.keyMap.Select):
			s.selected = s.cursor
			return s, tea.Quit
		case key.Matches(msg, s.keyMap.Quit):
			s.cancelled = true
			return s, tea.Quit
		}
	}
	return s, nil
}

// View implements tea.Model.
func (s Selector) View() string {
	var b strings.Builder
	b.WriteString(TitleStyle.Render(s.title))
	b.WriteString("\n\n")

	for i, opt := range s.options {
		style, symbol := UnselectedStyle, SymbolUnselected
		if i == s.cursor {
			style, symbol = SelectedStyle, SymbolSelected
		}
		b.WriteString("  ")
		b.WriteString(style.Render(symbol + " " + opt.Label))
		b.WriteString("\n")
		if opt.Description != "" {
			b.WriteString(DescriptionStyle.Render(opt.Description))
			b.WriteString("\n")
		}
	}

	b.WriteString(HelpStyle.Render("↑/↓ navigate • enter select • q quit"))
	return b.String()
}

// Value returns the selected option value, or "" when nothing was chosen.
func (s Selector) Value() string {
	if s.selected >= 0 && s.selected < len(s.options) {
		return s.options[s.selected].Value
	}
	return ""
}

// Cancelled reports whether the user quit without choosing.
func (s Selector) Cancelled() bool {
	return s.cancelled
}

// ErrCancelled is returned by Select when the user quits.
var ErrCancelled = errors.New("selection cancelled")

// Select runs a selector program and returns the chosen value.
func Select(title string, options []Option, opts ...tea.ProgramOption) (string, error) {
	final, err := tea.NewProgram(NewSelector(title, options), opts...).Run()
	if err != nil {
		return "", fmt.Errorf("selector failed: %w", err)
	}
	s := final.(Selector)
	if s.Cancelled() || s.Value() == "" {
		return "", ErrCancelled
	}
	return s.Value(), nil
}
