// Package hosttest provides an in-memory host for tests.
package hosttest

import (
	"context"
	"errors"
	"sort"
	"strings"

	"github.com/menta2k/resolvekit/pkg/host"
)

// ErrInjected is returned by operations configured to fail
var ErrInjected = errors.New("hosttest: injected failure")

// Manager is an in-memory project manager
type Manager struct {
	Projects map[string]*Project
	Current  string

	// FailCreate makes CreateProject return no project for these names
	FailCreate map[string]bool
	// FailLoad makes LoadProject return no project for these names
	FailLoad map[string]bool
}

// NewManager returns a manager holding the given projects; the first one is current
func NewManager(projects ...*Project) *Manager {
	m := &Manager{Projects: map[string]*Project{}, FailCreate: map[string]bool{}, FailLoad: map[string]bool{}}
	for _, p := range projects {
		m.Projects[p.ProjectName] = p
	}
	if len(projects) > 0 {
		m.Current = projects[0].ProjectName
	}
	return m
}

func (m *Manager) CurrentProject(ctx context.Context) (host.Project, error) {
	p, ok := m.Projects[m.Current]
	if !ok {
		return nil, host.ErrNotFound
	}
	return p, nil
}

func (m *Manager) ListProjects(ctx context.Context) ([]string, error) {
	names := make([]string, 0, len(m.Projects))
	for name := range m.Projects {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

func (m *Manager) LoadProject(ctx context.Context, name string) (host.Project, error) {
	p, ok := m.Projects[name]
	if !ok || m.FailLoad[name] {
		return nil, host.ErrNotFound
	}
	m.Current = name
	return p, nil
}

func (m *Manager) CreateProject(ctx context.Context, name string) (host.Project, error) {
	if _, exists := m.Projects[name]; exists || m.FailCreate[name] {
		return nil, host.ErrNotFound
	}
	p := NewProject(name, nil)
	m.Projects[name] = p
	m.Current = name
	return p, nil
}

// Project is an in-memory project
type Project struct {
	ProjectName string
	Values      map[string]string
	// ReadOnly keys are rejected by SetSetting
	ReadOnly    map[string]bool
	SettingsErr error
	Timeline    *Timeline
	Pool        *MediaPool
}

// NewProject returns a project with a copy of values
func NewProject(name string, values map[string]string) *Project {
	p := &Project{ProjectName: name, Values: map[string]string{}, ReadOnly: map[string]bool{}, Pool: &MediaPool{}}
	for k, v := range values {
		p.Values[k] = v
	}
	return p
}

func (p *Project) Name(ctx context.Context) (string, error) {
	return p.ProjectName, nil
}

func (p *Project) Settings(ctx context.Context) (map[string]string, error) {
	if p.SettingsErr != nil {
		return nil, p.SettingsErr
	}
	out := make(map[string]string, len(p.Values))
	for k, v := range p.Values {
		out[k] = v
	}
	return out, nil
}

func (p *Project) SetSetting(ctx context.Context, key, value string) (bool, error) {
	if p.ReadOnly[key] {
		return false, nil
	}
	if strings.HasPrefix(key, "!") {
		return false, ErrInjected
	}
	p.Values[key] = value
	return true, nil
}

func (p *Project) CurrentTimeline(ctx context.Context) (host.Timeline, error) {
	if p.Timeline == nil {
		return nil, host.ErrNotFound
	}
	return p.Timeline, nil
}

func (p *Project) MediaPool(ctx context.Context) (host.MediaPool, error) {
	if p.Pool == nil {
		return nil, host.ErrNotFound
	}
	return p.Pool, nil
}

// Timeline is an in-memory timeline
type Timeline struct {
	TimelineName string
	Start, End   int
	Values       map[string]string
	SettingsErr  error
	Item         *Item
}

func (t *Timeline) Name(ctx context.Context) (string, error) {
	return t.TimelineName, nil
}

func (t *Timeline) StartFrame(ctx context.Context) (int, error) {
	return t.Start, nil
}

func (t *Timeline) EndFrame(ctx context.Context) (int, error) {
	return t.End, nil
}

func (t *Timeline) Settings(ctx context.Context) (map[string]string, error) {
	if t.SettingsErr != nil {
		return nil, t.SettingsErr
	}
	return t.Values, nil
}

func (t *Timeline) CurrentVideoItem(ctx context.Context) (host.MediaPoolItem, error) {
	if t.Item == nil {
		return nil, host.ErrNotFound
	}
	return t.Item, nil
}

// Item is an in-memory media pool item
type Item struct {
	Properties map[string]string
	Replaced   []string
	// NoReplace simulates hosts without ReplaceClip
	NoReplace bool
}

// NewItem returns a clip whose file path is path
func NewItem(path string) *Item {
	return &Item{Properties: map[string]string{host.FilePathProperty: path}}
}

func (i *Item) ClipProperty(ctx context.Context, key string) (string, error) {
	return i.Properties[key], nil
}

func (i *Item) ReplaceClip(ctx context.Context, path string) (bool, error) {
	if i.NoReplace {
		return false, host.ErrUnsupported
	}
	i.Replaced = append(i.Replaced, path)
	return true, nil
}

// MediaPool records imported paths
type MediaPool struct {
	Imported []string
}

func (m *MediaPool) ImportMedia(ctx context.Context, paths []string) (bool, error) {
	m.Imported = append(m.Imported, paths...)
	return true, nil
}

// Console records printed text and replays scripted answers
type Console struct {
	Lines   []string
	Answers []string
}

func (c *Console) Print(ctx context.Context, text string) error {
	c.Lines = append(c.Lines, text)
	return nil
}

func (c *Console) Prompt(ctx context.Context, question string) (string, error) {
	c.Lines = append(c.Lines, question)
	if len(c.Answers) == 0 {
		return "", nil
	}
	a := c.Answers[0]
	c.Answers = c.Answers[1:]
	return a, nil
}

// Output returns everything printed, joined by newlines
func (c *Console) Output() string {
	return strings.Join(c.Lines, "\n")
}

var (
	_ host.ProjectManager = (*Manager)(nil)
	_ host.Project        = (*Project)(nil)
	_ host.Timeline       = (*Timeline)(nil)
	_ host.MediaPoolItem  = (*Item)(nil)
	_ host.MediaPool      = (*MediaPool)(nil)
	_ host.Console        = (*Console)(nil)
)
