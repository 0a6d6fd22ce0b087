package bridge

import (
	"context"

	"github.com/menta2k/resolvekit/pkg/dialog"
	"github.com/menta2k/resolvekit/pkg/host"
)

// handle calls a method that returns a host object
func (c *Client) handle(ctx context.Context, method, on string, params any) (string, error) {
	var h *string
	if err := c.Call(ctx, method, on, params, &h); err != nil {
		return "", err
	}
	if h == nil || *h == "" {
		return "", host.ErrNotFound
	}
	return *h, nil
}

func (c *Client) text(ctx context.Context, method, on string, params any) (string, error) {
	var s string
	err := c.Call(ctx, method, on, params, &s)
	return s, err
}

func (c *Client) flag(ctx context.Context, method, on string, params any) (bool, error) {
	var ok bool
	err := c.Call(ctx, method, on, params, &ok)
	return ok, err
}

func (c *Client) number(ctx context.Context, method, on string) (int, error) {
	var n int
	err := c.Call(ctx, method, on, nil, &n)
	return n, err
}

func (c *Client) values(ctx context.Context, method, on string) (map[string]string, error) {
	out := map[string]string{}
	if err := c.Call(ctx, method, on, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ProjectManager returns the host's project manager
func (c *Client) ProjectManager() host.ProjectManager {
	return projectManager{c: c}
}

// Console returns the host's script console
func (c *Client) Console() host.Console {
	return console{c: c}
}

// Runner returns a dialog runner that asks the stub to render windows with
// the host's own UI toolkit
func (c *Client) Runner() dialog.Runner {
	return runner{c: c}
}

type projectManager struct{ c *Client }

func (m projectManager) CurrentProject(ctx context.Context) (host.Project, error) {
	h, err := m.c.handle(ctx, MethodCurrentProject, "", nil)
	if err != nil {
		return nil, err
	}
	return project{c: m.c, h: h}, nil
}

func (m projectManager) ListProjects(ctx context.Context) ([]string, error) {
	var names []string
	if err := m.c.Call(ctx, MethodListProjects, "", nil, &names); err != nil {
		return nil, err
	}
	return names, nil
}

func (m projectManager) LoadProject(ctx context.Context, name string) (host.Project, error) {
	h, err := m.c.handle(ctx, MethodLoadProject, "", NameParams{Name: name})
	if err != nil {
		return nil, err
	}
	return project{c: m.c, h: h}, nil
}

func (m projectManager) CreateProject(ctx context.Context, name string) (host.Project, error) {
	h, err := m.c.handle(ctx, MethodCreateProject, "", NameParams{Name: name})
	if err != nil {
		return nil, err
	}
	return project{c: m.c, h: h}, nil
}

type project struct {
	c *Client
	h string
}

func (p project) Name(ctx context.Context) (string, error) {
	return p.c.text(ctx, MethodProjectName, p.h, nil)
}

func (p project) Settings(ctx context.Context) (map[string]string, error) {
	return p.c.values(ctx, MethodProjectSettings, p.h)
}

func (p project) SetSetting(ctx context.Context, key, value string) (bool, error) {
	return p.c.flag(ctx, MethodSetSetting, p.h, SettingParams{Key: key, Value: value})
}

func (p project) CurrentTimeline(ctx context.Context) (host.Timeline, error) {
	h, err := p.c.handle(ctx, MethodCurrentTimeline, p.h, nil)
	if err != nil {
		return nil, err
	}
	return timeline{c: p.c, h: h}, nil
}

func (p project) MediaPool(ctx context.Context) (host.MediaPool, error) {
	h, err := p.c.handle(ctx, MethodMediaPool, p.h, nil)
	if err != nil {
		return nil, err
	}
	return mediaPool{c: p.c, h: h}, nil
}

type timeline struct {
	c *Client
	h string
}

func (t timeline) Name(ctx context.Context) (string, error) {
	return t.c.text(ctx, MethodTimelineName, t.h, nil)
}

func (t timeline) StartFrame(ctx context.Context) (int, error) {
	return t.c.number(ctx, MethodStartFrame, t.h)
}

func (t timeline) EndFrame(ctx context.Context) (int, error) {
	return t.c.number(ctx, MethodEndFrame, t.h)
}

func (t timeline) Settings(ctx context.Context) (map[string]string, error) {
	return t.c.values(ctx, MethodTimelineSettings, t.h)
}

func (t timeline) CurrentVideoItem(ctx context.Context) (host.MediaPoolItem, error) {
	h, err := t.c.handle(ctx, MethodCurrentVideoItem, t.h, nil)
	if err != nil {
		return nil, err
	}
	return item{c: t.c, h: h}, nil
}

type item struct {
	c *Client
	h string
}

func (i item) ClipProperty(ctx context.Context, key string) (string, error) {
	return i.c.text(ctx, MethodClipProperty, i.h, PropertyParams{Key: key})
}

func (i item) ReplaceClip(ctx context.Context, path string) (bool, error) {
	return i.c.flag(ctx, MethodReplaceClip, i.h, PathParams{Path: path})
}

type mediaPool struct {
	c *Client
	h string
}

func (m mediaPool) ImportMedia(ctx context.Context, paths []string) (bool, error) {
	return m.c.flag(ctx, MethodImportMedia, m.h, PathsParams{Paths: paths})
}

type console struct{ c *Client }

func (k console) Print(ctx context.Context, text string) error {
	return k.c.Call(ctx, MethodPrint, "", TextParams{Text: text}, nil)
}

func (k console) Prompt(ctx context.Context, question string) (string, error) {
	return k.c.text(ctx, MethodPrompt, "", QuestionParams{Question: question})
}

// WindowParams is the payload of ui.run
type WindowParams struct {
	Window dialog.Window `json:"window"`
}

type runner struct{ c *Client }

func (r runner) Run(ctx context.Context, w dialog.Window) (dialog.Response, error) {
	var resp dialog.Response
	if err := r.c.Call(ctx, MethodUIRun, "", WindowParams{Window: w}, &resp); err != nil {
		return dialog.Response{}, err
	}
	if resp.Values == nil {
		resp.Values = map[string]string{}
	}
	return resp, nil
}

var (
	_ host.ProjectManager = projectManager{}
	_ host.Project        = project{}
	_ host.Timeline       = timeline{}
	_ host.MediaPoolItem  = item{}
	_ host.MediaPool      = mediaPool{}
	_ host.Console        = console{}
	_ dialog.Runner       = runner{}
)
