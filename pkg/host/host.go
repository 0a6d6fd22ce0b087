// Package host describes the parts of the DaVinci Resolve scripting API the
// toolkit drives. Implementations talk to a live application (pkg/bridge) or
// keep everything in memory (pkg/host/hosttest).
package host

import (
	"context"
	"errors"
)

var (
	// ErrNotFound means the host returned no object, e.g. no open project
	ErrNotFound = errors.New("host: object not available")
	// ErrUnsupported means the running host edition lacks the call
	ErrUnsupported = errors.New("host: operation not supported")
)

// ProjectManager lists, opens and creates projects in the current database folder
type ProjectManager interface {
	CurrentProject(ctx context.Context) (Project, error)
	ListProjects(ctx context.Context) ([]string, error)
	LoadProject(ctx context.Context, name string) (Project, error)
	CreateProject(ctx context.Context, name string) (Project, error)
}

// Project exposes project settings. Setting values are always strings.
type Project interface {
	Name(ctx context.Context) (string, error)
	Settings(ctx context.Context) (map[string]string, error)
	SetSetting(ctx context.Context, key, value string) (bool, error)
	CurrentTimeline(ctx context.Context) (Timeline, error)
	MediaPool(ctx context.Context) (MediaPool, error)
}

// Timeline is the project's current timeline
type Timeline interface {
	Name(ctx context.Context) (string, error)
	StartFrame(ctx context.Context) (int, error)
	EndFrame(ctx context.Context) (int, error)
	Settings(ctx context.Context) (map[string]string, error)
	// CurrentVideoItem returns the media pool item of the clip under the playhead
	CurrentVideoItem(ctx context.Context) (MediaPoolItem, error)
}

// MediaPoolItem is a clip in the media pool
type MediaPoolItem interface {
	ClipProperty(ctx context.Context, key string) (string, error)
	// ReplaceClip returns ErrUnsupported when the host cannot replace media in place
	ReplaceClip(ctx context.Context, path string) (bool, error)
}

// MediaPool imports files into the project
type MediaPool interface {
	ImportMedia(ctx context.Context, paths []string) (bool, error)
}

// Console is the host's script console
type Console interface {
	Print(ctx context.Context, text string) error
	Prompt(ctx context.Context, question string) (string, error)
}

// FilePathProperty is the clip property holding the media file location
const FilePathProperty = "File Path"
