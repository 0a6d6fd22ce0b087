package settings

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/menta2k/resolvekit/pkg/host"
)

// Format is a dump file encoding
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// ParseFormat accepts "json", "yaml" or "yml"
func ParseFormat(s string) (Format, error) {
	switch s {
	case "", "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	}
	return "", errors.Errorf("unknown dump format %q", s)
}

const (
	timestampLayout = "2006-01-02T15:04:05.000000"
	fileStamp       = "20060102_150405"
	filePrefix      = "resolve_project_settings_"
)

// TimelineInfo describes the current timeline
type TimelineInfo struct {
	Name          string            `json:"name" yaml:"name"`
	StartFrame    int               `json:"start_frame" yaml:"start_frame"`
	EndFrame      int               `json:"end_frame" yaml:"end_frame"`
	Settings      map[string]string `json:"settings,omitempty" yaml:"settings,omitempty"`
	SettingsError string            `json:"settings_error,omitempty" yaml:"settings_error,omitempty"`
}

// Notes tell the reader how to use the dumped keys
type Notes struct {
	Usage   string `json:"usage" yaml:"usage"`
	Example string `json:"example" yaml:"example"`
}

// Snapshot is the diagnostic dump of the open project. When the host could
// not be queried only Error, Type and Instructions are set.
type Snapshot struct {
	Timestamp       string            `json:"timestamp,omitempty" yaml:"timestamp,omitempty"`
	ProjectName     string            `json:"project_name,omitempty" yaml:"project_name,omitempty"`
	ProjectSettings map[string]string `json:"project_settings,omitempty" yaml:"project_settings,omitempty"`
	TimelineInfo    *TimelineInfo     `json:"timeline_info,omitempty" yaml:"timeline_info,omitempty"`
	Notes           *Notes            `json:"notes,omitempty" yaml:"notes,omitempty"`

	Error        string `json:"error,omitempty" yaml:"error,omitempty"`
	Type         string `json:"type,omitempty" yaml:"type,omitempty"`
	Instructions string `json:"instructions,omitempty" yaml:"instructions,omitempty"`
}

// Failed reports whether the snapshot is an error document
func (s Snapshot) Failed() bool {
	return s.Error != ""
}

// Take queries the current project and its timeline
func Take(ctx context.Context, pm host.ProjectManager, now time.Time) Snapshot {
	p, err := pm.CurrentProject(ctx)
	if errors.Is(err, host.ErrNotFound) {
		return Snapshot{
			Error:        "No project is currently open",
			Instructions: "Please open a project in DaVinci Resolve and run this script again",
		}
	}
	if err != nil {
		return failure(err)
	}

	name, err := p.Name(ctx)
	if err != nil {
		return failure(err)
	}
	values, err := p.Settings(ctx)
	if err != nil {
		return failure(err)
	}

	s := Snapshot{
		Timestamp:       now.Format(timestampLayout),
		ProjectName:     name,
		ProjectSettings: values,
		Notes: &Notes{
			Usage:   "Use these setting keys with project.SetSetting(key, value)",
			Example: "project.SetSetting('timelineFrameRate', '23.976')",
		},
	}

	tl, err := p.CurrentTimeline(ctx)
	switch {
	case errors.Is(err, host.ErrNotFound):
	case err != nil:
		return failure(err)
	default:
		info, err := timelineInfo(ctx, tl)
		if err != nil {
			return failure(err)
		}
		s.TimelineInfo = info
	}
	return s
}

func timelineInfo(ctx context.Context, tl host.Timeline) (*TimelineInfo, error) {
	var (
		info TimelineInfo
		err  error
	)
	if info.Name, err = tl.Name(ctx); err != nil {
		return nil, err
	}
	if info.StartFrame, err = tl.StartFrame(ctx); err != nil {
		return nil, err
	}
	if info.EndFrame, err = tl.EndFrame(ctx); err != nil {
		return nil, err
	}
	if values, err := tl.Settings(ctx); err != nil {
		info.SettingsError = err.Error()
	} else {
		info.Settings = values
	}
	return &info, nil
}

func failure(err error) Snapshot {
	return Snapshot{
		Error:        err.Error(),
		Type:         fmt.Sprintf("%T", errors.Cause(err)),
		Instructions: "Make sure DaVinci Resolve is running and the script was started from its Scripts menu",
	}
}

// FileName is the dump file name for a snapshot taken at now
func FileName(now time.Time, f Format) string {
	return filePrefix + now.Format(fileStamp) + "." + string(f)
}

// DefaultDumpDir is the Desktop on macOS and Windows and the home directory elsewhere
func DefaultDumpDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return dumpDirFor(runtime.GOOS, home)
}

func dumpDirFor(goos, home string) string {
	switch goos {
	case "darwin", "windows":
		return filepath.Join(home, "Desktop")
	}
	return home
}

// Encode serializes s in format f
func Encode(s Snapshot, f Format) ([]byte, error) {
	var buf bytes.Buffer
	switch f {
	case FormatYAML:
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(s); err != nil {
			return nil, errors.Wrap(err, "failed to encode snapshot as yaml")
		}
		if err := enc.Close(); err != nil {
			return nil, errors.Wrap(err, "failed to encode snapshot as yaml")
		}
	default:
		enc := json.NewEncoder(&buf)
		enc.SetEscapeHTML(false)
		enc.SetIndent("", "  ")
		if err := enc.Encode(s); err != nil {
			return nil, errors.Wrap(err, "failed to encode snapshot as json")
		}
	}
	return buf.Bytes(), nil
}

// Write stores s in dir and returns the file path
func Write(s Snapshot, dir string, f Format, now time.Time) (string, error) {
	data, err := Encode(s, f)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", errors.Wrap(err, "failed to create dump directory")
	}
	path := filepath.Join(dir, FileName(now, f))
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", errors.Wrap(err, "failed to write output file")
	}
	return path, nil
}
