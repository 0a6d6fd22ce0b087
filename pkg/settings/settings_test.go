package settings

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/menta2k/resolvekit/pkg/host/hosttest"
)

var ctx = context.Background()

func sourceProject() *hosttest.Project {
	return hosttest.NewProject("Wedding", map[string]string{
		"timelineFrameRate":        "25",
		"timelineResolutionWidth":  "1920",
		"timelineResolutionHeight": "1080",
		"colorScienceMode":         "davinciYRGB",
	})
}

func TestApply(t *testing.T) {
	p := hosttest.NewProject("Target", nil)
	p.ReadOnly["colorScienceMode"] = true

	r := Apply(ctx, p, map[string]string{
		"timelineFrameRate": "50",
		"colorScienceMode":  "aces",
		"!broken":           "x",
	})

	assert.Equal(t, "Target", r.Project)
	assert.Equal(t, 3, r.Total)
	assert.Equal(t, 1, r.Applied)
	require.Len(t, r.Failed, 2)
	assert.Equal(t, "!broken", r.Failed[0].Key)
	assert.ErrorIs(t, r.Failed[0].Err, hosttest.ErrInjected)
	assert.Equal(t, "colorScienceMode = aces", r.Failed[1].String())
	assert.False(t, r.OK())
	assert.Equal(t, "50", p.Values["timelineFrameRate"])
}

func TestCopy(t *testing.T) {
	m := hosttest.NewManager(sourceProject())

	r, err := Copy(ctx, m, "Wedding", "")
	require.NoError(t, err)
	assert.Equal(t, "Wedding Copy", r.Project)
	assert.Equal(t, 4, r.Applied)
	assert.True(t, r.OK())

	created := m.Projects["Wedding Copy"]
	require.NotNil(t, created)
	assert.Equal(t, sourceProject().Values, created.Values)
	assert.Equal(t, "Wedding Copy", m.Current)
}

func TestCopyErrors(t *testing.T) {
	m := hosttest.NewManager(sourceProject(), hosttest.NewProject("Empty", nil))

	_, err := Copy(ctx, m, "Missing", "x")
	assert.ErrorIs(t, err, ErrLoadProject)

	_, err = Copy(ctx, m, "Empty", "x")
	assert.ErrorIs(t, err, ErrNoSettings)

	_, err = Copy(ctx, m, "Wedding", "Empty")
	assert.ErrorIs(t, err, ErrCreateProject)

	m.Projects["Wedding"].SettingsErr = errors.New("host busy")
	_, err = Copy(ctx, m, "Wedding", "y")
	assert.ErrorIs(t, err, ErrNoSettings)
	assert.Contains(t, err.Error(), "host busy")
}

func TestSummary(t *testing.T) {
	ok := Summary(Result{Project: "New", Applied: 3, Total: 3})
	assert.Equal(t, "Project created: New\n\nSettings applied: 3/3\n\nAll settings applied successfully!", ok)

	r := Result{Project: "New", Applied: 1, Total: 13}
	for i := 0; i < 12; i++ {
		r.Failed = append(r.Failed, Failure{Key: fmt.Sprintf("key%02d", i)})
	}
	s := Summary(r)
	assert.Contains(t, s, "Settings applied: 1/13\n")
	assert.Contains(t, s, "Failed to apply 12 setting(s):\n")
	assert.Contains(t, s, "  - key09\n")
	assert.NotContains(t, s, "key10")
	assert.Contains(t, s, "  ... and 2 more\n")
	assert.True(t, strings.HasSuffix(s, "Note: Some settings may be read-only or version-specific."))
}

func TestPartialReport(t *testing.T) {
	r := Result{Applied: 1, Total: 3, Failed: []Failure{
		{Key: "a", Value: "1"},
		{Key: "b", Value: "2", Err: errors.New("boom")},
	}}
	assert.Equal(t, "Applied 1/3 settings.\n\nFailed settings:\na = 1\nb = 2 (Error: boom)", PartialReport(r))
}

var fixed = time.Date(2025, 3, 4, 15, 6, 7, 123456000, time.UTC)

func TestTake(t *testing.T) {
	p := sourceProject()
	p.Timeline = &hosttest.Timeline{TimelineName: "Edit 1", Start: 86400, End: 87000, Values: map[string]string{"timelineFrameRate": "25"}}
	s := Take(ctx, hosttest.NewManager(p), fixed)

	assert.False(t, s.Failed())
	assert.Equal(t, "2025-03-04T15:06:07.123456", s.Timestamp)
	assert.Equal(t, "Wedding", s.ProjectName)
	assert.Equal(t, "1920", s.ProjectSettings["timelineResolutionWidth"])
	require.NotNil(t, s.TimelineInfo)
	assert.Equal(t, "Edit 1", s.TimelineInfo.Name)
	assert.Equal(t, 87000, s.TimelineInfo.EndFrame)
	assert.Equal(t, "25", s.TimelineInfo.Settings["timelineFrameRate"])
	require.NotNil(t, s.Notes)
}

func TestTakeTimelineSettingsError(t *testing.T) {
	p := sourceProject()
	p.Timeline = &hosttest.Timeline{TimelineName: "Edit 1", SettingsErr: errors.New("not available")}
	s := Take(ctx, hosttest.NewManager(p), fixed)

	require.NotNil(t, s.TimelineInfo)
	assert.Equal(t, "not available", s.TimelineInfo.SettingsError)
	assert.Nil(t, s.TimelineInfo.Settings)
}

func TestTakeWithoutProject(t *testing.T) {
	s := Take(ctx, hosttest.NewManager(), fixed)
	assert.True(t, s.Failed())
	assert.Equal(t, "No project is currently open", s.Error)
	assert.NotEmpty(t, s.Instructions)
	assert.Empty(t, s.ProjectName)
}

func TestTakeHostFailure(t *testing.T) {
	p := sourceProject()
	p.SettingsErr = errors.New("bridge down")
	s := Take(ctx, hosttest.NewManager(p), fixed)
	assert.Equal(t, "bridge down", s.Error)
	assert.Equal(t, "*errors.errorString", s.Type)
}

func TestWriteJSON(t *testing.T) {
	dir := t.TempDir()
	s := Take(ctx, hosttest.NewManager(sourceProject()), fixed)

	path, err := Write(s, dir, FormatJSON, fixed)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "resolve_project_settings_20250304_150607.json"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var doc map[string]any
	require.NoError(t, json.Unmarshal(data, &doc))
	assert.Equal(t, "Wedding", doc["project_name"])
	assert.Contains(t, doc, "project_settings")
	assert.Contains(t, doc, "notes")
	assert.NotContains(t, doc, "timeline_info")
	assert.NotContains(t, doc, "error")
}

func TestWriteYAML(t *testing.T) {
	dir := t.TempDir()
	s := Take(ctx, hosttest.NewManager(sourceProject()), fixed)

	path, err := Write(s, dir, FormatYAML, fixed)
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(path, ".yaml"))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var back Snapshot
	require.NoError(t, yaml.Unmarshal(data, &back))
	assert.Equal(t, s, back)
}

func TestWriteErrorDocument(t *testing.T) {
	dir := t.TempDir()
	s := Take(ctx, hosttest.NewManager(), fixed)
	path, err := Write(s, dir, FormatJSON, fixed)
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.JSONEq(t, `{"error":"No project is currently open","instructions":"Please open a project in DaVinci Resolve and run this script again"}`, string(data))
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat("yml")
	require.NoError(t, err)
	assert.Equal(t, FormatYAML, f)

	f, err = ParseFormat("")
	require.NoError(t, err)
	assert.Equal(t, FormatJSON, f)

	_, err = ParseFormat("xml")
	assert.Error(t, err)
}

func TestDumpDirFor(t *testing.T) {
	assert.Equal(t, filepath.Join("/u", "Desktop"), dumpDirFor("darwin", "/u"))
	assert.Equal(t, filepath.Join("/u", "Desktop"), dumpDirFor("windows", "/u"))
	assert.Equal(t, "/u", dumpDirFor("linux", "/u"))
}
