// Package bridge speaks the toolkit's line-delimited JSON protocol with the
// stub script running inside the host. Every request carries a fresh id and
// is answered by exactly one response line. Host objects never cross the
// wire; the stub keeps them in a table and hands out opaque handles.
package bridge

import (
	"encoding/json"
	"fmt"

	"github.com/menta2k/resolvekit/pkg/host"
)

// Methods understood by the stub
const (
	MethodCurrentProject = "pm.currentProject"
	MethodListProjects   = "pm.listProjects"
	MethodLoadProject    = "pm.loadProject"
	MethodCreateProject  = "pm.createProject"

	MethodProjectName     = "project.name"
	MethodProjectSettings = "project.settings"
	MethodSetSetting      = "project.setSetting"
	MethodCurrentTimeline = "project.currentTimeline"
	MethodMediaPool       = "project.mediaPool"

	MethodTimelineName     = "timeline.name"
	MethodStartFrame       = "timeline.startFrame"
	MethodEndFrame         = "timeline.endFrame"
	MethodTimelineSettings = "timeline.settings"
	MethodCurrentVideoItem = "timeline.currentVideoItem"

	MethodClipProperty = "item.clipProperty"
	MethodReplaceClip  = "item.replaceClip"
	MethodImportMedia  = "mediaPool.importMedia"

	MethodPrint  = "console.print"
	MethodPrompt = "console.prompt"
	MethodUIRun  = "ui.run"
)

// Error codes
const (
	CodeUnsupported = "unsupported"
	CodeNotFound    = "not_found"
	CodeFailed      = "failed"
	CodeBadRequest  = "bad_request"
)

// Request is one call to the host
type Request struct {
	ID     string          `json:"id"`
	Method string          `json:"method"`
	Handle string          `json:"handle,omitempty"`
	Params json.RawMessage `json:"params,omitempty"`
}

// Response answers the request with the same id. Methods returning a host
// object answer with its handle string, or null when the host returned none.
type Response struct {
	ID     string          `json:"id"`
	Result json.RawMessage `json:"result,omitempty"`
	Error  *Error          `json:"error,omitempty"`
}

// Error is a failure reported by the stub
type Error struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e *Error) Error() string {
	return fmt.Sprintf("bridge: %s: %s", e.Code, e.Message)
}

// Unwrap maps wire codes onto the host sentinels
func (e *Error) Unwrap() error {
	switch e.Code {
	case CodeUnsupported:
		return host.ErrUnsupported
	case CodeNotFound:
		return host.ErrNotFound
	}
	return nil
}

// Params of the methods that take arguments
type (
	NameParams struct {
		Name string `json:"name"`
	}
	SettingParams struct {
		Key   string `json:"key"`
		Value string `json:"value"`
	}
	PropertyParams struct {
		Key string `json:"key"`
	}
	PathParams struct {
		Path string `json:"path"`
	}
	PathsParams struct {
		Paths []string `json:"paths"`
	}
	TextParams struct {
		Text string `json:"text"`
	}
	QuestionParams struct {
		Question string `json:"question"`
	}
)
