// Package bridgetest serves the bridge protocol from Go host implementations,
// standing in for the stub script in tests.
package bridgetest

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/pkg/errors"

	"github.com/menta2k/resolvekit/pkg/bridge"
	"github.com/menta2k/resolvekit/pkg/dialog"
	"github.com/menta2k/resolvekit/pkg/host"
)

// Server answers requests the way the stub does, keeping host objects in a
// handle table
type Server struct {
	Manager host.ProjectManager
	Console host.Console
	Runner  dialog.Runner

	// Requests records every method received, in order
	Requests []string

	handles map[string]any
	next    int
}

// Serve answers requests from r on w until r is exhausted
func (s *Server) Serve(ctx context.Context, r io.Reader, w io.Writer) error {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 4<<20)
	for sc.Scan() {
		var (
			req  bridge.Request
			resp bridge.Response
		)
		if err := json.Unmarshal(sc.Bytes(), &req); err != nil {
			resp.Error = &bridge.Error{Code: bridge.CodeBadRequest, Message: err.Error()}
		} else {
			s.Requests = append(s.Requests, req.Method)
			resp = s.answer(ctx, req)
		}
		line, err := json.Marshal(resp)
		if err != nil {
			return err
		}
		if _, err := w.Write(append(line, '\n')); err != nil {
			return err
		}
	}
	return sc.Err()
}

// Start serves s on an in-memory pipe and returns a connected client. stop
// closes the request side, which ends the server.
func Start(s *Server) (client *bridge.Client, stop func()) {
	reqR, reqW := io.Pipe()
	respR, respW := io.Pipe()
	go func() {
		err := s.Serve(context.Background(), reqR, respW)
		respW.CloseWithError(err)
	}()
	return bridge.NewClient(respR, reqW), func() { _ = reqW.Close() }
}

func (s *Server) answer(ctx context.Context, req bridge.Request) bridge.Response {
	resp := bridge.Response{ID: req.ID}
	result, err := s.dispatch(ctx, req)
	if err != nil {
		resp.Error = toWire(err)
		return resp
	}
	raw, err := json.Marshal(result)
	if err != nil {
		resp.Error = &bridge.Error{Code: bridge.CodeFailed, Message: err.Error()}
		return resp
	}
	resp.Result = raw
	return resp
}

func toWire(err error) *bridge.Error {
	var we *bridge.Error
	switch {
	case errors.As(err, &we):
		return we
	case errors.Is(err, host.ErrUnsupported):
		return &bridge.Error{Code: bridge.CodeUnsupported, Message: err.Error()}
	case errors.Is(err, host.ErrNotFound):
		return &bridge.Error{Code: bridge.CodeNotFound, Message: err.Error()}
	}
	return &bridge.Error{Code: bridge.CodeFailed, Message: err.Error()}
}

func badRequest(format string, args ...any) error {
	return &bridge.Error{Code: bridge.CodeBadRequest, Message: fmt.Sprintf(format, args...)}
}

// register stores obj and returns its handle; a missing object becomes null
func (s *Server) register(obj any, err error) (any, error) {
	if errors.Is(err, host.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if s.handles == nil {
		s.handles = map[string]any{}
	}
	s.next++
	h := "h" + strconv.Itoa(s.next)
	s.handles[h] = obj
	return h, nil
}

func object[T any](s *Server, h string) (T, error) {
	obj, ok := s.handles[h].(T)
	if !ok {
		var zero T
		return zero, badRequest("unknown handle %q", h)
	}
	return obj, nil
}

func params[T any](raw json.RawMessage) (T, error) {
	var p T
	if len(raw) == 0 {
		return p, nil
	}
	if err := json.Unmarshal(raw, &p); err != nil {
		return p, badRequest("params: %v", err)
	}
	return p, nil
}

func (s *Server) dispatch(ctx context.Context, req bridge.Request) (any, error) {
	switch req.Method {
	case bridge.MethodCurrentProject:
		return s.register(s.Manager.CurrentProject(ctx))
	case bridge.MethodListProjects:
		return s.Manager.ListProjects(ctx)
	case bridge.MethodLoadProject:
		p, err := params[bridge.NameParams](req.Params)
		if err != nil {
			return nil, err
		}
		return s.register(s.Manager.LoadProject(ctx, p.Name))
	case bridge.MethodCreateProject:
		p, err := params[bridge.NameParams](req.Params)
		if err != nil {
			return nil, err
		}
		return s.register(s.Manager.CreateProject(ctx, p.Name))

	case bridge.MethodProjectName, bridge.MethodProjectSettings, bridge.MethodSetSetting,
		bridge.MethodCurrentTimeline, bridge.MethodMediaPool:
		proj, err := object[host.Project](s, req.Handle)
		if err != nil {
			return nil, err
		}
		return s.project(ctx, proj, req)

	case bridge.MethodTimelineName, bridge.MethodStartFrame, bridge.MethodEndFrame,
		bridge.MethodTimelineSettings, bridge.MethodCurrentVideoItem:
		tl, err := object[host.Timeline](s, req.Handle)
		if err != nil {
			return nil, err
		}
		return s.timeline(ctx, tl, req)

	case bridge.MethodClipProperty:
		it, err := object[host.MediaPoolItem](s, req.Handle)
		if err != nil {
			return nil, err
		}
		p, err := params[bridge.PropertyParams](req.Params)
		if err != nil {
			return nil, err
		}
		return it.ClipProperty(ctx, p.Key)
	case bridge.MethodReplaceClip:
		it, err := object[host.MediaPoolItem](s, req.Handle)
		if err != nil {
			return nil, err
		}
		p, err := params[bridge.PathParams](req.Params)
		if err != nil {
			return nil, err
		}
		return it.ReplaceClip(ctx, p.Path)
	case bridge.MethodImportMedia:
		pool, err := object[host.MediaPool](s, req.Handle)
		if err != nil {
			return nil, err
		}
		p, err := params[bridge.PathsParams](req.Params)
		if err != nil {
			return nil, err
		}
		return pool.ImportMedia(ctx, p.Paths)

	case bridge.MethodPrint:
		p, err := params[bridge.TextParams](req.Params)
		if err != nil {
			return nil, err
		}
		return nil, s.Console.Print(ctx, p.Text)
	case bridge.MethodPrompt:
		p, err := params[bridge.QuestionParams](req.Params)
		if err != nil {
			return nil, err
		}
		return s.Console.Prompt(ctx, p.Question)
	case bridge.MethodUIRun:
		if s.Runner == nil {
			return nil, &bridge.Error{Code: bridge.CodeUnsupported, Message: "no UI manager"}
		}
		p, err := params[bridge.WindowParams](req.Params)
		if err != nil {
			return nil, err
		}
		return s.Runner.Run(ctx, p.Window)
	}
	return nil, badRequest("unknown method %q", req.Method)
}

func (s *Server) project(ctx context.Context, p host.Project, req bridge.Request) (any, error) {
	switch req.Method {
	case bridge.MethodProjectName:
		return p.Name(ctx)
	case bridge.MethodProjectSettings:
		return p.Settings(ctx)
	case bridge.MethodSetSetting:
		sp, err := params[bridge.SettingParams](req.Params)
		if err != nil {
			return nil, err
		}
		return p.SetSetting(ctx, sp.Key, sp.Value)
	case bridge.MethodCurrentTimeline:
		return s.register(p.CurrentTimeline(ctx))
	default:
		return s.register(p.MediaPool(ctx))
	}
}

func (s *Server) timeline(ctx context.Context, t host.Timeline, req bridge.Request) (any, error) {
	switch req.Method {
	case bridge.MethodTimelineName:
		return t.Name(ctx)
	case bridge.MethodStartFrame:
		return t.StartFrame(ctx)
	case bridge.MethodEndFrame:
		return t.EndFrame(ctx)
	case bridge.MethodTimelineSettings:
		return t.Settings(ctx)
	default:
		return s.register(t.CurrentVideoItem(ctx))
	}
}
