package bridge

import (
	"bufio"
	"context"
	"encoding/json"
	"io"
	"sync"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

// ErrClosed is returned once the channel to the stub is gone or out of sync
var ErrClosed = errors.New("bridge: connection closed")

// Client issues requests over a reader/writer pair, normally the process's
// stdin and stdout
type Client struct {
	mu     sync.Mutex
	r      *bufio.Reader
	w      io.Writer
	broken bool
	logger zerolog.Logger
}

// NewClient creates a client reading responses from r and writing requests to w
func NewClient(r io.Reader, w io.Writer) *Client {
	return &Client{r: bufio.NewReader(r), w: w, logger: zerolog.Nop()}
}

// SetLogger sets the logger used for protocol tracing
func (c *Client) SetLogger(l zerolog.Logger) {
	c.logger = l
}

type readResult struct {
	line []byte
	err  error
}

// Call sends method with params to the object behind handle and decodes the
// result into out (which may be nil). A cancelled context abandons the pending
// read; the client is unusable afterwards because the stream position is lost.
func (c *Client) Call(ctx context.Context, method, handle string, params, out any) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.broken {
		return ErrClosed
	}

	req := Request{ID: uuid.NewString(), Method: method, Handle: handle}
	if params != nil {
		raw, err := json.Marshal(params)
		if err != nil {
			return errors.Wrapf(err, "bridge: encode params for %s", method)
		}
		req.Params = raw
	}
	line, err := json.Marshal(req)
	if err != nil {
		return errors.Wrapf(err, "bridge: encode %s", method)
	}

	c.logger.Debug().Str("id", req.ID).Str("method", method).Str("handle", handle).Msg("bridge request")
	if _, err := c.w.Write(append(line, '\n')); err != nil {
		c.broken = true
		return errors.Wrapf(err, "bridge: write %s", method)
	}

	done := make(chan readResult, 1)
	go func() {
		line, err := c.r.ReadBytes('\n')
		done <- readResult{line: line, err: err}
	}()

	var res readResult
	select {
	case <-ctx.Done():
		c.broken = true
		return ctx.Err()
	case res = <-done:
	}

	if res.err != nil {
		c.broken = true
		if res.err == io.EOF {
			return ErrClosed
		}
		return errors.Wrapf(res.err, "bridge: read %s", method)
	}

	var resp Response
	if err := json.Unmarshal(res.line, &resp); err != nil {
		c.broken = true
		return errors.Wrapf(err, "bridge: decode response to %s", method)
	}
	if resp.ID != req.ID {
		c.broken = true
		return errors.Wrapf(ErrClosed, "response id %q does not match request %q", resp.ID, req.ID)
	}
	if resp.Error != nil {
		c.logger.Debug().Str("id", req.ID).Str("code", resp.Error.Code).Msg(resp.Error.Message)
		return resp.Error
	}
	if out == nil || len(resp.Result) == 0 {
		return nil
	}
	if err := json.Unmarshal(resp.Result, out); err != nil {
		return errors.Wrapf(err, "bridge: decode result of %s", method)
	}
	return nil
}
