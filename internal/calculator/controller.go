// Package calculator holds the upload/result view state.
//
// The controller is a plain state machine: it never sleeps or performs I/O.
// Callers start the requests it hands out, wait out debounce delays, and feed
// completions back in. Every request carries a sequence number so that only
// the most recently started request can change what is displayed.
package calculator

import (
	"github.com/Veraticus/dcb-calc/internal/common"
	"github.com/Veraticus/dcb-calc/internal/model"
	"github.com/Veraticus/dcb-calc/internal/render"
)

// State is the phase of the upload view.
type State int

const (
	// StateIdle means no file has been selected.
	StateIdle State = iota
	// StateLoading means a calculation is pending.
	StateLoading
	// StateDisplaying means a result is shown.
	StateDisplaying
	// StateError means the last calculation failed.
	StateError
)

func (s State) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateDisplaying:
		return "displaying"
	case StateError:
		return "error"
	default:
		return "idle"
	}
}

// Request asks the caller to compute file under mode.
type Request struct {
	File model.SourceFile
	Mode model.Mode
	Seq  uint64
}

// Controller owns the view state. The zero value is not usable; use New.
type Controller struct {
	file        *model.SourceFile
	result      *model.UploadResponse
	errMessage  string
	mode        model.Mode
	requestMode model.Mode
	resultMode  model.Mode
	state       State
	seq         uint64
	debounceTag uint64
}

// New creates a controller starting in mode.
func New(mode model.Mode) *Controller {
	if mode == "" {
		mode = model.DefaultMode
	}
	return &Controller{mode: mode}
}

// State returns the current phase.
func (c *Controller) State() State { return c.state }

// Mode returns the mode the next request will use.
func (c *Controller) Mode() model.Mode { return c.mode }

// File returns the held spreadsheet, if any.
func (c *Controller) File() (model.SourceFile, bool) {
	if c.file == nil {
		return model.SourceFile{}, false
	}
	return *c.file, true
}

// Loading reports whether a spinner should be shown.
func (c *Controller) Loading() bool { return c.state == StateLoading }

// Error returns the message of a failed calculation.
func (c *Controller) Error() string { return c.errMessage }

// Result returns the displayed calculation and the mode it was computed with.
func (c *Controller) Result() (*model.UploadResponse, model.Mode, bool) {
	if c.state != StateDisplaying || c.result == nil {
		return nil, c.mode, false
	}
	return c.result, c.resultMode, true
}

// Totals returns the backend totals of the displayed result, unchanged.
func (c *Controller) Totals() (closingBalance, interest float64, ok bool) {
	result, _, ok := c.Result()
	if !ok {
		return 0, 0, false
	}
	return result.TotalClosingBalance, result.TotalInterest, true
}

// Table formats the displayed result.
func (c *Controller) Table() render.Table {
	result, mode, ok := c.Result()
	if !ok {
		return render.Build(nil, c.mode)
	}
	return render.Build(result.Results, mode)
}

// SelectFile holds file and starts a calculation. Any pending debounce and
// any earlier result are superseded.
func (c *Controller) SelectFile(file model.SourceFile) Request {
	c.file = &file
	c.debounceTag++
	return c.begin()
}

// ToggleMode flips the mode. When a file is held the view enters Loading at
// once and the returned tag must be passed to DebounceElapsed after the
// debounce delay. Each toggle invalidates the tags handed out before it, and
// the outcome of any request still in flight for the previous mode.
func (c *Controller) ToggleMode() (tag uint64, ok bool) {
	c.mode = c.mode.Toggle()
	c.debounceTag++

	if c.file == nil {
		return 0, false
	}

	c.seq++
	c.state = StateLoading
	c.errMessage = ""
	return c.debounceTag, true
}

// SetMode selects mode directly. It behaves like ToggleMode when the mode changes.
func (c *Controller) SetMode(mode model.Mode) (tag uint64, ok bool) {
	if mode == c.mode {
		return 0, false
	}
	return c.ToggleMode()
}

// DebounceElapsed returns the request for tag if no later toggle or file
// selection has superseded it.
func (c *Controller) DebounceElapsed(tag uint64) (Request, bool) {
	if tag != c.debounceTag || c.file == nil {
		return Request{}, false
	}
	return c.begin(), true
}

// Complete applies the outcome of request seq. Outcomes of superseded
// requests are discarded and Complete returns false.
func (c *Controller) Complete(seq uint64, resp *model.UploadResponse, err error) bool {
	if seq != c.seq || c.state != StateLoading {
		return false
	}

	if err != nil {
		c.state = StateError
		c.errMessage = common.UserMessage(err)
		c.result = nil
		return true
	}
	if resp == nil {
		resp = &model.UploadResponse{}
	}

	c.state = StateDisplaying
	c.result = resp
	c.resultMode = c.requestMode
	c.errMessage = ""
	return true
}

// DownloadPayload returns the result to send to the download endpoint.
// It is false when nothing has been displayed, in which case no request
// should be made.
func (c *Controller) DownloadPayload() (*model.UploadResponse, bool) {
	result, _, ok := c.Result()
	return result, ok
}

// Reset discards the held file and result.
func (c *Controller) Reset() {
	c.file = nil
	c.result = nil
	c.errMessage = ""
	c.state = StateIdle
	c.debounceTag++
	c.seq++
}

func (c *Controller) begin() Request {
	c.seq++
	c.state = StateLoading
	c.errMessage = ""
	c.result = nil
	c.requestMode = c.mode

	return Request{
		Seq:  c.seq,
		File: *c.file,
		Mode: c.mode,
	}
}
