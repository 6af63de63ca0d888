package cli

import (
	"bufio"
	"context"
	"errors"
	"io"
	"os"
	"strings"
	"sync"

	"golang.org/x/term"
)

// ErrInputCancelled is returned when input is canceled by context.
var ErrInputCancelled = errors.New("input canceled")

// NonBlockingReader provides context-aware input reading that can be interrupted.
type NonBlockingReader struct {
	reader      *bufio.Reader
	fd          int
	terminal    bool
	readingLock sync.Mutex
}

// NewNonBlockingReader creates a new non-blocking reader.
// Passwords are read without echo when reader is a terminal.
func NewNonBlockingReader(reader io.Reader) *NonBlockingReader {
	if reader == nil {
		panic("reader cannot be nil")
	}

	r := &NonBlockingReader{
		reader: bufio.NewReader(reader),
	}
	if f, ok := reader.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		r.fd = int(f.Fd())
		r.terminal = true
	}
	return r
}

// ReadString reads a string until delim, respecting context cancellation.
func (r *NonBlockingReader) ReadString(ctx context.Context, delim byte) (string, error) {
	return r.await(ctx, func() (string, error) {
		return r.reader.ReadString(delim)
	})
}

// ReadLine reads a line, respecting context cancellation.
func (r *NonBlockingReader) ReadLine(ctx context.Context) (string, error) {
	line, err := r.ReadString(ctx, '\n')
	if err != nil && (!errors.Is(err, io.EOF) || line == "") {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// ReadPassword reads a secret line. Surrounding spaces are kept.
func (r *NonBlockingReader) ReadPassword(ctx context.Context) (string, error) {
	if !r.terminal {
		line, err := r.ReadString(ctx, '\n')
		if err != nil && (!errors.Is(err, io.EOF) || line == "") {
			return "", err
		}
		return strings.TrimRight(line, "\r\n"), nil
	}

	return r.await(ctx, func() (string, error) {
		secret, err := term.ReadPassword(r.fd)
		return string(secret), err
	})
}

// await runs read in the background and returns early when ctx is done.
// The read itself keeps going until input arrives.
func (r *NonBlockingReader) await(ctx context.Context, read func() (string, error)) (string, error) {
	if ctx.Err() != nil {
		return "", ErrInputCancelled
	}

	type result struct {
		err   error
		value string
	}
	resultCh := make(chan result, 1)

	go func() {
		r.readingLock.Lock()
		defer r.readingLock.Unlock()

		value, err := read()
		resultCh <- result{value: value, err: err}
	}()

	select {
	case <-ctx.Done():
		return "", ErrInputCancelled
	case res := <-resultCh:
		return res.value, res.err
	}
}
