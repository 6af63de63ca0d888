package tui

import "github.com/Veraticus/dcb-calc/internal/model"

// Backend results.
type loginResultMsg struct {
	err error
}

type computeResultMsg struct {
	err  error
	resp *model.UploadResponse
	seq  uint64
}

type downloadResultMsg struct {
	err  error
	path string
	size int
}

// Local I/O.
type fileReadMsg struct {
	err  error
	file model.SourceFile
}

// Timers.
type debounceMsg struct {
	tag uint64
}
