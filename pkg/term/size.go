// Package term provides a cached view of the controlling terminal's
// dimensions for renderers that must not re-query the tty on every
// tick. The cache is refreshed on resize notifications and lazily at
// first use; with no controlling terminal it falls back to a fixed
// default size.
package term

import (
	"os"
	"sync/atomic"

	xterm "golang.org/x/term"
)

// Fallback dimensions used when the output is not a terminal.
const (
	DefaultWidth  = 80
	DefaultHeight = 24
)

// SizeProvider reports the current terminal dimensions.
type SizeProvider interface {
	Size() (width, height int)
}

type fixedSize struct {
	w, h int
}

// Fixed returns a provider that always reports the given dimensions.
func Fixed(width, height int) SizeProvider {
	return fixedSize{w: width, h: height}
}

func (f fixedSize) Size() (int, int) { return f.w, f.h }

// WindowSize caches the dimensions of the terminal behind a file
// descriptor. Width and height are packed into one atomic word, so a
// reader can never observe a torn pair while an asynchronous resize
// notification updates the cache.
type WindowSize struct {
	fd   int
	dims atomic.Uint64 // width<<32 | height
}

// NewWindowSize creates a provider for the terminal behind f and
// performs the initial query.
func NewWindowSize(f *os.File) *WindowSize {
	ws := &WindowSize{fd: int(f.Fd())}
	ws.Refresh()
	return ws
}

// Refresh re-queries the terminal size and updates the cache. Failures
// (no controlling terminal) fall back to DefaultWidth x DefaultHeight.
func (ws *WindowSize) Refresh() {
	w, h, err := xterm.GetSize(ws.fd)
	if err != nil || w <= 0 || h <= 0 {
		w, h = DefaultWidth, DefaultHeight
	}
	ws.dims.Store(uint64(uint32(w))<<32 | uint64(uint32(h)))
}

// Size returns the cached dimensions.
func (ws *WindowSize) Size() (int, int) {
	d := ws.dims.Load()
	return int(d >> 32), int(uint32(d))
}
