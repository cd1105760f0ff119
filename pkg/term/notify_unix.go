//go:build !windows
// +build !windows

package term

import (
	"os"
	"os/signal"

	"golang.org/x/sys/unix"
)

// Subscribe refreshes the cached size whenever the terminal reports a
// resize (SIGWINCH). The returned function releases the subscription.
func (ws *WindowSize) Subscribe() func() {
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, unix.SIGWINCH)
	done := make(chan struct{})
	go func() {
		for {
			select {
			case <-done:
				return
			case <-ch:
				ws.Refresh()
			}
		}
	}()
	return func() {
		signal.Stop(ch)
		close(done)
	}
}
