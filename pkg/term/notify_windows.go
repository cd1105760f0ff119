//go:build windows
// +build windows

package term

// Subscribe is a no-op on Windows, which has no resize signal. The
// cache still refreshes lazily via Refresh.
func (ws *WindowSize) Subscribe() func() {
	return func() {}
}
