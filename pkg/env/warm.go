package env

import (
	"io"
	"os"
	"path/filepath"
)

const warmBufSize = 32 * 1024

// Warm sequentially reads every file in the environment directory,
// pulling it into the OS page cache. It returns the number of bytes
// touched.
func (e *Env) Warm() (int64, error) {
	entries, err := os.ReadDir(e.opts.Path)
	if err != nil {
		return 0, err
	}

	buf := make([]byte, warmBufSize)
	var total int64
	for _, entry := range entries {
		if !entry.Type().IsRegular() {
			continue
		}
		n, err := warmFile(filepath.Join(e.opts.Path, entry.Name()), buf)
		total += n
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

func warmFile(path string, buf []byte) (int64, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	var total int64
	for {
		n, err := f.Read(buf)
		total += int64(n)
		if err == io.EOF {
			return total, nil
		}
		if err != nil {
			return total, err
		}
	}
}
