package exchange

import (
	"bufio"
	"io"

	"github.com/ssargent/valkyr/pkg/codec"
)

// Writer serializes an ordered record sequence into an exchange stream.
type Writer struct {
	w *bufio.Writer
}

// NewWriter creates a writer targeting sink. The sink must be opened in
// binary mode; the stream is an opaque byte sequence, not text.
func NewWriter(sink io.Writer) *Writer {
	return &Writer{w: bufio.NewWriterSize(sink, defaultBufferSize)}
}

// WriteAll encodes every record produced by cur in iteration order,
// appends the end-of-stream marker and flushes. It returns the number
// of records written. Output is complete and flushed when the call
// returns without error.
func (w *Writer) WriteAll(cur Cursor) (int, error) {
	count := 0
	for cur.Next() {
		if _, err := w.w.Write(codec.EncodeFrame(cur.Key(), cur.Value())); err != nil {
			return count, err
		}
		count++
	}
	if err := cur.Err(); err != nil {
		return count, err
	}
	if err := w.w.WriteByte('\n'); err != nil {
		return count, err
	}
	return count, w.w.Flush()
}
