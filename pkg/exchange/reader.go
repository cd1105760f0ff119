package exchange

import (
	"bufio"
	"io"

	"github.com/ssargent/valkyr/pkg/codec"
)

// Reader consumes an exchange stream record by record.
type Reader struct {
	dec *codec.Decoder
}

// NewReader creates a reader over source. The source must be opened in
// binary mode.
func NewReader(source io.Reader) *Reader {
	return &Reader{dec: codec.NewDecoder(bufio.NewReaderSize(source, defaultBufferSize))}
}

// ReadAll decodes frames until the end-of-stream marker, handing every
// record to sink before reading the next one. It returns the number of
// records processed. Any frame error or sink error aborts the whole
// operation; there is no partial-success continuation, a corrupt frame
// invalidates trust in all subsequent framing.
func (r *Reader) ReadAll(sink Sink) (int, error) {
	count := 0
	for {
		rec, err := r.dec.Next()
		if err == codec.ErrEndOfStream {
			return count, nil
		}
		if err != nil {
			return count, err
		}
		if err := sink(rec.Key, rec.Value); err != nil {
			return count, err
		}
		count++
	}
}
