package codec

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
)

// Record is one key-value pair moving through an exchange stream. Both
// fields are opaque byte sequences; the codec imposes no ordering or
// uniqueness on them.
type Record struct {
	Key   []byte
	Value []byte
}

// ErrEndOfStream is returned by Decoder.Next when the stream terminator
// (a bare newline in place of a frame) has been consumed.
var ErrEndOfStream = errors.New("end of stream")

// Frame error kinds, matching the classic cdbmake diagnostics.
const (
	KindMissingMarker = "bad or missing plus marker"
	KindBadLength     = "bad or missing length"
	KindBadSeparator  = "bad or missing separator"
	KindShortRecord   = "short key or value"
	KindBadTerminator = "bad line ending"
)

// FrameError describes a malformed or truncated frame. Index is the
// 1-based number of the record that failed to decode. A FrameError is
// always fatal to the stream: lengths are the only delimiters, so a
// single bad frame invalidates everything after it.
type FrameError struct {
	Index int
	Kind  string
}

func (e *FrameError) Error() string {
	return fmt.Sprintf("%s, record #%d", e.Kind, e.Index)
}

// EncodeFrame serializes a single record into the exchange format:
//
//	+<keylen>,<vallen>:<key>-><value>\n
//
// Lengths are raw byte counts in ASCII decimal. There is no escaping;
// arbitrary binary content (including newlines and '+') round-trips
// because decoding trusts the declared lengths and never scans the
// payload for delimiters.
func EncodeFrame(key, value []byte) []byte {
	buf := make([]byte, 0, len(key)+len(value)+24)
	buf = append(buf, '+')
	buf = strconv.AppendInt(buf, int64(len(key)), 10)
	buf = append(buf, ',')
	buf = strconv.AppendInt(buf, int64(len(value)), 10)
	buf = append(buf, ':')
	buf = append(buf, key...)
	buf = append(buf, '-', '>')
	buf = append(buf, value...)
	buf = append(buf, '\n')
	return buf
}

// Decoder reads frames sequentially from a buffered input stream.
type Decoder struct {
	r     *bufio.Reader
	index int // records successfully decoded so far
}

// NewDecoder creates a decoder positioned at the first frame.
func NewDecoder(r *bufio.Reader) *Decoder {
	return &Decoder{r: r}
}

// Index returns the number of records decoded so far.
func (d *Decoder) Index() int {
	return d.index
}

// maximum length-field digits accepted; anything longer cannot describe
// a real record and would overflow int64 arithmetic anyway.
const maxLengthDigits = 18

// Next decodes one frame. It returns ErrEndOfStream once the stream
// terminator is reached, a *FrameError carrying the failing record's
// 1-based index for any malformed or truncated frame, or the underlying
// I/O error verbatim.
func (d *Decoder) Next() (*Record, error) {
	idx := d.index + 1

	c, err := d.r.ReadByte()
	if err != nil {
		if err == io.EOF {
			return nil, &FrameError{Index: idx, Kind: KindMissingMarker}
		}
		return nil, err
	}
	if c == '\n' {
		return nil, ErrEndOfStream
	}
	if c != '+' {
		return nil, &FrameError{Index: idx, Kind: KindMissingMarker}
	}

	klen, err := d.readLength(',')
	if err != nil {
		return nil, d.frameOrIOError(idx, KindBadLength, err)
	}
	vlen, err := d.readLength(':')
	if err != nil {
		return nil, d.frameOrIOError(idx, KindBadLength, err)
	}

	key := make([]byte, klen)
	nk, err := io.ReadFull(d.r, key)
	if err != nil && !isEOF(err) {
		return nil, err
	}

	var sep [2]byte
	_, err = io.ReadFull(d.r, sep[:])
	if err != nil {
		if isEOF(err) {
			return nil, &FrameError{Index: idx, Kind: KindBadSeparator}
		}
		return nil, err
	}
	if sep[0] != '-' || sep[1] != '>' {
		return nil, &FrameError{Index: idx, Kind: KindBadSeparator}
	}

	value := make([]byte, vlen)
	nv, err := io.ReadFull(d.r, value)
	if err != nil && !isEOF(err) {
		return nil, err
	}

	// Short reads are a hard error, never silently padded. The byte
	// counts actually obtained must equal the header-declared lengths.
	if nk+nv != klen+vlen {
		return nil, &FrameError{Index: idx, Kind: KindShortRecord}
	}

	c, err = d.r.ReadByte()
	if err != nil {
		if err == io.EOF {
			return nil, &FrameError{Index: idx, Kind: KindBadTerminator}
		}
		return nil, err
	}
	if c != '\n' {
		return nil, &FrameError{Index: idx, Kind: KindBadTerminator}
	}

	d.index++
	return &Record{Key: key, Value: value}, nil
}

var errBadLength = errors.New("malformed length field")

// readLength consumes ASCII decimal digits up to delim and returns the
// parsed value. A non-digit before the delimiter, an empty field, or a
// field too long to be sane all yield errBadLength.
func (d *Decoder) readLength(delim byte) (int, error) {
	var digits [maxLengthDigits]byte
	n := 0
	for {
		c, err := d.r.ReadByte()
		if err != nil {
			if err == io.EOF {
				return 0, errBadLength
			}
			return 0, err
		}
		if c == delim {
			break
		}
		if c < '0' || c > '9' || n == maxLengthDigits {
			return 0, errBadLength
		}
		digits[n] = c
		n++
	}
	if n == 0 {
		return 0, errBadLength
	}
	v, err := strconv.Atoi(string(digits[:n]))
	if err != nil {
		return 0, errBadLength
	}
	return v, nil
}

// frameOrIOError maps decoder-internal parse failures to a FrameError
// while letting genuine I/O errors propagate untouched.
func (d *Decoder) frameOrIOError(idx int, kind string, err error) error {
	if err == errBadLength {
		return &FrameError{Index: idx, Kind: kind}
	}
	return err
}

func isEOF(err error) bool {
	return err == io.EOF || err == io.ErrUnexpectedEOF
}
