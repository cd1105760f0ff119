package codec

import (
	"bufio"
	"bytes"
	"errors"
	"strings"
	"testing"
)

func decodeOne(t *testing.T, data []byte) (*Record, error) {
	t.Helper()
	d := NewDecoder(bufio.NewReader(bytes.NewReader(data)))
	return d.Next()
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	testCases := []struct {
		name  string
		key   []byte
		value []byte
	}{
		{
			name:  "simple string key-value",
			key:   []byte("user:123"),
			value: []byte("john@example.com"),
		},
		{
			name:  "empty key",
			key:   []byte(""),
			value: []byte("some value"),
		},
		{
			name:  "empty value",
			key:   []byte("some key"),
			value: []byte(""),
		},
		{
			name:  "both empty",
			key:   []byte(""),
			value: []byte(""),
		},
		{
			name:  "binary data",
			key:   []byte{0x00, 0x01, 0x02, 0x03},
			value: []byte{0xFF, 0xFE, 0xFD, 0xFC},
		},
		{
			name:  "embedded newlines",
			key:   []byte("a\nb\nc"),
			value: []byte("\n\n\n"),
		},
		{
			name:  "embedded frame syntax",
			key:   []byte("+3,5:"),
			value: []byte("->+9,9:->\n"),
		},
		{
			name:  "large value",
			key:   []byte("small key"),
			value: bytes.Repeat([]byte("v"), 10240),
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			encoded := EncodeFrame(tc.key, tc.value)

			rec, err := decodeOne(t, encoded)
			if err != nil {
				t.Fatalf("Next failed: %v", err)
			}
			if !bytes.Equal(rec.Key, tc.key) {
				t.Errorf("key mismatch: got %q, want %q", rec.Key, tc.key)
			}
			if !bytes.Equal(rec.Value, tc.value) {
				t.Errorf("value mismatch: got %q, want %q", rec.Value, tc.value)
			}
		})
	}
}

func TestEncodeFrameLayout(t *testing.T) {
	got := EncodeFrame([]byte("abc"), []byte("hello"))
	want := "+3,5:abc->hello\n"
	if string(got) != want {
		t.Fatalf("frame layout: got %q, want %q", got, want)
	}
}

func TestDecodeEndOfStream(t *testing.T) {
	_, err := decodeOne(t, []byte("\n"))
	if err != ErrEndOfStream {
		t.Fatalf("expected ErrEndOfStream, got %v", err)
	}
}

func TestDecodeMalformedFrames(t *testing.T) {
	testCases := []struct {
		name  string
		input string
		kind  string
	}{
		{
			name:  "empty input",
			input: "",
			kind:  KindMissingMarker,
		},
		{
			name:  "wrong marker",
			input: "*3,5:abc->hello\n",
			kind:  KindMissingMarker,
		},
		{
			name:  "non-digit in key length",
			input: "+3x,5:abcxx->hello\n",
			kind:  KindBadLength,
		},
		{
			name:  "non-digit in value length",
			input: "+3,5!:abc->hello\n",
			kind:  KindBadLength,
		},
		{
			name:  "empty key length",
			input: "+,5:->hello\n",
			kind:  KindBadLength,
		},
		{
			name:  "truncated inside length",
			input: "+31",
			kind:  KindBadLength,
		},
		{
			name:  "absurdly long length field",
			input: "+1234567890123456789012345,0:\n",
			kind:  KindBadLength,
		},
		{
			name:  "wrong separator",
			input: "+3,2:abc--he\n",
			kind:  KindBadSeparator,
		},
		{
			name:  "truncated before separator",
			input: "+3,5:abc",
			kind:  KindBadSeparator,
		},
		{
			name:  "truncated value",
			input: "+3,5:abc->hell",
			kind:  KindShortRecord,
		},
		{
			name:  "missing terminator",
			input: "+3,5:abc->hello",
			kind:  KindBadTerminator,
		},
		{
			name:  "wrong terminator",
			input: "+3,5:abc->helloX",
			kind:  KindBadTerminator,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := decodeOne(t, []byte(tc.input))
			var fe *FrameError
			if !errors.As(err, &fe) {
				t.Fatalf("expected *FrameError, got %v", err)
			}
			if fe.Kind != tc.kind {
				t.Errorf("kind: got %q, want %q", fe.Kind, tc.kind)
			}
			if fe.Index != 1 {
				t.Errorf("index: got %d, want 1", fe.Index)
			}
		})
	}
}

func TestDecodeErrorReportsRecordIndex(t *testing.T) {
	var buf bytes.Buffer
	buf.Write(EncodeFrame([]byte("k1"), []byte("v1")))
	buf.Write(EncodeFrame([]byte("k2"), []byte("v2")))
	// Third frame truncated mid-value.
	buf.WriteString("+2,8:k3->short")

	d := NewDecoder(bufio.NewReader(&buf))
	for i := 0; i < 2; i++ {
		if _, err := d.Next(); err != nil {
			t.Fatalf("record %d: %v", i+1, err)
		}
	}

	_, err := d.Next()
	var fe *FrameError
	if !errors.As(err, &fe) {
		t.Fatalf("expected *FrameError, got %v", err)
	}
	if fe.Index != 3 {
		t.Errorf("index: got %d, want 3", fe.Index)
	}
	if fe.Kind != KindShortRecord {
		t.Errorf("kind: got %q, want %q", fe.Kind, KindShortRecord)
	}
	if !strings.Contains(fe.Error(), "record #3") {
		t.Errorf("message should name record #3, got %q", fe.Error())
	}
}

func TestDecodeSequenceWithZeroLengthValue(t *testing.T) {
	var buf bytes.Buffer
	buf.Write(EncodeFrame([]byte("only-key"), nil))
	buf.WriteByte('\n')

	d := NewDecoder(bufio.NewReader(&buf))
	rec, err := d.Next()
	if err != nil {
		t.Fatalf("Next failed: %v", err)
	}
	if string(rec.Key) != "only-key" || len(rec.Value) != 0 {
		t.Fatalf("unexpected record: %q -> %q", rec.Key, rec.Value)
	}
	if _, err := d.Next(); err != ErrEndOfStream {
		t.Fatalf("expected ErrEndOfStream, got %v", err)
	}
	if d.Index() != 1 {
		t.Errorf("Index: got %d, want 1", d.Index())
	}
}
