// Package codec implements the cdbmake-style exchange framing used by
// valkyr's dump and restore commands.
//
// # Frame Format
//
// Each record is serialized as a single frame:
//
//	+<keylen>,<vallen>:<key>-><value>\n
//
// where keylen and vallen are unsigned ASCII decimal byte counts, key
// and value are raw bytes, "->" is a literal two-byte separator and
// the frame ends with a newline. A stream is zero or more frames
// followed by one bare newline acting as the end-of-stream marker.
//
// Lengths are always raw byte counts. There is no escaping and no
// character-set transform anywhere in the path: the framing never
// scans key or value content for delimiters, so any byte value,
// including newlines and '+', round-trips exactly. Streams must be
// read and written in binary mode.
//
// # Error Handling
//
// Decoding validates every length, the separator and the terminator.
// Failures surface as *FrameError carrying the 1-based record index
// and one of the Kind* diagnostics. A frame error is unrecoverable for
// the rest of the stream, since the declared lengths are the only
// record delimiters.
package codec
