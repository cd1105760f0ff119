// Package exchange streams whole databases to and from the cdbmake-style
// exchange format. The Writer walks a store cursor and emits one frame
// per record; the Reader decodes frames one at a time and hands each
// record to a caller-supplied sink, so at most one record is ever held
// in memory.
package exchange

// defaultBufferSize is the I/O buffer used for both directions. Dump
// and restore are sequential bulk transfers, so a large buffer pays off.
const defaultBufferSize = 1 << 20

// Cursor provides ordered streaming access to the key-value pairs of a
// source database. Key and Value are only valid until the next call to
// Next.
type Cursor interface {
	Next() bool
	Key() []byte
	Value() []byte
	Err() error
}

// Sink receives one decoded record. Returning an error aborts the
// enclosing ReadAll; nothing already handed to the sink is undone here,
// transaction boundaries belong to the caller.
type Sink func(key, value []byte) error
