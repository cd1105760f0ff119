// Package env layers named sub-databases, batched write transactions
// and counter snapshots on top of a pebble store. It is the concrete
// store the valkyr admin commands run against; everything above it
// (codec, exchange, watch) only sees cursors, a put sink and counter
// accessors.
package env

import (
	"encoding/binary"
	"fmt"
	"sort"
	"sync"
	"sync/atomic"

	"github.com/cockroachdb/pebble"
)

// Env is an open environment.
type Env struct {
	db   *pebble.DB
	opts Options

	mu     sync.Mutex
	dbs    map[string]*DB
	nextID uint32
	closed bool

	txnID   atomic.Uint64
	readers atomic.Int64
}

// DB is a handle to one sub-database.
type DB struct {
	env  *Env
	name string
	id   uint32
}

// Name returns the sub-database's name; MainDB for the main database.
func (d *DB) Name() string { return d.name }

const txnIDKey = "txnid"

// Open opens the environment at opts.Path.
func Open(opts Options) (*Env, error) {
	popts := &pebble.Options{
		ReadOnly:         opts.ReadOnly,
		ErrorIfNotExists: !opts.Create,
	}
	if opts.CacheSizeMB > 0 {
		cache := pebble.NewCache(int64(opts.CacheSizeMB) << 20)
		popts.Cache = cache
		// pebble holds its own reference once opened.
		defer cache.Unref()
	}

	db, err := pebble.Open(opts.Path, popts)
	if err != nil {
		return nil, fmt.Errorf("open environment %s: %w", opts.Path, err)
	}

	e := &Env{
		db:     db,
		opts:   opts,
		dbs:    make(map[string]*DB),
		nextID: 1,
	}
	e.dbs[MainDB] = &DB{env: e, name: MainDB, id: 0}

	if err := e.loadRegistry(); err != nil {
		db.Close()
		return nil, err
	}
	return e, nil
}

// Path returns the environment directory.
func (e *Env) Path() string { return e.opts.Path }

// ReadOnly reports whether the environment was opened read-only.
func (e *Env) ReadOnly() bool { return e.opts.ReadOnly }

// Close closes the environment. Closing an already closed environment
// is a no-op.
func (e *Env) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return nil
	}
	e.closed = true
	return e.db.Close()
}

func (e *Env) loadRegistry() error {
	iter, err := e.db.NewIter(&pebble.IterOptions{
		LowerBound: []byte{keyspaceMeta},
		UpperBound: []byte{keyspaceMeta + 1},
	})
	if err != nil {
		return err
	}
	for valid := iter.First(); valid; valid = iter.Next() {
		name := string(iter.Key()[1:])
		val := iter.Value()
		if len(val) != 4 {
			iter.Close()
			return fmt.Errorf("corrupt registry entry for %q", name)
		}
		id := binary.BigEndian.Uint32(val)
		e.dbs[name] = &DB{env: e, name: name, id: id}
		if id >= e.nextID {
			e.nextID = id + 1
		}
	}
	if err := iter.Close(); err != nil {
		return err
	}

	val, closer, err := e.db.Get(sysKey(txnIDKey))
	if err == nil {
		if len(val) == 8 {
			e.txnID.Store(binary.BigEndian.Uint64(val))
		}
		closer.Close()
	} else if err != pebble.ErrNotFound {
		return err
	}
	return nil
}

// OpenDB returns a handle to the named sub-database, creating it if the
// environment is writable. The empty name and MainDB both address the
// main database.
func (e *Env) OpenDB(name string) (*DB, error) {
	if name == "" {
		name = MainDB
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if db, ok := e.dbs[name]; ok {
		return db, nil
	}
	if e.opts.ReadOnly {
		return nil, ErrNoSuchDB
	}
	// Registry slots: main plus MaxDBs named databases.
	if e.opts.MaxDBs > 0 && len(e.dbs) > e.opts.MaxDBs {
		return nil, ErrTooManyDBs
	}

	id := e.nextID
	if err := e.db.Set(metaKey(name), encodeUint32(id), pebble.Sync); err != nil {
		return nil, err
	}
	e.nextID++
	db := &DB{env: e, name: name, id: id}
	e.dbs[name] = db
	return db, nil
}

// LookupDB returns a handle to an existing sub-database without
// creating it.
func (e *Env) LookupDB(name string) (*DB, error) {
	if name == "" {
		name = MainDB
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if db, ok := e.dbs[name]; ok {
		return db, nil
	}
	return nil, ErrNoSuchDB
}

// DBNames returns the names of all sub-databases, main first, the rest
// sorted.
func (e *Env) DBNames() []string {
	e.mu.Lock()
	defer e.mu.Unlock()

	names := make([]string, 0, len(e.dbs)-1)
	for name := range e.dbs {
		if name != MainDB {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return append([]string{MainDB}, names...)
}

// Drop deletes a named sub-database: its records, entry count and
// registry entry. The main database cannot be dropped.
func (e *Env) Drop(db *DB) error {
	if db.id == 0 {
		return ErrMainDrop
	}
	if e.opts.ReadOnly {
		return ErrReadOnly
	}

	if err := e.db.DeleteRange(dataPrefix(db.id), dataPrefixEnd(db.id), pebble.Sync); err != nil {
		return err
	}
	if err := e.db.Delete(countKey(db.id), pebble.Sync); err != nil {
		return err
	}
	if err := e.db.Delete(metaKey(db.name), pebble.Sync); err != nil {
		return err
	}

	e.mu.Lock()
	delete(e.dbs, db.name)
	e.mu.Unlock()
	return nil
}

// Get reads a single value.
func (d *DB) Get(key []byte) ([]byte, error) {
	val, closer, err := d.env.db.Get(dataKey(d.id, key))
	if err == pebble.ErrNotFound {
		return nil, ErrKeyNotFound
	}
	if err != nil {
		return nil, err
	}
	out := append([]byte(nil), val...)
	closer.Close()
	return out, nil
}

// Entries returns the sub-database's current entry count.
func (d *DB) Entries() (uint64, error) {
	return d.env.readCount(d.id)
}

func (e *Env) readCount(dbID uint32) (uint64, error) {
	val, closer, err := e.db.Get(countKey(dbID))
	if err == pebble.ErrNotFound {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	defer closer.Close()
	if len(val) != 8 {
		return 0, fmt.Errorf("corrupt entry count for db %d", dbID)
	}
	return binary.BigEndian.Uint64(val), nil
}

// Flush persists memtable contents to stable storage.
func (e *Env) Flush() error {
	return e.db.Flush()
}

// Compact rewrites the whole keyspace into its most compact form. Used
// after a bulk rewrite.
func (e *Env) Compact() error {
	return e.db.Compact([]byte{0x00}, []byte{0xff}, true)
}
