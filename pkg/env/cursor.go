package env

import "github.com/cockroachdb/pebble"

// Cursor iterates one sub-database in key order. It satisfies the
// exchange.Cursor contract: Key and Value are only valid until the next
// call to Next, and Err reports why iteration stopped early.
type Cursor struct {
	env     *Env
	iter    *pebble.Iterator
	started bool
	err     error
	closed  bool
}

// Cursor opens an ordered cursor over the sub-database. The caller must
// Close it; open cursors are counted in Info's reader counter.
func (d *DB) Cursor() (*Cursor, error) {
	iter, err := d.env.db.NewIter(&pebble.IterOptions{
		LowerBound: dataPrefix(d.id),
		UpperBound: dataPrefixEnd(d.id),
	})
	if err != nil {
		return nil, err
	}
	d.env.readers.Add(1)
	return &Cursor{env: d.env, iter: iter}, nil
}

// Next advances to the next record, or positions on the first record
// for the initial call. It returns false at the end of the database or
// on error; check Err to distinguish.
func (c *Cursor) Next() bool {
	if c.err != nil {
		return false
	}
	var valid bool
	if !c.started {
		valid = c.iter.First()
		c.started = true
	} else {
		valid = c.iter.Next()
	}
	if !valid {
		c.err = c.iter.Error()
		return false
	}
	return true
}

// Key returns the current record's key with the sub-database prefix
// stripped.
func (c *Cursor) Key() []byte {
	return c.iter.Key()[dataPrefixLen:]
}

// Value returns the current record's value.
func (c *Cursor) Value() []byte {
	return c.iter.Value()
}

// Err returns the error that stopped iteration, if any.
func (c *Cursor) Err() error {
	return c.err
}

// Close releases the cursor.
func (c *Cursor) Close() error {
	if c.closed {
		return nil
	}
	c.closed = true
	c.env.readers.Add(-1)
	return c.iter.Close()
}
