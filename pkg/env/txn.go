package env

import "github.com/cockroachdb/pebble"

// Txn batches writes against the environment. Commits are durable and
// atomic per batch; entry counts and the environment's transaction id
// are updated in the same batch as the data. When MaxPuts is set, the
// transaction transparently commits and reopens after that many writes,
// bounding memory during bulk restores.
type Txn struct {
	env    *Env
	batch  *pebble.Batch
	deltas map[*DB]int64
	writes int
	done   bool

	// MaxPuts is the auto-commit threshold; 0 means unbounded.
	MaxPuts int
}

// Begin starts a write transaction.
func (e *Env) Begin() *Txn {
	return &Txn{
		env:    e,
		batch:  e.db.NewIndexedBatch(),
		deltas: make(map[*DB]int64),
	}
}

// Put stores a value, replacing any existing one.
func (t *Txn) Put(db *DB, key, value []byte) error {
	if err := t.writable(); err != nil {
		return err
	}
	k := dataKey(db.id, key)
	exists, err := t.exists(k)
	if err != nil {
		return err
	}
	if err := t.batch.Set(k, value, nil); err != nil {
		return err
	}
	if !exists {
		t.deltas[db]++
	}
	return t.maybeCommit()
}

// PutNoOverwrite stores a value only if the key is absent. It reports
// whether the value was stored.
func (t *Txn) PutNoOverwrite(db *DB, key, value []byte) (bool, error) {
	if err := t.writable(); err != nil {
		return false, err
	}
	k := dataKey(db.id, key)
	exists, err := t.exists(k)
	if err != nil {
		return false, err
	}
	if exists {
		return false, nil
	}
	if err := t.batch.Set(k, value, nil); err != nil {
		return false, err
	}
	t.deltas[db]++
	return true, t.maybeCommit()
}

// Delete removes a key. Deleting an absent key is not an error.
func (t *Txn) Delete(db *DB, key []byte) error {
	if err := t.writable(); err != nil {
		return err
	}
	k := dataKey(db.id, key)
	exists, err := t.exists(k)
	if err != nil {
		return err
	}
	if !exists {
		return nil
	}
	if err := t.batch.Delete(k, nil); err != nil {
		return err
	}
	t.deltas[db]--
	return t.maybeCommit()
}

// Get reads a value through the transaction, observing its own pending
// writes.
func (t *Txn) Get(db *DB, key []byte) ([]byte, error) {
	if t.done {
		return nil, ErrTxnDone
	}
	val, closer, err := t.batch.Get(dataKey(db.id, key))
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

// Commit durably applies all pending writes.
func (t *Txn) Commit() error {
	if t.done {
		return ErrTxnDone
	}
	t.done = true
	return t.commitBatch()
}

// Discard abandons the transaction's pending writes. Chunks already
// auto-committed stay applied.
func (t *Txn) Discard() {
	if t.done {
		return
	}
	t.done = true
	t.batch.Close()
}

func (t *Txn) writable() error {
	if t.done {
		return ErrTxnDone
	}
	if t.env.opts.ReadOnly {
		return ErrReadOnly
	}
	return nil
}

func (t *Txn) exists(k []byte) (bool, error) {
	_, closer, err := t.batch.Get(k)
	if err == pebble.ErrNotFound {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	closer.Close()
	return true, nil
}

func (t *Txn) maybeCommit() error {
	t.writes++
	if t.MaxPuts > 0 && t.writes >= t.MaxPuts {
		if err := t.commitBatch(); err != nil {
			return err
		}
		t.batch = t.env.db.NewIndexedBatch()
		t.writes = 0
	}
	return nil
}

func (t *Txn) commitBatch() error {
	defer t.batch.Close()

	txnID := t.env.txnID.Load() + 1
	if err := t.batch.Set(sysKey(txnIDKey), encodeUint64(txnID), nil); err != nil {
		return err
	}
	for db, delta := range t.deltas {
		count, err := t.env.readCount(db.id)
		if err != nil {
			return err
		}
		next := int64(count) + delta
		if next < 0 {
			next = 0
		}
		if err := t.batch.Set(countKey(db.id), encodeUint64(uint64(next)), nil); err != nil {
			return err
		}
	}
	if err := t.batch.Commit(pebble.Sync); err != nil {
		return err
	}
	t.env.txnID.Store(txnID)
	t.deltas = make(map[*DB]int64)
	return nil
}
