package env

import (
	"encoding/binary"

	"github.com/cockroachdb/pebble"
)

// Stat is a point-in-time snapshot of the store's tree shape.
type Stat struct {
	// Depth is the number of LSM levels currently holding tables.
	Depth int `yaml:"depth"`
	// MemTables is the number of in-memory tables.
	MemTables int64 `yaml:"memtables"`
	// Tables is the total number of on-disk tables.
	Tables int64 `yaml:"tables"`
	// TableBytes is the total size of on-disk tables.
	TableBytes int64 `yaml:"table_bytes"`
	// Entries is the total record count across all sub-databases.
	Entries uint64 `yaml:"entries"`
}

// Info is a point-in-time snapshot of environment-level counters.
type Info struct {
	// Readers is the number of currently open cursors.
	Readers int64 `yaml:"readers"`
	// WALFiles and WALBytes describe the write-ahead log.
	WALFiles int64  `yaml:"wal_files"`
	WALBytes uint64 `yaml:"wal_bytes"`
	// DiskBytes is the total disk space used by the environment.
	DiskBytes uint64 `yaml:"disk_bytes"`
	// Flushes and Compactions count background maintenance runs.
	Flushes     int64 `yaml:"flushes"`
	Compactions int64 `yaml:"compactions"`
	// LastTxnID is the id of the most recently committed transaction.
	LastTxnID uint64 `yaml:"last_txn_id"`
}

// Stat returns the current tree-shape counters.
func (e *Env) Stat() Stat {
	m := e.db.Metrics()

	var s Stat
	for i := range m.Levels {
		lm := &m.Levels[i]
		if lm.NumFiles > 0 {
			s.Depth++
		}
		s.Tables += lm.NumFiles
		s.TableBytes += lm.Size
	}
	s.MemTables = m.MemTable.Count
	s.Entries = e.totalEntries()
	return s
}

// Info returns the current environment-level counters.
func (e *Env) Info() Info {
	m := e.db.Metrics()

	return Info{
		Readers:     e.readers.Load(),
		WALFiles:    m.WAL.Files,
		WALBytes:    m.WAL.Size,
		DiskBytes:   m.DiskSpaceUsage(),
		Flushes:     m.Flush.Count,
		Compactions: m.Compact.Count,
		LastTxnID:   e.txnID.Load(),
	}
}

// totalEntries sums the per-database entry counters.
func (e *Env) totalEntries() uint64 {
	iter, err := e.db.NewIter(&pebble.IterOptions{
		LowerBound: []byte{keyspaceCount},
		UpperBound: []byte{keyspaceCount + 1},
	})
	if err != nil {
		return 0
	}
	defer iter.Close()

	var total uint64
	for valid := iter.First(); valid; valid = iter.Next() {
		if v := iter.Value(); len(v) == 8 {
			total += binary.BigEndian.Uint64(v)
		}
	}
	return total
}
