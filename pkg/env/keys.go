package env

import "encoding/binary"

// The environment multiplexes sub-databases onto one pebble keyspace:
//
//	'k' | uint32(dbID) | userKey   record data, ordered per database
//	'm' | name                     registry: named database -> id
//	'c' | uint32(dbID)             entry count per database
//	's' | name                     system counters (txnid)
//
// The main database is id 0 and has no registry entry.
const (
	keyspaceData  = 'k'
	keyspaceMeta  = 'm'
	keyspaceCount = 'c'
	keyspaceSys   = 's'
)

const dataPrefixLen = 1 + 4

func dataKey(dbID uint32, key []byte) []byte {
	out := make([]byte, dataPrefixLen+len(key))
	out[0] = keyspaceData
	binary.BigEndian.PutUint32(out[1:dataPrefixLen], dbID)
	copy(out[dataPrefixLen:], key)
	return out
}

func dataPrefix(dbID uint32) []byte {
	return dataKey(dbID, nil)
}

// dataPrefixEnd returns the exclusive upper bound of a database's data
// keys.
func dataPrefixEnd(dbID uint32) []byte {
	if dbID == ^uint32(0) {
		return []byte{keyspaceData + 1}
	}
	return dataPrefix(dbID + 1)
}

func metaKey(name string) []byte {
	return append([]byte{keyspaceMeta}, name...)
}

func countKey(dbID uint32) []byte {
	out := make([]byte, 5)
	out[0] = keyspaceCount
	binary.BigEndian.PutUint32(out[1:], dbID)
	return out
}

func sysKey(name string) []byte {
	return append([]byte{keyspaceSys}, name...)
}

func encodeUint32(v uint32) []byte {
	out := make([]byte, 4)
	binary.BigEndian.PutUint32(out, v)
	return out
}

func encodeUint64(v uint64) []byte {
	out := make([]byte, 8)
	binary.BigEndian.PutUint64(out, v)
	return out
}
