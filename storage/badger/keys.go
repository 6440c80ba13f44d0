package badger

import (
	"encoding/binary"
	"fmt"
	"time"
)

// Key prefixes for different data types
const (
	runRecordPrefix     = "runrec"
	runRecordDatePrefix = "runrecd"
)

// makeRunRecordKey generates a key for a run record by ID.
func makeRunRecordKey(id string) []byte {
	return []byte(fmt.Sprintf("%s:%s", runRecordPrefix, id))
}

// makeRunDateKey generates a composite key for the date index.
// Format: prefix:timestamp:id
func makeRunDateKey(timestamp time.Time, id string) []byte {
	prefix := runRecordDatePrefix + ":"
	prefixBytes := []byte(prefix)
	prefixSize := len(prefixBytes)
	totalSize := prefixSize + 8 + len(id) // 8 bytes for timestamp + run ID
	buf := make([]byte, totalSize)
	offset := copy(buf, prefixBytes)
	// Write in BigEndian order so lexicographic sort works correctly
	binary.BigEndian.PutUint64(buf[offset:], uint64(timestamp.UnixMicro()))
	offset += 8
	copy(buf[offset:], id)
	return buf
}

// dateIndexPrefix returns the prefix covering the whole date index.
func dateIndexPrefix() []byte {
	return []byte(runRecordDatePrefix + ":")
}
