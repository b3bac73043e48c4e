package badger

import (
	"encoding/binary"
	"fmt"
)

// Key prefixes for different data types
const (
	promptRecordPrefix = "pmtrec"
	promptOrderPrefix  = "pmtord"
	promptSeqPrefix    = "pmtseq"
	promptOrderSeq     = "pmtordseq"
)

// makePromptKey generates a key for a prompt record by ID.
func makePromptKey(id string) []byte {
	return []byte(fmt.Sprintf("%s:%s", promptRecordPrefix, id))
}

// makeOrderKey generates a key in the insertion-order index.
// Format: prefix:position, position BigEndian so lexicographic iteration
// follows insertion order.
func makeOrderKey(position uint64) []byte {
	prefix := promptOrderPrefix + ":"
	buf := make([]byte, len(prefix)+8)
	offset := copy(buf, prefix)
	binary.BigEndian.PutUint64(buf[offset:], position)
	return buf
}

// makeSeqKey generates the reverse-lookup key holding a prompt's
// insertion position, used to remove its order-index entry on delete.
func makeSeqKey(id string) []byte {
	return []byte(fmt.Sprintf("%s:%s", promptSeqPrefix, id))
}

// encodePosition encodes an insertion position for storage.
func encodePosition(position uint64) []byte {
	buf := make([]byte, 8)
	binary.BigEndian.PutUint64(buf, position)
	return buf
}

// decodePosition decodes a stored insertion position.
func decodePosition(data []byte) uint64 {
	return binary.BigEndian.Uint64(data)
}
