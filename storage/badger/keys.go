package badger

import (
	"encoding/binary"
	"fmt"
	"time"
)

// Key prefixes for different data types
const (
	meetingRecordPrefix  = "mtgrec"
	meetingHashPrefix    = "mtghash"
	meetingCreatedPrefix = "mtgcre"
	jobRecordPrefix      = "jobrec"
	askMemoryPrefix      = "askmem"
	askMemorySeq         = "askmemseq"
)

// makeMeetingKey generates a key for a meeting by ID.
func makeMeetingKey(id string) []byte {
	return []byte(fmt.Sprintf("%s:%s", meetingRecordPrefix, id))
}

// makeMeetingHashKey generates a key for the content-hash index.
// The value stored under it is the meeting ID.
func makeMeetingHashKey(hash string) []byte {
	return []byte(fmt.Sprintf("%s:%s", meetingHashPrefix, hash))
}

// makeMeetingCreatedKey generates a composite key for the creation-time index.
// Format: prefix:timestamp:id
func makeMeetingCreatedKey(createdAt time.Time, id string) []byte {
	prefix := meetingCreatedPrefix + ":"
	prefixBytes := []byte(prefix)
	totalSize := len(prefixBytes) + 8 + len(id)
	buf := make([]byte, totalSize)
	offset := copy(buf, prefixBytes)
	// Write in BigEndian order so lexicographic sort works correctly
	binary.BigEndian.PutUint64(buf[offset:], uint64(createdAt.UnixMicro()))
	offset += 8
	copy(buf[offset:], []byte(id))
	return buf
}

// makeJobKey generates a key for an ingest job by ID.
func makeJobKey(id string) []byte {
	return []byte(fmt.Sprintf("%s:%s", jobRecordPrefix, id))
}

// makeAskMemoryKey generates a composite key for one remembered exchange.
// Format: prefix:meetingID:seq, with seq BigEndian so iteration order is
// insertion order within a meeting.
func makeAskMemoryKey(meetingID string, seq uint64) []byte {
	prefix := askMemoryPrefix + ":" + meetingID + ":"
	prefixBytes := []byte(prefix)
	totalSize := len(prefixBytes) + 8
	buf := make([]byte, totalSize)
	offset := copy(buf, prefixBytes)
	binary.BigEndian.PutUint64(buf[offset:], seq)
	return buf
}

// makeAskMemoryPrefix generates the iteration prefix for one meeting's
// remembered exchanges.
func makeAskMemoryPrefix(meetingID string) []byte {
	return []byte(askMemoryPrefix + ":" + meetingID + ":")
}
