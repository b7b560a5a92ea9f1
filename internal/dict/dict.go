// Package dict implements the shared compression dictionary used by
// back-reference fields (DNS-style message compression).
//
// The dictionary maps a previously-emitted byte run to the absolute byte
// offset at which it was first emitted. Lookups are hash-accelerated with
// xxHash64 and fall back to an exact byte comparison to resolve hash
// collisions, the same two-level shape the teacher lineage used to detect
// metric-name hash collisions (internal/collision.Tracker).
package dict

import (
	"bytes"

	"github.com/cespare/xxhash/v2"
)

type entry struct {
	data   []byte
	offset int
}

// Table is a shared, mutable byte-run → offset dictionary. A Table is not
// safe for concurrent use; the runtime assumes one root encode at a time
// per dictionary, matching spec §5's single-threaded cooperative model.
type Table struct {
	buckets map[uint64][]entry
}

// New creates an empty dictionary.
func New() *Table {
	return &Table{buckets: make(map[uint64][]entry)}
}

// Lookup returns the absolute offset previously recorded for data, if any.
func (t *Table) Lookup(data []byte) (int, bool) {
	h := xxhash.Sum64(data)
	for _, e := range t.buckets[h] {
		if bytes.Equal(e.data, data) {
			return e.offset, true
		}
	}

	return 0, false
}

// Record stores data as having been emitted at absolute offset offset.
// If data is already recorded, Record is a no-op (the first occurrence
// wins, matching the spec's "otherwise record and emit the inline bytes"
// rule — only the first writer installs the dictionary entry).
func (t *Table) Record(data []byte, offset int) {
	h := xxhash.Sum64(data)
	for _, e := range t.buckets[h] {
		if bytes.Equal(e.data, data) {
			return
		}
	}

	cp := make([]byte, len(data))
	copy(cp, data)
	t.buckets[h] = append(t.buckets[h], entry{data: cp, offset: offset})
}

// Len returns the number of distinct byte runs recorded, for tests.
func (t *Table) Len() int {
	n := 0
	for _, bucket := range t.buckets {
		n += len(bucket)
	}

	return n
}
