// Package xopfields holds the per-span field sets that spans inherit
// from their ancestors.
package xopfields

import (
	"sync/atomic"

	"github.com/xoplog/xopbunyan-go/xopbase"

	"github.com/pkg/errors"
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// ErrClosed is reported when a closed Store is written to
var ErrClosed = errors.New("field store is closed")

// DegradeFunc is told about every value that had to be replaced with
// an error string.
type DegradeFunc func(key string, err error)

// Store is the field set of one span.  Writes must be serialized by
// the caller (the host serializes callbacks per span).  Reads via
// Snapshot() are safe from any goroutine at any time: every write
// publishes a new immutable Snapshot.
type Store struct {
	fields    *orderedmap.OrderedMap[string, []byte]
	current   atomic.Pointer[Snapshot]
	closed    atomic.Bool
	onDegrade DegradeFunc
}

func NewStore(onDegrade DegradeFunc) *Store {
	return &Store{
		fields:    orderedmap.New[string, []byte](),
		onDegrade: onDegrade,
	}
}

// Set inserts or overwrites one field
func (s *Store) Set(f xopbase.Field) error {
	return s.SetAll([]xopbase.Field{f})
}

// SetAll applies fields in order (a later duplicate key wins) and
// publishes a single new snapshot.
func (s *Store) SetAll(fields []xopbase.Field) error {
	if s.closed.Load() {
		return ErrClosed
	}
	if len(fields) == 0 {
		return nil
	}
	for _, f := range fields {
		enc, err := Encode(f)
		if err != nil && s.onDegrade != nil {
			s.onDegrade(f.Key, err)
		}
		s.fields.Set(f.Key, enc)
	}
	s.publish()
	return nil
}

func (s *Store) publish() {
	encoded := make([]Encoded, 0, s.fields.Len())
	for pair := s.fields.Oldest(); pair != nil; pair = pair.Next() {
		encoded = append(encoded, Encoded{Key: pair.Key, JSON: pair.Value})
	}
	s.current.Store(newSnapshot(encoded))
}

// Snapshot returns the most recently published field set.  It
// is nil when no fields have been set.
func (s *Store) Snapshot() *Snapshot {
	return s.current.Load()
}

// Close freezes the store.  The last snapshot remains readable.
func (s *Store) Close() {
	s.closed.Store(true)
}

func (s *Store) Closed() bool { return s.closed.Load() }

// FromFields encodes fields into a snapshot without a Store.  It
// is used for event fields, which are never modified.
func FromFields(fields []xopbase.Field, onDegrade DegradeFunc) *Snapshot {
	if len(fields) == 0 {
		return nil
	}
	encoded := make([]Encoded, 0, len(fields))
	index := make(map[string]int, len(fields))
	for _, f := range fields {
		enc, err := Encode(f)
		if err != nil && onDegrade != nil {
			onDegrade(f.Key, err)
		}
		if i, ok := index[f.Key]; ok {
			encoded[i].JSON = enc
			continue
		}
		index[f.Key] = len(encoded)
		encoded = append(encoded, Encoded{Key: f.Key, JSON: enc})
	}
	return &Snapshot{fields: encoded, index: index}
}
