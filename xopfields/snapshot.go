package xopfields

import (
	"fmt"
	"strings"

	"github.com/muir/list"
)

var _ fmt.Stringer = &Snapshot{}

// Encoded is a key with its value already rendered as JSON
type Encoded struct {
	Key  string
	JSON []byte
}

// Snapshot is an immutable, ordered set of encoded fields.  A nil
// *Snapshot is valid and empty.  Snapshots are never modified after
// they are published so they can be read from any goroutine.
type Snapshot struct {
	fields []Encoded
	index  map[string]int
}

func newSnapshot(fields []Encoded) *Snapshot {
	s := &Snapshot{
		fields: fields,
		index:  make(map[string]int, len(fields)),
	}
	for i, f := range fields {
		s.index[f.Key] = i
	}
	return s
}

func (s *Snapshot) Len() int {
	if s == nil {
		return 0
	}
	return len(s.fields)
}

// Get returns the encoded value for key
func (s *Snapshot) Get(key string) ([]byte, bool) {
	if s == nil {
		return nil, false
	}
	i, ok := s.index[key]
	if !ok {
		return nil, false
	}
	return s.fields[i].JSON, true
}

// Each visits fields in order.  The JSON slices must not be modified.
func (s *Snapshot) Each(f func(key string, json []byte)) {
	if s == nil {
		return
	}
	for _, e := range s.fields {
		f(e.Key, e.JSON)
	}
}

// Keys lists the field names in order
func (s *Snapshot) Keys() []string {
	if s == nil {
		return nil
	}
	keys := make([]string, len(s.fields))
	for i, e := range s.fields {
		keys[i] = e.Key
	}
	return keys
}

// String renders the snapshot as a JSON object.  Useful in tests and
// debug output.
func (s *Snapshot) String() string {
	var b strings.Builder
	b.WriteByte('{')
	s.Each(func(key string, json []byte) {
		if b.Len() > 1 {
			b.WriteByte(',')
		}
		b.Write(MustEncodeString(key))
		b.WriteByte(':')
		b.Write(json)
	})
	b.WriteByte('}')
	return b.String()
}

// Merge combines an ancestor snapshot with a descendant snapshot.
// Descendant values override ancestor values that have the same key.
// Ancestor keys keep their position; new descendant keys are appended.
// When either side is empty the other is returned as-is.
func Merge(ancestor, descendant *Snapshot) *Snapshot {
	switch {
	case descendant.Len() == 0:
		return ancestor
	case ancestor.Len() == 0:
		return descendant
	}
	fields := make([]Encoded, 0, ancestor.Len()+descendant.Len())
	fields = append(fields, list.Copy(ancestor.fields)...)
	merged := newSnapshot(fields)
	for _, e := range descendant.fields {
		if i, ok := merged.index[e.Key]; ok {
			merged.fields[i] = e
			continue
		}
		merged.index[e.Key] = len(merged.fields)
		merged.fields = append(merged.fields, e)
	}
	return merged
}

// MergeAll merges from the root (first) to the leaf (last)
func MergeAll(chain ...*Snapshot) *Snapshot {
	var merged *Snapshot
	for _, s := range chain {
		merged = Merge(merged, s)
	}
	return merged
}
