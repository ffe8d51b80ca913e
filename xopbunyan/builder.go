package xopbunyan

import (
	"strconv"
	"time"

	"github.com/xoplog/xopbunyan-go/xopbase"
	"github.com/xoplog/xopbunyan-go/xopfields"
	"github.com/xoplog/xopbunyan-go/xopnum"
)

const (
	maxBufferToKeep = 1024 * 10
	minBuffer       = 1024
)

func (l *Logger) builder() *builder {
	if bRaw := l.builderPool.Get(); bRaw != nil {
		b := bRaw.(*builder)
		b.B = b.B[:0]
		b.written = 0
		return b
	}
	b := &builder{
		logger: l,
	}
	b.B = make([]byte, 0, minBuffer)
	return b
}

func (b *builder) reclaim() {
	if cap(b.B) > maxBufferToKeep {
		return
	}
	b.logger.builderPool.Put(b)
}

// core writes the required Bunyan fields in their fixed order
func (b *builder) core(msg string, level xopnum.Level, ts time.Time) {
	l := b.logger
	b.AppendBytes(l.prefix)
	b.AddUncheckedKey(MessageKey)
	b.AddString(msg)
	b.AddUncheckedKey(LevelKey)
	b.AddInt64(int64(l.levels.Bunyan(level)))
	b.AppendBytes(l.identityKV)
	b.AddUncheckedKey(TimeKey)
	b.B = l.timeFormatter(b.B, ts)
}

// optional adds the key unless it is skipped and remembers that it
// was written so that a custom field can't repeat it.
func (b *builder) optional(bit optionalKey, key string) bool {
	if _, skip := b.logger.skip[key]; skip {
		return false
	}
	b.written |= bit
	b.AddUncheckedKey(key)
	return true
}

func (b *builder) source(meta xopbase.Metadata) {
	if meta.Target != "" && b.optional(targetKey, "target") {
		b.AddString(meta.Target)
	}
	if meta.Line > 0 && b.optional(lineKey, "line") {
		b.AddInt64(int64(meta.Line))
	}
	if meta.File != "" && b.optional(fileKey, "file") {
		b.AddString(meta.File)
	}
}

func (b *builder) spanType(rt recordType) {
	if b.optional(spanTypeKey, "span_type") {
		b.AddSafeString(rt.String())
	}
}

func (b *builder) spanIDs(n *spanNode) {
	if !b.logger.spanIDs {
		return
	}
	if !n.parent.IsZero() && b.optional(parentSpanIDKey, "parent_span_id") {
		b.addSpanID(n.parent)
	}
	if b.optional(spanIDKey, "span_id") {
		b.addSpanID(n.id)
	}
}

func (b *builder) addSpanID(id xopbase.SpanID) {
	b.AppendString(`"span-`)
	b.B = strconv.AppendUint(b.B, uint64(id), 10)
	b.AppendByte('"')
}

// custom adds the merged custom fields.  Keys that collide with a core
// field, or with an optional field already on this record, are dropped.
func (b *builder) custom(fields *xopfields.Snapshot) {
	fields.Each(func(key string, json []byte) {
		if IsCoreKey(key) {
			return
		}
		if bit, ok := optionalKeys[key]; ok && b.written&bit != 0 {
			return
		}
		if _, skip := b.logger.skip[key]; skip {
			return
		}
		b.AddKey(key)
		b.AppendBytes(json)
	})
}
