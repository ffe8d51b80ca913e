package xoputil

import (
	"unicode/utf8"
)

const hex = "0123456789abcdef"

// needsEscape marks the single bytes that cannot appear raw
// inside a JSON string.  Bytes >= utf8.RuneSelf are checked
// separately for validity.
var needsEscape = func() [256]bool {
	var t [256]bool
	for i := 0; i < 0x20; i++ {
		t[i] = true
	}
	t['"'] = true
	t['\\'] = true
	t['<'] = true
	t['>'] = true
	t['&'] = true
	return t
}()

func (b *JBuilder) string(s string) {
	for i := 0; i < len(s); i++ {
		c := s[i]
		if needsEscape[c] || c >= utf8.RuneSelf {
			b.B = append(b.B, s[:i]...)
			b.escapeFrom(s[i:])
			return
		}
	}
	b.B = append(b.B, s...)
}

func (b *JBuilder) escapeFrom(s string) {
	start := 0
	for i := 0; i < len(s); {
		c := s[i]
		if c < utf8.RuneSelf {
			if !needsEscape[c] {
				i++
				continue
			}
			b.B = append(b.B, s[start:i]...)
			switch c {
			case '"', '\\':
				b.B = append(b.B, '\\', c)
			case '\n':
				b.B = append(b.B, '\\', 'n')
			case '\r':
				b.B = append(b.B, '\\', 'r')
			case '\t':
				b.B = append(b.B, '\\', 't')
			default:
				b.B = append(b.B, '\\', 'u', '0', '0', hex[c>>4], hex[c&0xf])
			}
			i++
			start = i
			continue
		}
		r, size := utf8.DecodeRuneInString(s[i:])
		switch {
		case r == utf8.RuneError && size == 1:
			b.B = append(b.B, s[start:i]...)
			b.B = append(b.B, `\ufffd`...)
			i += size
			start = i
			continue
		case r == '\u2028' || r == '\u2029':
			// valid JSON, but not valid javascript
			b.B = append(b.B, s[start:i]...)
			b.B = append(b.B, '\\', 'u', '2', '0', '2', hex[r&0xf])
			i += size
			start = i
			continue
		}
		i += size
	}
	b.B = append(b.B, s[start:]...)
}
