package transliteration

import (
	"strings"
	"unicode/utf8"
)

// transliterateBrahmic converts text written in a syllabic scheme one rune at
// a time. When the destination is roman, a consonant's inherent vowel is
// written out unless a mark or virama follows it. Unmapped bytes, including
// invalid UTF-8, are copied unchanged.
func transliterateBrahmic(text string, m *Map) string {
	var b strings.Builder
	b.Grow(len(text) * 2)

	danglingHash := false
	hadRomanConsonant := false
	enabled := true

	flushVowel := func() {
		if hadRomanConsonant {
			b.WriteString(m.dstInherent)
			hadRomanConsonant = false
		}
	}
	flushHash := func() {
		if danglingHash {
			b.WriteByte('#')
			danglingHash = false
		}
	}

	for i := 0; i < len(text); {
		_, size := utf8.DecodeRuneInString(text[i:])
		c := text[i : i+size]
		i += size

		if c == "#" {
			if danglingHash {
				enabled = !enabled
				danglingHash = false
			} else {
				danglingHash = true
			}
			flushVowel()
			continue
		}

		if !enabled {
			// A lone # inside a disabled region is literal text.
			flushHash()
			b.WriteString(c)
			continue
		}

		if mark, ok := m.marks[c]; ok {
			b.WriteString(mark)
			hadRomanConsonant = false
			continue
		}

		flushHash()
		flushVowel()
		if letter, ok := m.letters[c]; ok {
			b.WriteString(letter)
			hadRomanConsonant = m.toRoman && m.IsConsonant(c)
		} else {
			b.WriteString(c)
		}
	}

	flushVowel()
	// Keep a trailing lone # so it round-trips.
	flushHash()
	return b.String()
}
