package transliteration

import (
	"strings"
	"unicode/utf8"
)

// toggle switches transliteration off and on; text between two toggles is
// copied unchanged.
const toggle = "##"

// transliterateRoman converts text written in an alphabetic scheme. Tokens
// are matched greedily, longest first, within a window of the source's
// longest token. Unmatched bytes, including invalid UTF-8, are copied
// unchanged.
func transliterateRoman(text string, m *Map, opts Options) string {
	width := max(m.maxTokenLength, utf8.RuneCountInString(toggle))
	ends := make([]int, 0, width)

	var b strings.Builder
	b.Grow(len(text))

	hadConsonant := false
	enabled := true

	for i := 0; i < len(text); {
		ends = runeEnds(ends[:0], text, i, width)
		n := matchRoman(text, i, ends, m, enabled)
		if n == 0 {
			if hadConsonant {
				hadConsonant = false
				if !opts.Syncope {
					b.WriteString(m.virama)
				}
			}
			b.WriteString(text[i:ends[0]])
			i = ends[0]
			continue
		}

		token := text[i:n]
		i = n

		if token == toggle {
			enabled = !enabled
			continue
		}

		letter := m.letters[token]
		if m.toRoman {
			b.WriteString(letter)
			continue
		}
		if hadConsonant {
			if mark, ok := m.marks[token]; ok {
				b.WriteString(mark)
			} else if token != m.srcInherent {
				b.WriteString(m.virama)
				b.WriteString(letter)
			}
		} else {
			b.WriteString(letter)
		}
		hadConsonant = m.IsConsonant(token)
	}

	if hadConsonant && !opts.Syncope {
		b.WriteString(m.virama)
	}
	return b.String()
}

// runeEnds appends the byte offsets just past each of the next width runes
// of text starting at i. An invalid byte counts as a one-byte rune.
func runeEnds(ends []int, text string, i, width int) []int {
	for j := i; j < len(text) && len(ends) < width; {
		_, size := utf8.DecodeRuneInString(text[j:])
		j += size
		ends = append(ends, j)
	}
	return ends
}

// matchRoman returns the end offset of the longest token starting at i that
// is the toggle marker or, while enabled, a known letter. Zero means no match.
func matchRoman(text string, i int, ends []int, m *Map, enabled bool) int {
	for k := len(ends) - 1; k >= 0; k-- {
		token := text[i:ends[k]]
		if token == toggle {
			return ends[k]
		}
		if !enabled {
			continue
		}
		if _, ok := m.letters[token]; ok {
			return ends[k]
		}
	}
	return 0
}
