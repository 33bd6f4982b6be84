package transliteration

import (
	"errors"
	"fmt"
	"unicode/utf8"

	"github.com/NaanProphet/sanscript/internal/scheme"
)

// ErrSchemeNotSupported is matched by every SchemeNotSupportedError.
var ErrSchemeNotSupported = errors.New("scheme not supported")

// SchemeNotSupportedError reports a scheme name missing from the registry.
type SchemeNotSupportedError struct {
	Name string
}

func (e *SchemeNotSupportedError) Error() string {
	return fmt.Sprintf("scheme %q not supported", e.Name)
}

func (e *SchemeNotSupportedError) Is(target error) bool {
	return target == ErrSchemeNotSupported
}

// Map is the flattened conversion table for one ordered pair of schemes.
// It is never modified after BuildMap returns.
type Map struct {
	letters    map[string]string
	marks      map[string]string
	consonants map[string]string

	maxTokenLength int
	fromRoman      bool
	toRoman        bool

	// virama is the destination's vowel killer.
	virama string
	// srcInherent and dstInherent are the first vowels of each scheme.
	srcInherent string
	dstInherent string
}

// BuildMap derives the conversion map from one registered scheme to another.
// Groups missing from either side are skipped, as are token positions past
// the end of the destination group.
func BuildMap(reg *scheme.Registry, from, to string) (*Map, error) {
	src, ok := reg.Lookup(from)
	if !ok {
		return nil, &SchemeNotSupportedError{Name: from}
	}
	dst, ok := reg.Lookup(to)
	if !ok {
		return nil, &SchemeNotSupportedError{Name: to}
	}

	m := &Map{
		letters:     make(map[string]string),
		marks:       make(map[string]string),
		consonants:  make(map[string]string),
		fromRoman:   src.Kind() == scheme.Roman,
		toRoman:     dst.Kind() == scheme.Roman,
		virama:      first(dst.Tokens(scheme.Virama)),
		srcInherent: first(src.Tokens(scheme.Vowels)),
		dstInherent: first(dst.Tokens(scheme.Vowels)),
	}

	for _, g := range src.Groups() {
		srcTokens := src.Tokens(g)
		var dstTokens []string
		if dst.Has(g) {
			dstTokens = dst.Tokens(g)
		}

		for i, canonical := range srcTokens {
			spellings := append([]string{canonical}, reg.Alternates(from, canonical)...)
			for _, tok := range spellings {
				m.maxTokenLength = max(m.maxTokenLength, utf8.RuneCountInString(tok))
			}
			if i >= len(dstTokens) {
				continue
			}
			m.add(g, spellings, dstTokens[i])
		}
	}
	return m, nil
}

func (m *Map) add(g scheme.Group, spellings []string, target string) {
	for _, tok := range spellings {
		if tok == "" {
			continue
		}
		if g.IsMark() {
			m.marks[tok] = target
			continue
		}
		m.letters[tok] = target
		if g.IsConsonant() {
			m.consonants[tok] = target
		}
	}
}

// Letter returns the destination token for a source letter.
func (m *Map) Letter(tok string) (string, bool) {
	out, ok := m.letters[tok]
	return out, ok
}

// Mark returns the destination token for a source vowel mark or virama.
func (m *Map) Mark(tok string) (string, bool) {
	out, ok := m.marks[tok]
	return out, ok
}

// IsConsonant reports whether tok is a source consonant.
func (m *Map) IsConsonant(tok string) bool {
	_, ok := m.consonants[tok]
	return ok
}

func (m *Map) MaxTokenLength() int { return m.maxTokenLength }
func (m *Map) FromRoman() bool     { return m.fromRoman }
func (m *Map) ToRoman() bool       { return m.toRoman }
func (m *Map) Virama() string      { return m.virama }

func first(tokens []string) string {
	if len(tokens) == 0 {
		return ""
	}
	return tokens[0]
}
