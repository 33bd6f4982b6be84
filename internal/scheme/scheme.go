// Package scheme holds the writing systems the transliterator converts between.
//
// A scheme is a set of named groups (vowels, consonants, marks, ...) whose
// tokens are positionally aligned across schemes: index i of a scheme's
// consonants denotes the same phoneme as index i of every other scheme's
// consonants.
package scheme

import (
	"fmt"
	"slices"
)

// Group names a class of tokens within a scheme.
type Group int

const (
	Vowels Group = iota
	VowelMarks
	OtherMarks
	Virama
	Consonants
	Symbols
	ZWJ
	Skip
	Accent
	ComboAccent
	Candra
	Other
)

// AllGroups lists every group in a fixed order.
var AllGroups = []Group{
	Vowels, VowelMarks, OtherMarks, Virama, Consonants, Symbols,
	ZWJ, Skip, Accent, ComboAccent, Candra, Other,
}

var groupNames = map[Group]string{
	Vowels:      "vowels",
	VowelMarks:  "vowel_marks",
	OtherMarks:  "other_marks",
	Virama:      "virama",
	Consonants:  "consonants",
	Symbols:     "symbols",
	ZWJ:         "zwj",
	Skip:        "skip",
	Accent:      "accent",
	ComboAccent: "combo_accent",
	Candra:      "candra",
	Other:       "other",
}

func (g Group) String() string {
	if name, ok := groupNames[g]; ok {
		return name
	}
	return fmt.Sprintf("group(%d)", int(g))
}

// ParseGroup maps a group name as written in scheme files to a Group.
func ParseGroup(name string) (Group, error) {
	for g, n := range groupNames {
		if n == name {
			return g, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownGroup, name)
}

// IsMark reports whether tokens of the group attach to a preceding consonant.
func (g Group) IsMark() bool {
	return g == VowelMarks || g == Virama
}

// IsConsonant reports whether tokens of the group carry an inherent vowel.
func (g Group) IsConsonant() bool {
	return g == Consonants || g == Other
}

// Kind classifies a scheme.
type Kind int

const (
	// Roman schemes spell every vowel explicitly.
	Roman Kind = iota + 1
	// Brahmic schemes give consonants an inherent vowel that marks or a
	// virama override.
	Brahmic
)

func (k Kind) String() string {
	switch k {
	case Roman:
		return "roman"
	case Brahmic:
		return "brahmic"
	default:
		return "unknown"
	}
}

// ParseKind accepts "roman" or "brahmic".
func ParseKind(s string) (Kind, error) {
	switch s {
	case "roman":
		return Roman, nil
	case "brahmic":
		return Brahmic, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownKind, s)
	}
}

// Scheme is an immutable writing system definition. The zero value is not
// usable; schemes are created through a Registry.
type Scheme struct {
	name   string
	kind   Kind
	groups map[Group][]string
}

func newScheme(name string, kind Kind, groups map[Group][]string) *Scheme {
	s := &Scheme{
		name:   name,
		kind:   kind,
		groups: make(map[Group][]string, len(groups)),
	}
	for g, tokens := range groups {
		s.groups[g] = slices.Clone(tokens)
	}
	if kind == Roman {
		if _, ok := s.groups[VowelMarks]; !ok && len(s.groups[Vowels]) > 0 {
			s.groups[VowelMarks] = slices.Clone(s.groups[Vowels][1:])
		}
	}
	return s
}

func (s *Scheme) Name() string { return s.name }
func (s *Scheme) Kind() Kind   { return s.kind }

// Has reports whether the scheme defines the group.
func (s *Scheme) Has(g Group) bool {
	_, ok := s.groups[g]
	return ok
}

// Tokens returns a copy of the group's tokens, or nil when the group is absent.
func (s *Scheme) Tokens(g Group) []string {
	return slices.Clone(s.groups[g])
}

// Groups returns the groups defined by the scheme in AllGroups order.
func (s *Scheme) Groups() []Group {
	out := make([]Group, 0, len(s.groups))
	for _, g := range AllGroups {
		if s.Has(g) {
			out = append(out, g)
		}
	}
	return out
}

func (s *Scheme) copyGroups() map[Group][]string {
	out := make(map[Group][]string, len(s.groups))
	for g, tokens := range s.groups {
		out[g] = slices.Clone(tokens)
	}
	return out
}
