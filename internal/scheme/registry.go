package scheme

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"sync"

	"github.com/samber/lo"
)

var (
	ErrEmptyName     = errors.New("scheme name is empty")
	ErrUnknownKind   = errors.New("unknown scheme kind")
	ErrUnknownGroup  = errors.New("unknown scheme group")
	ErrUnknownScheme = errors.New("unknown scheme")
	ErrMissingVowels = errors.New("roman scheme has no vowels")
	ErrGroupLength   = errors.New("vowel_marks must have one entry fewer than vowels")
)

// Registry stores schemes and their alternate spellings by name.
//
// It is meant to be filled once at startup and only read afterwards. The
// lock keeps late registration memory safe, but maps built from a scheme
// before it was replaced are not refreshed.
type Registry struct {
	mu         sync.RWMutex
	schemes    map[string]*Scheme
	alternates map[string]map[string][]string
}

func NewRegistry() *Registry {
	return &Registry{
		schemes:    make(map[string]*Scheme),
		alternates: make(map[string]map[string][]string),
	}
}

// Register stores a copy of the scheme under name, replacing any scheme
// already registered with that name. A roman scheme without vowel_marks gets
// every vowel except the first.
func (r *Registry) Register(name string, groups map[Group][]string, kind Kind) error {
	if err := validate(name, groups, kind); err != nil {
		return err
	}

	s := newScheme(name, kind, groups)

	r.mu.Lock()
	defer r.mu.Unlock()
	r.schemes[name] = s
	return nil
}

// RegisterAlternates stores alternate spellings for canonical tokens of a
// registered scheme. Every alternate maps to whatever its canonical token maps to.
func (r *Registry) RegisterAlternates(name string, alternates map[string][]string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.schemes[name]; !ok {
		return fmt.Errorf("registering alternates for %q: %w", name, ErrUnknownScheme)
	}
	r.alternates[name] = cloneAlternates(alternates)
	return nil
}

// Derive registers a variant of base under name with some groups replaced.
// The variant inherits the base kind and alternates. For roman variants that
// replace vowels but not vowel_marks, the marks are rebuilt from the new vowels.
func (r *Registry) Derive(base, name string, overrides map[Group][]string) error {
	r.mu.RLock()
	s, ok := r.schemes[base]
	alts := r.alternates[base]
	r.mu.RUnlock()
	if !ok {
		return fmt.Errorf("deriving %q from %q: %w", name, base, ErrUnknownScheme)
	}

	groups := s.copyGroups()
	for g, tokens := range overrides {
		groups[g] = slices.Clone(tokens)
	}
	if s.kind == Roman {
		_, vowelsChanged := overrides[Vowels]
		_, marksGiven := overrides[VowelMarks]
		if vowelsChanged && !marksGiven {
			delete(groups, VowelMarks)
		}
	}

	if err := r.Register(name, groups, s.kind); err != nil {
		return err
	}
	if alts != nil {
		return r.RegisterAlternates(name, alts)
	}
	return nil
}

// Lookup returns the scheme registered under name.
func (r *Registry) Lookup(name string) (*Scheme, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.schemes[name]
	return s, ok
}

// Alternates returns a copy of the alternate spellings of token in the named scheme.
func (r *Registry) Alternates(name, token string) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Clone(r.alternates[name][token])
}

func (r *Registry) IsRoman(name string) bool   { return r.kindOf(name) == Roman }
func (r *Registry) IsBrahmic(name string) bool { return r.kindOf(name) == Brahmic }

func (r *Registry) kindOf(name string) Kind {
	s, ok := r.Lookup(name)
	if !ok {
		return 0
	}
	return s.kind
}

// Names returns every registered scheme name, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	names := lo.Keys(r.schemes)
	r.mu.RUnlock()
	slices.Sort(names)
	return names
}

// NamesOfKind returns the sorted names of schemes with the given kind.
func (r *Registry) NamesOfKind(kind Kind) []string {
	return lo.Filter(r.Names(), func(name string, _ int) bool {
		return r.kindOf(name) == kind
	})
}

func validate(name string, groups map[Group][]string, kind Kind) error {
	if name == "" {
		return ErrEmptyName
	}
	if kind != Roman && kind != Brahmic {
		return fmt.Errorf("registering %q: %w: %d", name, ErrUnknownKind, int(kind))
	}
	for g := range groups {
		if _, ok := groupNames[g]; !ok {
			return fmt.Errorf("registering %q: %w: %d", name, ErrUnknownGroup, int(g))
		}
	}

	vowels, hasVowels := groups[Vowels]
	if kind == Roman && len(vowels) == 0 {
		return fmt.Errorf("registering %q: %w", name, ErrMissingVowels)
	}
	if marks, ok := groups[VowelMarks]; ok && hasVowels && len(marks) != len(vowels)-1 {
		return fmt.Errorf("registering %q: %w (vowels=%d, vowel_marks=%d)",
			name, ErrGroupLength, len(vowels), len(marks))
	}
	return nil
}

func cloneAlternates(in map[string][]string) map[string][]string {
	out := maps.Clone(in)
	for k, v := range out {
		out[k] = slices.Clone(v)
	}
	return out
}
