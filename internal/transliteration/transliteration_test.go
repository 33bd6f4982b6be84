package transliteration

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/NaanProphet/sanscript/internal/scheme"
	"github.com/NaanProphet/sanscript/internal/schemes"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestTransliterator(t *testing.T) *Transliterator {
	t.Helper()
	reg, err := schemes.NewRegistry()
	require.NoError(t, err)
	return New(reg)
}

type conversion struct {
	input string
	from  string
	to    string
	opts  Options
	want  string
}

func runConversions(t *testing.T, tests []conversion) {
	t.Helper()
	tr := newTestTransliterator(t)
	for _, tt := range tests {
		got, err := tr.Transliterate(tt.input, tt.from, tt.to, tt.opts)
		if err != nil {
			t.Errorf("Transliterate(%q, %s, %s) error: %v", tt.input, tt.from, tt.to, err)
			continue
		}
		if got != tt.want {
			t.Errorf("Transliterate(%q, %s, %s) = %q, want %q", tt.input, tt.from, tt.to, got, tt.want)
		}
	}
}

func TestRomanToBrahmic(t *testing.T) {
	runConversions(t, []conversion{
		{input: "rāma", from: "iast", to: "devanagari", want: "राम"},
		{input: "rām", from: "iast", to: "devanagari", want: "राम्"},
		{input: "rAma", from: "itrans", to: "devanagari", want: "राम"},
		{input: "raama", from: "itrans", to: "devanagari", want: "राम"},
		{input: "kRRiShNa", from: "itrans", to: "devanagari", want: "कृष्ण"},
		{input: "kRSNa", from: "hk", to: "devanagari", want: "कृष्ण"},
		{input: "rāmaḥ", from: "iast", to: "devanagari", want: "रामः"},
		{input: "rāma", from: "iast", to: "bengali", want: "রাম"},
		{input: "a", from: "iast", to: "devanagari", want: "अ"},
	})
}

func TestBrahmicToRoman(t *testing.T) {
	runConversions(t, []conversion{
		{input: "राम", from: "devanagari", to: "iast", want: "rāma"},
		{input: "राम्", from: "devanagari", to: "iast", want: "rām"},
		{input: "रामः", from: "devanagari", to: "iast", want: "rāmaḥ"},
		{input: "कृष्ण", from: "devanagari", to: "itrans", want: "kRRiShNa"},
		{input: "कृष्ण", from: "devanagari", to: "hk", want: "kRSNa"},
		{input: "রাম", from: "bengali", to: "iast", want: "rāma"},
		{input: "राम!", from: "devanagari", to: "iast", want: "rāma!"},
	})
}

func TestBetweenSameKinds(t *testing.T) {
	runConversions(t, []conversion{
		{input: "राम", from: "devanagari", to: "bengali", want: "রাম"},
		{input: "कृष्ण", from: "devanagari", to: "telugu", want: "కృష్ణ"},
		{input: "rAmaH", from: "itrans", to: "iast", want: "rāmaḥ"},
		{input: "kṛṣṇa", from: "iast", to: "hk", want: "kRSNa"},
	})
}

func TestNuktaConsonantsToITRANS(t *testing.T) {
	input := "क़ ख़ ग़ ज़ ड़ ढ़ फ़ य़ ऱ"
	runConversions(t, []conversion{
		{input: input, from: "devanagari", to: "itrans", want: "qa Ka Ga za .Da .Dha fa Ya Ra"},
	})
}

func TestSyncope(t *testing.T) {
	runConversions(t, []conversion{
		{input: "rām", from: "iast", to: "devanagari", want: "राम्"},
		{input: "rām", from: "iast", to: "devanagari", opts: Options{Syncope: true}, want: "राम"},
		{input: "rām rāma", from: "iast", to: "devanagari", want: "राम् राम"},
		{input: "rām rāma", from: "iast", to: "devanagari", opts: Options{Syncope: true}, want: "राम राम"},
	})
}

func TestBareConsonantGetsVirama(t *testing.T) {
	tr := newTestTransliterator(t)
	for _, from := range tr.reg.NamesOfKind(scheme.Roman) {
		src, _ := tr.reg.Lookup(from)
		k := src.Tokens(scheme.Consonants)[0]

		got, err := tr.Transliterate(k, from, "devanagari", Options{})
		require.NoError(t, err)
		assert.Equal(t, "क्", got, "from %s", from)

		got, err = tr.Transliterate(k, from, "devanagari", Options{Syncope: true})
		require.NoError(t, err)
		assert.Equal(t, "क", got, "from %s with syncope", from)
	}
}

func TestLongestMatchWins(t *testing.T) {
	runConversions(t, []conversion{
		{input: "kha", from: "itrans", to: "devanagari", want: "ख"},
		{input: "kha", from: "iast", to: "devanagari", want: "ख"},
		{input: "kSha", from: "itrans", to: "devanagari", want: "क्ष"},
		{input: "lRRa", from: "hk", to: "iast", want: "ḹa"},
	})

	reg := scheme.NewRegistry()
	require.NoError(t, reg.Register("short", map[scheme.Group][]string{
		scheme.Vowels:     {"a"},
		scheme.Consonants: {"t", "th"},
	}, scheme.Roman))
	require.NoError(t, reg.Register("long", map[scheme.Group][]string{
		scheme.Vowels:     {"a"},
		scheme.Consonants: {"T", "TH"},
	}, scheme.Roman))

	got, err := New(reg).Transliterate("that", "short", "long", Options{})
	require.NoError(t, err)
	assert.Equal(t, "THaT", got)
}

func TestSkipSGML(t *testing.T) {
	runConversions(t, []conversion{
		{input: "<b>rāma</b>", from: "iast", to: "devanagari", opts: Options{SkipSGML: true}, want: "<b>राम</b>"},
		{input: `<p class="x">rām</p>`, from: "iast", to: "devanagari", opts: Options{SkipSGML: true}, want: `<p class="x">राम्</p>`},
		{input: "<i>राम</i>", from: "devanagari", to: "iast", opts: Options{SkipSGML: true}, want: "<i>rāma</i>"},
	})

	tr := newTestTransliterator(t)
	got, err := tr.Transliterate("<b>rāma</b>", "iast", "devanagari", Options{})
	require.NoError(t, err)
	assert.NotContains(t, got, "<b>")
}

func TestToggleMarkerPassesTextThrough(t *testing.T) {
	tr := newTestTransliterator(t)
	for _, from := range tr.Schemes() {
		for _, to := range []string{"devanagari", "iast", "telugu", "hk"} {
			got, err := tr.Transliterate("##hello world##", from, to, Options{})
			require.NoError(t, err)
			assert.Equal(t, "hello world", got, "%s -> %s", from, to)
		}
	}

	runConversions(t, []conversion{
		{input: "rāma ##rāma## rāma", from: "iast", to: "devanagari", want: "राम rāma राम"},
		{input: "राम ##राम## राम", from: "devanagari", to: "iast", want: "rāma राम rāma"},
	})
}

func TestLoneHash(t *testing.T) {
	runConversions(t, []conversion{
		{input: "राम#", from: "devanagari", to: "iast", want: "rāma#"},
		{input: "#राम", from: "devanagari", to: "iast", want: "#rāma"},
		{input: "##a#b##", from: "devanagari", to: "iast", want: "a#b"},
	})
}

func TestIdentityPairs(t *testing.T) {
	tr := newTestTransliterator(t)
	for _, name := range tr.Schemes() {
		s, _ := tr.reg.Lookup(name)
		var tokens []string
		for _, g := range []scheme.Group{scheme.Vowels, scheme.Consonants, scheme.Symbols} {
			for _, tok := range s.Tokens(g) {
				if tok != "" {
					tokens = append(tokens, tok)
				}
			}
		}
		input := strings.Join(tokens, " ")

		got, err := tr.Transliterate(input, name, name, Options{Syncope: true})
		require.NoError(t, err)
		assert.Equal(t, input, got, "identity for %s", name)
	}
}

func TestITRANSPreprocessing(t *testing.T) {
	runConversions(t, []conversion{
		{input: `a{\m+}`, from: "itrans", to: "devanagari", want: "अ\u0901"},
		{input: "k.ha", from: "itrans", to: "devanagari", want: "क"},
		{input: `a\ka`, from: "itrans", to: "devanagari", want: "अkअ"},
		{input: `a\'`, from: "itrans", to: "devanagari", want: "अ\u0951"},
		{input: "xetra", from: "itrans", to: "devanagari", want: "क्षेत्र"},
	})

	// Escapes are an ITRANS feature only.
	runConversions(t, []conversion{
		{input: `a\ka`, from: "hk", to: "devanagari", want: `अ\क`},
	})
}

func TestDravidianITRANS(t *testing.T) {
	runConversions(t, []conversion{
		{input: "ke", from: "itrans_dravidian", to: "devanagari", want: "क\u0946"},
		{input: "kE", from: "itrans_dravidian", to: "devanagari", want: "के"},
		{input: "ke", from: "itrans", to: "devanagari", want: "के"},
	})
}

func TestUnknownScheme(t *testing.T) {
	tr := newTestTransliterator(t)

	tests := []struct{ from, to, missing string }{
		{"klingon", "devanagari", "klingon"},
		{"iast", "klingon", "klingon"},
	}
	for _, tt := range tests {
		got, err := tr.Transliterate("rāma", tt.from, tt.to, Options{})
		assert.Empty(t, got)
		require.ErrorIs(t, err, ErrSchemeNotSupported)

		var notSupported *SchemeNotSupportedError
		require.True(t, errors.As(err, &notSupported))
		assert.Equal(t, tt.missing, notSupported.Name)
	}
}

func TestClassification(t *testing.T) {
	tr := newTestTransliterator(t)
	assert.True(t, tr.IsRomanScheme("iast"))
	assert.False(t, tr.IsBrahmicScheme("iast"))
	assert.True(t, tr.IsBrahmicScheme("devanagari"))
	assert.False(t, tr.IsRomanScheme("devanagari"))
	assert.False(t, tr.IsRomanScheme("klingon"))
	assert.False(t, tr.IsBrahmicScheme("klingon"))
}

func TestTransliterateBatch(t *testing.T) {
	tr := newTestTransliterator(t)
	ctx := context.Background()

	got, err := tr.TransliterateBatch(ctx, []string{"राम", "कृष्ण", ""}, "devanagari", "iast", Options{})
	require.NoError(t, err)
	assert.Equal(t, []string{"rāma", "kṛṣṇa", ""}, got)

	_, err = tr.TransliterateBatch(ctx, []string{"x"}, "devanagari", "klingon", Options{})
	assert.ErrorIs(t, err, ErrSchemeNotSupported)

	canceled, cancel := context.WithCancel(ctx)
	cancel()
	_, err = tr.TransliterateBatch(canceled, []string{"a", "b", "c"}, "iast", "devanagari", Options{})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestConcurrentUse(t *testing.T) {
	tr := newTestTransliterator(t)

	var wg sync.WaitGroup
	results := make([]string, 32)
	for i := range results {
		wg.Add(1)
		go func() {
			defer wg.Done()
			out, err := tr.Transliterate("kṛṣṇa", "iast", "devanagari", Options{})
			if err == nil {
				results[i] = out
			}
		}()
	}
	wg.Wait()

	for _, got := range results {
		assert.Equal(t, "कृष्ण", got)
	}
	assert.Equal(t, 1, tr.cache.Len())
}

func TestInvalidUTF8PassesThrough(t *testing.T) {
	runConversions(t, []conversion{
		{input: "<b\xff>rāma", from: "iast", to: "devanagari", opts: Options{SkipSGML: true}, want: "<b\xff>राम"},
		{input: "rā\xffma", from: "iast", to: "devanagari", want: "रा\xffम"},
		{input: "##\xff##rāma", from: "iast", to: "devanagari", want: "\xffराम"},
		{input: "क\xff", from: "devanagari", to: "iast", want: "ka\xff"},
		{input: "<i\xff>राम", from: "devanagari", to: "iast", opts: Options{SkipSGML: true}, want: "<i\xff>rāma"},
		{input: "##\xff##", from: "devanagari", to: "iast", want: "\xff"},
	})
}

func TestAlternateLongerThanCanonicalTokens(t *testing.T) {
	reg := scheme.NewRegistry()
	require.NoError(t, reg.Register("plain", map[scheme.Group][]string{
		scheme.Vowels:     {"a", "A"},
		scheme.Consonants: {"k"},
	}, scheme.Roman))
	require.NoError(t, reg.RegisterAlternates("plain", map[string][]string{"A": {"aaa"}}))
	require.NoError(t, reg.Register("script", map[scheme.Group][]string{
		scheme.Vowels:     {"अ", "आ"},
		scheme.VowelMarks: {"ा"},
		scheme.Consonants: {"क"},
		scheme.Virama:     {"्"},
	}, scheme.Brahmic))

	m, err := BuildMap(reg, "plain", "script")
	require.NoError(t, err)
	assert.Equal(t, 3, m.MaxTokenLength())

	got, err := New(reg).Transliterate("kaaa", "plain", "script", Options{})
	require.NoError(t, err)
	assert.Equal(t, "का", got)
}

func TestGroupMissingInDestinationIsSkipped(t *testing.T) {
	runConversions(t, []conversion{
		{input: "ka.c", from: "itrans", to: "devanagari", want: "कॅ"},
		{input: "ka.c", from: "itrans", to: "bengali", want: "ক।চ্"},
	})

	tr := newTestTransliterator(t)
	m, err := BuildMap(tr.reg, "itrans", "bengali")
	require.NoError(t, err)
	_, ok := m.Letter(".c")
	assert.False(t, ok)
}
