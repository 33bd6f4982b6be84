// Package transliteration converts text between the schemes held in a
// scheme.Registry.
package transliteration

import (
	"context"
	"errors"
	"log/slog"
	"regexp"
	"runtime"
	"strings"

	"github.com/NaanProphet/sanscript/internal/metrics"
	"github.com/NaanProphet/sanscript/internal/scheme"
	"golang.org/x/sync/errgroup"
)

const itransScheme = "itrans"

var (
	sgmlTag = regexp.MustCompile(`(<.*?>)`)
	// A backslash escapes the next character unless it starts an ITRANS
	// accent (\' \` \_).
	itransEscape = regexp.MustCompile("\\\\([^'`_]|$)")
)

// Options tunes a single conversion. The zero value is the default.
type Options struct {
	// SkipSGML copies <...> tags through unchanged.
	SkipSGML bool
	// Syncope drops the virama that would close a consonant cluster at a word
	// or input end.
	Syncope bool
}

// Transliterator converts text between registered schemes. It is safe for
// concurrent use.
type Transliterator struct {
	reg   *scheme.Registry
	cache *Cache
	log   *slog.Logger
}

type Option func(*Transliterator)

func WithLogger(log *slog.Logger) Option {
	return func(t *Transliterator) {
		t.log = log
	}
}

// New returns a Transliterator over reg. The registry should be fully
// populated before the first conversion.
func New(reg *scheme.Registry, opts ...Option) *Transliterator {
	t := &Transliterator{
		reg: reg,
		log: slog.Default(),
	}
	for _, opt := range opts {
		opt(t)
	}
	t.cache = NewCache(reg, t.log)
	return t
}

// Transliterate converts text from one scheme to another. It fails with a
// SchemeNotSupportedError, and no output, when either scheme is unknown.
// Characters with no mapping are copied through unchanged.
func (t *Transliterator) Transliterate(text, from, to string, opts Options) (string, error) {
	m, err := t.cache.GetOrBuild(from, to)
	if err != nil {
		if errors.Is(err, ErrSchemeNotSupported) {
			metrics.SchemeNotSupportedTotal.Inc()
		}
		return "", err
	}

	if opts.SkipSGML {
		text = sgmlTag.ReplaceAllString(text, toggle+"${1}"+toggle)
	}
	if from == itransScheme {
		text = preprocessITRANS(text)
	}

	var out string
	if m.fromRoman {
		out = transliterateRoman(text, m, opts)
	} else {
		out = transliterateBrahmic(text, m)
	}
	metrics.TransliterationsTotal.WithLabelValues(from, to).Inc()
	return out, nil
}

// TransliterateBatch converts every text concurrently and returns the results
// in input order.
func (t *Transliterator) TransliterateBatch(ctx context.Context, texts []string, from, to string, opts Options) ([]string, error) {
	if _, err := t.cache.GetOrBuild(from, to); err != nil {
		return nil, err
	}

	results := make([]string, len(texts))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))

	for i, text := range texts {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			out, err := t.Transliterate(text, from, to, opts)
			if err != nil {
				return err
			}
			results[i] = out
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func (t *Transliterator) IsRomanScheme(name string) bool   { return t.reg.IsRoman(name) }
func (t *Transliterator) IsBrahmicScheme(name string) bool { return t.reg.IsBrahmic(name) }

// Schemes returns the sorted names of every registered scheme.
func (t *Transliterator) Schemes() []string { return t.reg.Names() }

// preprocessITRANS rewrites ITRANS shorthands before tokenizing. The order
// matters: the candrabindu shorthand expands to text containing ".h".
func preprocessITRANS(text string) string {
	text = strings.ReplaceAll(text, `{\m+}`, ".h.N")
	text = strings.ReplaceAll(text, ".h", "")
	return itransEscape.ReplaceAllString(text, toggle+"${1}"+toggle)
}
