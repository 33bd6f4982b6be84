package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/NaanProphet/sanscript/internal/logger"
	"github.com/NaanProphet/sanscript/internal/scheme"
	"github.com/NaanProphet/sanscript/internal/schemes"
	"github.com/NaanProphet/sanscript/internal/transliteration"
	"github.com/NaanProphet/sanscript/internal/tui"
	"github.com/joho/godotenv"
	"github.com/peterbourgon/ff/v4"
	"github.com/peterbourgon/ff/v4/ffhelp"
)

func main() {
	_ = godotenv.Load()
	logger.New()

	if err := mainE(context.Background(), os.Args[1:], os.Stdin, os.Stdout); err != nil {
		slog.Error("fatal", "error", err)
		os.Exit(1)
	}
}

func mainE(ctx context.Context, args []string, stdin io.Reader, stdout io.Writer) error {
	fs := ff.NewFlagSet("sanscript")

	var (
		from        = fs.StringLong("from", "iast", "source scheme")
		to          = fs.StringLong("to", "devanagari", "destination scheme")
		skipSGML    = fs.BoolLong("skip-sgml", "copy <...> tags through unchanged")
		syncope     = fs.BoolLong("syncope", "drop the virama after a final consonant")
		schemesDir  = fs.StringLong("schemes-dir", "", "directory of extra scheme *.yaml files")
		files       = fs.StringListLong("file", "file to transliterate (repeatable)")
		list        = fs.BoolLong("list", "list available schemes and exit")
		interactive = fs.BoolLong("interactive", "start the interactive transliterator")
	)

	if err := ff.Parse(fs, args, ff.WithEnvVarPrefix("SANSCRIPT")); err != nil {
		fmt.Fprintf(stdout, "%s\n", ffhelp.Flags(fs))
		if errors.Is(err, ff.ErrHelp) {
			return nil
		}
		return fmt.Errorf("parsing flags: %w", err)
	}

	reg, err := schemes.NewRegistry()
	if err != nil {
		return fmt.Errorf("loading built-in schemes: %w", err)
	}
	if *schemesDir != "" {
		if err := schemes.LoadDir(reg, *schemesDir); err != nil {
			return fmt.Errorf("loading schemes from %s: %w", *schemesDir, err)
		}
	}

	tr := transliteration.New(reg)
	opts := transliteration.Options{SkipSGML: *skipSGML, Syncope: *syncope}

	switch {
	case *list:
		return listSchemes(stdout, reg)

	case *interactive:
		return tui.Run(tr, *from, *to)

	case len(*files) > 0:
		texts := make([]string, len(*files))
		for i, name := range *files {
			b, err := os.ReadFile(name)
			if err != nil {
				return fmt.Errorf("reading %s: %w", name, err)
			}
			texts[i] = string(b)
		}
		results, err := tr.TransliterateBatch(ctx, texts, *from, *to, opts)
		if err != nil {
			return err
		}
		for _, out := range results {
			if _, err := io.WriteString(stdout, out); err != nil {
				return fmt.Errorf("writing output: %w", err)
			}
		}
		return nil

	case len(fs.GetArgs()) > 0:
		out, err := tr.Transliterate(strings.Join(fs.GetArgs(), " "), *from, *to, opts)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(stdout, out)
		return err

	default:
		b, err := io.ReadAll(stdin)
		if err != nil {
			return fmt.Errorf("reading stdin: %w", err)
		}
		out, err := tr.Transliterate(string(b), *from, *to, opts)
		if err != nil {
			return err
		}
		_, err = io.WriteString(stdout, out)
		return err
	}
}

func listSchemes(w io.Writer, reg *scheme.Registry) error {
	for _, kind := range []scheme.Kind{scheme.Brahmic, scheme.Roman} {
		for _, name := range reg.NamesOfKind(kind) {
			if _, err := fmt.Fprintf(w, "%-18s %s\n", name, kind); err != nil {
				return err
			}
		}
	}
	return nil
}
