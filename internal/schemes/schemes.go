// Package schemes loads scheme definitions from YAML files into a scheme.Registry.
//
// The built-in schemes are embedded from data/. Extra schemes can be loaded
// from a directory at startup; a file may extend an already known scheme
// and replace some of its groups.
package schemes

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"

	"github.com/NaanProphet/sanscript/internal/scheme"
	"gopkg.in/yaml.v3"
)

//go:embed data/*.yaml
var builtin embed.FS

// ErrUnresolvedBase is returned when a file extends a scheme that is neither
// registered nor defined by another file in the same load.
var ErrUnresolvedBase = errors.New("base scheme not found")

// File is the on-disk form of a scheme.
type File struct {
	Name       string              `yaml:"name"`
	Kind       string              `yaml:"kind"`
	Extends    string              `yaml:"extends"`
	Groups     map[string][]string `yaml:"groups"`
	Alternates map[string][]string `yaml:"alternates"`
}

// NewRegistry returns a registry holding every built-in scheme.
func NewRegistry() (*scheme.Registry, error) {
	reg := scheme.NewRegistry()
	if err := Register(reg); err != nil {
		return nil, err
	}
	return reg, nil
}

// Register adds the built-in schemes to reg.
func Register(reg *scheme.Registry) error {
	return LoadFS(reg, builtin, "data")
}

// LoadDir adds every *.yaml scheme file in dir to reg.
func LoadDir(reg *scheme.Registry, dir string) error {
	return LoadFS(reg, os.DirFS(dir), ".")
}

// LoadFS adds every *.yaml scheme file under root in fsys to reg. Files that
// extend another scheme are applied after their base.
func LoadFS(reg *scheme.Registry, fsys fs.FS, root string) error {
	paths, err := fs.Glob(fsys, path.Join(root, "*.yaml"))
	if err != nil {
		return fmt.Errorf("listing scheme files: %w", err)
	}

	pending := make([]File, 0, len(paths))
	for _, p := range paths {
		f, err := readFile(fsys, p)
		if err != nil {
			return err
		}
		pending = append(pending, f)
	}

	for len(pending) > 0 {
		var deferred []File
		for _, f := range pending {
			if f.Extends != "" {
				if _, ok := reg.Lookup(f.Extends); !ok {
					deferred = append(deferred, f)
					continue
				}
			}
			if err := apply(reg, f); err != nil {
				return err
			}
		}
		if len(deferred) == len(pending) {
			return fmt.Errorf("loading %q: %w: %q", deferred[0].Name, ErrUnresolvedBase, deferred[0].Extends)
		}
		pending = deferred
	}
	return nil
}

func readFile(fsys fs.FS, p string) (File, error) {
	b, err := fs.ReadFile(fsys, p)
	if err != nil {
		return File{}, fmt.Errorf("reading %s: %w", p, err)
	}
	var f File
	if err := yaml.Unmarshal(b, &f); err != nil {
		return File{}, fmt.Errorf("parsing %s: %w", p, err)
	}
	if f.Name == "" {
		return File{}, fmt.Errorf("parsing %s: %w", p, scheme.ErrEmptyName)
	}
	return f, nil
}

func apply(reg *scheme.Registry, f File) error {
	groups, err := parseGroups(f.Groups)
	if err != nil {
		return fmt.Errorf("loading %q: %w", f.Name, err)
	}

	if f.Extends != "" {
		if err := reg.Derive(f.Extends, f.Name, groups); err != nil {
			return err
		}
	} else {
		kind, err := scheme.ParseKind(f.Kind)
		if err != nil {
			return fmt.Errorf("loading %q: %w", f.Name, err)
		}
		if err := reg.Register(f.Name, groups, kind); err != nil {
			return err
		}
	}

	if len(f.Alternates) > 0 {
		return reg.RegisterAlternates(f.Name, f.Alternates)
	}
	return nil
}

func parseGroups(raw map[string][]string) (map[scheme.Group][]string, error) {
	groups := make(map[scheme.Group][]string, len(raw))
	for name, tokens := range raw {
		g, err := scheme.ParseGroup(name)
		if err != nil {
			return nil, err
		}
		groups[g] = tokens
	}
	return groups, nil
}
