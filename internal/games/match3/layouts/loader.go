package layouts

import (
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

//go:embed builtin/*.yaml
var builtinFS embed.FS

// Builtin returns the embedded layouts sorted by ID.
func Builtin() ([]Layout, error) {
	return loadFS(builtinFS, "builtin")
}

// BuiltinByID returns one embedded layout.
func BuiltinByID(id string) (Layout, error) {
	all, err := Builtin()
	if err != nil {
		return Layout{}, err
	}
	for _, l := range all {
		if l.ID == id {
			return l, nil
		}
	}
	return Layout{}, fmt.Errorf("layouts: unknown layout %q", id)
}

// LoadFile reads a single layout file.
func LoadFile(path string) (Layout, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Layout{}, fmt.Errorf("reading file %s: %w", path, err)
	}
	l, err := ParseYAML(data)
	if err != nil {
		return Layout{}, fmt.Errorf("parsing file %s: %w", path, err)
	}
	if l.ID == "" {
		l.ID = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	l.FilePath = path
	return l, nil
}

// LoadDir loads every .yaml/.yml file under root. Invalid files are
// skipped.
func LoadDir(root string) ([]Layout, error) {
	return loadFS(os.DirFS(root), ".")
}

// Resolve returns a builtin layout when ref names one, otherwise it treats
// ref as a file path.
func Resolve(ref string) (Layout, error) {
	if l, err := BuiltinByID(ref); err == nil {
		return l, nil
	}
	return LoadFile(ref)
}

func loadFS(fsys fs.FS, root string) ([]Layout, error) {
	var out []Layout
	err := fs.WalkDir(fsys, root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		ext := strings.ToLower(filepath.Ext(path))
		if ext != ".yaml" && ext != ".yml" {
			return nil
		}

		data, err := fs.ReadFile(fsys, path)
		if err != nil {
			return nil
		}
		l, err := ParseYAML(data)
		if err != nil {
			return nil
		}
		if l.ID == "" {
			l.ID = strings.TrimSuffix(filepath.Base(path), ext)
		}
		l.FilePath = path
		out = append(out, l)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking %s: %w", root, err)
	}

	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}
