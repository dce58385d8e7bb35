package locale

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"alertdispatch/internal/domain/notification"

	"go.yaml.in/yaml/v3"
)

// DefaultLocale is used whenever the requested locale has no table.
const DefaultLocale = "en"

//go:embed messages/*.yaml
var embedded embed.FS

var _ notification.Localizer = (*Store)(nil)

// Store maps (message key, locale) to a format template. Tables are loaded once and
// never change afterwards, so a Store is safe for concurrent use.
type Store struct {
	tables map[string]map[string]string
}

// NewStore loads the embedded tables and, when dir is non-empty, every <locale>.yaml
// file in dir. Keys from dir override embedded keys of the same locale.
func NewStore(dir string) (*Store, error) {
	s := &Store{tables: make(map[string]map[string]string)}

	if err := s.loadFS(embedded, "messages"); err != nil {
		return nil, fmt.Errorf("loading embedded messages: %w", err)
	}

	if dir != "" {
		if err := s.loadFS(os.DirFS(dir), "."); err != nil {
			return nil, fmt.Errorf("loading messages from %s: %w", dir, err)
		}
	}

	if _, ok := s.tables[DefaultLocale]; !ok {
		return nil, errors.New("default locale table missing")
	}

	return s, nil
}

// NewStoreFromTables builds a Store from in-memory tables.
func NewStoreFromTables(tables map[string]map[string]string) *Store {
	s := &Store{tables: make(map[string]map[string]string, len(tables))}
	for loc, t := range tables {
		s.merge(loc, t)
	}
	return s
}

func (s *Store) loadFS(fsys fs.FS, root string) error {
	files, err := fs.Glob(fsys, path.Join(root, "*.yaml"))
	if err != nil {
		return err
	}

	for _, file := range files {
		data, err := fs.ReadFile(fsys, file)
		if err != nil {
			return fmt.Errorf("reading %s: %w", file, err)
		}

		var table map[string]string
		if err := yaml.Unmarshal(data, &table); err != nil {
			return fmt.Errorf("parsing %s: %w", file, err)
		}

		loc := strings.TrimSuffix(filepath.Base(file), filepath.Ext(file))
		s.merge(loc, table)
	}
	return nil
}

func (s *Store) merge(loc string, table map[string]string) {
	dst, ok := s.tables[loc]
	if !ok {
		dst = make(map[string]string, len(table))
		s.tables[loc] = dst
	}
	for k, v := range table {
		dst[k] = v
	}
}

// Locales returns the locales with a table, sorted.
func (s *Store) Locales() []string {
	out := make([]string, 0, len(s.tables))
	for loc := range s.tables {
		out = append(out, loc)
	}
	sort.Strings(out)
	return out
}

// Resolve returns the template for key in locale formatted with args.
//
// An unknown locale falls back to DefaultLocale. An unknown key yields
// "Missing message for key: <key>". If the template cannot be formatted (too few
// arguments or a malformed placeholder) the raw template is returned. Resolve never
// fails; callers can only tell degraded output apart by its content.
func (s *Store) Resolve(key, locale string, args ...any) string {
	table, ok := s.tables[locale]
	if !ok {
		table = s.tables[DefaultLocale]
	}

	tmpl, ok := table[key]
	if !ok {
		return "Missing message for key: " + key
	}

	text, err := format(tmpl, args)
	if err != nil {
		if errors.Is(err, errNotEnoughArgs) {
			slog.Warn("not enough arguments for message",
				"key", key,
				"locale", locale,
				"template", tmpl,
			)
		} else {
			slog.Error("formatting message failed",
				"key", key,
				"locale", locale,
				"error", err,
			)
		}
		return tmpl
	}

	return text
}
