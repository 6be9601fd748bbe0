// Package catalog holds the built-in architecture patterns.
//
// Each pattern is a YAML document embedded into the binary
// (patterns/<key>.yaml). The documents are parsed once, validated, and
// kept as an immutable table keyed by model.PatternKey. The table is shared
// by every concurrent scaffold and needs no locking because nothing ever
// writes to it after loading; lookups hand out deep copies.
//
// Document format:
//
//	label: Clean Architecture
//	description: One paragraph shown by `patterns list`.
//	directories:
//	  - src/domain/entities
//	files:
//	  - path: src/main.ts
//	    content: |
//	      export {};
//
// Content is placed verbatim; there is no templating.
package catalog

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"path"
	"sort"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/shinji-kodama/archscaffold/internal/model"
)

//go:embed patterns/*.yaml
var builtin embed.FS

// patternDoc is the on-disk YAML shape of a single pattern.
type patternDoc struct {
	Label       string    `yaml:"label"`
	Description string    `yaml:"description"`
	Directories []string  `yaml:"directories"`
	Files       []fileDoc `yaml:"files"`
}

// fileDoc is one entry of patternDoc.Files.
type fileDoc struct {
	Path    string `yaml:"path"`
	Content string `yaml:"content"`
}

// Catalog is a read-only table of patterns.
type Catalog struct {
	patterns map[model.PatternKey]model.Pattern
	order    []model.PatternKey
}

// loadDefault parses the embedded documents exactly once per process.
var loadDefault = sync.OnceValues(func() (*Catalog, error) {
	sub, err := fs.Sub(builtin, "patterns")
	if err != nil {
		return nil, err
	}
	c, err := New(sub)
	if err != nil {
		return nil, err
	}
	if missing := c.missing(); len(missing) > 0 {
		return nil, fmt.Errorf("built-in catalog has no definition for: %s", strings.Join(missing, ", "))
	}
	return c, nil
})

// Default returns the built-in catalog. The embedded data is checked by the
// package tests, so a load failure here is a build defect and panics.
func Default() *Catalog {
	c, err := loadDefault()
	if err != nil {
		panic(fmt.Sprintf("catalog: %v", err))
	}
	return c
}

// New parses every *.yaml file at the root of fsys. The file name without
// extension must be a known pattern key.
func New(fsys fs.FS) (*Catalog, error) {
	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return nil, fmt.Errorf("failed to list pattern documents: %w", err)
	}

	c := &Catalog{patterns: make(map[model.PatternKey]model.Pattern)}
	for _, entry := range entries {
		if entry.IsDir() || path.Ext(entry.Name()) != ".yaml" {
			continue
		}
		key := model.PatternKey(strings.TrimSuffix(entry.Name(), ".yaml"))
		if !key.IsValid() {
			return nil, fmt.Errorf("pattern document %s: %w %q", entry.Name(), model.ErrUnknownPattern, key)
		}

		data, err := fs.ReadFile(fsys, entry.Name())
		if err != nil {
			return nil, fmt.Errorf("failed to read pattern document %s: %w", entry.Name(), err)
		}
		p, err := parsePattern(key, data)
		if err != nil {
			return nil, fmt.Errorf("pattern document %s: %w", entry.Name(), err)
		}
		c.patterns[key] = p
	}

	// Listing order follows the enumeration, not the directory order.
	for _, key := range model.AllPatternKeys() {
		if _, ok := c.patterns[key]; ok {
			c.order = append(c.order, key)
		}
	}
	return c, nil
}

// parsePattern decodes one YAML document strictly and validates it.
func parsePattern(key model.PatternKey, data []byte) (model.Pattern, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var doc patternDoc
	if err := dec.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return model.Pattern{}, errors.New("document is empty")
		}
		return model.Pattern{}, fmt.Errorf("failed to parse YAML: %w", err)
	}

	p := model.Pattern{
		Key:         key,
		Label:       doc.Label,
		Description: strings.TrimSpace(doc.Description),
		Directories: doc.Directories,
		Files:       make([]model.FileSpec, len(doc.Files)),
	}
	if p.Directories == nil {
		p.Directories = []string{}
	}
	for i, f := range doc.Files {
		p.Files[i] = model.FileSpec{Path: f.Path, Content: []byte(f.Content)}
	}

	if err := Check(p); err != nil {
		return model.Pattern{}, err
	}
	return p, nil
}

// Lookup returns a copy of the pattern registered under key.
func (c *Catalog) Lookup(key model.PatternKey) (model.Pattern, bool) {
	p, ok := c.patterns[key]
	if !ok {
		return model.Pattern{}, false
	}
	return p.Clone(), true
}

// Keys returns the registered keys in enumeration order.
func (c *Catalog) Keys() []model.PatternKey {
	return append([]model.PatternKey(nil), c.order...)
}

// Patterns returns copies of all registered patterns in enumeration order.
func (c *Catalog) Patterns() []model.Pattern {
	out := make([]model.Pattern, 0, len(c.order))
	for _, key := range c.order {
		out = append(out, c.patterns[key].Clone())
	}
	return out
}

// missing lists enumeration keys that have no document, sorted.
func (c *Catalog) missing() []string {
	var out []string
	for _, key := range model.AllPatternKeys() {
		if _, ok := c.patterns[key]; !ok {
			out = append(out, key.String())
		}
	}
	sort.Strings(out)
	return out
}
