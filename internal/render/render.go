// Package render formats scaffold results and pattern listings for humans.
//
// The CLI prints through a Printer with colors enabled when stdout is a
// terminal. The MCP server uses Summary, which is always plain text.
package render

import (
	"fmt"
	"io"
	"path"
	"slices"
	"sort"
	"strings"

	"github.com/fatih/color"

	"github.com/shinji-kodama/archscaffold/internal/model"
)

// colorScheme keeps one color per kind of output line.
// Green: created, Yellow: skipped, Cyan: labels and paths, Faint: details.
type colorScheme struct {
	created *color.Color
	skipped *color.Color
	label   *color.Color
	detail  *color.Color
}

// newColorScheme builds the scheme, with color forced off when disabled.
// Forcing per color (instead of the package-level color.NoColor) keeps a
// plain Printer plain even when the CLI enabled colors globally.
func newColorScheme(enabled bool) *colorScheme {
	s := &colorScheme{
		created: color.New(color.FgGreen),
		skipped: color.New(color.FgYellow),
		label:   color.New(color.FgCyan, color.Bold),
		detail:  color.New(color.Faint),
	}
	for _, c := range []*color.Color{s.created, s.skipped, s.label, s.detail} {
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return s
}

// Printer writes human-readable output.
type Printer struct {
	scheme *colorScheme
}

// NewPrinter returns a Printer; colored controls ANSI escapes.
func NewPrinter(colored bool) *Printer {
	return &Printer{scheme: newColorScheme(colored)}
}

// Result prints a scaffold result: the target, then one line per entry.
func (p *Printer) Result(w io.Writer, r *model.Result) {
	s := p.scheme
	dirs, created, skipped := r.Counts()

	fmt.Fprintf(w, "Scaffolded %s into %s\n", s.label.Sprint(r.Label), r.ResolvedTarget)
	fmt.Fprintf(w, "  %s\n", s.detail.Sprintf("%d directories, %d files created, %d skipped", dirs, created, skipped))

	if dirs > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "  Directories:")
		for _, d := range r.CreatedDirectories {
			fmt.Fprintf(w, "    %s %s/\n", s.created.Sprint("+"), d)
		}
	}
	if created > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "  Created files:")
		for _, f := range r.CreatedFiles {
			fmt.Fprintf(w, "    %s %s\n", s.created.Sprint("+"), f)
		}
	}
	if skipped > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "  Skipped (already exist):")
		for _, f := range r.SkippedFiles {
			fmt.Fprintf(w, "    %s %s\n", s.skipped.Sprint("="), f)
		}
	}
}

// PatternList prints one line per pattern with its key, label and counts.
func (p *Printer) PatternList(w io.Writer, patterns []model.Pattern) {
	width := 0
	for _, pat := range patterns {
		if n := len(pat.Key); n > width {
			width = n
		}
	}
	for _, pat := range patterns {
		// Pad before coloring so escapes do not break alignment.
		key := fmt.Sprintf("%-*s", width, pat.Key)
		fmt.Fprintf(w, "%s  %s %s\n",
			p.scheme.label.Sprint(key),
			pat.Label,
			p.scheme.detail.Sprintf("(%d dirs, %d files)", len(pat.Directories), len(pat.Files)),
		)
	}
}

// PatternTree prints the layout a pattern produces as an indented tree.
func (p *Printer) PatternTree(w io.Writer, pat model.Pattern) {
	fmt.Fprintf(w, "%s (%s)\n", p.scheme.label.Sprint(pat.Label), pat.Key)
	if pat.Description != "" {
		fmt.Fprintf(w, "%s\n", p.scheme.detail.Sprint(pat.Description))
	}
	fmt.Fprintln(w)
	for _, line := range treeLines(pat) {
		fmt.Fprintln(w, line)
	}
}

// treeLines renders every directory and file of pat, sorted, with
// directories marked by a trailing slash.
func treeLines(pat model.Pattern) []string {
	entries := make(map[string]bool) // path -> isDir
	addParents := func(p string) {
		for dir := path.Dir(p); dir != "." && dir != "/"; dir = path.Dir(dir) {
			entries[dir] = true
		}
	}
	for _, d := range pat.Directories {
		clean := path.Clean(d)
		if clean == "." {
			continue
		}
		entries[clean] = true
		addParents(clean)
	}
	for _, f := range pat.Files {
		clean := path.Clean(f.Path)
		if _, ok := entries[clean]; !ok {
			entries[clean] = false
		}
		addParents(clean)
	}

	paths := make([]string, 0, len(entries))
	for p := range entries {
		paths = append(paths, p)
	}
	// Compare segment-wise so "src/x" sorts right after "src", before "src-y".
	sort.Slice(paths, func(i, j int) bool {
		return slices.Compare(strings.Split(paths[i], "/"), strings.Split(paths[j], "/")) < 0
	})

	lines := make([]string, 0, len(paths))
	for _, p := range paths {
		depth := strings.Count(p, "/")
		name := path.Base(p)
		if entries[p] {
			name += "/"
		}
		lines = append(lines, strings.Repeat("  ", depth+1)+name)
	}
	return lines
}

// Summary returns a plain-text description of r. It is the text the MCP
// server sends back to clients.
func Summary(r *model.Result) string {
	var b strings.Builder
	NewPrinter(false).Result(&b, r)
	return b.String()
}

// PatternSummary returns a plain-text listing of patterns with descriptions.
func PatternSummary(patterns []model.Pattern) string {
	var b strings.Builder
	for i, pat := range patterns {
		if i > 0 {
			b.WriteString("\n")
		}
		fmt.Fprintf(&b, "%s: %s (%d dirs, %d files)\n", pat.Key, pat.Label, len(pat.Directories), len(pat.Files))
		if pat.Description != "" {
			fmt.Fprintf(&b, "  %s\n", pat.Description)
		}
	}
	return b.String()
}
