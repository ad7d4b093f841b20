// Package allowlist decides whether a candidate finding is suppressed
// by the configured allowlist rules.
package allowlist

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/ekremarmagankarakas/SecureGit-Hook/internal/config"
	"github.com/ekremarmagankarakas/SecureGit-Hook/internal/pattern"
)

// Matcher is the compiled form of a config.Allowlist. It is stateless
// after construction.
type Matcher struct {
	files    map[string]bool
	paths    []string
	patterns []*regexp.Regexp
	lines    map[config.LineRef]bool
}

// Compile builds a Matcher. Allowlist patterns are always
// user-supplied, so a pattern that does not compile is skipped and
// reported in the returned warnings rather than failing the run.
func Compile(al config.Allowlist) (*Matcher, []string) {
	m := &Matcher{
		files: make(map[string]bool, len(al.Files)),
		paths: al.Paths,
		lines: make(map[config.LineRef]bool, len(al.Lines)),
	}
	var warnings []string

	for _, f := range al.Files {
		m.files[f] = true
	}
	for _, ref := range al.Lines {
		m.lines[ref] = true
	}
	for _, p := range al.Patterns {
		re, err := pattern.CompileOne(p.Source)
		if err != nil {
			warnings = append(warnings, fmt.Sprintf("allowlist: skipping pattern %q: %v", p.Source, err))
			continue
		}
		m.patterns = append(m.patterns, re)
	}
	return m, warnings
}

// Allowed reports whether the finding identified by its file path,
// line number (0 for whole-file findings), and matched text is
// suppressed. The four rule families are independent and OR-combined:
//
//   - files: the path's basename exactly equals an entry
//   - paths: the path contains an entry as a substring
//   - patterns: the matched text matches an allowlist regex
//   - lines: the (file, line) pair exactly equals an entry; line 0
//     findings are never suppressible this way
func (m *Matcher) Allowed(path string, line int, matched string) bool {
	if m.files[filepath.Base(path)] {
		return true
	}
	for _, p := range m.paths {
		if strings.Contains(path, p) {
			return true
		}
	}
	for _, re := range m.patterns {
		if re.MatchString(matched) {
			return true
		}
	}
	if line > 0 && m.lines[config.LineRef{File: path, Line: line}] {
		return true
	}
	return false
}
