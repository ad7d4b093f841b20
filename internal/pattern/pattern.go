// Package pattern compiles the configured detection patterns into a
// ready-to-match form. Builtin and user-supplied sources cross the
// fatal/non-fatal boundary differently: a broken builtin aborts the
// run, a broken user pattern is skipped with a warning.
package pattern

import (
	"fmt"
	"regexp"

	"github.com/ekremarmagankarakas/SecureGit-Hook/internal/config"
)

// Compiled pairs a matcher with the regex source it came from, kept
// for diagnostics.
type Compiled struct {
	Source string
	Regexp *regexp.Regexp
}

// Set holds the compiled prohibited-file and secret-content patterns.
// Order follows the configuration and matters only for deterministic
// reporting; all patterns are always tried.
type Set struct {
	ProhibitedFiles []Compiled
	SecretContent   []Compiled
}

// InvalidPatternError reports a builtin pattern that failed to
// compile. It is fatal: losing default coverage silently would be
// worse than failing closed.
type InvalidPatternError struct {
	Source string
	Err    error
}

func (e *InvalidPatternError) Error() string {
	return fmt.Sprintf("builtin pattern %q does not compile: %v", e.Source, e.Err)
}

func (e *InvalidPatternError) Unwrap() error { return e.Err }

// inlineFlagGroup matches a source that opens with a real flag group
// like (?i) or (?-s:. Non-capturing (?: and named (?P< groups also
// start with "(?" but carry no flags.
var inlineFlagGroup = regexp.MustCompile(`^\(\?[imsU-]+[:)]`)

// CompileOne compiles a single source with the uniform case policy:
// matching is case-insensitive unless the source already opens with an
// inline flag group.
func CompileOne(src string) (*regexp.Regexp, error) {
	if !inlineFlagGroup.MatchString(src) {
		src = "(?i)" + src
	}
	return regexp.Compile(src)
}

// Compile builds the pattern set for a resolved configuration. The
// returned warnings name every skipped user pattern; a non-nil error
// is always an *InvalidPatternError for a builtin source.
func Compile(cfg *config.Config) (*Set, []string, error) {
	set := &Set{}
	var warnings []string

	prohibited, w, err := compileAll(cfg.ProhibitedPatterns, "prohibited_patterns")
	if err != nil {
		return nil, nil, err
	}
	warnings = append(warnings, w...)
	set.ProhibitedFiles = prohibited

	content, w, err := compileAll(cfg.Patterns, "patterns")
	if err != nil {
		return nil, nil, err
	}
	warnings = append(warnings, w...)
	set.SecretContent = content

	return set, warnings, nil
}

func compileAll(patterns []config.Pattern, field string) ([]Compiled, []string, error) {
	out := make([]Compiled, 0, len(patterns))
	var warnings []string
	for _, p := range patterns {
		re, err := CompileOne(p.Source)
		if err != nil {
			if p.Builtin {
				return nil, nil, &InvalidPatternError{Source: p.Source, Err: err}
			}
			warnings = append(warnings, fmt.Sprintf("%s: skipping pattern %q: %v", field, p.Source, err))
			continue
		}
		out = append(out, Compiled{Source: p.Source, Regexp: re})
	}
	return out, warnings, nil
}
