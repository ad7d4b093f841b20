// Package scan applies the compiled detection patterns to staged
// files and accumulates the findings that survive allowlist filtering.
package scan

import (
	"bytes"
	"log/slog"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/ekremarmagankarakas/SecureGit-Hook/internal/allowlist"
	"github.com/ekremarmagankarakas/SecureGit-Hook/internal/config"
	"github.com/ekremarmagankarakas/SecureGit-Hook/internal/pattern"
)

// Kind classifies a finding.
type Kind string

const (
	ProhibitedFile Kind = "prohibited_file"
	SecretPattern  Kind = "secret_pattern"
)

// Candidate is one staged file, supplied by the git collaborator.
type Candidate struct {
	Path    string
	Ext     string
	Content []byte
}

// Finding is a single detected match. Line is 1-based for content
// matches and 0 for whole-file findings.
type Finding struct {
	File          string
	Line          int
	Kind          Kind
	MatchedText   string
	PatternSource string
}

// Result is the outcome of one scan invocation. FilesScanned counts
// only candidates whose content was actually scanned.
type Result struct {
	Findings     []Finding
	FilesScanned int
	Blocked      bool
}

// Run scans the candidates in order. The prohibited-file check applies
// to every candidate regardless of extension filtering; content
// scanning applies to candidates with a valid extension, or to all of
// them when scan_entire_repo is set. Every raw finding is passed
// through the allowlist before it reaches the result.
func Run(cfg *config.Config, set *pattern.Set, allow *allowlist.Matcher, candidates []Candidate) Result {
	var res Result
	if !cfg.Enabled {
		return res
	}

	prohibitedNames := make(map[string]bool, len(cfg.ProhibitedFiles))
	for _, name := range cfg.ProhibitedFiles {
		prohibitedNames[name] = true
	}
	validExts := make(map[string]bool, len(cfg.ValidExtensions))
	for _, ext := range cfg.ValidExtensions {
		validExts[ext] = true
	}

	for _, cand := range candidates {
		if f, ok := prohibitedFinding(cand, prohibitedNames, set.ProhibitedFiles); ok {
			if !allow.Allowed(f.File, f.Line, f.MatchedText) {
				res.Findings = append(res.Findings, f)
			}
		}

		if !cfg.ScanEntireRepo && !validExts[cand.Ext] {
			continue
		}
		if !decodable(cand.Content) {
			slog.Warn("skipping undecodable file", "file", cand.Path)
			continue
		}
		res.FilesScanned++
		if len(cand.Content) == 0 {
			continue
		}

		for i, line := range strings.Split(string(cand.Content), "\n") {
			lineNum := i + 1
			for _, cp := range set.SecretContent {
				for _, match := range cp.Regexp.FindAllString(line, -1) {
					if allow.Allowed(cand.Path, lineNum, match) {
						continue
					}
					res.Findings = append(res.Findings, Finding{
						File:          cand.Path,
						Line:          lineNum,
						Kind:          SecretPattern,
						MatchedText:   match,
						PatternSource: cp.Source,
					})
				}
			}
		}
	}

	res.Blocked = len(res.Findings) > 0
	return res
}

// prohibitedFinding emits at most one whole-file finding per
// candidate: an exact name match wins, otherwise the first prohibited
// pattern that matches the path.
func prohibitedFinding(cand Candidate, names map[string]bool, patterns []pattern.Compiled) (Finding, bool) {
	base := filepath.Base(cand.Path)
	if names[base] {
		return Finding{
			File:          cand.Path,
			Kind:          ProhibitedFile,
			MatchedText:   base,
			PatternSource: base,
		}, true
	}
	for _, cp := range patterns {
		if cp.Regexp.MatchString(cand.Path) {
			return Finding{
				File:          cand.Path,
				Kind:          ProhibitedFile,
				MatchedText:   cand.Path,
				PatternSource: cp.Source,
			}, true
		}
	}
	return Finding{}, false
}

// decodable reports whether content looks like text. Binary files are
// skipped, not fatal.
func decodable(content []byte) bool {
	return utf8.Valid(content) && !bytes.ContainsRune(content, 0)
}
