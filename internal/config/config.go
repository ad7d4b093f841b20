package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/caarlos0/env/v11"
	homedir "github.com/mitchellh/go-homedir"
	"gopkg.in/yaml.v3"
)

// Pattern is one regex source together with its provenance. Builtin
// patterns that fail to compile abort the run; user-supplied ones are
// skipped with a warning.
type Pattern struct {
	Source  string
	Builtin bool
}

// LineRef identifies a single line of a repository-relative file.
type LineRef struct {
	File string
	Line int
}

// Allowlist suppresses individual findings. Files match by basename,
// paths by substring against the repository-relative path, patterns by
// regex against the matched text, and lines by exact (file, line) pair.
type Allowlist struct {
	Files    []string
	Paths    []string
	Patterns []Pattern
	Lines    []LineRef
}

// Logging configures runtime logging behavior.
type Logging struct {
	Level  string
	Format string
	File   string
}

// Config is the resolved scanner configuration. It is built once per
// invocation and immutable afterwards.
//
// Collection fields are unioned across layers (defaults, then the
// user-level file, then the repository file); scalar fields are
// overridden by the last layer that sets them. The file format has no
// flag to disable inheritance: union is the only supported merge.
type Config struct {
	Enabled            bool
	ScanEntireRepo     bool
	ValidExtensions    []string
	ProhibitedFiles    []string
	ProhibitedPatterns []Pattern
	Patterns           []Pattern
	Allowlist          Allowlist
	Logging            Logging
}

// overlay is the on-disk schema shared by securegit.json and
// securegit.yaml. Unknown keys are ignored; absent keys inherit from
// the lower layer.
type overlay struct {
	Enabled            *bool             `json:"enabled" yaml:"enabled"`
	ScanEntireRepo     *bool             `json:"scan_entire_repo" yaml:"scan_entire_repo"`
	ValidExtensions    []string          `json:"valid_extensions" yaml:"valid_extensions"`
	ProhibitedFiles    []string          `json:"prohibited_files" yaml:"prohibited_files"`
	ProhibitedPatterns []string          `json:"prohibited_patterns" yaml:"prohibited_patterns"`
	Patterns           []string          `json:"patterns" yaml:"patterns"`
	Allowlist          *allowlistOverlay `json:"allowlist" yaml:"allowlist"`
	Logging            *loggingOverlay   `json:"logging" yaml:"logging"`
}

type allowlistOverlay struct {
	Files    []string `json:"files" yaml:"files"`
	Paths    []string `json:"paths" yaml:"paths"`
	Patterns []string `json:"patterns" yaml:"patterns"`
	Lines    []string `json:"lines" yaml:"lines"`
}

type loggingOverlay struct {
	Level  string `json:"level" yaml:"level"`
	Format string `json:"format" yaml:"format"`
	File   string `json:"file" yaml:"file"`
}

type envOverrides struct {
	Enabled        *bool  `env:"SECUREGIT_ENABLED"`
	ScanEntireRepo *bool  `env:"SECUREGIT_SCAN_ENTIRE_REPO"`
	ConfigPath     string `env:"SECUREGIT_CONFIG"`
	LogLevel       string `env:"SECUREGIT_LOG_LEVEL"`
	LogFormat      string `env:"SECUREGIT_LOG_FORMAT"`
	LogFile        string `env:"SECUREGIT_LOG_FILE"`
}

// Accepted spellings of a layer file, first hit wins.
var layerExtensions = []string{".json", ".yaml", ".yml"}

// userHomeDir locates the user-level layer; swapped out in tests.
var userHomeDir = homedir.Dir

// Resolve builds the effective configuration: builtin defaults, then
// the user-level file in the home directory, then the repository-level
// file under repoRoot, then environment overrides. A missing or
// malformed layer is never fatal; it is skipped and reported in the
// returned warnings.
func Resolve(repoRoot string) (*Config, []string) {
	cfg := Default()
	var warnings []string

	var ov envOverrides
	if err := env.Parse(&ov); err != nil {
		warnings = append(warnings, fmt.Sprintf("environment overrides ignored: %v", err))
		ov = envOverrides{}
	}

	if home, err := userHomeDir(); err != nil {
		warnings = append(warnings, fmt.Sprintf("user configuration skipped: %v", err))
	} else if path := findLayerFile(home, ".securegit"); path != "" {
		warnings = append(warnings, cfg.applyFile(path)...)
	}

	repoPath := ov.ConfigPath
	if repoPath == "" {
		repoPath = findLayerFile(repoRoot, "securegit")
	}
	if repoPath != "" {
		warnings = append(warnings, cfg.applyFile(repoPath)...)
	}

	if ov.Enabled != nil {
		cfg.Enabled = *ov.Enabled
	}
	if ov.ScanEntireRepo != nil {
		cfg.ScanEntireRepo = *ov.ScanEntireRepo
	}
	if ov.LogLevel != "" {
		cfg.Logging.Level = ov.LogLevel
	}
	if ov.LogFormat != "" {
		cfg.Logging.Format = ov.LogFormat
	}
	if ov.LogFile != "" {
		cfg.Logging.File = ov.LogFile
	}

	return cfg, warnings
}

// findLayerFile returns the first existing config file named
// base+ext in dir, or "".
func findLayerFile(dir, base string) string {
	if dir == "" {
		return ""
	}
	for _, ext := range layerExtensions {
		p := filepath.Join(dir, base+ext)
		if st, err := os.Stat(p); err == nil && !st.IsDir() {
			return p
		}
	}
	return ""
}

// applyFile parses one layer file and merges it over c. A parse
// failure skips the whole layer.
func (c *Config) applyFile(path string) []string {
	data, err := os.ReadFile(path)
	if err != nil {
		return []string{fmt.Sprintf("config layer %s skipped: %v", path, err)}
	}
	var o overlay
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &o)
	default:
		err = json.Unmarshal(data, &o)
	}
	if err != nil {
		return []string{fmt.Sprintf("config layer %s skipped: %v", path, err)}
	}
	return c.merge(o, path)
}

// merge applies one parsed overlay: scalars override, collections
// union with the earlier occurrence keeping its position.
func (c *Config) merge(o overlay, layer string) []string {
	var warnings []string

	if o.Enabled != nil {
		c.Enabled = *o.Enabled
	}
	if o.ScanEntireRepo != nil {
		c.ScanEntireRepo = *o.ScanEntireRepo
	}
	c.ValidExtensions = unionStrings(c.ValidExtensions, normalizeExtensions(o.ValidExtensions))
	c.ProhibitedFiles = unionStrings(c.ProhibitedFiles, o.ProhibitedFiles)
	c.ProhibitedPatterns = unionPatterns(c.ProhibitedPatterns, o.ProhibitedPatterns)
	c.Patterns = unionPatterns(c.Patterns, o.Patterns)

	if o.Allowlist != nil {
		c.Allowlist.Files = unionStrings(c.Allowlist.Files, o.Allowlist.Files)
		c.Allowlist.Paths = unionStrings(c.Allowlist.Paths, o.Allowlist.Paths)
		c.Allowlist.Patterns = unionPatterns(c.Allowlist.Patterns, o.Allowlist.Patterns)
		for _, entry := range o.Allowlist.Lines {
			ref, err := parseLineRef(entry)
			if err != nil {
				warnings = append(warnings, fmt.Sprintf("config layer %s: allowlist line %q skipped: %v", layer, entry, err))
				continue
			}
			if !containsLineRef(c.Allowlist.Lines, ref) {
				c.Allowlist.Lines = append(c.Allowlist.Lines, ref)
			}
		}
	}

	if o.Logging != nil {
		if o.Logging.Level != "" {
			c.Logging.Level = o.Logging.Level
		}
		if o.Logging.Format != "" {
			c.Logging.Format = o.Logging.Format
		}
		if o.Logging.File != "" {
			c.Logging.File = o.Logging.File
		}
	}

	return warnings
}

// parseLineRef parses a "path/to/file:line" allowlist entry.
func parseLineRef(entry string) (LineRef, error) {
	idx := strings.LastIndex(entry, ":")
	if idx <= 0 || idx == len(entry)-1 {
		return LineRef{}, fmt.Errorf("want \"file:line\"")
	}
	line, err := strconv.Atoi(entry[idx+1:])
	if err != nil {
		return LineRef{}, fmt.Errorf("bad line number %q", entry[idx+1:])
	}
	if line < 1 {
		return LineRef{}, fmt.Errorf("line numbers are 1-based, got %d", line)
	}
	return LineRef{File: entry[:idx], Line: line}, nil
}

func containsLineRef(refs []LineRef, ref LineRef) bool {
	for _, r := range refs {
		if r == ref {
			return true
		}
	}
	return false
}

// normalizeExtensions lowercases entries and guarantees the leading dot.
func normalizeExtensions(exts []string) []string {
	out := make([]string, 0, len(exts))
	for _, e := range exts {
		e = strings.ToLower(strings.TrimSpace(e))
		if e == "" {
			continue
		}
		if !strings.HasPrefix(e, ".") {
			e = "." + e
		}
		out = append(out, e)
	}
	return out
}

func unionStrings(base, add []string) []string {
	seen := make(map[string]bool, len(base))
	for _, v := range base {
		seen[v] = true
	}
	for _, v := range add {
		if v == "" || seen[v] {
			continue
		}
		seen[v] = true
		base = append(base, v)
	}
	return base
}

func unionPatterns(base []Pattern, add []string) []Pattern {
	seen := make(map[string]bool, len(base))
	for _, p := range base {
		seen[p.Source] = true
	}
	for _, src := range add {
		if src == "" || seen[src] {
			continue
		}
		seen[src] = true
		base = append(base, Pattern{Source: src})
	}
	return base
}
