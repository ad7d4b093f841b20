package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	homedir "github.com/mitchellh/go-homedir"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func isolateHome(t *testing.T) string {
	t.Helper()
	homedir.DisableCache = true
	t.Cleanup(func() { homedir.DisableCache = false })
	home := t.TempDir()
	t.Setenv("HOME", home)
	return home
}

func writeFile(t *testing.T, path, body string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func patternSources(patterns []Pattern) []string {
	out := make([]string, len(patterns))
	for i, p := range patterns {
		out[i] = p.Source
	}
	return out
}

func TestDefaultCatalog(t *testing.T) {
	cfg := Default()
	require.True(t, cfg.Enabled)
	assert.False(t, cfg.ScanEntireRepo)
	assert.Contains(t, cfg.ValidExtensions, ".py")
	for _, ext := range cfg.ValidExtensions {
		assert.True(t, strings.HasPrefix(ext, "."), "extension %q should carry the dot", ext)
		assert.Equal(t, strings.ToLower(ext), ext, "extension %q should be lowercase", ext)
	}
	assert.Contains(t, cfg.ProhibitedFiles, ".env")
	for _, p := range cfg.Patterns {
		assert.True(t, p.Builtin, "default pattern %q should be builtin", p.Source)
	}
	for _, p := range cfg.ProhibitedPatterns {
		assert.True(t, p.Builtin, "default prohibited pattern %q should be builtin", p.Source)
	}
}

func TestResolveWithoutLayersKeepsDefaults(t *testing.T) {
	isolateHome(t)
	cfg, warnings := Resolve(t.TempDir())
	require.Empty(t, warnings)
	assert.True(t, cfg.Enabled)
	assert.Equal(t, len(Default().Patterns), len(cfg.Patterns))
	assert.Equal(t, len(Default().ValidExtensions), len(cfg.ValidExtensions))
}

func TestResolveUnionsCollectionsAcrossLayers(t *testing.T) {
	home := isolateHome(t)
	repo := t.TempDir()

	writeFile(t, filepath.Join(home, ".securegit.json"),
		`{"valid_extensions": ["rb"], "patterns": ["user_pattern_[0-9]+"]}`)
	writeFile(t, filepath.Join(repo, "securegit.json"),
		`{"valid_extensions": [".go"], "patterns": ["repo_pattern_[0-9]+"]}`)

	cfg, warnings := Resolve(repo)
	require.Empty(t, warnings)

	assert.Contains(t, cfg.ValidExtensions, ".py")
	assert.Contains(t, cfg.ValidExtensions, ".rb")
	assert.Contains(t, cfg.ValidExtensions, ".go")

	sources := patternSources(cfg.Patterns)
	assert.Contains(t, sources, "user_pattern_[0-9]+")
	assert.Contains(t, sources, "repo_pattern_[0-9]+")
	assert.Len(t, cfg.Patterns, len(Default().Patterns)+2, "union must add, never replace")
}

func TestRepoLayerOverridesScalars(t *testing.T) {
	home := isolateHome(t)
	repo := t.TempDir()

	writeFile(t, filepath.Join(home, ".securegit.json"), `{"enabled": false}`)
	writeFile(t, filepath.Join(repo, "securegit.json"), `{"enabled": true, "scan_entire_repo": true}`)

	cfg, warnings := Resolve(repo)
	require.Empty(t, warnings)
	assert.True(t, cfg.Enabled, "repository layer takes final precedence")
	assert.True(t, cfg.ScanEntireRepo)
}

func TestMalformedLayerIsSkippedWithWarning(t *testing.T) {
	isolateHome(t)
	repo := t.TempDir()
	writeFile(t, filepath.Join(repo, "securegit.json"), `{"enabled": fal`)

	cfg, warnings := Resolve(repo)
	require.Len(t, warnings, 1)
	assert.Contains(t, warnings[0], "securegit.json")
	assert.True(t, cfg.Enabled, "broken layer must fall through to defaults")
	assert.Equal(t, len(Default().Patterns), len(cfg.Patterns))
}

func TestYAMLLayer(t *testing.T) {
	isolateHome(t)
	repo := t.TempDir()
	writeFile(t, filepath.Join(repo, "securegit.yaml"), "enabled: false\nvalid_extensions:\n  - rb\n")

	cfg, warnings := Resolve(repo)
	require.Empty(t, warnings)
	assert.False(t, cfg.Enabled)
	assert.Contains(t, cfg.ValidExtensions, ".rb")
}

func TestExtensionNormalization(t *testing.T) {
	isolateHome(t)
	repo := t.TempDir()
	writeFile(t, filepath.Join(repo, "securegit.json"), `{"valid_extensions": ["RB", " Go ", ".PY"]}`)

	cfg, warnings := Resolve(repo)
	require.Empty(t, warnings)
	assert.Contains(t, cfg.ValidExtensions, ".rb")
	assert.Contains(t, cfg.ValidExtensions, ".go")
	assert.NotContains(t, cfg.ValidExtensions, ".PY")
	assert.Equal(t, 1, countOf(cfg.ValidExtensions, ".py"), ".PY must deduplicate against the default .py")
}

func TestAllowlistLinesParsing(t *testing.T) {
	isolateHome(t)
	repo := t.TempDir()
	writeFile(t, filepath.Join(repo, "securegit.json"),
		`{"allowlist": {"files": ["fixture.py"], "lines": ["src/config.py:12", "bogus", "a.py:0"]}}`)

	cfg, warnings := Resolve(repo)
	require.Len(t, warnings, 2, "bad line entries are skipped individually")
	assert.Equal(t, []LineRef{{File: "src/config.py", Line: 12}}, cfg.Allowlist.Lines)
	assert.Contains(t, cfg.Allowlist.Files, "fixture.py")
}

func TestHomeResolutionFailureWarnsAndFallsThrough(t *testing.T) {
	orig := userHomeDir
	userHomeDir = func() (string, error) { return "", errors.New("no passwd entry") }
	t.Cleanup(func() { userHomeDir = orig })

	cfg, warnings := Resolve(t.TempDir())
	require.Len(t, warnings, 1)
	assert.Contains(t, warnings[0], "user configuration skipped")
	assert.True(t, cfg.Enabled, "failure to locate the home directory must not be fatal")
}

func TestEnvOverrides(t *testing.T) {
	isolateHome(t)
	repo := t.TempDir()
	t.Setenv("SECUREGIT_ENABLED", "false")
	t.Setenv("SECUREGIT_LOG_LEVEL", "debug")

	cfg, warnings := Resolve(repo)
	require.Empty(t, warnings)
	assert.False(t, cfg.Enabled)
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestEnvConfigPathReplacesDiscovery(t *testing.T) {
	isolateHome(t)
	repo := t.TempDir()
	writeFile(t, filepath.Join(repo, "securegit.json"), `{"enabled": false}`)

	alt := filepath.Join(t.TempDir(), "alt.json")
	writeFile(t, alt, `{"scan_entire_repo": true}`)
	t.Setenv("SECUREGIT_CONFIG", alt)

	cfg, warnings := Resolve(repo)
	require.Empty(t, warnings)
	assert.True(t, cfg.Enabled, "discovered repo file must be ignored when SECUREGIT_CONFIG is set")
	assert.True(t, cfg.ScanEntireRepo)
}

func countOf(values []string, want string) int {
	n := 0
	for _, v := range values {
		if v == want {
			n++
		}
	}
	return n
}
