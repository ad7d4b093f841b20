package gitops

import (
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func initRepo(t *testing.T) string {
	t.Helper()
	tmp := t.TempDir()
	wd, err := os.Getwd()
	require.NoError(t, err)
	t.Cleanup(func() { _ = os.Chdir(wd) })
	require.NoError(t, os.Chdir(tmp))

	runGit(t, "init")
	runGit(t, "config", "user.name", "tester")
	runGit(t, "config", "user.email", "tester@example.com")
	return tmp
}

func runGit(t *testing.T, args ...string) string {
	t.Helper()
	out, err := exec.Command("git", args...).CombinedOutput()
	if err != nil {
		t.Fatalf("git %v failed: %v (%s)", args, err, string(out))
	}
	return string(out)
}

func TestRepoRoot(t *testing.T) {
	tmp := initRepo(t)
	root, err := RepoRoot()
	require.NoError(t, err)

	wantRoot, err := filepath.EvalSymlinks(tmp)
	require.NoError(t, err)
	gotRoot, err := filepath.EvalSymlinks(root)
	require.NoError(t, err)
	assert.Equal(t, wantRoot, gotRoot)
}

func TestStagedFiles(t *testing.T) {
	initRepo(t)
	require.NoError(t, os.WriteFile("config.py", []byte(`API_KEY = "abc123xyz456"`+"\n"), 0644))
	require.NoError(t, os.WriteFile(".env", []byte("TOKEN=x\n"), 0644))
	require.NoError(t, os.WriteFile("unstaged.py", []byte("a = 1\n"), 0644))
	runGit(t, "add", "config.py", ".env")

	files, err := StagedFiles()
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"config.py", ".env"}, files)
}

func TestTrackedFiles(t *testing.T) {
	initRepo(t)
	require.NoError(t, os.WriteFile("a.py", []byte("a = 1\n"), 0644))
	runGit(t, "add", ".")
	runGit(t, "commit", "-m", "init")
	require.NoError(t, os.WriteFile("untracked.py", []byte("b = 2\n"), 0644))

	files, err := TrackedFiles()
	require.NoError(t, err)
	assert.Equal(t, []string{"a.py"}, files)
}

func TestLoadCandidatesSkipsUnreadable(t *testing.T) {
	tmp := initRepo(t)
	require.NoError(t, os.MkdirAll(filepath.Join(tmp, "src"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(tmp, "src", "app.py"), []byte("x = 1\n"), 0644))

	candidates := LoadCandidates(tmp, []string{"src/app.py", "missing.py"})
	require.Len(t, candidates, 1)
	assert.Equal(t, "src/app.py", candidates[0].Path)
	assert.Equal(t, ".py", candidates[0].Ext)
	assert.Equal(t, "x = 1\n", string(candidates[0].Content))
}

func TestLoadCandidatesLowercasesExtension(t *testing.T) {
	tmp := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(tmp, "Config.PY"), []byte("x = 1\n"), 0644))
	candidates := LoadCandidates(tmp, []string{"Config.PY"})
	require.Len(t, candidates, 1)
	assert.Equal(t, ".py", candidates[0].Ext)
}
