// Package testutil provides shared fixture helpers for test packages
// that need a repository index or a profiles directory on disk.
package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// RepoRoot returns the absolute path to the repository root by walking
// up from the current working directory. It fails the test if the
// working directory cannot be determined.
func RepoRoot(t *testing.T) string {
	t.Helper()
	dir, err := os.Getwd()
	require.NoError(t, err)
	return filepath.Clean(filepath.Join(dir, "..", ".."))
}

// FixturePath resolves a path under the repository's fixtures directory.
func FixturePath(t *testing.T, parts ...string) string {
	t.Helper()
	return filepath.Join(append([]string{RepoRoot(t), "fixtures"}, parts...)...)
}

// WriteRepoIndex writes a repository index YAML into a temp directory
// and returns its path.
func WriteRepoIndex(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "repo-index.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

// WriteProfilesDir writes an arch.list and profiles.yaml into a temp
// profiles directory and returns its path.
func WriteProfilesDir(t *testing.T, archList string, profilesYAML string) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "arch.list"), []byte(archList), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "profiles.yaml"), []byte(profilesYAML), 0644))
	return dir
}
