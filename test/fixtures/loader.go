// Package fixtures locates the files shared by the end-to-end tests.
package fixtures

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/require"
)

// fixturesDir returns the absolute path to the fixtures directory.
func fixturesDir() string {
	_, file, _, _ := runtime.Caller(0)
	return filepath.Dir(file)
}

// Path returns the absolute path of a fixture file and fails the test if it is missing.
func Path(t *testing.T, name string) string {
	t.Helper()
	path := filepath.Join(fixturesDir(), filepath.FromSlash(name))
	_, err := os.Stat(path)
	require.NoError(t, err, "missing fixture: %s", name)
	return path
}

// InstallProfile copies profiles/<name>.json into configDir so the CLI can load it.
func InstallProfile(t *testing.T, configDir, name string) {
	t.Helper()
	data, err := os.ReadFile(Path(t, "profiles/"+name+".json"))
	require.NoError(t, err)
	dst := filepath.Join(configDir, "profiles")
	require.NoError(t, os.MkdirAll(dst, 0o700))
	require.NoError(t, os.WriteFile(filepath.Join(dst, name+".json"), data, 0o600))
}
