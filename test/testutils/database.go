// Package testutils provides common testing utilities and infrastructure setup
package testutils

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"
)

// TempCatalogFile writes lines to a fresh catalog file and returns its path.
// Every line is newline-terminated.
func TempCatalogFile(t *testing.T, lines ...string) string {
	t.Helper()

	content := ""
	if len(lines) > 0 {
		content = strings.Join(lines, "\n") + "\n"
	}
	return TempCatalogContent(t, content)
}

// TempCatalogContent writes raw content to a fresh catalog file
func TempCatalogContent(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "recipes.txt")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

// ReadCatalogFile returns the raw content of a catalog file
func ReadCatalogFile(t *testing.T, path string) string {
	t.Helper()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

// TempDatabasePath returns a path for a SQLite file that is removed with the test
func TempDatabasePath(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "recipes.db")
}

// NewTestLogger returns a logger that writes through t.Log
func NewTestLogger(t *testing.T) *zap.Logger {
	return zaptest.NewLogger(t)
}
