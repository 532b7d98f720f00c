package logging

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var sessionStart = time.Date(2026, 2, 12, 21, 38, 36, 0, time.UTC)

func TestLogFileName(t *testing.T) {
	assert.Equal(t, "eventmap.20260212_213836.log", logFileName("eventmap", sessionStart))
}

func TestOpenLogFile_CreatesDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "logs")

	f, err := OpenLogFile(dir, "eventmap", sessionStart)
	require.NoError(t, err)
	t.Cleanup(func() { f.Close() })

	assert.Equal(t, filepath.Join(dir, "eventmap.20260212_213836.log"), f.Name())
	_, err = f.WriteString("line\n")
	require.NoError(t, err)
}

func TestOpenLogFile_Appends(t *testing.T) {
	dir := t.TempDir()

	for _, line := range []string{"first\n", "second\n"} {
		f, err := OpenLogFile(dir, "eventmap", sessionStart)
		require.NoError(t, err)
		_, err = f.WriteString(line)
		require.NoError(t, err)
		require.NoError(t, f.Close())
	}

	data, err := os.ReadFile(filepath.Join(dir, logFileName("eventmap", sessionStart)))
	require.NoError(t, err)
	assert.Equal(t, "first\nsecond\n", string(data))
}

func TestOpenLogFile_DirIsFile(t *testing.T) {
	blocker := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(blocker, nil, 0o644))

	_, err := OpenLogFile(blocker, "eventmap", sessionStart)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "logs dir")
}
