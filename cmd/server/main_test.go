package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCloseLoggerReleasesLogFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "server.log")

	lg, file, err := createLogger(path)
	require.NoError(t, err)
	require.NotNil(t, file)

	lg.Info("Server stopped", "reason", "test")
	closeLogger(lg, file)

	assert.ErrorIs(t, file.Close(), os.ErrClosed)
	_, err = os.Stat(path)
	assert.NoError(t, err)
}

func TestCreateLoggerBadPath(t *testing.T) {
	_, file, err := createLogger(filepath.Join(t.TempDir(), "missing", "server.log"))
	require.Error(t, err)
	assert.Nil(t, file)
}
