package engine

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/nilotpal-labs/ignitekv/pkg/errors"
	"github.com/stretchr/testify/require"
)

func TestCheckEngineMarkerWritesOnFirstOpen(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, CheckEngineMarker(dir, "kvs"))

	contents, err := os.ReadFile(filepath.Join(dir, markerFileName))
	require.NoError(t, err)
	require.Equal(t, "kvs", string(contents))
}

func TestCheckEngineMarkerAcceptsMatchingReopen(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, CheckEngineMarker(dir, "kvs"))
	require.NoError(t, CheckEngineMarker(dir, "kvs"))
}

func TestCheckEngineMarkerRejectsMismatch(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, CheckEngineMarker(dir, "kvs"))

	err := CheckEngineMarker(dir, "sled")
	require.Error(t, err)
	serverErr, ok := errors.AsServerError(err)
	require.True(t, ok)
	require.Equal(t, errors.ErrorCodeEngineMismatch, serverErr.Code())
}

func TestCheckEngineMarkerRejectsUnrecognizedPersistedValue(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, markerFileName), []byte("bogus"), 0644))

	err := CheckEngineMarker(dir, "kvs")
	require.Error(t, err)
	serverErr, ok := errors.AsServerError(err)
	require.True(t, ok)
	require.Equal(t, errors.ErrorCodeInvalidEngine, serverErr.Code())
}
