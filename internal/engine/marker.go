package engine

import (
	"os"
	"path/filepath"

	"github.com/nilotpal-labs/ignitekv/pkg/errors"
)

const markerFileName = "engine"

// CheckEngineMarker enforces that a data directory is only ever opened
// by one storage engine implementation. If no marker file exists yet,
// one is written recording engineName. If it exists and disagrees, this
// reports a fatal EngineMismatch error; an unrecognized prior value
// reports InvalidEngine.
func CheckEngineMarker(dataDir, engineName string) error {
	path := filepath.Join(dataDir, markerFileName)

	contents, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		if mkErr := os.MkdirAll(dataDir, 0755); mkErr != nil {
			return errors.ClassifyDirectoryCreationError(mkErr, dataDir)
		}
		if writeErr := os.WriteFile(path, []byte(engineName), 0644); writeErr != nil {
			return errors.NewStorageError(writeErr, errors.ErrorCodeIO, "failed to write engine marker file").
				WithPath(path)
		}
		return nil
	}
	if err != nil {
		return errors.ClassifyFileOpenError(err, path, markerFileName)
	}

	persisted := string(contents)
	switch persisted {
	case "kvs", "sled":
		// recognized marker value
	default:
		return errors.NewServerError(nil, errors.ErrorCodeInvalidEngine, "engine marker file contains an unrecognized value").
			WithDetail("path", path).
			WithDetail("persisted", persisted)
	}

	if persisted != engineName {
		return errors.NewServerError(nil, errors.ErrorCodeEngineMismatch, "requested engine differs from the one persisted in this data directory").
			WithDetail("path", path).
			WithDetail("persisted", persisted).
			WithDetail("requested", engineName)
	}

	return nil
}
