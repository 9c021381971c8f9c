package artifacts

import (
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/hashicorp/go-hclog"

	"github.com/scan-io-git/pfast/pkg/shared/files"
)

// GetArtifactName build returns artifact name.
// Example: exec_build_2025-09-15T08:28:46Z.pfast-artifact.
func GetArtifactName(command, tool string, t time.Time) string {
	ts := t.UTC().Format(time.RFC3339)
	return fmt.Sprintf("%s_%s_%s.pfast-artifact", command, filepath.Base(tool), ts)
}

// SaveArtifactJSON writes the provided result to <dir>/<base>.json.
// Returns full path.
func SaveArtifactJSON(dir string, logger hclog.Logger, command, tool string, result interface{}) (string, error) {
	base := GetArtifactName(command, tool, time.Now())
	path := filepath.Join(dir, base+".json")

	resultData, err := json.MarshalIndent(result, "", "    ")
	if err != nil {
		return path, fmt.Errorf("error marshaling the result data: %w", err)
	}

	if err := files.CreateFolderIfNotExists(dir); err != nil {
		return path, err
	}
	err = files.WriteFileAtomic(path, func(w io.Writer) error {
		_, err := w.Write(resultData)
		return err
	})
	if err != nil {
		return path, fmt.Errorf("error writing result to artifact file: %w", err)
	}
	logger.Info("artifact saved to file", "path", path)

	return path, nil
}
