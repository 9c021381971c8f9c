package files

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// ExpandPath resolves paths that include a tilde (~) to the user's home directory.
func ExpandPath(path string) (string, error) {
	if strings.HasPrefix(path, "~/") {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(homeDir, path[2:]), nil
	}
	return path, nil
}

// ValidatePath checks if the given path is a valid file path for reading.
func ValidatePath(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("path stat error: %w", err)
	}
	if info.IsDir() {
		return fmt.Errorf("path %q is a directory, not a file", path)
	}

	if info.Mode()&os.ModeType != 0 {
		return fmt.Errorf("path %q is not a regular file", path)
	}
	return nil
}

// ResolveXMLPath expands the path, appends ".xml" when it has no extension and makes it absolute.
func ResolveXMLPath(path string) (string, error) {
	expanded, err := ExpandPath(path)
	if err != nil {
		return "", fmt.Errorf("failed to expand path %q: %w", path, err)
	}
	if filepath.Ext(expanded) == "" {
		expanded += ".xml"
	}
	abs, err := filepath.Abs(expanded)
	if err != nil {
		return "", fmt.Errorf("failed to resolve path %q: %w", expanded, err)
	}
	return abs, nil
}

// CreateFolderIfNotExists creates a folder if it does not exist.
func CreateFolderIfNotExists(folder string) error {
	if _, err := os.Stat(folder); os.IsNotExist(err) {
		if err := os.MkdirAll(folder, os.ModePerm); err != nil {
			return fmt.Errorf("unable to create folder %q: %w", folder, err)
		}
	} else if err != nil {
		return fmt.Errorf("unable to check folder %q: %w", folder, err)
	}
	return nil
}

// RemoveIfExists deletes the file at path. A missing file is not an error.
func RemoveIfExists(path string) error {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// TempPath returns a unique, not yet existing file name inside dir.
// An empty dir means the system temp folder.
func TempPath(dir, prefix, ext string) string {
	if dir == "" {
		dir = os.TempDir()
	}
	return filepath.Join(dir, fmt.Sprintf("%s-%s%s", prefix, uuid.New().String(), ext))
}

// WriteFileAtomic writes the content produced by write to a temporary file next to path
// and renames it over path once write succeeds. On failure path is left untouched.
func WriteFileAtomic(path string, write func(w io.Writer) error) error {
	dir := filepath.Dir(path)
	tmp := TempPath(dir, "."+filepath.Base(path), ".tmp")

	file, err := os.OpenFile(tmp, os.O_CREATE|os.O_WRONLY|os.O_EXCL, 0644)
	if err != nil {
		return fmt.Errorf("failed creating file: %w", err)
	}

	datawriter := bufio.NewWriter(file)
	if err := write(datawriter); err != nil {
		file.Close()
		os.Remove(tmp)
		return err
	}
	if err := datawriter.Flush(); err != nil {
		file.Close()
		os.Remove(tmp)
		return fmt.Errorf("error writing data to file: %w", err)
	}
	if err := file.Close(); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("error closing file: %w", err)
	}

	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("failed to replace %q: %w", path, err)
	}
	return nil
}

// DetermineFileFullPath treats path as a folder when it is an existing directory or has no
// extension, and joins nameTemplate to it. Otherwise path is the file itself.
func DetermineFileFullPath(path, nameTemplate string) (string, string, error) {
	path, err := ExpandPath(path)
	if err != nil {
		return "", "", fmt.Errorf("failed to unwrap path %q: %w", path, err)
	}

	fileInfo, err := os.Stat(path)
	if err != nil && !os.IsNotExist(err) {
		return "", "", fmt.Errorf("failed to unwrap path %q: %w", path, err)
	}

	var fullPath, folder string
	// If file doesn't exist or no extension, treat as directory
	if err == nil && fileInfo.IsDir() || (err != nil && filepath.Ext(path) == "") {
		folder = path
		fullPath = filepath.Join(path, nameTemplate)
	} else {
		folder = filepath.Dir(path)
		fullPath = path
	}

	return fullPath, folder, nil
}
