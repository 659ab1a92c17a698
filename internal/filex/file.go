// Package filex holds the file-system helpers of the client: the data
// directory for the local database and attachment reading.
package filex

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
)

// MaxAttachmentSize caps receipts, photos and supporting documents.
const MaxAttachmentSize = 10 << 20

var ErrAttachmentTooLarge = errors.New("attachment too large")

// EnsureSubdDir creates dirName (relative to the working directory unless it
// is absolute) and returns its absolute path.
func EnsureSubdDir(dirName string) (string, error) {
	dir := dirName
	if !filepath.IsAbs(dir) {
		cwd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("getwd: %w", err)
		}
		dir = filepath.Join(cwd, dirName)
	}

	if err := os.MkdirAll(dir, 0o770); err != nil {
		return "", fmt.Errorf("mkdir %s: %w", dir, err)
	}

	return dir, nil
}

// ReadAttachment loads a local file and sniffs its content type.
func ReadAttachment(path string) ([]byte, string, error) {
	fi, err := os.Stat(path)
	if err != nil {
		return nil, "", fmt.Errorf("stat %s: %w", path, err)
	}
	if fi.IsDir() {
		return nil, "", fmt.Errorf("%s is a directory", path)
	}
	if fi.Size() > MaxAttachmentSize {
		return nil, "", fmt.Errorf("%s: %w", path, ErrAttachmentTooLarge)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, "", fmt.Errorf("read %s: %w", path, err)
	}
	return data, http.DetectContentType(data), nil
}
