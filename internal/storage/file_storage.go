// Package storage keeps uploaded receipt images on the local filesystem
// until they are processed or the session is cleared.
package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"
)

// FileStorage defines the interface for upload storage operations.
type FileStorage interface {
	// Save writes an upload under the base directory and returns the
	// path it was stored at.
	Save(fileName string, content []byte) (string, error)

	// Read returns the stored bytes for a previously saved path.
	Read(storagePath string) ([]byte, error)

	// Remove deletes one stored file.
	Remove(storagePath string) error

	// RemoveAll deletes every stored upload.
	RemoveAll() error
}

// LocalFileStorage implements FileStorage for the local filesystem.
type LocalFileStorage struct {
	baseDir string
	logger  *zap.Logger
}

// NewLocalFileStorage creates a new LocalFileStorage rooted at baseDir.
func NewLocalFileStorage(baseDir string, logger *zap.Logger) (*LocalFileStorage, error) {
	if err := os.MkdirAll(baseDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create upload directory: %w", err)
	}
	return &LocalFileStorage{
		baseDir: baseDir,
		logger:  logger,
	}, nil
}

// Save writes the upload to disk. The stored name carries a timestamp
// prefix so repeated uploads of the same file never collide.
func (s *LocalFileStorage) Save(fileName string, content []byte) (string, error) {
	// Strip any client-supplied directory components
	safeName := filepath.Base(fileName)
	if safeName == "." || safeName == string(filepath.Separator) {
		safeName = "upload"
	}

	storedName := fmt.Sprintf("%d_%s", time.Now().UnixNano(), safeName)
	fullPath := filepath.Join(s.baseDir, storedName)

	if err := s.validatePath(fullPath); err != nil {
		return "", err
	}

	if err := os.WriteFile(fullPath, content, 0644); err != nil {
		s.logger.Error("Failed to write upload",
			zap.String("path", fullPath),
			zap.Error(err))
		return "", fmt.Errorf("failed to write upload: %w", err)
	}

	s.logger.Debug("Upload saved",
		zap.String("path", fullPath),
		zap.Int("size", len(content)))

	return fullPath, nil
}

// Read returns the stored bytes for a previously saved path.
func (s *LocalFileStorage) Read(storagePath string) ([]byte, error) {
	if err := s.validatePath(storagePath); err != nil {
		return nil, err
	}

	content, err := os.ReadFile(storagePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read upload: %w", err)
	}
	return content, nil
}

// Remove deletes one stored file.
func (s *LocalFileStorage) Remove(storagePath string) error {
	if err := s.validatePath(storagePath); err != nil {
		return err
	}

	if err := os.Remove(storagePath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove upload: %w", err)
	}
	return nil
}

// RemoveAll deletes every stored upload and recreates the base directory.
func (s *LocalFileStorage) RemoveAll() error {
	if err := os.RemoveAll(s.baseDir); err != nil {
		return fmt.Errorf("failed to clear uploads: %w", err)
	}
	if err := os.MkdirAll(s.baseDir, 0755); err != nil {
		return fmt.Errorf("failed to recreate upload directory: %w", err)
	}
	return nil
}

// validatePath checks that the path is safe and within baseDir
func (s *LocalFileStorage) validatePath(fullPath string) error {
	absPath, err := filepath.Abs(fullPath)
	if err != nil {
		return fmt.Errorf("failed to resolve path: %w", err)
	}

	absBase, err := filepath.Abs(s.baseDir)
	if err != nil {
		return fmt.Errorf("failed to resolve base path: %w", err)
	}

	if !strings.HasPrefix(absPath, absBase+string(filepath.Separator)) && absPath != absBase {
		return fmt.Errorf("path escapes base directory: %s", fullPath)
	}

	return nil
}
