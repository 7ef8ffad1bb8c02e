// Package repository persists session state (uploaded files and assembled
// records) in SQLite.
package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// File statuses.
const (
	FileStatusUploaded  = "uploaded"
	FileStatusProcessed = "processed"
)

// StoredFile is the metadata row for one uploaded receipt image; the bytes
// live on disk under the storage path.
type StoredFile struct {
	ID          int64
	FileName    string
	Employee    string
	ContentType string
	StoragePath string
	Status      string
	CreatedAt   time.Time
}

// FileRepository manages uploaded_files rows.
type FileRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewFileRepository creates a new file repository.
func NewFileRepository(db *sql.DB, logger *zap.Logger) *FileRepository {
	return &FileRepository{
		db:     db,
		logger: logger,
	}
}

// Create inserts a file row and sets its ID.
func (r *FileRepository) Create(ctx context.Context, f *StoredFile) error {
	query := `
		INSERT INTO uploaded_files (file_name, employee, content_type, storage_path, status)
		VALUES (?, ?, ?, ?, ?)
	`

	if f.Status == "" {
		f.Status = FileStatusUploaded
	}

	result, err := r.db.ExecContext(ctx, query,
		f.FileName, f.Employee, f.ContentType, f.StoragePath, f.Status)
	if err != nil {
		r.logger.Error("Failed to create file row", zap.Error(err))
		return fmt.Errorf("failed to create file row: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}
	f.ID = id
	return nil
}

// ListByStatus returns file rows with the given status, oldest first.
func (r *FileRepository) ListByStatus(ctx context.Context, status string) ([]*StoredFile, error) {
	query := `
		SELECT id, file_name, employee, content_type, storage_path, status, created_at
		FROM uploaded_files
		WHERE status = ?
		ORDER BY id
	`

	rows, err := r.db.QueryContext(ctx, query, status)
	if err != nil {
		return nil, fmt.Errorf("failed to list files: %w", err)
	}
	defer rows.Close()

	var files []*StoredFile
	for rows.Next() {
		var f StoredFile
		if err := rows.Scan(&f.ID, &f.FileName, &f.Employee, &f.ContentType,
			&f.StoragePath, &f.Status, &f.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan file row: %w", err)
		}
		files = append(files, &f)
	}
	return files, rows.Err()
}

// MarkProcessed flips a file row to processed.
func (r *FileRepository) MarkProcessed(ctx context.Context, id int64) error {
	_, err := r.db.ExecContext(ctx,
		"UPDATE uploaded_files SET status = ? WHERE id = ?", FileStatusProcessed, id)
	if err != nil {
		return fmt.Errorf("failed to mark file processed: %w", err)
	}
	return nil
}

// Delete removes one file row.
func (r *FileRepository) Delete(ctx context.Context, id int64) error {
	_, err := r.db.ExecContext(ctx, "DELETE FROM uploaded_files WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete file row: %w", err)
	}
	return nil
}

// DeleteAll clears the table when the session is discarded.
func (r *FileRepository) DeleteAll(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, "DELETE FROM uploaded_files")
	if err != nil {
		return fmt.Errorf("failed to clear files: %w", err)
	}
	return nil
}
