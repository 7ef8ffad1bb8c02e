package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/garyjia/receipt-intake/internal/parse"
	"github.com/garyjia/receipt-intake/internal/receipt"
)

// RecordRepository manages receipt_records rows.
type RecordRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewRecordRepository creates a new record repository.
func NewRecordRepository(db *sql.DB, logger *zap.Logger) *RecordRepository {
	return &RecordRepository{
		db:     db,
		logger: logger,
	}
}

// Create inserts a record and sets its ID.
func (r *RecordRepository) Create(ctx context.Context, rec *receipt.Record) error {
	query := `
		INSERT INTO receipt_records (
			file_name, employee, receipt_date, provider, category,
			payment_method, country, original_amount, original_currency,
			converted_amount, base_currency, ocr_text, status
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	result, err := r.db.ExecContext(ctx, query,
		rec.FileName, rec.Employee, nullableTime(rec.Date), rec.Provider,
		string(rec.Category), rec.PaymentMethod, rec.Country,
		rec.OriginalAmount, rec.OriginalCurrency,
		rec.ConvertedAmount, rec.BaseCurrency, rec.OCRText, string(rec.Status))
	if err != nil {
		r.logger.Error("Failed to create record", zap.Error(err))
		return fmt.Errorf("failed to create record: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}
	rec.ID = id
	return nil
}

// GetByID returns one record, or nil if it does not exist.
func (r *RecordRepository) GetByID(ctx context.Context, id int64) (*receipt.Record, error) {
	query := selectColumns + " WHERE id = ?"

	rec, err := scanRecord(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get record: %w", err)
	}
	return rec, nil
}

// List returns all records in insertion order.
func (r *RecordRepository) List(ctx context.Context) ([]*receipt.Record, error) {
	query := selectColumns + " ORDER BY id"

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list records: %w", err)
	}
	defer rows.Close()

	var records []*receipt.Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan record: %w", err)
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// Update writes back every editable field of the record.
func (r *RecordRepository) Update(ctx context.Context, rec *receipt.Record) error {
	query := `
		UPDATE receipt_records SET
			file_name = ?, employee = ?, receipt_date = ?, provider = ?,
			category = ?, payment_method = ?, country = ?,
			original_amount = ?, original_currency = ?,
			converted_amount = ?, base_currency = ?, status = ?
		WHERE id = ?
	`

	result, err := r.db.ExecContext(ctx, query,
		rec.FileName, rec.Employee, nullableTime(rec.Date), rec.Provider,
		string(rec.Category), rec.PaymentMethod, rec.Country,
		rec.OriginalAmount, rec.OriginalCurrency,
		rec.ConvertedAmount, rec.BaseCurrency, string(rec.Status), rec.ID)
	if err != nil {
		return fmt.Errorf("failed to update record: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("record %d not found", rec.ID)
	}
	return nil
}

// Delete removes one record.
func (r *RecordRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM receipt_records WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete record: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("record %d not found", id)
	}
	return nil
}

// DeleteAll clears the table when the session is discarded.
func (r *RecordRepository) DeleteAll(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, "DELETE FROM receipt_records")
	if err != nil {
		return fmt.Errorf("failed to clear records: %w", err)
	}
	return nil
}

const selectColumns = `
	SELECT id, file_name, employee, receipt_date, provider, category,
		payment_method, country, original_amount, original_currency,
		converted_amount, base_currency, ocr_text, status, created_at
	FROM receipt_records
`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecord(row rowScanner) (*receipt.Record, error) {
	var rec receipt.Record
	var date sql.NullTime
	var category, status string

	err := row.Scan(&rec.ID, &rec.FileName, &rec.Employee, &date,
		&rec.Provider, &category, &rec.PaymentMethod, &rec.Country,
		&rec.OriginalAmount, &rec.OriginalCurrency,
		&rec.ConvertedAmount, &rec.BaseCurrency, &rec.OCRText, &status,
		&rec.CreatedAt)
	if err != nil {
		return nil, err
	}

	if date.Valid {
		t := date.Time
		rec.Date = &t
	}
	rec.Category = parse.ExpenseCategory(category)
	rec.Status = receipt.Status(status)
	return &rec, nil
}

func nullableTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}
