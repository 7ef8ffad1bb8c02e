package repository

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/garyjia/receipt-intake/internal/parse"
	"github.com/garyjia/receipt-intake/internal/receipt"
	"github.com/garyjia/receipt-intake/pkg/database"
)

func setupTestDB(t *testing.T) *database.DB {
	t.Helper()

	db, err := database.New(database.Config{
		Path:         filepath.Join(t.TempDir(), "test.db"),
		MaxOpenConns: 1,
		MaxIdleConns: 1,
	}, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	require.NoError(t, database.NewMigrator(db, zap.NewNop()).Run())
	return db
}

func sampleRecord() *receipt.Record {
	date := time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC)
	return &receipt.Record{
		FileName:         "coffee.jpg",
		Employee:         "Alice",
		Date:             &date,
		Provider:         "The Coffee House",
		Category:         parse.CategorySubsistence,
		PaymentMethod:    receipt.DefaultPaymentMethod,
		Country:          receipt.DefaultCountry,
		OriginalAmount:   45.00,
		OriginalCurrency: "$",
		ConvertedAmount:  35.55,
		BaseCurrency:     "GBP",
		OCRText:          "The Coffee House\nTotal: $45.00",
		Status:           receipt.StatusProcessed,
	}
}

func TestRecordRepository_CreateAndGet(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRecordRepository(db.DB, zap.NewNop())
	ctx := context.Background()

	rec := sampleRecord()
	require.NoError(t, repo.Create(ctx, rec))
	assert.NotZero(t, rec.ID)

	got, err := repo.GetByID(ctx, rec.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "The Coffee House", got.Provider)
	assert.Equal(t, parse.CategorySubsistence, got.Category)
	assert.Equal(t, 35.55, got.ConvertedAmount)
	require.NotNil(t, got.Date)
	assert.Equal(t, 2025, got.Date.Year())
}

func TestRecordRepository_GetMissing(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRecordRepository(db.DB, zap.NewNop())

	got, err := repo.GetByID(context.Background(), 999)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestRecordRepository_NilDateRoundTrip(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRecordRepository(db.DB, zap.NewNop())
	ctx := context.Background()

	rec := sampleRecord()
	rec.Date = nil
	require.NoError(t, repo.Create(ctx, rec))

	got, err := repo.GetByID(ctx, rec.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Nil(t, got.Date)
}

func TestRecordRepository_ListOrder(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRecordRepository(db.DB, zap.NewNop())
	ctx := context.Background()

	first := sampleRecord()
	second := sampleRecord()
	second.FileName = "taxi.jpg"
	require.NoError(t, repo.Create(ctx, first))
	require.NoError(t, repo.Create(ctx, second))

	records, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "coffee.jpg", records[0].FileName)
	assert.Equal(t, "taxi.jpg", records[1].FileName)
}

func TestRecordRepository_Update(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRecordRepository(db.DB, zap.NewNop())
	ctx := context.Background()

	rec := sampleRecord()
	require.NoError(t, repo.Create(ctx, rec))

	rec.OriginalAmount = 100
	rec.OriginalCurrency = "EUR"
	rec.ConvertedAmount = 85
	require.NoError(t, repo.Update(ctx, rec))

	got, err := repo.GetByID(ctx, rec.ID)
	require.NoError(t, err)
	assert.Equal(t, "EUR", got.OriginalCurrency)
	assert.Equal(t, 85.0, got.ConvertedAmount)
}

func TestRecordRepository_UpdateMissing(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRecordRepository(db.DB, zap.NewNop())

	rec := sampleRecord()
	rec.ID = 12345
	assert.Error(t, repo.Update(context.Background(), rec))
}

func TestRecordRepository_DeleteAll(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRecordRepository(db.DB, zap.NewNop())
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, sampleRecord()))
	require.NoError(t, repo.DeleteAll(ctx))

	records, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestFileRepository_Lifecycle(t *testing.T) {
	db := setupTestDB(t)
	repo := NewFileRepository(db.DB, zap.NewNop())
	ctx := context.Background()

	f := &StoredFile{
		FileName:    "coffee.jpg",
		Employee:    "Alice",
		ContentType: "image/jpeg",
		StoragePath: "/tmp/uploads/coffee.jpg",
	}
	require.NoError(t, repo.Create(ctx, f))
	assert.Equal(t, FileStatusUploaded, f.Status)

	pending, err := repo.ListByStatus(ctx, FileStatusUploaded)
	require.NoError(t, err)
	require.Len(t, pending, 1)

	require.NoError(t, repo.MarkProcessed(ctx, f.ID))

	pending, err = repo.ListByStatus(ctx, FileStatusUploaded)
	require.NoError(t, err)
	assert.Empty(t, pending)

	require.NoError(t, repo.DeleteAll(ctx))
}
