package server

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/garyjia/receipt-intake/internal/export"
	"github.com/garyjia/receipt-intake/internal/parse"
	"github.com/garyjia/receipt-intake/internal/receipt"
	"github.com/garyjia/receipt-intake/internal/repository"
	"github.com/garyjia/receipt-intake/internal/storage"
)

// RecordStore is the subset of the record repository the handlers need.
type RecordStore interface {
	Create(ctx context.Context, rec *receipt.Record) error
	GetByID(ctx context.Context, id int64) (*receipt.Record, error)
	List(ctx context.Context) ([]*receipt.Record, error)
	Update(ctx context.Context, rec *receipt.Record) error
	Delete(ctx context.Context, id int64) error
	DeleteAll(ctx context.Context) error
}

// FileStore is the subset of the file repository the handlers need.
type FileStore interface {
	Create(ctx context.Context, f *repository.StoredFile) error
	ListByStatus(ctx context.Context, status string) ([]*repository.StoredFile, error)
	MarkProcessed(ctx context.Context, id int64) error
	DeleteAll(ctx context.Context) error
}

// Processor runs OCR and assembly over a batch of uploads.
type Processor interface {
	ProcessBatch(ctx context.Context, files []receipt.File) []*receipt.Record
}

// Handlers contains all HTTP request handlers
type Handlers struct {
	records   RecordStore
	files     FileStore
	uploads   storage.FileStorage
	processor Processor
	assembler *receipt.Assembler
	csv       *export.CSVExporter
	excel     *export.ExcelExporter
	logger    *zap.Logger
}

// NewHandlers creates a new Handlers instance
func NewHandlers(
	records RecordStore,
	files FileStore,
	uploads storage.FileStorage,
	processor Processor,
	assembler *receipt.Assembler,
	csv *export.CSVExporter,
	excel *export.ExcelExporter,
	logger *zap.Logger,
) *Handlers {
	return &Handlers{
		records:   records,
		files:     files,
		uploads:   uploads,
		processor: processor,
		assembler: assembler,
		csv:       csv,
		excel:     excel,
		logger:    logger,
	}
}

// Response represents a standard JSON response
type Response struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
	Version   string `json:"version"`
}

// UploadResponse reports what was accepted for later processing
type UploadResponse struct {
	Uploaded []UploadedFileInfo `json:"uploaded"`
}

// UploadedFileInfo identifies one accepted upload
type UploadedFileInfo struct {
	ID       int64  `json:"id"`
	FileName string `json:"file_name"`
}

// ProcessResponse summarizes one processing run
type ProcessResponse struct {
	Processed int               `json:"processed"`
	Failed    int               `json:"failed"`
	Records   []*receipt.Record `json:"records"`
}

// UpdateRecordRequest carries the editable record fields. Pointer fields
// distinguish "not sent" from "set to zero value".
type UpdateRecordRequest struct {
	Employee         *string  `json:"employee"`
	Date             *string  `json:"date"`
	Provider         *string  `json:"provider"`
	Category         *string  `json:"category"`
	PaymentMethod    *string  `json:"payment_method"`
	Country          *string  `json:"country"`
	OriginalAmount   *float64 `json:"original_amount"`
	OriginalCurrency *string  `json:"original_currency"`
}

// HealthCheck handles GET /health
func (h *Handlers) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, Response{
		Success: true,
		Data: HealthResponse{
			Status:    "healthy",
			Timestamp: time.Now().UTC().Format(time.RFC3339),
			Version:   "1.0.0",
		},
	})
}

// UploadReceipts handles POST /api/v1/receipts. It accepts a multipart
// form with an employee field and one or more files, and stores them
// for a later processing run.
func (h *Handlers) UploadReceipts(c *gin.Context) {
	form, err := c.MultipartForm()
	if err != nil {
		c.JSON(http.StatusBadRequest, Response{Success: false, Error: "invalid multipart form"})
		return
	}

	employee := c.PostForm("employee")
	fileHeaders := form.File["files"]
	if len(fileHeaders) == 0 {
		c.JSON(http.StatusBadRequest, Response{Success: false, Error: "no files provided"})
		return
	}

	var uploaded []UploadedFileInfo
	for _, header := range fileHeaders {
		src, err := header.Open()
		if err != nil {
			c.JSON(http.StatusBadRequest, Response{Success: false, Error: "failed to read upload: " + header.Filename})
			return
		}
		content, err := io.ReadAll(src)
		src.Close()
		if err != nil {
			c.JSON(http.StatusBadRequest, Response{Success: false, Error: "failed to read upload: " + header.Filename})
			return
		}

		storagePath, err := h.uploads.Save(header.Filename, content)
		if err != nil {
			h.logger.Error("Failed to store upload", zap.String("file", header.Filename), zap.Error(err))
			c.JSON(http.StatusInternalServerError, Response{Success: false, Error: "failed to store upload"})
			return
		}

		stored := &repository.StoredFile{
			FileName:    header.Filename,
			Employee:    employee,
			ContentType: header.Header.Get("Content-Type"),
			StoragePath: storagePath,
		}
		if err := h.files.Create(c.Request.Context(), stored); err != nil {
			c.JSON(http.StatusInternalServerError, Response{Success: false, Error: "failed to record upload"})
			return
		}

		uploaded = append(uploaded, UploadedFileInfo{ID: stored.ID, FileName: stored.FileName})
	}

	c.JSON(http.StatusCreated, Response{
		Success: true,
		Data:    UploadResponse{Uploaded: uploaded},
	})
}

// ProcessReceipts handles POST /api/v1/receipts/process. It runs every
// pending upload through OCR and extraction. A failed file yields a
// sentinel record rather than aborting the run.
func (h *Handlers) ProcessReceipts(c *gin.Context) {
	ctx := c.Request.Context()

	pending, err := h.files.ListByStatus(ctx, repository.FileStatusUploaded)
	if err != nil {
		h.logger.Error("Failed to list pending uploads", zap.Error(err))
		c.JSON(http.StatusInternalServerError, Response{Success: false, Error: "failed to list pending uploads"})
		return
	}

	var batch []receipt.File
	var sources []*repository.StoredFile
	for _, f := range pending {
		content, err := h.uploads.Read(f.StoragePath)
		if err != nil {
			h.logger.Error("Failed to read stored upload",
				zap.String("path", f.StoragePath), zap.Error(err))
			continue
		}
		batch = append(batch, receipt.File{
			Name:        f.FileName,
			Employee:    f.Employee,
			ContentType: f.ContentType,
			Data:        content,
		})
		sources = append(sources, f)
	}

	records := h.processor.ProcessBatch(ctx, batch)

	failed := 0
	for i, rec := range records {
		if rec.Failed() {
			failed++
		}
		if err := h.records.Create(ctx, rec); err != nil {
			h.logger.Error("Failed to persist record",
				zap.String("file", rec.FileName), zap.Error(err))
			c.JSON(http.StatusInternalServerError, Response{Success: false, Error: "failed to persist records"})
			return
		}
		if err := h.files.MarkProcessed(ctx, sources[i].ID); err != nil {
			h.logger.Error("Failed to mark upload processed",
				zap.Int64("file_id", sources[i].ID), zap.Error(err))
		}
	}

	c.JSON(http.StatusOK, Response{
		Success: true,
		Data: ProcessResponse{
			Processed: len(records) - failed,
			Failed:    failed,
			Records:   records,
		},
	})
}

// ListRecords handles GET /api/v1/receipts
func (h *Handlers) ListRecords(c *gin.Context) {
	records, err := h.records.List(c.Request.Context())
	if err != nil {
		h.logger.Error("Failed to list records", zap.Error(err))
		c.JSON(http.StatusInternalServerError, Response{Success: false, Error: "failed to list records"})
		return
	}
	if records == nil {
		records = []*receipt.Record{}
	}

	c.JSON(http.StatusOK, Response{Success: true, Data: records})
}

// UpdateRecord handles PATCH /api/v1/receipts/:id. Changing the amount
// or currency recomputes the converted amount so the export never shows
// a stale value.
func (h *Handlers) UpdateRecord(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, Response{Success: false, Error: "invalid record ID"})
		return
	}

	var req UpdateRecordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, Response{Success: false, Error: "invalid request body"})
		return
	}

	ctx := c.Request.Context()
	rec, err := h.records.GetByID(ctx, id)
	if err != nil {
		h.logger.Error("Failed to get record", zap.Int64("id", id), zap.Error(err))
		c.JSON(http.StatusInternalServerError, Response{Success: false, Error: "failed to get record"})
		return
	}
	if rec == nil {
		c.JSON(http.StatusNotFound, Response{Success: false, Error: "record not found"})
		return
	}

	if err := applyUpdate(rec, req); err != nil {
		c.JSON(http.StatusBadRequest, Response{Success: false, Error: err.Error()})
		return
	}

	h.assembler.Reprice(ctx, rec)

	if err := h.records.Update(ctx, rec); err != nil {
		h.logger.Error("Failed to update record", zap.Int64("id", id), zap.Error(err))
		c.JSON(http.StatusInternalServerError, Response{Success: false, Error: "failed to update record"})
		return
	}

	c.JSON(http.StatusOK, Response{Success: true, Data: rec})
}

// DeleteRecord handles DELETE /api/v1/receipts/:id
func (h *Handlers) DeleteRecord(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, Response{Success: false, Error: "invalid record ID"})
		return
	}

	rec, err := h.records.GetByID(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, Response{Success: false, Error: "failed to get record"})
		return
	}
	if rec == nil {
		c.JSON(http.StatusNotFound, Response{Success: false, Error: "record not found"})
		return
	}

	if err := h.records.Delete(c.Request.Context(), id); err != nil {
		h.logger.Error("Failed to delete record", zap.Int64("id", id), zap.Error(err))
		c.JSON(http.StatusInternalServerError, Response{Success: false, Error: "failed to delete record"})
		return
	}

	c.JSON(http.StatusOK, Response{Success: true})
}

// ClearSession handles DELETE /api/v1/receipts. It discards every
// record, upload row, and stored file.
func (h *Handlers) ClearSession(c *gin.Context) {
	ctx := c.Request.Context()

	if err := h.records.DeleteAll(ctx); err != nil {
		h.logger.Error("Failed to clear records", zap.Error(err))
		c.JSON(http.StatusInternalServerError, Response{Success: false, Error: "failed to clear session"})
		return
	}
	if err := h.files.DeleteAll(ctx); err != nil {
		h.logger.Error("Failed to clear upload rows", zap.Error(err))
		c.JSON(http.StatusInternalServerError, Response{Success: false, Error: "failed to clear session"})
		return
	}
	if err := h.uploads.RemoveAll(); err != nil {
		h.logger.Error("Failed to clear stored uploads", zap.Error(err))
		c.JSON(http.StatusInternalServerError, Response{Success: false, Error: "failed to clear session"})
		return
	}

	c.JSON(http.StatusOK, Response{Success: true})
}

// ExportCSV handles GET /api/v1/export/csv
func (h *Handlers) ExportCSV(c *gin.Context) {
	records, err := h.records.List(c.Request.Context())
	if err != nil {
		h.logger.Error("Failed to list records for export", zap.Error(err))
		c.JSON(http.StatusInternalServerError, Response{Success: false, Error: "failed to export records"})
		return
	}

	var buf bytes.Buffer
	if err := h.csv.Write(&buf, records); err != nil {
		h.logger.Error("Failed to render CSV", zap.Error(err))
		c.JSON(http.StatusInternalServerError, Response{Success: false, Error: "failed to export records"})
		return
	}

	c.Header("Content-Disposition", `attachment; filename="receipts.csv"`)
	c.Data(http.StatusOK, "text/csv; charset=utf-8", buf.Bytes())
}

// ExportExcel handles GET /api/v1/export/xlsx
func (h *Handlers) ExportExcel(c *gin.Context) {
	records, err := h.records.List(c.Request.Context())
	if err != nil {
		h.logger.Error("Failed to list records for export", zap.Error(err))
		c.JSON(http.StatusInternalServerError, Response{Success: false, Error: "failed to export records"})
		return
	}

	content, err := h.excel.Workbook(records)
	if err != nil {
		h.logger.Error("Failed to render workbook", zap.Error(err))
		c.JSON(http.StatusInternalServerError, Response{Success: false, Error: "failed to export records"})
		return
	}

	c.Header("Content-Disposition", `attachment; filename="receipts.xlsx"`)
	c.Data(http.StatusOK,
		"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", content)
}

// applyUpdate copies the provided fields onto the record. A date string
// must be YYYY-MM-DD; an empty date clears the field.
func applyUpdate(rec *receipt.Record, req UpdateRecordRequest) error {
	if req.Employee != nil {
		rec.Employee = *req.Employee
	}
	if req.Date != nil {
		if *req.Date == "" {
			rec.Date = nil
		} else {
			t, err := time.Parse("2006-01-02", *req.Date)
			if err != nil {
				return err
			}
			rec.Date = &t
		}
	}
	if req.Provider != nil {
		rec.Provider = *req.Provider
	}
	if req.Category != nil {
		rec.Category = parse.ExpenseCategory(*req.Category)
	}
	if req.PaymentMethod != nil {
		rec.PaymentMethod = *req.PaymentMethod
	}
	if req.Country != nil {
		rec.Country = *req.Country
	}
	if req.OriginalAmount != nil {
		rec.OriginalAmount = *req.OriginalAmount
	}
	if req.OriginalCurrency != nil {
		rec.OriginalCurrency = *req.OriginalCurrency
	}
	return nil
}
