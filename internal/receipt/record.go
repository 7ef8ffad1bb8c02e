// Package receipt assembles structured expense records from OCR text. It
// ties the pure extraction heuristics and the currency converter together
// and owns the per-file processing pipeline, including failure isolation.
package receipt

import (
	"time"

	"github.com/garyjia/receipt-intake/internal/parse"
)

// Status tracks where a record is in its lifecycle.
type Status string

const (
	StatusProcessed Status = "processed"
	StatusFailed    Status = "failed"
)

// FailedProvider is the sentinel shown in the provider column when OCR for
// a file failed. The row stays in the batch so the user can spot and retry
// it instead of the file silently disappearing.
const FailedProvider = "Processing Failed"

// Defaults the original intake form assumes for every receipt; both are
// editable after processing.
const (
	DefaultPaymentMethod = "Credit Card"
	DefaultCountry       = "UK"
)

// Record is one assembled receipt. Date is nil when no parseable date was
// found; ConvertedAmount is derived from OriginalAmount/OriginalCurrency and
// must be recomputed whenever either changes.
type Record struct {
	ID               int64                 `json:"id"`
	FileName         string                `json:"fileName"`
	Employee         string                `json:"employee"`
	Date             *time.Time            `json:"date"`
	Provider         string                `json:"provider"`
	Category         parse.ExpenseCategory `json:"category"`
	PaymentMethod    string                `json:"paymentMethod"`
	Country          string                `json:"country"`
	OriginalAmount   float64               `json:"originalAmount"`
	OriginalCurrency string                `json:"originalCurrency"`
	ConvertedAmount  float64               `json:"convertedAmount"`
	BaseCurrency     string                `json:"baseCurrency"`
	OCRText          string                `json:"ocrText"`
	Status           Status                `json:"status"`
	CreatedAt        time.Time             `json:"createdAt"`
}

// Failed reports whether this record carries the OCR failure sentinel.
func (r *Record) Failed() bool {
	return r.Status == StatusFailed
}
