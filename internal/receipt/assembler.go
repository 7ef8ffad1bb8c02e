package receipt

import (
	"context"
	"time"

	"github.com/garyjia/receipt-intake/internal/currency"
	"github.com/garyjia/receipt-intake/internal/parse"
	"go.uber.org/zap"
)

// Assembler builds a Record from raw OCR text. Every extraction has a
// default and the converter never fails, so assembly always produces a
// record regardless of how noisy the text is.
type Assembler struct {
	converter *currency.Converter
	logger    *zap.Logger
}

// NewAssembler creates an assembler.
func NewAssembler(converter *currency.Converter, logger *zap.Logger) *Assembler {
	return &Assembler{
		converter: converter,
		logger:    logger,
	}
}

// Assemble runs the four extractors over the text and converts the amount
// into the base currency.
func (a *Assembler) Assemble(ctx context.Context, fileName, employee, rawText string) *Record {
	amount := parse.Amount(rawText)

	var date *time.Time
	if d, ok := parse.Date(rawText); ok {
		date = &d
	}

	rec := &Record{
		FileName:         fileName,
		Employee:         employee,
		Date:             date,
		Provider:         parse.Provider(rawText),
		Category:         parse.Category(rawText),
		PaymentMethod:    DefaultPaymentMethod,
		Country:          DefaultCountry,
		OriginalAmount:   amount.Amount,
		OriginalCurrency: amount.Currency,
		ConvertedAmount:  a.converter.ToBase(ctx, amount.Amount, amount.Currency),
		BaseCurrency:     a.converter.BaseCurrency(),
		OCRText:          rawText,
		Status:           StatusProcessed,
		CreatedAt:        time.Now().UTC(),
	}

	a.logger.Debug("Receipt assembled",
		zap.String("file", fileName),
		zap.String("provider", rec.Provider),
		zap.String("category", string(rec.Category)),
		zap.Float64("amount", rec.OriginalAmount),
		zap.String("currency", rec.OriginalCurrency))

	return rec
}

// AssembleFailed builds the sentinel record for a file whose OCR call
// failed. The batch keeps going; the row flags itself for retry.
func (a *Assembler) AssembleFailed(fileName, employee string, err error) *Record {
	a.logger.Warn("Receipt processing failed, emitting sentinel record",
		zap.String("file", fileName),
		zap.Error(err))

	return &Record{
		FileName:         fileName,
		Employee:         employee,
		Provider:         FailedProvider,
		Category:         parse.CategoryOther,
		PaymentMethod:    DefaultPaymentMethod,
		Country:          DefaultCountry,
		OriginalCurrency: parse.DefaultCurrency,
		BaseCurrency:     a.converter.BaseCurrency(),
		Status:           StatusFailed,
		CreatedAt:        time.Now().UTC(),
	}
}

// Reprice recomputes the derived converted amount. It must be called after
// any edit to OriginalAmount or OriginalCurrency.
func (a *Assembler) Reprice(ctx context.Context, rec *Record) {
	rec.ConvertedAmount = a.converter.ToBase(ctx, rec.OriginalAmount, rec.OriginalCurrency)
	rec.BaseCurrency = a.converter.BaseCurrency()
}
