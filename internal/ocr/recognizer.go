// Package ocr turns receipt images into raw text via external vision
// providers. The rest of the system treats OCR as an opaque collaborator: it
// consumes the Recognizer interface and sees failures as ProviderError. No
// retrying happens here; that belongs to callers that want it.
package ocr

import (
	"context"
	"errors"
	"fmt"
)

// Recognizer extracts raw text from a single receipt image.
type Recognizer interface {
	RecognizeText(ctx context.Context, image []byte, contentType string) (string, error)
}

// ProviderError marks a failure of an external OCR or rate provider call
// (transport, auth, quota, malformed response).
type ProviderError struct {
	Provider string
	Err      error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("%s provider error: %v", e.Provider, e.Err)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

// IsProviderError reports whether err is (or wraps) a ProviderError.
func IsProviderError(err error) bool {
	var pe *ProviderError
	return errors.As(err, &pe)
}

// receiptPrompt asks the vision model to behave like a plain OCR engine.
// Field extraction is done downstream by regex heuristics, so the response
// must be a verbatim transcription, not an interpretation.
const receiptPrompt = `Transcribe ALL text visible in this receipt image exactly as printed, ` +
	`line by line, preserving the original line breaks. Include merchant name, ` +
	`dates, item lines, totals, currency symbols and footer text. ` +
	`Do not summarize, translate, or add any commentary. Output the raw text only.`
