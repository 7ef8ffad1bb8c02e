package receipt

import (
	"context"
	"strings"
	"sync"

	"github.com/garyjia/receipt-intake/internal/ocr"
	"go.uber.org/zap"
)

// File is one uploaded receipt ready for processing.
type File struct {
	Name        string
	Employee    string
	ContentType string
	Data        []byte
}

// Service runs the per-file OCR + assembly pipeline.
type Service struct {
	recognizer ocr.Recognizer
	assembler  *Assembler
	workers    int
	logger     *zap.Logger
}

// NewService creates a processing service. workers bounds how many files are
// OCR'd concurrently; values below 1 mean serial processing.
func NewService(recognizer ocr.Recognizer, assembler *Assembler, workers int, logger *zap.Logger) *Service {
	if workers < 1 {
		workers = 1
	}
	return &Service{
		recognizer: recognizer,
		assembler:  assembler,
		workers:    workers,
		logger:     logger,
	}
}

// Process runs one file through OCR and assembly. It never returns an
// error: an OCR provider failure produces the sentinel failure record so a
// bad image cannot take the rest of a batch down with it.
func (s *Service) Process(ctx context.Context, f File) *Record {
	text, err := s.recognize(ctx, f)
	if err != nil {
		return s.assembler.AssembleFailed(f.Name, f.Employee, err)
	}
	return s.assembler.Assemble(ctx, f.Name, f.Employee, text)
}

// ProcessBatch processes files concurrently under the worker bound and
// returns records in input order. Each file is isolated; cancellation of
// ctx abandons in-flight provider calls and the affected files come back as
// failure records.
func (s *Service) ProcessBatch(ctx context.Context, files []File) []*Record {
	records := make([]*Record, len(files))
	sem := make(chan struct{}, s.workers)

	var wg sync.WaitGroup
	for i, f := range files {
		wg.Add(1)
		go func(i int, f File) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()
			records[i] = s.Process(ctx, f)
		}(i, f)
	}
	wg.Wait()

	s.logger.Info("Batch processed",
		zap.Int("files", len(files)),
		zap.Int("failed", countFailed(records)))

	return records
}

// recognize OCRs the file, rendering PDF pages to images first.
func (s *Service) recognize(ctx context.Context, f File) (string, error) {
	if !ocr.IsPDF(f.ContentType) {
		return s.recognizer.RecognizeText(ctx, f.Data, f.ContentType)
	}

	pages, err := ocr.RenderPDFPages(f.Data)
	if err != nil {
		return "", err
	}

	texts := make([]string, 0, len(pages))
	for _, page := range pages {
		text, err := s.recognizer.RecognizeText(ctx, page, "image/jpeg")
		if err != nil {
			return "", err
		}
		texts = append(texts, text)
	}
	return strings.Join(texts, "\n"), nil
}

func countFailed(records []*Record) int {
	n := 0
	for _, rec := range records {
		if rec.Failed() {
			n++
		}
	}
	return n
}
