package ocr

import (
	"bytes"
	"fmt"
	"image/jpeg"

	"github.com/gen2brain/go-fitz"
)

// IsPDF reports whether an uploaded file needs page rendering before OCR.
func IsPDF(contentType string) bool {
	return contentType == "application/pdf"
}

// RenderPDFPages rasterizes each page of a PDF into a JPEG image suitable
// for a vision provider. Pages that fail to render are skipped; an error is
// returned only when the document cannot be opened or yields no pages.
func RenderPDFPages(data []byte) ([][]byte, error) {
	doc, err := fitz.NewFromMemory(data)
	if err != nil {
		return nil, fmt.Errorf("failed to open PDF: %w", err)
	}
	defer doc.Close()

	var pages [][]byte
	for n := 0; n < doc.NumPage(); n++ {
		img, err := doc.Image(n)
		if err != nil {
			continue
		}

		var buf bytes.Buffer
		if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: 85}); err != nil {
			continue
		}
		pages = append(pages, buf.Bytes())
	}

	if len(pages) == 0 {
		return nil, fmt.Errorf("no renderable pages in PDF")
	}
	return pages, nil
}
