package ocr

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"go.uber.org/zap"
	"google.golang.org/api/option"
)

// GeminiRecognizer reads receipt images with a Google Gemini vision model.
type GeminiRecognizer struct {
	client *genai.Client
	model  *genai.GenerativeModel
	logger *zap.Logger
}

// NewGeminiRecognizer creates a recognizer backed by the Gemini API.
func NewGeminiRecognizer(ctx context.Context, apiKey, modelName string, logger *zap.Logger) (*GeminiRecognizer, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini api key is required")
	}
	if modelName == "" {
		modelName = "gemini-1.5-flash"
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	return &GeminiRecognizer{
		client: client,
		model:  client.GenerativeModel(modelName),
		logger: logger,
	}, nil
}

// RecognizeText sends the image inline and concatenates the text parts of
// the first candidate.
func (r *GeminiRecognizer) RecognizeText(ctx context.Context, image []byte, contentType string) (string, error) {
	// genai wants just the format suffix, not the full MIME type.
	format := "jpeg"
	if strings.HasPrefix(contentType, "image/") {
		format = strings.TrimPrefix(contentType, "image/")
	}

	resp, err := r.model.GenerateContent(ctx,
		genai.ImageData(format, image),
		genai.Text(receiptPrompt),
	)
	if err != nil {
		r.logger.Error("Gemini vision call failed", zap.Error(err))
		return "", &ProviderError{Provider: "gemini", Err: err}
	}

	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", &ProviderError{Provider: "gemini", Err: fmt.Errorf("empty response")}
	}

	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			sb.WriteString(string(text))
		}
	}

	text := strings.TrimSpace(sb.String())
	r.logger.Debug("OCR text received",
		zap.String("provider", "gemini"),
		zap.Int("length", len(text)))

	return text, nil
}

// Close releases the underlying client.
func (r *GeminiRecognizer) Close() error {
	return r.client.Close()
}
