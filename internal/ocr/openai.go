package ocr

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"
)

// OpenAIRecognizer reads receipt images with an OpenAI vision model.
type OpenAIRecognizer struct {
	client *openai.Client
	model  string
	logger *zap.Logger
}

// NewOpenAIRecognizer creates a recognizer backed by the OpenAI chat API.
func NewOpenAIRecognizer(apiKey, model string, logger *zap.Logger) *OpenAIRecognizer {
	if model == "" {
		model = openai.GPT4o
	}
	return &OpenAIRecognizer{
		client: openai.NewClient(apiKey),
		model:  model,
		logger: logger,
	}
}

// RecognizeText sends the image as a data URL and returns the transcription.
func (r *OpenAIRecognizer) RecognizeText(ctx context.Context, image []byte, contentType string) (string, error) {
	if contentType == "" {
		contentType = "image/jpeg"
	}

	dataURL := fmt.Sprintf("data:%s;base64,%s", contentType, base64.StdEncoding.EncodeToString(image))

	resp, err := r.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       r.model,
		MaxTokens:   4096,
		Temperature: 0.1,
		Messages: []openai.ChatCompletionMessage{
			{
				Role: openai.ChatMessageRoleUser,
				MultiContent: []openai.ChatMessagePart{
					{
						Type: openai.ChatMessagePartTypeText,
						Text: receiptPrompt,
					},
					{
						Type: openai.ChatMessagePartTypeImageURL,
						ImageURL: &openai.ChatMessageImageURL{
							URL:    dataURL,
							Detail: openai.ImageURLDetailHigh,
						},
					},
				},
			},
		},
	})
	if err != nil {
		r.logger.Error("OpenAI vision call failed", zap.Error(err))
		return "", &ProviderError{Provider: "openai", Err: err}
	}

	if len(resp.Choices) == 0 {
		return "", &ProviderError{Provider: "openai", Err: fmt.Errorf("empty response")}
	}

	text := strings.TrimSpace(resp.Choices[0].Message.Content)
	r.logger.Debug("OCR text received",
		zap.String("provider", "openai"),
		zap.Int("length", len(text)))

	return text, nil
}
