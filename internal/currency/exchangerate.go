package currency

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// DefaultExchangeRateURL is the public endpoint serving daily rates keyed by
// source currency.
const DefaultExchangeRateURL = "https://api.exchangerate-api.com/v4/latest"

// ExchangeRateClient implements RateProvider against the exchangerate-api
// v4 endpoint.
type ExchangeRateClient struct {
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
}

// NewExchangeRateClient creates a rate client. baseURL defaults to
// DefaultExchangeRateURL when empty.
func NewExchangeRateClient(baseURL string, timeout time.Duration, logger *zap.Logger) *ExchangeRateClient {
	if baseURL == "" {
		baseURL = DefaultExchangeRateURL
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &ExchangeRateClient{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
}

// Rate fetches the multiplier from one currency to another. Transport
// failures, non-200 responses, malformed bodies and unknown currencies all
// surface as errors; the converter decides what to do with them.
func (c *ExchangeRateClient) Rate(ctx context.Context, from, to string) (float64, error) {
	url := fmt.Sprintf("%s/%s", c.baseURL, CanonicalCode(from))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to build rate request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("rate request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("rate endpoint returned status %d", resp.StatusCode)
	}

	var body struct {
		Rates map[string]float64 `json:"rates"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return 0, fmt.Errorf("failed to decode rate response: %w", err)
	}

	rate, ok := body.Rates[CanonicalCode(to)]
	if !ok || rate <= 0 {
		return 0, fmt.Errorf("no %s rate in response for %s", to, from)
	}

	c.logger.Debug("Fetched live exchange rate",
		zap.String("from", from),
		zap.String("to", to),
		zap.Float64("rate", rate))

	return rate, nil
}
