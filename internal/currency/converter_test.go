package currency

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
)

// MockRateProvider mocks the RateProvider interface
type MockRateProvider struct {
	mock.Mock
}

func (m *MockRateProvider) Rate(ctx context.Context, from, to string) (float64, error) {
	args := m.Called(ctx, from, to)
	return args.Get(0).(float64), args.Error(1)
}

func newTestConverter(provider RateProvider) *Converter {
	return NewConverter(provider, Config{BaseCurrency: "GBP"}, zap.NewNop())
}

func TestConverter_SameCurrencySkipsProvider(t *testing.T) {
	provider := new(MockRateProvider)
	converter := newTestConverter(provider)

	assert.Equal(t, 100.0, converter.ToBase(context.Background(), 100, "GBP"))
	provider.AssertNotCalled(t, "Rate")
}

func TestConverter_SymbolEquivalence(t *testing.T) {
	provider := new(MockRateProvider)
	converter := newTestConverter(provider)

	// £ and GBP are the same currency, so no lookup happens.
	assert.Equal(t, 42.5, converter.ToBase(context.Background(), 42.5, "£"))
	provider.AssertNotCalled(t, "Rate")
}

func TestConverter_LiveRateUsedOnSuccess(t *testing.T) {
	provider := new(MockRateProvider)
	provider.On("Rate", mock.Anything, "USD", "GBP").Return(0.80, nil)
	converter := newTestConverter(provider)

	got := converter.ToBase(context.Background(), 100, "USD")

	assert.InDelta(t, 80.0, got, 1e-9)
	provider.AssertExpectations(t)
}

func TestConverter_FallbackOnProviderFailure(t *testing.T) {
	provider := new(MockRateProvider)
	provider.On("Rate", mock.Anything, "USD", "GBP").Return(0.0, errors.New("network down"))
	converter := newTestConverter(provider)

	got := converter.ToBase(context.Background(), 100, "USD")

	// Static fallback table has USD at 0.79.
	assert.InDelta(t, 79.0, got, 1e-9)
}

func TestConverter_FallbackOnNonPositiveRate(t *testing.T) {
	provider := new(MockRateProvider)
	provider.On("Rate", mock.Anything, "EUR", "GBP").Return(0.0, nil)
	converter := newTestConverter(provider)

	got := converter.ToBase(context.Background(), 10, "€")

	assert.InDelta(t, 8.5, got, 1e-9)
}

func TestConverter_UnknownCurrencyPassesThrough(t *testing.T) {
	provider := new(MockRateProvider)
	provider.On("Rate", mock.Anything, "XXX", "GBP").Return(0.0, errors.New("unknown currency"))
	converter := newTestConverter(provider)

	assert.Equal(t, 55.0, converter.ToBase(context.Background(), 55, "XXX"))
}

func TestConverter_NilProviderUsesFallbackTable(t *testing.T) {
	converter := newTestConverter(nil)

	assert.InDelta(t, 25.8, converter.ToBase(context.Background(), 10, "KWD"), 1e-9)
	assert.InDelta(t, 20.7, converter.ToBase(context.Background(), 10, "OMR"), 1e-9)
	assert.InDelta(t, 2.2, converter.ToBase(context.Background(), 10, "AED"), 1e-9)
}

func TestConverter_FallbackTableInjectedNotGlobal(t *testing.T) {
	rates := map[string]float64{"USD": 0.5}
	converter := NewConverter(nil, Config{BaseCurrency: "GBP", FallbackRates: rates}, zap.NewNop())

	// Mutating the caller's map after construction must not change behavior.
	rates["USD"] = 99

	assert.InDelta(t, 50.0, converter.ToBase(context.Background(), 100, "USD"), 1e-9)
}

func TestConverter_FallbackTableKeysCanonicalized(t *testing.T) {
	// Rate tables arrive from config with lower-cased keys.
	rates := map[string]float64{"usd": 0.5, "eur": 0.9}
	converter := NewConverter(nil, Config{BaseCurrency: "GBP", FallbackRates: rates}, zap.NewNop())

	assert.InDelta(t, 50.0, converter.ToBase(context.Background(), 100, "USD"), 1e-9)
	assert.InDelta(t, 90.0, converter.ToBase(context.Background(), 100, "€"), 1e-9)
}

func TestConverter_CanceledContextDegradesToFallback(t *testing.T) {
	provider := new(MockRateProvider)
	provider.On("Rate", mock.Anything, "USD", "GBP").Return(0.0, context.Canceled)
	converter := newTestConverter(provider)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.InDelta(t, 79.0, converter.ToBase(ctx, 100, "USD"), 1e-9)
}

func TestCanonicalCode(t *testing.T) {
	tests := []struct {
		token string
		want  string
	}{
		{"£", "GBP"},
		{"$", "USD"},
		{"€", "EUR"},
		{"GBP", "GBP"},
		{"aed", "AED"},
		{" usd ", "USD"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, CanonicalCode(tt.token), "token %q", tt.token)
	}
}
