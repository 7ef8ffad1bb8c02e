package currency

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestExchangeRateClient_Rate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/USD", r.URL.Path)
		fmt.Fprint(w, `{"base":"USD","rates":{"GBP":0.79,"EUR":0.93}}`)
	}))
	defer srv.Close()

	client := NewExchangeRateClient(srv.URL, time.Second, zap.NewNop())

	rate, err := client.Rate(context.Background(), "USD", "GBP")
	require.NoError(t, err)
	assert.InDelta(t, 0.79, rate, 1e-9)
}

func TestExchangeRateClient_SymbolNormalizedInRequest(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/EUR", r.URL.Path)
		fmt.Fprint(w, `{"rates":{"GBP":0.85}}`)
	}))
	defer srv.Close()

	client := NewExchangeRateClient(srv.URL, time.Second, zap.NewNop())

	rate, err := client.Rate(context.Background(), "€", "GBP")
	require.NoError(t, err)
	assert.InDelta(t, 0.85, rate, 1e-9)
}

func TestExchangeRateClient_ErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	client := NewExchangeRateClient(srv.URL, time.Second, zap.NewNop())

	_, err := client.Rate(context.Background(), "USD", "GBP")
	assert.Error(t, err)
}

func TestExchangeRateClient_MalformedBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `not json`)
	}))
	defer srv.Close()

	client := NewExchangeRateClient(srv.URL, time.Second, zap.NewNop())

	_, err := client.Rate(context.Background(), "USD", "GBP")
	assert.Error(t, err)
}

func TestExchangeRateClient_MissingTargetRate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"rates":{"EUR":0.93}}`)
	}))
	defer srv.Close()

	client := NewExchangeRateClient(srv.URL, time.Second, zap.NewNop())

	_, err := client.Rate(context.Background(), "USD", "GBP")
	assert.Error(t, err)
}

func TestExchangeRateClient_ContextCancellation(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer srv.Close()

	client := NewExchangeRateClient(srv.URL, time.Minute, zap.NewNop())

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := client.Rate(ctx, "USD", "GBP")
	assert.Error(t, err)
}
