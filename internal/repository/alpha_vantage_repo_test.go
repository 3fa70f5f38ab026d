package repository

import (
	"context"
	"net/http"
	"net/http/httptest"
	"portfolio-dashboard/config"
	"portfolio-dashboard/internal/dto"
	"portfolio-dashboard/pkg/cache"
	"portfolio-dashboard/pkg/logger"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAlphaVantageTestRepo(t *testing.T, handler http.HandlerFunc) AlphaVantageRepository {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	cfg := &config.Config{
		AlphaVantage: config.AlphaVantage{
			BaseURL: server.URL,
			APIKey:  "test-key",
			Timeout: 2 * time.Second,
		},
		Cache: config.Cache{CompanyInfoTTL: time.Hour},
	}
	return NewAlphaVantageRepository(cfg, cache.NewCache(time.Minute, time.Minute), logger.NewNop())
}

func respond(body string, status int) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}
}

func TestAlphaVantageRepository_GetGlobalQuote(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		status     int
		wantErr    string
		wantSymbol string
		wantPrice  string
		wantChange string
	}{
		{
			name:       "live quote",
			body:       `{"Global Quote":{"01. symbol":"IBM","05. price":"181.2500","10. change percent":"-0.4210%"}}`,
			status:     http.StatusOK,
			wantSymbol: "IBM",
			wantPrice:  "181.25",
			wantChange: "-0.421",
		},
		{
			name:    "empty quote means unknown symbol",
			body:    `{"Global Quote":{}}`,
			status:  http.StatusOK,
			wantErr: "invalid symbol or no data available",
		},
		{
			name:    "error message",
			body:    `{"Error Message":"Invalid API call."}`,
			status:  http.StatusOK,
			wantErr: "Invalid API call.",
		},
		{
			name:    "rate limit note",
			body:    `{"Note":"Thank you for using Alpha Vantage! Our standard API call frequency is 5 calls per minute."}`,
			status:  http.StatusOK,
			wantErr: "Thank you for using Alpha Vantage! Our standard API call frequency is 5 calls per minute.",
		},
		{
			name:    "non ok status",
			body:    `oops`,
			status:  http.StatusBadGateway,
			wantErr: "alpha vantage api returned status: 502",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := newAlphaVantageTestRepo(t, respond(tt.body, tt.status))

			got, err := repo.GetGlobalQuote(context.Background(), "ibm")
			if tt.wantErr != "" {
				assert.EqualError(t, err, tt.wantErr)
				assert.Nil(t, got)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.wantSymbol, got.Symbol)
			assert.Equal(t, tt.wantPrice, got.CurrentPrice.String())
			assert.Equal(t, tt.wantChange, got.ChangePercent.String())
			assert.Equal(t, dto.QuoteSourceLive, got.Source)
		})
	}
}

func TestAlphaVantageRepository_SendsQueryParams(t *testing.T) {
	var gotQuery map[string]string
	repo := newAlphaVantageTestRepo(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/query", r.URL.Path)
		gotQuery = map[string]string{
			"function": r.URL.Query().Get("function"),
			"symbol":   r.URL.Query().Get("symbol"),
			"apikey":   r.URL.Query().Get("apikey"),
		}
		respond(`{"Global Quote":{"01. symbol":"KO","05. price":"65.30","10. change percent":"0.5%"}}`, http.StatusOK)(w, r)
	})

	_, err := repo.GetGlobalQuote(context.Background(), " ko ")
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"function": "GLOBAL_QUOTE", "symbol": "KO", "apikey": "test-key"}, gotQuery)
}

func TestAlphaVantageRepository_GetCompanyOverview(t *testing.T) {
	t.Run("live overview is cached", func(t *testing.T) {
		var calls atomic.Int32
		repo := newAlphaVantageTestRepo(t, func(w http.ResponseWriter, r *http.Request) {
			calls.Add(1)
			respond(`{"Symbol":"IBM","Name":"International Business Machines","Sector":"TECHNOLOGY","MarketCapitalization":"169000000000","PERatio":"22.4"}`, http.StatusOK)(w, r)
		})

		for i := 0; i < 3; i++ {
			got, err := repo.GetCompanyOverview(context.Background(), "IBM")
			require.NoError(t, err)
			assert.Equal(t, "International Business Machines", got.CompanyName)
			assert.Equal(t, "TECHNOLOGY", got.Sector)
			require.NotNil(t, got.MarketCap)
			assert.Equal(t, "169000000000", got.MarketCap.String())
			require.NotNil(t, got.PERatio)
			assert.Equal(t, "22.4", got.PERatio.String())
		}
		assert.Equal(t, int32(1), calls.Load())
	})

	t.Run("missing fields get defaults", func(t *testing.T) {
		repo := newAlphaVantageTestRepo(t, respond(`{"MarketCapitalization":"None","PERatio":"-"}`, http.StatusOK))

		got, err := repo.GetCompanyOverview(context.Background(), "abc")
		require.NoError(t, err)
		assert.Equal(t, "ABC Corp", got.CompanyName)
		assert.Equal(t, "Technology", got.Sector)
		assert.Nil(t, got.MarketCap)
		assert.Nil(t, got.PERatio)
	})

	t.Run("information notice is an error", func(t *testing.T) {
		repo := newAlphaVantageTestRepo(t, respond(`{"Information":"The demo API key is for demo purposes only."}`, http.StatusOK))

		got, err := repo.GetCompanyOverview(context.Background(), "IBM")
		assert.EqualError(t, err, "The demo API key is for demo purposes only.")
		assert.Nil(t, got)
	})
}

func newBudgetedTestRepo(t *testing.T, perMinute int, calls *atomic.Int32) AlphaVantageRepository {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		respond(`{"Global Quote":{"01. symbol":"IBM","05. price":"181.25","10. change percent":"0.1%"}}`, http.StatusOK)(w, r)
	}))
	t.Cleanup(server.Close)

	cfg := &config.Config{
		AlphaVantage: config.AlphaVantage{
			BaseURL:             server.URL,
			APIKey:              "test-key",
			Timeout:             2 * time.Second,
			MaxRequestPerMinute: perMinute,
		},
	}
	return NewAlphaVantageRepository(cfg, cache.NewCache(time.Minute, time.Minute), logger.NewNop())
}

func TestAlphaVantageRepository_RequestBudget(t *testing.T) {
	t.Run("exhausted budget fails fast without a deadline", func(t *testing.T) {
		var calls atomic.Int32
		repo := newBudgetedTestRepo(t, 1, &calls)

		_, err := repo.GetGlobalQuote(context.Background(), "IBM")
		require.NoError(t, err)

		start := time.Now()
		got, err := repo.GetGlobalQuote(context.Background(), "IBM")
		assert.ErrorIs(t, err, ErrRequestBudgetExhausted)
		assert.Nil(t, got)
		assert.Less(t, time.Since(start), 500*time.Millisecond)
		assert.Equal(t, int32(1), calls.Load())
	})

	t.Run("deadline too short to wait for a token", func(t *testing.T) {
		var calls atomic.Int32
		repo := newBudgetedTestRepo(t, 1, &calls)

		_, err := repo.GetGlobalQuote(context.Background(), "IBM")
		require.NoError(t, err)

		ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
		defer cancel()
		_, err = repo.GetGlobalQuote(ctx, "IBM")
		assert.Error(t, err)
		assert.Equal(t, int32(1), calls.Load())
	})

	t.Run("callers with a deadline wait for the next token", func(t *testing.T) {
		var calls atomic.Int32
		repo := newBudgetedTestRepo(t, 6000, &calls)

		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		for i := 0; i < 3; i++ {
			_, err := repo.GetGlobalQuote(ctx, "IBM")
			require.NoError(t, err)
		}
		assert.Equal(t, int32(3), calls.Load())
	})
}
