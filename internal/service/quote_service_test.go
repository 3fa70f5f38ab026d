package service

import (
	"context"
	"errors"
	"portfolio-dashboard/internal/dto"
	"portfolio-dashboard/pkg/logger"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

type fixedRandom float64

func (f fixedRandom) Float64() float64 {
	return float64(f)
}

type fakeAlphaVantage struct {
	quotes    map[string]dto.Quote
	companies map[string]dto.CompanyInfo
	err       error
}

func (f *fakeAlphaVantage) GetGlobalQuote(ctx context.Context, symbol string) (*dto.Quote, error) {
	if f.err != nil {
		return nil, f.err
	}
	q, ok := f.quotes[symbol]
	if !ok {
		return nil, errors.New("invalid symbol or no data available")
	}
	return &q, nil
}

func (f *fakeAlphaVantage) GetCompanyOverview(ctx context.Context, symbol string) (*dto.CompanyInfo, error) {
	if f.err != nil {
		return nil, f.err
	}
	c, ok := f.companies[symbol]
	if !ok {
		return nil, errors.New("no overview")
	}
	return &c, nil
}

func liveUpstream() *fakeAlphaVantage {
	return &fakeAlphaVantage{
		quotes: map[string]dto.Quote{
			"IBM": {
				Symbol:        "IBM",
				CurrentPrice:  decimal.RequireFromString("181.25"),
				ChangePercent: decimal.RequireFromString("-0.42"),
				Source:        dto.QuoteSourceLive,
			},
		},
		companies: map[string]dto.CompanyInfo{
			"IBM": {CompanyName: "International Business Machines", Sector: "Technology", Source: dto.QuoteSourceLive},
		},
	}
}

func TestQuoteService_FetchQuote(t *testing.T) {
	down := &fakeAlphaVantage{err: errors.New("connection refused")}

	tests := []struct {
		name       string
		upstream   *fakeAlphaVantage
		random     float64
		symbol     string
		wantPrice  string
		wantChange string
		wantSource dto.QuoteSource
	}{
		{
			name:       "live quote",
			upstream:   liveUpstream(),
			symbol:     " ibm ",
			wantPrice:  "181.25",
			wantChange: "-0.42",
			wantSource: dto.QuoteSourceLive,
		},
		{
			name:       "known symbol falls back to table price",
			upstream:   down,
			random:     0.75,
			symbol:     "AAPL",
			wantPrice:  "175.43",
			wantChange: "2.5",
			wantSource: dto.QuoteSourceFallback,
		},
		{
			name:       "unknown symbol falls back to default price",
			upstream:   down,
			random:     0,
			symbol:     "zzzz",
			wantPrice:  "100",
			wantChange: "-5",
			wantSource: dto.QuoteSourceFallback,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewQuoteService(logger.NewNop(), tt.upstream, fixedRandom(tt.random))
			got := s.FetchQuote(context.Background(), tt.symbol)

			assert.Equal(t, tt.wantSource, got.Source)
			assert.True(t, decimal.RequireFromString(tt.wantPrice).Equal(got.CurrentPrice), got.CurrentPrice.String())
			assert.True(t, decimal.RequireFromString(tt.wantChange).Equal(got.ChangePercent), got.ChangePercent.String())
		})
	}
}

func TestQuoteService_FallbackChangeStaysInRange(t *testing.T) {
	s := NewQuoteService(logger.NewNop(), &fakeAlphaVantage{err: errors.New("down")}, fixedRandom(0.999999))
	got := s.FetchQuote(context.Background(), "MSFT")

	assert.True(t, got.ChangePercent.LessThanOrEqual(decimal.NewFromInt(5)))
	assert.True(t, got.ChangePercent.GreaterThanOrEqual(decimal.NewFromInt(-5)))
}

func TestQuoteService_FetchCompanyInfo(t *testing.T) {
	down := &fakeAlphaVantage{err: errors.New("rate limited")}

	tests := []struct {
		name     string
		upstream *fakeAlphaVantage
		symbol   string
		want     dto.CompanyInfo
	}{
		{
			name:     "live overview",
			upstream: liveUpstream(),
			symbol:   "IBM",
			want:     dto.CompanyInfo{CompanyName: "International Business Machines", Sector: "Technology", Source: dto.QuoteSourceLive},
		},
		{
			name:     "known symbol fallback",
			upstream: down,
			symbol:   "amzn",
			want:     dto.CompanyInfo{CompanyName: "Amazon.com Inc.", Sector: "Consumer Discretionary", Source: dto.QuoteSourceFallback},
		},
		{
			name:     "unknown symbol fallback",
			upstream: down,
			symbol:   "XYZ",
			want:     dto.CompanyInfo{CompanyName: "XYZ Corporation", Sector: "Technology", Source: dto.QuoteSourceFallback},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewQuoteService(logger.NewNop(), tt.upstream, fixedRandom(0.5))
			assert.Equal(t, tt.want, s.FetchCompanyInfo(context.Background(), tt.symbol))
		})
	}
}

func TestQuoteService_ValidateSymbol(t *testing.T) {
	t.Run("valid symbol", func(t *testing.T) {
		s := NewQuoteService(logger.NewNop(), liveUpstream(), fixedRandom(0.5))
		got := s.ValidateSymbol(context.Background(), "ibm")

		assert.True(t, got.Valid)
		assert.Equal(t, "IBM", got.Symbol)
		assert.Equal(t, "International Business Machines", got.CompanyName)
		assert.Equal(t, "Technology", got.Sector)
		if assert.NotNil(t, got.CurrentPrice) {
			assert.Equal(t, "181.25", got.CurrentPrice.String())
		}
	})

	t.Run("unknown symbol is not replaced by fallback data", func(t *testing.T) {
		s := NewQuoteService(logger.NewNop(), liveUpstream(), fixedRandom(0.5))
		got := s.ValidateSymbol(context.Background(), "AAPL")

		assert.False(t, got.Valid)
		assert.Equal(t, "invalid symbol or no data available", got.Message)
		assert.Nil(t, got.CurrentPrice)
	})

	t.Run("upstream down", func(t *testing.T) {
		s := NewQuoteService(logger.NewNop(), &fakeAlphaVantage{err: errors.New("timeout")}, fixedRandom(0.5))
		got := s.ValidateSymbol(context.Background(), "IBM")

		assert.False(t, got.Valid)
		assert.Equal(t, "timeout", got.Message)
	})

	t.Run("empty symbol", func(t *testing.T) {
		s := NewQuoteService(logger.NewNop(), liveUpstream(), fixedRandom(0.5))
		got := s.ValidateSymbol(context.Background(), "  ")

		assert.False(t, got.Valid)
		assert.Equal(t, "symbol is required", got.Message)
	})
}
