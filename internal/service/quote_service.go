package service

import (
	"context"
	"fmt"
	"portfolio-dashboard/internal/dto"
	"portfolio-dashboard/internal/repository"
	"portfolio-dashboard/pkg/logger"
	"strings"
	"sync"

	"github.com/shopspring/decimal"
)

// RandomSource yields floats in [0, 1). *rand.Rand satisfies it.
type RandomSource interface {
	Float64() float64
}

type lockedSource struct {
	mu  sync.Mutex
	src RandomSource
}

// NewLockedSource makes src safe for concurrent use.
func NewLockedSource(src RandomSource) RandomSource {
	return &lockedSource{src: src}
}

func (l *lockedSource) Float64() float64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.src.Float64()
}

var (
	fallbackDefaultPrice = decimal.NewFromInt(100)
	fallbackPrices       = map[string]decimal.Decimal{
		"AAPL":  decimal.RequireFromString("175.43"),
		"MSFT":  decimal.RequireFromString("385.20"),
		"GOOGL": decimal.RequireFromString("2680.30"),
		"AMZN":  decimal.RequireFromString("3200.00"),
		"TSLA":  decimal.RequireFromString("800.00"),
		"NVDA":  decimal.RequireFromString("450.00"),
	}
	fallbackCompanies = map[string]dto.CompanyInfo{
		"AAPL":  {CompanyName: "Apple Inc.", Sector: "Technology"},
		"MSFT":  {CompanyName: "Microsoft Corporation", Sector: "Technology"},
		"GOOGL": {CompanyName: "Alphabet Inc.", Sector: "Technology"},
		"AMZN":  {CompanyName: "Amazon.com Inc.", Sector: "Consumer Discretionary"},
		"TSLA":  {CompanyName: "Tesla Inc.", Sector: "Consumer Discretionary"},
		"NVDA":  {CompanyName: "NVIDIA Corporation", Sector: "Technology"},
	}
)

// QuoteService fetches quotes and company data. FetchQuote and
// FetchCompanyInfo never fail: upstream errors are replaced by fallback data
// tagged with dto.QuoteSourceFallback. ValidateSymbol never falls back.
type QuoteService interface {
	FetchQuote(ctx context.Context, symbol string) dto.Quote
	FetchCompanyInfo(ctx context.Context, symbol string) dto.CompanyInfo
	ValidateSymbol(ctx context.Context, symbol string) dto.SymbolValidation
}

type quoteService struct {
	log          *logger.Logger
	upstream     repository.AlphaVantageRepository
	randomSource RandomSource
}

func NewQuoteService(log *logger.Logger, upstream repository.AlphaVantageRepository, randomSource RandomSource) QuoteService {
	return &quoteService{
		log:          log,
		upstream:     upstream,
		randomSource: randomSource,
	}
}

func normalizeSymbol(symbol string) string {
	return strings.ToUpper(strings.TrimSpace(symbol))
}

func (s *quoteService) FetchQuote(ctx context.Context, symbol string) dto.Quote {
	symbol = normalizeSymbol(symbol)

	quote, err := s.upstream.GetGlobalQuote(ctx, symbol)
	if err == nil {
		return *quote
	}

	s.log.WarnContext(ctx, "Quote API failed, using fallback data",
		logger.StringField("symbol", symbol),
		logger.ErrorField(err),
	)
	return s.fallbackQuote(symbol)
}

// fallbackQuote returns the approximate price from the static table and a
// random change in [-5%, +5%].
func (s *quoteService) fallbackQuote(symbol string) dto.Quote {
	price, ok := fallbackPrices[symbol]
	if !ok {
		price = fallbackDefaultPrice
	}
	change := decimal.NewFromFloat((s.randomSource.Float64() - 0.5) * 10).Round(2)

	return dto.Quote{
		Symbol:        symbol,
		CurrentPrice:  price,
		ChangePercent: change,
		Source:        dto.QuoteSourceFallback,
	}
}

func (s *quoteService) FetchCompanyInfo(ctx context.Context, symbol string) dto.CompanyInfo {
	symbol = normalizeSymbol(symbol)

	info, err := s.upstream.GetCompanyOverview(ctx, symbol)
	if err == nil {
		return *info
	}

	s.log.WarnContext(ctx, "Company overview API failed, using fallback data",
		logger.StringField("symbol", symbol),
		logger.ErrorField(err),
	)

	fallback, ok := fallbackCompanies[symbol]
	if !ok {
		fallback = dto.CompanyInfo{
			CompanyName: fmt.Sprintf("%s Corporation", symbol),
			Sector:      "Technology",
		}
	}
	fallback.Source = dto.QuoteSourceFallback
	return fallback
}

func (s *quoteService) ValidateSymbol(ctx context.Context, symbol string) dto.SymbolValidation {
	symbol = normalizeSymbol(symbol)
	if symbol == "" {
		return dto.SymbolValidation{Valid: false, Message: "symbol is required"}
	}

	quote, err := s.upstream.GetGlobalQuote(ctx, symbol)
	if err != nil {
		s.log.InfoContext(ctx, "Symbol validation failed", logger.StringField("symbol", symbol), logger.ErrorField(err))
		return dto.SymbolValidation{Valid: false, Message: err.Error()}
	}

	info, err := s.upstream.GetCompanyOverview(ctx, symbol)
	if err != nil {
		s.log.InfoContext(ctx, "Symbol validation failed", logger.StringField("symbol", symbol), logger.ErrorField(err))
		return dto.SymbolValidation{Valid: false, Message: err.Error()}
	}

	price := quote.CurrentPrice
	return dto.SymbolValidation{
		Valid:        true,
		Symbol:       quote.Symbol,
		CompanyName:  info.CompanyName,
		CurrentPrice: &price,
		Sector:       info.Sector,
	}
}
