package repository

import (
	"context"
	"errors"
	"fmt"
	"portfolio-dashboard/config"
	"portfolio-dashboard/internal/dto"
	"portfolio-dashboard/pkg/cache"
	"portfolio-dashboard/pkg/httpclient"
	"portfolio-dashboard/pkg/logger"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/time/rate"
)

const (
	alphaVantageQueryPath     = "/query"
	alphaVantageGlobalQuote   = "GLOBAL_QUOTE"
	alphaVantageOverview      = "OVERVIEW"
	alphaVantageDefaultSector = "Technology"
)

var (
	errNoQuoteData = errors.New("invalid symbol or no data available")

	ErrRequestBudgetExhausted = errors.New("API limit reached, try again later")
)

// AlphaVantageRepository talks to the Alpha Vantage API. Every error it
// returns is an upstream failure; it never substitutes data.
type AlphaVantageRepository interface {
	GetGlobalQuote(ctx context.Context, symbol string) (*dto.Quote, error)
	GetCompanyOverview(ctx context.Context, symbol string) (*dto.CompanyInfo, error)
}

type alphaVantageRepository struct {
	httpClient     httpclient.JSONGetter
	cfg            *config.Config
	logger         *logger.Logger
	inmemoryCache  cache.Cache
	requestLimiter *rate.Limiter
}

// NewAlphaVantageRepository creates a new instance of alphaVantageRepository.
func NewAlphaVantageRepository(cfg *config.Config, inmemoryCache cache.Cache, log *logger.Logger) AlphaVantageRepository {
	var requestLimiter *rate.Limiter
	if cfg.AlphaVantage.MaxRequestPerMinute > 0 {
		perRequest := time.Minute / time.Duration(cfg.AlphaVantage.MaxRequestPerMinute)
		requestLimiter = rate.NewLimiter(rate.Every(perRequest), 1)
	}

	return &alphaVantageRepository{
		httpClient: httpclient.New(httpclient.Options{
			BaseURL:    cfg.AlphaVantage.BaseURL,
			Timeout:    cfg.AlphaVantage.Timeout,
			RetryCount: cfg.AlphaVantage.RetryCount,
		}),
		cfg:            cfg,
		logger:         log,
		inmemoryCache:  inmemoryCache,
		requestLimiter: requestLimiter,
	}
}

// wait spends one request from the per-minute budget. Callers with a deadline
// (scheduled refreshes) queue for the next token; request-scoped calls fail
// fast with ErrRequestBudgetExhausted so the quote service can fall back.
func (r *alphaVantageRepository) wait(ctx context.Context) error {
	if r.requestLimiter == nil || r.requestLimiter.Allow() {
		return nil
	}
	if _, ok := ctx.Deadline(); !ok {
		r.logger.WarnContext(ctx, "Alpha Vantage request budget exhausted",
			logger.IntField("max_request_per_minute", r.cfg.AlphaVantage.MaxRequestPerMinute),
		)
		return ErrRequestBudgetExhausted
	}
	return r.requestLimiter.Wait(ctx)
}

func (r *alphaVantageRepository) query(ctx context.Context, function, symbol string, result interface{}) error {
	if err := r.wait(ctx); err != nil {
		return err
	}

	queryParams := map[string]string{
		"function": function,
		"symbol":   symbol,
		"apikey":   r.cfg.AlphaVantage.APIKey,
	}

	resp, err := r.httpClient.GetJSON(ctx, alphaVantageQueryPath, queryParams, result)
	if err != nil {
		return fmt.Errorf("failed to fetch %s from alpha vantage: %w", function, err)
	}
	if !resp.IsSuccess() {
		r.logger.ErrorContext(ctx, "Alpha Vantage API returned Non-OK status",
			logger.IntField("status_code", resp.StatusCode),
			logger.StringField("function", function),
			logger.StringField("body", string(resp.Body)))
		return fmt.Errorf("alpha vantage api returned status: %d", resp.StatusCode)
	}
	return nil
}

// upstreamError turns the error/notice fields Alpha Vantage uses instead of
// HTTP status codes into an error.
func upstreamError(errorMessage, note, information string) error {
	switch {
	case errorMessage != "":
		return errors.New(errorMessage)
	case note != "":
		return errors.New(note)
	case information != "":
		return errors.New(information)
	}
	return nil
}

func (r *alphaVantageRepository) GetGlobalQuote(ctx context.Context, symbol string) (*dto.Quote, error) {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))

	var avResp dto.AlphaVantageGlobalQuoteResponse
	if err := r.query(ctx, alphaVantageGlobalQuote, symbol, &avResp); err != nil {
		return nil, err
	}
	if err := upstreamError(avResp.ErrorMessage, avResp.Note, avResp.Information); err != nil {
		return nil, err
	}
	if len(avResp.GlobalQuote) == 0 {
		return nil, errNoQuoteData
	}

	price, err := decimal.NewFromString(avResp.GlobalQuote[dto.AlphaVantageFieldPrice])
	if err != nil {
		return nil, fmt.Errorf("invalid price for %s: %w", symbol, err)
	}

	changePercent := decimal.Zero
	if raw := strings.TrimSuffix(strings.TrimSpace(avResp.GlobalQuote[dto.AlphaVantageFieldChangePercent]), "%"); raw != "" {
		changePercent, err = decimal.NewFromString(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid change percent for %s: %w", symbol, err)
		}
	}

	quoteSymbol := avResp.GlobalQuote[dto.AlphaVantageFieldSymbol]
	if quoteSymbol == "" {
		quoteSymbol = symbol
	}

	return &dto.Quote{
		Symbol:        strings.ToUpper(quoteSymbol),
		CurrentPrice:  price,
		ChangePercent: changePercent,
		Source:        dto.QuoteSourceLive,
	}, nil
}

// GetCompanyOverview returns company name and sector. Live results are kept
// in the in-process cache for cache.company_info_ttl.
func (r *alphaVantageRepository) GetCompanyOverview(ctx context.Context, symbol string) (*dto.CompanyInfo, error) {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	cacheKey := cache.CompanyInfoKey(symbol)
	if info, found := cache.GetFromCache[dto.CompanyInfo](r.inmemoryCache, cacheKey); found {
		return &info, nil
	}

	var avResp dto.AlphaVantageOverviewResponse
	if err := r.query(ctx, alphaVantageOverview, symbol, &avResp); err != nil {
		return nil, err
	}
	if err := upstreamError(avResp.ErrorMessage, avResp.Note, avResp.Information); err != nil {
		return nil, err
	}

	info := dto.CompanyInfo{
		CompanyName: avResp.Name,
		Sector:      avResp.Sector,
		MarketCap:   optionalDecimal(avResp.MarketCapitalization),
		PERatio:     optionalDecimal(avResp.PERatio),
		Source:      dto.QuoteSourceLive,
	}
	if info.CompanyName == "" {
		info.CompanyName = symbol + " Corp"
	}
	if info.Sector == "" {
		info.Sector = alphaVantageDefaultSector
	}

	if r.inmemoryCache != nil {
		r.inmemoryCache.Set(cacheKey, info, r.cfg.Cache.CompanyInfoTTL)
	}
	return &info, nil
}

// optionalDecimal parses Alpha Vantage numeric strings, which use "None" and
// "-" for missing values.
func optionalDecimal(raw string) *decimal.Decimal {
	raw = strings.TrimSpace(raw)
	if raw == "" || raw == "None" || raw == "-" {
		return nil
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return nil
	}
	return &d
}
