package service

import (
	"context"
	"fmt"
	"portfolio-dashboard/config"
	"portfolio-dashboard/internal/dto"
	"portfolio-dashboard/internal/model"
	"portfolio-dashboard/internal/repository"
	"portfolio-dashboard/pkg/logger"
	"portfolio-dashboard/pkg/utils"
	"sync/atomic"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

const (
	sharesPlaces = 4
	pricePlaces  = 2
)

var (
	ErrDemoUserNotFound  = fmt.Errorf("demo user %w", dto.ErrNotFound)
	ErrPortfolioNotFound = fmt.Errorf("portfolio %w", dto.ErrNotFound)
	ErrHoldingNotFound   = fmt.Errorf("holding %w", dto.ErrNotFound)

	// upper bounds of numeric(10,4) and numeric(10,2)
	maxShares        = decimal.RequireFromString("999999.9999")
	maxPrice         = decimal.RequireFromString("99999999.99")
	maxChangePercent = decimal.RequireFromString("999.99")
	maxMarketCap     = decimal.RequireFromString("9999999999999.99")
	maxPERatio       = decimal.RequireFromString("9999.99")
)

// PortfolioService runs every dashboard operation against the first
// portfolio of the configured demo user.
type PortfolioService interface {
	GetDemoPortfolio(ctx context.Context) (*model.PortfolioWithHoldings, error)
	AnalyzeDemoPortfolio(ctx context.Context) (*dto.PortfolioAnalysis, error)
	AddHolding(ctx context.Context, req dto.CreateHoldingRequest) (*model.Holding, error)
	UpdateHolding(ctx context.Context, id string, req dto.UpdateHoldingRequest) (*model.Holding, error)
	DeleteHolding(ctx context.Context, id string) error
	RefreshPrices(ctx context.Context) (int, error)
	SeedDemoData(ctx context.Context) error
}

type portfolioService struct {
	cfg          *config.Config
	log          *logger.Logger
	store        repository.Store
	quotes       QuoteService
	randomSource RandomSource
	now          func() time.Time
}

func NewPortfolioService(
	cfg *config.Config,
	log *logger.Logger,
	store repository.Store,
	quotes QuoteService,
	randomSource RandomSource,
	now func() time.Time,
) PortfolioService {
	if now == nil {
		now = time.Now
	}
	return &portfolioService{
		cfg:          cfg,
		log:          log,
		store:        store,
		quotes:       quotes,
		randomSource: randomSource,
		now:          now,
	}
}

func (s *portfolioService) demoPortfolio(ctx context.Context) (*model.Portfolio, error) {
	user, err := s.store.GetUserByUsername(ctx, s.cfg.Demo.Username)
	if err != nil {
		return nil, fmt.Errorf("failed to get demo user: %w", err)
	}
	if user == nil {
		return nil, ErrDemoUserNotFound
	}

	portfolios, err := s.store.GetPortfoliosByUserID(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to get portfolios: %w", err)
	}
	if len(portfolios) == 0 {
		return nil, ErrPortfolioNotFound
	}
	return &portfolios[0], nil
}

func (s *portfolioService) GetDemoPortfolio(ctx context.Context) (*model.PortfolioWithHoldings, error) {
	portfolio, err := s.demoPortfolio(ctx)
	if err != nil {
		return nil, err
	}

	result, err := s.store.GetPortfolioWithHoldings(ctx, portfolio.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to get portfolio with holdings: %w", err)
	}
	if result == nil {
		return nil, ErrPortfolioNotFound
	}
	return result, nil
}

func (s *portfolioService) AnalyzeDemoPortfolio(ctx context.Context) (*dto.PortfolioAnalysis, error) {
	portfolio, err := s.GetDemoPortfolio(ctx)
	if err != nil {
		return nil, err
	}

	analysis, err := AnalyzePortfolio(portfolio)
	if err != nil {
		s.log.ErrorContext(ctx, "Failed to analyze portfolio",
			logger.StringField("portfolio_id", portfolio.ID),
			logger.ErrorField(err),
		)
		return nil, err
	}
	return analysis, nil
}

// boundedDecimal parses a non-negative decimal with at most places fraction
// digits and no more than max. Problems are recorded in fields under name.
func boundedDecimal(fields map[string]string, name, raw string, places int32, max decimal.Decimal) string {
	d, err := utils.ParseNonNegativeDecimal(raw)
	if err != nil {
		fields[name] = err.Error()
		return ""
	}
	if !d.Equal(d.Round(places)) {
		fields[name] = fmt.Sprintf("must have at most %d decimal places", places)
		return ""
	}
	if d.GreaterThan(max) {
		fields[name] = fmt.Sprintf("must not exceed %s", max.String())
		return ""
	}
	return utils.DecimalText(d, places)
}

func validateCreate(portfolioID string, req dto.CreateHoldingRequest) (model.NewHolding, error) {
	fields := make(map[string]string)

	symbol := normalizeSymbol(req.Symbol)
	if symbol == "" {
		fields["symbol"] = "is required"
	} else if len(symbol) > 10 {
		fields["symbol"] = "must be at most 10 characters"
	}
	shares := boundedDecimal(fields, "shares", req.Shares, sharesPlaces, maxShares)
	price := boundedDecimal(fields, "purchasePrice", req.PurchasePrice, pricePlaces, maxPrice)
	if req.PurchaseDate.IsZero() {
		fields["purchaseDate"] = "is required"
	}

	if len(fields) > 0 {
		return model.NewHolding{}, dto.NewValidationError(fields)
	}
	return model.NewHolding{
		PortfolioID:   portfolioID,
		Symbol:        symbol,
		Shares:        shares,
		PurchasePrice: price,
		PurchaseDate:  req.PurchaseDate,
	}, nil
}

func validateUpdate(req dto.UpdateHoldingRequest) (model.HoldingUpdate, error) {
	fields := make(map[string]string)
	update := model.HoldingUpdate{
		PurchaseDate: req.PurchaseDate,
		CompanyName:  req.CompanyName,
		Sector:       req.Sector,
	}

	if req.Shares != nil {
		update.Shares = utils.ToPointer(boundedDecimal(fields, "shares", *req.Shares, sharesPlaces, maxShares))
	}
	if req.PurchasePrice != nil {
		update.PurchasePrice = utils.ToPointer(boundedDecimal(fields, "purchasePrice", *req.PurchasePrice, pricePlaces, maxPrice))
	}
	if req.CurrentPrice != nil {
		update.CurrentPrice = utils.ToPointer(boundedDecimal(fields, "currentPrice", *req.CurrentPrice, pricePlaces, maxPrice))
	}
	if req.PurchaseDate != nil && req.PurchaseDate.IsZero() {
		fields["purchaseDate"] = "must be a valid date"
	}

	if len(fields) > 0 {
		return model.HoldingUpdate{}, dto.NewValidationError(fields)
	}
	return update, nil
}

// optionalText renders d for a nullable numeric column, dropping values the
// column cannot hold.
func optionalText(d *decimal.Decimal, max decimal.Decimal) *string {
	if d == nil || d.Abs().GreaterThan(max) {
		return nil
	}
	return utils.ToPointer(utils.DecimalText(*d, 2))
}

// snapshotFrom converts fetched quote and company data into the stored form.
func snapshotFrom(symbol string, quote dto.Quote, info dto.CompanyInfo) model.StockData {
	return model.StockData{
		Symbol:        symbol,
		CompanyName:   info.CompanyName,
		CurrentPrice:  utils.DecimalText(quote.CurrentPrice, pricePlaces),
		ChangePercent: optionalText(&quote.ChangePercent, maxChangePercent),
		Sector:        utils.ToPointer(info.Sector),
		MarketCap:     optionalText(info.MarketCap, maxMarketCap),
		PERatio:       optionalText(info.PERatio, maxPERatio),
	}
}

// AddHolding creates a holding in the demo portfolio and enriches it with the
// latest quote and company data. Once the holding is stored, snapshot and
// enrichment failures are only logged and the plain holding is returned.
func (s *portfolioService) AddHolding(ctx context.Context, req dto.CreateHoldingRequest) (*model.Holding, error) {
	portfolio, err := s.demoPortfolio(ctx)
	if err != nil {
		return nil, err
	}

	data, err := validateCreate(portfolio.ID, req)
	if err != nil {
		return nil, err
	}

	var (
		quote dto.Quote
		info  dto.CompanyInfo
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		quote = s.quotes.FetchQuote(gctx, data.Symbol)
		return nil
	})
	g.Go(func() error {
		info = s.quotes.FetchCompanyInfo(gctx, data.Symbol)
		return nil
	})
	_ = g.Wait()

	if _, err := s.store.CreateOrUpdateStockData(ctx, snapshotFrom(data.Symbol, quote, info)); err != nil {
		s.log.WarnContext(ctx, "Failed to cache stock data",
			logger.StringField("symbol", data.Symbol),
			logger.ErrorField(err),
		)
	}

	holding, err := s.store.CreateHolding(ctx, data)
	if err != nil {
		return nil, fmt.Errorf("failed to create holding: %w", err)
	}

	snapshot, err := s.store.GetStockData(ctx, data.Symbol)
	if err != nil {
		s.log.WarnContext(ctx, "Failed to read stock data", logger.StringField("symbol", data.Symbol), logger.ErrorField(err))
		return holding, nil
	}
	if snapshot == nil {
		return holding, nil
	}

	enriched, err := s.store.UpdateHolding(ctx, holding.ID, model.HoldingUpdate{
		CurrentPrice: utils.ToPointer(snapshot.CurrentPrice),
		CompanyName:  utils.ToPointer(snapshot.CompanyName),
		Sector:       snapshot.Sector,
	})
	if err != nil || enriched == nil {
		s.log.WarnContext(ctx, "Failed to enrich holding",
			logger.StringField("holding_id", holding.ID),
			logger.StringField("symbol", data.Symbol),
			logger.ErrorField(err),
		)
		return holding, nil
	}

	s.log.InfoContext(ctx, "Holding added",
		logger.StringField("holding_id", enriched.ID),
		logger.StringField("symbol", enriched.Symbol),
		logger.StringField("quote_source", string(quote.Source)),
	)
	return enriched, nil
}

func (s *portfolioService) UpdateHolding(ctx context.Context, id string, req dto.UpdateHoldingRequest) (*model.Holding, error) {
	update, err := validateUpdate(req)
	if err != nil {
		return nil, err
	}

	holding, err := s.store.UpdateHolding(ctx, id, update)
	if err != nil {
		return nil, fmt.Errorf("failed to update holding %s: %w", id, err)
	}
	if holding == nil {
		return nil, ErrHoldingNotFound
	}
	return holding, nil
}

func (s *portfolioService) DeleteHolding(ctx context.Context, id string) error {
	deleted, err := s.store.DeleteHolding(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to delete holding %s: %w", id, err)
	}
	if !deleted {
		return ErrHoldingNotFound
	}
	return nil
}

// refreshSymbol fetches a new quote for symbol and stores it. The snapshot's
// company name, sector and fundamentals are kept; company info is only
// fetched when there is no snapshot yet.
func (s *portfolioService) refreshSymbol(ctx context.Context, symbol string) error {
	quote := s.quotes.FetchQuote(ctx, symbol)

	existing, err := s.store.GetStockData(ctx, symbol)
	if err != nil {
		return fmt.Errorf("failed to read stock data: %w", err)
	}

	var snapshot model.StockData
	if existing != nil {
		snapshot = *existing
		snapshot.CurrentPrice = utils.DecimalText(quote.CurrentPrice, pricePlaces)
		snapshot.ChangePercent = optionalText(&quote.ChangePercent, maxChangePercent)
	} else {
		snapshot = snapshotFrom(symbol, quote, s.quotes.FetchCompanyInfo(ctx, symbol))
	}

	if _, err := s.store.CreateOrUpdateStockData(ctx, snapshot); err != nil {
		return fmt.Errorf("failed to store stock data: %w", err)
	}
	return nil
}

// RefreshPrices re-fetches every distinct symbol of the demo portfolio, at
// most quote.max_concurrency at a time, then copies the snapshot prices onto
// the holdings. It returns how many symbols were stored.
func (s *portfolioService) RefreshPrices(ctx context.Context) (int, error) {
	portfolio, err := s.demoPortfolio(ctx)
	if err != nil {
		return 0, err
	}

	holdings, err := s.store.GetHoldingsByPortfolioID(ctx, portfolio.ID)
	if err != nil {
		return 0, fmt.Errorf("failed to get holdings: %w", err)
	}

	var updated atomic.Int64
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.cfg.Quote.MaxConcurrency)
	for _, symbol := range model.DistinctSymbols(holdings) {
		symbol := symbol
		g.Go(func() error {
			if !utils.ShouldContinue(gctx, s.log, "refresh "+symbol) {
				return gctx.Err()
			}
			if err := s.refreshSymbol(gctx, symbol); err != nil {
				s.log.WarnContext(gctx, "Failed to refresh symbol",
					logger.StringField("symbol", symbol),
					logger.ErrorField(err),
				)
				return nil
			}
			updated.Add(1)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return int(updated.Load()), err
	}

	for _, h := range holdings {
		snapshot, err := s.store.GetStockData(ctx, h.Symbol)
		if err != nil {
			return int(updated.Load()), fmt.Errorf("failed to read stock data for %s: %w", h.Symbol, err)
		}
		if snapshot == nil {
			continue
		}
		if _, err := s.store.UpdateHolding(ctx, h.ID, model.HoldingUpdate{CurrentPrice: utils.ToPointer(snapshot.CurrentPrice)}); err != nil {
			return int(updated.Load()), fmt.Errorf("failed to update holding %s: %w", h.ID, err)
		}
	}

	s.log.InfoContext(ctx, "Prices refreshed",
		logger.StringField("portfolio_id", portfolio.ID),
		logger.IntField("symbols", int(updated.Load())),
		logger.IntField("holdings", len(holdings)),
	)
	return int(updated.Load()), nil
}

// SeedDemoData creates the demo user and portfolio and, when enabled, the
// sample holdings. It does nothing when the demo user already exists.
func (s *portfolioService) SeedDemoData(ctx context.Context) error {
	existing, err := s.store.GetUserByUsername(ctx, s.cfg.Demo.Username)
	if err != nil {
		return fmt.Errorf("failed to look up demo user: %w", err)
	}
	if existing != nil {
		s.log.InfoContext(ctx, "Demo data already present", logger.StringField("username", existing.Username))
		return nil
	}

	user, err := s.store.CreateUser(ctx, model.User{
		Username: s.cfg.Demo.Username,
		Password: s.cfg.Demo.Password,
	})
	if err != nil {
		return fmt.Errorf("failed to create demo user: %w", err)
	}

	portfolio, err := s.store.CreatePortfolio(ctx, model.Portfolio{
		UserID: user.ID,
		Name:   s.cfg.Demo.PortfolioName,
	})
	if err != nil {
		return fmt.Errorf("failed to create demo portfolio: %w", err)
	}

	if !s.cfg.Demo.SeedHoldings {
		s.log.InfoContext(ctx, "Demo user seeded without holdings", logger.StringField("portfolio_id", portfolio.ID))
		return nil
	}

	now := s.now()
	for _, sample := range sampleHoldings {
		change := decimal.NewFromFloat((s.randomSource.Float64() - 0.5) * 10)
		if _, err := s.store.CreateOrUpdateStockData(ctx, model.StockData{
			Symbol:        sample.Symbol,
			CompanyName:   sample.CompanyName,
			CurrentPrice:  sample.CurrentPrice,
			ChangePercent: utils.ToPointer(utils.DecimalText(change, 2)),
			Sector:        utils.ToPointer(sample.Sector),
		}); err != nil {
			return fmt.Errorf("failed to seed stock data %s: %w", sample.Symbol, err)
		}

		age := time.Duration(s.randomSource.Float64() * float64(sampleMaxAge))
		if _, err := s.store.CreateHolding(ctx, model.NewHolding{
			PortfolioID:   portfolio.ID,
			Symbol:        sample.Symbol,
			Shares:        sample.Shares,
			PurchasePrice: sample.PurchasePrice,
			PurchaseDate:  now.Add(-age),
		}); err != nil {
			return fmt.Errorf("failed to seed holding %s: %w", sample.Symbol, err)
		}
	}

	s.log.InfoContext(ctx, "Demo data seeded",
		logger.StringField("portfolio_id", portfolio.ID),
		logger.IntField("holdings", len(sampleHoldings)),
	)
	return nil
}
