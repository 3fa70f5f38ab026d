package repository

import (
	"context"
	"errors"
	"fmt"
	"portfolio-dashboard/config"
	"portfolio-dashboard/internal/model"
	"portfolio-dashboard/pkg/cache"
	"portfolio-dashboard/pkg/logger"
	"time"

	"gorm.io/gorm"
)

// ErrUsernameTaken is returned by CreateUser when the username already exists.
var ErrUsernameTaken = errors.New("username already exists")

// Store persists users, portfolios, holdings and quote snapshots. Lookups of
// absent entities return a nil result and a nil error.
type Store interface {
	CreateUser(ctx context.Context, user model.User) (*model.User, error)
	GetUser(ctx context.Context, id string) (*model.User, error)
	GetUserByUsername(ctx context.Context, username string) (*model.User, error)

	CreatePortfolio(ctx context.Context, portfolio model.Portfolio) (*model.Portfolio, error)
	GetPortfolio(ctx context.Context, id string) (*model.Portfolio, error)
	GetPortfoliosByUserID(ctx context.Context, userID string) ([]model.Portfolio, error)

	GetHolding(ctx context.Context, id string) (*model.Holding, error)
	GetHoldingsByPortfolioID(ctx context.Context, portfolioID string) ([]model.Holding, error)
	CreateHolding(ctx context.Context, data model.NewHolding) (*model.Holding, error)
	UpdateHolding(ctx context.Context, id string, update model.HoldingUpdate) (*model.Holding, error)
	DeleteHolding(ctx context.Context, id string) (bool, error)

	GetStockData(ctx context.Context, symbol string) (*model.StockData, error)
	CreateOrUpdateStockData(ctx context.Context, data model.StockData) (*model.StockData, error)

	GetPortfolioWithHoldings(ctx context.Context, portfolioID string) (*model.PortfolioWithHoldings, error)
}

type Repository struct {
	Store            Store
	AlphaVantageRepo AlphaVantageRepository
}

// NewRepository wires the store selected by storage.driver. db may be nil for
// the memory driver.
func NewRepository(cfg *config.Config, inmemoryCache cache.Cache, db *gorm.DB, log *logger.Logger) (*Repository, error) {
	var store Store
	switch cfg.Storage.Driver {
	case config.StorageDriverMemory:
		store = NewMemoryStore(time.Now)
	case config.StorageDriverPostgres:
		if db == nil {
			return nil, fmt.Errorf("postgres storage selected but no database connection")
		}
		store = NewPostgresStore(db, time.Now)
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
	}

	log.Info("Storage backend selected", logger.StringField("driver", cfg.Storage.Driver))

	return &Repository{
		Store:            store,
		AlphaVantageRepo: NewAlphaVantageRepository(cfg, inmemoryCache, log),
	}, nil
}
