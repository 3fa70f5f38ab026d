package repository

import (
	"context"
	"errors"
	"fmt"
	"portfolio-dashboard/internal/model"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type postgresStore struct {
	db  *gorm.DB
	now func() time.Time
}

// NewPostgresStore returns a Store backed by the tables created by the
// migrations in /migrations.
func NewPostgresStore(db *gorm.DB, now func() time.Time) Store {
	if now == nil {
		now = time.Now
	}
	return &postgresStore{db: db, now: now}
}

// first runs First and maps a missing row to a nil result.
func first[T any](tx *gorm.DB) (*T, error) {
	var out T
	if err := tx.First(&out).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &out, nil
}

func (r *postgresStore) CreateUser(ctx context.Context, user model.User) (*model.User, error) {
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	if err := r.db.WithContext(ctx).Create(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, fmt.Errorf("%w: %s", ErrUsernameTaken, user.Username)
		}
		return nil, err
	}
	return &user, nil
}

func (r *postgresStore) GetUser(ctx context.Context, id string) (*model.User, error) {
	return first[model.User](r.db.WithContext(ctx).Where("id = ?", id))
}

func (r *postgresStore) GetUserByUsername(ctx context.Context, username string) (*model.User, error) {
	return first[model.User](r.db.WithContext(ctx).Where("username = ?", username))
}

func (r *postgresStore) CreatePortfolio(ctx context.Context, portfolio model.Portfolio) (*model.Portfolio, error) {
	if portfolio.ID == "" {
		portfolio.ID = uuid.NewString()
	}
	portfolio.CreatedAt = r.now()
	if err := r.db.WithContext(ctx).Create(&portfolio).Error; err != nil {
		return nil, err
	}
	return &portfolio, nil
}

func (r *postgresStore) GetPortfolio(ctx context.Context, id string) (*model.Portfolio, error) {
	return first[model.Portfolio](r.db.WithContext(ctx).Where("id = ?", id))
}

func (r *postgresStore) GetPortfoliosByUserID(ctx context.Context, userID string) ([]model.Portfolio, error) {
	var portfolios []model.Portfolio
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at, id").
		Find(&portfolios).Error; err != nil {
		return nil, err
	}
	return portfolios, nil
}

func (r *postgresStore) GetHolding(ctx context.Context, id string) (*model.Holding, error) {
	return first[model.Holding](r.db.WithContext(ctx).Where("id = ?", id))
}

func (r *postgresStore) GetHoldingsByPortfolioID(ctx context.Context, portfolioID string) ([]model.Holding, error) {
	var holdings []model.Holding
	if err := r.db.WithContext(ctx).
		Where("portfolio_id = ?", portfolioID).
		Order("purchase_date, id").
		Find(&holdings).Error; err != nil {
		return nil, err
	}
	return holdings, nil
}

func (r *postgresStore) CreateHolding(ctx context.Context, data model.NewHolding) (*model.Holding, error) {
	h := model.Holding{
		ID:            uuid.NewString(),
		PortfolioID:   data.PortfolioID,
		Symbol:        strings.ToUpper(data.Symbol),
		Shares:        data.Shares,
		PurchasePrice: data.PurchasePrice,
		PurchaseDate:  data.PurchaseDate,
		LastUpdated:   r.now(),
	}
	if err := r.db.WithContext(ctx).Create(&h).Error; err != nil {
		return nil, err
	}
	return &h, nil
}

func (r *postgresStore) UpdateHolding(ctx context.Context, id string, update model.HoldingUpdate) (*model.Holding, error) {
	res := r.db.WithContext(ctx).
		Model(&model.Holding{}).
		Where("id = ?", id).
		Updates(update.Columns(r.now()))
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, nil
	}
	return r.GetHolding(ctx, id)
}

func (r *postgresStore) DeleteHolding(ctx context.Context, id string) (bool, error) {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.Holding{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *postgresStore) GetStockData(ctx context.Context, symbol string) (*model.StockData, error) {
	return first[model.StockData](r.db.WithContext(ctx).Where("symbol = ?", strings.ToUpper(symbol)))
}

func (r *postgresStore) CreateOrUpdateStockData(ctx context.Context, data model.StockData) (*model.StockData, error) {
	data.Symbol = strings.ToUpper(data.Symbol)
	data.LastUpdated = r.now()
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "symbol"}},
			UpdateAll: true,
		}).
		Create(&data).Error
	if err != nil {
		return nil, err
	}
	return &data, nil
}

func (r *postgresStore) GetPortfolioWithHoldings(ctx context.Context, portfolioID string) (*model.PortfolioWithHoldings, error) {
	portfolio, err := r.GetPortfolio(ctx, portfolioID)
	if err != nil || portfolio == nil {
		return nil, err
	}

	holdings, err := r.GetHoldingsByPortfolioID(ctx, portfolioID)
	if err != nil {
		return nil, err
	}

	var snapshots []model.StockData
	if symbols := model.DistinctSymbols(holdings); len(symbols) > 0 {
		if err := r.db.WithContext(ctx).Where("symbol IN ?", symbols).Find(&snapshots).Error; err != nil {
			return nil, err
		}
	}

	return &model.PortfolioWithHoldings{
		Portfolio: *portfolio,
		Holdings:  model.AssembleHoldings(holdings, snapshots),
	}, nil
}
