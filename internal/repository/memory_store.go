package repository

import (
	"context"
	"fmt"
	"portfolio-dashboard/internal/model"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

type memoryStore struct {
	mu  sync.RWMutex
	now func() time.Time

	users      map[string]model.User
	portfolios map[string]model.Portfolio
	holdings   map[string]model.Holding
	stockData  map[string]model.StockData

	// insertion order of holdings, so listings are stable
	holdingSeq map[string]uint64
	nextSeq    uint64
}

// NewMemoryStore returns an empty in-process Store. now stamps timestamps.
func NewMemoryStore(now func() time.Time) Store {
	if now == nil {
		now = time.Now
	}
	return &memoryStore{
		now:        now,
		users:      make(map[string]model.User),
		portfolios: make(map[string]model.Portfolio),
		holdings:   make(map[string]model.Holding),
		stockData:  make(map[string]model.StockData),
		holdingSeq: make(map[string]uint64),
	}
}

/* ---- users ---- */

func (s *memoryStore) CreateUser(ctx context.Context, user model.User) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.users {
		if existing.Username == user.Username {
			return nil, fmt.Errorf("%w: %s", ErrUsernameTaken, user.Username)
		}
	}
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	s.users[user.ID] = user
	return &user, nil
}

func (s *memoryStore) GetUser(ctx context.Context, id string) (*model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[id]
	if !ok {
		return nil, nil
	}
	return &u, nil
}

func (s *memoryStore) GetUserByUsername(ctx context.Context, username string) (*model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, u := range s.users {
		if u.Username == username {
			u := u
			return &u, nil
		}
	}
	return nil, nil
}

/* ---- portfolios ---- */

func (s *memoryStore) CreatePortfolio(ctx context.Context, portfolio model.Portfolio) (*model.Portfolio, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if portfolio.ID == "" {
		portfolio.ID = uuid.NewString()
	}
	portfolio.CreatedAt = s.now()
	s.portfolios[portfolio.ID] = portfolio
	return &portfolio, nil
}

func (s *memoryStore) GetPortfolio(ctx context.Context, id string) (*model.Portfolio, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.portfolios[id]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (s *memoryStore) GetPortfoliosByUserID(ctx context.Context, userID string) ([]model.Portfolio, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.Portfolio, 0)
	for _, p := range s.portfolios {
		if p.UserID == userID {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

/* ---- holdings ---- */

func (s *memoryStore) GetHolding(ctx context.Context, id string) (*model.Holding, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	h, ok := s.holdings[id]
	if !ok {
		return nil, nil
	}
	return &h, nil
}

func (s *memoryStore) GetHoldingsByPortfolioID(ctx context.Context, portfolioID string) ([]model.Holding, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.holdingsOf(portfolioID), nil
}

// holdingsOf expects s.mu to be held.
func (s *memoryStore) holdingsOf(portfolioID string) []model.Holding {
	out := make([]model.Holding, 0)
	for _, h := range s.holdings {
		if h.PortfolioID == portfolioID {
			out = append(out, h)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return s.holdingSeq[out[i].ID] < s.holdingSeq[out[j].ID]
	})
	return out
}

func (s *memoryStore) CreateHolding(ctx context.Context, data model.NewHolding) (*model.Holding, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	h := model.Holding{
		ID:            uuid.NewString(),
		PortfolioID:   data.PortfolioID,
		Symbol:        strings.ToUpper(data.Symbol),
		Shares:        data.Shares,
		PurchasePrice: data.PurchasePrice,
		PurchaseDate:  data.PurchaseDate,
		LastUpdated:   s.now(),
	}
	s.holdings[h.ID] = h
	s.nextSeq++
	s.holdingSeq[h.ID] = s.nextSeq
	return &h, nil
}

func (s *memoryStore) UpdateHolding(ctx context.Context, id string, update model.HoldingUpdate) (*model.Holding, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	h, ok := s.holdings[id]
	if !ok {
		return nil, nil
	}
	update.Apply(&h, s.now())
	s.holdings[id] = h
	return &h, nil
}

func (s *memoryStore) DeleteHolding(ctx context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.holdings[id]; !ok {
		return false, nil
	}
	delete(s.holdings, id)
	delete(s.holdingSeq, id)
	return true, nil
}

/* ---- quote snapshots ---- */

func (s *memoryStore) GetStockData(ctx context.Context, symbol string) (*model.StockData, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	d, ok := s.stockData[strings.ToUpper(symbol)]
	if !ok {
		return nil, nil
	}
	return &d, nil
}

func (s *memoryStore) CreateOrUpdateStockData(ctx context.Context, data model.StockData) (*model.StockData, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	data.Symbol = strings.ToUpper(data.Symbol)
	data.LastUpdated = s.now()
	s.stockData[data.Symbol] = data
	return &data, nil
}

func (s *memoryStore) GetPortfolioWithHoldings(ctx context.Context, portfolioID string) (*model.PortfolioWithHoldings, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.portfolios[portfolioID]
	if !ok {
		return nil, nil
	}

	holdings := s.holdingsOf(portfolioID)
	snapshots := make([]model.StockData, 0, len(holdings))
	for _, symbol := range model.DistinctSymbols(holdings) {
		if d, ok := s.stockData[symbol]; ok {
			snapshots = append(snapshots, d)
		}
	}

	return &model.PortfolioWithHoldings{
		Portfolio: p,
		Holdings:  model.AssembleHoldings(holdings, snapshots),
	}, nil
}
