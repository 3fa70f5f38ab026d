package model

import (
	"strings"
	"time"
)

type Portfolio struct {
	ID        string    `gorm:"column:id;type:varchar(36);primaryKey" json:"id"`
	UserID    string    `gorm:"column:user_id;not null;index" json:"userId"`
	Name      string    `gorm:"column:name;not null" json:"name"`
	CreatedAt time.Time `gorm:"column:created_at" json:"createdAt"`
}

func (Portfolio) TableName() string {
	return "portfolios"
}

// HoldingWithStock is a holding joined with the latest cached quote snapshot
// of its symbol. StockData is nil until a snapshot has been cached.
type HoldingWithStock struct {
	Holding
	StockData *StockData `json:"stockData,omitempty"`
}

type PortfolioWithHoldings struct {
	Portfolio
	Holdings []HoldingWithStock `json:"holdings"`
}

// AssembleHoldings joins every holding with the snapshot of its symbol.
// The result keeps the order of holdings.
func AssembleHoldings(holdings []Holding, snapshots []StockData) []HoldingWithStock {
	bySymbol := make(map[string]StockData, len(snapshots))
	for _, s := range snapshots {
		bySymbol[strings.ToUpper(s.Symbol)] = s
	}

	out := make([]HoldingWithStock, 0, len(holdings))
	for _, h := range holdings {
		item := HoldingWithStock{Holding: h}
		if s, ok := bySymbol[strings.ToUpper(h.Symbol)]; ok {
			s := s
			item.StockData = &s
		}
		out = append(out, item)
	}
	return out
}

// DistinctSymbols returns the upper-case symbols of holdings, first occurrence order.
func DistinctSymbols(holdings []Holding) []string {
	seen := make(map[string]struct{}, len(holdings))
	symbols := make([]string, 0, len(holdings))
	for _, h := range holdings {
		symbol := strings.ToUpper(h.Symbol)
		if _, ok := seen[symbol]; ok {
			continue
		}
		seen[symbol] = struct{}{}
		symbols = append(symbols, symbol)
	}
	return symbols
}
