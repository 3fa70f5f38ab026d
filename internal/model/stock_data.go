package model

import "time"

// StockData is the latest quote snapshot of a symbol. One row per symbol,
// overwritten on every refresh.
type StockData struct {
	Symbol        string    `gorm:"column:symbol;primaryKey" json:"symbol"`
	CompanyName   string    `gorm:"column:company_name;not null" json:"companyName"`
	CurrentPrice  string    `gorm:"column:current_price;type:numeric(10,2);not null" json:"currentPrice"`
	ChangePercent *string   `gorm:"column:change_percent;type:numeric(5,2)" json:"changePercent"`
	Sector        *string   `gorm:"column:sector" json:"sector"`
	MarketCap     *string   `gorm:"column:market_cap;type:numeric(15,2)" json:"marketCap"`
	PERatio       *string   `gorm:"column:pe_ratio;type:numeric(6,2)" json:"peRatio"`
	LastUpdated   time.Time `gorm:"column:last_updated" json:"lastUpdated"`
}

func (StockData) TableName() string {
	return "stock_data"
}
