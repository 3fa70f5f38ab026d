package model

import "time"

// Holding is one purchased position. Shares and PurchasePrice are decimal text
// so values survive storage round trips without float rounding.
type Holding struct {
	ID            string    `gorm:"column:id;type:varchar(36);primaryKey" json:"id"`
	PortfolioID   string    `gorm:"column:portfolio_id;not null;index" json:"portfolioId"`
	Symbol        string    `gorm:"column:symbol;not null" json:"symbol"`
	CompanyName   *string   `gorm:"column:company_name" json:"companyName"`
	Shares        string    `gorm:"column:shares;type:numeric(10,4);not null" json:"shares"`
	PurchasePrice string    `gorm:"column:purchase_price;type:numeric(10,2);not null" json:"purchasePrice"`
	PurchaseDate  time.Time `gorm:"column:purchase_date;not null" json:"purchaseDate"`
	CurrentPrice  *string   `gorm:"column:current_price;type:numeric(10,2)" json:"currentPrice"`
	Sector        *string   `gorm:"column:sector" json:"sector"`
	LastUpdated   time.Time `gorm:"column:last_updated" json:"lastUpdated"`
}

func (Holding) TableName() string {
	return "holdings"
}

// NewHolding is the data needed to create a holding.
type NewHolding struct {
	PortfolioID   string
	Symbol        string
	Shares        string
	PurchasePrice string
	PurchaseDate  time.Time
}

// HoldingUpdate lists the fields of a holding that may change after creation.
// Nil fields are left untouched; identity and ownership are never updatable.
type HoldingUpdate struct {
	Shares        *string
	PurchasePrice *string
	PurchaseDate  *time.Time
	CurrentPrice  *string
	CompanyName   *string
	Sector        *string
}

// Apply merges the update into h and stamps LastUpdated.
func (u HoldingUpdate) Apply(h *Holding, now time.Time) {
	if u.Shares != nil {
		h.Shares = *u.Shares
	}
	if u.PurchasePrice != nil {
		h.PurchasePrice = *u.PurchasePrice
	}
	if u.PurchaseDate != nil {
		h.PurchaseDate = *u.PurchaseDate
	}
	if u.CurrentPrice != nil {
		h.CurrentPrice = ptr(*u.CurrentPrice)
	}
	if u.CompanyName != nil {
		h.CompanyName = ptr(*u.CompanyName)
	}
	if u.Sector != nil {
		h.Sector = ptr(*u.Sector)
	}
	h.LastUpdated = now
}

// Columns returns the column/value map for an SQL UPDATE, last_updated included.
func (u HoldingUpdate) Columns(now time.Time) map[string]interface{} {
	cols := map[string]interface{}{"last_updated": now}
	if u.Shares != nil {
		cols["shares"] = *u.Shares
	}
	if u.PurchasePrice != nil {
		cols["purchase_price"] = *u.PurchasePrice
	}
	if u.PurchaseDate != nil {
		cols["purchase_date"] = *u.PurchaseDate
	}
	if u.CurrentPrice != nil {
		cols["current_price"] = *u.CurrentPrice
	}
	if u.CompanyName != nil {
		cols["company_name"] = *u.CompanyName
	}
	if u.Sector != nil {
		cols["sector"] = *u.Sector
	}
	return cols
}

func ptr[T any](v T) *T {
	return &v
}
