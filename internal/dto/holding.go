package dto

import "time"

type CreateHoldingRequest struct {
	Symbol        string    `json:"symbol" validate:"required,min=1,max=10"`
	Shares        string    `json:"shares" validate:"required"`
	PurchasePrice string    `json:"purchasePrice" validate:"required"`
	PurchaseDate  time.Time `json:"purchaseDate" validate:"required"`
}

type UpdateHoldingRequest struct {
	Shares        *string    `json:"shares,omitempty"`
	PurchasePrice *string    `json:"purchasePrice,omitempty"`
	PurchaseDate  *time.Time `json:"purchaseDate,omitempty"`
	CurrentPrice  *string    `json:"currentPrice,omitempty"`
	CompanyName   *string    `json:"companyName,omitempty" validate:"omitempty,max=255"`
	Sector        *string    `json:"sector,omitempty" validate:"omitempty,max=100"`
}
