package dto

import "github.com/shopspring/decimal"

// decimals go over the wire as JSON numbers
func init() {
	decimal.MarshalJSONWithoutQuotes = true
}

type RiskLevel string

const (
	RiskLevelLow    RiskLevel = "Low"
	RiskLevelMedium RiskLevel = "Medium"
	RiskLevelHigh   RiskLevel = "High"
)

type RecommendationType string

const (
	RecommendationWarning RecommendationType = "warning"
	RecommendationSuccess RecommendationType = "success"
	RecommendationInfo    RecommendationType = "info"
)

const HealthScoreNotAvailable = "N/A"

type SectorAllocation struct {
	Sector     string          `json:"sector"`
	Percentage decimal.Decimal `json:"percentage"`
	Value      decimal.Decimal `json:"value"`
}

type Recommendation struct {
	Type    RecommendationType `json:"type"`
	Title   string             `json:"title"`
	Message string             `json:"message"`
}

type HoldingCalculation struct {
	HoldingID        string          `json:"holdingId"`
	Symbol           string          `json:"symbol"`
	Shares           decimal.Decimal `json:"shares"`
	PurchasePrice    decimal.Decimal `json:"purchasePrice"`
	CurrentPrice     decimal.Decimal `json:"currentPrice"`
	CostBasis        decimal.Decimal `json:"costBasis"`
	MarketValue      decimal.Decimal `json:"marketValue"`
	GainLoss         decimal.Decimal `json:"gainLoss"`
	GainLossPercent  decimal.Decimal `json:"gainLossPercent"`
	DayChange        decimal.Decimal `json:"dayChange"`
	DayChangePercent decimal.Decimal `json:"dayChangePercent"`
	Sector           string          `json:"sector"`
}

type PortfolioAnalysis struct {
	TotalValue         decimal.Decimal      `json:"totalValue"`
	TotalCost          decimal.Decimal      `json:"totalCost"`
	TotalReturn        decimal.Decimal      `json:"totalReturn"`
	TotalReturnPercent decimal.Decimal      `json:"totalReturnPercent"`
	DailyChange        decimal.Decimal      `json:"dailyChange"`
	DailyChangePercent decimal.Decimal      `json:"dailyChangePercent"`
	HealthScore        string               `json:"healthScore"`
	RiskLevel          RiskLevel            `json:"riskLevel"`
	RiskScore          float64              `json:"riskScore"`
	SectorAllocation   []SectorAllocation   `json:"sectorAllocation"`
	Recommendations    []Recommendation     `json:"recommendations"`
	Holdings           []HoldingCalculation `json:"holdings"`
}
