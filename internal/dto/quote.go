package dto

import "github.com/shopspring/decimal"

// QuoteSource tells whether a value came from the upstream API or from the
// built-in fallback table.
type QuoteSource string

const (
	QuoteSourceLive     QuoteSource = "live"
	QuoteSourceFallback QuoteSource = "fallback"
)

type Quote struct {
	Symbol        string          `json:"symbol"`
	CurrentPrice  decimal.Decimal `json:"currentPrice"`
	ChangePercent decimal.Decimal `json:"changePercent"`
	Source        QuoteSource     `json:"source"`
}

type CompanyInfo struct {
	CompanyName string           `json:"companyName"`
	Sector      string           `json:"sector"`
	MarketCap   *decimal.Decimal `json:"marketCap,omitempty"`
	PERatio     *decimal.Decimal `json:"peRatio,omitempty"`
	Source      QuoteSource      `json:"source"`
}

type SymbolValidation struct {
	Valid        bool             `json:"valid"`
	Symbol       string           `json:"symbol,omitempty"`
	CompanyName  string           `json:"companyName,omitempty"`
	CurrentPrice *decimal.Decimal `json:"currentPrice,omitempty"`
	Sector       string           `json:"sector,omitempty"`
	Message      string           `json:"message,omitempty"`
}

// AlphaVantageGlobalQuoteResponse is the GLOBAL_QUOTE payload. Error Message,
// Note and Information are set instead of Global Quote on failures and
// rate limiting.
type AlphaVantageGlobalQuoteResponse struct {
	GlobalQuote  map[string]string `json:"Global Quote"`
	ErrorMessage string            `json:"Error Message"`
	Note         string            `json:"Note"`
	Information  string            `json:"Information"`
}

type AlphaVantageOverviewResponse struct {
	Symbol               string `json:"Symbol"`
	Name                 string `json:"Name"`
	Sector               string `json:"Sector"`
	MarketCapitalization string `json:"MarketCapitalization"`
	PERatio              string `json:"PERatio"`
	ErrorMessage         string `json:"Error Message"`
	Note                 string `json:"Note"`
	Information          string `json:"Information"`
}

const (
	AlphaVantageFieldSymbol        = "01. symbol"
	AlphaVantageFieldPrice         = "05. price"
	AlphaVantageFieldChangePercent = "10. change percent"
)
