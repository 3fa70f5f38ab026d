package service

import "time"

type sampleHolding struct {
	Symbol        string
	CompanyName   string
	Shares        string
	PurchasePrice string
	Sector        string
	CurrentPrice  string
}

// purchase dates of seeded holdings fall within this window before now
const sampleMaxAge = 90 * 24 * time.Hour

var sampleHoldings = []sampleHolding{
	{"AAPL", "Apple Inc.", "10.0000", "150.00", "Technology", "175.43"},
	{"MSFT", "Microsoft Corporation", "5.0000", "300.00", "Technology", "385.20"},
	{"GOOGL", "Alphabet Inc.", "2.0000", "2500.00", "Technology", "2680.30"},
	{"JPM", "JPMorgan Chase & Co.", "8.0000", "140.00", "Finance", "155.75"},
	{"JNJ", "Johnson & Johnson", "12.0000", "160.00", "Healthcare", "172.50"},
	{"XOM", "Exxon Mobil Corporation", "15.0000", "90.00", "Energy", "105.30"},
	{"PG", "Procter & Gamble Co.", "10.0000", "140.00", "Consumer Staples", "155.10"},
	{"HD", "Home Depot Inc.", "6.0000", "320.00", "Consumer Discretionary", "345.60"},
	{"UNH", "UnitedHealth Group Inc.", "7.0000", "400.00", "Healthcare", "445.80"},
	{"VZ", "Verizon Communications Inc.", "20.0000", "35.00", "Communication Services", "38.50"},
	{"BA", "Boeing Co.", "4.0000", "210.00", "Industrials", "225.70"},
	{"DUK", "Duke Energy Corp.", "10.0000", "95.00", "Utilities", "102.40"},
	{"PLD", "Prologis Inc.", "5.0000", "120.00", "Real Estate", "130.20"},
	{"LIN", "Linde plc", "3.0000", "350.00", "Materials", "370.10"},
	{"NVDA", "NVIDIA Corporation", "2.0000", "700.00", "Technology", "820.50"},
	{"KO", "Coca-Cola Co.", "18.0000", "60.00", "Consumer Staples", "65.30"},
	{"DIS", "Walt Disney Co.", "7.0000", "100.00", "Communication Services", "110.40"},
	{"CAT", "Caterpillar Inc.", "5.0000", "220.00", "Industrials", "235.90"},
	{"SO", "Southern Co.", "12.0000", "70.00", "Utilities", "75.80"},
	{"SPG", "Simon Property Group Inc.", "6.0000", "110.00", "Real Estate", "120.60"},
}
