package service

import (
	"fmt"
	"math"
	"portfolio-dashboard/internal/dto"
	"portfolio-dashboard/internal/model"
	"portfolio-dashboard/pkg/utils"

	"github.com/shopspring/decimal"
)

const (
	// holdings without any known sector are grouped here
	defaultSector = "Technology"

	targetSectorCount          = 3
	sectorWarningPercent       = 60
	strongPerformancePercent   = 15
	gradePlusReturnPercent     = 10
	gradeFailReturnPercent     = -10
	volatilityNormalizePercent = 5
	maxRiskScore               = 10
)

var hundred = decimal.NewFromInt(100)

// calculateHolding derives the per-holding figures. Prices come from the
// snapshot, then the holding's cached price, then the purchase price.
func calculateHolding(h model.HoldingWithStock) (dto.HoldingCalculation, error) {
	shares, err := utils.ParseDecimal(h.Shares)
	if err != nil {
		return dto.HoldingCalculation{}, fmt.Errorf("%w: holding %s shares: %v", dto.ErrDataIntegrity, h.ID, err)
	}
	purchasePrice, err := utils.ParseDecimal(h.PurchasePrice)
	if err != nil {
		return dto.HoldingCalculation{}, fmt.Errorf("%w: holding %s purchase price: %v", dto.ErrDataIntegrity, h.ID, err)
	}

	currentPrice := purchasePrice
	changePercent := decimal.Zero
	sector := defaultSector

	if h.CurrentPrice != nil && *h.CurrentPrice != "" {
		if currentPrice, err = utils.ParseDecimal(*h.CurrentPrice); err != nil {
			return dto.HoldingCalculation{}, fmt.Errorf("%w: holding %s current price: %v", dto.ErrDataIntegrity, h.ID, err)
		}
	}
	if h.Sector != nil && *h.Sector != "" {
		sector = *h.Sector
	}

	if s := h.StockData; s != nil {
		if currentPrice, err = utils.ParseDecimal(s.CurrentPrice); err != nil {
			return dto.HoldingCalculation{}, fmt.Errorf("%w: %s snapshot price: %v", dto.ErrDataIntegrity, s.Symbol, err)
		}
		if s.ChangePercent != nil && *s.ChangePercent != "" {
			if changePercent, err = utils.ParseDecimal(*s.ChangePercent); err != nil {
				return dto.HoldingCalculation{}, fmt.Errorf("%w: %s snapshot change percent: %v", dto.ErrDataIntegrity, s.Symbol, err)
			}
		}
		if s.Sector != nil && *s.Sector != "" {
			sector = *s.Sector
		}
	}

	marketValue := shares.Mul(currentPrice)
	costBasis := shares.Mul(purchasePrice)
	gainLoss := marketValue.Sub(costBasis)
	gainLossPercent := decimal.Zero
	if costBasis.IsPositive() {
		gainLossPercent = gainLoss.Div(costBasis).Mul(hundred)
	}

	return dto.HoldingCalculation{
		HoldingID:        h.ID,
		Symbol:           h.Symbol,
		Shares:           shares,
		PurchasePrice:    purchasePrice,
		CurrentPrice:     currentPrice,
		CostBasis:        costBasis,
		MarketValue:      marketValue,
		GainLoss:         gainLoss,
		GainLossPercent:  gainLossPercent,
		DayChange:        marketValue.Mul(changePercent).Div(hundred),
		DayChangePercent: changePercent,
		Sector:           sector,
	}, nil
}

func emptyAnalysis() *dto.PortfolioAnalysis {
	return &dto.PortfolioAnalysis{
		HealthScore:      dto.HealthScoreNotAvailable,
		RiskLevel:        dto.RiskLevelLow,
		RiskScore:        0,
		SectorAllocation: []dto.SectorAllocation{},
		Holdings:         []dto.HoldingCalculation{},
		Recommendations: []dto.Recommendation{{
			Type:    dto.RecommendationInfo,
			Title:   "Add Holdings",
			Message: "Start by adding some stocks to your portfolio to see analysis.",
		}},
	}
}

// AnalyzePortfolio computes value, return, sector allocation, risk, health
// grade and recommendations for a portfolio. It only fails when a stored
// decimal cannot be parsed, with an error wrapping dto.ErrDataIntegrity.
func AnalyzePortfolio(p *model.PortfolioWithHoldings) (*dto.PortfolioAnalysis, error) {
	if p == nil || len(p.Holdings) == 0 {
		return emptyAnalysis(), nil
	}

	result := &dto.PortfolioAnalysis{
		Holdings: make([]dto.HoldingCalculation, 0, len(p.Holdings)),
	}

	var sectorOrder []string
	sectorValues := make(map[string]decimal.Decimal)

	for _, h := range p.Holdings {
		calc, err := calculateHolding(h)
		if err != nil {
			return nil, err
		}
		result.Holdings = append(result.Holdings, calc)

		result.TotalValue = result.TotalValue.Add(calc.MarketValue)
		result.TotalCost = result.TotalCost.Add(calc.CostBasis)
		result.DailyChange = result.DailyChange.Add(calc.DayChange)

		if _, ok := sectorValues[calc.Sector]; !ok {
			sectorOrder = append(sectorOrder, calc.Sector)
		}
		sectorValues[calc.Sector] = sectorValues[calc.Sector].Add(calc.MarketValue)
	}

	result.TotalReturn = result.TotalValue.Sub(result.TotalCost)
	if result.TotalCost.IsPositive() {
		result.TotalReturnPercent = result.TotalReturn.Div(result.TotalCost).Mul(hundred)
	}

	// yesterday's value is today's value minus today's change
	previousValue := result.TotalValue.Sub(result.DailyChange)
	if result.TotalValue.IsPositive() && !previousValue.IsZero() {
		result.DailyChangePercent = result.DailyChange.Div(previousValue).Mul(hundred)
	}

	result.SectorAllocation = make([]dto.SectorAllocation, 0, len(sectorOrder))
	maxPercentage := decimal.Zero
	for _, sector := range sectorOrder {
		value := sectorValues[sector]
		percentage := decimal.Zero
		if result.TotalValue.IsPositive() {
			percentage = value.Div(result.TotalValue).Mul(hundred)
		}
		if percentage.GreaterThan(maxPercentage) {
			maxPercentage = percentage
		}
		result.SectorAllocation = append(result.SectorAllocation, dto.SectorAllocation{
			Sector:     sector,
			Percentage: percentage,
			Value:      value,
		})
	}

	diversification := math.Min(float64(len(result.SectorAllocation))/targetSectorCount, 1)
	concentration := maxPercentage.InexactFloat64() / 100
	volatility := math.Abs(result.DailyChangePercent.InexactFloat64()) / volatilityNormalizePercent

	riskScore := (concentration + volatility - diversification) * 10
	result.RiskLevel = riskLevel(riskScore)
	result.RiskScore = math.Max(0, math.Min(maxRiskScore, riskScore))
	result.HealthScore = healthScore(diversification, concentration, result.TotalReturnPercent)
	result.Recommendations = recommendations(result)

	return result, nil
}

func riskLevel(score float64) dto.RiskLevel {
	switch {
	case score < 3:
		return dto.RiskLevelLow
	case score < 7:
		return dto.RiskLevelMedium
	default:
		return dto.RiskLevelHigh
	}
}

// healthScore grades diversification first, then adjusts for return. A loss
// beyond -10% always grades D.
func healthScore(diversification, concentration float64, totalReturnPercent decimal.Decimal) string {
	grade := "A"
	if diversification < 0.7 || concentration > 0.7 {
		grade = "B"
	}
	if diversification < 0.5 || concentration > 0.8 {
		grade = "C"
	}

	if totalReturnPercent.GreaterThan(decimal.NewFromInt(gradePlusReturnPercent)) {
		grade += "+"
	} else if totalReturnPercent.LessThan(decimal.NewFromInt(gradeFailReturnPercent)) {
		grade = "D"
	}
	return grade
}

func recommendations(a *dto.PortfolioAnalysis) []dto.Recommendation {
	recs := make([]dto.Recommendation, 0, 3)

	for _, s := range a.SectorAllocation {
		if s.Percentage.GreaterThan(decimal.NewFromInt(sectorWarningPercent)) {
			recs = append(recs, dto.Recommendation{
				Type:  dto.RecommendationWarning,
				Title: "High Sector Concentration",
				Message: fmt.Sprintf("Your portfolio is %s%% %s stocks. Consider diversifying into other sectors.",
					s.Percentage.StringFixed(1), s.Sector),
			})
			break
		}
	}

	if a.TotalReturnPercent.GreaterThan(decimal.NewFromInt(strongPerformancePercent)) {
		recs = append(recs, dto.Recommendation{
			Type:    dto.RecommendationSuccess,
			Title:   "Strong Performance",
			Message: fmt.Sprintf("Your portfolio is outperforming with %s%% returns.", a.TotalReturnPercent.StringFixed(1)),
		})
	}

	if len(a.SectorAllocation) < targetSectorCount {
		recs = append(recs, dto.Recommendation{
			Type:    dto.RecommendationInfo,
			Title:   "Diversification Opportunity",
			Message: "Consider adding stocks from different sectors to reduce risk.",
		})
	}

	return recs
}
