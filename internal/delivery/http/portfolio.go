package http

import (
	"net/http"
	"portfolio-dashboard/internal/dto"

	"github.com/labstack/echo/v4"
)

func (h *HttpAPIHandler) SetupPortfolio(base *echo.Group) {
	base.GET("/portfolio", h.getPortfolio)
	base.GET("/portfolio/analysis", h.getPortfolioAnalysis)
	base.POST("/refresh-prices", h.refreshPrices)
}

func (h *HttpAPIHandler) getPortfolio(c echo.Context) error {
	portfolio, err := h.service.PortfolioService.GetDemoPortfolio(c.Request().Context())
	if err != nil {
		return h.respondError(c, err, "Failed to fetch portfolio")
	}
	return c.JSON(http.StatusOK, portfolio)
}

func (h *HttpAPIHandler) getPortfolioAnalysis(c echo.Context) error {
	analysis, err := h.service.PortfolioService.AnalyzeDemoPortfolio(c.Request().Context())
	if err != nil {
		return h.respondError(c, err, "Failed to analyze portfolio")
	}
	return c.JSON(http.StatusOK, analysis)
}

func (h *HttpAPIHandler) refreshPrices(c echo.Context) error {
	updated, err := h.service.PortfolioService.RefreshPrices(c.Request().Context())
	if err != nil {
		return h.respondError(c, err, "Failed to refresh prices")
	}
	return c.JSON(http.StatusOK, dto.RefreshPricesResponse{
		Message: "Prices updated successfully",
		Updated: updated,
	})
}
