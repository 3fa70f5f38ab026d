package http

import (
	"net/http"
	"portfolio-dashboard/internal/dto"

	"github.com/labstack/echo/v4"
)

func (h *HttpAPIHandler) SetupHoldings(base *echo.Group) {
	holdings := base.Group("/holdings")
	holdings.POST("", h.createHolding)
	holdings.PUT("/:id", h.updateHolding)
	holdings.DELETE("/:id", h.deleteHolding)
}

func (h *HttpAPIHandler) createHolding(c echo.Context) error {
	req := new(dto.CreateHoldingRequest)
	if err := c.Bind(req); err != nil {
		return bindError(c)
	}
	if err := h.validate(req); err != nil {
		return h.respondError(c, err, "Failed to create holding")
	}

	holding, err := h.service.PortfolioService.AddHolding(c.Request().Context(), *req)
	if err != nil {
		return h.respondError(c, err, "Failed to create holding")
	}
	return c.JSON(http.StatusOK, holding)
}

func (h *HttpAPIHandler) updateHolding(c echo.Context) error {
	req := new(dto.UpdateHoldingRequest)
	if err := c.Bind(req); err != nil {
		return bindError(c)
	}
	if err := h.validate(req); err != nil {
		return h.respondError(c, err, "Failed to update holding")
	}

	holding, err := h.service.PortfolioService.UpdateHolding(c.Request().Context(), c.Param("id"), *req)
	if err != nil {
		return h.respondError(c, err, "Failed to update holding")
	}
	return c.JSON(http.StatusOK, holding)
}

func (h *HttpAPIHandler) deleteHolding(c echo.Context) error {
	if err := h.service.PortfolioService.DeleteHolding(c.Request().Context(), c.Param("id")); err != nil {
		return h.respondError(c, err, "Failed to delete holding")
	}
	return c.JSON(http.StatusOK, dto.NewMessageResponse("Holding deleted successfully"))
}
