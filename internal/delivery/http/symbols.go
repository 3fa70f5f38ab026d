package http

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

func (h *HttpAPIHandler) SetupSymbols(base *echo.Group) {
	base.GET("/validate-symbol/:symbol", h.validateSymbol)
}

func (h *HttpAPIHandler) validateSymbol(c echo.Context) error {
	result := h.service.QuoteService.ValidateSymbol(c.Request().Context(), c.Param("symbol"))
	if !result.Valid {
		return c.JSON(http.StatusBadRequest, result)
	}
	return c.JSON(http.StatusOK, result)
}
