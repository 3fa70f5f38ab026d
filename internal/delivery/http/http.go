package http

import (
	"errors"
	"net/http"
	"portfolio-dashboard/internal/dto"
	"portfolio-dashboard/internal/service"
	"portfolio-dashboard/pkg/logger"
	"reflect"
	"strings"

	goValidator "github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

type HttpAPIHandler struct {
	echo      *echo.Echo
	validator *goValidator.Validate
	service   *service.Service
	log       *logger.Logger
}

func NewHttpAPIHandler(echo *echo.Echo, validator *goValidator.Validate, service *service.Service, log *logger.Logger) *HttpAPIHandler {
	validator.RegisterTagNameFunc(jsonFieldName)
	return &HttpAPIHandler{
		echo:      echo,
		validator: validator,
		service:   service,
		log:       log,
	}
}

func (h *HttpAPIHandler) SetupRoutes() {
	h.echo.GET("/healthz", h.healthz)

	base := h.echo.Group("/api")
	h.SetupPortfolio(base)
	h.SetupHoldings(base)
	h.SetupSymbols(base)
}

func (h *HttpAPIHandler) healthz(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

// jsonFieldName makes validator report fields by their JSON names.
func jsonFieldName(fld reflect.StructField) string {
	name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
	if name == "-" {
		return ""
	}
	if name == "" {
		return fld.Name
	}
	return name
}

// validate runs the struct tags of req and returns a *dto.ValidationError
// listing every failing field.
func (h *HttpAPIHandler) validate(req interface{}) error {
	err := h.validator.Struct(req)
	if err == nil {
		return nil
	}

	var validationErrs goValidator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return err
	}

	fields := make(map[string]string, len(validationErrs))
	for _, fe := range validationErrs {
		switch fe.Tag() {
		case "required":
			fields[fe.Field()] = "is required"
		case "min":
			fields[fe.Field()] = "must be at least " + fe.Param() + " characters"
		case "max":
			fields[fe.Field()] = "must be at most " + fe.Param() + " characters"
		default:
			fields[fe.Field()] = "failed on " + fe.Tag()
		}
	}
	return dto.NewValidationError(fields)
}

// respondError maps service errors onto status codes. Anything that is not a
// validation or not-found error is logged and answered with message.
func (h *HttpAPIHandler) respondError(c echo.Context, err error, message string) error {
	var validationErr *dto.ValidationError
	switch {
	case errors.As(err, &validationErr):
		return c.JSON(http.StatusBadRequest, dto.NewValidationErrorResponse(validationErr.Fields))
	case errors.Is(err, dto.ErrNotFound):
		return c.JSON(http.StatusNotFound, dto.NewErrorResponse(err.Error()))
	}

	h.log.ErrorContext(c.Request().Context(), message, logger.ErrorField(err))
	return c.JSON(http.StatusInternalServerError, dto.NewErrorResponse(message))
}

func bindError(c echo.Context) error {
	return c.JSON(http.StatusBadRequest, dto.NewValidationErrorResponse(map[string]string{
		"body": "invalid request body",
	}))
}
