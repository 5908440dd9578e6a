package handler

import (
	"errors"
	"strings"

	"smart-dispatch/internal/core/logger"
	"smart-dispatch/internal/features/delivery/domain"
	"smart-dispatch/internal/features/delivery/ports"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// TenantHeader carries the tenant the request acts for.
const TenantHeader = "X-Tenant-ID"

// DeliveryHandler handles HTTP requests for smart dispatch.
type DeliveryHandler struct {
	service ports.SmartDispatchService
}

// NewDeliveryHandler creates a new DeliveryHandler.
func NewDeliveryHandler(service ports.SmartDispatchService) *DeliveryHandler {
	return &DeliveryHandler{
		service: service,
	}
}

// ErrorResponse represents an error response with Ray ID.
type ErrorResponse struct {
	// Error is the error description.
	Error string `json:"error"`
	// Details holds provider failure causes: a string, or a primary/fallback pair.
	Details any `json:"details,omitempty"`
	// RayID is the unique request identifier for tracing.
	RayID string `json:"ray_id,omitempty"`
}

// CreateSmartDelivery godoc
// @Summary Dispatch an order to the best delivery provider
// @Description Selects a provider by strategy (or uses the requested one), creates the delivery and falls back to the next best provider once if creation fails
// @Tags delivery
// @Accept json
// @Produce json
// @Param X-Tenant-ID header string true "Tenant ID"
// @Param request body domain.CreateDeliveryRequest true "Delivery request"
// @Success 200 {object} domain.CreateDeliveryResult
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /api/delivery/smart/create [post]
func (h *DeliveryHandler) CreateSmartDelivery(c *fiber.Ctx) error {
	tenantID := strings.TrimSpace(c.Get(TenantHeader))
	if tenantID == "" {
		return h.fail(c, fiber.StatusBadRequest, "X-Tenant-ID header is required", nil)
	}

	var req domain.CreateDeliveryRequest
	if err := c.BodyParser(&req); err != nil {
		return h.fail(c, fiber.StatusBadRequest, "invalid request body", err.Error())
	}

	result, err := h.service.CreateSmartDelivery(c.UserContext(), tenantID, req)
	if err != nil {
		return h.respondError(c, err)
	}

	return c.JSON(result)
}

// GetSmartQuotes godoc
// @Summary Compare delivery quotes
// @Description Queries every enabled provider concurrently and returns the available quotes ranked by price, with the cheapest and fastest picks
// @Tags delivery
// @Accept json
// @Produce json
// @Param X-Tenant-ID header string true "Tenant ID"
// @Param request body domain.QuoteRequest true "Quote request"
// @Success 200 {object} domain.SmartQuoteResult
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /api/delivery/smart/quotes [post]
func (h *DeliveryHandler) GetSmartQuotes(c *fiber.Ctx) error {
	tenantID := strings.TrimSpace(c.Get(TenantHeader))
	if tenantID == "" {
		return h.fail(c, fiber.StatusBadRequest, "X-Tenant-ID header is required", nil)
	}

	var req domain.QuoteRequest
	if err := c.BodyParser(&req); err != nil {
		return h.fail(c, fiber.StatusBadRequest, "invalid request body", err.Error())
	}

	result, err := h.service.GetSmartQuotes(c.UserContext(), tenantID, req)
	if err != nil {
		return h.respondError(c, err)
	}

	return c.JSON(result)
}

// respondError maps service errors to status codes.
func (h *DeliveryHandler) respondError(c *fiber.Ctx, err error) error {
	var dispatchErr *domain.DispatchError
	if errors.As(err, &dispatchErr) {
		return h.fail(c, fiber.StatusInternalServerError, dispatchErr.Error(), dispatchErr.Details())
	}

	switch {
	case errors.Is(err, domain.ErrOrderUpdateFailed):
		logger.Get().Error("Delivery created but order update failed",
			zap.String("ray_id", rayID(c)),
			zap.Error(err),
		)
		return h.fail(c, fiber.StatusInternalServerError, err.Error(), nil)
	case errors.Is(err, domain.ErrInvalidRequest):
		return h.fail(c, fiber.StatusBadRequest, strings.TrimPrefix(err.Error(), domain.ErrInvalidRequest.Error()+": "), nil)
	case errors.Is(err, domain.ErrNoProvidersAvailable), errors.Is(err, domain.ErrQuoteExpired):
		return h.fail(c, fiber.StatusBadRequest, err.Error(), nil)
	case errors.Is(err, domain.ErrOrderNotFound), errors.Is(err, domain.ErrTenantNotFound):
		return h.fail(c, fiber.StatusNotFound, err.Error(), nil)
	case errors.Is(err, domain.ErrDispatchInProgress), errors.Is(err, domain.ErrAlreadyDispatched):
		return h.fail(c, fiber.StatusConflict, err.Error(), nil)
	}

	logger.Get().Error("Smart dispatch request failed",
		zap.String("ray_id", rayID(c)),
		zap.Error(err),
	)
	return h.fail(c, fiber.StatusInternalServerError, err.Error(), nil)
}

func (h *DeliveryHandler) fail(c *fiber.Ctx, status int, message string, details any) error {
	return c.Status(status).JSON(ErrorResponse{
		Error:   message,
		Details: details,
		RayID:   rayID(c),
	})
}

func rayID(c *fiber.Ctx) string {
	id, _ := c.Locals("requestid").(string)
	return id
}
