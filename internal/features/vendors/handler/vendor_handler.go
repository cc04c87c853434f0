package handler

import (
	"errors"

	"lifecycle-tracker/internal/core/httpclient"
	"lifecycle-tracker/internal/core/session"
	lifecycle "lifecycle-tracker/internal/features/lifecycle/domain"
	"lifecycle-tracker/internal/features/vendors/domain"
	"lifecycle-tracker/internal/features/vendors/service"

	"github.com/gofiber/fiber/v2"
)

// VendorHandler handles HTTP requests for the vendor order dashboard.
type VendorHandler struct {
	vendorService *service.VendorService
}

// NewVendorHandler creates a new VendorHandler.
func NewVendorHandler(vendorService *service.VendorService) *VendorHandler {
	return &VendorHandler{
		vendorService: vendorService,
	}
}

// ErrorResponse represents an error response with Ray ID.
type ErrorResponse struct {
	// Message is the error description.
	Message string `json:"message"`
	// RayID is the unique request identifier for tracing.
	RayID string `json:"ray_id,omitempty"`
	// LoginURL is set when the session expired and the client must re-authenticate.
	LoginURL string `json:"login_url,omitempty"`
}

// OrderItemView is one vendor order line with its offered actions.
type OrderItemView struct {
	domain.OrderItem
	// AvailableActions is what the vendor may do with the parent order now.
	AvailableActions []lifecycle.ActionKey `json:"available_actions"`
}

// ActionRequest is the lifecycle transition payload.
type ActionRequest struct {
	Action string `json:"action"`
	Notes  string `json:"notes"`
}

// ListOrders godoc
// @Summary List the vendor's order items
// @Description Retrieves the vendor's order lines enriched with parent order status and offered actions
// @Tags vendor
// @Produce json
// @Param status query string false "Parent order status filter"
// @Success 200 {array} OrderItemView
// @Failure 401 {object} ErrorResponse
// @Router /vendor/orders [get]
func (h *VendorHandler) ListOrders(c *fiber.Ctx) error {
	items, err := h.vendorService.ListOrders(c.UserContext(), c.Query("status"))
	if err != nil {
		return h.errorResponse(c, err)
	}

	views := make([]OrderItemView, 0, len(items))
	for _, item := range items {
		views = append(views, OrderItemView{
			OrderItem:        item,
			AvailableActions: h.vendorService.AvailableActions(item.OrderStatus),
		})
	}
	return c.JSON(views)
}

// SubmitAction godoc
// @Summary Apply a lifecycle action to an order
// @Description Approves, rejects or packs an order; rejections require notes
// @Tags vendor
// @Accept json
// @Produce json
// @Param id path int true "Order ID"
// @Param action body ActionRequest true "Lifecycle action"
// @Success 200 {object} ports.ActionResult
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /vendor/orders/{id}/action [post]
func (h *VendorHandler) SubmitAction(c *fiber.Ctx) error {
	orderPK, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Message: "order id must be numeric",
			RayID:   rayID(c),
		})
	}

	var req ActionRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Message: "invalid action payload",
			RayID:   rayID(c),
		})
	}

	result, err := h.vendorService.SubmitAction(c.UserContext(), orderPK, req.Action, req.Notes)
	if err != nil {
		return h.errorResponse(c, err)
	}

	return c.JSON(result)
}

func (h *VendorHandler) errorResponse(c *fiber.Ctx, err error) error {
	if errors.Is(err, session.ErrExpired) {
		return c.Status(fiber.StatusUnauthorized).JSON(ErrorResponse{
			Message:  "session expired, please log in again",
			RayID:    rayID(c),
			LoginURL: session.LoginRedirect("/vendor/orders"),
		})
	}

	if errors.Is(err, service.ErrOrderNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(ErrorResponse{
			Message: "order not found",
			RayID:   rayID(c),
		})
	}

	if errors.Is(err, service.ErrUnknownAction) || errors.Is(err, service.ErrRejectReasonRequired) {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Message: err.Error(),
			RayID:   rayID(c),
		})
	}

	var apiErr *httpclient.APIError
	if errors.As(err, &apiErr) {
		return c.Status(apiErr.StatusCode).JSON(ErrorResponse{
			Message: apiErr.Message,
			RayID:   rayID(c),
		})
	}

	var decodeErr *domain.DecodeError
	if errors.As(err, &decodeErr) {
		return c.Status(fiber.StatusBadGateway).JSON(ErrorResponse{
			Message: "upstream returned an unreadable vendor payload",
			RayID:   rayID(c),
		})
	}

	return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{
		Message: err.Error(),
		RayID:   rayID(c),
	})
}

func rayID(c *fiber.Ctx) string {
	id, _ := c.Locals("requestid").(string)
	return id
}
