package handler

import (
	"errors"
	"time"

	"lifecycle-tracker/internal/core/httpclient"
	"lifecycle-tracker/internal/core/session"
	lifecycle "lifecycle-tracker/internal/features/lifecycle/domain"
	"lifecycle-tracker/internal/features/tracking/domain"
	"lifecycle-tracker/internal/features/tracking/service"

	"github.com/gofiber/fiber/v2"
)

// TrackingHandler handles HTTP requests for order tracking operations.
type TrackingHandler struct {
	trackingService *service.TrackingService
}

// NewTrackingHandler creates a new TrackingHandler.
func NewTrackingHandler(trackingService *service.TrackingService) *TrackingHandler {
	return &TrackingHandler{
		trackingService: trackingService,
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

// ProgressResponse is the stage progress summary for an order.
type ProgressResponse struct {
	OrderNumber     string  `json:"order_number"`
	Status          string  `json:"status"`
	Ordinal         int     `json:"ordinal"`
	ProgressPercent float64 `json:"progress_percent"`
	TerminalFailure bool    `json:"terminal_failure"`
	ActiveStage     string  `json:"active_stage"`
	StageDetail     string  `json:"stage_detail"`
}

// TrackingResponse is the full customer tracking view for an order.
type TrackingResponse struct {
	Snapshot *domain.Snapshot      `json:"snapshot"`
	Progress ProgressResponse      `json:"progress"`
	Steps    []lifecycle.StepView  `json:"steps"`
	Banner   lifecycle.Banner      `json:"banner"`
	History  []domain.StatusChange `json:"history"`
}

// WatchResponse reports the state of a background watch.
type WatchResponse struct {
	OrderNumber string    `json:"order_number"`
	Watching    bool      `json:"watching"`
	Refreshing  bool      `json:"refreshing,omitempty"`
	RefreshedAt time.Time `json:"refreshed_at,omitempty"`
}

// GetTracking godoc
// @Summary Get the tracking view for an order
// @Description Retrieves the current snapshot with stage progress, stepper and banner
// @Tags tracking
// @Accept json
// @Produce json
// @Param orderNumber path string true "Order Number"
// @Success 200 {object} TrackingResponse
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /tracking/{orderNumber} [get]
func (h *TrackingHandler) GetTracking(c *fiber.Ctx) error {
	orderNumber := c.Params("orderNumber")
	if orderNumber == "" {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Message: "order number is required",
			RayID:   rayID(c),
		})
	}

	snapshot, err := h.trackingService.GetTracking(c.UserContext(), orderNumber)
	if err != nil {
		return h.errorResponse(c, orderNumber, err)
	}

	return c.JSON(buildTrackingResponse(snapshot))
}

// GetProgress godoc
// @Summary Get the stage progress for an order
// @Description Retrieves the progress percentage and active stage for an order
// @Tags tracking
// @Accept json
// @Produce json
// @Param orderNumber path string true "Order Number"
// @Success 200 {object} ProgressResponse
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /tracking/{orderNumber}/progress [get]
func (h *TrackingHandler) GetProgress(c *fiber.Ctx) error {
	orderNumber := c.Params("orderNumber")
	if orderNumber == "" {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Message: "order number is required",
			RayID:   rayID(c),
		})
	}

	snapshot, err := h.trackingService.GetTracking(c.UserContext(), orderNumber)
	if err != nil {
		return h.errorResponse(c, orderNumber, err)
	}

	return c.JSON(buildProgressResponse(snapshot))
}

// StartWatch godoc
// @Summary Start watching an order
// @Description Starts a background poller that refreshes the order snapshot on an interval
// @Tags tracking
// @Accept json
// @Produce json
// @Param orderNumber path string true "Order Number"
// @Success 201 {object} WatchResponse
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /tracking/{orderNumber}/watch [post]
func (h *TrackingHandler) StartWatch(c *fiber.Ctx) error {
	orderNumber := c.Params("orderNumber")
	if orderNumber == "" {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Message: "order number is required",
			RayID:   rayID(c),
		})
	}

	poller, err := h.trackingService.Watch(c.UserContext(), orderNumber)
	if err != nil {
		return h.errorResponse(c, orderNumber, err)
	}

	_, refreshedAt := poller.Snapshot()
	return c.Status(fiber.StatusCreated).JSON(WatchResponse{
		OrderNumber: orderNumber,
		Watching:    true,
		RefreshedAt: refreshedAt,
	})
}

// StopWatch godoc
// @Summary Stop watching an order
// @Description Stops the background poller for an order
// @Tags tracking
// @Produce json
// @Param orderNumber path string true "Order Number"
// @Success 200 {object} WatchResponse
// @Failure 404 {object} ErrorResponse
// @Router /tracking/{orderNumber}/watch [delete]
func (h *TrackingHandler) StopWatch(c *fiber.Ctx) error {
	orderNumber := c.Params("orderNumber")

	if !h.trackingService.Unwatch(orderNumber) {
		return c.Status(fiber.StatusNotFound).JSON(ErrorResponse{
			Message: "order is not being watched",
			RayID:   rayID(c),
		})
	}

	return c.JSON(WatchResponse{
		OrderNumber: orderNumber,
		Watching:    false,
	})
}

// TriggerRefresh godoc
// @Summary Trigger a refresh of a watched order
// @Description Requests an immediate snapshot refresh; returns 409 while one is already running
// @Tags tracking
// @Produce json
// @Param orderNumber path string true "Order Number"
// @Success 202 {object} WatchResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /tracking/{orderNumber}/refresh [post]
func (h *TrackingHandler) TriggerRefresh(c *fiber.Ctx) error {
	orderNumber := c.Params("orderNumber")

	poller := h.trackingService.Watcher(orderNumber)
	if poller == nil {
		return c.Status(fiber.StatusNotFound).JSON(ErrorResponse{
			Message: "order is not being watched",
			RayID:   rayID(c),
		})
	}

	if !poller.Refresh() {
		return c.Status(fiber.StatusConflict).JSON(ErrorResponse{
			Message: "a refresh is already in progress",
			RayID:   rayID(c),
		})
	}

	_, refreshedAt := poller.Snapshot()
	return c.Status(fiber.StatusAccepted).JSON(WatchResponse{
		OrderNumber: orderNumber,
		Watching:    true,
		Refreshing:  true,
		RefreshedAt: refreshedAt,
	})
}

func (h *TrackingHandler) errorResponse(c *fiber.Ctx, orderNumber string, err error) error {
	if errors.Is(err, session.ErrExpired) {
		return c.Status(fiber.StatusUnauthorized).JSON(ErrorResponse{
			Message:  "session expired, please log in again",
			RayID:    rayID(c),
			LoginURL: session.LoginRedirect("/track-order/" + orderNumber),
		})
	}

	if errors.Is(err, service.ErrTrackingNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(ErrorResponse{
			Message: "order tracking not found",
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
			Message: "upstream returned an unreadable tracking payload",
			RayID:   rayID(c),
		})
	}

	return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{
		Message: err.Error(),
		RayID:   rayID(c),
	})
}

func buildTrackingResponse(snapshot *domain.Snapshot) TrackingResponse {
	return TrackingResponse{
		Snapshot: snapshot,
		Progress: buildProgressResponse(snapshot),
		Steps:    lifecycle.BuildSteps(snapshot.Status),
		Banner:   lifecycle.BuildBanner(snapshot.Status),
		History:  snapshot.HistoryNewestFirst(),
	}
}

func buildProgressResponse(snapshot *domain.Snapshot) ProgressResponse {
	progress := lifecycle.ComputeProgress(snapshot.Status)
	return ProgressResponse{
		OrderNumber:     snapshot.OrderNumber,
		Status:          snapshot.Status,
		Ordinal:         progress.Ordinal,
		ProgressPercent: progress.ProgressPercent,
		TerminalFailure: progress.TerminalFailure,
		ActiveStage:     progress.ActiveStageLabel,
		StageDetail:     progress.ActiveStageDescription,
	}
}

func rayID(c *fiber.Ctx) string {
	id, _ := c.Locals("requestid").(string)
	return id
}
