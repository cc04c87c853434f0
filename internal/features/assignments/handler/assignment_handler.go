package handler

import (
	"errors"

	"lifecycle-tracker/internal/core/httpclient"
	"lifecycle-tracker/internal/core/session"
	"lifecycle-tracker/internal/features/assignments/domain"
	"lifecycle-tracker/internal/features/assignments/ports"
	"lifecycle-tracker/internal/features/assignments/service"
	lifecycle "lifecycle-tracker/internal/features/lifecycle/domain"

	"github.com/gofiber/fiber/v2"
)

// AssignmentHandler handles HTTP requests for the delivery agent console.
type AssignmentHandler struct {
	assignmentService *service.AssignmentService
}

// NewAssignmentHandler creates a new AssignmentHandler.
func NewAssignmentHandler(assignmentService *service.AssignmentService) *AssignmentHandler {
	return &AssignmentHandler{
		assignmentService: assignmentService,
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

// AssignmentResponse is the agent's view of one delivery task.
type AssignmentResponse struct {
	Assignment *domain.Assignment    `json:"assignment"`
	Steps      []domain.Step         `json:"steps"`
	Failed     bool                  `json:"failed"`
	Actions    []lifecycle.ActionKey `json:"available_actions"`
}

// NearbyRequest is the optional position payload for the nearby signal.
type NearbyRequest struct {
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
}

// VerifyOTPRequest carries the customer's delivery code.
type VerifyOTPRequest struct {
	OTP string `json:"otp"`
}

// FailRequest carries the optional failure reason.
type FailRequest struct {
	Notes string `json:"notes"`
}

// ListAssignments godoc
// @Summary List the agent's delivery assignments
// @Description Retrieves the agent's assignments, optionally filtered by status
// @Tags assignments
// @Produce json
// @Param status query string false "Assignment status filter"
// @Success 200 {array} domain.Assignment
// @Failure 401 {object} ErrorResponse
// @Router /assignments [get]
func (h *AssignmentHandler) ListAssignments(c *fiber.Ctx) error {
	assignments, err := h.assignmentService.List(c.UserContext(), c.Query("status"))
	if err != nil {
		return h.errorResponse(c, err)
	}
	return c.JSON(assignments)
}

// GetAssignment godoc
// @Summary Get one delivery assignment
// @Description Retrieves the assignment with its stepper and available actions
// @Tags assignments
// @Produce json
// @Param id path int true "Assignment ID"
// @Success 200 {object} AssignmentResponse
// @Failure 404 {object} ErrorResponse
// @Router /assignments/{id} [get]
func (h *AssignmentHandler) GetAssignment(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Message: "assignment id must be numeric",
			RayID:   rayID(c),
		})
	}

	assignment, err := h.assignmentService.Get(c.UserContext(), id)
	if err != nil {
		return h.errorResponse(c, err)
	}

	return c.JSON(h.buildResponse(assignment))
}

// AcceptAssignment godoc
// @Summary Accept an assigned delivery task
// @Tags assignments
// @Produce json
// @Param id path int true "Assignment ID"
// @Success 200 {object} AssignmentResponse
// @Failure 409 {object} ErrorResponse
// @Router /assignments/{id}/accept [post]
func (h *AssignmentHandler) AcceptAssignment(c *fiber.Ctx) error {
	return h.runTransition(c, func(id int) (*domain.Assignment, error) {
		return h.assignmentService.Accept(c.UserContext(), id)
	})
}

// MarkPickedUp godoc
// @Summary Mark the package as picked up
// @Tags assignments
// @Produce json
// @Param id path int true "Assignment ID"
// @Success 200 {object} AssignmentResponse
// @Failure 409 {object} ErrorResponse
// @Router /assignments/{id}/pickup [post]
func (h *AssignmentHandler) MarkPickedUp(c *fiber.Ctx) error {
	return h.runTransition(c, func(id int) (*domain.Assignment, error) {
		return h.assignmentService.MarkPickedUp(c.UserContext(), id)
	})
}

// MarkInTransit godoc
// @Summary Mark the delivery as in transit
// @Tags assignments
// @Produce json
// @Param id path int true "Assignment ID"
// @Success 200 {object} AssignmentResponse
// @Failure 409 {object} ErrorResponse
// @Router /assignments/{id}/transit [post]
func (h *AssignmentHandler) MarkInTransit(c *fiber.Ctx) error {
	return h.runTransition(c, func(id int) (*domain.Assignment, error) {
		return h.assignmentService.MarkInTransit(c.UserContext(), id)
	})
}

// SignalNearby godoc
// @Summary Signal that the agent is near the destination
// @Description Triggers delivery code generation and customer notification
// @Tags assignments
// @Accept json
// @Produce json
// @Param id path int true "Assignment ID"
// @Param position body NearbyRequest false "Agent position"
// @Success 200 {object} AssignmentResponse
// @Failure 409 {object} ErrorResponse
// @Router /assignments/{id}/nearby [post]
func (h *AssignmentHandler) SignalNearby(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Message: "assignment id must be numeric",
			RayID:   rayID(c),
		})
	}

	var coords *ports.Coordinates
	if len(c.Body()) > 0 {
		var req NearbyRequest
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
				Message: "invalid position payload",
				RayID:   rayID(c),
			})
		}
		if req.Latitude != nil && req.Longitude != nil {
			coords = &ports.Coordinates{Latitude: *req.Latitude, Longitude: *req.Longitude}
		}
	}

	assignment, result, err := h.assignmentService.SignalNearby(c.UserContext(), id, coords)
	if err != nil {
		return h.errorResponse(c, err)
	}

	response := h.buildResponse(assignment)
	return c.JSON(fiber.Map{
		"assignment":        response.Assignment,
		"steps":             response.Steps,
		"failed":            response.Failed,
		"available_actions": response.Actions,
		"message":           result.Message,
		"otp_sent":          result.OTPEmailSent,
	})
}

// VerifyOTP godoc
// @Summary Verify the customer's delivery code
// @Description Completes the delivery when the server accepts the code
// @Tags assignments
// @Accept json
// @Produce json
// @Param id path int true "Assignment ID"
// @Param code body VerifyOTPRequest true "Delivery code"
// @Success 200 {object} AssignmentResponse
// @Failure 400 {object} ErrorResponse
// @Router /assignments/{id}/verify-otp [post]
func (h *AssignmentHandler) VerifyOTP(c *fiber.Ctx) error {
	var req VerifyOTPRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Message: "invalid delivery code payload",
			RayID:   rayID(c),
		})
	}

	return h.runTransition(c, func(id int) (*domain.Assignment, error) {
		return h.assignmentService.VerifyOTP(c.UserContext(), id, req.OTP)
	})
}

// ReportFailed godoc
// @Summary Report the delivery as failed
// @Tags assignments
// @Accept json
// @Produce json
// @Param id path int true "Assignment ID"
// @Param reason body FailRequest false "Failure reason"
// @Success 200 {object} AssignmentResponse
// @Failure 409 {object} ErrorResponse
// @Router /assignments/{id}/fail [post]
func (h *AssignmentHandler) ReportFailed(c *fiber.Ctx) error {
	var req FailRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
				Message: "invalid failure payload",
				RayID:   rayID(c),
			})
		}
	}

	return h.runTransition(c, func(id int) (*domain.Assignment, error) {
		return h.assignmentService.ReportFailed(c.UserContext(), id, req.Notes)
	})
}

func (h *AssignmentHandler) runTransition(c *fiber.Ctx, transition func(id int) (*domain.Assignment, error)) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Message: "assignment id must be numeric",
			RayID:   rayID(c),
		})
	}

	assignment, err := transition(id)
	if err != nil {
		return h.errorResponse(c, err)
	}

	return c.JSON(h.buildResponse(assignment))
}

func (h *AssignmentHandler) buildResponse(assignment *domain.Assignment) AssignmentResponse {
	return AssignmentResponse{
		Assignment: assignment,
		Steps:      domain.BuildSteps(assignment.Status),
		Failed:     domain.IsFailed(assignment.Status),
		Actions:    h.assignmentService.AvailableActions(assignment),
	}
}

func (h *AssignmentHandler) errorResponse(c *fiber.Ctx, err error) error {
	if errors.Is(err, session.ErrExpired) {
		return c.Status(fiber.StatusUnauthorized).JSON(ErrorResponse{
			Message:  "session expired, please log in again",
			RayID:    rayID(c),
			LoginURL: session.LoginRedirect("/delivery"),
		})
	}

	if errors.Is(err, service.ErrAssignmentNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(ErrorResponse{
			Message: "assignment not found",
			RayID:   rayID(c),
		})
	}

	if errors.Is(err, service.ErrActionNotAllowed) {
		return c.Status(fiber.StatusConflict).JSON(ErrorResponse{
			Message: err.Error(),
			RayID:   rayID(c),
		})
	}

	if errors.Is(err, service.ErrInvalidOTP) {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Message: "delivery code must be 6 digits",
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
			Message: "upstream returned an unreadable assignment payload",
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
