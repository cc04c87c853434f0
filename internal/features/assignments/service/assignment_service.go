package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"lifecycle-tracker/internal/core/httpclient"
	"lifecycle-tracker/internal/core/logger"
	"lifecycle-tracker/internal/features/assignments/domain"
	"lifecycle-tracker/internal/features/assignments/ports"
	lifecycle "lifecycle-tracker/internal/features/lifecycle/domain"

	"go.uber.org/zap"
)

var (
	// ErrAssignmentNotFound is returned when the assignment id is unknown.
	ErrAssignmentNotFound = errors.New("assignment not found")
	// ErrActionNotAllowed is returned when the assignment's current status
	// does not offer the requested action.
	ErrActionNotAllowed = errors.New("action not allowed in current status")
	// ErrInvalidOTP is returned when the code fails shape validation before
	// it is ever sent upstream.
	ErrInvalidOTP = errors.New("invalid delivery code")
)

// defaultFailureNotes is recorded when the agent fails a task without
// giving a reason.
const defaultFailureNotes = "Agent manually failed task"

// AssignmentService drives the delivery agent workflow. Every transition is
// gated locally against the assignment's current status, requested from the
// server, and followed by a refetch so the caller sees server truth.
type AssignmentService struct {
	gateway ports.Gateway
}

// NewAssignmentService creates a new AssignmentService.
func NewAssignmentService(gateway ports.Gateway) *AssignmentService {
	return &AssignmentService{
		gateway: gateway,
	}
}

// List returns the agent's assignments, optionally filtered by status.
func (s *AssignmentService) List(ctx context.Context, status string) ([]domain.Assignment, error) {
	assignments, err := s.gateway.List(ctx, status)
	if err != nil {
		return nil, mapNotFound(err)
	}
	return assignments, nil
}

// Get returns one assignment by id.
func (s *AssignmentService) Get(ctx context.Context, id int) (*domain.Assignment, error) {
	assignment, err := s.gateway.Get(ctx, id)
	if err != nil {
		return nil, mapNotFound(err)
	}
	return assignment, nil
}

// Accept claims an assigned task.
func (s *AssignmentService) Accept(ctx context.Context, id int) (*domain.Assignment, error) {
	return s.transition(ctx, id, lifecycle.ActionAccept, func(ctx context.Context) (*ports.ActionResult, error) {
		return s.gateway.Accept(ctx, id)
	})
}

// MarkPickedUp records that the agent collected the package.
func (s *AssignmentService) MarkPickedUp(ctx context.Context, id int) (*domain.Assignment, error) {
	return s.transition(ctx, id, lifecycle.ActionMarkPickedUp, func(ctx context.Context) (*ports.ActionResult, error) {
		return s.gateway.UpdateStatus(ctx, id, domain.StatusPickedUp, "")
	})
}

// MarkInTransit records that the agent is on the way.
func (s *AssignmentService) MarkInTransit(ctx context.Context, id int) (*domain.Assignment, error) {
	return s.transition(ctx, id, lifecycle.ActionMarkInTransit, func(ctx context.Context) (*ports.ActionResult, error) {
		return s.gateway.UpdateStatus(ctx, id, domain.StatusInTransit, "")
	})
}

// SignalNearby tells the server the agent is close to the destination. The
// server generates the delivery code and notifies the customer.
func (s *AssignmentService) SignalNearby(ctx context.Context, id int, coords *ports.Coordinates) (*domain.Assignment, *ports.ActionResult, error) {
	assignment, err := s.requireAction(ctx, id, lifecycle.ActionSignalNearby)
	if err != nil {
		return nil, nil, err
	}

	result, err := s.gateway.SignalNearby(ctx, id, coords)
	if err != nil {
		return nil, nil, err
	}

	logger.Get().Info("Nearby signalled, delivery code sent",
		zap.Int("assignment_id", id),
		zap.String("order_number", assignment.OrderNumber),
		zap.Bool("otp_email_sent", result.OTPEmailSent),
	)

	refreshed, err := s.Get(ctx, id)
	if err != nil {
		return nil, result, err
	}
	return refreshed, result, nil
}

// VerifyOTP submits the customer's delivery code. The code's shape is
// checked locally; only the server knows whether it is correct, and its
// rejection message is passed through untouched.
func (s *AssignmentService) VerifyOTP(ctx context.Context, id int, otp string) (*domain.Assignment, error) {
	if err := domain.ValidateOTP(otp); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidOTP, err)
	}

	return s.transition(ctx, id, lifecycle.ActionVerifyOTP, func(ctx context.Context) (*ports.ActionResult, error) {
		return s.gateway.VerifyOTP(ctx, id, otp)
	})
}

// ReportFailed marks the task as failed. Empty notes get a default so the
// order history always explains the failure.
func (s *AssignmentService) ReportFailed(ctx context.Context, id int, notes string) (*domain.Assignment, error) {
	if notes == "" {
		notes = defaultFailureNotes
	}

	return s.transition(ctx, id, lifecycle.ActionReportFailed, func(ctx context.Context) (*ports.ActionResult, error) {
		return s.gateway.UpdateStatus(ctx, id, domain.StatusFailed, notes)
	})
}

// AvailableActions returns what the agent may do with the assignment now.
func (s *AssignmentService) AvailableActions(assignment *domain.Assignment) []lifecycle.ActionKey {
	return lifecycle.AvailableActions(assignment.Status, lifecycle.RoleAgent)
}

// transition gates, requests and refetches a status change.
func (s *AssignmentService) transition(ctx context.Context, id int, action lifecycle.ActionKey, call func(context.Context) (*ports.ActionResult, error)) (*domain.Assignment, error) {
	if _, err := s.requireAction(ctx, id, action); err != nil {
		return nil, err
	}

	result, err := call(ctx)
	if err != nil {
		return nil, err
	}

	logger.Get().Info("Assignment transition applied",
		zap.Int("assignment_id", id),
		zap.String("action", string(action)),
		zap.String("server_message", result.Message),
	)

	return s.Get(ctx, id)
}

func (s *AssignmentService) requireAction(ctx context.Context, id int, action lifecycle.ActionKey) (*domain.Assignment, error) {
	assignment, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	actions := lifecycle.AvailableActions(assignment.Status, lifecycle.RoleAgent)
	if !lifecycle.HasAction(actions, action) {
		return nil, fmt.Errorf("%w: %s from %s", ErrActionNotAllowed, action, assignment.Status)
	}
	return assignment, nil
}

func mapNotFound(err error) error {
	var apiErr *httpclient.APIError
	if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound {
		return fmt.Errorf("%w: %s", ErrAssignmentNotFound, apiErr.Message)
	}
	return err
}
