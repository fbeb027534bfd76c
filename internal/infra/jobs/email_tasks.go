// Package jobs provides background job definitions and handlers using Asynq.
package jobs

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/hibiken/asynq"

	"github.com/propertypassport/api/internal/app"
	"github.com/propertypassport/api/pkg/logger"
)

// Task types for email jobs
const (
	TypeEmailInvitation = "email:property_invitation"
	TypeEmailWelcome    = "email:welcome"
)

// WelcomeEmailPayload contains data for sending welcome emails.
type WelcomeEmailPayload struct {
	UserEmail string `json:"user_email"`
	UserName  string `json:"user_name"`
	UserID    string `json:"user_id"`
}

// NewInvitationEmailTask creates a new property invitation email task.
func NewInvitationEmailTask(payload app.InvitationEmailJobPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal invitation payload: %w", err)
	}
	return asynq.NewTask(
		TypeEmailInvitation,
		data,
		asynq.MaxRetry(3),
		asynq.Timeout(30*time.Second),
		asynq.Queue("email"),
	), nil
}

// NewWelcomeEmailTask creates a new welcome email task.
func NewWelcomeEmailTask(payload WelcomeEmailPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal welcome email payload: %w", err)
	}
	return asynq.NewTask(
		TypeEmailWelcome,
		data,
		asynq.MaxRetry(3),
		asynq.Timeout(30*time.Second),
		asynq.Queue("email"),
	), nil
}

// EmailTaskHandler handles email task processing.
type EmailTaskHandler struct {
	emailService *app.EmailService
	logger       *logger.Logger
}

// NewEmailTaskHandler creates a new email task handler.
func NewEmailTaskHandler(emailService *app.EmailService, log *logger.Logger) *EmailTaskHandler {
	return &EmailTaskHandler{
		emailService: emailService,
		logger:       log.With("handler", "email_tasks"),
	}
}

// HandleInvitationEmail processes property invitation email tasks.
func (h *EmailTaskHandler) HandleInvitationEmail(ctx context.Context, t *asynq.Task) error {
	var payload app.InvitationEmailJobPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("failed to unmarshal payload: %w", err)
	}

	h.logger.Info("processing invitation email",
		"email", payload.RecipientEmail,
		"invitation_id", payload.InvitationID,
	)

	err := h.emailService.SendInvitationEmail(
		ctx,
		payload.RecipientEmail,
		payload.InviterName,
		payload.PropertyAddress,
		payload.Status,
		payload.Token,
		payload.ExpiresIn,
	)
	if err != nil {
		h.logger.Error("failed to send invitation email",
			"email", payload.RecipientEmail,
			"error", err,
		)
		return err
	}

	return nil
}

// HandleWelcomeEmail processes welcome email tasks.
func (h *EmailTaskHandler) HandleWelcomeEmail(ctx context.Context, t *asynq.Task) error {
	var payload WelcomeEmailPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("failed to unmarshal payload: %w", err)
	}

	h.logger.Info("processing welcome email",
		"email", payload.UserEmail,
		"user_id", payload.UserID,
	)

	if err := h.emailService.SendWelcomeEmail(ctx, payload.UserEmail, payload.UserName); err != nil {
		h.logger.Error("failed to send welcome email",
			"email", payload.UserEmail,
			"error", err,
		)
		return err
	}

	return nil
}
