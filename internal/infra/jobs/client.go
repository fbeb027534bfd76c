package jobs

import (
	"context"
	"fmt"

	"github.com/hibiken/asynq"

	"github.com/propertypassport/api/internal/app"
	"github.com/propertypassport/api/pkg/logger"
)

// Client manages enqueueing background jobs using Asynq. It implements
// app.EmailJobEnqueuer.
type Client struct {
	client *asynq.Client
	logger *logger.Logger
}

// ClientConfig contains configuration for the job client.
type ClientConfig struct {
	RedisAddr     string
	RedisPassword string
	RedisDB       int
}

// NewClient creates a new job client for enqueueing tasks.
func NewClient(cfg ClientConfig, log *logger.Logger) *Client {
	redisOpt := asynq.RedisClientOpt{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	}

	return &Client{
		client: asynq.NewClient(redisOpt),
		logger: log.With("component", "job_client"),
	}
}

// Close closes the client connection.
func (c *Client) Close() error {
	return c.client.Close()
}

// EnqueueInvitationEmail enqueues a property invitation email job.
func (c *Client) EnqueueInvitationEmail(ctx context.Context, payload app.InvitationEmailJobPayload) error {
	task, err := NewInvitationEmailTask(payload)
	if err != nil {
		return fmt.Errorf("failed to create task: %w", err)
	}

	info, err := c.client.EnqueueContext(ctx, task)
	if err != nil {
		c.logger.Error("failed to enqueue invitation email",
			"email", payload.RecipientEmail,
			"error", err,
		)
		return fmt.Errorf("failed to enqueue task: %w", err)
	}

	c.logger.Info("invitation email queued",
		"task_id", info.ID,
		"email", payload.RecipientEmail,
		"queue", info.Queue,
	)
	return nil
}

// EnqueueWelcomeEmail enqueues a welcome email job.
func (c *Client) EnqueueWelcomeEmail(ctx context.Context, payload WelcomeEmailPayload) error {
	task, err := NewWelcomeEmailTask(payload)
	if err != nil {
		return fmt.Errorf("failed to create task: %w", err)
	}

	info, err := c.client.EnqueueContext(ctx, task)
	if err != nil {
		c.logger.Error("failed to enqueue welcome email",
			"email", payload.UserEmail,
			"error", err,
		)
		return fmt.Errorf("failed to enqueue task: %w", err)
	}

	c.logger.Info("welcome email queued",
		"task_id", info.ID,
		"email", payload.UserEmail,
		"queue", info.Queue,
	)
	return nil
}

// WelcomeEnqueuerAdapter adapts Client to app.WelcomeEmailEnqueuer.
type WelcomeEnqueuerAdapter struct {
	client *Client
}

// NewWelcomeEnqueuerAdapter creates an adapter for welcome email enqueueing.
func NewWelcomeEnqueuerAdapter(client *Client) *WelcomeEnqueuerAdapter {
	return &WelcomeEnqueuerAdapter{client: client}
}

// EnqueueWelcome enqueues a welcome email for a newly registered user.
func (a *WelcomeEnqueuerAdapter) EnqueueWelcome(ctx context.Context, email, name, userID string) error {
	return a.client.EnqueueWelcomeEmail(ctx, WelcomeEmailPayload{
		UserEmail: email,
		UserName:  name,
		UserID:    userID,
	})
}
