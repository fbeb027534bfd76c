package app

import (
	"context"
	"fmt"
	"time"

	"github.com/propertypassport/api/internal/metrics"
	"github.com/propertypassport/api/pkg/email"
	"github.com/propertypassport/api/pkg/logger"
)

// EmailService sends transactional emails. It is a thin layer over the
// sender that fills in app-level context like the base URL and app name.
type EmailService struct {
	sender  email.Sender
	baseURL string
	appName string
	logger  *logger.Logger
}

// NewEmailService creates a new EmailService.
func NewEmailService(sender email.Sender, baseURL, appName string, log *logger.Logger) *EmailService {
	return &EmailService{
		sender:  sender,
		baseURL: baseURL,
		appName: appName,
		logger:  log.With("service", "email"),
	}
}

// IsConfigured reports whether the underlying sender can deliver mail.
func (s *EmailService) IsConfigured() bool {
	return s.sender.IsConfigured()
}

// SendInvitationEmail sends a property invitation to a prospective
// stakeholder. The token link lands on the frontend invitation page.
func (s *EmailService) SendInvitationEmail(ctx context.Context, recipient, inviterName, propertyAddress, role, token string, expiresIn time.Duration) error {
	data := email.PropertyInvitationData{
		InviterName:     inviterName,
		PropertyAddress: propertyAddress,
		Role:            role,
		InvitationURL:   fmt.Sprintf("%s/invitations/%s", s.baseURL, token),
		ExpiresIn:       formatExpiry(expiresIn),
		AppName:         s.appName,
	}

	if err := s.sender.SendTemplate(ctx, recipient, email.TemplatePropertyInvitation, data); err != nil {
		metrics.EmailJobsTotal.WithLabelValues("invitation", "failed").Inc()
		return fmt.Errorf("failed to send invitation email: %w", err)
	}

	metrics.EmailJobsTotal.WithLabelValues("invitation", "sent").Inc()
	s.logger.Info("invitation email sent", "recipient", recipient)
	return nil
}

// SendWelcomeEmail sends the post-registration welcome email.
func (s *EmailService) SendWelcomeEmail(ctx context.Context, recipient, name string) error {
	data := email.WelcomeData{
		UserName: name,
		Email:    recipient,
		LoginURL: fmt.Sprintf("%s/login", s.baseURL),
		AppName:  s.appName,
	}

	if err := s.sender.SendTemplate(ctx, recipient, email.TemplateWelcome, data); err != nil {
		metrics.EmailJobsTotal.WithLabelValues("welcome", "failed").Inc()
		return fmt.Errorf("failed to send welcome email: %w", err)
	}

	metrics.EmailJobsTotal.WithLabelValues("welcome", "sent").Inc()
	s.logger.Info("welcome email sent", "recipient", recipient)
	return nil
}

func formatExpiry(d time.Duration) string {
	if d >= 24*time.Hour {
		days := int(d.Hours() / 24)
		if days == 1 {
			return "1 day"
		}
		return fmt.Sprintf("%d days", days)
	}
	hours := int(d.Hours())
	if hours <= 1 {
		return "1 hour"
	}
	return fmt.Sprintf("%d hours", hours)
}
