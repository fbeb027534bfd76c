package app

import (
	"context"
	"fmt"

	"github.com/propertypassport/api/pkg/domain/access"
	"github.com/propertypassport/api/pkg/domain/property"
	"github.com/propertypassport/api/pkg/domain/shared"
	"github.com/propertypassport/api/pkg/domain/stakeholder"
	"github.com/propertypassport/api/pkg/domain/user"
	"github.com/propertypassport/api/pkg/logger"
)

// SessionService assembles the read-side access projection for a user:
// their stakeholder rows across all properties plus the properties they
// created, folded into per-property roles.
type SessionService struct {
	users        user.Repository
	stakeholders stakeholder.Repository
	properties   property.Repository
	logger       *logger.Logger
}

// NewSessionService creates a new SessionService.
func NewSessionService(users user.Repository, stakeholders stakeholder.Repository, properties property.Repository, log *logger.Logger) *SessionService {
	return &SessionService{
		users:        users,
		stakeholders: stakeholders,
		properties:   properties,
		logger:       log.With("service", "session"),
	}
}

// Load builds the access session for a user.
func (s *SessionService) Load(ctx context.Context, userID shared.ID) (*access.Session, error) {
	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load user: %w", err)
	}

	rows, err := s.stakeholders.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load stakeholder rows: %w", err)
	}

	byProperty := make(map[shared.ID][]access.StakeholderRow)
	for _, row := range rows {
		byProperty[row.PropertyID()] = append(byProperty[row.PropertyID()], row.Row())
	}

	createdIDs, err := s.properties.ListIDsByCreator(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load created properties: %w", err)
	}

	return access.NewSession(
		u.ID(),
		u.Email(),
		u.FullName(),
		u.PrimaryRole(),
		u.IsAdmin(),
		byProperty,
		createdIDs,
	), nil
}

// DashboardView is what the frontend needs to render the shell: the derived
// dashboard role, the tab set for it, and the buyer-facing hide flags.
type DashboardView struct {
	Role             access.DashboardRole
	Tabs             []access.Tab
	CanViewDocuments bool
	CanViewMedia     bool
	CanViewIssues    bool
	CanSeeAdminPanel bool
}

// DashboardFor derives the dashboard role and UI affordances for a session.
// These flags shape what the UI offers; the per-property predicates remain
// the authorization boundary.
func (s *SessionService) DashboardFor(sess *access.Session) DashboardView {
	role := access.DeriveDashboardRole(sess)
	return DashboardView{
		Role:             role,
		Tabs:             access.DefaultDashboardTabs(role),
		CanViewDocuments: role.CanViewDocuments(),
		CanViewMedia:     role.CanViewMedia(),
		CanViewIssues:    role.CanViewIssues(),
		CanSeeAdminPanel: role.CanSeeAdminPanel(),
	}
}
