package app

import (
	"context"
	"fmt"

	"github.com/propertypassport/api/pkg/domain/access"
	"github.com/propertypassport/api/pkg/domain/property"
	"github.com/propertypassport/api/pkg/domain/stakeholder"
	"github.com/propertypassport/api/pkg/domain/user"
	"github.com/propertypassport/api/pkg/logger"
	"github.com/propertypassport/api/pkg/password"
)

// DataResetter wipes all application data. Implemented by the postgres
// test-support repository; only wired outside production.
type DataResetter interface {
	Reset(ctx context.Context) error
}

// TestSupportService backs the test-only endpoints used by end-to-end
// suites: wipe the database, load a deterministic fixture set, and report
// non-secret environment facts.
type TestSupportService struct {
	resetter     DataResetter
	users        user.Repository
	properties   property.Repository
	stakeholders stakeholder.Repository
	hasher       *password.Hasher
	dashboard    *DashboardService
	appName      string
	env          string
	logger       *logger.Logger
}

// NewTestSupportService creates a new TestSupportService.
func NewTestSupportService(
	resetter DataResetter,
	users user.Repository,
	properties property.Repository,
	stakeholders stakeholder.Repository,
	hasher *password.Hasher,
	dashboard *DashboardService,
	appName, env string,
	log *logger.Logger,
) *TestSupportService {
	return &TestSupportService{
		resetter:     resetter,
		users:        users,
		properties:   properties,
		stakeholders: stakeholders,
		hasher:       hasher,
		dashboard:    dashboard,
		appName:      appName,
		env:          env,
		logger:       log.With("service", "testsupport"),
	}
}

// Reset wipes all application data and drops the stats cache.
func (s *TestSupportService) Reset(ctx context.Context) error {
	if err := s.resetter.Reset(ctx); err != nil {
		return fmt.Errorf("failed to reset data: %w", err)
	}
	if err := s.dashboard.Invalidate(ctx); err != nil {
		s.logger.Warn("failed to invalidate stats cache", "error", err)
	}
	s.logger.Warn("test reset executed")
	return nil
}

// TestFixturePassword is the password for every seeded test account.
const TestFixturePassword = "Testpass1"

// SeedSummary reports what Seed created.
type SeedSummary struct {
	Users      int `json:"users"`
	Properties int `json:"properties"`
}

// Seed loads a deterministic fixture set on top of the current data: an
// admin, a property owner with one public listing, and a buyer granted
// viewer access to it. Repeating a seed without a reset fails on the
// duplicate emails, which is intentional.
func (s *TestSupportService) Seed(ctx context.Context) (*SeedSummary, error) {
	hash, err := s.hasher.Hash(TestFixturePassword)
	if err != nil {
		return nil, fmt.Errorf("failed to hash fixture password: %w", err)
	}

	admin, err := user.New("test-admin@example.com", "Test Admin", hash, access.PrimaryConsumer)
	if err != nil {
		return nil, err
	}
	admin.GrantAdmin()

	owner, err := user.New("test-owner@example.com", "Test Owner", hash, access.PrimaryConsumer)
	if err != nil {
		return nil, err
	}

	buyer, err := user.New("test-buyer@example.com", "Test Buyer", hash, access.PrimaryConsumer)
	if err != nil {
		return nil, err
	}

	for _, u := range []*user.User{admin, owner, buyer} {
		if err := s.users.Create(ctx, u); err != nil {
			return nil, fmt.Errorf("failed to create fixture user %s: %w", u.Email(), err)
		}
	}

	p, err := property.New(
		"1 Test Street", "", "Testville", "TE1 1ST",
		property.TypeDetached, 3, 1, 250000, "C",
		owner.ID(),
	)
	if err != nil {
		return nil, err
	}
	p.SetPublicVisibility(true)

	if err := s.properties.Create(ctx, p); err != nil {
		return nil, fmt.Errorf("failed to create fixture property: %w", err)
	}

	ownerRow, err := stakeholder.NewOwner(p.ID(), owner.ID())
	if err != nil {
		return nil, err
	}
	if err := s.stakeholders.Upsert(ctx, ownerRow); err != nil {
		return nil, err
	}

	ownerID := owner.ID()
	buyerRow, err := stakeholder.New(p.ID(), buyer.ID(), access.StatusBuyer, access.PermissionViewer, &ownerID)
	if err != nil {
		return nil, err
	}
	if err := s.stakeholders.Upsert(ctx, buyerRow); err != nil {
		return nil, err
	}

	if err := s.dashboard.Invalidate(ctx); err != nil {
		s.logger.Warn("failed to invalidate stats cache", "error", err)
	}

	s.logger.Info("test fixtures seeded")
	return &SeedSummary{Users: 3, Properties: 1}, nil
}

// EnvInfo reports non-secret environment facts for test harnesses.
type EnvInfo struct {
	AppName string `json:"app_name"`
	Env     string `json:"env"`
}

// Env returns the environment info.
func (s *TestSupportService) Env() EnvInfo {
	return EnvInfo{AppName: s.appName, Env: s.env}
}
