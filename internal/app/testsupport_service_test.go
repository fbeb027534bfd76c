package app

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/propertypassport/api/pkg/logger"
	"github.com/propertypassport/api/pkg/password"
)

type stubResetter struct {
	called bool
	err    error
}

func (s *stubResetter) Reset(ctx context.Context) error {
	s.called = true
	return s.err
}

func newTestSupportService(resetter *stubResetter) *TestSupportService {
	log := logger.NewDefault()
	dashboard := NewDashboardService(nil, nil, nil, nil, nil, nil, log)
	hasher := password.New(password.WithCost(4))
	return NewTestSupportService(resetter, nil, nil, nil, hasher, dashboard, "passport", "test", log)
}

func TestTestSupportService_Reset(t *testing.T) {
	resetter := &stubResetter{}
	svc := newTestSupportService(resetter)

	require.NoError(t, svc.Reset(context.Background()))
	assert.True(t, resetter.called)
}

func TestTestSupportService_ResetPropagatesFailure(t *testing.T) {
	resetter := &stubResetter{err: errors.New("truncate failed")}
	svc := newTestSupportService(resetter)

	err := svc.Reset(context.Background())
	assert.ErrorContains(t, err, "truncate failed")
}

func TestTestSupportService_Env(t *testing.T) {
	svc := newTestSupportService(&stubResetter{})

	info := svc.Env()
	assert.Equal(t, "passport", info.AppName)
	assert.Equal(t, "test", info.Env)
}
