package handler

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/propertypassport/api/pkg/domain/shared"
	"github.com/propertypassport/api/pkg/logger"
)

func TestHandleServiceError_StatusMapping(t *testing.T) {
	log := logger.NewDefault()

	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{"not found", shared.ErrNotFound, http.StatusNotFound},
		{"wrapped not found", fmt.Errorf("lookup: %w", shared.ErrNotFound), http.StatusNotFound},
		{"validation", shared.ErrValidation, http.StatusBadRequest},
		{"forbidden", shared.ErrForbidden, http.StatusForbidden},
		{"unauthorized", shared.ErrUnauthorized, http.StatusUnauthorized},
		{"conflict", shared.ErrConflict, http.StatusConflict},
		{"already exists", shared.ErrAlreadyExists, http.StatusConflict},
		{"unknown", fmt.Errorf("disk on fire"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			handleServiceError(rec, log, "Property", tt.err)
			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}

func TestParseQueryHelpers(t *testing.T) {
	assert.Equal(t, 7, parseQueryInt("7", 1))
	assert.Equal(t, 1, parseQueryInt("", 1))
	assert.Equal(t, 1, parseQueryInt("abc", 1))

	require.NotNil(t, parseQueryBool("true"))
	assert.True(t, *parseQueryBool("true"))
	assert.False(t, *parseQueryBool("false"))
	assert.Nil(t, parseQueryBool(""))
	assert.Nil(t, parseQueryBool("maybe"))

	require.NotNil(t, parseQueryIntPtr("3"))
	assert.Equal(t, 3, *parseQueryIntPtr("3"))
	assert.Nil(t, parseQueryIntPtr(""))

	require.NotNil(t, parseQueryInt64Ptr("25000000"))
	assert.Equal(t, int64(25_000_000), *parseQueryInt64Ptr("25000000"))

	require.NotNil(t, parseQueryStringPtr("C"))
	assert.Equal(t, "C", *parseQueryStringPtr("C"))
	assert.Nil(t, parseQueryStringPtr(""))
}

func TestNewPaginationLinks(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "http://example.com/api/v1/properties?page=2&per_page=10", nil)

	links := NewPaginationLinks(r, 2, 10, 5)
	require.NotNil(t, links)
	assert.Contains(t, links.Self, "page=2")
	assert.Contains(t, links.Next, "page=3")
	assert.Contains(t, links.Prev, "page=1")
	assert.Contains(t, links.First, "page=1")
	assert.Contains(t, links.Last, "page=5")
}

func TestNewPaginationLinks_Edges(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "http://example.com/api/v1/properties", nil)

	first := NewPaginationLinks(r, 1, 10, 3)
	require.NotNil(t, first)
	assert.Empty(t, first.Prev)
	assert.Contains(t, first.Next, "page=2")

	last := NewPaginationLinks(r, 3, 10, 3)
	require.NotNil(t, last)
	assert.Empty(t, last.Next)
}
