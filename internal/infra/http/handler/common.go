package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/propertypassport/api/internal/infra/http/middleware"
	"github.com/propertypassport/api/pkg/apierror"
	"github.com/propertypassport/api/pkg/domain/shared"
	"github.com/propertypassport/api/pkg/logger"
	"github.com/propertypassport/api/pkg/validator"
)

const (
	schemeHTTP  = "http"
	schemeHTTPS = "https"
)

// PaginationLinks contains HATEOAS-style pagination links.
type PaginationLinks struct {
	Self  string `json:"self"`
	First string `json:"first,omitempty"`
	Prev  string `json:"prev,omitempty"`
	Next  string `json:"next,omitempty"`
	Last  string `json:"last,omitempty"`
}

// ListResponse represents a paginated list response.
// This is a generic type that can be reused across all handlers.
type ListResponse[T any] struct {
	Data       []T              `json:"data"`
	Total      int64            `json:"total"`
	Page       int              `json:"page"`
	PerPage    int              `json:"per_page"`
	TotalPages int              `json:"total_pages"`
	Links      *PaginationLinks `json:"links,omitempty"`
}

// NewPaginationLinks creates pagination links based on the current request.
// It preserves all existing query parameters while updating page number.
func NewPaginationLinks(r *http.Request, page, perPage, totalPages int) *PaginationLinks {
	if totalPages == 0 {
		return nil
	}

	baseURL := buildBaseURL(r)
	query := r.URL.Query()

	links := &PaginationLinks{
		Self:  buildPageURL(baseURL, query, page, perPage),
		First: buildPageURL(baseURL, query, 1, perPage),
	}

	if page > 1 {
		links.Prev = buildPageURL(baseURL, query, page-1, perPage)
	}

	if page < totalPages {
		links.Next = buildPageURL(baseURL, query, page+1, perPage)
	}

	if totalPages > 1 {
		links.Last = buildPageURL(baseURL, query, totalPages, perPage)
	}

	return links
}

func buildBaseURL(r *http.Request) string {
	scheme := schemeHTTPS
	if r.TLS == nil {
		if proto := r.Header.Get("X-Forwarded-Proto"); proto != "" {
			scheme = proto
		} else {
			scheme = schemeHTTP
		}
	}

	host := r.Host
	if fwdHost := r.Header.Get("X-Forwarded-Host"); fwdHost != "" {
		host = fwdHost
	}

	return fmt.Sprintf("%s://%s%s", scheme, host, r.URL.Path)
}

func buildPageURL(baseURL string, query url.Values, page, perPage int) string {
	params := make(url.Values)
	for k, v := range query {
		params[k] = v
	}

	params.Set("page", strconv.Itoa(page))
	params.Set("per_page", strconv.Itoa(perPage))

	return baseURL + "?" + params.Encode()
}

// respondJSON writes v as a JSON response with the given status code.
func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// decodeJSON decodes the request body into dst, rejecting unknown fields.
func decodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}

// handleValidationError converts validator failures into a 422 response with
// field-level details.
func handleValidationError(w http.ResponseWriter, err error) {
	fieldErrors := validator.ExtractErrors(err)
	if len(fieldErrors) == 0 {
		apierror.BadRequest("Validation error").WriteJSON(w)
		return
	}
	apiErrors := make([]apierror.ValidationError, len(fieldErrors))
	for i, fe := range fieldErrors {
		apiErrors[i] = apierror.ValidationError{
			Field:   fe.Field,
			Message: fe.Message,
		}
	}
	apierror.ValidationFailed("Validation failed", apiErrors).WriteJSON(w)
}

// handleServiceError maps domain errors onto HTTP responses. Anything
// unrecognized is logged and returned as a 500.
func handleServiceError(w http.ResponseWriter, log *logger.Logger, resource string, err error) {
	switch {
	case errors.Is(err, shared.ErrNotFound):
		apierror.NotFound(resource).WriteJSON(w)
	case errors.Is(err, shared.ErrValidation), errors.Is(err, shared.ErrInvalidInput):
		apierror.BadRequest(err.Error()).WriteJSON(w)
	case errors.Is(err, shared.ErrForbidden):
		apierror.Forbidden(err.Error()).WriteJSON(w)
	case errors.Is(err, shared.ErrUnauthorized):
		apierror.Unauthorized(err.Error()).WriteJSON(w)
	case errors.Is(err, shared.ErrAlreadyExists), errors.Is(err, shared.ErrConflict):
		apierror.Conflict(err.Error()).WriteJSON(w)
	default:
		log.Error("service error", "resource", resource, "error", err)
		apierror.InternalError(err).WriteJSON(w)
	}
}

func parseQueryInt(s string, defaultVal int) int {
	if s == "" {
		return defaultVal
	}
	val, err := strconv.Atoi(s)
	if err != nil {
		return defaultVal
	}
	return val
}

func parseQueryBool(s string) *bool {
	if s == "" {
		return nil
	}
	val := s == "true" || s == "1"
	return &val
}

func parseQueryIntPtr(s string) *int {
	if s == "" {
		return nil
	}
	val, err := strconv.Atoi(s)
	if err != nil {
		return nil
	}
	return &val
}

func parseQueryInt64Ptr(s string) *int64 {
	if s == "" {
		return nil
	}
	val, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return nil
	}
	return &val
}

func parseQueryStringPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// requestUserID resolves the authenticated user's ID from the context.
// Routes behind OptionalAuthenticate may yield a zero ID.
func requestUserID(r *http.Request) shared.ID {
	raw := middleware.GetUserID(r.Context())
	if raw == "" {
		return shared.ID{}
	}
	id, err := shared.IDFromString(raw)
	if err != nil {
		return shared.ID{}
	}
	return id
}

// mustUserID resolves the authenticated user's ID or writes a 401. Returns
// false when the request carried no valid identity.
func mustUserID(w http.ResponseWriter, r *http.Request) (shared.ID, bool) {
	id := requestUserID(r)
	if id.IsZero() {
		apierror.Unauthorized("Authentication required").WriteJSON(w)
		return shared.ID{}, false
	}
	return id, true
}
