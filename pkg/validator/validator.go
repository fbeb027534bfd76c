// Package validator provides request validation built on go-playground/validator
// with custom tags for property-domain values.
package validator

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

var slugPattern = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)

// Validator wraps go-playground/validator with domain-specific validations.
type Validator struct {
	validate *validator.Validate
}

// New creates a new Validator with custom validations registered.
func New() (*Validator, error) {
	v := validator.New(validator.WithRequiredStructEnabled())

	customs := map[string]validator.Func{
		"slug":               validateSlug,
		"epc_rating":         oneOfField("A", "B", "C", "D", "E", "F", "G"),
		"property_type":      oneOfField("detached", "semi_detached", "terraced", "flat", "bungalow", "other"),
		"stakeholder_status": oneOfField("owner", "buyer", "tenant"),
		"permission_level":   oneOfField("editor", "viewer"),
		"primary_role":       oneOfField("consumer", "agent", "conveyancer", "surveyor", "admin"),
		"document_kind":      oneOfField("title_deed", "epc_certificate", "survey", "warranty", "planning", "gas_safety", "electrical", "other"),
		"media_kind":         oneOfField("photo", "floorplan", "video"),
		"task_status":        oneOfField("open", "in_progress", "done"),
		"severity":           oneOfField("info", "warning", "critical"),
	}
	for tag, fn := range customs {
		if err := v.RegisterValidation(tag, fn); err != nil {
			return nil, fmt.Errorf("register validation %q: %w", tag, err)
		}
	}

	return &Validator{validate: v}, nil
}

// Struct validates a struct based on its validate tags.
func (v *Validator) Struct(s any) error {
	return v.validate.Struct(s)
}

// Var validates a single variable against a tag.
func (v *Validator) Var(field any, tag string) error {
	return v.validate.Var(field, tag)
}

// FieldError describes a single failed validation.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ExtractErrors converts validator errors into field-level messages.
func ExtractErrors(err error) []FieldError {
	var out []FieldError
	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		return out
	}
	for _, fe := range validationErrors {
		out = append(out, FieldError{
			Field:   strings.ToLower(fe.Field()),
			Message: messageFor(fe),
		})
	}
	return out
}

func messageFor(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "this field is required"
	case "email":
		return "must be a valid email address"
	case "min":
		return fmt.Sprintf("must be at least %s characters or greater", fe.Param())
	case "max":
		return fmt.Sprintf("must be at most %s characters or less", fe.Param())
	case "slug":
		return "must be a lowercase hyphen-separated slug"
	case "epc_rating":
		return "must be an EPC rating from A to G"
	case "property_type":
		return "must be a valid property type"
	case "stakeholder_status":
		return "must be one of: owner, buyer, tenant"
	case "permission_level":
		return "must be one of: editor, viewer"
	case "primary_role":
		return "must be a valid role"
	case "document_kind":
		return "must be a valid document kind"
	case "media_kind":
		return "must be one of: photo, floorplan, video"
	case "task_status":
		return "must be one of: open, in_progress, done"
	case "severity":
		return "must be one of: info, warning, critical"
	case "oneof":
		return fmt.Sprintf("must be one of: %s", fe.Param())
	case "uuid":
		return "must be a valid UUID"
	case "gte":
		return fmt.Sprintf("must be %s or greater", fe.Param())
	case "lte":
		return fmt.Sprintf("must be %s or less", fe.Param())
	default:
		return fmt.Sprintf("failed validation: %s", fe.Tag())
	}
}

func validateSlug(fl validator.FieldLevel) bool {
	return slugPattern.MatchString(fl.Field().String())
}

func oneOfField(values ...string) validator.Func {
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		set[v] = struct{}{}
	}
	return func(fl validator.FieldLevel) bool {
		_, ok := set[fl.Field().String()]
		return ok
	}
}
