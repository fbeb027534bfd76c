package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type createPropertyInput struct {
	AddressLine1 string `validate:"required,max=200"`
	Postcode     string `validate:"required,max=16"`
	Type         string `validate:"required,property_type"`
	EPCRating    string `validate:"omitempty,epc_rating"`
	Slug         string `validate:"omitempty,slug"`
}

func TestValidator_Struct(t *testing.T) {
	v, err := New()
	require.NoError(t, err)

	t.Run("valid input passes", func(t *testing.T) {
		err := v.Struct(createPropertyInput{
			AddressLine1: "14 Larch Mews",
			Postcode:     "SW1A 1AA",
			Type:         "terraced",
			EPCRating:    "C",
			Slug:         "14-larch-mews-a1b2",
		})
		assert.NoError(t, err)
	})

	t.Run("invalid property type fails", func(t *testing.T) {
		err := v.Struct(createPropertyInput{
			AddressLine1: "14 Larch Mews",
			Postcode:     "SW1A 1AA",
			Type:         "castle",
		})
		require.Error(t, err)
		fields := ExtractErrors(err)
		require.Len(t, fields, 1)
		assert.Equal(t, "type", fields[0].Field)
	})

	t.Run("missing required fields reported per field", func(t *testing.T) {
		err := v.Struct(createPropertyInput{Type: "flat"})
		require.Error(t, err)
		assert.Len(t, ExtractErrors(err), 2)
	})
}

func TestValidator_CustomTags(t *testing.T) {
	v, err := New()
	require.NoError(t, err)

	cases := []struct {
		tag   string
		value string
		ok    bool
	}{
		{"epc_rating", "A", true},
		{"epc_rating", "G", true},
		{"epc_rating", "H", false},
		{"epc_rating", "a", false},
		{"stakeholder_status", "owner", true},
		{"stakeholder_status", "landlord", false},
		{"permission_level", "editor", true},
		{"permission_level", "admin", false},
		{"primary_role", "conveyancer", true},
		{"primary_role", "solicitor", false},
		{"document_kind", "title_deed", true},
		{"document_kind", "receipt", false},
		{"media_kind", "floorplan", true},
		{"media_kind", "audio", false},
		{"task_status", "in_progress", true},
		{"task_status", "blocked", false},
		{"severity", "critical", true},
		{"severity", "fatal", false},
		{"slug", "larch-mews-14", true},
		{"slug", "Larch Mews", false},
		{"slug", "-leading", false},
	}
	for _, tc := range cases {
		err := v.Var(tc.value, tc.tag)
		if tc.ok {
			assert.NoError(t, err, "%s=%q", tc.tag, tc.value)
		} else {
			assert.Error(t, err, "%s=%q", tc.tag, tc.value)
		}
	}
}
