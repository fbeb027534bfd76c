package property

import (
	"regexp"
	"strings"
	"testing"
)

var slugPattern = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)

func TestGenerateSlug(t *testing.T) {
	slug := GenerateSlug("42 Acacia Avenue", "London", "NW1 6XE")

	if !slugPattern.MatchString(slug) {
		t.Errorf("slug %q does not match slug pattern", slug)
	}
	if !strings.Contains(slug, "42-acacia-avenue") {
		t.Errorf("slug %q missing address part", slug)
	}
}

func TestGenerateSlug_FoldsDiacritics(t *testing.T) {
	slug := GenerateSlug("Châteauneuf Résidence", "Llandudno")

	if !strings.Contains(slug, "chateauneuf-residence") {
		t.Errorf("slug %q did not fold diacritics", slug)
	}
	if !slugPattern.MatchString(slug) {
		t.Errorf("slug %q does not match slug pattern", slug)
	}
}

func TestGenerateSlug_FreshSuffixEachCall(t *testing.T) {
	a := GenerateSlug("1 High Street", "Leeds", "LS1 1AA")
	b := GenerateSlug("1 High Street", "Leeds", "LS1 1AA")
	if a == b {
		t.Errorf("regenerated slug %q equals previous slug", a)
	}
}

func TestGenerateSlug_EmptyInput(t *testing.T) {
	slug := GenerateSlug("!!!")
	if !strings.HasPrefix(slug, "property-") {
		t.Errorf("non-alphanumeric input should fall back to property- prefix, got %q", slug)
	}
}
