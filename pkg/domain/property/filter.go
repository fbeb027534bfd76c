package property

import (
	"github.com/propertypassport/api/pkg/domain/access"
	"github.com/propertypassport/api/pkg/domain/shared"
)

// Counts carries the per-property attachment counts a search row is
// decorated with. Existence flags in FilterSet test against these.
type Counts struct {
	Documents int
	Media     int
	OpenIssues int
}

// SearchRow is one property search result before in-memory filtering.
type SearchRow struct {
	Property *Property
	Counts   Counts
}

// FilterSet is a conjunctive set of search predicates: every specified
// predicate must pass for a row to be kept. Nil fields mean "not specified".
type FilterSet struct {
	Query        string
	MinBedrooms  *int
	MinBathrooms *int
	MinPrice     *int64
	MaxPrice     *int64
	MinEPCRating *string // best band, e.g. "A"
	MaxEPCRating *string // worst band, e.g. "E"
	HasDocuments *bool
	HasMedia     *bool
	HasIssues    *bool
}

// Matches applies every specified predicate to the row.
// EPC range checks are lexicographic on the band letter (A best, G worst);
// rows without a rating fail any EPC predicate.
func (f FilterSet) Matches(row SearchRow) bool {
	p := row.Property
	if f.MinBedrooms != nil && p.Bedrooms() < *f.MinBedrooms {
		return false
	}
	if f.MinBathrooms != nil && p.Bathrooms() < *f.MinBathrooms {
		return false
	}
	if f.MinPrice != nil && p.Price() < *f.MinPrice {
		return false
	}
	if f.MaxPrice != nil && p.Price() > *f.MaxPrice {
		return false
	}
	if f.MinEPCRating != nil && (p.EPCRating() == "" || p.EPCRating() < *f.MinEPCRating) {
		return false
	}
	if f.MaxEPCRating != nil && (p.EPCRating() == "" || p.EPCRating() > *f.MaxEPCRating) {
		return false
	}
	if f.HasDocuments != nil && (row.Counts.Documents > 0) != *f.HasDocuments {
		return false
	}
	if f.HasMedia != nil && (row.Counts.Media > 0) != *f.HasMedia {
		return false
	}
	if f.HasIssues != nil && (row.Counts.OpenIssues > 0) != *f.HasIssues {
		return false
	}
	return true
}

// VisibleTo applies the role-based visibility restriction. Buyers see only
// rows they created or rows marked publicly visible; every other dashboard
// role sees the full set.
func VisibleTo(role access.DashboardRole, userID shared.ID, row SearchRow) bool {
	if role != access.RoleBuyer {
		return true
	}
	return row.Property.CreatedBy().Equals(userID) || row.Property.PublicVisibility()
}

// ApplyFilters runs the conjunctive filter and visibility restriction over a
// fetched result set, preserving input order.
func ApplyFilters(rows []SearchRow, f FilterSet, role access.DashboardRole, userID shared.ID) []SearchRow {
	out := make([]SearchRow, 0, len(rows))
	for _, row := range rows {
		if !VisibleTo(role, userID, row) {
			continue
		}
		if !f.Matches(row) {
			continue
		}
		out = append(out, row)
	}
	return out
}
