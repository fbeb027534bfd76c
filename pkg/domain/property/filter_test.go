package property

import (
	"testing"

	"github.com/propertypassport/api/pkg/domain/access"
	"github.com/propertypassport/api/pkg/domain/shared"
)

func intPtr(v int) *int       { return &v }
func int64Ptr(v int64) *int64 { return &v }
func strPtr(v string) *string { return &v }
func boolPtr(v bool) *bool    { return &v }

func testRow(t *testing.T, createdBy shared.ID, public bool, bedrooms int, price int64, epc string, counts Counts) SearchRow {
	t.Helper()
	p, err := New("1 High Street", "", "London", "SW1A 1AA", TypeTerraced, bedrooms, 1, price, epc, createdBy)
	if err != nil {
		t.Fatalf("failed to create property: %v", err)
	}
	p.SetPublicVisibility(public)
	return SearchRow{Property: p, Counts: counts}
}

func TestFilterSet_Conjunctive(t *testing.T) {
	owner := shared.NewID()
	row := testRow(t, owner, true, 3, 250_000_00, "C", Counts{Documents: 2})

	tests := []struct {
		name string
		f    FilterSet
		want bool
	}{
		{"empty filter passes", FilterSet{}, true},
		{"min bedrooms met", FilterSet{MinBedrooms: intPtr(3)}, true},
		{"min bedrooms unmet", FilterSet{MinBedrooms: intPtr(4)}, false},
		{"price in range", FilterSet{MinPrice: int64Ptr(200_000_00), MaxPrice: int64Ptr(300_000_00)}, true},
		{"price above max", FilterSet{MaxPrice: int64Ptr(200_000_00)}, false},
		{"epc in range", FilterSet{MinEPCRating: strPtr("A"), MaxEPCRating: strPtr("D")}, true},
		{"epc worse than max", FilterSet{MaxEPCRating: strPtr("B")}, false},
		{"has documents", FilterSet{HasDocuments: boolPtr(true)}, true},
		{"has media unmet", FilterSet{HasMedia: boolPtr(true)}, false},
		{"no issues wanted", FilterSet{HasIssues: boolPtr(false)}, true},
		{"all predicates must pass", FilterSet{MinBedrooms: intPtr(3), HasMedia: boolPtr(true)}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.f.Matches(row); got != tt.want {
				t.Errorf("Matches() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFilterSet_EPCMissingFailsRangeChecks(t *testing.T) {
	row := testRow(t, shared.NewID(), true, 2, 100_000_00, "", Counts{})

	if (FilterSet{MinEPCRating: strPtr("A")}).Matches(row) {
		t.Error("row without EPC rating must fail a min EPC predicate")
	}
	if (FilterSet{MaxEPCRating: strPtr("G")}).Matches(row) {
		t.Error("row without EPC rating must fail a max EPC predicate")
	}
	if !(FilterSet{}).Matches(row) {
		t.Error("row without EPC rating passes when no EPC predicate is set")
	}
}

func TestVisibility_BuyerSeesOwnOrPublic(t *testing.T) {
	buyer := shared.NewID()
	other := shared.NewID()

	mine := testRow(t, buyer, false, 2, 1, "", Counts{})
	public := testRow(t, other, true, 2, 1, "", Counts{})
	hidden := testRow(t, other, false, 2, 1, "", Counts{})

	rows := []SearchRow{mine, public, hidden}
	got := ApplyFilters(rows, FilterSet{}, access.RoleBuyer, buyer)

	if len(got) != 2 {
		t.Fatalf("buyer filter returned %d rows, want 2", len(got))
	}
	for _, row := range got {
		if !row.Property.CreatedBy().Equals(buyer) && !row.Property.PublicVisibility() {
			t.Errorf("buyer saw a hidden row created by someone else")
		}
	}
}

func TestVisibility_AdminSeesAll(t *testing.T) {
	buyer := shared.NewID()
	other := shared.NewID()
	rows := []SearchRow{
		testRow(t, buyer, false, 2, 1, "", Counts{}),
		testRow(t, other, true, 2, 1, "", Counts{}),
		testRow(t, other, false, 2, 1, "", Counts{}),
	}

	got := ApplyFilters(rows, FilterSet{}, access.RoleAdmin, buyer)
	if len(got) != len(rows) {
		t.Errorf("admin filter returned %d rows, want %d", len(got), len(rows))
	}

	got = ApplyFilters(rows, FilterSet{}, access.RoleOwner, buyer)
	if len(got) != len(rows) {
		t.Errorf("owner filter returned %d rows, want %d", len(got), len(rows))
	}
}

func TestApplyFilters_PreservesOrder(t *testing.T) {
	user := shared.NewID()
	a := testRow(t, user, true, 1, 1, "", Counts{})
	b := testRow(t, user, true, 2, 2, "", Counts{})
	c := testRow(t, user, true, 3, 3, "", Counts{})

	got := ApplyFilters([]SearchRow{a, b, c}, FilterSet{MinBedrooms: intPtr(2)}, access.RoleAdmin, user)
	if len(got) != 2 {
		t.Fatalf("got %d rows, want 2", len(got))
	}
	if got[0].Property.Bedrooms() != 2 || got[1].Property.Bedrooms() != 3 {
		t.Error("filtering must preserve input order")
	}
}
