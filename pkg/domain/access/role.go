// Package access implements role and permission derivation for property
// records. It is a pure transformation layer over rows already fetched from
// the database: nothing here performs network calls, and nothing here is the
// authorization boundary. The boundary is the database-side predicates
// (can_edit_property / can_view_property); the tables in this package only
// drive UI affordances and route gating.
package access

// DashboardRole is the single effective role a user holds for dashboard
// purposes, derived from their account flags and property stakeholder rows.
type DashboardRole string

const (
	RoleOwner       DashboardRole = "owner"
	RoleBuyer       DashboardRole = "buyer"
	RoleAgent       DashboardRole = "agent"
	RoleConveyancer DashboardRole = "conveyancer"
	RoleAdmin       DashboardRole = "admin"
)

// IsValid checks if the dashboard role is valid.
func (r DashboardRole) IsValid() bool {
	switch r {
	case RoleOwner, RoleBuyer, RoleAgent, RoleConveyancer, RoleAdmin:
		return true
	}
	return false
}

// String returns the string representation of the role.
func (r DashboardRole) String() string {
	return string(r)
}

// PrimaryRole is the account-level role a user registered with.
// Empty means unset.
type PrimaryRole string

const (
	PrimaryConsumer    PrimaryRole = "consumer"
	PrimaryAgent       PrimaryRole = "agent"
	PrimaryConveyancer PrimaryRole = "conveyancer"
	PrimarySurveyor    PrimaryRole = "surveyor"
	PrimaryAdmin       PrimaryRole = "admin"
)

// IsValid checks if the primary role is valid. The empty string is not a
// valid role; callers treat it as unset.
func (r PrimaryRole) IsValid() bool {
	switch r {
	case PrimaryConsumer, PrimaryAgent, PrimaryConveyancer, PrimarySurveyor, PrimaryAdmin:
		return true
	}
	return false
}

// String returns the string representation of the primary role.
func (r PrimaryRole) String() string {
	return string(r)
}

// ParsePrimaryRole parses a string to a PrimaryRole.
func ParsePrimaryRole(s string) (PrimaryRole, bool) {
	r := PrimaryRole(s)
	return r, r.IsValid()
}

// CanViewDocuments reports whether the documents tab is shown for the role.
// UI affordance only: buyers are hidden the tab, but the database predicates
// remain the enforcement point for every document read.
func (r DashboardRole) CanViewDocuments() bool {
	return r != RoleBuyer
}

// CanViewMedia reports whether the media tab is shown for the role.
func (r DashboardRole) CanViewMedia() bool {
	return r != RoleBuyer
}

// CanViewIssues reports whether property issues are shown for the role.
func (r DashboardRole) CanViewIssues() bool {
	return r != RoleBuyer
}

// CanSeeAdminPanel reports whether the admin panel is shown for the role.
func (r DashboardRole) CanSeeAdminPanel() bool {
	return r == RoleAdmin
}
