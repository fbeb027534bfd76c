package access

// Status is the relationship a stakeholder row records between a user and a
// property.
type Status string

const (
	StatusOwner  Status = "owner"
	StatusBuyer  Status = "buyer"
	StatusTenant Status = "tenant"
)

// IsValid checks if the status is valid.
func (s Status) IsValid() bool {
	switch s {
	case StatusOwner, StatusBuyer, StatusTenant:
		return true
	}
	return false
}

// String returns the string representation of the status.
func (s Status) String() string {
	return string(s)
}

// Permission is the access level a stakeholder row grants.
// Empty means no permission recorded.
type Permission string

const (
	PermissionEditor Permission = "editor"
	PermissionViewer Permission = "viewer"
)

// IsValid checks if the permission is valid.
func (p Permission) IsValid() bool {
	return p == PermissionEditor || p == PermissionViewer
}

// String returns the string representation of the permission.
func (p Permission) String() string {
	return string(p)
}

// PropertyRole is the merged view of all stakeholder rows linking one user
// to one property: the set of statuses held and the widest permission seen.
type PropertyRole struct {
	statuses   map[Status]struct{}
	permission Permission
}

// NewPropertyRole creates an empty PropertyRole.
func NewPropertyRole() PropertyRole {
	return PropertyRole{statuses: make(map[Status]struct{})}
}

// StakeholderRow is a single (status, permission) pair from the
// property_stakeholders table. Invalid values are ignored by Merge.
type StakeholderRow struct {
	Status     Status
	Permission Permission
}

// Merge folds one stakeholder row into the role. The status is added to the
// set if absent. Permission only ever widens: editor wins over viewer and is
// never downgraded by a later row, so merging rows in any order yields the
// same result.
func (r PropertyRole) Merge(row StakeholderRow) PropertyRole {
	out := PropertyRole{
		statuses:   make(map[Status]struct{}, len(r.statuses)+1),
		permission: r.permission,
	}
	for s := range r.statuses {
		out.statuses[s] = struct{}{}
	}
	if row.Status.IsValid() {
		out.statuses[row.Status] = struct{}{}
	}
	switch row.Permission {
	case PermissionEditor:
		out.permission = PermissionEditor
	case PermissionViewer:
		if out.permission != PermissionEditor {
			out.permission = PermissionViewer
		}
	}
	return out
}

// MergeRows folds a slice of stakeholder rows into a PropertyRole.
func MergeRows(rows []StakeholderRow) PropertyRole {
	role := NewPropertyRole()
	for _, row := range rows {
		role = role.Merge(row)
	}
	return role
}

// HasStatus reports whether the role includes the given status.
func (r PropertyRole) HasStatus(s Status) bool {
	_, ok := r.statuses[s]
	return ok
}

// Statuses returns the statuses held, in no particular order.
func (r PropertyRole) Statuses() []Status {
	out := make([]Status, 0, len(r.statuses))
	for s := range r.statuses {
		out = append(out, s)
	}
	return out
}

// Permission returns the merged permission. Empty if no row granted one.
func (r PropertyRole) Permission() Permission {
	return r.permission
}

// CanEdit reports whether the merged permission allows edits.
func (r PropertyRole) CanEdit() bool {
	return r.permission == PermissionEditor
}

// CanView reports whether the merged permission allows viewing.
func (r PropertyRole) CanView() bool {
	return r.permission == PermissionEditor || r.permission == PermissionViewer
}

// OwnerRole returns the role implied for a property's creator: owner status
// with editor permission, applied even when no stakeholder row exists.
func OwnerRole() PropertyRole {
	return NewPropertyRole().Merge(StakeholderRow{Status: StatusOwner, Permission: PermissionEditor})
}
