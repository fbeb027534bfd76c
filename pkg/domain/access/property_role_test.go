package access

import (
	"math/rand"
	"testing"
)

func TestMerge_EditorWins(t *testing.T) {
	rows := []StakeholderRow{
		{Status: StatusBuyer, Permission: PermissionViewer},
		{Status: StatusOwner, Permission: PermissionEditor},
		{Status: StatusTenant, Permission: PermissionViewer},
	}

	role := MergeRows(rows)

	if role.Permission() != PermissionEditor {
		t.Errorf("expected editor, got %q", role.Permission())
	}
	if !role.CanEdit() {
		t.Error("expected CanEdit to be true")
	}
	for _, s := range []Status{StatusOwner, StatusBuyer, StatusTenant} {
		if !role.HasStatus(s) {
			t.Errorf("expected status %q to be present", s)
		}
	}
}

func TestMerge_OrderIndependence(t *testing.T) {
	rows := []StakeholderRow{
		{Status: StatusBuyer, Permission: PermissionViewer},
		{Status: StatusOwner, Permission: PermissionEditor},
		{Status: StatusTenant, Permission: ""},
		{Status: StatusOwner, Permission: PermissionViewer},
	}

	rng := rand.New(rand.NewSource(1))
	for i := 0; i < 50; i++ {
		shuffled := make([]StakeholderRow, len(rows))
		copy(shuffled, rows)
		rng.Shuffle(len(shuffled), func(a, b int) {
			shuffled[a], shuffled[b] = shuffled[b], shuffled[a]
		})

		role := MergeRows(shuffled)
		if role.Permission() != PermissionEditor {
			t.Fatalf("shuffle %d: expected editor, got %q", i, role.Permission())
		}
		if len(role.Statuses()) != 3 {
			t.Fatalf("shuffle %d: expected 3 statuses, got %d", i, len(role.Statuses()))
		}
	}
}

func TestMerge_ViewerOnlyWithoutEditorRow(t *testing.T) {
	role := MergeRows([]StakeholderRow{
		{Status: StatusBuyer, Permission: PermissionViewer},
		{Status: StatusTenant, Permission: PermissionViewer},
	})

	if role.Permission() != PermissionViewer {
		t.Errorf("expected viewer, got %q", role.Permission())
	}
	if role.CanEdit() {
		t.Error("viewer must not be able to edit")
	}
	if !role.CanView() {
		t.Error("viewer must be able to view")
	}
}

func TestMerge_NoPermissionRows(t *testing.T) {
	role := MergeRows([]StakeholderRow{
		{Status: StatusBuyer},
	})

	if role.Permission() != "" {
		t.Errorf("expected empty permission, got %q", role.Permission())
	}
	if role.CanView() {
		t.Error("no permission must not allow viewing")
	}
}

func TestMerge_EditorNeverDowngraded(t *testing.T) {
	role := NewPropertyRole()
	role = role.Merge(StakeholderRow{Status: StatusOwner, Permission: PermissionEditor})
	role = role.Merge(StakeholderRow{Status: StatusOwner, Permission: PermissionViewer})

	if role.Permission() != PermissionEditor {
		t.Errorf("later viewer row downgraded editor to %q", role.Permission())
	}
}

func TestMerge_IgnoresInvalidStatus(t *testing.T) {
	role := NewPropertyRole().Merge(StakeholderRow{Status: "landlord", Permission: PermissionViewer})

	if len(role.Statuses()) != 0 {
		t.Errorf("invalid status was recorded: %v", role.Statuses())
	}
	if role.Permission() != PermissionViewer {
		t.Errorf("valid permission should still merge, got %q", role.Permission())
	}
}

func TestMerge_DoesNotMutateReceiver(t *testing.T) {
	base := NewPropertyRole().Merge(StakeholderRow{Status: StatusBuyer, Permission: PermissionViewer})
	_ = base.Merge(StakeholderRow{Status: StatusOwner, Permission: PermissionEditor})

	if base.HasStatus(StatusOwner) {
		t.Error("Merge mutated its receiver")
	}
	if base.Permission() != PermissionViewer {
		t.Errorf("Merge mutated receiver permission: %q", base.Permission())
	}
}

func TestOwnerRole(t *testing.T) {
	role := OwnerRole()
	if !role.HasStatus(StatusOwner) || !role.CanEdit() {
		t.Error("creator backfill must be owner with editor permission")
	}
}
