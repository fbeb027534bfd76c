package invitation

import (
	"testing"
	"time"

	"github.com/propertypassport/api/pkg/domain/access"
	"github.com/propertypassport/api/pkg/domain/shared"
)

func newTestInvitation(t *testing.T) *Invitation {
	t.Helper()
	inv, err := New(shared.NewID(), "Buyer@Example.com", access.StatusBuyer, access.PermissionViewer, shared.NewID())
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	return inv
}

func TestNew_NormalizesEmailAndGeneratesToken(t *testing.T) {
	inv := newTestInvitation(t)

	if inv.Email() != "buyer@example.com" {
		t.Errorf("email not normalized: %q", inv.Email())
	}
	if inv.Token() == "" {
		t.Error("token must be generated")
	}
	if inv.State() != StatePending {
		t.Errorf("new invitation state = %q, want pending", inv.State())
	}

	other := newTestInvitation(t)
	if other.Token() == inv.Token() {
		t.Error("tokens must be unique")
	}
}

func TestNew_RejectsOwnerlessInput(t *testing.T) {
	if _, err := New(shared.ID{}, "a@b.c", access.StatusBuyer, access.PermissionViewer, shared.NewID()); err == nil {
		t.Error("zero property ID must be rejected")
	}
	if _, err := New(shared.NewID(), "", access.StatusBuyer, access.PermissionViewer, shared.NewID()); err == nil {
		t.Error("empty email must be rejected")
	}
	if _, err := New(shared.NewID(), "a@b.c", "landlord", access.PermissionViewer, shared.NewID()); err == nil {
		t.Error("invalid status must be rejected")
	}
}

func TestAcceptDeclineLifecycle(t *testing.T) {
	now := time.Now().UTC()

	inv := newTestInvitation(t)
	if err := inv.Accept(now); err != nil {
		t.Fatalf("Accept() failed: %v", err)
	}
	if inv.State() != StateAccepted || inv.ResolvedAt() == nil {
		t.Error("accepted invitation must record state and resolution time")
	}
	if err := inv.Decline(now); err == nil {
		t.Error("declining an accepted invitation must fail")
	}

	inv = newTestInvitation(t)
	if err := inv.Decline(now); err != nil {
		t.Fatalf("Decline() failed: %v", err)
	}
	if err := inv.Accept(now); err == nil {
		t.Error("accepting a declined invitation must fail")
	}
}

func TestExpiry(t *testing.T) {
	inv := newTestInvitation(t)
	late := time.Now().UTC().Add(DefaultExpiry + time.Hour)

	if inv.IsPending(late) {
		t.Error("invitation past expiry must not be pending")
	}
	if got := inv.EffectiveState(late); got != StateExpired {
		t.Errorf("EffectiveState past expiry = %q, want expired", got)
	}
	if err := inv.Accept(late); err == nil {
		t.Error("accepting an expired invitation must fail")
	}
	// Stored state is still pending until the sweeper runs.
	if inv.State() != StatePending {
		t.Errorf("stored state = %q, want pending", inv.State())
	}
	if err := inv.MarkExpired(late); err != nil {
		t.Fatalf("MarkExpired() failed: %v", err)
	}
	if inv.State() != StateExpired {
		t.Errorf("stored state after sweep = %q, want expired", inv.State())
	}
}

func TestRevoke(t *testing.T) {
	now := time.Now().UTC()
	inv := newTestInvitation(t)

	if err := inv.Revoke(now); err != nil {
		t.Fatalf("Revoke() failed: %v", err)
	}
	if err := inv.Accept(now); err == nil {
		t.Error("accepting a revoked invitation must fail")
	}
}
