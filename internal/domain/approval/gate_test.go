package approval

import (
	"errors"
	"testing"

	"contracts-app/internal/domain/apperr"
	"contracts-app/internal/domain/party"
)

func TestVoteCommitsOnlyWithBothSlots(t *testing.T) {
	var g Gate

	out, err := g.Vote(party.Brand, true, RejectIsFinal)
	if err != nil || out != Open {
		t.Fatalf("first approval: out=%v err=%v", out, err)
	}
	if g.Complete() {
		t.Fatalf("gate should not be complete with one slot")
	}

	out, err = g.Vote(party.Creator, true, RejectIsFinal)
	if err != nil || out != Committed {
		t.Fatalf("second approval: out=%v err=%v", out, err)
	}
	if !g.Complete() {
		t.Fatalf("gate should be complete")
	}
}

func TestVoteDuplicateApproval(t *testing.T) {
	g := Gate{BrandApproval: true}
	_, err := g.Vote(party.Brand, true, RejectIsFinal)
	if !errors.Is(err, apperr.ErrAlreadyApproved) {
		t.Fatalf("expected AlreadyApproved, got %v", err)
	}
}

func TestRejectIsFinalIgnoresOtherSlot(t *testing.T) {
	g := Gate{BrandApproval: true}
	out, err := g.Vote(party.Creator, false, RejectIsFinal)
	if err != nil || out != Rejected {
		t.Fatalf("out=%v err=%v", out, err)
	}
}

func TestRejectRevokes(t *testing.T) {
	g := Gate{BrandApproval: true, CreatorApproval: true}

	out, err := g.Vote(party.Creator, false, RejectRevokes)
	if err != nil || out != Revoked {
		t.Fatalf("out=%v err=%v", out, err)
	}
	if g.CreatorApproval || !g.BrandApproval {
		t.Fatalf("only the creator slot should be cleared: %+v", g)
	}

	_, err = g.Vote(party.Creator, false, RejectRevokes)
	if !errors.Is(err, apperr.ErrInvalidState) {
		t.Fatalf("revoking twice should fail with InvalidState, got %v", err)
	}
}

func TestVoteUnknownRole(t *testing.T) {
	var g Gate
	if _, err := g.Vote(party.Role("admin"), true, RejectIsFinal); !errors.Is(err, apperr.ErrRoleMismatch) {
		t.Fatalf("expected RoleMismatch, got %v", err)
	}
	if g.BrandApproval || g.CreatorApproval {
		t.Fatalf("gate must be untouched")
	}
}
