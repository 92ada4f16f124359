package apperr

import (
	"errors"
	"fmt"
	"testing"
)

func TestIsMatchesByKind(t *testing.T) {
	err := New(ListFrozen, "list %s is approved by both parties", "l-1")

	if !errors.Is(err, ErrListFrozen) {
		t.Fatalf("expected errors.Is to match the ListFrozen sentinel")
	}
	if errors.Is(err, ErrListNotApproved) {
		t.Fatalf("different kinds must not match")
	}

	wrapped := fmt.Errorf("replace list: %w", err)
	if !errors.Is(wrapped, ErrListFrozen) {
		t.Fatalf("expected wrapped error to match")
	}
	if KindOf(wrapped) != ListFrozen {
		t.Fatalf("KindOf(wrapped) = %q", KindOf(wrapped))
	}
}

func TestKindOfForeignError(t *testing.T) {
	if k := KindOf(errors.New("connection refused")); k != "" {
		t.Fatalf("expected empty kind, got %q", k)
	}
}

func TestErrorString(t *testing.T) {
	if got := ErrNotFound.Error(); got != "not_found" {
		t.Fatalf("sentinel string = %q", got)
	}
	if got := New(MissingReason, "rejection needs a reason").Error(); got != "missing_reason: rejection needs a reason" {
		t.Fatalf("error string = %q", got)
	}
}
