package chat

import (
	"errors"
	"strings"
	"testing"
	"time"

	"contracts-app/internal/domain/apperr"
	"contracts-app/internal/domain/party"
)

func TestNew(t *testing.T) {
	now := time.Date(2026, 6, 1, 10, 0, 0, 0, time.UTC)

	if _, err := New("c1", party.Brand, " \n\t ", now); !errors.Is(err, apperr.ErrEmptyMessage) {
		t.Fatalf("blank: %v", err)
	}
	if _, err := New("c1", party.Brand, strings.Repeat("a", MaxMessageLength+1), now); !errors.Is(err, apperr.ErrInvalidInput) {
		t.Fatalf("too long: %v", err)
	}
	if _, err := New("c1", party.Role("guest"), "hi", now); !errors.Is(err, apperr.ErrRoleMismatch) {
		t.Fatalf("role: %v", err)
	}

	m, err := New("c1", party.Creator, "  draft is up  ", now)
	if err != nil {
		t.Fatal(err)
	}
	if m.Message != "draft is up" || m.SenderRole != party.Creator || !m.CreatedAt.Equal(now) || m.ID == "" {
		t.Fatalf("unexpected message %+v", m)
	}
}
