package deliverables

import (
	"errors"
	"testing"
	"time"

	"contracts-app/internal/domain/apperr"
	"contracts-app/internal/domain/approval"
	"contracts-app/internal/domain/party"
)

var t0 = time.Date(2026, 4, 2, 9, 0, 0, 0, time.UTC)

func TestReplaceValidatesAndResetsGate(t *testing.T) {
	l := &List{ID: "l1", ContractID: "c1", Gate: approval.Gate{BrandApproval: true}}

	if _, _, err := l.Replace(nil, t0); !errors.Is(err, apperr.ErrInvalidInput) {
		t.Fatalf("empty list: %v", err)
	}
	if _, _, err := l.Replace([]ItemInput{{Description: "Reel"}, {Description: "  "}}, t0); !errors.Is(err, apperr.ErrInvalidInput) {
		t.Fatalf("blank description: %v", err)
	}
	if !l.BrandApproval {
		t.Fatalf("a failed replace must not touch the gate")
	}

	due := t0.AddDate(0, 0, 14)
	if _, _, err := l.Replace([]ItemInput{{Description: "Reel"}, {Description: "Story", DueDate: &due}}, t0); err != nil {
		t.Fatalf("replace: %v", err)
	}
	if l.BrandApproval || l.CreatorApproval {
		t.Fatalf("replace must reset both approvals")
	}
	if len(l.Items) != 2 || l.Items[1].Position != 1 || l.Items[1].DueDate == nil {
		t.Fatalf("unexpected items %+v", l.Items)
	}
	for _, d := range l.Items {
		if d.Status != StatusNotStarted || d.ListID != "l1" || d.ContractID != "c1" || d.ID == "" {
			t.Fatalf("unexpected item %+v", d)
		}
	}
}

func TestReplaceFrozenOnceApproved(t *testing.T) {
	l := &List{Items: []Deliverable{{ID: "d1", Description: "Reel", Status: StatusNotStarted}}}
	if _, err := l.Vote(party.Brand, true); err != nil {
		t.Fatal(err)
	}
	out, err := l.Vote(party.Creator, true)
	if err != nil || out != approval.Committed {
		t.Fatalf("out=%v err=%v", out, err)
	}
	if _, _, err := l.Replace([]ItemInput{{Description: "Other"}}, t0); !errors.Is(err, apperr.ErrListFrozen) {
		t.Fatalf("expected ListFrozen, got %v", err)
	}

	if out, err := l.Vote(party.Brand, false); err != nil || out != approval.Revoked {
		t.Fatalf("revoke: out=%v err=%v", out, err)
	}
	if _, _, err := l.Replace([]ItemInput{{Description: "Other"}}, t0); err != nil {
		t.Fatalf("replace after revoke: %v", err)
	}
}

func TestReplaceKeepsCompletedItems(t *testing.T) {
	l := &List{ID: "l1", Items: []Deliverable{
		{ID: "a", Description: "Reel", Status: StatusCompleted, Position: 0},
		{ID: "b", Description: "Story", Status: StatusUnderReview, Position: 1},
		{ID: "c", Description: "Post", Status: StatusCompleted, Position: 2},
	}}
	kept, dropped, err := l.Replace([]ItemInput{{Description: "Live"}}, t0)
	if err != nil {
		t.Fatal(err)
	}
	if len(kept) != 2 || kept[0].ID != "a" || kept[1].ID != "c" || kept[1].Position != 1 {
		t.Fatalf("unexpected kept %+v", kept)
	}
	if len(dropped) != 1 || dropped[0] != "b" {
		t.Fatalf("unexpected dropped %v", dropped)
	}
	if len(l.Items) != 3 || l.Items[2].Description != "Live" || l.Items[2].Position != 2 {
		t.Fatalf("unexpected items %+v", l.Items)
	}
}

func TestVoteOnEmptyList(t *testing.T) {
	l := &List{}
	if _, err := l.Vote(party.Brand, true); !errors.Is(err, apperr.ErrInvalidState) {
		t.Fatalf("expected InvalidState, got %v", err)
	}
}

func TestRequireApproved(t *testing.T) {
	var nilList *List
	if err := nilList.RequireApproved(); !errors.Is(err, apperr.ErrListNotApproved) {
		t.Fatalf("nil list: %v", err)
	}
	l := &List{Gate: approval.Gate{BrandApproval: true}}
	if err := l.RequireApproved(); !errors.Is(err, apperr.ErrListNotApproved) {
		t.Fatalf("half approved: %v", err)
	}
	l.CreatorApproval = true
	if err := l.RequireApproved(); err != nil {
		t.Fatalf("approved: %v", err)
	}
}

func TestSubmitReviewCycle(t *testing.T) {
	d := &Deliverable{ID: "d1", Status: StatusNotStarted}

	if err := d.Review(true, "", "", t0); !errors.Is(err, apperr.ErrInvalidState) {
		t.Fatalf("review before submit: %v", err)
	}
	if err := d.Submit("ftp://nope", t0); !errors.Is(err, apperr.ErrInvalidInput) {
		t.Fatalf("bad url: %v", err)
	}
	if err := d.Submit("https://cdn.example.com/v1.mp4", t0); err != nil {
		t.Fatal(err)
	}
	if d.Status != StatusUnderReview || *d.SubmissionURL != "https://cdn.example.com/v1.mp4" {
		t.Fatalf("unexpected %+v", d)
	}
	if err := d.Submit("https://cdn.example.com/v2.mp4", t0); !errors.Is(err, apperr.ErrInvalidState) {
		t.Fatalf("double submit: %v", err)
	}

	if err := d.Review(false, "", "  ", t0); !errors.Is(err, apperr.ErrMissingReason) {
		t.Fatalf("reject without reason: %v", err)
	}
	if d.Status != StatusUnderReview {
		t.Fatalf("failed review must not change status")
	}
	if err := d.Review(false, "see notes", "wrong format", t0); err != nil {
		t.Fatal(err)
	}
	if d.Status != StatusRejected || *d.RejectionReason != "wrong format" || *d.SubmissionURL != "https://cdn.example.com/v1.mp4" {
		t.Fatalf("unexpected %+v", d)
	}

	if err := d.Submit("https://cdn.example.com/v2.mp4", t0); err != nil {
		t.Fatalf("resubmit: %v", err)
	}
	if err := d.Review(true, "great", "", t0); err != nil {
		t.Fatal(err)
	}
	if d.Status != StatusCompleted || *d.ReviewComment != "great" {
		t.Fatalf("unexpected %+v", d)
	}

	if err := d.Submit("https://cdn.example.com/v3.mp4", t0); !errors.Is(err, apperr.ErrInvalidState) {
		t.Fatalf("submit after completion: %v", err)
	}
	if err := d.Review(false, "", "late change", t0); !errors.Is(err, apperr.ErrInvalidState) {
		t.Fatalf("review after completion: %v", err)
	}
}
