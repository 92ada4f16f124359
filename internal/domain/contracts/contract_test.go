package contracts

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"contracts-app/internal/domain/apperr"
	"contracts-app/internal/domain/approval"
	"contracts-app/internal/domain/party"
)

var t0 = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func handedOff() *Contract {
	c := &Contract{BrandID: 1, CreatorID: 2, Status: StatusNegotiating}
	must(c.UploadUnsignedLink(party.Brand, "https://files.example.com/unsigned.pdf"))
	must(c.RecordUnsignedDownload(party.Creator))
	must(c.UploadSignedLink(party.Creator, "https://files.example.com/signed.pdf"))
	must(c.RecordSignedDownload(party.Brand))
	return c
}

func must(err error) {
	if err != nil {
		panic(err)
	}
}

func TestBuildValidatesSnapshot(t *testing.T) {
	cases := []struct {
		name string
		in   NewContract
	}{
		{"missing proposal", NewContract{BrandID: 1, CreatorID: 2, Terms: json.RawMessage(`{}`)}},
		{"same party", NewContract{ProposalID: "p", BrandID: 1, CreatorID: 1, Terms: json.RawMessage(`{}`)}},
		{"terms not object", NewContract{ProposalID: "p", BrandID: 1, CreatorID: 2, Terms: json.RawMessage(`[1,2]`)}},
		{"message without sender", NewContract{ProposalID: "p", BrandID: 1, CreatorID: 2, Terms: json.RawMessage(`{}`), InitialMessage: "hi"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := tc.in.Build(t0); !errors.Is(err, apperr.ErrInvalidInput) {
				t.Fatalf("expected InvalidInput, got %v", err)
			}
		})
	}

	c, err := NewContract{
		ProposalID:     " prop-9 ",
		BrandID:        1,
		CreatorID:      2,
		Terms:          json.RawMessage(`{"fee": 1500, "currency": "EUR"}`),
		InitialMessage: "Looking forward to it",
		InitialSender:  party.Brand,
	}.Build(t0)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if c.Status != StatusNegotiating || c.ProposalID != "prop-9" {
		t.Fatalf("unexpected contract: %+v", c)
	}
	if len(c.Thread) != 1 || c.Thread[0].Type != EntryInitialMessage || c.Thread[0].ContractID != c.ID {
		t.Fatalf("expected seeded initial message, got %+v", c.Thread)
	}
}

func TestRoleOf(t *testing.T) {
	c := &Contract{BrandID: 10, CreatorID: 20}
	if r, ok := c.RoleOf(10); !ok || r != party.Brand {
		t.Fatalf("brand: %v %v", r, ok)
	}
	if r, ok := c.RoleOf(20); !ok || r != party.Creator {
		t.Fatalf("creator: %v %v", r, ok)
	}
	if _, ok := c.RoleOf(30); ok {
		t.Fatalf("stranger must not resolve")
	}
	if _, ok := c.RoleOf(0); ok {
		t.Fatalf("zero user must not resolve")
	}
}

func TestHandoffOrdering(t *testing.T) {
	c := &Contract{BrandID: 1, CreatorID: 2}

	if err := c.UploadUnsignedLink(party.Creator, "https://x.example.com/a"); !errors.Is(err, apperr.ErrRoleMismatch) {
		t.Fatalf("creator upload: %v", err)
	}
	if err := c.RecordUnsignedDownload(party.Creator); !errors.Is(err, apperr.ErrWorkflowIncomplete) {
		t.Fatalf("download before upload: %v", err)
	}
	if err := c.UploadUnsignedLink(party.Brand, "not a url"); !errors.Is(err, apperr.ErrInvalidInput) {
		t.Fatalf("bad link: %v", err)
	}
	must(c.UploadUnsignedLink(party.Brand, "https://x.example.com/a"))

	if err := c.UploadUnsignedLink(party.Brand, "https://x.example.com/b"); !errors.Is(err, apperr.ErrAlreadySet) {
		t.Fatalf("second upload: %v", err)
	}
	if *c.UnsignedContractLink != "https://x.example.com/a" {
		t.Fatalf("link changed: %s", *c.UnsignedContractLink)
	}

	if err := c.UploadSignedLink(party.Creator, "https://x.example.com/s"); !errors.Is(err, apperr.ErrWorkflowIncomplete) {
		t.Fatalf("signed before unsigned download: %v", err)
	}
	must(c.RecordUnsignedDownload(party.Creator))
	if err := c.RecordUnsignedDownload(party.Creator); !errors.Is(err, apperr.ErrAlreadySet) {
		t.Fatalf("second download: %v", err)
	}

	if err := c.RecordSignedDownload(party.Brand); !errors.Is(err, apperr.ErrWorkflowIncomplete) {
		t.Fatalf("signed download before upload: %v", err)
	}
	must(c.UploadSignedLink(party.Creator, "https://x.example.com/s"))
	if c.HandoffComplete() {
		t.Fatalf("handoff is not complete before step 4")
	}
	if err := c.RecordSignedDownload(party.Creator); !errors.Is(err, apperr.ErrRoleMismatch) {
		t.Fatalf("creator signed download: %v", err)
	}
	must(c.RecordSignedDownload(party.Brand))
	if !c.HandoffComplete() {
		t.Fatalf("handoff should be complete")
	}
}

func TestOpenStatusChange(t *testing.T) {
	fresh := &Contract{BrandID: 1, CreatorID: 2, Status: StatusNegotiating}
	if err := fresh.OpenStatusChange(party.Brand, StatusSignedAndActive); !errors.Is(err, apperr.ErrWorkflowIncomplete) {
		t.Fatalf("expected WorkflowIncomplete, got %v", err)
	}

	c := handedOff()
	if err := c.OpenStatusChange(party.Brand, StatusPaused); !errors.Is(err, apperr.ErrInvalidState) {
		t.Fatalf("negotiating -> paused: %v", err)
	}
	if err := c.OpenStatusChange(party.Brand, StatusNegotiating); !errors.Is(err, apperr.ErrInvalidInput) {
		t.Fatalf("negotiating target: %v", err)
	}
	if err := c.OpenStatusChange(party.Brand, Status("archived")); !errors.Is(err, apperr.ErrInvalidInput) {
		t.Fatalf("unknown target: %v", err)
	}

	must(c.OpenStatusChange(party.Brand, StatusSignedAndActive))
	if err := c.OpenStatusChange(party.Creator, StatusTerminated); !errors.Is(err, apperr.ErrRequestAlreadyPending) {
		t.Fatalf("second request: %v", err)
	}
	req := c.PendingStatusChange()
	if req == nil || req.RequestingParty != party.Brand || req.RequestedStatus != StatusSignedAndActive {
		t.Fatalf("unexpected pending request %+v", req)
	}
}

func TestRespondToStatusChange(t *testing.T) {
	c := handedOff()
	if _, err := c.RespondToStatusChange(party.Creator, true); !errors.Is(err, apperr.ErrNoPendingRequest) {
		t.Fatalf("expected NoPendingRequest, got %v", err)
	}

	must(c.OpenStatusChange(party.Brand, StatusSignedAndActive))
	if _, err := c.RespondToStatusChange(party.Brand, true); !errors.Is(err, apperr.ErrSelfResponseForbidden) {
		t.Fatalf("expected SelfResponseForbidden, got %v", err)
	}
	if c.PendingStatusChange() == nil {
		t.Fatalf("a forbidden response must leave the request open")
	}

	out, err := c.RespondToStatusChange(party.Creator, true)
	if err != nil || out != approval.Committed {
		t.Fatalf("approve: out=%v err=%v", out, err)
	}
	if c.Status != StatusSignedAndActive || c.PendingStatusChange() != nil {
		t.Fatalf("unexpected state: status=%s pending=%+v", c.Status, c.PendingStatusChange())
	}

	must(c.OpenStatusChange(party.Creator, StatusPaused))
	out, err = c.RespondToStatusChange(party.Brand, false)
	if err != nil || out != approval.Rejected {
		t.Fatalf("deny: out=%v err=%v", out, err)
	}
	if c.Status != StatusSignedAndActive || c.PendingStatusChange() != nil {
		t.Fatalf("deny must clear the request and keep status, got %s", c.Status)
	}
}

func TestTerminalStatusesStayTerminal(t *testing.T) {
	c := handedOff()
	c.Status = StatusTerminated
	if err := c.OpenStatusChange(party.Brand, StatusSignedAndActive); !errors.Is(err, apperr.ErrInvalidState) {
		t.Fatalf("expected InvalidState, got %v", err)
	}
}

func TestNewThreadEntry(t *testing.T) {
	if _, err := NewThreadEntry("c", party.Brand, EntryNote, "   ", nil, t0); !errors.Is(err, apperr.ErrEmptyMessage) {
		t.Fatalf("blank: %v", err)
	}
	if _, err := NewThreadEntry("c", party.Brand, EntryType("gossip"), "hi", nil, t0); !errors.Is(err, apperr.ErrInvalidInput) {
		t.Fatalf("type: %v", err)
	}
	if _, err := NewThreadEntry("c", party.Brand, EntryTermsUpdate, "hi", json.RawMessage(`{bad`), t0); !errors.Is(err, apperr.ErrInvalidInput) {
		t.Fatalf("metadata: %v", err)
	}
	e, err := NewThreadEntry("c", party.Creator, EntryTermsUpdate, " new fee ", json.RawMessage(`{"fee":2000}`), t0)
	if err != nil {
		t.Fatalf("valid entry: %v", err)
	}
	if e.Message != "new fee" || string(e.Metadata) != `{"fee":2000}` || e.SenderRole != party.Creator {
		t.Fatalf("unexpected entry %+v", e)
	}
}
