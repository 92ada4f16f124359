package contracts

import (
	"contracts-app/internal/domain/apperr"
	"contracts-app/internal/domain/approval"
	"contracts-app/internal/domain/party"
)

type StatusChangeRequest struct {
	RequestedStatus Status     `json:"requested_status"`
	RequestingParty party.Role `json:"requesting_party"`
}

func (c *Contract) PendingStatusChange() *StatusChangeRequest {
	if c.PendingRequestedStatus == nil || c.PendingRequestingParty == nil {
		return nil
	}
	return &StatusChangeRequest{
		RequestedStatus: *c.PendingRequestedStatus,
		RequestingParty: *c.PendingRequestingParty,
	}
}

// OpenStatusChange records a request by role. Opening counts as the
// requester's approval; the counterparty's answer decides it.
func (c *Contract) OpenStatusChange(role party.Role, requested Status) error {
	if !role.Valid() {
		return apperr.New(apperr.RoleMismatch, "unknown role %q", role)
	}
	if !c.HandoffComplete() {
		return apperr.New(apperr.WorkflowIncomplete, "document handoff is not finished")
	}
	if c.PendingStatusChange() != nil {
		return apperr.New(apperr.RequestAlreadyPending, "waiting for the other party to respond")
	}
	if !requested.Valid() || requested == StatusNegotiating {
		return apperr.New(apperr.InvalidInput, "status %q cannot be requested", requested)
	}
	if requested == c.Status {
		return apperr.New(apperr.InvalidInput, "contract is already %s", requested)
	}
	if c.Status.Terminal() {
		return apperr.New(apperr.InvalidState, "contract is %s", c.Status)
	}
	if !CanTransition(c.Status, requested) {
		return apperr.New(apperr.InvalidState, "cannot move from %s to %s", c.Status, requested)
	}

	st, r := requested, role
	c.PendingRequestedStatus = &st
	c.PendingRequestingParty = &r
	return nil
}

// RespondToStatusChange settles the pending request. The slot is cleared
// either way; the status only moves on Committed.
func (c *Contract) RespondToStatusChange(role party.Role, approve bool) (approval.Outcome, error) {
	req := c.PendingStatusChange()
	if req == nil {
		return approval.Open, apperr.New(apperr.NoPendingRequest, "no status change is pending")
	}
	if role == req.RequestingParty {
		return approval.Open, apperr.New(apperr.SelfResponseForbidden, "the requesting party cannot answer its own request")
	}

	var g approval.Gate
	if _, err := g.Vote(req.RequestingParty, true, approval.RejectIsFinal); err != nil {
		return approval.Open, err
	}
	out, err := g.Vote(role, approve, approval.RejectIsFinal)
	if err != nil {
		return approval.Open, err
	}

	if out == approval.Committed {
		c.Status = req.RequestedStatus
	}
	c.PendingRequestedStatus = nil
	c.PendingRequestingParty = nil
	return out, nil
}
