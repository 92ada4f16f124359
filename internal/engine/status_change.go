package engine

import (
	"context"
	"time"

	"contracts-app/internal/domain/approval"
	"contracts-app/internal/domain/contracts"
	"contracts-app/internal/domain/events"

	"gorm.io/gorm"
)

// RequestStatusChange opens the single pending-request slot.
func (e *Engine) RequestStatusChange(ctx context.Context, contractID string, caller Caller, requested contracts.Status) (*contracts.Contract, error) {
	var out *contracts.Contract
	err := e.write(ctx, "RequestStatusChange", contractID, caller, func(tx *gorm.DB, now time.Time) error {
		c, err := loadContract(tx, contractID, caller, true)
		if err != nil {
			return err
		}
		if err := c.OpenStatusChange(caller.Role, requested); err != nil {
			return err
		}

		if err := casUpdate(tx, &contracts.Contract{}, map[string]interface{}{
			"pending_requested_status": *c.PendingRequestedStatus,
			"pending_requesting_party": *c.PendingRequestingParty,
			"updated_at":               now,
		}, "id = ? AND pending_requested_status IS NULL AND status = ?", c.ID, c.Status); err != nil {
			return err
		}
		c.UpdatedAt = now

		if err := appendEvent(tx, events.New(c.ID, events.StatusChangeRequested, caller.Role, map[string]interface{}{
			"from": c.Status,
			"to":   requested,
		}, now)); err != nil {
			return err
		}
		out = c
		return nil
	})
	return out, err
}

// RespondToStatusChange lets the non-requesting party settle the request.
func (e *Engine) RespondToStatusChange(ctx context.Context, contractID string, caller Caller, approve bool) (*contracts.Contract, error) {
	var out *contracts.Contract
	err := e.write(ctx, "RespondToStatusChange", contractID, caller, func(tx *gorm.DB, now time.Time) error {
		c, err := loadContract(tx, contractID, caller, true)
		if err != nil {
			return err
		}
		from := c.Status
		req := c.PendingStatusChange()
		outcome, err := c.RespondToStatusChange(caller.Role, approve)
		if err != nil {
			return err
		}

		if err := casUpdate(tx, &contracts.Contract{}, map[string]interface{}{
			"status":                   c.Status,
			"pending_requested_status": nil,
			"pending_requesting_party": nil,
			"updated_at":               now,
		}, "id = ? AND status = ? AND pending_requested_status = ? AND pending_requesting_party = ?",
			c.ID, from, req.RequestedStatus, req.RequestingParty); err != nil {
			return err
		}
		c.UpdatedAt = now

		typ := events.StatusChangeDenied
		if outcome == approval.Committed {
			typ = events.StatusCommitted
		}
		if err := appendEvent(tx, events.New(c.ID, typ, caller.Role, map[string]interface{}{
			"from":             from,
			"requested":        req.RequestedStatus,
			"requesting_party": req.RequestingParty,
		}, now)); err != nil {
			return err
		}
		out = c
		return nil
	})
	return out, err
}
