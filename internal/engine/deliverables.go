package engine

import (
	"context"
	"errors"
	"fmt"
	"time"

	"contracts-app/internal/domain/apperr"
	"contracts-app/internal/domain/approval"
	"contracts-app/internal/domain/deliverables"
	"contracts-app/internal/domain/events"
	"contracts-app/internal/domain/party"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

func orderedItems(db *gorm.DB) *gorm.DB {
	return db.Order("position ASC")
}

// lockList loads the contract's list with its items under an exclusive
// lock. It returns (nil, nil) when the brand has not created one yet.
func lockList(tx *gorm.DB, contractID string) (*deliverables.List, error) {
	var l deliverables.List
	err := lockForUpdate(tx).
		Preload("Items", orderedItems).
		Where("contract_id = ?", contractID).
		Take(&l).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load deliverables list: %w", err)
	}
	return &l, nil
}

// CreateOrReplaceList sets the list structure. Brand only, and only while
// the list is not approved by both parties.
func (e *Engine) CreateOrReplaceList(ctx context.Context, contractID string, caller Caller, items []deliverables.ItemInput) (*deliverables.List, error) {
	var out *deliverables.List
	err := e.write(ctx, "CreateOrReplaceList", contractID, caller, func(tx *gorm.DB, now time.Time) error {
		c, err := loadContract(tx, contractID, caller, false)
		if err != nil {
			return err
		}
		if caller.Role != party.Brand {
			return apperr.New(apperr.RoleMismatch, "only the brand edits the deliverables list")
		}

		// first writer creates the aggregate; concurrent creators converge on it
		seed := deliverables.List{ID: uuid.NewString(), ContractID: c.ID, CreatedAt: now, UpdatedAt: now}
		if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&seed).Error; err != nil {
			return fmt.Errorf("create deliverables list: %w", err)
		}
		l, err := lockList(tx, c.ID)
		if err != nil {
			return err
		}
		if l == nil {
			return fmt.Errorf("deliverables list for %s vanished", c.ID)
		}

		kept, dropped, err := l.Replace(items, now)
		if err != nil {
			return err
		}

		if len(dropped) > 0 {
			if err := tx.Where("list_id = ? AND id IN ?", l.ID, dropped).Delete(&deliverables.Deliverable{}).Error; err != nil {
				return fmt.Errorf("drop deliverables: %w", err)
			}
		}
		for _, d := range kept {
			if err := tx.Model(&deliverables.Deliverable{}).Where("id = ?", d.ID).Update("position", d.Position).Error; err != nil {
				return fmt.Errorf("reorder deliverables: %w", err)
			}
		}
		added := l.Items[len(kept):]
		if err := tx.Create(&added).Error; err != nil {
			return fmt.Errorf("insert deliverables: %w", err)
		}
		if err := tx.Model(&deliverables.List{}).Where("id = ?", l.ID).Updates(map[string]interface{}{
			"brand_approval":   false,
			"creator_approval": false,
			"updated_at":       now,
		}).Error; err != nil {
			return fmt.Errorf("reset list approval: %w", err)
		}
		l.UpdatedAt = now

		if err := appendEvent(tx, events.New(c.ID, events.DeliverablesReplaced, caller.Role, map[string]interface{}{
			"list_id": l.ID,
			"items":   len(l.Items),
			"kept":    len(kept),
			"dropped": len(dropped),
		}, now)); err != nil {
			return err
		}
		out = l
		return nil
	})
	return out, err
}

// ApproveList records the caller's list-level vote; approve=false revokes
// an earlier approval and reopens the list.
func (e *Engine) ApproveList(ctx context.Context, contractID string, caller Caller, approve bool) (*deliverables.List, error) {
	var out *deliverables.List
	err := e.write(ctx, "ApproveList", contractID, caller, func(tx *gorm.DB, now time.Time) error {
		c, err := loadContract(tx, contractID, caller, false)
		if err != nil {
			return err
		}
		l, err := lockList(tx, c.ID)
		if err != nil {
			return err
		}
		if l == nil {
			return apperr.New(apperr.InvalidState, "no deliverables list yet")
		}

		before := l.Gate
		outcome, err := l.Vote(caller.Role, approve)
		if err != nil {
			return err
		}
		if err := casUpdate(tx, &deliverables.List{}, map[string]interface{}{
			"brand_approval":   l.BrandApproval,
			"creator_approval": l.CreatorApproval,
			"updated_at":       now,
		}, "id = ? AND brand_approval = ? AND creator_approval = ?", l.ID, before.BrandApproval, before.CreatorApproval); err != nil {
			return err
		}
		l.UpdatedAt = now

		typ := events.DeliverablesVoted
		switch outcome {
		case approval.Committed:
			typ = events.DeliverablesApproved
		case approval.Revoked:
			typ = events.DeliverablesRevoked
		}
		if err := appendEvent(tx, events.New(c.ID, typ, caller.Role, map[string]interface{}{"list_id": l.ID}, now)); err != nil {
			return err
		}
		out = l
		return nil
	})
	return out, err
}

// itemForWork checks the list gate under a shared lock and returns the
// deliverable locked for update.
func itemForWork(tx *gorm.DB, contractID, deliverableID string) (*deliverables.Deliverable, error) {
	var l deliverables.List
	err := lockForShare(tx).Where("contract_id = ?", contractID).Take(&l).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return nil, apperr.New(apperr.ListNotApproved, "no deliverables list yet")
	case err != nil:
		return nil, fmt.Errorf("load deliverables list: %w", err)
	}
	if err := l.RequireApproved(); err != nil {
		return nil, err
	}

	if !validID(deliverableID) {
		return nil, apperr.New(apperr.NotFound, "deliverable %q not found", deliverableID)
	}
	var d deliverables.Deliverable
	err = lockForUpdate(tx).Where("id = ? AND contract_id = ?", deliverableID, contractID).Take(&d).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.New(apperr.NotFound, "deliverable %s not found", deliverableID)
	}
	if err != nil {
		return nil, fmt.Errorf("load deliverable: %w", err)
	}
	return &d, nil
}

func (e *Engine) SubmitDeliverable(ctx context.Context, contractID, deliverableID string, caller Caller, url string) (*deliverables.Deliverable, error) {
	var out *deliverables.Deliverable
	err := e.write(ctx, "SubmitDeliverable", contractID, caller, func(tx *gorm.DB, now time.Time) error {
		c, err := loadContract(tx, contractID, caller, false)
		if err != nil {
			return err
		}
		if caller.Role != party.Creator {
			return apperr.New(apperr.RoleMismatch, "only the creator submits deliverables")
		}
		d, err := itemForWork(tx, c.ID, deliverableID)
		if err != nil {
			return err
		}

		from := d.Status
		if err := d.Submit(url, now); err != nil {
			return err
		}
		if err := casUpdate(tx, &deliverables.Deliverable{}, map[string]interface{}{
			"status":         d.Status,
			"submission_url": *d.SubmissionURL,
			"submitted_at":   now,
			"updated_at":     now,
		}, "id = ? AND status = ?", d.ID, from); err != nil {
			return err
		}
		d.UpdatedAt = now

		if err := appendEvent(tx, events.New(c.ID, events.DeliverableSubmitted, caller.Role, map[string]interface{}{
			"deliverable_id": d.ID,
			"submission_url": *d.SubmissionURL,
		}, now)); err != nil {
			return err
		}
		out = d
		return nil
	})
	return out, err
}

type Review struct {
	Approve         bool
	Comment         string
	RejectionReason string
}

func (e *Engine) ReviewDeliverable(ctx context.Context, contractID, deliverableID string, caller Caller, r Review) (*deliverables.Deliverable, error) {
	var out *deliverables.Deliverable
	err := e.write(ctx, "ReviewDeliverable", contractID, caller, func(tx *gorm.DB, now time.Time) error {
		c, err := loadContract(tx, contractID, caller, false)
		if err != nil {
			return err
		}
		if caller.Role != party.Brand {
			return apperr.New(apperr.RoleMismatch, "only the brand reviews deliverables")
		}
		d, err := itemForWork(tx, c.ID, deliverableID)
		if err != nil {
			return err
		}

		if err := d.Review(r.Approve, r.Comment, r.RejectionReason, now); err != nil {
			return err
		}
		if err := casUpdate(tx, &deliverables.Deliverable{}, map[string]interface{}{
			"status":           d.Status,
			"review_comment":   d.ReviewComment,
			"rejection_reason": d.RejectionReason,
			"reviewed_at":      now,
			"updated_at":       now,
		}, "id = ? AND status = ?", d.ID, deliverables.StatusUnderReview); err != nil {
			return err
		}
		d.UpdatedAt = now

		typ := events.DeliverableCompleted
		payload := map[string]interface{}{"deliverable_id": d.ID}
		if !r.Approve {
			typ = events.DeliverableRejected
			payload["rejection_reason"] = *d.RejectionReason
		}
		if err := appendEvent(tx, events.New(c.ID, typ, caller.Role, payload, now)); err != nil {
			return err
		}
		out = d
		return nil
	})
	return out, err
}
