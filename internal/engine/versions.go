package engine

import (
	"context"
	"errors"
	"fmt"
	"time"

	"contracts-app/internal/domain/apperr"
	"contracts-app/internal/domain/approval"
	"contracts-app/internal/domain/events"
	"contracts-app/internal/domain/versions"

	"gorm.io/gorm"
)

// Version numbering and the single-current pointer are serialized on the
// contract row; both operations below take it for update first.

// CreateVersion proposes an amendment. Version 1 comes from the handoff, so
// an amendment needs a current version to amend.
func (e *Engine) CreateVersion(ctx context.Context, contractID string, caller Caller, fileURL string, changeReason *string) (*versions.Version, error) {
	var out *versions.Version
	err := e.write(ctx, "CreateVersion", contractID, caller, func(tx *gorm.DB, now time.Time) error {
		c, err := loadContract(tx, contractID, caller, true)
		if err != nil {
			return err
		}

		var current int64
		if err := tx.Model(&versions.Version{}).
			Where("contract_id = ? AND is_current = ?", c.ID, true).
			Count(&current).Error; err != nil {
			return fmt.Errorf("count current versions: %w", err)
		}
		if current == 0 {
			return apperr.New(apperr.WorkflowIncomplete, "no signed version to amend yet")
		}

		var last int
		if err := tx.Model(&versions.Version{}).
			Where("contract_id = ?", c.ID).
			Select("COALESCE(MAX(version_number), 0)").
			Scan(&last).Error; err != nil {
			return fmt.Errorf("max version number: %w", err)
		}

		v, err := versions.Amendment(c.ID, last+1, caller.Role, fileURL, changeReason, now)
		if err != nil {
			return err
		}
		if err := tx.Create(v).Error; err != nil {
			return fmt.Errorf("create version: %w", err)
		}

		if err := appendEvent(tx, events.New(c.ID, events.VersionCreated, caller.Role, map[string]interface{}{
			"version_id":     v.ID,
			"version_number": v.VersionNumber,
		}, now)); err != nil {
			return err
		}
		out = v
		return nil
	})
	return out, err
}

// ApproveVersion records one party's vote on a pending version. The second
// approval finalizes it and moves the current pointer; any rejection is final.
func (e *Engine) ApproveVersion(ctx context.Context, contractID, versionID string, caller Caller, approve bool) (*versions.Version, error) {
	var out *versions.Version
	err := e.write(ctx, "ApproveVersion", contractID, caller, func(tx *gorm.DB, now time.Time) error {
		c, err := loadContract(tx, contractID, caller, true)
		if err != nil {
			return err
		}
		if !validID(versionID) {
			return apperr.New(apperr.NotFound, "version %q not found", versionID)
		}
		var v versions.Version
		err = lockForUpdate(tx).Where("id = ? AND contract_id = ?", versionID, c.ID).Take(&v).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.New(apperr.NotFound, "version %s not found", versionID)
		}
		if err != nil {
			return fmt.Errorf("load version: %w", err)
		}

		before := v.Gate
		outcome, err := v.Vote(caller.Role, approve, now)
		if err != nil {
			return err
		}

		if outcome == approval.Committed {
			if err := tx.Model(&versions.Version{}).
				Where("contract_id = ? AND is_current = ? AND id <> ?", c.ID, true, v.ID).
				Updates(map[string]interface{}{"is_current": false, "updated_at": now}).Error; err != nil {
				return fmt.Errorf("clear current version: %w", err)
			}
		}
		if err := casUpdate(tx, &versions.Version{}, map[string]interface{}{
			"status":           v.Status,
			"is_current":       v.IsCurrent,
			"brand_approval":   v.BrandApproval,
			"creator_approval": v.CreatorApproval,
			"finalized_at":     v.FinalizedAt,
			"rejected_by":      v.RejectedBy,
			"updated_at":       now,
		}, "id = ? AND status = ? AND brand_approval = ? AND creator_approval = ?",
			v.ID, versions.StatusPending, before.BrandApproval, before.CreatorApproval); err != nil {
			return err
		}
		v.UpdatedAt = now

		typ := events.VersionVoted
		switch outcome {
		case approval.Committed:
			typ = events.VersionFinalized
		case approval.Rejected:
			typ = events.VersionRejected
		}
		if err := appendEvent(tx, events.New(c.ID, typ, caller.Role, map[string]interface{}{
			"version_id":     v.ID,
			"version_number": v.VersionNumber,
		}, now)); err != nil {
			return err
		}
		out = &v
		return nil
	})
	return out, err
}
