package engine

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"contracts-app/internal/domain/apperr"
	"contracts-app/internal/domain/contracts"
	"contracts-app/internal/domain/events"
	"contracts-app/internal/domain/party"
	"contracts-app/internal/domain/versions"

	"gorm.io/gorm"
)

// CreateContract opens a contract from a concluded negotiation. One
// contract per proposal.
func (e *Engine) CreateContract(ctx context.Context, in contracts.NewContract) (*contracts.Contract, error) {
	var out *contracts.Contract
	err := e.write(ctx, "CreateContract", "", Caller{}, func(tx *gorm.DB, now time.Time) error {
		c, err := in.Build(now)
		if err != nil {
			return err
		}

		var n int64
		if err := tx.Model(&contracts.Contract{}).Where("proposal_id = ?", c.ProposalID).Count(&n).Error; err != nil {
			return fmt.Errorf("check proposal: %w", err)
		}
		if n > 0 {
			return apperr.New(apperr.AlreadySet, "proposal %s already has a contract", c.ProposalID)
		}

		if err := tx.Create(c).Error; err != nil {
			return fmt.Errorf("create contract: %w", err)
		}
		if err := appendEvent(tx, events.New(c.ID, events.ContractCreated, "", map[string]interface{}{
			"proposal_id": c.ProposalID,
			"brand_id":    c.BrandID,
			"creator_id":  c.CreatorID,
		}, now)); err != nil {
			return err
		}
		out = c
		return nil
	})
	return out, err
}

// AppendThreadEntry adds to the negotiation thread. Terms are never touched;
// a terms update travels as entry metadata.
func (e *Engine) AppendThreadEntry(ctx context.Context, contractID string, caller Caller, typ contracts.EntryType, message string, metadata json.RawMessage) (*contracts.ThreadEntry, error) {
	var out *contracts.ThreadEntry
	err := e.write(ctx, "AppendThreadEntry", contractID, caller, func(tx *gorm.DB, now time.Time) error {
		c, err := loadContract(tx, contractID, caller, false)
		if err != nil {
			return err
		}
		if typ == contracts.EntryInitialMessage {
			return apperr.New(apperr.InvalidInput, "initial_message is written when the contract opens")
		}
		entry, err := contracts.NewThreadEntry(c.ID, caller.Role, typ, message, metadata, now)
		if err != nil {
			return err
		}
		if err := tx.Create(&entry).Error; err != nil {
			return fmt.Errorf("append thread entry: %w", err)
		}
		if err := appendEvent(tx, events.New(c.ID, events.ThreadEntryAppended, caller.Role, map[string]interface{}{
			"entry_id": entry.ID,
			"type":     entry.Type,
		}, now)); err != nil {
			return err
		}
		out = &entry
		return nil
	})
	return out, err
}

// handoffStep is one of the four document handoff transitions. guard is
// the SQL condition the row must still satisfy when the update lands.
type handoffStep struct {
	op        string
	apply     func(c *contracts.Contract, role party.Role) error
	guard     string
	guardArgs []interface{}
	cols      func(c *contracts.Contract) map[string]interface{}
	event     events.Type
}

var (
	stepUploadUnsigned = handoffStep{
		op:    "UploadUnsignedLink",
		guard: "unsigned_contract_link IS NULL",
		cols: func(c *contracts.Contract) map[string]interface{} {
			return map[string]interface{}{"unsigned_contract_link": *c.UnsignedContractLink}
		},
		event: events.UnsignedLinkUploaded,
	}
	stepDownloadUnsigned = handoffStep{
		op:        "DownloadUnsigned",
		apply:     func(c *contracts.Contract, role party.Role) error { return c.RecordUnsignedDownload(role) },
		guard:     "unsigned_contract_downloaded_by_creator = ?",
		guardArgs: []interface{}{false},
		cols: func(c *contracts.Contract) map[string]interface{} {
			return map[string]interface{}{"unsigned_contract_downloaded_by_creator": true}
		},
		event: events.UnsignedDownloaded,
	}
	stepUploadSigned = handoffStep{
		op:    "UploadSignedLink",
		guard: "signed_contract_link IS NULL",
		cols: func(c *contracts.Contract) map[string]interface{} {
			return map[string]interface{}{"signed_contract_link": *c.SignedContractLink}
		},
		event: events.SignedLinkUploaded,
	}
	stepDownloadSigned = handoffStep{
		op:        "DownloadSigned",
		apply:     func(c *contracts.Contract, role party.Role) error { return c.RecordSignedDownload(role) },
		guard:     "signed_contract_downloaded_by_brand = ?",
		guardArgs: []interface{}{false},
		cols: func(c *contracts.Contract) map[string]interface{} {
			return map[string]interface{}{"signed_contract_downloaded_by_brand": true}
		},
		event: events.SignedDownloaded,
	}
)

func (e *Engine) UploadUnsignedLink(ctx context.Context, contractID string, caller Caller, link string) (*contracts.Contract, error) {
	step := stepUploadUnsigned
	step.apply = func(c *contracts.Contract, role party.Role) error { return c.UploadUnsignedLink(role, link) }
	return e.runHandoff(ctx, contractID, caller, step)
}

// DownloadUnsigned records that the creator fetched the unsigned document.
// The fetch itself happens outside the engine.
func (e *Engine) DownloadUnsigned(ctx context.Context, contractID string, caller Caller) (*contracts.Contract, error) {
	return e.runHandoff(ctx, contractID, caller, stepDownloadUnsigned)
}

func (e *Engine) UploadSignedLink(ctx context.Context, contractID string, caller Caller, link string) (*contracts.Contract, error) {
	step := stepUploadSigned
	step.apply = func(c *contracts.Contract, role party.Role) error { return c.UploadSignedLink(role, link) }
	return e.runHandoff(ctx, contractID, caller, step)
}

// DownloadSigned records step 4. Completing the handoff also versions the
// signed document as version 1.
func (e *Engine) DownloadSigned(ctx context.Context, contractID string, caller Caller) (*contracts.Contract, error) {
	return e.runHandoff(ctx, contractID, caller, stepDownloadSigned)
}

func (e *Engine) runHandoff(ctx context.Context, contractID string, caller Caller, step handoffStep) (*contracts.Contract, error) {
	var out *contracts.Contract
	err := e.write(ctx, step.op, contractID, caller, func(tx *gorm.DB, now time.Time) error {
		c, err := loadContract(tx, contractID, caller, true)
		if err != nil {
			return err
		}
		if err := step.apply(c, caller.Role); err != nil {
			return err
		}

		cols := step.cols(c)
		cols["updated_at"] = now
		args := append([]interface{}{c.ID}, step.guardArgs...)
		if err := casUpdate(tx, &contracts.Contract{}, cols, "id = ? AND "+step.guard, args...); err != nil {
			return err
		}
		c.UpdatedAt = now

		if err := appendEvent(tx, events.New(c.ID, step.event, caller.Role, nil, now)); err != nil {
			return err
		}
		if c.HandoffComplete() {
			if err := versionSignedDocument(tx, c, now); err != nil {
				return err
			}
		}
		out = c
		return nil
	})
	return out, err
}

// versionSignedDocument writes version 1 from the signed link unless the
// contract already has versions.
func versionSignedDocument(tx *gorm.DB, c *contracts.Contract, now time.Time) error {
	var n int64
	if err := tx.Model(&versions.Version{}).Where("contract_id = ?", c.ID).Count(&n).Error; err != nil {
		return fmt.Errorf("count versions: %w", err)
	}
	if n > 0 {
		return nil
	}
	v := versions.Initial(c.ID, *c.SignedContractLink, now)
	if err := tx.Create(v).Error; err != nil {
		return fmt.Errorf("create initial version: %w", err)
	}
	return appendEvent(tx, events.New(c.ID, events.VersionFinalized, "", map[string]interface{}{
		"version_id":     v.ID,
		"version_number": v.VersionNumber,
	}, now))
}
