package engine

import (
	"context"
	"fmt"

	"contracts-app/internal/domain/access"
	"contracts-app/internal/domain/apperr"
	"contracts-app/internal/domain/chat"
	"contracts-app/internal/domain/contracts"
	"contracts-app/internal/domain/deliverables"
	"contracts-app/internal/domain/events"
	"contracts-app/internal/domain/party"
	"contracts-app/internal/domain/versions"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

const (
	DefaultEventLimit = 100
	MaxEventLimit     = 500

	// OverviewChatLimit is how many of the latest chat messages an overview carries.
	OverviewChatLimit = 50
)

// read is the query-side twin of write: a span and error logging, no transaction.
func (e *Engine) read(ctx context.Context, op, contractID string, fn func(db *gorm.DB) error) error {
	ctx, span := e.tracer.Start(ctx, "engine."+op, trace.WithAttributes(attribute.String("contract.id", contractID)))
	defer span.End()

	err := fn(e.db.WithContext(ctx))
	if err != nil && apperr.KindOf(err) == "" {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		e.log.Error("read failed", "op", op, "contract_id", contractID, "error", err)
	}
	return err
}

// ListContracts returns the contracts where userID holds role, newest
// first. An empty role lists both sides.
func (e *Engine) ListContracts(ctx context.Context, userID uint, role party.Role) ([]contracts.Contract, error) {
	var out []contracts.Contract
	err := e.read(ctx, "ListContracts", "", func(db *gorm.DB) error {
		q := db.Model(&contracts.Contract{})
		switch role {
		case party.Brand:
			q = q.Where("brand_id = ?", userID)
		case party.Creator:
			q = q.Where("creator_id = ?", userID)
		case "":
			q = q.Where("brand_id = ? OR creator_id = ?", userID, userID)
		default:
			return apperr.New(apperr.InvalidInput, "unknown role %q", role)
		}
		if err := q.Order("created_at DESC").Order("id").Find(&out).Error; err != nil {
			return fmt.Errorf("list contracts: %w", err)
		}
		return nil
	})
	if out == nil {
		out = []contracts.Contract{}
	}
	return out, err
}

func loadThread(db *gorm.DB, c *contracts.Contract) error {
	if err := db.Where("contract_id = ?", c.ID).Order("created_at ASC").Order("id").Find(&c.Thread).Error; err != nil {
		return fmt.Errorf("load thread: %w", err)
	}
	return nil
}

// GetContract returns the contract with its negotiation thread.
func (e *Engine) GetContract(ctx context.Context, contractID string, caller Caller) (*contracts.Contract, error) {
	var out *contracts.Contract
	err := e.read(ctx, "GetContract", contractID, func(db *gorm.DB) error {
		c, err := loadContract(db, contractID, caller, false)
		if err != nil {
			return err
		}
		if err := loadThread(db, c); err != nil {
			return err
		}
		out = c
		return nil
	})
	return out, err
}

func findList(db *gorm.DB, contractID string) (*deliverables.List, error) {
	var lists []deliverables.List
	if err := db.Preload("Items", orderedItems).Where("contract_id = ?", contractID).Limit(1).Find(&lists).Error; err != nil {
		return nil, fmt.Errorf("load deliverables list: %w", err)
	}
	if len(lists) == 0 {
		// not created yet: an empty, unapproved list
		return &deliverables.List{ContractID: contractID, Items: []deliverables.Deliverable{}}, nil
	}
	if lists[0].Items == nil {
		lists[0].Items = []deliverables.Deliverable{}
	}
	return &lists[0], nil
}

func (e *Engine) ListDeliverables(ctx context.Context, contractID string, caller Caller) (*deliverables.List, error) {
	var out *deliverables.List
	err := e.read(ctx, "ListDeliverables", contractID, func(db *gorm.DB) error {
		c, err := loadContract(db, contractID, caller, false)
		if err != nil {
			return err
		}
		out, err = findList(db, c.ID)
		return err
	})
	return out, err
}

func findVersions(db *gorm.DB, contractID string) ([]versions.Version, error) {
	out := []versions.Version{}
	if err := db.Where("contract_id = ?", contractID).Order("version_number ASC").Find(&out).Error; err != nil {
		return nil, fmt.Errorf("list versions: %w", err)
	}
	return out, nil
}

// ListVersions returns the version history, oldest first.
func (e *Engine) ListVersions(ctx context.Context, contractID string, caller Caller) ([]versions.Version, error) {
	var out []versions.Version
	err := e.read(ctx, "ListVersions", contractID, func(db *gorm.DB) error {
		c, err := loadContract(db, contractID, caller, false)
		if err != nil {
			return err
		}
		out, err = findVersions(db, c.ID)
		return err
	})
	return out, err
}

// ListChatMessages returns the whole chat in posting order.
func (e *Engine) ListChatMessages(ctx context.Context, contractID string, caller Caller) ([]chat.Message, error) {
	out := []chat.Message{}
	err := e.read(ctx, "ListChatMessages", contractID, func(db *gorm.DB) error {
		c, err := loadContract(db, contractID, caller, false)
		if err != nil {
			return err
		}
		if err := db.Where("contract_id = ?", c.ID).Order("created_at ASC").Order("id").Find(&out).Error; err != nil {
			return fmt.Errorf("list chat: %w", err)
		}
		return nil
	})
	return out, err
}

func clampLimit(limit int) int {
	switch {
	case limit <= 0:
		return DefaultEventLimit
	case limit > MaxEventLimit:
		return MaxEventLimit
	}
	return limit
}

// ListEvents returns the contract's transitions with seq > afterSeq.
func (e *Engine) ListEvents(ctx context.Context, contractID string, caller Caller, afterSeq uint64, limit int) ([]events.Event, error) {
	out := []events.Event{}
	err := e.read(ctx, "ListEvents", contractID, func(db *gorm.DB) error {
		c, err := loadContract(db, contractID, caller, false)
		if err != nil {
			return err
		}
		if err := db.Where("contract_id = ? AND seq > ?", c.ID, afterSeq).
			Order("seq ASC").Limit(clampLimit(limit)).Find(&out).Error; err != nil {
			return fmt.Errorf("list events: %w", err)
		}
		return nil
	})
	return out, err
}

// Feed is the cross-contract event log for internal consumers.
func (e *Engine) Feed(ctx context.Context, afterSeq uint64, limit int) ([]events.Event, error) {
	out := []events.Event{}
	err := e.read(ctx, "Feed", "", func(db *gorm.DB) error {
		if err := db.Where("seq > ?", afterSeq).Order("seq ASC").Limit(clampLimit(limit)).Find(&out).Error; err != nil {
			return fmt.Errorf("read feed: %w", err)
		}
		return nil
	})
	return out, err
}

type Overview struct {
	Contract       *contracts.Contract
	Deliverables   *deliverables.List
	Versions       []versions.Version
	CurrentVersion *versions.Version
	Chat           []chat.Message
	Capabilities   []access.Capability
}

// Overview authorizes once, then loads the sub-records concurrently.
func (e *Engine) Overview(ctx context.Context, contractID string, caller Caller) (*Overview, error) {
	var out *Overview
	err := e.read(ctx, "Overview", contractID, func(db *gorm.DB) error {
		c, err := loadContract(db, contractID, caller, false)
		if err != nil {
			return err
		}
		ov := &Overview{Contract: c}

		g, gctx := errgroup.WithContext(db.Statement.Context)
		g.Go(func() error {
			return loadThread(db.WithContext(gctx), c)
		})
		g.Go(func() error {
			l, err := findList(db.WithContext(gctx), c.ID)
			ov.Deliverables = l
			return err
		})
		g.Go(func() error {
			vs, err := findVersions(db.WithContext(gctx), c.ID)
			ov.Versions = vs
			return err
		})
		g.Go(func() error {
			var msgs []chat.Message
			if err := db.WithContext(gctx).Where("contract_id = ?", c.ID).
				Order("created_at DESC").Order("id DESC").Limit(OverviewChatLimit).
				Find(&msgs).Error; err != nil {
				return fmt.Errorf("latest chat: %w", err)
			}
			ov.Chat = make([]chat.Message, 0, len(msgs))
			for i := len(msgs) - 1; i >= 0; i-- {
				ov.Chat = append(ov.Chat, msgs[i])
			}
			return nil
		})
		if err := g.Wait(); err != nil {
			return err
		}

		for i := range ov.Versions {
			if ov.Versions[i].IsCurrent {
				ov.CurrentVersion = &ov.Versions[i]
			}
		}
		ov.Capabilities = access.CapabilitiesFor(caller.Role, access.State{
			Contract:          c,
			List:              ov.Deliverables,
			HasCurrentVersion: ov.CurrentVersion != nil,
		})
		out = ov
		return nil
	})
	return out, err
}
