// Package engine applies contract lifecycle commands. Every write is one
// database transaction: load and lock the aggregate, run the domain rule,
// persist with a compare-and-set update, append the transition event.
package engine

import (
	"context"
	"errors"
	"fmt"
	"time"

	"contracts-app/internal/domain/apperr"
	"contracts-app/internal/domain/contracts"
	"contracts-app/internal/domain/events"
	"contracts-app/internal/domain/party"
	"contracts-app/internal/platform/logger"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Caller is the resolved identity of whoever issues a command. The role is
// supplied by the identity resolver, never by client input.
type Caller struct {
	UserID uint
	Role   party.Role
}

type Engine struct {
	db     *gorm.DB
	log    *logger.Logger
	now    func() time.Time
	tracer trace.Tracer
}

type Option func(*Engine)

func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

func New(db *gorm.DB, log *logger.Logger, opts ...Option) *Engine {
	e := &Engine{
		db:     db,
		log:    log.With("component", "ContractEngine"),
		now:    time.Now,
		tracer: otel.Tracer("contracts-app/engine"),
	}
	for _, o := range opts {
		o(e)
	}
	return e
}

// write runs fn inside one transaction and records the outcome.
func (e *Engine) write(ctx context.Context, op, contractID string, caller Caller, fn func(tx *gorm.DB, now time.Time) error) error {
	ctx, span := e.tracer.Start(ctx, "engine."+op, trace.WithAttributes(
		attribute.String("contract.id", contractID),
		attribute.String("party.role", string(caller.Role)),
	))
	defer span.End()

	now := e.now().UTC()
	err := e.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(tx, now)
	})
	e.observe(span, op, contractID, caller, err)
	return err
}

func (e *Engine) observe(span trace.Span, op, contractID string, caller Caller, err error) {
	switch kind := apperr.KindOf(err); {
	case err == nil:
		e.log.Info("transition committed", "op", op, "contract_id", contractID, "role", caller.Role)
	case kind != "":
		span.SetAttributes(attribute.String("rejection.kind", string(kind)))
		e.log.Debug("command rejected", "op", op, "contract_id", contractID, "role", caller.Role, "kind", kind)
	default:
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		e.log.Error("command failed", "op", op, "contract_id", contractID, "role", caller.Role, "error", err)
	}
}

func lockForUpdate(tx *gorm.DB) *gorm.DB {
	return tx.Clauses(clause.Locking{Strength: "UPDATE"})
}

func lockForShare(tx *gorm.DB) *gorm.DB {
	return tx.Clauses(clause.Locking{Strength: "SHARE"})
}

func validID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

// loadContract fetches a contract and checks the caller is the party it
// claims to be.
func loadContract(tx *gorm.DB, id string, caller Caller, lock bool) (*contracts.Contract, error) {
	if !validID(id) {
		return nil, apperr.New(apperr.NotFound, "contract %q not found", id)
	}
	q := tx
	if lock {
		q = lockForUpdate(tx)
	}
	var c contracts.Contract
	if err := q.Where("id = ?", id).Take(&c).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.New(apperr.NotFound, "contract %s not found", id)
		}
		return nil, fmt.Errorf("load contract: %w", err)
	}
	if err := authorize(&c, caller); err != nil {
		return nil, err
	}
	return &c, nil
}

func authorize(c *contracts.Contract, caller Caller) error {
	role, ok := c.RoleOf(caller.UserID)
	if !ok || role != caller.Role {
		return apperr.New(apperr.NotParty, "caller is not the %s of this contract", caller.Role)
	}
	return nil
}

// casUpdate applies cols to the rows matching where and reports a
// concurrent modification when nothing matched.
func casUpdate(tx *gorm.DB, model interface{}, cols map[string]interface{}, where string, args ...interface{}) error {
	res := tx.Model(model).Where(where, args...).Updates(cols)
	if res.Error != nil {
		return fmt.Errorf("update: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return apperr.New(apperr.InvalidState, "record changed concurrently; reload and retry")
	}
	return nil
}

// eventLockKey is the postgres advisory lock taken before appending an
// event. Held until commit, it makes seq order match commit order, so a
// reader polling seq > after never sees a lower seq appear later.
const eventLockKey int64 = 0x636f6e7472616374

// eventLockSQL returns the statement that serializes event appends for the
// dialect, or "" where writers are already serialized.
func eventLockSQL(dialect string) string {
	if dialect == "postgres" {
		return fmt.Sprintf("SELECT pg_advisory_xact_lock(%d)", eventLockKey)
	}
	return ""
}

func appendEvent(tx *gorm.DB, ev *events.Event) error {
	if stmt := eventLockSQL(tx.Dialector.Name()); stmt != "" {
		if err := tx.Exec(stmt).Error; err != nil {
			return fmt.Errorf("lock event log: %w", err)
		}
	}
	if err := tx.Create(ev).Error; err != nil {
		return fmt.Errorf("append event: %w", err)
	}
	return nil
}
