package deliverables

import (
	"strings"
	"time"

	"contracts-app/internal/domain/apperr"
	"contracts-app/internal/domain/approval"
	"contracts-app/internal/domain/party"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// List is the deliverables checklist of one contract. Its single approval
// gate covers every item: once both slots are set the structure is frozen
// and per-item submission opens.
type List struct {
	ID         string `gorm:"type:uuid;primaryKey" json:"id"`
	ContractID string `gorm:"type:uuid;not null;uniqueIndex" json:"contract_id"`

	approval.Gate `gorm:"embedded"`

	Items []Deliverable `gorm:"foreignKey:ListID" json:"items"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (List) TableName() string { return "deliverables_lists" }

func (l *List) BeforeCreate(tx *gorm.DB) error {
	if l.ID == "" {
		l.ID = uuid.NewString()
	}
	return nil
}

func (l *List) Approved() bool {
	return l.Gate.Complete()
}

// RequireApproved guards every submit/review action.
func (l *List) RequireApproved() error {
	if l == nil || !l.Approved() {
		return apperr.New(apperr.ListNotApproved, "deliverables list is not approved by both parties")
	}
	return nil
}

type ItemInput struct {
	Description string
	DueDate     *time.Time
}

// Replace swaps the list structure for items and resets the gate.
//
// Completed deliverables are final: they survive the replacement in their
// original order, ahead of the new items. Everything else is dropped,
// including in-flight submissions of a reopened list.
func (l *List) Replace(items []ItemInput, now time.Time) (kept []Deliverable, dropped []string, err error) {
	if l.Approved() {
		return nil, nil, apperr.New(apperr.ListFrozen, "list is approved by both parties; revoke approval first")
	}
	if len(items) == 0 {
		return nil, nil, apperr.New(apperr.InvalidInput, "at least one deliverable is required")
	}
	for i, it := range items {
		if strings.TrimSpace(it.Description) == "" {
			return nil, nil, apperr.New(apperr.InvalidInput, "item %d has an empty description", i+1)
		}
	}

	next := make([]Deliverable, 0, len(items)+len(l.Items))
	for _, d := range l.Items {
		if d.Status == StatusCompleted {
			d.Position = len(next)
			next = append(next, d)
			kept = append(kept, d)
			continue
		}
		dropped = append(dropped, d.ID)
	}
	for _, it := range items {
		next = append(next, Deliverable{
			ID:          uuid.NewString(),
			ListID:      l.ID,
			ContractID:  l.ContractID,
			Position:    len(next),
			Description: strings.TrimSpace(it.Description),
			DueDate:     it.DueDate,
			Status:      StatusNotStarted,
			CreatedAt:   now,
			UpdatedAt:   now,
		})
	}

	l.Items = next
	l.Gate.Reset()
	return kept, dropped, nil
}

// Vote records one party's list-level decision. approve=false revokes an
// earlier approval and reopens the list for edits.
func (l *List) Vote(role party.Role, approve bool) (approval.Outcome, error) {
	if len(l.Items) == 0 {
		return approval.Open, apperr.New(apperr.InvalidState, "deliverables list is empty")
	}
	return l.Gate.Vote(role, approve, approval.RejectRevokes)
}
