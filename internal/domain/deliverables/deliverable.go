package deliverables

import (
	"strings"
	"time"

	"contracts-app/internal/domain/apperr"
	"contracts-app/internal/domain/contracts"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Status string

const (
	StatusNotStarted  Status = "not_started"
	StatusUnderReview Status = "under_review"
	StatusRejected    Status = "rejected"
	StatusCompleted   Status = "completed"
)

// Deliverable is one unit of work on an approved list.
type Deliverable struct {
	ID         string `gorm:"type:uuid;primaryKey" json:"id"`
	ListID     string `gorm:"type:uuid;not null;index:idx_deliverables_list_position,priority:1" json:"-"`
	ContractID string `gorm:"type:uuid;not null;index" json:"contract_id"`
	Position   int    `gorm:"not null;default:0;index:idx_deliverables_list_position,priority:2" json:"position"`

	Description string     `gorm:"type:text;not null" json:"description"`
	DueDate     *time.Time `json:"due_date,omitempty"`

	Status          Status  `gorm:"type:varchar(16);not null;default:'not_started'" json:"status"`
	SubmissionURL   *string `json:"submission_url,omitempty"`
	ReviewComment   *string `json:"review_comment,omitempty"`
	RejectionReason *string `json:"rejection_reason,omitempty"`

	SubmittedAt *time.Time `json:"submitted_at,omitempty"`
	ReviewedAt  *time.Time `json:"reviewed_at,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (d *Deliverable) BeforeCreate(tx *gorm.DB) error {
	if d.ID == "" {
		d.ID = uuid.NewString()
	}
	return nil
}

// Submit hands work in for review. Allowed from not_started and rejected.
func (d *Deliverable) Submit(url string, now time.Time) error {
	switch d.Status {
	case StatusNotStarted, StatusRejected:
	case StatusCompleted:
		return apperr.New(apperr.InvalidState, "deliverable is completed")
	default:
		return apperr.New(apperr.InvalidState, "deliverable is %s", d.Status)
	}
	clean, err := contracts.ValidateLink(url)
	if err != nil {
		return err
	}
	d.SubmissionURL = &clean
	d.Status = StatusUnderReview
	d.SubmittedAt = &now
	return nil
}

// Review settles an under_review submission. A rejection needs a reason;
// the submission URL stays for audit.
func (d *Deliverable) Review(approve bool, comment, rejectionReason string, now time.Time) error {
	if d.Status != StatusUnderReview {
		return apperr.New(apperr.InvalidState, "deliverable is %s, not under review", d.Status)
	}
	reason := strings.TrimSpace(rejectionReason)
	if !approve && reason == "" {
		return apperr.New(apperr.MissingReason, "a rejection needs a reason")
	}

	if c := strings.TrimSpace(comment); c != "" {
		d.ReviewComment = &c
	}
	if approve {
		d.Status = StatusCompleted
	} else {
		d.Status = StatusRejected
		d.RejectionReason = &reason
	}
	d.ReviewedAt = &now
	return nil
}
