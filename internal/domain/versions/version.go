package versions

import (
	"strings"
	"time"

	"contracts-app/internal/domain/apperr"
	"contracts-app/internal/domain/approval"
	"contracts-app/internal/domain/contracts"
	"contracts-app/internal/domain/party"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Status string

const (
	StatusPending  Status = "pending"
	StatusFinal    Status = "final"
	StatusRejected Status = "rejected"
)

// Version is one immutable document of a contract's history. At most one
// version per contract is current.
type Version struct {
	ID            string `gorm:"type:uuid;primaryKey" json:"id"`
	ContractID    string `gorm:"type:uuid;not null;uniqueIndex:idx_contract_versions_number,priority:1" json:"contract_id"`
	VersionNumber int    `gorm:"not null;uniqueIndex:idx_contract_versions_number,priority:2" json:"version_number"`

	FileURL      string  `gorm:"not null" json:"file_url"`
	ChangeReason *string `gorm:"type:text" json:"change_reason"`

	Status    Status `gorm:"type:varchar(16);not null;default:'pending';index" json:"status"`
	IsCurrent bool   `gorm:"not null;default:false" json:"is_current"`

	approval.Gate `gorm:"embedded"`

	// empty for the version written when the handoff completes
	UploadedBy  party.Role  `gorm:"type:varchar(16)" json:"uploaded_by,omitempty"`
	RejectedBy  *party.Role `gorm:"type:varchar(16)" json:"rejected_by,omitempty"`
	UploadedAt  time.Time   `json:"uploaded_at"`
	FinalizedAt *time.Time  `json:"finalized_at,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Version) TableName() string { return "contract_versions" }

func (v *Version) BeforeCreate(tx *gorm.DB) error {
	if v.ID == "" {
		v.ID = uuid.NewString()
	}
	return nil
}

// Initial is version 1, written from the signed document. Both signatures
// count as both approvals, so it is final and current from the start.
func Initial(contractID, fileURL string, now time.Time) *Version {
	return &Version{
		ID:            uuid.NewString(),
		ContractID:    contractID,
		VersionNumber: 1,
		FileURL:       fileURL,
		Status:        StatusFinal,
		IsCurrent:     true,
		Gate:          approval.Gate{BrandApproval: true, CreatorApproval: true},
		UploadedAt:    now,
		FinalizedAt:   &now,
	}
}

// Amendment proposes the next version. It starts pending with no approvals,
// the uploader included.
func Amendment(contractID string, number int, role party.Role, fileURL string, changeReason *string, now time.Time) (*Version, error) {
	if !role.Valid() {
		return nil, apperr.New(apperr.RoleMismatch, "unknown role %q", role)
	}
	clean, err := contracts.ValidateLink(fileURL)
	if err != nil {
		return nil, err
	}
	var reason *string
	if changeReason != nil {
		if r := strings.TrimSpace(*changeReason); r != "" {
			reason = &r
		}
	}
	return &Version{
		ID:            uuid.NewString(),
		ContractID:    contractID,
		VersionNumber: number,
		FileURL:       clean,
		ChangeReason:  reason,
		Status:        StatusPending,
		UploadedBy:    role,
		UploadedAt:    now,
	}, nil
}

// Vote applies one party's decision to a pending version. Both approvals
// make it final and current; a single rejection is final.
func (v *Version) Vote(role party.Role, approve bool, now time.Time) (approval.Outcome, error) {
	if v.Status != StatusPending {
		return approval.Open, apperr.New(apperr.InvalidState, "version %d is %s", v.VersionNumber, v.Status)
	}
	out, err := v.Gate.Vote(role, approve, approval.RejectIsFinal)
	if err != nil {
		return out, err
	}
	switch out {
	case approval.Committed:
		v.Status = StatusFinal
		v.IsCurrent = true
		v.FinalizedAt = &now
	case approval.Rejected:
		r := role
		v.Status = StatusRejected
		v.RejectedBy = &r
	}
	return out, nil
}
