package contracts

import (
	"encoding/json"
	"strings"
	"time"

	"contracts-app/internal/domain/apperr"
	"contracts-app/internal/domain/party"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Contract is the shared record both parties work on once a negotiation
// concludes. Parties and terms are fixed at creation.
type Contract struct {
	ID         string `gorm:"type:uuid;primaryKey" json:"id"`
	ProposalID string `gorm:"not null;uniqueIndex" json:"proposal_id"`

	BrandID   uint `gorm:"not null;index" json:"brand_id"`
	CreatorID uint `gorm:"not null;index" json:"creator_id"`

	// handoff flags, only ever set forward
	UnsignedContractLink                *string `json:"unsigned_contract_link"`
	UnsignedContractDownloadedByCreator bool    `gorm:"not null;default:false" json:"unsigned_contract_downloaded_by_creator"`
	SignedContractLink                  *string `json:"signed_contract_link"`
	SignedContractDownloadedByBrand     bool    `gorm:"not null;default:false" json:"signed_contract_downloaded_by_brand"`

	Status Status `gorm:"type:varchar(32);not null;default:'negotiating';index" json:"status"`

	PendingRequestedStatus *Status     `gorm:"type:varchar(32)" json:"-"`
	PendingRequestingParty *party.Role `gorm:"type:varchar(16)" json:"-"`

	Terms  datatypes.JSON `gorm:"not null" json:"terms"`
	Thread []ThreadEntry  `gorm:"foreignKey:ContractID" json:"negotiation_thread,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (c *Contract) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return nil
}

// RoleOf maps a user to its side of the contract.
func (c *Contract) RoleOf(userID uint) (party.Role, bool) {
	switch {
	case userID == 0:
		return "", false
	case userID == c.BrandID:
		return party.Brand, true
	case userID == c.CreatorID:
		return party.Creator, true
	default:
		return "", false
	}
}

// NewContract is the snapshot handed over by the negotiation subsystem.
type NewContract struct {
	ProposalID     string
	BrandID        uint
	CreatorID      uint
	Terms          json.RawMessage
	InitialMessage string
	InitialSender  party.Role
}

func (n NewContract) Validate() error {
	if strings.TrimSpace(n.ProposalID) == "" {
		return apperr.New(apperr.InvalidInput, "proposal_id is required")
	}
	if n.BrandID == 0 || n.CreatorID == 0 {
		return apperr.New(apperr.InvalidInput, "both brand_id and creator_id are required")
	}
	if n.BrandID == n.CreatorID {
		return apperr.New(apperr.InvalidInput, "brand and creator must be different users")
	}
	if !isJSONObject(n.Terms) {
		return apperr.New(apperr.InvalidInput, "terms must be a JSON object")
	}
	if strings.TrimSpace(n.InitialMessage) != "" && !n.InitialSender.Valid() {
		return apperr.New(apperr.InvalidInput, "initial message needs a sender role")
	}
	return nil
}

// Build turns the snapshot into a fresh contract in the negotiating status.
func (n NewContract) Build(now time.Time) (*Contract, error) {
	if err := n.Validate(); err != nil {
		return nil, err
	}
	c := &Contract{
		ID:         uuid.NewString(),
		ProposalID: strings.TrimSpace(n.ProposalID),
		BrandID:    n.BrandID,
		CreatorID:  n.CreatorID,
		Status:     StatusNegotiating,
		Terms:      datatypes.JSON(n.Terms),
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if msg := strings.TrimSpace(n.InitialMessage); msg != "" {
		entry, err := NewThreadEntry(c.ID, n.InitialSender, EntryInitialMessage, msg, nil, now)
		if err != nil {
			return nil, err
		}
		c.Thread = []ThreadEntry{entry}
	}
	return c, nil
}

func isJSONObject(raw json.RawMessage) bool {
	var m map[string]interface{}
	if err := json.Unmarshal(raw, &m); err != nil {
		return false
	}
	return m != nil
}
