package contracts

import (
	"encoding/json"
	"strings"
	"time"

	"contracts-app/internal/domain/apperr"
	"contracts-app/internal/domain/party"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type EntryType string

const (
	EntryInitialMessage EntryType = "initial_message"
	EntryTermsUpdate    EntryType = "terms_update"
	EntryCounterOffer   EntryType = "counter_offer"
	EntryNote           EntryType = "note"
)

func (t EntryType) Valid() bool {
	switch t {
	case EntryInitialMessage, EntryTermsUpdate, EntryCounterOffer, EntryNote:
		return true
	}
	return false
}

// ThreadEntry is one append-only item of the negotiation thread.
type ThreadEntry struct {
	ID         string         `gorm:"type:uuid;primaryKey" json:"id"`
	ContractID string         `gorm:"type:uuid;not null;index" json:"contract_id"`
	Type       EntryType      `gorm:"type:varchar(32);not null" json:"type"`
	SenderRole party.Role     `gorm:"type:varchar(16);not null" json:"sender_role"`
	Message    string         `gorm:"type:text;not null" json:"message"`
	Metadata   datatypes.JSON `json:"metadata,omitempty"`
	CreatedAt  time.Time      `gorm:"index" json:"created_at"`
}

func (ThreadEntry) TableName() string { return "contract_thread_entries" }

func NewThreadEntry(contractID string, role party.Role, typ EntryType, message string, metadata json.RawMessage, now time.Time) (ThreadEntry, error) {
	if !role.Valid() {
		return ThreadEntry{}, apperr.New(apperr.RoleMismatch, "unknown role %q", role)
	}
	if !typ.Valid() {
		return ThreadEntry{}, apperr.New(apperr.InvalidInput, "unknown thread entry type %q", typ)
	}
	msg := strings.TrimSpace(message)
	if msg == "" {
		return ThreadEntry{}, apperr.New(apperr.EmptyMessage, "message is empty")
	}
	var meta datatypes.JSON
	if len(metadata) > 0 && string(metadata) != "null" {
		if !json.Valid(metadata) {
			return ThreadEntry{}, apperr.New(apperr.InvalidInput, "metadata is not valid JSON")
		}
		meta = datatypes.JSON(metadata)
	}
	return ThreadEntry{
		ID:         uuid.NewString(),
		ContractID: contractID,
		Type:       typ,
		SenderRole: role,
		Message:    msg,
		Metadata:   meta,
		CreatedAt:  now,
	}, nil
}
