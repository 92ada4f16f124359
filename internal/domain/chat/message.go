package chat

import (
	"strings"
	"time"

	"contracts-app/internal/domain/apperr"
	"contracts-app/internal/domain/party"

	"github.com/google/uuid"
)

// MaxMessageLength bounds a single chat entry, in runes.
const MaxMessageLength = 4000

// Message is an append-only chat entry tied to a contract.
type Message struct {
	ID         string     `gorm:"type:uuid;primaryKey" json:"id"`
	ContractID string     `gorm:"type:uuid;not null;index:idx_contract_chat_created,priority:1" json:"contract_id"`
	SenderRole party.Role `gorm:"type:varchar(16);not null" json:"sender_role"`
	Message    string     `gorm:"type:text;not null" json:"message"`
	CreatedAt  time.Time  `gorm:"index:idx_contract_chat_created,priority:2" json:"created_at"`
}

func (Message) TableName() string { return "contract_chat_messages" }

func New(contractID string, role party.Role, text string, now time.Time) (*Message, error) {
	if !role.Valid() {
		return nil, apperr.New(apperr.RoleMismatch, "unknown role %q", role)
	}
	msg := strings.TrimSpace(text)
	if msg == "" {
		return nil, apperr.New(apperr.EmptyMessage, "message is empty")
	}
	if len([]rune(msg)) > MaxMessageLength {
		return nil, apperr.New(apperr.InvalidInput, "message is longer than %d characters", MaxMessageLength)
	}
	return &Message{
		ID:         uuid.NewString(),
		ContractID: contractID,
		SenderRole: role,
		Message:    msg,
		CreatedAt:  now,
	}, nil
}
