// Package events is the pollable log of committed contract transitions.
// Consumers read it by sequence number; nothing is pushed.
package events

import (
	"encoding/json"
	"time"

	"contracts-app/internal/domain/party"

	"gorm.io/datatypes"
)

type Type string

const (
	ContractCreated       Type = "contract.created"
	ThreadEntryAppended   Type = "contract.thread_entry_appended"
	UnsignedLinkUploaded  Type = "handoff.unsigned_uploaded"
	UnsignedDownloaded    Type = "handoff.unsigned_downloaded"
	SignedLinkUploaded    Type = "handoff.signed_uploaded"
	SignedDownloaded      Type = "handoff.signed_downloaded"
	StatusChangeRequested Type = "status.change_requested"
	StatusCommitted       Type = "status.committed"
	StatusChangeDenied    Type = "status.change_denied"
	DeliverablesReplaced  Type = "deliverables.replaced"
	DeliverablesApproved  Type = "deliverables.approved"
	DeliverablesVoted     Type = "deliverables.voted"
	DeliverablesRevoked   Type = "deliverables.approval_revoked"
	DeliverableSubmitted  Type = "deliverable.submitted"
	DeliverableCompleted  Type = "deliverable.completed"
	DeliverableRejected   Type = "deliverable.rejected"
	VersionCreated        Type = "version.created"
	VersionVoted          Type = "version.voted"
	VersionFinalized      Type = "version.finalized"
	VersionRejected       Type = "version.rejected"
)

type Event struct {
	Seq        uint64         `gorm:"primaryKey;autoIncrement" json:"seq"`
	ContractID string         `gorm:"type:uuid;not null;index" json:"contract_id"`
	Type       Type           `gorm:"type:varchar(64);not null" json:"type"`
	ActorRole  party.Role     `gorm:"type:varchar(16)" json:"actor_role,omitempty"`
	Payload    datatypes.JSON `json:"payload,omitempty"`
	CreatedAt  time.Time      `json:"created_at"`
}

func (Event) TableName() string { return "contract_events" }

// New builds an event; payload is marshalled as-is and dropped if it
// cannot be encoded.
func New(contractID string, typ Type, actor party.Role, payload map[string]interface{}, now time.Time) *Event {
	ev := &Event{ContractID: contractID, Type: typ, ActorRole: actor, CreatedAt: now}
	if len(payload) > 0 {
		if raw, err := json.Marshal(payload); err == nil {
			ev.Payload = datatypes.JSON(raw)
		}
	}
	return ev
}
