package contracts

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"contracts-app/internal/domain/deliverables"
)

// ---------- requests

type CreateContractRequest struct {
	ProposalID     string          `json:"proposal_id" binding:"required"`
	BrandID        uint            `json:"brand_id" binding:"required"`
	CreatorID      uint            `json:"creator_id" binding:"required"`
	Terms          json.RawMessage `json:"terms" binding:"required"`
	InitialMessage string          `json:"initial_message"`
	InitialSender  string          `json:"initial_sender"` // "brand" | "creator"
}

type ThreadEntryRequest struct {
	Type     string          `json:"type" binding:"required"`
	Message  string          `json:"message"`
	Metadata json.RawMessage `json:"metadata"`
}

type LinkRequest struct {
	Link string `json:"link" binding:"required"`
}

type StatusChangeRequest struct {
	RequestedStatus string `json:"requested_status" binding:"required"`
}

// Approve is a pointer so a missing field fails binding instead of
// reading as a rejection.
type DecisionRequest struct {
	Approve *bool `json:"approve" binding:"required"`
}

type DeliverableItemRequest struct {
	Description string  `json:"description"`
	DueDate     *string `json:"due_date"` // YYYY-MM-DD
}

type ReplaceDeliverablesRequest struct {
	Items []DeliverableItemRequest `json:"items" binding:"required"`
}

type SubmitDeliverableRequest struct {
	SubmissionURL string `json:"submission_url" binding:"required"`
}

type ReviewDeliverableRequest struct {
	Approve         *bool  `json:"approve" binding:"required"`
	Comment         string `json:"comment"`
	RejectionReason string `json:"rejection_reason"`
}

type CreateVersionRequest struct {
	FileURL      string  `json:"file_url" binding:"required"`
	ChangeReason *string `json:"change_reason"`
}

type ChatMessageRequest struct {
	Message string `json:"message"`
}

const dueDateLayout = "2006-01-02"

func (r ReplaceDeliverablesRequest) items() ([]deliverables.ItemInput, error) {
	out := make([]deliverables.ItemInput, 0, len(r.Items))
	for i, it := range r.Items {
		in := deliverables.ItemInput{Description: it.Description}
		if it.DueDate != nil && strings.TrimSpace(*it.DueDate) != "" {
			d, err := time.Parse(dueDateLayout, strings.TrimSpace(*it.DueDate))
			if err != nil {
				return nil, fmt.Errorf("item %d: due_date must be YYYY-MM-DD", i+1)
			}
			in.DueDate = &d
		}
		out = append(out, in)
	}
	return out, nil
}
