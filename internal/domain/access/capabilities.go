// Package access derives which contract actions a party can take right
// now, so clients can render only the controls that would succeed.
package access

import (
	"contracts-app/internal/domain/contracts"
	"contracts-app/internal/domain/deliverables"
	"contracts-app/internal/domain/party"
)

type Capability string

const (
	UploadUnsignedLink  Capability = "upload_unsigned_link"
	RecordUnsignedDL    Capability = "record_unsigned_download"
	UploadSignedLink    Capability = "upload_signed_link"
	RecordSignedDL      Capability = "record_signed_download"
	RequestStatusChange Capability = "request_status_change"
	RespondStatusChange Capability = "respond_status_change"
	EditDeliverables    Capability = "edit_deliverables"
	ApproveDeliverables Capability = "approve_deliverables"
	RevokeDeliverables  Capability = "revoke_deliverables_approval"
	SubmitDeliverables  Capability = "submit_deliverables"
	ReviewDeliverables  Capability = "review_deliverables"
	ProposeVersion      Capability = "propose_version"
	PostMessage         Capability = "post_message"
	AppendThreadEntry   Capability = "append_thread_entry"
)

// State is the slice of a contract the rules look at. List may be nil.
type State struct {
	Contract          *contracts.Contract
	List              *deliverables.List
	HasCurrentVersion bool
}

// CapabilitiesFor lists the actions role may attempt. It mirrors the
// engine's guards but is advisory: the engine still decides.
func CapabilitiesFor(role party.Role, s State) []Capability {
	if !role.Valid() || s.Contract == nil {
		return []Capability{}
	}
	c := s.Contract
	out := []Capability{PostMessage, AppendThreadEntry}

	switch {
	case role == party.Brand && c.UnsignedContractLink == nil:
		out = append(out, UploadUnsignedLink)
	case role == party.Creator && c.UnsignedContractLink != nil && !c.UnsignedContractDownloadedByCreator:
		out = append(out, RecordUnsignedDL)
	case role == party.Creator && c.UnsignedContractDownloadedByCreator && c.SignedContractLink == nil:
		out = append(out, UploadSignedLink)
	case role == party.Brand && c.SignedContractLink != nil && !c.SignedContractDownloadedByBrand:
		out = append(out, RecordSignedDL)
	}

	if pending := c.PendingStatusChange(); pending != nil {
		if pending.RequestingParty != role {
			out = append(out, RespondStatusChange)
		}
	} else if c.HandoffComplete() && !c.Status.Terminal() {
		out = append(out, RequestStatusChange)
	}

	l := s.List
	switch {
	case l == nil || len(l.Items) == 0:
		if role == party.Brand {
			out = append(out, EditDeliverables)
		}
	case l.Approved():
		out = append(out, RevokeDeliverables)
		if role == party.Creator {
			out = append(out, SubmitDeliverables)
		} else {
			out = append(out, ReviewDeliverables)
		}
	default:
		if role == party.Brand {
			out = append(out, EditDeliverables)
		}
		if l.Gate.Approved(role) {
			out = append(out, RevokeDeliverables)
		} else {
			out = append(out, ApproveDeliverables)
		}
	}

	if s.HasCurrentVersion {
		out = append(out, ProposeVersion)
	}
	return out
}
