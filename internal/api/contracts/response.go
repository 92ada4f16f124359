package contracts

import (
	"contracts-app/internal/domain/access"
	"contracts-app/internal/domain/chat"
	domain "contracts-app/internal/domain/contracts"
	"contracts-app/internal/domain/deliverables"
	"contracts-app/internal/domain/versions"
	"contracts-app/internal/engine"
)

// ContractDTO adds the pending status-change slot, which the record keeps
// in two nullable columns, as one object.
type ContractDTO struct {
	*domain.Contract
	PendingStatusChange *domain.StatusChangeRequest `json:"pending_status_change"`
}

func toContractDTO(c *domain.Contract) ContractDTO {
	return ContractDTO{Contract: c, PendingStatusChange: c.PendingStatusChange()}
}

type DeliverablesDTO struct {
	*deliverables.List
	Approved bool `json:"approved"`
}

func toDeliverablesDTO(l *deliverables.List) DeliverablesDTO {
	return DeliverablesDTO{List: l, Approved: l.Approved()}
}

type OverviewDTO struct {
	Contract       ContractDTO         `json:"contract"`
	Deliverables   DeliverablesDTO     `json:"deliverables"`
	Versions       []versions.Version  `json:"versions"`
	CurrentVersion *versions.Version   `json:"current_version"`
	Chat           []chat.Message      `json:"chat"`
	Capabilities   []access.Capability `json:"capabilities"`
}

func toOverviewDTO(ov *engine.Overview) OverviewDTO {
	return OverviewDTO{
		Contract:       toContractDTO(ov.Contract),
		Deliverables:   toDeliverablesDTO(ov.Deliverables),
		Versions:       ov.Versions,
		CurrentVersion: ov.CurrentVersion,
		Chat:           ov.Chat,
		Capabilities:   ov.Capabilities,
	}
}
