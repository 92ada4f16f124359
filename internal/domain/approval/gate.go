// Package approval models the two-slot consent gate shared by the
// deliverables list, contract versions and status-change requests.
package approval

import (
	"contracts-app/internal/domain/apperr"
	"contracts-app/internal/domain/party"
)

type Outcome int

const (
	// Open means at least one slot is still missing.
	Open Outcome = iota
	// Committed means both parties approved.
	Committed
	// Rejected means a "no" ended the gate for good.
	Rejected
	// Revoked means a party withdrew its approval and the gate is open again.
	Revoked
)

// RejectRule decides what a "no" vote does.
type RejectRule int

const (
	// RejectIsFinal closes the gate on the first "no", whatever the other slot holds.
	RejectIsFinal RejectRule = iota
	// RejectRevokes clears the voter's slot and leaves the gate open.
	RejectRevokes
)

// Gate is embedded into gorm models and persists as brand_approval / creator_approval.
type Gate struct {
	BrandApproval   bool `gorm:"not null;default:false" json:"brand_approval"`
	CreatorApproval bool `gorm:"not null;default:false" json:"creator_approval"`
}

func (g Gate) Approved(r party.Role) bool {
	switch r {
	case party.Brand:
		return g.BrandApproval
	case party.Creator:
		return g.CreatorApproval
	default:
		return false
	}
}

// Complete reports whether both parties have approved.
func (g Gate) Complete() bool {
	return g.BrandApproval && g.CreatorApproval
}

func (g *Gate) Reset() {
	g.BrandApproval = false
	g.CreatorApproval = false
}

func (g *Gate) set(r party.Role, v bool) {
	if r == party.Brand {
		g.BrandApproval = v
	} else {
		g.CreatorApproval = v
	}
}

// Vote applies one party's decision. The gate is only mutated when the
// returned error is nil.
func (g *Gate) Vote(r party.Role, approve bool, rule RejectRule) (Outcome, error) {
	if !r.Valid() {
		return Open, apperr.New(apperr.RoleMismatch, "unknown role %q", r)
	}

	if approve {
		if g.Approved(r) {
			return Open, apperr.New(apperr.AlreadyApproved, "%s already approved", r)
		}
		g.set(r, true)
		if g.Complete() {
			return Committed, nil
		}
		return Open, nil
	}

	switch rule {
	case RejectRevokes:
		if !g.Approved(r) {
			return Open, apperr.New(apperr.InvalidState, "%s has no approval to revoke", r)
		}
		g.set(r, false)
		return Revoked, nil
	default:
		return Rejected, nil
	}
}
