package party

import "strings"

// Role is one of the two fixed sides of a contract.
type Role string

const (
	Brand   Role = "brand"
	Creator Role = "creator"
)

func (r Role) Valid() bool {
	return r == Brand || r == Creator
}

// Other returns the counterparty. It returns "" for an invalid role.
func (r Role) Other() Role {
	switch r {
	case Brand:
		return Creator
	case Creator:
		return Brand
	default:
		return ""
	}
}

func ParseRole(s string) (Role, bool) {
	r := Role(strings.ToLower(strings.TrimSpace(s)))
	return r, r.Valid()
}
