package domain

import "time"

// IdentitySnapshot is the materialized, point-in-time view of a participant's
// identity and authorization state. It combines the live registration record
// with the most recent registration-request event for the address. Snapshots
// are recomputed wholesale on every refresh, never partially patched.
type IdentitySnapshot struct {
	Address string `json:"address"`

	Role         Role           `json:"role"`
	PendingRole  Role           `json:"pending_role"`
	Status       ApprovalStatus `json:"status"`
	Organization string         `json:"organization,omitempty"`
	FirstName    string         `json:"first_name,omitempty"`
	LastName     string         `json:"last_name,omitempty"`

	// ActiveRole is set only while Status is exactly StatusApproved.
	ActiveRole *Role `json:"active_role,omitempty"`

	// IsAdministrator is true when Address equals the ledger's designated
	// administrator address.
	IsAdministrator bool `json:"is_administrator"`

	// LastRequestedRole and LastRequestedAt come from the most recent matching
	// registration-request event, falling back to the on-ledger pending role
	// when no event is available.
	LastRequestedRole *Role      `json:"last_requested_role,omitempty"`
	LastRequestedAt   *time.Time `json:"last_requested_at,omitempty"`

	// PendingRoleConflict flags a data-freshness race: the newest request event
	// names a different role than the on-ledger pending field. The on-ledger
	// value wins, the disagreement is surfaced rather than silently resolved.
	PendingRoleConflict bool `json:"pending_role_conflict,omitempty"`
}

// EmptySnapshot returns the fallback snapshot for an address whose facts could
// not be fetched. No stale data is retained: all role and status fields are
// absent and the administrator flag is false.
func EmptySnapshot(address string) IdentitySnapshot {
	return IdentitySnapshot{Address: address}
}
