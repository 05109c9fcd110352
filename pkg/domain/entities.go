// Package domain defines the core ledger-facing entities, lineage value types,
// and collaborator interfaces used by provencore.
package domain

import "time"

// Role enumerates the four participant roles recorded on the ledger. The empty
// value means the participant has no role (unregistered, or the administrator).
type Role string

// Supported participant roles.
const (
	RoleNone        Role = ""
	RoleProducer    Role = "producer"
	RoleProcessor   Role = "processor"
	RoleDistributor Role = "distributor"
	RoleConsumer    Role = "consumer"
)

// Valid reports whether the role is one of the four enumerated roles.
func (r Role) Valid() bool {
	switch r {
	case RoleProducer, RoleProcessor, RoleDistributor, RoleConsumer:
		return true
	}
	return false
}

// ApprovalStatus enumerates registration decision states for a participant.
type ApprovalStatus string

// Canonical approval statuses. Transitions happen only via ledger-side admin
// action; this module reads them.
const (
	StatusUnknown  ApprovalStatus = ""
	StatusPending  ApprovalStatus = "pending"
	StatusApproved ApprovalStatus = "approved"
	StatusRejected ApprovalStatus = "rejected"
	StatusCanceled ApprovalStatus = "canceled"
)

// TransferStatus enumerates custody-transfer outcomes. A transfer transitions
// exactly once from pending to one terminal value.
type TransferStatus string

// Canonical transfer statuses.
const (
	TransferPending   TransferStatus = "pending"
	TransferAccepted  TransferStatus = "accepted"
	TransferRejected  TransferStatus = "rejected"
	TransferCancelled TransferStatus = "cancelled"
)

// BatchInput is one (input batch, quantity) pair declared at batch creation.
// Order within a batch's input list is significant and preserved everywhere.
type BatchInput struct {
	BatchID  uint64 `json:"batch_id"`
	Quantity uint64 `json:"quantity"`
}

// Batch is a quantity-tracked unit of produced goods recorded on the ledger,
// optionally composed from other batches. Immutable once created except for
// AvailableQuantity, which mutates only via ledger-side consumption.
type Batch struct {
	ID                uint64         `json:"id"`
	Producer          string         `json:"producer"`
	Name              string         `json:"name"`
	Description       string         `json:"description,omitempty"`
	TotalQuantity     uint64         `json:"total_quantity"`
	AvailableQuantity uint64         `json:"available_quantity"`
	Inputs            []BatchInput   `json:"inputs"`
	CreatedAt         time.Time      `json:"created_at"`
	Features          map[string]any `json:"features,omitempty"`
}

// Participant is a ledger identity created implicitly on first registration
// request. Status transitions only via ledger-side admin action.
type Participant struct {
	Address      string         `json:"address"`
	Role         Role           `json:"role"`
	PendingRole  Role           `json:"pending_role"`
	Status       ApprovalStatus `json:"status"`
	Organization string         `json:"organization"`
	FirstName    string         `json:"first_name"`
	LastName     string         `json:"last_name"`
}

// TransferRecord is an on-ledger custody-change proposal.
type TransferRecord struct {
	ID        uint64         `json:"id"`
	From      string         `json:"from"`
	To        string         `json:"to"`
	BatchID   uint64         `json:"batch_id"`
	Quantity  uint64         `json:"quantity"`
	Status    TransferStatus `json:"status"`
	CreatedAt time.Time      `json:"created_at"`
}

// RegistrationRequestEvent is one entry of the append-only registration-request
// stream, ordered ascending by ledger position.
type RegistrationRequestEvent struct {
	Address       string    `json:"address"`
	RequestedRole Role      `json:"requested_role"`
	BlockTime     time.Time `json:"block_time"`
}

// StatusChangeEvent is one entry of the append-only participant status-change
// stream, ordered ascending by ledger position.
type StatusChangeEvent struct {
	Address   string         `json:"address"`
	Status    ApprovalStatus `json:"status"`
	BlockTime time.Time      `json:"block_time"`
}
