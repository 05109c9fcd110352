package core

import "provencore/pkg/domain"

type (
	Role                     = domain.Role
	ApprovalStatus           = domain.ApprovalStatus
	TransferStatus           = domain.TransferStatus
	Batch                    = domain.Batch
	BatchInput               = domain.BatchInput
	Participant              = domain.Participant
	TransferRecord           = domain.TransferRecord
	RegistrationRequestEvent = domain.RegistrationRequestEvent
	StatusChangeEvent        = domain.StatusChangeEvent
	LineageNode              = domain.LineageNode
	LineageTree              = domain.LineageTree
	NodeState                = domain.NodeState
	IdentitySnapshot         = domain.IdentitySnapshot
	LedgerReader             = domain.LedgerReader
	TxHashIndex              = domain.TxHashIndex
	ErrNotFound              = domain.ErrNotFound
	TransientError           = domain.TransientError
)

const (
	RoleNone        = domain.RoleNone
	RoleProducer    = domain.RoleProducer
	RoleProcessor   = domain.RoleProcessor
	RoleDistributor = domain.RoleDistributor
	RoleConsumer    = domain.RoleConsumer
)

const (
	StatusPending  = domain.StatusPending
	StatusApproved = domain.StatusApproved
	StatusRejected = domain.StatusRejected
	StatusCanceled = domain.StatusCanceled
)

const (
	TransferPending   = domain.TransferPending
	TransferAccepted  = domain.TransferAccepted
	TransferRejected  = domain.TransferRejected
	TransferCancelled = domain.TransferCancelled
)

const (
	NodeResolved = domain.NodeResolved
	NodeDegraded = domain.NodeDegraded
)

const (
	EntityBatch       = domain.EntityBatch
	EntityParticipant = domain.EntityParticipant
)

// ErrStaleViewpoint re-exports the narrow transient class that read helpers
// retry once.
var ErrStaleViewpoint = domain.ErrStaleViewpoint
