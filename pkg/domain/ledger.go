package domain

import (
	"context"
	"errors"
	"fmt"
)

// EntityType identifies the kind of ledger record named in errors.
type EntityType string

// Entity type identifiers used in ErrNotFound.
const (
	EntityBatch       EntityType = "batch"
	EntityParticipant EntityType = "participant"
	EntityTransfer    EntityType = "transfer"
)

// ErrNotFound is returned when a required ledger record is absent. It is fatal
// to the specific call that required the record and never retried.
type ErrNotFound struct {
	Entity EntityType
	ID     string
}

func (e ErrNotFound) Error() string {
	return fmt.Sprintf("%s %s not found", e.Entity, e.ID)
}

// ErrStaleViewpoint marks a read served from a viewpoint the ledger has since
// abandoned. It is the one transient class callers may retry narrowly.
var ErrStaleViewpoint = errors.New("stale ledger viewpoint")

// TransientError wraps an infrastructural read failure (unreachable node,
// stale viewpoint). The engine never retries these internally beyond the
// single stale-viewpoint re-read; retry policy belongs to the caller.
type TransientError struct {
	Op  string
	Err error
}

func (e TransientError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e TransientError) Unwrap() error { return e.Err }

// LedgerReader is the read façade over the external append-only ledger. All
// methods are pure reads; write operations (batch creation, transfers,
// registration) live outside this module and only their effects are observed.
type LedgerReader interface {
	// GetBatch returns the batch record or ErrNotFound.
	GetBatch(ctx context.Context, id uint64) (Batch, error)
	// GetParticipant returns the participant record or ErrNotFound.
	GetParticipant(ctx context.Context, address string) (Participant, error)
	// TransfersInvolving returns every transfer where the address appears as
	// sender or recipient, in no guaranteed order. Callers filter.
	TransfersInvolving(ctx context.Context, address string) ([]TransferRecord, error)
	// RegistrationRequestEvents returns the registration-request stream for the
	// address (all addresses when empty), ascending by ledger position.
	RegistrationRequestEvents(ctx context.Context, address string) ([]RegistrationRequestEvent, error)
	// StatusChangeEvents returns the participant status-change stream for the
	// address (all addresses when empty), ascending by ledger position.
	StatusChangeEvents(ctx context.Context, address string) ([]StatusChangeEvent, error)
	// AdministratorAddress returns the ledger's designated administrator. The
	// value never changes for the life of a ledger.
	AdministratorAddress(ctx context.Context) (string, error)
}

// TxHashIndex is the separate read-only historical transaction index consulted
// purely for display. Lookups are best-effort and never fatal to resolution.
type TxHashIndex interface {
	// TxHashForBatch returns the creation transaction hash for a batch, with
	// ok=false when the index has no entry.
	TxHashForBatch(ctx context.Context, id uint64) (hash string, ok bool, err error)
}
