// Package memory provides the canonical in-memory ledger read façade. It
// doubles as the fixture store for tests and as the hydration target for the
// sqlite and postgres snapshot adapters.
package memory

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"sync"

	"provencore/pkg/domain"
)

// Compile-time contract assertion.
var _ domain.LedgerReader = (*Store)(nil)

// Store holds a point-in-time copy of ledger facts. Reads return deep copies;
// the seeding helpers model ledger-side writes and exist only so adapters and
// tests can populate state.
type Store struct {
	mu            sync.RWMutex
	batches       map[uint64]domain.Batch
	participants  map[string]domain.Participant
	transfers     map[uint64]domain.TransferRecord
	requests      []domain.RegistrationRequestEvent
	statusChanges []domain.StatusChangeEvent
	admin         string
}

// NewStore constructs an empty ledger snapshot.
func NewStore() *Store {
	return &Store{
		batches:      make(map[uint64]domain.Batch),
		participants: make(map[string]domain.Participant),
		transfers:    make(map[uint64]domain.TransferRecord),
	}
}

// PutBatch records or replaces a batch.
func (s *Store) PutBatch(b domain.Batch) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.batches[b.ID] = cloneBatch(b)
}

// PutParticipant records or replaces a participant.
func (s *Store) PutParticipant(p domain.Participant) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.participants[p.Address] = p
}

// PutTransfer records a transfer, replacing any prior record with the same id.
// Replacement models the ledger-side pending-to-terminal status transition.
func (s *Store) PutTransfer(t domain.TransferRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.transfers[t.ID] = t
}

// AppendRegistrationRequest appends to the registration-request stream.
func (s *Store) AppendRegistrationRequest(e domain.RegistrationRequestEvent) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.requests = append(s.requests, e)
}

// AppendStatusChange appends to the status-change stream.
func (s *Store) AppendStatusChange(e domain.StatusChangeEvent) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.statusChanges = append(s.statusChanges, e)
}

// SetAdministrator records the ledger's designated administrator address.
func (s *Store) SetAdministrator(address string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.admin = address
}

// GetBatch implements domain.LedgerReader.
func (s *Store) GetBatch(_ context.Context, id uint64) (domain.Batch, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	b, ok := s.batches[id]
	if !ok {
		return domain.Batch{}, domain.ErrNotFound{Entity: domain.EntityBatch, ID: strconv.FormatUint(id, 10)}
	}
	return cloneBatch(b), nil
}

// GetParticipant implements domain.LedgerReader.
func (s *Store) GetParticipant(_ context.Context, address string) (domain.Participant, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.participants[address]
	if !ok {
		return domain.Participant{}, domain.ErrNotFound{Entity: domain.EntityParticipant, ID: address}
	}
	return p, nil
}

// TransfersInvolving implements domain.LedgerReader. Results are ordered by
// record id for determinism; callers must not rely on the order.
func (s *Store) TransfersInvolving(_ context.Context, address string) ([]domain.TransferRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []domain.TransferRecord
	for _, t := range s.transfers {
		if t.From == address || t.To == address {
			out = append(out, t)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// RegistrationRequestEvents implements domain.LedgerReader. An empty address
// selects the whole stream.
func (s *Store) RegistrationRequestEvents(_ context.Context, address string) ([]domain.RegistrationRequestEvent, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []domain.RegistrationRequestEvent
	for _, e := range s.requests {
		if address == "" || e.Address == address {
			out = append(out, e)
		}
	}
	return out, nil
}

// StatusChangeEvents implements domain.LedgerReader. An empty address selects
// the whole stream.
func (s *Store) StatusChangeEvents(_ context.Context, address string) ([]domain.StatusChangeEvent, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []domain.StatusChangeEvent
	for _, e := range s.statusChanges {
		if address == "" || e.Address == address {
			out = append(out, e)
		}
	}
	return out, nil
}

// AdministratorAddress implements domain.LedgerReader.
func (s *Store) AdministratorAddress(_ context.Context) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.admin == "" {
		return "", fmt.Errorf("administrator address not configured")
	}
	return s.admin, nil
}

// Snapshot is the serializable bucket layout shared by the sqlite and postgres
// adapters.
type Snapshot struct {
	Batches              []domain.Batch                    `json:"batches"`
	Participants         []domain.Participant              `json:"participants"`
	Transfers            []domain.TransferRecord           `json:"transfers"`
	RegistrationRequests []domain.RegistrationRequestEvent `json:"registration_requests"`
	StatusChanges        []domain.StatusChangeEvent        `json:"status_changes"`
	Administrator        string                            `json:"administrator"`
}

// ExportState returns a deterministic snapshot of all held facts.
func (s *Store) ExportState() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	snap := Snapshot{Administrator: s.admin}
	for _, b := range s.batches {
		snap.Batches = append(snap.Batches, cloneBatch(b))
	}
	sort.Slice(snap.Batches, func(i, j int) bool { return snap.Batches[i].ID < snap.Batches[j].ID })
	for _, p := range s.participants {
		snap.Participants = append(snap.Participants, p)
	}
	sort.Slice(snap.Participants, func(i, j int) bool { return snap.Participants[i].Address < snap.Participants[j].Address })
	for _, t := range s.transfers {
		snap.Transfers = append(snap.Transfers, t)
	}
	sort.Slice(snap.Transfers, func(i, j int) bool { return snap.Transfers[i].ID < snap.Transfers[j].ID })
	snap.RegistrationRequests = append(snap.RegistrationRequests, s.requests...)
	snap.StatusChanges = append(snap.StatusChanges, s.statusChanges...)
	return snap
}

// ImportState replaces all held facts with the snapshot's contents.
func (s *Store) ImportState(snap Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.batches = make(map[uint64]domain.Batch, len(snap.Batches))
	for _, b := range snap.Batches {
		s.batches[b.ID] = cloneBatch(b)
	}
	s.participants = make(map[string]domain.Participant, len(snap.Participants))
	for _, p := range snap.Participants {
		s.participants[p.Address] = p
	}
	s.transfers = make(map[uint64]domain.TransferRecord, len(snap.Transfers))
	for _, t := range snap.Transfers {
		s.transfers[t.ID] = t
	}
	s.requests = append([]domain.RegistrationRequestEvent(nil), snap.RegistrationRequests...)
	s.statusChanges = append([]domain.StatusChangeEvent(nil), snap.StatusChanges...)
	s.admin = snap.Administrator
}

func cloneBatch(b domain.Batch) domain.Batch {
	cp := b
	cp.Inputs = append([]domain.BatchInput(nil), b.Inputs...)
	if b.Features != nil {
		cp.Features = make(map[string]any, len(b.Features))
		for k, v := range b.Features {
			cp.Features[k] = v
		}
	}
	return cp
}
