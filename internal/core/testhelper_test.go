package core

import (
	"context"
	"sync"
	"testing"
	"time"

	"provencore/internal/infra/ledger/memory"
	"provencore/pkg/domain"
)

var fixtureBase = time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)

// seedChain populates a store with the canonical three-tier chain: batch 10
// (consumer-made) consumes batch 7 (distributor-made) which consumes batch 3
// (producer-made).
func seedChain(t *testing.T) *memory.Store {
	t.Helper()
	s := memory.NewStore()
	s.SetAdministrator("admin")
	s.PutParticipant(domain.Participant{
		Address: "alice", Role: RoleProducer, Status: StatusApproved,
		Organization: "Alpine Farms", FirstName: "Alice", LastName: "Arnold",
	})
	s.PutParticipant(domain.Participant{
		Address: "bob", Role: RoleProcessor, Status: StatusApproved,
		Organization: "Bobbin Mills", FirstName: "Bob", LastName: "Breck",
	})
	s.PutParticipant(domain.Participant{
		Address: "carol", Role: RoleDistributor, Status: StatusApproved,
		Organization: "Carryall Logistics", FirstName: "Carol", LastName: "Chen",
	})
	s.PutParticipant(domain.Participant{
		Address: "dave", Role: RoleConsumer, Status: StatusApproved,
		Organization: "Dovetail Retail", FirstName: "Dave", LastName: "Dorn",
	})

	s.PutBatch(domain.Batch{
		ID: 3, Producer: "alice", Name: "raw lot",
		TotalQuantity: 40, AvailableQuantity: 35,
		CreatedAt: fixtureBase,
	})
	s.PutBatch(domain.Batch{
		ID: 7, Producer: "carol", Name: "bundled lot",
		TotalQuantity: 10, AvailableQuantity: 8,
		Inputs:    []domain.BatchInput{{BatchID: 3, Quantity: 5}},
		CreatedAt: fixtureBase.Add(3 * 24 * time.Hour),
	})
	s.PutBatch(domain.Batch{
		ID: 10, Producer: "dave", Name: "retail lot",
		TotalQuantity: 2, AvailableQuantity: 2,
		Inputs:    []domain.BatchInput{{BatchID: 7, Quantity: 2}},
		CreatedAt: fixtureBase.Add(6 * 24 * time.Hour),
	})

	s.PutTransfer(domain.TransferRecord{
		ID: 1, From: "alice", To: "carol", BatchID: 3, Quantity: 5,
		Status: TransferAccepted, CreatedAt: fixtureBase.Add(2 * 24 * time.Hour),
	})
	s.PutTransfer(domain.TransferRecord{
		ID: 2, From: "carol", To: "dave", BatchID: 7, Quantity: 2,
		Status: TransferAccepted, CreatedAt: fixtureBase.Add(5 * 24 * time.Hour),
	})
	return s
}

// flakyReader wraps a LedgerReader, failing selected operations.
type flakyReader struct {
	domain.LedgerReader

	mu                 sync.Mutex
	participantErr     map[string]error
	batchErr           map[uint64]error
	transfersErr       error
	registrationErr    error
	adminErr           error
	staleBatchOnce     map[uint64]bool
	participantBlocked chan struct{} // when set, first GetParticipant call waits
	participantCalls   int
}

func (f *flakyReader) GetBatch(ctx context.Context, id uint64) (domain.Batch, error) {
	f.mu.Lock()
	if f.staleBatchOnce != nil && f.staleBatchOnce[id] {
		f.staleBatchOnce[id] = false
		f.mu.Unlock()
		return domain.Batch{}, domain.ErrStaleViewpoint
	}
	err := f.batchErr[id]
	f.mu.Unlock()
	if err != nil {
		return domain.Batch{}, err
	}
	return f.LedgerReader.GetBatch(ctx, id)
}

func (f *flakyReader) GetParticipant(ctx context.Context, address string) (domain.Participant, error) {
	f.mu.Lock()
	f.participantCalls++
	calls := f.participantCalls
	blocked := f.participantBlocked
	err := f.participantErr[address]
	f.mu.Unlock()
	if blocked != nil && calls == 1 {
		<-blocked
	}
	if err != nil {
		return domain.Participant{}, err
	}
	return f.LedgerReader.GetParticipant(ctx, address)
}

func (f *flakyReader) TransfersInvolving(ctx context.Context, address string) ([]domain.TransferRecord, error) {
	f.mu.Lock()
	err := f.transfersErr
	f.mu.Unlock()
	if err != nil {
		return nil, err
	}
	return f.LedgerReader.TransfersInvolving(ctx, address)
}

func (f *flakyReader) RegistrationRequestEvents(ctx context.Context, address string) ([]domain.RegistrationRequestEvent, error) {
	f.mu.Lock()
	err := f.registrationErr
	f.mu.Unlock()
	if err != nil {
		return nil, err
	}
	return f.LedgerReader.RegistrationRequestEvents(ctx, address)
}

func (f *flakyReader) AdministratorAddress(ctx context.Context) (string, error) {
	f.mu.Lock()
	err := f.adminErr
	f.mu.Unlock()
	if err != nil {
		return "", err
	}
	return f.LedgerReader.AdministratorAddress(ctx)
}

func (f *flakyReader) participantCallCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.participantCalls
}

// mapIndex is a fixed tx-hash index for resolver tests.
type mapIndex map[uint64]string

func (m mapIndex) TxHashForBatch(_ context.Context, id uint64) (string, bool, error) {
	h, ok := m[id]
	return h, ok, nil
}

// waitFor polls cond until it holds or the deadline passes.
func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(2 * time.Millisecond)
	}
	t.Fatalf("condition not reached before deadline")
}
