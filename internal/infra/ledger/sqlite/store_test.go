package sqlite

import (
	"context"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"provencore/internal/infra/ledger/memory"
	"provencore/pkg/domain"
)

var base = time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)

func seed(ms *memory.Store) error {
	ms.SetAdministrator("admin")
	ms.PutParticipant(domain.Participant{
		Address: "alice", Role: domain.RoleProducer, Status: domain.StatusApproved,
		Organization: "Alpine Farms",
	})
	ms.PutBatch(domain.Batch{ID: 3, Producer: "alice", Name: "raw lot", CreatedAt: base})
	ms.PutBatch(domain.Batch{
		ID: 7, Producer: "alice", Name: "bundled lot",
		Inputs:    []domain.BatchInput{{BatchID: 3, Quantity: 5}},
		CreatedAt: base.Add(24 * time.Hour),
	})
	ms.PutTransfer(domain.TransferRecord{
		ID: 1, From: "alice", To: "bob", BatchID: 3, Quantity: 5,
		Status: domain.TransferAccepted, CreatedAt: base.Add(12 * time.Hour),
	})
	ms.AppendRegistrationRequest(domain.RegistrationRequestEvent{
		Address: "alice", RequestedRole: domain.RoleProducer, BlockTime: base,
	})
	return nil
}

func TestStorePersistsAcrossReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "ledger.db")

	first, err := NewStore(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if err := first.Apply(seed); err != nil {
		t.Fatalf("apply: %v", err)
	}
	want := first.ExportState()
	if err := first.DB().Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	second, err := NewStore(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer func() { _ = second.DB().Close() }()

	if got := second.ExportState(); !reflect.DeepEqual(got, want) {
		t.Fatalf("state did not survive reopen\nwant: %+v\ngot: %+v", want, got)
	}
	b, err := second.GetBatch(ctx, 7)
	if err != nil {
		t.Fatalf("get batch: %v", err)
	}
	if len(b.Inputs) != 1 || b.Inputs[0].BatchID != 3 {
		t.Fatalf("inputs lost through persistence: %+v", b)
	}
	addr, err := second.AdministratorAddress(ctx)
	if err != nil || addr != "admin" {
		t.Fatalf("administrator lost: %q (%v)", addr, err)
	}
}

func TestStoreDefaultsPathAndCreatesDirectories(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "ledger.db")
	s, err := NewStore(path)
	if err != nil {
		t.Fatalf("open with nested dirs: %v", err)
	}
	defer func() { _ = s.DB().Close() }()
	if s.Path() != path {
		t.Fatalf("expected %q, got %q", path, s.Path())
	}
}

func TestApplyFailureSkipsPersist(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ledger.db")
	s, err := NewStore(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if err := s.Apply(seed); err != nil {
		t.Fatalf("seed: %v", err)
	}
	want := s.ExportState()

	applyErr := s.Apply(func(ms *memory.Store) error {
		ms.SetAdministrator("mallory")
		return context.Canceled
	})
	if applyErr == nil {
		t.Fatalf("expected the seeding error to surface")
	}
	if err := s.DB().Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	reopened, err := NewStore(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer func() { _ = reopened.DB().Close() }()
	if got := reopened.ExportState(); !reflect.DeepEqual(got, want) {
		t.Fatalf("failed apply must not reach disk\nwant: %+v\ngot: %+v", want, got)
	}
}
