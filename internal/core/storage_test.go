package core

import (
	"path/filepath"
	"testing"

	"provencore/internal/infra/ledger/memory"
	"provencore/internal/infra/ledger/sqlite"
)

func TestOpenLedgerReaderMemoryDriver(t *testing.T) {
	t.Setenv("PROVENCORE_LEDGER_DRIVER", "memory")
	reader, err := OpenLedgerReader()
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if _, ok := reader.(*memory.Store); !ok {
		t.Fatalf("expected the in-memory store, got %T", reader)
	}
}

func TestOpenLedgerReaderDefaultsToSQLite(t *testing.T) {
	t.Setenv("PROVENCORE_LEDGER_DRIVER", "")
	t.Setenv("PROVENCORE_SQLITE_PATH", filepath.Join(t.TempDir(), "ledger.db"))
	reader, err := OpenLedgerReader()
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	store, ok := reader.(*sqlite.Store)
	if !ok {
		t.Fatalf("expected the sqlite store, got %T", reader)
	}
	defer func() { _ = store.DB().Close() }()
}

func TestOpenLedgerReaderRejectsUnknownDriver(t *testing.T) {
	t.Setenv("PROVENCORE_LEDGER_DRIVER", "cassandra")
	if _, err := OpenLedgerReader(); err == nil {
		t.Fatalf("expected an unknown driver to fail")
	}
}
