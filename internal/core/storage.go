package core

import (
	"fmt"
	"os"

	"provencore/internal/infra/ledger/memory"
	"provencore/internal/infra/ledger/postgres"
	"provencore/internal/infra/ledger/sqlite"
	"provencore/pkg/domain"
)

// LedgerDriver identifies a concrete ledger snapshot backend.
type LedgerDriver string

const (
	LedgerMemory   LedgerDriver = "memory"   // in-memory only (tests / ephemeral)
	LedgerSQLite   LedgerDriver = "sqlite"   // embedded sqlite snapshot file
	LedgerPostgres LedgerDriver = "postgres" // PostgreSQL server
)

// OpenLedgerReader selects a ledger adapter using environment variables.
// Defaults to sqlite when unset.
//
//	PROVENCORE_LEDGER_DRIVER: memory|sqlite|postgres (default sqlite)
//	PROVENCORE_SQLITE_PATH: path to sqlite file (default ./provencore.db)
//	PROVENCORE_POSTGRES_DSN: postgres DSN when driver=postgres
func OpenLedgerReader() (domain.LedgerReader, error) {
	driver := os.Getenv("PROVENCORE_LEDGER_DRIVER")
	if driver == "" {
		driver = string(LedgerSQLite)
	}
	switch LedgerDriver(driver) {
	case LedgerMemory:
		return memory.NewStore(), nil
	case LedgerSQLite:
		path := os.Getenv("PROVENCORE_SQLITE_PATH")
		return sqlite.NewStore(path)
	case LedgerPostgres:
		dsn := os.Getenv("PROVENCORE_POSTGRES_DSN")
		return postgres.NewStore(dsn)
	default:
		return nil, fmt.Errorf("unknown ledger driver %s", driver)
	}
}
