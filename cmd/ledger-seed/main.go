// Command ledger-seed loads a JSON ledger snapshot into the configured sqlite
// or postgres store so lineage-report and tests can run against a local copy
// of on-ledger facts.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"provencore/internal/infra/ledger/memory"
	"provencore/internal/infra/ledger/postgres"
	"provencore/internal/infra/ledger/sqlite"
)

func main() {
	path := flag.String("snapshot", "", "path to a JSON ledger snapshot")
	flag.Parse()

	if *path == "" {
		fmt.Fprintln(os.Stderr, "usage: ledger-seed -snapshot <file>")
		os.Exit(2)
	}
	data, err := os.ReadFile(*path)
	if err != nil {
		fatal(err)
	}
	var snap memory.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		fatal(fmt.Errorf("decode snapshot: %w", err))
	}

	driver := os.Getenv("PROVENCORE_LEDGER_DRIVER")
	if driver == "" {
		driver = "sqlite"
	}
	load := func(ms *memory.Store) error {
		ms.ImportState(snap)
		return nil
	}
	switch driver {
	case "sqlite":
		store, err := sqlite.NewStore(os.Getenv("PROVENCORE_SQLITE_PATH"))
		if err != nil {
			fatal(err)
		}
		if err := store.Apply(load); err != nil {
			fatal(err)
		}
		fmt.Printf("seeded %s\n", store.Path())
	case "postgres":
		store, err := postgres.NewStore(os.Getenv("PROVENCORE_POSTGRES_DSN"))
		if err != nil {
			fatal(err)
		}
		if err := store.Apply(context.Background(), load); err != nil {
			fatal(err)
		}
		fmt.Println("seeded postgres")
	default:
		fatal(fmt.Errorf("driver %s does not persist snapshots", driver))
	}
}

func fatal(err error) {
	fmt.Fprintln(os.Stderr, "ledger-seed:", err)
	os.Exit(1)
}
