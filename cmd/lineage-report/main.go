// Command lineage-report resolves the production lineage of a batch from the
// configured ledger snapshot and prints the tiers a given viewer may see.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"provencore/internal/core"
	"provencore/internal/txindex"
	"provencore/pkg/domain"
)

func main() {
	batchID := flag.Uint64("batch", 0, "batch id to resolve")
	role := flag.String("role", "", "viewer role: producer|processor|distributor|consumer (empty for none)")
	admin := flag.Bool("admin", false, "treat the viewer as the ledger administrator")
	flag.Parse()

	if *batchID == 0 {
		fmt.Fprintln(os.Stderr, "usage: lineage-report -batch <id> [-role <role>] [-admin]")
		os.Exit(2)
	}
	viewerRole := domain.Role(*role)
	if *role != "" && !viewerRole.Valid() {
		fmt.Fprintf(os.Stderr, "lineage-report: unknown role %q\n", *role)
		os.Exit(2)
	}

	ctx := context.Background()
	reader, err := core.OpenLedgerReader()
	if err != nil {
		fatal(err)
	}
	index, err := txindex.Open(ctx)
	if err != nil {
		fatal(err)
	}
	svc, err := core.NewService(core.ServiceConfig{Reader: reader, TxIndex: index})
	if err != nil {
		fatal(err)
	}

	tree, err := svc.ResolveLineage(ctx, *batchID)
	if err != nil {
		fatal(err)
	}
	visible := core.VisibleTiers(tree, core.Viewer{Role: viewerRole, Administrator: *admin})

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(visible); err != nil {
		fatal(err)
	}
}

func fatal(err error) {
	fmt.Fprintln(os.Stderr, "lineage-report:", err)
	os.Exit(1)
}
