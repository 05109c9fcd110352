// Package txindex opens the read-only historical transaction-hash index
// behind an environment-driven factory. The index is a display-only
// collaborator: lookups are best-effort and its absence is never fatal.
package txindex

import (
	"context"
	"fmt"
	"os"

	memindex "provencore/internal/infra/txindex/memory"
	s3index "provencore/internal/infra/txindex/s3"
	"provencore/pkg/domain"
)

// Driver identifies a tx-hash index backend.
type Driver string

const (
	// DriverNone disables the index entirely.
	DriverNone Driver = "none"
	// DriverMemory is the in-memory test driver.
	DriverMemory Driver = "memory"
	// DriverS3 reads hashes from an S3-compatible object store.
	DriverS3 Driver = "s3"
)

// Open selects an index implementation using environment variables. Driver
// none returns a nil index, which callers treat as "always absent".
//
//	PROVENCORE_TXINDEX_DRIVER: none|memory|s3 (default none)
//	(S3 specific variables documented in the s3 package)
func Open(ctx context.Context) (domain.TxHashIndex, error) {
	driver := os.Getenv("PROVENCORE_TXINDEX_DRIVER")
	if driver == "" {
		driver = string(DriverNone)
	}
	switch Driver(driver) {
	case DriverNone:
		return nil, nil
	case DriverMemory:
		return memindex.NewIndex(), nil
	case DriverS3:
		return s3index.OpenFromEnv(ctx)
	default:
		return nil, fmt.Errorf("unknown txindex driver %s", driver)
	}
}
