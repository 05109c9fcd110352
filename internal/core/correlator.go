package core

import (
	"context"
	"time"
)

// LatestAcceptedTransferTime returns the creation time of the latest accepted
// transfer of batchID to recipient, scanning the recipient's transfer records
// in a single ledger read. ok is false when no record matches; absence is a
// normal outcome, not an error. Record order does not matter: ties keep the
// maximum time seen. Query failures propagate unmodified.
func LatestAcceptedTransferTime(ctx context.Context, reader LedgerReader, batchID uint64, recipient string) (time.Time, bool, error) {
	records, err := reader.TransfersInvolving(ctx, recipient)
	if err != nil {
		return time.Time{}, false, err
	}
	var latest time.Time
	found := false
	for _, rec := range records {
		if rec.To != recipient || rec.BatchID != batchID || rec.Status != TransferAccepted {
			continue
		}
		if !found || rec.CreatedAt.After(latest) {
			latest = rec.CreatedAt
			found = true
		}
	}
	return latest, found, nil
}
