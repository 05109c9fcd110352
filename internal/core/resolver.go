package core

import (
	"context"
	"errors"
	"fmt"
)

// Resolver rebuilds the multi-tier production lineage of a batch from the
// ledger's independent fact streams: composition declarations, custody
// transfers, and identity records. Expansion stops two tiers below the queried
// batch. Results are rebuilt fresh per call and shared with nobody.
type Resolver struct {
	reader  LedgerReader
	txIndex TxHashIndex
}

// NewResolver constructs a resolver over the given ledger read façade. txIndex
// may be nil; when present it is consulted best-effort for display hashes and
// never fails a resolution.
func NewResolver(reader LedgerReader, txIndex TxHashIndex) *Resolver {
	return &Resolver{reader: reader, txIndex: txIndex}
}

// ResolveLineage reconstructs the lineage tree for batchID: the batch's direct
// inputs (tier 0) and each direct input's own inputs (tier 1). Only a missing
// or unreadable root batch fails the call; every per-ancestor failure degrades
// that single node and resolution continues. Node order within a tier follows
// the order of the declarations they came from.
func (r *Resolver) ResolveLineage(ctx context.Context, batchID uint64) (LineageTree, error) {
	root, err := r.getBatch(ctx, batchID)
	if err != nil {
		var nf ErrNotFound
		if errors.As(err, &nf) {
			return LineageTree{}, nf
		}
		return LineageTree{}, TransientError{Op: fmt.Sprintf("fetch root batch %d", batchID), Err: err}
	}

	tree := LineageTree{RootID: root.ID, RootProducer: root.Producer}
	if p, perr := r.getParticipant(ctx, root.Producer); perr == nil {
		tree.RootRole = p.Role
	}
	tree.Inputs = make([]LineageNode, 0, len(root.Inputs))
	for _, in := range root.Inputs {
		tree.Inputs = append(tree.Inputs, r.resolveNode(ctx, in, root.Producer, true))
	}
	return tree, nil
}

// resolveNode enriches one declared input. consumer is the producer address of
// the batch that declared the input; acquisition time is correlated against
// that address because it is the party that must have accepted the transfer.
func (r *Resolver) resolveNode(ctx context.Context, in BatchInput, consumer string, expand bool) LineageNode {
	node := LineageNode{BatchID: in.BatchID, Quantity: in.Quantity, State: NodeResolved}

	batch, err := r.getBatch(ctx, in.BatchID)
	if err != nil {
		// A dangling reference must not abort the whole resolution.
		node.State = NodeDegraded
		node.DegradedReason = "batch record unavailable"
		return node
	}
	node.Producer = batch.Producer
	node.Name = batch.Name
	created := batch.CreatedAt
	node.CreatedAt = &created

	if p, perr := r.getParticipant(ctx, batch.Producer); perr == nil {
		node.Organization = p.Organization
		node.Role = p.Role
	} else {
		node.State = NodeDegraded
		node.DegradedReason = degradeReason(node.DegradedReason, "producer identity unavailable")
	}

	if acquired, ok, terr := LatestAcceptedTransferTime(ctx, r.reader, in.BatchID, consumer); terr != nil {
		node.State = NodeDegraded
		node.DegradedReason = degradeReason(node.DegradedReason, "acquisition time unavailable")
	} else if ok {
		at := acquired
		node.AcquiredAt = &at
		// Surfaced, never corrected: acquisition before creation is a
		// ledger-side ordering defect.
		if at.Before(created) {
			node.InconsistentTiming = true
		}
	}

	if r.txIndex != nil {
		if hash, ok, herr := r.txIndex.TxHashForBatch(ctx, in.BatchID); herr == nil && ok {
			node.TxHash = hash
		}
	}

	if expand {
		for _, child := range batch.Inputs {
			node.Inputs = append(node.Inputs, r.resolveNode(ctx, child, batch.Producer, false))
		}
	}
	return node
}

func degradeReason(existing, added string) string {
	if existing == "" {
		return added
	}
	return existing + "; " + added
}

// getBatch reads a batch, retrying once when the ledger reports a stale
// viewpoint. No other error class is retried.
func (r *Resolver) getBatch(ctx context.Context, id uint64) (Batch, error) {
	b, err := r.reader.GetBatch(ctx, id)
	if err != nil && errors.Is(err, ErrStaleViewpoint) {
		b, err = r.reader.GetBatch(ctx, id)
	}
	return b, err
}

func (r *Resolver) getParticipant(ctx context.Context, address string) (Participant, error) {
	p, err := r.reader.GetParticipant(ctx, address)
	if err != nil && errors.Is(err, ErrStaleViewpoint) {
		p, err = r.reader.GetParticipant(ctx, address)
	}
	return p, err
}
