package core

import (
	"context"
	"fmt"
	"time"
)

// Service is the engine façade: lineage resolution, visibility filtering, and
// identity snapshots, all over one ledger read façade. Every operation is a
// pure read of the external ledger; the service holds no durable state of its
// own.
type Service struct {
	reader   LedgerReader
	resolver *Resolver
	identity *IdentityManager
	metrics  MetricsRecorder
	tracer   Tracer
}

// ServiceConfig holds explicit construction parameters. Only Reader is
// required; every other collaborator degrades to a no-op when unset.
type ServiceConfig struct {
	Reader           LedgerReader
	TxIndex          TxHashIndex
	Metrics          MetricsRecorder
	Tracer           Tracer
	OnIdentityUpdate func(IdentitySnapshot)
}

// NewService constructs a service from the supplied configuration.
func NewService(cfg ServiceConfig) (*Service, error) {
	if cfg.Reader == nil {
		return nil, fmt.Errorf("ledger reader required")
	}
	return &Service{
		reader:   cfg.Reader,
		resolver: NewResolver(cfg.Reader, cfg.TxIndex),
		identity: NewIdentityManager(cfg.Reader, cfg.OnIdentityUpdate),
		metrics:  cfg.Metrics,
		tracer:   cfg.Tracer,
	}, nil
}

// Identity returns the snapshot manager so external trigger sources can be
// wired to it.
func (s *Service) Identity() *IdentityManager { return s.identity }

// ResolveLineage reconstructs the two-tier lineage of the batch.
func (s *Service) ResolveLineage(ctx context.Context, batchID uint64) (LineageTree, error) {
	var tree LineageTree
	err := s.instrument(ctx, "resolve_lineage", func(ctx context.Context) error {
		var err error
		tree, err = s.resolver.ResolveLineage(ctx, batchID)
		return err
	})
	return tree, err
}

// ResolveVisibleLineage resolves the batch's lineage and discloses only the
// tiers the viewer's current identity snapshot permits. When no snapshot
// exists yet for the viewer one synchronous refresh is performed first.
func (s *Service) ResolveVisibleLineage(ctx context.Context, batchID uint64, viewer string) (LineageTree, error) {
	var out LineageTree
	err := s.instrument(ctx, "resolve_visible_lineage", func(ctx context.Context) error {
		snap, ok := s.identity.Snapshot(viewer)
		if !ok {
			var err error
			snap, err = s.identity.Refresh(ctx, viewer)
			if err != nil {
				return err
			}
		}
		tree, err := s.resolver.ResolveLineage(ctx, batchID)
		if err != nil {
			return err
		}
		out = VisibleTiers(tree, ViewerFromSnapshot(snap))
		return nil
	})
	return out, err
}

// LatestAcceptedTransferTime exposes the temporal correlator as a service
// operation.
func (s *Service) LatestAcceptedTransferTime(ctx context.Context, batchID uint64, recipient string) (time.Time, bool, error) {
	var (
		at    time.Time
		found bool
	)
	err := s.instrument(ctx, "latest_accepted_transfer_time", func(ctx context.Context) error {
		var err error
		at, found, err = LatestAcceptedTransferTime(ctx, s.reader, batchID, recipient)
		return err
	})
	return at, found, err
}
