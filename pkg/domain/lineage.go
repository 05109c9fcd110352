package domain

import "time"

// NodeState tags how completely a lineage node was enriched.
type NodeState string

// Node enrichment outcomes. Degraded nodes keep their minimal fields (batch id,
// quantity) and record why the rest is missing; they are never silently dropped.
const (
	NodeResolved NodeState = "resolved"
	NodeDegraded NodeState = "degraded"
)

// LineageNode is one reconstructed ancestor in a batch's lineage. Optional
// fields stay nil/empty when the corresponding fact could not be resolved; a
// degraded node is distinguishable from a resolved one by State and by the
// absence of those fields, never by empty-string placeholders.
type LineageNode struct {
	BatchID  uint64 `json:"batch_id"`
	Quantity uint64 `json:"quantity"`

	Producer     string `json:"producer,omitempty"`
	Organization string `json:"organization,omitempty"`
	Role         Role   `json:"role,omitempty"`
	Name         string `json:"name,omitempty"`

	CreatedAt  *time.Time `json:"created_at,omitempty"`
	AcquiredAt *time.Time `json:"acquired_at,omitempty"`

	// InconsistentTiming flags AcquiredAt < CreatedAt. The engine surfaces the
	// anomaly and never corrects it; it indicates a ledger-side ordering defect.
	InconsistentTiming bool `json:"inconsistent_timing,omitempty"`

	TxHash string `json:"tx_hash,omitempty"`

	State          NodeState `json:"state"`
	DegradedReason string    `json:"degraded_reason,omitempty"`

	// Inputs holds the node's own direct inputs (one tier deeper). Empty at the
	// deepest reconstructed tier.
	Inputs []LineageNode `json:"inputs,omitempty"`
}

// RoleResolved reports whether the node's producer role was resolved.
func (n LineageNode) RoleResolved() bool { return n.Role.Valid() }

// LineageTree is the reconstructed two-tier ancestry of one batch. It is
// rebuilt fresh per resolution call and never mutated in place.
type LineageTree struct {
	RootID       uint64        `json:"root_id"`
	RootProducer string        `json:"root_producer"`
	RootRole     Role          `json:"root_role,omitempty"`
	Inputs       []LineageNode `json:"inputs"`
}

// Tiers returns the nodes grouped by distance from the root: index 0 holds the
// root's direct inputs, index 1 their inputs. Declaration order is preserved
// within each tier. The returned slices alias the tree's nodes; callers must
// treat them as read-only.
func (t LineageTree) Tiers() [][]LineageNode {
	if len(t.Inputs) == 0 {
		return nil
	}
	tiers := [][]LineageNode{t.Inputs}
	var next []LineageNode
	for _, n := range t.Inputs {
		next = append(next, n.Inputs...)
	}
	if len(next) > 0 {
		tiers = append(tiers, next)
	}
	return tiers
}
