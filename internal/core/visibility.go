package core

// Viewer identifies who is asking for lineage disclosure. The administrator is
// recognised by address, not role, so the flag travels separately.
type Viewer struct {
	Role          Role
	Administrator bool
}

// ViewerFromSnapshot derives a viewer from an identity snapshot. Only the
// active role counts: a pending or unapproved role discloses nothing extra.
func ViewerFromSnapshot(s IdentitySnapshot) Viewer {
	v := Viewer{Administrator: s.IsAdministrator}
	if s.ActiveRole != nil {
		v.Role = *s.ActiveRole
	}
	return v
}

// VisibleTiers returns the subset of the lineage tree disclosed to the viewer.
// The root summary is always shown. Nodes are classified by their producer's
// resolved role, never by raw tier index: the depth at which producer-origin
// nodes appear depends on who made the root batch. Nodes whose producer role
// could not be resolved are excluded from every role-specific grouping but
// remain in the full disclosure. The function is pure: same tree and viewer
// always produce the same subset, and the result shares no slices with the
// input.
func VisibleTiers(tree LineageTree, viewer Viewer) LineageTree {
	switch {
	case viewer.Administrator, viewer.Role == RoleConsumer:
		out := tree
		out.Inputs = cloneNodes(tree.Inputs)
		return out
	case viewer.Role == RoleDistributor:
		out := tree
		out.Inputs = filterNodes(tree.Inputs, map[Role]bool{RoleProcessor: true, RoleProducer: true}, true)
		return out
	default:
		// No role, producer, or processor: nearest producer-origin tier only.
		out := tree
		out.Inputs = filterNodes(tree.Inputs, map[Role]bool{RoleProducer: true}, false)
		return out
	}
}

// filterNodes keeps nodes whose producer role is in the allowed set. A node
// outside the set is replaced in place by its own disclosed inputs, so the
// producer-origin tier surfaces at whatever depth it actually sits. When
// keepChildren is false the kept nodes are flattened to a single tier.
func filterNodes(nodes []LineageNode, allowed map[Role]bool, keepChildren bool) []LineageNode {
	var out []LineageNode
	for _, n := range nodes {
		children := filterNodes(n.Inputs, allowed, keepChildren)
		if allowed[n.Role] {
			kept := n
			kept.Inputs = nil
			if keepChildren {
				kept.Inputs = children
			}
			out = append(out, kept)
			continue
		}
		out = append(out, children...)
	}
	return out
}

func cloneNodes(nodes []LineageNode) []LineageNode {
	if nodes == nil {
		return nil
	}
	out := make([]LineageNode, len(nodes))
	for i, n := range nodes {
		n.Inputs = cloneNodes(n.Inputs)
		out[i] = n
	}
	return out
}
