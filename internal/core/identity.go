package core

import (
	"context"
	"errors"
	"sync"

	"provencore/pkg/domain"
)

// IdentityManager materializes per-participant identity snapshots and keeps
// them live as triggers arrive (wallet-account change, chain-head advance, the
// two ledger event streams). All trigger sources funnel through Trigger; the
// manager owns the coalescing logic: at most one refresh per address is in
// flight, and triggers arriving mid-refresh collapse into exactly one
// follow-up refresh, never more.
type IdentityManager struct {
	reader   LedgerReader
	onUpdate func(IdentitySnapshot)
	admin    adminCell

	mu     sync.Mutex
	states map[string]*participantState
}

type participantState struct {
	inFlight bool
	followUp bool
	started  uint64
	finished uint64
	snapshot IdentitySnapshot
	ready    bool
	done     chan struct{} // closed and replaced at each refresh completion
}

// NewIdentityManager constructs a manager over the ledger read façade.
// onUpdate, when non-nil, is invoked after every completed refresh with the
// freshly composed snapshot.
func NewIdentityManager(reader LedgerReader, onUpdate func(IdentitySnapshot)) *IdentityManager {
	return &IdentityManager{
		reader:   reader,
		onUpdate: onUpdate,
		states:   make(map[string]*participantState),
	}
}

// Trigger requests a refresh of the address's snapshot. It never blocks: if a
// refresh is already in flight, one follow-up is marked pending and the call
// returns.
func (m *IdentityManager) Trigger(address string) {
	m.mu.Lock()
	st := m.state(address)
	if st.inFlight {
		st.followUp = true
		m.mu.Unlock()
		return
	}
	st.inFlight = true
	st.started++
	m.mu.Unlock()
	go m.run(address)
}

// Refresh triggers a refresh and waits for the completion of one that began at
// or after this call, so the returned snapshot reflects facts no older than
// the moment of invocation. Context cancellation abandons the wait; the
// in-flight fetch-and-compose still completes and its result is kept.
func (m *IdentityManager) Refresh(ctx context.Context, address string) (IdentitySnapshot, error) {
	m.mu.Lock()
	st := m.state(address)
	var target uint64
	if st.inFlight {
		st.followUp = true
		target = st.started + 1
	} else {
		st.inFlight = true
		st.started++
		target = st.started
		go m.run(address)
	}
	m.mu.Unlock()

	for {
		m.mu.Lock()
		st = m.state(address)
		if st.finished >= target {
			snap := st.snapshot
			m.mu.Unlock()
			return snap, nil
		}
		ch := st.done
		m.mu.Unlock()
		select {
		case <-ctx.Done():
			return IdentitySnapshot{}, ctx.Err()
		case <-ch:
		}
	}
}

// Snapshot returns the last composed snapshot for the address, if any refresh
// has completed.
func (m *IdentityManager) Snapshot(address string) (IdentitySnapshot, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	st, ok := m.states[address]
	if !ok || !st.ready {
		return IdentitySnapshot{}, false
	}
	return st.snapshot, true
}

// state returns the tracked state for an address, creating it on first use.
// Callers must hold m.mu.
func (m *IdentityManager) state(address string) *participantState {
	st, ok := m.states[address]
	if !ok {
		st = &participantState{done: make(chan struct{})}
		m.states[address] = st
	}
	return st
}

func (m *IdentityManager) run(address string) {
	for {
		snap := m.compose(context.Background(), address)

		m.mu.Lock()
		st := m.state(address)
		st.snapshot = snap
		st.ready = true
		st.finished++
		close(st.done)
		st.done = make(chan struct{})
		again := st.followUp
		st.followUp = false
		if again {
			st.started++
		} else {
			st.inFlight = false
		}
		cb := m.onUpdate
		m.mu.Unlock()

		if cb != nil {
			cb(snap)
		}
		if !again {
			return
		}
	}
}

// compose fetches the participant record, the newest registration-request
// event, and the (cached) administrator address, and combines them into one
// consistent snapshot. Any transient fetch failure yields the empty snapshot:
// stale trust is never retained. A missing participant record is a valid
// unregistered state, not a failure.
func (m *IdentityManager) compose(ctx context.Context, address string) IdentitySnapshot {
	admin, err := m.admin.get(ctx, m.reader)
	if err != nil {
		return domain.EmptySnapshot(address)
	}

	snap := domain.EmptySnapshot(address)
	snap.IsAdministrator = address == admin

	part, err := m.getParticipant(ctx, address)
	var nf ErrNotFound
	switch {
	case err == nil:
		snap.Role = part.Role
		snap.PendingRole = part.PendingRole
		snap.Status = part.Status
		snap.Organization = part.Organization
		snap.FirstName = part.FirstName
		snap.LastName = part.LastName
		if part.Status == StatusApproved && part.Role.Valid() {
			role := part.Role
			snap.ActiveRole = &role
		}
	case errors.As(err, &nf):
		// Unregistered address; the administrator commonly has no record.
	default:
		return domain.EmptySnapshot(address)
	}

	events, err := m.registrationEvents(ctx, address)
	if err != nil {
		return domain.EmptySnapshot(address)
	}
	if len(events) > 0 {
		last := events[len(events)-1]
		role := last.RequestedRole
		at := last.BlockTime
		snap.LastRequestedRole = &role
		snap.LastRequestedAt = &at
		if snap.PendingRole.Valid() && last.RequestedRole != snap.PendingRole {
			// The on-ledger pending field wins; the disagreement is a
			// data-freshness race and gets flagged, not resolved.
			pending := snap.PendingRole
			snap.LastRequestedRole = &pending
			snap.PendingRoleConflict = true
		}
	} else if snap.PendingRole.Valid() {
		pending := snap.PendingRole
		snap.LastRequestedRole = &pending
	}
	return snap
}

func (m *IdentityManager) getParticipant(ctx context.Context, address string) (Participant, error) {
	p, err := m.reader.GetParticipant(ctx, address)
	if err != nil && errors.Is(err, ErrStaleViewpoint) {
		p, err = m.reader.GetParticipant(ctx, address)
	}
	return p, err
}

func (m *IdentityManager) registrationEvents(ctx context.Context, address string) ([]RegistrationRequestEvent, error) {
	evs, err := m.reader.RegistrationRequestEvents(ctx, address)
	if err != nil && errors.Is(err, ErrStaleViewpoint) {
		evs, err = m.reader.RegistrationRequestEvents(ctx, address)
	}
	return evs, err
}

// adminCell caches the ledger's designated administrator address for the
// process lifetime. Write once, then read only: the first successful fetch
// wins.
type adminCell struct {
	mu   sync.Mutex
	addr string
	set  bool
}

func (c *adminCell) get(ctx context.Context, reader LedgerReader) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.set {
		return c.addr, nil
	}
	addr, err := reader.AdministratorAddress(ctx)
	if err != nil && errors.Is(err, ErrStaleViewpoint) {
		addr, err = reader.AdministratorAddress(ctx)
	}
	if err != nil {
		return "", err
	}
	c.addr, c.set = addr, true
	return addr, nil
}
