package board

import (
	"context"
	"fmt"

	"github.com/atelierhq/connection-manager/internal/domain"
	"github.com/atelierhq/connection-manager/internal/usecase"
)

// ViewModel is the read-only projection the hosting page renders.
type ViewModel struct {
	View
	Buckets map[domain.RelationshipState][]*domain.Connection
	Counts  []domain.StateCount
}

// Board is the page-level coordinator: it owns the one shared connection
// snapshot, the filter state, the drag engine and all repository traffic.
// Derived views are pure recomputations over the latest snapshot; only the
// board replaces it, by re-fetching.
type Board struct {
	uc     *usecase.ConnectionUseCase
	filter *FilterState
	drag   *DragEngine

	connections []*domain.Connection
	clients     []*domain.Client
	instruments []*domain.Instrument

	submitting bool
	createOpen bool
	editOpen   bool
	editTarget *domain.Connection

	closed bool

	report   func(error)
	onChange func()
}

func NewBoard(uc *usecase.ConnectionUseCase, history History, report func(error), onChange func()) *Board {
	b := &Board{
		uc:       uc,
		report:   report,
		onChange: onChange,
	}
	b.filter = NewFilterState(history, DefaultPageSize)
	b.drag = NewDragEngine(b.reclassify, b.refresh, b.reportErr)
	return b
}

func (b *Board) Filter() *FilterState { return b.filter }

func (b *Board) Submitting() bool { return b.submitting }

func (b *Board) CreateOpen() bool { return b.createOpen }

func (b *Board) EditOpen() bool { return b.editOpen }

func (b *Board) EditTarget() *domain.Connection { return b.editTarget }

func (b *Board) Clients() []*domain.Client { return b.clients }

func (b *Board) Instruments() []*domain.Instrument { return b.instruments }

// Close marks the board as unmounted. Results of calls still in flight are
// discarded instead of being applied to dead state.
func (b *Board) Close() {
	b.closed = true
}

// Load fetches the initial data set: the connection list plus the client and
// instrument collections the create pickers need.
func (b *Board) Load(ctx context.Context) {
	conns, err := b.uc.ListConnections(ctx)
	if b.closed {
		return
	}
	if err != nil {
		b.reportErr(fmt.Errorf("failed to load connections: %w", err))
		return
	}
	b.connections = conns

	clients, err := b.uc.ListClients(ctx)
	if b.closed {
		return
	}
	if err != nil {
		b.reportErr(fmt.Errorf("failed to load clients: %w", err))
	} else {
		b.clients = clients
	}

	instruments, err := b.uc.ListInstruments(ctx)
	if b.closed {
		return
	}
	if err != nil {
		b.reportErr(fmt.Errorf("failed to load instruments: %w", err))
	} else {
		b.instruments = instruments
	}

	b.notify()
}

// View recomputes the grouped, filtered and paginated projection from the
// current snapshot. Counts cover the whole snapshot so the filter pills stay
// stable while searching within one bucket.
func (b *Board) View() ViewModel {
	sorted := domain.SortForFlatView(b.connections)
	v := b.filter.Derive(sorted)
	return ViewModel{
		View:    v,
		Buckets: domain.GroupByState(v.PageItems),
		Counts:  domain.CountsByState(b.connections),
	}
}

func (b *Board) SearchChanged(term string) {
	b.filter.SetSearch(term)
	b.notify()
}

func (b *Board) FilterChanged(state domain.RelationshipState) {
	b.filter.SetState(state)
	b.notify()
}

func (b *Board) PageChanged(n int) {
	b.filter.SetPage(n)
	b.notify()
}

func (b *Board) DragStart(connectionID string) {
	b.drag.Start(connectionID)
	b.notify()
}

func (b *Board) DragOver(zone *DropZone) {
	b.drag.Over(zone)
	b.notify()
}

func (b *Board) DragEnd(ctx context.Context, zone *DropZone) {
	b.drag.End(ctx, zone, b.connections)
	b.notify()
}

func (b *Board) DragCancel() {
	b.drag.Cancel()
	b.notify()
}

func (b *Board) Drag() *DragEngine { return b.drag }

func (b *Board) OpenCreate() {
	b.createOpen = true
	b.notify()
}

func (b *Board) CloseCreate() {
	b.createOpen = false
	b.notify()
}

// SubmitCreate validates locally that both sides of the pairing are chosen
// before anything goes over the wire. On failure the dialog stays open so
// the user can retry without re-entering data; it closes only on confirmed
// success.
func (b *Board) SubmitCreate(ctx context.Context, clientID, instrumentID string, state domain.RelationshipState, notes string) {
	if clientID == "" || instrumentID == "" {
		b.reportErr(&ValidationError{Msg: "both a client and an instrument are required"})
		return
	}
	if state == "" {
		state = domain.Interested
	}

	b.submitting = true
	b.notify()
	_, err := b.uc.CreateConnection(ctx, clientID, instrumentID, state, notes)
	if b.closed {
		return
	}
	b.submitting = false
	if err != nil {
		b.reportErr(fmt.Errorf("failed to create connection: %w", err))
		b.notify()
		return
	}
	b.createOpen = false
	b.refresh(ctx)
	b.notify()
}

func (b *Board) OpenEdit(conn *domain.Connection) {
	b.editTarget = conn
	b.editOpen = true
	b.notify()
}

func (b *Board) CloseEdit() {
	b.editOpen = false
	b.editTarget = nil
	b.notify()
}

// SubmitEdit persists state and notes together. The dialog keeps the entered
// values and stays open unless the update is confirmed.
func (b *Board) SubmitEdit(ctx context.Context, id string, state domain.RelationshipState, notes string) {
	if b.lookup(id) == nil {
		b.reportErr(&NotFoundError{ID: id})
		return
	}

	b.submitting = true
	b.notify()
	err := b.uc.UpdateConnection(ctx, id, state, notes)
	if b.closed {
		return
	}
	b.submitting = false
	if err != nil {
		b.reportErr(fmt.Errorf("failed to update connection: %w", err))
		b.notify()
		return
	}
	b.editOpen = false
	b.editTarget = nil
	b.refresh(ctx)
	b.notify()
}

// Delete takes the full connection, not just an id, matching what the cards
// hand over.
func (b *Board) Delete(ctx context.Context, conn *domain.Connection) {
	if b.lookup(conn.ID) == nil {
		b.reportErr(&NotFoundError{ID: conn.ID})
		return
	}

	b.submitting = true
	b.notify()
	err := b.uc.DeleteConnection(ctx, conn.ID)
	if b.closed {
		return
	}
	b.submitting = false
	if err != nil {
		b.reportErr(fmt.Errorf("failed to delete connection: %w", err))
		b.notify()
		return
	}
	b.refresh(ctx)
	b.notify()
}

func (b *Board) reclassify(ctx context.Context, id string, state domain.RelationshipState, notes string) error {
	b.submitting = true
	b.notify()
	err := b.uc.UpdateConnection(ctx, id, state, notes)
	if b.closed {
		return err
	}
	b.submitting = false
	return err
}

// refresh replaces the snapshot with a fresh listing.
func (b *Board) refresh(ctx context.Context) {
	conns, err := b.uc.ListConnections(ctx)
	if b.closed {
		return
	}
	if err != nil {
		b.reportErr(fmt.Errorf("failed to load connections: %w", err))
		return
	}
	b.connections = conns
}

func (b *Board) lookup(id string) *domain.Connection {
	for _, c := range b.connections {
		if c.ID == id {
			return c
		}
	}
	return nil
}

func (b *Board) notify() {
	if b.onChange != nil && !b.closed {
		b.onChange()
	}
}

func (b *Board) reportErr(err error) {
	if b.report != nil && !b.closed {
		b.report(err)
	}
}
