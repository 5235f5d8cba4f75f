package board

import (
	"context"
	"fmt"

	"github.com/atelierhq/connection-manager/internal/domain"
)

// DropZone is a UI target a dragged connection can land on: one of the state
// buckets, or the "all" pseudo-zone.
type DropZone struct {
	All   bool
	State domain.RelationshipState
}

func AllZone() DropZone {
	return DropZone{All: true}
}

func StateZone(s domain.RelationshipState) DropZone {
	return DropZone{State: s}
}

type DragPhase int

const (
	DragIdle DragPhase = iota
	DragActive
)

// Reclassifier persists a state change for one connection, keeping its notes
// untouched.
type Reclassifier func(ctx context.Context, id string, state domain.RelationshipState, notes string) error

// DragEngine is the drag-and-drop state machine: Idle → Dragging →
// (Dropped | Cancelled) → Idle. Hover tracking is observational only; the
// single side effect is the reclassification issued on a concrete drop.
type DragEngine struct {
	phase     DragPhase
	draggedID string
	hover     *DropZone

	reclassify Reclassifier
	refresh    func(ctx context.Context)
	report     func(error)
}

func NewDragEngine(reclassify Reclassifier, refresh func(ctx context.Context), report func(error)) *DragEngine {
	return &DragEngine{
		reclassify: reclassify,
		refresh:    refresh,
		report:     report,
	}
}

func (e *DragEngine) Phase() DragPhase { return e.phase }

func (e *DragEngine) DraggedID() string { return e.draggedID }

// Hover is the drop zone currently under the pointer, or nil when the drag
// is over nothing droppable.
func (e *DragEngine) Hover() *DropZone { return e.hover }

func (e *DragEngine) Start(connectionID string) {
	e.phase = DragActive
	e.draggedID = connectionID
	e.hover = nil
}

func (e *DragEngine) Over(zone *DropZone) {
	if e.phase != DragActive {
		return
	}
	e.hover = zone
}

func (e *DragEngine) Cancel() {
	e.reset()
}

// End completes the drag. A nil zone, or a zone naming a state outside the
// catalog, cancels. The "all" zone only changes which view the user is
// looking at, so dropping there never mutates anything. A concrete state
// zone issues the reclassification against the connection found in the known
// snapshot; a vanished id is reported, never sent to the repository.
func (e *DragEngine) End(ctx context.Context, zone *DropZone, known []*domain.Connection) {
	if e.phase != DragActive {
		return
	}
	id := e.draggedID
	e.reset()

	if zone == nil || zone.All {
		return
	}
	if !domain.IsValidState(zone.State) {
		return
	}

	var conn *domain.Connection
	for _, c := range known {
		if c.ID == id {
			conn = c
			break
		}
	}
	if conn == nil {
		e.report(&NotFoundError{ID: id})
		return
	}

	if err := e.reclassify(ctx, id, zone.State, conn.Notes); err != nil {
		e.report(fmt.Errorf("failed to update connection: %w", err))
		return
	}
	e.refresh(ctx)
}

func (e *DragEngine) reset() {
	e.phase = DragIdle
	e.draggedID = ""
	e.hover = nil
}
