package repository

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/atelierhq/connection-manager/internal/domain"
)

// MemoryRepository keeps everything in process memory. It backs the demo
// binary when no database is configured and gives tests a deterministic
// repository.
type MemoryRepository struct {
	mu          sync.Mutex
	clients     map[string]*domain.Client
	instruments map[string]*domain.Instrument
	connections []*domain.Connection
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		clients:     make(map[string]*domain.Client),
		instruments: make(map[string]*domain.Instrument),
	}
}

func (r *MemoryRepository) ListConnections(_ context.Context) ([]*domain.Connection, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]*domain.Connection, len(r.connections))
	for i, c := range r.connections {
		out[i] = r.denormalize(c)
	}
	return out, nil
}

func (r *MemoryRepository) CreateConnection(_ context.Context, clientID, instrumentID string, state domain.RelationshipState, notes string) (*domain.Connection, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.clients[clientID]; !ok {
		return nil, fmt.Errorf("client %q does not exist", clientID)
	}
	if _, ok := r.instruments[instrumentID]; !ok {
		return nil, fmt.Errorf("instrument %q does not exist", instrumentID)
	}

	conn := &domain.Connection{
		ID:           uuid.NewString(),
		ClientID:     clientID,
		InstrumentID: instrumentID,
		State:        state,
		Notes:        notes,
		CreatedAt:    time.Now(),
	}
	r.connections = append(r.connections, conn)
	return r.denormalize(conn), nil
}

func (r *MemoryRepository) UpdateConnection(_ context.Context, id string, state domain.RelationshipState, notes string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, c := range r.connections {
		if c.ID == id {
			c.State = state
			c.Notes = notes
			return nil
		}
	}
	return fmt.Errorf("connection %q does not exist", id)
}

func (r *MemoryRepository) DeleteConnection(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, c := range r.connections {
		if c.ID == id {
			r.connections = append(r.connections[:i], r.connections[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("connection %q does not exist", id)
}

func (r *MemoryRepository) CreateClient(_ context.Context, client *domain.Client) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored := *client
	stored.ID = uuid.NewString()
	stored.CreatedAt = time.Now()
	r.clients[stored.ID] = &stored
	return stored.ID, nil
}

func (r *MemoryRepository) ListClients(_ context.Context) ([]*domain.Client, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []*domain.Client
	for _, c := range r.clients {
		copied := *c
		out = append(out, &copied)
	}
	return out, nil
}

func (r *MemoryRepository) CreateInstrument(_ context.Context, instrument *domain.Instrument) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored := *instrument
	stored.ID = uuid.NewString()
	stored.CreatedAt = time.Now()
	r.instruments[stored.ID] = &stored
	return stored.ID, nil
}

func (r *MemoryRepository) ListInstruments(_ context.Context) ([]*domain.Instrument, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []*domain.Instrument
	for _, i := range r.instruments {
		copied := *i
		out = append(out, &copied)
	}
	return out, nil
}

// denormalize joins the client and instrument display fields into a fresh
// copy of the connection, the same shape the neo4j listing returns.
func (r *MemoryRepository) denormalize(conn *domain.Connection) *domain.Connection {
	out := *conn
	if client, ok := r.clients[conn.ClientID]; ok {
		out.ClientName = client.Name
		out.ClientEmail = client.Email
		out.ClientTags = append([]string(nil), client.Tags...)
	}
	if instrument, ok := r.instruments[conn.InstrumentID]; ok {
		out.InstrumentMaker = instrument.Maker
		out.InstrumentType = instrument.Type
		out.InstrumentYear = instrument.Year
		out.InstrumentPrice = instrument.Price
	}
	return &out
}
