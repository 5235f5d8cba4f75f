package usecase

import (
	"context"

	"github.com/atelierhq/connection-manager/internal/domain"
)

type ConnectionRepository interface {
	ListConnections(ctx context.Context) ([]*domain.Connection, error)
	CreateConnection(ctx context.Context, clientID, instrumentID string, state domain.RelationshipState, notes string) (*domain.Connection, error)
	UpdateConnection(ctx context.Context, id string, state domain.RelationshipState, notes string) error
	DeleteConnection(ctx context.Context, id string) error

	ListClients(ctx context.Context) ([]*domain.Client, error)
	CreateClient(ctx context.Context, client *domain.Client) (string, error)
	ListInstruments(ctx context.Context) ([]*domain.Instrument, error)
	CreateInstrument(ctx context.Context, instrument *domain.Instrument) (string, error)
}
