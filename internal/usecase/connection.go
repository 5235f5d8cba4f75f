package usecase

import (
	"context"

	"github.com/atelierhq/connection-manager/internal/domain"
)

type ConnectionUseCase struct {
	repo ConnectionRepository
}

func NewConnectionUseCase(repo ConnectionRepository) *ConnectionUseCase {
	return &ConnectionUseCase{
		repo: repo,
	}
}

func (uc *ConnectionUseCase) ListConnections(ctx context.Context) ([]*domain.Connection, error) {
	return uc.repo.ListConnections(ctx)
}

func (uc *ConnectionUseCase) CreateConnection(ctx context.Context, clientID, instrumentID string, state domain.RelationshipState, notes string) (*domain.Connection, error) {
	return uc.repo.CreateConnection(ctx, clientID, instrumentID, state, notes)
}

func (uc *ConnectionUseCase) UpdateConnection(ctx context.Context, id string, state domain.RelationshipState, notes string) error {
	return uc.repo.UpdateConnection(ctx, id, state, notes)
}

func (uc *ConnectionUseCase) DeleteConnection(ctx context.Context, id string) error {
	return uc.repo.DeleteConnection(ctx, id)
}

func (uc *ConnectionUseCase) ListClients(ctx context.Context) ([]*domain.Client, error) {
	return uc.repo.ListClients(ctx)
}

func (uc *ConnectionUseCase) CreateClient(ctx context.Context, client *domain.Client) (string, error) {
	return uc.repo.CreateClient(ctx, client)
}

func (uc *ConnectionUseCase) ListInstruments(ctx context.Context) ([]*domain.Instrument, error) {
	return uc.repo.ListInstruments(ctx)
}

func (uc *ConnectionUseCase) CreateInstrument(ctx context.Context, instrument *domain.Instrument) (string, error) {
	return uc.repo.CreateInstrument(ctx, instrument)
}
