package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/atelierhq/connection-manager/internal/domain"
)

func seedMemory(t *testing.T, repo *MemoryRepository) (string, string) {
	ctx := context.Background()

	clientID, err := repo.CreateClient(ctx, &domain.Client{
		Name:  "Jonas Weber",
		Email: "jonas@example.com",
		Tags:  []string{"collector"},
	})
	assert.NoError(t, err)

	instrumentID, err := repo.CreateInstrument(ctx, &domain.Instrument{
		Maker: "Sartory",
		Type:  "Bow",
		Year:  1910,
		Price: "22000",
	})
	assert.NoError(t, err)

	return clientID, instrumentID
}

func TestMemoryConnectionLifecycle(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepository()
	clientID, instrumentID := seedMemory(t, repo)

	conn, err := repo.CreateConnection(ctx, clientID, instrumentID, domain.Booked, "reserved")
	assert.NoError(t, err)
	assert.NotEmpty(t, conn.ID)
	assert.Equal(t, "Jonas Weber", conn.ClientName, "listing shape includes the joined fields")
	assert.Equal(t, "Sartory", conn.InstrumentMaker)

	err = repo.UpdateConnection(ctx, conn.ID, domain.Sold, "reserved")
	assert.NoError(t, err)

	conns, err := repo.ListConnections(ctx)
	assert.NoError(t, err)
	assert.Len(t, conns, 1)
	assert.Equal(t, domain.Sold, conns[0].State)
	assert.Equal(t, "reserved", conns[0].Notes)

	err = repo.DeleteConnection(ctx, conn.ID)
	assert.NoError(t, err)

	conns, err = repo.ListConnections(ctx)
	assert.NoError(t, err)
	assert.Empty(t, conns)
}

func TestMemoryRejectsUnknownReferences(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepository()
	clientID, instrumentID := seedMemory(t, repo)

	_, err := repo.CreateConnection(ctx, "nope", instrumentID, domain.Interested, "")
	assert.Error(t, err)

	_, err = repo.CreateConnection(ctx, clientID, "nope", domain.Interested, "")
	assert.Error(t, err)

	err = repo.UpdateConnection(ctx, "nope", domain.Sold, "")
	assert.Error(t, err)

	err = repo.DeleteConnection(ctx, "nope")
	assert.Error(t, err)
}

func TestMemoryListingsCopyRecords(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepository()
	clientID, instrumentID := seedMemory(t, repo)

	_, err := repo.CreateConnection(ctx, clientID, instrumentID, domain.Interested, "")
	assert.NoError(t, err)

	conns, err := repo.ListConnections(ctx)
	assert.NoError(t, err)
	conns[0].State = domain.Owned

	again, err := repo.ListConnections(ctx)
	assert.NoError(t, err)
	assert.Equal(t, domain.Interested, again[0].State, "callers get copies, not the stored record")
}
