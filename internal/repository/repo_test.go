package repository

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"
	"github.com/stretchr/testify/assert"

	"github.com/atelierhq/connection-manager/internal/domain"
)

var testDriver neo4j.DriverWithContext

func TestMain(m *testing.M) {
	pool, err := dockertest.NewPool("")
	if err != nil {
		fmt.Printf("Could not connect to docker: %s\n", err)
		os.Exit(1)
	}

	resource, err := pool.RunWithOptions(&dockertest.RunOptions{
		Repository: "neo4j",
		Tag:        "4.4",
		Env: []string{
			"NEO4J_AUTH=neo4j/password",
		},
	}, func(config *docker.HostConfig) {
		config.AutoRemove = true
	})
	if err != nil {
		fmt.Printf("Could not start resource: %s\n", err)
		os.Exit(1)
	}

	pool.MaxWait = 120 * time.Second

	if err := pool.Retry(func() error {
		var err error
		testDriver, err = neo4j.NewDriverWithContext(
			"bolt://localhost:"+resource.GetPort("7687/tcp"),
			neo4j.BasicAuth("neo4j", "password", ""),
		)
		if err != nil {
			return err
		}
		return testDriver.VerifyConnectivity(context.Background())
	}); err != nil {
		fmt.Printf("Could not connect to docker: %s\n", err)
		os.Exit(1)
	}

	code := m.Run()

	if err := pool.Purge(resource); err != nil {
		fmt.Printf("Could not purge resource: %s\n", err)
		os.Exit(1)
	}
	os.Exit(code)
}

func createPair(t *testing.T, repo *ConnectionRepository) (string, string) {
	ctx := context.Background()

	clientID, err := repo.CreateClient(ctx, &domain.Client{
		Name:  "Marie Laurent",
		Email: "marie@example.com",
		Tags:  []string{"cellist", "touring"},
	})
	assert.NoError(t, err, "CreateClient error should be nil")
	assert.NotEqual(t, "", clientID, "Client id should not be empty")

	instrumentID, err := repo.CreateInstrument(ctx, &domain.Instrument{
		Maker: "Vuillaume",
		Type:  "Cello",
		Year:  1855,
		Price: "160000",
	})
	assert.NoError(t, err, "CreateInstrument error should be nil")
	assert.NotEqual(t, "", instrumentID, "Instrument id should not be empty")

	return clientID, instrumentID
}

func TestCreateListDeleteConnection(t *testing.T) {
	ctx := context.Background()
	repo := NewConnectionRepository(testDriver)

	clientID, instrumentID := createPair(t, repo)

	conn, err := repo.CreateConnection(ctx, clientID, instrumentID, domain.Interested, "asked for a trial")
	assert.NoError(t, err, "CreateConnection error should be nil")
	assert.NotEqual(t, "", conn.ID, "Connection id should not be empty")
	t.Logf("Created connection with id: %s", conn.ID)

	// The listing joins the display fields from both ends.
	conns, err := repo.ListConnections(ctx)
	assert.NoError(t, err, "ListConnections error should be nil")

	found := findConnection(conns, conn.ID)
	assert.NotNil(t, found, "Created connection should be listed")
	assert.Equal(t, domain.Interested, found.State)
	assert.Equal(t, "asked for a trial", found.Notes)
	assert.Equal(t, "Marie Laurent", found.ClientName)
	assert.Equal(t, "marie@example.com", found.ClientEmail)
	assert.Contains(t, found.ClientTags, "cellist")
	assert.Equal(t, "Vuillaume", found.InstrumentMaker)
	assert.Equal(t, "Cello", found.InstrumentType)
	assert.Equal(t, 1855, found.InstrumentYear)
	assert.False(t, found.CreatedAt.IsZero(), "created_at should round-trip")

	err = repo.DeleteConnection(ctx, conn.ID)
	assert.NoError(t, err, "DeleteConnection error should be nil")

	conns, err = repo.ListConnections(ctx)
	assert.NoError(t, err)
	assert.Nil(t, findConnection(conns, conn.ID), "Deleted connection should be gone")
}

func TestUpdateConnectionWritesStateAndNotesTogether(t *testing.T) {
	ctx := context.Background()
	repo := NewConnectionRepository(testDriver)

	clientID, instrumentID := createPair(t, repo)

	conn, err := repo.CreateConnection(ctx, clientID, instrumentID, domain.Interested, "initial notes")
	assert.NoError(t, err, "CreateConnection error should be nil")

	err = repo.UpdateConnection(ctx, conn.ID, domain.Sold, "initial notes")
	assert.NoError(t, err, "UpdateConnection error should be nil")

	conns, err := repo.ListConnections(ctx)
	assert.NoError(t, err)
	found := findConnection(conns, conn.ID)
	assert.NotNil(t, found)
	assert.Equal(t, domain.Sold, found.State, "State should be updated")
	assert.Equal(t, "initial notes", found.Notes, "Notes should be preserved")

	err = repo.DeleteConnection(ctx, conn.ID)
	assert.NoError(t, err)
}

func TestUpdateMissingConnectionFails(t *testing.T) {
	ctx := context.Background()
	repo := NewConnectionRepository(testDriver)

	err := repo.UpdateConnection(ctx, "does-not-exist", domain.Sold, "")
	assert.Error(t, err, "updating a missing connection should fail")
}

func TestListClientsAndInstruments(t *testing.T) {
	ctx := context.Background()
	repo := NewConnectionRepository(testDriver)

	clientID, instrumentID := createPair(t, repo)

	clients, err := repo.ListClients(ctx)
	assert.NoError(t, err, "ListClients error should be nil")
	assert.NotNil(t, findClient(clients, clientID))

	instruments, err := repo.ListInstruments(ctx)
	assert.NoError(t, err, "ListInstruments error should be nil")
	assert.NotNil(t, findInstrument(instruments, instrumentID))
}

func findConnection(conns []*domain.Connection, id string) *domain.Connection {
	for _, c := range conns {
		if c.ID == id {
			return c
		}
	}
	return nil
}

func findClient(clients []*domain.Client, id string) *domain.Client {
	for _, c := range clients {
		if c.ID == id {
			return c
		}
	}
	return nil
}

func findInstrument(instruments []*domain.Instrument, id string) *domain.Instrument {
	for _, i := range instruments {
		if i.ID == id {
			return i
		}
	}
	return nil
}
