package main

import (
	"context"
	"flag"
	"log"
	"os"
	"time"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"github.com/atelierhq/connection-manager/internal/board"
	"github.com/atelierhq/connection-manager/internal/domain"
	"github.com/atelierhq/connection-manager/internal/repository"
	"github.com/atelierhq/connection-manager/internal/ui"
	"github.com/atelierhq/connection-manager/internal/usecase"
)

func main() {
	memory := flag.Bool("memory", false, "use the in-memory repository with seeded sample data")
	view := flag.String("view", "", "initial view query, e.g. \"filter=SOLD&page=2\"")
	flag.Parse()

	var repo usecase.ConnectionRepository

	if *memory {
		mem := repository.NewMemoryRepository()
		if err := seed(mem); err != nil {
			log.Fatalf("Failed to seed sample data: %v", err)
		}
		repo = mem
	} else {
		uri := envOr("NEO4J_URI", "bolt://localhost:7687")
		username := envOr("NEO4J_USERNAME", "neo4j")
		password := envOr("NEO4J_PASSWORD", "password")

		driver, err := neo4j.NewDriverWithContext(uri, neo4j.BasicAuth(username, password, ""))
		if err != nil {
			log.Fatalf("Failed to create Neo4j driver: %v", err)
		}
		defer func() {
			if err = driver.Close(context.Background()); err != nil {
				log.Printf("Error closing Neo4j driver: %v", err)
			}
		}()

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err = driver.VerifyConnectivity(ctx); err != nil {
			log.Fatalf("Failed to reach Neo4j: %v", err)
		}

		repo = repository.NewConnectionRepository(driver)
	}

	connectionUseCase := usecase.NewConnectionUseCase(repo)
	history := board.NewMemoryHistory(*view)

	ui.ShowBoardUI(connectionUseCase, history)
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func seed(repo usecase.ConnectionRepository) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	clients := []*domain.Client{
		{Name: "Marie Laurent", Email: "marie@example.com", Tags: []string{"cellist", "touring"}},
		{Name: "Jonas Weber", Email: "jonas@example.com", Tags: []string{"collector"}},
		{Name: "Ana Costa", Email: "ana@example.com", Tags: []string{"student"}},
	}
	instruments := []*domain.Instrument{
		{Maker: "Gand & Bernardel", Type: "Violin", Year: 1872, Price: "48000"},
		{Maker: "Sartory", Type: "Bow", Year: 1910, Price: "22000"},
		{Maker: "Vuillaume", Type: "Cello", Year: 1855, Price: "160000"},
	}

	var clientIDs, instrumentIDs []string
	for _, c := range clients {
		id, err := repo.CreateClient(ctx, c)
		if err != nil {
			return err
		}
		clientIDs = append(clientIDs, id)
	}
	for _, i := range instruments {
		id, err := repo.CreateInstrument(ctx, i)
		if err != nil {
			return err
		}
		instrumentIDs = append(instrumentIDs, id)
	}

	seeds := []struct {
		client, instrument int
		state              domain.RelationshipState
		notes              string
	}{
		{0, 0, domain.Interested, "Asked for a trial week"},
		{0, 2, domain.Booked, "Reserved until the recital"},
		{1, 1, domain.Sold, ""},
		{2, 0, domain.Owned, "Purchased last spring"},
	}
	for _, s := range seeds {
		if _, err := repo.CreateConnection(ctx, clientIDs[s.client], instrumentIDs[s.instrument], s.state, s.notes); err != nil {
			return err
		}
	}
	return nil
}
