package repository

import (
	"context"
	"log"
	"time"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"github.com/atelierhq/connection-manager/internal/domain"
)

// ConnectionRepository stores clients and instruments as nodes and every
// client↔instrument connection as a CONNECTED relationship carrying its own
// id, state, notes and creation time.
type ConnectionRepository struct {
	driver neo4j.DriverWithContext
}

func NewConnectionRepository(driver neo4j.DriverWithContext) *ConnectionRepository {
	return &ConnectionRepository{
		driver: driver,
	}
}

func (r *ConnectionRepository) ListConnections(ctx context.Context) ([]*domain.Connection, error) {
	session := r.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeRead})
	defer session.Close(ctx)

	result, err := session.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (interface{}, error) {
		query := `
			MATCH (cl:Client)-[r:CONNECTED]->(i:Instrument)
			OPTIONAL MATCH (cl)-[:HAS_TAG]->(t:Tag)
			WITH r, cl, i, collect(distinct t.name) as tags
			RETURN r.id as id, r.state as state, r.notes as notes, r.created_at as created_at,
			       cl.id as client_id, cl.name as client_name, cl.email as client_email, tags,
			       i.id as instrument_id, i.maker as maker, i.type as type, i.year as year, i.price as price
			ORDER BY r.created_at DESC, r.id
		`

		res, err := tx.Run(ctx, query, nil)
		if err != nil {
			return nil, err
		}

		var conns []*domain.Connection
		for res.Next(ctx) {
			conns = append(conns, connectionFromRecord(res.Record()))
		}
		if err = res.Err(); err != nil {
			return nil, err
		}
		return conns, nil
	})

	if err != nil {
		return nil, err
	}

	return result.([]*domain.Connection), nil
}

func (r *ConnectionRepository) CreateConnection(ctx context.Context, clientID, instrumentID string, state domain.RelationshipState, notes string) (*domain.Connection, error) {
	session := r.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer func(session neo4j.SessionWithContext, ctx context.Context) {
		err := session.Close(ctx)
		if err != nil {
			log.Fatal(err)
		}
	}(session, ctx)

	result, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (interface{}, error) {
		createdAt := time.Now()

		query := `
			MATCH (cl:Client {id: $client_id})
			MATCH (i:Instrument {id: $instrument_id})
			CREATE (cl)-[r:CONNECTED {
				id: randomUUID(),
				state: $state,
				notes: $notes,
				created_at: datetime($created_at)
			}]->(i)
			WITH r, cl, i
			OPTIONAL MATCH (cl)-[:HAS_TAG]->(t:Tag)
			WITH r, cl, i, collect(distinct t.name) as tags
			RETURN r.id as id, r.state as state, r.notes as notes, r.created_at as created_at,
			       cl.id as client_id, cl.name as client_name, cl.email as client_email, tags,
			       i.id as instrument_id, i.maker as maker, i.type as type, i.year as year, i.price as price
		`

		params := map[string]interface{}{
			"client_id":     clientID,
			"instrument_id": instrumentID,
			"state":         string(state),
			"notes":         notes,
			"created_at":    createdAt.Format(time.RFC3339),
		}

		res, err := tx.Run(ctx, query, params)
		if err != nil {
			return nil, err
		}

		record, err := res.Single(ctx)
		if err != nil {
			return nil, err
		}

		return connectionFromRecord(record), nil
	})

	if err != nil {
		return nil, err
	}

	return result.(*domain.Connection), nil
}

// UpdateConnection always writes state and notes together.
func (r *ConnectionRepository) UpdateConnection(ctx context.Context, id string, state domain.RelationshipState, notes string) error {
	session := r.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer func(session neo4j.SessionWithContext, ctx context.Context) {
		if err := session.Close(ctx); err != nil {
			log.Fatal(err)
		}
	}(session, ctx)

	_, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (interface{}, error) {
		query := `
			MATCH ()-[r:CONNECTED {id: $id}]->()
			SET r.state = $state,
			    r.notes = $notes
			RETURN r.id
		`

		params := map[string]interface{}{
			"id":    id,
			"state": string(state),
			"notes": notes,
		}

		res, err := tx.Run(ctx, query, params)
		if err != nil {
			return nil, err
		}

		_, err = res.Single(ctx)
		return nil, err
	})

	return err
}

func (r *ConnectionRepository) DeleteConnection(ctx context.Context, id string) error {
	session := r.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer func(session neo4j.SessionWithContext, ctx context.Context) {
		err := session.Close(ctx)
		if err != nil {
			log.Fatal(err)
		}
	}(session, ctx)

	_, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (interface{}, error) {
		query := `
			MATCH ()-[r:CONNECTED {id: $id}]->()
			DELETE r
		`

		params := map[string]interface{}{
			"id": id,
		}

		res, err := tx.Run(ctx, query, params)
		if err != nil {
			return nil, err
		}

		_, err = res.Consume(ctx)
		return nil, err
	})

	return err
}

func (r *ConnectionRepository) CreateClient(ctx context.Context, client *domain.Client) (string, error) {
	session := r.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer func(session neo4j.SessionWithContext, ctx context.Context) {
		err := session.Close(ctx)
		if err != nil {
			log.Fatal(err)
		}
	}(session, ctx)

	result, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (interface{}, error) {
		client.CreatedAt = time.Now()

		query := `
			CREATE (c:Client {
				id: randomUUID(),
				name: $name,
				email: $email,
				created_at: datetime($created_at)
			})
			FOREACH (tag IN $tags | MERGE (t:Tag {name: tag}) MERGE (c)-[:HAS_TAG]->(t))
			RETURN c.id as id
		`

		params := map[string]interface{}{
			"name":       client.Name,
			"email":      client.Email,
			"tags":       client.Tags,
			"created_at": client.CreatedAt.Format(time.RFC3339),
		}

		res, err := tx.Run(ctx, query, params)
		if err != nil {
			return nil, err
		}

		record, err := res.Single(ctx)
		if err != nil {
			return nil, err
		}

		id, _ := record.Get("id")
		return id, nil
	})

	if err != nil {
		return "", err
	}

	return result.(string), nil
}

func (r *ConnectionRepository) ListClients(ctx context.Context) ([]*domain.Client, error) {
	session := r.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeRead})
	defer session.Close(ctx)

	result, err := session.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (interface{}, error) {
		query := `
			MATCH (c:Client)
			OPTIONAL MATCH (c)-[:HAS_TAG]->(t:Tag)
			RETURN c.id as id, c.name as name, c.email as email, collect(distinct t.name) as tags
			ORDER BY c.name
		`

		res, err := tx.Run(ctx, query, nil)
		if err != nil {
			return nil, err
		}

		var clients []*domain.Client
		for res.Next(ctx) {
			record := res.Record()
			client := &domain.Client{
				ID:    stringValue(record, "id"),
				Name:  stringValue(record, "name"),
				Email: stringValue(record, "email"),
				Tags:  stringsValue(record, "tags"),
			}
			clients = append(clients, client)
		}
		if err = res.Err(); err != nil {
			return nil, err
		}
		return clients, nil
	})

	if err != nil {
		return nil, err
	}

	return result.([]*domain.Client), nil
}

func (r *ConnectionRepository) CreateInstrument(ctx context.Context, instrument *domain.Instrument) (string, error) {
	session := r.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer func(session neo4j.SessionWithContext, ctx context.Context) {
		err := session.Close(ctx)
		if err != nil {
			log.Fatal(err)
		}
	}(session, ctx)

	result, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (interface{}, error) {
		instrument.CreatedAt = time.Now()

		query := `
			CREATE (i:Instrument {
				id: randomUUID(),
				maker: $maker,
				type: $type,
				year: $year,
				price: $price,
				created_at: datetime($created_at)
			})
			RETURN i.id as id
		`

		params := map[string]interface{}{
			"maker":      instrument.Maker,
			"type":       instrument.Type,
			"year":       instrument.Year,
			"price":      instrument.Price,
			"created_at": instrument.CreatedAt.Format(time.RFC3339),
		}

		res, err := tx.Run(ctx, query, params)
		if err != nil {
			return nil, err
		}

		record, err := res.Single(ctx)
		if err != nil {
			return nil, err
		}

		id, _ := record.Get("id")
		return id, nil
	})

	if err != nil {
		return "", err
	}

	return result.(string), nil
}

func (r *ConnectionRepository) ListInstruments(ctx context.Context) ([]*domain.Instrument, error) {
	session := r.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeRead})
	defer session.Close(ctx)

	result, err := session.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (interface{}, error) {
		query := `
			MATCH (i:Instrument)
			RETURN i.id as id, i.maker as maker, i.type as type, i.year as year, i.price as price
			ORDER BY i.maker, i.year
		`

		res, err := tx.Run(ctx, query, nil)
		if err != nil {
			return nil, err
		}

		var instruments []*domain.Instrument
		for res.Next(ctx) {
			record := res.Record()
			instrument := &domain.Instrument{
				ID:    stringValue(record, "id"),
				Maker: stringValue(record, "maker"),
				Type:  stringValue(record, "type"),
				Year:  intValue(record, "year"),
				Price: stringValue(record, "price"),
			}
			instruments = append(instruments, instrument)
		}
		if err = res.Err(); err != nil {
			return nil, err
		}
		return instruments, nil
	})

	if err != nil {
		return nil, err
	}

	return result.([]*domain.Instrument), nil
}

func connectionFromRecord(record *neo4j.Record) *domain.Connection {
	conn := &domain.Connection{
		ID:              stringValue(record, "id"),
		ClientID:        stringValue(record, "client_id"),
		InstrumentID:    stringValue(record, "instrument_id"),
		State:           domain.RelationshipState(stringValue(record, "state")),
		Notes:           stringValue(record, "notes"),
		ClientName:      stringValue(record, "client_name"),
		ClientEmail:     stringValue(record, "client_email"),
		ClientTags:      stringsValue(record, "tags"),
		InstrumentMaker: stringValue(record, "maker"),
		InstrumentType:  stringValue(record, "type"),
		InstrumentYear:  intValue(record, "year"),
		InstrumentPrice: stringValue(record, "price"),
	}
	if v, ok := record.Get("created_at"); ok {
		if ts, ok := v.(time.Time); ok {
			conn.CreatedAt = ts
		}
	}
	return conn
}

func stringValue(record *neo4j.Record, key string) string {
	v, ok := record.Get(key)
	if !ok || v == nil {
		return ""
	}
	s, _ := v.(string)
	return s
}

func intValue(record *neo4j.Record, key string) int {
	v, ok := record.Get(key)
	if !ok || v == nil {
		return 0
	}
	n, _ := v.(int64)
	return int(n)
}

func stringsValue(record *neo4j.Record, key string) []string {
	v, ok := record.Get(key)
	if !ok || v == nil {
		return nil
	}
	items, ok := v.([]interface{})
	if !ok {
		return nil
	}
	var out []string
	for _, item := range items {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}
