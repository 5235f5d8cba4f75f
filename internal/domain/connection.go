package domain

import (
	"strconv"
	"strings"
	"time"
)

// Connection pairs one client with one instrument under a relationship state.
// The client/instrument display fields are joined in by the repository and are
// read-only payload; only State and Notes ever change after creation.
type Connection struct {
	ID           string            `json:"id"`
	ClientID     string            `json:"client_id"`
	InstrumentID string            `json:"instrument_id"`
	State        RelationshipState `json:"state"`
	Notes        string            `json:"notes"`
	CreatedAt    time.Time         `json:"created_at"`

	ClientName      string   `json:"client_name"`
	ClientEmail     string   `json:"client_email"`
	ClientTags      []string `json:"client_tags"`
	InstrumentMaker string   `json:"instrument_maker"`
	InstrumentType  string   `json:"instrument_type"`
	InstrumentYear  int      `json:"instrument_year"`
	InstrumentPrice string   `json:"instrument_price"`
}

// SearchBlob is the lower-cased text the free-text search matches against.
func (c *Connection) SearchBlob() string {
	parts := []string{
		string(c.State),
		Describe(c.State).Label,
		c.Notes,
		c.ClientName,
		c.ClientEmail,
		strings.Join(c.ClientTags, " "),
		c.InstrumentMaker,
		c.InstrumentType,
		c.InstrumentPrice,
	}
	if c.InstrumentYear != 0 {
		parts = append(parts, strconv.Itoa(c.InstrumentYear))
	}
	return strings.ToLower(strings.Join(parts, " "))
}
