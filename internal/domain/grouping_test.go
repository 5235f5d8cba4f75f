package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func conn(id string, state RelationshipState, createdAt time.Time) *Connection {
	return &Connection{ID: id, State: state, CreatedAt: createdAt}
}

func TestGroupByStateKeepsEveryBucket(t *testing.T) {
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	conns := []*Connection{
		conn("a", Interested, base),
		conn("b", Sold, base.Add(time.Hour)),
		conn("c", Interested, base.Add(2*time.Hour)),
	}

	buckets := GroupByState(conns)

	assert.Len(t, buckets, len(States()), "every catalog state gets a bucket")
	assert.Empty(t, buckets[Booked])
	assert.Empty(t, buckets[Owned])

	// Insertion order is preserved within a bucket.
	assert.Equal(t, []string{"a", "c"}, ids(buckets[Interested]))
	assert.Equal(t, []string{"b"}, ids(buckets[Sold]))
}

func TestGroupByStateMembershipIsExclusive(t *testing.T) {
	base := time.Now()
	conns := []*Connection{
		conn("a", Booked, base),
		conn("b", Booked, base),
		conn("c", Owned, base),
	}

	buckets := GroupByState(conns)

	seen := map[string]int{}
	for _, bucket := range buckets {
		for _, c := range bucket {
			seen[c.ID]++
		}
	}
	for id, n := range seen {
		assert.Equal(t, 1, n, "connection %s should be in exactly one bucket", id)
	}
	assert.Len(t, seen, 3)
}

func TestCountsByStateOmitsZeroCounts(t *testing.T) {
	base := time.Now()
	conns := []*Connection{
		conn("a", Sold, base),
		conn("b", Interested, base),
		conn("c", Sold, base),
	}

	counts := CountsByState(conns)

	assert.Equal(t, []StateCount{
		{State: Interested, Count: 1},
		{State: Sold, Count: 2},
	}, counts, "catalog order, zero-count states omitted")

	assert.Empty(t, CountsByState(nil))
}

func TestSortForFlatView(t *testing.T) {
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	conns := []*Connection{
		conn("c", Interested, base),
		conn("a", Sold, base.Add(time.Hour)),
		conn("b", Owned, base.Add(time.Hour)),
	}

	sorted := SortForFlatView(conns)

	// Newest first, ties broken by id ascending.
	assert.Equal(t, []string{"a", "b", "c"}, ids(sorted))

	// The input slice is untouched and repeated calls agree.
	assert.Equal(t, []string{"c", "a", "b"}, ids(conns))
	assert.Equal(t, ids(sorted), ids(SortForFlatView(conns)))
}

func ids(conns []*Connection) []string {
	out := make([]string, len(conns))
	for i, c := range conns {
		out[i] = c.ID
	}
	return out
}

func TestSearchBlob(t *testing.T) {
	c := &Connection{
		State:           Booked,
		Notes:           "Trial until May",
		ClientName:      "Marie Laurent",
		ClientEmail:     "marie@example.com",
		ClientTags:      []string{"cellist"},
		InstrumentMaker: "Vuillaume",
		InstrumentType:  "Cello",
		InstrumentYear:  1855,
		InstrumentPrice: "160000",
	}

	blob := c.SearchBlob()

	assert.Contains(t, blob, "booked")
	assert.Contains(t, blob, "trial until may")
	assert.Contains(t, blob, "marie laurent")
	assert.Contains(t, blob, "cellist")
	assert.Contains(t, blob, "vuillaume")
	assert.Contains(t, blob, "1855")
}
