package domain

import "sort"

type StateCount struct {
	State RelationshipState
	Count int
}

// GroupByState partitions connections into per-state buckets, preserving the
// input order within each bucket. Every catalog state gets a bucket, empty or
// not, so callers can render zero-member columns.
func GroupByState(conns []*Connection) map[RelationshipState][]*Connection {
	buckets := make(map[RelationshipState][]*Connection, len(stateOrder))
	for _, s := range stateOrder {
		buckets[s] = []*Connection{}
	}
	for _, c := range conns {
		buckets[c.State] = append(buckets[c.State], c)
	}
	return buckets
}

// CountsByState returns per-state totals in catalog order, omitting states
// with no members. The "All" pseudo-bucket is a UI concern and is not listed
// here.
func CountsByState(conns []*Connection) []StateCount {
	totals := make(map[RelationshipState]int, len(stateOrder))
	for _, c := range conns {
		totals[c.State]++
	}
	var counts []StateCount
	for _, s := range stateOrder {
		if totals[s] > 0 {
			counts = append(counts, StateCount{State: s, Count: totals[s]})
		}
	}
	return counts
}

// SortForFlatView returns a new slice ordered newest-created first, ties
// broken by id ascending. The input is left untouched.
func SortForFlatView(conns []*Connection) []*Connection {
	out := make([]*Connection, len(conns))
	copy(out, conns)
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out
}
