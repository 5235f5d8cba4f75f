package domain

import "fmt"

type RelationshipState string

const (
	Interested RelationshipState = "INTERESTED"
	Booked     RelationshipState = "BOOKED"
	Sold       RelationshipState = "SOLD"
	Owned      RelationshipState = "OWNED"
)

// StateInfo carries the presentation metadata for one relationship state.
type StateInfo struct {
	Label string `json:"label"`
	Icon  string `json:"icon"`
}

var stateOrder = []RelationshipState{Interested, Booked, Sold, Owned}

var stateInfo = map[RelationshipState]StateInfo{
	Interested: {Label: "Interested", Icon: "star"},
	Booked:     {Label: "Booked", Icon: "bookmark"},
	Sold:       {Label: "Sold", Icon: "cart"},
	Owned:      {Label: "Owned", Icon: "home"},
}

type UnknownStateError struct {
	Value string
}

func (e *UnknownStateError) Error() string {
	return fmt.Sprintf("unknown relationship state %q", e.Value)
}

// States returns the catalog in its fixed display order.
func States() []RelationshipState {
	out := make([]RelationshipState, len(stateOrder))
	copy(out, stateOrder)
	return out
}

func IsValidState(s RelationshipState) bool {
	_, ok := stateInfo[s]
	return ok
}

// Describe never fails: persisted records may still carry a state that was
// removed from the catalog, and the UI has to render them regardless.
func Describe(s RelationshipState) StateInfo {
	if info, ok := stateInfo[s]; ok {
		return info
	}
	label := string(s)
	if label == "" {
		label = "Unknown"
	}
	return StateInfo{Label: label, Icon: "question"}
}

// ParseState validates untrusted input, e.g. a filter value taken from a
// view query string.
func ParseState(raw string) (RelationshipState, error) {
	s := RelationshipState(raw)
	if !IsValidState(s) {
		return "", &UnknownStateError{Value: raw}
	}
	return s, nil
}
