package board

import "fmt"

// ValidationError is raised locally, before any repository call is made.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string {
	return e.Msg
}

// NotFoundError means a connection disappeared from the known snapshot
// between the user picking it up and the action landing, e.g. a concurrent
// delete.
type NotFoundError struct {
	ID string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("connection %q is no longer present", e.ID)
}
