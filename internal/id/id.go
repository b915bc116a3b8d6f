package id

import "github.com/google/uuid"

// ID is the opaque identifier shared by services, operations, and roles.
// It carries no meaning beyond identity and equality.
type ID string

// New generates a fresh globally-unique identifier.
func New() ID {
	return ID(uuid.NewString())
}

func (i ID) String() string {
	return string(i)
}
