package role

import (
	"time"

	"github.com/rolegate/rolegate/internal/id"
)

// Role is a named bundle of operation identifiers, assignable to users by
// consuming systems. The identifiers are weak references into the service
// registry: they are validated when the role is written, never when it is
// read, so a role can go stale if a referenced service is later deleted.
type Role struct {
	ID           id.ID     `json:"_id"`
	Name         string    `json:"name"`
	OperationIDs []id.ID   `json:"serviceOpIds"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Role name length bounds
const (
	MinNameLength = 4
	MaxNameLength = 40
)
