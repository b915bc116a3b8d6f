package registry

import (
	"time"

	"github.com/rolegate/rolegate/internal/id"
)

// Operation is a named action an external system exposes. An operation is
// owned by exactly one Service and has no lifecycle of its own: it is
// created, renamed, and destroyed only through its owning service.
type Operation struct {
	ID   id.ID  `json:"_id"`
	Name string `json:"name"`
}

// Service represents an external system registered with rolegate, together
// with the list of operations it exposes. Operation order is preserved for
// display purposes only.
type Service struct {
	ID         id.ID       `json:"_id"`
	Name       string      `json:"name"`
	Operations []Operation `json:"operations"`
	CreatedAt  time.Time   `json:"created_at"`
	UpdatedAt  time.Time   `json:"updated_at"`
}

// Service name length bounds
const (
	MinNameLength = 4
	MaxNameLength = 30
)
