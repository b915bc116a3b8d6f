// Copyright 2026 The Rolegate Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package registry

import (
	"context"
	"fmt"
	"time"

	"github.com/rolegate/rolegate/internal/audit"
	"github.com/rolegate/rolegate/internal/id"
)

// Registry provides service and operation management business logic
type Registry struct {
	repo Repository
	sink audit.Sink
}

// NewRegistry creates a new service registry
func NewRegistry(repo Repository, sink audit.Sink) *Registry {
	return &Registry{
		repo: repo,
		sink: sink,
	}
}

// CreateService registers a new external service. Operation identifiers are
// assigned here; callers supply display names only.
func (r *Registry) CreateService(ctx context.Context, name string, operationNames []string) (*Service, error) {
	if len(name) < MinNameLength || len(name) > MaxNameLength {
		return nil, ErrInvalidName
	}

	operations := make([]Operation, 0, len(operationNames))
	for _, opName := range operationNames {
		operations = append(operations, Operation{
			ID:   id.New(),
			Name: opName,
		})
	}

	now := time.Now()
	svc := &Service{
		ID:         id.New(),
		Name:       name,
		Operations: operations,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if err := r.repo.Create(ctx, svc); err != nil {
		return nil, fmt.Errorf("failed to create service: %w", err)
	}

	if err := r.sink.Log(ctx, audit.Event{
		Type:     audit.TypeServiceCreated,
		Resource: svc.ID.String(),
		Metadata: map[string]any{"name": svc.Name, "operation_count": len(svc.Operations)},
	}); err != nil {
		return nil, err
	}

	return svc, nil
}

// GetService retrieves a service by ID
func (r *Registry) GetService(ctx context.Context, serviceID id.ID) (*Service, error) {
	return r.repo.GetByID(ctx, serviceID)
}

// ListServices retrieves all registered services in creation order
func (r *Registry) ListServices(ctx context.Context) ([]*Service, error) {
	return r.repo.List(ctx)
}

// AddOperations appends newly named operations to an existing service.
// Names are not deduplicated against the operations already present.
func (r *Registry) AddOperations(ctx context.Context, serviceID id.ID, operationNames []string) (*Service, error) {
	svc, err := r.repo.GetByID(ctx, serviceID)
	if err != nil {
		return nil, err
	}

	for _, opName := range operationNames {
		svc.Operations = append(svc.Operations, Operation{
			ID:   id.New(),
			Name: opName,
		})
	}
	svc.UpdatedAt = time.Now()

	if err := r.repo.Update(ctx, svc); err != nil {
		return nil, fmt.Errorf("failed to add operations: %w", err)
	}

	if err := r.sink.Log(ctx, audit.Event{
		Type:     audit.TypeOperationsAdded,
		Resource: svc.ID.String(),
		Metadata: map[string]any{"added": len(operationNames)},
	}); err != nil {
		return nil, err
	}

	return svc, nil
}

// UpdateService replaces a service's name and renames its operations in
// place. An incoming operation whose identifier matches an existing one has
// that operation's name corrected; identifiers with no match are silently
// ignored, never appended.
func (r *Registry) UpdateService(ctx context.Context, serviceID id.ID, name string, operations []Operation) (*Service, error) {
	if len(name) < MinNameLength || len(name) > MaxNameLength {
		return nil, ErrInvalidName
	}

	svc, err := r.repo.GetByID(ctx, serviceID)
	if err != nil {
		return nil, err
	}

	svc.Name = name

	index := make(map[id.ID]int, len(svc.Operations))
	for i, op := range svc.Operations {
		index[op.ID] = i
	}
	for _, incoming := range operations {
		if i, ok := index[incoming.ID]; ok {
			svc.Operations[i].Name = incoming.Name
		}
	}
	svc.UpdatedAt = time.Now()

	if err := r.repo.Update(ctx, svc); err != nil {
		return nil, fmt.Errorf("failed to update service: %w", err)
	}

	if err := r.sink.Log(ctx, audit.Event{
		Type:     audit.TypeServiceUpdated,
		Resource: svc.ID.String(),
		Metadata: map[string]any{"name": svc.Name},
	}); err != nil {
		return nil, err
	}

	return svc, nil
}

// DeleteService removes a service and every operation it owns. Roles that
// reference the removed operations are left untouched and go stale; role
// cleanup on service deletion is still pending.
func (r *Registry) DeleteService(ctx context.Context, serviceID id.ID) error {
	if err := r.repo.Delete(ctx, serviceID); err != nil {
		return err
	}

	return r.sink.Log(ctx, audit.Event{
		Type:     audit.TypeServiceDeleted,
		Resource: serviceID.String(),
	})
}
