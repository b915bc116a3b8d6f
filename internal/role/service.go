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

package role

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rolegate/rolegate/internal/audit"
	"github.com/rolegate/rolegate/internal/id"
)

// ReferenceValidator reports whether every given operation identifier exists
// in some registered service.
type ReferenceValidator interface {
	Validate(ctx context.Context, operationIDs []id.ID) (bool, error)
}

// Service provides role management and expansion business logic
type Service struct {
	repo      Repository
	validator ReferenceValidator
	sink      audit.Sink
}

// NewService creates a new role service
func NewService(repo Repository, validator ReferenceValidator, sink audit.Sink) *Service {
	return &Service{
		repo:      repo,
		validator: validator,
		sink:      sink,
	}
}

// Create persists a new role. The name bound is checked before the
// reference check, and nothing is written unless both pass.
func (s *Service) Create(ctx context.Context, name string, operationIDs []id.ID) (*Role, error) {
	if err := s.validate(ctx, name, operationIDs); err != nil {
		return nil, err
	}

	now := time.Now()
	r := &Role{
		ID:           id.New(),
		Name:         name,
		OperationIDs: operationIDs,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.repo.Create(ctx, r); err != nil {
		return nil, fmt.Errorf("failed to create role: %w", err)
	}

	if err := s.sink.Log(ctx, audit.Event{
		Type:     audit.TypeRoleCreated,
		Resource: r.ID.String(),
		Metadata: map[string]any{"name": r.Name, "operation_count": len(r.OperationIDs)},
	}); err != nil {
		return nil, err
	}

	return r, nil
}

// Get retrieves a role by ID
func (s *Service) Get(ctx context.Context, roleID id.ID) (*Role, error) {
	return s.repo.GetByID(ctx, roleID)
}

// List retrieves all roles in creation order
func (s *Service) List(ctx context.Context) ([]*Role, error) {
	return s.repo.List(ctx)
}

// Update replaces a role's name and operation list after re-running the
// reference check.
func (s *Service) Update(ctx context.Context, roleID id.ID, name string, operationIDs []id.ID) (*Role, error) {
	if err := s.validate(ctx, name, operationIDs); err != nil {
		return nil, err
	}

	r, err := s.repo.GetByID(ctx, roleID)
	if err != nil {
		return nil, err
	}

	r.Name = name
	r.OperationIDs = operationIDs
	r.UpdatedAt = time.Now()

	if err := s.repo.Update(ctx, r); err != nil {
		return nil, fmt.Errorf("failed to update role: %w", err)
	}

	if err := s.sink.Log(ctx, audit.Event{
		Type:     audit.TypeRoleUpdated,
		Resource: r.ID.String(),
		Metadata: map[string]any{"name": r.Name, "operation_count": len(r.OperationIDs)},
	}); err != nil {
		return nil, err
	}

	return r, nil
}

// Delete removes a role unconditionally. A role that does not exist is not
// an error.
func (s *Service) Delete(ctx context.Context, roleID id.ID) error {
	if err := s.repo.Delete(ctx, roleID); err != nil {
		if !errors.Is(err, ErrRoleNotFound) {
			return err
		}
		return nil
	}

	return s.sink.Log(ctx, audit.Event{
		Type:     audit.TypeRoleDeleted,
		Resource: roleID.String(),
	})
}

// Expand converts a list of role identifiers into the flat list of
// operation identifiers those roles reference. Roles are resolved in input
// order and each role's operation list is appended as stored; duplicates
// across roles are kept. Any unresolvable role identifier fails the whole
// call.
func (s *Service) Expand(ctx context.Context, roleIDs []id.ID) ([]id.ID, error) {
	expanded := make([]id.ID, 0)
	for _, roleID := range roleIDs {
		r, err := s.repo.GetByID(ctx, roleID)
		if err != nil {
			return nil, fmt.Errorf("failed to expand role %s: %w", roleID, err)
		}
		expanded = append(expanded, r.OperationIDs...)
	}
	return expanded, nil
}

func (s *Service) validate(ctx context.Context, name string, operationIDs []id.ID) error {
	if len(name) < MinNameLength || len(name) > MaxNameLength {
		return ErrInvalidName
	}

	ok, err := s.validator.Validate(ctx, operationIDs)
	if err != nil {
		return fmt.Errorf("reference check failed: %w", err)
	}
	if !ok {
		return ErrInvalidReference
	}
	return nil
}
