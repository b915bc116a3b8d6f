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

package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/rolegate/rolegate/internal/id"
	"github.com/rolegate/rolegate/internal/registry"
)

// ServiceRepository implements registry.Repository
type ServiceRepository struct {
	db *DB
}

// NewServiceRepository creates a new service repository
func NewServiceRepository(db *DB) *ServiceRepository {
	return &ServiceRepository{db: db}
}

// Create inserts a new service row
func (r *ServiceRepository) Create(ctx context.Context, svc *registry.Service) error {
	operations, err := json.Marshal(svc.Operations)
	if err != nil {
		return fmt.Errorf("failed to encode operations: %w", err)
	}

	_, err = r.db.pool.Exec(ctx, `
		INSERT INTO services (id, name, operations, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
	`, svc.ID.String(), svc.Name, operations, svc.CreatedAt, svc.UpdatedAt)

	if err != nil {
		return fmt.Errorf("failed to create service: %w", err)
	}

	return nil
}

// GetByID retrieves a service by ID
func (r *ServiceRepository) GetByID(ctx context.Context, serviceID id.ID) (*registry.Service, error) {
	row := r.db.pool.QueryRow(ctx, `
		SELECT id, name, operations, created_at, updated_at
		FROM services
		WHERE id = $1
	`, serviceID.String())

	svc, err := scanService(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, registry.ErrServiceNotFound
		}
		return nil, fmt.Errorf("failed to get service: %w", err)
	}

	return svc, nil
}

// Update replaces the whole service row. The row is the unit of atomicity:
// name and operations change together or not at all.
func (r *ServiceRepository) Update(ctx context.Context, svc *registry.Service) error {
	operations, err := json.Marshal(svc.Operations)
	if err != nil {
		return fmt.Errorf("failed to encode operations: %w", err)
	}

	result, err := r.db.pool.Exec(ctx, `
		UPDATE services
		SET name = $2, operations = $3, updated_at = $4
		WHERE id = $1
	`, svc.ID.String(), svc.Name, operations, svc.UpdatedAt)

	if err != nil {
		return fmt.Errorf("failed to update service: %w", err)
	}

	if result.RowsAffected() == 0 {
		return registry.ErrServiceNotFound
	}

	return nil
}

// Delete removes a service row and the operations embedded in it
func (r *ServiceRepository) Delete(ctx context.Context, serviceID id.ID) error {
	result, err := r.db.pool.Exec(ctx, `
		DELETE FROM services
		WHERE id = $1
	`, serviceID.String())

	if err != nil {
		return fmt.Errorf("failed to delete service: %w", err)
	}

	if result.RowsAffected() == 0 {
		return registry.ErrServiceNotFound
	}

	return nil
}

// List retrieves all services in creation order (full collection scan)
func (r *ServiceRepository) List(ctx context.Context) ([]*registry.Service, error) {
	rows, err := r.db.pool.Query(ctx, `
		SELECT id, name, operations, created_at, updated_at
		FROM services
		ORDER BY created_at
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list services: %w", err)
	}
	defer rows.Close()

	var services []*registry.Service
	for rows.Next() {
		svc, err := scanService(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan service: %w", err)
		}
		services = append(services, svc)
	}

	return services, rows.Err()
}

func scanService(row pgx.Row) (*registry.Service, error) {
	var svc registry.Service
	var rawID string
	var operations []byte

	if err := row.Scan(&rawID, &svc.Name, &operations, &svc.CreatedAt, &svc.UpdatedAt); err != nil {
		return nil, err
	}

	svc.ID = id.ID(rawID)
	if err := json.Unmarshal(operations, &svc.Operations); err != nil {
		return nil, fmt.Errorf("failed to decode operations: %w", err)
	}

	return &svc, nil
}
