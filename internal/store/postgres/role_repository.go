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
	"github.com/rolegate/rolegate/internal/role"
)

// RoleRepository implements role.Repository
type RoleRepository struct {
	db *DB
}

// NewRoleRepository creates a new role repository
func NewRoleRepository(db *DB) *RoleRepository {
	return &RoleRepository{db: db}
}

// Create inserts a new role row
func (r *RoleRepository) Create(ctx context.Context, rl *role.Role) error {
	operationIDs, err := json.Marshal(rl.OperationIDs)
	if err != nil {
		return fmt.Errorf("failed to encode operation ids: %w", err)
	}

	_, err = r.db.pool.Exec(ctx, `
		INSERT INTO roles (id, name, operation_ids, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
	`, rl.ID.String(), rl.Name, operationIDs, rl.CreatedAt, rl.UpdatedAt)

	if err != nil {
		return fmt.Errorf("failed to create role: %w", err)
	}

	return nil
}

// GetByID retrieves a role by ID
func (r *RoleRepository) GetByID(ctx context.Context, roleID id.ID) (*role.Role, error) {
	row := r.db.pool.QueryRow(ctx, `
		SELECT id, name, operation_ids, created_at, updated_at
		FROM roles
		WHERE id = $1
	`, roleID.String())

	rl, err := scanRole(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, role.ErrRoleNotFound
		}
		return nil, fmt.Errorf("failed to get role: %w", err)
	}

	return rl, nil
}

// Update replaces the whole role row
func (r *RoleRepository) Update(ctx context.Context, rl *role.Role) error {
	operationIDs, err := json.Marshal(rl.OperationIDs)
	if err != nil {
		return fmt.Errorf("failed to encode operation ids: %w", err)
	}

	result, err := r.db.pool.Exec(ctx, `
		UPDATE roles
		SET name = $2, operation_ids = $3, updated_at = $4
		WHERE id = $1
	`, rl.ID.String(), rl.Name, operationIDs, rl.UpdatedAt)

	if err != nil {
		return fmt.Errorf("failed to update role: %w", err)
	}

	if result.RowsAffected() == 0 {
		return role.ErrRoleNotFound
	}

	return nil
}

// Delete removes a role row
func (r *RoleRepository) Delete(ctx context.Context, roleID id.ID) error {
	result, err := r.db.pool.Exec(ctx, `
		DELETE FROM roles
		WHERE id = $1
	`, roleID.String())

	if err != nil {
		return fmt.Errorf("failed to delete role: %w", err)
	}

	if result.RowsAffected() == 0 {
		return role.ErrRoleNotFound
	}

	return nil
}

// List retrieves all roles in creation order
func (r *RoleRepository) List(ctx context.Context) ([]*role.Role, error) {
	rows, err := r.db.pool.Query(ctx, `
		SELECT id, name, operation_ids, created_at, updated_at
		FROM roles
		ORDER BY created_at
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list roles: %w", err)
	}
	defer rows.Close()

	var roles []*role.Role
	for rows.Next() {
		rl, err := scanRole(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan role: %w", err)
		}
		roles = append(roles, rl)
	}

	return roles, rows.Err()
}

func scanRole(row pgx.Row) (*role.Role, error) {
	var rl role.Role
	var rawID string
	var operationIDs []byte

	if err := row.Scan(&rawID, &rl.Name, &operationIDs, &rl.CreatedAt, &rl.UpdatedAt); err != nil {
		return nil, err
	}

	rl.ID = id.ID(rawID)
	if err := json.Unmarshal(operationIDs, &rl.OperationIDs); err != nil {
		return nil, fmt.Errorf("failed to decode operation ids: %w", err)
	}

	return &rl, nil
}
