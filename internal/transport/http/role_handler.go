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

package http

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/rolegate/rolegate/internal/id"
	"github.com/rolegate/rolegate/internal/pager"
)

// RoleRequest is the body of POST /roles and PUT /roles/{id}
type RoleRequest struct {
	Name         string  `json:"name"`
	ServiceOpIDs []id.ID `json:"serviceOpIds"`
}

// ExpandRequest is the body of POST /rolexpand
type ExpandRequest struct {
	RoleIDs []id.ID `json:"roleIds"`
}

// CreateRole creates a role after validating its operation references
// @Summary Create Role
// @Description Creates a named bundle of operation identifiers; every identifier must exist in some registered service
// @Tags Role
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Success 201 {object} role.Role
// @Failure 400 {object} map[string]string
// @Router /roles [post]
func (h *Handler) CreateRole(w http.ResponseWriter, r *http.Request) {
	var req RoleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	created, err := h.roleService.Create(r.Context(), req.Name, req.ServiceOpIDs)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, created)
}

// UpdateRole replaces a role's name and operation list
// @Summary Update Role
// @Description Re-validates the operation references before applying
// @Tags Role
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} role.Role
// @Failure 400 {object} map[string]string
// @Router /roles/{id} [put]
func (h *Handler) UpdateRole(w http.ResponseWriter, r *http.Request) {
	roleID := id.ID(chi.URLParam(r, "roleID"))

	var req RoleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	updated, err := h.roleService.Update(r.Context(), roleID, req.Name, req.ServiceOpIDs)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, updated)
}

// GetRole retrieves a single role
// @Summary Get Role
// @Tags Role
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} role.Role
// @Failure 404 {object} map[string]string
// @Router /roles/{id} [get]
func (h *Handler) GetRole(w http.ResponseWriter, r *http.Request) {
	roleID := id.ID(chi.URLParam(r, "roleID"))

	found, err := h.roleService.Get(r.Context(), roleID)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, found)
}

// DeleteRole removes a role unconditionally
// @Summary Delete Role
// @Tags Role
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} map[string]string
// @Router /roles/{id} [delete]
func (h *Handler) DeleteRole(w http.ResponseWriter, r *http.Request) {
	roleID := id.ID(chi.URLParam(r, "roleID"))

	if err := h.roleService.Delete(r.Context(), roleID); err != nil {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{
		"message": "role deleted",
	})
}

// ListRoles returns one page of roles
// @Summary List Roles
// @Tags Role
// @Produce json
// @Security ApiKeyAuth
// @Param pageSize query int false "page size (max 100)"
// @Param pageNumber query int false "page number"
// @Success 200 {object} pager.Page[role.Role]
// @Failure 413 {object} map[string]string
// @Router /roles [get]
func (h *Handler) ListRoles(w http.ResponseWriter, r *http.Request) {
	pageNumber, pageSize := pageParams(r)

	// Oversized pages are rejected before any store access
	if pageSize > pager.MaxPageSize {
		respondDomainError(w, pager.ErrPageTooLarge)
		return
	}

	roles, err := h.roleService.List(r.Context())
	if err != nil {
		respondDomainError(w, err)
		return
	}

	page, err := pager.Paginate(roles, pageNumber, pageSize, requestBaseURL(r))
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, page)
}

// ExpandRoles flattens a list of role identifiers into the operation
// identifiers those roles grant. Consuming systems call this at login time
// to compute a user's effective permissions.
// @Summary Expand Roles
// @Description Returns the concatenated operation-identifier lists of the given roles; duplicates are kept
// @Tags Role
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Success 201 {array} string
// @Failure 404 {object} map[string]string
// @Router /rolexpand [post]
func (h *Handler) ExpandRoles(w http.ResponseWriter, r *http.Request) {
	var req ExpandRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	operationIDs, err := h.roleService.Expand(r.Context(), req.RoleIDs)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, operationIDs)
}
