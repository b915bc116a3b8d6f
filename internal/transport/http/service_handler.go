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
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/rolegate/rolegate/internal/id"
	"github.com/rolegate/rolegate/internal/pager"
	"github.com/rolegate/rolegate/internal/registry"
)

// OperationPayload names one operation in a create or add request
type OperationPayload struct {
	Name string `json:"name"`
}

// CreateServiceRequest is the body of POST /services
type CreateServiceRequest struct {
	Name       string             `json:"name"`
	Operations []OperationPayload `json:"operations"`
}

// AddOperationsRequest is the body of POST /services/operation
type AddOperationsRequest struct {
	ID         id.ID              `json:"_id"`
	Operations []OperationPayload `json:"operations"`
}

// UpdateServiceRequest is the body of PUT /services/{id}
type UpdateServiceRequest struct {
	Name       string               `json:"name"`
	Operations []registry.Operation `json:"operations"`
}

// CreateService registers a new external service
// @Summary Register Service
// @Description Registers an external service and its operations
// @Tags Service
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Success 201 {object} registry.Service
// @Failure 400 {object} map[string]string
// @Router /services [post]
func (h *Handler) CreateService(w http.ResponseWriter, r *http.Request) {
	var req CreateServiceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	svc, err := h.registry.CreateService(r.Context(), req.Name, operationNames(req.Operations))
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, svc)
}

// AddOperations appends operations to an existing service
// @Summary Add Operations
// @Description Appends new operations to a registered service
// @Tags Service
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Success 201 {object} registry.Service
// @Failure 404 {object} map[string]string
// @Router /services/operation [post]
func (h *Handler) AddOperations(w http.ResponseWriter, r *http.Request) {
	var req AddOperationsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	svc, err := h.registry.AddOperations(r.Context(), req.ID, operationNames(req.Operations))
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, svc)
}

// UpdateService replaces a service's name and renames matching operations
// @Summary Update Service
// @Description Replaces the service name and corrects operation names in place
// @Tags Service
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} registry.Service
// @Failure 404 {object} map[string]string
// @Router /services/{id} [put]
func (h *Handler) UpdateService(w http.ResponseWriter, r *http.Request) {
	serviceID := id.ID(chi.URLParam(r, "serviceID"))

	var req UpdateServiceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	svc, err := h.registry.UpdateService(r.Context(), serviceID, req.Name, req.Operations)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, svc)
}

// GetService retrieves a single service
// @Summary Get Service
// @Tags Service
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} registry.Service
// @Failure 404 {object} map[string]string
// @Router /services/{id} [get]
func (h *Handler) GetService(w http.ResponseWriter, r *http.Request) {
	serviceID := id.ID(chi.URLParam(r, "serviceID"))

	svc, err := h.registry.GetService(r.Context(), serviceID)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, svc)
}

// DeleteService removes a service and its operations. Roles referencing the
// removed operations are left as they are.
// @Summary Delete Service
// @Tags Service
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} map[string]string
// @Router /services/{id} [delete]
func (h *Handler) DeleteService(w http.ResponseWriter, r *http.Request) {
	serviceID := id.ID(chi.URLParam(r, "serviceID"))

	if err := h.registry.DeleteService(r.Context(), serviceID); err != nil {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{
		"message": "service deleted",
	})
}

// ListServices returns one page of registered services
// @Summary List Services
// @Tags Service
// @Produce json
// @Security ApiKeyAuth
// @Param pageSize query int false "page size (max 100)"
// @Param pageNumber query int false "page number"
// @Success 200 {object} pager.Page[registry.Service]
// @Failure 413 {object} map[string]string
// @Router /services [get]
func (h *Handler) ListServices(w http.ResponseWriter, r *http.Request) {
	pageNumber, pageSize := pageParams(r)

	// Oversized pages are rejected before any store access
	if pageSize > pager.MaxPageSize {
		respondDomainError(w, pager.ErrPageTooLarge)
		return
	}

	services, err := h.registry.ListServices(r.Context())
	if err != nil {
		respondDomainError(w, err)
		return
	}

	page, err := pager.Paginate(services, pageNumber, pageSize, requestBaseURL(r))
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, page)
}

func operationNames(operations []OperationPayload) []string {
	names := make([]string, 0, len(operations))
	for _, op := range operations {
		names = append(names, op.Name)
	}
	return names
}

// pageParams reads pageNumber and pageSize from the query string, falling
// back to the defaults when absent or malformed.
func pageParams(r *http.Request) (pageNumber, pageSize int) {
	pageNumber = 1
	pageSize = pager.DefaultPageSize

	if v := r.URL.Query().Get("pageNumber"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			pageNumber = n
		}
	}
	if v := r.URL.Query().Get("pageSize"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			pageSize = n
		}
	}
	return pageNumber, pageSize
}
