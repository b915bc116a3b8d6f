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

	"github.com/rolegate/rolegate/internal/id"
)

// ReferenceValidator confirms that operation identifiers referenced by a
// role exist among the operations of currently registered services.
//
// The check is advisory and point-in-time: it reads a snapshot of the
// registry, and the store offers no multi-entity transactions, so a service
// deleted between this check and a later role persist can still leave the
// role with dangling references.
type ReferenceValidator struct {
	repo Repository
}

// NewReferenceValidator creates a validator backed by the service repository
func NewReferenceValidator(repo Repository) *ReferenceValidator {
	return &ReferenceValidator{repo: repo}
}

// Validate reports whether every identifier in operationIDs matches an
// operation owned by some registered service. The scan stops at the first
// identifier with no match. An empty input is trivially valid and performs
// no store access.
func (v *ReferenceValidator) Validate(ctx context.Context, operationIDs []id.ID) (bool, error) {
	if len(operationIDs) == 0 {
		return true, nil
	}

	services, err := v.repo.List(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to load services for reference check: %w", err)
	}

	for _, opID := range operationIDs {
		if !operationExists(services, opID) {
			return false, nil
		}
	}

	return true, nil
}

// operationExists searches services in order and stops at the first match.
// Identifiers are globally unique, so the first match is the only one.
func operationExists(services []*Service, opID id.ID) bool {
	for _, svc := range services {
		for _, op := range svc.Operations {
			if op.ID == opID {
				return true
			}
		}
	}
	return false
}
