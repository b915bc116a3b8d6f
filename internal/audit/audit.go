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

package audit

import (
	"context"
	"errors"
	"log/slog"
	"time"
)

// Event types
const (
	TypeServiceCreated  = "service_created"
	TypeServiceUpdated  = "service_updated"
	TypeServiceDeleted  = "service_deleted"
	TypeOperationsAdded = "service_operations_added"
	TypeRoleCreated     = "role_created"
	TypeRoleUpdated     = "role_updated"
	TypeRoleDeleted     = "role_deleted"
)

// ErrSinkUnavailable indicates the configured audit sink could not accept an
// event. The mutation the event describes has already been committed by the
// time delivery is attempted; callers surface this error without rolling
// anything back.
var ErrSinkUnavailable = errors.New("audit sink unavailable")

// Event represents an auditable mutation
type Event struct {
	Type      string         `json:"type"`
	Resource  string         `json:"resource"`
	Metadata  map[string]any `json:"metadata,omitempty"`
	Timestamp time.Time      `json:"timestamp"`
}

// Sink receives audit events after successful mutations
type Sink interface {
	Log(ctx context.Context, event Event) error
}

// SlogSink implements Sink using slog
type SlogSink struct{}

// NewSlogSink creates a new slog-backed audit sink
func NewSlogSink() *SlogSink {
	return &SlogSink{}
}

// Log records an audit event. It never fails.
func (s *SlogSink) Log(ctx context.Context, event Event) error {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}

	attrs := []any{
		slog.String("audit_type", event.Type),
		slog.String("resource", event.Resource),
		slog.Time("timestamp", event.Timestamp),
	}

	if len(event.Metadata) > 0 {
		group := []any{}
		for k, v := range event.Metadata {
			// Redact secrets
			if isSecret(k) {
				v = "[REDACTED]"
			}
			group = append(group, slog.Any(k, v))
		}
		attrs = append(attrs, slog.Group("metadata", group...))
	}

	slog.InfoContext(ctx, "AUDIT_EVENT", append(attrs, slog.String("component", "audit"))...)
	return nil
}

// isSecret checks if a key likely contains a secret
func isSecret(key string) bool {
	secrets := []string{"password", "secret", "token", "key", "authorization"}
	for _, s := range secrets {
		if key == s {
			return true
		}
	}
	return false
}
