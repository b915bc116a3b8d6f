package audit

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestAudit_IsSecret(t *testing.T) {
	tests := []struct {
		key      string
		isSecret bool
	}{
		{"password", true},
		{"secret", true},
		{"token", true},
		{"key", true},
		{"authorization", true},
		{"name", false},
		{"operation_count", false},
		{"resource", false},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			if got := isSecret(tt.key); got != tt.isSecret {
				t.Errorf("isSecret(%q) = %v, want %v", tt.key, got, tt.isSecret)
			}
		})
	}
}

func TestSlogSink_NeverFails(t *testing.T) {
	sink := NewSlogSink()

	err := sink.Log(context.Background(), Event{
		Type:     TypeServiceCreated,
		Resource: "svc-1",
		Metadata: map[string]any{"name": "billing", "key": "should-be-redacted"},
	})

	assert.NoError(t, err)
}

func TestHTTPSink_DeliversEvent(t *testing.T) {
	var received Event
	collector := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		w.WriteHeader(http.StatusAccepted)
	}))
	defer collector.Close()

	sink := NewHTTPSink(collector.URL, time.Second)
	err := sink.Log(context.Background(), Event{
		Type:     TypeRoleCreated,
		Resource: "role-1",
	})

	assert.NoError(t, err)
	assert.Equal(t, TypeRoleCreated, received.Type)
	assert.Equal(t, "role-1", received.Resource)
	assert.False(t, received.Timestamp.IsZero())
}

func TestHTTPSink_CollectorErrorIsUnavailable(t *testing.T) {
	collector := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer collector.Close()

	sink := NewHTTPSink(collector.URL, time.Second)
	err := sink.Log(context.Background(), Event{Type: TypeRoleDeleted, Resource: "role-1"})

	assert.ErrorIs(t, err, ErrSinkUnavailable)
}

func TestHTTPSink_UnreachableCollectorIsUnavailable(t *testing.T) {
	collector := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	collector.Close()

	sink := NewHTTPSink(collector.URL, time.Second)
	err := sink.Log(context.Background(), Event{Type: TypeServiceDeleted, Resource: "svc-1"})

	assert.ErrorIs(t, err, ErrSinkUnavailable)
}
