package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/rolegate/rolegate/internal/audit"
	"github.com/rolegate/rolegate/internal/id"
	"github.com/rolegate/rolegate/internal/registry"
	"github.com/rolegate/rolegate/internal/role"
)

const testAPIKey = "test-api-key-secret"

// Mock repository for the service registry
type mockServiceRepo struct {
	mock.Mock
}

func (m *mockServiceRepo) Create(ctx context.Context, svc *registry.Service) error {
	args := m.Called(ctx, svc)
	return args.Error(0)
}

func (m *mockServiceRepo) GetByID(ctx context.Context, serviceID id.ID) (*registry.Service, error) {
	args := m.Called(ctx, serviceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*registry.Service), args.Error(1)
}

func (m *mockServiceRepo) Update(ctx context.Context, svc *registry.Service) error {
	args := m.Called(ctx, svc)
	return args.Error(0)
}

func (m *mockServiceRepo) Delete(ctx context.Context, serviceID id.ID) error {
	args := m.Called(ctx, serviceID)
	return args.Error(0)
}

func (m *mockServiceRepo) List(ctx context.Context) ([]*registry.Service, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*registry.Service), args.Error(1)
}

// Mock repository for roles
type mockRoleRepo struct {
	mock.Mock
}

func (m *mockRoleRepo) Create(ctx context.Context, r *role.Role) error {
	args := m.Called(ctx, r)
	return args.Error(0)
}

func (m *mockRoleRepo) GetByID(ctx context.Context, roleID id.ID) (*role.Role, error) {
	args := m.Called(ctx, roleID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*role.Role), args.Error(1)
}

func (m *mockRoleRepo) Update(ctx context.Context, r *role.Role) error {
	args := m.Called(ctx, r)
	return args.Error(0)
}

func (m *mockRoleRepo) Delete(ctx context.Context, roleID id.ID) error {
	args := m.Called(ctx, roleID)
	return args.Error(0)
}

func (m *mockRoleRepo) List(ctx context.Context) ([]*role.Role, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*role.Role), args.Error(1)
}

func newTestRouter(serviceRepo *mockServiceRepo, roleRepo *mockRoleRepo, sink audit.Sink) http.Handler {
	if sink == nil {
		sink = audit.NewSlogSink()
	}
	reg := registry.NewRegistry(serviceRepo, sink)
	validator := registry.NewReferenceValidator(serviceRepo)
	roles := role.NewService(roleRepo, validator, sink)
	h := NewHandler(reg, roles, testAPIKey)
	return NewRouter(h, NewRateLimiter(1000, 1000))
}

func doRequest(router http.Handler, method, target string, body any, apiKey string) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, target, &buf)
	if apiKey != "" {
		req.Header.Set("x-api-key", apiKey)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestAPIKeyMiddleware(t *testing.T) {
	router := newTestRouter(new(mockServiceRepo), new(mockRoleRepo), nil)

	t.Run("missing key", func(t *testing.T) {
		w := doRequest(router, "GET", "/api/v1/services", nil, "")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("wrong key", func(t *testing.T) {
		w := doRequest(router, "GET", "/api/v1/services", nil, "wrong")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("health endpoint is open", func(t *testing.T) {
		w := doRequest(router, "GET", "/health", nil, "")
		assert.Equal(t, http.StatusOK, w.Code)
	})
}

func TestCreateService_HTTP(t *testing.T) {
	t.Run("created", func(t *testing.T) {
		serviceRepo := new(mockServiceRepo)
		serviceRepo.On("Create", mock.Anything, mock.AnythingOfType("*registry.Service")).Return(nil)
		router := newTestRouter(serviceRepo, new(mockRoleRepo), nil)

		w := doRequest(router, "POST", "/api/v1/services", CreateServiceRequest{
			Name:       "billing",
			Operations: []OperationPayload{{Name: "invoice:read"}},
		}, testAPIKey)

		assert.Equal(t, http.StatusCreated, w.Code)
		var svc registry.Service
		assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &svc))
		assert.NotEmpty(t, svc.ID)
		assert.Len(t, svc.Operations, 1)
		assert.NotEmpty(t, svc.Operations[0].ID)
	})

	t.Run("name too short", func(t *testing.T) {
		serviceRepo := new(mockServiceRepo)
		router := newTestRouter(serviceRepo, new(mockRoleRepo), nil)

		w := doRequest(router, "POST", "/api/v1/services", CreateServiceRequest{Name: "abc"}, testAPIKey)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		serviceRepo.AssertNotCalled(t, "Create")
	})
}

func TestGetService_HTTP(t *testing.T) {
	svc := &registry.Service{ID: id.New(), Name: "billing"}
	serviceRepo := new(mockServiceRepo)
	serviceRepo.On("GetByID", mock.Anything, svc.ID).Return(svc, nil)
	router := newTestRouter(serviceRepo, new(mockRoleRepo), nil)

	w := doRequest(router, "GET", "/api/v1/services/"+svc.ID.String(), nil, testAPIKey)

	assert.Equal(t, http.StatusOK, w.Code)

	missing := id.New()
	serviceRepo.On("GetByID", mock.Anything, missing).Return(nil, registry.ErrServiceNotFound)
	w = doRequest(router, "GET", "/api/v1/services/"+missing.String(), nil, testAPIKey)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestListServices_HTTP(t *testing.T) {
	t.Run("page too large rejected before store access", func(t *testing.T) {
		serviceRepo := new(mockServiceRepo)
		router := newTestRouter(serviceRepo, new(mockRoleRepo), nil)

		w := doRequest(router, "GET", "/api/v1/services?pageSize=101", nil, testAPIKey)

		assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
		serviceRepo.AssertNotCalled(t, "List")
	})

	t.Run("page shape", func(t *testing.T) {
		services := []*registry.Service{
			{ID: id.New(), Name: "billing"},
			{ID: id.New(), Name: "shipping"},
		}
		serviceRepo := new(mockServiceRepo)
		serviceRepo.On("List", mock.Anything).Return(services, nil)
		router := newTestRouter(serviceRepo, new(mockRoleRepo), nil)

		w := doRequest(router, "GET", "/api/v1/services?pageSize=10&pageNumber=1", nil, testAPIKey)

		assert.Equal(t, http.StatusOK, w.Code)
		var page struct {
			Links struct {
				Base string `json:"base"`
				Prev string `json:"prev"`
				Next string `json:"next"`
			} `json:"_links"`
			PageSize   int               `json:"pageSize"`
			PageNumber int               `json:"pageNumber"`
			Results    []registry.Service `json:"results"`
		}
		assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &page))
		assert.Equal(t, 10, page.PageSize)
		assert.Equal(t, 1, page.PageNumber)
		assert.Len(t, page.Results, 2)
		assert.Contains(t, page.Links.Base, "/api/v1/services?pageSize=10&pageNumber=1")
		assert.Empty(t, page.Links.Prev)
		assert.Empty(t, page.Links.Next)
	})
}

func TestCreateRole_HTTP(t *testing.T) {
	opX := id.New()
	registered := []*registry.Service{
		{ID: id.New(), Name: "billing", Operations: []registry.Operation{{ID: opX, Name: "invoice:read"}}},
	}

	t.Run("created", func(t *testing.T) {
		serviceRepo := new(mockServiceRepo)
		serviceRepo.On("List", mock.Anything).Return(registered, nil)
		roleRepo := new(mockRoleRepo)
		roleRepo.On("Create", mock.Anything, mock.AnythingOfType("*role.Role")).Return(nil)
		router := newTestRouter(serviceRepo, roleRepo, nil)

		w := doRequest(router, "POST", "/api/v1/roles", RoleRequest{
			Name:         "Editors",
			ServiceOpIDs: []id.ID{opX},
		}, testAPIKey)

		assert.Equal(t, http.StatusCreated, w.Code)
	})

	t.Run("unknown reference rejected", func(t *testing.T) {
		serviceRepo := new(mockServiceRepo)
		serviceRepo.On("List", mock.Anything).Return(registered, nil)
		roleRepo := new(mockRoleRepo)
		router := newTestRouter(serviceRepo, roleRepo, nil)

		w := doRequest(router, "POST", "/api/v1/roles", RoleRequest{
			Name:         "BadRole",
			ServiceOpIDs: []id.ID{id.New()},
		}, testAPIKey)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		roleRepo.AssertNotCalled(t, "Create")
	})
}

func TestExpandRoles_HTTP(t *testing.T) {
	opX, opY := id.New(), id.New()
	editors := &role.Role{ID: id.New(), Name: "Editors", OperationIDs: []id.ID{opX, opY}}

	roleRepo := new(mockRoleRepo)
	roleRepo.On("GetByID", mock.Anything, editors.ID).Return(editors, nil)
	router := newTestRouter(new(mockServiceRepo), roleRepo, nil)

	w := doRequest(router, "POST", "/api/v1/rolexpand", ExpandRequest{RoleIDs: []id.ID{editors.ID}}, testAPIKey)

	assert.Equal(t, http.StatusCreated, w.Code)
	var expanded []id.ID
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &expanded))
	assert.Equal(t, []id.ID{opX, opY}, expanded)
}

func TestExpandRoles_UnknownRole(t *testing.T) {
	missing := id.New()
	roleRepo := new(mockRoleRepo)
	roleRepo.On("GetByID", mock.Anything, missing).Return(nil, role.ErrRoleNotFound)
	router := newTestRouter(new(mockServiceRepo), roleRepo, nil)

	w := doRequest(router, "POST", "/api/v1/rolexpand", ExpandRequest{RoleIDs: []id.ID{missing}}, testAPIKey)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestDeleteRole_HTTP(t *testing.T) {
	roleID := id.New()
	roleRepo := new(mockRoleRepo)
	roleRepo.On("Delete", mock.Anything, roleID).Return(nil)
	router := newTestRouter(new(mockServiceRepo), roleRepo, nil)

	w := doRequest(router, "DELETE", "/api/v1/roles/"+roleID.String(), nil, testAPIKey)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestMutation_AuditSinkUnavailable(t *testing.T) {
	// A collector that is already closed: the write commits, audit delivery
	// fails, and the request reports the failed dependency.
	collector := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	collector.Close()
	sink := audit.NewHTTPSink(collector.URL, time.Second)

	serviceRepo := new(mockServiceRepo)
	serviceRepo.On("Create", mock.Anything, mock.AnythingOfType("*registry.Service")).Return(nil)
	router := newTestRouter(serviceRepo, new(mockRoleRepo), sink)

	w := doRequest(router, "POST", "/api/v1/services", CreateServiceRequest{Name: "billing"}, testAPIKey)

	assert.Equal(t, http.StatusFailedDependency, w.Code)
	serviceRepo.AssertCalled(t, "Create", mock.Anything, mock.AnythingOfType("*registry.Service"))
}
