package registry

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/rolegate/rolegate/internal/audit"
	"github.com/rolegate/rolegate/internal/id"
)

type mockRepo struct {
	mock.Mock
}

func (m *mockRepo) Create(ctx context.Context, svc *Service) error {
	args := m.Called(ctx, svc)
	return args.Error(0)
}

func (m *mockRepo) GetByID(ctx context.Context, serviceID id.ID) (*Service, error) {
	args := m.Called(ctx, serviceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Service), args.Error(1)
}

func (m *mockRepo) Update(ctx context.Context, svc *Service) error {
	args := m.Called(ctx, svc)
	return args.Error(0)
}

func (m *mockRepo) Delete(ctx context.Context, serviceID id.ID) error {
	args := m.Called(ctx, serviceID)
	return args.Error(0)
}

func (m *mockRepo) List(ctx context.Context) ([]*Service, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*Service), args.Error(1)
}

func TestRegistry_CreateService_NameBounds(t *testing.T) {
	tests := []struct {
		name        string
		serviceName string
		wantErr     error
	}{
		{"too short", "abc", ErrInvalidName},
		{"minimum length", "abcd", nil},
		{"maximum length", "abcdefghijklmnopqrstuvwxyz0123", nil},
		{"too long", "abcdefghijklmnopqrstuvwxyz01234", ErrInvalidName},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(mockRepo)
			reg := NewRegistry(repo, audit.NewSlogSink())

			if tt.wantErr == nil {
				repo.On("Create", mock.Anything, mock.AnythingOfType("*registry.Service")).Return(nil)
			}

			svc, err := reg.CreateService(context.Background(), tt.serviceName, nil)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				repo.AssertNotCalled(t, "Create")
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.serviceName, svc.Name)
			}
		})
	}
}

func TestRegistry_CreateService_AssignsOperationIDs(t *testing.T) {
	repo := new(mockRepo)
	reg := NewRegistry(repo, audit.NewSlogSink())
	repo.On("Create", mock.Anything, mock.AnythingOfType("*registry.Service")).Return(nil)

	svc, err := reg.CreateService(context.Background(), "billing", []string{"invoice:read", "invoice:write"})

	assert.NoError(t, err)
	assert.NotEmpty(t, svc.ID)
	assert.Len(t, svc.Operations, 2)
	assert.Equal(t, "invoice:read", svc.Operations[0].Name)
	assert.Equal(t, "invoice:write", svc.Operations[1].Name)
	assert.NotEmpty(t, svc.Operations[0].ID)
	assert.NotEmpty(t, svc.Operations[1].ID)
	assert.NotEqual(t, svc.Operations[0].ID, svc.Operations[1].ID)
}

func TestRegistry_CreateService_EmptyOperationsAllowed(t *testing.T) {
	repo := new(mockRepo)
	reg := NewRegistry(repo, audit.NewSlogSink())
	repo.On("Create", mock.Anything, mock.AnythingOfType("*registry.Service")).Return(nil)

	svc, err := reg.CreateService(context.Background(), "auth-svc", nil)

	assert.NoError(t, err)
	assert.Empty(t, svc.Operations)
}

func TestRegistry_AddOperations_AppendsWithoutDedup(t *testing.T) {
	existing := &Service{
		ID:   id.New(),
		Name: "billing",
		Operations: []Operation{
			{ID: id.New(), Name: "invoice:read"},
		},
	}

	repo := new(mockRepo)
	reg := NewRegistry(repo, audit.NewSlogSink())
	repo.On("GetByID", mock.Anything, existing.ID).Return(existing, nil)
	repo.On("Update", mock.Anything, existing).Return(nil)

	svc, err := reg.AddOperations(context.Background(), existing.ID, []string{"invoice:read", "invoice:write"})

	assert.NoError(t, err)
	// Same name appended again, never merged
	assert.Len(t, svc.Operations, 3)
	assert.Equal(t, "invoice:read", svc.Operations[0].Name)
	assert.Equal(t, "invoice:read", svc.Operations[1].Name)
	assert.Equal(t, "invoice:write", svc.Operations[2].Name)
	assert.NotEqual(t, svc.Operations[0].ID, svc.Operations[1].ID)
}

func TestRegistry_AddOperations_ServiceNotFound(t *testing.T) {
	repo := new(mockRepo)
	reg := NewRegistry(repo, audit.NewSlogSink())
	missing := id.New()
	repo.On("GetByID", mock.Anything, missing).Return(nil, ErrServiceNotFound)

	_, err := reg.AddOperations(context.Background(), missing, []string{"whatever"})

	assert.ErrorIs(t, err, ErrServiceNotFound)
	repo.AssertNotCalled(t, "Update")
}

func TestRegistry_UpdateService_RenamesInPlace(t *testing.T) {
	opRead := Operation{ID: id.New(), Name: "invoice:read"}
	opWrite := Operation{ID: id.New(), Name: "invoice:write"}
	existing := &Service{
		ID:         id.New(),
		Name:       "billing",
		Operations: []Operation{opRead, opWrite},
	}

	repo := new(mockRepo)
	reg := NewRegistry(repo, audit.NewSlogSink())
	repo.On("GetByID", mock.Anything, existing.ID).Return(existing, nil)
	repo.On("Update", mock.Anything, existing).Return(nil)

	svc, err := reg.UpdateService(context.Background(), existing.ID, "billing-v2", []Operation{
		{ID: opRead.ID, Name: "invoice:read-all"},
		{ID: id.New(), Name: "sneaky:new-op"},
	})

	assert.NoError(t, err)
	assert.Equal(t, "billing-v2", svc.Name)
	// Matching identifier renamed, unmatched incoming operation ignored
	assert.Len(t, svc.Operations, 2)
	assert.Equal(t, "invoice:read-all", svc.Operations[0].Name)
	assert.Equal(t, "invoice:write", svc.Operations[1].Name)
}

func TestRegistry_UpdateService_NameBoundsCheckedFirst(t *testing.T) {
	repo := new(mockRepo)
	reg := NewRegistry(repo, audit.NewSlogSink())

	_, err := reg.UpdateService(context.Background(), id.New(), "ab", nil)

	assert.ErrorIs(t, err, ErrInvalidName)
	repo.AssertNotCalled(t, "GetByID")
	repo.AssertNotCalled(t, "Update")
}

func TestRegistry_DeleteService(t *testing.T) {
	repo := new(mockRepo)
	reg := NewRegistry(repo, audit.NewSlogSink())
	serviceID := id.New()
	repo.On("Delete", mock.Anything, serviceID).Return(nil)

	err := reg.DeleteService(context.Background(), serviceID)

	assert.NoError(t, err)
	repo.AssertCalled(t, "Delete", mock.Anything, serviceID)
}

func TestRegistry_DeleteService_NotFound(t *testing.T) {
	repo := new(mockRepo)
	reg := NewRegistry(repo, audit.NewSlogSink())
	missing := id.New()
	repo.On("Delete", mock.Anything, missing).Return(ErrServiceNotFound)

	err := reg.DeleteService(context.Background(), missing)

	assert.ErrorIs(t, err, ErrServiceNotFound)
}
