package services

import (
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	argcontext "argshell/internal/context"
	"argshell/internal/store"
	"argshell/internal/testutils"
)

// Mock service for testing
type MockService struct {
	name             string
	initializeCalled bool
	initializeError  error
}

func NewMockService(name string) *MockService {
	return &MockService{
		name: name,
	}
}

func (m *MockService) Name() string {
	return m.name
}

func (m *MockService) Initialize() error {
	m.initializeCalled = true
	return m.initializeError
}

func (m *MockService) SetInitializeError(err error) {
	m.initializeError = err
}

// testServices holds a freshly initialized set of services installed in the
// global registry, bound to a test-mode context.
type testServices struct {
	ctx         *argcontext.ArgContext
	types       *ArgumentTypeService
	definitions *DefinitionService
	commands    *CommandService
	complete    *AutoCompleteService
}

func setupServices(t *testing.T) *testServices {
	t.Helper()
	ctx := testutils.NewTestContext(t.Cleanup)

	prev := GetGlobalRegistry()
	registry := NewRegistry()
	ts := &testServices{
		ctx:         ctx,
		types:       NewArgumentTypeService(),
		definitions: NewDefinitionService(store.NewMemoryStore()),
		commands:    NewCommandService(),
		complete:    NewAutoCompleteService(),
	}
	for _, s := range []Service{ts.types, ts.definitions, ts.commands, ts.complete} {
		require.NoError(t, registry.RegisterService(s))
	}
	SetGlobalRegistry(registry)
	t.Cleanup(func() { SetGlobalRegistry(prev) })

	require.NoError(t, registry.InitializeAll())
	return ts
}

func TestRegistry_NewRegistry(t *testing.T) {
	registry := NewRegistry()

	assert.NotNil(t, registry)
	assert.NotNil(t, registry.services)
	assert.Equal(t, 0, len(registry.services))
}

func TestRegistry_RegisterService(t *testing.T) {
	registry := NewRegistry()
	service1 := NewMockService("duplicate")
	service2 := NewMockService("duplicate")

	require.NoError(t, registry.RegisterService(service1))

	err := registry.RegisterService(service2)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "service duplicate already registered")

	retrieved, err := registry.GetService("duplicate")
	assert.NoError(t, err)
	assert.Same(t, service1, retrieved)
}

func TestRegistry_GetService(t *testing.T) {
	registry := NewRegistry()
	service := NewMockService("test")
	require.NoError(t, registry.RegisterService(service))

	tests := []struct {
		name        string
		serviceName string
		wantErr     bool
	}{
		{name: "get existing service", serviceName: "test"},
		{name: "get non-existing service", serviceName: "nonexistent", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			retrieved, err := registry.GetService(tt.serviceName)
			if tt.wantErr {
				assert.Error(t, err)
				assert.Contains(t, err.Error(), "not found")
				assert.Nil(t, retrieved)
				return
			}
			assert.NoError(t, err)
			assert.Same(t, service, retrieved)
		})
	}
}

func TestRegistry_InitializeAll(t *testing.T) {
	tests := []struct {
		name     string
		services []*MockService
	}{
		{name: "initialize empty registry"},
		{name: "initialize single service", services: []*MockService{NewMockService("service1")}},
		{
			name: "initialize multiple services",
			services: []*MockService{
				NewMockService("service1"),
				NewMockService("service2"),
				NewMockService("service3"),
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			registry := NewRegistry()
			for _, service := range tt.services {
				require.NoError(t, registry.RegisterService(service))
			}

			require.NoError(t, registry.InitializeAll())
			for _, service := range tt.services {
				assert.True(t, service.initializeCalled)
			}
		})
	}
}

func TestRegistry_InitializeAll_WithError(t *testing.T) {
	registry := NewRegistry()

	service1 := NewMockService("service1")
	service2 := NewMockService("service2")
	service3 := NewMockService("service3")
	service2.SetInitializeError(errors.New("initialization failed"))

	require.NoError(t, registry.RegisterService(service1))
	require.NoError(t, registry.RegisterService(service2))
	require.NoError(t, registry.RegisterService(service3))

	err := registry.InitializeAll()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to initialize service service2")
	assert.Contains(t, err.Error(), "initialization failed")
	assert.True(t, service1.initializeCalled)
	assert.False(t, service3.initializeCalled)
}

func TestRegistry_GetAllServices(t *testing.T) {
	registry := NewRegistry()
	for i := 1; i <= 3; i++ {
		require.NoError(t, registry.RegisterService(NewMockService(fmt.Sprintf("service%d", i))))
	}

	allServices := registry.GetAllServices()
	assert.Len(t, allServices, 3)

	// Modifying the copy leaves the registry untouched
	allServices["new_service"] = NewMockService("new_service")
	_, err := registry.GetService("new_service")
	assert.Error(t, err)
}

func TestRegistry_ConcurrentAccess(t *testing.T) {
	registry := NewRegistry()

	numGoroutines := 10
	servicesPerGoroutine := 5

	var wg sync.WaitGroup
	wg.Add(numGoroutines)
	for i := 0; i < numGoroutines; i++ {
		go func(id int) {
			defer wg.Done()
			for j := 0; j < servicesPerGoroutine; j++ {
				assert.NoError(t, registry.RegisterService(NewMockService(fmt.Sprintf("service_%d_%d", id, j))))
			}
		}(i)
	}
	wg.Wait()

	allServices := registry.GetAllServices()
	assert.Equal(t, numGoroutines*servicesPerGoroutine, len(allServices))

	require.NoError(t, registry.InitializeAll())
	for _, service := range allServices {
		assert.True(t, service.(*MockService).initializeCalled)
	}
}

func TestGlobalRegistry_DefaultServices(t *testing.T) {
	for _, name := range []string{"argument_types", "autocomplete", "commands", "definitions", "markdown"} {
		_, err := GlobalRegistry.GetService(name)
		assert.NoError(t, err, name)
	}
}

func TestGetService_WrongType(t *testing.T) {
	prev := GetGlobalRegistry()
	registry := NewRegistry()
	require.NoError(t, registry.RegisterService(NewMockService("commands")))
	SetGlobalRegistry(registry)
	t.Cleanup(func() { SetGlobalRegistry(prev) })

	_, err := GetGlobalCommandService()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "unexpected type")
}
