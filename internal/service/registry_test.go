package service

import (
	"context"
	"testing"

	"github.com/agentfs/agentfs/internal/types"
)

type mockProvider struct {
	id string
}

func (m *mockProvider) Definition() types.Service {
	return types.Service{
		ID:           m.id,
		Name:         "Mock Service",
		Description:  "A mock service for testing",
		Category:     types.CategoryFilesystem,
		Capabilities: []string{"read", "write"},
		Tools: []types.Tool{
			{
				ID:          m.id + ".test",
				Name:        "Test Tool",
				Description: "A test tool",
				Returns:     "object",
			},
		},
	}
}

func (m *mockProvider) Execute(ctx context.Context, toolID string, params map[string]interface{}, appCtx *types.Context) (*types.Result, error) {
	return &types.Result{
		Success: true,
		Data:    map[string]interface{}{"result": "success"},
	}, nil
}

func TestRegister(t *testing.T) {
	r := NewRegistry()
	p := &mockProvider{id: "test"}

	if err := r.Register(p); err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	if _, ok := r.Get("test"); !ok {
		t.Error("Service should be registered")
	}
}

func TestRegisterEmptyID(t *testing.T) {
	r := NewRegistry()
	if err := r.Register(&mockProvider{id: ""}); err == nil {
		t.Error("Register should reject an empty service ID")
	}
}

func TestList(t *testing.T) {
	r := NewRegistry()
	r.Register(&mockProvider{id: "test1"})
	r.Register(&mockProvider{id: "test2"})

	services := r.List(nil)
	if len(services) != 2 {
		t.Errorf("Expected 2 services, got %d", len(services))
	}
}

func TestExecute(t *testing.T) {
	r := NewRegistry()
	r.Register(&mockProvider{id: "test"})

	result, err := r.Execute(context.Background(), "test.test", map[string]interface{}{}, nil)
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	if !result.Success {
		t.Error("Execute should succeed")
	}
}

func TestExecuteUnknownService(t *testing.T) {
	r := NewRegistry()

	result, err := r.Execute(context.Background(), "missing.tool", nil, nil)
	if err == nil {
		t.Error("Execute should return an error for an unknown service")
	}
	if result == nil || result.Success {
		t.Fatal("Execute should return a failed result")
	}
	if result.Error == nil || result.Error.Kind != types.KindNotFound {
		t.Errorf("Expected not_found error kind, got %+v", result.Error)
	}
}

func TestExecuteInvalidToolID(t *testing.T) {
	r := NewRegistry()

	result, err := r.Execute(context.Background(), "noseparator", nil, nil)
	if err == nil {
		t.Error("Execute should return an error for a malformed tool ID")
	}
	if result.Error == nil || result.Error.Kind != types.KindValidation {
		t.Errorf("Expected validation error kind, got %+v", result.Error)
	}
}

func TestDiscover(t *testing.T) {
	r := NewRegistry()
	r.Register(&mockProvider{id: "filesystem"})

	services := r.Discover("read a file from the filesystem", 5)
	if len(services) == 0 {
		t.Error("Discover should match the filesystem service")
	}
}

func TestUnregister(t *testing.T) {
	r := NewRegistry()
	r.Register(&mockProvider{id: "test"})
	r.Unregister("test")

	if _, ok := r.Get("test"); ok {
		t.Error("Service should be unregistered")
	}
}
