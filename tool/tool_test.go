package tool

import (
	"context"
	"testing"
)

type fakeTool struct {
	name string
}

func (f *fakeTool) Name() string        { return f.name }
func (f *fakeTool) Description() string { return "fake " + f.name }
func (f *fakeTool) Parameters() map[string]interface{} {
	return map[string]interface{}{"type": "object"}
}
func (f *fakeTool) Execute(ctx context.Context, args map[string]interface{}) (interface{}, error) {
	return f.name, nil
}

func TestRegistryPreservesOrder(t *testing.T) {
	r := NewRegistry()
	r.Register(&fakeTool{name: "alpha"})
	r.Register(&fakeTool{name: "beta"})
	r.Register(&fakeTool{name: "gamma"})

	names := r.Names()
	want := []string{"alpha", "beta", "gamma"}
	if len(names) != len(want) {
		t.Fatalf("expected %d names, got %d", len(want), len(names))
	}
	for i, n := range want {
		if names[i] != n {
			t.Errorf("names[%d] = %q, want %q", i, names[i], n)
		}
	}
}

func TestRegistryReplaceKeepsPosition(t *testing.T) {
	r := NewRegistry()
	r.Register(&fakeTool{name: "alpha"})
	r.Register(&fakeTool{name: "beta"})
	r.Register(&fakeTool{name: "alpha"})

	names := r.Names()
	if len(names) != 2 {
		t.Fatalf("expected 2 tools after replace, got %d", len(names))
	}
	if names[0] != "alpha" || names[1] != "beta" {
		t.Errorf("unexpected order after replace: %v", names)
	}
}

func TestRegistryGet(t *testing.T) {
	r := NewRegistry()
	r.Register(&fakeTool{name: "alpha"})

	if _, ok := r.Get("alpha"); !ok {
		t.Error("expected to find alpha")
	}
	if _, ok := r.Get("missing"); ok {
		t.Error("did not expect to find missing")
	}
	if !r.Has("alpha") {
		t.Error("Has(alpha) = false")
	}
}

func TestRegistrySubset(t *testing.T) {
	r := NewRegistry()
	r.Register(&fakeTool{name: "alpha"})
	r.Register(&fakeTool{name: "beta"})
	r.Register(&fakeTool{name: "gamma"})

	sub := r.Subset([]string{"gamma", "alpha", "unknown"})
	names := sub.Names()
	if len(names) != 2 {
		t.Fatalf("expected 2 tools in subset, got %d: %v", len(names), names)
	}
	if names[0] != "gamma" || names[1] != "alpha" {
		t.Errorf("subset order = %v, want [gamma alpha]", names)
	}
}

func TestRegistryDefinitions(t *testing.T) {
	r := NewRegistry()
	r.Register(&fakeTool{name: "alpha"})

	defs := r.Definitions()
	if len(defs) != 1 {
		t.Fatalf("expected 1 definition, got %d", len(defs))
	}
	if defs[0].Name != "alpha" {
		t.Errorf("definition name = %q", defs[0].Name)
	}
	if defs[0].Description != "fake alpha" {
		t.Errorf("definition description = %q", defs[0].Description)
	}
	if defs[0].Parameters == nil {
		t.Error("definition parameters are nil")
	}
}

func TestGenerateSchema(t *testing.T) {
	type args struct {
		Query string `json:"query" jsonschema_description:"search query"`
		Limit int    `json:"limit,omitempty" jsonschema_description:"maximum results"`
	}

	schema := GenerateSchema[args]()
	if schema["type"] != "object" {
		t.Fatalf("schema type = %v, want object", schema["type"])
	}
	props, ok := schema["properties"].(map[string]interface{})
	if !ok {
		t.Fatalf("schema has no properties map: %v", schema)
	}
	if _, ok := props["query"]; !ok {
		t.Error("schema is missing query property")
	}
	if _, ok := props["limit"]; !ok {
		t.Error("schema is missing limit property")
	}
}
