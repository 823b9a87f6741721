package bookmarks

import (
	"context"
	"errors"
	"testing"
)

type stubProvider struct {
	name    string
	enabled bool
}

func (p *stubProvider) Name() string                             { return p.name }
func (p *stubProvider) IsEnabled() bool                          { return p.enabled }
func (p *stubProvider) GetLinks(context.Context) ([]Link, error) { return nil, nil }
func (p *stubProvider) Configure(map[string]interface{}) error   { p.enabled = true; return nil }

type otherProvider struct{ stubProvider }

func TestRegistryLookup(t *testing.T) {
	registry := NewRegistry()
	if err := registry.Register(&stubProvider{name: "stub"}); err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	p, err := registry.Lookup("stub")
	if err != nil || p.Name() != "stub" {
		t.Fatalf("Lookup = %v, %v", p, err)
	}
	if _, err := registry.Lookup("missing"); !errors.Is(err, ErrUnknownProvider) {
		t.Fatalf("expected ErrUnknownProvider, got %v", err)
	}
	if err := registry.Configure("missing", ProviderConfig{}); !errors.Is(err, ErrUnknownProvider) {
		t.Fatalf("expected ErrUnknownProvider from Configure, got %v", err)
	}

	stub, err := LookupAs[*stubProvider](registry, "stub")
	if err != nil || stub.name != "stub" {
		t.Fatalf("LookupAs = %v, %v", stub, err)
	}
	if other, err := LookupAs[*otherProvider](registry, "stub"); err == nil || other != nil {
		t.Fatalf("expected type mismatch error, got %v, %v", other, err)
	}
	if _, err := LookupAs[*stubProvider](registry, "missing"); !errors.Is(err, ErrUnknownProvider) {
		t.Fatalf("expected ErrUnknownProvider, got %v", err)
	}
}

func TestRegistryHonorsDisabledConfig(t *testing.T) {
	registry := NewRegistry()
	registry.Register(&stubProvider{name: "a"})
	registry.Register(&stubProvider{name: "b"})

	if err := registry.Configure("b", ProviderConfig{Name: "b", Enabled: true}); err != nil {
		t.Fatalf("Configure failed: %v", err)
	}
	if err := registry.Configure("a", ProviderConfig{Name: "a", Enabled: false}); err != nil {
		t.Fatalf("Configure failed: %v", err)
	}

	enabled := registry.GetEnabled()
	if len(enabled) != 1 || enabled[0].Name() != "b" {
		t.Fatalf("expected only b enabled, got %d providers", len(enabled))
	}
}
