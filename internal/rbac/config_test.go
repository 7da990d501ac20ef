package rbac_test

import (
	"errors"
	"strings"
	"testing"

	"marketplace-web/internal/rbac"
	"marketplace-web/internal/rbac/presets"
)

func validBaseConfig() rbac.Config {
	return rbac.Config{
		Roles: []rbac.RoleDefinition{{Name: "ADMIN"}, {Name: "TECHNICIAN"}},
		Routes: []rbac.Rule{
			{Path: "/"},
			{Path: "/admin", Required: "ADMIN"},
			{Path: "/dashboard", Required: "TECHNICIAN"},
		},
		Fallback: "/",
	}
}

func TestValidatePreset(t *testing.T) {
	cfg := presets.Marketplace()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Marketplace preset should be valid: %v", err)
	}
}

func TestValidateEmptyConfig(t *testing.T) {
	cfg := rbac.Config{}
	err := cfg.Validate()
	if err == nil {
		t.Fatal("empty config should fail validation")
	}
	if !errors.Is(err, rbac.ErrInvalidConfig) {
		t.Fatalf("error should wrap ErrInvalidConfig, got: %v", err)
	}
}

func TestValidateRejects(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*rbac.Config)
		want   string
	}{
		{"no roles", func(c *rbac.Config) { c.Roles = nil }, "roles must not be empty"},
		{"no routes", func(c *rbac.Config) { c.Routes = nil }, "routes must not be empty"},
		{"empty role name", func(c *rbac.Config) { c.Roles = append(c.Roles, rbac.RoleDefinition{}) }, "role name"},
		{"duplicate role", func(c *rbac.Config) { c.Roles = append(c.Roles, rbac.RoleDefinition{Name: "ADMIN"}) }, "duplicate role"},
		{"relative path", func(c *rbac.Config) { c.Routes = append(c.Routes, rbac.Rule{Path: "cart"}) }, "must start with"},
		{"duplicate path", func(c *rbac.Config) {
			c.Routes = append(c.Routes, rbac.Rule{Path: "/admin", Required: "TECHNICIAN"})
		}, "duplicate route path"},
		{"unknown role", func(c *rbac.Config) {
			c.Routes = append(c.Routes, rbac.Rule{Path: "/root", Required: "SUPERUSER"})
		}, "unknown role"},
		{"no fallback", func(c *rbac.Config) { c.Fallback = "" }, "fallback path"},
		{"undeclared fallback", func(c *rbac.Config) { c.Fallback = "/nowhere" }, "not a declared route"},
		{"protected fallback", func(c *rbac.Config) { c.Fallback = "/admin" }, "would loop"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validBaseConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("expected error containing %q, got: %v", tt.want, err)
			}
		})
	}
}

func TestMustNewPanicsOnInvalidConfig(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("MustNew should panic on invalid config")
		}
	}()
	rbac.MustNew(rbac.Config{})
}
