package rbac

import (
	"fmt"
	"strings"
)

// Config is the static route policy. It is built once at startup and never
// recomputed from request data.
type Config struct {
	Roles    []RoleDefinition
	Routes   []Rule
	Fallback string
}

// Validate checks internal consistency of the Config
func (c *Config) Validate() error {
	if len(c.Roles) == 0 {
		return fmt.Errorf("%w: %s", ErrInvalidConfig, errConfigRolesEmpty)
	}
	if len(c.Routes) == 0 {
		return fmt.Errorf("%w: %s", ErrInvalidConfig, errConfigRoutesEmpty)
	}

	roleNames := make(map[Role]bool, len(c.Roles))
	for _, rd := range c.Roles {
		if rd.Name == RoleNone {
			return fmt.Errorf("%w: %s", ErrInvalidConfig, errConfigRoleNameEmpty)
		}
		if roleNames[rd.Name] {
			return fmt.Errorf("%w: "+errConfigDuplicateRoleNameFmt, ErrInvalidConfig, rd.Name)
		}
		roleNames[rd.Name] = true
	}

	routes := make(map[string]Rule, len(c.Routes))
	for _, r := range c.Routes {
		if !strings.HasPrefix(r.Path, "/") {
			return fmt.Errorf("%w: "+errConfigRoutePathInvalidFmt, ErrInvalidConfig, r.Path)
		}
		if _, dup := routes[r.Path]; dup {
			return fmt.Errorf("%w: "+errConfigDuplicateRoutePathFmt, ErrInvalidConfig, r.Path)
		}
		if !r.Public() && !roleNames[r.Required] {
			return fmt.Errorf("%w: "+errConfigRouteUnknownRoleFmt, ErrInvalidConfig, r.Path, r.Required)
		}
		routes[r.Path] = r
	}

	if c.Fallback == "" {
		return fmt.Errorf("%w: %s", ErrInvalidConfig, errConfigFallbackEmpty)
	}
	fallback, ok := routes[c.Fallback]
	if !ok {
		return fmt.Errorf("%w: "+errConfigFallbackUndeclaredFmt, ErrInvalidConfig, c.Fallback)
	}
	if !fallback.Public() {
		return fmt.Errorf("%w: "+errConfigFallbackProtectedFmt, ErrInvalidConfig, c.Fallback, fallback.Required)
	}

	return nil
}
