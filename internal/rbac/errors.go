package rbac

import "errors"

var (
	ErrInvalidRole   = errors.New("invalid role")
	ErrUnknownRoute  = errors.New("route has no policy")
	ErrCanceled      = errors.New("request canceled during session resolution")
	ErrInvalidConfig = errors.New("invalid rbac config")
)

const (
	errConfigRolesEmpty            = "rbac config: roles must not be empty"
	errConfigRoutesEmpty           = "rbac config: routes must not be empty"
	errConfigRoleNameEmpty         = "rbac config: role name must not be empty"
	errConfigDuplicateRoleNameFmt  = "rbac config: duplicate role name: %s"
	errConfigRoutePathInvalidFmt   = "rbac config: route path must start with '/': %q"
	errConfigDuplicateRoutePathFmt = "rbac config: duplicate route path: %s"
	errConfigRouteUnknownRoleFmt   = "rbac config: route %s references unknown role: %s"
	errConfigFallbackEmpty         = "rbac config: fallback path must not be empty"
	errConfigFallbackUndeclaredFmt = "rbac config: fallback %s is not a declared route"
	errConfigFallbackProtectedFmt  = "rbac config: fallback %s requires role %s and would loop"
	errMustNewPanicFmt             = "rbac.MustNew: %v"
	errMustRulePanicFmt            = "rbac: %v: %s"
)
