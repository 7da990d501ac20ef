package rbac

import (
	"context"
	"errors"
	"fmt"
	"sort"
)

// Checker evaluates requests against a validated route policy
type Checker struct {
	config    Config
	rules     map[string]Rule
	roleIndex map[Role]RoleDefinition
}

// New creates a Checker from a validated Config
func New(cfg Config) (*Checker, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	rc := &Checker{config: cfg}
	rc.buildLookups()
	return rc, nil
}

// MustNew creates a Checker and panics on invalid config
func MustNew(cfg Config) *Checker {
	rc, err := New(cfg)
	if err != nil {
		panic(fmt.Sprintf(errMustNewPanicFmt, err))
	}
	return rc
}

func (rc *Checker) buildLookups() {
	rc.roleIndex = make(map[Role]RoleDefinition, len(rc.config.Roles))
	for _, rd := range rc.config.Roles {
		rc.roleIndex[rd.Name] = rd
	}

	rc.rules = make(map[string]Rule, len(rc.config.Routes))
	for _, r := range rc.config.Routes {
		rc.rules[r.Path] = r
	}
}

// Evaluate decides whether subject may view path.
//
// resolveErr is the outcome of session resolution. A resolution failure is
// routed like a missing session; a cancelled or expired request context
// yields an error decision so nothing is rendered.
func (rc *Checker) Evaluate(path string, subject *AuthSubject, resolveErr error) Decision {
	rule, ok := rc.rules[path]
	if !ok {
		return fail(rc.config.Fallback, ReasonUnknownRoute, fmt.Errorf("%w: %s", ErrUnknownRoute, path))
	}

	if rule.Public() {
		return allow(ReasonPublic)
	}

	if resolveErr != nil {
		if errors.Is(resolveErr, context.Canceled) || errors.Is(resolveErr, context.DeadlineExceeded) {
			return fail(rc.config.Fallback, ReasonCanceled, fmt.Errorf("%w: %w", ErrCanceled, resolveErr))
		}
		return redirect(rc.config.Fallback, ReasonResolutionError)
	}

	if subject == nil {
		return redirect(rc.config.Fallback, ReasonNoSession)
	}

	// Exact match only: roles carry no hierarchy.
	if subject.Role != rule.Required {
		return redirect(rc.config.Fallback, ReasonRoleMismatch)
	}

	return allow(ReasonRoleMatched)
}

// Rule returns the policy for path
func (rc *Checker) Rule(path string) (Rule, bool) {
	r, ok := rc.rules[path]
	return r, ok
}

// MustRule returns the policy for path and panics if none exists. Route
// wiring uses it so an unguarded page cannot be registered.
func (rc *Checker) MustRule(path string) Rule {
	r, ok := rc.rules[path]
	if !ok {
		panic(fmt.Sprintf(errMustRulePanicFmt, ErrUnknownRoute, path))
	}
	return r
}

// Rules returns all route rules sorted by path
func (rc *Checker) Rules() []Rule {
	out := make([]Rule, 0, len(rc.rules))
	for _, r := range rc.rules {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Path < out[j].Path })
	return out
}

// Fallback is the public path every denied request is sent to
func (rc *Checker) Fallback() string {
	return rc.config.Fallback
}

// ValidateRole validates a role string against configured roles
func (rc *Checker) ValidateRole(role string) (Role, error) {
	r := Role(role)
	if _, ok := rc.roleIndex[r]; ok {
		return r, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidRole, role)
}
