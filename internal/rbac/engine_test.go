package rbac_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"marketplace-web/internal/rbac"
	"marketplace-web/internal/rbac/presets"
)

func newChecker(t *testing.T) *rbac.Checker {
	t.Helper()
	rc, err := rbac.New(presets.Marketplace())
	if err != nil {
		t.Fatalf("failed to create checker: %v", err)
	}
	return rc
}

func subject(role rbac.Role) *rbac.AuthSubject {
	return &rbac.AuthSubject{UserID: "u-1", Role: role}
}

func TestEvaluateScenarios(t *testing.T) {
	checker := newChecker(t)

	tests := []struct {
		name    string
		path    string
		subject *rbac.AuthSubject
		outcome rbac.Outcome
		target  string
	}{
		{"admin views technician management", presets.PathAdminTechnicians, subject(presets.RoleAdmin), rbac.OutcomeAllow, ""},
		{"technician denied technician management", presets.PathAdminTechnicians, subject(presets.RoleTechnician), rbac.OutcomeRedirect, "/"},
		{"anonymous denied wallet", presets.PathWallet, nil, rbac.OutcomeRedirect, "/"},
		{"technician views withdraw", presets.PathWithdraw, subject(presets.RoleTechnician), rbac.OutcomeAllow, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := checker.Evaluate(tt.path, tt.subject, nil)
			if d.Outcome != tt.outcome {
				t.Errorf("Evaluate(%s) outcome = %s, expected %s", tt.path, d.Outcome, tt.outcome)
			}
			if d.Target != tt.target {
				t.Errorf("Evaluate(%s) target = %q, expected %q", tt.path, d.Target, tt.target)
			}
		})
	}
}

func TestEvaluateEveryProtectedRoute(t *testing.T) {
	checker := newChecker(t)
	roles := []rbac.Role{presets.RoleAdmin, presets.RoleTechnician, presets.RoleCustomer, "GUEST", ""}

	for _, rule := range checker.Rules() {
		if rule.Public() {
			continue
		}
		t.Run(rule.Path, func(t *testing.T) {
			if d := checker.Evaluate(rule.Path, subject(rule.Required), nil); !d.Allowed() {
				t.Errorf("role %s should be allowed on %s, got %s (%s)", rule.Required, rule.Path, d.Outcome, d.Reason)
			}

			d := checker.Evaluate(rule.Path, nil, nil)
			if d.Outcome != rbac.OutcomeRedirect || d.Target != "/" || d.Reason != rbac.ReasonNoSession {
				t.Errorf("no session on %s: got %+v", rule.Path, d)
			}

			for _, role := range roles {
				if role == rule.Required {
					continue
				}
				d := checker.Evaluate(rule.Path, subject(role), nil)
				if d.Outcome != rbac.OutcomeRedirect || d.Target != "/" || d.Reason != rbac.ReasonRoleMismatch {
					t.Errorf("role %q on %s: got %+v", role, rule.Path, d)
				}
			}
		})
	}
}

func TestEvaluatePublicRoutesIgnoreSession(t *testing.T) {
	checker := newChecker(t)
	subjects := []*rbac.AuthSubject{nil, subject(presets.RoleAdmin), subject(presets.RoleTechnician), subject("GUEST")}
	resolveErrs := []error{nil, errors.New("store down"), context.Canceled}

	for _, rule := range checker.Rules() {
		if !rule.Public() {
			continue
		}
		for _, s := range subjects {
			for _, resolveErr := range resolveErrs {
				d := checker.Evaluate(rule.Path, s, resolveErr)
				if !d.Allowed() || d.Reason != rbac.ReasonPublic {
					t.Errorf("public route %s should allow, got %+v", rule.Path, d)
				}
			}
		}
	}
}

func TestEvaluateNoRoleHierarchy(t *testing.T) {
	checker := newChecker(t)

	d := checker.Evaluate(presets.PathJobs, subject(presets.RoleAdmin), nil)
	if d.Allowed() {
		t.Fatal("ADMIN must not satisfy a TECHNICIAN-only route")
	}
	if d.Reason != rbac.ReasonRoleMismatch {
		t.Errorf("expected role mismatch, got %s", d.Reason)
	}
}

func TestEvaluateResolutionErrorRedirects(t *testing.T) {
	checker := newChecker(t)

	d := checker.Evaluate(presets.PathWallet, subject(presets.RoleTechnician), fmt.Errorf("verify: %w", errors.New("bad signature")))
	if d.Outcome != rbac.OutcomeRedirect || d.Target != "/" {
		t.Fatalf("resolution error should redirect to /, got %+v", d)
	}
	if d.Reason != rbac.ReasonResolutionError {
		t.Errorf("expected resolution_error reason, got %s", d.Reason)
	}
}

func TestEvaluateCanceled(t *testing.T) {
	checker := newChecker(t)

	for _, cause := range []error{context.Canceled, context.DeadlineExceeded} {
		d := checker.Evaluate(presets.PathWallet, nil, fmt.Errorf("resolve: %w", cause))
		if d.Outcome != rbac.OutcomeError {
			t.Fatalf("expected error outcome for %v, got %s", cause, d.Outcome)
		}
		if !errors.Is(d.Err, rbac.ErrCanceled) || !errors.Is(d.Err, cause) {
			t.Errorf("error should wrap ErrCanceled and %v, got %v", cause, d.Err)
		}
		if d.Target != "/" {
			t.Errorf("error decision should carry fallback, got %q", d.Target)
		}
	}
}

func TestEvaluateUnknownRoute(t *testing.T) {
	checker := newChecker(t)

	d := checker.Evaluate("/dashboard/secret", subject(presets.RoleTechnician), nil)
	if d.Allowed() {
		t.Fatal("unknown route must not be allowed")
	}
	if !errors.Is(d.Err, rbac.ErrUnknownRoute) {
		t.Errorf("expected ErrUnknownRoute, got %v", d.Err)
	}
}

func TestMustRule(t *testing.T) {
	checker := newChecker(t)

	if r := checker.MustRule(presets.PathWithdraw); r.Required != presets.RoleTechnician {
		t.Errorf("withdraw should require TECHNICIAN, got %q", r.Required)
	}

	defer func() {
		if recover() == nil {
			t.Fatal("MustRule should panic for an undeclared path")
		}
	}()
	checker.MustRule("/not-declared")
}

func TestValidateRole(t *testing.T) {
	checker := newChecker(t)

	tests := []struct {
		name      string
		role      string
		expected  rbac.Role
		shouldErr bool
	}{
		{"Valid admin", "ADMIN", presets.RoleAdmin, false},
		{"Valid technician", "TECHNICIAN", presets.RoleTechnician, false},
		{"Valid customer", "CUSTOMER", presets.RoleCustomer, false},
		{"Lowercase is not a role", "admin", "", true},
		{"Invalid role", "SUPERUSER", "", true},
		{"Empty role", "", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := checker.ValidateRole(tt.role)
			if tt.shouldErr {
				if !errors.Is(err, rbac.ErrInvalidRole) {
					t.Errorf("ValidateRole(%s) error should wrap ErrInvalidRole, got: %v", tt.role, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ValidateRole(%s) unexpected error: %v", tt.role, err)
			}
			if result != tt.expected {
				t.Errorf("ValidateRole(%s) = %s, expected %s", tt.role, result, tt.expected)
			}
		})
	}
}

func TestRulesSortedAndFallback(t *testing.T) {
	checker := newChecker(t)

	rules := checker.Rules()
	for i := 1; i < len(rules); i++ {
		if rules[i-1].Path >= rules[i].Path {
			t.Fatalf("rules not sorted at %d: %s >= %s", i, rules[i-1].Path, rules[i].Path)
		}
	}
	if checker.Fallback() != presets.PathHome {
		t.Errorf("fallback = %s, expected %s", checker.Fallback(), presets.PathHome)
	}
}
