package rbac

// Role is the closed set of account roles carried by a session.
type Role string

// RoleNone marks a route that anyone may view.
const RoleNone Role = ""

// RoleDefinition declares a role known to the policy.
type RoleDefinition struct {
	Name        Role
	Description string
}

// Rule binds a route path to the single role allowed to view it.
type Rule struct {
	Path     string
	Title    string
	Required Role
}

// Public reports whether the rule has no role requirement.
func (r Rule) Public() bool {
	return r.Required == RoleNone
}

// AuthSubject is the resolved identity a decision is made for.
// A nil subject means no session.
type AuthSubject struct {
	UserID string
	Role   Role
}

// Outcome is the kind of a guard decision.
type Outcome int

const (
	OutcomeAllow Outcome = iota
	OutcomeRedirect
	OutcomeError
)

func (o Outcome) String() string {
	switch o {
	case OutcomeAllow:
		return "allow"
	case OutcomeRedirect:
		return "redirect"
	case OutcomeError:
		return "error"
	default:
		return "unknown"
	}
}

// Reason records why a decision was reached. It is for logs and metrics
// only and never shown to the visitor.
type Reason string

const (
	ReasonPublic          Reason = "public"
	ReasonRoleMatched     Reason = "role_matched"
	ReasonNoSession       Reason = "no_session"
	ReasonRoleMismatch    Reason = "role_mismatch"
	ReasonResolutionError Reason = "resolution_error"
	ReasonCanceled        Reason = "canceled"
	ReasonUnknownRoute    Reason = "unknown_route"
)

// Decision is the result of evaluating a route against a subject.
// Target is set for redirects and for errors, where it names the page the
// visitor is sent to instead of any content.
type Decision struct {
	Outcome Outcome
	Target  string
	Reason  Reason
	Err     error
}

// Allowed reports whether the route's content may be produced.
func (d Decision) Allowed() bool {
	return d.Outcome == OutcomeAllow
}

func allow(reason Reason) Decision {
	return Decision{Outcome: OutcomeAllow, Reason: reason}
}

func redirect(target string, reason Reason) Decision {
	return Decision{Outcome: OutcomeRedirect, Target: target, Reason: reason}
}

func fail(target string, reason Reason, err error) Decision {
	return Decision{Outcome: OutcomeError, Target: target, Reason: reason, Err: err}
}
