package auth

import (
	"context"
	"net/http"

	"marketplace-web/internal/rbac"
	"marketplace-web/internal/session"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// SessionResolver is satisfied by *session.Resolver.
type SessionResolver interface {
	Resolve(ctx context.Context, req *http.Request) (*session.Session, error)
}

// DecisionRecorder receives every guard decision. *metrics.Metrics
// satisfies it.
type DecisionRecorder interface {
	RecordDecision(path string, d rbac.Decision)
}

type Guard struct {
	checker  *rbac.Checker
	resolver SessionResolver
	recorder DecisionRecorder
	logger   *zap.Logger
}

func NewGuard(checker *rbac.Checker, resolver SessionResolver, recorder DecisionRecorder, logger *zap.Logger) *Guard {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Guard{
		checker:  checker,
		resolver: resolver,
		recorder: recorder,
		logger:   logger,
	}
}

// Require guards the route registered at path. The policy is looked up once
// here, so registering a path with no policy panics at startup.
//
// The session is resolved before the decision and the wrapped handler only
// runs on Allow. Every other outcome redirects to the policy fallback
// without producing content.
func (g *Guard) Require(path string) echo.MiddlewareFunc {
	rule := g.checker.MustRule(path)

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ctx := c.Request().Context()

			sess, err := g.resolve(c)
			if err == nil && ctx.Err() != nil {
				err = ctx.Err()
			}
			if err != nil {
				// Attach may have exposed the session before the failure.
				sess = nil
				c.Set(ContextKeySession, nil)
			}

			var subject *rbac.AuthSubject
			if sess != nil {
				subject = &rbac.AuthSubject{UserID: sess.UserID, Role: rbac.Role(sess.Role)}
			}

			decision := g.checker.Evaluate(rule.Path, subject, err)
			if g.recorder != nil {
				g.recorder.RecordDecision(rule.Path, decision)
			}

			if !decision.Allowed() {
				g.logDenied(c, rule, subject, decision)
				return c.Redirect(http.StatusSeeOther, decision.Target)
			}

			if sess != nil {
				c.Set(ContextKeySession, sess)
			}
			c.Set(ContextKeyRule, rule)

			return next(c)
		}
	}
}

// Attach resolves the session ahead of everything that keys on the visitor,
// such as rate limiting. It never blocks; a resolution failure leaves the
// visitor anonymous. Require reuses the result instead of resolving again.
func (g *Guard) Attach() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if sess, err := g.resolve(c); err == nil && sess != nil {
				c.Set(ContextKeySession, sess)
			}
			return next(c)
		}
	}
}

// resolution is one session lookup, kept on the request context.
type resolution struct {
	sess *session.Session
	err  error
}

// resolve looks the session up at most once per request.
func (g *Guard) resolve(c echo.Context) (*session.Session, error) {
	if cached, ok := c.Get(contextKeyResolution).(resolution); ok {
		return cached.sess, cached.err
	}

	sess, err := g.resolver.Resolve(c.Request().Context(), c.Request())
	if err != nil {
		g.logger.Warn(msgSessionResolveFailed,
			zap.String(logFieldPath, c.Request().URL.Path),
			zap.String(logFieldRequestID, requestID(c)),
			zap.Error(err))
	}
	c.Set(contextKeyResolution, resolution{sess: sess, err: err})
	return sess, err
}

func (g *Guard) logDenied(c echo.Context, rule rbac.Rule, subject *rbac.AuthSubject, d rbac.Decision) {
	fields := []zap.Field{
		zap.String(logFieldPath, rule.Path),
		zap.String(logFieldOutcome, d.Outcome.String()),
		zap.String(logFieldReason, string(d.Reason)),
		zap.String(logFieldTarget, d.Target),
		zap.String(logFieldRequestID, requestID(c)),
	}
	if subject != nil {
		fields = append(fields, zap.String(logFieldUserID, subject.UserID), zap.String(logFieldRole, string(subject.Role)))
	}

	if d.Outcome == rbac.OutcomeError {
		g.logger.Info(msgGuardAborted, append(fields, zap.Error(d.Err))...)
		return
	}
	g.logger.Debug(msgGuardDenied, fields...)
}

func requestID(c echo.Context) string {
	return c.Response().Header().Get(echo.HeaderXRequestID)
}

// GetSession returns the session the guard resolved for this request, if
// the visitor is signed in.
func GetSession(c echo.Context) (*session.Session, bool) {
	sess, ok := c.Get(ContextKeySession).(*session.Session)
	return sess, ok && sess != nil
}

// GetRule returns the route policy the guard applied.
func GetRule(c echo.Context) (rbac.Rule, bool) {
	rule, ok := c.Get(ContextKeyRule).(rbac.Rule)
	return rule, ok
}
