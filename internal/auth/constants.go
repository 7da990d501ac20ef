package auth

const (
	ContextKeySession = "session"
	ContextKeyRule    = "route_rule"

	contextKeyResolution = "session_resolution"

	logFieldPath      = "path"
	logFieldOutcome   = "outcome"
	logFieldReason    = "reason"
	logFieldTarget    = "target"
	logFieldUserID    = "user_id"
	logFieldRole      = "role"
	logFieldRequestID = "request_id"
)

const (
	msgGuardDenied          = "route guard denied request"
	msgGuardAborted         = "route guard aborted request"
	msgSessionResolveFailed = "session resolution failed"
)
