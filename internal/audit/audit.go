package audit

import (
	"time"

	"marketplace-web/pkg/logger"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// ActorType is who performed an action.
type ActorType string

const (
	ActorTypeUser     ActorType = "user"
	ActorTypeOperator ActorType = "operator"
	ActorTypeSystem   ActorType = "system"
)

type Action string

const (
	ActionIssue   Action = "issue"
	ActionRevoke  Action = "revoke"
	ActionSignOut Action = "sign_out"
)

type Status string

const (
	StatusSuccess Status = "success"
	StatusFailure Status = "failure"
)

const resourceSession = "session"

// Event is one session lifecycle audit record.
type Event struct {
	ID           string
	ActorType    ActorType
	ActorID      string
	SessionID    string
	Action       Action
	Status       Status
	IPAddress    string
	UserAgent    string
	RequestID    string
	Metadata     map[string]any
	ErrorMessage string
	CreatedAt    time.Time
}

// Logger writes audit events to a dedicated zap logger named "audit", so
// they can be routed separately from request logs.
type Logger struct {
	log *zap.Logger
}

func NewLogger(log *zap.Logger) *Logger {
	if log == nil {
		log = zap.NewNop()
	}
	return &Logger{log: log.Named("audit")}
}

// Log records event. Metadata is sanitized before it is written.
func (l *Logger) Log(event *Event) {
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now()
	}

	fields := []zap.Field{
		zap.String("event_id", event.ID),
		zap.String("resource", resourceSession),
		zap.String("action", string(event.Action)),
		zap.String("status", string(event.Status)),
		zap.String("actor_type", string(event.ActorType)),
		zap.String("actor_id", event.ActorID),
		zap.String("session_id", event.SessionID),
		zap.Time("created_at", event.CreatedAt),
	}
	if event.IPAddress != "" {
		fields = append(fields, zap.String("ip", event.IPAddress))
	}
	if event.UserAgent != "" {
		fields = append(fields, zap.String("user_agent", event.UserAgent))
	}
	if event.RequestID != "" {
		fields = append(fields, zap.String("request_id", event.RequestID))
	}
	if len(event.Metadata) > 0 {
		fields = append(fields, zap.Any("metadata", logger.SanitizeMap(event.Metadata)))
	}

	if event.Status == StatusFailure {
		fields = append(fields, zap.String("error", logger.SanitizeLogMessage(event.ErrorMessage)))
		l.log.Warn("audit", fields...)
		return
	}
	l.log.Info("audit", fields...)
}

// LogFromContext records an action taken by the signed-in user of c.
func (l *Logger) LogFromContext(c echo.Context, userID, sessionID string, action Action, err error) {
	event := &Event{
		ActorType: ActorTypeUser,
		ActorID:   userID,
		SessionID: sessionID,
		Action:    action,
		Status:    StatusSuccess,
		IPAddress: c.RealIP(),
		UserAgent: c.Request().UserAgent(),
		RequestID: c.Response().Header().Get(echo.HeaderXRequestID),
	}
	if userID == "" {
		event.ActorType = ActorTypeSystem
	}
	if err != nil {
		event.Status = StatusFailure
		event.ErrorMessage = err.Error()
	}
	l.Log(event)
}

// LogOperator records an action taken from the command line.
func (l *Logger) LogOperator(subjectID, sessionID string, action Action, metadata map[string]any, err error) {
	event := &Event{
		ActorType: ActorTypeOperator,
		ActorID:   subjectID,
		SessionID: sessionID,
		Action:    action,
		Status:    StatusSuccess,
		Metadata:  metadata,
	}
	if err != nil {
		event.Status = StatusFailure
		event.ErrorMessage = err.Error()
	}
	l.Log(event)
}
