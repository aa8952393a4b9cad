// Package audit keeps the activity log: who changed which content and who
// signed in, successfully or not.
package audit

import (
	"context"
	"sync"
	"time"

	"lawfirm-cms/internal/auth"
	"lawfirm-cms/pkg/logger"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
)

// Action represents the action being performed
type Action string

const (
	ActionCreate Action = "create"
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
	ActionLogin  Action = "login"
	ActionSignup Action = "signup"
)

// Status represents the outcome of an action
type Status string

const (
	StatusSuccess Status = "success"
	StatusFailure Status = "failure"
)

const (
	defaultQueryLimit = 100
	maxQueryLimit     = 500
	writeTimeout      = 2 * time.Second
)

// Event is one activity log entry. Resource is the CMS resource path, or
// "user" for account events.
type Event struct {
	ID           uuid.UUID      `json:"_id"`
	ActorID      *uuid.UUID     `json:"actorId,omitempty"`
	Resource     string         `json:"resource"`
	EntityID     string         `json:"entityId,omitempty"`
	Action       Action         `json:"action"`
	Status       Status         `json:"status"`
	IPAddress    string         `json:"ipAddress,omitempty"`
	UserAgent    string         `json:"userAgent,omitempty"`
	RequestID    string         `json:"requestId,omitempty"`
	Metadata     map[string]any `json:"metadata,omitempty"`
	ErrorMessage string         `json:"error,omitempty"`
	CreatedAt    time.Time      `json:"createdAt"`
}

// QueryFilter narrows Query. Zero fields match everything.
type QueryFilter struct {
	ActorID   *uuid.UUID
	Resource  string
	EntityID  string
	Action    Action
	Status    Status
	StartTime *time.Time
	EndTime   *time.Time
	Limit     int
	Offset    int
}

// limit clamps Limit to (0, maxQueryLimit], defaulting to defaultQueryLimit.
func (f QueryFilter) limit() int {
	switch {
	case f.Limit <= 0:
		return defaultQueryLimit
	case f.Limit > maxQueryLimit:
		return maxQueryLimit
	default:
		return f.Limit
	}
}

// Store persists events. Query returns newest first.
type Store interface {
	Insert(ctx context.Context, event *Event) error
	Query(ctx context.Context, filter QueryFilter) ([]*Event, error)
}

// Logger handles audit logging
type Logger struct {
	store Store
	log   logrus.FieldLogger
	wg    sync.WaitGroup
}

func NewLogger(store Store, log logrus.FieldLogger) *Logger {
	if log == nil {
		log = logger.Logger
	}
	return &Logger{store: store, log: log}
}

// Log records an audit event
func (l *Logger) Log(ctx context.Context, event *Event) error {
	if event.ID == uuid.Nil {
		event.ID = uuid.New()
	}
	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now().UTC()
	}
	return l.store.Insert(ctx, event)
}

// Record builds an event from the request and stores it in the background so
// the response is never held up by the log. A non-nil err marks the event
// failed.
func (l *Logger) Record(c echo.Context, resource, entityID string, action Action, err error) {
	event := &Event{
		ID:        uuid.New(),
		Resource:  resource,
		EntityID:  entityID,
		Action:    action,
		Status:    StatusSuccess,
		IPAddress: c.RealIP(),
		UserAgent: c.Request().UserAgent(),
		RequestID: c.Response().Header().Get(echo.HeaderXRequestID),
		CreatedAt: time.Now().UTC(),
	}
	if userID, uerr := auth.GetUserID(c); uerr == nil {
		event.ActorID = &userID
	}
	if err != nil {
		event.Status = StatusFailure
		event.ErrorMessage = err.Error()
	}

	l.wg.Add(1)
	go func() {
		defer l.wg.Done()
		ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
		defer cancel()
		if err := l.Log(ctx, event); err != nil {
			l.log.WithError(err).WithFields(logrus.Fields{
				"resource": resource,
				"action":   action,
			}).Warn("audit log failed")
		}
	}()
}

func (l *Logger) Query(ctx context.Context, filter QueryFilter) ([]*Event, error) {
	return l.store.Query(ctx, filter)
}

// Wait blocks until every background write has finished.
func (l *Logger) Wait() {
	l.wg.Wait()
}
