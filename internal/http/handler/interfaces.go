package handler

import (
	"context"

	"lawfirm-cms/internal/audit"
	"lawfirm-cms/internal/repository"
	"lawfirm-cms/internal/storage"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// Consumer-side interfaces defined by handlers
// Each interface contains only the methods needed by the specific handler

// AuthHandler interfaces
type UserRepository interface {
	GetByEmail(ctx context.Context, email string) (*repository.User, error)
	Create(ctx context.Context, email, passwordHash string) (*repository.User, error)
}

type TokenGenerator interface {
	Generate(userID uuid.UUID, email string) (string, error)
}

type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(password, hash string) bool
	Burn(password string)
}

// ResourceHandler interfaces
type DocumentStore interface {
	List(ctx context.Context, resource string) ([]*repository.Document, error)
	Get(ctx context.Context, resource, id string) (*repository.Document, error)
	Create(ctx context.Context, resource string, fields map[string]any) (*repository.Document, error)
	Update(ctx context.Context, resource, id string, fields map[string]any) (*repository.Document, error)
	Delete(ctx context.Context, resource, id string) (*repository.Document, error)
}

type ImageStore interface {
	Put(ctx context.Context, filename, contentType string, data []byte) (storage.Object, error)
	Delete(ctx context.Context, publicID string) error
}

// MutationRecorder counts successful writes per resource.
type MutationRecorder interface {
	RecordMutation(resource, op string)
}

type noopRecorder struct{}

func (noopRecorder) RecordMutation(string, string) {}

// AuditRecorder writes the activity log without blocking the request.
type AuditRecorder interface {
	Record(c echo.Context, resource, entityID string, action audit.Action, err error)
}

// AuditReader backs the activity log route.
type AuditReader interface {
	Query(ctx context.Context, filter audit.QueryFilter) ([]*audit.Event, error)
}

type noopAudit struct{}

func (noopAudit) Record(echo.Context, string, string, audit.Action, error) {}

// InquiryNotifier is told about every stored visitor submission.
type InquiryNotifier interface {
	InquiryReceived(resource, id string, fields map[string]any)
}

type noopNotifier struct{}

func (noopNotifier) InquiryReceived(string, string, map[string]any) {}
