package repository

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

const (
	KeyID        = "_id"
	KeyCreatedAt = "createdAt"
	KeyUpdatedAt = "updatedAt"
)

// Document is one stored entity of any resource. Fields holds the
// resource-specific values; identity and timestamps live beside them.
type Document struct {
	ID        string
	Resource  string
	Fields    map[string]any
	CreatedAt time.Time
	UpdatedAt time.Time
}

// MarshalJSON flattens the document into the wire shape clients expect:
// its fields plus _id, createdAt and updatedAt.
func (d *Document) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(d.Fields)+3)
	for k, v := range d.Fields {
		out[k] = v
	}
	out[KeyID] = d.ID
	out[KeyCreatedAt] = d.CreatedAt
	out[KeyUpdatedAt] = d.UpdatedAt
	return json.Marshal(out)
}

// Clone copies the field map one level deep.
func (d *Document) Clone() *Document {
	c := *d
	c.Fields = make(map[string]any, len(d.Fields))
	for k, v := range d.Fields {
		c.Fields[k] = v
	}
	return &c
}

// NewID returns a fresh document identifier.
func NewID() string {
	return uuid.NewString()
}

type User struct {
	ID           uuid.UUID
	Email        string
	PasswordHash string
	CreatedAt    time.Time
}

// DocumentRepository stores entities of every resource, keyed by resource name.
// List returns documents in creation order.
type DocumentRepository interface {
	List(ctx context.Context, resource string) ([]*Document, error)
	Get(ctx context.Context, resource, id string) (*Document, error)
	Create(ctx context.Context, resource string, fields map[string]any) (*Document, error)
	// Update merges fields into the stored document; a nil value removes the key.
	Update(ctx context.Context, resource, id string, fields map[string]any) (*Document, error)
	// Delete removes the document and returns what was stored.
	Delete(ctx context.Context, resource, id string) (*Document, error)
}

type UserRepository interface {
	Create(ctx context.Context, email, passwordHash string) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	Count(ctx context.Context) (int, error)
}

// MergeFields applies an update patch to base in place.
func MergeFields(base, patch map[string]any) {
	for k, v := range patch {
		if v == nil {
			delete(base, k)
			continue
		}
		base[k] = v
	}
}
