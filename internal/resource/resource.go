package resource

import (
	"context"
	"net/http"
)

// Binding declares how one backend resource is addressed.
type Binding struct {
	// Path is the URL segment under /api/v1, e.g. "services".
	Path string
	// ReadAccess governs List and Get. Mutations always require a token.
	ReadAccess Access
	// UpdateMethod is PATCH unless the backend expects PUT for this resource.
	UpdateMethod string
}

func (b Binding) updateMethod() string {
	if b.UpdateMethod == "" {
		return http.MethodPatch
	}
	return b.UpdateMethod
}

// Entity is any backend record addressable by its server-assigned id.
type Entity interface {
	EntityID() string
}

// Resource is a typed view of one backend resource.
type Resource[T any] struct {
	client  *Client
	binding Binding
}

func NewResource[T any](client *Client, binding Binding) *Resource[T] {
	return &Resource[T]{client: client, binding: binding}
}

func (r *Resource[T]) Binding() Binding {
	return r.binding
}

// List returns the collection in server order. A missing or null data field
// yields an empty, non-nil slice.
func (r *Resource[T]) List(ctx context.Context) ([]T, error) {
	items := []T{}
	if err := r.client.List(ctx, r.binding.Path, r.binding.ReadAccess, &items); err != nil {
		return nil, err
	}
	if items == nil {
		items = []T{}
	}
	return items, nil
}

func (r *Resource[T]) Get(ctx context.Context, id string) (T, error) {
	var entity T
	err := r.client.Get(ctx, r.binding.Path, id, r.binding.ReadAccess, &entity)
	return entity, err
}

// Create returns the backend's authoritative entity, including its new id.
func (r *Resource[T]) Create(ctx context.Context, fields Fields, file *Upload) (T, error) {
	var entity T
	_, err := r.client.Create(ctx, r.binding.Path, AccessRequired, fields, file, &entity)
	return entity, err
}

// Submit is the public (token optional) variant of Create used by site forms.
func (r *Resource[T]) Submit(ctx context.Context, fields Fields) (T, error) {
	var entity T
	_, err := r.client.Create(ctx, r.binding.Path, AccessPublic, fields, nil, &entity)
	return entity, err
}

func (r *Resource[T]) Update(ctx context.Context, id string, fields Fields, file *Upload) (T, error) {
	var entity T
	_, err := r.client.Update(ctx, r.binding.Path, id, r.binding.updateMethod(), fields, file, &entity)
	return entity, err
}

func (r *Resource[T]) Remove(ctx context.Context, id string) error {
	_, err := r.client.Remove(ctx, r.binding.Path, id)
	return err
}

// Document is an untyped entity for callers that treat records opaquely.
type Document map[string]any

// EntityID returns the backend identifier (_id, falling back to id).
func (d Document) EntityID() string {
	for _, key := range []string{"_id", "id"} {
		if v, ok := d[key].(string); ok && v != "" {
			return v
		}
	}
	return ""
}
