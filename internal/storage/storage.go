// Package storage holds uploaded images for the reference backend.
package storage

import (
	"context"
	"errors"
	"path"
	"strings"

	"lawfirm-cms/pkg/validator"

	"github.com/google/uuid"
)

const imagePrefix = "images"

var ErrObjectNotFound = errors.New("object not found")

// Object is what a stored upload is known by: a public URL and an opaque id
// used to delete it later.
type Object struct {
	URL      string `json:"url"`
	PublicID string `json:"public_id"`
}

type ImageStore interface {
	Put(ctx context.Context, filename, contentType string, data []byte) (Object, error)
	Delete(ctx context.Context, publicID string) error
}

// ObjectKey builds a collision-free key that keeps the original file name readable.
func ObjectKey(filename string) string {
	return path.Join(imagePrefix, uuid.NewString()+"-"+validator.SafeFileName(filename))
}

// JoinURL appends key to base with exactly one slash between them.
func JoinURL(base, key string) string {
	return strings.TrimRight(base, "/") + "/" + strings.TrimLeft(key, "/")
}
