// Package memory is an in-process image store that serves its own objects
// over HTTP. It backs the development server and tests.
package memory

import (
	"context"
	"net/http"
	"strings"
	"sync"

	"lawfirm-cms/internal/storage"

	"github.com/labstack/echo/v4"
)

// RoutePrefix is where Handler expects to be mounted.
const RoutePrefix = "/uploads/"

type object struct {
	contentType string
	data        []byte
}

type Store struct {
	baseURL string

	mu      sync.RWMutex
	objects map[string]object
}

// New returns a store whose URLs point at baseURL + RoutePrefix.
func New(baseURL string) *Store {
	return &Store{baseURL: baseURL, objects: map[string]object{}}
}

func (s *Store) Put(ctx context.Context, filename, contentType string, data []byte) (storage.Object, error) {
	key := storage.ObjectKey(filename)
	copied := append([]byte(nil), data...)

	s.mu.Lock()
	s.objects[key] = object{contentType: contentType, data: copied}
	s.mu.Unlock()

	return storage.Object{URL: storage.JoinURL(s.baseURL, RoutePrefix+key), PublicID: key}, nil
}

func (s *Store) Delete(ctx context.Context, publicID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.objects[publicID]; !ok {
		return storage.ErrObjectNotFound
	}
	delete(s.objects, publicID)
	return nil
}

// Len reports how many objects are stored.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.objects)
}

// Handler serves GET RoutePrefix + key.
func (s *Store) Handler(c echo.Context) error {
	key := strings.TrimPrefix(c.Request().URL.Path, RoutePrefix)

	s.mu.RLock()
	obj, ok := s.objects[key]
	s.mu.RUnlock()

	if !ok {
		return echo.NewHTTPError(http.StatusNotFound)
	}
	return c.Blob(http.StatusOK, obj.contentType, obj.data)
}
