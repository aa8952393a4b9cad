// Package memory keeps documents and users in process memory. It backs the
// development server and the integration tests.
package memory

import (
	"context"
	"strings"
	"sync"
	"time"

	"lawfirm-cms/internal/repository"
	apperrors "lawfirm-cms/pkg/errors"

	"github.com/google/uuid"
)

const (
	errDocumentNotFound = "document not found"
	errUserNotFound     = "user not found"
)

type Store struct {
	mu        sync.RWMutex
	documents map[string][]*repository.Document
	users     map[string]*repository.User
	now       func() time.Time
}

func New() *Store {
	return &Store{
		documents: map[string][]*repository.Document{},
		users:     map[string]*repository.User{},
		now:       time.Now,
	}
}

func (s *Store) List(ctx context.Context, resource string) ([]*repository.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	docs := s.documents[resource]
	out := make([]*repository.Document, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.Clone())
	}
	return out, nil
}

func (s *Store) Get(ctx context.Context, resource, id string) (*repository.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if i := s.indexOf(resource, id); i >= 0 {
		return s.documents[resource][i].Clone(), nil
	}
	return nil, apperrors.NotFound(errDocumentNotFound)
}

func (s *Store) Create(ctx context.Context, resource string, fields map[string]any) (*repository.Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now().UTC()
	doc := &repository.Document{
		ID:        repository.NewID(),
		Resource:  resource,
		Fields:    map[string]any{},
		CreatedAt: now,
		UpdatedAt: now,
	}
	repository.MergeFields(doc.Fields, fields)
	s.documents[resource] = append(s.documents[resource], doc)
	return doc.Clone(), nil
}

func (s *Store) Update(ctx context.Context, resource, id string, fields map[string]any) (*repository.Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexOf(resource, id)
	if i < 0 {
		return nil, apperrors.NotFound(errDocumentNotFound)
	}
	doc := s.documents[resource][i].Clone()
	repository.MergeFields(doc.Fields, fields)
	doc.UpdatedAt = s.now().UTC()
	s.documents[resource][i] = doc
	return doc.Clone(), nil
}

func (s *Store) Delete(ctx context.Context, resource, id string) (*repository.Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexOf(resource, id)
	if i < 0 {
		return nil, apperrors.NotFound(errDocumentNotFound)
	}
	docs := s.documents[resource]
	doc := docs[i]
	s.documents[resource] = append(docs[:i:i], docs[i+1:]...)
	return doc, nil
}

func (s *Store) indexOf(resource, id string) int {
	for i, d := range s.documents[resource] {
		if d.ID == id {
			return i
		}
	}
	return -1
}

// Users returns the user half of the store.
func (s *Store) Users() *Users {
	return &Users{store: s}
}

type Users struct {
	store *Store
}

func (u *Users) Create(ctx context.Context, email, passwordHash string) (*repository.User, error) {
	s := u.store
	s.mu.Lock()
	defer s.mu.Unlock()
	key := strings.ToLower(email)
	if _, exists := s.users[key]; exists {
		return nil, apperrors.ErrEmailExists
	}
	user := &repository.User{
		ID:           uuid.New(),
		Email:        email,
		PasswordHash: passwordHash,
		CreatedAt:    s.now().UTC(),
	}
	s.users[key] = user
	copied := *user
	return &copied, nil
}

func (u *Users) GetByEmail(ctx context.Context, email string) (*repository.User, error) {
	s := u.store
	s.mu.RLock()
	defer s.mu.RUnlock()
	user, ok := s.users[strings.ToLower(email)]
	if !ok {
		return nil, apperrors.NotFound(errUserNotFound)
	}
	copied := *user
	return &copied, nil
}

func (u *Users) Count(ctx context.Context) (int, error) {
	s := u.store
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.users), nil
}
