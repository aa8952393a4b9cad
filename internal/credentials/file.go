package credentials

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

type fileContents struct {
	Token   string    `json:"token"`
	SavedAt time.Time `json:"saved_at"`
}

// FileStore persists the token to a JSON file so separate CLI invocations
// share one login. The file is re-read on every Token call so a logout from
// another process is visible to the next request.
type FileStore struct {
	path   string
	mu     sync.Mutex
	memory *MemoryStore
}

func NewFileStore(path string) *FileStore {
	return &FileStore{path: path, memory: NewMemoryStore()}
}

func (s *FileStore) Path() string {
	return s.path
}

func (s *FileStore) Token() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	contents, err := s.read()
	if err != nil {
		return "", false
	}
	token := strings.TrimSpace(contents.Token)
	return token, token != ""
}

func (s *FileStore) Set(token string) error {
	token = strings.TrimSpace(token)
	if token == "" {
		return errEmptyToken
	}

	s.mu.Lock()
	err := s.write(fileContents{Token: token, SavedAt: time.Now().UTC()})
	s.mu.Unlock()
	if err != nil {
		return err
	}

	return s.memory.Set(token)
}

func (s *FileStore) Clear() error {
	s.mu.Lock()
	err := os.Remove(s.path)
	s.mu.Unlock()
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf(errRemoveCredentialsFmt, err)
	}

	return s.memory.Clear()
}

func (s *FileStore) Subscribe(fn func(token string)) func() {
	return s.memory.Subscribe(fn)
}

func (s *FileStore) read() (fileContents, error) {
	var contents fileContents

	data, err := os.ReadFile(s.path)
	if err != nil {
		return contents, fmt.Errorf(errReadCredentialsFmt, err)
	}

	if err := json.Unmarshal(data, &contents); err != nil {
		return contents, fmt.Errorf(errDecodeCredentialsFmt, err)
	}

	return contents, nil
}

func (s *FileStore) write(contents fileContents) error {
	if err := os.MkdirAll(filepath.Dir(s.path), credentialsDirMode); err != nil {
		return fmt.Errorf(errWriteCredentialsFmt, err)
	}

	data, err := json.MarshalIndent(contents, "", "  ")
	if err != nil {
		return fmt.Errorf(errWriteCredentialsFmt, err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, credentialsFileMode); err != nil {
		return fmt.Errorf(errWriteCredentialsFmt, err)
	}

	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf(errWriteCredentialsFmt, err)
	}

	return nil
}
