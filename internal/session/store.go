package session

import (
	"encoding/json"
	"errors"
	"os"
	"sync"

	"github.com/upstic/admin-console/internal/model"
)

// Store persists the session between runs. It is the only place tokens are
// read or written; services and orchestrators go through the Manager.
type Store interface {
	Load() (*model.Session, error)
	Save(*model.Session) error
	Clear() error
}

// MemoryStore keeps the session in memory only.
type MemoryStore struct {
	mu      sync.RWMutex
	session *model.Session
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Load() (*model.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.session == nil {
		return nil, nil
	}
	copied := *s.session
	return &copied, nil
}

func (s *MemoryStore) Save(sess *model.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	copied := *sess
	s.session = &copied
	return nil
}

func (s *MemoryStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.session = nil
	return nil
}

// FileStore persists the session as a JSON file, the console's stand-in for
// browser session storage. Concurrent processes are last-writer-wins.
type FileStore struct {
	mu   sync.Mutex
	path string
}

func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

func (s *FileStore) Load() (*model.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	raw, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}

	var sess model.Session
	if err := json.Unmarshal(raw, &sess); err != nil {
		// corrupt session file is treated as no session
		return nil, nil
	}
	return &sess, nil
}

func (s *FileStore) Save(sess *model.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	raw, err := json.Marshal(sess)
	if err != nil {
		return err
	}
	return os.WriteFile(s.path, raw, 0o600)
}

func (s *FileStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}
