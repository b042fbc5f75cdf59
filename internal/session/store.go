// Package session holds the persisted credential pair for the upstream
// platform. The store is injected into the API client so tests can swap in
// an in-memory implementation; nothing in the codebase touches token state
// through globals.
package session

import (
	"encoding/json"
	"os"
	"sync"
)

// Storage keys for the persisted pair. Fixed by the dashboard contract:
// both values are written and cleared together.
const (
	KeyAccessToken  = "venuedesk_access_token"
	KeyRefreshToken = "venuedesk_refresh_token"
)

// Tokens is the credential pair for the upstream platform. AccessToken
// empty means "not logged in"; RefreshToken may be empty on backends that
// do not issue one.
type Tokens struct {
	AccessToken  string
	RefreshToken string
}

// TokenStore persists the credential pair across requests.
// Implementations must be safe for concurrent use.
type TokenStore interface {
	Get() Tokens
	Set(t Tokens)
	Clear()
}

// ============================================================
// In-memory store
// ============================================================

// MemoryStore keeps tokens in process memory. Used in tests and whenever
// persistence across restarts is not wanted.
type MemoryStore struct {
	mu sync.RWMutex
	t  Tokens
}

// NewMemoryStore creates an empty in-memory token store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Get() Tokens {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.t
}

func (s *MemoryStore) Set(t Tokens) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.t = t
}

func (s *MemoryStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.t = Tokens{}
}

// ============================================================
// File-backed store
// ============================================================

// FileStore persists tokens as a small JSON document under the two fixed
// storage keys, surviving process restarts. Writes are atomic from the
// caller's perspective: the pair is always written and cleared together.
type FileStore struct {
	mu   sync.RWMutex
	path string
	t    Tokens
}

// NewFileStore loads (or initializes) a file-backed token store at path.
// A missing or unreadable file starts the store empty rather than failing;
// stale credentials are recoverable via a fresh login.
func NewFileStore(path string) *FileStore {
	s := &FileStore{path: path}
	if raw, err := os.ReadFile(path); err == nil {
		var doc map[string]string
		if err := json.Unmarshal(raw, &doc); err == nil {
			s.t = Tokens{
				AccessToken:  doc[KeyAccessToken],
				RefreshToken: doc[KeyRefreshToken],
			}
		}
	}
	return s
}

func (s *FileStore) Get() Tokens {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.t
}

func (s *FileStore) Set(t Tokens) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.t = t
	s.flush()
}

func (s *FileStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.t = Tokens{}
	_ = os.Remove(s.path)
}

// flush writes the current pair to disk. Called with the lock held.
func (s *FileStore) flush() {
	doc := map[string]string{
		KeyAccessToken:  s.t.AccessToken,
		KeyRefreshToken: s.t.RefreshToken,
	}
	raw, err := json.Marshal(doc)
	if err != nil {
		return
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, raw, 0o600); err != nil {
		return
	}
	_ = os.Rename(tmp, s.path)
}
