package memory

import (
	"context"
	"sync"

	"github.com/akazantsev/imgpatch/internal/models"
	"github.com/akazantsev/imgpatch/internal/storage"
)

// UserStore keeps users in a map. It backs tests and the seeded dev
// mode when no database is configured.
type UserStore struct {
	mu     sync.RWMutex
	nextID int64
	users  map[string]models.User
}

func NewUserStore() *UserStore {
	return &UserStore{
		nextID: 1,
		users:  make(map[string]models.User),
	}
}

func (s *UserStore) UserByUsername(_ context.Context, username string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[username]
	if !ok {
		return nil, storage.ErrUserNotFound
	}
	return &u, nil
}

func (s *UserStore) SaveUser(_ context.Context, username, passwordHash string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[username]
	if !ok {
		u = models.User{ID: s.nextID, Username: username}
		s.nextID++
	}
	u.PasswordHash = passwordHash
	s.users[username] = u
	return &u, nil
}
