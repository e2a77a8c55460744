package store

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/hvaldez/character-api/internal/hash"
	"github.com/hvaldez/character-api/internal/models"
)

var ErrUserExists = errors.New("user already exists")

// UserStore keeps user records in memory, keyed by email. All state is
// lost on restart.
type UserStore struct {
	mu    sync.RWMutex
	users map[string]models.User
}

func NewUserStore() *UserStore {
	return &UserStore{users: make(map[string]models.User)}
}

// Create hashes the password and stores the new record. An email that
// is already registered is rejected rather than overwritten.
func (s *UserStore) Create(email, password string, role models.Role) (models.User, error) {
	pwHash, err := hash.HashPassword(password)
	if err != nil {
		return models.User{}, fmt.Errorf("hash password: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[email]; ok {
		return models.User{}, ErrUserExists
	}

	user := models.User{
		ID:           time.Now().UnixMilli(),
		Email:        email,
		PasswordHash: pwHash,
		Role:         role,
	}
	s.users[email] = user
	return user, nil
}

func (s *UserStore) FindByEmail(email string) (models.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	user, ok := s.users[email]
	return user, ok
}

// ValidatePassword never compares raw strings; bcrypt does its own
// constant-structure comparison.
func (s *UserStore) ValidatePassword(user models.User, password string) bool {
	return hash.CheckPassword(user.PasswordHash, password)
}

func (s *UserStore) SetRefreshToken(email, token string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.users[email]
	if !ok {
		return false
	}
	user.RefreshToken = token
	s.users[email] = user
	return true
}

func (s *UserStore) ClearRefreshToken(email string) bool {
	return s.SetRefreshToken(email, "")
}
