package store

import (
	"sync"
	"time"

	"github.com/hvaldez/character-api/internal/models"
)

// CharacterStore keeps character records in memory, keyed by id.
type CharacterStore struct {
	mu     sync.RWMutex
	chars  map[int64]models.Character
	lastID int64
}

func NewCharacterStore() *CharacterStore {
	return &CharacterStore{chars: make(map[int64]models.Character)}
}

// nextID hands out timestamp-shaped ids that are strictly increasing
// even when the clock has not advanced between creates. Callers must
// hold the write lock.
func (s *CharacterStore) nextID() int64 {
	id := time.Now().UnixMilli()
	if id <= s.lastID {
		id = s.lastID + 1
	}
	s.lastID = id
	return id
}

func (s *CharacterStore) Create(input models.CharacterInput) models.Character {
	s.mu.Lock()
	defer s.mu.Unlock()

	ch := models.Character{
		ID:       s.nextID(),
		Name:     input.Name,
		LastName: input.LastName,
	}
	s.chars[ch.ID] = ch
	return ch
}

// All returns the characters in map iteration order; no ordering is
// guaranteed.
func (s *CharacterStore) All() []models.Character {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Character, 0, len(s.chars))
	for _, ch := range s.chars {
		out = append(out, ch)
	}
	return out
}

func (s *CharacterStore) Get(id int64) (models.Character, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ch, ok := s.chars[id]
	return ch, ok
}

// Update replaces the mutable fields in full; the id never changes.
func (s *CharacterStore) Update(id int64, input models.CharacterInput) (models.Character, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ch, ok := s.chars[id]
	if !ok {
		return models.Character{}, false
	}
	ch.Name = input.Name
	ch.LastName = input.LastName
	s.chars[id] = ch
	return ch, true
}

func (s *CharacterStore) Delete(id int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.chars[id]; !ok {
		return false
	}
	delete(s.chars, id)
	return true
}
