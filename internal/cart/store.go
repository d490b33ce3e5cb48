package cart

import (
	"sync"
)

// Store keeps one cart per user for the lifetime of the process. The lock
// guards the map only; concurrent requests from the same user are
// last-write-wins, same as a browser session.
type Store struct {
	mu    sync.Mutex
	carts map[uint]*Cart
}

func NewStore() *Store {
	return &Store{carts: make(map[uint]*Cart)}
}

// Get returns the user's cart, creating an empty one on first use.
func (s *Store) Get(userID uint) *Cart {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.carts[userID]
	if !ok {
		c = &Cart{}
		s.carts[userID] = c
	}
	return c
}

func (s *Store) Clear(userID uint) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.carts, userID)
}
