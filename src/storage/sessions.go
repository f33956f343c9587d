package storage

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"chefbot/src/model"
)

// DishSessions keeps the dish list most recently shown to each user.
// SetDishes replaces the whole list; Dishes returns an empty list for unknown users.
type DishSessions interface {
	SetDishes(ctx context.Context, userID string, dishes []model.Dish) error
	Dishes(ctx context.Context, userID string) ([]model.Dish, error)
}

// MemoryDishSessions is the in-process implementation. Entries are never evicted.
type MemoryDishSessions struct {
	mu       sync.RWMutex
	sessions map[string][]model.Dish
}

// NewMemoryDishSessions creates an empty in-memory session cache
func NewMemoryDishSessions() *MemoryDishSessions {
	return &MemoryDishSessions{sessions: make(map[string][]model.Dish)}
}

func (m *MemoryDishSessions) SetDishes(_ context.Context, userID string, dishes []model.Dish) error {
	list := make([]model.Dish, len(dishes))
	copy(list, dishes)

	m.mu.Lock()
	m.sessions[userID] = list
	m.mu.Unlock()
	return nil
}

func (m *MemoryDishSessions) Dishes(_ context.Context, userID string) ([]model.Dish, error) {
	m.mu.RLock()
	list := m.sessions[userID]
	m.mu.RUnlock()

	out := make([]model.Dish, len(list))
	copy(out, list)
	return out, nil
}

// Len returns the number of users with a session
func (m *MemoryDishSessions) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// RedisDishSessions stores each user's list as one JSON value, so a write replaces it atomically
type RedisDishSessions struct {
	store *RedisStorage
	ttl   time.Duration
}

// NewRedisDishSessions wraps store; ttl of zero keeps sessions until overwritten
func NewRedisDishSessions(store *RedisStorage, ttl time.Duration) *RedisDishSessions {
	return &RedisDishSessions{store: store, ttl: ttl}
}

func (r *RedisDishSessions) SetDishes(ctx context.Context, userID string, dishes []model.Dish) error {
	if dishes == nil {
		dishes = []model.Dish{}
	}
	if err := r.store.Set(ctx, userID, dishes, r.ttl); err != nil {
		return fmt.Errorf("failed to save dish session: %w", err)
	}
	return nil
}

func (r *RedisDishSessions) Dishes(ctx context.Context, userID string) ([]model.Dish, error) {
	var dishes []model.Dish
	if err := r.store.Get(ctx, userID, &dishes); err != nil {
		if errors.Is(err, ErrNotFound) {
			return []model.Dish{}, nil
		}
		return nil, fmt.Errorf("failed to load dish session: %w", err)
	}
	return dishes, nil
}
