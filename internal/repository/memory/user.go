package memory

import (
	"context"
	"fmt"
	"sync"

	"wishlist-backend/internal/domain"
)

type userRepository struct {
	mu    sync.RWMutex
	users map[string]*domain.User // by ID
}

func NewUserRepository() domain.UserRepository {
	return &userRepository{users: make(map[string]*domain.User)}
}

func (r *userRepository) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, u := range r.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *userRepository) GetByID(_ context.Context, id string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if u, ok := r.users[id]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, nil
}

func (r *userRepository) Create(_ context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == user.Email {
			return fmt.Errorf("email already registered")
		}
	}
	cp := *user
	r.users[user.ID] = &cp
	return nil
}
