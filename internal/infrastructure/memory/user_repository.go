package memory

import (
	"sync"

	"github.com/google/uuid"

	"github.com/shoptrack/pos-api/internal/domain"
	"github.com/shoptrack/pos-api/internal/domain/entity"
	"github.com/shoptrack/pos-api/internal/domain/repository"
)

// UserRepo guarda usuarios en memoria, indexados por email para el login.
type UserRepo struct {
	mu      sync.RWMutex
	byID    map[string]entity.User
	byEmail map[string]string // email -> id
}

var _ repository.UserRepository = (*UserRepo)(nil)

func NewUserRepo() *UserRepo {
	return &UserRepo{
		byID:    make(map[string]entity.User),
		byEmail: make(map[string]string),
	}
}

func (r *UserRepo) Create(user *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	if _, taken := r.byEmail[user.Email]; taken {
		return domain.ErrEmailAlreadyExists
	}
	r.byID[user.ID] = *user
	r.byEmail[user.Email] = user.ID
	return nil
}

func (r *UserRepo) GetByEmail(email string) (*entity.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	id, ok := r.byEmail[email]
	if !ok {
		return nil, nil
	}
	u := r.byID[id]
	return &u, nil
}

func (r *UserRepo) Update(user *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	prev, ok := r.byID[user.ID]
	if !ok {
		return domain.ErrNotFound
	}
	if prev.Email != user.Email {
		if _, taken := r.byEmail[user.Email]; taken {
			return domain.ErrEmailAlreadyExists
		}
		delete(r.byEmail, prev.Email)
		r.byEmail[user.Email] = user.ID
	}
	r.byID[user.ID] = *user
	return nil
}
