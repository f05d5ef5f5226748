package repository

import (
	"context"
	"sync"
	"time"

	"github.com/fathima-sithara/clips-service/internal/apperr"
	"github.com/fathima-sithara/clips-service/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type MemoryUserRepo struct {
	mu    sync.RWMutex
	users map[string]*models.User
}

func NewMemoryUserRepo() *MemoryUserRepo {
	return &MemoryUserRepo{users: map[string]*models.User{}}
}

// Create enforces the same uniqueness the Mongo indexes do.
func (r *MemoryUserRepo) Create(ctx context.Context, u *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.users {
		if existing.Email == u.Email || existing.Username == u.Username {
			return apperr.ErrConflict
		}
	}
	if u.ID == "" {
		u.ID = primitive.NewObjectID().Hex()
	}
	u.CreatedAt = time.Now().UTC()
	u.UpdatedAt = u.CreatedAt
	stored := *u
	r.users[u.ID] = &stored
	return nil
}

func (r *MemoryUserRepo) FindByID(ctx context.Context, id string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	u, ok := r.users[id]
	if !ok {
		return nil, ErrUserNotFound
	}
	out := *u
	return &out, nil
}

func (r *MemoryUserRepo) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.findBy(func(u *models.User) bool { return u.Email == email })
}

func (r *MemoryUserRepo) FindByEmailOrUsername(ctx context.Context, email, username string) (*models.User, error) {
	return r.findBy(func(u *models.User) bool { return u.Email == email || u.Username == username })
}

func (r *MemoryUserRepo) CountUsers(ctx context.Context) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return int64(len(r.users)), nil
}

func (r *MemoryUserRepo) findBy(match func(*models.User) bool) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, u := range r.users {
		if match(u) {
			out := *u
			return &out, nil
		}
	}
	return nil, ErrUserNotFound
}
