package repository

import (
	"context"
	"errors"
	"time"

	"github.com/fathima-sithara/clips-service/internal/apperr"
	"github.com/fathima-sithara/clips-service/internal/catalog"
	"github.com/fathima-sithara/clips-service/internal/models"
	"go.mongodb.org/mongo-driver/mongo"
)

var ErrUserNotFound = apperr.NotFound("user")

// opTimeout bounds every single Mongo round trip.
const opTimeout = 5 * time.Second

type UserRepository interface {
	Create(ctx context.Context, u *models.User) error
	FindByID(ctx context.Context, id string) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByEmailOrUsername(ctx context.Context, email, username string) (*models.User, error)
	CountUsers(ctx context.Context) (int64, error)
}

var (
	_ catalog.Store    = (*MongoVideoRepo)(nil)
	_ catalog.Store    = (*MemoryVideoRepo)(nil)
	_ catalog.Registry = (*MongoCategoryRepo)(nil)
	_ catalog.Registry = (*MemoryCategoryRepo)(nil)
	_ UserRepository   = (*MongoUserRepo)(nil)
	_ UserRepository   = (*MemoryUserRepo)(nil)
)

// Repos bundles the three stores the application runs on.
type Repos struct {
	Videos     catalog.Store
	Categories catalog.Registry
	Users      UserRepository
}

func NewMemoryRepos() *Repos {
	return &Repos{
		Videos:     NewMemoryVideoRepo(),
		Categories: NewMemoryCategoryRepo(),
		Users:      NewMemoryUserRepo(),
	}
}

func NewMongoRepos(db *mongo.Database) *Repos {
	return &Repos{
		Videos:     NewMongoVideoRepo(db),
		Categories: NewMongoCategoryRepo(db),
		Users:      NewMongoUserRepo(db),
	}
}

func isDuplicateKey(err error) bool {
	var we mongo.WriteException
	if errors.As(err, &we) {
		for _, e := range we.WriteErrors {
			if e.Code == 11000 {
				return true
			}
		}
	}
	return mongo.IsDuplicateKeyError(err)
}
