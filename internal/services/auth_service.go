package services

import (
	"context"
	"errors"
	"strings"

	"github.com/fathima-sithara/clips-service/internal/apperr"
	"github.com/fathima-sithara/clips-service/internal/auth"
	"github.com/fathima-sithara/clips-service/internal/models"
	"github.com/fathima-sithara/clips-service/internal/repository"
	"github.com/fathima-sithara/clips-service/internal/utils"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrUserExists         = apperr.New(apperr.ErrConflict, "User already exists with this email or username")
	ErrInvalidCredentials = apperr.New(apperr.ErrUnauthorized, "Invalid credentials")
	ErrNoToken            = apperr.New(apperr.ErrUnauthorized, "No token provided")
	ErrInvalidToken       = apperr.New(apperr.ErrUnauthorized, "Invalid token")
)

type RegisterInput struct {
	Username string `json:"username" validate:"required,min=3,max=50"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

type LoginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type AuthResult struct {
	Token string            `json:"token"`
	User  models.PublicUser `json:"user"`
}

type AuthService struct {
	users repository.UserRepository
	jwt   *auth.JWTManager
	cost  int
	log   *zap.Logger
}

func NewAuthService(users repository.UserRepository, jwt *auth.JWTManager, logger *zap.Logger) *AuthService {
	return &AuthService{users: users, jwt: jwt, cost: bcrypt.DefaultCost, log: logger}
}

func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*AuthResult, error) {
	in.Username = strings.TrimSpace(in.Username)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	if err := utils.ValidateStruct(in); err != nil {
		return nil, err
	}

	_, err := s.users.FindByEmailOrUsername(ctx, in.Email, in.Username)
	if err == nil {
		return nil, ErrUserExists
	}
	if !errors.Is(err, repository.ErrUserNotFound) {
		return nil, apperr.Storage("find user", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.cost)
	if err != nil {
		return nil, apperr.Storage("hash password", err)
	}
	u := &models.User{
		Username:     in.Username,
		Email:        in.Email,
		PasswordHash: string(hash),
		Role:         models.RoleUser,
	}
	if err := s.users.Create(ctx, u); err != nil {
		if errors.Is(err, apperr.ErrConflict) {
			return nil, ErrUserExists
		}
		return nil, apperr.Storage("create user", err)
	}
	s.log.Info("user registered", zap.String("user_id", u.ID), zap.String("username", u.Username))
	return s.issue(u)
}

func (s *AuthService) Login(ctx context.Context, in LoginInput) (*AuthResult, error) {
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	if in.Email == "" || in.Password == "" {
		return nil, apperr.Invalid("email", "Email and password are required")
	}
	u, err := s.users.FindByEmail(ctx, in.Email)
	if errors.Is(err, repository.ErrUserNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, apperr.Storage("find user", err)
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(in.Password)) != nil {
		return nil, ErrInvalidCredentials
	}
	return s.issue(u)
}

func (s *AuthService) issue(u *models.User) (*AuthResult, error) {
	token, _, err := s.jwt.Generate(u.ID)
	if err != nil {
		return nil, err
	}
	return &AuthResult{Token: token, User: u.Public()}, nil
}

// Authenticate resolves a bearer token to the account it was issued for.
func (s *AuthService) Authenticate(ctx context.Context, token string) (*models.User, error) {
	if token == "" {
		return nil, ErrNoToken
	}
	id, err := s.jwt.Verify(token)
	if err != nil {
		return nil, ErrInvalidToken
	}
	u, err := s.users.FindByID(ctx, id)
	if errors.Is(err, repository.ErrUserNotFound) {
		return nil, ErrInvalidToken
	}
	if err != nil {
		return nil, apperr.Storage("find user", err)
	}
	return u, nil
}

func (s *AuthService) Profile(ctx context.Context, userID string) (*models.User, error) {
	u, err := s.users.FindByID(ctx, userID)
	if errors.Is(err, repository.ErrUserNotFound) {
		return nil, apperr.NotFound("user")
	}
	if err != nil {
		return nil, apperr.Storage("find user", err)
	}
	return u, nil
}
