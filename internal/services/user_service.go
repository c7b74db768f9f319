// File: internal/services/user_service.go
package services

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/voxai/voxai-sql/internal/auth"
	"github.com/voxai/voxai-sql/internal/domain"
	userrepo "github.com/voxai/voxai-sql/internal/repository/user"
)

// UserService handles account signup, login, and profile lookup.
type UserService struct {
	users     userrepo.UserRepository
	jwtSecret []byte
	logger    Logger
}

func NewUserService(users userrepo.UserRepository, jwtSecret []byte, logger Logger) (*UserService, error) {
	if users == nil {
		return nil, errors.New("user service requires a user repository")
	}
	if len(jwtSecret) == 0 {
		return nil, errors.New("user service requires a JWT secret")
	}
	return &UserService{users: users, jwtSecret: jwtSecret, logger: logger}, nil
}

// Signup registers a new account and returns the user with a session token.
func (s *UserService) Signup(ctx context.Context, username, email, password string) (*domain.User, string, error) {
	user := &domain.User{Username: username, Email: email}
	if err := user.IsValid(); err != nil {
		return nil, "", NewValidationError("signup", err.Error())
	}
	if err := user.HashPassword(password); err != nil {
		return nil, "", NewValidationError("signup", err.Error())
	}

	if _, err := s.users.FindByEmail(ctx, email); err == nil {
		return nil, "", NewValidationError("signup", "an account with this email already exists")
	} else if !errors.Is(err, userrepo.ErrUserNotFound) {
		return nil, "", err
	}

	created, err := s.users.Create(ctx, user)
	if err != nil {
		return nil, "", err
	}

	token, err := auth.GenerateJWT(created.ID.Hex(), s.jwtSecret)
	if err != nil {
		return nil, "", err
	}
	s.logger.Info("user registered", "user_id", created.ID.Hex())
	return created, token, nil
}

// Login checks credentials and returns the user with a fresh token. The
// failure message never distinguishes a missing account from a bad password.
func (s *UserService) Login(ctx context.Context, email, password string) (*domain.User, string, error) {
	user, err := s.users.FindByEmail(ctx, email)
	if errors.Is(err, userrepo.ErrUserNotFound) {
		return nil, "", NewValidationError("login", "invalid email or password")
	}
	if err != nil {
		return nil, "", err
	}

	if err := user.ValidatePassword(password); err != nil {
		return nil, "", NewValidationError("login", "invalid email or password")
	}

	token, err := auth.GenerateJWT(user.ID.Hex(), s.jwtSecret)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

// Profile returns the account for an authenticated user ID.
func (s *UserService) Profile(ctx context.Context, userID bson.ObjectID) (*domain.User, error) {
	user, err := s.users.FindByID(ctx, userID)
	if errors.Is(err, userrepo.ErrUserNotFound) {
		return nil, NewNotFoundError("profile", "User not found")
	}
	return user, err
}
