// Package service implements the account operations behind the development
// REST API: credential checks, token issue/revoke and user registration.
package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"sistemaweb/portal/internal/backend"
	"sistemaweb/portal/internal/ids"
	"sistemaweb/portal/internal/models"
	"sistemaweb/portal/internal/repository"
	"sistemaweb/portal/internal/security"
)

var (
	ErrInvalidCredentials = errors.New("credenciales inválidas")
	ErrTokenInvalid       = errors.New("token inválido o expirado")

	// The exact wording matters: the portal client distinguishes duplicate
	// and validation failures by substring match on these messages.
	ErrCedulaExists    = errors.New("un usuario con esta cedula ya existe")
	ErrEmailExists     = errors.New("un usuario con este email ya existe")
	ErrUsernameExists  = errors.New("un usuario con este username ya existe")
	ErrBadDepartment   = errors.New("departamento no válido")
	ErrPasswordsDiffer = errors.New("confirm_password no coincide")
	ErrBadCedula       = errors.New("cedula inválida")
	ErrBadEmail        = errors.New("email inválido")
)

type UserRepository interface {
	Create(ctx context.Context, user models.User) (int64, error)
	FindByCedula(ctx context.Context, cedula string) (models.User, error)
	FindByEmail(ctx context.Context, email string) (models.User, error)
	FindByUsername(ctx context.Context, username string) (models.User, error)
	GetByID(ctx context.Context, id int64) (models.User, error)
}

type TokenRepository interface {
	Create(ctx context.Context, token models.AuthToken) error
	FindByHash(ctx context.Context, hash []byte) (models.AuthToken, error)
	DeleteByHash(ctx context.Context, hash []byte) error
}

type AuthService struct {
	users    UserRepository
	tokens   TokenRepository
	tokenTTL time.Duration
	log      zerolog.Logger
}

func NewAuthService(users UserRepository, tokens TokenRepository, tokenTTL time.Duration, log zerolog.Logger) *AuthService {
	return &AuthService{
		users:    users,
		tokens:   tokens,
		tokenTTL: tokenTTL,
		log:      log,
	}
}

// LoginResult mirrors the login response body of the REST contract.
type LoginResult struct {
	UserID            int64
	Username          string
	Token             string
	Status            models.UserStatus
	Department        string
	DepartmentDisplay string
}

func (s *AuthService) Login(ctx context.Context, cedula, password string) (LoginResult, error) {
	user, err := s.users.FindByCedula(ctx, strings.TrimSpace(cedula))
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return LoginResult{}, ErrInvalidCredentials
		}
		return LoginResult{}, err
	}

	ok, err := security.VerifyPassword(password, user.PasswordHash)
	if err != nil || !ok {
		return LoginResult{}, ErrInvalidCredentials
	}

	token, hash, err := security.GenerateBearerToken(32)
	if err != nil {
		return LoginResult{}, err
	}

	if err := s.tokens.Create(ctx, models.AuthToken{
		ID:        ids.New(),
		UserID:    user.ID,
		TokenHash: hash,
		ExpiresAt: time.Now().Add(s.tokenTTL),
	}); err != nil {
		return LoginResult{}, err
	}

	return LoginResult{
		UserID:            user.ID,
		Username:          user.Username,
		Token:             token,
		Status:            user.Status,
		Department:        user.Department,
		DepartmentDisplay: models.DepartmentDisplay(user.Department),
	}, nil
}

// Authenticate resolves a bearer token to its user.
func (s *AuthService) Authenticate(ctx context.Context, token string) (models.User, error) {
	stored, err := s.tokens.FindByHash(ctx, security.HashBearerToken(token))
	if err != nil {
		return models.User{}, ErrTokenInvalid
	}
	if stored.ExpiresAt.Before(time.Now()) {
		_ = s.tokens.DeleteByHash(ctx, stored.TokenHash)
		return models.User{}, ErrTokenInvalid
	}
	return s.users.GetByID(ctx, stored.UserID)
}

func (s *AuthService) Logout(ctx context.Context, token string) error {
	return s.tokens.DeleteByHash(ctx, security.HashBearerToken(token))
}

type RegisterInput struct {
	Cedula          string
	Username        string
	Email           string
	Password        string
	ConfirmPassword string
	FirstName       string
	LastName        string
	Phone           string
	Department      string
}

// Register validates and creates a basic account. Conflicts and validation
// failures come back as the sentinel errors above.
func (s *AuthService) Register(ctx context.Context, input RegisterInput) (models.User, error) {
	digits, ok := backend.CedulaDigits(input.Cedula)
	if !ok {
		return models.User{}, ErrBadCedula
	}
	if !models.KnownDepartment(input.Department) {
		return models.User{}, ErrBadDepartment
	}
	if input.ConfirmPassword != "" && input.ConfirmPassword != input.Password {
		return models.User{}, ErrPasswordsDiffer
	}
	email := strings.TrimSpace(strings.ToLower(input.Email))
	if !strings.Contains(email, "@") {
		return models.User{}, ErrBadEmail
	}

	username := input.Username
	if username == "" {
		username = backend.DeriveUsername(input.FirstName, input.LastName, digits)
	}

	if err := s.checkConflicts(ctx, input.Cedula, email, username); err != nil {
		return models.User{}, err
	}

	passwordHash, err := security.HashPassword(input.Password)
	if err != nil {
		return models.User{}, err
	}

	user := models.User{
		Cedula:       input.Cedula,
		Username:     username,
		Email:        email,
		PasswordHash: passwordHash,
		FirstName:    input.FirstName,
		LastName:     input.LastName,
		Phone:        input.Phone,
		Status:       models.StatusBasic,
		Department:   input.Department,
	}

	id, err := s.users.Create(ctx, user)
	if err != nil {
		return models.User{}, fmt.Errorf("create user: %w", err)
	}
	user.ID = id

	s.log.Info().
		Str("username", user.Username).
		Str("department", user.Department).
		Msg("user registered")
	return user, nil
}

func (s *AuthService) checkConflicts(ctx context.Context, cedula, email, username string) error {
	if _, err := s.users.FindByCedula(ctx, cedula); err == nil {
		return ErrCedulaExists
	} else if !errors.Is(err, repository.ErrUserNotFound) {
		return err
	}
	if _, err := s.users.FindByEmail(ctx, email); err == nil {
		return ErrEmailExists
	} else if !errors.Is(err, repository.ErrUserNotFound) {
		return err
	}
	if _, err := s.users.FindByUsername(ctx, username); err == nil {
		return ErrUsernameExists
	} else if !errors.Is(err, repository.ErrUserNotFound) {
		return err
	}
	return nil
}
