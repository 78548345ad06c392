package service

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"sistemaweb/portal/internal/models"
	"sistemaweb/portal/internal/repository"
	"sistemaweb/portal/internal/security"
)

type memUserRepo struct {
	nextID int64
	users  map[int64]models.User
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{nextID: 1, users: make(map[int64]models.User)}
}

func (r *memUserRepo) Create(_ context.Context, user models.User) (int64, error) {
	user.ID = r.nextID
	r.users[user.ID] = user
	r.nextID++
	return user.ID, nil
}

func (r *memUserRepo) findBy(match func(models.User) bool) (models.User, error) {
	for _, u := range r.users {
		if match(u) {
			return u, nil
		}
	}
	return models.User{}, repository.ErrUserNotFound
}

func (r *memUserRepo) FindByCedula(_ context.Context, cedula string) (models.User, error) {
	return r.findBy(func(u models.User) bool { return u.Cedula == cedula })
}

func (r *memUserRepo) FindByEmail(_ context.Context, email string) (models.User, error) {
	return r.findBy(func(u models.User) bool { return u.Email == email })
}

func (r *memUserRepo) FindByUsername(_ context.Context, username string) (models.User, error) {
	return r.findBy(func(u models.User) bool { return u.Username == username })
}

func (r *memUserRepo) GetByID(_ context.Context, id int64) (models.User, error) {
	u, ok := r.users[id]
	if !ok {
		return models.User{}, repository.ErrUserNotFound
	}
	return u, nil
}

type memTokenRepo struct {
	tokens map[string]models.AuthToken
}

func newMemTokenRepo() *memTokenRepo {
	return &memTokenRepo{tokens: make(map[string]models.AuthToken)}
}

func (r *memTokenRepo) Create(_ context.Context, token models.AuthToken) error {
	r.tokens[string(token.TokenHash)] = token
	return nil
}

func (r *memTokenRepo) FindByHash(_ context.Context, hash []byte) (models.AuthToken, error) {
	t, ok := r.tokens[string(hash)]
	if !ok {
		return models.AuthToken{}, repository.ErrTokenNotFound
	}
	return t, nil
}

func (r *memTokenRepo) DeleteByHash(_ context.Context, hash []byte) error {
	delete(r.tokens, string(hash))
	return nil
}

func newTestService(t *testing.T) (*AuthService, *memUserRepo, *memTokenRepo) {
	t.Helper()
	users := newMemUserRepo()
	tokens := newMemTokenRepo()
	return NewAuthService(users, tokens, time.Hour, zerolog.Nop()), users, tokens
}

func seedUser(t *testing.T, users *memUserRepo, cedula, username, email, password string) models.User {
	t.Helper()
	hash, err := security.HashPassword(password)
	require.NoError(t, err)

	id, err := users.Create(context.Background(), models.User{
		Cedula:       cedula,
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		Status:       models.StatusAdmin,
		Department:   models.DepartmentOAC,
	})
	require.NoError(t, err)

	user, err := users.GetByID(context.Background(), id)
	require.NoError(t, err)
	return user
}

func TestAuthServiceLogin(t *testing.T) {
	t.Run("issues a token for valid credentials", func(t *testing.T) {
		svc, users, tokens := newTestService(t)
		user := seedUser(t, users, "30799436", "joseb", "jose@example.com", "secreto123")

		result, err := svc.Login(context.Background(), "30799436", "secreto123")
		require.NoError(t, err)
		require.Equal(t, user.ID, result.UserID)
		require.Equal(t, "joseb", result.Username)
		require.Equal(t, models.StatusAdmin, result.Status)
		require.Equal(t, "oac", result.Department)
		require.Equal(t, "OAC", result.DepartmentDisplay)
		require.NotEmpty(t, result.Token)

		stored, err := tokens.FindByHash(context.Background(), security.HashBearerToken(result.Token))
		require.NoError(t, err)
		require.Equal(t, user.ID, stored.UserID)
	})

	t.Run("wrong password", func(t *testing.T) {
		svc, users, _ := newTestService(t)
		seedUser(t, users, "30799436", "joseb", "jose@example.com", "secreto123")

		_, err := svc.Login(context.Background(), "30799436", "otracontra")
		require.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("unknown cedula", func(t *testing.T) {
		svc, _, _ := newTestService(t)
		_, err := svc.Login(context.Background(), "99999999", "secreto123")
		require.ErrorIs(t, err, ErrInvalidCredentials)
	})
}

func TestAuthServiceAuthenticate(t *testing.T) {
	t.Run("valid token resolves the user", func(t *testing.T) {
		svc, users, _ := newTestService(t)
		user := seedUser(t, users, "30799436", "joseb", "jose@example.com", "secreto123")

		result, err := svc.Login(context.Background(), "30799436", "secreto123")
		require.NoError(t, err)

		resolved, err := svc.Authenticate(context.Background(), result.Token)
		require.NoError(t, err)
		require.Equal(t, user.ID, resolved.ID)
	})

	t.Run("unknown token", func(t *testing.T) {
		svc, _, _ := newTestService(t)
		_, err := svc.Authenticate(context.Background(), "not-a-token")
		require.ErrorIs(t, err, ErrTokenInvalid)
	})

	t.Run("expired token is rejected and removed", func(t *testing.T) {
		svc, users, tokens := newTestService(t)
		user := seedUser(t, users, "30799436", "joseb", "jose@example.com", "secreto123")

		token, hash, err := security.GenerateBearerToken(32)
		require.NoError(t, err)
		require.NoError(t, tokens.Create(context.Background(), models.AuthToken{
			ID:        "tok-1",
			UserID:    user.ID,
			TokenHash: hash,
			ExpiresAt: time.Now().Add(-time.Minute),
		}))

		_, err = svc.Authenticate(context.Background(), token)
		require.ErrorIs(t, err, ErrTokenInvalid)

		_, err = tokens.FindByHash(context.Background(), hash)
		require.ErrorIs(t, err, repository.ErrTokenNotFound)
	})

	t.Run("logout revokes the token", func(t *testing.T) {
		svc, users, _ := newTestService(t)
		seedUser(t, users, "30799436", "joseb", "jose@example.com", "secreto123")

		result, err := svc.Login(context.Background(), "30799436", "secreto123")
		require.NoError(t, err)
		require.NoError(t, svc.Logout(context.Background(), result.Token))

		_, err = svc.Authenticate(context.Background(), result.Token)
		require.ErrorIs(t, err, ErrTokenInvalid)
	})
}

func TestAuthServiceRegister(t *testing.T) {
	validInput := func() RegisterInput {
		return RegisterInput{
			Cedula:     "30799436",
			Email:      "jose@example.com",
			Password:   "secreto123",
			FirstName:  "José Fernando",
			LastName:   "Bolivar Hurtado",
			Phone:      "04141234567",
			Department: models.DepartmentOAC,
		}
	}

	t.Run("creates a basic account with a derived username", func(t *testing.T) {
		svc, _, _ := newTestService(t)
		user, err := svc.Register(context.Background(), validInput())
		require.NoError(t, err)
		require.Equal(t, "joseb", user.Username)
		require.Equal(t, models.StatusBasic, user.Status)
		require.Equal(t, models.DepartmentOAC, user.Department)
		require.NotZero(t, user.ID)

		// The created account can log in right away.
		_, err = svc.Login(context.Background(), "30799436", "secreto123")
		require.NoError(t, err)
	})

	t.Run("explicit username wins over derivation", func(t *testing.T) {
		svc, _, _ := newTestService(t)
		input := validInput()
		input.Username = "custom"
		user, err := svc.Register(context.Background(), input)
		require.NoError(t, err)
		require.Equal(t, "custom", user.Username)
	})

	t.Run("validation failures", func(t *testing.T) {
		cases := []struct {
			name   string
			mutate func(*RegisterInput)
			err    error
		}{
			{"short cedula", func(in *RegisterInput) { in.Cedula = "123" }, ErrBadCedula},
			{"unknown department", func(in *RegisterInput) { in.Department = "rrhh" }, ErrBadDepartment},
			{"password mismatch", func(in *RegisterInput) { in.ConfirmPassword = "otra" }, ErrPasswordsDiffer},
			{"bad email", func(in *RegisterInput) { in.Email = "not-an-email" }, ErrBadEmail},
		}
		for _, tc := range cases {
			t.Run(tc.name, func(t *testing.T) {
				svc, _, _ := newTestService(t)
				input := validInput()
				tc.mutate(&input)
				_, err := svc.Register(context.Background(), input)
				require.ErrorIs(t, err, tc.err)
			})
		}
	})

	t.Run("conflicts", func(t *testing.T) {
		t.Run("cedula", func(t *testing.T) {
			svc, users, _ := newTestService(t)
			seedUser(t, users, "30799436", "other", "other@example.com", "secreto123")
			_, err := svc.Register(context.Background(), validInput())
			require.ErrorIs(t, err, ErrCedulaExists)
		})

		t.Run("email", func(t *testing.T) {
			svc, users, _ := newTestService(t)
			seedUser(t, users, "11111111", "other", "jose@example.com", "secreto123")
			_, err := svc.Register(context.Background(), validInput())
			require.ErrorIs(t, err, ErrEmailExists)
		})

		t.Run("username", func(t *testing.T) {
			svc, users, _ := newTestService(t)
			seedUser(t, users, "11111111", "joseb", "other@example.com", "secreto123")
			_, err := svc.Register(context.Background(), validInput())
			require.ErrorIs(t, err, ErrUsernameExists)
		})
	})
}
