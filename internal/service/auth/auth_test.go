package auth

import (
	"EduStream/internal/app_errors"
	"EduStream/internal/models"
	"EduStream/pkg/logger"
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAuthRepo struct {
	byName map[string]*models.User
	byID   map[uuid.UUID]*models.User
}

func newFakeAuthRepo() *fakeAuthRepo {
	return &fakeAuthRepo{
		byName: make(map[string]*models.User),
		byID:   make(map[uuid.UUID]*models.User),
	}
}

func (f *fakeAuthRepo) CreateUser(_ context.Context, user models.User) (*models.User, error) {
	if _, exists := f.byName[user.Username]; exists {
		return nil, app_errors.ErrUserExists
	}
	user.ID = uuid.New()
	f.byName[user.Username] = &user
	f.byID[user.ID] = &user
	return &user, nil
}

func (f *fakeAuthRepo) UserByName(_ context.Context, username string) (*models.User, error) {
	u, ok := f.byName[username]
	if !ok {
		return nil, app_errors.ErrUserNotFound
	}
	return u, nil
}

func (f *fakeAuthRepo) UserByID(_ context.Context, id uuid.UUID) (*models.User, error) {
	u, ok := f.byID[id]
	if !ok {
		return nil, app_errors.ErrUserNotFound
	}
	return u, nil
}

type fakeTokenRepo struct {
	tokens map[uuid.UUID]string
}

func newFakeTokenRepo() *fakeTokenRepo {
	return &fakeTokenRepo{tokens: make(map[uuid.UUID]string)}
}

func (f *fakeTokenRepo) Create(_ context.Context, userID uuid.UUID, token *jwt.Token) (*models.RefreshToken, error) {
	f.tokens[userID] = token.Raw
	return &models.RefreshToken{UserID: userID, ExpiresAt: time.Now().Add(time.Hour)}, nil
}

func (f *fakeTokenRepo) ByPrimaryKey(_ context.Context, userID uuid.UUID, token *jwt.Token) (*models.RefreshToken, error) {
	raw, ok := f.tokens[userID]
	if !ok || raw != token.Raw {
		return nil, app_errors.ErrTokenNotFound
	}
	return &models.RefreshToken{UserID: userID, ExpiresAt: time.Now().Add(time.Hour)}, nil
}

func (f *fakeTokenRepo) DeleteUserTokens(_ context.Context, userID uuid.UUID) error {
	delete(f.tokens, userID)
	return nil
}

func newTestService() (*AuthService, *fakeAuthRepo) {
	repo := newFakeAuthRepo()
	manager := NewJWTManager("test-secret", "//", time.Minute, time.Hour)
	return NewAuthService(logger.NewDiscard(), manager, repo, newFakeTokenRepo()), repo
}

func TestCreateUserPasswordLength(t *testing.T) {
	s, _ := newTestService()

	tests := []struct {
		name     string
		password string
		wantErr  bool
	}{
		{"too short", "abc", true},
		{"too long", "12345678901234567", true},
		{"lower bound", "123456", false},
		{"upper bound", "1234567890123456", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.CreateUser(context.Background(), models.User{
				Username: "user-" + tt.name,
				Email:    tt.name + "@example.com",
				Password: tt.password,
				Roles:    []string{models.ClientRole},
			})
			if tt.wantErr {
				assert.ErrorIs(t, err, app_errors.ErrIncorrectPassword)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestCreateUserHashesPassword(t *testing.T) {
	s, repo := newTestService()

	created, err := s.CreateUser(context.Background(), models.User{
		Username: "alice",
		Email:    "alice@example.com",
		Password: "secret1",
		Roles:    []string{models.ClientRole},
	})
	require.NoError(t, err)
	assert.NotEqual(t, "secret1", repo.byName["alice"].Password)
	assert.NotEqual(t, uuid.Nil, created.ID)
}

func TestLoginUser(t *testing.T) {
	s, _ := newTestService()

	_, err := s.CreateUser(context.Background(), models.User{
		Username: "alice",
		Email:    "alice@example.com",
		Password: "secret1",
		Roles:    []string{models.ClientRole},
	})
	require.NoError(t, err)

	access, refresh, err := s.LoginUser(context.Background(), "alice", "secret1")
	require.NoError(t, err)
	assert.NotEmpty(t, access)
	assert.NotEmpty(t, refresh)

	_, _, err = s.LoginUser(context.Background(), "alice", "wrong-pass")
	assert.ErrorIs(t, err, app_errors.ErrIncorrectPassword)

	_, _, err = s.LoginUser(context.Background(), "nobody", "secret1")
	assert.ErrorIs(t, err, app_errors.ErrUserNotFound)
}

func TestLoginIssuesAccessToken(t *testing.T) {
	s, _ := newTestService()

	created, err := s.CreateUser(context.Background(), models.User{
		Username: "alice",
		Email:    "alice@example.com",
		Password: "secret1",
		Roles:    []string{models.ClientRole, models.TutorRole},
	})
	require.NoError(t, err)

	access, _, err := s.LoginUser(context.Background(), "alice", "secret1")
	require.NoError(t, err)

	userID, roles, err := s.AccessClaims(context.Background(), access)
	require.NoError(t, err)
	assert.Equal(t, created.ID, userID)
	assert.ElementsMatch(t, []string{models.ClientRole, models.TutorRole}, roles)

	parsed, err := s.ParseToken(context.Background(), access)
	require.NoError(t, err)
	assert.True(t, s.IsAccessToken(context.Background(), parsed))
}

func TestRefreshTokens(t *testing.T) {
	s, _ := newTestService()

	_, err := s.CreateUser(context.Background(), models.User{
		Username: "alice",
		Email:    "alice@example.com",
		Password: "secret1",
		Roles:    []string{models.ClientRole},
	})
	require.NoError(t, err)

	_, refresh, err := s.LoginUser(context.Background(), "alice", "secret1")
	require.NoError(t, err)

	pair, err := s.RefreshTokens(context.Background(), refresh)
	require.NoError(t, err)
	assert.NotEmpty(t, pair.AccessToken.Raw)
	assert.NotEmpty(t, pair.RefreshToken.Raw)

	_, err = s.RefreshTokens(context.Background(), "not-a-token")
	assert.Error(t, err)
}
