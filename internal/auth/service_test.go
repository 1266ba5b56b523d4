package auth_test

import (
	"context"
	"testing"
	"time"

	"skybook/internal/auth"
	"skybook/internal/shared/config"
	"skybook/internal/users"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeUserRepo struct {
	byID    map[string]*users.User
	byEmail map[string]*users.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{
		byID:    make(map[string]*users.User),
		byEmail: make(map[string]*users.User),
	}
}

func (r *fakeUserRepo) CreateUser(ctx context.Context, user *users.User) error {
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	r.byID[user.ID.String()] = user
	r.byEmail[user.Email] = user
	return nil
}

func (r *fakeUserRepo) GetUserByEmail(ctx context.Context, email string) (*users.User, error) {
	user, ok := r.byEmail[email]
	if !ok {
		return nil, auth.ErrUserNotFound
	}
	return user, nil
}

func (r *fakeUserRepo) GetUserByID(ctx context.Context, id string) (*users.User, error) {
	user, ok := r.byID[id]
	if !ok {
		return nil, auth.ErrUserNotFound
	}
	return user, nil
}

func (r *fakeUserRepo) UpdateUserPassword(ctx context.Context, userID, hashedPassword string) error {
	user, ok := r.byID[userID]
	if !ok {
		return auth.ErrUserNotFound
	}
	user.Password = hashedPassword
	user.UpdatedAt = time.Now()
	return nil
}

func (r *fakeUserRepo) EmailExists(ctx context.Context, email string) (bool, error) {
	_, ok := r.byEmail[email]
	return ok, nil
}

func testConfig() *config.Config {
	return &config.Config{
		JWT: config.JWTConfig{
			Secret:           "test-secret-key",
			JWTExpiresIn:     15 * time.Minute,
			RefreshExpiresIn: 24 * time.Hour,
		},
	}
}

func registerRequest() *auth.RegisterRequest {
	return &auth.RegisterRequest{
		FirstName: "Amelia",
		LastName:  "Earhart",
		Email:     "amelia@example.com",
		Password:  "s3cret-pass",
	}
}

func TestRegister_CreatesRegularUser(t *testing.T) {
	svc := auth.NewService(newFakeUserRepo(), testConfig())

	resp, err := svc.Register(context.Background(), registerRequest())
	require.NoError(t, err)

	// Self-registration can never mint an admin
	assert.Equal(t, string(users.RoleUser), resp.User.Role)
	assert.Equal(t, "amelia@example.com", resp.User.Email)
	assert.NotEmpty(t, resp.AccessToken)
	assert.NotEmpty(t, resp.RefreshToken)
	assert.Equal(t, int64((15 * time.Minute).Seconds()), resp.ExpiresIn)

	claims, err := svc.ValidateToken(resp.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, resp.User.ID, claims.UserID)
	assert.Equal(t, "access", claims.Type)
	assert.Equal(t, string(users.RoleUser), claims.Role)
}

func TestRegister_DuplicateEmail(t *testing.T) {
	svc := auth.NewService(newFakeUserRepo(), testConfig())

	_, err := svc.Register(context.Background(), registerRequest())
	require.NoError(t, err)

	_, err = svc.Register(context.Background(), registerRequest())
	assert.ErrorIs(t, err, auth.ErrUserAlreadyExists)
}

func TestLogin(t *testing.T) {
	repo := newFakeUserRepo()
	svc := auth.NewService(repo, testConfig())

	_, err := svc.Register(context.Background(), registerRequest())
	require.NoError(t, err)

	resp, err := svc.Login(context.Background(), &auth.LoginRequest{
		Email:    "amelia@example.com",
		Password: "s3cret-pass",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)

	// Wrong password and unknown email look identical to the caller
	_, err = svc.Login(context.Background(), &auth.LoginRequest{
		Email:    "amelia@example.com",
		Password: "wrong",
	})
	assert.ErrorIs(t, err, auth.ErrInvalidCredentials)

	_, err = svc.Login(context.Background(), &auth.LoginRequest{
		Email:    "nobody@example.com",
		Password: "s3cret-pass",
	})
	assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
}

func TestRefreshToken(t *testing.T) {
	svc := auth.NewService(newFakeUserRepo(), testConfig())

	registered, err := svc.Register(context.Background(), registerRequest())
	require.NoError(t, err)

	pair, err := svc.RefreshToken(context.Background(), registered.RefreshToken)
	require.NoError(t, err)
	assert.NotEmpty(t, pair.AccessToken)
	assert.NotEmpty(t, pair.RefreshToken)

	// An access token must not be usable as a refresh token
	_, err = svc.RefreshToken(context.Background(), registered.AccessToken)
	assert.ErrorIs(t, err, auth.ErrInvalidToken)

	// Garbage is rejected outright
	_, err = svc.RefreshToken(context.Background(), "not-a-token")
	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}

func TestValidateToken_Expired(t *testing.T) {
	cfg := testConfig()
	cfg.JWT.JWTExpiresIn = -1 * time.Minute // already expired when issued
	svc := auth.NewService(newFakeUserRepo(), cfg)

	resp, err := svc.Register(context.Background(), registerRequest())
	require.NoError(t, err)

	_, err = svc.ValidateToken(resp.AccessToken)
	assert.ErrorIs(t, err, auth.ErrTokenExpired)
}

func TestValidateToken_WrongSecret(t *testing.T) {
	svc := auth.NewService(newFakeUserRepo(), testConfig())

	resp, err := svc.Register(context.Background(), registerRequest())
	require.NoError(t, err)

	otherCfg := testConfig()
	otherCfg.JWT.Secret = "a-different-secret"
	otherSvc := auth.NewService(newFakeUserRepo(), otherCfg)

	_, err = otherSvc.ValidateToken(resp.AccessToken)
	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}

func TestChangePassword(t *testing.T) {
	repo := newFakeUserRepo()
	svc := auth.NewService(repo, testConfig())

	registered, err := svc.Register(context.Background(), registerRequest())
	require.NoError(t, err)

	err = svc.ChangePassword(context.Background(), registered.User.ID, &auth.ChangePasswordRequest{
		CurrentPassword: "wrong",
		NewPassword:     "new-pass-123",
	})
	assert.ErrorIs(t, err, auth.ErrInvalidCredentials)

	err = svc.ChangePassword(context.Background(), registered.User.ID, &auth.ChangePasswordRequest{
		CurrentPassword: "s3cret-pass",
		NewPassword:     "new-pass-123",
	})
	require.NoError(t, err)

	// Old password stops working, new one logs in
	_, err = svc.Login(context.Background(), &auth.LoginRequest{Email: "amelia@example.com", Password: "s3cret-pass"})
	assert.ErrorIs(t, err, auth.ErrInvalidCredentials)

	_, err = svc.Login(context.Background(), &auth.LoginRequest{Email: "amelia@example.com", Password: "new-pass-123"})
	assert.NoError(t, err)
}

func TestGetProfile(t *testing.T) {
	svc := auth.NewService(newFakeUserRepo(), testConfig())

	registered, err := svc.Register(context.Background(), registerRequest())
	require.NoError(t, err)

	profile, err := svc.GetProfile(context.Background(), registered.User.ID)
	require.NoError(t, err)
	assert.Equal(t, "amelia@example.com", profile.Email)

	_, err = svc.GetProfile(context.Background(), uuid.New().String())
	assert.ErrorIs(t, err, auth.ErrUserNotFound)
}
