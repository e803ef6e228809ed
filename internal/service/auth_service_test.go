package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/complaint-service/internal/config"
	"github.com/spec-kit/complaint-service/internal/domain"
	"github.com/spec-kit/complaint-service/internal/repository"
	apperrors "github.com/spec-kit/complaint-service/pkg/util"
)

type fakeResetRepo struct {
	mu     sync.Mutex
	tokens map[string]*repository.PasswordResetToken
}

func newFakeResetRepo() *fakeResetRepo {
	return &fakeResetRepo{tokens: make(map[string]*repository.PasswordResetToken)}
}

func (r *fakeResetRepo) Create(_ context.Context, token *repository.PasswordResetToken) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	token.ID = token.Token
	token.CreatedAt = time.Now()
	clone := *token
	r.tokens[token.Token] = &clone
	return nil
}

func (r *fakeResetRepo) GetByToken(_ context.Context, tokenStr string) (*repository.PasswordResetToken, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	token, ok := r.tokens[tokenStr]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	clone := *token
	return &clone, nil
}

func (r *fakeResetRepo) MarkUsed(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, token := range r.tokens {
		if token.ID == id {
			now := time.Now()
			token.UsedAt = &now
			return nil
		}
	}
	return pgx.ErrNoRows
}

func testConfig() config.Config {
	return config.Config{Auth: config.AuthConfig{
		JWTSecret:               "test-secret",
		AccessTokenTTLMinutes:   15,
		PasswordResetTTLMinutes: 30,
		BcryptCost:              4,
	}}
}

func newAuthFixture() (*AuthService, *fakeUserRepo) {
	users := newFakeUserRepo()
	return NewAuthService(testConfig(), AuthDependencies{
		UserRepo:          users,
		PasswordResetRepo: newFakeResetRepo(),
	}), users
}

func TestRegisterThenLogin(t *testing.T) {
	svc, _ := newAuthFixture()
	ctx := context.Background()

	user, token, expiresAt, err := svc.Register(ctx, "Sam", "Sam@Campus.EDU", "hunter2hunter2", nil)
	require.NoError(t, err)
	assert.Equal(t, "sam@campus.edu", user.Email)
	assert.Equal(t, domain.RoleStudent, user.Role)
	assert.NotEmpty(t, token)
	assert.True(t, expiresAt.After(time.Now()))

	loggedIn, loginToken, _, err := svc.Login(ctx, "sam@campus.edu", "hunter2hunter2")
	require.NoError(t, err)
	assert.Equal(t, user.ID, loggedIn.ID)
	assert.NotEmpty(t, loginToken)
}

func TestRegisterDuplicateEmailConflicts(t *testing.T) {
	svc, _ := newAuthFixture()
	ctx := context.Background()

	_, _, _, err := svc.Register(ctx, "Sam", "sam@campus.edu", "hunter2hunter2", nil)
	require.NoError(t, err)

	_, _, _, err = svc.Register(ctx, "Other", "sam@campus.edu", "hunter2hunter2", nil)
	require.Error(t, err)
	assert.Equal(t, 409, apperrors.ToDomainError(err).HTTPStatus)
}

func TestLoginWrongPasswordIsUnauthorized(t *testing.T) {
	svc, _ := newAuthFixture()
	ctx := context.Background()

	_, _, _, err := svc.Register(ctx, "Sam", "sam@campus.edu", "hunter2hunter2", nil)
	require.NoError(t, err)

	_, _, _, err = svc.Login(ctx, "sam@campus.edu", "wrong-password")
	require.Error(t, err)
	assert.Equal(t, 401, apperrors.ToDomainError(err).HTTPStatus)

	// Unknown email reads the same as a wrong password.
	_, _, _, err = svc.Login(ctx, "nobody@campus.edu", "hunter2hunter2")
	require.Error(t, err)
	assert.Equal(t, 401, apperrors.ToDomainError(err).HTTPStatus)
}

func TestLoginSuspendedAccountForbidden(t *testing.T) {
	svc, users := newAuthFixture()
	ctx := context.Background()

	user, _, _, err := svc.Register(ctx, "Sam", "sam@campus.edu", "hunter2hunter2", nil)
	require.NoError(t, err)

	user.Status = domain.UserStatusSuspended
	require.NoError(t, users.Update(ctx, user))

	_, _, _, err = svc.Login(ctx, "sam@campus.edu", "hunter2hunter2")
	require.Error(t, err)
	assert.True(t, apperrors.IsForbidden(err))
}

func TestPasswordResetFlow(t *testing.T) {
	svc, _ := newAuthFixture()
	ctx := context.Background()

	_, _, _, err := svc.Register(ctx, "Sam", "sam@campus.edu", "hunter2hunter2", nil)
	require.NoError(t, err)

	reset, err := svc.RequestPasswordReset(ctx, "sam@campus.edu")
	require.NoError(t, err)
	require.NotEmpty(t, reset.Token)

	require.NoError(t, svc.ConfirmPasswordReset(ctx, reset.Token, "newpassword99"))

	_, _, _, err = svc.Login(ctx, "sam@campus.edu", "newpassword99")
	require.NoError(t, err)

	// A consumed token cannot be replayed.
	err = svc.ConfirmPasswordReset(ctx, reset.Token, "anotherpassword")
	require.Error(t, err)
	assert.Equal(t, 400, apperrors.ToDomainError(err).HTTPStatus)
}

func TestChangePasswordVerifiesCurrent(t *testing.T) {
	svc, _ := newAuthFixture()
	ctx := context.Background()

	user, _, _, err := svc.Register(ctx, "Sam", "sam@campus.edu", "hunter2hunter2", nil)
	require.NoError(t, err)

	err = svc.ChangePassword(ctx, user.ID, "wrong-current", "newpassword99")
	require.Error(t, err)
	assert.Equal(t, 401, apperrors.ToDomainError(err).HTTPStatus)

	require.NoError(t, svc.ChangePassword(ctx, user.ID, "hunter2hunter2", "newpassword99"))

	_, _, _, err = svc.Login(ctx, "sam@campus.edu", "newpassword99")
	require.NoError(t, err)
}
