package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"accounts_backend/internal/auth"
	"accounts_backend/internal/email"
	"accounts_backend/internal/logger"
	"accounts_backend/internal/models"
	"accounts_backend/internal/repositories"
	"accounts_backend/internal/services/dto"
)

func init() {
	logger.Init("test")
}

type testEnv struct {
	repo   *repositories.MemoryUserRepository
	mail   *email.RecordingProvider
	users  *UserServiceImpl
	auth   *AuthServiceImpl
	tokens *auth.TokenCodec
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	repo := repositories.NewMemoryUserRepository()
	mail := &email.RecordingProvider{}
	hasher := auth.NewBcryptHasher(bcrypt.MinCost)
	tokens, err := auth.NewTokenCodec([]byte("test-secret"), 30*time.Minute)
	require.NoError(t, err)

	return &testEnv{
		repo:   repo,
		mail:   mail,
		users:  NewUserService(repo, hasher, mail, "http://localhost:8080/").(*UserServiceImpl),
		auth:   NewAuthService(repo, hasher, tokens, 3).(*AuthServiceImpl),
		tokens: tokens,
	}
}

func strPtr(s string) *string { return &s }

// register создает и сразу подтверждает пользователя, если verified
func (e *testEnv) register(t *testing.T, emailAddr, password string, verified bool) *models.User {
	t.Helper()
	ctx := context.Background()

	user, err := e.users.Register(ctx, &dto.RegisterRequest{Email: emailAddr, Password: password})
	require.NoError(t, err)
	if verified {
		require.NoError(t, e.users.VerifyEmail(ctx, user.ID, user.VerificationToken))
	}
	got, err := e.repo.FindByID(ctx, user.ID)
	require.NoError(t, err)
	return got
}
