package auth

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	t.Setenv(secretEnvVariable, "test-secret")
	ResetSecretForTests()
	t.Cleanup(ResetSecretForTests)
	return NewService(NewMemoryStore())
}

func TestRegisterIssuesToken(t *testing.T) {
	svc := newTestService(t)

	user, token, err := svc.Register(context.Background(), RegisterInput{
		Name:     "Ann",
		Email:    "ann@x.com",
		Password: "secret1",
	})
	require.NoError(t, err)
	require.NotEmpty(t, user.ID)
	require.NotEmpty(t, token)
	assert.Equal(t, "ann@x.com", user.Email)
	assert.NotEqual(t, "secret1", user.PasswordHash)

	claims, err := ParseAndValidate(token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.Subject)
}

func TestRegisterRejectsDuplicateEmail(t *testing.T) {
	svc := newTestService(t)

	_, _, err := svc.Register(context.Background(), RegisterInput{Name: "Ann", Email: "ann@x.com", Password: "secret1"})
	require.NoError(t, err)

	_, _, err = svc.Register(context.Background(), RegisterInput{Name: "Ann2", Email: "Ann@X.com", Password: "other"})
	assert.ErrorIs(t, err, ErrConflict)
}

func TestLoginUniformFailure(t *testing.T) {
	svc := newTestService(t)

	_, _, err := svc.Register(context.Background(), RegisterInput{Name: "Ann", Email: "ann@x.com", Password: "secret1"})
	require.NoError(t, err)

	// Wrong password and unknown email must be indistinguishable.
	_, _, wrongPass := svc.Login(context.Background(), "ann@x.com", "nope")
	_, _, unknown := svc.Login(context.Background(), "ghost@x.com", "nope")
	assert.ErrorIs(t, wrongPass, ErrInvalidCredentials)
	assert.ErrorIs(t, unknown, ErrInvalidCredentials)
	assert.Equal(t, wrongPass.Error(), unknown.Error())
}

func TestLoginSuccess(t *testing.T) {
	svc := newTestService(t)

	reg, _, err := svc.Register(context.Background(), RegisterInput{Name: "Ann", Email: "ann@x.com", Password: "secret1"})
	require.NoError(t, err)

	user, token, err := svc.Login(context.Background(), "ann@x.com", "secret1")
	require.NoError(t, err)
	assert.Equal(t, reg.ID, user.ID)
	require.NotEmpty(t, token)
}

func TestAuthenticateResolvesUser(t *testing.T) {
	svc := newTestService(t)

	reg, token, err := svc.Register(context.Background(), RegisterInput{Name: "Ann", Email: "ann@x.com", Password: "secret1"})
	require.NoError(t, err)

	user, err := svc.Authenticate(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, reg.ID, user.ID)

	_, err = svc.Authenticate(context.Background(), "bogus")
	assert.ErrorIs(t, err, ErrInvalidToken)
}
