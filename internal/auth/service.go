package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrTokenIssuance marks a failure to mint a bearer token for an otherwise
// valid user. Handlers surface it differently from a credential mismatch.
var ErrTokenIssuance = errors.New("auth: token issuance failed")

// Service orchestrates registration and login against the user store and the
// token issuer.
type Service struct {
	store    UserStore
	tokenTTL time.Duration
	now      func() time.Time
}

// ServiceOption configures Service behavior.
type ServiceOption func(*Service)

// WithTokenTTL overrides the bearer token lifetime.
func WithTokenTTL(ttl time.Duration) ServiceOption {
	return func(s *Service) {
		if ttl > 0 {
			s.tokenTTL = ttl
		}
	}
}

// WithClock overrides the time source (useful for tests).
func WithClock(fn func() time.Time) ServiceOption {
	return func(s *Service) {
		if fn != nil {
			s.now = fn
		}
	}
}

// NewService constructs a Service over the given store.
func NewService(store UserStore, opts ...ServiceOption) *Service {
	svc := &Service{
		store:    store,
		tokenTTL: DefaultTokenTTL,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc
}

// RegisterInput carries boundary-validated registration fields. Presence,
// email format and password confirmation are checked at the HTTP layer;
// uniqueness is enforced here and by the store.
type RegisterInput struct {
	Name     string
	Email    string
	Password string
}

// Register creates the user and issues a bearer token. A duplicate email
// returns ErrConflict and performs no writes.
func (s *Service) Register(ctx context.Context, in RegisterInput) (User, string, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))
	if _, err := s.store.FindByEmail(ctx, email); err == nil {
		return User{}, "", ErrConflict
	} else if !errors.Is(err, ErrNotFound) {
		return User{}, "", err
	}

	hash, err := HashPassword(in.Password)
	if err != nil {
		return User{}, "", err
	}
	user := User{
		Name:         strings.TrimSpace(in.Name),
		Email:        email,
		PasswordHash: hash,
	}
	if err := s.store.Create(ctx, &user); err != nil {
		return User{}, "", err
	}

	token, err := GenerateToken(user.ID, s.tokenTTL)
	if err != nil {
		return User{}, "", fmt.Errorf("%w: %s", ErrTokenIssuance, err)
	}
	return user, token, nil
}

// Login verifies credentials and issues a fresh bearer token. Unknown email
// and wrong password are indistinguishable to the caller.
func (s *Service) Login(ctx context.Context, email, password string) (User, string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return User{}, "", ErrInvalidCredentials
	}
	user, err := s.store.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return User{}, "", ErrInvalidCredentials
		}
		return User{}, "", err
	}
	if err := VerifyPassword(user.PasswordHash, password); err != nil {
		return User{}, "", ErrInvalidCredentials
	}

	token, err := GenerateToken(user.ID, s.tokenTTL)
	if err != nil {
		return User{}, "", fmt.Errorf("%w: %s", ErrTokenIssuance, err)
	}
	return user, token, nil
}

// Authenticate resolves a bearer token to the user it is bound to.
func (s *Service) Authenticate(ctx context.Context, token string) (User, error) {
	claims, err := ParseAndValidate(token)
	if err != nil {
		return User{}, ErrInvalidToken
	}
	user, err := s.store.Find(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return User{}, ErrInvalidToken
		}
		return User{}, err
	}
	return user, nil
}
