package service

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/99minutos/forum-system/internal/core/domain"
	"github.com/99minutos/forum-system/internal/core/ports"
)

const defaultTokenTTL = 30 * time.Minute

// AuthService implements signup, login, logout and session validation.
//
// A request is authenticated only when its token verifies cryptographically
// AND the session cache still holds that exact token for the account. The
// cache is the authority on liveness, so logout and a newer login revoke a
// token before it expires.
type AuthService struct {
	accounts ports.AccountRepository
	sessions ports.SessionCache
	tokens   ports.TokenCodec
	hasher   ports.PasswordHasher
	tokenTTL time.Duration
	log      zerolog.Logger
}

func NewAuthService(
	accounts ports.AccountRepository,
	sessions ports.SessionCache,
	tokens ports.TokenCodec,
	hasher ports.PasswordHasher,
	tokenTTL time.Duration,
	log zerolog.Logger,
) *AuthService {
	if tokenTTL <= 0 {
		tokenTTL = defaultTokenTTL
	}
	return &AuthService{
		accounts: accounts,
		sessions: sessions,
		tokens:   tokens,
		hasher:   hasher,
		tokenTTL: tokenTTL,
		log:      log,
	}
}

func (s *AuthService) Signup(ctx context.Context, in ports.SignupInput) (*domain.Account, error) {
	email := domain.NormalizeEmail(in.Email)
	fullName := strings.TrimSpace(in.FullName)
	if email == "" || in.Password == "" {
		return nil, fmt.Errorf("%w: email and password are required", domain.ErrInvalidInput)
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, fmt.Errorf("signup: hash password: %w", err)
	}

	account, err := s.accounts.Create(ctx, &domain.Account{
		Email:        email,
		FullName:     fullName,
		PasswordHash: hash,
		CreatedAt:    time.Now().UTC(),
	})
	if err != nil {
		return nil, err
	}

	s.log.Info().Int64("account_id", account.ID).Msg("account created")
	return account, nil
}

// Login checks the credentials and starts a session, replacing any session the
// account already had.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, *domain.Account, error) {
	email = domain.NormalizeEmail(email)
	if email == "" || password == "" {
		return "", nil, domain.ErrInvalidCredentials
	}

	account, err := s.accounts.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrAccountNotFound) {
			return "", nil, domain.ErrInvalidCredentials
		}
		return "", nil, err
	}

	if !s.hasher.Verify(password, account.PasswordHash) {
		return "", nil, domain.ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(account.ID, s.tokenTTL)
	if err != nil {
		return "", nil, fmt.Errorf("login: issue token: %w", err)
	}

	if err := s.sessions.Put(ctx, account.ID, token, s.tokenTTL); err != nil {
		return "", nil, err
	}

	s.log.Info().Int64("account_id", account.ID).Msg("session started")
	return token, account, nil
}

// Logout drops the account's session. Logging out without a session is not an
// error.
func (s *AuthService) Logout(ctx context.Context, accountID int64) error {
	if err := s.sessions.Delete(ctx, accountID); err != nil {
		return err
	}
	s.log.Info().Int64("account_id", accountID).Msg("session ended")
	return nil
}

// Validate resolves a bearer token to its account.
func (s *AuthService) Validate(ctx context.Context, token string) (*domain.Account, error) {
	accountID, err := s.tokens.Verify(token)
	if err != nil {
		return nil, domain.ErrUnauthenticated
	}

	cached, found, err := s.sessions.Get(ctx, accountID)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, domain.ErrSessionExpired
	}
	if subtle.ConstantTimeCompare([]byte(cached), []byte(token)) != 1 {
		s.log.Debug().Int64("account_id", accountID).Msg("superseded token presented")
		return nil, domain.ErrSessionExpired
	}

	account, err := s.accounts.FindByID(ctx, accountID)
	if err != nil {
		return nil, err
	}
	return account, nil
}
