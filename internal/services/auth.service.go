package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/nimasrn/trade-ledger/internal/model"
	"github.com/nimasrn/trade-ledger/internal/repository"
	"github.com/nimasrn/trade-ledger/pkg/logger"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidCredentials = fmt.Errorf("%w: invalid username or password", model.ErrUnauthorized)
	ErrSessionExpired     = fmt.Errorf("%w: session is missing or expired", model.ErrUnauthorized)
)

type UserRepository interface {
	Create(ctx context.Context, username, passwordHash string) (*model.User, error)
	GetByUsername(ctx context.Context, username string) (*model.User, error)
	Count(ctx context.Context) (int64, error)
}

type SessionRepository interface {
	Save(ctx context.Context, session *model.Session, ttl time.Duration) error
	Get(ctx context.Context, token string) (*model.Session, error)
	Delete(ctx context.Context, token string) error
}

// AuthService is the access gate: it checks credentials and issues and
// verifies session tokens.
type AuthService struct {
	users    UserRepository
	sessions SessionRepository
	ttl      time.Duration
	hashCost int
	now      func() time.Time
}

func NewAuthService(users UserRepository, sessions SessionRepository, ttl time.Duration) *AuthService {
	return &AuthService{
		users:    users,
		sessions: sessions,
		ttl:      ttl,
		hashCost: bcrypt.DefaultCost,
		now:      time.Now,
	}
}

// WithHashCost overrides the bcrypt cost. Tests use bcrypt.MinCost.
func (s *AuthService) WithHashCost(cost int) *AuthService {
	s.hashCost = cost
	return s
}

func (s *AuthService) Login(ctx context.Context, in model.LoginRequest) (*model.Session, error) {
	in.Username = strings.TrimSpace(in.Username)
	if err := model.Validate(in); err != nil {
		return nil, err
	}

	user, err := s.users.GetByUsername(ctx, in.Username)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			logger.Warn("login rejected", "username", in.Username, "reason", "unknown user")
			return nil, ErrInvalidCredentials
		}
		return nil, model.NewStorageError("login", err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)); err != nil {
		logger.Warn("login rejected", "username", in.Username, "reason", "bad password")
		return nil, ErrInvalidCredentials
	}

	session := &model.Session{
		Token:     uuid.NewString(),
		UserID:    user.ID,
		ExpiresAt: s.now().Add(s.ttl).UTC(),
	}
	if err := s.sessions.Save(ctx, session, s.ttl); err != nil {
		return nil, model.NewStorageError("save session", err)
	}
	logger.Info("user logged in", "user_id", user.ID)
	return session, nil
}

func (s *AuthService) Logout(ctx context.Context, token string) error {
	err := s.sessions.Delete(ctx, token)
	if err != nil && !errors.Is(err, repository.ErrSessionNotFound) {
		return model.NewStorageError("delete session", err)
	}
	return nil
}

// Authenticate resolves a session token. Unknown or expired tokens fail with
// an error matching model.ErrUnauthorized.
func (s *AuthService) Authenticate(ctx context.Context, token string) (*model.Session, error) {
	if token == "" {
		return nil, ErrSessionExpired
	}
	session, err := s.sessions.Get(ctx, token)
	if err != nil {
		if errors.Is(err, repository.ErrSessionNotFound) {
			return nil, ErrSessionExpired
		}
		return nil, model.NewStorageError("load session", err)
	}
	if !session.ExpiresAt.IsZero() && s.now().After(session.ExpiresAt) {
		return nil, ErrSessionExpired
	}
	return session, nil
}

func (s *AuthService) CreateUser(ctx context.Context, username, password string) (*model.User, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, model.NewValidationError("username", "is required")
	}
	if password == "" {
		return nil, model.NewValidationError("password", "is required")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.hashCost)
	if err != nil {
		return nil, model.NewValidationError("password", err.Error())
	}
	user, err := s.users.Create(ctx, username, string(hash))
	if err != nil {
		if errors.Is(err, repository.ErrDuplicateUsername) {
			return nil, model.NewValidationError("username", "is already taken")
		}
		return nil, model.NewStorageError("create user", err)
	}
	logger.Info("user created", "user_id", user.ID, "username", user.Username)
	return user, nil
}

// EnsureDefaultAdmin creates the bootstrap account when no user exists yet.
// It reports whether an account was created.
func (s *AuthService) EnsureDefaultAdmin(ctx context.Context, username, password string) (bool, error) {
	n, err := s.users.Count(ctx)
	if err != nil {
		return false, model.NewStorageError("count users", err)
	}
	if n > 0 {
		return false, nil
	}
	if _, err := s.CreateUser(ctx, username, password); err != nil {
		return false, err
	}
	logger.Warn("created default admin account; replace it with `cli user create` before production use",
		"username", username)
	return true, nil
}
