package v1

import (
	"context"
	"errors"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/crypto/bcrypt"

	"github.com/duynhne/fishfile-service/internal/core/domain"
	"github.com/duynhne/fishfile-service/internal/logger"
	"github.com/duynhne/fishfile-service/middleware"
)

// TokenIssuer signs a token for an authenticated user.
type TokenIssuer interface {
	Generate(user domain.User) (string, error)
}

// UserService implements user accounts and credential checks.
// It depends on repository interfaces (injected via constructor) and
// MUST NOT access the database or SQL directly.
type UserService struct {
	users      domain.UserRepository
	tokens     TokenIssuer
	bcryptCost int
	// dummyHash is compared against when the user does not exist, so an
	// unknown username costs as much as a wrong password.
	dummyHash []byte
}

// NewUserService creates a new UserService hashing at bcryptCost.
func NewUserService(users domain.UserRepository, tokens TokenIssuer, bcryptCost int) (*UserService, error) {
	dummy, err := bcrypt.GenerateFromPassword([]byte("fishfile-dummy-password"), bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("bcrypt cost %d: %w", bcryptCost, err)
	}
	return &UserService{
		users:      users,
		tokens:     tokens,
		bcryptCost: bcryptCost,
		dummyHash:  dummy,
	}, nil
}

// Authenticate checks username and password. Unknown usernames and wrong
// passwords both fail with exactly ErrInvalidCredentials.
func (s *UserService) Authenticate(ctx context.Context, username, password string) (domain.User, error) {
	ctx, span := middleware.StartSpan(ctx, "user.authenticate", trace.WithAttributes(
		attribute.String("layer", "logic"),
		attribute.String("username", username),
	))
	defer span.End()

	user, hash, err := s.users.GetCredentials(ctx, username)
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			span.RecordError(err)
			return domain.User{}, fmt.Errorf("authenticate %q: %w", username, err)
		}
		_ = bcrypt.CompareHashAndPassword(s.dummyHash, []byte(password))
		span.SetAttributes(attribute.Bool("auth.success", false))
		return domain.User{}, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		span.SetAttributes(attribute.Bool("auth.success", false))
		span.AddEvent("authentication.failed")
		return domain.User{}, ErrInvalidCredentials
	}

	span.SetAttributes(attribute.Bool("auth.success", true))
	span.AddEvent("user.authenticated")
	return user, nil
}

// Login authenticates and issues a token.
func (s *UserService) Login(ctx context.Context, req domain.LoginRequest) (*domain.AuthResponse, error) {
	user, err := s.Authenticate(ctx, req.Username, req.Password)
	if err != nil {
		return nil, err
	}
	return s.respond(user)
}

// Register creates a user with a hashed password and issues a token for it.
// Whether the new user is an admin is taken from nu as given; callers
// decide who may set it.
func (s *UserService) Register(ctx context.Context, nu domain.NewUser) (*domain.AuthResponse, error) {
	ctx, span := middleware.StartSpan(ctx, "user.register", trace.WithAttributes(
		attribute.String("layer", "logic"),
		attribute.String("username", nu.Username),
		attribute.Bool("is_admin", nu.IsAdmin),
	))
	defer span.End()

	hash, err := s.hash(nu.Password)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	nu.Password = hash

	user, err := s.users.Create(ctx, nu)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("register user %q: %w", nu.Username, err)
	}

	logger.FromContext(ctx).Info().Str("username", user.Username).Bool("is_admin", user.IsAdmin).Msg("User registered")
	span.AddEvent("user.registered")
	return s.respond(user)
}

// Get returns a user with the ids of its locations and records.
func (s *UserService) Get(ctx context.Context, username string) (domain.User, error) {
	ctx, span := middleware.StartSpan(ctx, "user.get", trace.WithAttributes(
		attribute.String("layer", "logic"),
		attribute.String("username", username),
	))
	defer span.End()

	user, err := s.users.Get(ctx, username)
	if err != nil {
		span.RecordError(err)
		return domain.User{}, fmt.Errorf("get user: %w", err)
	}
	return user, nil
}

// FindAll lists every user.
func (s *UserService) FindAll(ctx context.Context) ([]domain.User, error) {
	ctx, span := middleware.StartSpan(ctx, "user.find_all", trace.WithAttributes(
		attribute.String("layer", "logic"),
	))
	defer span.End()

	users, err := s.users.FindAll(ctx)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("list users: %w", err)
	}
	span.SetAttributes(attribute.Int("user.count", len(users)))
	return users, nil
}

// Update applies a partial update on behalf of actor. Changing isAdmin
// requires an admin actor. A new password is hashed before it is stored;
// the returned User never carries a credential.
func (s *UserService) Update(ctx context.Context, actor domain.Identity, username string, upd domain.UserUpdate) (domain.User, error) {
	ctx, span := middleware.StartSpan(ctx, "user.update", trace.WithAttributes(
		attribute.String("layer", "logic"),
		attribute.String("username", username),
		attribute.String("actor", actor.Username),
		attribute.Bool("password_change", upd.Password != nil),
		attribute.Bool("admin_change", upd.IsAdmin != nil),
	))
	defer span.End()

	if upd.IsAdmin != nil {
		if err := EnsureAdmin(actor); err != nil {
			span.RecordError(err)
			logger.FromContext(ctx).Warn().
				Str("actor", actor.Username).
				Str("username", username).
				Msg("Rejected isAdmin change by non-admin")
			return domain.User{}, err
		}
	}

	if upd.Password != nil {
		hash, err := s.hash(*upd.Password)
		if err != nil {
			span.RecordError(err)
			return domain.User{}, err
		}
		upd.Password = &hash
	}

	user, err := s.users.Update(ctx, username, upd)
	if err != nil {
		span.RecordError(err)
		return domain.User{}, fmt.Errorf("update user: %w", err)
	}
	return user, nil
}

// Remove deletes a user together with its locations and records.
func (s *UserService) Remove(ctx context.Context, username string) error {
	ctx, span := middleware.StartSpan(ctx, "user.remove", trace.WithAttributes(
		attribute.String("layer", "logic"),
		attribute.String("username", username),
	))
	defer span.End()

	if err := s.users.Remove(ctx, username); err != nil {
		span.RecordError(err)
		return fmt.Errorf("remove user: %w", err)
	}
	logger.FromContext(ctx).Info().Str("username", username).Msg("User removed")
	return nil
}

func (s *UserService) hash(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return "", fmt.Errorf("password too long: %w", domain.ErrBadRequest)
		}
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

func (s *UserService) respond(user domain.User) (*domain.AuthResponse, error) {
	token, err := s.tokens.Generate(user)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}
	return &domain.AuthResponse{Token: token, User: user}, nil
}
