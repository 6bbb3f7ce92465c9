package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/typerank/typerank-server/internal/auth"
	"github.com/typerank/typerank-server/internal/domain"
	domainerrors "github.com/typerank/typerank-server/internal/errors"
	"github.com/typerank/typerank-server/internal/id"
	"github.com/typerank/typerank-server/internal/normalize"
	"github.com/typerank/typerank-server/internal/store"
)

// RegisterRequest contains new account data. Accounts without a username
// can submit attempts but never appear on leaderboards.
type RegisterRequest struct {
	Email    string `json:"email" validate:"required,email,max=254" doc:"Login email"`
	Password string `json:"password" validate:"required,min=8,max=1024" doc:"Password (8+ characters)"`
	Username string `json:"username,omitempty" validate:"omitempty,min=3,max=30" doc:"Public display name"`
}

// LoginRequest contains user credentials.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email" doc:"Login email"`
	Password string `json:"password" validate:"required" doc:"Password"`
}

// AuthResponse contains an access token and the authenticated user.
type AuthResponse struct {
	User        *domain.User `json:"user"`
	AccessToken string       `json:"accessToken"`
	ExpiresAt   time.Time    `json:"expiresAt"`
}

// AuthService registers users, checks credentials and resolves access tokens.
type AuthService struct {
	store  store.Store
	tokens *auth.TokenService
	logger *slog.Logger
	hash   func(password string) (string, error)
	now    func() time.Time
}

// NewAuthService creates a new authentication service.
func NewAuthService(store store.Store, tokens *auth.TokenService, logger *slog.Logger) *AuthService {
	return &AuthService{
		store:  store,
		tokens: tokens,
		logger: logger,
		hash:   auth.HashPassword,
		now:    time.Now,
	}
}

// Register creates an account and signs it in.
func (s *AuthService) Register(ctx context.Context, req RegisterRequest) (*AuthResponse, error) {
	req.Email = normalize.Email(req.Email)
	req.Username = normalize.Username(req.Username)
	if err := validate.Validate(req); err != nil {
		return nil, err
	}

	passwordHash, err := s.hash(req.Password)
	if err != nil {
		return nil, domainerrors.Internal(err)
	}

	userID, err := id.Generate(id.PrefixUser)
	if err != nil {
		return nil, domainerrors.Internal(err)
	}

	now := s.now()
	user := &domain.User{
		ID:           userID,
		Email:        req.Email,
		Username:     req.Username,
		PasswordHash: passwordHash,
		Role:         domain.RoleUser,
		Status:       domain.UserStatusActive,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.store.CreateUser(ctx, user); err != nil {
		var conflict *store.ConflictError
		if errors.As(err, &conflict) {
			if conflict.Field == "username" {
				return nil, domainerrors.AlreadyExists("username already taken")
			}
			return nil, domainerrors.AlreadyExists("email already in use")
		}
		s.logger.Error("create user failed", "error", err)
		return nil, domainerrors.Internal(err)
	}

	s.logger.Info("user registered", "user_id", user.ID, "public", user.IsPublic())

	return s.signIn(user)
}

// Login checks credentials and issues an access token.
func (s *AuthService) Login(ctx context.Context, req LoginRequest) (*AuthResponse, error) {
	req.Email = normalize.Email(req.Email)
	if err := validate.Validate(req); err != nil {
		return nil, err
	}

	user, err := s.store.GetUserByEmail(ctx, req.Email)
	if errors.Is(err, store.ErrNotFound) {
		return nil, domainerrors.InvalidCredentials("invalid email or password")
	}
	if err != nil {
		s.logger.Error("lookup user failed", "error", err)
		return nil, domainerrors.Internal(err)
	}

	if !auth.VerifyPassword(user.PasswordHash, req.Password) {
		return nil, domainerrors.InvalidCredentials("invalid email or password")
	}
	if !user.IsActive() {
		return nil, domainerrors.Forbidden("account is suspended")
	}

	s.logger.Info("user logged in", "user_id", user.ID)

	return s.signIn(user)
}

// Me returns the user behind an authenticated request.
func (s *AuthService) Me(ctx context.Context, userID string) (*domain.User, error) {
	user, err := s.store.GetUser(ctx, userID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, domainerrors.Unauthorized("account no longer exists")
	}
	if err != nil {
		s.logger.Error("load user failed", "user_id", userID, "error", err)
		return nil, domainerrors.Internal(err)
	}
	return user, nil
}

// Authenticate resolves an access token to an active user.
func (s *AuthService) Authenticate(ctx context.Context, token string) (*domain.User, error) {
	claims, err := s.tokens.Verify(token)
	if err != nil {
		return nil, domainerrors.Unauthorized("invalid or expired token")
	}

	user, err := s.Me(ctx, claims.UserID)
	if err != nil {
		return nil, err
	}
	if !user.IsActive() {
		return nil, domainerrors.Forbidden("account is suspended")
	}
	return user, nil
}

func (s *AuthService) signIn(user *domain.User) (*AuthResponse, error) {
	token, expires, err := s.tokens.Issue(user)
	if err != nil {
		s.logger.Error("issue token failed", "user_id", user.ID, "error", err)
		return nil, domainerrors.Internal(err)
	}
	return &AuthResponse{User: user, AccessToken: token, ExpiresAt: expires}, nil
}
