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

// UpdateProfileRequest sets the public username. Setting one makes the user
// eligible for leaderboards, including for attempts recorded before.
type UpdateProfileRequest struct {
	Username string `json:"username" validate:"required,min=3,max=30" doc:"Public display name"`
}

// ChangePasswordRequest replaces the caller's password.
type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" validate:"required" doc:"Current password"`
	NewPassword     string `json:"newPassword" validate:"required,min=8,max=1024" doc:"New password (8+ characters)"`
	ConfirmPassword string `json:"confirmPassword" validate:"required,eqfield=NewPassword" doc:"New password again"`
}

// UserService manages accounts after registration: public lookups, profile
// and password changes, and deletion.
type UserService struct {
	store  store.Store
	logger *slog.Logger
	hash   func(password string) (string, error)
	now    func() time.Time
}

// NewUserService creates a new user service.
func NewUserService(store store.Store, logger *slog.Logger) *UserService {
	return &UserService{
		store:  store,
		logger: logger,
		hash:   auth.HashPassword,
		now:    time.Now,
	}
}

// Get returns the public profile of a user.
func (s *UserService) Get(ctx context.Context, userID string) (*domain.PublicProfile, error) {
	if !id.Valid(id.PrefixUser, userID) {
		return nil, domainerrors.InvalidInputf("malformed user id %q", userID)
	}

	user, err := s.store.GetUser(ctx, userID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, domainerrors.NotFoundf("user %s not found", userID)
	}
	if err != nil {
		s.logger.Error("load user failed", "user_id", userID, "error", err)
		return nil, domainerrors.Internal(err)
	}
	return user.Public(), nil
}

// UpdateProfile sets the caller's public username.
func (s *UserService) UpdateProfile(ctx context.Context, userID string, req UpdateProfileRequest) (*domain.User, error) {
	req.Username = normalize.Username(req.Username)
	if err := validate.Validate(req); err != nil {
		return nil, err
	}

	user, err := s.current(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user.Username == req.Username {
		return user, nil
	}

	previous := user.Username
	user.Username = req.Username
	user.UpdatedAt = s.now()

	if err := s.store.UpdateUser(ctx, user); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return nil, domainerrors.AlreadyExists("username already taken")
		}
		s.logger.Error("update user failed", "user_id", userID, "error", err)
		return nil, domainerrors.Internal(err)
	}

	s.logger.Info("profile updated",
		"user_id", userID,
		"became_public", previous == "",
	)
	return user, nil
}

// ChangePassword verifies the current password and stores a new hash.
// Access tokens issued earlier stay valid until they expire.
func (s *UserService) ChangePassword(ctx context.Context, userID string, req ChangePasswordRequest) error {
	if err := validate.Validate(req); err != nil {
		return err
	}

	user, err := s.current(ctx, userID)
	if err != nil {
		return err
	}

	if !auth.VerifyPassword(user.PasswordHash, req.CurrentPassword) {
		return domainerrors.InvalidInputWithDetails("validation failed",
			map[string]string{"currentPassword": "is incorrect"})
	}
	if req.NewPassword == req.CurrentPassword {
		return domainerrors.InvalidInputWithDetails("validation failed",
			map[string]string{"newPassword": "must differ from the current password"})
	}

	hash, err := s.hash(req.NewPassword)
	if err != nil {
		return domainerrors.Internal(err)
	}
	user.PasswordHash = hash
	user.UpdatedAt = s.now()

	if err := s.store.UpdateUser(ctx, user); err != nil {
		s.logger.Error("update password failed", "user_id", userID, "error", err)
		return domainerrors.Internal(err)
	}

	s.logger.Info("password changed", "user_id", userID)
	return nil
}

// SetRole changes the role of the user with the given email.
func (s *UserService) SetRole(ctx context.Context, email string, role domain.Role) (*domain.User, error) {
	if role != domain.RoleUser && role != domain.RoleAdmin {
		return nil, domainerrors.InvalidInputf("unknown role %q", role)
	}

	user, err := s.byEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if user.Role == role {
		return user, nil
	}

	user.Role = role
	user.UpdatedAt = s.now()
	if err := s.store.UpdateUser(ctx, user); err != nil {
		s.logger.Error("update role failed", "user_id", user.ID, "error", err)
		return nil, domainerrors.Internal(err)
	}

	s.logger.Info("user role changed", "user_id", user.ID, "role", role)
	return user, nil
}

// Delete removes a user and, with them, all of their attempts.
// Callers cannot delete their own account.
func (s *UserService) Delete(ctx context.Context, actorID, targetID string) error {
	if actorID == targetID {
		return domainerrors.InvalidInput("cannot delete your own account")
	}
	if !id.Valid(id.PrefixUser, targetID) {
		return domainerrors.InvalidInputf("malformed user id %q", targetID)
	}

	err := s.store.DeleteUser(ctx, targetID)
	if errors.Is(err, store.ErrNotFound) {
		return domainerrors.NotFoundf("user %s not found", targetID)
	}
	if err != nil {
		s.logger.Error("delete user failed", "user_id", targetID, "error", err)
		return domainerrors.Internal(err)
	}

	s.logger.Info("user deleted", "user_id", targetID, "deleted_by", actorID)
	return nil
}

// DeleteByEmail resolves the email and deletes that user.
func (s *UserService) DeleteByEmail(ctx context.Context, actorID, email string) error {
	user, err := s.byEmail(ctx, email)
	if err != nil {
		return err
	}
	return s.Delete(ctx, actorID, user.ID)
}

// current loads the caller. A token for a deleted account is unauthorized.
func (s *UserService) current(ctx context.Context, userID string) (*domain.User, error) {
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

func (s *UserService) byEmail(ctx context.Context, email string) (*domain.User, error) {
	email = normalize.Email(email)
	if err := validate.Validate(struct {
		Email string `json:"email" validate:"required,email"`
	}{email}); err != nil {
		return nil, err
	}

	user, err := s.store.GetUserByEmail(ctx, email)
	if errors.Is(err, store.ErrNotFound) {
		return nil, domainerrors.NotFoundf("user with email %s not found", email)
	}
	if err != nil {
		s.logger.Error("lookup user failed", "error", err)
		return nil, domainerrors.Internal(err)
	}
	return user, nil
}
