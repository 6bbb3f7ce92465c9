package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/typerank/typerank-server/internal/domain"
	"github.com/typerank/typerank-server/internal/service"
)

func (s *Server) registerUserRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "updateProfile",
		Method:      http.MethodPut,
		Path:        "/api/v1/users/profile",
		Summary:     "Update profile",
		Description: "Sets the caller's username. Users with a username appear on leaderboards, including for earlier attempts.",
		Tags:        []string{"Users"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleUpdateProfile)

	huma.Register(s.api, huma.Operation{
		OperationID: "changePassword",
		Method:      http.MethodPut,
		Path:        "/api/v1/users/profile/password",
		Summary:     "Change password",
		Description: "Replaces the caller's password after checking the current one",
		Tags:        []string{"Users"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleChangePassword)

	huma.Register(s.api, huma.Operation{
		OperationID: "getUser",
		Method:      http.MethodGet,
		Path:        "/api/v1/users/{id}",
		Summary:     "Get user",
		Description: "Returns the public profile of a user",
		Tags:        []string{"Users"},
	}, s.handleGetUser)

	huma.Register(s.api, huma.Operation{
		OperationID: "deleteUserById",
		Method:      http.MethodDelete,
		Path:        "/api/v1/users/id/{id}",
		Summary:     "Delete user (admin)",
		Description: "Deletes a user and all of their attempts. Admin only.",
		Tags:        []string{"Admin"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleDeleteUserByID)

	huma.Register(s.api, huma.Operation{
		OperationID: "deleteUserByEmail",
		Method:      http.MethodDelete,
		Path:        "/api/v1/users/email",
		Summary:     "Delete user by email (admin)",
		Description: "Deletes the user with the given email and all of their attempts. Admin only.",
		Tags:        []string{"Admin"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleDeleteUserByEmail)
}

// UpdateProfileInput is the request for setting a username.
type UpdateProfileInput struct {
	Body service.UpdateProfileRequest
}

// ChangePasswordInput is the request for replacing a password.
type ChangePasswordInput struct {
	Body service.ChangePasswordRequest
}

// UserIDInput selects a user by ID.
type UserIDInput struct {
	ID string `path:"id" doc:"User ID"`
}

// DeleteUserByEmailInput selects the user to delete by email.
type DeleteUserByEmailInput struct {
	Body struct {
		Email string `json:"email" doc:"Email of the account to delete"`
	}
}

// PublicProfileOutput wraps a public profile for Huma.
type PublicProfileOutput struct {
	Body *domain.PublicProfile
}

// MessageOutput is a plain confirmation.
type MessageOutput struct {
	Body struct {
		Message string `json:"message"`
	}
}

func message(msg string) *MessageOutput {
	out := &MessageOutput{}
	out.Body.Message = msg
	return out
}

func (s *Server) handleUpdateProfile(ctx context.Context, input *UpdateProfileInput) (*UserOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	user, err := s.services.User.UpdateProfile(ctx, userID, input.Body)
	if err != nil {
		return nil, err
	}
	return &UserOutput{Body: user}, nil
}

func (s *Server) handleChangePassword(ctx context.Context, input *ChangePasswordInput) (*MessageOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.services.User.ChangePassword(ctx, userID, input.Body); err != nil {
		return nil, err
	}
	return message("password changed"), nil
}

func (s *Server) handleGetUser(ctx context.Context, input *UserIDInput) (*PublicProfileOutput, error) {
	profile, err := s.services.User.Get(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	return &PublicProfileOutput{Body: profile}, nil
}

func (s *Server) handleDeleteUserByID(ctx context.Context, input *UserIDInput) (*MessageOutput, error) {
	adminID, err := s.RequireAdmin(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.services.User.Delete(ctx, adminID, input.ID); err != nil {
		return nil, err
	}
	return message("user deleted"), nil
}

func (s *Server) handleDeleteUserByEmail(ctx context.Context, input *DeleteUserByEmailInput) (*MessageOutput, error) {
	adminID, err := s.RequireAdmin(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.services.User.DeleteByEmail(ctx, adminID, input.Body.Email); err != nil {
		return nil, err
	}
	return message("user deleted"), nil
}
