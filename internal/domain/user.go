package domain

import "time"

// Role represents the user's permission level.
type Role string

const (
	// RoleUser is the default role.
	RoleUser Role = "USER"
	// RoleAdmin grants administrative access.
	RoleAdmin Role = "ADMIN"
)

// UserStatus represents the user's account status.
type UserStatus string

const (
	// UserStatusActive indicates the user can log in.
	UserStatusActive UserStatus = "ACTIVE"
	// UserStatusSuspended blocks login. Existing attempts are kept.
	UserStatusSuspended UserStatus = "SUSPENDED"
)

// User is a registered account.
type User struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	// Username is the public name. Users without one never appear on leaderboards.
	Username     string     `json:"username,omitempty"`
	PasswordHash string     `json:"-"`
	Role         Role       `json:"role"`
	Status       UserStatus `json:"status"`
	CreatedAt    time.Time  `json:"createdAt"`
	UpdatedAt    time.Time  `json:"updatedAt"`
}

// IsAdmin returns true if the user has administrative privileges.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// IsActive returns true if the user may log in.
func (u *User) IsActive() bool {
	return u.Status == UserStatusActive
}

// IsPublic returns true if the user is ranked on leaderboards.
func (u *User) IsPublic() bool {
	return u.Username != ""
}

// PublicProfile is the part of a user anyone may look up.
type PublicProfile struct {
	ID        string    `json:"id"`
	Username  string    `json:"username,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// Public returns the user's public profile.
func (u *User) Public() *PublicProfile {
	return &PublicProfile{ID: u.ID, Username: u.Username, CreatedAt: u.CreatedAt}
}
