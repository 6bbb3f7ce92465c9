package auth

import (
	"errors"
	"fmt"
	"time"

	"aidanwoods.dev/go-paseto"

	"github.com/typerank/typerank-server/internal/domain"
	"github.com/typerank/typerank-server/internal/id"
)

const (
	tokenIssuer   = "typerank-server"
	tokenAudience = "typerank-client"
)

// ErrInvalidToken is returned for tokens that fail decryption or claim checks.
var ErrInvalidToken = errors.New("invalid token")

// Claims are the identity fields carried by an access token.
type Claims struct {
	UserID    string
	Email     string
	Role      domain.Role
	ExpiresAt time.Time
}

// TokenService issues and verifies PASETO v4.local access tokens.
type TokenService struct {
	key      paseto.V4SymmetricKey
	duration time.Duration
	now      func() time.Time
}

// NewTokenService creates a token service from a 32-byte key.
func NewTokenService(key []byte, duration time.Duration) (*TokenService, error) {
	if duration <= 0 {
		return nil, errors.New("access token duration must be positive")
	}
	k, err := paseto.V4SymmetricKeyFromBytes(key)
	if err != nil {
		return nil, fmt.Errorf("create PASETO key: %w", err)
	}
	return &TokenService{key: k, duration: duration, now: time.Now}, nil
}

// Issue creates an encrypted access token for user.
func (s *TokenService) Issue(user *domain.User) (string, time.Time, error) {
	now := s.now()
	expires := now.Add(s.duration)

	tokenID, err := id.Generate(id.PrefixToken)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("generate token id: %w", err)
	}

	token := paseto.NewToken()
	token.SetIssuer(tokenIssuer)
	token.SetAudience(tokenAudience)
	token.SetSubject(user.ID)
	token.SetIssuedAt(now)
	token.SetNotBefore(now)
	token.SetExpiration(expires)
	token.SetJti(tokenID)
	token.SetString("email", user.Email)
	token.SetString("role", string(user.Role))

	return token.V4Encrypt(s.key, nil), expires, nil
}

// Verify decrypts token and checks issuer, audience and validity window.
func (s *TokenService) Verify(token string) (*Claims, error) {
	parser := paseto.NewParserWithoutExpiryCheck()
	parser.AddRule(paseto.IssuedBy(tokenIssuer))
	parser.AddRule(paseto.ForAudience(tokenAudience))
	parser.AddRule(paseto.ValidAt(s.now()))

	parsed, err := parser.ParseV4Local(s.key, token, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	var c Claims
	if c.UserID, err = parsed.GetSubject(); err != nil {
		return nil, fmt.Errorf("%w: missing subject", ErrInvalidToken)
	}
	if c.ExpiresAt, err = parsed.GetExpiration(); err != nil {
		return nil, fmt.Errorf("%w: missing expiration", ErrInvalidToken)
	}
	c.Email, _ = parsed.GetString("email")
	role, _ := parsed.GetString("role")
	c.Role = domain.Role(role)

	return &c, nil
}

// Duration returns the configured access token lifetime.
func (s *TokenService) Duration() time.Duration {
	return s.duration
}
