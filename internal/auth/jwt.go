package auth

import (
	"errors"
	"fmt"
	"time"

	"devlink_backend/internal/models"

	"github.com/golang-jwt/jwt/v5"
)

const issuer = "devlink"

// Claims is the access-token payload. Role, Approved and IsAdmin are a
// snapshot taken at issue time: admin-driven changes only land on the next
// token refresh.
type Claims struct {
	Role     models.UserRole `json:"role"`
	Approved bool            `json:"approved"`
	IsAdmin  bool            `json:"is_admin"`
	jwt.RegisteredClaims
}

// UserID returns the account id carried in the subject claim.
func (c *Claims) UserID() string {
	return c.Subject
}

// TokenService signs and verifies HS256 access tokens.
type TokenService struct {
	secret []byte
	ttl    time.Duration
}

func NewTokenService(secret string, ttl time.Duration) (*TokenService, error) {
	if len(secret) < 16 {
		return nil, errors.New("auth: JWT secret must be at least 16 characters")
	}
	if ttl <= 0 {
		ttl = 15 * time.Minute
	}
	return &TokenService{secret: []byte(secret), ttl: ttl}, nil
}

// Generate copies the account's authorization-critical fields onto a signed
// token.
func (s *TokenService) Generate(user *models.User) (string, error) {
	now := time.Now()

	c := Claims{
		Role:     user.Role,
		Approved: user.Approved,
		IsAdmin:  user.IsAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
			Issuer:    issuer,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, c)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("auth: signing token: %w", err)
	}

	return signed, nil
}

// Validate parses and verifies a token string. Restricting the accepted
// methods to HS256 closes the algorithm-confusion hole.
func (s *TokenService) Validate(tokenStr string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(
		tokenStr,
		&Claims{},
		func(token *jwt.Token) (any, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("auth: unexpected signing method: %v", token.Header["alg"])
			}
			return s.secret, nil
		},
		jwt.WithValidMethods([]string{"HS256"}),
		jwt.WithIssuer(issuer),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, errors.New("auth: token expired")
		}
		return nil, fmt.Errorf("auth: invalid token: %w", err)
	}

	c, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, errors.New("auth: invalid token claims")
	}
	if c.Subject == "" {
		return nil, errors.New("auth: token has no subject")
	}

	return c, nil
}
