package helpers

import (
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	// ErrMissingSecret means the manager was built without a signing key.
	ErrMissingSecret = errors.New("jwt signing secret is not configured")
	// ErrTokenInvalid covers bad signatures, wrong algorithms and unparsable tokens.
	ErrTokenInvalid = errors.New("invalid token")
	// ErrTokenExpired is returned once the validity window has passed.
	ErrTokenExpired = errors.New("token expired")
	// ErrTokenMalformed is returned when a correctly signed token has no user id.
	ErrTokenMalformed = errors.New("malformed token payload")
)

// DefaultTokenTTL is the validity window of identity tokens.
const DefaultTokenTTL = 3 * time.Hour

// JWTManager issues and verifies HS256 identity tokens.
type JWTManager struct {
	Secret []byte
	TTL    time.Duration

	now func() time.Time
}

// NewJWTManager fails with ErrMissingSecret if secret is blank.
func NewJWTManager(secret string, ttl time.Duration) (*JWTManager, error) {
	if strings.TrimSpace(secret) == "" {
		return nil, ErrMissingSecret
	}
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	return &JWTManager{Secret: []byte(secret), TTL: ttl, now: time.Now}, nil
}

// WithClock returns a copy of m that reads time from now. Used by tests.
func (m *JWTManager) WithClock(now func() time.Time) *JWTManager {
	cp := *m
	cp.now = now
	return &cp
}

// Claims is the identity payload: {id, email, username}.
type Claims struct {
	UserID   string `json:"id"`
	Email    string `json:"email"`
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// Identity is the verified subject of a token.
type Identity struct {
	UserID   string
	Email    string
	Username string
}

// Issue signs a token for the given identity that expires TTL from now.
func (m *JWTManager) Issue(id Identity) (string, time.Time, error) {
	if len(m.Secret) == 0 {
		return "", time.Time{}, ErrMissingSecret
	}
	now := m.now()
	exp := now.Add(m.TTL)
	claims := &Claims{
		UserID:   id.UserID,
		Email:    id.Email,
		Username: id.Username,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(exp),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	s, err := t.SignedString(m.Secret)
	return s, exp, err
}

// Verify checks signature and expiry and decodes the identity.
// Only the user id is mandatory in the payload.
func (m *JWTManager) Verify(tokenStr string) (Identity, error) {
	claims := &Claims{}
	tkn, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return m.Secret, nil
	}, jwt.WithTimeFunc(m.now), jwt.WithExpirationRequired())
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return Identity{}, ErrTokenExpired
		}
		return Identity{}, ErrTokenInvalid
	}
	if !tkn.Valid {
		return Identity{}, ErrTokenInvalid
	}
	if strings.TrimSpace(claims.UserID) == "" {
		return Identity{}, ErrTokenMalformed
	}
	return Identity{UserID: claims.UserID, Email: claims.Email, Username: claims.Username}, nil
}
