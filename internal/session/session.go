// Package session tracks the authenticated identity bound to a browser
// session. The binding is a signed token (the cookie value) plus a
// server-side registration in Redis; both are owned by Manager and no other
// package reads or writes session state directly.
package session

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	// CookieName is the browser cookie carrying the session token.
	CookieName = "inkwell_session"

	tokenIssuer   = "inkwell"
	tokenAudience = "inkwell-web"
	keyPrefix     = "session:"
)

// ErrNoSession is returned when a token is absent, malformed, expired,
// tampered with, or revoked on the server side.
var ErrNoSession = errors.New("no valid session")

// Manager issues, resolves, and revokes identity sessions.
type Manager struct {
	secret []byte
	ttl    time.Duration
	rdb    *redis.Client
}

// NewManager returns a session manager signing tokens with secret and
// registering them in rdb for ttl. rdb may be nil; then revocation is
// unavailable and signed tokens are trusted until expiry.
func NewManager(secret string, ttl time.Duration, rdb *redis.Client) *Manager {
	return &Manager{secret: []byte(secret), ttl: ttl, rdb: rdb}
}

// Issue binds a new session to the given user and returns the cookie value.
func (m *Manager) Issue(ctx context.Context, userID uint) (string, error) {
	if len(m.secret) == 0 {
		return "", fmt.Errorf("session secret not configured")
	}

	jti := uuid.NewString()
	now := time.Now()
	claims := jwt.MapClaims{
		"sub": strconv.FormatUint(uint64(userID), 10),
		"iss": tokenIssuer,
		"aud": tokenAudience,
		"jti": jti,
		"iat": now.Unix(),
		"exp": now.Add(m.ttl).Unix(),
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("sign session token: %w", err)
	}

	if m.rdb != nil {
		if err := m.rdb.Set(ctx, keyPrefix+jti, userID, m.ttl).Err(); err != nil {
			return "", fmt.Errorf("register session: %w", err)
		}
	}

	return token, nil
}

// Resolve returns the user ID a token is bound to. The signature and claims
// are verified first, then the server-side registration must still exist.
func (m *Manager) Resolve(ctx context.Context, tokenString string) (uint, error) {
	userID, jti, err := m.parse(tokenString)
	if err != nil {
		return 0, ErrNoSession
	}

	if m.rdb != nil {
		if err := m.rdb.Get(ctx, keyPrefix+jti).Err(); err != nil {
			// Revoked, expired server-side, or the store is unreachable;
			// a session we cannot confirm is treated as absent.
			return 0, ErrNoSession
		}
	}

	return userID, nil
}

// Revoke clears the server-side binding for a token. Revoking an invalid or
// already-revoked token is a no-op.
func (m *Manager) Revoke(ctx context.Context, tokenString string) {
	_, jti, err := m.parse(tokenString)
	if err != nil || m.rdb == nil {
		return
	}
	m.rdb.Del(ctx, keyPrefix+jti)
}

// TTL reports the configured session lifetime.
func (m *Manager) TTL() time.Duration {
	return m.ttl
}

func (m *Manager) parse(tokenString string) (uint, string, error) {
	if tokenString == "" {
		return 0, "", ErrNoSession
	}

	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
		}
		return m.secret, nil
	},
		jwt.WithIssuer(tokenIssuer),
		jwt.WithAudience(tokenAudience),
		jwt.WithExpirationRequired(),
	)
	if err != nil || !token.Valid {
		return 0, "", ErrNoSession
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return 0, "", ErrNoSession
	}

	sub, ok := claims["sub"].(string)
	if !ok {
		return 0, "", ErrNoSession
	}
	userID, err := strconv.ParseUint(sub, 10, 32)
	if err != nil {
		return 0, "", ErrNoSession
	}

	jti, ok := claims["jti"].(string)
	if !ok || jti == "" {
		return 0, "", ErrNoSession
	}

	return uint(userID), jti, nil
}
