package auth

import (
	"context"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
)

// ErrAuthentication is the single error surfaced for any handshake
// failure. Expired, malformed and unknown-user cases are deliberately
// indistinguishable to the caller.
var ErrAuthentication = errors.New("invalid authentication token")

// Identity is the authenticated user profile attached to a connection.
// It is resolved once at handshake time and never refreshed for the
// lifetime of that connection.
type Identity struct {
	UserID string
	Email  string
	Name   string
	Role   string
	Active bool
}

// UserLookup resolves the decoded token subject to a full identity.
// Implemented by the user service; the password column never crosses
// this boundary.
type UserLookup interface {
	FindIdentity(ctx context.Context, userID string) (Identity, error)
}

type userClaims struct {
	ID   string `json:"id"`
	Role string `json:"role"`
	jwt.RegisteredClaims
}

type Verifier struct {
	secret []byte
	users  UserLookup
}

func NewVerifier(secret string, users UserLookup) *Verifier {
	return &Verifier{secret: []byte(secret), users: users}
}

// Verify turns a raw credential into an Identity or fails with
// ErrAuthentication.
func (v *Verifier) Verify(ctx context.Context, token string) (Identity, error) {
	if token == "" {
		return Identity{}, ErrAuthentication
	}

	parsed, err := jwt.ParseWithClaims(token, &userClaims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return v.secret, nil
	})
	if err != nil || !parsed.Valid {
		return Identity{}, ErrAuthentication
	}

	claims, ok := parsed.Claims.(*userClaims)
	if !ok || claims.ID == "" {
		return Identity{}, ErrAuthentication
	}

	identity, err := v.users.FindIdentity(ctx, claims.ID)
	if err != nil {
		zap.L().Debug("auth.user_lookup_failed", zap.String("user_id", claims.ID), zap.Error(err))
		return Identity{}, ErrAuthentication
	}
	return identity, nil
}

// Sign issues an HMAC token carrying the user id and role, expiring
// after ttl. Used by the sign-in endpoint.
func Sign(secret, userID, role string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := userClaims{
		ID:   userID,
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}
