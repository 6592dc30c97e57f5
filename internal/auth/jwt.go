package auth

import (
	"errors"
	"time"

	"github.com/apexeduai/vault-backend/internal/models"
	"github.com/golang-jwt/jwt/v5"
)

var ErrInvalidToken = errors.New("invalid token")

type TokenManager struct {
	secret []byte
	issuer string
	now    func() time.Time
}

func NewTokenManager(secret, issuer string) *TokenManager {
	return &TokenManager{secret: []byte(secret), issuer: issuer, now: time.Now}
}

type Claims struct {
	Phone string `json:"phone"`
	jwt.RegisteredClaims
}

// Issue mints a bearer token whose lifetime is clamped to the user's access
// window: min(requested, expiry-now), floored at zero. An expired or
// never-subscribed user gets an already-expired token, not an error.
func (tm *TokenManager) Issue(u models.User, requested time.Duration) (string, time.Time, error) {
	now := tm.now()

	ttl := requested
	if u.ExpiryDate == nil {
		ttl = 0
	} else if remain := u.ExpiryDate.Sub(now); remain < ttl {
		ttl = remain
	}
	if ttl < 0 {
		ttl = 0
	}

	claims := Claims{
		Phone: u.PhoneNumber,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    tm.issuer,
			Subject:   u.PhoneNumber,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := tok.SignedString(tm.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, claims.ExpiresAt.Time, nil
}

// Parse validates the signature and expiry. The caller still owns the live
// datastore check; a valid token alone never grants access.
func (tm *TokenManager) Parse(tokenStr string) (*Claims, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (any, error) {
		return tm.secret, nil
	})
	if err != nil || claims.Phone == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
