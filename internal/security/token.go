package security

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// CookieClaims is the payload of the signed portal session cookie. The
// cookie carries only the session id; the profile lives in the session
// store.
type CookieClaims struct {
	SessionID string `json:"sid"`
	jwt.RegisteredClaims
}

func SignSessionCookie(secret, sessionID string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := CookieClaims{
		SessionID: sessionID,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			ID:        sessionID,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS512, claims)
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		return "", fmt.Errorf("sign session cookie: %w", err)
	}
	return signed, nil
}

func ParseSessionCookie(value, secret string) (string, error) {
	token, err := jwt.ParseWithClaims(value, &CookieClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return "", err
	}
	claims, ok := token.Claims.(*CookieClaims)
	if !ok || !token.Valid || claims.SessionID == "" {
		return "", fmt.Errorf("invalid session cookie")
	}
	return claims.SessionID, nil
}
