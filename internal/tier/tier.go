package tier

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Elite is the tier claim that unlocks the weekly reversal view
const Elite = "elite"

const issuer = "swinglab"

var (
	// ErrNoSecret is returned when no signing secret is configured
	ErrNoSecret = errors.New("tier secret not configured")
	// ErrNotElite is returned for a valid token without the elite claim
	ErrNotElite = errors.New("token does not grant elite tier")
)

// Claims is the payload of a tier token
type Claims struct {
	Tier string `json:"tier"`
	jwt.RegisteredClaims
}

// Mint issues an elite HS256 token for subject valid for ttl
func Mint(secret, subject string, ttl time.Duration) (string, error) {
	return mintAt(secret, subject, ttl, time.Now())
}

func mintAt(secret, subject string, ttl time.Duration, now time.Time) (string, error) {
	if secret == "" {
		return "", ErrNoSecret
	}
	if ttl <= 0 {
		return "", fmt.Errorf("ttl must be positive, got %s", ttl)
	}

	claims := Claims{
		Tier: Elite,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		return "", fmt.Errorf("signing token: %w", err)
	}
	return signed, nil
}

// Verify parses and validates a tier token. Only HS256 tokens issued by
// swinglab carrying the elite claim are accepted.
func Verify(secret, tokenString string) (*Claims, error) {
	if secret == "" {
		return nil, ErrNoSecret
	}

	claims := &Claims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		return []byte(secret), nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(issuer),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return nil, fmt.Errorf("verifying tier token: %w", err)
	}
	if claims.Tier != Elite {
		return nil, ErrNotElite
	}
	return claims, nil
}

// IsElite reports whether tokenString unlocks the elite tier
func IsElite(secret, tokenString string) bool {
	if tokenString == "" {
		return false
	}
	_, err := Verify(secret, tokenString)
	return err == nil
}
