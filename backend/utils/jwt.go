package utils

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	AccessTokenType   = "access_token"
	MinSecretBytes    = 32
	DefaultTokenTTL   = 60 * time.Minute
	defaultSigningAlg = "HS256"
)

// ErrInvalidToken is the only error Verify ever returns.
var ErrInvalidToken = errors.New("invalid token")

type TokenConfig struct {
	Secret    []byte
	Algorithm string
	Lifetime  time.Duration
}

type Claims struct {
	Type string `json:"type"`
	jwt.RegisteredClaims
}

// TokenService mints and checks HMAC-signed access tokens. It holds no mutable state.
type TokenService struct {
	secret   []byte
	method   *jwt.SigningMethodHMAC
	lifetime time.Duration
	now      func() time.Time
}

func NewTokenService(cfg TokenConfig, now func() time.Time) (*TokenService, error) {
	if len(cfg.Secret) < MinSecretBytes {
		return nil, fmt.Errorf("token secret must be at least %d bytes", MinSecretBytes)
	}

	alg := strings.ToUpper(strings.TrimSpace(cfg.Algorithm))
	if alg == "" {
		alg = defaultSigningAlg
	}
	method, ok := jwt.GetSigningMethod(alg).(*jwt.SigningMethodHMAC)
	if !ok {
		return nil, fmt.Errorf("unsupported token algorithm %q", cfg.Algorithm)
	}

	lifetime := cfg.Lifetime
	if lifetime == 0 {
		lifetime = DefaultTokenTTL
	}
	if lifetime < 0 {
		return nil, errors.New("token lifetime must be positive")
	}
	if now == nil {
		now = time.Now
	}

	secret := make([]byte, len(cfg.Secret))
	copy(secret, cfg.Secret)

	return &TokenService{secret: secret, method: method, lifetime: lifetime, now: now}, nil
}

func (s *TokenService) Lifetime() time.Duration {
	return s.lifetime
}

// Issue signs an access token for subject using the configured lifetime.
func (s *TokenService) Issue(subject string) (string, time.Time, error) {
	return s.IssueWithLifetime(subject, s.lifetime)
}

func (s *TokenService) IssueWithLifetime(subject string, lifetime time.Duration) (string, time.Time, error) {
	if strings.TrimSpace(subject) == "" {
		return "", time.Time{}, errors.New("token subject is required")
	}
	if lifetime <= 0 {
		return "", time.Time{}, errors.New("token lifetime must be positive")
	}

	// NumericDate has second precision; truncating here keeps exp exactly iat+lifetime.
	issuedAt := s.now().Truncate(time.Second)
	expiresAt := issuedAt.Add(lifetime)

	claims := Claims{
		Type: AccessTokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	tokenString, err := jwt.NewWithClaims(s.method, claims).SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign token: %w", err)
	}
	return tokenString, expiresAt, nil
}

// Verify returns the token subject, or ErrInvalidToken for any defect. The specific
// cause is logged and never returned.
func (s *TokenService) Verify(tokenString string) (string, error) {
	subject, cause := s.verify(tokenString)
	if cause != nil {
		log.Printf("Token rejected: %v", cause)
		return "", ErrInvalidToken
	}
	return subject, nil
}

func (s *TokenService) verify(tokenString string) (string, error) {
	if strings.TrimSpace(tokenString) == "" {
		return "", errors.New("empty token")
	}

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{s.method.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithIssuedAt(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return "", err
	}
	if !token.Valid {
		return "", errors.New("token not valid")
	}
	if claims.Type != AccessTokenType {
		return "", fmt.Errorf("unexpected token type %q", claims.Type)
	}
	if strings.TrimSpace(claims.Subject) == "" {
		return "", errors.New("missing subject")
	}
	return claims.Subject, nil
}
