package security

import (
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"

	"github.com/taskhive/backend/domain"
)

// TokenConfig holds the signing parameters for bearer tokens. It is built once
// from application config and injected; the secret never lives in a global.
type TokenConfig struct {
	Secret string
	Issuer string
	TTL    time.Duration
}

// TokenClaims is what a verified token resolves to.
type TokenClaims struct {
	Subject   string
	TokenID   string
	ExpiresAt time.Time
}

// TokenService issues and verifies HMAC-signed bearer tokens. Tokens are
// self-contained: expiry is the only built-in invalidation, early revocation
// is handled by the denylist keyed on TokenID.
type TokenService struct {
	cfg TokenConfig
}

func NewTokenService(cfg TokenConfig) *TokenService {
	if cfg.TTL <= 0 {
		cfg.TTL = time.Hour
	}
	return &TokenService{cfg: cfg}
}

// Issue creates a signed token for the given subject (username).
func (s *TokenService) Issue(subject string) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   subject,
		Issuer:    s.cfg.Issuer,
		ID:        uuid.NewString(),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.cfg.TTL)),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.cfg.Secret))
}

// Verify parses and validates a token string. Malformed, tampered and expired
// tokens all fail the same way.
func (s *TokenService) Verify(tokenString string) (*TokenClaims, error) {
	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, domain.ErrInvalidToken
		}
		return []byte(s.cfg.Secret), nil
	})
	if err != nil || !token.Valid {
		return nil, domain.ErrInvalidToken
	}

	var expires time.Time
	if claims.ExpiresAt != nil {
		expires = claims.ExpiresAt.Time
	}

	return &TokenClaims{
		Subject:   claims.Subject,
		TokenID:   claims.ID,
		ExpiresAt: expires,
	}, nil
}
