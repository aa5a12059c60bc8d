package services

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	AccessTokenTTL  = time.Hour
	RefreshTokenTTL = 14 * 24 * time.Hour
)

var (
	ErrMalformedToken    = errors.New("malformed token")
	ErrSignatureMismatch = errors.New("token signature mismatch")
	ErrTokenExpired      = errors.New("token expired")
)

// Claims are the identity assertions carried by access and refresh tokens.
type Claims struct {
	MemberID uint64 `json:"id"`
	Email    string `json:"email,omitempty"`
	jwt.RegisteredClaims
}

// TokenPair is the envelope returned by login and the OAuth callback.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// TokenService signs and verifies compact HS256 tokens. It is stateless: a
// pure function of its input and the secret injected at construction. The
// clock is injectable so expiry behaviour is testable.
type TokenService struct {
	secret []byte
	now    func() time.Time
}

func NewTokenService(secret []byte) *TokenService {
	return &TokenService{secret: secret, now: time.Now}
}

// Sign issues a token for the member with the given lifetime. Refresh tokens
// carry no email claim.
func (s *TokenService) Sign(memberID uint64, email string, ttl time.Duration) (string, error) {
	now := s.now()
	claims := Claims{
		MemberID: memberID,
		Email:    email,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

// IssuePair mints the standard access (1h) / refresh (14d) token pair.
func (s *TokenService) IssuePair(memberID uint64, email string) (*TokenPair, error) {
	access, err := s.Sign(memberID, email, AccessTokenTTL)
	if err != nil {
		return nil, err
	}
	refresh, err := s.Sign(memberID, "", RefreshTokenTTL)
	if err != nil {
		return nil, err
	}
	return &TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

// Verify parses and validates a token and returns its claims. Every failure
// means "unauthenticated" to the caller; none is retried.
func (s *TokenService) Verify(token string) (*Claims, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(token, claims,
		func(t *jwt.Token) (interface{}, error) { return s.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.now),
	)
	switch {
	case err == nil:
		return claims, nil
	case errors.Is(err, jwt.ErrTokenExpired):
		return nil, ErrTokenExpired
	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		return nil, ErrSignatureMismatch
	default:
		return nil, ErrMalformedToken
	}
}
