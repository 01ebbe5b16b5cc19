package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/pkg/errors"

	"watchshop/internal/apperrors"
)

// TokenTTL is the fixed lifetime of an identity token. There is no refresh;
// clients re-issue to extend a session.
const TokenTTL = 24 * time.Hour

// Identity is the payload a client asks to have signed.
type Identity struct {
	Email string `json:"email" binding:"required,email"`
	Name  string `json:"name,omitempty"`
}

// Claims is the decoded identity claim of a verified token.
type Claims struct {
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
	jwt.RegisteredClaims
}

// TokenService issues and verifies HS256 identity tokens.
type TokenService struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewTokenService(secret string) (*TokenService, error) {
	if secret == "" {
		return nil, errors.New("token secret must be provided")
	}
	return &TokenService{secret: []byte(secret), ttl: TokenTTL, now: time.Now}, nil
}

// Issue signs id with the server secret.
func (s *TokenService) Issue(id Identity) (string, error) {
	if id.Email == "" {
		return "", errors.New("identity email is required")
	}

	now := s.now()
	claims := Claims{
		Email: id.Email,
		Name:  id.Name,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", errors.Wrap(err, "sign token")
	}
	return signed, nil
}

// Verify checks signature and expiry. Every failure is reported as
// apperrors.ErrInvalidToken.
func (s *TokenService) Verify(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return s.secret, nil
	},
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil || !token.Valid {
		return nil, apperrors.ErrInvalidToken
	}
	if claims.Email == "" {
		return nil, apperrors.ErrInvalidToken
	}
	return claims, nil
}
