package usecase

import (
	"errors"
	"time"

	"leafscan-backend/pkg/apperr"

	"github.com/golang-jwt/jwt/v5"
)

// Claims is the signed payload of a bearer token.
type Claims struct {
	UserID string `json:"user_id"`
	jwt.RegisteredClaims
}

// TokenIssuer mints and verifies HS256 bearer tokens. It holds no state
// besides the shared secret, so any process with the secret can verify.
type TokenIssuer struct {
	secret []byte
	expiry time.Duration
	now    func() time.Time
}

func NewTokenIssuer(secret string, expiry time.Duration) *TokenIssuer {
	return &TokenIssuer{
		secret: []byte(secret),
		expiry: expiry,
		now:    time.Now,
	}
}

// Mint returns a signed token for userID and its expiry time.
func (t *TokenIssuer) Mint(userID string) (string, time.Time, error) {
	now := t.now()
	expiresAt := now.Add(t.expiry)
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	})

	signed, err := token.SignedString(t.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expiresAt, nil
}

// Parse verifies the signature and expiry and returns the embedded user id.
func (t *TokenIssuer) Parse(tokenString string) (string, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(*jwt.Token) (interface{}, error) {
		return t.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(t.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", apperr.New(apperr.KindExpiredToken, "Token has expired")
		}
		return "", apperr.Wrap(apperr.KindInvalidToken, "Token is invalid", err)
	}
	if !token.Valid || claims.UserID == "" {
		return "", apperr.New(apperr.KindInvalidToken, "Token is invalid")
	}
	return claims.UserID, nil
}
