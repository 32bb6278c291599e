package auth

import (
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"

	"github.com/keerthi-manne/EL-management-System/internal/application/ports"
	"github.com/keerthi-manne/EL-management-System/internal/domain"
)

// TokenVerifier implements ports.TokenVerifier with HS256. Tokens are
// issued by the campus auth service with the same shared secret; this
// service only verifies.
type TokenVerifier struct {
	secret []byte
}

type accessClaims struct {
	jwt.RegisteredClaims
	Role string `json:"role,omitempty"`
}

// NewTokenVerifier builds a verifier for the shared secret.
func NewTokenVerifier(secret string) *TokenVerifier {
	return &TokenVerifier{secret: []byte(secret)}
}

// VerifyAccessToken parses and validates the token, returning the user
// id (subject) and role claim.
func (t *TokenVerifier) VerifyAccessToken(tokenString string) (string, domain.Role, error) {
	token, err := jwt.ParseWithClaims(tokenString, &accessClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return t.secret, nil
	})
	if err != nil {
		return "", "", err
	}
	claims, ok := token.Claims.(*accessClaims)
	if !ok || !token.Valid {
		return "", "", errors.New("invalid token claims")
	}
	if claims.Subject == "" {
		return "", "", errors.New("token has no subject")
	}
	return claims.Subject, domain.Role(claims.Role), nil
}

// IssueForTest mints a token the verifier accepts. Test helper; the
// production issuer lives in the auth service.
func (t *TokenVerifier) IssueForTest(userID string, role domain.Role) (string, error) {
	claims := accessClaims{
		RegisteredClaims: jwt.RegisteredClaims{Subject: userID},
		Role:             string(role),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.secret)
}

var _ ports.TokenVerifier = (*TokenVerifier)(nil)
