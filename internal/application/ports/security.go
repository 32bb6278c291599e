package ports

import "github.com/keerthi-manne/EL-management-System/internal/domain"

// TokenVerifier checks an access token minted by the external auth
// service and returns the caller's identity.
type TokenVerifier interface {
	VerifyAccessToken(token string) (userID string, role domain.Role, err error)
}
