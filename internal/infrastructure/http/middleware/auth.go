package middleware

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/keerthi-manne/EL-management-System/internal/application/ports"
	"github.com/keerthi-manne/EL-management-System/internal/domain"
)

// AuthValidator validates the bearer token and sets the caller identity
// in context (see AuthFromContext).
type AuthValidator struct {
	verifier ports.TokenVerifier
}

func NewAuthValidator(verifier ports.TokenVerifier) *AuthValidator {
	return &AuthValidator{verifier: verifier}
}

func (m *AuthValidator) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth := r.Header.Get("Authorization")
		if auth == "" || !strings.HasPrefix(auth, "Bearer ") {
			writeAuthErr(w, http.StatusUnauthorized, "missing or invalid authorization")
			return
		}
		tokenString := strings.TrimPrefix(auth, "Bearer ")
		userID, role, err := m.verifier.VerifyAccessToken(tokenString)
		if err != nil {
			writeAuthErr(w, http.StatusUnauthorized, "invalid token")
			return
		}
		ctx := WithAuth(r.Context(), userID, role)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireRole gates a route group to callers whose role is one of the
// allowed set. Must run after AuthValidator.
func RequireRole(allowed ...domain.Role) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, role := AuthFromContext(r.Context())
			for _, a := range allowed {
				if role == a {
					next.ServeHTTP(w, r)
					return
				}
			}
			writeAuthErr(w, http.StatusForbidden, "insufficient role")
		})
	}
}

func writeAuthErr(w http.ResponseWriter, code int, message string) {
	errCode := "unauthorized"
	if code == http.StatusForbidden {
		errCode = "forbidden"
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": message, "code": errCode})
}
