package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/mdmuhtasimfuadfahim/girvan-newman-algorithm/pkg/auth"
	"github.com/mdmuhtasimfuadfahim/girvan-newman-algorithm/pkg/logging"
)

type claimsKey struct{}

// RequireBearer rejects requests without a valid "Authorization: Bearer"
// token. A nil validator disables the check.
func RequireBearer(validator auth.TokenValidator, logger logging.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if validator == nil {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := bearerToken(r.Header.Get("Authorization"))
			if !ok {
				unauthorized(w, "Missing bearer token")
				return
			}

			claims, err := validator.ValidateToken(r.Context(), token)
			if err != nil {
				logger.Warn("rejected bearer token",
					logging.Path(r.URL.Path),
					logging.RequestID(GetRequestID(r)),
					logging.Error(err),
				)
				unauthorized(w, "Invalid or expired token")
				return
			}

			ctx := context.WithValue(r.Context(), claimsKey{}, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetClaims returns the token claims of an authenticated request
func GetClaims(r *http.Request) (*auth.Claims, bool) {
	claims, ok := r.Context().Value(claimsKey{}).(*auth.Claims)
	return claims, ok
}

func bearerToken(header string) (string, bool) {
	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

func unauthorized(w http.ResponseWriter, msg string) {
	w.Header().Set("WWW-Authenticate", `Bearer realm="girvan-newman"`)
	http.Error(w, msg, http.StatusUnauthorized)
}
