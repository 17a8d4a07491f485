package middleware

import (
	"context"
	"log"
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"dropin-checkout-api/services/auth"
	"dropin-checkout-api/utils"
)

type contextKey string

const SessionContextKey contextKey = "checkout_session_id"

// SessionAuth requires a bearer token scoped to the checkout session named
// in the route. A valid token for another session is rejected the same way
// a bad token is.
func SessionAuth(jwtService *auth.JWTService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				log.Printf("Missing Authorization header from %s", r.RemoteAddr)
				utils.SendErrorResponse(w, http.StatusUnauthorized, "Missing authorization header")
				return
			}

			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || parts[0] != "Bearer" {
				log.Printf("Invalid Authorization header format from %s", r.RemoteAddr)
				utils.SendErrorResponse(w, http.StatusUnauthorized, "Invalid authorization header format")
				return
			}

			claims, err := jwtService.ValidateToken(parts[1])
			if err != nil {
				log.Printf("Token validation failed from %s: %v", r.RemoteAddr, err)

				var message string
				switch err {
				case auth.ErrTokenExpired:
					message = "Token expired"
				case auth.ErrInvalidToken:
					message = "Invalid token"
				default:
					message = "Authentication failed"
				}

				utils.SendErrorResponse(w, http.StatusUnauthorized, message)
				return
			}

			if sessionID := mux.Vars(r)["id"]; sessionID != "" && sessionID != claims.SessionID {
				log.Printf("Token session mismatch from %s", r.RemoteAddr)
				utils.SendErrorResponse(w, http.StatusForbidden, "Token not valid for this session")
				return
			}

			ctx := context.WithValue(r.Context(), SessionContextKey, claims.SessionID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
