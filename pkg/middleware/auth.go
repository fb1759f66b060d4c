package middleware

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"project-pulse-backend/pkg/config"
	"project-pulse-backend/pkg/models"
	"project-pulse-backend/pkg/utils"

	"github.com/golang-jwt/jwt/v5"
)

// ContextKey is the type for values stored on the request context
type ContextKey string

const (
	UserContextKey ContextKey = "user"
)

// AuthMiddleware validates the Bearer access token and puts the user on
// the request context.
func AuthMiddleware(cfg *config.Config) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				utils.WriteUnauthorizedResponse(w, "Missing authorization header")
				return
			}

			tokenString := strings.TrimPrefix(authHeader, "Bearer ")
			if tokenString == authHeader {
				utils.WriteUnauthorizedResponse(w, "Invalid authorization header format")
				return
			}

			claims, err := parseAccessToken(tokenString, cfg.JWTSecret)
			if err != nil {
				utils.WriteUnauthorizedResponse(w, err.Error())
				return
			}

			user := &models.User{
				ID:    claims.UserID,
				Email: claims.Email,
			}

			ctx := context.WithValue(r.Context(), UserContextKey, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func parseAccessToken(tokenString, secret string) (*models.TokenClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &models.TokenClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, fmt.Errorf("invalid token: %w", err)
	}
	if !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}
	claims, ok := token.Claims.(*models.TokenClaims)
	if !ok {
		return nil, fmt.Errorf("invalid token claims")
	}
	if claims.Type != "access" {
		return nil, fmt.Errorf("invalid token type")
	}
	if time.Now().Unix() > claims.Exp {
		return nil, fmt.Errorf("token expired")
	}
	return claims, nil
}

// GetUserFromContext returns the authenticated user, if any
func GetUserFromContext(ctx context.Context) (*models.User, bool) {
	user, ok := ctx.Value(UserContextKey).(*models.User)
	return user, ok
}

// RequireUser returns the authenticated user or writes a 401
func RequireUser(w http.ResponseWriter, r *http.Request) (*models.User, bool) {
	user, ok := GetUserFromContext(r.Context())
	if !ok || user == nil {
		utils.WriteUnauthorizedResponse(w, "Authentication required")
		return nil, false
	}
	return user, true
}
