package middleware

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"project-pulse-backend/pkg/config"

	"github.com/go-chi/chi/v5/middleware"
)

// RequestLogger logs one line per request. Production output is a JSON
// record; development output is colorized.
func RequestLogger(cfg *config.Config) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r)

			duration := time.Since(start)
			userInfo := "anonymous"
			if user, ok := GetUserFromContext(r.Context()); ok && user != nil {
				userInfo = user.Email
			}

			if cfg.IsProduction() {
				logProductionRequest(r, ww, duration, userInfo)
			} else {
				logDevelopmentRequest(r, ww, duration, userInfo)
			}
		})
	}
}

func logProductionRequest(r *http.Request, ww middleware.WrapResponseWriter, duration time.Duration, userInfo string) {
	fmt.Printf(`{"time":"%s","method":"%s","path":"%s","status":%d,"duration":"%s","user":"%s","ip":"%s","user_agent":"%s"}`+"\n",
		time.Now().Format(time.RFC3339),
		r.Method,
		r.URL.Path,
		ww.Status(),
		duration,
		userInfo,
		getClientIP(r),
		r.UserAgent(),
	)
}

func logDevelopmentRequest(r *http.Request, ww middleware.WrapResponseWriter, duration time.Duration, userInfo string) {
	statusColor := getStatusColor(ww.Status())
	methodColor := getMethodColor(r.Method)

	fmt.Printf("%s %s \033[36m%s\033[0m %s%d\033[0m %v %s\n",
		time.Now().Format("15:04:05"),
		methodColor+r.Method+"\033[0m",
		r.URL.Path,
		statusColor,
		ww.Status(),
		duration,
		userInfo,
	)
}

func getClientIP(r *http.Request) string {
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		if idx := strings.Index(forwarded, ","); idx > 0 {
			return strings.TrimSpace(forwarded[:idx])
		}
		return forwarded
	}
	if realIP := r.Header.Get("X-Real-IP"); realIP != "" {
		return realIP
	}
	return r.RemoteAddr
}

func getStatusColor(status int) string {
	switch {
	case status >= 500:
		return "\033[31m" // red
	case status >= 400:
		return "\033[33m" // yellow
	case status >= 300:
		return "\033[36m" // cyan
	default:
		return "\033[32m" // green
	}
}

func getMethodColor(method string) string {
	switch method {
	case http.MethodGet:
		return "\033[34m" // blue
	case http.MethodPost:
		return "\033[32m" // green
	case http.MethodPut, http.MethodPatch:
		return "\033[33m" // yellow
	case http.MethodDelete:
		return "\033[31m" // red
	default:
		return "\033[37m"
	}
}
