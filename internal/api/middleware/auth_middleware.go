package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	appErrors "github.com/aaravmahajanofficial/dutyfree-pos/internal/errors"
	"github.com/aaravmahajanofficial/dutyfree-pos/internal/models"
	"github.com/aaravmahajanofficial/dutyfree-pos/internal/utils/response"
	"github.com/golang-jwt/jwt/v5"
)

type sessionContextKey struct{}

type AuthMiddleware struct {
	jwtKey []byte
}

func NewAuthMiddleware(jwtKey []byte) *AuthMiddleware {
	return &AuthMiddleware{jwtKey: jwtKey}
}

// Authenticate verifies the back-office issued JWT and stores the cashier
// session, raw token included, in the request context. Tokens without a
// cash register are rejected since every route here works on a register cart.
func (m *AuthMiddleware) Authenticate(next http.Handler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := LoggerFromContext(r.Context())

		authHeader := r.Header.Get("Authorization")

		if authHeader == "" {
			logger.Warn("Missing authorization header")
			response.Error(w, appErrors.UnauthorizedError("Authorization header is required"))
			return
		}

		tokenString, ok := strings.CutPrefix(authHeader, "Bearer ")
		if !ok || tokenString == "" || strings.Contains(tokenString, " ") {
			logger.Warn("Invalid authorization header format")
			response.Error(w, appErrors.UnauthorizedError("Invalid authorization format"))
			return
		}

		claims := &models.Claims{}

		token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				logger.Error("Unexpected signing method used in JWT", slog.Any("alg", t.Header["alg"]))
				return nil, errors.New("unexpected signing method")
			}

			return m.jwtKey, nil
		}, jwt.WithExpirationRequired())

		if err != nil || !token.Valid {
			logger.Warn("JWT validation failed", slog.Any("error", err))
			response.Error(w, appErrors.UnauthorizedError("Invalid or expired token"))
			return
		}

		if claims.UserID <= 0 || claims.CashRegisterID <= 0 {
			logger.Warn("Token is not bound to a cash register", slog.Int64("userId", claims.UserID))
			response.Error(w, appErrors.ForbiddenError("Token is not bound to a cash register"))
			return
		}

		session := models.Session{
			UserID:         claims.UserID,
			Username:       claims.Username,
			Role:           claims.Role,
			CashRegisterID: claims.CashRegisterID,
			Token:          tokenString,
		}

		requestScopedLogger := logger.With(
			slog.Int64("userId", session.UserID),
			slog.Int64("cashRegisterId", session.CashRegisterID),
		)

		ctx := context.WithValue(r.Context(), sessionContextKey{}, session)
		ctx = WithLogger(ctx, requestScopedLogger)

		next.ServeHTTP(w, r.WithContext(ctx))
	}
}

func WithSession(ctx context.Context, session models.Session) context.Context {
	return context.WithValue(ctx, sessionContextKey{}, session)
}

func SessionFromContext(ctx context.Context) (models.Session, bool) {
	session, ok := ctx.Value(sessionContextKey{}).(models.Session)

	return session, ok
}
