package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/mt5crm/backoffice/internal/services"
)

type contextKey string

const operatorKey contextKey = "operator"

// TokenParser verifies bearer tokens. It is satisfied by *services.AuthService.
type TokenParser interface {
	ParseToken(ctx context.Context, token string) (*services.OperatorClaims, error)
}

// RequireOperator rejects requests without a valid, unrevoked operator token
// and stores the verified claims on the request context.
func RequireOperator(parser TokenParser, logger *zap.Logger) func(http.Handler) http.Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := BearerToken(r)
			if !ok {
				services.SendErrorResponse(w, "Authorization header required", http.StatusUnauthorized, nil)
				return
			}

			claims, err := parser.ParseToken(r.Context(), token)
			if err != nil {
				msg := "Invalid token"
				if errors.Is(err, services.ErrTokenRevoked) {
					msg = "Token has been revoked"
				}
				logger.Debug("rejected operator token", zap.String("path", r.URL.Path), zap.Error(err))
				services.SendErrorResponse(w, msg, http.StatusUnauthorized, nil)
				return
			}

			ctx := context.WithValue(r.Context(), operatorKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// BearerToken extracts the token from an "Authorization: Bearer <token>" header.
func BearerToken(r *http.Request) (string, bool) {
	parts := strings.Fields(r.Header.Get("Authorization"))
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	return parts[1], true
}

// OperatorFromContext returns the claims stored by RequireOperator.
func OperatorFromContext(ctx context.Context) (*services.OperatorClaims, bool) {
	claims, ok := ctx.Value(operatorKey).(*services.OperatorClaims)
	return claims, ok && claims != nil
}

// WithOperator attaches claims to ctx.
func WithOperator(ctx context.Context, claims *services.OperatorClaims) context.Context {
	return context.WithValue(ctx, operatorKey, claims)
}
