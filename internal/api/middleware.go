package api

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/mmynk/settler/internal/auth"
	"github.com/mmynk/settler/internal/models"
)

// contextKey is a custom type for context keys to avoid collisions.
type contextKey string

// walletKey is the context key for the authenticated wallet.
const walletKey contextKey = "wallet"

// WalletFrom extracts the authenticated wallet from the context.
// Returns empty string if the request was not authenticated.
func WalletFrom(ctx context.Context) models.Wallet {
	wallet, _ := ctx.Value(walletKey).(models.Wallet)
	return wallet
}

// RequireAuth validates the Bearer session token and adds the wallet to the
// request context. Requests without a valid token get a 401.
func RequireAuth(jwtManager *auth.JWTManager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if header == "" {
				writeJSONError(w, http.StatusUnauthorized, auth.ErrMissingToken.Error())
				return
			}
			parts := strings.Split(header, " ")
			if len(parts) != 2 || parts[0] != "Bearer" {
				writeJSONError(w, http.StatusUnauthorized, auth.ErrInvalidToken.Error())
				return
			}
			claims, err := jwtManager.Validate(parts[1])
			if err != nil {
				writeJSONError(w, http.StatusUnauthorized, auth.ErrInvalidToken.Error())
				return
			}
			ctx := context.WithValue(r.Context(), walletKey, models.NormalizeWallet(claims.Wallet))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequestLogger logs every request with method, path, status, and duration.
func RequestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		duration := time.Since(start).Milliseconds()
		logFn := slog.Info
		if ww.Status() >= http.StatusInternalServerError {
			logFn = slog.Error
		} else if ww.Status() >= http.StatusBadRequest {
			logFn = slog.Warn
		}
		logFn("Request completed",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"wallet", WalletFrom(r.Context()),
			"duration_ms", duration,
		)
	})
}
