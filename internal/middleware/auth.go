package middleware

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/quickchat/quickchat-go/internal/model"
	"github.com/quickchat/quickchat-go/internal/service"
)

type contextKey string

const accountKey contextKey = "account"

const notAuthorized = "Not authorized"

// IdentityResolver turns a presented token into the account it belongs to.
type IdentityResolver interface {
	ParseToken(token string) (string, error)
	Identity(ctx context.Context, accountID string) (model.AccountResponse, error)
}

// Verifier returns middleware that authenticates the request token and
// attaches the caller's account to the request context. The token is read
// from a Bearer Authorization header or from the "token" header the web
// client sends. Rejections are answered with a failure envelope and status 200.
func Verifier(resolver IdentityResolver, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := tokenFromRequest(r)
			if token == "" {
				writeEnvelope(w, http.StatusOK, model.Failure(notAuthorized))
				return
			}

			accountID, err := resolver.ParseToken(token)
			if err != nil {
				writeEnvelope(w, http.StatusOK, model.Failure(notAuthorized))
				return
			}

			account, err := resolver.Identity(r.Context(), accountID)
			if err != nil {
				if service.KindOf(err) == service.KindInternal {
					logger.ErrorContext(r.Context(), "resolving identity failed", "account_id", accountID, "error", err)
					writeEnvelope(w, http.StatusOK, model.Failure(service.PublicMessage(err)))
					return
				}
				writeEnvelope(w, http.StatusOK, model.Failure(notAuthorized))
				return
			}

			next.ServeHTTP(w, r.WithContext(WithAccount(r.Context(), account)))
		})
	}
}

// AccountFromContext returns the account attached by Verifier.
func AccountFromContext(ctx context.Context) (model.AccountResponse, bool) {
	acc, ok := ctx.Value(accountKey).(model.AccountResponse)
	return acc, ok
}

// WithAccount returns a copy of ctx carrying acc.
func WithAccount(ctx context.Context, acc model.AccountResponse) context.Context {
	return context.WithValue(ctx, accountKey, acc)
}

func tokenFromRequest(r *http.Request) string {
	if header := r.Header.Get("Authorization"); header != "" {
		if token, found := strings.CutPrefix(header, "Bearer "); found {
			return strings.TrimSpace(token)
		}
	}
	return strings.TrimSpace(r.Header.Get("token"))
}

func writeEnvelope(w http.ResponseWriter, status int, env model.Envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(env)
}
