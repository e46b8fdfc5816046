// internal/handlers/middleware/auth.go
package middleware

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/escoteiros/scout-inventory/internal/core/domain"
	"github.com/escoteiros/scout-inventory/internal/pkg/config"
	"github.com/escoteiros/scout-inventory/internal/pkg/logger"
)

// Claims are the identity provider's access token claims.
type Claims struct {
	Email        string       `json:"email"`
	Name         string       `json:"name,omitempty"`
	UserMetadata userMetadata `json:"user_metadata,omitempty"`
	jwt.RegisteredClaims
}

type userMetadata struct {
	FullName string `json:"full_name,omitempty"`
}

// Identity maps the claims to the caller identity.
func (c *Claims) Identity() domain.Identity {
	name := c.Name
	if name == "" {
		name = c.UserMetadata.FullName
	}
	return domain.Identity{UserID: c.Subject, Email: c.Email, Name: name}
}

// TokenVerifier validates HS256 bearer tokens.
type TokenVerifier struct {
	secret []byte
	parser *jwt.Parser
}

// NewTokenVerifier builds a verifier from the auth settings.
func NewTokenVerifier(cfg config.AuthConfig) *TokenVerifier {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithLeeway(cfg.Leeway),
	}
	if cfg.Issuer != "" {
		opts = append(opts, jwt.WithIssuer(cfg.Issuer))
	}
	if cfg.Audience != "" {
		opts = append(opts, jwt.WithAudience(cfg.Audience))
	}
	return &TokenVerifier{secret: []byte(cfg.JWTSecret), parser: jwt.NewParser(opts...)}
}

// Verify parses a token and returns its claims.
func (v *TokenVerifier) Verify(token string) (*Claims, error) {
	claims := &Claims{}
	_, err := v.parser.ParseWithClaims(token, claims, func(*jwt.Token) (any, error) {
		return v.secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("parsing token: %w", err)
	}
	if claims.Subject == "" {
		return nil, errors.New("token has no subject")
	}
	return claims, nil
}

// IssueToken signs an HS256 token for id. Used by tooling and tests.
func IssueToken(secret string, id domain.Identity, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		Email: id.Email,
		Name:  id.Name,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   id.UserID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		return "", fmt.Errorf("signing token: %w", err)
	}
	return signed, nil
}

// Authenticate attaches the bearer token's identity to the request context.
// Requests without a token continue anonymously; a bad token is rejected.
func Authenticate(verifier *TokenVerifier, slogger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if header == "" {
				next.ServeHTTP(w, r)
				return
			}

			token, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || strings.TrimSpace(token) == "" {
				unauthorized(w, "malformed authorization header")
				return
			}

			claims, err := verifier.Verify(strings.TrimSpace(token))
			if err != nil {
				slogger.WarnContext(r.Context(), "rejected bearer token",
					slog.String("error", err.Error()))
				unauthorized(w, "invalid or expired token")
				return
			}

			id := claims.Identity()
			ctx := domain.WithIdentity(r.Context(), id)
			ctx = logger.WithValue(ctx, logger.ContextKeyUserID, id.UserID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func unauthorized(w http.ResponseWriter, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("WWW-Authenticate", `Bearer realm="api"`)
	w.WriteHeader(http.StatusUnauthorized)
	fmt.Fprintf(w, `{"error":%q}`, msg)
}
