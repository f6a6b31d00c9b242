package middleware

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/mtlprog/workdesk/internal/domain"
	"github.com/mtlprog/workdesk/internal/handler/dto"
)

type contextKey string

const (
	// ContextKeyActor is the key for storing the actor in request context.
	ContextKeyActor contextKey = "actor"
)

// Claims is the bearer token payload. The subject is the operator ID.
type Claims struct {
	jwt.RegisteredClaims
	Roles []string `json:"roles"`
}

// AuthMiddleware resolves HS256 bearer tokens into actors.
type AuthMiddleware struct {
	secret []byte
	parser *jwt.Parser
}

// NewAuthMiddleware creates a new AuthMiddleware.
func NewAuthMiddleware(secret string) *AuthMiddleware {
	return &AuthMiddleware{
		secret: []byte(secret),
		parser: jwt.NewParser(
			jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
			jwt.WithExpirationRequired(),
		),
	}
}

// Lookup verifies a token and returns the actor it names.
func (m *AuthMiddleware) Lookup(token string) (domain.Actor, error) {
	if len(m.secret) == 0 {
		return domain.Actor{}, fmt.Errorf("%w: jwt secret not configured", domain.ErrInvalidToken)
	}

	claims := &Claims{}
	parsed, err := m.parser.ParseWithClaims(token, claims, func(*jwt.Token) (any, error) {
		return m.secret, nil
	})
	if err != nil {
		return domain.Actor{}, fmt.Errorf("%w: %w", domain.ErrInvalidToken, err)
	}
	if !parsed.Valid {
		return domain.Actor{}, domain.ErrInvalidToken
	}
	if claims.Subject == "" {
		return domain.Actor{}, fmt.Errorf("%w: subject claim required", domain.ErrInvalidToken)
	}

	roles := make([]domain.Role, len(claims.Roles))
	for i, r := range claims.Roles {
		roles[i] = domain.Role(r)
	}
	return domain.Actor{ID: claims.Subject, Roles: roles}, nil
}

// Authenticate validates the Bearer token and adds the actor to request context.
func (m *AuthMiddleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			unauthorized(w, "missing authorization header")
			return
		}

		parts := strings.Fields(authHeader)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
			unauthorized(w, "invalid authorization header format")
			return
		}

		actor, err := m.Lookup(parts[1])
		if err != nil {
			slog.Debug("bearer token rejected", "error", err)
			unauthorized(w, "invalid token")
			return
		}

		ctx := context.WithValue(r.Context(), ContextKeyActor, actor)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetActorFromContext retrieves the authenticated actor from request context.
func GetActorFromContext(ctx context.Context) (domain.Actor, error) {
	actor, ok := ctx.Value(ContextKeyActor).(domain.Actor)
	if !ok || actor.ID == "" {
		return domain.Actor{}, domain.ErrInvalidToken
	}
	return actor, nil
}

// IssueToken mints a token for operatorID carrying roles.
func IssueToken(secret string, operatorID string, roles []domain.Role, ttl time.Duration) (string, error) {
	if secret == "" {
		return "", fmt.Errorf("jwt secret is required")
	}
	if operatorID == "" {
		return "", fmt.Errorf("operator id is required")
	}

	names := make([]string, len(roles))
	for i, r := range roles {
		names[i] = string(r)
	}

	now := time.Now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   operatorID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		Roles: names,
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

func unauthorized(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	if err := json.NewEncoder(w).Encode(dto.NewErrorResponse("INVALID_TOKEN", message)); err != nil {
		slog.Error("failed to encode JSON response", "error", err)
	}
}
