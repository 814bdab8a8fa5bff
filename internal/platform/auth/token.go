package auth

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// Roles known to the API. Every principal carries exactly one.
const (
	RoleAdmin     = "administrador"
	RoleDoctor    = "medico"
	RoleAssistant = "asistente"
	RolePatient   = "paciente"
)

type contextKey string

const identityKey contextKey = "identity"

// Identity is the verified principal resolved from a token at the HTTP
// boundary. Operations receive it by value and never read role or id from
// request bodies.
type Identity struct {
	UserID uuid.UUID
	Role   string
}

type Claims struct {
	jwt.RegisteredClaims
	Role string `json:"rol"`
}

type JWTConfig struct {
	SigningKey []byte
	TTL        time.Duration
}

// Issue signs an HS256 token for the given principal.
func Issue(cfg JWTConfig, userID uuid.UUID, role string) (string, error) {
	now := time.Now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(cfg.TTL)),
		},
		Role: role,
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(cfg.SigningKey)
}

// JWTMiddleware validates the bearer token and places the resolved Identity
// on the request context.
func JWTMiddleware(cfg JWTConfig) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing authorization header")
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid authorization format")
			}

			claims := &Claims{}
			token, err := jwt.ParseWithClaims(parts[1], claims, func(t *jwt.Token) (interface{}, error) {
				return cfg.SigningKey, nil
			}, jwt.WithValidMethods([]string{"HS256"}))
			if err != nil || !token.Valid {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
			}

			userID, err := uuid.Parse(claims.Subject)
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token subject")
			}

			ctx := context.WithValue(c.Request().Context(), identityKey, Identity{
				UserID: userID,
				Role:   claims.Role,
			})
			c.SetRequest(c.Request().WithContext(ctx))

			return next(c)
		}
	}
}

// IdentityFromContext returns the verified principal, or the zero Identity
// when the request was not authenticated.
func IdentityFromContext(ctx context.Context) Identity {
	id, _ := ctx.Value(identityKey).(Identity)
	return id
}

// WithIdentity returns a context carrying the given principal. Used by tests
// and internal callers.
func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, identityKey, id)
}
