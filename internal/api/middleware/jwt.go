package middleware

import (
	"net/http"
	"slices"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/yoockh/hirescreen/internal/models"
	"github.com/yoockh/hirescreen/internal/utils"
)

type apiError struct {
	Code    utils.Code `json:"code"`
	Message string     `json:"message"`
}

// JWTConfig holds the Supabase verification settings. Issuer and Audience are optional.
type JWTConfig struct {
	Secret   string
	Issuer   string
	Audience string
}

type supabaseClaims struct {
	jwt.RegisteredClaims
	Role         string         `json:"role"`         // usually "authenticated" / "anon"
	AppMetadata  map[string]any `json:"app_metadata"` // {"role":"recruiter"} lives here
	UserMetadata map[string]any `json:"user_metadata"`
}

// appRole picks the application role from app_metadata, then user_metadata.
// Anything other than candidate or recruiter yields "".
func (c *supabaseClaims) appRole() string {
	for _, md := range []map[string]any{c.AppMetadata, c.UserMetadata} {
		v, ok := md["role"]
		if !ok {
			continue
		}
		s, _ := v.(string)
		r := models.UserRole(strings.ToLower(strings.TrimSpace(s)))
		if r.Valid() {
			return string(r)
		}
	}
	return ""
}

func abortUnauthorized(c *gin.Context, msg string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, apiError{
		Code:    utils.CodeUnauthorized,
		Message: msg,
	})
}

func JWTAuth(cfg JWTConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		if cfg.Secret == "" {
			c.AbortWithStatusJSON(http.StatusInternalServerError, apiError{
				Code:    utils.CodeInternal,
				Message: "SUPABASE_JWT_SECRET is not set",
			})
			return
		}

		raw := bearerToken(c)
		if raw == "" {
			abortUnauthorized(c, "missing bearer token")
			return
		}

		claims := &supabaseClaims{}
		tok, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (any, error) {
			return []byte(cfg.Secret), nil
		}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
		if err != nil || tok == nil || !tok.Valid {
			abortUnauthorized(c, "invalid token")
			return
		}

		if cfg.Issuer != "" && claims.Issuer != cfg.Issuer {
			abortUnauthorized(c, "invalid token issuer")
			return
		}
		if cfg.Audience != "" && !slices.Contains(claims.Audience, cfg.Audience) {
			abortUnauthorized(c, "invalid token audience")
			return
		}

		if claims.Subject == "" {
			abortUnauthorized(c, "missing subject")
			return
		}

		c.Set("user_id", claims.Subject)
		c.Set("role", claims.appRole())
		c.Next()
	}
}

// bearerToken reads the Authorization header, falling back to the access_token query
// parameter because browsers cannot set headers on a websocket handshake.
func bearerToken(c *gin.Context) string {
	auth := c.GetHeader("Authorization")
	if strings.HasPrefix(auth, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(auth, "Bearer "))
	}
	if c.GetHeader("Upgrade") == "websocket" {
		return strings.TrimSpace(c.Query("access_token"))
	}
	return ""
}
