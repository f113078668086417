package middleware

import (
	"errors"
	"net/http"
	"strings"

	"ecopark/internal/access"
	"ecopark/internal/apperror"
	"ecopark/internal/auth"
	"ecopark/internal/logger"
	"ecopark/internal/session"
	"ecopark/pkg/response"

	"github.com/gin-gonic/gin"
)

const (
	ContextUserIDKey = "userID"
	ContextRoleKey   = "userRole"
	ContextActorKey  = "actor"
	ContextClaimsKey = "claims"

	accessTokenCookie = "access_token"
)

// SetTokenCookie stores the access token as an HttpOnly cookie
func SetTokenCookie(c *gin.Context, token string, maxAge int, secure bool) {
	// Cross-origin production deployments need SameSite=None; local development stays Lax.
	sameSite := http.SameSiteLaxMode
	if secure {
		sameSite = http.SameSiteNoneMode
	}
	c.SetSameSite(sameSite)
	c.SetCookie(accessTokenCookie, token, maxAge, "/", "", secure, true)
}

// ClearTokenCookie removes the access_token cookie
func ClearTokenCookie(c *gin.Context, secure bool) {
	sameSite := http.SameSiteLaxMode
	if secure {
		sameSite = http.SameSiteNoneMode
	}
	c.SetSameSite(sameSite)
	c.SetCookie(accessTokenCookie, "", -1, "/", "", secure, true)
}

// Authenticate validates the bearer token (or access_token cookie) and puts the
// caller into the context. Expired tokens are answered with SESSION_EXPIRED so
// clients know to send the user back to login.
func Authenticate(tokens *auth.TokenManager, sessions session.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, err := extractToken(c)
		if err != nil {
			abortWith(c, apperror.New(apperror.ErrCodeUnauthorized, err.Error()))
			return
		}

		claims, err := tokens.Parse(tokenString)
		if err != nil {
			if errors.Is(err, auth.ErrTokenExpired) {
				abortWith(c, apperror.ErrSessionExpired)
				return
			}
			abortWith(c, apperror.New(apperror.ErrCodeUnauthorized, "Invalid token"))
			return
		}

		revoked, err := sessions.IsRevoked(c.Request.Context(), claims.ID)
		if err != nil {
			logger.Log.WithError(err).Error("failed to check token revocation")
			abortWith(c, apperror.New(apperror.ErrCodeInternal, "Failed to verify session"))
			return
		}
		if revoked {
			abortWith(c, apperror.New(apperror.ErrCodeSessionExpired, "Session has ended, please log in again"))
			return
		}

		userID, _ := claims.UserID()
		c.Set(ContextUserIDKey, claims.Subject)
		c.Set(ContextRoleKey, claims.Role)
		c.Set(ContextClaimsKey, claims)
		c.Set(ContextActorKey, access.Actor{ID: userID, Role: claims.Role, Park: claims.Park})

		c.Next()
	}
}

// RequireRole checks that the authenticated user's role is in allowedRoles
func RequireRole(allowedRoles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, ok := CurrentActor(c)
		if !ok {
			abortWith(c, apperror.New(apperror.ErrCodeUnauthorized, "Authorization is missing"))
			return
		}

		for _, role := range allowedRoles {
			if actor.Role == role {
				c.Next()
				return
			}
		}
		abortWith(c, apperror.ErrForbidden)
	}
}

// RequireAction checks the role gate for one request kind
func RequireAction(kind string, action access.Action) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, ok := CurrentActor(c)
		if !ok {
			abortWith(c, apperror.New(apperror.ErrCodeUnauthorized, "Authorization is missing"))
			return
		}
		if !access.Can(actor.Role, kind, action) {
			abortWith(c, apperror.ErrForbidden)
			return
		}
		c.Next()
	}
}

// CurrentActor returns the caller stored by Authenticate
func CurrentActor(c *gin.Context) (access.Actor, bool) {
	v, exists := c.Get(ContextActorKey)
	if !exists {
		return access.Actor{}, false
	}
	actor, ok := v.(access.Actor)
	return actor, ok
}

// CurrentClaims returns the verified token claims stored by Authenticate
func CurrentClaims(c *gin.Context) (*auth.Claims, bool) {
	v, exists := c.Get(ContextClaimsKey)
	if !exists {
		return nil, false
	}
	claims, ok := v.(*auth.Claims)
	return claims, ok
}

func extractToken(c *gin.Context) (string, error) {
	if authHeader := c.GetHeader("Authorization"); authHeader != "" {
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" || strings.TrimSpace(parts[1]) == "" {
			return "", errors.New("Invalid authorization format. Expected 'Bearer <token>'")
		}
		return strings.TrimSpace(parts[1]), nil
	}

	if tokenString, err := c.Cookie(accessTokenCookie); err == nil && tokenString != "" {
		return tokenString, nil
	}
	return "", errors.New("Authorization is missing")
}

func abortWith(c *gin.Context, appErr *apperror.AppError) {
	c.AbortWithStatusJSON(appErr.HTTPStatus, response.ErrorWithCode(appErr.HTTPStatus, string(appErr.Code), appErr.Message, appErr.Fields))
}
