package middleware

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/mycareerchoices/compass-backend/internal/response"
	"github.com/mycareerchoices/compass-backend/internal/service"
)

const (
	// ContextKeyClaims is the Gin context key for JWT claims.
	ContextKeyClaims = "claims"

	// Cookie names shared with the frontend.
	CookieAccessToken  = "access_token"
	CookieRefreshToken = "refresh_token"
	CookieAccessCSRF   = "csrf_access_token"
	CookieRefreshCSRF  = "csrf_refresh_token"

	// HeaderCSRF carries the double-submit CSRF value.
	HeaderCSRF = "X-CSRF-Token"
)

// RequireAccessToken validates an access JWT from the access_token cookie,
// falling back to the Authorization header for non-browser clients.
func RequireAccessToken(authService *service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenStr := extractToken(c, CookieAccessToken)
		if tokenStr == "" {
			response.AbortFail(c, http.StatusUnauthorized, response.ErrTokenRequired)
			return
		}

		claims, err := authService.ValidateToken(c.Request.Context(), tokenStr, service.TokenClassAccess)
		if err != nil {
			abortTokenError(c, err)
			return
		}

		c.Set(ContextKeyClaims, claims)
		c.Next()
	}
}

// RequireRefreshToken validates a refresh JWT from the refresh_token cookie.
// Access tokens are rejected here even though they verify; refresh is the
// only operation a refresh token is good for, and vice versa.
func RequireRefreshToken(authService *service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenStr := extractToken(c, CookieRefreshToken)
		if tokenStr == "" {
			response.AbortFail(c, http.StatusUnauthorized, response.ErrTokenRequired)
			return
		}

		claims, err := authService.ValidateToken(c.Request.Context(), tokenStr, service.TokenClassRefresh)
		if err != nil {
			if errors.Is(err, service.ErrWrongTokenClass) {
				response.AbortFail(c, http.StatusUnauthorized, response.ErrRefreshRequired)
				return
			}
			abortTokenError(c, err)
			return
		}

		c.Set(ContextKeyClaims, claims)
		c.Next()
	}
}

// RequireStudent restricts a route to student tokens. Must run after
// RequireAccessToken.
func RequireStudent() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := GetClaims(c)
		if claims == nil || claims.Role != service.RoleStudent {
			response.AbortFail(c, http.StatusForbidden, response.ErrStudentAccessOnly)
			return
		}
		c.Next()
	}
}

// RequireAdmin restricts a route to admin tokens. Must run after
// RequireAccessToken.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := GetClaims(c)
		if claims == nil || claims.Role != service.RoleAdmin {
			response.AbortFail(c, http.StatusForbidden, response.ErrAdminAccessOnly)
			return
		}
		c.Next()
	}
}

// RequireAdminOrOwner allows admins through unconditionally and students
// only when the route's student_id param is their own.
func RequireAdminOrOwner(param string) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := GetClaims(c)
		if claims == nil {
			response.AbortFail(c, http.StatusUnauthorized, response.ErrTokenRequired)
			return
		}
		if claims.Role == service.RoleAdmin {
			c.Next()
			return
		}

		id, err := strconv.Atoi(c.Param(param))
		if err != nil {
			response.AbortFail(c, http.StatusBadRequest, response.ErrInvalidID)
			return
		}
		if claims.UserID != id {
			response.AbortFail(c, http.StatusForbidden, response.ErrForbidden)
			return
		}
		c.Next()
	}
}

// RequireCSRF enforces double-submit CSRF on state-changing requests: the
// X-CSRF-Token header must match the csrf claim baked into the validated
// token. Must run after RequireAccessToken or RequireRefreshToken.
func RequireCSRF() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := GetClaims(c)
		if claims == nil {
			response.AbortFail(c, http.StatusUnauthorized, response.ErrTokenRequired)
			return
		}
		if c.GetHeader(HeaderCSRF) != claims.CSRF {
			response.AbortFail(c, http.StatusForbidden, response.ErrCSRFMismatch)
			return
		}
		c.Next()
	}
}

// RequireStudentWSAuth validates a student access token for WebSocket
// upgrades, accepting the cookie or a ?token= query param.
func RequireStudentWSAuth(authService *service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenStr, err := c.Cookie(CookieAccessToken)
		if err != nil || tokenStr == "" {
			tokenStr = c.Query("token")
		}
		if tokenStr == "" {
			response.AbortFail(c, http.StatusUnauthorized, response.ErrTokenRequired)
			return
		}

		claims, err := authService.ValidateToken(c.Request.Context(), tokenStr, service.TokenClassAccess)
		if err != nil {
			abortTokenError(c, err)
			return
		}
		if claims.Role != service.RoleStudent {
			response.AbortFail(c, http.StatusForbidden, response.ErrStudentAccessOnly)
			return
		}

		c.Set(ContextKeyClaims, claims)
		c.Next()
	}
}

// GetClaims retrieves the JWT claims from the Gin context.
func GetClaims(c *gin.Context) *service.Claims {
	val, exists := c.Get(ContextKeyClaims)
	if !exists {
		return nil
	}
	claims, ok := val.(*service.Claims)
	if !ok {
		return nil
	}
	return claims
}

func extractToken(c *gin.Context, cookieName string) string {
	if tokenStr, err := c.Cookie(cookieName); err == nil && tokenStr != "" {
		return tokenStr
	}

	authHeader := c.GetHeader("Authorization")
	if authHeader != "" {
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "bearer") {
			return parts[1]
		}
	}
	return ""
}

func abortTokenError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrTokenExpired):
		response.AbortFail(c, http.StatusUnauthorized, response.ErrTokenExpired)
	case errors.Is(err, service.ErrTokenRevoked):
		response.AbortFail(c, http.StatusUnauthorized, response.ErrTokenRevoked)
	case errors.Is(err, service.ErrWrongTokenClass):
		response.AbortFail(c, http.StatusUnauthorized, response.ErrTokenInvalid)
	default:
		response.AbortFail(c, http.StatusUnauthorized, response.ErrTokenInvalid)
	}
}
