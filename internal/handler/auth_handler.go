package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/mycareerchoices/compass-backend/internal/config"
	"github.com/mycareerchoices/compass-backend/internal/middleware"
	"github.com/mycareerchoices/compass-backend/internal/model"
	"github.com/mycareerchoices/compass-backend/internal/response"
	"github.com/mycareerchoices/compass-backend/internal/service"
	"github.com/mycareerchoices/compass-backend/internal/validator"
)

// AuthHandler handles registration, login, refresh, and logout.
type AuthHandler struct {
	cfg            *config.Config
	authService    *service.AuthService
	studentService *service.StudentService
	adminService   *service.AdminService
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(
	cfg *config.Config,
	authService *service.AuthService,
	studentService *service.StudentService,
	adminService *service.AdminService,
) *AuthHandler {
	return &AuthHandler{
		cfg:            cfg,
		authService:    authService,
		studentService: studentService,
		adminService:   adminService,
	}
}

// Register godoc
// POST /api/v1/auth/register
// Creates a student account and signs the new student in.
func (h *AuthHandler) Register(c *gin.Context) {
	var req model.RegisterRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	student, err := h.studentService.Register(c.Request.Context(), &req)
	if err != nil {
		if errors.Is(err, service.ErrEmailTaken) {
			response.Fail(c, http.StatusBadRequest, response.ErrEmailTaken)
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	pair, err := h.authService.IssueStudentTokens(student)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	setAuthCookies(c, h.cfg, pair)

	response.Success(c, http.StatusCreated, gin.H{"student": student})
}

// Login godoc
// POST /api/v1/auth/login
// Authenticates a student and installs the auth cookies.
func (h *AuthHandler) Login(c *gin.Context) {
	var req model.LoginRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	student, err := h.studentService.Authenticate(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrInvalidCredentials)
		return
	}

	pair, err := h.authService.IssueStudentTokens(student)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	setAuthCookies(c, h.cfg, pair)

	response.Success(c, http.StatusOK, gin.H{"student": student})
}

// AdminLogin godoc
// POST /api/v1/auth/admin/login
// Authenticates an admin and installs the auth cookies.
func (h *AuthHandler) AdminLogin(c *gin.Context) {
	var req model.AdminLoginRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	admin, err := h.adminService.Authenticate(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrInvalidCredentials)
		return
	}

	pair, err := h.authService.IssueAdminTokens(admin)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	setAuthCookies(c, h.cfg, pair)

	response.Success(c, http.StatusOK, gin.H{
		"admin": gin.H{"id": admin.ID, "username": admin.Username},
	})
}

// Refresh godoc
// POST /api/v1/auth/token/refresh
// Issues a fresh access token from a valid refresh token. The refresh
// token itself is left as is.
func (h *AuthHandler) Refresh(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	token, csrf, expiresAt, err := h.authService.RefreshAccess(claims)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	setAccessCookies(c, h.cfg, token, csrf, expiresAt)

	response.Success(c, http.StatusOK, gin.H{})
}

// Logout godoc
// POST /api/v1/auth/logout
// Revokes the current access token, best-effort revokes the refresh token,
// and clears all auth cookies.
func (h *AuthHandler) Logout(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	if err := h.authService.Revoke(c.Request.Context(), claims); err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	// The refresh token dies with the session when present and still valid.
	if refreshStr, err := c.Cookie(middleware.CookieRefreshToken); err == nil && refreshStr != "" {
		refreshClaims, err := h.authService.ValidateToken(c.Request.Context(), refreshStr, service.TokenClassRefresh)
		if err == nil {
			_ = h.authService.Revoke(c.Request.Context(), refreshClaims)
		}
	}

	clearAuthCookies(c, h.cfg)
	response.Success(c, http.StatusOK, gin.H{})
}

// Me godoc
// GET /api/v1/auth/me
// Returns the authenticated account's profile.
func (h *AuthHandler) Me(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	if claims.Role == service.RoleAdmin {
		admin, err := h.adminService.Get(c.Request.Context(), claims.UserID)
		if err != nil {
			response.Fail(c, http.StatusNotFound, response.ErrNotFound)
			return
		}
		response.Success(c, http.StatusOK, gin.H{
			"admin": gin.H{"id": admin.ID, "username": admin.Username},
		})
		return
	}

	profile, err := h.studentService.Profile(c.Request.Context(), claims.UserID)
	if err != nil {
		response.Fail(c, http.StatusNotFound, response.ErrNotFound)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"student": profile})
}
