package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/mycareerchoices/compass-backend/internal/model"
	"github.com/mycareerchoices/compass-backend/internal/response"
	"github.com/mycareerchoices/compass-backend/internal/service"
	"github.com/mycareerchoices/compass-backend/internal/validator"
)

// AdminHandler serves the admin dashboard endpoints.
type AdminHandler struct {
	adminService *service.AdminService
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(adminService *service.AdminService) *AdminHandler {
	return &AdminHandler{adminService: adminService}
}

// ListStudents godoc
// GET /api/v1/admin/students
// Returns every student with completion flags, plus the dashboard filters.
func (h *AdminHandler) ListStudents(c *gin.Context) {
	students, facets, err := h.adminService.Dashboard(c.Request.Context())
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"students": students,
		"facets":   facets,
	})
}

// ToggleCareerAccess godoc
// PUT /api/v1/admin/students/:student_id/career-access
// Sets a student's result visibility and pushes the change live.
func (h *AdminHandler) ToggleCareerAccess(c *gin.Context) {
	studentID, err := strconv.Atoi(c.Param("student_id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	var req model.ToggleCareerAccessRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	if err := h.adminService.SetCareerAccess(c.Request.Context(), studentID, *req.CanView); err != nil {
		if errors.Is(err, service.ErrStudentNotFound) {
			response.Fail(c, http.StatusNotFound, response.ErrNotFound)
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"student_id": studentID,
		"can_view":   *req.CanView,
	})
}
