package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/mycareerchoices/compass-backend/internal/middleware"
	"github.com/mycareerchoices/compass-backend/internal/response"
	"github.com/mycareerchoices/compass-backend/internal/service"
	"github.com/mycareerchoices/compass-backend/internal/validator"
)

// ReportHandler issues and verifies PDF hand-off tokens for the external
// report renderer.
type ReportHandler struct {
	pdfTokens *service.PDFTokenService
}

// NewReportHandler creates a new ReportHandler.
func NewReportHandler(pdfTokens *service.PDFTokenService) *ReportHandler {
	return &ReportHandler{pdfTokens: pdfTokens}
}

type pdfTokenRequest struct {
	StudentID int `json:"student_id" binding:"omitempty,min=1"`
}

// IssuePDFToken godoc
// POST /api/v1/reports/pdf-token
// Issues a signed short-lived token the renderer presents to fetch one
// student's report. Students always get a token for themselves; admins may
// name any student in the body.
func (h *ReportHandler) IssuePDFToken(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	// Students may omit the body entirely.
	var req pdfTokenRequest
	if c.Request.ContentLength > 0 {
		if fields := validator.Bind(c, &req); fields != nil {
			response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
			return
		}
	}

	studentID := claims.UserID
	if claims.Role == service.RoleAdmin {
		if req.StudentID == 0 {
			response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
			return
		}
		studentID = req.StudentID
	}

	response.Success(c, http.StatusOK, h.pdfTokens.Issue(studentID))
}

// VerifyPDFToken godoc
// POST /api/v1/reports/pdf-token/verify
// Verifies a hand-off token. Used by the renderer before it pulls report
// data on the student's behalf.
func (h *ReportHandler) VerifyPDFToken(c *gin.Context) {
	var token service.PDFToken
	if fields := validator.Bind(c, &token); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	if err := h.pdfTokens.Verify(&token); err != nil {
		if errors.Is(err, service.ErrPDFTokenExpired) {
			response.Fail(c, http.StatusUnauthorized, response.ErrTokenExpired)
			return
		}
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenInvalid)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"student_id": token.StudentID})
}
