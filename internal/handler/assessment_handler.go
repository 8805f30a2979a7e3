package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/mycareerchoices/compass-backend/internal/middleware"
	"github.com/mycareerchoices/compass-backend/internal/model"
	"github.com/mycareerchoices/compass-backend/internal/response"
	"github.com/mycareerchoices/compass-backend/internal/service"
	"github.com/mycareerchoices/compass-backend/internal/validator"
)

// AssessmentHandler serves both assessments to authenticated students.
type AssessmentHandler struct {
	assessmentService *service.AssessmentService
}

// NewAssessmentHandler creates a new AssessmentHandler.
func NewAssessmentHandler(assessmentService *service.AssessmentService) *AssessmentHandler {
	return &AssessmentHandler{assessmentService: assessmentService}
}

// NextCareerQuestion godoc
// GET /api/v1/assessment/career/question
// Returns the next unanswered career question for the current student.
func (h *AssessmentHandler) NextCareerQuestion(c *gin.Context) {
	claims := middleware.GetClaims(c)

	question, err := h.assessmentService.NextCareerQuestion(c.Request.Context(), claims.UserID)
	if err != nil {
		if errors.Is(err, service.ErrNoMoreQuestions) {
			response.Fail(c, http.StatusNotFound, response.ErrNoMoreQuestions)
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, question)
}

// SubmitCareerResponse godoc
// POST /api/v1/assessment/career/response
// Records one career questionnaire answer.
func (h *AssessmentHandler) SubmitCareerResponse(c *gin.Context) {
	claims := middleware.GetClaims(c)

	var req model.SubmitCareerResponseRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	recorded, err := h.assessmentService.SubmitCareerResponse(c.Request.Context(), claims.UserID, &req)
	if err != nil {
		if errors.Is(err, service.ErrInvalidQuestion) {
			response.Fail(c, http.StatusBadRequest, response.ErrInvalidQuestion)
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"recorded": recorded})
}

// AptitudeQuestions godoc
// GET /api/v1/assessment/aptitude/questions
// Returns a per-category random sample of the image question bank.
func (h *AssessmentHandler) AptitudeQuestions(c *gin.Context) {
	claims := middleware.GetClaims(c)

	bank, err := h.assessmentService.AptitudeQuestions(c.Request.Context(), claims.UserID)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, bank)
}

// AptitudeTextQuestions godoc
// GET /api/v1/assessment/aptitude/text-questions
// Returns a per-category random sample of the text question bank.
func (h *AssessmentHandler) AptitudeTextQuestions(c *gin.Context) {
	claims := middleware.GetClaims(c)

	bank, err := h.assessmentService.AptitudeTextQuestions(c.Request.Context(), claims.UserID)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	if len(bank.QuestionsByCategory) == 0 {
		response.Fail(c, http.StatusNotFound, response.ErrNotFound)
		return
	}

	response.Success(c, http.StatusOK, bank)
}

// SubmitCategoryResponses godoc
// POST /api/v1/assessment/aptitude/responses
// Grades and stores one aptitude category's answers.
func (h *AssessmentHandler) SubmitCategoryResponses(c *gin.Context) {
	claims := middleware.GetClaims(c)

	var req model.SubmitCategoryRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	result, err := h.assessmentService.SubmitCategoryResponses(c.Request.Context(), claims.UserID, &req)
	if err != nil {
		if errors.Is(err, service.ErrInvalidQuestion) {
			response.Fail(c, http.StatusBadRequest, response.ErrInvalidQuestion)
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, result)
}

// LastCategory godoc
// GET /api/v1/assessment/aptitude/last-category
// Returns the student's most recently submitted aptitude category.
func (h *AssessmentHandler) LastCategory(c *gin.Context) {
	claims := middleware.GetClaims(c)

	last, err := h.assessmentService.LastCategory(c.Request.Context(), claims.UserID)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"last_category": last})
}
