package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/mycareerchoices/compass-backend/internal/middleware"
	"github.com/mycareerchoices/compass-backend/internal/model"
	"github.com/mycareerchoices/compass-backend/internal/report"
	"github.com/mycareerchoices/compass-backend/internal/response"
	"github.com/mycareerchoices/compass-backend/internal/scoring"
	"github.com/mycareerchoices/compass-backend/internal/service"
)

// ScoreSource is the slice of the scoring service the results endpoints read.
type ScoreSource interface {
	CareerScores(ctx context.Context, studentID int) (*scoring.CareerScores, error)
	CareerBreakdown(ctx context.Context, studentID int) (*scoring.CareerBreakdown, error)
	AptitudeScores(ctx context.Context, studentID int) ([]scoring.CategoryScore, error)
	AptitudeBreakdown(ctx context.Context, studentID int) ([]scoring.CategoryTotal, error)
}

// StudentSource resolves students for name display and release-flag checks.
type StudentSource interface {
	GetByID(ctx context.Context, id int) (*model.Student, error)
}

// ResultsHandler serves scores and the career report.
type ResultsHandler struct {
	scoringService ScoreSource
	reportBuilder  *report.Builder
	students       StudentSource
}

// NewResultsHandler creates a new ResultsHandler.
func NewResultsHandler(scoringService ScoreSource, reportBuilder *report.Builder, students StudentSource) *ResultsHandler {
	return &ResultsHandler{
		scoringService: scoringService,
		reportBuilder:  reportBuilder,
		students:       students,
	}
}

// CareerScores godoc
// GET /api/v1/results/:student_id/career-scores
// Returns the full career scoring table. Students only see their own
// scores once an admin has released them.
func (h *ResultsHandler) CareerScores(c *gin.Context) {
	studentID, ok := h.authorizeResults(c)
	if !ok {
		return
	}

	scores, err := h.scoringService.CareerScores(c.Request.Context(), studentID)
	if err != nil {
		h.failScoring(c, err)
		return
	}

	response.Success(c, http.StatusOK, scores)
}

// CareerReport godoc
// GET /api/v1/results/:student_id/career-report
// Returns the enriched top-fields career report.
func (h *ResultsHandler) CareerReport(c *gin.Context) {
	studentID, ok := h.authorizeResults(c)
	if !ok {
		return
	}

	breakdown, err := h.scoringService.CareerBreakdown(c.Request.Context(), studentID)
	if err != nil {
		h.failScoring(c, err)
		return
	}

	response.Success(c, http.StatusOK, h.reportBuilder.Build(studentID, breakdown))
}

// AptitudeScores godoc
// GET /api/v1/results/:student_id/aptitude-scores
// Returns the per-category aptitude score table with the student's name.
func (h *ResultsHandler) AptitudeScores(c *gin.Context) {
	studentID, err := strconv.Atoi(c.Param("student_id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	student, err := h.students.GetByID(c.Request.Context(), studentID)
	if err != nil {
		response.Fail(c, http.StatusNotFound, response.ErrNotFound)
		return
	}

	scores, err := h.scoringService.AptitudeScores(c.Request.Context(), studentID)
	if err != nil {
		h.failScoring(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"student_id":   studentID,
		"student_name": student.FullName(),
		"scores":       scores,
	})
}

// AptitudeBreakdown godoc
// GET /api/v1/results/:student_id/aptitude-breakdown
// Returns a student's answered/correct totals per category. Admins can
// read any student's totals; students only their own.
func (h *ResultsHandler) AptitudeBreakdown(c *gin.Context) {
	studentID, err := strconv.Atoi(c.Param("student_id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	totals, err := h.scoringService.AptitudeBreakdown(c.Request.Context(), studentID)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"student_id": studentID, "categories": totals})
}

// authorizeResults parses the student_id param and, for student callers,
// enforces the admin-controlled release flag. Route-level middleware has
// already established that the caller is an admin or the student themself.
func (h *ResultsHandler) authorizeResults(c *gin.Context) (int, bool) {
	studentID, err := strconv.Atoi(c.Param("student_id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return 0, false
	}

	claims := middleware.GetClaims(c)
	if claims != nil && claims.Role == service.RoleStudent {
		student, err := h.students.GetByID(c.Request.Context(), studentID)
		if err != nil {
			response.Fail(c, http.StatusNotFound, response.ErrNotFound)
			return 0, false
		}
		if !student.CanViewCareerResult {
			response.Fail(c, http.StatusForbidden, response.ErrResultsNotReleased)
			return 0, false
		}
	}
	return studentID, true
}

func (h *ResultsHandler) failScoring(c *gin.Context, err error) {
	if errors.Is(err, scoring.ErrNoResponses) {
		response.Fail(c, http.StatusNotFound, response.ErrNoResponses)
		return
	}
	response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
}
