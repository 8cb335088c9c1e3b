package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gradeflow/gradeflow-backend/internal/middleware"
	"github.com/gradeflow/gradeflow-backend/internal/model"
	"github.com/gradeflow/gradeflow-backend/internal/response"
	"github.com/gradeflow/gradeflow-backend/internal/service"
	"github.com/gradeflow/gradeflow-backend/internal/validator"
)

// GradeHandler exposes the grade ledger and the student overview feed.
type GradeHandler struct {
	gradeService    *service.GradeService
	overviewService *service.OverviewService
}

// NewGradeHandler creates a new GradeHandler.
func NewGradeHandler(gradeService *service.GradeService, overviewService *service.OverviewService) *GradeHandler {
	return &GradeHandler{gradeService: gradeService, overviewService: overviewService}
}

// Upsert godoc
// PUT /api/v1/assignments/:id/grades
// Creates or updates the grade for one (assignment, student) pair.
func (h *GradeHandler) Upsert(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	assignmentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	var req model.UpsertGradeRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	grade, err := h.gradeService.UpsertGrade(c.Request.Context(), assignmentID, req, claims.UserID, scopeFromClaims(claims))
	if err != nil {
		failFromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"grade": grade})
}

// ListByAssignment godoc
// GET /api/v1/assignments/:id/grades
// One row per student in the roster or the grade collection.
func (h *GradeHandler) ListByAssignment(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	assignmentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	rows, err := h.gradeService.ListGradesForAssignment(c.Request.Context(), assignmentID, scopeFromClaims(claims))
	if err != nil {
		failFromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"grades": rows})
}

// Release godoc
// POST /api/v1/grades/:id/release
func (h *GradeHandler) Release(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	gradeID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	var req model.ReleaseGradeRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	grade, err := h.gradeService.ReleaseGrade(c.Request.Context(), gradeID, req, claims.UserID, scopeFromClaims(claims))
	if err != nil {
		failFromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"grade": grade})
}

// ListByStudent godoc
// GET /api/v1/students/:id/grades
// Students may only read their own grades.
func (h *GradeHandler) ListByStudent(c *gin.Context) {
	studentID, ok := h.studentParam(c)
	if !ok {
		return
	}

	grades, err := h.gradeService.ListGradesForStudent(c.Request.Context(), studentID)
	if err != nil {
		failFromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"grades": grades})
}

// Overview godoc
// GET /api/v1/students/:id/overview
// One row per assignment across all the student's enrolled classes.
func (h *GradeHandler) Overview(c *gin.Context) {
	studentID, ok := h.studentParam(c)
	if !ok {
		return
	}

	rows, err := h.overviewService.GetStudentAssignmentOverview(c.Request.Context(), studentID)
	if err != nil {
		failFromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"assignments": rows})
}

// studentParam parses the :id path param and enforces that students can
// only address themselves.
func (h *GradeHandler) studentParam(c *gin.Context) (uuid.UUID, bool) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return uuid.Nil, false
	}

	studentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return uuid.Nil, false
	}

	if claims.Role == model.RoleStudent && claims.UserID != studentID {
		response.Fail(c, http.StatusForbidden, response.ErrForbidden)
		return uuid.Nil, false
	}
	return studentID, true
}
