package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gradeflow/gradeflow-backend/internal/model"
	"github.com/gradeflow/gradeflow-backend/internal/response"
	"github.com/gradeflow/gradeflow-backend/internal/service"
	"github.com/gradeflow/gradeflow-backend/internal/validator"
)

// ProgrammeHandler handles programme and cohort management.
type ProgrammeHandler struct {
	programmeService *service.ProgrammeService
}

// NewProgrammeHandler creates a new ProgrammeHandler.
func NewProgrammeHandler(programmeService *service.ProgrammeService) *ProgrammeHandler {
	return &ProgrammeHandler{programmeService: programmeService}
}

// Create godoc
// POST /api/v1/programmes
func (h *ProgrammeHandler) Create(c *gin.Context) {
	var req model.CreateProgrammeRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	programme, err := h.programmeService.CreateProgramme(c.Request.Context(), req)
	if err != nil {
		failFromError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"programme": programme})
}

// List godoc
// GET /api/v1/programmes
func (h *ProgrammeHandler) List(c *gin.Context) {
	programmes, err := h.programmeService.ListProgrammes(c.Request.Context())
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	if programmes == nil {
		programmes = []model.Programme{}
	}

	response.Success(c, http.StatusOK, gin.H{"programmes": programmes})
}

// CreateCohort godoc
// POST /api/v1/programmes/:id/cohorts
func (h *ProgrammeHandler) CreateCohort(c *gin.Context) {
	programmeID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	var req model.CreateCohortRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	cohort, err := h.programmeService.CreateCohort(c.Request.Context(), programmeID, req)
	if err != nil {
		failFromError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"cohort": cohort})
}

// ListCohorts godoc
// GET /api/v1/programmes/:id/cohorts
func (h *ProgrammeHandler) ListCohorts(c *gin.Context) {
	programmeID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	cohorts, err := h.programmeService.ListCohorts(c.Request.Context(), programmeID)
	if err != nil {
		failFromError(c, err)
		return
	}
	if cohorts == nil {
		cohorts = []model.Cohort{}
	}

	response.Success(c, http.StatusOK, gin.H{"cohorts": cohorts})
}
