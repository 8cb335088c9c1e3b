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

// GroupHandler handles student groups, grader groups, and their bundles.
// All routes are nested under a class.
type GroupHandler struct {
	groupService *service.GroupService
}

// NewGroupHandler creates a new GroupHandler.
func NewGroupHandler(groupService *service.GroupService) *GroupHandler {
	return &GroupHandler{groupService: groupService}
}

func classAndGroupParams(c *gin.Context) (classID, groupID uuid.UUID, ok bool) {
	classID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return uuid.Nil, uuid.Nil, false
	}
	groupID, err = uuid.Parse(c.Param("groupId"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return uuid.Nil, uuid.Nil, false
	}
	return classID, groupID, true
}

// CreateStudentGroup godoc
// POST /api/v1/classes/:id/student-groups
func (h *GroupHandler) CreateStudentGroup(c *gin.Context) {
	classID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	var req model.CreateStudentGroupRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	group, err := h.groupService.CreateStudentGroup(c.Request.Context(), classID, req)
	if err != nil {
		failFromError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"student_group": group})
}

// UpdateStudentGroupMembers godoc
// PUT /api/v1/classes/:id/student-groups/:groupId/members
func (h *GroupHandler) UpdateStudentGroupMembers(c *gin.Context) {
	classID, groupID, ok := classAndGroupParams(c)
	if !ok {
		return
	}

	var req model.UpdateStudentGroupMembersRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	group, err := h.groupService.UpdateStudentGroupMembers(c.Request.Context(), classID, groupID, req)
	if err != nil {
		failFromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"student_group": group})
}

// ListStudentGroups godoc
// GET /api/v1/classes/:id/student-groups
func (h *GroupHandler) ListStudentGroups(c *gin.Context) {
	classID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	groups, err := h.groupService.ListStudentGroups(c.Request.Context(), classID)
	if err != nil {
		failFromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"student_groups": groups})
}

// CreateGraderGroup godoc
// POST /api/v1/classes/:id/grader-groups
func (h *GroupHandler) CreateGraderGroup(c *gin.Context) {
	classID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	var req model.CreateGraderGroupRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	group, err := h.groupService.CreateGraderGroup(c.Request.Context(), classID, req)
	if err != nil {
		failFromError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"grader_group": group})
}

// UpdateGraderGroup godoc
// PATCH /api/v1/classes/:id/grader-groups/:groupId
func (h *GroupHandler) UpdateGraderGroup(c *gin.Context) {
	classID, groupID, ok := classAndGroupParams(c)
	if !ok {
		return
	}

	var req model.UpdateGraderGroupRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	group, err := h.groupService.UpdateGraderGroup(c.Request.Context(), classID, groupID, req)
	if err != nil {
		failFromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"grader_group": group})
}

// ListGraderGroups godoc
// GET /api/v1/classes/:id/grader-groups
func (h *GroupHandler) ListGraderGroups(c *gin.Context) {
	classID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	groups, err := h.groupService.ListGraderGroups(c.Request.Context(), classID)
	if err != nil {
		failFromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"grader_groups": groups})
}

// CreateBundle godoc
// POST /api/v1/classes/:id/group-bundles
func (h *GroupHandler) CreateBundle(c *gin.Context) {
	classID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	var req model.CreateGroupBundleRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	bundle, err := h.groupService.CreateGroupBundle(c.Request.Context(), classID, req)
	if err != nil {
		failFromError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"group_bundle": bundle})
}

// ListBundles godoc
// GET /api/v1/classes/:id/group-bundles
func (h *GroupHandler) ListBundles(c *gin.Context) {
	classID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	bundles, err := h.groupService.ListGroupBundles(c.Request.Context(), classID)
	if err != nil {
		failFromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"group_bundles": bundles})
}
