package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gradeflow/gradeflow-backend/internal/model"
	"github.com/gradeflow/gradeflow-backend/internal/response"
	"github.com/gradeflow/gradeflow-backend/internal/service"
)

// failFromError maps a service or repository error onto the response
// envelope. Raw storage errors never leak; anything unrecognized becomes a
// generic internal error.
func failFromError(c *gin.Context, err error) {
	// Invalid membership is a not-found failure over the referenced ids,
	// reported with every bad id at once.
	var membership *model.MembershipError
	if errors.As(err, &membership) {
		fields := make(map[string]string, len(membership.MissingIDs))
		for _, id := range membership.MissingIDs {
			fields[id.String()] = membership.Reason()
		}
		response.FailWithFields(c, http.StatusNotFound, response.ErrInvalidMembership, fields)
		return
	}

	switch {
	case errors.Is(err, model.ErrUserNotFound),
		errors.Is(err, model.ErrProgrammeNotFound),
		errors.Is(err, model.ErrCohortNotFound),
		errors.Is(err, model.ErrClassNotFound),
		errors.Is(err, model.ErrAssignmentNotFound),
		errors.Is(err, model.ErrGradeNotFound),
		errors.Is(err, model.ErrStudentGroupNotFound),
		errors.Is(err, model.ErrGraderGroupNotFound):
		response.Fail(c, http.StatusNotFound, response.ErrNotFound)

	case errors.Is(err, model.ErrNotClassInstructor):
		response.Fail(c, http.StatusForbidden, response.ErrNotClassInstructor)

	case errors.Is(err, model.ErrNotEnrolled):
		response.Fail(c, http.StatusNotFound, response.ErrNotEnrolled)

	case errors.Is(err, model.ErrDuplicateEmail),
		errors.Is(err, model.ErrDuplicateProgramme),
		errors.Is(err, model.ErrDuplicateCohort),
		errors.Is(err, model.ErrDuplicateClassCode),
		errors.Is(err, model.ErrDuplicateGroupName),
		errors.Is(err, model.ErrDuplicateBundle):
		response.Fail(c, http.StatusConflict, response.ErrConflict)

	case errors.Is(err, service.ErrInvalidCredentials):
		response.Fail(c, http.StatusUnauthorized, response.ErrInvalidCredentials)

	case errors.Is(err, service.ErrAccountInactive):
		response.Fail(c, http.StatusForbidden, response.ErrAccountInactive)

	case errors.Is(err, service.ErrInstructorRequired):
		response.Fail(c, http.StatusBadRequest, response.ErrInstructorRequired)

	case errors.Is(err, service.ErrStudentIdentifierRequired):
		response.Fail(c, http.StatusBadRequest, response.ErrStudentRequired)

	case errors.Is(err, service.ErrNotAStudent):
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation,
			map[string]string{"student_id": "user is not a student account"})

	case errors.Is(err, service.ErrNotATeacher):
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation,
			map[string]string{"instructor_ids": "instructor is not a teacher account"})

	default:
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
	}
}
