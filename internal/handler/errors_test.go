package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gradeflow/gradeflow-backend/internal/model"
	"github.com/gradeflow/gradeflow-backend/internal/response"
	"github.com/gradeflow/gradeflow-backend/internal/service"
)

func failWith(t *testing.T, err error) (int, response.ErrorBody) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)

	failFromError(c, err)

	var body struct {
		Error *response.ErrorBody `json:"error"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode envelope: %v", err)
	}
	if body.Error == nil {
		t.Fatal("envelope carries no error body")
	}
	return rec.Code, *body.Error
}

func TestFailFromErrorNotEnrolledIsNotFound(t *testing.T) {
	status, errBody := failWith(t, model.ErrNotEnrolled)
	if status != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", status)
	}
	if errBody.Code != response.ErrNotEnrolled {
		t.Fatalf("expected %s code, got %s", response.ErrNotEnrolled, errBody.Code)
	}
}

func TestFailFromErrorMembershipIsNotFoundWithFields(t *testing.T) {
	badA, badB := uuid.New(), uuid.New()
	status, errBody := failWith(t, &model.MembershipError{
		Kind:       "member",
		MissingIDs: []uuid.UUID{badA, badB},
	})
	if status != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", status)
	}
	if errBody.Code != response.ErrInvalidMembership {
		t.Fatalf("expected %s code, got %s", response.ErrInvalidMembership, errBody.Code)
	}
	if len(errBody.Fields) != 2 {
		t.Fatalf("expected one field per invalid id, got %v", errBody.Fields)
	}
	for _, id := range []uuid.UUID{badA, badB} {
		if _, ok := errBody.Fields[id.String()]; !ok {
			t.Fatalf("missing field for invalid id %s: %v", id, errBody.Fields)
		}
	}
}

func TestFailFromErrorStatusTable(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want int
		code response.ErrCode
	}{
		{"grade not found", model.ErrGradeNotFound, http.StatusNotFound, response.ErrNotFound},
		{"class not found", model.ErrClassNotFound, http.StatusNotFound, response.ErrNotFound},
		{"not class instructor", model.ErrNotClassInstructor, http.StatusForbidden, response.ErrNotClassInstructor},
		{"duplicate class code", model.ErrDuplicateClassCode, http.StatusConflict, response.ErrConflict},
		{"duplicate bundle", model.ErrDuplicateBundle, http.StatusConflict, response.ErrConflict},
		{"invalid credentials", service.ErrInvalidCredentials, http.StatusUnauthorized, response.ErrInvalidCredentials},
		{"unrecognized", errors.New("connection reset"), http.StatusInternalServerError, response.ErrInternal},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			status, errBody := failWith(t, tc.err)
			if status != tc.want {
				t.Fatalf("expected %d, got %d", tc.want, status)
			}
			if errBody.Code != tc.code {
				t.Fatalf("expected %s code, got %s", tc.code, errBody.Code)
			}
		})
	}
}
