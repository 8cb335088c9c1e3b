package handler

import (
	"github.com/gradeflow/gradeflow-backend/internal/model"
	"github.com/gradeflow/gradeflow-backend/internal/service"
)

// scopeFromClaims derives the authorization scope from a validated token.
// Admins see everything; teachers are restricted to their own classes.
func scopeFromClaims(claims *service.Claims) service.Scope {
	if claims.Role == model.RoleAdmin {
		return service.UnrestrictedScope()
	}
	return service.InstructorScope(claims.UserID)
}
