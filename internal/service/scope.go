package service

import "github.com/google/uuid"

// Scope is the authorization scope of a ledger or coordinator call: either
// unrestricted (admin callers) or narrowed to a single instructor (teacher
// callers). Handlers build it once from the verified JWT claims and thread
// it explicitly into every call.
type Scope struct {
	instructorID *uuid.UUID
}

// UnrestrictedScope allows access to any class's resources.
func UnrestrictedScope() Scope {
	return Scope{}
}

// InstructorScope narrows access to classes the instructor is assigned to.
func InstructorScope(id uuid.UUID) Scope {
	return Scope{instructorID: &id}
}

// RestrictedTo returns the instructor id the scope is narrowed to, if any.
func (s Scope) RestrictedTo() (uuid.UUID, bool) {
	if s.instructorID == nil {
		return uuid.Nil, false
	}
	return *s.instructorID, true
}
