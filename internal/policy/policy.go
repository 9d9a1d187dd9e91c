// Package policy holds the authorization predicates gating job and
// application operations. Every function is a pure check over entities the
// caller already fetched; none of them touch the database.
package policy

import (
	"errors"

	"jobboard-backend/internal/model"
)

// ErrForbidden is returned by every predicate when the caller lacks rights
// over the record or action. Handlers map it to HTTP 403.
var ErrForbidden = errors.New("caller is not allowed to perform this action")

// RequireRole fails unless the caller holds the given role.
func RequireRole(caller model.User, role string) error {
	if caller.Role != role {
		return ErrForbidden
	}
	return nil
}

// RequireJobOwner fails unless the caller is the employer owning the job.
func RequireJobOwner(job model.Job, caller model.User) error {
	if job.EmployerID != caller.ID {
		return ErrForbidden
	}
	return nil
}

// RequireApplicationParty fails unless the caller is the applicant or the
// employer owning the application's job. The job must be resolved on the
// application before calling.
func RequireApplicationParty(application model.Application, caller model.User) error {
	if application.ApplicantID == caller.ID {
		return nil
	}
	if application.Job.EmployerID == caller.ID {
		return nil
	}
	return ErrForbidden
}
