package policy

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"jobboard-backend/internal/model"
)

func TestRequireRole(t *testing.T) {
	employer := model.User{ID: uuid.New(), Role: model.RoleEmployer}
	jobseeker := model.User{ID: uuid.New(), Role: model.RoleJobseeker}

	assert.NoError(t, RequireRole(employer, model.RoleEmployer))
	assert.NoError(t, RequireRole(jobseeker, model.RoleJobseeker))
	assert.ErrorIs(t, RequireRole(jobseeker, model.RoleEmployer), ErrForbidden)
	assert.ErrorIs(t, RequireRole(employer, model.RoleJobseeker), ErrForbidden)
}

func TestRequireJobOwner(t *testing.T) {
	owner := model.User{ID: uuid.New(), Role: model.RoleEmployer}
	other := model.User{ID: uuid.New(), Role: model.RoleEmployer}
	job := model.Job{ID: 1, EmployerID: owner.ID}

	assert.NoError(t, RequireJobOwner(job, owner))
	assert.ErrorIs(t, RequireJobOwner(job, other), ErrForbidden)
}

func TestRequireApplicationParty(t *testing.T) {
	employer := model.User{ID: uuid.New(), Role: model.RoleEmployer}
	applicant := model.User{ID: uuid.New(), Role: model.RoleJobseeker}
	bystander := model.User{ID: uuid.New(), Role: model.RoleJobseeker}

	application := model.Application{
		ID:          1,
		ApplicantID: applicant.ID,
		Job:         model.Job{ID: 1, EmployerID: employer.ID},
	}

	assert.NoError(t, RequireApplicationParty(application, applicant))
	assert.NoError(t, RequireApplicationParty(application, employer))
	assert.ErrorIs(t, RequireApplicationParty(application, bystander), ErrForbidden)
}
