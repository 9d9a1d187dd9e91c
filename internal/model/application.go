package model

import (
	"time"

	"github.com/google/uuid"
)

// Application status constants
var (
	// ApplicationStatusPending indicates that the application is waiting for review
	ApplicationStatusPending = "pending"
	// ApplicationStatusReviewed indicates that the employer has looked at the application
	ApplicationStatusReviewed = "reviewed"
	// ApplicationStatusShortlisted indicates that the applicant made the shortlist
	ApplicationStatusShortlisted = "shortlisted"
	// ApplicationStatusRejected indicates that the application has been rejected
	ApplicationStatusRejected = "rejected"
	// ApplicationStatusHired indicates that the applicant got the job
	ApplicationStatusHired = "hired"
)

// ApplicationStatuses is the set of allowed values for the application status field.
// Any status may move to any other; there is no terminal state.
var ApplicationStatuses = []string{
	ApplicationStatusPending,
	ApplicationStatusReviewed,
	ApplicationStatusShortlisted,
	ApplicationStatusRejected,
	ApplicationStatusHired,
}

// Application represents a job application record.
// The unique index on (job_id, applicant_id) is the authoritative guard
// against duplicate applications; the handler pre-check only gives a nicer
// error message.
type Application struct {
	ID        uint      `gorm:"primaryKey;autoIncrement;->" json:"id"`
	AppliedAt time.Time `gorm:"type:timestamp" json:"applied_at"`
	Status    string    `gorm:"type:text;default:'pending'" json:"status"`

	JobID uint `gorm:"not null;uniqueIndex:idx_job_applicant;constraint:OnDelete:CASCADE" json:"job_id"`
	Job   Job  `gorm:"foreignKey:JobID;references:ID;constraint:OnDelete:CASCADE" json:"job"`

	ApplicantID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_job_applicant;index" json:"applicant_id"`
	Applicant   User      `gorm:"foreignKey:ApplicantID;references:ID" json:"applicant"`

	CoverLetter string `gorm:"type:text;not null" json:"cover_letter"`

	ResumeID *int `json:"resume_id"`
	Resume   File `gorm:"foreignKey:ResumeID;references:ID" json:"-"`

	// Notes is employer-authored; overwritten, not appended
	Notes string `gorm:"type:text" json:"notes"`
}

// ValidStatus reports whether s is one of the enumerated application statuses.
func ValidStatus(s string) bool {
	return contains(ApplicationStatuses, s)
}
