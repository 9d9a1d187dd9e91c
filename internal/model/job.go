package model

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// Job status constants
var (
	// JobStatusActive indicates the job accepts applications and shows up in listings
	JobStatusActive = "active"
	// JobStatusClosed indicates the job no longer accepts applications
	JobStatusClosed = "closed"
	// JobStatusDraft indicates the job is not published yet
	JobStatusDraft = "draft"
)

// JobTypes is the set of allowed values for the job type field
var JobTypes = []string{"full-time", "part-time", "contract", "internship", "freelance"}

// ExperienceLevels is the set of allowed values for the experience field
var ExperienceLevels = []string{"entry", "junior", "mid", "senior", "lead", "executive"}

// JobStatuses is the set of allowed values for the job status field
var JobStatuses = []string{JobStatusActive, JobStatusClosed, JobStatusDraft}

// EditableJobInfo is part of job that can be set at creation and edited afterwards.
// Every field is independently optional on edit; enum fields are re-validated
// whenever present.
type EditableJobInfo struct {
	Title               string         `gorm:"type:text" json:"title"`
	Company             string         `gorm:"type:text" json:"company"`
	Description         string         `gorm:"type:text" json:"description"`
	Requirements        string         `gorm:"type:text" json:"requirements"`
	Location            string         `gorm:"type:text" json:"location"`
	SalaryMin           *int           `json:"salary_min,omitempty"`
	SalaryMax           *int           `json:"salary_max,omitempty"`
	SalaryCurrency      string         `gorm:"type:text;default:'USD'" json:"salary_currency"`
	Type                string         `gorm:"type:text" json:"type"`
	Category            string         `gorm:"type:text" json:"category"`
	Skills              pq.StringArray `gorm:"type:text[]" json:"skills"`
	Experience          string         `gorm:"type:text" json:"experience"`
	Remote              *bool          `json:"remote,omitempty"`
	Status              string         `gorm:"type:text;default:'active'" json:"status"`
	Featured            *bool          `json:"featured,omitempty"`
	ApplicationDeadline *time.Time     `gorm:"type:timestamp" json:"application_deadline,omitempty"`
}

// Job is gorm model for store job posting data in DB
type Job struct {
	ID         uint      `gorm:"primaryKey;autoIncrement;->" json:"id"`
	EmployerID uuid.UUID `gorm:"type:uuid;not null;index;<-:create" json:"employer_id"`
	Employer   User      `gorm:"foreignKey:EmployerID;references:ID" json:"employer"`
	EditableJobInfo
	ApplicationsCount int           `gorm:"not null;default:0" json:"applications_count"`
	CreatedAt         time.Time     `gorm:"type:timestamp;default:CURRENT_TIMESTAMP;->" json:"created_at"`
	Applications      []Application `gorm:"foreignKey:JobID;constraint:OnDelete:CASCADE" json:"-"`
}

// Validate checks required fields and enum membership for a job about to be created.
func (info *EditableJobInfo) Validate() error {
	required := map[string]string{
		"title":        info.Title,
		"company":      info.Company,
		"description":  info.Description,
		"requirements": info.Requirements,
		"location":     info.Location,
		"type":         info.Type,
		"category":     info.Category,
		"experience":   info.Experience,
	}
	for field, value := range required {
		if value == "" {
			return fmt.Errorf("missing required field: %s", field)
		}
	}
	return info.ValidateEnums()
}

// ValidateEnums checks enum fields that are present, leaving absent ones alone.
// Used for partial updates where unspecified fields keep their prior value.
func (info *EditableJobInfo) ValidateEnums() error {
	if info.Type != "" && !contains(JobTypes, info.Type) {
		return fmt.Errorf("invalid job type: %s", info.Type)
	}
	if info.Experience != "" && !contains(ExperienceLevels, info.Experience) {
		return fmt.Errorf("invalid experience level: %s", info.Experience)
	}
	if info.Status != "" && !contains(JobStatuses, info.Status) {
		return fmt.Errorf("invalid job status: %s", info.Status)
	}
	return nil
}

func contains(slice []string, s string) bool {
	for _, v := range slice {
		if v == s {
			return true
		}
	}
	return false
}
