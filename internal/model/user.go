// Package model contain gorm model for recording data to database
package model

import (
	"time"

	"github.com/google/uuid"
)

// User role constants
var (
	// RoleEmployer is role for users that post jobs and review applications
	RoleEmployer = "employer"
	// RoleJobseeker is role for users that browse jobs and apply
	RoleJobseeker = "jobseeker"
)

// EditableProfile is part of user profile that can be edited
type EditableProfile struct {
	Name     string `gorm:"type:text" json:"name"`
	Company  string `gorm:"type:text" json:"company"`
	Website  string `gorm:"type:text" json:"website"`
	Location string `gorm:"type:text" json:"location"`
	Bio      string `gorm:"type:text" json:"bio"`
}

// User is gorm model for store user account data in DB
type User struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey;default:uuid_generate_v4()" json:"id"`
	Email    string    `gorm:"type:text;not null;uniqueIndex" json:"email"`
	Password string    `gorm:"type:text" json:"-"`
	Role     string    `gorm:"type:text;not null" json:"role"`
	EditableProfile
	// Profile resume uploaded independently of any application
	ResumeID  *int      `json:"resume_id"`
	Resume    File      `gorm:"foreignKey:ResumeID;references:ID" json:"-"`
	CreatedAt time.Time `gorm:"type:timestamp;default:CURRENT_TIMESTAMP;->" json:"created_at"`
}
