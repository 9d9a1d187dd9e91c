// Package user provides HTTP handlers for account profile operations.
package user

import (
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"jobboard-backend/internal/database"
	"jobboard-backend/internal/filestore"
	"jobboard-backend/internal/model"
	"jobboard-backend/internal/utilities"
)

// UserController handles profile related endpoints
type UserController struct {
	DB    *database.DBService
	Store *filestore.Store
}

// NewUserController creates a new instance of UserController
func NewUserController(db *database.DBService, store *filestore.Store) *UserController {
	return &UserController{
		DB:    db,
		Store: store,
	}
}

// GetProfile returns the calling user's account.
// @Summary Get the caller's profile
// @Tags Users
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Success 200 {object} model.User "The caller's account"
// @Failure 401 {object} utilities.ErrorResponse "Invalid token"
// @Router /users/profile [get]
func (uc *UserController) GetProfile(c *gin.Context) {
	user, err := utilities.ExtractUser(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, utilities.ErrorResponse{Error: err.Error()})
		return
	}

	c.JSON(http.StatusOK, user)
}

// EditProfile merges non-empty profile fields into the calling user's
// account. Email, password and role are not settable here.
// @Summary Edit the caller's profile
// @Tags Users
// @Accept json
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param Profile body model.EditableProfile true "Profile fields to update"
// @Success 200 {object} model.User "Updated account"
// @Failure 400 {object} utilities.ErrorResponse "Invalid request body"
// @Failure 401 {object} utilities.ErrorResponse "Invalid token"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /users/profile [patch]
func (uc *UserController) EditProfile(c *gin.Context) {
	user, err := utilities.ExtractUser(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, utilities.ErrorResponse{Error: err.Error()})
		return
	}

	var incoming model.EditableProfile
	if err := c.ShouldBindJSON(&incoming); err != nil {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{
			Error: fmt.Sprintf("Invalid request body: %s", err.Error()),
		})
		return
	}

	utilities.MergeNonEmpty(&user.EditableProfile, &incoming)

	if err := uc.DB.Model(&model.User{}).Where("id = ?", user.ID).Updates(user.EditableProfile).Error; err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to update profile: %s", err.Error()),
		})
		return
	}

	c.JSON(http.StatusOK, user)
}

// ChangePassword replaces the caller's password after verifying the current one.
// @Summary Change the caller's password
// @Tags Users
// @Accept json
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Success 200 {object} utilities.MessageResponse "Password updated"
// @Failure 400 {object} utilities.ErrorResponse "Missing field, wrong current password, or new password too short"
// @Failure 401 {object} utilities.ErrorResponse "Invalid token"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /users/change-password [put]
func (uc *UserController) ChangePassword(c *gin.Context) {
	user, err := utilities.ExtractUser(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, utilities.ErrorResponse{Error: err.Error()})
		return
	}

	var body struct {
		CurrentPassword string `json:"current_password" binding:"required"`
		NewPassword     string `json:"new_password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{
			Error: "Current and new password must be provided",
		})
		return
	}

	if !utilities.VerifyPassword(body.CurrentPassword, user.Password) {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{
			Error: "Current password is incorrect",
		})
		return
	}

	if len(body.NewPassword) < 8 {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{
			Error: "Password should longer or equal to 8 characters",
		})
		return
	}

	hashed, err := utilities.HashPassword(body.NewPassword)
	if err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed hash password: %s", err.Error()),
		})
		return
	}

	if err := uc.DB.Model(&model.User{}).Where("id = ?", user.ID).Update("password", hashed).Error; err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to update password: %s", err.Error()),
		})
		return
	}

	c.JSON(http.StatusOK, utilities.MessageResponse{Message: "Password updated successfully"})
}

// UploadResume stores a resume on the caller's profile, independent of any
// application. A later upload replaces the reference; the old file row stays.
// @Summary Upload a profile resume
// @Tags Users
// @Accept mpfd
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param resume formData file true "Resume file"
// @Success 200 {object} map[string]interface{} "Upload confirmation with the stored file id"
// @Failure 400 {object} utilities.ErrorResponse "Missing resume file"
// @Failure 401 {object} utilities.ErrorResponse "Invalid token"
// @Failure 413 {object} utilities.ErrorResponse "Resume file too large"
// @Failure 502 {object} utilities.ErrorResponse "File storage unavailable"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /users/upload-resume [post]
func (uc *UserController) UploadResume(c *gin.Context) {
	user, err := utilities.ExtractUser(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, utilities.ErrorResponse{Error: err.Error()})
		return
	}

	rawFile, err := c.FormFile("resume")
	var maxBytesError *http.MaxBytesError
	if errors.As(err, &maxBytesError) {
		c.JSON(http.StatusRequestEntityTooLarge, utilities.ErrorResponse{
			Error: err.Error(),
		})
		return
	}
	if err != nil {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{
			Error: "Resume file is required",
		})
		return
	}

	f, err := rawFile.Open()
	if err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{Error: "Cannot open file"})
		return
	}
	defer func() {
		if err := f.Close(); err != nil {
			log.Printf("failed to close uploaded file: %v", err)
		}
	}()

	fileBytes, err := io.ReadAll(f)
	if err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{Error: "Cannot read file"})
		return
	}
	extension := strings.ToLower(filepath.Ext(rawFile.Filename))

	resume := model.File{}
	if err := uc.Store.Persist(&resume, fileBytes, extension, filestore.ResumeObjectPrefix); err != nil {
		c.JSON(http.StatusBadGateway, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to store resume: %s", err.Error()),
		})
		return
	}

	err = uc.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&resume).Error; err != nil {
			return err
		}
		return tx.Model(&model.User{}).
			Where("id = ?", user.ID).
			Update("resume_id", resume.ID).Error
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to save resume: %s", err.Error()),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":   "Resume uploaded successfully",
		"resume_id": resume.ID,
	})
}
