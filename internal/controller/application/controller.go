// Package application provides HTTP handlers for job application operations.
package application

import (
	"errors"
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"jobboard-backend/internal/database"
	"jobboard-backend/internal/filestore"
	"jobboard-backend/internal/mail"
	"jobboard-backend/internal/model"
	"jobboard-backend/internal/policy"
	"jobboard-backend/internal/utilities"
)

// ApplicationController handles job application related endpoints
type ApplicationController struct {
	DB     *database.DBService
	Store  *filestore.Store
	Mailer mail.Mailer
}

// NewApplicationController creates a new instance of ApplicationController.
// Mailer may be nil, in which case no notification emails are sent.
func NewApplicationController(db *database.DBService, store *filestore.Store, mailer mail.Mailer) *ApplicationController {
	return &ApplicationController{
		DB:     db,
		Store:  store,
		Mailer: mailer,
	}
}

// SubmitHandler handles the submission of a new job application by a jobseeker.
// @Summary Apply to a job with a cover letter and resume file
// @Description Only jobseeker users can access this endpoint. Multipart form with job_id, cover_letter and resume.
// @Tags Applications
// @Accept mpfd
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param job_id formData integer true "ID of the job to apply to"
// @Param cover_letter formData string true "Cover letter text"
// @Param resume formData file true "Resume file"
// @Success 201 {object} model.Application "Successfully applied to job"
// @Failure 400 {object} utilities.ErrorResponse "Missing resume, cover letter or job id"
// @Failure 401 {object} utilities.ErrorResponse "Invalid token"
// @Failure 403 {object} utilities.ErrorResponse "Not logged in as jobseeker"
// @Failure 404 {object} utilities.ErrorResponse "Job not found"
// @Failure 409 {object} utilities.ErrorResponse "Already applied to this job"
// @Failure 413 {object} utilities.ErrorResponse "Resume file too large"
// @Failure 502 {object} utilities.ErrorResponse "File storage unavailable"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /applications [post]
func (ac *ApplicationController) SubmitHandler(c *gin.Context) {
	user, err := utilities.ExtractUser(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, utilities.ErrorResponse{Error: err.Error()})
		return
	}

	// Resume must be present before anything else is looked at
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

	coverLetter := c.PostForm("cover_letter")
	if coverLetter == "" {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{
			Error: "Cover letter is required",
		})
		return
	}

	rawJobID := c.PostForm("job_id")
	if rawJobID == "" {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{
			Error: "Job id is required",
		})
		return
	}
	jobID, ok := parseRecordID(rawJobID)
	if !ok {
		c.JSON(http.StatusNotFound, utilities.ErrorResponse{Error: "Job not found"})
		return
	}

	// The job must exist
	job := model.Job{}
	if err := ac.DB.Preload("Employer").Where("id = ?", jobID).First(&job).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, utilities.ErrorResponse{Error: "Job not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to retrieve job: %s", err.Error()),
		})
		return
	}

	// Prevent duplicate applications. The unique index on (job_id, applicant_id)
	// is the authoritative guard; this check exists for the common case.
	existing := model.Application{}
	if err := ac.DB.
		Where("job_id = ? AND applicant_id = ?", job.ID, user.ID).
		First(&existing).Error; err == nil {
		c.JSON(http.StatusConflict, utilities.ErrorResponse{
			Error: "You have already applied for this job",
		})
		return
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: "Failed to check existing application",
		})
		return
	}

	fileBytes, extension, ok := ac.readResume(c, rawFile)
	if !ok {
		return
	}

	resume := model.File{}
	if err := ac.Store.Persist(&resume, fileBytes, extension, filestore.ResumeObjectPrefix); err != nil {
		c.JSON(http.StatusBadGateway, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to store resume: %s", err.Error()),
		})
		return
	}

	application := model.Application{
		JobID:       job.ID,
		ApplicantID: user.ID,
		CoverLetter: coverLetter,
		Status:      model.ApplicationStatusPending,
		AppliedAt:   time.Now(),
	}

	// Application row, resume row and counter increment go in one transaction
	err = ac.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&resume).Error; err != nil {
			return err
		}
		application.ResumeID = &resume.ID

		if err := tx.Create(&application).Error; err != nil {
			return err
		}

		return tx.Model(&model.Job{}).
			Where("id = ?", job.ID).
			UpdateColumn("applications_count", gorm.Expr("applications_count + ?", 1)).Error
	})
	if err != nil {
		var pqErr *pgconn.PgError
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			// A concurrent submission won the race; same answer as the pre-check
			c.JSON(http.StatusConflict, utilities.ErrorResponse{
				Error: "You have already applied for this job",
			})
			return
		}
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to create application: %s", err.Error()),
		})
		return
	}

	// Best-effort notifications; never part of the success path
	go ac.notifySubmission(job, user)

	application.Job = job
	application.Applicant = user
	c.JSON(http.StatusCreated, application)
}

// parseRecordID rejects values that cannot be a numeric record id, so
// garbage never reaches the database as an id comparison.
func parseRecordID(raw string) (uint64, bool) {
	id, err := strconv.ParseUint(raw, 10, 64)
	return id, err == nil
}

func (ac *ApplicationController) readResume(c *gin.Context, rawFile *multipart.FileHeader) ([]byte, string, bool) {
	f, err := rawFile.Open()
	if err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{Error: "Cannot open file"})
		return nil, "", false
	}
	defer func() {
		if err := f.Close(); err != nil {
			log.Printf("failed to close uploaded file: %v", err)
		}
	}()

	fileBytes, err := io.ReadAll(f)
	if err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{Error: "Cannot read file"})
		return nil, "", false
	}

	extension := strings.ToLower(filepath.Ext(rawFile.Filename))
	return fileBytes, extension, true
}

// notifySubmission emails the employer and the applicant about a new
// application. Failures are logged and swallowed.
func (ac *ApplicationController) notifySubmission(job model.Job, applicant model.User) {
	if ac.Mailer == nil {
		return
	}

	subject, body := mail.ApplicationNotification(job.Title, applicant.Name)
	if err := ac.Mailer.Send(job.Employer.Email, subject, body); err != nil {
		log.Printf("failed to notify employer %s: %v", job.Employer.Email, err)
	}

	subject, body = mail.ApplicationConfirmation(job.Title, job.Company)
	if err := ac.Mailer.Send(applicant.Email, subject, body); err != nil {
		log.Printf("failed to send confirmation to %s: %v", applicant.Email, err)
	}
}

// GetJobApplications returns every application for a job the caller owns.
// @Summary Get applications for one of the caller's jobs
// @Tags Applications
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param jobId path integer true "ID of the job"
// @Success 200 {array} model.Application "Applications, newest applied first"
// @Failure 401 {object} utilities.ErrorResponse "Invalid token"
// @Failure 403 {object} utilities.ErrorResponse "Caller does not own the job"
// @Failure 404 {object} utilities.ErrorResponse "Job not found"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /applications/job/{jobId} [get]
func (ac *ApplicationController) GetJobApplications(c *gin.Context) {
	user, err := utilities.ExtractUser(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, utilities.ErrorResponse{Error: err.Error()})
		return
	}

	jobID, ok := parseRecordID(c.Param("jobId"))
	if !ok {
		c.JSON(http.StatusNotFound, utilities.ErrorResponse{Error: "Job not found"})
		return
	}

	job := model.Job{}
	if err := ac.DB.Where("id = ?", jobID).First(&job).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, utilities.ErrorResponse{Error: "Job not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to retrieve job: %s", err.Error()),
		})
		return
	}

	if err := policy.RequireJobOwner(job, user); err != nil {
		c.JSON(http.StatusForbidden, utilities.ErrorResponse{
			Error: "You are not allowed to view applications for this job",
		})
		return
	}

	applications := []model.Application{}
	err = ac.DB.
		Preload("Applicant").
		Where("job_id = ?", job.ID).
		Order("applied_at DESC, id DESC").
		Find(&applications).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprint("Failed to fetch applications: ", err.Error()),
		})
		return
	}

	c.JSON(http.StatusOK, applications)
}

// GetMyApplications returns every application the calling jobseeker submitted.
// @Summary Get the caller's applications
// @Tags Applications
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Success 200 {array} model.Application "Applications, newest applied first"
// @Failure 401 {object} utilities.ErrorResponse "Invalid token"
// @Failure 403 {object} utilities.ErrorResponse "Not logged in as jobseeker"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /applications/my [get]
func (ac *ApplicationController) GetMyApplications(c *gin.Context) {
	user, err := utilities.ExtractUser(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, utilities.ErrorResponse{Error: err.Error()})
		return
	}

	applications := []model.Application{}
	err = ac.DB.
		Preload("Job").
		Where("applicant_id = ?", user.ID).
		Order("applied_at DESC, id DESC").
		Find(&applications).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprint("Failed to fetch applications: ", err.Error()),
		})
		return
	}

	c.JSON(http.StatusOK, applications)
}

// UpdateStatusHandler moves an application to a new status, optionally
// replacing the employer notes. No transition table restricts movement
// between statuses.
// @Summary Update the status of an application for one of the caller's jobs
// @Tags Applications
// @Accept json
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param id path integer true "ID of the application"
// @Success 200 {object} model.Application "Updated application"
// @Failure 400 {object} utilities.ErrorResponse "Missing or invalid status value"
// @Failure 401 {object} utilities.ErrorResponse "Invalid token"
// @Failure 403 {object} utilities.ErrorResponse "Caller does not own the application's job"
// @Failure 404 {object} utilities.ErrorResponse "Application not found"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /applications/{id}/status [patch]
func (ac *ApplicationController) UpdateStatusHandler(c *gin.Context) {
	user, err := utilities.ExtractUser(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, utilities.ErrorResponse{Error: err.Error()})
		return
	}

	var body struct {
		Status string `json:"status" binding:"required"`
		Notes  string `json:"notes"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{
			Error: "Status must be provided",
		})
		return
	}

	if !model.ValidStatus(body.Status) {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{
			Error: fmt.Sprintf("Invalid status: %s", body.Status),
		})
		return
	}

	id, ok := parseRecordID(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, utilities.ErrorResponse{Error: "Application not found"})
		return
	}

	application := model.Application{}
	if err := ac.DB.Preload("Job").Where("id = ?", id).First(&application).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, utilities.ErrorResponse{Error: "Application not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to retrieve application: %s", err.Error()),
		})
		return
	}

	if err := policy.RequireJobOwner(application.Job, user); err != nil {
		c.JSON(http.StatusForbidden, utilities.ErrorResponse{
			Error: "You are not allowed to update this application",
		})
		return
	}

	updates := map[string]interface{}{"status": body.Status}
	if body.Notes != "" {
		// Notes are replaced, not appended
		updates["notes"] = body.Notes
	}

	if err := ac.DB.Model(&application).Updates(updates).Error; err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to update application: %s", err.Error()),
		})
		return
	}

	c.JSON(http.StatusOK, application)
}

// GetApplicationByID returns a single application to its applicant or the
// employer owning its job.
// @Summary Get application by ID
// @Tags Applications
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param id path integer true "ID of the application"
// @Success 200 {object} model.Application "Return the application with the specified ID"
// @Failure 401 {object} utilities.ErrorResponse "Invalid token"
// @Failure 403 {object} utilities.ErrorResponse "Caller is neither the applicant nor the job owner"
// @Failure 404 {object} utilities.ErrorResponse "Application not found"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /applications/{id} [get]
func (ac *ApplicationController) GetApplicationByID(c *gin.Context) {
	user, err := utilities.ExtractUser(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, utilities.ErrorResponse{Error: err.Error()})
		return
	}

	id, ok := parseRecordID(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, utilities.ErrorResponse{Error: "Application not found"})
		return
	}

	application := model.Application{}
	if err := ac.DB.
		Preload("Job").
		Preload("Applicant").
		Where("id = ?", id).
		First(&application).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, utilities.ErrorResponse{Error: "Application not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to retrieve application: %s", err.Error()),
		})
		return
	}

	if err := policy.RequireApplicationParty(application, user); err != nil {
		c.JSON(http.StatusForbidden, utilities.ErrorResponse{
			Error: "You are not allowed to view this application",
		})
		return
	}

	c.JSON(http.StatusOK, application)
}
