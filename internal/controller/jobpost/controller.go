// Package jobpost provides HTTP handlers for job posting operations.
package jobpost

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"jobboard-backend/internal/database"
	"jobboard-backend/internal/model"
	"jobboard-backend/internal/policy"
	"jobboard-backend/internal/utilities"
)

// Featured listing is capped regardless of how many jobs carry the flag.
const featuredJobsLimit = 6

// JobController handles job posting related endpoints
type JobController struct {
	DB *database.DBService
}

// NewJobController creates a new instance of JobController
func NewJobController(db *database.DBService) *JobController {
	return &JobController{
		DB: db,
	}
}

// CreateJobHandler handles the creation of a new job posting by an employer.
// @Summary Create job posting based on given json structure
// @Description Only employer users have access to this endpoint
// @Tags Jobs
// @Accept json
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param Job body model.EditableJobInfo true "Input job information"
// @Success 201 {object} model.Job "Successfully create job"
// @Failure 400 {object} utilities.ErrorResponse "Invalid or incomplete job struct"
// @Failure 401 {object} utilities.ErrorResponse "Invalid token"
// @Failure 403 {object} utilities.ErrorResponse "Not logged in as employer"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /jobs [post]
func (jc *JobController) CreateJobHandler(c *gin.Context) {

	user, err := utilities.ExtractUser(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, utilities.ErrorResponse{Error: err.Error()})
		return
	}

	if err := policy.RequireRole(user, model.RoleEmployer); err != nil {
		c.JSON(http.StatusForbidden, utilities.ErrorResponse{
			Error: "Only employers can create job postings",
		})
		return
	}

	// construct job from request
	job := model.Job{}
	decoder := json.NewDecoder(c.Request.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&job.EditableJobInfo); err != nil {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{
			Error: fmt.Sprintf("Invalid request body: %s", err.Error()),
		})
		return
	}

	if job.Status == "" {
		job.Status = model.JobStatusActive
	}

	if err := job.EditableJobInfo.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{Error: err.Error()})
		return
	}

	// save job
	job.EmployerID = user.ID
	if err := jc.DB.Create(&job).Error; err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprint("Failed to create job: ", err),
		})
		return
	}

	c.JSON(http.StatusCreated, job)
}

// GetJobs fetches active job postings that match query filters, paginated.
// @Summary Get active job postings based on query
// @Description Every query is optional; page and limit must be >= 1 when given
// @Tags Jobs
// @Produce json
// @Param search query string false "Substring match against title, description and company, case insensitive"
// @Param location query string false "Location substring match, case insensitive"
// @Param category query string false "Category field, must exactly match"
// @Param type query string false "Job type field, must exactly match"
// @Param experience query string false "Experience field, must exactly match"
// @Param remote query boolean false "Filter by remote flag"
// @Param featured query boolean false "Filter by featured flag"
// @Param page query integer false "Page number, starting at 1"
// @Param limit query integer false "Page size, defaults to 10"
// @Success 200 {object} map[string]interface{} "Jobs page plus pagination info"
// @Failure 400 {object} utilities.ErrorResponse "Invalid pagination or boolean query value"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /jobs [get]
func (jc *JobController) GetJobs(c *gin.Context) {

	page, limit, err := parsePagination(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{Error: err.Error()})
		return
	}

	query := jc.DB.Model(&model.Job{}).Where("status = ?", model.JobStatusActive)

	if rawSearch := c.Query("search"); rawSearch != "" {
		pattern := "%" + rawSearch + "%"
		query = query.Where("title ILIKE ? OR description ILIKE ? OR company ILIKE ?", pattern, pattern, pattern)
	}

	if rawLocation := c.Query("location"); rawLocation != "" {
		query = query.Where("location ILIKE ?", "%"+rawLocation+"%")
	}

	if rawCategory := c.Query("category"); rawCategory != "" {
		query = query.Where("category = ?", rawCategory)
	}

	if rawType := c.Query("type"); rawType != "" {
		query = query.Where("type = ?", rawType)
	}

	if rawExperience := c.Query("experience"); rawExperience != "" {
		query = query.Where("experience = ?", rawExperience)
	}

	if rawRemote := c.Query("remote"); rawRemote != "" {
		remote, err := strconv.ParseBool(rawRemote)
		if err != nil {
			c.JSON(http.StatusBadRequest, utilities.ErrorResponse{Error: "remote must be a boolean"})
			return
		}
		query = query.Where("COALESCE(remote, false) = ?", remote)
	}

	if rawFeatured := c.Query("featured"); rawFeatured != "" {
		featured, err := strconv.ParseBool(rawFeatured)
		if err != nil {
			c.JSON(http.StatusBadRequest, utilities.ErrorResponse{Error: "featured must be a boolean"})
			return
		}
		query = query.Where("COALESCE(featured, false) = ?", featured)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprint("Failed to count jobs: ", err.Error()),
		})
		return
	}

	jobs := []model.Job{}
	err = query.
		Preload("Employer").
		Order("COALESCE(featured, false) DESC, created_at DESC, id DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&jobs).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprint("Failed to fetch jobs: ", err.Error()),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"jobs": jobs,
		"pagination": gin.H{
			"current": page,
			"pages":   int(math.Ceil(float64(total) / float64(limit))),
			"total":   total,
		},
	})
}

// GetFeaturedJobs returns the newest active featured jobs, capped at a fixed count.
// @Summary Get featured job postings
// @Tags Jobs
// @Produce json
// @Success 200 {array} model.Job "Featured active jobs, newest first"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /jobs/featured [get]
func (jc *JobController) GetFeaturedJobs(c *gin.Context) {
	jobs := []model.Job{}
	err := jc.DB.
		Preload("Employer").
		Where("status = ? AND featured = ?", model.JobStatusActive, true).
		Order("created_at DESC, id DESC").
		Limit(featuredJobsLimit).
		Find(&jobs).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprint("Failed to fetch featured jobs: ", err.Error()),
		})
		return
	}

	c.JSON(http.StatusOK, jobs)
}

// GetJobByID fetches a job posting by its ID. No status or ownership
// restriction: any caller may fetch any job by id.
// @Summary Get job posting by ID
// @Tags Jobs
// @Produce json
// @Param id path integer true "ID of desired job"
// @Success 200 {object} model.Job "Return the job with the specified ID"
// @Failure 404 {object} utilities.ErrorResponse "Job not found"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /jobs/{id} [get]
func (jc *JobController) GetJobByID(c *gin.Context) {
	id, ok := parseJobID(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, utilities.ErrorResponse{Error: "Job not found"})
		return
	}

	job := model.Job{}
	if err := jc.DB.
		Preload("Employer").
		Where("id = ?", id).
		First(&job).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, utilities.ErrorResponse{Error: "Job not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to retrieve job: %s", err.Error()),
		})
		return
	}

	c.JSON(http.StatusOK, job)
}

// EditJob allows an employer to update a job posting they own.
// @Summary Edit job posting based on given json structure
// @Description Only the employer that owns the job has access to this endpoint
// @Tags Jobs
// @Accept json
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param id path integer true "ID of desired job"
// @Param Job body model.EditableJobInfo true "Fields to update; unspecified fields keep their prior value"
// @Success 200 {object} model.Job "Successfully update job"
// @Failure 400 {object} utilities.ErrorResponse "Invalid job struct or enum value"
// @Failure 401 {object} utilities.ErrorResponse "Invalid token"
// @Failure 403 {object} utilities.ErrorResponse "Do not have permission to edit"
// @Failure 404 {object} utilities.ErrorResponse "Job not found"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /jobs/{id} [patch]
func (jc *JobController) EditJob(c *gin.Context) {

	user, err := utilities.ExtractUser(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, utilities.ErrorResponse{Error: err.Error()})
		return
	}

	id, ok := parseJobID(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, utilities.ErrorResponse{Error: "Job not found"})
		return
	}

	job := model.Job{}

	// Find existing job
	if err := jc.DB.Where("id = ?", id).First(&job).Error; err != nil {
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
			Error: "You are not allowed to edit this job",
		})
		return
	}

	// Bind incoming JSON to a patch struct to avoid overwriting ownership fields
	updated := model.Job{}
	decoder := json.NewDecoder(c.Request.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&updated.EditableJobInfo); err != nil {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to parse request body: %s", err.Error()),
		})
		return
	}

	if err := updated.EditableJobInfo.ValidateEnums(); err != nil {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{Error: err.Error()})
		return
	}

	// Update fields on the existing job record without saving associations
	if err := jc.DB.Model(&job).Updates(updated).Error; err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to update job: %s", err.Error()),
		})
		return
	}

	// Reload the job to return the latest data
	if err := jc.DB.Where("id = ?", job.ID).First(&job).Error; err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to retrieve updated job: %s", err.Error()),
		})
		return
	}

	c.JSON(http.StatusOK, job)
}

// DeleteJob allows an employer to delete a job posting they own. Applications
// referencing the job are removed by the cascading foreign key.
// @Summary Delete given job posting ID
// @Description Only the employer that owns the job has access to this endpoint
// @Tags Jobs
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param id path integer true "ID of desired job"
// @Success 200 {object} utilities.MessageResponse "Successfully delete job"
// @Failure 401 {object} utilities.ErrorResponse "Invalid token"
// @Failure 403 {object} utilities.ErrorResponse "Do not have permission to delete this job"
// @Failure 404 {object} utilities.ErrorResponse "Job not found"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /jobs/{id} [delete]
func (jc *JobController) DeleteJob(c *gin.Context) {
	user, err := utilities.ExtractUser(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, utilities.ErrorResponse{Error: err.Error()})
		return
	}
	id, ok := parseJobID(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, utilities.ErrorResponse{Error: "Job not found"})
		return
	}

	job := model.Job{}
	if err := jc.DB.Where("id = ?", id).First(&job).Error; err != nil {
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
			Error: "You are not allowed to delete this job",
		})
		return
	}

	if err := jc.DB.Delete(&job).Error; err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to delete job: %s", err.Error()),
		})
		return
	}

	c.JSON(http.StatusOK, utilities.MessageResponse{Message: "Job deleted successfully"})
}

// GetMyJobs returns every job the calling employer owns, any status, newest first.
// @Summary Get the calling employer's job postings
// @Tags Jobs
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Success 200 {array} model.Job "Jobs owned by the caller, newest first"
// @Failure 401 {object} utilities.ErrorResponse "Invalid token"
// @Failure 403 {object} utilities.ErrorResponse "Not logged in as employer"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /jobs/employer/me [get]
func (jc *JobController) GetMyJobs(c *gin.Context) {
	user, err := utilities.ExtractUser(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, utilities.ErrorResponse{Error: err.Error()})
		return
	}

	jobs := []model.Job{}
	err = jc.DB.
		Where("employer_id = ?", user.ID).
		Order("created_at DESC, id DESC").
		Find(&jobs).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprint("Failed to fetch jobs: ", err.Error()),
		})
		return
	}

	c.JSON(http.StatusOK, jobs)
}

// parseJobID rejects path values that cannot be a job id, so garbage never
// reaches the database as an id comparison.
func parseJobID(raw string) (uint64, bool) {
	id, err := strconv.ParseUint(raw, 10, 64)
	return id, err == nil
}

func parsePagination(c *gin.Context) (page, limit int, err error) {
	page, limit = 1, 10

	if raw := c.Query("page"); raw != "" {
		page, err = strconv.Atoi(raw)
		if err != nil || page < 1 {
			return 0, 0, fmt.Errorf("page must be a positive integer")
		}
	}
	if raw := c.Query("limit"); raw != "" {
		limit, err = strconv.Atoi(raw)
		if err != nil || limit < 1 {
			return 0, 0, fmt.Errorf("limit must be a positive integer")
		}
	}
	return page, limit, nil
}
