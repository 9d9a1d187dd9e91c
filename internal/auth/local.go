package auth

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"jobboard-backend/internal/database"
	"jobboard-backend/internal/model"
	"jobboard-backend/internal/utilities"
)

// LocalAuthHandler handles email/password registration and login endpoints.
type LocalAuthHandler struct {
	DB *database.DBService
}

// NewLocalAuthHandler creates a new instance of LocalAuthHandler
func NewLocalAuthHandler(db *database.DBService) *LocalAuthHandler {
	return &LocalAuthHandler{DB: db}
}

// LocalRegisterHandler function handles registration by receiving email, password and role.
// @Summary Register a new employer or jobseeker account
// @Tags Auth
// @Accept json
// @Produce json
// @Success 201 {object} map[string]interface{} "Created user and access token"
// @Failure 400 {object} utilities.ErrorResponse "Missing field, bad role, or email already exist"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /auth/register [post]
func (h *LocalAuthHandler) LocalRegisterHandler(c *gin.Context) {
	var info struct {
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required"`
		Name     string `json:"name"`
		Role     string `json:"role" binding:"required,oneof=employer jobseeker"`
	}

	if err := c.ShouldBindJSON(&info); err != nil {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{
			Error: "Email, password, and role (only 'employer' or 'jobseeker') must be provided",
		})
		return
	}

	var existing model.User
	err := h.DB.Where("email = ?", info.Email).First(&existing).Error

	switch {
	case err == nil:
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{
			Error: "Email already exist",
		})
		return

	case errors.Is(err, gorm.ErrRecordNotFound):
		// Do nothing

	default:
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Database error: %s", err.Error()),
		})
		return
	}

	if len(info.Password) < 8 {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{
			Error: "Password should longer or equal to 8 characters",
		})
		return
	}

	hashedPassword, err := utilities.HashPassword(info.Password)
	if err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed hash password: %s", err.Error()),
		})
		return
	}

	user := model.User{
		Email:    info.Email,
		Password: hashedPassword,
		Role:     info.Role,
		EditableProfile: model.EditableProfile{
			Name: info.Name,
		},
	}
	if err := h.DB.Create(&user).Error; err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to create user: %s", err.Error()),
		})
		return
	}

	accessToken, err := generateToken(user.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to generate access token: %s", err.Error()),
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"user":         user,
		"access_token": accessToken,
	})
}

// LocalLoginHandler function handles login by receiving email and password.
// @Summary Exchange email/password credentials for an access token
// @Tags Auth
// @Accept json
// @Produce json
// @Success 200 {object} map[string]interface{} "User and access token"
// @Failure 400 {object} utilities.ErrorResponse "Missing email or password"
// @Failure 401 {object} utilities.ErrorResponse "Email or password is incorrect"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /auth/login [post]
func (h *LocalAuthHandler) LocalLoginHandler(c *gin.Context) {
	var info struct {
		Email    string `json:"email" binding:"required"`
		Password string `json:"password" binding:"required"`
	}

	if err := c.ShouldBindJSON(&info); err != nil {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{
			Error: "Email or password is not provided",
		})
		return
	}

	var user model.User
	err := h.DB.Where("email = ?", info.Email).First(&user).Error

	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		c.JSON(http.StatusUnauthorized, utilities.ErrorResponse{
			Error: "Email or password is incorrect",
		})
		return

	case err == nil:
		// Do nothing

	default:
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Database error: %s", err.Error()),
		})
		return
	}

	if user.Password == "" || !utilities.VerifyPassword(info.Password, user.Password) {
		c.JSON(http.StatusUnauthorized, utilities.ErrorResponse{
			Error: "Email or password is incorrect",
		})
		return
	}

	accessToken, err := generateToken(user.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to generate access token: %s", err.Error()),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user":         user,
		"access_token": accessToken,
	})
}
