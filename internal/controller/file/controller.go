// Package file provides HTTP handlers for file-related operations.
package file

import (
	"fmt"
	"io"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"jobboard-backend/internal/database"
	"jobboard-backend/internal/filestore"
	"jobboard-backend/internal/model"
	"jobboard-backend/internal/utilities"
)

// FileController handles file related endpoints
type FileController struct {
	DB    *database.DBService
	Store *filestore.Store
}

// NewFileController creates a new instance of FileController
func NewFileController(db *database.DBService, store *filestore.Store) *FileController {
	return &FileController{
		DB:    db,
		Store: store,
	}
}

// GetFile retrieves a stored file and sends it as a downloadable attachment.
// @Summary Retrieve downloadable attachment
// @Tags File
// @Produce octet-stream
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param id path string true "ID of wanted file"
// @Success 200 {string} binary "Successfully retrieve file"
// @Failure 401 {object} utilities.ErrorResponse "Invalid token"
// @Failure 404 {object} utilities.ErrorResponse "Given file id not found"
// @Failure 500 {object} utilities.ErrorResponse "Fail to send file content"
// @Router /file/{id} [get]
func (fc *FileController) GetFile(c *gin.Context) {
	var file model.File
	id := c.Param("id")

	if err := fc.DB.First(&file, id).Error; err != nil {
		c.JSON(http.StatusNotFound, utilities.ErrorResponse{Error: "File not found"})
		return
	}

	reader, size, err := fc.Store.Open(&file)
	if err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to read file: %s", err.Error()),
		})
		return
	}
	defer func() {
		if err := reader.Close(); err != nil {
			log.Printf("failed to close file reader: %v", err)
		}
	}()

	c.Writer.Header().Set("Content-Disposition", "attachment; filename="+fmt.Sprint(file.ID)+file.Extension)
	c.Writer.Header().Set("Content-Type", "application/octet-stream")
	if size >= 0 {
		c.Writer.Header().Set("Content-Length", fmt.Sprint(size))
	}

	if _, err := io.Copy(c.Writer, reader); err != nil {
		if !c.Writer.Written() {
			c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
				Error: "Failed to send file content",
			})
		} else {
			c.Abort()
		}
	}
}
