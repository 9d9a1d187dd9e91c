package user

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"jobboard-backend/internal/auth"
	"jobboard-backend/internal/database"
	"jobboard-backend/internal/filestore"
	"jobboard-backend/internal/middleware"
	"jobboard-backend/internal/model"
	"jobboard-backend/internal/testutil"
)

var testDB *database.DBService

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	var err error
	var teardown func(context.Context) error
	teardown, testDB, err = database.GetTestDB()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to start test db: %v\n", err)
		os.Exit(1)
	}
	m.Run()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if teardown != nil {
		_ = teardown(ctx)
	}
}

func newRouter() *gin.Engine {
	r := gin.Default()
	// No cloud bucket in tests: resumes stay inline
	uc := NewUserController(testDB, filestore.NewStore(nil))

	needAuth := r.Group("/users")
	needAuth.Use(middleware.RequireAuth(testDB))
	needAuth.GET("/profile", uc.GetProfile)
	needAuth.PATCH("/profile", uc.EditProfile)
	needAuth.PUT("/change-password", uc.ChangePassword)
	needAuth.POST("/upload-resume", middleware.SizeLimit(10<<20), uc.UploadResume)
	return r
}

func TestGetProfile(t *testing.T) {
	token, err := auth.GetAccessToken(t, testDB, database.TestEmployer1.Email, database.TestSeedPassword)
	assert.NoError(t, err)
	r := newRouter()

	rec, resp := testutil.MakeJSONRequest(nil, token, r, "/users/profile", http.MethodGet)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, database.TestEmployer1.Email, resp["email"])
	assert.Nil(t, resp["password"])
}

func TestGetProfile_noToken(t *testing.T) {
	r := newRouter()

	rec, _ := testutil.MakeJSONRequest(nil, "", r, "/users/profile", http.MethodGet)

	assert.Equal(t, http.StatusBadRequest, rec.Code, "missing bearer token is a malformed header")
}

func TestEditProfile(t *testing.T) {
	token, err := auth.GetAccessToken(t, testDB, database.TestJobseeker1.Email, database.TestSeedPassword)
	assert.NoError(t, err)
	r := newRouter()

	rec, resp := testutil.MakeJSONRequest(gin.H{
		"location": "Berlin",
		"bio":      "Distributed systems engineer",
	}, token, r, "/users/profile", http.MethodPatch)

	assert.Equal(t, http.StatusOK, rec.Code, "body: %s", rec.Body.String())
	assert.Equal(t, "Berlin", resp["location"])
	assert.Equal(t, "Distributed systems engineer", resp["bio"])
	// Untouched fields survive the merge
	assert.Equal(t, database.TestJobseeker1.Name, resp["name"])
}

func TestChangePassword(t *testing.T) {
	token, err := auth.GetAccessToken(t, testDB, database.TestJobseeker2.Email, database.TestSeedPassword)
	assert.NoError(t, err)
	r := newRouter()

	rec, resp := testutil.MakeJSONRequest(gin.H{
		"current_password": database.TestSeedPassword,
		"new_password":     "BrandNewPass1!",
	}, token, r, "/users/change-password", http.MethodPut)

	assert.Equal(t, http.StatusOK, rec.Code, "body: %s", rec.Body.String())
	assert.Equal(t, "Password updated successfully", resp["message"])

	// Old password no longer works, new one does
	_, err = auth.GetAccessToken(t, testDB, database.TestJobseeker2.Email, database.TestSeedPassword)
	assert.Error(t, err)
	_, err = auth.GetAccessToken(t, testDB, database.TestJobseeker2.Email, "BrandNewPass1!")
	assert.NoError(t, err)
}

func TestUploadResume(t *testing.T) {
	token, err := auth.GetAccessToken(t, testDB, database.TestJobseeker1.Email, database.TestSeedPassword)
	assert.NoError(t, err)
	r := newRouter()

	rec, resp := testutil.MakeMultipartRequest(
		nil,
		"resume", "profile_resume.pdf", []byte("%PDF-1.4 profile resume"),
		token, r, "/users/upload-resume",
	)

	assert.Equal(t, http.StatusOK, rec.Code, "body: %s", rec.Body.String())
	assert.Equal(t, "Resume uploaded successfully", resp["message"])
	resumeID := int(resp["resume_id"].(float64))

	// The reference lands on the account and points at the stored bytes
	account := model.User{}
	assert.NoError(t, testDB.Where("id = ?", database.TestJobseeker1.ID).First(&account).Error)
	assert.NotNil(t, account.ResumeID)
	assert.Equal(t, resumeID, *account.ResumeID)

	stored := model.File{}
	assert.NoError(t, testDB.First(&stored, resumeID).Error)
	assert.Equal(t, []byte("%PDF-1.4 profile resume"), stored.Content)
	assert.Equal(t, ".pdf", stored.Extension)

	// A second upload replaces the reference
	rec, resp = testutil.MakeMultipartRequest(
		nil,
		"resume", "updated_resume.docx", []byte("updated resume"),
		token, r, "/users/upload-resume",
	)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotEqual(t, resumeID, int(resp["resume_id"].(float64)))
}

func TestUploadResume_missingFile(t *testing.T) {
	token, err := auth.GetAccessToken(t, testDB, database.TestJobseeker1.Email, database.TestSeedPassword)
	assert.NoError(t, err)
	r := newRouter()

	rec, resp := testutil.MakeMultipartRequest(
		map[string]string{"note": "no file attached"},
		"", "", nil,
		token, r, "/users/upload-resume",
	)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Resume file is required", resp["error"])
}

func TestChangePassword_wrongCurrent(t *testing.T) {
	token, err := auth.GetAccessToken(t, testDB, database.TestEmployer2.Email, database.TestSeedPassword)
	assert.NoError(t, err)
	r := newRouter()

	rec, resp := testutil.MakeJSONRequest(gin.H{
		"current_password": "NotTheRightOne1!",
		"new_password":     "BrandNewPass1!",
	}, token, r, "/users/change-password", http.MethodPut)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Current password is incorrect", resp["error"])
}

func TestChangePassword_tooShort(t *testing.T) {
	token, err := auth.GetAccessToken(t, testDB, database.TestEmployer2.Email, database.TestSeedPassword)
	assert.NoError(t, err)
	r := newRouter()

	rec, _ := testutil.MakeJSONRequest(gin.H{
		"current_password": database.TestSeedPassword,
		"new_password":     "short",
	}, token, r, "/users/change-password", http.MethodPut)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
