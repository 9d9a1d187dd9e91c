package auth

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"

	"jobboard-backend/internal/database"
	"jobboard-backend/internal/utilities"
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

func assertValidAccessToken(t *testing.T, accessToken string, expectedSubject string) {
	t.Helper()
	token, err := ValidatedToken(accessToken)
	assert.NoError(t, err)
	assert.True(t, token.Valid)

	claims, ok := token.Claims.(*jwt.RegisteredClaims)
	assert.True(t, ok)
	assert.Equal(t, JwtIssuer, claims.Issuer)
	assert.Equal(t, expectedSubject, claims.Subject)
}

func TestRegister_employer(t *testing.T) {
	handler := NewLocalAuthHandler(testDB)

	rec, resp, err := utilities.SimulateAPICall(handler.LocalRegisterHandler, "/register", http.MethodPost, map[string]string{
		"email":    "new.employer@example.com",
		"password": "RegisterPass1!",
		"name":     "New Employer",
		"role":     "employer",
	})
	assert.NoError(t, err)

	assert.Equal(t, http.StatusCreated, rec.Code, "body: %s", rec.Body.String())
	user := resp["user"].(map[string]interface{})
	assert.Equal(t, "new.employer@example.com", user["email"])
	assert.Equal(t, "employer", user["role"])
	assert.Equal(t, "New Employer", user["name"])
	assert.Nil(t, user["password"], "password hash must never leave the server")
	assertValidAccessToken(t, resp["access_token"].(string), user["id"].(string))
}

func TestRegister_jobseeker(t *testing.T) {
	handler := NewLocalAuthHandler(testDB)

	rec, resp, err := utilities.SimulateAPICall(handler.LocalRegisterHandler, "/register", http.MethodPost, map[string]string{
		"email":    "new.seeker@example.com",
		"password": "RegisterPass1!",
		"role":     "jobseeker",
	})
	assert.NoError(t, err)

	assert.Equal(t, http.StatusCreated, rec.Code)
	user := resp["user"].(map[string]interface{})
	assert.Equal(t, "jobseeker", user["role"])
	assertValidAccessToken(t, resp["access_token"].(string), user["id"].(string))
}

func TestRegister_duplicateEmail(t *testing.T) {
	handler := NewLocalAuthHandler(testDB)

	rec, resp, err := utilities.SimulateAPICall(handler.LocalRegisterHandler, "/register", http.MethodPost, map[string]string{
		"email":    database.TestEmployer1.Email,
		"password": "RegisterPass1!",
		"role":     "employer",
	})
	assert.NoError(t, err)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Email already exist", resp["error"])
}

func TestRegister_badRole(t *testing.T) {
	handler := NewLocalAuthHandler(testDB)

	rec, _, err := utilities.SimulateAPICall(handler.LocalRegisterHandler, "/register", http.MethodPost, map[string]string{
		"email":    "bad.role@example.com",
		"password": "RegisterPass1!",
		"role":     "admin",
	})
	assert.NoError(t, err)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRegister_shortPassword(t *testing.T) {
	handler := NewLocalAuthHandler(testDB)

	rec, _, err := utilities.SimulateAPICall(handler.LocalRegisterHandler, "/register", http.MethodPost, map[string]string{
		"email":    "short.pass@example.com",
		"password": "short",
		"role":     "jobseeker",
	})
	assert.NoError(t, err)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestLogin_success(t *testing.T) {
	handler := NewLocalAuthHandler(testDB)

	rec, resp, err := utilities.SimulateAPICall(handler.LocalLoginHandler, "/login", http.MethodPost, map[string]string{
		"email":    database.TestJobseeker1.Email,
		"password": database.TestSeedPassword,
	})
	assert.NoError(t, err)

	assert.Equal(t, http.StatusOK, rec.Code, "body: %s", rec.Body.String())
	assertValidAccessToken(t, resp["access_token"].(string), database.TestJobseeker1.ID.String())
}

func TestLogin_wrongPassword(t *testing.T) {
	handler := NewLocalAuthHandler(testDB)

	rec, resp, err := utilities.SimulateAPICall(handler.LocalLoginHandler, "/login", http.MethodPost, map[string]string{
		"email":    database.TestJobseeker1.Email,
		"password": "WrongPass123!",
	})
	assert.NoError(t, err)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Email or password is incorrect", resp["error"])
}

func TestLogin_unknownEmail(t *testing.T) {
	handler := NewLocalAuthHandler(testDB)

	rec, _, err := utilities.SimulateAPICall(handler.LocalLoginHandler, "/login", http.MethodPost, map[string]string{
		"email":    "who@example.com",
		"password": "WrongPass123!",
	})
	assert.NoError(t, err)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
