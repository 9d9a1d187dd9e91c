package database

import (
	"context"
	"fmt"
	"time"

	"github.com/docker/go-connections/nat"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	// Load env
	_ "github.com/joho/godotenv/autoload"

	m "jobboard-backend/internal/model"
	"jobboard-backend/internal/utilities"
)

var testDBInstance *DBService
var teardown func(context.Context) error

// Exported test users & seeded jobs
var (
	TestEmployer1  m.User
	TestEmployer2  m.User
	TestJobseeker1 m.User
	TestJobseeker2 m.User

	// Plain password shared by all seeded users
	TestSeedPassword = "SeedPass123!"

	TestJob1 m.Job
	TestJob2 m.Job
	TestJob3 m.Job
)

// GetTestDB starts a PostgreSQL test container and returns a teardown function,
// the DB instance, and any error encountered during setup.
func GetTestDB() (func(context.Context) error, *DBService, error) {

	if testDBInstance != nil && teardown != nil {
		return teardown, testDBInstance, nil
	}

	// Database configuration
	var (
		dbName = "database"
		dbPwd  = "password"
		dbUser = "user"
	)

	dbContainer, err := postgres.Run(
		context.Background(),
		"postgres:latest",
		postgres.WithDatabase(dbName),
		postgres.WithUsername(dbUser),
		postgres.WithPassword(dbPwd),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(5*time.Second)),
	)
	if err != nil {
		return nil, nil, err
	}

	dbHost, err := dbContainer.Host(context.Background())
	if err != nil {
		return dbContainer.Terminate, nil, err
	}

	dbPort, err := dbContainer.MappedPort(context.Background(), nat.Port("5432/tcp"))
	if err != nil {
		return dbContainer.Terminate, nil, err
	}

	config := &DBConfig{
		useConstr: true,
		Constr:    fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable", dbHost, dbPort.Port(), dbUser, dbPwd, dbName),
	}

	db, err := NewDBService(config)
	if err != nil {
		return dbContainer.Terminate, nil, err
	}

	if err := seedTestData(db); err != nil {
		_ = dbContainer.Terminate(context.Background())
		return nil, nil, err
	}

	testDBInstance = db
	teardown = dbContainer.Terminate

	return dbContainer.Terminate, db, nil
}

// seedTestData inserts sample employer and jobseeker accounts plus job
// postings if the database is empty.
func seedTestData(db *DBService) error {
	var userCount int64
	if err := db.Model(&m.User{}).Count(&userCount).Error; err != nil {
		return err
	}

	if userCount > 0 {
		return loadTestData(db)
	}

	userSpecs := []struct {
		email string
		name  string
		role  string
	}{
		{"employer1@example.com", "TechNova HR", m.RoleEmployer},
		{"employer2@example.com", "DataForge Recruiting", m.RoleEmployer},
		{"seeker1@example.com", "Alice Nguyen", m.RoleJobseeker},
		{"seeker2@example.com", "Bob Somsak", m.RoleJobseeker},
	}

	// Pre-hash shared password for all seeded users
	hashedPwd, errHash := utilities.HashPassword(TestSeedPassword)
	if errHash != nil {
		return errHash
	}

	users := make([]m.User, 0, len(userSpecs))
	for _, s := range userSpecs {
		users = append(users, m.User{
			ID:       uuid.New(),
			Email:    s.email,
			Password: hashedPwd,
			Role:     s.role,
			EditableProfile: m.EditableProfile{
				Name: s.name,
			},
		})
	}

	if err := db.Create(&users).Error; err != nil {
		return err
	}

	for _, u := range users {
		switch u.Email {
		case "employer1@example.com":
			TestEmployer1 = u
		case "employer2@example.com":
			TestEmployer2 = u
		case "seeker1@example.com":
			TestJobseeker1 = u
		case "seeker2@example.com":
			TestJobseeker2 = u
		}
	}

	var jobCount int64
	if err := db.Model(&m.Job{}).Count(&jobCount).Error; err != nil {
		return err
	}
	if jobCount == 0 {
		remote := true
		onsite := false
		featured := true
		deadline := time.Now().AddDate(0, 2, 0)

		jobs := []m.Job{
			{
				EmployerID: TestEmployer1.ID,
				EditableJobInfo: m.EditableJobInfo{
					Title:        "Backend Engineer",
					Company:      "TechNova",
					Description:  "Work on Go services and database layers.",
					Requirements: "Go basics; SQL familiarity",
					Location:     "Bangkok",
					Type:         "full-time",
					Category:     "Technology",
					Skills:       pq.StringArray{"go", "postgres", "api"},
					Experience:   "mid",
					Remote:       &onsite,
					Status:       m.JobStatusActive,
				},
			},
			{
				EmployerID: TestEmployer1.ID,
				EditableJobInfo: m.EditableJobInfo{
					Title:               "Data Pipeline Contractor",
					Company:             "TechNova",
					Description:         "Build ETL pipelines for analytics.",
					Requirements:        "SQL; batch processing experience",
					Location:            "Remote",
					Type:                "contract",
					Category:            "Data",
					Skills:              pq.StringArray{"sql", "etl"},
					Experience:          "senior",
					Remote:              &remote,
					Featured:            &featured,
					Status:              m.JobStatusActive,
					ApplicationDeadline: &deadline,
				},
			},
			{
				EmployerID: TestEmployer2.ID,
				EditableJobInfo: m.EditableJobInfo{
					Title:        "Frontend Developer",
					Company:      "DataForge",
					Description:  "Build dashboards in React.",
					Requirements: "JS/TS fundamentals",
					Location:     "Chiang Mai",
					Type:         "full-time",
					Category:     "Technology",
					Skills:       pq.StringArray{"react", "typescript"},
					Experience:   "junior",
					Remote:       &remote,
					Status:       m.JobStatusActive,
				},
			},
		}

		if err := db.Create(&jobs).Error; err != nil {
			return err
		}
		TestJob1 = jobs[0]
		TestJob2 = jobs[1]
		TestJob3 = jobs[2]
	}

	return nil
}

// loadTestData populates exported variables when records already exist.
func loadTestData(db *DBService) error {
	var users []m.User
	if err := db.Where("email IN ?", []string{
		"employer1@example.com", "employer2@example.com",
		"seeker1@example.com", "seeker2@example.com",
	}).Find(&users).Error; err != nil {
		return err
	}
	for _, u := range users {
		switch u.Email {
		case "employer1@example.com":
			TestEmployer1 = u
		case "employer2@example.com":
			TestEmployer2 = u
		case "seeker1@example.com":
			TestJobseeker1 = u
		case "seeker2@example.com":
			TestJobseeker2 = u
		}
	}

	var jobs []m.Job
	if err := db.Order("id ASC").Limit(3).Find(&jobs).Error; err == nil {
		if len(jobs) > 0 {
			TestJob1 = jobs[0]
		}
		if len(jobs) > 1 {
			TestJob2 = jobs[1]
		}
		if len(jobs) > 2 {
			TestJob3 = jobs[2]
		}
	}

	return nil
}
