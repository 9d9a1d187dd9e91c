package server

import (
	"net/http"
	"os"
	"strings"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	// Load env
	_ "github.com/joho/godotenv/autoload"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"jobboard-backend/internal/auth"
	applicationctl "jobboard-backend/internal/controller/application"
	filectl "jobboard-backend/internal/controller/file"
	"jobboard-backend/internal/controller/jobpost"
	userctl "jobboard-backend/internal/controller/user"
	"jobboard-backend/internal/middleware"
	"jobboard-backend/internal/model"
)

// RegisterRoutes will register each http endpoint routes to bound Server instance
func (s *Server) RegisterRoutes() http.Handler {
	r := gin.Default()

	allowOriginsStr := os.Getenv("ALLOW_ORIGIN")
	allowOrigins := strings.Split(allowOriginsStr, ",")

	lAuth := auth.NewLocalAuthHandler(s.DB)
	jobController := jobpost.NewJobController(s.DB)
	applicationController := applicationctl.NewApplicationController(s.DB, s.Store, s.Mailer)
	userController := userctl.NewUserController(s.DB, s.Store)
	fileController := filectl.NewFileController(s.DB, s.Store)

	r.Use(cors.New(cors.Config{
		AllowOrigins:     allowOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"},
		AllowHeaders:     []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	}))
	r.Use(middleware.SafeHeader())
	r.Use(middleware.EnvRateLimitMiddleware())

	r.GET("/health", s.healthHandler)
	v1 := r.Group("/api/v1")
	{
		authRoute := v1.Group("/auth")
		{
			authRoute.POST("login", lAuth.LocalLoginHandler)
			authRoute.POST("register", lAuth.LocalRegisterHandler)
		}

		// Public job browsing: list, featured and single job need no caller
		v1.GET("/jobs", jobController.GetJobs)
		v1.GET("/jobs/featured", jobController.GetFeaturedJobs)
		v1.GET("/jobs/:id", jobController.GetJobByID)

		needAuth := v1.Group("")
		{
			needAuth.Use(middleware.RequireAuth(s.DB))

			file := needAuth.Group("/file")
			{
				file.GET(":id", fileController.GetFile)
			}

			userRoute := needAuth.Group("/users")
			{
				userRoute.GET("profile", userController.GetProfile)
				userRoute.PATCH("profile", userController.EditProfile)
				userRoute.PUT("change-password", userController.ChangePassword)
				userRoute.POST("upload-resume", middleware.SizeLimit(10<<20), userController.UploadResume)
			}

			needEmployer := needAuth.Group("")
			{
				needEmployer.Use(middleware.CheckRole(model.RoleEmployer))
				needEmployer.POST("jobs", jobController.CreateJobHandler)
				needEmployer.PATCH("jobs/:id", jobController.EditJob)
				needEmployer.DELETE("jobs/:id", jobController.DeleteJob)
				needEmployer.GET("jobs/employer/me", jobController.GetMyJobs)
				needEmployer.GET("applications/job/:jobId", applicationController.GetJobApplications)
				needEmployer.PATCH("applications/:id/status", applicationController.UpdateStatusHandler)
			}

			needJobseeker := needAuth.Group("")
			{
				needJobseeker.Use(middleware.CheckRole(model.RoleJobseeker))
				needJobseeker.POST("applications", middleware.SizeLimit(10<<20), applicationController.SubmitHandler)
				needJobseeker.GET("applications/my", applicationController.GetMyApplications)
			}

			// Visible to both parties; the handler checks record-level access
			needAuth.GET("applications/:id", applicationController.GetApplicationByID)
		}
	}

	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	return r
}

func (s *Server) healthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, s.DB.Health())
}
