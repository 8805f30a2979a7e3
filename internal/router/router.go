package router

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/mycareerchoices/compass-backend/internal/config"
	"github.com/mycareerchoices/compass-backend/internal/handler"
	"github.com/mycareerchoices/compass-backend/internal/middleware"
	"github.com/mycareerchoices/compass-backend/internal/response"
	"github.com/mycareerchoices/compass-backend/internal/service"
)

// Handlers groups all handler instances for route setup.
type Handlers struct {
	Auth       *handler.AuthHandler
	Assessment *handler.AssessmentHandler
	Results    *handler.ResultsHandler
	Report     *handler.ReportHandler
	Admin      *handler.AdminHandler
	WS         *handler.WSHandler
}

// SetupRouter configures all Gin route groups with appropriate middlewares.
func SetupRouter(
	authService *service.AuthService,
	handlers *Handlers,
	cfg *config.Config,
) *gin.Engine {
	gin.SetMode(cfg.GinMode)
	router := gin.Default()

	// Cookie-based auth requires credentialed CORS, so origins must be
	// explicit; AllowAllOrigins is incompatible with AllowCredentials.
	corsConfig := cors.DefaultConfig()
	if len(cfg.AllowedOrigins) > 0 {
		corsConfig.AllowOrigins = cfg.AllowedOrigins
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AllowCredentials = len(cfg.AllowedOrigins) > 0
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Authorization", "X-Request-ID", middleware.HeaderCSRF}
	corsConfig.ExposeHeaders = []string{"X-Request-ID"}
	corsConfig.MaxAge = 12 * time.Hour
	router.Use(cors.New(corsConfig))

	// Request ID first so every response carries metadata.
	router.Use(response.RequestIDMiddleware())
	router.Use(middleware.Compress())

	// Health check.
	router.GET("/health", func(c *gin.Context) {
		response.Success(c, http.StatusOK, gin.H{"status": "ok"})
	})

	// Rate limiter for credential endpoints (30 requests per minute per IP).
	authLimiter := middleware.NewRateLimiter(30, time.Minute)

	// Auth group: public entry points rate-limited; token management
	// requires the matching token class plus CSRF.
	auth := router.Group("/api/v1/auth")
	{
		auth.POST("/register", authLimiter.Middleware(), handlers.Auth.Register)
		auth.POST("/login", authLimiter.Middleware(), handlers.Auth.Login)
		auth.POST("/admin/login", authLimiter.Middleware(), handlers.Auth.AdminLogin)

		auth.POST("/token/refresh",
			middleware.RequireRefreshToken(authService),
			middleware.RequireCSRF(),
			handlers.Auth.Refresh)
		auth.POST("/logout",
			middleware.RequireAccessToken(authService),
			middleware.RequireCSRF(),
			handlers.Auth.Logout)
		auth.POST("/admin/logout",
			middleware.RequireAccessToken(authService),
			middleware.RequireCSRF(),
			handlers.Auth.Logout)
		auth.GET("/me", middleware.RequireAccessToken(authService), handlers.Auth.Me)
	}

	// Assessment group: students only; writes need CSRF.
	assessment := router.Group("/api/v1/assessment")
	assessment.Use(middleware.RequireAccessToken(authService), middleware.RequireStudent())
	{
		assessment.GET("/career/question", handlers.Assessment.NextCareerQuestion)
		assessment.POST("/career/response", middleware.RequireCSRF(), handlers.Assessment.SubmitCareerResponse)
		assessment.GET("/aptitude/questions", handlers.Assessment.AptitudeQuestions)
		assessment.GET("/aptitude/text-questions", handlers.Assessment.AptitudeTextQuestions)
		assessment.POST("/aptitude/responses", middleware.RequireCSRF(), handlers.Assessment.SubmitCategoryResponses)
		assessment.GET("/aptitude/last-category", handlers.Assessment.LastCategory)
	}

	// Results group: admins see everyone, students only themselves.
	results := router.Group("/api/v1/results")
	results.Use(middleware.RequireAccessToken(authService))
	{
		scoped := results.Group("/:student_id")
		scoped.Use(middleware.RequireAdminOrOwner("student_id"))
		{
			scoped.GET("/career-scores", handlers.Results.CareerScores)
			scoped.GET("/career-report", handlers.Results.CareerReport)
			scoped.GET("/aptitude-scores", handlers.Results.AptitudeScores)
			scoped.GET("/aptitude-breakdown", handlers.Results.AptitudeBreakdown)
		}
	}

	// Report hand-off tokens for the PDF renderer.
	reports := router.Group("/api/v1/reports")
	{
		reports.POST("/pdf-token",
			middleware.RequireAccessToken(authService),
			middleware.RequireCSRF(),
			handlers.Report.IssuePDFToken)
		reports.POST("/pdf-token/verify", handlers.Report.VerifyPDFToken)
	}

	// Admin group.
	adminAPI := router.Group("/api/v1/admin")
	adminAPI.Use(middleware.RequireAccessToken(authService), middleware.RequireAdmin())
	{
		adminAPI.GET("/students", handlers.Admin.ListStudents)
		adminAPI.PUT("/students/:student_id/career-access",
			middleware.RequireCSRF(),
			handlers.Admin.ToggleCareerAccess)
	}

	// WebSocket group.
	ws := router.Group("/ws/v1")
	ws.Use(middleware.RequireStudentWSAuth(authService))
	{
		ws.GET("/notifications", handlers.WS.NotificationStream)
	}

	return router
}
