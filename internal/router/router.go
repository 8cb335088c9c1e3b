package router

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/gradeflow/gradeflow-backend/internal/config"
	"github.com/gradeflow/gradeflow-backend/internal/handler"
	"github.com/gradeflow/gradeflow-backend/internal/middleware"
	"github.com/gradeflow/gradeflow-backend/internal/model"
	"github.com/gradeflow/gradeflow-backend/internal/response"
	"github.com/gradeflow/gradeflow-backend/internal/service"
)

// Handlers groups all handler instances for route setup.
type Handlers struct {
	Auth         *handler.AuthHandler
	User         *handler.UserHandler
	Programme    *handler.ProgrammeHandler
	Class        *handler.ClassHandler
	Assignment   *handler.AssignmentHandler
	Grade        *handler.GradeHandler
	Group        *handler.GroupHandler
	Notification *handler.NotificationHandler
}

// SetupRouter configures all Gin route groups with appropriate middlewares.
func SetupRouter(
	authService *service.AuthService,
	handlers *Handlers,
	cfg *config.Config,
) *gin.Engine {
	gin.SetMode(cfg.GinMode)
	router := gin.Default()

	// ─── CORS ──────────────────────────────────────────────────────────
	// If AllowedOrigins is set in config, restrict to that list;
	// otherwise allow all (*) so dev works without extra config.
	corsConfig := cors.DefaultConfig()
	if len(cfg.AllowedOrigins) > 0 {
		corsConfig.AllowOrigins = cfg.AllowedOrigins
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"}
	corsConfig.ExposeHeaders = []string{"X-Request-ID"}
	corsConfig.MaxAge = 12 * time.Hour
	router.Use(cors.New(corsConfig))

	// Apply request ID middleware globally so every response includes metadata.
	router.Use(response.RequestIDMiddleware())

	// Health check.
	router.GET("/health", func(c *gin.Context) {
		response.Success(c, http.StatusOK, gin.H{"status": "ok"})
	})

	// Rate limiter for auth routes (30 requests per minute per IP).
	authLimiter := middleware.NewRateLimiter(30, time.Minute)

	// ─── 1. Auth Group (Public, Rate Limited) ──────────────────────────
	auth := router.Group("/api/v1/auth")
	auth.Use(authLimiter.Middleware())
	{
		auth.POST("/login", handlers.Auth.Login)
		auth.GET("/me", middleware.RequireJWT(authService), handlers.Auth.Me)
	}

	// ─── 2. Authenticated API ──────────────────────────────────────────
	api := router.Group("/api/v1")
	api.Use(middleware.RequireJWT(authService))

	staffOnly := middleware.RequireRoles(model.RoleAdmin, model.RoleTeacher)
	adminOnly := middleware.RequireRoles(model.RoleAdmin)

	{
		// Account directory (admin)
		api.POST("/users", adminOnly, handlers.User.Create)
		api.GET("/users", staffOnly, handlers.User.List)
		api.GET("/users/:id", staffOnly, handlers.User.Get)

		// Programmes and cohorts (admin)
		api.POST("/programmes", adminOnly, handlers.Programme.Create)
		api.GET("/programmes", staffOnly, handlers.Programme.List)
		api.POST("/programmes/:id/cohorts", adminOnly, handlers.Programme.CreateCohort)
		api.GET("/programmes/:id/cohorts", staffOnly, handlers.Programme.ListCohorts)

		// Classes and enrollments
		api.POST("/classes", staffOnly, handlers.Class.Create)
		api.GET("/classes", staffOnly, handlers.Class.List)
		api.GET("/classes/:id", handlers.Class.Get)
		api.POST("/classes/:id/enrollments", staffOnly, handlers.Class.Enroll)
		api.GET("/classes/:id/enrollments", staffOnly, handlers.Class.ListEnrollments)

		// Assignments
		api.POST("/classes/:id/assignments", staffOnly, handlers.Assignment.Create)
		api.GET("/classes/:id/assignments", handlers.Assignment.ListByClass)
		api.GET("/assignments/:id", staffOnly, handlers.Assignment.Get)
		api.PATCH("/assignments/:id", staffOnly, handlers.Assignment.Update)

		// Grade ledger
		api.PUT("/assignments/:id/grades", staffOnly, handlers.Grade.Upsert)
		api.GET("/assignments/:id/grades", staffOnly, handlers.Grade.ListByAssignment)
		api.POST("/grades/:id/release", staffOnly, handlers.Grade.Release)

		// Student views (students restricted to themselves)
		api.GET("/students/:id/grades", handlers.Grade.ListByStudent)
		api.GET("/students/:id/overview", handlers.Grade.Overview)

		// Review groups
		api.POST("/classes/:id/student-groups", staffOnly, handlers.Group.CreateStudentGroup)
		api.GET("/classes/:id/student-groups", staffOnly, handlers.Group.ListStudentGroups)
		api.PUT("/classes/:id/student-groups/:groupId/members", staffOnly, handlers.Group.UpdateStudentGroupMembers)
		api.POST("/classes/:id/grader-groups", staffOnly, handlers.Group.CreateGraderGroup)
		api.GET("/classes/:id/grader-groups", staffOnly, handlers.Group.ListGraderGroups)
		api.PATCH("/classes/:id/grader-groups/:groupId", staffOnly, handlers.Group.UpdateGraderGroup)
		api.POST("/classes/:id/group-bundles", staffOnly, handlers.Group.CreateBundle)
		api.GET("/classes/:id/group-bundles", staffOnly, handlers.Group.ListBundles)

		// Notifications (own)
		api.GET("/notifications", handlers.Notification.ListMine)
	}

	return router
}
