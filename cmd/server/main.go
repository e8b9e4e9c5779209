package main

import (
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	redisStore "github.com/gin-contrib/sessions/redis"
	"github.com/gin-gonic/gin"

	"github.com/yukikurage/bugtracker-api/internal/config"
	"github.com/yukikurage/bugtracker-api/internal/constants"
	"github.com/yukikurage/bugtracker-api/internal/database"
	"github.com/yukikurage/bugtracker-api/internal/handlers"
	"github.com/yukikurage/bugtracker-api/internal/logger"
	"github.com/yukikurage/bugtracker-api/internal/middleware"
	"github.com/yukikurage/bugtracker-api/internal/repository"
	"github.com/yukikurage/bugtracker-api/internal/services"
)

func main() {
	// Load configuration
	cfg := config.Load()
	logger.Init(cfg.LogLevel)

	// Set Gin mode
	gin.SetMode(cfg.GinMode)

	// Connect to database. A missing database configuration is not fatal:
	// the API stays up and every data route answers with a uniform 500.
	dbConfigured := cfg.DatabaseConfigured()
	if dbConfigured {
		if err := database.Connect(cfg); err != nil {
			logger.Fatalf("Failed to connect to database: %v", err)
		}
		if err := database.Migrate(); err != nil {
			logger.Fatalf("Failed to run migrations: %v", err)
		}
		if err := database.AddIndexes(database.GetDB()); err != nil {
			logger.Fatalf("Failed to add indexes: %v", err)
		}
	} else {
		logger.Warn().Msg("database not configured, data routes will return 500")
	}

	// Initialize Gin router
	r := gin.New()
	r.Use(logger.GinLogger(), logger.GinRecovery())

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:3000", "http://localhost:5173"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
	}))

	// Session store: Redis when configured, cookie store otherwise
	var store sessions.Store
	if cfg.RedisHost != "" {
		redisAddr := cfg.RedisHost + ":" + cfg.RedisPort
		s, err := redisStore.NewStore(10, "tcp", redisAddr, "", "", []byte(cfg.SessionSecret))
		if err != nil {
			logger.Fatalf("Failed to create Redis store: %v", err)
		}
		store = s
	} else {
		store = cookie.NewStore([]byte(cfg.SessionSecret))
	}

	isProduction := cfg.GinMode == "release"
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   86400 * 7, // 7 days
		HttpOnly: true,
		Secure:   isProduction,
		SameSite: http.SameSiteLaxMode,
	})
	r.Use(sessions.Sessions(constants.SessionCookieName, store))

	// Initialize repositories and services
	db := database.GetDB()
	userRepo := repository.NewUserRepository(db)
	projectRepo := repository.NewProjectRepository(db)
	invitationRepo := repository.NewInvitationRepository(db)
	bugRepo := repository.NewBugRepository(db)
	todoRepo := repository.NewTodoRepository(db)

	accessService := services.NewAccessService(projectRepo)
	authService := services.NewAuthService(userRepo, cfg.JWTSecret, cfg.JWTExpireHours)
	projectService := services.NewProjectService(projectRepo, accessService)
	invitationService := services.NewInvitationService(invitationRepo, accessService, cfg.InvitationTTLDays)
	bugService := services.NewBugService(bugRepo, accessService)
	todoService := services.NewTodoService(todoRepo, accessService)
	dashboardService := services.NewDashboardService(bugRepo, todoRepo, accessService)
	aiService := services.NewAIService(cfg.OpenAIAPIKey)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService)
	projectHandler := handlers.NewProjectHandler(projectService)
	invitationHandler := handlers.NewInvitationHandler(invitationService, authService)
	bugHandler := handlers.NewBugHandler(bugService)
	todoHandler := handlers.NewTodoHandler(todoService, aiService)
	dashboardHandler := handlers.NewDashboardHandler(dashboardService)

	// Health check endpoint, mounted before the database guard
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"message": "Bug Tracker API is running",
		})
	})

	// API routes
	api := r.Group("/api")
	api.Use(middleware.RequireDatabase(dbConfigured))
	{
		// Auth routes (public)
		auth := api.Group("/auth")
		{
			auth.POST("/signup", authHandler.Signup)
			auth.POST("/login", authHandler.Login)
			auth.POST("/logout", authHandler.Logout)
			auth.GET("/me", middleware.RequireAuth(cfg.JWTSecret), authHandler.GetCurrentUser)
		}

		// Project and team routes (protected)
		projects := api.Group("/projects")
		projects.Use(middleware.RequireAuth(cfg.JWTSecret))
		{
			projects.POST("", projectHandler.CreateProject)
			projects.GET("", projectHandler.ListProjects)
			projects.GET("/:id", projectHandler.GetProject)
			projects.PUT("/:id", projectHandler.UpdateProject)
			projects.DELETE("/:id", projectHandler.DeleteProject)
			projects.POST("/:id/teams", projectHandler.CreateTeam)
			projects.GET("/:id/members", projectHandler.ListMembers)
			projects.DELETE("/:id/teams/:teamId/members/:userId", projectHandler.RemoveMember)
		}

		// Invitation routes (protected)
		invitations := api.Group("/invitations")
		invitations.Use(middleware.RequireAuth(cfg.JWTSecret))
		{
			invitations.GET("", invitationHandler.List)
			invitations.POST("", invitationHandler.Create)
			invitations.GET("/:id", invitationHandler.Get)
			invitations.PUT("/:id", invitationHandler.Respond)
			invitations.DELETE("/:id", invitationHandler.Revoke)
		}

		// Bug routes (protected)
		bugs := api.Group("/bugs")
		bugs.Use(middleware.RequireAuth(cfg.JWTSecret))
		{
			bugs.GET("", bugHandler.List)
			bugs.POST("", bugHandler.Create)
			bugs.GET("/:id", bugHandler.Get)
			bugs.PUT("/:id", bugHandler.Update)
			bugs.DELETE("/:id", bugHandler.Delete)
		}

		// Todo routes (protected)
		todos := api.Group("/todos")
		todos.Use(middleware.RequireAuth(cfg.JWTSecret))
		{
			todos.GET("", todoHandler.List)
			todos.POST("", todoHandler.Create)
			todos.POST("/suggest", todoHandler.Suggest)
			todos.GET("/:id", todoHandler.Get)
			todos.PUT("/:id", todoHandler.Update)
			todos.DELETE("/:id", todoHandler.Delete)
		}

		// Dashboard (protected)
		api.GET("/dashboard", middleware.RequireAuth(cfg.JWTSecret), dashboardHandler.Get)
	}

	// Start server
	logger.Infof("Server starting on :8080")
	if err := r.Run(":8080"); err != nil {
		logger.Fatalf("Failed to start server: %v", err)
	}
}
