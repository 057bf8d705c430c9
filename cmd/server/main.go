package main

import (
	"log"
	"time"

	"defensoria_app_go/config"
	"defensoria_app_go/db"
	"defensoria_app_go/handlers"
	"defensoria_app_go/middleware"
	"defensoria_app_go/models"
	"defensoria_app_go/services"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize database
	if err := db.Initialize(cfg.DBPath, cfg.Environment, cfg.TursoDatabaseURL, cfg.TursoAuthToken); err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	// Run migrations
	if err := db.AutoMigrate(
		&models.Defensoria{},
		&models.User{},
		&models.Session{},
		&models.Group{},
		&models.CaseType{},
		&models.CaseTypeGroup{},
		&models.Case{},
		&models.Notification{},
	); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Seed initial data
	if _, err := services.SeedDefaultDefensoria(db.DB); err != nil {
		log.Fatalf("Failed to seed defensoria: %v", err)
	}
	if err := services.SeedAdminFromEnv(db.DB); err != nil {
		log.Fatalf("Failed to seed administrador: %v", err)
	}

	// Clean up stale sessions on boot
	if err := services.CleanupExpiredSessions(db.DB); err != nil {
		log.Printf("Failed to cleanup expired sessions: %v", err)
	}

	// Create Echo instance
	e := echo.New()

	// Middleware
	e.Use(echomiddleware.RequestLogger())
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins:     cfg.AllowedOrigins,
		AllowCredentials: true,
	}))

	// Make config available to handlers
	e.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			c.Set("config", cfg)
			return next(c)
		}
	})

	// Public routes. Login is throttled per IP.
	loginLimiter := middleware.NewLoginLimiter(10, time.Minute)
	e.POST("/api/login", handlers.LoginHandler, loginLimiter.Middleware())

	// Authenticated routes
	api := e.Group("/api")
	api.Use(middleware.RequireAuth())
	{
		api.POST("/logout", handlers.LogoutHandler)
		api.GET("/me", handlers.GetCurrentUserHandler)

		api.GET("/notifications", handlers.GetNotificationsHandler)
		api.PUT("/notifications/:id/read", handlers.MarkNotificationReadHandler)
		api.PUT("/notifications/read-all", handlers.MarkAllNotificationsReadHandler)
	}

	// Routes scoped to a defensoria
	scoped := api.Group("")
	scoped.Use(middleware.RequireDefensoria())
	{
		// Mostrador and defensor register expedientes
		registration := scoped.Group("/cases")
		registration.Use(middleware.RequireRole(models.RoleMostrador, models.RoleDefensor))
		{
			registration.POST("", handlers.RegisterCaseHandler)
			registration.POST("/import", handlers.ImportCasesHandler)
			registration.GET("/import/template", handlers.DownloadImportTemplateHandler)
		}

		// Defensor oversight
		defensor := scoped.Group("")
		defensor.Use(middleware.RequireRole(models.RoleDefensor))
		{
			defensor.GET("/cases", handlers.GetCasesHandler)
			defensor.PUT("/cases/:id/assignee", handlers.ReassignCaseHandler)

			defensor.GET("/attorneys", handlers.GetAttorneysHandler)
			defensor.POST("/users", handlers.CreateUserHandler)
			defensor.PUT("/users/:id/availability", handlers.UpdateAvailabilityHandler)
			defensor.PUT("/users/:id/deactivate", handlers.DeactivateUserHandler)
			defensor.PUT("/users/:id/reactivate", handlers.ReactivateUserHandler)

			defensor.GET("/groups", handlers.GetGroupsHandler)
			defensor.POST("/groups", handlers.CreateGroupHandler)
			defensor.PUT("/groups/:id", handlers.UpdateGroupHandler)
			defensor.DELETE("/groups/:id", handlers.DeleteGroupHandler)
			defensor.POST("/groups/:id/members", handlers.AddGroupMemberHandler)
			defensor.DELETE("/groups/:id/members/:userId", handlers.RemoveGroupMemberHandler)

			defensor.POST("/case-types", handlers.CreateCaseTypeHandler)
			defensor.PUT("/case-types/:id", handlers.UpdateCaseTypeHandler)
			defensor.DELETE("/case-types/:id", handlers.DeleteCaseTypeHandler)
			defensor.GET("/case-types/:id/groups", handlers.GetCaseTypeGroupsHandler)
			defensor.POST("/case-types/:id/groups", handlers.AssignGroupToCaseTypeHandler)
			defensor.PUT("/case-types/:id/groups/:groupId/activate", handlers.ActivateGroupHandler)
		}

		// Case types are readable by every defensoria role
		scoped.GET("/case-types", handlers.GetCaseTypesHandler)

		// Abogado actions
		abogado := scoped.Group("")
		abogado.Use(middleware.RequireRole(models.RoleAbogado))
		{
			abogado.GET("/my-cases", handlers.GetMyCasesHandler)
			abogado.PUT("/cases/:id/take", handlers.TakeCaseHandler)
		}

		scoped.GET("/cases/:id", handlers.GetCaseHandler)
	}

	// Start server
	log.Printf("Starting server on port %s (%s)", cfg.ServerPort, cfg.Environment)
	if err := e.Start(":" + cfg.ServerPort); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}
