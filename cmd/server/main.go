// @title           Legal Office API
// @version         1.0
// @description     Role-based case management for a legal office: courts, lawyers, clients, case filings, document templates and appointments.
// @BasePath        /api
// @schemes         http
// @securityDefinitions.apikey BearerAuth
// @in              header
// @name            Authorization
// @description     Format: Bearer <token>
package main

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/alqadhi/legal-office-api/internal/admin"
	"github.com/alqadhi/legal-office-api/internal/appointments"
	"github.com/alqadhi/legal-office-api/internal/auth"
	"github.com/alqadhi/legal-office-api/internal/cases"
	"github.com/alqadhi/legal-office-api/internal/courts"
	"github.com/alqadhi/legal-office-api/internal/documents"
	"github.com/alqadhi/legal-office-api/internal/lawyers"
	"github.com/alqadhi/legal-office-api/internal/notifications"
	"github.com/alqadhi/legal-office-api/internal/search"
	"github.com/alqadhi/legal-office-api/internal/storage"
	"github.com/alqadhi/legal-office-api/internal/templates"
	"github.com/alqadhi/legal-office-api/pkg/config"
	"github.com/alqadhi/legal-office-api/pkg/database"
	"github.com/alqadhi/legal-office-api/pkg/logger"
	"github.com/alqadhi/legal-office-api/pkg/models"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	log := logger.Init(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: cfg.Env == "development",
	})

	db := database.Init(cfg)
	if err := db.AutoMigrate(
		&models.User{}, &models.Court{}, &models.LawyerProfile{},
		&models.Case{}, &models.Document{}, &models.DocumentTemplate{},
		&models.Appointment{}, &models.CaseUpdate{}, &models.Notification{},
	); err != nil {
		log.Fatal().Err(err).Msg("migration failed")
	}

	if err := seedAdmin(db); err != nil {
		log.Fatal().Err(err).Msg("admin seed failed")
	}

	app := fiber.New(fiber.Config{
		ErrorHandler: auth.ErrorHandler,
		BodyLimit:    storage.MaxFileSize + 1<<20, // headroom for multipart framing
	})

	app.Use(requestLogger())

	app.Get("/health", func(c *fiber.Ctx) error { return c.JSON(fiber.Map{"status": "ok"}) })

	api := app.Group("/api")
	authed := auth.RequireAuth(cfg.JWTSecret)
	adminOnly := auth.RequireRole(models.RoleAdmin)

	// Auth
	authH := auth.NewHandler(db, cfg.JWTSecret)
	api.Post("/signup", authH.Signup)
	api.Post("/login", authH.Login)
	api.Get("/me", authed, authH.Me)

	// Cases
	caseH := cases.NewHandler(db)
	api.Get("/cases", authed, caseH.List)
	api.Post("/cases", authed, auth.RequireRole(models.RoleLawyer, models.RoleAdmin), caseH.Create)
	api.Get("/cases/:id", authed, caseH.Get)
	api.Put("/cases/:id", authed, caseH.Update)
	api.Post("/cases/:id/updates", authed, caseH.AddUpdate)

	// Documents
	store := storage.NewLocal(cfg.UploadDir)
	docH := documents.NewHandler(db, store)
	api.Post("/cases/:id/documents", authed, docH.Upload)
	api.Get("/cases/:id/documents", authed, docH.ListByCase)
	api.Get("/documents", authed, docH.Mine)

	// Courts (public read, admin write)
	courtH := courts.NewHandler(db)
	api.Get("/courts", courtH.List)
	api.Get("/courts/:id", courtH.Get)
	api.Post("/courts", authed, adminOnly, courtH.Create)
	api.Put("/courts/:id", authed, adminOnly, courtH.Update)

	// Lawyers
	lawyerH := lawyers.NewHandler(db)
	api.Get("/lawyers", lawyerH.Directory)
	api.Get("/lawyers/profile", authed, auth.RequireRole(models.RoleLawyer), lawyerH.MyProfile)
	api.Put("/lawyers/profile", authed, auth.RequireRole(models.RoleLawyer), lawyerH.UpsertProfile)
	api.Put("/admin/lawyers/:id/verify", authed, adminOnly, lawyerH.Verify)

	// Templates
	tplH := templates.NewHandler(db)
	api.Get("/templates", authed, tplH.List)
	api.Post("/templates", authed, auth.RequireRole(models.RoleLawyer, models.RoleAdmin), tplH.Create)
	api.Get("/templates/:id", authed, tplH.Get)
	api.Post("/templates/:id/fill", authed, tplH.Fill)
	api.Put("/admin/templates/:id", authed, adminOnly, tplH.AdminUpdate)

	// Appointments
	apptH := appointments.NewHandler(db)
	api.Get("/appointments", authed, apptH.List)
	api.Post("/appointments", authed, apptH.Create)
	api.Put("/appointments/:id", authed, apptH.Update)
	api.Get("/calendar", authed, apptH.Calendar)

	// Notifications
	notifH := notifications.NewHandler(db)
	api.Get("/notifications", authed, notifH.List)
	api.Put("/notifications/:id/read", authed, notifH.MarkRead)
	api.Put("/notifications/read-all", authed, notifH.MarkAllRead)

	// Admin
	adminH := admin.NewHandler(db)
	api.Get("/admin/stats", authed, adminOnly, adminH.GetStats)
	api.Get("/admin/users", authed, adminOnly, adminH.ListUsers)
	api.Post("/admin/users", authed, adminOnly, adminH.CreateUser)
	api.Put("/admin/users/:id", authed, adminOnly, adminH.UpdateUser)
	api.Delete("/admin/users/:id", authed, adminOnly, adminH.DeleteUser)
	api.Get("/admin/reports", authed, adminOnly, adminH.GetReports)

	// Search + dashboard
	searchH := search.NewHandler(db)
	api.Get("/search", authed, searchH.Global)
	api.Get("/dashboard", authed, searchH.GetDashboard)

	log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("server starting")
	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}

// seedAdmin creates the default admin account when none exists yet.
// Credentials match the original deployment bootstrap; change them on first login.
func seedAdmin(db *gorm.DB) error {
	var count int64
	if err := db.Model(&models.User{}).Where("role = ?", models.RoleAdmin).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte("admin123"), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	return db.Create(&models.User{
		Username:     "admin",
		Email:        "admin@legaloffice.local",
		PasswordHash: string(hash),
		FirstName:    "System",
		LastName:     "Administrator",
		Role:         models.RoleAdmin,
		IsActive:     true,
	}).Error
}

func requestLogger() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		evt := logger.Get().Info()
		if err != nil {
			evt = logger.Get().Error().Err(err)
		}
		evt.
			Str("method", c.Method()).
			Str("path", c.Path()).
			Int("status", c.Response().StatusCode()).
			Dur("latency", time.Since(start)).
			Msg("request")

		return err
	}
}
