package search

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/alqadhi/legal-office-api/internal/access"
	"github.com/alqadhi/legal-office-api/internal/auth"
	"github.com/alqadhi/legal-office-api/pkg/models"
)

const bucketSize = 10

type Handler struct {
	db *gorm.DB
}

func NewHandler(db *gorm.DB) *Handler { return &Handler{db: db} }

// Results groups matches per entity. Case results respect access scoping.
type Results struct {
	Cases   []models.Case  `json:"cases"`
	Courts  []models.Court `json:"courts"`
	Lawyers []LawyerResult `json:"lawyers"`
}

type LawyerResult struct {
	UserID         string  `json:"user_id"`
	FirstName      string  `json:"first_name"`
	LastName       string  `json:"last_name"`
	Specialization string  `json:"specialization"`
	LawFirm        string  `json:"law_firm"`
	Rating         float64 `json:"rating"`
}

// Global godoc
// @Summary      Cross-entity search
// @Description  Cases are scoped by role; courts and verified lawyers are public
// @Tags         search
// @Security     BearerAuth
// @Produce      json
// @Param        query    query string true  "search term"
// @Param        category query string false "cases|courts|lawyers (all when empty)"
// @Success      200  {object}  Results
// @Router       /search [get]
func (h *Handler) Global(c *fiber.Ctx) error {
	userID := auth.MustUserID(c)
	role := auth.MustRole(c)

	query := strings.TrimSpace(c.Query("query"))
	category := c.Query("category")

	res := Results{
		Cases:   []models.Case{},
		Courts:  []models.Court{},
		Lawyers: []LawyerResult{},
	}
	if query == "" {
		return c.JSON(res)
	}
	like := "%" + query + "%"

	if category == "" || category == "cases" {
		if err := access.ScopeCases(h.db, role, userID).
			Where("title ILIKE ? OR case_number ILIKE ? OR description ILIKE ?", like, like, like).
			Order("created_at DESC").Limit(bucketSize).
			Find(&res.Cases).Error; err != nil {
			return fiber.ErrInternalServerError
		}
	}

	if category == "" || category == "courts" {
		if err := h.db.Where("is_active = ?", true).
			Where("name ILIKE ? OR name_en ILIKE ? OR city ILIKE ?", like, like, like).
			Order("name").Limit(bucketSize).
			Find(&res.Courts).Error; err != nil {
			return fiber.ErrInternalServerError
		}
	}

	if category == "" || category == "lawyers" {
		if err := h.db.Model(&models.LawyerProfile{}).
			Select("lawyer_profiles.user_id, users.first_name, users.last_name, lawyer_profiles.specialization, lawyer_profiles.law_firm, lawyer_profiles.rating").
			Joins("JOIN users ON users.id = lawyer_profiles.user_id").
			Where("users.is_active = ? AND lawyer_profiles.is_verified = ?", true, true).
			Where("users.first_name ILIKE ? OR users.last_name ILIKE ? OR lawyer_profiles.specialization ILIKE ? OR lawyer_profiles.law_firm ILIKE ?",
				like, like, like, like).
			Order("lawyer_profiles.rating DESC").Limit(bucketSize).
			Scan(&res.Lawyers).Error; err != nil {
			return fiber.ErrInternalServerError
		}
	}

	return c.JSON(res)
}

// DashboardStats are the per-role counters on the landing page.
type DashboardStats struct {
	TotalCases           int64 `json:"total_cases"`
	ActiveCases          int64 `json:"active_cases"`
	UpcomingAppointments int64 `json:"upcoming_appointments"`
	UnreadNotifications  int64 `json:"unread_notifications"`
}

type Dashboard struct {
	RecentCases      []models.Case        `json:"recent_cases"`
	NextAppointments []models.Appointment `json:"next_appointments"`
	Stats            DashboardStats       `json:"stats"`
}

// GetDashboard godoc
// @Summary      Role-shaped dashboard
// @Description  Recent five cases, next five appointments, scoped counters
// @Tags         search
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  Dashboard
// @Router       /dashboard [get]
func (h *Handler) GetDashboard(c *fiber.Ctx) error {
	userID := auth.MustUserID(c)
	role := auth.MustRole(c)

	d := Dashboard{
		RecentCases:      []models.Case{},
		NextAppointments: []models.Appointment{},
	}

	if err := access.ScopeCases(h.db, role, userID).
		Order("created_at DESC").Limit(5).
		Find(&d.RecentCases).Error; err != nil {
		return fiber.ErrInternalServerError
	}

	if err := access.ScopeAppointments(h.db, role, userID).
		Where("appointments.start_datetime >= ? AND appointments.status = ?",
			time.Now().UTC(), models.AppointmentScheduled).
		Order("appointments.start_datetime ASC").Limit(5).
		Find(&d.NextAppointments).Error; err != nil {
		return fiber.ErrInternalServerError
	}

	if err := access.ScopeCases(h.db, role, userID).
		Count(&d.Stats.TotalCases).Error; err != nil {
		return fiber.ErrInternalServerError
	}
	if err := access.ScopeCases(h.db, role, userID).
		Where("status = ?", models.CaseActive).
		Count(&d.Stats.ActiveCases).Error; err != nil {
		return fiber.ErrInternalServerError
	}
	if err := access.ScopeAppointments(h.db, role, userID).
		Where("appointments.start_datetime >= ? AND appointments.status = ?",
			time.Now().UTC(), models.AppointmentScheduled).
		Count(&d.Stats.UpcomingAppointments).Error; err != nil {
		return fiber.ErrInternalServerError
	}
	if err := h.db.Model(&models.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Count(&d.Stats.UnreadNotifications).Error; err != nil {
		return fiber.ErrInternalServerError
	}

	return c.JSON(d)
}
