package admin

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/alqadhi/legal-office-api/internal/auth"
	"github.com/alqadhi/legal-office-api/pkg/models"
	"github.com/alqadhi/legal-office-api/pkg/paginate"
	"github.com/alqadhi/legal-office-api/pkg/utils"
	"github.com/alqadhi/legal-office-api/pkg/validation"
)

// ===== DTOs =====

type CreateUserRequest struct {
	Username  string `json:"username" validate:"required,username"`
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required,min=8,max=72"`
	FirstName string `json:"first_name" validate:"required,max=50"`
	LastName  string `json:"last_name" validate:"required,max=50"`
	Phone     string `json:"phone" validate:"omitempty,max=20"`
	Role      string `json:"role" validate:"required,oneof=admin judge lawyer client student"`
}

type UpdateUserRequest struct {
	Email     string `json:"email" validate:"omitempty,email"`
	Password  string `json:"password" validate:"omitempty,min=8,max=72"`
	FirstName string `json:"first_name" validate:"omitempty,max=50"`
	LastName  string `json:"last_name" validate:"omitempty,max=50"`
	Phone     string `json:"phone" validate:"omitempty,max=20"`
	Role      string `json:"role" validate:"omitempty,oneof=admin judge lawyer client student"`
	IsActive  *bool  `json:"is_active"`
}

// Stats mirrors the admin dashboard counters.
type Stats struct {
	TotalUsers          int64 `json:"total_users"`
	ActiveUsers         int64 `json:"active_users"`
	TotalCases          int64 `json:"total_cases"`
	ActiveCases         int64 `json:"active_cases"`
	TotalCourts         int64 `json:"total_courts"`
	ActiveCourts        int64 `json:"active_courts"`
	TotalLawyers        int64 `json:"total_lawyers"`
	VerifiedLawyers     int64 `json:"verified_lawyers"`
	TotalAppointments   int64 `json:"total_appointments"`
	PendingAppointments int64 `json:"pending_appointments"`
}

type groupCount struct {
	Key   string `json:"key"`
	Count int64  `json:"count"`
}

// Reports groups case counts three ways for charting.
type Reports struct {
	CasesByType   []groupCount `json:"cases_by_type"`
	CasesByStatus []groupCount `json:"cases_by_status"`
	CasesByMonth  []groupCount `json:"cases_by_month"`
}

type Handler struct {
	db *gorm.DB
}

func NewHandler(db *gorm.DB) *Handler { return &Handler{db: db} }

// GetStats godoc
// @Summary      System totals
// @Tags         admin
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  Stats
// @Router       /admin/stats [get]
func (h *Handler) GetStats(c *fiber.Ctx) error {
	var s Stats

	counts := []struct {
		dst   *int64
		model any
		where []any
	}{
		{&s.TotalUsers, &models.User{}, nil},
		{&s.ActiveUsers, &models.User{}, []any{"is_active = ?", true}},
		{&s.TotalCases, &models.Case{}, nil},
		{&s.ActiveCases, &models.Case{}, []any{"status = ?", models.CaseActive}},
		{&s.TotalCourts, &models.Court{}, nil},
		{&s.ActiveCourts, &models.Court{}, []any{"is_active = ?", true}},
		{&s.TotalLawyers, &models.User{}, []any{"role = ?", models.RoleLawyer}},
		{&s.VerifiedLawyers, &models.LawyerProfile{}, []any{"is_verified = ?", true}},
		{&s.TotalAppointments, &models.Appointment{}, nil},
		{&s.PendingAppointments, &models.Appointment{}, []any{"status = ?", models.AppointmentScheduled}},
	}
	for _, cnt := range counts {
		q := h.db.Model(cnt.model)
		if cnt.where != nil {
			q = q.Where(cnt.where[0], cnt.where[1:]...)
		}
		if err := q.Count(cnt.dst).Error; err != nil {
			return fiber.ErrInternalServerError
		}
	}

	return c.JSON(s)
}

// ListUsers godoc
// @Summary      List users
// @Tags         admin
// @Security     BearerAuth
// @Produce      json
// @Param        page   query int    false "page"
// @Param        search query string false "username, email or name"
// @Param        role   query string false "role filter"
// @Param        status query string false "active|inactive"
// @Success      200  {object}  paginate.Envelope
// @Router       /admin/users [get]
func (h *Handler) ListUsers(c *fiber.Ctx) error {
	page := paginate.Page(c)

	q := h.db.Model(&models.User{})

	if search := strings.TrimSpace(c.Query("search")); search != "" {
		like := "%" + search + "%"
		q = q.Where("username ILIKE ? OR email ILIKE ? OR first_name ILIKE ? OR last_name ILIKE ?",
			like, like, like, like)
	}
	if role := c.Query("role"); role != "" {
		q = q.Where("role = ?", role)
	}
	switch c.Query("status") {
	case "active":
		q = q.Where("is_active = ?", true)
	case "inactive":
		q = q.Where("is_active = ?", false)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return fiber.ErrInternalServerError
	}

	list := make([]models.User, 0, paginate.PerPage)
	if err := paginate.Apply(q.Order("created_at DESC"), page).Find(&list).Error; err != nil {
		return fiber.ErrInternalServerError
	}

	return c.JSON(paginate.NewEnvelope(page, total, list))
}

// CreateUser godoc
// @Summary      Create a user (any role)
// @Tags         admin
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload  body  CreateUserRequest  true  "User payload"
// @Success      201  {object}  models.User
// @Failure      400  {object}  models.ValidationErrorResponse
// @Failure      409  {object}  models.ErrorResponse
// @Router       /admin/users [post]
func (h *Handler) CreateUser(c *fiber.Ctx) error {
	adminID := auth.MustUserID(c)

	var in CreateUserRequest
	if err := c.BodyParser(&in); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid json")
	}
	if errs, _ := validation.Validate(in); errs != nil {
		return validation.Respond(c, errs)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return fiber.ErrInternalServerError
	}

	user := models.User{
		Username:     strings.ToLower(strings.TrimSpace(in.Username)),
		Email:        strings.ToLower(strings.TrimSpace(in.Email)),
		PasswordHash: string(hash),
		FirstName:    strings.TrimSpace(in.FirstName),
		LastName:     strings.TrimSpace(in.LastName),
		Phone:        strings.TrimSpace(in.Phone),
		Role:         models.Role(in.Role),
		IsActive:     true,
	}
	if err := h.db.Create(&user).Error; err != nil {
		if isDuplicate(err) {
			return fiber.NewError(fiber.StatusConflict, "username or email already taken")
		}
		return fiber.ErrInternalServerError
	}

	adminUUID, _ := uuid.Parse(adminID)
	utils.LogAdminActivity(c.Context(), h.db, adminUUID, "user created",
		fmt.Sprintf("created %s account %q", user.Role, user.Username))

	return c.Status(fiber.StatusCreated).JSON(user)
}

// UpdateUser godoc
// @Summary      Update a user
// @Description  Empty password keeps the current one
// @Tags         admin
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id       path string            true "user id (uuid)"
// @Param        payload  body  UpdateUserRequest true "fields to change"
// @Success      200  {object}  models.User
// @Failure      404  {object}  models.ErrorResponse
// @Failure      409  {object}  models.ErrorResponse
// @Router       /admin/users/{id} [put]
func (h *Handler) UpdateUser(c *fiber.Ctx) error {
	adminID := auth.MustUserID(c)

	targetID := c.Params("id")
	if _, err := uuid.Parse(targetID); err != nil {
		return fiber.ErrNotFound
	}

	var in UpdateUserRequest
	if err := c.BodyParser(&in); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid json")
	}
	if errs, _ := validation.Validate(in); errs != nil {
		return validation.Respond(c, errs)
	}

	var user models.User
	if err := h.db.First(&user, "id = ?", targetID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.ErrNotFound
		}
		return fiber.ErrInternalServerError
	}

	if in.Email != "" {
		user.Email = strings.ToLower(strings.TrimSpace(in.Email))
	}
	if in.Password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
		if err != nil {
			return fiber.ErrInternalServerError
		}
		user.PasswordHash = string(hash)
	}
	if in.FirstName != "" {
		user.FirstName = strings.TrimSpace(in.FirstName)
	}
	if in.LastName != "" {
		user.LastName = strings.TrimSpace(in.LastName)
	}
	if in.Phone != "" {
		user.Phone = strings.TrimSpace(in.Phone)
	}
	if in.Role != "" {
		user.Role = models.Role(in.Role)
	}
	if in.IsActive != nil {
		user.IsActive = *in.IsActive
	}

	if err := h.db.Save(&user).Error; err != nil {
		if isDuplicate(err) {
			return fiber.NewError(fiber.StatusConflict, "email already taken")
		}
		return fiber.ErrInternalServerError
	}

	adminUUID, _ := uuid.Parse(adminID)
	utils.LogAdminActivity(c.Context(), h.db, adminUUID, "user updated",
		fmt.Sprintf("updated account %q", user.Username))

	return c.JSON(user)
}

// DeleteUser godoc
// @Summary      Delete a user
// @Description  Hard delete; an admin cannot delete themselves
// @Tags         admin
// @Security     BearerAuth
// @Produce      json
// @Param        id path string true "user id (uuid)"
// @Success      200  {object}  map[string]interface{}
// @Failure      400  {object}  models.ErrorResponse
// @Failure      404  {object}  models.ErrorResponse
// @Router       /admin/users/{id} [delete]
func (h *Handler) DeleteUser(c *fiber.Ctx) error {
	adminID := auth.MustUserID(c)

	targetID := c.Params("id")
	if _, err := uuid.Parse(targetID); err != nil {
		return fiber.ErrNotFound
	}
	if targetID == adminID {
		return fiber.NewError(fiber.StatusBadRequest, "cannot delete own account")
	}

	var user models.User
	if err := h.db.First(&user, "id = ?", targetID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.ErrNotFound
		}
		return fiber.ErrInternalServerError
	}

	if err := h.db.Delete(&user).Error; err != nil {
		return fiber.ErrInternalServerError
	}

	adminUUID, _ := uuid.Parse(adminID)
	utils.LogAdminActivity(c.Context(), h.db, adminUUID, "user deleted",
		fmt.Sprintf("deleted account %q", user.Username))

	return c.JSON(fiber.Map{"deleted": user.ID})
}

// GetReports godoc
// @Summary      Case reports
// @Description  Case counts grouped by type, status and filing month
// @Tags         admin
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  Reports
// @Router       /admin/reports [get]
func (h *Handler) GetReports(c *fiber.Ctx) error {
	var r Reports

	if err := h.db.Model(&models.Case{}).
		Select("case_type AS key, COUNT(*) AS count").
		Group("case_type").Order("count DESC").
		Scan(&r.CasesByType).Error; err != nil {
		return fiber.ErrInternalServerError
	}
	if err := h.db.Model(&models.Case{}).
		Select("status AS key, COUNT(*) AS count").
		Group("status").Order("count DESC").
		Scan(&r.CasesByStatus).Error; err != nil {
		return fiber.ErrInternalServerError
	}
	if err := h.db.Model(&models.Case{}).
		Select("to_char(filed_date, 'YYYY-MM') AS key, COUNT(*) AS count").
		Group("to_char(filed_date, 'YYYY-MM')").Order("key").
		Scan(&r.CasesByMonth).Error; err != nil {
		return fiber.ErrInternalServerError
	}

	if r.CasesByType == nil {
		r.CasesByType = []groupCount{}
	}
	if r.CasesByStatus == nil {
		r.CasesByStatus = []groupCount{}
	}
	if r.CasesByMonth == nil {
		r.CasesByMonth = []groupCount{}
	}

	return c.JSON(r)
}

func isDuplicate(err error) bool {
	return errors.Is(err, gorm.ErrDuplicatedKey) ||
		strings.Contains(err.Error(), "duplicate key")
}
