package courts

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/alqadhi/legal-office-api/internal/auth"
	"github.com/alqadhi/legal-office-api/pkg/models"
	"github.com/alqadhi/legal-office-api/pkg/paginate"
	"github.com/alqadhi/legal-office-api/pkg/utils"
	"github.com/alqadhi/legal-office-api/pkg/validation"
)

// ===== DTOs =====

type CourtRequest struct {
	Name         string   `json:"name" validate:"required,max=200"`
	NameEn       string   `json:"name_en" validate:"omitempty,max=200"`
	CourtType    string   `json:"court_type" validate:"required,max=50"`
	Governorate  string   `json:"governorate" validate:"required,max=50"`
	City         string   `json:"city" validate:"required,max=50"`
	Address      string   `json:"address" validate:"max=1000"`
	Phone        string   `json:"phone" validate:"omitempty,max=20"`
	Email        string   `json:"email" validate:"omitempty,email,max=120"`
	WorkingHours string   `json:"working_hours" validate:"max=500"`
	Latitude     *float64 `json:"latitude" validate:"omitempty,gte=-90,lte=90"`
	Longitude    *float64 `json:"longitude" validate:"omitempty,gte=-180,lte=180"`
	IsActive     *bool    `json:"is_active"`
}

type Handler struct {
	db *gorm.DB
}

func NewHandler(db *gorm.DB) *Handler { return &Handler{db: db} }

// List godoc
// @Summary      Court directory
// @Description  Public listing of active courts
// @Tags         courts
// @Produce      json
// @Param        page        query int    false "page"
// @Param        search      query string false "matches name, city, address"
// @Param        governorate query string false "governorate"
// @Param        court_type  query string false "court type"
// @Success      200  {object}  paginate.Envelope
// @Router       /courts [get]
func (h *Handler) List(c *fiber.Ctx) error {
	page := paginate.Page(c)

	q := h.db.Model(&models.Court{}).Where("is_active = true")

	if search := strings.TrimSpace(c.Query("search")); search != "" {
		like := "%" + search + "%"
		q = q.Where("name ILIKE ? OR city ILIKE ? OR address ILIKE ?", like, like, like)
	}
	if governorate := c.Query("governorate"); governorate != "" {
		q = q.Where("governorate = ?", governorate)
	}
	if courtType := c.Query("court_type"); courtType != "" {
		q = q.Where("court_type = ?", courtType)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return fiber.ErrInternalServerError
	}

	list := make([]models.Court, 0, paginate.PerPage)
	if err := paginate.Apply(q.Order("governorate, name"), page).Find(&list).Error; err != nil {
		return fiber.ErrInternalServerError
	}

	return c.JSON(paginate.NewEnvelope(page, total, list))
}

// Get godoc
// @Summary      Court detail
// @Tags         courts
// @Produce      json
// @Param        id  path string true "court id (uuid)"
// @Success      200  {object}  models.Court
// @Failure      404  {object}  models.ErrorResponse
// @Router       /courts/{id} [get]
func (h *Handler) Get(c *fiber.Ctx) error {
	id := c.Params("id")
	if _, err := uuid.Parse(id); err != nil {
		return fiber.ErrNotFound
	}

	var court models.Court
	if err := h.db.First(&court, "id = ? AND is_active = true", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.ErrNotFound
		}
		return fiber.ErrInternalServerError
	}
	return c.JSON(court)
}

// Create godoc
// @Summary      Add court (admin)
// @Tags         courts
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload  body  CourtRequest  true  "Court payload"
// @Success      201  {object}  models.Court
// @Failure      400  {object}  models.ValidationErrorResponse
// @Router       /courts [post]
func (h *Handler) Create(c *fiber.Ctx) error {
	adminID := auth.MustUserID(c)

	var in CourtRequest
	if err := c.BodyParser(&in); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid json")
	}
	if errs, _ := validation.Validate(in); errs != nil {
		return validation.Respond(c, errs)
	}

	court := models.Court{
		Name:         strings.TrimSpace(in.Name),
		NameEn:       strings.TrimSpace(in.NameEn),
		CourtType:    in.CourtType,
		Governorate:  in.Governorate,
		City:         strings.TrimSpace(in.City),
		Address:      strings.TrimSpace(in.Address),
		Phone:        in.Phone,
		Email:        strings.ToLower(strings.TrimSpace(in.Email)),
		WorkingHours: in.WorkingHours,
		Latitude:     in.Latitude,
		Longitude:    in.Longitude,
		IsActive:     true,
	}
	if in.IsActive != nil {
		court.IsActive = *in.IsActive
	}
	if err := h.db.Create(&court).Error; err != nil {
		return fiber.ErrInternalServerError
	}

	adminUUID, _ := uuid.Parse(adminID)
	utils.LogAdminActivity(c.Context(), h.db, adminUUID, "court added", "Court added: "+court.Name)

	return c.Status(fiber.StatusCreated).JSON(court)
}

// Update godoc
// @Summary      Edit court (admin)
// @Description  Also used to soft-delete via is_active=false
// @Tags         courts
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id       path string       true "court id (uuid)"
// @Param        payload  body  CourtRequest true "Court payload"
// @Success      200  {object}  models.Court
// @Failure      404  {object}  models.ErrorResponse
// @Router       /courts/{id} [put]
func (h *Handler) Update(c *fiber.Ctx) error {
	adminID := auth.MustUserID(c)

	id := c.Params("id")
	if _, err := uuid.Parse(id); err != nil {
		return fiber.ErrNotFound
	}

	var in CourtRequest
	if err := c.BodyParser(&in); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid json")
	}
	if errs, _ := validation.Validate(in); errs != nil {
		return validation.Respond(c, errs)
	}

	var court models.Court
	if err := h.db.First(&court, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.ErrNotFound
		}
		return fiber.ErrInternalServerError
	}

	court.Name = strings.TrimSpace(in.Name)
	court.NameEn = strings.TrimSpace(in.NameEn)
	court.CourtType = in.CourtType
	court.Governorate = in.Governorate
	court.City = strings.TrimSpace(in.City)
	court.Address = strings.TrimSpace(in.Address)
	court.Phone = in.Phone
	court.Email = strings.ToLower(strings.TrimSpace(in.Email))
	court.WorkingHours = in.WorkingHours
	court.Latitude = in.Latitude
	court.Longitude = in.Longitude
	if in.IsActive != nil {
		court.IsActive = *in.IsActive
	}

	if err := h.db.Save(&court).Error; err != nil {
		return fiber.ErrInternalServerError
	}

	adminUUID, _ := uuid.Parse(adminID)
	utils.LogAdminActivity(c.Context(), h.db, adminUUID, "court updated", "Court updated: "+court.Name)

	return c.JSON(court)
}
