package lawyers

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

type ProfileRequest struct {
	LicenseNumber   string  `json:"license_number" validate:"required,license"`
	Specialization  string  `json:"specialization" validate:"required,max=100"`
	ExperienceYears int     `json:"experience_years" validate:"gte=0,lte=50"`
	LawFirm         string  `json:"law_firm" validate:"max=200"`
	OfficeAddress   string  `json:"office_address" validate:"max=1000"`
	ConsultationFee float64 `json:"consultation_fee" validate:"gte=0"`
	Bio             string  `json:"bio" validate:"max=5000"`
}

type VerifyRequest struct {
	IsVerified bool     `json:"is_verified"`
	Rating     *float64 `json:"rating" validate:"omitempty,gte=0,lte=5"`
}

// DirectoryItem is the public listing row: user identity joined with the
// verified profile, no credentials.
type DirectoryItem struct {
	UserID          uuid.UUID `json:"user_id"`
	FirstName       string    `json:"first_name"`
	LastName        string    `json:"last_name"`
	Specialization  string    `json:"specialization"`
	ExperienceYears int       `json:"experience_years"`
	LawFirm         string    `json:"law_firm"`
	ConsultationFee float64   `json:"consultation_fee"`
	Rating          float64   `json:"rating"`
	TotalReviews    int       `json:"total_reviews"`
}

type Handler struct {
	db *gorm.DB
}

func NewHandler(db *gorm.DB) *Handler { return &Handler{db: db} }

// Directory godoc
// @Summary      Lawyer directory
// @Description  Public listing of active users with verified lawyer profiles
// @Tags         lawyers
// @Produce      json
// @Param        page           query int    false "page"
// @Param        search         query string false "matches first/last name, law firm"
// @Param        specialization query string false "specialization"
// @Success      200  {object}  paginate.Envelope
// @Router       /lawyers [get]
func (h *Handler) Directory(c *fiber.Ctx) error {
	page := paginate.Page(c)

	q := h.db.Model(&models.LawyerProfile{}).
		Joins("JOIN users ON users.id = lawyer_profiles.user_id").
		Where("users.role = ? AND users.is_active = true AND lawyer_profiles.is_verified = true",
			models.RoleLawyer)

	if search := strings.TrimSpace(c.Query("search")); search != "" {
		like := "%" + search + "%"
		q = q.Where("users.first_name ILIKE ? OR users.last_name ILIKE ? OR lawyer_profiles.law_firm ILIKE ?",
			like, like, like)
	}
	if spec := c.Query("specialization"); spec != "" {
		q = q.Where("lawyer_profiles.specialization = ?", spec)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return fiber.ErrInternalServerError
	}

	rows := make([]DirectoryItem, 0, paginate.PerPage)
	err := paginate.Apply(q.
		Select(`lawyer_profiles.user_id, users.first_name, users.last_name,
			lawyer_profiles.specialization, lawyer_profiles.experience_years,
			lawyer_profiles.law_firm, lawyer_profiles.consultation_fee,
			lawyer_profiles.rating, lawyer_profiles.total_reviews`).
		Order("lawyer_profiles.rating DESC"), page).
		Scan(&rows).Error
	if err != nil {
		return fiber.ErrInternalServerError
	}

	return c.JSON(paginate.NewEnvelope(page, total, rows))
}

// MyProfile godoc
// @Summary      Own lawyer profile
// @Tags         lawyers
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  models.LawyerProfile
// @Failure      404  {object}  models.ErrorResponse  "no profile yet"
// @Router       /lawyers/profile [get]
func (h *Handler) MyProfile(c *fiber.Ctx) error {
	userID := auth.MustUserID(c)

	var profile models.LawyerProfile
	if err := h.db.First(&profile, "user_id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.ErrNotFound
		}
		return fiber.ErrInternalServerError
	}
	return c.JSON(profile)
}

// UpsertProfile godoc
// @Summary      Create or update own lawyer profile
// @Description  Verification and rating are admin-controlled and never touched here
// @Tags         lawyers
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload  body  ProfileRequest  true  "Profile payload"
// @Success      200  {object}  models.LawyerProfile
// @Failure      400  {object}  models.ValidationErrorResponse
// @Failure      409  {object}  models.ErrorResponse  "license number already registered"
// @Router       /lawyers/profile [put]
func (h *Handler) UpsertProfile(c *fiber.Ctx) error {
	userID := auth.MustUserID(c)

	var in ProfileRequest
	if err := c.BodyParser(&in); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid json")
	}
	if errs, _ := validation.Validate(in); errs != nil {
		return validation.Respond(c, errs)
	}

	userUUID, _ := uuid.Parse(userID)

	var profile models.LawyerProfile
	err := h.db.First(&profile, "user_id = ?", userID).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		profile = models.LawyerProfile{UserID: userUUID}
	case err != nil:
		return fiber.ErrInternalServerError
	}

	profile.LicenseNumber = strings.TrimSpace(in.LicenseNumber)
	profile.Specialization = in.Specialization
	profile.ExperienceYears = in.ExperienceYears
	profile.LawFirm = strings.TrimSpace(in.LawFirm)
	profile.OfficeAddress = strings.TrimSpace(in.OfficeAddress)
	profile.ConsultationFee = in.ConsultationFee
	profile.Bio = strings.TrimSpace(in.Bio)

	if err := h.db.Save(&profile).Error; err != nil {
		return fiber.NewError(fiber.StatusConflict, "license number already registered")
	}
	return c.JSON(profile)
}

// Verify godoc
// @Summary      Verify lawyer (admin)
// @Tags         admin
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id       path string        true "profile id (uuid)"
// @Param        payload  body  VerifyRequest true "verification payload"
// @Success      200  {object}  models.LawyerProfile
// @Failure      404  {object}  models.ErrorResponse
// @Router       /admin/lawyers/{id}/verify [put]
func (h *Handler) Verify(c *fiber.Ctx) error {
	adminID := auth.MustUserID(c)

	id := c.Params("id")
	if _, err := uuid.Parse(id); err != nil {
		return fiber.ErrNotFound
	}

	var in VerifyRequest
	if err := c.BodyParser(&in); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid json")
	}
	if errs, _ := validation.Validate(in); errs != nil {
		return validation.Respond(c, errs)
	}

	var profile models.LawyerProfile
	if err := h.db.First(&profile, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.ErrNotFound
		}
		return fiber.ErrInternalServerError
	}

	profile.IsVerified = in.IsVerified
	if in.Rating != nil {
		profile.Rating = *in.Rating
	}
	if err := h.db.Save(&profile).Error; err != nil {
		return fiber.ErrInternalServerError
	}

	adminUUID, _ := uuid.Parse(adminID)
	action := "lawyer verified"
	if !in.IsVerified {
		action = "lawyer unverified"
	}
	utils.LogAdminActivity(c.Context(), h.db, adminUUID, action, "License "+profile.LicenseNumber)

	return c.JSON(profile)
}
