package templates

import (
	"encoding/json"
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

type CreateTemplateRequest struct {
	Name        string `json:"name" validate:"required,max=200"`
	Category    string `json:"category" validate:"required,max=50"`
	Description string `json:"description" validate:"max=2000"`
	Content     string `json:"content" validate:"required"`
}

type UpdateTemplateRequest struct {
	Name        string `json:"name" validate:"omitempty,max=200"`
	Category    string `json:"category" validate:"omitempty,max=50"`
	Description string `json:"description" validate:"omitempty,max=2000"`
	Content     string `json:"content" validate:"omitempty"`
	IsActive    *bool  `json:"is_active"`
}

type FillRequest struct {
	Values map[string]string `json:"values"`
}

// TemplateDetail is the detail shape with the fields JSON parsed out.
type TemplateDetail struct {
	models.DocumentTemplate
	ParsedFields []Field `json:"parsed_fields"`
}

type Handler struct {
	db *gorm.DB
}

func NewHandler(db *gorm.DB) *Handler { return &Handler{db: db} }

// List godoc
// @Summary      List document templates
// @Description  Active templates, searchable, filtered by category
// @Tags         templates
// @Security     BearerAuth
// @Produce      json
// @Param        page     query int    false "page"
// @Param        search   query string false "matches name, description"
// @Param        category query string false "category"
// @Success      200  {object}  paginate.Envelope
// @Router       /templates [get]
func (h *Handler) List(c *fiber.Ctx) error {
	page := paginate.Page(c)

	q := h.db.Model(&models.DocumentTemplate{}).Where("is_active = true")

	if search := strings.TrimSpace(c.Query("search")); search != "" {
		like := "%" + search + "%"
		q = q.Where("name ILIKE ? OR description ILIKE ?", like, like)
	}
	if category := c.Query("category"); category != "" {
		q = q.Where("category = ?", category)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return fiber.ErrInternalServerError
	}

	list := make([]models.DocumentTemplate, 0, paginate.PerPage)
	if err := paginate.Apply(q.Order("category, name"), page).Find(&list).Error; err != nil {
		return fiber.ErrInternalServerError
	}

	return c.JSON(paginate.NewEnvelope(page, total, list))
}

// Create godoc
// @Summary      Create template
// @Description  Lawyer or admin creates a reusable template; fields are extracted from content
// @Tags         templates
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload  body  CreateTemplateRequest  true  "Template payload"
// @Success      201  {object}  models.DocumentTemplate
// @Failure      400  {object}  models.ValidationErrorResponse
// @Router       /templates [post]
func (h *Handler) Create(c *fiber.Ctx) error {
	userID := auth.MustUserID(c)
	role := auth.MustRole(c)

	var in CreateTemplateRequest
	if err := c.BodyParser(&in); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid json")
	}
	if errs, _ := validation.Validate(in); errs != nil {
		return validation.Respond(c, errs)
	}

	fieldsJSON, _ := json.Marshal(ExtractFields(in.Content))

	creatorUUID, _ := uuid.Parse(userID)
	tpl := models.DocumentTemplate{
		Name:        strings.TrimSpace(in.Name),
		Category:    in.Category,
		Description: strings.TrimSpace(in.Description),
		Content:     in.Content,
		Fields:      string(fieldsJSON),
		IsActive:    true,
		CreatedBy:   creatorUUID,
	}
	if err := h.db.Create(&tpl).Error; err != nil {
		return fiber.ErrInternalServerError
	}

	if role == models.RoleAdmin {
		utils.LogAdminActivity(c.Context(), h.db, creatorUUID, "template added", "Template added: "+tpl.Name)
	}

	return c.Status(fiber.StatusCreated).JSON(tpl)
}

// Get godoc
// @Summary      Template detail
// @Tags         templates
// @Security     BearerAuth
// @Produce      json
// @Param        id  path string true "template id (uuid)"
// @Success      200  {object}  TemplateDetail
// @Failure      404  {object}  models.ErrorResponse
// @Router       /templates/{id} [get]
func (h *Handler) Get(c *fiber.Ctx) error {
	id := c.Params("id")
	if _, err := uuid.Parse(id); err != nil {
		return fiber.ErrNotFound
	}

	var tpl models.DocumentTemplate
	if err := h.db.First(&tpl, "id = ? AND is_active = true", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.ErrNotFound
		}
		return fiber.ErrInternalServerError
	}

	parsed := []Field{}
	_ = json.Unmarshal([]byte(tpl.Fields), &parsed)

	return c.JSON(TemplateDetail{DocumentTemplate: tpl, ParsedFields: parsed})
}

// Fill godoc
// @Summary      Fill template
// @Description  Substitutes {{field}} placeholders; unmatched ones stay intact
// @Tags         templates
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id       path string       true "template id (uuid)"
// @Param        payload  body  FillRequest true "field values"
// @Success      200  {object}  map[string]string  "content"
// @Failure      404  {object}  models.ErrorResponse
// @Router       /templates/{id}/fill [post]
func (h *Handler) Fill(c *fiber.Ctx) error {
	id := c.Params("id")
	if _, err := uuid.Parse(id); err != nil {
		return fiber.ErrNotFound
	}

	var tpl models.DocumentTemplate
	if err := h.db.First(&tpl, "id = ? AND is_active = true", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.ErrNotFound
		}
		return fiber.ErrInternalServerError
	}

	var in FillRequest
	if err := c.BodyParser(&in); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid json")
	}

	return c.JSON(fiber.Map{
		"name":    tpl.Name,
		"content": Fill(tpl.Content, in.Values),
	})
}

// AdminUpdate godoc
// @Summary      Edit template (admin)
// @Description  Admin edits any template, including the active flag; fields re-extracted on content change
// @Tags         admin
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id       path string                true "template id (uuid)"
// @Param        payload  body  UpdateTemplateRequest true "fields to change"
// @Success      200  {object}  models.DocumentTemplate
// @Failure      404  {object}  models.ErrorResponse
// @Router       /admin/templates/{id} [put]
func (h *Handler) AdminUpdate(c *fiber.Ctx) error {
	adminID := auth.MustUserID(c)

	id := c.Params("id")
	if _, err := uuid.Parse(id); err != nil {
		return fiber.ErrNotFound
	}

	var in UpdateTemplateRequest
	if err := c.BodyParser(&in); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid json")
	}
	if errs, _ := validation.Validate(in); errs != nil {
		return validation.Respond(c, errs)
	}

	var tpl models.DocumentTemplate
	if err := h.db.First(&tpl, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.ErrNotFound
		}
		return fiber.ErrInternalServerError
	}

	if in.Name != "" {
		tpl.Name = strings.TrimSpace(in.Name)
	}
	if in.Category != "" {
		tpl.Category = in.Category
	}
	if in.Description != "" {
		tpl.Description = strings.TrimSpace(in.Description)
	}
	if in.Content != "" {
		tpl.Content = in.Content
		fieldsJSON, _ := json.Marshal(ExtractFields(in.Content))
		tpl.Fields = string(fieldsJSON)
	}
	if in.IsActive != nil {
		tpl.IsActive = *in.IsActive
	}

	if err := h.db.Save(&tpl).Error; err != nil {
		return fiber.ErrInternalServerError
	}

	adminUUID, _ := uuid.Parse(adminID)
	utils.LogAdminActivity(c.Context(), h.db, adminUUID, "template updated", "Template updated: "+tpl.Name)

	return c.JSON(tpl)
}
