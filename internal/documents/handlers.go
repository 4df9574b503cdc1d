package documents

import (
	"errors"
	"mime"
	"path/filepath"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/alqadhi/legal-office-api/internal/access"
	"github.com/alqadhi/legal-office-api/internal/auth"
	"github.com/alqadhi/legal-office-api/internal/storage"
	"github.com/alqadhi/legal-office-api/pkg/models"
	"github.com/alqadhi/legal-office-api/pkg/utils"
)

type Handler struct {
	db    *gorm.DB
	store *storage.Local
}

func NewHandler(db *gorm.DB, store *storage.Local) *Handler {
	return &Handler{db: db, store: store}
}

// Upload godoc
// @Summary      Upload a case document
// @Description  Counsel lawyer or admin uploads a file (pdf/doc/docx/jpg/jpeg/png, max 16 MiB)
// @Tags         documents
// @Security     BearerAuth
// @Accept       multipart/form-data
// @Produce      json
// @Param        id            path      string true  "case id (uuid)"
// @Param        file          formData  file   true  "document file"
// @Param        title         formData  string true  "document title"
// @Param        description   formData  string false "description"
// @Param        document_type formData  string false "evidence|contract|court_order|petition|correspondence|other"
// @Success      201  {object}  models.Document
// @Failure      400  {object}  models.ErrorResponse
// @Failure      403  {object}  models.ErrorResponse
// @Failure      413  {object}  models.ErrorResponse
// @Router       /cases/{id}/documents [post]
func (h *Handler) Upload(c *fiber.Ctx) error {
	userID := auth.MustUserID(c)
	role := auth.MustRole(c)
	caseID := c.Params("id")
	if _, err := uuid.Parse(caseID); err != nil {
		return fiber.ErrNotFound
	}

	var cs models.Case
	if err := h.db.First(&cs, "id = ?", caseID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.ErrNotFound
		}
		return fiber.ErrInternalServerError
	}
	if !access.CanEditCase(role, userID, &cs) {
		return fiber.ErrForbidden
	}

	fh, err := c.FormFile("file")
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "file is required")
	}
	if fh.Size > storage.MaxFileSize {
		return fiber.NewError(fiber.StatusRequestEntityTooLarge, "max 16 MiB per file")
	}
	if !storage.Allowed(fh.Filename) {
		return fiber.NewError(fiber.StatusBadRequest, "allowed types: pdf, doc, docx, jpg, jpeg, png")
	}

	title := strings.TrimSpace(c.FormValue("title"))
	if title == "" {
		return fiber.NewError(fiber.StatusBadRequest, "title is required")
	}
	docType := c.FormValue("document_type", "other")

	name, path, err := h.store.Save(fh)
	if err != nil {
		return fiber.ErrInternalServerError
	}

	ct := fh.Header.Get("Content-Type")
	if ct == "" {
		ct = mime.TypeByExtension(filepath.Ext(fh.Filename))
	}

	uploaderUUID, _ := uuid.Parse(userID)
	doc := models.Document{
		Title:        title,
		Description:  strings.TrimSpace(c.FormValue("description")),
		FileName:     name,
		FilePath:     path,
		FileSize:     fh.Size,
		MimeType:     ct,
		DocumentType: docType,
		CaseID:       &cs.ID,
		UploadedBy:   uploaderUUID,
	}
	if err := h.db.Create(&doc).Error; err != nil {
		// Keep disk and DB consistent when the row insert fails.
		_ = h.store.Remove(path)
		return fiber.ErrInternalServerError
	}

	utils.LogCaseUpdate(c.Context(), h.db, cs.ID, uploaderUUID,
		"document", "Document uploaded", doc.Title)

	return c.Status(fiber.StatusCreated).JSON(doc)
}

// ListByCase godoc
// @Summary      List case documents
// @Tags         documents
// @Security     BearerAuth
// @Produce      json
// @Param        id  path string true "case id (uuid)"
// @Success      200  {array}   models.Document
// @Failure      403  {object}  models.ErrorResponse
// @Failure      404  {object}  models.ErrorResponse
// @Router       /cases/{id}/documents [get]
func (h *Handler) ListByCase(c *fiber.Ctx) error {
	userID := auth.MustUserID(c)
	role := auth.MustRole(c)
	caseID := c.Params("id")
	if _, err := uuid.Parse(caseID); err != nil {
		return fiber.ErrNotFound
	}

	var cs models.Case
	if err := h.db.First(&cs, "id = ?", caseID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.ErrNotFound
		}
		return fiber.ErrInternalServerError
	}
	if !access.CanViewCase(role, userID, &cs) {
		return fiber.ErrForbidden
	}

	docs := make([]models.Document, 0)
	if err := h.db.Where("case_id = ?", cs.ID).
		Order("created_at DESC").
		Find(&docs).Error; err != nil {
		return fiber.ErrInternalServerError
	}

	return c.JSON(docs)
}

// Mine godoc
// @Summary      List documents reachable by the requester
// @Tags         documents
// @Security     BearerAuth
// @Produce      json
// @Success      200  {array}  models.Document
// @Router       /documents [get]
func (h *Handler) Mine(c *fiber.Ctx) error {
	userID := auth.MustUserID(c)
	role := auth.MustRole(c)

	docs := make([]models.Document, 0)
	if err := access.ScopeDocuments(h.db, role, userID).
		Order("documents.created_at DESC").
		Find(&docs).Error; err != nil {
		return fiber.ErrInternalServerError
	}
	return c.JSON(docs)
}
