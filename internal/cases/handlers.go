package cases

import (
	"errors"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/alqadhi/legal-office-api/internal/access"
	"github.com/alqadhi/legal-office-api/internal/auth"
	"github.com/alqadhi/legal-office-api/pkg/models"
	"github.com/alqadhi/legal-office-api/pkg/paginate"
	"github.com/alqadhi/legal-office-api/pkg/utils"
	"github.com/alqadhi/legal-office-api/pkg/validation"
)

// ===== DTOs =====

type CreateCaseRequest struct {
	CaseNumber  string `json:"case_number" validate:"omitempty,max=50"`
	Title       string `json:"title" validate:"required,max=200"`
	Description string `json:"description" validate:"max=5000"`
	CaseType    string `json:"case_type" validate:"required,max=50"`
	ClientID    string `json:"client_id" validate:"required,uuid4"`
	LawyerID    string `json:"lawyer_id" validate:"omitempty,uuid4"` // admin only
	CourtID     string `json:"court_id" validate:"omitempty,uuid4"`
	Priority    string `json:"priority" validate:"omitempty,oneof=high medium low"`
	Status      string `json:"status" validate:"omitempty,oneof=active pending closed"`
	FiledDate   string `json:"filed_date" validate:"required,datetime=2006-01-02"`
	NextHearing string `json:"next_hearing_date" validate:"omitempty,datetime=2006-01-02"`
}

type UpdateCaseRequest struct {
	Title       string `json:"title" validate:"omitempty,max=200"`
	Description string `json:"description" validate:"omitempty,max=5000"`
	Status      string `json:"status" validate:"omitempty,oneof=active pending closed"`
	Priority    string `json:"priority" validate:"omitempty,oneof=high medium low"`
	CourtID     string `json:"court_id" validate:"omitempty,uuid4"`
	NextHearing string `json:"next_hearing_date" validate:"omitempty,datetime=2006-01-02"`
	LastHearing string `json:"last_hearing_date" validate:"omitempty,datetime=2006-01-02"`
}

type AddUpdateRequest struct {
	UpdateType  string `json:"update_type" validate:"required,max=50"`
	Title       string `json:"title" validate:"required,max=200"`
	Description string `json:"description" validate:"max=5000"`
}

type Handler struct {
	db *gorm.DB
}

func NewHandler(db *gorm.DB) *Handler { return &Handler{db: db} }

// List Cases godoc
// @Summary      List cases (scoped)
// @Description  Admin sees all, lawyer their counselled cases, client their own
// @Tags         cases
// @Security     BearerAuth
// @Produce      json
// @Param        page      query int    false "page"
// @Param        search    query string false "matches title, case number, description"
// @Param        status    query string false "active|pending|closed"
// @Param        case_type query string false "case type"
// @Success      200  {object}  paginate.Envelope
// @Failure      401  {object}  models.ErrorResponse
// @Router       /cases [get]
func (h *Handler) List(c *fiber.Ctx) error {
	userID := auth.MustUserID(c)
	role := auth.MustRole(c)
	page := paginate.Page(c)

	q := access.ScopeCases(h.db, role, userID)

	if search := strings.TrimSpace(c.Query("search")); search != "" {
		like := "%" + search + "%"
		q = q.Where("title ILIKE ? OR case_number ILIKE ? OR description ILIKE ?", like, like, like)
	}
	if status := c.Query("status"); status != "" {
		q = q.Where("status = ?", status)
	}
	if caseType := c.Query("case_type"); caseType != "" {
		q = q.Where("case_type = ?", caseType)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return fiber.ErrInternalServerError
	}

	list := make([]models.Case, 0, paginate.PerPage)
	if err := paginate.Apply(q.Order("created_at DESC"), page).Find(&list).Error; err != nil {
		return fiber.ErrInternalServerError
	}

	return c.JSON(paginate.NewEnvelope(page, total, list))
}

// Create Case godoc
// @Summary      Create case
// @Description  Lawyer creates a case as counsel; admin may assign any lawyer
// @Tags         cases
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload  body  CreateCaseRequest  true  "Case payload"
// @Success      201  {object}  map[string]string  "id, case_number"
// @Failure      400  {object}  models.ValidationErrorResponse
// @Failure      403  {object}  models.ErrorResponse
// @Failure      409  {object}  models.ErrorResponse  "duplicate case number"
// @Router       /cases [post]
func (h *Handler) Create(c *fiber.Ctx) error {
	userID := auth.MustUserID(c)
	role := auth.MustRole(c)

	var in CreateCaseRequest
	if err := c.BodyParser(&in); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid json")
	}
	if errs, _ := validation.Validate(in); errs != nil {
		return validation.Respond(c, errs)
	}

	// Counsel assignment: lawyers always file as themselves, only admins pick.
	lawyerID := userID
	if role == models.RoleAdmin {
		if in.LawyerID == "" {
			return fiber.NewError(fiber.StatusBadRequest, "lawyer_id is required")
		}
		lawyerID = in.LawyerID
	}

	lawyerUUID, _ := uuid.Parse(lawyerID)
	clientUUID, _ := uuid.Parse(in.ClientID)

	var lawyer, client models.User
	if err := h.db.Where("id = ? AND role = ? AND is_active = true", lawyerUUID, models.RoleLawyer).
		First(&lawyer).Error; err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "lawyer not found")
	}
	if err := h.db.Where("id = ? AND role = ? AND is_active = true", clientUUID, models.RoleClient).
		First(&client).Error; err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "client not found")
	}

	var courtID *uuid.UUID
	if in.CourtID != "" {
		id, _ := uuid.Parse(in.CourtID)
		var court models.Court
		if err := h.db.Where("id = ? AND is_active = true", id).First(&court).Error; err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "court not found")
		}
		courtID = &id
	}

	caseNumber := strings.TrimSpace(in.CaseNumber)
	if caseNumber == "" {
		caseNumber = utils.GenerateCaseNumber()
	}

	filed, _ := time.Parse("2006-01-02", in.FiledDate)
	var nextHearing *time.Time
	if in.NextHearing != "" {
		t, _ := time.Parse("2006-01-02", in.NextHearing)
		nextHearing = &t
	}

	status := models.CaseActive
	if role == models.RoleAdmin && in.Status != "" {
		status = models.CaseStatus(in.Status)
	}
	priority := models.PriorityMedium
	if in.Priority != "" {
		priority = models.CasePriority(in.Priority)
	}

	actorUUID, _ := uuid.Parse(userID)
	cs := models.Case{
		CaseNumber:      caseNumber,
		Title:           strings.TrimSpace(in.Title),
		Description:     strings.TrimSpace(in.Description),
		CaseType:        in.CaseType,
		Status:          status,
		Priority:        priority,
		LawyerID:        lawyerUUID,
		ClientID:        clientUUID,
		CourtID:         courtID,
		FiledDate:       filed,
		NextHearingDate: nextHearing,
	}

	// Case plus its initial audit entry commit together.
	err := h.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&cs).Error; err != nil {
			return err
		}
		return tx.Create(&models.CaseUpdate{
			CaseID:      cs.ID,
			UpdateType:  "creation",
			Title:       "Case created",
			Description: "Case " + cs.CaseNumber + " was filed",
			CreatedBy:   actorUUID,
		}).Error
	})
	if err != nil {
		if isDuplicate(err) {
			return fiber.NewError(fiber.StatusConflict, "case number already exists")
		}
		return fiber.ErrInternalServerError
	}

	if role == models.RoleAdmin {
		utils.LogAdminActivity(c.Context(), h.db, actorUUID, "case added", "Case added: "+cs.Title)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"id":          cs.ID,
		"case_number": cs.CaseNumber,
	})
}

// Get Case godoc
// @Summary      Case detail
// @Description  Returns the case with updates, documents and appointments
// @Tags         cases
// @Security     BearerAuth
// @Produce      json
// @Param        id   path string true "case id (uuid)"
// @Success      200  {object}  models.Case
// @Failure      403  {object}  models.ErrorResponse
// @Failure      404  {object}  models.ErrorResponse
// @Router       /cases/{id} [get]
func (h *Handler) Get(c *fiber.Ctx) error {
	userID := auth.MustUserID(c)
	role := auth.MustRole(c)
	id := c.Params("id")
	if _, err := uuid.Parse(id); err != nil {
		return fiber.ErrNotFound
	}

	var cs models.Case
	err := h.db.
		Preload("Updates", func(db *gorm.DB) *gorm.DB { return db.Order("created_at DESC") }).
		Preload("Documents", func(db *gorm.DB) *gorm.DB { return db.Order("created_at DESC") }).
		Preload("Appointments", func(db *gorm.DB) *gorm.DB { return db.Order("start_datetime ASC") }).
		First(&cs, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.ErrNotFound
		}
		return fiber.ErrInternalServerError
	}

	// Guard before anything from the row leaves the handler.
	if !access.CanViewCase(role, userID, &cs) {
		return fiber.ErrForbidden
	}

	if cs.Updates == nil {
		cs.Updates = []models.CaseUpdate{}
	}
	if cs.Documents == nil {
		cs.Documents = []models.Document{}
	}
	if cs.Appointments == nil {
		cs.Appointments = []models.Appointment{}
	}

	return c.JSON(cs)
}

// Update Case godoc
// @Summary      Update case
// @Description  Counsel lawyer or admin updates case fields
// @Tags         cases
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id       path string             true "case id (uuid)"
// @Param        payload  body  UpdateCaseRequest true "fields to change"
// @Success      200  {object}  models.Case
// @Failure      403  {object}  models.ErrorResponse
// @Failure      404  {object}  models.ErrorResponse
// @Router       /cases/{id} [put]
func (h *Handler) Update(c *fiber.Ctx) error {
	userID := auth.MustUserID(c)
	role := auth.MustRole(c)
	id := c.Params("id")
	if _, err := uuid.Parse(id); err != nil {
		return fiber.ErrNotFound
	}

	var in UpdateCaseRequest
	if err := c.BodyParser(&in); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid json")
	}
	if errs, _ := validation.Validate(in); errs != nil {
		return validation.Respond(c, errs)
	}

	var cs models.Case
	if err := h.db.First(&cs, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.ErrNotFound
		}
		return fiber.ErrInternalServerError
	}
	if !access.CanEditCase(role, userID, &cs) {
		return fiber.ErrForbidden
	}

	oldStatus := cs.Status

	if in.Title != "" {
		cs.Title = strings.TrimSpace(in.Title)
	}
	if in.Description != "" {
		cs.Description = strings.TrimSpace(in.Description)
	}
	if in.Priority != "" {
		cs.Priority = models.CasePriority(in.Priority)
	}
	if in.CourtID != "" {
		courtUUID, _ := uuid.Parse(in.CourtID)
		var court models.Court
		if err := h.db.Where("id = ? AND is_active = true", courtUUID).First(&court).Error; err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "court not found")
		}
		cs.CourtID = &courtUUID
	}
	if in.NextHearing != "" {
		t, _ := time.Parse("2006-01-02", in.NextHearing)
		cs.NextHearingDate = &t
	}
	if in.LastHearing != "" {
		t, _ := time.Parse("2006-01-02", in.LastHearing)
		cs.LastHearingDate = &t
	}
	if in.Status != "" {
		cs.Status = models.CaseStatus(in.Status)
		if cs.Status == models.CaseClosed && cs.ClosedDate == nil {
			now := time.Now()
			cs.ClosedDate = &now
		}
	}

	actorUUID, _ := uuid.Parse(userID)
	err := h.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(&cs).Error; err != nil {
			return err
		}
		if cs.Status != oldStatus {
			return tx.Create(&models.CaseUpdate{
				CaseID:      cs.ID,
				UpdateType:  "status_change",
				Title:       "Status changed",
				Description: string(oldStatus) + " -> " + string(cs.Status),
				CreatedBy:   actorUUID,
			}).Error
		}
		return nil
	})
	if err != nil {
		return fiber.ErrInternalServerError
	}

	if role == models.RoleAdmin {
		utils.LogAdminActivity(c.Context(), h.db, actorUUID, "case updated", "Case updated: "+cs.Title)
	}

	return c.JSON(cs)
}

// Add Case Update godoc
// @Summary      Append audit entry
// @Description  Counsel lawyer or admin appends a case update
// @Tags         cases
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id       path string           true "case id (uuid)"
// @Param        payload  body  AddUpdateRequest true "update payload"
// @Success      201  {object}  models.CaseUpdate
// @Failure      403  {object}  models.ErrorResponse
// @Failure      404  {object}  models.ErrorResponse
// @Router       /cases/{id}/updates [post]
func (h *Handler) AddUpdate(c *fiber.Ctx) error {
	userID := auth.MustUserID(c)
	role := auth.MustRole(c)
	id := c.Params("id")
	if _, err := uuid.Parse(id); err != nil {
		return fiber.ErrNotFound
	}

	var in AddUpdateRequest
	if err := c.BodyParser(&in); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid json")
	}
	if errs, _ := validation.Validate(in); errs != nil {
		return validation.Respond(c, errs)
	}

	var cs models.Case
	if err := h.db.First(&cs, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.ErrNotFound
		}
		return fiber.ErrInternalServerError
	}
	if !access.CanEditCase(role, userID, &cs) {
		return fiber.ErrForbidden
	}

	actorUUID, _ := uuid.Parse(userID)
	upd := models.CaseUpdate{
		CaseID:      cs.ID,
		UpdateType:  in.UpdateType,
		Title:       strings.TrimSpace(in.Title),
		Description: strings.TrimSpace(in.Description),
		CreatedBy:   actorUUID,
	}
	if err := h.db.Create(&upd).Error; err != nil {
		return fiber.ErrInternalServerError
	}

	return c.Status(fiber.StatusCreated).JSON(upd)
}

// isDuplicate matches Postgres unique-violation errors surfaced by GORM.
func isDuplicate(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	return err != nil && strings.Contains(err.Error(), "duplicate key")
}
