package appointments

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
	"github.com/alqadhi/legal-office-api/pkg/validation"
)

// ===== DTOs =====

type CreateAppointmentRequest struct {
	Title           string `json:"title" validate:"required,max=200"`
	Description     string `json:"description" validate:"max=2000"`
	AppointmentType string `json:"appointment_type" validate:"required,oneof=hearing meeting deadline consultation court_visit"`
	StartDatetime   string `json:"start_datetime" validate:"required"`
	EndDatetime     string `json:"end_datetime" validate:"omitempty"`
	IsAllDay        bool   `json:"is_all_day"`
	CaseID          string `json:"case_id" validate:"omitempty,uuid4"`
	Location        string `json:"location" validate:"max=200"`
	ReminderMinutes int    `json:"reminder_minutes" validate:"omitempty,oneof=15 30 60 120 1440 2880"`
}

type UpdateAppointmentRequest struct {
	Title         string `json:"title" validate:"omitempty,max=200"`
	Description   string `json:"description" validate:"omitempty,max=2000"`
	StartDatetime string `json:"start_datetime" validate:"omitempty"`
	EndDatetime   string `json:"end_datetime" validate:"omitempty"`
	Status        string `json:"status" validate:"omitempty,oneof=scheduled completed cancelled"`
	Location      string `json:"location" validate:"omitempty,max=200"`
}

// CalendarEvent is the shape consumed by calendar frontends.
type CalendarEvent struct {
	ID     uuid.UUID  `json:"id"`
	Title  string     `json:"title"`
	Start  time.Time  `json:"start"`
	End    *time.Time `json:"end"`
	AllDay bool       `json:"allDay"`
	Type   string     `json:"type"`
	CaseID *uuid.UUID `json:"case_id"`
}

type Handler struct {
	db *gorm.DB
}

func NewHandler(db *gorm.DB) *Handler { return &Handler{db: db} }

// parseDatetime accepts RFC 3339 and the bare HTML datetime-local format.
func parseDatetime(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02T15:04", s)
}

// List godoc
// @Summary      List appointments (scoped)
// @Description  Lawyer sees own, client sees via their cases, admin all with filters
// @Tags         appointments
// @Security     BearerAuth
// @Produce      json
// @Param        page   query int    false "page"
// @Param        search query string false "matches title, description, location"
// @Param        status query string false "scheduled|completed|cancelled"
// @Param        type   query string false "appointment type"
// @Success      200  {object}  paginate.Envelope
// @Router       /appointments [get]
func (h *Handler) List(c *fiber.Ctx) error {
	userID := auth.MustUserID(c)
	role := auth.MustRole(c)
	page := paginate.Page(c)

	q := access.ScopeAppointments(h.db, role, userID)

	if search := strings.TrimSpace(c.Query("search")); search != "" {
		like := "%" + search + "%"
		q = q.Where("appointments.title ILIKE ? OR appointments.description ILIKE ? OR appointments.location ILIKE ?",
			like, like, like)
	}
	if status := c.Query("status"); status != "" {
		q = q.Where("appointments.status = ?", status)
	}
	if apptType := c.Query("type"); apptType != "" {
		q = q.Where("appointments.appointment_type = ?", apptType)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return fiber.ErrInternalServerError
	}

	list := make([]models.Appointment, 0, paginate.PerPage)
	if err := paginate.Apply(q.Order("appointments.start_datetime DESC"), page).Find(&list).Error; err != nil {
		return fiber.ErrInternalServerError
	}

	return c.JSON(paginate.NewEnvelope(page, total, list))
}

// Calendar godoc
// @Summary      Calendar events (scoped)
// @Tags         appointments
// @Security     BearerAuth
// @Produce      json
// @Success      200  {array}  CalendarEvent
// @Router       /calendar [get]
func (h *Handler) Calendar(c *fiber.Ctx) error {
	userID := auth.MustUserID(c)
	role := auth.MustRole(c)

	list := make([]models.Appointment, 0)
	if err := access.ScopeAppointments(h.db, role, userID).
		Order("appointments.start_datetime ASC").
		Find(&list).Error; err != nil {
		return fiber.ErrInternalServerError
	}

	events := make([]CalendarEvent, 0, len(list))
	for _, a := range list {
		events = append(events, CalendarEvent{
			ID:     a.ID,
			Title:  a.Title,
			Start:  a.StartDatetime,
			End:    a.EndDatetime,
			AllDay: a.IsAllDay,
			Type:   a.AppointmentType,
			CaseID: a.CaseID,
		})
	}
	return c.JSON(events)
}

// Create godoc
// @Summary      Create appointment
// @Description  A case link, when given, must be a case the requester can view
// @Tags         appointments
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload  body  CreateAppointmentRequest  true  "Appointment payload"
// @Success      201  {object}  models.Appointment
// @Failure      400  {object}  models.ValidationErrorResponse
// @Failure      403  {object}  models.ErrorResponse
// @Router       /appointments [post]
func (h *Handler) Create(c *fiber.Ctx) error {
	userID := auth.MustUserID(c)
	role := auth.MustRole(c)

	var in CreateAppointmentRequest
	if err := c.BodyParser(&in); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid json")
	}
	if errs, _ := validation.Validate(in); errs != nil {
		return validation.Respond(c, errs)
	}

	start, err := parseDatetime(in.StartDatetime)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid start_datetime")
	}
	var end *time.Time
	if in.EndDatetime != "" {
		t, err := parseDatetime(in.EndDatetime)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid end_datetime")
		}
		if t.Before(start) {
			return fiber.NewError(fiber.StatusBadRequest, "end_datetime before start_datetime")
		}
		end = &t
	}

	var caseID *uuid.UUID
	if in.CaseID != "" {
		var cs models.Case
		if err := h.db.First(&cs, "id = ?", in.CaseID).Error; err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "case not found")
		}
		if !access.CanViewCase(role, userID, &cs) {
			return fiber.ErrForbidden
		}
		caseID = &cs.ID
	}

	reminder := in.ReminderMinutes
	if reminder == 0 {
		reminder = 60
	}

	userUUID, _ := uuid.Parse(userID)
	appt := models.Appointment{
		Title:           strings.TrimSpace(in.Title),
		Description:     strings.TrimSpace(in.Description),
		AppointmentType: in.AppointmentType,
		StartDatetime:   start,
		EndDatetime:     end,
		IsAllDay:        in.IsAllDay,
		UserID:          userUUID,
		CaseID:          caseID,
		ReminderMinutes: reminder,
		Status:          models.AppointmentScheduled,
		Location:        strings.TrimSpace(in.Location),
	}
	if err := h.db.Create(&appt).Error; err != nil {
		return fiber.ErrInternalServerError
	}

	return c.Status(fiber.StatusCreated).JSON(appt)
}

// Update godoc
// @Summary      Update appointment
// @Description  Owner or admin reschedules or changes status
// @Tags         appointments
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id       path string                   true "appointment id (uuid)"
// @Param        payload  body  UpdateAppointmentRequest true "fields to change"
// @Success      200  {object}  models.Appointment
// @Failure      403  {object}  models.ErrorResponse
// @Failure      404  {object}  models.ErrorResponse
// @Router       /appointments/{id} [put]
func (h *Handler) Update(c *fiber.Ctx) error {
	userID := auth.MustUserID(c)
	role := auth.MustRole(c)

	id := c.Params("id")
	if _, err := uuid.Parse(id); err != nil {
		return fiber.ErrNotFound
	}

	var in UpdateAppointmentRequest
	if err := c.BodyParser(&in); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid json")
	}
	if errs, _ := validation.Validate(in); errs != nil {
		return validation.Respond(c, errs)
	}

	var appt models.Appointment
	if err := h.db.First(&appt, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.ErrNotFound
		}
		return fiber.ErrInternalServerError
	}

	if role != models.RoleAdmin && appt.UserID.String() != userID {
		return fiber.ErrForbidden
	}

	if in.Title != "" {
		appt.Title = strings.TrimSpace(in.Title)
	}
	if in.Description != "" {
		appt.Description = strings.TrimSpace(in.Description)
	}
	if in.StartDatetime != "" {
		t, err := parseDatetime(in.StartDatetime)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid start_datetime")
		}
		appt.StartDatetime = t
	}
	if in.EndDatetime != "" {
		t, err := parseDatetime(in.EndDatetime)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid end_datetime")
		}
		appt.EndDatetime = &t
	}
	if in.Status != "" {
		appt.Status = models.AppointmentStatus(in.Status)
	}
	if in.Location != "" {
		appt.Location = strings.TrimSpace(in.Location)
	}

	if err := h.db.Save(&appt).Error; err != nil {
		return fiber.ErrInternalServerError
	}
	return c.JSON(appt)
}
