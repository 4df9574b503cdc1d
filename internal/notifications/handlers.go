package notifications

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/alqadhi/legal-office-api/internal/auth"
	"github.com/alqadhi/legal-office-api/pkg/models"
	"github.com/alqadhi/legal-office-api/pkg/paginate"
)

type Handler struct {
	db *gorm.DB
}

func NewHandler(db *gorm.DB) *Handler { return &Handler{db: db} }

// ListResponse wraps the page with the unread counter shown in the navbar.
type ListResponse struct {
	paginate.Envelope
	UnreadCount int64 `json:"unread_count"`
}

// List godoc
// @Summary      List own notifications
// @Tags         notifications
// @Security     BearerAuth
// @Produce      json
// @Param        page query int false "page"
// @Success      200  {object}  ListResponse
// @Router       /notifications [get]
func (h *Handler) List(c *fiber.Ctx) error {
	userID := auth.MustUserID(c)
	page := paginate.Page(c)

	q := h.db.Model(&models.Notification{}).Where("user_id = ?", userID)

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return fiber.ErrInternalServerError
	}

	list := make([]models.Notification, 0, paginate.PerPage)
	if err := paginate.Apply(q.Order("created_at DESC"), page).Find(&list).Error; err != nil {
		return fiber.ErrInternalServerError
	}

	var unread int64
	if err := h.db.Model(&models.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Count(&unread).Error; err != nil {
		return fiber.ErrInternalServerError
	}

	return c.JSON(ListResponse{
		Envelope:    paginate.NewEnvelope(page, total, list),
		UnreadCount: unread,
	})
}

// MarkRead godoc
// @Summary      Mark a notification as read
// @Description  Only the recipient may mark their own notification
// @Tags         notifications
// @Security     BearerAuth
// @Produce      json
// @Param        id path string true "notification id (uuid)"
// @Success      200  {object}  models.Notification
// @Failure      404  {object}  models.ErrorResponse
// @Router       /notifications/{id}/read [put]
func (h *Handler) MarkRead(c *fiber.Ctx) error {
	userID := auth.MustUserID(c)

	id := c.Params("id")
	if _, err := uuid.Parse(id); err != nil {
		return fiber.ErrNotFound
	}

	var n models.Notification
	if err := h.db.First(&n, "id = ? AND user_id = ?", id, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.ErrNotFound
		}
		return fiber.ErrInternalServerError
	}

	if !n.IsRead {
		n.IsRead = true
		if err := h.db.Save(&n).Error; err != nil {
			return fiber.ErrInternalServerError
		}
	}
	return c.JSON(n)
}

// MarkAllRead godoc
// @Summary      Mark all own notifications as read
// @Tags         notifications
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Router       /notifications/read-all [put]
func (h *Handler) MarkAllRead(c *fiber.Ctx) error {
	userID := auth.MustUserID(c)

	res := h.db.Model(&models.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Update("is_read", true)
	if res.Error != nil {
		return fiber.ErrInternalServerError
	}
	return c.JSON(fiber.Map{"updated": res.RowsAffected})
}
