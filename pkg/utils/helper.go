package utils

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/alqadhi/legal-office-api/pkg/models"
)

// GenerateCaseNumber builds a case number of the form
// CASE-YYYYMMDD-XXXXXX where the suffix is 6 uppercase hex characters.
// Uniqueness is not checked here; a collision surfaces as a duplicate-key
// conflict against the unique index on cases.case_number.
func GenerateCaseNumber() string {
	ts := time.Now().Format("20060102")
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:6])
	return "CASE-" + ts + "-" + suffix
}

// LogCaseUpdate inserts an audit record into case_updates.
// Errors are ignored on purpose (best-effort logging).
func LogCaseUpdate(
	ctx context.Context,
	db *gorm.DB,
	caseID, actorID uuid.UUID,
	updateType, title, description string,
) {
	_ = db.WithContext(ctx).Create(&models.CaseUpdate{
		CaseID:      caseID,
		UpdateType:  updateType,
		Title:       title,
		Description: description,
		CreatedBy:   actorID,
	}).Error
}

// LogAdminActivity appends an admin_activity notification addressed to the
// acting admin. Best-effort, like LogCaseUpdate.
func LogAdminActivity(ctx context.Context, db *gorm.DB, adminID uuid.UUID, action, description string) {
	_ = db.WithContext(ctx).Create(&models.Notification{
		UserID:           adminID,
		Title:            "Admin action: " + action,
		Message:          description,
		NotificationType: models.NotificationAdminActivity,
	}).Error
}
