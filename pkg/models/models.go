package models

import (
	"time"

	"github.com/google/uuid"
)

/* =============================== Enums ================================== */

// Role defines the type of user in the system.
type Role string

const (
	RoleAdmin   Role = "admin"
	RoleJudge   Role = "judge"
	RoleLawyer  Role = "lawyer"
	RoleClient  Role = "client"
	RoleStudent Role = "student"
)

// CaseStatus defines lifecycle states for a case.
type CaseStatus string

const (
	CaseActive  CaseStatus = "active"
	CasePending CaseStatus = "pending"
	CaseClosed  CaseStatus = "closed"
)

// CasePriority ranks how urgent a case is.
type CasePriority string

const (
	PriorityHigh   CasePriority = "high"
	PriorityMedium CasePriority = "medium"
	PriorityLow    CasePriority = "low"
)

// AppointmentStatus defines lifecycle states for an appointment.
type AppointmentStatus string

const (
	AppointmentScheduled AppointmentStatus = "scheduled"
	AppointmentCompleted AppointmentStatus = "completed"
	AppointmentCancelled AppointmentStatus = "cancelled"
)

// NotificationAdminActivity marks notifications that double as the admin
// audit trail.
const NotificationAdminActivity = "admin_activity"

/* =============================== Entities =============================== */

// User is any account in the system; the role decides what it may touch.
type User struct {
	ID           uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Username     string    `gorm:"uniqueIndex;not null" json:"username"`
	Email        string    `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash string    `gorm:"not null" json:"-"`
	FirstName    string    `gorm:"not null" json:"first_name"`
	LastName     string    `gorm:"not null" json:"last_name"`
	Phone        string    `json:"phone"`
	Role         Role      `gorm:"type:varchar(20);not null;default:'client'" json:"role"`
	IsActive     bool      `gorm:"default:true" json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
}

// FullName joins first and last name for display and audit messages.
func (u *User) FullName() string { return u.FirstName + " " + u.LastName }

// Court is a static directory entry. Referenced optionally by cases and
// soft-deleted via the active flag.
type Court struct {
	ID           uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Name         string    `gorm:"not null" json:"name"`
	NameEn       string    `json:"name_en"`
	CourtType    string    `gorm:"type:varchar(50);not null" json:"court_type"`
	Governorate  string    `gorm:"type:varchar(50);not null;index" json:"governorate"`
	City         string    `gorm:"type:varchar(50);not null" json:"city"`
	Address      string    `gorm:"type:text" json:"address"`
	Phone        string    `json:"phone"`
	Email        string    `json:"email"`
	WorkingHours string    `gorm:"type:text" json:"working_hours"`
	Latitude     *float64  `json:"latitude"`
	Longitude    *float64  `json:"longitude"`
	IsActive     bool      `gorm:"default:true" json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
}

// LawyerProfile extends a lawyer-role user one-to-one.
type LawyerProfile struct {
	ID              uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserID          uuid.UUID `gorm:"type:uuid;not null;uniqueIndex" json:"user_id"`
	LicenseNumber   string    `gorm:"type:varchar(50);uniqueIndex;not null" json:"license_number"`
	Specialization  string    `gorm:"type:varchar(100);not null" json:"specialization"`
	ExperienceYears int       `json:"experience_years"`
	LawFirm         string    `json:"law_firm"`
	OfficeAddress   string    `gorm:"type:text" json:"office_address"`
	ConsultationFee float64   `json:"consultation_fee"`
	Bio             string    `gorm:"type:text" json:"bio"`
	Rating          float64   `gorm:"default:0" json:"rating"`
	TotalReviews    int       `gorm:"default:0" json:"total_reviews"`
	IsVerified      bool      `gorm:"default:false" json:"is_verified"`
	CreatedAt       time.Time `json:"created_at"`

	User User `gorm:"foreignKey:UserID;references:ID" json:"user,omitempty"`
}

// Case links exactly one lawyer and one client, with an optional court.
type Case struct {
	ID          uuid.UUID    `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	CaseNumber  string       `gorm:"type:varchar(50);uniqueIndex;not null" json:"case_number"`
	Title       string       `gorm:"not null" json:"title"`
	Description string       `gorm:"type:text" json:"description"`
	CaseType    string       `gorm:"type:varchar(50);not null" json:"case_type"`
	Status      CaseStatus   `gorm:"type:varchar(30);not null;default:'active'" json:"status"`
	Priority    CasePriority `gorm:"type:varchar(20);default:'medium'" json:"priority"`

	LawyerID uuid.UUID  `gorm:"type:uuid;not null;index" json:"lawyer_id"`
	ClientID uuid.UUID  `gorm:"type:uuid;not null;index" json:"client_id"`
	CourtID  *uuid.UUID `gorm:"type:uuid" json:"court_id"`

	FiledDate       time.Time  `gorm:"not null" json:"filed_date"`
	LastHearingDate *time.Time `json:"last_hearing_date"`
	NextHearingDate *time.Time `json:"next_hearing_date"`
	ClosedDate      *time.Time `json:"closed_date"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Relations
	Documents    []Document    `json:"documents,omitempty"`
	Appointments []Appointment `json:"appointments,omitempty"`
	Updates      []CaseUpdate  `gorm:"foreignKey:CaseID" json:"updates,omitempty"`
}

// Document is uploaded file metadata, optionally tied to a case.
type Document struct {
	ID           uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Title        string    `gorm:"not null" json:"title"`
	Description  string    `gorm:"type:text" json:"description"`
	FileName     string    `gorm:"not null" json:"file_name"`
	FilePath     string    `gorm:"not null" json:"file_path"`
	FileSize     int64     `json:"file_size"`
	MimeType     string    `gorm:"type:varchar(100)" json:"mime_type"`
	DocumentType string    `gorm:"type:varchar(50);not null" json:"document_type"`

	CaseID     *uuid.UUID `gorm:"type:uuid;index" json:"case_id"`
	UploadedBy uuid.UUID  `gorm:"type:uuid;not null;index" json:"uploaded_by"`

	IsTemplate       bool   `gorm:"default:false" json:"is_template"`
	TemplateCategory string `gorm:"type:varchar(50)" json:"template_category"`

	CreatedAt time.Time `json:"created_at"`
}

// DocumentTemplate holds reusable content with {{placeholder}} fields.
// Fields is the JSON-encoded extraction result, refreshed on every edit.
type DocumentTemplate struct {
	ID          uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Name        string    `gorm:"not null" json:"name"`
	Category    string    `gorm:"type:varchar(50);not null;index" json:"category"`
	Description string    `gorm:"type:text" json:"description"`
	Content     string    `gorm:"type:text;not null" json:"content"`
	Fields      string    `gorm:"type:text" json:"fields"`
	IsActive    bool      `gorm:"default:true" json:"is_active"`
	CreatedBy   uuid.UUID `gorm:"type:uuid;not null" json:"created_by"`
	CreatedAt   time.Time `json:"created_at"`
}

// Appointment is a scheduled event, optionally linked to a case.
// Reminder flags are only marked, never actively pushed.
type Appointment struct {
	ID              uuid.UUID         `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Title           string            `gorm:"not null" json:"title"`
	Description     string            `gorm:"type:text" json:"description"`
	AppointmentType string            `gorm:"type:varchar(50);not null" json:"appointment_type"`
	StartDatetime   time.Time         `gorm:"not null;index" json:"start_datetime"`
	EndDatetime     *time.Time        `json:"end_datetime"`
	IsAllDay        bool              `gorm:"default:false" json:"is_all_day"`
	UserID          uuid.UUID         `gorm:"type:uuid;not null;index" json:"user_id"`
	CaseID          *uuid.UUID        `gorm:"type:uuid;index" json:"case_id"`
	ReminderMinutes int               `gorm:"default:60" json:"reminder_minutes"`
	ReminderSent    bool              `gorm:"default:false" json:"reminder_sent"`
	Status          AppointmentStatus `gorm:"type:varchar(20);default:'scheduled'" json:"status"`
	Location        string            `json:"location"`
	CreatedAt       time.Time         `json:"created_at"`
}

// CaseUpdate is an append-only audit entry on a case.
type CaseUpdate struct {
	ID          uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	CaseID      uuid.UUID `gorm:"type:uuid;not null;index" json:"case_id"`
	UpdateType  string    `gorm:"type:varchar(50);not null" json:"update_type"`
	Title       string    `gorm:"not null" json:"title"`
	Description string    `gorm:"type:text" json:"description"`
	CreatedBy   uuid.UUID `gorm:"type:uuid;not null" json:"created_by"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
}

// Notification is a per-user message. Type "admin_activity" entries form the
// admin audit trail.
type Notification struct {
	ID               uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserID           uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	Title            string    `gorm:"not null" json:"title"`
	Message          string    `gorm:"type:text;not null" json:"message"`
	NotificationType string    `gorm:"type:varchar(50);not null" json:"notification_type"`
	IsRead           bool      `gorm:"default:false" json:"is_read"`
	CreatedAt        time.Time `json:"created_at"`
}
