// Package access centralises the per-role visibility and mutation rules.
//
// Every function takes the requester's role and ID explicitly; nothing here
// reads ambient request state. Handlers compose these scoped queries and
// guard predicates instead of concatenating ownership WHERE clauses inline.
package access

import (
	"gorm.io/gorm"

	"github.com/alqadhi/legal-office-api/pkg/models"
)

// ScopeCases narrows a case query to what the requester may see:
// admin sees everything, a lawyer the cases where they are counsel, a client
// their own cases, and judges/students nothing.
func ScopeCases(db *gorm.DB, role models.Role, userID string) *gorm.DB {
	q := db.Model(&models.Case{})
	switch role {
	case models.RoleAdmin:
		return q
	case models.RoleLawyer:
		return q.Where("lawyer_id = ?", userID)
	case models.RoleClient:
		return q.Where("client_id = ?", userID)
	default:
		return q.Where("1 = 0")
	}
}

// CasesForLawyer returns the explicit counsel-scoped query.
func CasesForLawyer(db *gorm.DB, lawyerID string) *gorm.DB {
	return db.Model(&models.Case{}).Where("lawyer_id = ?", lawyerID)
}

// CasesForClient returns the explicit client-scoped query.
func CasesForClient(db *gorm.DB, clientID string) *gorm.DB {
	return db.Model(&models.Case{}).Where("client_id = ?", clientID)
}

// CanViewCase reports whether the requester may read the case.
func CanViewCase(role models.Role, userID string, cs *models.Case) bool {
	switch role {
	case models.RoleAdmin:
		return true
	case models.RoleLawyer:
		return cs.LawyerID.String() == userID
	case models.RoleClient:
		return cs.ClientID.String() == userID
	default:
		return false
	}
}

// CanEditCase reports whether the requester may mutate the case. Clients are
// read-only on their own cases.
func CanEditCase(role models.Role, userID string, cs *models.Case) bool {
	switch role {
	case models.RoleAdmin:
		return true
	case models.RoleLawyer:
		return cs.LawyerID.String() == userID
	default:
		return false
	}
}

// ScopeAppointments narrows appointments: a lawyer sees appointments they
// own, a client the ones reachable through their cases.
func ScopeAppointments(db *gorm.DB, role models.Role, userID string) *gorm.DB {
	q := db.Model(&models.Appointment{})
	switch role {
	case models.RoleAdmin:
		return q
	case models.RoleLawyer:
		return q.Where("appointments.user_id = ?", userID)
	case models.RoleClient:
		return q.Select("appointments.*").
			Joins("JOIN cases ON cases.id = appointments.case_id").
			Where("cases.client_id = ?", userID)
	default:
		return q.Where("1 = 0")
	}
}

// ScopeDocuments narrows documents through their case link.
func ScopeDocuments(db *gorm.DB, role models.Role, userID string) *gorm.DB {
	q := db.Model(&models.Document{})
	switch role {
	case models.RoleAdmin:
		return q
	case models.RoleLawyer:
		return q.Select("documents.*").
			Joins("JOIN cases ON cases.id = documents.case_id").
			Where("cases.lawyer_id = ?", userID)
	case models.RoleClient:
		return q.Select("documents.*").
			Joins("JOIN cases ON cases.id = documents.case_id").
			Where("cases.client_id = ?", userID)
	default:
		return q.Where("1 = 0")
	}
}
