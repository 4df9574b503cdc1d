package access

import (
	"testing"

	"github.com/google/uuid"

	"github.com/alqadhi/legal-office-api/pkg/models"
)

// Visibility truth table: admin always, lawyer/client only on their own
// cases, judge and student never.
func Test_CanViewCase(t *testing.T) {
	lawyerID := uuid.New()
	clientID := uuid.New()
	cs := &models.Case{LawyerID: lawyerID, ClientID: clientID}

	other := uuid.NewString()

	cases := []struct {
		name   string
		role   models.Role
		userID string
		want   bool
	}{
		{"admin sees any case", models.RoleAdmin, other, true},
		{"counsel lawyer sees own case", models.RoleLawyer, lawyerID.String(), true},
		{"other lawyer denied", models.RoleLawyer, other, false},
		{"case client sees own case", models.RoleClient, clientID.String(), true},
		{"other client denied", models.RoleClient, other, false},
		{"judge denied", models.RoleJudge, lawyerID.String(), false},
		{"student denied", models.RoleStudent, clientID.String(), false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := CanViewCase(tc.role, tc.userID, cs); got != tc.want {
				t.Fatalf("CanViewCase(%s, %s) = %v, want %v", tc.role, tc.userID, got, tc.want)
			}
		})
	}
}

// Editing is stricter than viewing: clients are read-only on their own cases.
func Test_CanEditCase(t *testing.T) {
	lawyerID := uuid.New()
	clientID := uuid.New()
	cs := &models.Case{LawyerID: lawyerID, ClientID: clientID}

	if !CanEditCase(models.RoleAdmin, uuid.NewString(), cs) {
		t.Fatal("admin should edit any case")
	}
	if !CanEditCase(models.RoleLawyer, lawyerID.String(), cs) {
		t.Fatal("counsel lawyer should edit own case")
	}
	if CanEditCase(models.RoleLawyer, uuid.NewString(), cs) {
		t.Fatal("other lawyer should not edit")
	}
	if CanEditCase(models.RoleClient, clientID.String(), cs) {
		t.Fatal("client should be read-only on own case")
	}
	if CanEditCase(models.RoleJudge, lawyerID.String(), cs) {
		t.Fatal("judge should not edit")
	}
}
