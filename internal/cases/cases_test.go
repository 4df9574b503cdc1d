package cases

import (
	"encoding/json"
	"net/http/httptest"
	"os"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/alqadhi/legal-office-api/internal/auth"
	"github.com/alqadhi/legal-office-api/pkg/models"
)

/* ============================================================================
   Helpers
   ============================================================================ */

// openTestDB loads TEST_DATABASE_URL, opens a real Postgres connection,
// runs migrations, and registers a cleanup that truncates test tables after run.
func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	_ = godotenv.Load()

	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL is empty")
	}
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := db.AutoMigrate(
		&models.User{}, &models.Court{}, &models.Case{},
		&models.CaseUpdate{}, &models.Document{}, &models.Appointment{},
		&models.Notification{},
	); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	t.Cleanup(func() {
		sql := `
TRUNCATE TABLE
	notifications,
	appointments,
	documents,
	case_updates,
	cases,
	courts,
	users
RESTART IDENTITY CASCADE`
		if err := db.Exec(sql).Error; err != nil {
			t.Logf("truncate failed (ignored): %v", err)
		}
	})

	return db
}

// withTx wraps a function in a DB transaction and commits it at the end.
func withTx(t *testing.T, db *gorm.DB, fn func(tx *gorm.DB)) {
	t.Helper()
	tx := db.Begin()
	if tx.Error != nil {
		t.Fatalf("begin tx: %v", tx.Error)
	}
	defer func() {
		if r := recover(); r != nil {
			_ = tx.Rollback().Error
			panic(r)
		}
	}()
	fn(tx)
	if err := tx.Commit().Error; err != nil {
		t.Fatalf("commit tx: %v", err)
	}
}

// injectAuth fills the locals RequireAuth normally sets, so MustUserID and
// MustRole work without a real JWT.
func injectAuth(userID uuid.UUID, role models.Role) fiber.Handler {
	id := userID.String()
	return func(c *fiber.Ctx) error {
		c.Locals("userID", id)
		c.Locals("role", string(role))
		return c.Next()
	}
}

func newTestApp(h *Handler, userID uuid.UUID, role models.Role) *fiber.App {
	app := fiber.New(fiber.Config{ErrorHandler: auth.ErrorHandler})
	app.Use(injectAuth(userID, role))

	app.Get("/api/cases", h.List)
	app.Post("/api/cases", h.Create)
	app.Get("/api/cases/:id", h.Get)
	app.Put("/api/cases/:id", h.Update)
	app.Post("/api/cases/:id/updates", h.AddUpdate)

	return app
}

// seedUser inserts a user with the given role; the rest is filler.
func seedUser(t *testing.T, tx *gorm.DB, role models.Role) uuid.UUID {
	t.Helper()
	id := uuid.New()
	short := id.String()[:8]
	if err := tx.Create(&models.User{
		ID:           id,
		Username:     string(role) + "_" + short,
		Email:        short + "@test.local",
		PasswordHash: "x",
		FirstName:    "Test",
		LastName:     strings.ToUpper(string(role)),
		Role:         role,
		IsActive:     true,
	}).Error; err != nil {
		t.Fatal(err)
	}
	return id
}

// seedCase inserts one case for the given counsel/client pair.
func seedCase(t *testing.T, tx *gorm.DB, lawyerID, clientID uuid.UUID, createdAt time.Time) uuid.UUID {
	t.Helper()
	id := uuid.New()
	cs := models.Case{
		ID:         id,
		CaseNumber: "CASE-TEST-" + id.String()[:6],
		Title:      "Case " + id.String()[:6],
		CaseType:   "civil",
		Status:     models.CaseActive,
		Priority:   models.PriorityMedium,
		LawyerID:   lawyerID,
		ClientID:   clientID,
		FiledDate:  createdAt,
		CreatedAt:  createdAt,
	}
	if err := tx.Create(&cs).Error; err != nil {
		t.Fatal(err)
	}
	return id
}

/* ============================================================================
   Tests — scoped listing, pagination, detail guard
   ============================================================================ */

// A lawyer's listing contains only cases where they are counsel; a student
// always gets an empty page.
func Test_List_ScopedByRole(t *testing.T) {
	db := openTestDB(t)
	withTx(t, db, func(tx *gorm.DB) {
		lawyerA := seedUser(t, tx, models.RoleLawyer)
		lawyerB := seedUser(t, tx, models.RoleLawyer)
		client := seedUser(t, tx, models.RoleClient)
		student := seedUser(t, tx, models.RoleStudent)

		mine := seedCase(t, tx, lawyerA, client, time.Now())
		_ = seedCase(t, tx, lawyerB, client, time.Now())

		h := NewHandler(tx)

		// Lawyer A: exactly their one case
		app := newTestApp(h, lawyerA, models.RoleLawyer)
		resp, _ := app.Test(httptest.NewRequest("GET", "/api/cases", nil))
		if resp.StatusCode != 200 {
			t.Fatalf("lawyer list got %d", resp.StatusCode)
		}
		var out struct {
			Total int64 `json:"total"`
			Items []struct {
				ID string `json:"id"`
			} `json:"items"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&out)
		if out.Total != 1 || len(out.Items) != 1 || out.Items[0].ID != mine.String() {
			t.Fatalf("lawyer should see only own case, got %#v", out)
		}

		// Student: nothing, but still a 200 with an empty page
		appS := newTestApp(h, student, models.RoleStudent)
		respS, _ := appS.Test(httptest.NewRequest("GET", "/api/cases", nil))
		if respS.StatusCode != 200 {
			t.Fatalf("student list got %d", respS.StatusCode)
		}
		var outS struct {
			Total int64 `json:"total"`
			Items []any `json:"items"`
		}
		_ = json.NewDecoder(respS.Body).Decode(&outS)
		if outS.Total != 0 || len(outS.Items) != 0 {
			t.Fatalf("student should see nothing, got %#v", outS)
		}
	})
}

// 45 cases page out as 20/20/5; a page past the end is empty, not an error.
func Test_List_Pagination(t *testing.T) {
	db := openTestDB(t)
	withTx(t, db, func(tx *gorm.DB) {
		lawyer := seedUser(t, tx, models.RoleLawyer)
		client := seedUser(t, tx, models.RoleClient)

		now := time.Now()
		for i := 0; i < 45; i++ {
			seedCase(t, tx, lawyer, client, now.Add(-time.Duration(i)*time.Minute))
		}

		app := newTestApp(NewHandler(tx), client, models.RoleClient)

		wantItems := map[string]int{"1": 20, "2": 20, "3": 5, "4": 0}
		for page, want := range wantItems {
			resp, _ := app.Test(httptest.NewRequest("GET", "/api/cases?page="+page, nil))
			if resp.StatusCode != 200 {
				t.Fatalf("page %s got %d", page, resp.StatusCode)
			}
			var out struct {
				Total int64 `json:"total"`
				Pages int   `json:"pages"`
				Items []any `json:"items"`
			}
			_ = json.NewDecoder(resp.Body).Decode(&out)
			if out.Total != 45 || out.Pages != 3 {
				t.Fatalf("page %s: want total=45 pages=3, got total=%d pages=%d", page, out.Total, out.Pages)
			}
			if len(out.Items) != want {
				t.Fatalf("page %s: want %d items, got %d", page, want, len(out.Items))
			}
		}
	})
}

// An unrelated client gets 403 on detail, with no case data in the body.
func Test_Get_UnrelatedClient_Forbidden(t *testing.T) {
	db := openTestDB(t)
	withTx(t, db, func(tx *gorm.DB) {
		lawyer := seedUser(t, tx, models.RoleLawyer)
		client := seedUser(t, tx, models.RoleClient)
		outsider := seedUser(t, tx, models.RoleClient)

		caseID := seedCase(t, tx, lawyer, client, time.Now())

		app := newTestApp(NewHandler(tx), outsider, models.RoleClient)
		resp, _ := app.Test(httptest.NewRequest("GET", "/api/cases/"+caseID.String(), nil))
		if resp.StatusCode != 403 {
			t.Fatalf("want 403, got %d", resp.StatusCode)
		}

		body := make([]byte, 512)
		n, _ := resp.Body.Read(body)
		if strings.Contains(string(body[:n]), caseID.String()) {
			t.Fatalf("403 body should not leak case data: %s", body[:n])
		}
	})
}

/* ============================================================================
   Tests — creation and lifecycle
   ============================================================================ */

var caseNumberPattern = regexp.MustCompile(`^CASE-\d{8}-[0-9A-F]{6}$`)

// A lawyer creating a case becomes counsel, gets a generated case number,
// and the case starts its audit trail with a creation entry.
func Test_Create_ByLawyer_GeneratesNumberAndCreationUpdate(t *testing.T) {
	db := openTestDB(t)
	withTx(t, db, func(tx *gorm.DB) {
		lawyer := seedUser(t, tx, models.RoleLawyer)
		client := seedUser(t, tx, models.RoleClient)

		app := newTestApp(NewHandler(tx), lawyer, models.RoleLawyer)

		payload := `{
			"title": "Contract dispute",
			"case_type": "civil",
			"client_id": "` + client.String() + `",
			"filed_date": "2026-08-01"
		}`
		req := httptest.NewRequest("POST", "/api/cases", strings.NewReader(payload))
		req.Header.Set("Content-Type", "application/json")
		resp, _ := app.Test(req)
		if resp.StatusCode != 201 {
			t.Fatalf("want 201, got %d", resp.StatusCode)
		}

		var out struct {
			ID         string `json:"id"`
			CaseNumber string `json:"case_number"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&out)
		if !caseNumberPattern.MatchString(out.CaseNumber) {
			t.Fatalf("bad generated case number %q", out.CaseNumber)
		}

		var cs models.Case
		if err := tx.First(&cs, "id = ?", out.ID).Error; err != nil {
			t.Fatalf("created case not found: %v", err)
		}
		if cs.LawyerID != lawyer {
			t.Fatalf("lawyer should be counsel on own filing")
		}

		var updates []models.CaseUpdate
		if err := tx.Where("case_id = ?", out.ID).Find(&updates).Error; err != nil {
			t.Fatal(err)
		}
		if len(updates) != 1 || updates[0].UpdateType != "creation" {
			t.Fatalf("want one creation update, got %#v", updates)
		}
	})
}

// Duplicate case numbers conflict instead of silently overwriting.
func Test_Create_DuplicateCaseNumber_Conflict(t *testing.T) {
	db := openTestDB(t)
	withTx(t, db, func(tx *gorm.DB) {
		lawyer := seedUser(t, tx, models.RoleLawyer)
		client := seedUser(t, tx, models.RoleClient)

		app := newTestApp(NewHandler(tx), lawyer, models.RoleLawyer)

		payload := `{
			"case_number": "CASE-20260801-ABCDEF",
			"title": "First",
			"case_type": "civil",
			"client_id": "` + client.String() + `",
			"filed_date": "2026-08-01"
		}`
		req1 := httptest.NewRequest("POST", "/api/cases", strings.NewReader(payload))
		req1.Header.Set("Content-Type", "application/json")
		resp1, _ := app.Test(req1)
		if resp1.StatusCode != 201 {
			t.Fatalf("first create want 201, got %d", resp1.StatusCode)
		}

		req2 := httptest.NewRequest("POST", "/api/cases", strings.NewReader(payload))
		req2.Header.Set("Content-Type", "application/json")
		resp2, _ := app.Test(req2)
		if resp2.StatusCode != 409 {
			t.Fatalf("second create want 409, got %d", resp2.StatusCode)
		}
	})
}

// Closing a case stamps the closed date and appends a status_change entry.
func Test_Update_CloseCase(t *testing.T) {
	db := openTestDB(t)
	withTx(t, db, func(tx *gorm.DB) {
		lawyer := seedUser(t, tx, models.RoleLawyer)
		client := seedUser(t, tx, models.RoleClient)
		caseID := seedCase(t, tx, lawyer, client, time.Now())

		app := newTestApp(NewHandler(tx), lawyer, models.RoleLawyer)

		req := httptest.NewRequest("PUT", "/api/cases/"+caseID.String(),
			strings.NewReader(`{"status": "closed"}`))
		req.Header.Set("Content-Type", "application/json")
		resp, _ := app.Test(req)
		if resp.StatusCode != 200 {
			t.Fatalf("want 200, got %d", resp.StatusCode)
		}

		var cs models.Case
		if err := tx.First(&cs, "id = ?", caseID).Error; err != nil {
			t.Fatal(err)
		}
		if cs.Status != models.CaseClosed || cs.ClosedDate == nil {
			t.Fatalf("case should be closed with a closed date, got %#v", cs)
		}

		var count int64
		if err := tx.Model(&models.CaseUpdate{}).
			Where("case_id = ? AND update_type = ?", caseID, "status_change").
			Count(&count).Error; err != nil {
			t.Fatal(err)
		}
		if count != 1 {
			t.Fatalf("want one status_change update, got %d", count)
		}
	})
}

// A client, even on their own case, cannot mutate it.
func Test_Update_ClientReadOnly(t *testing.T) {
	db := openTestDB(t)
	withTx(t, db, func(tx *gorm.DB) {
		lawyer := seedUser(t, tx, models.RoleLawyer)
		client := seedUser(t, tx, models.RoleClient)
		caseID := seedCase(t, tx, lawyer, client, time.Now())

		app := newTestApp(NewHandler(tx), client, models.RoleClient)

		req := httptest.NewRequest("PUT", "/api/cases/"+caseID.String(),
			strings.NewReader(`{"title": "hijacked"}`))
		req.Header.Set("Content-Type", "application/json")
		resp, _ := app.Test(req)
		if resp.StatusCode != 403 {
			t.Fatalf("want 403, got %d", resp.StatusCode)
		}
	})
}

// A path id that is not a UUID never reaches the database and reads as a
// missing resource, not a server error.
func Test_Get_MalformedID_NotFound(t *testing.T) {
	app := newTestApp(NewHandler(nil), uuid.New(), models.RoleAdmin)

	for _, method := range []string{"GET", "PUT"} {
		req := httptest.NewRequest(method, "/api/cases/not-a-uuid", nil)
		resp, err := app.Test(req)
		if err != nil {
			t.Fatal(err)
		}
		if resp.StatusCode != 404 {
			t.Fatalf("%s: want 404, got %d", method, resp.StatusCode)
		}
	}

	var body map[string]any
	req := httptest.NewRequest("POST", "/api/cases/12345/updates", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != 404 {
		t.Fatalf("updates: want 404, got %d", resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatal(err)
	}
	if _, ok := body["error"]; !ok {
		t.Fatalf("want error envelope, got %v", body)
	}
}
