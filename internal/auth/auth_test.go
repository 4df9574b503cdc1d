package auth

import (
	"encoding/json"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/alqadhi/legal-office-api/pkg/models"
)

const testSecret = "test-secret"

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
	if err := db.AutoMigrate(&models.User{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	t.Cleanup(func() {
		if err := db.Exec(`TRUNCATE TABLE users RESTART IDENTITY CASCADE`).Error; err != nil {
			t.Logf("truncate failed (ignored): %v", err)
		}
	})
	return db
}

func newAuthApp(db *gorm.DB) *fiber.App {
	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler})
	h := NewHandler(db, testSecret)
	app.Post("/api/signup", h.Signup)
	app.Post("/api/login", h.Login)
	app.Get("/api/me", RequireAuth(testSecret), h.Me)
	return app
}

func postJSON(app *fiber.App, path, body string) (int, map[string]any) {
	req := httptest.NewRequest("POST", path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, _ := app.Test(req)
	var out map[string]any
	_ = json.NewDecoder(resp.Body).Decode(&out)
	return resp.StatusCode, out
}

func signupBody(username, role string) string {
	return `{
		"username": "` + username + `",
		"email": "` + username + `@test.local",
		"first_name": "T",
		"last_name": "U",
		"role": "` + role + `",
		"password": "secret123",
		"password_confirm": "secret123"
	}`
}

// Signup issues a token usable against /me.
func Test_Signup_Then_Me(t *testing.T) {
	db := openTestDB(t)
	app := newAuthApp(db)

	username := "lawyer_" + uuid.NewString()[:8]
	code, out := postJSON(app, "/api/signup", signupBody(username, "lawyer"))
	if code != 201 {
		t.Fatalf("signup want 201, got %d (%v)", code, out)
	}
	token, _ := out["token"].(string)
	if token == "" {
		t.Fatalf("missing token in %v", out)
	}

	req := httptest.NewRequest("GET", "/api/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, _ := app.Test(req)
	if resp.StatusCode != 200 {
		t.Fatalf("me want 200, got %d", resp.StatusCode)
	}
	var me models.User
	_ = json.NewDecoder(resp.Body).Decode(&me)
	if me.Username != username || me.Role != models.RoleLawyer {
		t.Fatalf("me mismatch: %#v", me)
	}
}

// The admin role cannot be self-assigned through signup.
func Test_Signup_AdminRole_Rejected(t *testing.T) {
	db := openTestDB(t)
	app := newAuthApp(db)

	code, _ := postJSON(app, "/api/signup", signupBody("admin_"+uuid.NewString()[:8], "admin"))
	if code != 400 {
		t.Fatalf("admin signup want 400, got %d", code)
	}
}

// Reusing a username conflicts.
func Test_Signup_DuplicateUsername_Conflict(t *testing.T) {
	db := openTestDB(t)
	app := newAuthApp(db)

	username := "client_" + uuid.NewString()[:8]
	if code, _ := postJSON(app, "/api/signup", signupBody(username, "client")); code != 201 {
		t.Fatalf("first signup want 201, got %d", code)
	}
	if code, _ := postJSON(app, "/api/signup", signupBody(username, "client")); code != 409 {
		t.Fatalf("second signup want 409, got %d", code)
	}
}

// Wrong password and deactivated accounts both come back 401.
func Test_Login_Failures(t *testing.T) {
	db := openTestDB(t)
	app := newAuthApp(db)

	hash, _ := bcrypt.GenerateFromPassword([]byte("right-pass"), bcrypt.DefaultCost)
	active := "u_" + uuid.NewString()[:8]
	inactive := "u_" + uuid.NewString()[:8]
	if err := db.Create(&models.User{
		Username: active, Email: active + "@test.local", PasswordHash: string(hash),
		FirstName: "A", LastName: "B", Role: models.RoleClient, IsActive: true,
	}).Error; err != nil {
		t.Fatal(err)
	}
	if err := db.Create(&models.User{
		Username: inactive, Email: inactive + "@test.local", PasswordHash: string(hash),
		FirstName: "A", LastName: "B", Role: models.RoleClient, IsActive: false,
	}).Error; err != nil {
		t.Fatal(err)
	}

	if code, _ := postJSON(app, "/api/login",
		`{"username": "`+active+`", "password": "wrong"}`); code != 401 {
		t.Fatalf("wrong password want 401, got %d", code)
	}
	if code, _ := postJSON(app, "/api/login",
		`{"username": "`+inactive+`", "password": "right-pass"}`); code != 401 {
		t.Fatalf("inactive user want 401, got %d", code)
	}
	if code, _ := postJSON(app, "/api/login",
		`{"username": "`+active+`", "password": "right-pass"}`); code != 200 {
		t.Fatalf("valid login want 200, got %d", code)
	}
}
