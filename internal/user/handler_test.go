package user

import (
	"encoding/json"
	"io"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"

	"github.com/voltdepot/genstore-backend/internal/auth"
)

const testSecret = "test-secret"

func makeUserApp() *fiber.App {
	handler := NewHandler(NewService(NewInMemoryRepository(nil)), testSecret)

	app := fiber.New()
	handler.RegisterPublicRoutes(app)
	app.Use(func(c *fiber.Ctx) error {
		if v := c.Get("X-User-ID"); v != "" {
			id, err := strconv.Atoi(v)
			if err == nil {
				claims := jwt.MapClaims{"user_id": id}
				tok := &jwt.Token{Claims: claims}
				c.Locals("user", tok)
			}
		}
		return c.Next()
	})
	handler.RegisterProtectedRoutes(app)
	admin := app.Group("/api/admin")
	handler.RegisterAdminRoutes(admin)
	return app
}

func doUserRequest(t *testing.T, app *fiber.App, method, path, body string, userID int) (int, []byte) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if userID != 0 {
		req.Header.Set("X-User-ID", strconv.Itoa(userID))
	}
	res, err := app.Test(req, -1)
	if err != nil {
		t.Fatal(err)
	}
	defer res.Body.Close()
	buf, err := io.ReadAll(res.Body)
	if err != nil {
		t.Fatal(err)
	}
	return res.StatusCode, buf
}

const registerJSON = `{
	"email": "asad@example.com",
	"password": "hunter22",
	"firstName": "Asad",
	"lastName": "Khan",
	"phone": "0300-1234567"
}`

func TestRegisterLoginFlow(t *testing.T) {
	app := makeUserApp()

	status, body := doUserRequest(t, app, "POST", "/api/auth/register", registerJSON, 0)
	if status != fiber.StatusCreated {
		t.Fatalf("register: expected 201, got %d: %s", status, body)
	}
	var created User
	if err := json.Unmarshal(body, &created); err != nil {
		t.Fatal(err)
	}
	if created.Password != "" {
		t.Error("password must never be serialized")
	}
	if created.Role != auth.RoleUser {
		t.Errorf("role = %q, want USER", created.Role)
	}

	// duplicate email conflicts
	status, _ = doUserRequest(t, app, "POST", "/api/auth/register", registerJSON, 0)
	if status != fiber.StatusConflict {
		t.Errorf("duplicate register: expected 409, got %d", status)
	}

	status, body = doUserRequest(t, app, "POST", "/api/auth/login",
		`{"email":"asad@example.com","password":"hunter22"}`, 0)
	if status != fiber.StatusOK {
		t.Fatalf("login: expected 200, got %d: %s", status, body)
	}
	var loginRes struct {
		Token string `json:"token"`
		User  User   `json:"user"`
	}
	if err := json.Unmarshal(body, &loginRes); err != nil {
		t.Fatal(err)
	}
	if loginRes.Token == "" {
		t.Fatal("login should issue a token")
	}

	tok, err := jwt.Parse(loginRes.Token, func(*jwt.Token) (interface{}, error) {
		return []byte(testSecret), nil
	})
	if err != nil || !tok.Valid {
		t.Fatalf("issued token does not verify: %v", err)
	}
	claims := tok.Claims.(jwt.MapClaims)
	if claims["role"] != auth.RoleUser {
		t.Errorf("token role = %v, want USER", claims["role"])
	}

	status, _ = doUserRequest(t, app, "POST", "/api/auth/login",
		`{"email":"asad@example.com","password":"wrong"}`, 0)
	if status != fiber.StatusUnauthorized {
		t.Errorf("bad password: expected 401, got %d", status)
	}
}

func TestRegisterValidation(t *testing.T) {
	app := makeUserApp()
	status, _ := doUserRequest(t, app, "POST", "/api/auth/register",
		`{"email":"x@example.com","password":"pw"}`, 0)
	if status != fiber.StatusBadRequest {
		t.Errorf("missing fields: expected 400, got %d", status)
	}
}

func TestProfileUpdate(t *testing.T) {
	app := makeUserApp()
	_, body := doUserRequest(t, app, "POST", "/api/auth/register", registerJSON, 0)
	var created User
	json.Unmarshal(body, &created)

	status, body := doUserRequest(t, app, "PATCH", "/api/profile",
		`{"phone":"0321-7654321"}`, created.ID)
	if status != fiber.StatusOK {
		t.Fatalf("expected 200, got %d: %s", status, body)
	}
	var updated User
	json.Unmarshal(body, &updated)
	if updated.Phone != "0321-7654321" {
		t.Errorf("phone = %q, want updated value", updated.Phone)
	}
	if updated.FirstName != "Asad" {
		t.Errorf("untouched field changed: firstName = %q", updated.FirstName)
	}

	status, _ = doUserRequest(t, app, "GET", "/api/profile", "", 0)
	if status != fiber.StatusUnauthorized {
		t.Errorf("no token: expected 401, got %d", status)
	}
}

func TestAdminSetRole(t *testing.T) {
	app := makeUserApp()
	_, body := doUserRequest(t, app, "POST", "/api/auth/register", registerJSON, 0)
	var created User
	json.Unmarshal(body, &created)

	path := "/api/admin/users/" + strconv.Itoa(created.ID) + "/role"
	status, body := doUserRequest(t, app, "PATCH", path, `{"role":"STAFF"}`, 1)
	if status != fiber.StatusOK {
		t.Fatalf("expected 200, got %d: %s", status, body)
	}
	var updated User
	json.Unmarshal(body, &updated)
	if updated.Role != auth.RoleStaff {
		t.Errorf("role = %q, want STAFF", updated.Role)
	}

	status, _ = doUserRequest(t, app, "PATCH", path, `{"role":"SUPERUSER"}`, 1)
	if status != fiber.StatusBadRequest {
		t.Errorf("bad role: expected 400, got %d", status)
	}

	status, _ = doUserRequest(t, app, "PATCH", "/api/admin/users/999/role", `{"role":"STAFF"}`, 1)
	if status != fiber.StatusNotFound {
		t.Errorf("unknown user: expected 404, got %d", status)
	}
}
