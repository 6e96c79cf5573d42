package servicerequest

import (
	"encoding/json"
	"io"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"go.uber.org/zap"

	"github.com/voltdepot/genstore-backend/internal/auditlog"
	"github.com/voltdepot/genstore-backend/internal/auth"
	"github.com/voltdepot/genstore-backend/internal/notification"
	"github.com/voltdepot/genstore-backend/internal/product"
	"github.com/voltdepot/genstore-backend/internal/user"
)

type recordingMailer struct {
	mu   sync.Mutex
	sent []string
}

func (m *recordingMailer) Send(to []string, subject, body string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, subject)
	return nil
}

type fixture struct {
	app    *fiber.App
	mail   *recordingMailer
	notifs *notification.Service
	audits *auditlog.InMemoryRepository
	repo   *InMemoryRepository
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	products := product.NewInMemoryRepository([]product.Product{
		{ID: 1, Name: "KVA-5 Generator", Slug: "kva-5-generator", SKU: "GEN-0001", ItemType: product.ItemTypeGenerator, Price: 85000, Stock: 3, Active: true},
	})
	users := user.NewService(user.NewInMemoryRepository([]user.User{
		{ID: 42, FirstName: "Asad", Email: "asad@example.com", Role: auth.RoleUser},
	}))
	notifs := notification.NewService(notification.NewInMemoryRepository())
	audits := auditlog.NewInMemoryRepository()
	mail := &recordingMailer{}
	repo := NewInMemoryRepository()

	svc := NewService(repo, product.NewService(products), notifs, users,
		auditlog.NewService(audits), mail, zap.NewNop())
	handler := NewHandler(svc)

	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		if v := c.Get("X-User-ID"); v != "" {
			id, err := strconv.Atoi(v)
			if err == nil {
				claims := jwt.MapClaims{"user_id": id, "role": c.Get("X-User-Role", auth.RoleUser)}
				tok := &jwt.Token{Claims: claims}
				c.Locals("user", tok)
			}
		}
		return c.Next()
	})
	handler.RegisterProtectedRoutes(app)
	admin := app.Group("/api/admin")
	handler.RegisterAdminRoutes(admin)

	return &fixture{app: app, mail: mail, notifs: notifs, audits: audits, repo: repo}
}

func doJSON(t *testing.T, app *fiber.App, method, path, body string, userID int) (int, []byte) {
	t.Helper()
	var req = httptest.NewRequest(method, path, strings.NewReader(body))
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

func TestCreateAndFetchServiceRequest(t *testing.T) {
	f := newFixture(t)

	status, body := doJSON(t, f.app, "POST", "/api/services",
		`{"subject":"Generator overheating","description":"Shuts down after 10 minutes","serviceType":"REPAIR","productId":1}`, 42)
	if status != fiber.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", status, body)
	}
	var sr ServiceRequest
	if err := json.Unmarshal(body, &sr); err != nil {
		t.Fatal(err)
	}
	if sr.Status != StatusPending {
		t.Errorf("expected PENDING, got %s", sr.Status)
	}

	status, _ = doJSON(t, f.app, "GET", "/api/services/"+strconv.Itoa(sr.ID), "", 42)
	if status != fiber.StatusOK {
		t.Errorf("owner fetch: expected 200, got %d", status)
	}

	// another user must not see it
	status, _ = doJSON(t, f.app, "GET", "/api/services/"+strconv.Itoa(sr.ID), "", 99)
	if status != fiber.StatusNotFound {
		t.Errorf("stranger fetch: expected 404, got %d", status)
	}
}

func TestCreateServiceRequestValidation(t *testing.T) {
	f := newFixture(t)

	status, _ := doJSON(t, f.app, "POST", "/api/services",
		`{"subject":"","description":"x","serviceType":"REPAIR"}`, 42)
	if status != fiber.StatusBadRequest {
		t.Errorf("blank subject: expected 400, got %d", status)
	}

	status, _ = doJSON(t, f.app, "POST", "/api/services",
		`{"subject":"s","description":"d","serviceType":"HAIRCUT"}`, 42)
	if status != fiber.StatusBadRequest {
		t.Errorf("bad serviceType: expected 400, got %d", status)
	}

	status, _ = doJSON(t, f.app, "POST", "/api/services",
		`{"subject":"s","description":"d","serviceType":"REPAIR","productId":777}`, 42)
	if status != fiber.StatusNotFound {
		t.Errorf("unknown product: expected 404, got %d", status)
	}
}

func TestCancelOwnPendingRequest(t *testing.T) {
	f := newFixture(t)

	_, body := doJSON(t, f.app, "POST", "/api/services",
		`{"subject":"Annual maintenance","description":"Routine check","serviceType":"MAINTENANCE"}`, 42)
	var sr ServiceRequest
	json.Unmarshal(body, &sr)

	status, body := doJSON(t, f.app, "POST", "/api/services/"+strconv.Itoa(sr.ID)+"/cancel", "", 42)
	if status != fiber.StatusOK {
		t.Fatalf("expected 200, got %d: %s", status, body)
	}
	var cancelled ServiceRequest
	json.Unmarshal(body, &cancelled)
	if cancelled.Status != StatusCancelled {
		t.Errorf("expected CANCELLED, got %s", cancelled.Status)
	}

	// terminal: cancel again -> 400
	status, _ = doJSON(t, f.app, "POST", "/api/services/"+strconv.Itoa(sr.ID)+"/cancel", "", 42)
	if status != fiber.StatusBadRequest {
		t.Errorf("expected 400 on second cancel, got %d", status)
	}
}

func TestAdminStatusTransitions(t *testing.T) {
	f := newFixture(t)

	_, body := doJSON(t, f.app, "POST", "/api/services",
		`{"subject":"Install new unit","description":"Rooftop install","serviceType":"INSTALLATION"}`, 42)
	var sr ServiceRequest
	json.Unmarshal(body, &sr)
	path := "/api/admin/services/" + strconv.Itoa(sr.ID) + "/status"

	// skipping straight to COMPLETED is rejected
	status, _ := doJSON(t, f.app, "PATCH", path, `{"status":"COMPLETED"}`, 7)
	if status != fiber.StatusBadRequest {
		t.Errorf("PENDING->COMPLETED: expected 400, got %d", status)
	}

	status, _ = doJSON(t, f.app, "PATCH", path, `{"status":"REVIEWING"}`, 7)
	if status != fiber.StatusOK {
		t.Fatalf("PENDING->REVIEWING: expected 200, got %d", status)
	}

	status, body = doJSON(t, f.app, "PATCH", path, `{"status":"QUOTED","quotedAmount":15000,"adminNotes":"Includes parts"}`, 7)
	if status != fiber.StatusOK {
		t.Fatalf("REVIEWING->QUOTED: expected 200, got %d", status)
	}
	var quoted ServiceRequest
	json.Unmarshal(body, &quoted)
	if quoted.QuotedAmount != 15000 {
		t.Errorf("expected quoted amount 15000, got %v", quoted.QuotedAmount)
	}

	// the QUOTED transition notified and emailed the owner
	notifs, _ := f.notifs.ListByUser(42)
	if len(notifs) != 2 {
		t.Errorf("expected 2 notifications, got %d", len(notifs))
	}
	if len(f.mail.sent) != 1 {
		t.Errorf("expected 1 email (REVIEWING has no template), got %d", len(f.mail.sent))
	}

	entries, _ := f.audits.List(auditlog.EntityServiceRequest)
	if len(entries) != 2 {
		t.Errorf("expected 2 audit entries, got %d", len(entries))
	}
	if entries[0].ActorID != 7 {
		t.Errorf("expected actor 7, got %d", entries[0].ActorID)
	}
}

func TestAdminListFilterByStatus(t *testing.T) {
	f := newFixture(t)

	doJSON(t, f.app, "POST", "/api/services",
		`{"subject":"a","description":"d","serviceType":"REPAIR"}`, 42)
	doJSON(t, f.app, "POST", "/api/services",
		`{"subject":"b","description":"d","serviceType":"INSPECTION"}`, 42)

	status, body := doJSON(t, f.app, "GET", "/api/admin/services?status=PENDING", "", 7)
	if status != fiber.StatusOK {
		t.Fatalf("expected 200, got %d", status)
	}
	var out []ServiceRequest
	json.Unmarshal(body, &out)
	if len(out) != 2 {
		t.Errorf("expected 2 pending requests, got %d", len(out))
	}

	status, _ = doJSON(t, f.app, "GET", "/api/admin/services?status=BOGUS", "", 7)
	if status != fiber.StatusBadRequest {
		t.Errorf("expected 400 for bad filter, got %d", status)
	}
}
