package auth

import (
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
)

// fakeAuth injects a parsed token into locals the way the jwt middleware does.
func fakeAuth(userID int, role string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		claims := jwt.MapClaims{"user_id": float64(userID)}
		if role != "" {
			claims["role"] = role
		}
		c.Locals("user", &jwt.Token{Claims: claims})
		return c.Next()
	}
}

func TestIssueTokenRoundTrip(t *testing.T) {
	signed, err := IssueToken("test-secret", 7, "buyer@example.com", RoleUser)
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}

	parsed, err := jwt.Parse(signed, func(tok *jwt.Token) (interface{}, error) {
		return []byte("test-secret"), nil
	})
	if err != nil || !parsed.Valid {
		t.Fatalf("parse token: %v", err)
	}
	claims := parsed.Claims.(jwt.MapClaims)
	if int(claims["user_id"].(float64)) != 7 {
		t.Fatalf("unexpected user_id claim: %v", claims["user_id"])
	}
	if claims["role"] != RoleUser {
		t.Fatalf("unexpected role claim: %v", claims["role"])
	}
}

func TestRequireRoles(t *testing.T) {
	cases := []struct {
		name string
		role string
		want int
	}{
		{"admin allowed", RoleAdmin, fiber.StatusOK},
		{"staff allowed", RoleStaff, fiber.StatusOK},
		{"user rejected", RoleUser, fiber.StatusUnauthorized},
		// missing claim defaults to USER, which is not in the allowed set
		{"no role rejected", "", fiber.StatusUnauthorized},
	}
	for _, tc := range cases {
		app := fiber.New()
		app.Use(fakeAuth(1, tc.role))
		app.Use(RequireRoles(RoleStaff, RoleAdmin))
		app.Get("/guarded", func(c *fiber.Ctx) error { return c.SendString("ok") })

		res, err := app.Test(httptest.NewRequest("GET", "/guarded", nil))
		if err != nil {
			t.Fatalf("%s: app.Test: %v", tc.name, err)
		}
		if res.StatusCode != tc.want {
			t.Fatalf("%s: expected %d, got %d", tc.name, tc.want, res.StatusCode)
		}
	}
}

func TestRequireRolesWithoutToken(t *testing.T) {
	app := fiber.New()
	app.Use(RequireRoles(RoleAdmin))
	app.Get("/guarded", func(c *fiber.Ctx) error { return c.SendString("ok") })

	res, err := app.Test(httptest.NewRequest("GET", "/guarded", nil))
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	if res.StatusCode != fiber.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d", res.StatusCode)
	}
}
