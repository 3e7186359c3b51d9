package middleware

import (
	"coursedesk/config"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupProtectedApp() *fiber.App {
	app := fiber.New()
	app.Get("/me", JWTMiddleware, func(c *fiber.Ctx) error {
		return JsonResponse(c, fiber.StatusOK, true, "ok", fiber.Map{
			"userId": c.Locals("userId"),
		})
	})
	return app
}

func signToken(t *testing.T, claims jwt.MapClaims) string {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(config.AppConfig.JWTKey))
	require.NoError(t, err)
	return signed
}

func TestJWTMiddlewareValidToken(t *testing.T) {
	config.LoadConfig()
	app := setupProtectedApp()

	token, err := GenerateJWT(42, "Asha", "STUDENT", "asha@example.com")
	require.NoError(t, err)

	req := httptest.NewRequest("GET", "/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestJWTMiddlewareRejectsBadPayload(t *testing.T) {
	config.LoadConfig()
	app := setupProtectedApp()

	exp := time.Now().Add(time.Hour).Unix()

	// Validly signed tokens whose userId claim cannot identify a user
	for name, claims := range map[string]jwt.MapClaims{
		"string userId":  {"userId": "42", "exp": exp},
		"missing userId": {"exp": exp},
		"zero userId":    {"userId": 0, "exp": exp},
	} {
		req := httptest.NewRequest("GET", "/me", nil)
		req.Header.Set("Authorization", "Bearer "+signToken(t, claims))

		resp, err := app.Test(req, -1)
		require.NoError(t, err, name)
		assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode, name)
	}
}

func TestJWTMiddlewareRejectsMissingHeader(t *testing.T) {
	config.LoadConfig()
	app := setupProtectedApp()

	for name, header := range map[string]string{
		"no header":  "",
		"not bearer": "Token abc",
		"garbage":    "Bearer not.a.token",
	} {
		req := httptest.NewRequest("GET", "/me", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}

		resp, err := app.Test(req, -1)
		require.NoError(t, err, name)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode, name)
	}
}
