package api

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/labcheck/internal/db"
	"github.com/terraincognita07/labcheck/internal/i18n"
	"github.com/terraincognita07/labcheck/internal/services"
)

const (
	testSecretKey     = "0123456789abcdef0123456789abcdef"
	testAdminLogin    = "admin"
	testAdminPassword = "StrongPass1"
)

type apiTestEnv struct {
	app     *fiber.App
	handler *Handler
}

func newAPITestEnv(t *testing.T, today string) apiTestEnv {
	t.Helper()

	database, err := db.OpenSQLite(filepath.Join(t.TempDir(), "labcheck-api-test.db"))
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() {
		_ = db.Close(database)
	})

	i18nManager, err := i18n.NewManager("en", i18n.EmbeddedLocales())
	if err != nil {
		t.Fatalf("init i18n: %v", err)
	}
	at, err := time.Parse("2006-01-02", today)
	if err != nil {
		t.Fatalf("parse today: %v", err)
	}

	handler, err := NewHandler(db.NewRepositories(database), services.FixedClock(at.Add(9*time.Hour), time.UTC), testSecretKey, i18nManager, false)
	if err != nil {
		t.Fatalf("init handler: %v", err)
	}

	app := fiber.New(fiber.Config{ErrorHandler: handler.ErrorHandler})
	app.Use(handler.LanguageMiddleware)
	RegisterRoutes(app, handler)
	app.Use(handler.NotFound)
	return apiTestEnv{app: app, handler: handler}
}

func (env apiTestEnv) bootstrapAdmin(t *testing.T, mustChangePassword bool) {
	t.Helper()
	if _, err := env.handler.auth.BootstrapAdmin(testAdminLogin, testAdminPassword, mustChangePassword); err != nil {
		t.Fatalf("bootstrap admin: %v", err)
	}
}

func (env apiTestEnv) login(t *testing.T) string {
	t.Helper()

	response, payload := env.request(t, http.MethodPost, "/api/auth/login", "", map[string]string{
		"login":    testAdminLogin,
		"password": testAdminPassword,
	})
	if response.StatusCode != http.StatusOK {
		t.Fatalf("expected login status 200, got %d: %v", response.StatusCode, payload)
	}
	token, _ := payload["token"].(string)
	if token == "" {
		t.Fatalf("expected token in login response, got %v", payload)
	}
	return token
}

// request sends body as JSON, or verbatim when it is a string, and decodes
// the JSON response.
func (env apiTestEnv) request(t *testing.T, method string, path string, token string, body any) (*http.Response, map[string]any) {
	t.Helper()

	var reader io.Reader
	switch value := body.(type) {
	case nil:
	case string:
		reader = bytes.NewBufferString(value)
	default:
		encoded, err := json.Marshal(value)
		if err != nil {
			t.Fatalf("encode body: %v", err)
		}
		reader = bytes.NewReader(encoded)
	}

	request := httptest.NewRequest(method, path, reader)
	if body != nil {
		request.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		request.Header.Set("Authorization", "Bearer "+token)
	}
	return env.send(t, request)
}

func (env apiTestEnv) send(t *testing.T, request *http.Request) (*http.Response, map[string]any) {
	t.Helper()

	response, err := env.app.Test(request, -1)
	if err != nil {
		t.Fatalf("%s %s failed: %v", request.Method, request.URL.Path, err)
	}
	defer response.Body.Close()

	raw, err := io.ReadAll(response.Body)
	if err != nil {
		t.Fatalf("read response body: %v", err)
	}
	payload := map[string]any{}
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &payload); err != nil {
			t.Fatalf("decode response %q: %v", string(raw), err)
		}
	}
	return response, payload
}

func assertErrorEnvelope(t *testing.T, response *http.Response, payload map[string]any, status int, kind string, code string) {
	t.Helper()

	if response.StatusCode != status {
		t.Fatalf("expected status %d, got %d: %v", status, response.StatusCode, payload)
	}
	if payload["status"] != "error" || payload["kind"] != kind || payload["code"] != code {
		t.Fatalf("expected %s/%s error envelope, got %v", kind, code, payload)
	}
	if message, _ := payload["message"].(string); message == "" || message == "error."+code {
		t.Fatalf("expected translated message, got %v", payload["message"])
	}
}

func numberField(t *testing.T, object map[string]any, key string) uint {
	t.Helper()
	value, ok := object[key].(float64)
	if !ok {
		t.Fatalf("expected numeric %q in %v", key, object)
	}
	return uint(value)
}

func objectField(t *testing.T, object map[string]any, key string) map[string]any {
	t.Helper()
	value, ok := object[key].(map[string]any)
	if !ok {
		t.Fatalf("expected object %q in %v", key, object)
	}
	return value
}

func listField(t *testing.T, object map[string]any, key string) []any {
	t.Helper()
	value, ok := object[key].([]any)
	if !ok {
		t.Fatalf("expected list %q in %v", key, object)
	}
	return value
}
