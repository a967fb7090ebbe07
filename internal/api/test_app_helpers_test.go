package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/lunara/internal/blobstore"
	"github.com/terraincognita07/lunara/internal/i18n"
	"github.com/terraincognita07/lunara/internal/services"
)

const testSecretKey = "test-secret-key-with-enough-entropy-0123456789"

type testAppOptions struct {
	blobs   services.BlobStore
	reports *services.ReportService
}

func newTestApp(t *testing.T, options testAppOptions) (*fiber.App, *Handler) {
	t.Helper()

	if options.blobs == nil {
		options.blobs = blobstore.NewMemory()
	}

	manager, err := i18n.NewManager(i18n.LangEN)
	if err != nil {
		t.Fatalf("init i18n: %v", err)
	}

	handler, err := NewHandler(Dependencies{
		SecretKey: testSecretKey,
		I18n:      manager,
		CheckIns:  services.NewCheckInService(options.blobs, nil, nil),
		Reports:   options.reports,
		Wearables: services.NewWearableService(options.blobs, 0, nil),
	})
	if err != nil {
		t.Fatalf("init handler: %v", err)
	}

	app := fiber.New(fiber.Config{ErrorHandler: handler.ErrorHandler})
	app.Use(handler.LanguageMiddleware)
	RegisterRoutes(app, handler)
	app.Use(handler.NotFound)
	return app, handler
}

// startTestSession returns a Cookie header value for a fresh profile.
func startTestSession(t *testing.T, app *fiber.App) (string, string) {
	t.Helper()

	response := doRequest(t, app, http.MethodPost, "/api/session", "", nil)
	defer response.Body.Close()
	if response.StatusCode != fiber.StatusCreated {
		t.Fatalf("expected session to be created, got %d", response.StatusCode)
	}

	payload := struct {
		ProfileID string `json:"profile_id"`
	}{}
	decodeJSON(t, response, &payload)

	token := responseCookieValue(response.Cookies(), sessionCookieName)
	if token == "" {
		t.Fatal("expected session cookie")
	}
	return sessionCookieName + "=" + token, payload.ProfileID
}

func doRequest(t *testing.T, app *fiber.App, method string, path string, cookie string, body io.Reader, headers ...string) *http.Response {
	t.Helper()

	request := httptest.NewRequest(method, path, body)
	if cookie != "" {
		request.Header.Set("Cookie", cookie)
	}
	for index := 0; index+1 < len(headers); index += 2 {
		request.Header.Set(headers[index], headers[index+1])
	}

	response, err := app.Test(request, -1)
	if err != nil {
		t.Fatalf("%s %s failed: %v", method, path, err)
	}
	return response
}

func doJSON(t *testing.T, app *fiber.App, method string, path string, cookie string, payload string) *http.Response {
	t.Helper()
	return doRequest(t, app, method, path, cookie, strings.NewReader(payload), "Content-Type", fiber.MIMEApplicationJSON)
}

func decodeJSON(t *testing.T, response *http.Response, target any) {
	t.Helper()

	body, err := io.ReadAll(response.Body)
	if err != nil {
		t.Fatalf("read response body: %v", err)
	}
	if err := json.Unmarshal(body, target); err != nil {
		t.Fatalf("decode response body %q: %v", string(body), err)
	}
}

func responseCookieValue(cookies []*http.Cookie, name string) string {
	if cookie := responseCookie(cookies, name); cookie != nil {
		return cookie.Value
	}
	return ""
}

func responseCookie(cookies []*http.Cookie, name string) *http.Cookie {
	for _, cookie := range cookies {
		if cookie.Name == name {
			return cookie
		}
	}
	return nil
}

type apiErrorPayload struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func readAPIError(t *testing.T, response *http.Response) apiErrorPayload {
	t.Helper()

	payload := apiErrorPayload{}
	decodeJSON(t, response, &payload)
	return payload
}

type failingBlobStore struct {
	getErr error
	setErr error
}

func (store failingBlobStore) Get(context.Context, string) ([]byte, bool, error) {
	return nil, false, store.getErr
}

func (store failingBlobStore) Set(context.Context, string, []byte) error {
	if store.setErr != nil {
		return store.setErr
	}
	return errors.New("read-only store")
}
