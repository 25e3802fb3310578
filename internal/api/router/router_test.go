package router

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/vetfinder-my/platform/internal/autosave"
	"github.com/vetfinder-my/platform/internal/directory"
	"github.com/vetfinder-my/platform/pkg/logging"
)

const testAdminSecret = "router-test-secret"

func newTestRouter(t *testing.T) (http.Handler, *directory.InMemoryRepository) {
	t.Helper()

	logger := logging.Discard()
	repo := directory.NewInMemoryRepository()
	_, err := repo.Insert(context.Background(), directory.Clinic{
		Name:               "Klinik Haiwan Bangsar",
		City:               "Kuala Lumpur",
		State:              "Kuala Lumpur",
		VerificationStatus: directory.VerificationVerified,
	})
	if err != nil {
		t.Fatalf("seed repo: %v", err)
	}

	cfg := &Config{
		Logger:           logger,
		DirectoryHandler: directory.NewHandler(repo, nil, logger, nil),
		DraftHandler:     autosave.NewHandler(repo, autosave.Config{DisableAutosave: true}, logger, nil),
		AdminAuthSecret:  testAdminSecret,
	}
	return New(cfg), repo
}

func adminToken(t *testing.T, role string) string {
	t.Helper()
	claims := jwt.MapClaims{
		"sub":  "ops@vetfinder.my",
		"role": role,
		"exp":  time.Now().Add(5 * time.Minute).Unix(),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testAdminSecret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return signed
}

func TestRouterHealthEndpoint(t *testing.T) {
	router, _ := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rr := httptest.NewRecorder()

	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, rr.Code)
	}

	var resp map[string]string
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode health response: %v", err)
	}

	if resp["status"] != "ok" {
		t.Errorf("expected status 'ok', got %q", resp["status"])
	}
}

func TestRouterPublicDirectory(t *testing.T) {
	router, _ := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/clinics?q=Bangsar", nil)
	rr := httptest.NewRecorder()

	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, rr.Code)
	}

	var clinics []directory.Clinic
	if err := json.NewDecoder(rr.Body).Decode(&clinics); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(clinics) != 1 || clinics[0].Name != "Klinik Haiwan Bangsar" {
		t.Fatalf("unexpected listing: %+v", clinics)
	}
}

func TestRouterAdminRequiresToken(t *testing.T) {
	router, _ := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/admin/clinics", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected %d without token, got %d", http.StatusUnauthorized, rr.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/admin/clinics", nil)
	req.Header.Set("Authorization", "Bearer "+adminToken(t, "admin"))
	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected %d with token, got %d", http.StatusOK, rr.Code)
	}
}

// TestRouterDraftRoutesRegistered guards against the draft handler being
// wired at startup but never mounted, which would surface as 404s only in
// production.
func TestRouterDraftRoutesRegistered(t *testing.T) {
	router, repo := newTestRouter(t)

	all, err := repo.SelectAll(context.Background())
	if err != nil || len(all) == 0 {
		t.Fatalf("seeded clinic missing: %v", err)
	}
	path := "/admin/drafts/clinics/" + all[0].ID.String() + "/draft"

	req := httptest.NewRequest(http.MethodPost, path, nil)
	req.Header.Set("Authorization", "Bearer "+adminToken(t, "admin"))
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code == http.StatusNotFound || rr.Code == http.StatusMethodNotAllowed {
		t.Fatalf("draft route not registered, got %d", rr.Code)
	}
	if rr.Code != http.StatusCreated {
		t.Fatalf("expected %d, got %d", http.StatusCreated, rr.Code)
	}
}

func TestRouterAdminDisabledWithoutSecret(t *testing.T) {
	logger := logging.Discard()
	repo := directory.NewInMemoryRepository()
	router := New(&Config{
		Logger:           logger,
		DirectoryHandler: directory.NewHandler(repo, nil, logger, nil),
	})

	req := httptest.NewRequest(http.MethodGet, "/admin/clinics", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected admin surface absent, got %d", rr.Code)
	}
}

func TestRouterRateLimitsPublicTraffic(t *testing.T) {
	logger := logging.Discard()
	repo := directory.NewInMemoryRepository()
	router := New(&Config{
		Logger:           logger,
		DirectoryHandler: directory.NewHandler(repo, nil, logger, nil),
		PublicRateLimit:  1,
		PublicRateBurst:  1,
	})

	req := httptest.NewRequest(http.MethodGet, "/clinics", nil)
	req.RemoteAddr = "203.0.113.7:5000"

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("first request should pass, got %d", rr.Code)
	}

	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	if rr.Code != http.StatusTooManyRequests {
		t.Fatalf("second request should be limited, got %d", rr.Code)
	}
}
