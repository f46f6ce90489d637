package api

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/contesthub/contest-platform-backend/models"
)

func okHandler(sawEmail *string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if sawEmail != nil {
			email, _ := ctxGetEmail(r.Context())
			*sawEmail = email
		}
		w.WriteHeader(http.StatusOK)
	})
}

func TestAuthenticateMissingHeader(t *testing.T) {
	auth := newAuthMiddleware(fakeVerifier{}, newFakeUserStore())

	req := httptest.NewRequest("GET", "/user", nil)
	rec := httptest.NewRecorder()
	auth.authenticate(okHandler(nil)).ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("Expected status 401, got %d", rec.Code)
	}
}

func TestAuthenticateInvalidToken(t *testing.T) {
	auth := newAuthMiddleware(fakeVerifier{emails: map[string]string{"good": "p@x.com"}}, newFakeUserStore())

	req := httptest.NewRequest("GET", "/user", nil)
	req.Header.Set("Authorization", "Bearer bad")
	rec := httptest.NewRecorder()
	auth.authenticate(okHandler(nil)).ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("Expected status 401, got %d", rec.Code)
	}
}

func TestAuthenticateExposesVerifiedEmail(t *testing.T) {
	auth := newAuthMiddleware(fakeVerifier{emails: map[string]string{"good": "p@x.com"}}, newFakeUserStore())

	var sawEmail string
	req := httptest.NewRequest("GET", "/user", nil)
	req.Header.Set("Authorization", "Bearer good")
	rec := httptest.NewRecorder()
	auth.authenticate(okHandler(&sawEmail)).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", rec.Code)
	}
	if sawEmail != "p@x.com" {
		t.Errorf("Expected handler to see verified email p@x.com, got %q", sawEmail)
	}
}

func TestRequireAdminRejectsWrongRole(t *testing.T) {
	users := newFakeUserStore(&models.User{Email: "c@x.com", Role: models.RoleCreator})
	auth := newAuthMiddleware(fakeVerifier{emails: map[string]string{"tok": "c@x.com"}}, users)

	req := httptest.NewRequest("GET", "/users", nil)
	req.Header.Set("Authorization", "Bearer tok")
	rec := httptest.NewRecorder()
	auth.authenticate(auth.requireAdmin(okHandler(nil))).ServeHTTP(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Errorf("Expected status 403, got %d", rec.Code)
	}
	if body := rec.Body.String(); !strings.Contains(body, "contestCreator") {
		t.Errorf("Expected refusal to carry the caller's actual role, got %s", body)
	}
}

func TestRequireAdminRejectsUnknownUser(t *testing.T) {
	auth := newAuthMiddleware(fakeVerifier{emails: map[string]string{"tok": "ghost@x.com"}}, newFakeUserStore())

	req := httptest.NewRequest("GET", "/users", nil)
	req.Header.Set("Authorization", "Bearer tok")
	rec := httptest.NewRecorder()
	auth.authenticate(auth.requireAdmin(okHandler(nil))).ServeHTTP(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Errorf("Expected status 403, got %d", rec.Code)
	}
}

func TestRequireCreatorAllowsCreator(t *testing.T) {
	users := newFakeUserStore(&models.User{Email: "c@x.com", Role: models.RoleCreator})
	auth := newAuthMiddleware(fakeVerifier{emails: map[string]string{"tok": "c@x.com"}}, users)

	req := httptest.NewRequest("POST", "/contests", nil)
	req.Header.Set("Authorization", "Bearer tok")
	rec := httptest.NewRecorder()
	auth.authenticate(auth.requireCreator(okHandler(nil))).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", rec.Code)
	}
}
