package api

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/contesthub/contest-platform-backend/models"
)

func TestLoginCreatesParticipant(t *testing.T) {
	users := newFakeUserStore()
	h := newUserHandler(users, newFakeCreatorRequestStore())

	body := map[string]string{"name": "New User", "photo": "http://example.com/p.png"}
	rec := serveAs(t, "POST", "/user-login", "/user-login", body, participantUser("new@x.com"), h.login())

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var user models.User
	if err := json.Unmarshal(rec.Body.Bytes(), &user); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if user.Role != models.RoleParticipant {
		t.Errorf("Expected first login to create a participant, got %s", user.Role)
	}
	if user.Email != "new@x.com" {
		t.Errorf("Expected email from the verified token, got %s", user.Email)
	}
}

func TestLoginKeepsElevatedRole(t *testing.T) {
	users := newFakeUserStore(&models.User{Email: "c@x.com", Name: "Old Name", Role: models.RoleCreator})
	h := newUserHandler(users, newFakeCreatorRequestStore())

	body := map[string]string{"name": "New Name"}
	rec := serveAs(t, "POST", "/user-login", "/user-login", body, participantUser("c@x.com"), h.login())

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", rec.Code)
	}

	var user models.User
	if err := json.Unmarshal(rec.Body.Bytes(), &user); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if user.Role != models.RoleCreator {
		t.Errorf("Expected role to survive re-login, got %s", user.Role)
	}
	if user.Name != "New Name" {
		t.Errorf("Expected name to be refreshed, got %s", user.Name)
	}
}

func TestBecomeCreatorFilesOneRequest(t *testing.T) {
	users := newFakeUserStore(&models.User{Email: "p@x.com", Role: models.RoleParticipant})
	requests := newFakeCreatorRequestStore()
	h := newUserHandler(users, requests)

	rec := serveAs(t, "POST", "/become-creator", "/become-creator", nil, participantUser("p@x.com"), h.becomeCreator())
	if rec.Code != http.StatusCreated {
		t.Fatalf("Expected status 201, got %d: %s", rec.Code, rec.Body.String())
	}
	if _, ok := requests.requests["p@x.com"]; !ok {
		t.Fatal("Expected a creator request on file")
	}

	rec = serveAs(t, "POST", "/become-creator", "/become-creator", nil, participantUser("p@x.com"), h.becomeCreator())
	if rec.Code != http.StatusConflict {
		t.Errorf("Expected status 409 on duplicate request, got %d", rec.Code)
	}
}

func TestBecomeCreatorRejectsElevatedRoles(t *testing.T) {
	users := newFakeUserStore(&models.User{Email: "c@x.com", Role: models.RoleCreator})
	h := newUserHandler(users, newFakeCreatorRequestStore())

	rec := serveAs(t, "POST", "/become-creator", "/become-creator", nil, creatorUser("c@x.com"), h.becomeCreator())
	if rec.Code != http.StatusConflict {
		t.Errorf("Expected status 409 for an already elevated user, got %d", rec.Code)
	}
}

func TestUpdateRolePromotesAndClearsRequest(t *testing.T) {
	users := newFakeUserStore(&models.User{Email: "p@x.com", Role: models.RoleParticipant})
	requests := newFakeCreatorRequestStore()
	requests.requests["p@x.com"] = &models.CreatorRequest{Email: "p@x.com"}
	h := newUserHandler(users, requests)

	body := map[string]string{"email": "p@x.com", "role": "contestCreator"}
	rec := serveAs(t, "PATCH", "/update-role", "/update-role", body, adminUser("a@x.com"), h.updateRole())

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if users.users["p@x.com"].Role != models.RoleCreator {
		t.Errorf("Expected role contestCreator, got %s", users.users["p@x.com"].Role)
	}
	if _, ok := requests.requests["p@x.com"]; ok {
		t.Errorf("Expected the pending creator request to be cleared")
	}
}

func TestUpdateRoleValidation(t *testing.T) {
	users := newFakeUserStore(&models.User{Email: "p@x.com", Role: models.RoleParticipant})
	h := newUserHandler(users, newFakeCreatorRequestStore())

	body := map[string]string{"email": "p@x.com", "role": "superuser"}
	rec := serveAs(t, "PATCH", "/update-role", "/update-role", body, adminUser("a@x.com"), h.updateRole())
	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400 for an unknown role, got %d", rec.Code)
	}

	body = map[string]string{"email": "ghost@x.com", "role": "admin"}
	rec = serveAs(t, "PATCH", "/update-role", "/update-role", body, adminUser("a@x.com"), h.updateRole())
	if rec.Code != http.StatusNotFound {
		t.Errorf("Expected status 404 for an unknown user, got %d", rec.Code)
	}
}
