package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/contesthub/contest-platform-backend/models"
)

func creatorUser(email string) *models.User {
	return &models.User{Email: email, Name: "Creator", Role: models.RoleCreator}
}

func adminUser(email string) *models.User {
	return &models.User{Email: email, Name: "Admin", Role: models.RoleAdmin}
}

// serveAs mounts the handler at pattern and performs the request with the
// given user already injected into the context, the way the auth gates do.
func serveAs(t *testing.T, method, pattern, target string, body any, user *models.User, handler http.HandlerFunc) *httptest.ResponseRecorder {
	t.Helper()

	var reqBody *bytes.Buffer
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("Failed to marshal request body: %v", err)
		}
		reqBody = bytes.NewBuffer(data)
	} else {
		reqBody = bytes.NewBuffer(nil)
	}

	req := httptest.NewRequest(method, target, reqBody)
	if user != nil {
		ctx := ctxWithEmail(req.Context(), user.Email)
		ctx = ctxWithUser(ctx, user)
		req = req.WithContext(ctx)
	}

	router := chi.NewRouter()
	router.MethodFunc(method, pattern, handler)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestCreateContestForcesPendingStatus(t *testing.T) {
	submissions := newFakeSubmissionStore()
	contests := newFakeContestStore(submissions)
	h := newContestHandler(contests, submissions)

	body := map[string]any{
		"name":     "Logo design",
		"category": "design",
		"entryFee": 20,
		"status":   "Confirmed", // must be ignored
	}
	rec := serveAs(t, "POST", "/contests", "/contests", body, creatorUser("c@x.com"), h.createContest())

	if rec.Code != http.StatusCreated {
		t.Fatalf("Expected status 201, got %d: %s", rec.Code, rec.Body.String())
	}

	var created models.Contest
	if err := json.Unmarshal(rec.Body.Bytes(), &created); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if created.Status != models.ContestPending {
		t.Errorf("Expected server-assigned Pending status, got %s", created.Status)
	}
	if created.CreatorEmail != "c@x.com" {
		t.Errorf("Expected creator email from context, got %s", created.CreatorEmail)
	}
	if created.Winner != nil {
		t.Errorf("Expected no winner on a new contest")
	}
}

func TestUpdateContestStatusRejectsInvalidTarget(t *testing.T) {
	submissions := newFakeSubmissionStore()
	contests := newFakeContestStore(submissions)
	h := newContestHandler(contests, submissions)

	contest := &models.Contest{ID: uuid.New(), Name: "A", Status: models.ContestPending}
	contests.contests[contest.ID] = contest

	body := map[string]string{"status": "Completed"}
	rec := serveAs(t, "PATCH", "/contest-status/{contestID}", "/contest-status/"+contest.ID.String(), body, adminUser("a@x.com"), h.updateContestStatus())

	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400 for disallowed target status, got %d", rec.Code)
	}
	if contest.Status != models.ContestPending {
		t.Errorf("Expected contest to stay Pending, got %s", contest.Status)
	}
}

func TestUpdateContestStatusUnknownContest(t *testing.T) {
	submissions := newFakeSubmissionStore()
	contests := newFakeContestStore(submissions)
	h := newContestHandler(contests, submissions)

	body := map[string]string{"status": "Confirmed"}
	rec := serveAs(t, "PATCH", "/contest-status/{contestID}", "/contest-status/"+uuid.NewString(), body, adminUser("a@x.com"), h.updateContestStatus())

	if rec.Code != http.StatusNotFound {
		t.Errorf("Expected status 404, got %d", rec.Code)
	}
}

func TestUpdateContestStatusMalformedID(t *testing.T) {
	submissions := newFakeSubmissionStore()
	contests := newFakeContestStore(submissions)
	h := newContestHandler(contests, submissions)

	body := map[string]string{"status": "Confirmed"}
	rec := serveAs(t, "PATCH", "/contest-status/{contestID}", "/contest-status/not-an-id", body, adminUser("a@x.com"), h.updateContestStatus())

	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400 for malformed id, got %d", rec.Code)
	}
}

func TestApproveRecordsApprover(t *testing.T) {
	submissions := newFakeSubmissionStore()
	contests := newFakeContestStore(submissions)
	h := newContestHandler(contests, submissions)

	contest := &models.Contest{ID: uuid.New(), Name: "A", Status: models.ContestPending}
	contests.contests[contest.ID] = contest

	body := map[string]string{"status": "Confirmed"}
	rec := serveAs(t, "PATCH", "/contest-status/{contestID}", "/contest-status/"+contest.ID.String(), body, adminUser("a@x.com"), h.updateContestStatus())

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if contest.Status != models.ContestConfirmed {
		t.Errorf("Expected Confirmed, got %s", contest.Status)
	}
	if contest.ApprovedBy == nil || *contest.ApprovedBy != "a@x.com" {
		t.Errorf("Expected approver to be recorded")
	}
}

func TestDeclareWinnerLifecycle(t *testing.T) {
	submissions := newFakeSubmissionStore()
	contests := newFakeContestStore(submissions)
	h := newContestHandler(contests, submissions)
	creator := creatorUser("c@x.com")

	contest := &models.Contest{ID: uuid.New(), Name: "A", Status: models.ContestConfirmed, CreatorEmail: creator.Email}
	contests.contests[contest.ID] = contest

	submission := &models.Submission{
		ID:        uuid.New(),
		ContestID: contest.ID,
		Email:     "p@x.com",
		Name:      "Participant",
		Task:      "http://example.com/entry",
		Status:    models.SubmissionPending,
	}
	submissions.submissions[submission.ID] = submission

	body := map[string]string{"submissionId": submission.ID.String()}
	target := "/contests/winner/" + contest.ID.String()
	rec := serveAs(t, "PATCH", "/contests/winner/{contestID}", target, body, creator, h.declareWinner())

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if contest.Status != models.ContestCompleted {
		t.Errorf("Expected contest Completed after winner declaration, got %s", contest.Status)
	}
	if contest.Winner == nil || contest.Winner.Email != "p@x.com" {
		t.Errorf("Expected winner to be recorded from the submission")
	}
	if submission.Status != models.SubmissionWinner {
		t.Errorf("Expected submission marked Winner, got %s", submission.Status)
	}

	// Second declaration must conflict and leave the first winner unchanged.
	rec = serveAs(t, "PATCH", "/contests/winner/{contestID}", target, body, creator, h.declareWinner())
	if rec.Code != http.StatusConflict {
		t.Errorf("Expected status 409 on second declaration, got %d", rec.Code)
	}
	if contest.Winner.Email != "p@x.com" {
		t.Errorf("Expected first winner to stay recorded, got %s", contest.Winner.Email)
	}
}

func TestDeclareWinnerRequiresConfirmedStatus(t *testing.T) {
	submissions := newFakeSubmissionStore()
	contests := newFakeContestStore(submissions)
	h := newContestHandler(contests, submissions)
	creator := creatorUser("c@x.com")

	contest := &models.Contest{ID: uuid.New(), Name: "A", Status: models.ContestPending, CreatorEmail: creator.Email}
	contests.contests[contest.ID] = contest

	submission := &models.Submission{ID: uuid.New(), ContestID: contest.ID, Email: "p@x.com", Task: "t"}
	submissions.submissions[submission.ID] = submission

	body := map[string]string{"submissionId": submission.ID.String()}
	rec := serveAs(t, "PATCH", "/contests/winner/{contestID}", "/contests/winner/"+contest.ID.String(), body, creator, h.declareWinner())

	if rec.Code != http.StatusUnprocessableEntity {
		t.Errorf("Expected status 422 for non-Confirmed contest, got %d", rec.Code)
	}
	if contest.Winner != nil {
		t.Errorf("Expected no winner write on invalid state")
	}
}

func TestDeclareWinnerForeignCreator(t *testing.T) {
	submissions := newFakeSubmissionStore()
	contests := newFakeContestStore(submissions)
	h := newContestHandler(contests, submissions)

	contest := &models.Contest{ID: uuid.New(), Name: "A", Status: models.ContestConfirmed, CreatorEmail: "owner@x.com"}
	contests.contests[contest.ID] = contest

	body := map[string]string{"submissionId": uuid.NewString()}
	rec := serveAs(t, "PATCH", "/contests/winner/{contestID}", "/contests/winner/"+contest.ID.String(), body, creatorUser("other@x.com"), h.declareWinner())

	if rec.Code != http.StatusForbidden {
		t.Errorf("Expected status 403 for foreign creator, got %d", rec.Code)
	}
}

func TestCreatorDeleteRules(t *testing.T) {
	submissions := newFakeSubmissionStore()
	contests := newFakeContestStore(submissions)
	h := newContestHandler(contests, submissions)
	owner := creatorUser("owner@x.com")

	pending := &models.Contest{ID: uuid.New(), Name: "P", Status: models.ContestPending, CreatorEmail: owner.Email}
	confirmed := &models.Contest{ID: uuid.New(), Name: "C", Status: models.ContestConfirmed, CreatorEmail: owner.Email}
	contests.contests[pending.ID] = pending
	contests.contests[confirmed.ID] = confirmed

	// Another creator cannot delete someone else's Pending contest.
	rec := serveAs(t, "DELETE", "/creator-contests-delete/{contestID}", "/creator-contests-delete/"+pending.ID.String(), nil, creatorUser("other@x.com"), h.creatorDeleteContest())
	if rec.Code != http.StatusForbidden {
		t.Errorf("Expected status 403 for foreign creator, got %d", rec.Code)
	}

	// The owner cannot delete a Confirmed contest.
	rec = serveAs(t, "DELETE", "/creator-contests-delete/{contestID}", "/creator-contests-delete/"+confirmed.ID.String(), nil, owner, h.creatorDeleteContest())
	if rec.Code != http.StatusForbidden {
		t.Errorf("Expected status 403 for Confirmed contest, got %d", rec.Code)
	}

	// The owner can delete their own Pending contest.
	rec = serveAs(t, "DELETE", "/creator-contests-delete/{contestID}", "/creator-contests-delete/"+pending.ID.String(), nil, owner, h.creatorDeleteContest())
	if rec.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if _, ok := contests.contests[pending.ID]; ok {
		t.Errorf("Expected Pending contest to be deleted")
	}
}

func TestGetAllContestsFiltersAndPaginates(t *testing.T) {
	submissions := newFakeSubmissionStore()
	contests := newFakeContestStore(submissions)
	h := newContestHandler(contests, submissions)

	now := time.Now()
	for i, spec := range []struct {
		status   models.ContestStatus
		category string
	}{
		{models.ContestConfirmed, "design"},
		{models.ContestCompleted, "Design"},
		{models.ContestPending, "design"},
		{models.ContestRejected, "design"},
		{models.ContestConfirmed, "writing"},
	} {
		contest := &models.Contest{
			ID:        uuid.New(),
			Name:      "Contest",
			Status:    spec.status,
			Category:  spec.category,
			CreatedAt: now.Add(time.Duration(i) * time.Minute),
		}
		contests.contests[contest.ID] = contest
	}

	rec := serveAs(t, "GET", "/contests", "/contests?type=DESIGN", nil, nil, h.getAllContests())
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", rec.Code)
	}

	var page ContestPage
	if err := json.Unmarshal(rec.Body.Bytes(), &page); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if page.Total != 2 {
		t.Errorf("Expected 2 visible design contests, got %d", page.Total)
	}
	for _, contest := range page.Contests {
		if contest.Status != models.ContestConfirmed && contest.Status != models.ContestCompleted {
			t.Errorf("Expected only Confirmed/Completed contests in listing, got %s", contest.Status)
		}
	}
}
