package http

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/lawrns/community-platform-sub000/internal/adapters/memory"
	"github.com/lawrns/community-platform-sub000/internal/application"
	"github.com/lawrns/community-platform-sub000/internal/domain"
)

const testSecret = "unit-test-secret"

func newTestRouter(t *testing.T) (http.Handler, memory.Repositories) {
	t.Helper()
	repos := memory.NewRepositories()
	svc := application.NewService(application.Dependencies{
		Logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
		Reputation: repos.Reputation,
		Users:      repos.Users,
		Contents:   repos.Contents,
		Badges:     repos.Badges,
		Flags:      repos.Flags,
		Actions:    repos.Actions,
		Appeals:    repos.Appeals,
		Outbox:     repos.Outbox,
	})
	handler := NewHandler(svc, NewTokenVerifier(testSecret))
	return NewRouter(handler), repos
}

func signToken(t *testing.T, subject uuid.UUID, role string) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, accessClaims{
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject.String(),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})
	signed, err := token.SignedString([]byte(testSecret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return signed
}

func seedRouterUser(t *testing.T, repos memory.Repositories) uuid.UUID {
	t.Helper()
	userID := uuid.New()
	err := repos.Users.Create(context.Background(), domain.User{
		UserID:    userID,
		Username:  "router-user",
		CreatedAt: time.Now().UTC(),
	})
	if err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return userID
}

func TestBadgeCatalogIsPublic(t *testing.T) {
	router, _ := newTestRouter(t)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/trust/v1/badges", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var body struct {
		Status string         `json:"status"`
		Data   []domain.Badge `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body.Status != "success" || len(body.Data) != len(domain.BadgeRegistry()) {
		t.Fatalf("unexpected catalog response: %s", rec.Body.String())
	}
}

func TestProtectedRouteRejectsMissingToken(t *testing.T) {
	router, _ := newTestRouter(t)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/trust/v1/flags/pending", nil))

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
	var body errorEnvelope
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode error envelope: %v", err)
	}
	if body.Status != "error" || body.Code != codeUnauthorized {
		t.Fatalf("unexpected error envelope: %+v", body)
	}
}

func TestProtectedRouteRejectsForeignSignature(t *testing.T) {
	router, _ := newTestRouter(t)
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{Subject: uuid.New().String()})
	signed, err := token.SignedString([]byte("some-other-secret"))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	req := httptest.NewRequest(http.MethodGet, "/trust/v1/flags/pending", nil)
	req.Header.Set("Authorization", "Bearer "+signed)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
}

func TestApplyReputationChangeEndToEnd(t *testing.T) {
	router, repos := newTestRouter(t)
	userID := seedRouterUser(t, repos)
	token := signToken(t, uuid.New(), application.RoleModerator)

	payload := `{"user_id":"` + userID.String() + `","reason":"answer_upvote"}`
	req := httptest.NewRequest(http.MethodPost, "/trust/v1/reputation/changes", strings.NewReader(payload))
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201: %s", rec.Code, rec.Body.String())
	}
	var body struct {
		Data application.ApplyChangeOutput `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body.Data.NewTotal != domain.PointsAnswerUpvote {
		t.Fatalf("new total = %d, want %d", body.Data.NewTotal, domain.PointsAnswerUpvote)
	}
	user, _ := repos.Store.User(userID)
	if user.Reputation != domain.PointsAnswerUpvote {
		t.Fatalf("stored reputation = %d, want %d", user.Reputation, domain.PointsAnswerUpvote)
	}
}

func TestApplyReputationChangeRejectsUnknownField(t *testing.T) {
	router, repos := newTestRouter(t)
	userID := seedRouterUser(t, repos)
	token := signToken(t, userID, application.RoleUser)

	payload := `{"user_id":"` + userID.String() + `","reason":"answer_upvote","surprise":true}`
	req := httptest.NewRequest(http.MethodPost, "/trust/v1/reputation/changes", strings.NewReader(payload))
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400: %s", rec.Code, rec.Body.String())
	}
}

func TestMapDomainError(t *testing.T) {
	cases := []struct {
		err      error
		want     int
		wantCode string
	}{
		{domain.ErrInvalidInput, http.StatusBadRequest, codeValidation},
		{domain.ErrUnauthorized, http.StatusUnauthorized, codeUnauthorized},
		{domain.ErrForbidden, http.StatusForbidden, codeForbidden},
		{domain.ErrNotFound, http.StatusNotFound, codeNotFound},
		{domain.ErrConflict, http.StatusConflict, codeConflict},
		{domain.ErrStorageUnavailable, http.StatusServiceUnavailable, codeDependency},
		{domain.ErrDependencyUnavailable, http.StatusServiceUnavailable, codeDependency},
		{io.ErrUnexpectedEOF, http.StatusInternalServerError, codeInternal},
	}
	for _, tc := range cases {
		status, code, _ := mapDomainError(tc.err)
		if status != tc.want {
			t.Fatalf("mapDomainError(%v) = %d, want %d", tc.err, status, tc.want)
		}
		if code != tc.wantCode {
			t.Fatalf("mapDomainError(%v) code = %s, want %s", tc.err, code, tc.wantCode)
		}
	}
}
