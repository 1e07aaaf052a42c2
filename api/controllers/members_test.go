package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/srobertsphd/alano-club/internal/members"
	"github.com/srobertsphd/alano-club/pkg/db/models"
)

type stubMemberRepo struct {
	members.Repository
	store map[uuid.UUID]*models.Member
}

func newStubMemberRepo() *stubMemberRepo {
	return &stubMemberRepo{store: map[uuid.UUID]*models.Member{}}
}

func (s *stubMemberRepo) WithTx(_ *gorm.DB) members.Repository {
	return s
}

func (s *stubMemberRepo) Create(_ context.Context, member *models.Member) error {
	member.ID = uuid.New()
	copied := *member
	s.store[member.ID] = &copied
	return nil
}

func (s *stubMemberRepo) Update(_ context.Context, member *models.Member) error {
	copied := *member
	s.store[member.ID] = &copied
	return nil
}

func (s *stubMemberRepo) FindByID(_ context.Context, id uuid.UUID) (*models.Member, error) {
	member, ok := s.store[id]
	if !ok {
		return nil, nil
	}
	copied := *member
	return &copied, nil
}

func memberRouter(t *testing.T) (*stubMemberRepo, http.Handler) {
	t.Helper()
	repo := newStubMemberRepo()
	svc, err := members.NewService(members.ServiceParams{Repo: repo})
	if err != nil {
		t.Fatalf("building service: %v", err)
	}

	r := chi.NewRouter()
	r.Post("/members", CreateMember(svc, nil))
	r.Get("/members/{memberId}", GetMember(svc, nil))
	return repo, r
}

func decodeData(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var envelope struct {
		Data map[string]any `json:"data"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&envelope); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	return envelope.Data
}

func TestCreateMemberNormalizesExpiration(t *testing.T) {
	_, router := memberRouter(t)

	body := `{
		"first_name": "Ada",
		"last_name": "Nelson",
		"member_type_id": "` + uuid.NewString() + `",
		"expiration_date": "2025-04-10"
	}`
	req := httptest.NewRequest(http.MethodPost, "/members", strings.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	data := decodeData(t, rec)
	expiration, _ := data["ExpirationDate"].(string)
	if !strings.HasPrefix(expiration, "2025-04-30") {
		t.Fatalf("expiration should snap to month end, got %q", expiration)
	}
	if data["Status"] != "active" {
		t.Fatalf("new members start active, got %v", data["Status"])
	}
}

func TestCreateMemberRejectsMissingLastName(t *testing.T) {
	_, router := memberRouter(t)

	body := `{"first_name": "Ada", "member_type_id": "` + uuid.NewString() + `"}`
	req := httptest.NewRequest(http.MethodPost, "/members", strings.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestGetMemberNotFound(t *testing.T) {
	_, router := memberRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/members/"+uuid.NewString(), nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestGetMemberRejectsMalformedID(t *testing.T) {
	_, router := memberRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/members/not-a-uuid", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}
