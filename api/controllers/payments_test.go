package controllers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/srobertsphd/alano-club/internal/paymentmethods"
	"github.com/srobertsphd/alano-club/internal/payments"
	"github.com/srobertsphd/alano-club/pkg/db/models"
	"github.com/srobertsphd/alano-club/pkg/enums"
)

func (s *stubMemberRepo) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*models.Member, error) {
	return s.FindByID(ctx, id)
}

type stubMethodRepo struct {
	paymentmethods.Repository
	store map[uuid.UUID]*models.PaymentMethod
}

func (s *stubMethodRepo) WithTx(_ *gorm.DB) paymentmethods.Repository {
	return s
}

func (s *stubMethodRepo) FindByID(_ context.Context, id uuid.UUID) (*models.PaymentMethod, error) {
	method, ok := s.store[id]
	if !ok {
		return nil, nil
	}
	copied := *method
	return &copied, nil
}

type stubPaymentRepo struct {
	payments.Repository
	created []*models.Payment
}

func (s *stubPaymentRepo) WithTx(_ *gorm.DB) payments.Repository {
	return s
}

func (s *stubPaymentRepo) Create(_ context.Context, payment *models.Payment) error {
	payment.ID = uuid.New()
	s.created = append(s.created, payment)
	return nil
}

type passthroughTx struct{}

func (passthroughTx) WithTx(_ context.Context, fn func(tx *gorm.DB) error) error {
	return fn(nil)
}

type paymentFixture struct {
	memberID uuid.UUID
	methodID uuid.UUID
	router   http.Handler
	payments *stubPaymentRepo
}

func newPaymentFixture(t *testing.T, status enums.MemberStatus) paymentFixture {
	t.Helper()

	memberType := &models.MemberType{
		ID:             uuid.New(),
		Name:           "Regular",
		Dues:           decimal.RequireFromString("30"),
		CoverageMonths: decimal.NewFromInt(1),
		AllowsPayments: true,
		IsActive:       true,
	}
	expiration := time.Date(2025, time.March, 31, 0, 0, 0, 0, time.UTC)
	member := &models.Member{
		ID:             uuid.New(),
		FirstName:      "Ada",
		LastName:       "Nelson",
		MemberTypeID:   memberType.ID,
		MemberType:     memberType,
		Status:         status,
		ExpirationDate: &expiration,
	}
	method := &models.PaymentMethod{ID: uuid.New(), Name: "Cash", IsActive: true}

	memberRepo := newStubMemberRepo()
	memberRepo.store[member.ID] = member
	methodRepo := &stubMethodRepo{store: map[uuid.UUID]*models.PaymentMethod{method.ID: method}}
	paymentRepo := &stubPaymentRepo{}

	svc, err := payments.NewService(payments.ServiceParams{
		Tx:         passthroughTx{},
		Repo:       paymentRepo,
		MemberRepo: memberRepo,
		MethodRepo: methodRepo,
	})
	if err != nil {
		t.Fatalf("building service: %v", err)
	}

	r := chi.NewRouter()
	r.Post("/payments", ProcessPayment(svc, nil))
	return paymentFixture{
		memberID: member.ID,
		methodID: method.ID,
		router:   r,
		payments: paymentRepo,
	}
}

func (f paymentFixture) post(body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/payments", strings.NewReader(body))
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	return rec
}

func TestProcessPaymentEndpointExtendsMembership(t *testing.T) {
	fixture := newPaymentFixture(t, enums.MemberStatusActive)

	rec := fixture.post(`{
		"member_id": "` + fixture.memberID.String() + `",
		"payment_method_id": "` + fixture.methodID.String() + `",
		"amount": "30.00",
		"payment_date": "2025-03-15",
		"receipt_number": "R-100"
	}`)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	data := decodeData(t, rec)
	member, _ := data["member"].(map[string]any)
	expiration, _ := member["ExpirationDate"].(string)
	if !strings.HasPrefix(expiration, "2025-04-30") {
		t.Fatalf("one month of dues should extend to April 30, got %q", expiration)
	}
	if data["was_reactivated"] != false {
		t.Fatalf("active member should not be flagged reactivated")
	}
	if len(fixture.payments.created) != 1 {
		t.Fatalf("expected one stored payment, got %d", len(fixture.payments.created))
	}
}

func TestProcessPaymentEndpointReactivatesInactiveMember(t *testing.T) {
	fixture := newPaymentFixture(t, enums.MemberStatusInactive)

	rec := fixture.post(`{
		"member_id": "` + fixture.memberID.String() + `",
		"payment_method_id": "` + fixture.methodID.String() + `",
		"amount": "30.00",
		"receipt_number": "R-101"
	}`)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	data := decodeData(t, rec)
	if data["was_reactivated"] != true {
		t.Fatalf("inactive member paying dues should be reactivated")
	}
}

func TestProcessPaymentEndpointRefusesDeceasedMember(t *testing.T) {
	fixture := newPaymentFixture(t, enums.MemberStatusDeceased)

	rec := fixture.post(`{
		"member_id": "` + fixture.memberID.String() + `",
		"payment_method_id": "` + fixture.methodID.String() + `",
		"amount": "30.00",
		"receipt_number": "R-102"
	}`)

	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d: %s", rec.Code, rec.Body.String())
	}
	if len(fixture.payments.created) != 0 {
		t.Fatalf("no payment should be written, got %d", len(fixture.payments.created))
	}
}

func TestProcessPaymentEndpointRejectsBadAmount(t *testing.T) {
	fixture := newPaymentFixture(t, enums.MemberStatusActive)

	rec := fixture.post(`{
		"member_id": "` + fixture.memberID.String() + `",
		"payment_method_id": "` + fixture.methodID.String() + `",
		"amount": "thirty dollars",
		"receipt_number": "R-103"
	}`)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}
