package payments

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/srobertsphd/alano-club/internal/members"
	"github.com/srobertsphd/alano-club/internal/paymentmethods"
	"github.com/srobertsphd/alano-club/pkg/db/models"
	"github.com/srobertsphd/alano-club/pkg/enums"
	pkgerrors "github.com/srobertsphd/alano-club/pkg/errors"
)

type stubMemberRepo struct {
	members.Repository
	byID      map[uuid.UUID]*models.Member
	updateErr error
	updated   []*models.Member
}

func (s *stubMemberRepo) WithTx(tx *gorm.DB) members.Repository { return s }

func (s *stubMemberRepo) FindByIDForUpdate(_ context.Context, id uuid.UUID) (*models.Member, error) {
	member, ok := s.byID[id]
	if !ok {
		return nil, nil
	}
	copied := *member
	return &copied, nil
}

func (s *stubMemberRepo) Update(_ context.Context, member *models.Member) error {
	if s.updateErr != nil {
		return s.updateErr
	}
	s.byID[member.ID] = member
	s.updated = append(s.updated, member)
	return nil
}

type stubMethodRepo struct {
	paymentmethods.Repository
	byID map[uuid.UUID]*models.PaymentMethod
}

func (s *stubMethodRepo) WithTx(tx *gorm.DB) paymentmethods.Repository { return s }

func (s *stubMethodRepo) FindByID(_ context.Context, id uuid.UUID) (*models.PaymentMethod, error) {
	method, ok := s.byID[id]
	if !ok {
		return nil, nil
	}
	copied := *method
	return &copied, nil
}

type stubPaymentRepo struct {
	Repository
	created []*models.Payment
}

func (s *stubPaymentRepo) WithTx(tx *gorm.DB) Repository { return s }

func (s *stubPaymentRepo) Create(_ context.Context, payment *models.Payment) error {
	if payment.ID == uuid.Nil {
		payment.ID = uuid.New()
	}
	s.created = append(s.created, payment)
	return nil
}

// fakeTxRunner emulates rollback for the stub repos: writes made inside a
// failed callback are discarded.
type fakeTxRunner struct {
	payments *stubPaymentRepo
	members  *stubMemberRepo
}

func (f *fakeTxRunner) WithTx(_ context.Context, fn func(tx *gorm.DB) error) error {
	paymentMark := len(f.payments.created)
	memberMark := len(f.members.updated)
	if err := fn(nil); err != nil {
		f.payments.created = f.payments.created[:paymentMark]
		f.members.updated = f.members.updated[:memberMark]
		return err
	}
	return nil
}

type harness struct {
	service    *Service
	memberRepo *stubMemberRepo
	methodRepo *stubMethodRepo
	repo       *stubPaymentRepo
	member     *models.Member
	method     *models.PaymentMethod
}

func date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

func newHarness(t *testing.T, status enums.MemberStatus) *harness {
	t.Helper()

	memberType := &models.MemberType{
		ID:             uuid.New(),
		Name:           "Regular",
		Dues:           decimal.RequireFromString("30.00"),
		CoverageMonths: decimal.NewFromInt(1),
		AllowsPayments: true,
		IsActive:       true,
	}
	expiration := date(2025, time.March, 31)
	member := &models.Member{
		ID:             uuid.New(),
		FirstName:      "Pat",
		LastName:       "Nelson",
		MemberTypeID:   memberType.ID,
		MemberType:     memberType,
		Status:         status,
		ExpirationDate: &expiration,
	}
	if status == enums.MemberStatusInactive {
		inactivated := date(2025, time.January, 10)
		member.DateInactivated = &inactivated
	}
	method := &models.PaymentMethod{ID: uuid.New(), Name: "Cash", IsActive: true}

	memberRepo := &stubMemberRepo{byID: map[uuid.UUID]*models.Member{member.ID: member}}
	methodRepo := &stubMethodRepo{byID: map[uuid.UUID]*models.PaymentMethod{method.ID: method}}
	paymentRepo := &stubPaymentRepo{}

	service, err := NewService(ServiceParams{
		Tx:         &fakeTxRunner{payments: paymentRepo, members: memberRepo},
		Repo:       paymentRepo,
		MemberRepo: memberRepo,
		MethodRepo: methodRepo,
	})
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	return &harness{
		service:    service,
		memberRepo: memberRepo,
		methodRepo: methodRepo,
		repo:       paymentRepo,
		member:     member,
		method:     method,
	}
}

func (h *harness) input() ProcessPaymentInput {
	return ProcessPaymentInput{
		MemberID:        h.member.ID,
		PaymentMethodID: h.method.ID,
		Amount:          decimal.RequireFromString("30.00"),
		PaymentDate:     date(2025, time.March, 20),
		ReceiptNumber:   "R-1001",
	}
}

func TestProcessPaymentExtendsExpiration(t *testing.T) {
	h := newHarness(t, enums.MemberStatusActive)

	result, err := h.service.ProcessPayment(context.Background(), h.input())
	if err != nil {
		t.Fatalf("ProcessPayment: %v", err)
	}

	want := date(2025, time.April, 30)
	if result.Member.ExpirationDate == nil || !result.Member.ExpirationDate.Equal(want) {
		t.Fatalf("expected expiration %v, got %v", want, result.Member.ExpirationDate)
	}
	if result.WasReactivated {
		t.Fatal("active member should not report reactivation")
	}
	if result.PreviousExpiration == nil || !result.PreviousExpiration.Equal(date(2025, time.March, 31)) {
		t.Fatalf("expected previous expiration march 31, got %v", result.PreviousExpiration)
	}
	if len(h.repo.created) != 1 {
		t.Fatalf("expected one payment row, got %d", len(h.repo.created))
	}
}

func TestProcessPaymentReactivatesInactiveMember(t *testing.T) {
	h := newHarness(t, enums.MemberStatusInactive)

	result, err := h.service.ProcessPayment(context.Background(), h.input())
	if err != nil {
		t.Fatalf("ProcessPayment: %v", err)
	}

	if !result.WasReactivated {
		t.Fatal("expected reactivation")
	}
	if result.Member.Status != enums.MemberStatusActive {
		t.Fatalf("expected active, got %s", result.Member.Status)
	}
	if result.Member.DateInactivated != nil {
		t.Fatalf("date_inactivated should be cleared, got %v", result.Member.DateInactivated)
	}
}

func TestProcessPaymentRefusesDeceasedMember(t *testing.T) {
	h := newHarness(t, enums.MemberStatusDeceased)

	_, err := h.service.ProcessPayment(context.Background(), h.input())
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeStateConflict {
		t.Fatalf("expected state conflict, got %v", err)
	}
	if len(h.repo.created) != 0 {
		t.Fatalf("no payment should be written, got %d", len(h.repo.created))
	}
}

func TestProcessPaymentRefusesNonPayingMemberType(t *testing.T) {
	h := newHarness(t, enums.MemberStatusActive)
	h.member.MemberType.AllowsPayments = false

	_, err := h.service.ProcessPayment(context.Background(), h.input())
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeStateConflict {
		t.Fatalf("expected state conflict, got %v", err)
	}
}

func TestProcessPaymentRefusesInactiveMethod(t *testing.T) {
	h := newHarness(t, enums.MemberStatusActive)
	h.method.IsActive = false
	h.methodRepo.byID[h.method.ID] = h.method

	_, err := h.service.ProcessPayment(context.Background(), h.input())
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestProcessPaymentRequiresReceiptNumber(t *testing.T) {
	h := newHarness(t, enums.MemberStatusActive)
	input := h.input()
	input.ReceiptNumber = "   "

	_, err := h.service.ProcessPayment(context.Background(), input)
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestProcessPaymentRollsBackOnMemberUpdateFailure(t *testing.T) {
	h := newHarness(t, enums.MemberStatusActive)
	h.memberRepo.updateErr = errors.New("connection reset")

	_, err := h.service.ProcessPayment(context.Background(), h.input())
	if err == nil {
		t.Fatal("expected failure")
	}
	if len(h.repo.created) != 0 {
		t.Fatalf("payment row should be rolled back, got %d", len(h.repo.created))
	}
}

func TestProcessPaymentOverrideWins(t *testing.T) {
	h := newHarness(t, enums.MemberStatusActive)
	input := h.input()
	override := date(2026, time.June, 12)
	input.ExpirationOverride = &override

	result, err := h.service.ProcessPayment(context.Background(), input)
	if err != nil {
		t.Fatalf("ProcessPayment with override: %v", err)
	}
	want := date(2026, time.June, 30)
	if result.Member.ExpirationDate == nil || !result.Member.ExpirationDate.Equal(want) {
		t.Fatalf("expected override month end %v, got %v", want, result.Member.ExpirationDate)
	}
}

func TestProcessPaymentWithoutExpirationStartsFromPaymentDate(t *testing.T) {
	h := newHarness(t, enums.MemberStatusActive)
	h.member.ExpirationDate = nil
	h.memberRepo.byID[h.member.ID] = h.member

	result, err := h.service.ProcessPayment(context.Background(), h.input())
	if err != nil {
		t.Fatalf("ProcessPayment: %v", err)
	}
	want := date(2025, time.April, 30)
	if result.Member.ExpirationDate == nil || !result.Member.ExpirationDate.Equal(want) {
		t.Fatalf("expected expiration %v, got %v", want, result.Member.ExpirationDate)
	}
	if result.PreviousExpiration != nil {
		t.Fatalf("previous expiration should be nil, got %v", result.PreviousExpiration)
	}
}
