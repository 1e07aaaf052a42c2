// Package payments records dues payments and applies their effect on the
// member's expiration date. Everything a payment touches happens inside a
// single transaction.
package payments

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/srobertsphd/alano-club/internal/dues"
	"github.com/srobertsphd/alano-club/internal/members"
	"github.com/srobertsphd/alano-club/internal/paymentmethods"
	"github.com/srobertsphd/alano-club/pkg/db/models"
	"github.com/srobertsphd/alano-club/pkg/enums"
	pkgerrors "github.com/srobertsphd/alano-club/pkg/errors"
	"github.com/srobertsphd/alano-club/pkg/logger"
	"github.com/srobertsphd/alano-club/pkg/metrics"
	"github.com/srobertsphd/alano-club/pkg/pagination"
)

// TxRunner executes a function inside a database transaction.
type TxRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// ServiceParams groups dependencies for the payment service.
type ServiceParams struct {
	Tx         TxRunner
	Repo       Repository
	MemberRepo members.Repository
	MethodRepo paymentmethods.Repository
	Logger     *logger.Logger
	Metrics    *metrics.PaymentMetrics
}

// Service owns payment processing, including member reactivation.
type Service struct {
	tx         TxRunner
	repo       Repository
	memberRepo members.Repository
	methodRepo paymentmethods.Repository
	logg       *logger.Logger
	metrics    *metrics.PaymentMetrics
}

// NewService builds a payment service.
func NewService(params ServiceParams) (*Service, error) {
	if params.Tx == nil {
		return nil, errors.New("tx runner is required")
	}
	if params.Repo == nil {
		return nil, errors.New("repo is required")
	}
	if params.MemberRepo == nil {
		return nil, errors.New("member repo is required")
	}
	if params.MethodRepo == nil {
		return nil, errors.New("payment method repo is required")
	}
	return &Service{
		tx:         params.Tx,
		repo:       params.Repo,
		memberRepo: params.MemberRepo,
		methodRepo: params.MethodRepo,
		logg:       params.Logger,
		metrics:    params.Metrics,
	}, nil
}

// ProcessPayment records a payment and moves the member's expiration date in
// one transaction. An inactive member is flipped back to active; deceased
// members and non-paying member types are refused before anything is written.
func (s *Service) ProcessPayment(ctx context.Context, input ProcessPaymentInput) (*ProcessPaymentResult, error) {
	if err := validateInput(input); err != nil {
		s.metrics.IncProcessed("error")
		return nil, err
	}

	paymentDate := input.PaymentDate
	if paymentDate.IsZero() {
		paymentDate = time.Now().UTC()
	}
	paymentDate = paymentDate.UTC().Truncate(24 * time.Hour)

	var result *ProcessPaymentResult
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		memberRepo := s.memberRepo.WithTx(tx)
		paymentRepo := s.repo.WithTx(tx)

		member, err := memberRepo.FindByIDForUpdate(ctx, input.MemberID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading member")
		}
		if member == nil {
			return pkgerrors.New(pkgerrors.CodeNotFound, "member not found")
		}
		if member.Status == enums.MemberStatusDeceased {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "deceased members cannot make payments")
		}
		if member.MemberType == nil {
			return pkgerrors.New(pkgerrors.CodeInternal, "member type not loaded")
		}
		if !member.MemberType.AllowsPayments {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "member type does not accept payments")
		}

		method, err := s.methodRepo.WithTx(tx).FindByID(ctx, input.PaymentMethodID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading payment method")
		}
		if method == nil {
			return pkgerrors.New(pkgerrors.CodeNotFound, "payment method not found")
		}
		if !method.IsActive {
			return pkgerrors.New(pkgerrors.CodeValidation, "payment method is inactive")
		}

		var previousExpiration *time.Time
		baseExpiration := paymentDate
		if member.ExpirationDate != nil {
			copied := *member.ExpirationDate
			previousExpiration = &copied
			baseExpiration = copied
		}

		newExpiration := dues.ComputeNewExpiration(dues.ExtensionInput{
			CurrentExpiration: baseExpiration,
			PaymentAmount:     input.Amount,
			DuesAmount:        member.MemberType.Dues,
			CoverageMonths:    member.MemberType.CoverageMonths,
			Override:          input.ExpirationOverride,
		})

		payment := &models.Payment{
			MemberID:        member.ID,
			PaymentMethodID: method.ID,
			Amount:          input.Amount,
			PaymentDate:     paymentDate,
			ReceiptNumber:   strings.TrimSpace(input.ReceiptNumber),
			Notes:           input.Notes,
			CreatedBy:       input.CreatedBy,
		}
		if err := paymentRepo.Create(ctx, payment); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "creating payment")
		}

		wasReactivated := false
		if member.Status == enums.MemberStatusInactive {
			member.Status = enums.MemberStatusActive
			member.DateInactivated = nil
			wasReactivated = true
		}
		member.ExpirationDate = &newExpiration

		if err := memberRepo.Update(ctx, member); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "updating member expiration")
		}

		result = &ProcessPaymentResult{
			Payment:            payment,
			Member:             member,
			WasReactivated:     wasReactivated,
			PreviousExpiration: previousExpiration,
		}
		return nil
	})
	if err != nil {
		s.metrics.IncProcessed("error")
		return nil, err
	}

	s.metrics.IncProcessed("ok")
	s.metrics.ObserveAmount(input.Amount.InexactFloat64())
	if result.WasReactivated {
		s.metrics.IncReactivation()
	}
	if s.logg != nil {
		logCtx := s.logg.WithMemberID(ctx, result.Member.ID.String())
		s.logg.Info(logCtx, "payment processed")
	}
	return result, nil
}

func validateInput(input ProcessPaymentInput) error {
	if input.MemberID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "member is required")
	}
	if input.PaymentMethodID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "payment method is required")
	}
	if !input.Amount.IsPositive() {
		return pkgerrors.New(pkgerrors.CodeValidation, "amount must be positive")
	}
	if strings.TrimSpace(input.ReceiptNumber) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "receipt number is required")
	}
	return nil
}

// Get loads a single payment.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*models.Payment, error) {
	payment, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading payment")
	}
	if payment == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "payment not found")
	}
	return payment, nil
}

// ListByMember returns a member's payment history, newest first.
func (s *Service) ListByMember(ctx context.Context, memberID uuid.UUID, params pagination.Params) ([]models.Payment, string, error) {
	found, next, err := s.repo.ListByMember(ctx, memberID, params)
	if err != nil {
		return nil, "", pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing payments")
	}
	return found, next, nil
}
