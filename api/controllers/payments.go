package controllers

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/srobertsphd/alano-club/api/responses"
	"github.com/srobertsphd/alano-club/api/validators"
	"github.com/srobertsphd/alano-club/internal/payments"
	pkgerrors "github.com/srobertsphd/alano-club/pkg/errors"
	"github.com/srobertsphd/alano-club/pkg/logger"
	"github.com/srobertsphd/alano-club/pkg/pagination"
)

type processPaymentRequest struct {
	MemberID           string `json:"member_id" validate:"required,uuid"`
	PaymentMethodID    string `json:"payment_method_id" validate:"required,uuid"`
	Amount             string `json:"amount" validate:"required"`
	PaymentDate        string `json:"payment_date" validate:"omitempty,datetime=2006-01-02"`
	ReceiptNumber      string `json:"receipt_number" validate:"required"`
	Notes              string `json:"notes"`
	ExpirationOverride string `json:"expiration_override" validate:"omitempty,datetime=2006-01-02"`
}

type processPaymentResponse struct {
	Payment            any    `json:"payment"`
	Member             any    `json:"member"`
	WasReactivated     bool   `json:"was_reactivated"`
	PreviousExpiration string `json:"previous_expiration,omitempty"`
}

// ProcessPayment records a dues payment and returns the resulting member
// state alongside the payment row.
func ProcessPayment(svc *payments.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req processPaymentRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		memberID, err := uuid.Parse(req.MemberID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid member id"))
			return
		}
		methodID, err := uuid.Parse(req.PaymentMethodID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid payment method id"))
			return
		}
		amount, err := decimal.NewFromString(req.Amount)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid amount"))
			return
		}

		input := payments.ProcessPaymentInput{
			MemberID:        memberID,
			PaymentMethodID: methodID,
			Amount:          amount,
			ReceiptNumber:   req.ReceiptNumber,
			Notes:           req.Notes,
			CreatedBy:       "admin",
		}
		if req.PaymentDate != "" {
			paymentDate, _ := time.Parse(dateLayout, req.PaymentDate)
			input.PaymentDate = paymentDate
		}
		if req.ExpirationOverride != "" {
			override, _ := time.Parse(dateLayout, req.ExpirationOverride)
			input.ExpirationOverride = &override
		}

		result, err := svc.ProcessPayment(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		resp := processPaymentResponse{
			Payment:        result.Payment,
			Member:         result.Member,
			WasReactivated: result.WasReactivated,
		}
		if result.PreviousExpiration != nil {
			resp.PreviousExpiration = result.PreviousExpiration.Format(dateLayout)
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, resp)
	}
}

func GetPayment(svc *payments.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathUUID(r, "paymentId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		payment, err := svc.Get(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, payment)
	}
}

// ListMemberPayments returns a member's payment history, newest first,
// cursor-paginated.
func ListMemberPayments(svc *payments.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		memberID, err := pathUUID(r, "memberId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		limit, err := validators.ParseQueryInt(r, "limit", 0, 1, pagination.MaxLimit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		found, next, err := svc.ListByMember(r.Context(), memberID, pagination.Params{
			Limit:  limit,
			Cursor: r.URL.Query().Get("cursor"),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{
			"payments":    found,
			"next_cursor": next,
		})
	}
}
