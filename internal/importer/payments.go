package importer

import (
	"context"
	"fmt"
	"io"
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/srobertsphd/alano-club/internal/members"
	"github.com/srobertsphd/alano-club/internal/paymentmethods"
	"github.com/srobertsphd/alano-club/internal/payments"
	"github.com/srobertsphd/alano-club/pkg/db/models"
)

// ImportPayments loads historical payments from a CSV with columns
// member_number, amount, payment_date, payment_method, receipt_number, notes.
//
// Rows are written as-is and never touch the member's expiration date: the
// legacy export already reflects the expirations those payments bought.
// A row matching an existing payment on (member, amount, date) is a
// duplicate.
func ImportPayments(ctx context.Context, paymentRepo payments.Repository, memberRepo members.Repository, methodRepo paymentmethods.Repository, reader io.Reader) (*Summary, error) {
	methodCache := map[string]*models.PaymentMethod{}

	summary := &Summary{}
	err := forEachRow(reader, summary, func(r row) RowOutcome {
		rawNumber := r.get("member_number")
		if rawNumber == "" {
			return failed(r.number, fmt.Errorf("member_number is required"))
		}
		memberNumber, err := strconv.Atoi(rawNumber)
		if err != nil {
			return failed(r.number, fmt.Errorf("member_number: %w", err))
		}
		member, err := memberRepo.FindByMemberNumber(ctx, memberNumber)
		if err != nil {
			return failed(r.number, err)
		}
		if member == nil {
			return skipped(r.number, fmt.Errorf("unknown member number %d", memberNumber))
		}

		amount, err := decimal.NewFromString(r.get("amount"))
		if err != nil {
			return failed(r.number, fmt.Errorf("amount: %w", err))
		}
		if !amount.IsPositive() {
			return failed(r.number, fmt.Errorf("amount must be positive"))
		}

		paymentDate, err := r.date("payment_date")
		if err != nil {
			return failed(r.number, err)
		}
		if paymentDate == nil {
			return failed(r.number, fmt.Errorf("payment_date is required"))
		}

		methodName := r.get("payment_method")
		if methodName == "" {
			return failed(r.number, fmt.Errorf("payment_method is required"))
		}
		method, ok := methodCache[methodName]
		if !ok {
			found, err := methodRepo.FindByName(ctx, methodName)
			if err != nil {
				return failed(r.number, err)
			}
			if found == nil {
				return skipped(r.number, fmt.Errorf("unknown payment method %q", methodName))
			}
			methodCache[methodName] = found
			method = found
		}

		duplicate, err := paymentRepo.FindDuplicate(ctx, member.ID, amount, *paymentDate)
		if err != nil {
			return failed(r.number, err)
		}
		if duplicate != nil {
			return RowOutcome{Row: r.number, Action: ActionDuplicate}
		}

		payment := &models.Payment{
			MemberID:        member.ID,
			PaymentMethodID: method.ID,
			Amount:          amount,
			PaymentDate:     *paymentDate,
			ReceiptNumber:   r.get("receipt_number"),
			Notes:           r.get("notes"),
			CreatedBy:       "importer",
		}
		if err := paymentRepo.Create(ctx, payment); err != nil {
			return failed(r.number, err)
		}
		return RowOutcome{Row: r.number, Action: ActionCreated}
	})
	if err != nil {
		return nil, err
	}
	return summary, nil
}
