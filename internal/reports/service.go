// Package reports renders the club's roster and payment summaries as Excel
// workbooks and a printable PDF directory.
package reports

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/go-pdf/fpdf"
	"github.com/xuri/excelize/v2"

	"github.com/srobertsphd/alano-club/internal/members"
	"github.com/srobertsphd/alano-club/internal/payments"
	"github.com/srobertsphd/alano-club/pkg/db/models"
	"github.com/srobertsphd/alano-club/pkg/enums"
	pkgerrors "github.com/srobertsphd/alano-club/pkg/errors"
)

const dateLayout = "2006-01-02"

type ServiceParams struct {
	MemberRepo  members.Repository
	PaymentRepo payments.Repository
}

type Service struct {
	memberRepo  members.Repository
	paymentRepo payments.Repository
}

func NewService(params ServiceParams) (*Service, error) {
	if params.MemberRepo == nil {
		return nil, errors.New("member repo is required")
	}
	if params.PaymentRepo == nil {
		return nil, errors.New("payment repo is required")
	}
	return &Service{memberRepo: params.MemberRepo, paymentRepo: params.PaymentRepo}, nil
}

// MemberRoster writes the full roster as an xlsx workbook.
func (s *Service) MemberRoster(ctx context.Context, w io.Writer) error {
	roster, err := s.memberRepo.ListAll(ctx)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading roster")
	}

	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Members"
	f.SetSheetName("Sheet1", sheet)

	header := []any{"Member #", "Last Name", "First Name", "Type", "Status", "Expiration", "Phone", "Email", "City"}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "writing roster header")
	}

	now := time.Now().UTC()
	for i, member := range roster {
		row := []any{
			memberNumber(member),
			member.LastName,
			member.FirstName,
			typeName(member),
			statusLabel(member, now),
			formatDate(member.ExpirationDate),
			deref(member.Phone),
			deref(member.Email),
			member.City,
		}
		cell := fmt.Sprintf("A%d", i+2)
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "writing roster row")
		}
	}

	if err := f.Write(w); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "writing workbook")
	}
	return nil
}

// PaymentsByRange writes all payments in [from, to] as an xlsx workbook with
// a totals row.
func (s *Service) PaymentsByRange(ctx context.Context, from, to time.Time, w io.Writer) error {
	if to.Before(from) {
		return pkgerrors.New(pkgerrors.CodeValidation, "date range end precedes start")
	}

	rows, err := s.paymentRepo.ListByDateRange(ctx, from, to)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading payments")
	}

	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Payments"
	f.SetSheetName("Sheet1", sheet)

	header := []any{"Date", "Member", "Amount", "Method", "Receipt #", "Notes"}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "writing payments header")
	}

	total, err := s.paymentRepo.SumByDateRange(ctx, from, to)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "totaling payments")
	}

	for i, payment := range rows {
		row := []any{
			payment.PaymentDate.Format(dateLayout),
			paymentMemberName(payment),
			payment.Amount.InexactFloat64(),
			paymentMethodName(payment),
			payment.ReceiptNumber,
			payment.Notes,
		}
		cell := fmt.Sprintf("A%d", i+2)
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "writing payment row")
		}
	}

	totalsRow := []any{"Total", "", total.InexactFloat64()}
	cell := fmt.Sprintf("A%d", len(rows)+3)
	if err := f.SetSheetRow(sheet, cell, &totalsRow); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "writing totals row")
	}

	if err := f.Write(w); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "writing workbook")
	}
	return nil
}

// MemberDirectory writes a printable PDF of active members.
func (s *Service) MemberDirectory(ctx context.Context, w io.Writer) error {
	roster, err := s.memberRepo.ListAll(ctx)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading roster")
	}

	pdf := fpdf.New("P", "mm", "Letter", "")
	pdf.SetAutoPageBreak(true, 20)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(0, 10, "Member Directory", "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 9)
	pdf.CellFormat(0, 6, "Generated "+time.Now().UTC().Format(dateLayout), "", 1, "C", false, 0, "")
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "B", 10)
	pdf.CellFormat(60, 7, "Name", "B", 0, "L", false, 0, "")
	pdf.CellFormat(40, 7, "Phone", "B", 0, "L", false, 0, "")
	pdf.CellFormat(70, 7, "Email", "B", 1, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 10)
	for _, member := range roster {
		if member.Status != enums.MemberStatusActive {
			continue
		}
		pdf.CellFormat(60, 6, fmt.Sprintf("%s, %s", member.LastName, member.FirstName), "", 0, "L", false, 0, "")
		pdf.CellFormat(40, 6, deref(member.Phone), "", 0, "L", false, 0, "")
		pdf.CellFormat(70, 6, deref(member.Email), "", 1, "L", false, 0, "")
	}

	if err := pdf.Output(w); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "writing pdf")
	}
	return nil
}

func memberNumber(member models.Member) any {
	if member.MemberNumber == nil {
		return ""
	}
	return *member.MemberNumber
}

// statusLabel marks active members whose membership has already lapsed, so
// the roster shows who is current without a second pass over the dates.
func statusLabel(member models.Member, asOf time.Time) string {
	if member.Status == enums.MemberStatusActive && member.IsExpired(asOf) {
		return string(member.Status) + " (expired)"
	}
	return string(member.Status)
}

func typeName(member models.Member) string {
	if member.MemberType == nil {
		return ""
	}
	return member.MemberType.Name
}

func paymentMemberName(payment models.Payment) string {
	if payment.Member == nil {
		return ""
	}
	return payment.Member.FullName()
}

func paymentMethodName(payment models.Payment) string {
	if payment.PaymentMethod == nil {
		return ""
	}
	return payment.PaymentMethod.Name
}

func formatDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(dateLayout)
}

func deref(value *string) string {
	if value == nil {
		return ""
	}
	return *value
}
