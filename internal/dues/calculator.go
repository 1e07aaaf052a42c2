// Package dues holds the expiration-date arithmetic behind dues payments.
// Every membership expires on the last day of a calendar month; a payment
// buys whole months according to the member type's dues schedule.
package dues

import (
	"time"

	"github.com/shopspring/decimal"
)

// ExtensionInput carries everything needed to derive a new expiration date.
type ExtensionInput struct {
	// CurrentExpiration is the membership's expiration before this payment.
	CurrentExpiration time.Time
	// PaymentAmount is the dollars received.
	PaymentAmount decimal.Decimal
	// DuesAmount is the member type's dues for one coverage period.
	DuesAmount decimal.Decimal
	// CoverageMonths is how many calendar months one full dues payment buys.
	CoverageMonths decimal.Decimal
	// Override, when set, bypasses the computation entirely. Used for
	// administrative corrections entered from a date picker.
	Override *time.Time
}

// ComputeNewExpiration derives the expiration date that a payment buys.
//
// An override short-circuits everything else and is normalized to the end of
// its month, so manual corrections obey the same month-boundary rule. With a
// zero dues schedule the extension is a flat one month. Otherwise the number
// of whole months is floor(amount/dues * coverage): paying $60 against $30
// monthly dues buys two months, paying $15 buys none.
func ComputeNewExpiration(in ExtensionInput) time.Time {
	if in.Override != nil {
		return EndOfMonth(*in.Override)
	}

	months := 1
	if in.DuesAmount.IsPositive() {
		// multiply before dividing: the product is exact, so a payment that
		// works out to a whole number of months never floors one short
		quotient, _ := in.PaymentAmount.Mul(in.CoverageMonths).QuoRem(in.DuesAmount, 0)
		months = int(quotient.IntPart())
	}

	return AddCalendarMonths(in.CurrentExpiration, months)
}

// AddCalendarMonths moves d forward n calendar months and snaps the result to
// the last day of the target month. The input's day-of-month is discarded, so
// n = 0 still normalizes to the end of the current month. Leap years are
// handled by the day-zero trick below.
func AddCalendarMonths(d time.Time, n int) time.Time {
	idx := int(d.Month()) - 1 + n
	year := d.Year() + idx/12
	idx %= 12
	if idx < 0 {
		idx += 12
		year--
	}
	month := time.Month(idx + 1)

	return lastDayOf(year, month)
}

// EndOfMonth snaps d to the last day of its own month.
func EndOfMonth(d time.Time) time.Time {
	return lastDayOf(d.Year(), d.Month())
}

func lastDayOf(year int, month time.Month) time.Time {
	// day 0 of the next month is the last day of this one
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC)
}
