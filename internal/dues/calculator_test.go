package dues

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

func TestAddCalendarMonthsSnapsToMonthEnd(t *testing.T) {
	tests := []struct {
		name string
		in   time.Time
		n    int
		want time.Time
	}{
		{name: "mid-month plus one", in: date(2025, time.March, 15), n: 1, want: date(2025, time.April, 30)},
		{name: "jan 31 into short february", in: date(2025, time.January, 31), n: 1, want: date(2025, time.February, 28)},
		{name: "into leap february", in: date(2024, time.December, 15), n: 2, want: date(2025, time.February, 28)},
		{name: "leap year zero months", in: date(2024, time.February, 14), n: 0, want: date(2024, time.February, 29)},
		{name: "zero months normalizes day", in: date(2025, time.March, 1), n: 0, want: date(2025, time.March, 31)},
		{name: "year carry", in: date(2025, time.November, 30), n: 2, want: date(2026, time.January, 31)},
		{name: "multi-year carry", in: date(2025, time.June, 10), n: 19, want: date(2027, time.January, 31)},
		{name: "december rollover", in: date(2025, time.December, 31), n: 1, want: date(2026, time.January, 31)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := AddCalendarMonths(tt.in, tt.n); !got.Equal(tt.want) {
				t.Fatalf("AddCalendarMonths(%v, %d) = %v, want %v", tt.in, tt.n, got, tt.want)
			}
		})
	}
}

func TestAddCalendarMonthsAlwaysLandsOnMonthEnd(t *testing.T) {
	// property from the month-boundary rule: the result day is always the
	// last day of its month, whatever day the input carried
	start := date(2023, time.January, 1)
	for dayOffset := 0; dayOffset < 400; dayOffset += 7 {
		d := start.AddDate(0, 0, dayOffset)
		for n := 0; n <= 15; n++ {
			got := AddCalendarMonths(d, n)
			if next := got.AddDate(0, 0, 1); next.Day() != 1 {
				t.Fatalf("AddCalendarMonths(%v, %d) = %v is not a month end", d, n, got)
			}
		}
	}
}

func TestEndOfMonth(t *testing.T) {
	if got := EndOfMonth(date(2024, time.February, 1)); !got.Equal(date(2024, time.February, 29)) {
		t.Fatalf("expected leap-year end of february, got %v", got)
	}
	if got := EndOfMonth(date(2025, time.April, 30)); !got.Equal(date(2025, time.April, 30)) {
		t.Fatalf("end of month should be idempotent, got %v", got)
	}
}

func TestComputeNewExpirationOverrideWins(t *testing.T) {
	override := date(2026, time.June, 30)
	got := ComputeNewExpiration(ExtensionInput{
		CurrentExpiration: date(2025, time.March, 31),
		PaymentAmount:     decimal.RequireFromString("999.00"),
		DuesAmount:        decimal.RequireFromString("30.00"),
		CoverageMonths:    decimal.NewFromInt(1),
		Override:          &override,
	})
	if !got.Equal(override) {
		t.Fatalf("override should win, got %v", got)
	}
}

func TestComputeNewExpirationOverrideIsNormalized(t *testing.T) {
	override := date(2026, time.June, 12)
	got := ComputeNewExpiration(ExtensionInput{
		CurrentExpiration: date(2025, time.March, 31),
		PaymentAmount:     decimal.RequireFromString("30.00"),
		DuesAmount:        decimal.RequireFromString("30.00"),
		CoverageMonths:    decimal.NewFromInt(1),
		Override:          &override,
	})
	if !got.Equal(date(2026, time.June, 30)) {
		t.Fatalf("override should snap to month end, got %v", got)
	}
}

func TestComputeNewExpirationFloorsPartialMonths(t *testing.T) {
	// half a month's dues buys nothing; club policy, not a bug
	got := ComputeNewExpiration(ExtensionInput{
		CurrentExpiration: date(2025, time.March, 31),
		PaymentAmount:     decimal.RequireFromString("15.00"),
		DuesAmount:        decimal.RequireFromString("30.00"),
		CoverageMonths:    decimal.NewFromInt(1),
	})
	if !got.Equal(date(2025, time.March, 31)) {
		t.Fatalf("partial payment should add zero months, got %v", got)
	}
}

func TestComputeNewExpirationMultipleMonths(t *testing.T) {
	got := ComputeNewExpiration(ExtensionInput{
		CurrentExpiration: date(2025, time.March, 31),
		PaymentAmount:     decimal.RequireFromString("60.00"),
		DuesAmount:        decimal.RequireFromString("30.00"),
		CoverageMonths:    decimal.NewFromInt(1),
	})
	if !got.Equal(date(2025, time.May, 31)) {
		t.Fatalf("two months of dues should buy two months, got %v", got)
	}
}

func TestComputeNewExpirationCrossesYearBoundary(t *testing.T) {
	got := ComputeNewExpiration(ExtensionInput{
		CurrentExpiration: date(2025, time.November, 30),
		PaymentAmount:     decimal.RequireFromString("60.00"),
		DuesAmount:        decimal.RequireFromString("30.00"),
		CoverageMonths:    decimal.NewFromInt(1),
	})
	if !got.Equal(date(2026, time.January, 31)) {
		t.Fatalf("expected january 2026, got %v", got)
	}
}

func TestComputeNewExpirationExactRatioIsNotFloored(t *testing.T) {
	// a third of quarterly dues is exactly one month; the division must not
	// lose precision and round the month away
	got := ComputeNewExpiration(ExtensionInput{
		CurrentExpiration: date(2025, time.March, 31),
		PaymentAmount:     decimal.RequireFromString("30.00"),
		DuesAmount:        decimal.RequireFromString("90.00"),
		CoverageMonths:    decimal.NewFromInt(3),
	})
	if !got.Equal(date(2025, time.April, 30)) {
		t.Fatalf("30 against 90/quarter should buy one month, got %v", got)
	}

	got = ComputeNewExpiration(ExtensionInput{
		CurrentExpiration: date(2025, time.March, 31),
		PaymentAmount:     decimal.RequireFromString("10.00"),
		DuesAmount:        decimal.RequireFromString("30.00"),
		CoverageMonths:    decimal.NewFromInt(3),
	})
	if !got.Equal(date(2025, time.April, 30)) {
		t.Fatalf("10 against 30/quarter should buy one month, got %v", got)
	}
}

func TestComputeNewExpirationZeroDuesDefaultsToOneMonth(t *testing.T) {
	got := ComputeNewExpiration(ExtensionInput{
		CurrentExpiration: date(2025, time.March, 31),
		PaymentAmount:     decimal.RequireFromString("30.00"),
		DuesAmount:        decimal.Zero,
		CoverageMonths:    decimal.NewFromInt(1),
	})
	if !got.Equal(date(2025, time.April, 30)) {
		t.Fatalf("zero dues should extend one month, got %v", got)
	}
}

func TestComputeNewExpirationCoverageMultiplier(t *testing.T) {
	// annual schedule: one $300 payment covers 12 months
	got := ComputeNewExpiration(ExtensionInput{
		CurrentExpiration: date(2025, time.January, 31),
		PaymentAmount:     decimal.RequireFromString("300.00"),
		DuesAmount:        decimal.RequireFromString("300.00"),
		CoverageMonths:    decimal.NewFromInt(12),
	})
	if !got.Equal(date(2026, time.January, 31)) {
		t.Fatalf("annual coverage should buy a year, got %v", got)
	}

	// fractional coverage floors the product, not the ratio
	got = ComputeNewExpiration(ExtensionInput{
		CurrentExpiration: date(2025, time.January, 31),
		PaymentAmount:     decimal.RequireFromString("90.00"),
		DuesAmount:        decimal.RequireFromString("30.00"),
		CoverageMonths:    decimal.RequireFromString("0.5"),
	})
	if !got.Equal(date(2025, time.February, 28)) {
		t.Fatalf("3 * 0.5 coverage should buy one month, got %v", got)
	}
}
