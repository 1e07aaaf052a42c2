package importer

import (
	"context"
	"fmt"
	"io"

	"github.com/shopspring/decimal"

	"github.com/srobertsphd/alano-club/internal/membertypes"
	"github.com/srobertsphd/alano-club/internal/paymentmethods"
	"github.com/srobertsphd/alano-club/pkg/db/models"
)

// ImportMemberTypes loads dues schedules from a CSV with columns
// name, description, dues, coverage_months, allows_payments.
func ImportMemberTypes(ctx context.Context, repo membertypes.Repository, reader io.Reader) (*Summary, error) {
	summary := &Summary{}
	err := forEachRow(reader, summary, func(r row) RowOutcome {
		name := r.get("name")
		if name == "" {
			return failed(r.number, fmt.Errorf("name is required"))
		}

		existing, err := repo.FindByName(ctx, name)
		if err != nil {
			return failed(r.number, err)
		}
		if existing != nil {
			return RowOutcome{Row: r.number, Action: ActionDuplicate}
		}

		dues := decimal.Zero
		if raw := r.get("dues"); raw != "" {
			if dues, err = decimal.NewFromString(raw); err != nil {
				return failed(r.number, fmt.Errorf("dues: %w", err))
			}
		}
		coverage := decimal.NewFromInt(1)
		if raw := r.get("coverage_months"); raw != "" {
			if coverage, err = decimal.NewFromString(raw); err != nil {
				return failed(r.number, fmt.Errorf("coverage_months: %w", err))
			}
		}

		memberType := &models.MemberType{
			Name:           name,
			Description:    r.get("description"),
			Dues:           dues,
			CoverageMonths: coverage,
			AllowsPayments: r.get("allows_payments") != "false",
			IsActive:       true,
		}
		if err := repo.Create(ctx, memberType); err != nil {
			return failed(r.number, err)
		}
		return RowOutcome{Row: r.number, Action: ActionCreated}
	})
	if err != nil {
		return nil, err
	}
	return summary, nil
}

// ImportPaymentMethods loads tender types from a CSV with columns
// name, description.
func ImportPaymentMethods(ctx context.Context, repo paymentmethods.Repository, reader io.Reader) (*Summary, error) {
	summary := &Summary{}
	err := forEachRow(reader, summary, func(r row) RowOutcome {
		name := r.get("name")
		if name == "" {
			return failed(r.number, fmt.Errorf("name is required"))
		}

		existing, err := repo.FindByName(ctx, name)
		if err != nil {
			return failed(r.number, err)
		}
		if existing != nil {
			return RowOutcome{Row: r.number, Action: ActionDuplicate}
		}

		method := &models.PaymentMethod{
			Name:        name,
			Description: r.get("description"),
			IsActive:    true,
		}
		if err := repo.Create(ctx, method); err != nil {
			return failed(r.number, err)
		}
		return RowOutcome{Row: r.number, Action: ActionCreated}
	})
	if err != nil {
		return nil, err
	}
	return summary, nil
}
