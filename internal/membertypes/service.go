// Package membertypes manages the dues schedules members are billed under.
package membertypes

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/srobertsphd/alano-club/pkg/db/models"
	pkgerrors "github.com/srobertsphd/alano-club/pkg/errors"
)

// CreateInput is the payload for a new dues schedule.
type CreateInput struct {
	Name           string
	Description    string
	Dues           decimal.Decimal
	CoverageMonths decimal.Decimal
	AllowsPayments bool
}

// UpdateInput carries partial updates; nil fields are left untouched.
type UpdateInput struct {
	Name           *string
	Description    *string
	Dues           *decimal.Decimal
	CoverageMonths *decimal.Decimal
	AllowsPayments *bool
	IsActive       *bool
}

type ServiceParams struct {
	Repo Repository
}

type Service struct {
	repo Repository
}

func NewService(params ServiceParams) (*Service, error) {
	if params.Repo == nil {
		return nil, errors.New("repo is required")
	}
	return &Service{repo: params.Repo}, nil
}

func (s *Service) Create(ctx context.Context, input CreateInput) (*models.MemberType, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}
	if input.Dues.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "dues cannot be negative")
	}
	coverage := input.CoverageMonths
	if !coverage.IsPositive() {
		coverage = decimal.NewFromInt(1)
	}

	memberType := &models.MemberType{
		Name:           strings.TrimSpace(input.Name),
		Description:    input.Description,
		Dues:           input.Dues,
		CoverageMonths: coverage,
		AllowsPayments: input.AllowsPayments,
		IsActive:       true,
	}
	if err := s.repo.Create(ctx, memberType); err != nil {
		if pkgerrors.IsUniqueViolation(err) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeConflict, err, "member type name already exists")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "creating member type")
	}
	return memberType, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*models.MemberType, error) {
	memberType, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading member type")
	}
	if memberType == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "member type not found")
	}
	return memberType, nil
}

func (s *Service) Update(ctx context.Context, id uuid.UUID, input UpdateInput) (*models.MemberType, error) {
	memberType, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		if strings.TrimSpace(*input.Name) == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "name cannot be blank")
		}
		memberType.Name = strings.TrimSpace(*input.Name)
	}
	if input.Description != nil {
		memberType.Description = *input.Description
	}
	if input.Dues != nil {
		if input.Dues.IsNegative() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "dues cannot be negative")
		}
		memberType.Dues = *input.Dues
	}
	if input.CoverageMonths != nil {
		if !input.CoverageMonths.IsPositive() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "coverage months must be positive")
		}
		memberType.CoverageMonths = *input.CoverageMonths
	}
	if input.AllowsPayments != nil {
		memberType.AllowsPayments = *input.AllowsPayments
	}
	if input.IsActive != nil {
		memberType.IsActive = *input.IsActive
	}

	if err := s.repo.Update(ctx, memberType); err != nil {
		if pkgerrors.IsUniqueViolation(err) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeConflict, err, "member type name already exists")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "updating member type")
	}
	return memberType, nil
}

// Delete removes a dues schedule. A schedule still referenced by members is
// protected by the database and surfaces as a conflict.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		if pkgerrors.IsForeignKeyViolation(err) {
			return pkgerrors.Wrap(pkgerrors.CodeConflict, err, "member type is still assigned to members")
		}
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "deleting member type")
	}
	return nil
}

func (s *Service) List(ctx context.Context, activeOnly bool) ([]models.MemberType, error) {
	found, err := s.repo.List(ctx, activeOnly)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing member types")
	}
	return found, nil
}
