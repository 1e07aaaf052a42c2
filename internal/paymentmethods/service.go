// Package paymentmethods manages the tender types a payment can arrive by.
package paymentmethods

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"

	"github.com/srobertsphd/alano-club/pkg/db/models"
	pkgerrors "github.com/srobertsphd/alano-club/pkg/errors"
)

type CreateInput struct {
	Name        string
	Description string
}

type UpdateInput struct {
	Name        *string
	Description *string
	IsActive    *bool
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

func (s *Service) Create(ctx context.Context, input CreateInput) (*models.PaymentMethod, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}

	method := &models.PaymentMethod{
		Name:        strings.TrimSpace(input.Name),
		Description: input.Description,
		IsActive:    true,
	}
	if err := s.repo.Create(ctx, method); err != nil {
		if pkgerrors.IsUniqueViolation(err) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeConflict, err, "payment method name already exists")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "creating payment method")
	}
	return method, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*models.PaymentMethod, error) {
	method, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading payment method")
	}
	if method == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "payment method not found")
	}
	return method, nil
}

func (s *Service) Update(ctx context.Context, id uuid.UUID, input UpdateInput) (*models.PaymentMethod, error) {
	method, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		if strings.TrimSpace(*input.Name) == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "name cannot be blank")
		}
		method.Name = strings.TrimSpace(*input.Name)
	}
	if input.Description != nil {
		method.Description = *input.Description
	}
	if input.IsActive != nil {
		method.IsActive = *input.IsActive
	}

	if err := s.repo.Update(ctx, method); err != nil {
		if pkgerrors.IsUniqueViolation(err) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeConflict, err, "payment method name already exists")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "updating payment method")
	}
	return method, nil
}

// Delete removes a tender type. Methods with recorded payments are protected
// by the database and surface as a conflict; deactivate those instead.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		if pkgerrors.IsForeignKeyViolation(err) {
			return pkgerrors.Wrap(pkgerrors.CodeConflict, err, "payment method has recorded payments")
		}
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "deleting payment method")
	}
	return nil
}

func (s *Service) List(ctx context.Context, activeOnly bool) ([]models.PaymentMethod, error) {
	found, err := s.repo.List(ctx, activeOnly)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing payment methods")
	}
	return found, nil
}
