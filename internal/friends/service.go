// Package friends manages associate contacts attached to a member record.
package friends

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"

	"github.com/srobertsphd/alano-club/pkg/db/models"
	pkgerrors "github.com/srobertsphd/alano-club/pkg/errors"
)

type CreateInput struct {
	MemberID     uuid.UUID
	Name         string
	Relationship string
	Phone        *string
	Email        *string
	Notes        string
}

type UpdateInput struct {
	Name         *string
	Relationship *string
	Phone        *string
	Email        *string
	Notes        *string
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

func (s *Service) Create(ctx context.Context, input CreateInput) (*models.Friend, error) {
	if input.MemberID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "member is required")
	}
	if strings.TrimSpace(input.Name) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}

	friend := &models.Friend{
		MemberID:     input.MemberID,
		Name:         strings.TrimSpace(input.Name),
		Relationship: input.Relationship,
		Phone:        input.Phone,
		Email:        input.Email,
		Notes:        input.Notes,
	}
	if err := s.repo.Create(ctx, friend); err != nil {
		if pkgerrors.IsForeignKeyViolation(err) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "member not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "creating friend")
	}
	return friend, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*models.Friend, error) {
	friend, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading friend")
	}
	if friend == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "friend not found")
	}
	return friend, nil
}

func (s *Service) Update(ctx context.Context, id uuid.UUID, input UpdateInput) (*models.Friend, error) {
	friend, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		if strings.TrimSpace(*input.Name) == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "name cannot be blank")
		}
		friend.Name = strings.TrimSpace(*input.Name)
	}
	if input.Relationship != nil {
		friend.Relationship = *input.Relationship
	}
	if input.Phone != nil {
		friend.Phone = input.Phone
	}
	if input.Email != nil {
		friend.Email = input.Email
	}
	if input.Notes != nil {
		friend.Notes = *input.Notes
	}

	if err := s.repo.Update(ctx, friend); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "updating friend")
	}
	return friend, nil
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "deleting friend")
	}
	return nil
}

func (s *Service) ListByMember(ctx context.Context, memberID uuid.UUID) ([]models.Friend, error) {
	found, err := s.repo.ListByMember(ctx, memberID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing friends")
	}
	return found, nil
}
