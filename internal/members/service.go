package members

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/srobertsphd/alano-club/internal/dues"
	"github.com/srobertsphd/alano-club/pkg/db/models"
	"github.com/srobertsphd/alano-club/pkg/enums"
	pkgerrors "github.com/srobertsphd/alano-club/pkg/errors"
	"github.com/srobertsphd/alano-club/pkg/logger"
)

// ServiceParams groups dependencies for the member service.
type ServiceParams struct {
	Repo   Repository
	Logger *logger.Logger
}

// Service orchestrates member lifecycle operations. Reactivation is owned by
// the payments service; everything else lives here.
type Service struct {
	repo Repository
	logg *logger.Logger
}

// NewService builds a member service.
func NewService(params ServiceParams) (*Service, error) {
	if params.Repo == nil {
		return nil, errors.New("repo is required")
	}
	return &Service{repo: params.Repo, logg: params.Logger}, nil
}

func (s *Service) Create(ctx context.Context, input CreateMemberInput) (*models.Member, error) {
	if strings.TrimSpace(input.FirstName) == "" || strings.TrimSpace(input.LastName) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "first and last name are required")
	}
	if input.MemberTypeID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "member type is required")
	}

	member := &models.Member{
		MemberNumber: input.MemberNumber,
		FirstName:    strings.TrimSpace(input.FirstName),
		LastName:     strings.TrimSpace(input.LastName),
		Email:        input.Email,
		Phone:        input.Phone,
		Address:      input.Address,
		City:         input.City,
		State:        input.State,
		ZipCode:      input.ZipCode,
		MemberTypeID: input.MemberTypeID,
		Status:       enums.MemberStatusActive,
		JoinedOn:     input.JoinedOn,
		Notes:        input.Notes,
	}
	if input.ExpirationDate != nil {
		normalized := dues.EndOfMonth(*input.ExpirationDate)
		member.ExpirationDate = &normalized
	}

	if err := s.repo.Create(ctx, member); err != nil {
		if pkgerrors.IsUniqueViolation(err) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeConflict, err, "member number already in use")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "creating member")
	}
	return member, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*models.Member, error) {
	member, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading member")
	}
	if member == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "member not found")
	}
	return member, nil
}

func (s *Service) Update(ctx context.Context, id uuid.UUID, input UpdateMemberInput) (*models.Member, error) {
	member, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.MemberNumber != nil {
		member.MemberNumber = input.MemberNumber
	}
	if input.FirstName != nil {
		member.FirstName = strings.TrimSpace(*input.FirstName)
	}
	if input.LastName != nil {
		member.LastName = strings.TrimSpace(*input.LastName)
	}
	if input.Email != nil {
		member.Email = input.Email
	}
	if input.Phone != nil {
		member.Phone = input.Phone
	}
	if input.Address != nil {
		member.Address = *input.Address
	}
	if input.City != nil {
		member.City = *input.City
	}
	if input.State != nil {
		member.State = *input.State
	}
	if input.ZipCode != nil {
		member.ZipCode = *input.ZipCode
	}
	if input.MemberTypeID != nil {
		member.MemberTypeID = *input.MemberTypeID
		member.MemberType = nil
	}
	if input.ExpirationDate != nil {
		normalized := dues.EndOfMonth(*input.ExpirationDate)
		member.ExpirationDate = &normalized
	}
	if input.Notes != nil {
		member.Notes = *input.Notes
	}

	if err := s.repo.Update(ctx, member); err != nil {
		if pkgerrors.IsUniqueViolation(err) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeConflict, err, "member number already in use")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "updating member")
	}
	return member, nil
}

// Search resolves a free-text query: an all-digits query is a club number
// lookup, anything else matches names.
func (s *Service) Search(ctx context.Context, input SearchInput) ([]models.Member, error) {
	query := SearchQuery{Limit: input.Limit}

	trimmed := strings.TrimSpace(input.Query)
	if number, err := strconv.Atoi(trimmed); err == nil && trimmed != "" {
		query.MemberNumber = &number
	} else {
		query.Name = trimmed
	}

	if input.Status != "" && input.Status != "all" {
		status, err := enums.ParseMemberStatus(input.Status)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid status filter")
		}
		query.Statuses = []enums.MemberStatus{status}
	}

	found, err := s.repo.Search(ctx, query)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "searching members")
	}
	return found, nil
}

// Deactivate lapses a member, stamping DateInactivated. Payments from an
// inactive member flip them back to active.
func (s *Service) Deactivate(ctx context.Context, id uuid.UUID, asOf time.Time) (*models.Member, error) {
	member, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if member.Status == enums.MemberStatusDeceased {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "deceased members cannot be deactivated")
	}
	if member.Status == enums.MemberStatusInactive {
		return member, nil
	}

	day := asOf.UTC().Truncate(24 * time.Hour)
	member.Status = enums.MemberStatusInactive
	member.DateInactivated = &day

	if err := s.repo.Update(ctx, member); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "deactivating member")
	}
	return member, nil
}

// MarkDeceased is terminal: the member never accepts payments again.
func (s *Service) MarkDeceased(ctx context.Context, id uuid.UUID) (*models.Member, error) {
	member, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if member.Status == enums.MemberStatusDeceased {
		return member, nil
	}

	member.Status = enums.MemberStatusDeceased
	member.DateInactivated = nil

	if err := s.repo.Update(ctx, member); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "marking member deceased")
	}
	if s.logg != nil {
		s.logg.Info(s.logg.WithMemberID(ctx, member.ID.String()), "member marked deceased")
	}
	return member, nil
}

// ListExpiring returns active members whose membership lapses before cutoff.
func (s *Service) ListExpiring(ctx context.Context, cutoff time.Time) ([]models.Member, error) {
	found, err := s.repo.ListExpiringBefore(ctx, cutoff)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing expiring members")
	}
	return found, nil
}

// Stats summarizes membership counts for the search landing surface.
func (s *Service) Stats(ctx context.Context) (map[string]int64, error) {
	stats := map[string]int64{}
	for _, status := range []enums.MemberStatus{
		enums.MemberStatusActive,
		enums.MemberStatusInactive,
		enums.MemberStatusDeceased,
	} {
		count, err := s.repo.CountByStatus(ctx, status)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "counting members")
		}
		stats[string(status)] = count
	}
	return stats, nil
}
