package members

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/srobertsphd/alano-club/pkg/db/models"
	"github.com/srobertsphd/alano-club/pkg/enums"
)

// Repository handles member persistence.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, member *models.Member) error
	Update(ctx context.Context, member *models.Member) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Member, error)
	// FindByIDForUpdate locks the member row for the duration of the
	// surrounding transaction so concurrent payments cannot race on
	// expiration_date.
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*models.Member, error)
	FindByMemberNumber(ctx context.Context, number int) (*models.Member, error)
	Search(ctx context.Context, query SearchQuery) ([]models.Member, error)
	ListAll(ctx context.Context) ([]models.Member, error)
	ListExpiringBefore(ctx context.Context, cutoff time.Time) ([]models.Member, error)
	CountByStatus(ctx context.Context, status enums.MemberStatus) (int64, error)
}

// SearchQuery narrows member searches. Name matches first or last name,
// case-insensitively; Statuses defaults to all.
type SearchQuery struct {
	Name         string
	MemberNumber *int
	Statuses     []enums.MemberStatus
	Limit        int
}

type repository struct {
	db *gorm.DB
}

// NewRepository returns a member repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, member *models.Member) error {
	return r.db.WithContext(ctx).Create(member).Error
}

func (r *repository) Update(ctx context.Context, member *models.Member) error {
	return r.db.WithContext(ctx).Save(member).Error
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Member, error) {
	var member models.Member
	if err := r.db.WithContext(ctx).
		Preload("MemberType").
		Where("id = ?", id).
		First(&member).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &member, nil
}

func (r *repository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*models.Member, error) {
	query := r.db.WithContext(ctx).Preload("MemberType")
	// sqlite (used by service tests) has no FOR UPDATE; its writes are
	// serialized anyway
	if r.db.Dialector.Name() == "postgres" {
		query = query.Clauses(clause.Locking{Strength: "UPDATE", Table: clause.Table{Name: "members"}})
	}
	var member models.Member
	if err := query.Where("id = ?", id).First(&member).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &member, nil
}

func (r *repository) FindByMemberNumber(ctx context.Context, number int) (*models.Member, error) {
	var member models.Member
	if err := r.db.WithContext(ctx).
		Preload("MemberType").
		Where("member_number = ?", number).
		First(&member).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &member, nil
}

func (r *repository) Search(ctx context.Context, query SearchQuery) ([]models.Member, error) {
	q := r.db.WithContext(ctx).Model(&models.Member{}).Preload("MemberType")

	if query.MemberNumber != nil {
		q = q.Where("member_number = ?", *query.MemberNumber)
	} else if name := strings.TrimSpace(query.Name); name != "" {
		pattern := "%" + strings.ToLower(name) + "%"
		q = q.Where("LOWER(first_name) LIKE ? OR LOWER(last_name) LIKE ?", pattern, pattern)
	}

	if len(query.Statuses) > 0 {
		q = q.Where("status IN (?)", query.Statuses)
	}

	limit := query.Limit
	if limit <= 0 || limit > 200 {
		limit = 200
	}

	var found []models.Member
	if err := q.Order("last_name ASC, first_name ASC").Limit(limit).Find(&found).Error; err != nil {
		return nil, err
	}
	return found, nil
}

func (r *repository) ListAll(ctx context.Context) ([]models.Member, error) {
	var found []models.Member
	if err := r.db.WithContext(ctx).
		Preload("MemberType").
		Order("last_name ASC, first_name ASC").
		Find(&found).Error; err != nil {
		return nil, err
	}
	return found, nil
}

func (r *repository) ListExpiringBefore(ctx context.Context, cutoff time.Time) ([]models.Member, error) {
	var found []models.Member
	if err := r.db.WithContext(ctx).
		Preload("MemberType").
		Where("status = ?", enums.MemberStatusActive).
		Where("expiration_date IS NOT NULL AND expiration_date < ?", cutoff).
		Order("expiration_date ASC").
		Find(&found).Error; err != nil {
		return nil, err
	}
	return found, nil
}

func (r *repository) CountByStatus(ctx context.Context, status enums.MemberStatus) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.Member{}).
		Where("status = ?", status).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
