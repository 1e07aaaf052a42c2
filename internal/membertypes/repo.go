package membertypes

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/srobertsphd/alano-club/pkg/db/models"
)

// Repository handles member-type persistence.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, memberType *models.MemberType) error
	Update(ctx context.Context, memberType *models.MemberType) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.MemberType, error)
	FindByName(ctx context.Context, name string) (*models.MemberType, error)
	List(ctx context.Context, activeOnly bool) ([]models.MemberType, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, memberType *models.MemberType) error {
	return r.db.WithContext(ctx).Create(memberType).Error
}

func (r *repository) Update(ctx context.Context, memberType *models.MemberType) error {
	return r.db.WithContext(ctx).Save(memberType).Error
}

func (r *repository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&models.MemberType{}, "id = ?", id).Error
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.MemberType, error) {
	var memberType models.MemberType
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&memberType).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &memberType, nil
}

func (r *repository) FindByName(ctx context.Context, name string) (*models.MemberType, error) {
	var memberType models.MemberType
	if err := r.db.WithContext(ctx).Where("LOWER(name) = LOWER(?)", name).First(&memberType).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &memberType, nil
}

func (r *repository) List(ctx context.Context, activeOnly bool) ([]models.MemberType, error) {
	q := r.db.WithContext(ctx).Model(&models.MemberType{})
	if activeOnly {
		q = q.Where("is_active = ?", true)
	}
	var found []models.MemberType
	if err := q.Order("name ASC").Find(&found).Error; err != nil {
		return nil, err
	}
	return found, nil
}
