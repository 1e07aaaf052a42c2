package friends

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/srobertsphd/alano-club/pkg/db/models"
)

// Repository handles friend persistence.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, friend *models.Friend) error
	Update(ctx context.Context, friend *models.Friend) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Friend, error)
	ListByMember(ctx context.Context, memberID uuid.UUID) ([]models.Friend, error)
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

func (r *repository) Create(ctx context.Context, friend *models.Friend) error {
	return r.db.WithContext(ctx).Create(friend).Error
}

func (r *repository) Update(ctx context.Context, friend *models.Friend) error {
	return r.db.WithContext(ctx).Save(friend).Error
}

func (r *repository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&models.Friend{}, "id = ?", id).Error
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Friend, error) {
	var friend models.Friend
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&friend).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &friend, nil
}

func (r *repository) ListByMember(ctx context.Context, memberID uuid.UUID) ([]models.Friend, error) {
	var found []models.Friend
	if err := r.db.WithContext(ctx).
		Where("member_id = ?", memberID).
		Order("name ASC").
		Find(&found).Error; err != nil {
		return nil, err
	}
	return found, nil
}
