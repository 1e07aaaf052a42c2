package payments

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/srobertsphd/alano-club/pkg/db/models"
	"github.com/srobertsphd/alano-club/pkg/pagination"
)

// Repository handles payment persistence. Payments are append-only.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, payment *models.Payment) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Payment, error)
	ListByMember(ctx context.Context, memberID uuid.UUID, params pagination.Params) ([]models.Payment, string, error)
	// FindDuplicate looks for an existing payment matching member, amount and
	// date. The importer uses it to skip rows already loaded.
	FindDuplicate(ctx context.Context, memberID uuid.UUID, amount decimal.Decimal, paymentDate time.Time) (*models.Payment, error)
	SumByDateRange(ctx context.Context, from, to time.Time) (decimal.Decimal, error)
	ListByDateRange(ctx context.Context, from, to time.Time) ([]models.Payment, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository returns a payment repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, payment *models.Payment) error {
	return r.db.WithContext(ctx).Create(payment).Error
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Payment, error) {
	var payment models.Payment
	if err := r.db.WithContext(ctx).
		Preload("PaymentMethod").
		Where("id = ?", id).
		First(&payment).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &payment, nil
}

func (r *repository) ListByMember(ctx context.Context, memberID uuid.UUID, params pagination.Params) ([]models.Payment, string, error) {
	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, "", err
	}

	q := r.db.WithContext(ctx).
		Preload("PaymentMethod").
		Where("member_id = ?", memberID).
		Order("created_at DESC, id DESC")

	if cursor != nil {
		q = q.Where("(created_at, id) < (?, ?)", cursor.CreatedAt, cursor.ID)
	}

	limit := pagination.NormalizeLimit(params.Limit)
	var found []models.Payment
	if err := q.Limit(pagination.LimitWithBuffer(params.Limit)).Find(&found).Error; err != nil {
		return nil, "", err
	}

	next := ""
	if len(found) > limit {
		found = found[:limit]
		last := found[len(found)-1]
		next = pagination.EncodeCursor(pagination.Cursor{CreatedAt: last.CreatedAt, ID: last.ID})
	}
	return found, next, nil
}

func (r *repository) FindDuplicate(ctx context.Context, memberID uuid.UUID, amount decimal.Decimal, paymentDate time.Time) (*models.Payment, error) {
	var payment models.Payment
	if err := r.db.WithContext(ctx).
		Where("member_id = ? AND amount = ? AND payment_date = ?", memberID, amount, paymentDate).
		First(&payment).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &payment, nil
}

func (r *repository) SumByDateRange(ctx context.Context, from, to time.Time) (decimal.Decimal, error) {
	var total *string
	if err := r.db.WithContext(ctx).
		Model(&models.Payment{}).
		Select("CAST(SUM(amount) AS TEXT)").
		Where("payment_date >= ? AND payment_date <= ?", from, to).
		Scan(&total).Error; err != nil {
		return decimal.Zero, err
	}
	if total == nil {
		return decimal.Zero, nil
	}
	return decimal.NewFromString(*total)
}

func (r *repository) ListByDateRange(ctx context.Context, from, to time.Time) ([]models.Payment, error) {
	var found []models.Payment
	if err := r.db.WithContext(ctx).
		Preload("Member").
		Preload("PaymentMethod").
		Where("payment_date >= ? AND payment_date <= ?", from, to).
		Order("payment_date ASC, created_at ASC").
		Find(&found).Error; err != nil {
		return nil, err
	}
	return found, nil
}
