package payments

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/srobertsphd/alano-club/pkg/db/models"
	"github.com/srobertsphd/alano-club/pkg/pagination"
)

// openTestDB builds an in-memory sqlite database with a hand-written schema.
// The production schema is managed by goose; sqlite cannot parse the postgres
// defaults in the model tags, so the tables are created directly here.
func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{SkipDefaultTransaction: true})
	require.NoError(t, err)

	statements := []string{
		`CREATE TABLE member_types (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL UNIQUE,
			description TEXT NOT NULL DEFAULT '',
			dues TEXT NOT NULL DEFAULT '0',
			coverage_months TEXT NOT NULL DEFAULT '1',
			allows_payments INTEGER NOT NULL DEFAULT 1,
			is_active INTEGER NOT NULL DEFAULT 1,
			created_at DATETIME,
			updated_at DATETIME
		)`,
		`CREATE TABLE payment_methods (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL UNIQUE,
			description TEXT NOT NULL DEFAULT '',
			is_active INTEGER NOT NULL DEFAULT 1,
			created_at DATETIME,
			updated_at DATETIME
		)`,
		`CREATE TABLE members (
			id TEXT PRIMARY KEY,
			member_number INTEGER UNIQUE,
			first_name TEXT NOT NULL,
			last_name TEXT NOT NULL,
			email TEXT,
			phone TEXT,
			address TEXT NOT NULL DEFAULT '',
			city TEXT NOT NULL DEFAULT '',
			state TEXT NOT NULL DEFAULT '',
			zip_code TEXT NOT NULL DEFAULT '',
			member_type_id TEXT NOT NULL,
			status TEXT NOT NULL DEFAULT 'active',
			joined_on DATETIME,
			expiration_date DATETIME,
			date_inactivated DATETIME,
			notes TEXT NOT NULL DEFAULT '',
			created_at DATETIME,
			updated_at DATETIME
		)`,
		`CREATE TABLE payments (
			id TEXT PRIMARY KEY,
			member_id TEXT NOT NULL,
			payment_method_id TEXT NOT NULL,
			amount TEXT NOT NULL,
			payment_date DATETIME NOT NULL,
			receipt_number TEXT NOT NULL,
			notes TEXT NOT NULL DEFAULT '',
			created_by TEXT NOT NULL DEFAULT '',
			created_at DATETIME
		)`,
	}
	for _, stmt := range statements {
		require.NoError(t, conn.Exec(stmt).Error)
	}
	return conn
}

func seedPaymentRows(t *testing.T, conn *gorm.DB, memberID uuid.UUID, count int) []models.Payment {
	t.Helper()

	methodID := uuid.New()
	base := time.Date(2025, time.January, 15, 12, 0, 0, 0, time.UTC)
	seeded := make([]models.Payment, 0, count)
	for i := 0; i < count; i++ {
		payment := models.Payment{
			ID:              uuid.New(),
			MemberID:        memberID,
			PaymentMethodID: methodID,
			Amount:          decimal.RequireFromString("30.00"),
			PaymentDate:     base.AddDate(0, 0, i),
			ReceiptNumber:   fmt.Sprintf("R-%04d", i),
			CreatedAt:       base.Add(time.Duration(i) * time.Minute),
		}
		require.NoError(t, conn.Create(&payment).Error)
		seeded = append(seeded, payment)
	}
	return seeded
}

func TestListByMemberPaginates(t *testing.T) {
	conn := openTestDB(t)
	repo := NewRepository(conn)
	memberID := uuid.New()
	seedPaymentRows(t, conn, memberID, 7)
	seedPaymentRows(t, conn, uuid.New(), 3)

	firstPage, next, err := repo.ListByMember(context.Background(), memberID, pagination.Params{Limit: 5})
	require.NoError(t, err)
	require.Len(t, firstPage, 5)
	require.NotEmpty(t, next)

	secondPage, next, err := repo.ListByMember(context.Background(), memberID, pagination.Params{Limit: 5, Cursor: next})
	require.NoError(t, err)
	require.Len(t, secondPage, 2)
	require.Empty(t, next)

	// newest first, no overlap between pages
	seen := map[uuid.UUID]bool{}
	var previous time.Time
	for i, payment := range append(firstPage, secondPage...) {
		require.Falsef(t, seen[payment.ID], "payment %s returned twice", payment.ID)
		seen[payment.ID] = true
		if i > 0 {
			require.Falsef(t, payment.CreatedAt.After(previous), "rows out of order at index %d", i)
		}
		previous = payment.CreatedAt
	}
}

func TestFindDuplicateMatchesMemberAmountAndDate(t *testing.T) {
	conn := openTestDB(t)
	repo := NewRepository(conn)
	memberID := uuid.New()
	seeded := seedPaymentRows(t, conn, memberID, 1)

	found, err := repo.FindDuplicate(context.Background(), memberID, seeded[0].Amount, seeded[0].PaymentDate)
	require.NoError(t, err)
	require.NotNil(t, found)
	require.Equal(t, seeded[0].ID, found.ID)

	missing, err := repo.FindDuplicate(context.Background(), memberID, decimal.RequireFromString("31.00"), seeded[0].PaymentDate)
	require.NoError(t, err)
	require.Nil(t, missing)
}

func TestFindByIDReturnsNilWhenMissing(t *testing.T) {
	conn := openTestDB(t)
	repo := NewRepository(conn)

	found, err := repo.FindByID(context.Background(), uuid.New())
	require.NoError(t, err)
	require.Nil(t, found)
}
