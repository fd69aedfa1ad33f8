//go:build integration

package persistence

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	apppayment "github.com/memoriascard/backend/internal/application/payment"
	"github.com/memoriascard/backend/internal/domain/identity"
	"github.com/memoriascard/backend/internal/domain/memorycard"
	"github.com/memoriascard/backend/internal/domain/payment"
	"github.com/memoriascard/backend/internal/domain/shared"
	"github.com/memoriascard/backend/internal/infrastructure/migration"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/zap"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newPostgresDB starts a PostgreSQL container and applies the embedded migrations
func newPostgresDB(t *testing.T) *gorm.DB {
	t.Helper()
	ctx := context.Background()

	container, err := tcpostgres.Run(ctx,
		"postgres:16-alpine",
		tcpostgres.WithDatabase("memoriascard_test"),
		tcpostgres.WithUsername("postgres"),
		tcpostgres.WithPassword("postgres"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	require.NoError(t, err, "Failed to start PostgreSQL container")
	t.Cleanup(func() {
		if err := container.Terminate(context.Background()); err != nil {
			t.Logf("Warning: Failed to terminate container: %v", err)
		}
	})

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	gormConfig := &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	}
	if os.Getenv("TEST_DB_DEBUG") != "" {
		gormConfig.Logger = logger.Default.LogMode(logger.Info)
	}
	db, err := gorm.Open(gormpostgres.Open(dsn), gormConfig)
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	m, err := migration.New(sqlDB, "", zap.NewNop())
	require.NoError(t, err)
	require.NoError(t, m.Up())

	return db
}

func createUser(t *testing.T, db *gorm.DB, email string) *identity.User {
	t.Helper()
	user, err := identity.NewUser(email, "segredo123")
	require.NoError(t, err)
	require.NoError(t, NewGormUserRepository(db).Create(context.Background(), user))
	return user
}

func TestPostgres_MemoryCardLifecycle(t *testing.T) {
	db := newPostgresDB(t)
	ctx := context.Background()
	repo := NewGormMemoryCardRepository(db)
	ana := createUser(t, db, "ana@example.com")

	card := &memorycard.MemoryCard{
		ID:              "card-1",
		UserID:          ana.ID.String(),
		EventName:       "Aniversário",
		PersonName:      "Bia",
		CelebrationDate: "15/10/2026",
		Emoji:           "🎂",
		Theme:           memorycard.ThemeMint,
		Photos:          []string{"https://cdn.example.com/a.jpg"},
		CreatedAt:       time.Now().UTC().Format(time.RFC3339),
	}
	require.NoError(t, repo.Save(ctx, card))

	card.Message = "Parabéns!"
	require.NoError(t, repo.Save(ctx, card))

	found, err := repo.FindByIDForUser(ctx, "card-1", ana.ID.String())
	require.NoError(t, err)
	assert.Equal(t, "Parabéns!", found.Message)
	assert.Equal(t, []string{"https://cdn.example.com/a.jpg"}, found.Photos)
	assert.False(t, found.IsPaid)

	_, err = repo.FindByIDForUser(ctx, "card-1", uuid.NewString())
	assert.ErrorIs(t, err, memorycard.ErrCardNotFound)

	require.NoError(t, repo.MarkPaid(ctx, "card-1"))
	found, err = repo.FindByID(ctx, "card-1")
	require.NoError(t, err)
	assert.True(t, found.IsPaid)

	cards, err := repo.FindByUser(ctx, ana.ID.String())
	require.NoError(t, err)
	assert.Len(t, cards, 1)

	require.NoError(t, repo.DeleteForUser(ctx, "card-1", ana.ID.String()))
	assert.ErrorIs(t, repo.DeleteForUser(ctx, "card-1", ana.ID.String()), memorycard.ErrCardNotFound)
}

func TestPostgres_PaymentHistoryAndTransaction(t *testing.T) {
	db := newPostgresDB(t)
	ctx := context.Background()
	cards := NewGormMemoryCardRepository(db)
	payments := NewGormPaymentRepository(db)
	ana := createUser(t, db, "ana@example.com")

	require.NoError(t, cards.Save(ctx, &memorycard.MemoryCard{
		ID:              "card-1",
		UserID:          ana.ID.String(),
		EventName:       "Casamento",
		PersonName:      "Caio",
		CelebrationDate: "01/11/2026",
		Emoji:           "💍",
		Theme:           memorycard.ThemeGold,
		CreatedAt:       time.Now().UTC().Format(time.RFC3339),
	}))

	p, err := payment.NewPendingPayment(ana.ID, "card-1", "cs_test_1", 1790, "brl")
	require.NoError(t, err)
	require.NoError(t, payments.Create(ctx, p))

	dup, err := payment.NewPendingPayment(ana.ID, "card-1", "cs_test_1", 1790, "brl")
	require.NoError(t, err)
	assert.ErrorIs(t, payments.Create(ctx, dup), shared.ErrAlreadyExists)

	err = NewGormTransactionScope(db).Execute(ctx, func(repos apppayment.TransactionalRepositories) error {
		if err := repos.PaymentRepo().MarkPaidBySession(ctx, "cs_test_1", ana.ID); err != nil {
			return err
		}
		return repos.CardRepo().MarkPaid(ctx, "card-1")
	})
	require.NoError(t, err)

	items, total, err := payments.ListByUser(ctx, ana.ID, shared.Filter{Page: 1, PageSize: 10})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, items, 1)
	assert.Equal(t, "Casamento", items[0].EventName)
	assert.Equal(t, payment.StatusPaid, items[0].Status)

	card, err := cards.FindByID(ctx, "card-1")
	require.NoError(t, err)
	assert.True(t, card.IsPaid)
}

func TestPostgres_TransactionRollsBack(t *testing.T) {
	db := newPostgresDB(t)
	ctx := context.Background()
	payments := NewGormPaymentRepository(db)
	ana := createUser(t, db, "ana@example.com")

	p, err := payment.NewPendingPayment(ana.ID, "card-missing", "cs_test_2", 1790, "brl")
	require.NoError(t, err)
	require.NoError(t, payments.Create(ctx, p))

	err = NewGormTransactionScope(db).Execute(ctx, func(repos apppayment.TransactionalRepositories) error {
		if err := repos.PaymentRepo().MarkPaidBySession(ctx, "cs_test_2", ana.ID); err != nil {
			return err
		}
		return repos.CardRepo().MarkPaid(ctx, "card-missing")
	})
	assert.ErrorIs(t, err, memorycard.ErrCardNotFound)

	stored, err := payments.FindBySessionID(ctx, "cs_test_2")
	require.NoError(t, err)
	assert.Equal(t, payment.StatusPending, stored.Status)
}
