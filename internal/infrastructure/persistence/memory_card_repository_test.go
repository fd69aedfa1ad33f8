package persistence

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/memoriascard/backend/internal/domain/memorycard"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// newMockMemoryCardRepository creates a GormMemoryCardRepository with a mocked SQL connection
func newMockMemoryCardRepository(t *testing.T) (*GormMemoryCardRepository, sqlmock.Sqlmock, *sql.DB) {
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	dialector := postgres.New(postgres.Config{
		Conn:       mockDB,
		DriverName: "postgres",
	})

	gormDB, err := gorm.Open(dialector, &gorm.Config{
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)

	return NewGormMemoryCardRepository(gormDB), mock, mockDB
}

func newCard(id, userID string) *memorycard.MemoryCard {
	return &memorycard.MemoryCard{
		ID:              id,
		UserID:          userID,
		EventName:       "Aniversário",
		PersonName:      "Ana",
		CelebrationDate: "12/08/2025",
		Emoji:           "🎂",
		Theme:           memorycard.ThemePink,
		Photos:          []string{"https://cdn.example.com/a.jpg"},
		CreatedAt:       "01/06/2025",
		ExpiresAt:       "01/06/2026",
	}
}

func TestGormMemoryCardRepository_FindByID_SQL(t *testing.T) {
	t.Run("queries by id", func(t *testing.T) {
		repo, mock, mockDB := newMockMemoryCardRepository(t)
		defer mockDB.Close()

		rows := sqlmock.NewRows([]string{"id", "event_name", "person_name", "celebration_date", "emoji", "theme", "photos", "is_paid", "expires_at"}).
			AddRow("card-1", "Casamento", "Clara", "20/12/2025", "💍", "gold", `["p1"]`, true, "20/12/2026")

		mock.ExpectQuery(`SELECT \* FROM "memory_cards" WHERE id = \$1 ORDER BY .* LIMIT .*`).
			WithArgs("card-1", 1).
			WillReturnRows(rows)

		card, err := repo.FindByID(context.Background(), "card-1")

		require.NoError(t, err)
		assert.Equal(t, "Casamento", card.EventName)
		assert.Equal(t, memorycard.ThemeGold, card.Theme)
		assert.Equal(t, []string{"p1"}, card.Photos)
		assert.True(t, card.IsPaid)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("maps missing row to card not found", func(t *testing.T) {
		repo, mock, mockDB := newMockMemoryCardRepository(t)
		defer mockDB.Close()

		mock.ExpectQuery(`SELECT \* FROM "memory_cards" WHERE id = \$1 ORDER BY .* LIMIT .*`).
			WithArgs("missing", 1).
			WillReturnError(gorm.ErrRecordNotFound)

		card, err := repo.FindByID(context.Background(), "missing")

		assert.Nil(t, card)
		assert.ErrorIs(t, err, memorycard.ErrCardNotFound)
	})
}

func TestGormMemoryCardRepository_Save(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormMemoryCardRepository(db)
	ctx := context.Background()
	userID := uuid.NewString()

	t.Run("inserts then updates in place", func(t *testing.T) {
		card := newCard("card-1", userID)
		require.NoError(t, repo.Save(ctx, card))

		card.PersonName = "Beatriz"
		card.Photos = nil
		require.NoError(t, repo.Save(ctx, card))

		var count int64
		db.Table("memory_cards").Count(&count)
		assert.Equal(t, int64(1), count)

		found, err := repo.FindByID(ctx, "card-1")
		require.NoError(t, err)
		assert.Equal(t, "Beatriz", found.PersonName)
		assert.Equal(t, userID, found.UserID)
		assert.Equal(t, "01/06/2025", found.CreatedAt)
		assert.Empty(t, found.Photos)
	})

	t.Run("anonymous cards have no owner", func(t *testing.T) {
		require.NoError(t, repo.Save(ctx, newCard("anon", "")))

		found, err := repo.FindByID(ctx, "anon")
		require.NoError(t, err)
		assert.Empty(t, found.UserID)

		_, err = repo.FindByIDForUser(ctx, "anon", userID)
		assert.ErrorIs(t, err, memorycard.ErrCardNotFound)
	})
}

func TestGormMemoryCardRepository_FindByUser(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormMemoryCardRepository(db)
	ctx := context.Background()
	userID := uuid.NewString()

	older := newCard("older", userID)
	older.CreatedAt = "01/01/2025"
	newer := newCard("newer", userID)
	newer.CreatedAt = "01/05/2025"
	require.NoError(t, repo.Save(ctx, older))
	require.NoError(t, repo.Save(ctx, newer))
	require.NoError(t, repo.Save(ctx, newCard("someone-else", uuid.NewString())))

	cards, err := repo.FindByUser(ctx, userID)

	require.NoError(t, err)
	require.Len(t, cards, 2)
	assert.Equal(t, "newer", cards[0].ID)
	assert.Equal(t, "older", cards[1].ID)

	none, err := repo.FindByUser(ctx, uuid.NewString())
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestGormMemoryCardRepository_FindByUser_SameDay(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormMemoryCardRepository(db)
	ctx := context.Background()
	userID := uuid.NewString()

	first := newCard("created-first", userID)
	first.CreatedTime = time.Date(2025, time.June, 1, 9, 0, 0, 0, time.UTC)
	second := newCard("created-second", userID)
	second.CreatedTime = time.Date(2025, time.June, 1, 11, 0, 0, 0, time.UTC)
	require.NoError(t, repo.Save(ctx, first))
	require.NoError(t, repo.Save(ctx, second))

	first.Message = "Editado depois"
	require.NoError(t, repo.Save(ctx, first))

	cards, err := repo.FindByUser(ctx, userID)

	require.NoError(t, err)
	require.Len(t, cards, 2)
	assert.Equal(t, "created-second", cards[0].ID)
	assert.Equal(t, "created-first", cards[1].ID)
	assert.Equal(t, "Editado depois", cards[1].Message)
	assert.Equal(t, "01/06/2025", cards[0].CreatedAt)
}

func TestGormMemoryCardRepository_DeleteForUser(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormMemoryCardRepository(db)
	ctx := context.Background()
	owner := uuid.NewString()
	require.NoError(t, repo.Save(ctx, newCard("card-1", owner)))

	t.Run("other users cannot delete", func(t *testing.T) {
		err := repo.DeleteForUser(ctx, "card-1", uuid.NewString())
		assert.ErrorIs(t, err, memorycard.ErrCardNotFound)
	})

	t.Run("owner deletes", func(t *testing.T) {
		require.NoError(t, repo.DeleteForUser(ctx, "card-1", owner))
		_, err := repo.FindByID(ctx, "card-1")
		assert.ErrorIs(t, err, memorycard.ErrCardNotFound)
	})
}

func TestGormMemoryCardRepository_MarkPaid(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormMemoryCardRepository(db)
	ctx := context.Background()
	require.NoError(t, repo.Save(ctx, newCard("card-1", uuid.NewString())))

	require.NoError(t, repo.MarkPaid(ctx, "card-1"))
	require.NoError(t, repo.MarkPaid(ctx, "card-1"))

	found, err := repo.FindByID(ctx, "card-1")
	require.NoError(t, err)
	assert.True(t, found.IsPaid)

	assert.ErrorIs(t, repo.MarkPaid(ctx, "missing"), memorycard.ErrCardNotFound)
}
