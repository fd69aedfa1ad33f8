package persistence

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	apppayment "github.com/memoriascard/backend/internal/application/payment"
	"github.com/memoriascard/backend/internal/domain/payment"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGormTransactionScope_Execute(t *testing.T) {
	ctx := context.Background()

	seed := func(t *testing.T) (*GormTransactionScope, *GormPaymentRepository, *GormMemoryCardRepository, uuid.UUID) {
		t.Helper()
		db := setupTestDB(t)
		payments := NewGormPaymentRepository(db)
		cards := NewGormMemoryCardRepository(db)
		userID := uuid.New()

		require.NoError(t, cards.Save(ctx, newCard("card-1", userID.String())))
		p, err := payment.NewPendingPayment(userID, "card-1", "cs_test_1", 1790, "brl")
		require.NoError(t, err)
		require.NoError(t, payments.Create(ctx, p))
		return NewGormTransactionScope(db), payments, cards, userID
	}

	t.Run("commits both updates", func(t *testing.T) {
		scope, payments, cards, userID := seed(t)

		err := scope.Execute(ctx, func(repos apppayment.TransactionalRepositories) error {
			if err := repos.PaymentRepo().MarkPaidBySession(ctx, "cs_test_1", userID); err != nil {
				return err
			}
			return repos.CardRepo().MarkPaid(ctx, "card-1")
		})
		require.NoError(t, err)

		p, err := payments.FindBySessionID(ctx, "cs_test_1")
		require.NoError(t, err)
		assert.True(t, p.IsPaid())
		card, err := cards.FindByID(ctx, "card-1")
		require.NoError(t, err)
		assert.True(t, card.IsPaid)
	})

	t.Run("rolls back on error", func(t *testing.T) {
		scope, payments, cards, userID := seed(t)

		err := scope.Execute(ctx, func(repos apppayment.TransactionalRepositories) error {
			if err := repos.PaymentRepo().MarkPaidBySession(ctx, "cs_test_1", userID); err != nil {
				return err
			}
			return errors.New("card update failed")
		})
		require.Error(t, err)

		p, err := payments.FindBySessionID(ctx, "cs_test_1")
		require.NoError(t, err)
		assert.False(t, p.IsPaid())
		card, err := cards.FindByID(ctx, "card-1")
		require.NoError(t, err)
		assert.False(t, card.IsPaid)
	})
}
