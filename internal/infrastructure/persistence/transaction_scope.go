package persistence

import (
	"context"

	apppayment "github.com/memoriascard/backend/internal/application/payment"
	"github.com/memoriascard/backend/internal/domain/memorycard"
	"github.com/memoriascard/backend/internal/domain/payment"
	"gorm.io/gorm"
)

// GormTransactionScope implements TransactionScope using GORM transactions.
type GormTransactionScope struct {
	db *gorm.DB
}

// NewGormTransactionScope creates a new GormTransactionScope.
func NewGormTransactionScope(db *gorm.DB) *GormTransactionScope {
	return &GormTransactionScope{db: db}
}

// Execute runs fn within a database transaction.
// If fn returns an error, the transaction is rolled back; otherwise it is committed.
func (s *GormTransactionScope) Execute(ctx context.Context, fn func(repos apppayment.TransactionalRepositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormTransactionalRepositories{tx: tx})
	})
}

// gormTransactionalRepositories provides the repositories bound to one transaction.
type gormTransactionalRepositories struct {
	tx *gorm.DB
}

// PaymentRepo returns the payment repository scoped to the current transaction.
func (r *gormTransactionalRepositories) PaymentRepo() payment.Repository {
	return NewGormPaymentRepository(r.tx)
}

// CardRepo returns the memory card repository scoped to the current transaction.
func (r *gormTransactionalRepositories) CardRepo() memorycard.Repository {
	return NewGormMemoryCardRepository(r.tx)
}

var (
	_ apppayment.TransactionScope          = (*GormTransactionScope)(nil)
	_ apppayment.TransactionalRepositories = (*gormTransactionalRepositories)(nil)
)
