package payment

import (
	"context"

	"github.com/memoriascard/backend/internal/domain/memorycard"
	"github.com/memoriascard/backend/internal/domain/payment"
)

// TransactionScope provides transactional access to the payment and card repositories.
// Marking a payment paid and unlocking its card commit or roll back together.
type TransactionScope interface {
	// Execute runs fn within a database transaction.
	// If fn returns an error, the transaction is rolled back.
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories provides the repositories bound to one transaction
type TransactionalRepositories interface {
	// PaymentRepo returns the payment repository scoped to the current transaction
	PaymentRepo() payment.Repository
	// CardRepo returns the memory card repository scoped to the current transaction
	CardRepo() memorycard.Repository
}

// NoOpTransactionScope runs the function against plain repositories.
// Used by tests and by callers without transaction support.
type NoOpTransactionScope struct {
	paymentRepo payment.Repository
	cardRepo    memorycard.Repository
}

// NewNoOpTransactionScope creates a NoOpTransactionScope with the given repositories
func NewNoOpTransactionScope(paymentRepo payment.Repository, cardRepo memorycard.Repository) *NoOpTransactionScope {
	return &NoOpTransactionScope{
		paymentRepo: paymentRepo,
		cardRepo:    cardRepo,
	}
}

// Execute runs fn without a real transaction
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s)
}

// PaymentRepo returns the payment repository
func (s *NoOpTransactionScope) PaymentRepo() payment.Repository {
	return s.paymentRepo
}

// CardRepo returns the memory card repository
func (s *NoOpTransactionScope) CardRepo() memorycard.Repository {
	return s.cardRepo
}

var (
	_ TransactionScope          = (*NoOpTransactionScope)(nil)
	_ TransactionalRepositories = (*NoOpTransactionScope)(nil)
)
