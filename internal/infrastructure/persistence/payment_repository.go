package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/memoriascard/backend/internal/domain/payment"
	"github.com/memoriascard/backend/internal/domain/shared"
	"github.com/memoriascard/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormPaymentRepository implements payment.Repository using GORM
type GormPaymentRepository struct {
	db *gorm.DB
}

// NewGormPaymentRepository creates a new GormPaymentRepository
func NewGormPaymentRepository(db *gorm.DB) *GormPaymentRepository {
	return &GormPaymentRepository{db: db}
}

// Create stores a new payment
func (r *GormPaymentRepository) Create(ctx context.Context, p *payment.Payment) error {
	model := models.PaymentModelFromDomain(p)
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return shared.ErrAlreadyExists
		}
		return err
	}
	return nil
}

// FindBySessionID finds the payment opened for a checkout session
func (r *GormPaymentRepository) FindBySessionID(ctx context.Context, sessionID string) (*payment.Payment, error) {
	var model models.PaymentModel
	if err := r.db.WithContext(ctx).
		Where("stripe_session_id = ?", sessionID).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// MarkPaidBySession moves the session's payment owned by userID to paid.
// Marking an already paid payment again is not an error.
func (r *GormPaymentRepository) MarkPaidBySession(ctx context.Context, sessionID string, userID uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Model(&models.PaymentModel{}).
		Where("stripe_session_id = ? AND user_id = ?", sessionID, userID).
		Updates(map[string]any{
			"status":     payment.StatusPaid,
			"updated_at": time.Now(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// paymentSummaryRow is the scan target of the history query
type paymentSummaryRow struct {
	ID           uuid.UUID
	MemoryCardID string
	EventName    string
	PersonName   string
	Amount       int64
	Currency     string
	Status       payment.Status
	CreatedAt    time.Time
}

// ListByUser returns the user's payments with card details, newest first.
// Payments whose card was deleted are still listed with empty card fields.
func (r *GormPaymentRepository) ListByUser(ctx context.Context, userID uuid.UUID, filter shared.Filter) ([]payment.Summary, int64, error) {
	filter = filter.Normalize()

	var total int64
	if err := r.db.WithContext(ctx).
		Model(&models.PaymentModel{}).
		Where("user_id = ?", userID).
		Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []paymentSummaryRow
	if err := r.db.WithContext(ctx).
		Table("payments").
		Select(`payments.id, payments.memory_card_id,
			COALESCE(memory_cards.event_name, '') AS event_name,
			COALESCE(memory_cards.person_name, '') AS person_name,
			payments.amount, payments.currency, payments.status, payments.created_at`).
		Joins("LEFT JOIN memory_cards ON memory_cards.id = payments.memory_card_id").
		Where("payments.user_id = ?", userID).
		Order("payments.created_at DESC").
		Offset(filter.Offset()).
		Limit(filter.PageSize).
		Scan(&rows).Error; err != nil {
		return nil, 0, err
	}

	summaries := make([]payment.Summary, len(rows))
	for i, row := range rows {
		summaries[i] = payment.Summary(row)
	}
	return summaries, total, nil
}
