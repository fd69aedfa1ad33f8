package persistence

import (
	"context"
	"errors"

	"github.com/memoriascard/backend/internal/domain/memorycard"
	"github.com/memoriascard/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// memoryCardUpdateColumns are overwritten when a save hits an existing id.
// created_at and user_id keep their first values.
var memoryCardUpdateColumns = []string{
	"event_name", "person_name", "celebration_date", "message", "emoji",
	"theme", "spotify_link", "photos", "is_paid", "expires_at", "updated_at",
}

// GormMemoryCardRepository implements memorycard.Repository using GORM
type GormMemoryCardRepository struct {
	db *gorm.DB
}

// NewGormMemoryCardRepository creates a new GormMemoryCardRepository
func NewGormMemoryCardRepository(db *gorm.DB) *GormMemoryCardRepository {
	return &GormMemoryCardRepository{db: db}
}

// FindByID finds a card by ID regardless of owner
func (r *GormMemoryCardRepository) FindByID(ctx context.Context, id string) (*memorycard.MemoryCard, error) {
	var model models.MemoryCardModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, memorycard.ErrCardNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByIDForUser finds a card by ID owned by userID
func (r *GormMemoryCardRepository) FindByIDForUser(ctx context.Context, id, userID string) (*memorycard.MemoryCard, error) {
	var model models.MemoryCardModel
	if err := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, memorycard.ErrCardNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByUser returns the user's cards, newest first
func (r *GormMemoryCardRepository) FindByUser(ctx context.Context, userID string) ([]*memorycard.MemoryCard, error) {
	var cardModels []models.MemoryCardModel
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC, updated_at DESC").
		Find(&cardModels).Error; err != nil {
		return nil, err
	}

	cards := make([]*memorycard.MemoryCard, len(cardModels))
	for i := range cardModels {
		cards[i] = cardModels[i].ToDomain()
	}
	return cards, nil
}

// Save inserts the card or updates it in place when the ID exists
func (r *GormMemoryCardRepository) Save(ctx context.Context, card *memorycard.MemoryCard) error {
	model := models.MemoryCardModelFromDomain(card)
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns(memoryCardUpdateColumns),
		}).
		Create(model).Error
}

// DeleteForUser removes a card owned by userID
func (r *GormMemoryCardRepository) DeleteForUser(ctx context.Context, id, userID string) error {
	result := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		Delete(&models.MemoryCardModel{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return memorycard.ErrCardNotFound
	}
	return nil
}

// MarkPaid sets is_paid on the card
func (r *GormMemoryCardRepository) MarkPaid(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).
		Model(&models.MemoryCardModel{}).
		Where("id = ?", id).
		Update("is_paid", true)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return memorycard.ErrCardNotFound
	}
	return nil
}
