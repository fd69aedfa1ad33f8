package models

import (
	"time"

	"github.com/memoriascard/backend/internal/domain/memorycard"
	"github.com/memoriascard/backend/internal/domain/shared/dateutil"
)

// MemoryCardModel is the persistence model for a memory card.
// Celebration and expiry dates are stored in their dd/mm/yyyy form;
// created_at holds the creation instant.
type MemoryCardModel struct {
	ID              string           `gorm:"type:varchar(64);primary_key"`
	UserID          *string          `gorm:"type:uuid;index"`
	EventName       string           `gorm:"type:varchar(200);not null"`
	PersonName      string           `gorm:"type:varchar(200);not null"`
	CelebrationDate string           `gorm:"type:varchar(10);not null"`
	Message         string           `gorm:"type:text"`
	Emoji           string           `gorm:"type:varchar(32);not null"`
	Theme           memorycard.Theme `gorm:"type:varchar(20);not null;default:'pink'"`
	SpotifyLink     string           `gorm:"type:varchar(500)"`
	Photos          []string         `gorm:"type:jsonb;serializer:json"`
	IsPaid          bool             `gorm:"column:is_paid;not null;default:false"`
	ExpiresAt       string           `gorm:"type:varchar(10)"`
	CreatedAt       time.Time        `gorm:"not null;index"`
	UpdatedAt       time.Time        `gorm:"not null"`
}

// TableName returns the table name for GORM
func (MemoryCardModel) TableName() string {
	return "memory_cards"
}

// ToDomain converts the persistence model to a domain MemoryCard.
func (m *MemoryCardModel) ToDomain() *memorycard.MemoryCard {
	card := &memorycard.MemoryCard{
		ID:              m.ID,
		EventName:       m.EventName,
		PersonName:      m.PersonName,
		CelebrationDate: m.CelebrationDate,
		Message:         m.Message,
		Emoji:           m.Emoji,
		Theme:           m.Theme,
		SpotifyLink:     m.SpotifyLink,
		Photos:          m.Photos,
		IsPaid:          m.IsPaid,
		ExpiresAt:       m.ExpiresAt,
		CreatedTime:     m.CreatedAt,
	}
	if m.UserID != nil {
		card.UserID = *m.UserID
	}
	if card.Photos == nil {
		card.Photos = []string{}
	}
	if !m.CreatedAt.IsZero() {
		card.CreatedAt = dateutil.FormatDisplay(m.CreatedAt)
	}
	return card
}

// FromDomain populates the persistence model from a domain MemoryCard.
// Without a creation instant the dd/mm/yyyy date is stored at local midnight.
func (m *MemoryCardModel) FromDomain(c *memorycard.MemoryCard) {
	m.ID = c.ID
	m.UserID = nil
	if c.UserID != "" {
		uid := c.UserID
		m.UserID = &uid
	}
	m.EventName = c.EventName
	m.PersonName = c.PersonName
	m.CelebrationDate = c.CelebrationDate
	m.Message = c.Message
	m.Emoji = c.Emoji
	m.Theme = c.Theme
	m.SpotifyLink = c.SpotifyLink
	m.Photos = append([]string{}, c.Photos...)
	m.IsPaid = c.IsPaid
	m.ExpiresAt = c.ExpiresAt
	if !c.CreatedTime.IsZero() {
		m.CreatedAt = c.CreatedTime
	} else if t, err := dateutil.Parse(c.CreatedAt); err == nil {
		m.CreatedAt = t
	}
}

// MemoryCardModelFromDomain creates a new persistence model from a domain MemoryCard.
func MemoryCardModelFromDomain(c *memorycard.MemoryCard) *MemoryCardModel {
	m := &MemoryCardModel{}
	m.FromDomain(c)
	return m
}
