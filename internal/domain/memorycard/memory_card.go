package memorycard

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/memoriascard/backend/internal/domain/shared"
	"github.com/memoriascard/backend/internal/domain/shared/dateutil"
)

const (
	// MaxStoredPhotos is the photo cap applied by the local store
	MaxStoredPhotos = 3

	// LocalExpiryDays is the default lifetime of a locally stored card
	LocalExpiryDays = 30
	// RemoteExpiryDays is the default lifetime of a card saved to the database
	RemoteExpiryDays = 365

	maxNameLength    = 200
	maxMessageLength = 5000
)

// MemoryCard is a shareable greeting-card page.
// JSON field names follow the layout persisted by the local store.
type MemoryCard struct {
	ID              string   `json:"id"`
	UserID          string   `json:"userId,omitempty"`
	EventName       string   `json:"eventName"`
	PersonName      string   `json:"personName"`
	CelebrationDate string   `json:"celebrationDate"`
	Message         string   `json:"message,omitempty"`
	Emoji           string   `json:"emoji"`
	Theme           Theme    `json:"theme"`
	SpotifyLink     string   `json:"spotifyLink,omitempty"`
	Photos          []string `json:"photos"`
	CreatedAt       string   `json:"createdAt"`
	ExpiresAt       string   `json:"expiresAt"`
	IsPaid          bool     `json:"is_paid"`

	// CreatedTime is the creation instant behind CreatedAt. Only the
	// database keeps it; the local store has just the display date.
	CreatedTime time.Time `json:"-"`
}

// Draft carries the fields a user fills in the card creator
type Draft struct {
	ID              string
	EventName       string
	PersonName      string
	CelebrationDate string
	Message         string
	Emoji           string
	Theme           Theme
	SpotifyLink     string
	Photos          []string
}

// NewMemoryCard validates a draft and builds an unpaid card expiring expiryDays from now
func NewMemoryCard(d Draft, now time.Time, expiryDays int) (*MemoryCard, error) {
	card := &MemoryCard{
		ID:              strings.TrimSpace(d.ID),
		EventName:       strings.TrimSpace(d.EventName),
		PersonName:      strings.TrimSpace(d.PersonName),
		CelebrationDate: strings.TrimSpace(d.CelebrationDate),
		Message:         d.Message,
		Emoji:           d.Emoji,
		Theme:           d.Theme,
		SpotifyLink:     strings.TrimSpace(d.SpotifyLink),
		Photos:          d.Photos,
	}
	card.ApplyDefaults(now, expiryDays)

	if err := card.Validate(); err != nil {
		return nil, err
	}
	return card, nil
}

// ApplyDefaults fills the id, emoji, theme and timestamps left empty
func (c *MemoryCard) ApplyDefaults(now time.Time, expiryDays int) {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	if strings.TrimSpace(c.Emoji) == "" {
		c.Emoji = DefaultEmoji
	}
	if c.Theme == "" {
		c.Theme = DefaultTheme
	}
	if c.CreatedAt == "" {
		c.CreatedAt = dateutil.FormatDisplay(now)
		c.CreatedTime = now
	}
	if c.ExpiresAt == "" {
		c.ExpiresAt = dateutil.ExpiryAfter(now, expiryDays)
	}
}

// Validate checks the invariants a card must satisfy before it can be submitted
func (c *MemoryCard) Validate() error {
	if strings.TrimSpace(c.EventName) == "" {
		return shared.NewDomainError("EVENT_NAME_REQUIRED", "Event name cannot be empty")
	}
	if len(c.EventName) > maxNameLength {
		return shared.NewDomainError("EVENT_NAME_TOO_LONG", "Event name cannot exceed 200 characters")
	}
	if strings.TrimSpace(c.PersonName) == "" {
		return shared.NewDomainError("PERSON_NAME_REQUIRED", "Person name cannot be empty")
	}
	if len(c.PersonName) > maxNameLength {
		return shared.NewDomainError("PERSON_NAME_TOO_LONG", "Person name cannot exceed 200 characters")
	}
	if strings.TrimSpace(c.CelebrationDate) == "" {
		return shared.NewDomainError("CELEBRATION_DATE_REQUIRED", "Celebration date cannot be empty")
	}
	if _, err := dateutil.Parse(c.CelebrationDate); err != nil {
		return shared.NewDomainError("INVALID_CELEBRATION_DATE", "Celebration date must be dd/mm/yyyy, yyyy-mm-dd or an RFC 3339 timestamp")
	}
	if len(c.Message) > maxMessageLength {
		return shared.NewDomainError("MESSAGE_TOO_LONG", "Message cannot exceed 5000 characters")
	}
	if !ValidSpotifyLink(c.SpotifyLink) {
		return ErrInvalidSpotifyLink
	}
	if c.Theme != "" && !c.Theme.IsValid() {
		return shared.NewDomainError("INVALID_THEME", "Unknown theme")
	}
	if c.Emoji != "" && !validEmoji(c.Emoji) {
		return shared.NewDomainError("INVALID_EMOJI", "Emoji must be a single short glyph")
	}
	return nil
}

// CapPhotos keeps the first max photos in their original order
func (c *MemoryCard) CapPhotos(max int) {
	if c.Photos != nil && len(c.Photos) > max {
		c.Photos = append([]string(nil), c.Photos[:max]...)
	}
}

// AssignOwner stamps the owning user
func (c *MemoryCard) AssignOwner(userID string) {
	c.UserID = userID
}

// IsOwnedBy reports whether userID owns the card
func (c *MemoryCard) IsOwnedBy(userID string) bool {
	return c.UserID != "" && c.UserID == userID
}

// MarkPaid unlocks sharing. Paid is terminal.
func (c *MemoryCard) MarkPaid() {
	c.IsPaid = true
}

// IsShareable reports whether the public view may render the card
func (c *MemoryCard) IsShareable() bool {
	return c.IsPaid
}

// IsExpired reports whether the card's expiry date has passed.
// A missing or unreadable expiry counts as expired.
func (c *MemoryCard) IsExpired(now time.Time) bool {
	expired, err := dateutil.IsExpired(c.ExpiresAt, now)
	if err != nil {
		return true
	}
	return expired
}

// SpotifyEmbedURL returns the embeddable player URL when the card has a track link
func (c *MemoryCard) SpotifyEmbedURL() (string, bool) {
	if c.SpotifyLink == "" {
		return "", false
	}
	return SpotifyEmbedURL(c.SpotifyLink)
}

// Clone returns a deep copy of the card
func (c *MemoryCard) Clone() *MemoryCard {
	cp := *c
	if c.Photos != nil {
		cp.Photos = append([]string(nil), c.Photos...)
	}
	return &cp
}
