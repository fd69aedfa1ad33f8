package memorycard

import (
	"strings"

	"github.com/memoriascard/backend/internal/domain/memorycard"
)

// SaveCardInput carries a card as submitted by the card creator
type SaveCardInput struct {
	ID              string
	EventName       string
	PersonName      string
	CelebrationDate string
	Message         string
	Emoji           string
	Theme           memorycard.Theme
	SpotifyLink     string
	Photos          []string
	ExpiresAt       string // optional dd/mm/yyyy; defaults from the store's lifetime
}

func (in SaveCardInput) draft() memorycard.Draft {
	return memorycard.Draft{
		ID:              in.ID,
		EventName:       in.EventName,
		PersonName:      in.PersonName,
		CelebrationDate: in.CelebrationDate,
		Message:         in.Message,
		Emoji:           in.Emoji,
		Theme:           in.Theme,
		SpotifyLink:     in.SpotifyLink,
		Photos:          in.Photos,
	}
}

// SaveCardInputFromCard builds the input that re-saves card as it is
func SaveCardInputFromCard(card *memorycard.MemoryCard) SaveCardInput {
	return SaveCardInput{
		ID:              card.ID,
		EventName:       card.EventName,
		PersonName:      card.PersonName,
		CelebrationDate: card.CelebrationDate,
		Message:         card.Message,
		Emoji:           card.Emoji,
		Theme:           card.Theme,
		SpotifyLink:     card.SpotifyLink,
		Photos:          card.Photos,
		ExpiresAt:       card.ExpiresAt,
	}
}

// UploadPhotoInput is one photo file picked in the card creator
type UploadPhotoInput struct {
	Filename    string
	ContentType string
	Data        []byte
	Folder      string // defaults to the configured photo folder
}

func (in UploadPhotoInput) extension() string {
	if i := strings.LastIndex(in.Filename, "."); i >= 0 && i < len(in.Filename)-1 {
		return strings.ToLower(in.Filename[i+1:])
	}
	switch in.ContentType {
	case "image/png":
		return "png"
	case "image/webp":
		return "webp"
	case "image/gif":
		return "gif"
	default:
		return "jpg"
	}
}

// PublicView is what the public card page renders
type PublicView struct {
	Card            *memorycard.MemoryCard `json:"card"`
	Palette         memorycard.Palette     `json:"palette"`
	SpotifyEmbedURL string                 `json:"spotifyEmbedUrl,omitempty"`
	Preview         bool                   `json:"preview"` // owner viewing an unpaid card
}

// DraftUsage reports how much of the draft budget a user's collection takes
type DraftUsage struct {
	Key         string `json:"key"`
	UsedBytes   int    `json:"usedBytes"`
	BudgetBytes int    `json:"budgetBytes"`
	Cards       int    `json:"cards"`
}
