package handler

import (
	appcard "github.com/memoriascard/backend/internal/application/memorycard"
	"github.com/memoriascard/backend/internal/domain/memorycard"
)

// SaveCardRequest is a card as submitted by the card creator.
// Field names match the stored camelCase layout.
type SaveCardRequest struct {
	ID              string   `json:"id" binding:"omitempty,max=64"`
	EventName       string   `json:"eventName" binding:"max=100"`
	PersonName      string   `json:"personName" binding:"max=100"`
	CelebrationDate string   `json:"celebrationDate"`
	Message         string   `json:"message" binding:"max=2000"`
	Emoji           string   `json:"emoji"`
	Theme           string   `json:"theme" binding:"cardtheme"`
	SpotifyLink     string   `json:"spotifyLink" binding:"spotifylink"`
	Photos          []string `json:"photos" binding:"omitempty,dive,max=2048"`
	ExpiresAt       string   `json:"expiresAt"`
}

// ToInput converts the request for the card services
func (r SaveCardRequest) ToInput() appcard.SaveCardInput {
	return appcard.SaveCardInput{
		ID:              r.ID,
		EventName:       r.EventName,
		PersonName:      r.PersonName,
		CelebrationDate: r.CelebrationDate,
		Message:         r.Message,
		Emoji:           r.Emoji,
		Theme:           memorycard.Theme(r.Theme),
		SpotifyLink:     r.SpotifyLink,
		Photos:          r.Photos,
		ExpiresAt:       r.ExpiresAt,
	}
}

// PhotoUploadResponse carries the public URL of an uploaded photo
type PhotoUploadResponse struct {
	URL string `json:"url"`
}

// DeleteResponse confirms a removal
type DeleteResponse struct {
	Deleted bool `json:"deleted"`
}
