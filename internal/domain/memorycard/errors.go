package memorycard

import "github.com/memoriascard/backend/internal/domain/shared"

// Card-specific domain errors
var (
	ErrCardNotFound       = shared.NewDomainError("CARD_NOT_FOUND", "Memory card not found")
	ErrCardNotPaid        = shared.NewDomainError("CARD_NOT_PAID", "Memory card has not been paid yet")
	ErrInvalidSpotifyLink = shared.NewDomainError("INVALID_SPOTIFY_LINK", "Spotify link must point to spotify.com")
	ErrCardForbidden      = shared.NewDomainError("CARD_FORBIDDEN", "Memory card belongs to another user")
)
