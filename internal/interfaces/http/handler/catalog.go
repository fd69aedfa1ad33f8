package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/memoriascard/backend/internal/domain/memorycard"
)

// CatalogHandler serves the choices offered by the card creator
type CatalogHandler struct {
	BaseHandler
}

// NewCatalogHandler creates a new CatalogHandler
func NewCatalogHandler() *CatalogHandler {
	return &CatalogHandler{}
}

// EmojiCatalog lists the emoji choices and the one applied by default
type EmojiCatalog struct {
	Default string   `json:"default"`
	Emojis  []string `json:"emojis"`
}

// ThemeCatalog lists the palettes and the one applied by default
type ThemeCatalog struct {
	Default memorycard.Theme     `json:"default"`
	Themes  []memorycard.Palette `json:"themes"`
}

// ListThemes returns every theme palette in display order
func (h *CatalogHandler) ListThemes(c *gin.Context) {
	h.Success(c, ThemeCatalog{
		Default: memorycard.DefaultTheme,
		Themes:  memorycard.Themes(),
	})
}

// ListEmojis returns the emoji choices
func (h *CatalogHandler) ListEmojis(c *gin.Context) {
	h.Success(c, EmojiCatalog{
		Default: memorycard.DefaultEmoji,
		Emojis:  memorycard.Emojis(),
	})
}
