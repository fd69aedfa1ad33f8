package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/memoriascard/backend/internal/interfaces/http/middleware"
)

// MemoryHandler serves the public card page
type MemoryHandler struct {
	BaseHandler
	cards CardUseCases
}

// NewMemoryHandler creates a new MemoryHandler
func NewMemoryHandler(cards CardUseCases) *MemoryHandler {
	return &MemoryHandler{cards: cards}
}

// View renders a paid card for anyone. Unpaid cards answer 404 except to
// their owner, who gets a preview.
func (h *MemoryHandler) View(c *gin.Context) {
	view, err := h.cards.View(c.Request.Context(), middleware.SessionFrom(c), c.Param("id"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, view)
}
