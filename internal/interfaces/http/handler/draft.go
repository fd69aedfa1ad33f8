package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/memoriascard/backend/internal/interfaces/http/middleware"
)

// DraftHandler serves the user's unsubmitted cards from the local store
type DraftHandler struct {
	BaseHandler
	drafts DraftUseCases
}

// NewDraftHandler creates a new DraftHandler
func NewDraftHandler(drafts DraftUseCases) *DraftHandler {
	return &DraftHandler{drafts: drafts}
}

// List returns every draft, oldest first as stored
func (h *DraftHandler) List(c *gin.Context) {
	cards, err := h.drafts.List(c.Request.Context(), middleware.SessionFrom(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, cards)
}

// GetByID returns one draft
func (h *DraftHandler) GetByID(c *gin.Context) {
	card, err := h.drafts.Get(c.Request.Context(), middleware.SessionFrom(c), c.Param("id"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, card)
}

// Save upserts the draft named by the path. A collection over the storage
// budget is rejected with 507 and left unchanged.
func (h *DraftHandler) Save(c *gin.Context) {
	var req SaveCardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}
	req.ID = c.Param("id")

	card, err := h.drafts.Save(c.Request.Context(), middleware.SessionFrom(c), req.ToInput())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, card)
}

// Delete removes one draft
func (h *DraftHandler) Delete(c *gin.Context) {
	if err := h.drafts.Delete(c.Request.Context(), middleware.SessionFrom(c), c.Param("id")); err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, DeleteResponse{Deleted: true})
}

// Clear removes every draft
func (h *DraftHandler) Clear(c *gin.Context) {
	if err := h.drafts.Clear(c.Request.Context(), middleware.SessionFrom(c)); err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, DeleteResponse{Deleted: true})
}

// Usage reports the bytes the collection takes against the budget
func (h *DraftHandler) Usage(c *gin.Context) {
	usage, err := h.drafts.Usage(c.Request.Context(), middleware.SessionFrom(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, usage)
}

// Publish moves a draft to the remote card service
func (h *DraftHandler) Publish(c *gin.Context) {
	card, err := h.drafts.Publish(c.Request.Context(), middleware.SessionFrom(c), c.Param("id"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, card)
}
