package handler

import (
	"github.com/gin-gonic/gin"
	appidentity "github.com/memoriascard/backend/internal/application/identity"
	"github.com/memoriascard/backend/internal/interfaces/http/middleware"
)

// ProfileHandler serves the caller's profile
type ProfileHandler struct {
	BaseHandler
	profiles ProfileUseCases
}

// NewProfileHandler creates a new ProfileHandler
func NewProfileHandler(profiles ProfileUseCases) *ProfileHandler {
	return &ProfileHandler{profiles: profiles}
}

// Get returns the caller's profile
func (h *ProfileHandler) Get(c *gin.Context) {
	sess := middleware.SessionFrom(c)
	if !sess.IsAuthenticated() {
		h.NotAuthenticated(c)
		return
	}

	profile, err := h.profiles.Get(c.Request.Context(), sess.UserID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, profile)
}

// Update edits the caller's full name and avatar
func (h *ProfileHandler) Update(c *gin.Context) {
	sess := middleware.SessionFrom(c)
	if !sess.IsAuthenticated() {
		h.NotAuthenticated(c)
		return
	}

	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	profile, err := h.profiles.Update(c.Request.Context(), sess.UserID, appidentity.UpdateProfileInput{
		FullName:  req.FullName,
		AvatarURL: req.AvatarURL,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, profile)
}
