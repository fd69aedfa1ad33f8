package handler

import (
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	appcard "github.com/memoriascard/backend/internal/application/memorycard"
	"github.com/memoriascard/backend/internal/domain/memorycard"
	"github.com/memoriascard/backend/internal/interfaces/http/middleware"
)

// Photo upload error code
const errCodePhotoUpload = "PHOTO_UPLOAD_FAILED"

// CardHandler handles the signed-in user's remote cards
type CardHandler struct {
	BaseHandler
	cards          CardUseCases
	maxUploadBytes int64
}

// NewCardHandler creates a new CardHandler. maxUploadBytes bounds the
// multipart photo read; zero keeps the 10 MB default.
func NewCardHandler(cards CardUseCases, maxUploadBytes int64) *CardHandler {
	if maxUploadBytes <= 0 {
		maxUploadBytes = appcard.DefaultCardServiceConfig().MaxPhotoBytes
	}
	return &CardHandler{
		cards:          cards,
		maxUploadBytes: maxUploadBytes,
	}
}

// List returns the user's cards, newest first
func (h *CardHandler) List(c *gin.Context) {
	cards := h.cards.List(c.Request.Context(), middleware.SessionFrom(c))
	h.Success(c, cards)
}

// GetByID returns one of the user's cards
func (h *CardHandler) GetByID(c *gin.Context) {
	sess := middleware.SessionFrom(c)
	card, ok := h.cards.GetByID(c.Request.Context(), c.Param("id"))
	if !ok || !card.IsOwnedBy(sess.Owner()) {
		h.HandleError(c, memorycard.ErrCardNotFound)
		return
	}
	h.Success(c, card)
}

// Create saves a new card
func (h *CardHandler) Create(c *gin.Context) {
	var req SaveCardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	card, err := h.cards.Save(c.Request.Context(), middleware.SessionFrom(c), req.ToInput())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, card)
}

// Update saves the card named by the path, keeping its payment state
func (h *CardHandler) Update(c *gin.Context) {
	var req SaveCardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}
	req.ID = c.Param("id")

	card, err := h.cards.Save(c.Request.Context(), middleware.SessionFrom(c), req.ToInput())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, card)
}

// Delete removes one of the user's cards
func (h *CardHandler) Delete(c *gin.Context) {
	if !h.cards.Delete(c.Request.Context(), middleware.SessionFrom(c), c.Param("id")) {
		h.InternalError(c, "Memory card could not be deleted")
		return
	}
	h.Success(c, DeleteResponse{Deleted: true})
}

// UploadPhoto stores the multipart "file" field and returns its public URL.
// An optional "folder" field overrides the configured photo folder.
func (h *CardHandler) UploadPhoto(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		h.BadRequest(c, "Photo file is required")
		return
	}
	if fileHeader.Size > h.maxUploadBytes {
		h.Error(c, http.StatusRequestEntityTooLarge, errCodePhotoUpload, "Photo exceeds the upload limit")
		return
	}

	f, err := fileHeader.Open()
	if err != nil {
		h.BadRequest(c, "Photo file could not be read")
		return
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, h.maxUploadBytes+1))
	if err != nil {
		h.BadRequest(c, "Photo file could not be read")
		return
	}

	contentType := fileHeader.Header.Get("Content-Type")
	if contentType == "" || strings.HasPrefix(contentType, "application/octet-stream") {
		contentType = http.DetectContentType(data)
	}

	url, ok := h.cards.UploadPhoto(c.Request.Context(), middleware.SessionFrom(c), appcard.UploadPhotoInput{
		Filename:    fileHeader.Filename,
		ContentType: contentType,
		Data:        data,
		Folder:      c.PostForm("folder"),
	})
	if !ok {
		h.ErrorWithCode(c, errCodePhotoUpload, "Photo could not be uploaded")
		return
	}
	h.Created(c, PhotoUploadResponse{URL: url})
}
