package handler

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	appcard "github.com/memoriascard/backend/internal/application/memorycard"
	"github.com/memoriascard/backend/internal/domain/identity"
	"github.com/memoriascard/backend/internal/domain/memorycard"
	"github.com/memoriascard/backend/internal/interfaces/http/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestCatalogHandler(t *testing.T) {
	h := NewCatalogHandler()
	r := gin.New()
	r.GET("/catalog/themes", h.ListThemes)
	r.GET("/catalog/emojis", h.ListEmojis)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", "/catalog/themes", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	themes := decodeResponse(t, w).Data.(map[string]interface{})
	assert.Equal(t, "pink", themes["default"])
	palettes := themes["themes"].([]interface{})
	require.Len(t, palettes, 6)
	assert.Equal(t, "pink", palettes[0].(map[string]interface{})["theme"])
	assert.NotEmpty(t, palettes[0].(map[string]interface{})["accent"])

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", "/catalog/emojis", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	emojis := decodeResponse(t, w).Data.(map[string]interface{})
	assert.Equal(t, "❤️", emojis["default"])
	assert.Len(t, emojis["emojis"], 10)
}

func TestMemoryHandler_View(t *testing.T) {
	owner := uuid.New()

	newRouter := func(svc *MockCardService, userID uuid.UUID) *gin.Engine {
		r := gin.New()
		r.Use(middleware.Notifications())
		if userID != uuid.Nil {
			r.Use(withUser(userID))
		}
		r.GET("/memory/:id", NewMemoryHandler(svc).View)
		return r
	}

	t.Run("paid card is public", func(t *testing.T) {
		card := testCard(owner)
		card.IsPaid = true
		svc := new(MockCardService)
		svc.On("View", mock.Anything, identity.Session{}, "card-1").Return(&appcard.PublicView{
			Card:            card,
			Palette:         memorycard.ThemeMint.Palette(),
			SpotifyEmbedURL: "https://open.spotify.com/embed/track/abc?utm_source=generator",
		}, nil)

		w := httptest.NewRecorder()
		newRouter(svc, uuid.Nil).ServeHTTP(w, httptest.NewRequest("GET", "/memory/card-1", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		data := decodeResponse(t, w).Data.(map[string]interface{})
		assert.Equal(t, "https://open.spotify.com/embed/track/abc?utm_source=generator", data["spotifyEmbedUrl"])
		assert.Equal(t, false, data["preview"])
	})

	t.Run("unpaid card is not found", func(t *testing.T) {
		svc := new(MockCardService)
		svc.On("View", mock.Anything, mock.Anything, "card-1").Return(nil, memorycard.ErrCardNotFound)

		w := httptest.NewRecorder()
		newRouter(svc, uuid.New()).ServeHTTP(w, httptest.NewRequest("GET", "/memory/card-1", nil))

		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Equal(t, "CARD_NOT_FOUND", decodeResponse(t, w).Error.Code)
	})

	t.Run("owner session reaches the service", func(t *testing.T) {
		svc := new(MockCardService)
		svc.On("View", mock.Anything, identity.NewSession(owner, "ana@example.com"), "card-1").
			Return(&appcard.PublicView{Card: testCard(owner), Preview: true}, nil)

		w := httptest.NewRecorder()
		newRouter(svc, owner).ServeHTTP(w, httptest.NewRequest("GET", "/memory/card-1", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, true, decodeResponse(t, w).Data.(map[string]interface{})["preview"])
		svc.AssertExpectations(t)
	})
}
