package handler

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	appcard "github.com/memoriascard/backend/internal/application/memorycard"
	"github.com/memoriascard/backend/internal/domain/identity"
	"github.com/memoriascard/backend/internal/domain/memorycard"
	"github.com/memoriascard/backend/internal/domain/shared"
	"github.com/memoriascard/backend/internal/interfaces/http/dto"
	"github.com/memoriascard/backend/internal/interfaces/http/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newCardRouter(h *CardHandler, userID uuid.UUID) *gin.Engine {
	r := gin.New()
	r.Use(middleware.Notifications())
	if userID != uuid.Nil {
		r.Use(withUser(userID))
	}
	r.GET("/cards", h.List)
	r.GET("/cards/:id", h.GetByID)
	r.POST("/cards", h.Create)
	r.PUT("/cards/:id", h.Update)
	r.DELETE("/cards/:id", h.Delete)
	r.POST("/cards/photos", h.UploadPhoto)
	return r
}

func testCard(userID uuid.UUID) *memorycard.MemoryCard {
	return &memorycard.MemoryCard{
		ID:              "card-1",
		UserID:          userID.String(),
		EventName:       "Aniversário",
		PersonName:      "Ana",
		CelebrationDate: "10/10/2026",
		Emoji:           "🎂",
		Theme:           memorycard.ThemeMint,
		Photos:          []string{},
		CreatedAt:       "01/10/2026",
		ExpiresAt:       "01/10/2027",
	}
}

func TestCardHandler_List(t *testing.T) {
	userID := uuid.New()
	svc := new(MockCardService)
	svc.On("List", mock.Anything, identity.NewSession(userID, "ana@example.com")).
		Return([]*memorycard.MemoryCard{testCard(userID)})

	w := httptest.NewRecorder()
	newCardRouter(NewCardHandler(svc, 0), userID).ServeHTTP(w, httptest.NewRequest("GET", "/cards", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	resp := decodeResponse(t, w)
	assert.True(t, resp.Success)
	items := resp.Data.([]interface{})
	require.Len(t, items, 1)
	assert.Equal(t, "card-1", items[0].(map[string]interface{})["id"])
	svc.AssertExpectations(t)
}

func TestCardHandler_GetByID(t *testing.T) {
	owner := uuid.New()

	t.Run("owner gets the card", func(t *testing.T) {
		svc := new(MockCardService)
		svc.On("GetByID", mock.Anything, "card-1").Return(testCard(owner), true)

		w := httptest.NewRecorder()
		newCardRouter(NewCardHandler(svc, 0), owner).ServeHTTP(w, httptest.NewRequest("GET", "/cards/card-1", nil))

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("another user gets not found", func(t *testing.T) {
		svc := new(MockCardService)
		svc.On("GetByID", mock.Anything, "card-1").Return(testCard(owner), true)

		w := httptest.NewRecorder()
		newCardRouter(NewCardHandler(svc, 0), uuid.New()).ServeHTTP(w, httptest.NewRequest("GET", "/cards/card-1", nil))

		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Equal(t, "CARD_NOT_FOUND", decodeResponse(t, w).Error.Code)
	})

	t.Run("absent card", func(t *testing.T) {
		svc := new(MockCardService)
		svc.On("GetByID", mock.Anything, "missing").Return(nil, false)

		w := httptest.NewRecorder()
		newCardRouter(NewCardHandler(svc, 0), owner).ServeHTTP(w, httptest.NewRequest("GET", "/cards/missing", nil))

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestCardHandler_Create(t *testing.T) {
	userID := uuid.New()

	t.Run("saves a valid card", func(t *testing.T) {
		svc := new(MockCardService)
		svc.On("Save", mock.Anything, mock.Anything, mock.MatchedBy(func(in appcard.SaveCardInput) bool {
			return in.EventName == "Aniversário" && in.Theme == memorycard.ThemeMint
		})).Return(testCard(userID), nil)

		body := `{"eventName":"Aniversário","personName":"Ana","celebrationDate":"10/10/2026","theme":"mint","spotifyLink":"https://open.spotify.com/track/abc"}`
		req := httptest.NewRequest("POST", "/cards", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		newCardRouter(NewCardHandler(svc, 0), userID).ServeHTTP(w, req)

		assert.Equal(t, http.StatusCreated, w.Code)
		svc.AssertExpectations(t)
	})

	t.Run("rejects a non spotify link before the service", func(t *testing.T) {
		svc := new(MockCardService)

		body := `{"eventName":"Aniversário","spotifyLink":"https://example.com"}`
		req := httptest.NewRequest("POST", "/cards", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		newCardRouter(NewCardHandler(svc, 0), userID).ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		resp := decodeResponse(t, w)
		assert.Equal(t, dto.ErrCodeValidation, resp.Error.Code)
		require.Len(t, resp.Error.Details, 1)
		assert.Equal(t, "spotifyLink", resp.Error.Details[0].Field)
		svc.AssertNotCalled(t, "Save", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("rejects an unknown theme", func(t *testing.T) {
		svc := new(MockCardService)

		req := httptest.NewRequest("POST", "/cards", strings.NewReader(`{"theme":"neon"}`))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		newCardRouter(NewCardHandler(svc, 0), userID).ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "theme", decodeResponse(t, w).Error.Details[0].Field)
	})

	t.Run("anonymous save is not authenticated", func(t *testing.T) {
		svc := new(MockCardService)
		svc.On("Save", mock.Anything, identity.Session{}, mock.Anything).Return(nil, shared.ErrNotAuthenticated)

		req := httptest.NewRequest("POST", "/cards", strings.NewReader(`{"eventName":"Festa"}`))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		newCardRouter(NewCardHandler(svc, 0), uuid.Nil).ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, "NOT_AUTHENTICATED", decodeResponse(t, w).Error.Code)
	})
}

func TestCardHandler_Update(t *testing.T) {
	userID := uuid.New()
	svc := new(MockCardService)
	svc.On("Save", mock.Anything, mock.Anything, mock.MatchedBy(func(in appcard.SaveCardInput) bool {
		return in.ID == "card-1"
	})).Return(nil, memorycard.ErrCardForbidden)

	req := httptest.NewRequest("PUT", "/cards/card-1", strings.NewReader(`{"id":"other","eventName":"Festa"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	newCardRouter(NewCardHandler(svc, 0), userID).ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "CARD_FORBIDDEN", decodeResponse(t, w).Error.Code)
	svc.AssertExpectations(t)
}

func TestCardHandler_Delete(t *testing.T) {
	userID := uuid.New()

	t.Run("deleted", func(t *testing.T) {
		svc := new(MockCardService)
		svc.On("Delete", mock.Anything, mock.Anything, "card-1").Return(true)

		w := httptest.NewRecorder()
		newCardRouter(NewCardHandler(svc, 0), userID).ServeHTTP(w, httptest.NewRequest("DELETE", "/cards/card-1", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, true, decodeResponse(t, w).Data.(map[string]interface{})["deleted"])
	})

	t.Run("failure", func(t *testing.T) {
		svc := new(MockCardService)
		svc.On("Delete", mock.Anything, mock.Anything, "card-1").Return(false)

		w := httptest.NewRecorder()
		newCardRouter(NewCardHandler(svc, 0), userID).ServeHTTP(w, httptest.NewRequest("DELETE", "/cards/card-1", nil))

		assert.Equal(t, http.StatusInternalServerError, w.Code)
	})
}

func multipartPhoto(t *testing.T, filename, contentType string, data []byte) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	mw := multipart.NewWriter(body)

	header := make(map[string][]string)
	header["Content-Disposition"] = []string{`form-data; name="file"; filename="` + filename + `"`}
	header["Content-Type"] = []string{contentType}
	part, err := mw.CreatePart(header)
	require.NoError(t, err)
	_, err = part.Write(data)
	require.NoError(t, err)
	require.NoError(t, mw.WriteField("folder", "albums"))
	require.NoError(t, mw.Close())
	return body, mw.FormDataContentType()
}

func TestCardHandler_UploadPhoto(t *testing.T) {
	userID := uuid.New()
	photo := []byte("\xff\xd8\xff\xe0fake-jpeg")

	t.Run("returns the public url", func(t *testing.T) {
		svc := new(MockCardService)
		svc.On("UploadPhoto", mock.Anything, mock.Anything, appcard.UploadPhotoInput{
			Filename:    "beach.jpg",
			ContentType: "image/jpeg",
			Data:        photo,
			Folder:      "albums",
		}).Return("https://cdn.example.com/albums/x.jpg", true)

		body, ct := multipartPhoto(t, "beach.jpg", "image/jpeg", photo)
		req := httptest.NewRequest("POST", "/cards/photos", body)
		req.Header.Set("Content-Type", ct)
		w := httptest.NewRecorder()
		newCardRouter(NewCardHandler(svc, 0), userID).ServeHTTP(w, req)

		assert.Equal(t, http.StatusCreated, w.Code)
		assert.Equal(t, "https://cdn.example.com/albums/x.jpg", decodeResponse(t, w).Data.(map[string]interface{})["url"])
		svc.AssertExpectations(t)
	})

	t.Run("upload failure", func(t *testing.T) {
		svc := new(MockCardService)
		svc.On("UploadPhoto", mock.Anything, mock.Anything, mock.Anything).Return("", false)

		body, ct := multipartPhoto(t, "beach.jpg", "image/jpeg", photo)
		req := httptest.NewRequest("POST", "/cards/photos", body)
		req.Header.Set("Content-Type", ct)
		w := httptest.NewRecorder()
		newCardRouter(NewCardHandler(svc, 0), userID).ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		assert.Equal(t, "PHOTO_UPLOAD_FAILED", decodeResponse(t, w).Error.Code)
	})

	t.Run("too large", func(t *testing.T) {
		svc := new(MockCardService)

		body, ct := multipartPhoto(t, "beach.jpg", "image/jpeg", bytes.Repeat([]byte{1}, 64))
		req := httptest.NewRequest("POST", "/cards/photos", body)
		req.Header.Set("Content-Type", ct)
		w := httptest.NewRecorder()
		newCardRouter(NewCardHandler(svc, 16), userID).ServeHTTP(w, req)

		assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
		svc.AssertNotCalled(t, "UploadPhoto", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("missing file", func(t *testing.T) {
		svc := new(MockCardService)

		w := httptest.NewRecorder()
		newCardRouter(NewCardHandler(svc, 0), userID).ServeHTTP(w, httptest.NewRequest("POST", "/cards/photos", nil))

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}
