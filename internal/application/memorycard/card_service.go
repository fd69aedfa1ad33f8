package memorycard

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/memoriascard/backend/internal/application/notification"
	"github.com/memoriascard/backend/internal/domain/identity"
	"github.com/memoriascard/backend/internal/domain/memorycard"
	"github.com/memoriascard/backend/internal/domain/shared"
	"github.com/memoriascard/backend/internal/domain/shared/dateutil"
	"github.com/memoriascard/backend/internal/infrastructure/telemetry"
	"go.uber.org/zap"
)

// CardServiceConfig holds the photo upload limits
type CardServiceConfig struct {
	PhotoFolder         string
	MaxPhotoBytes       int64
	AllowedContentTypes []string
}

// DefaultCardServiceConfig returns the limits used when none are configured
func DefaultCardServiceConfig() CardServiceConfig {
	return CardServiceConfig{
		PhotoFolder:         "memory-card-photos",
		MaxPhotoBytes:       10 << 20,
		AllowedContentTypes: []string{"image/jpeg", "image/png", "image/webp", "image/gif"},
	}
}

// CardService is the remote card service: authenticated CRUD over the hosted database
type CardService struct {
	repo     memorycard.Repository
	photos   PhotoStorage
	notifier notification.Notifier
	metrics  *telemetry.Metrics
	config   CardServiceConfig
	logger   *zap.Logger
	now      func() time.Time
}

// CardServiceOption configures a CardService
type CardServiceOption func(*CardService)

// WithMetrics records saves on m
func WithMetrics(m *telemetry.Metrics) CardServiceOption {
	return func(s *CardService) {
		s.metrics = m
	}
}

// WithClock replaces the clock used for creation and expiry dates
func WithClock(now func() time.Time) CardServiceOption {
	return func(s *CardService) {
		s.now = now
	}
}

// NewCardService creates a new CardService
func NewCardService(
	repo memorycard.Repository,
	photos PhotoStorage,
	notifier notification.Notifier,
	config CardServiceConfig,
	logger *zap.Logger,
	opts ...CardServiceOption,
) *CardService {
	def := DefaultCardServiceConfig()
	if config.PhotoFolder == "" {
		config.PhotoFolder = def.PhotoFolder
	}
	if config.MaxPhotoBytes <= 0 {
		config.MaxPhotoBytes = def.MaxPhotoBytes
	}
	if len(config.AllowedContentTypes) == 0 {
		config.AllowedContentTypes = def.AllowedContentTypes
	}
	s := &CardService{
		repo:     repo,
		photos:   photos,
		notifier: notifier,
		config:   config,
		logger:   logger,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// IsAuthenticated reports whether sess belongs to a signed-in user
func (s *CardService) IsAuthenticated(sess identity.Session) bool {
	return sess.IsAuthenticated()
}

// List returns the user's cards, newest first. It never fails: without a
// session or on a backend error it notifies the user and returns an empty list.
func (s *CardService) List(ctx context.Context, sess identity.Session) []*memorycard.MemoryCard {
	ctx, span := telemetry.StartServiceSpan(ctx, "cards", "list", telemetry.SpanAttrUserID, sess.Owner())
	defer span.End()

	if !sess.IsAuthenticated() {
		s.logger.Debug("Card list requested without session")
		s.notifier.Notify(ctx, notification.Info("Você não está logado", "Entre na sua conta para ver seus cartões salvos."))
		return []*memorycard.MemoryCard{}
	}

	cards, err := s.repo.FindByUser(ctx, sess.Owner())
	if err != nil {
		telemetry.RecordError(span, err)
		s.logger.Error("Failed to list cards", zap.String("user_id", sess.Owner()), zap.Error(err))
		s.notifier.Notify(ctx, notification.Failure("Erro ao carregar cartões", "Não foi possível buscar seus cartões. Tente novamente."))
		return []*memorycard.MemoryCard{}
	}
	if cards == nil {
		cards = []*memorycard.MemoryCard{}
	}
	return cards
}

// GetByID is the public read of a card. Missing cards and backend errors are both absent.
func (s *CardService) GetByID(ctx context.Context, id string) (*memorycard.MemoryCard, bool) {
	ctx, span := telemetry.StartServiceSpan(ctx, "cards", "get", telemetry.SpanAttrCardID, id)
	defer span.End()

	if strings.TrimSpace(id) == "" {
		return nil, false
	}
	card, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if !errors.Is(err, memorycard.ErrCardNotFound) {
			telemetry.RecordError(span, err)
			s.logger.Error("Failed to load card", zap.String("card_id", id), zap.Error(err))
			s.notifier.Notify(ctx, notification.Failure("Erro ao carregar cartão", "Não foi possível carregar o cartão."))
		}
		return nil, false
	}
	return card, true
}

// View returns what the public card page renders. Unpaid cards are not found,
// except for their owner, who gets a preview.
func (s *CardService) View(ctx context.Context, viewer identity.Session, id string) (*PublicView, error) {
	card, ok := s.GetByID(ctx, id)
	if !ok {
		return nil, memorycard.ErrCardNotFound
	}

	preview := false
	if !card.IsShareable() {
		if !card.IsOwnedBy(viewer.Owner()) {
			return nil, memorycard.ErrCardNotFound
		}
		preview = true
	}

	view := &PublicView{
		Card:    card,
		Palette: card.Theme.Palette(),
		Preview: preview,
	}
	if embed, ok := card.SpotifyEmbedURL(); ok {
		view.SpotifyEmbedURL = embed
	}
	return view, nil
}

// Save stamps the session's user on the card and upserts it. It fails with
// shared.ErrNotAuthenticated without a session and with
// memorycard.ErrCardForbidden when the id belongs to another user.
// Payment state and the creation date are kept from the stored card.
func (s *CardService) Save(ctx context.Context, sess identity.Session, input SaveCardInput) (*memorycard.MemoryCard, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "cards", "save",
		telemetry.SpanAttrCardID, input.ID,
		telemetry.SpanAttrUserID, sess.Owner(),
	)
	defer span.End()

	if !sess.IsAuthenticated() {
		s.notifier.Notify(ctx, notification.Failure("Você precisa estar logado", "Entre na sua conta para salvar o cartão."))
		return nil, shared.ErrNotAuthenticated
	}

	card, err := s.save(ctx, sess, input)
	s.metrics.RecordCardSave("remote", err == nil)
	if err != nil {
		telemetry.RecordError(span, err)
		s.notifier.Notify(ctx, saveFailure(err))
		return nil, err
	}

	s.notifier.Notify(ctx, notification.Success("Cartão salvo", "Seu cartão de memória foi salvo."))
	return card, nil
}

func (s *CardService) save(ctx context.Context, sess identity.Session, input SaveCardInput) (*memorycard.MemoryCard, error) {
	owner := sess.Owner()

	var existing *memorycard.MemoryCard
	if id := strings.TrimSpace(input.ID); id != "" {
		found, err := s.repo.FindByID(ctx, id)
		switch {
		case err == nil:
			existing = found
		case errors.Is(err, memorycard.ErrCardNotFound):
		default:
			s.logger.Error("Failed to load card before save", zap.String("card_id", id), zap.Error(err))
			return nil, fmt.Errorf("load card %s: %w", id, err)
		}
	}
	if existing != nil && !existing.IsOwnedBy(owner) {
		s.logger.Warn("Refusing to overwrite another user's card",
			zap.String("card_id", existing.ID),
			zap.String("user_id", owner),
		)
		return nil, memorycard.ErrCardForbidden
	}

	card, err := memorycard.NewMemoryCard(input.draft(), s.now(), memorycard.RemoteExpiryDays)
	if err != nil {
		return nil, err
	}
	if input.ExpiresAt != "" {
		if _, err := dateutil.Parse(input.ExpiresAt); err != nil {
			return nil, ErrInvalidExpiry
		}
		card.ExpiresAt = input.ExpiresAt
	}
	if existing != nil {
		card.CreatedAt = existing.CreatedAt
		card.CreatedTime = existing.CreatedTime
		card.IsPaid = existing.IsPaid
		if input.ExpiresAt == "" && existing.ExpiresAt != "" {
			card.ExpiresAt = existing.ExpiresAt
		}
	}
	card.AssignOwner(owner)

	if err := s.repo.Save(ctx, card); err != nil {
		s.logger.Error("Failed to save card", zap.String("card_id", card.ID), zap.Error(err))
		return nil, fmt.Errorf("save card %s: %w", card.ID, err)
	}

	s.logger.Info("Card saved",
		zap.String("card_id", card.ID),
		zap.String("user_id", owner),
		zap.Bool("updated", existing != nil),
	)
	return card, nil
}

// Delete removes one of the user's cards. Any failure, including a missing
// session, is reported as false.
func (s *CardService) Delete(ctx context.Context, sess identity.Session, id string) bool {
	ctx, span := telemetry.StartServiceSpan(ctx, "cards", "delete",
		telemetry.SpanAttrCardID, id,
		telemetry.SpanAttrUserID, sess.Owner(),
	)
	defer span.End()

	if !sess.IsAuthenticated() {
		s.notifier.Notify(ctx, notification.Failure("Você precisa estar logado", "Entre na sua conta para excluir cartões."))
		return false
	}

	if err := s.repo.DeleteForUser(ctx, id, sess.Owner()); err != nil {
		telemetry.RecordError(span, err)
		s.logger.Error("Failed to delete card", zap.String("card_id", id), zap.Error(err))
		s.notifier.Notify(ctx, notification.Failure("Erro ao excluir cartão", "Não foi possível excluir o cartão."))
		return false
	}

	s.logger.Info("Card deleted", zap.String("card_id", id), zap.String("user_id", sess.Owner()))
	s.notifier.Notify(ctx, notification.Success("Cartão excluído", ""))
	return true
}

// UploadPhoto stores a photo under {folder}/{userId}/{random}.{ext} and returns
// its public URL. Any failure is reported as absent.
func (s *CardService) UploadPhoto(ctx context.Context, sess identity.Session, input UploadPhotoInput) (string, bool) {
	ctx, span := telemetry.StartServiceSpan(ctx, "cards", "upload_photo", telemetry.SpanAttrUserID, sess.Owner())
	defer span.End()

	if !sess.IsAuthenticated() {
		s.notifier.Notify(ctx, notification.Failure("Você precisa estar logado", "Entre na sua conta para enviar fotos."))
		return "", false
	}
	if err := s.checkPhoto(input); err != nil {
		s.logger.Warn("Rejected photo upload", zap.String("filename", input.Filename), zap.Error(err))
		s.notifier.Notify(ctx, notification.Failure("Foto inválida", err.Error()))
		return "", false
	}

	folder := strings.Trim(input.Folder, "/")
	if folder == "" {
		folder = s.config.PhotoFolder
	}
	key := fmt.Sprintf("%s/%s/%s.%s", folder, sess.Owner(), uuid.NewString(), input.extension())

	if err := s.photos.Upload(ctx, key, input.Data, input.ContentType); err != nil {
		telemetry.RecordError(span, err)
		s.logger.Error("Failed to upload photo", zap.String("key", key), zap.Error(err))
		s.notifier.Notify(ctx, notification.Failure("Erro ao enviar foto", "Não foi possível enviar a foto."))
		return "", false
	}

	url := s.photos.PublicURL(key)
	s.logger.Info("Photo uploaded", zap.String("key", key), zap.Int("size", len(input.Data)))
	s.notifier.Notify(ctx, notification.Success("Foto enviada", ""))
	return url, true
}

func (s *CardService) checkPhoto(input UploadPhotoInput) error {
	if len(input.Data) == 0 {
		return errors.New("o arquivo está vazio")
	}
	if int64(len(input.Data)) > s.config.MaxPhotoBytes {
		return fmt.Errorf("a foto excede o limite de %d MB", s.config.MaxPhotoBytes>>20)
	}
	for _, ct := range s.config.AllowedContentTypes {
		if strings.EqualFold(ct, input.ContentType) {
			return nil
		}
	}
	return fmt.Errorf("formato %q não suportado", input.ContentType)
}

// saveFailure turns a save error into the message shown to the user
func saveFailure(err error) notification.Notification {
	var domainErr *shared.DomainError
	if !errors.As(err, &domainErr) {
		return notification.Failure("Erro ao salvar cartão", "Tente novamente em instantes.")
	}
	switch domainErr.Code {
	case "EVENT_NAME_REQUIRED":
		return notification.Failure("Campo obrigatório", "Por favor, informe o nome do evento.")
	case "PERSON_NAME_REQUIRED":
		return notification.Failure("Campo obrigatório", "Por favor, informe o nome da pessoa homenageada.")
	case "CELEBRATION_DATE_REQUIRED", "INVALID_CELEBRATION_DATE":
		return notification.Failure("Data inválida", "Por favor, informe a data da celebração.")
	case memorycard.ErrInvalidSpotifyLink.Code:
		return notification.Failure("Link inválido", "Por favor, insira um link válido do Spotify.")
	case memorycard.ErrCardForbidden.Code:
		return notification.Failure("Acesso negado", "Este cartão pertence a outro usuário.")
	default:
		return notification.Failure("Não foi possível salvar o cartão", domainErr.Message)
	}
}
