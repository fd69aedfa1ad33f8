package memorycard

import (
	"context"
	"time"

	"github.com/memoriascard/backend/internal/application/notification"
	"github.com/memoriascard/backend/internal/domain/identity"
	"github.com/memoriascard/backend/internal/domain/memorycard"
	"github.com/memoriascard/backend/internal/domain/shared"
	"github.com/memoriascard/backend/internal/domain/shared/dateutil"
	"github.com/memoriascard/backend/internal/infrastructure/localstore"
	"github.com/memoriascard/backend/internal/infrastructure/telemetry"
	"go.uber.org/zap"
)

var (
	// ErrStorageFull is returned when a draft does not fit the local store budget
	ErrStorageFull = shared.NewDomainError("STORAGE_QUOTA_EXCEEDED", "Local card storage is full")
	// ErrInvalidExpiry is returned for an expiry date in none of the accepted forms
	ErrInvalidExpiry = shared.NewDomainError("INVALID_EXPIRY_DATE", "Expiry date must be dd/mm/yyyy, yyyy-mm-dd or an RFC 3339 timestamp")
)

// DraftService keeps unsubmitted cards in the local store, one collection per user
type DraftService struct {
	store    *localstore.Store
	cards    *CardService
	notifier notification.Notifier
	metrics  *telemetry.Metrics
	logger   *zap.Logger
	now      func() time.Time
}

// DraftOption configures a DraftService
type DraftOption func(*DraftService)

// WithDraftClock replaces the clock used for creation and expiry dates
func WithDraftClock(now func() time.Time) DraftOption {
	return func(s *DraftService) {
		s.now = now
	}
}

// NewDraftService creates a new DraftService. cards is used by Publish.
func NewDraftService(
	store *localstore.Store,
	cards *CardService,
	notifier notification.Notifier,
	metrics *telemetry.Metrics,
	logger *zap.Logger,
	opts ...DraftOption,
) *DraftService {
	s := &DraftService{
		store:    store,
		cards:    cards,
		notifier: notifier,
		metrics:  metrics,
		logger:   logger,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *DraftService) storeFor(sess identity.Session) *localstore.Store {
	return s.store.ForKey(localstore.DefaultKey + ":" + sess.Owner())
}

// List returns the user's drafts in insertion order
func (s *DraftService) List(ctx context.Context, sess identity.Session) ([]*memorycard.MemoryCard, error) {
	if !sess.IsAuthenticated() {
		return nil, shared.ErrNotAuthenticated
	}
	return s.storeFor(sess).GetAll(ctx), nil
}

// Get returns one draft
func (s *DraftService) Get(ctx context.Context, sess identity.Session, id string) (*memorycard.MemoryCard, error) {
	if !sess.IsAuthenticated() {
		return nil, shared.ErrNotAuthenticated
	}
	card, ok := s.storeFor(sess).GetByID(ctx, id)
	if !ok {
		return nil, memorycard.ErrCardNotFound
	}
	return card, nil
}

// Save validates the draft and upserts it into the user's collection.
// Oversized photos are recompressed by the store; ErrStorageFull means
// nothing was written.
func (s *DraftService) Save(ctx context.Context, sess identity.Session, input SaveCardInput) (*memorycard.MemoryCard, error) {
	store := s.storeFor(sess)
	ctx, span := telemetry.StartServiceSpan(ctx, "drafts", "save",
		telemetry.SpanAttrCardID, input.ID,
		telemetry.SpanAttrSlotKey, store.Key(),
	)
	defer span.End()

	if !sess.IsAuthenticated() {
		return nil, shared.ErrNotAuthenticated
	}

	card, err := memorycard.NewMemoryCard(input.draft(), s.now(), memorycard.LocalExpiryDays)
	if err != nil {
		s.notifier.Notify(ctx, saveFailure(err))
		return nil, err
	}
	if existing, ok := store.GetByID(ctx, card.ID); ok {
		card.CreatedAt = existing.CreatedAt
		if input.ExpiresAt == "" {
			card.ExpiresAt = existing.ExpiresAt
		}
	}
	if input.ExpiresAt != "" {
		if _, err := dateutil.Parse(input.ExpiresAt); err != nil {
			return nil, ErrInvalidExpiry
		}
		card.ExpiresAt = input.ExpiresAt
	}
	card.AssignOwner(sess.Owner())

	ok := store.Save(ctx, card)
	s.metrics.RecordCardSave("local", ok)
	if !ok {
		telemetry.RecordError(span, ErrStorageFull)
		s.notifier.Notify(ctx, notification.Failure("Armazenamento cheio", "Não foi possível salvar o rascunho. Remova fotos ou rascunhos antigos."))
		return nil, ErrStorageFull
	}
	s.metrics.ObserveDraftUsage(store.Usage(ctx))

	saved, ok := store.GetByID(ctx, card.ID)
	if !ok {
		return nil, ErrStorageFull
	}
	s.notifier.Notify(ctx, notification.Success("Rascunho salvo", ""))
	return saved, nil
}

// Delete removes one draft
func (s *DraftService) Delete(ctx context.Context, sess identity.Session, id string) error {
	if !sess.IsAuthenticated() {
		return shared.ErrNotAuthenticated
	}
	if err := s.storeFor(sess).Delete(ctx, id); err != nil {
		s.logger.Error("Failed to delete draft", zap.String("card_id", id), zap.Error(err))
		return err
	}
	return nil
}

// Clear removes every draft of the user
func (s *DraftService) Clear(ctx context.Context, sess identity.Session) error {
	if !sess.IsAuthenticated() {
		return shared.ErrNotAuthenticated
	}
	if !s.storeFor(sess).ClearAll(ctx) {
		return shared.NewDomainError("DRAFTS_NOT_CLEARED", "Drafts could not be cleared")
	}
	return nil
}

// Usage reports how much of the draft budget the user's collection takes
func (s *DraftService) Usage(ctx context.Context, sess identity.Session) (*DraftUsage, error) {
	if !sess.IsAuthenticated() {
		return nil, shared.ErrNotAuthenticated
	}
	store := s.storeFor(sess)
	used := store.Usage(ctx)
	s.metrics.ObserveDraftUsage(used)
	return &DraftUsage{
		Key:         store.Key(),
		UsedBytes:   used,
		BudgetBytes: store.Budget(),
		Cards:       len(store.GetAll(ctx)),
	}, nil
}

// Publish saves a draft to the remote card service and drops it from the
// local collection once the remote save succeeded.
func (s *DraftService) Publish(ctx context.Context, sess identity.Session, id string) (*memorycard.MemoryCard, error) {
	draft, err := s.Get(ctx, sess, id)
	if err != nil {
		return nil, err
	}

	input := SaveCardInputFromCard(draft)
	input.ExpiresAt = ""
	card, err := s.cards.Save(ctx, sess, input)
	if err != nil {
		return nil, err
	}

	if err := s.storeFor(sess).Delete(ctx, id); err != nil {
		s.logger.Warn("Published draft could not be removed", zap.String("card_id", id), zap.Error(err))
	}
	s.logger.Info("Draft published", zap.String("card_id", card.ID), zap.String("user_id", sess.Owner()))
	return card, nil
}
