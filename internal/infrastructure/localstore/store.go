package localstore

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/memoriascard/backend/internal/domain/memorycard"
	"github.com/memoriascard/backend/internal/domain/shared/dateutil"
	"go.uber.org/zap"
)

// DefaultKey is the slot key holding the card collection
const DefaultKey = "memory-cards"

// Config holds the store limits
type Config struct {
	Key                  string
	BudgetBytes          int     // total size of the serialized collection
	CompressionThreshold int     // estimated decoded size above which a photo is recompressed
	MaxPhotos            int     // photos kept per card
	MaxPhotoWidth        int     // width recompressed photos are scaled down to
	JPEGQuality          float64 // quality recompressed photos are encoded at
}

// DefaultConfig returns the limits browsers are usually able to honour
func DefaultConfig() Config {
	return Config{
		Key:                  DefaultKey,
		BudgetBytes:          5 * 1024 * 1024,
		CompressionThreshold: 300 * 1024,
		MaxPhotos:            memorycard.MaxStoredPhotos,
		MaxPhotoWidth:        800,
		JPEGQuality:          0.7,
	}
}

// Store is the local card store. It reads and rewrites the whole collection
// on every mutation; concurrent writers to the same key race and the last
// write wins.
type Store struct {
	slot       Slot
	cfg        Config
	compressor PhotoCompressor
	logger     *zap.Logger
	now        func() time.Time
}

// Option configures a Store
type Option func(*Store)

// WithLogger sets the logger
func WithLogger(logger *zap.Logger) Option {
	return func(s *Store) {
		s.logger = logger
	}
}

// WithCompressor replaces the JPEG compressor
func WithCompressor(c PhotoCompressor) Option {
	return func(s *Store) {
		s.compressor = c
	}
}

// WithClock sets the clock used by the expiry sweep
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		s.now = now
	}
}

// New creates a store over slot
func New(slot Slot, cfg Config, opts ...Option) *Store {
	def := DefaultConfig()
	if cfg.Key == "" {
		cfg.Key = def.Key
	}
	if cfg.BudgetBytes <= 0 {
		cfg.BudgetBytes = def.BudgetBytes
	}
	if cfg.CompressionThreshold <= 0 {
		cfg.CompressionThreshold = def.CompressionThreshold
	}
	if cfg.MaxPhotos <= 0 {
		cfg.MaxPhotos = def.MaxPhotos
	}
	if cfg.MaxPhotoWidth <= 0 {
		cfg.MaxPhotoWidth = def.MaxPhotoWidth
	}
	if cfg.JPEGQuality <= 0 {
		cfg.JPEGQuality = def.JPEGQuality
	}

	s := &Store{
		slot:   slot,
		cfg:    cfg,
		logger: zap.NewNop(),
		now:    time.Now,
	}
	s.compressor = JPEGCompressor{MaxWidth: cfg.MaxPhotoWidth, Quality: cfg.JPEGQuality}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.With(zap.String("slot_key", s.cfg.Key))
	return s
}

// ForKey returns a store sharing slot and limits but addressing another key
func (s *Store) ForKey(key string) *Store {
	cp := *s
	cp.cfg.Key = key
	cp.logger = s.logger.With(zap.String("slot_key", key))
	return &cp
}

// Key returns the slot key of the collection
func (s *Store) Key() string {
	return s.cfg.Key
}

// Budget returns the collection size limit in bytes
func (s *Store) Budget() int {
	return s.cfg.BudgetBytes
}

// GetAll returns every stored card. Missing or unreadable data yields an empty list.
func (s *Store) GetAll(ctx context.Context) []*memorycard.MemoryCard {
	raw, ok, err := s.slot.Get(ctx, s.cfg.Key)
	if err != nil {
		s.logger.Error("Failed to read card collection", zap.Error(err))
		return []*memorycard.MemoryCard{}
	}
	if !ok || strings.TrimSpace(raw) == "" {
		return []*memorycard.MemoryCard{}
	}

	var cards []*memorycard.MemoryCard
	if err := json.Unmarshal([]byte(raw), &cards); err != nil {
		s.logger.Error("Stored card collection is corrupt", zap.Error(err))
		return []*memorycard.MemoryCard{}
	}

	out := cards[:0]
	for _, c := range cards {
		if c != nil {
			out = append(out, c)
		}
	}
	s.logger.Debug("Loaded card collection", zap.Int("count", len(out)))
	return out
}

// GetByID returns the card with id, if stored
func (s *Store) GetByID(ctx context.Context, id string) (*memorycard.MemoryCard, bool) {
	if id == "" {
		s.logger.Warn("Lookup with empty card id")
		return nil, false
	}
	for _, c := range s.GetAll(ctx) {
		if c.ID == id {
			return c, true
		}
	}
	s.logger.Debug("Card not found", zap.String("card_id", id))
	return nil, false
}

// Save sweeps expired cards, upserts card, and writes the collection back.
// A card without an expiry gets the local lifetime. It reports true only
// when the card could be read back after the write; false means nothing
// was persisted for this card.
func (s *Store) Save(ctx context.Context, card *memorycard.MemoryCard) bool {
	if card == nil || card.ID == "" {
		s.logger.Warn("Refusing to save card without id")
		return false
	}
	log := s.logger.With(zap.String("card_id", card.ID))

	cards := s.sweepExpired(ctx)

	processed := card.Clone()
	if strings.TrimSpace(processed.ExpiresAt) == "" {
		processed.ExpiresAt = dateutil.ExpiryAfter(s.now(), memorycard.LocalExpiryDays)
	}
	if len(processed.Photos) > 0 {
		processed.CapPhotos(s.cfg.MaxPhotos)
		processed.Photos = s.compressPhotos(ctx, processed.Photos, log)
	}

	replaced := false
	for i, c := range cards {
		if c.ID == processed.ID {
			cards[i] = processed
			replaced = true
			break
		}
	}
	if !replaced {
		cards = append(cards, processed)
	}

	encoded, err := encodeCollection(cards)
	if err != nil {
		log.Error("Failed to encode card collection", zap.Error(err))
		return false
	}

	if size := EstimateUTF16Bytes(encoded); size > s.cfg.BudgetBytes {
		log.Error("Card collection exceeds storage budget",
			zap.Int("size_bytes", size),
			zap.Int("budget_bytes", s.cfg.BudgetBytes),
		)
		return false
	}

	if err := s.slot.Set(ctx, s.cfg.Key, encoded); err != nil {
		log.Error("Failed to write card collection", zap.Error(err))
		return false
	}

	if _, ok := s.GetByID(ctx, processed.ID); !ok {
		log.Error("Card missing after write")
		return false
	}

	log.Info("Card saved", zap.Bool("updated", replaced), zap.Int("total", len(cards)))
	return true
}

// Delete removes the card with id and rewrites the collection without reading it back
func (s *Store) Delete(ctx context.Context, id string) error {
	cards := s.GetAll(ctx)
	kept := make([]*memorycard.MemoryCard, 0, len(cards))
	for _, c := range cards {
		if c.ID != id {
			kept = append(kept, c)
		}
	}

	encoded, err := encodeCollection(kept)
	if err != nil {
		return fmt.Errorf("localstore: encode collection: %w", err)
	}
	if err := s.slot.Set(ctx, s.cfg.Key, encoded); err != nil {
		return err
	}
	return nil
}

// ClearAll removes the whole collection
func (s *Store) ClearAll(ctx context.Context) bool {
	if err := s.slot.Remove(ctx, s.cfg.Key); err != nil {
		s.logger.Error("Failed to clear card collection", zap.Error(err))
		return false
	}
	s.logger.Info("Card collection cleared")
	return true
}

// Usage returns the estimated size of the stored collection in bytes
func (s *Store) Usage(ctx context.Context) int {
	encoded, err := encodeCollection(s.GetAll(ctx))
	if err != nil {
		return 0
	}
	return EstimateUTF16Bytes(encoded)
}

// sweepExpired drops cards whose expiry has passed or cannot be read, persisting the result
// when anything was removed, and returns the remaining cards.
func (s *Store) sweepExpired(ctx context.Context) []*memorycard.MemoryCard {
	cards := s.GetAll(ctx)
	now := s.now()

	valid := make([]*memorycard.MemoryCard, 0, len(cards))
	for _, c := range cards {
		if !c.IsExpired(now) {
			valid = append(valid, c)
		}
	}
	if len(valid) == len(cards) {
		return valid
	}

	encoded, err := encodeCollection(valid)
	if err == nil {
		err = s.slot.Set(ctx, s.cfg.Key, encoded)
	}
	if err != nil {
		s.logger.Error("Failed to persist expiry sweep", zap.Error(err))
	} else {
		s.logger.Info("Expired cards removed", zap.Int("removed", len(cards)-len(valid)))
	}
	return valid
}

// compressPhotos recompresses oversized photos. Any failure keeps the input photos.
func (s *Store) compressPhotos(ctx context.Context, photos []string, log *zap.Logger) []string {
	out := make([]string, len(photos))
	for i, p := range photos {
		if EstimateDecodedSize(p) <= s.cfg.CompressionThreshold {
			out[i] = p
			continue
		}
		compressed, err := s.compressor.Compress(ctx, p)
		if err != nil {
			log.Warn("Photo compression failed, keeping originals", zap.Int("photo_index", i), zap.Error(err))
			return photos
		}
		log.Debug("Photo recompressed",
			zap.Int("photo_index", i),
			zap.Int("before_bytes", EstimateDecodedSize(p)),
			zap.Int("after_bytes", EstimateDecodedSize(compressed)),
		)
		out[i] = compressed
	}
	return out
}

func encodeCollection(cards []*memorycard.MemoryCard) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(cards); err != nil {
		return "", err
	}
	return strings.TrimSuffix(buf.String(), "\n"), nil
}
