package memorycard

import "context"

// PhotoStorage stores uploaded card photos and serves them from public URLs
type PhotoStorage interface {
	Upload(ctx context.Context, key string, data []byte, contentType string) error
	PublicURL(key string) string
	Delete(ctx context.Context, key string) error
}
