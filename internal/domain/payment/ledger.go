package payment

import (
	"context"
	"time"
)

// ReturnLedger records which checkout returns have been consumed so a replayed
// return (browser refresh, back button) is answered from the recorded outcome.
type ReturnLedger interface {
	// Claim reserves key. It returns false when the key is already claimed or completed.
	Claim(ctx context.Context, key string, ttl time.Duration) (bool, error)

	// Complete stores the outcome for a claimed key
	Complete(ctx context.Context, key string, outcome []byte, ttl time.Duration) error

	// Outcome returns the stored outcome. ok is false while the key is only claimed or absent.
	Outcome(ctx context.Context, key string) (outcome []byte, ok bool, err error)

	// Release drops a claim so the key can be handled again
	Release(ctx context.Context, key string) error
}
