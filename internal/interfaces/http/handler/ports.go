package handler

import (
	"context"

	"github.com/google/uuid"
	appidentity "github.com/memoriascard/backend/internal/application/identity"
	appcard "github.com/memoriascard/backend/internal/application/memorycard"
	apppayment "github.com/memoriascard/backend/internal/application/payment"
	"github.com/memoriascard/backend/internal/domain/identity"
	"github.com/memoriascard/backend/internal/domain/memorycard"
	"github.com/memoriascard/backend/internal/domain/shared"
)

// CardUseCases is the remote card service behind the card endpoints
type CardUseCases interface {
	List(ctx context.Context, sess identity.Session) []*memorycard.MemoryCard
	GetByID(ctx context.Context, id string) (*memorycard.MemoryCard, bool)
	View(ctx context.Context, viewer identity.Session, id string) (*appcard.PublicView, error)
	Save(ctx context.Context, sess identity.Session, input appcard.SaveCardInput) (*memorycard.MemoryCard, error)
	Delete(ctx context.Context, sess identity.Session, id string) bool
	UploadPhoto(ctx context.Context, sess identity.Session, input appcard.UploadPhotoInput) (string, bool)
}

// DraftUseCases is the per-user local store behind the draft endpoints
type DraftUseCases interface {
	List(ctx context.Context, sess identity.Session) ([]*memorycard.MemoryCard, error)
	Get(ctx context.Context, sess identity.Session, id string) (*memorycard.MemoryCard, error)
	Save(ctx context.Context, sess identity.Session, input appcard.SaveCardInput) (*memorycard.MemoryCard, error)
	Delete(ctx context.Context, sess identity.Session, id string) error
	Clear(ctx context.Context, sess identity.Session) error
	Usage(ctx context.Context, sess identity.Session) (*appcard.DraftUsage, error)
	Publish(ctx context.Context, sess identity.Session, id string) (*memorycard.MemoryCard, error)
}

// PaymentUseCases is the checkout flow behind the payment endpoints
type PaymentUseCases interface {
	CreateCheckoutSession(ctx context.Context, sess identity.Session, cardID string) (*apppayment.CheckoutResult, error)
	VerifyPaymentStatus(ctx context.Context, sess identity.Session, sessionID string) (*apppayment.VerifyResult, error)
	HandleReturn(ctx context.Context, sess identity.Session, input apppayment.ReturnInput) (*apppayment.ReturnResult, error)
	HandleWebhook(ctx context.Context, payload []byte, signature string) (*apppayment.WebhookResult, error)
	History(ctx context.Context, sess identity.Session, filter shared.Filter) (*shared.Paginated[apppayment.HistoryItem], error)
}

// AuthUseCases issues and revokes tokens
type AuthUseCases interface {
	Register(ctx context.Context, input appidentity.RegisterInput) (*appidentity.LoginResult, error)
	Login(ctx context.Context, input appidentity.LoginInput) (*appidentity.LoginResult, error)
	RefreshToken(ctx context.Context, input appidentity.RefreshTokenInput) (*appidentity.RefreshTokenResult, error)
	Logout(ctx context.Context, input appidentity.LogoutInput) error
}

// ProfileUseCases reads and edits the caller's profile
type ProfileUseCases interface {
	Get(ctx context.Context, userID uuid.UUID) (*appidentity.ProfileResult, error)
	Update(ctx context.Context, userID uuid.UUID, input appidentity.UpdateProfileInput) (*appidentity.ProfileResult, error)
}
