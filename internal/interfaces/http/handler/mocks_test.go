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
	"github.com/stretchr/testify/mock"
)

// MockCardService is a mock implementation of CardUseCases
type MockCardService struct {
	mock.Mock
}

func (m *MockCardService) List(ctx context.Context, sess identity.Session) []*memorycard.MemoryCard {
	args := m.Called(ctx, sess)
	return args.Get(0).([]*memorycard.MemoryCard)
}

func (m *MockCardService) GetByID(ctx context.Context, id string) (*memorycard.MemoryCard, bool) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Bool(1)
	}
	return args.Get(0).(*memorycard.MemoryCard), args.Bool(1)
}

func (m *MockCardService) View(ctx context.Context, viewer identity.Session, id string) (*appcard.PublicView, error) {
	args := m.Called(ctx, viewer, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*appcard.PublicView), args.Error(1)
}

func (m *MockCardService) Save(ctx context.Context, sess identity.Session, input appcard.SaveCardInput) (*memorycard.MemoryCard, error) {
	args := m.Called(ctx, sess, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*memorycard.MemoryCard), args.Error(1)
}

func (m *MockCardService) Delete(ctx context.Context, sess identity.Session, id string) bool {
	args := m.Called(ctx, sess, id)
	return args.Bool(0)
}

func (m *MockCardService) UploadPhoto(ctx context.Context, sess identity.Session, input appcard.UploadPhotoInput) (string, bool) {
	args := m.Called(ctx, sess, input)
	return args.String(0), args.Bool(1)
}

// MockDraftService is a mock implementation of DraftUseCases
type MockDraftService struct {
	mock.Mock
}

func (m *MockDraftService) List(ctx context.Context, sess identity.Session) ([]*memorycard.MemoryCard, error) {
	args := m.Called(ctx, sess)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*memorycard.MemoryCard), args.Error(1)
}

func (m *MockDraftService) Get(ctx context.Context, sess identity.Session, id string) (*memorycard.MemoryCard, error) {
	args := m.Called(ctx, sess, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*memorycard.MemoryCard), args.Error(1)
}

func (m *MockDraftService) Save(ctx context.Context, sess identity.Session, input appcard.SaveCardInput) (*memorycard.MemoryCard, error) {
	args := m.Called(ctx, sess, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*memorycard.MemoryCard), args.Error(1)
}

func (m *MockDraftService) Delete(ctx context.Context, sess identity.Session, id string) error {
	args := m.Called(ctx, sess, id)
	return args.Error(0)
}

func (m *MockDraftService) Clear(ctx context.Context, sess identity.Session) error {
	args := m.Called(ctx, sess)
	return args.Error(0)
}

func (m *MockDraftService) Usage(ctx context.Context, sess identity.Session) (*appcard.DraftUsage, error) {
	args := m.Called(ctx, sess)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*appcard.DraftUsage), args.Error(1)
}

func (m *MockDraftService) Publish(ctx context.Context, sess identity.Session, id string) (*memorycard.MemoryCard, error) {
	args := m.Called(ctx, sess, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*memorycard.MemoryCard), args.Error(1)
}

// MockPaymentService is a mock implementation of PaymentUseCases
type MockPaymentService struct {
	mock.Mock
}

func (m *MockPaymentService) CreateCheckoutSession(ctx context.Context, sess identity.Session, cardID string) (*apppayment.CheckoutResult, error) {
	args := m.Called(ctx, sess, cardID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*apppayment.CheckoutResult), args.Error(1)
}

func (m *MockPaymentService) VerifyPaymentStatus(ctx context.Context, sess identity.Session, sessionID string) (*apppayment.VerifyResult, error) {
	args := m.Called(ctx, sess, sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*apppayment.VerifyResult), args.Error(1)
}

func (m *MockPaymentService) HandleReturn(ctx context.Context, sess identity.Session, input apppayment.ReturnInput) (*apppayment.ReturnResult, error) {
	args := m.Called(ctx, sess, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*apppayment.ReturnResult), args.Error(1)
}

func (m *MockPaymentService) HandleWebhook(ctx context.Context, payload []byte, signature string) (*apppayment.WebhookResult, error) {
	args := m.Called(ctx, payload, signature)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*apppayment.WebhookResult), args.Error(1)
}

func (m *MockPaymentService) History(ctx context.Context, sess identity.Session, filter shared.Filter) (*shared.Paginated[apppayment.HistoryItem], error) {
	args := m.Called(ctx, sess, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*shared.Paginated[apppayment.HistoryItem]), args.Error(1)
}

// MockAuthService is a mock implementation of AuthUseCases
type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) Register(ctx context.Context, input appidentity.RegisterInput) (*appidentity.LoginResult, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*appidentity.LoginResult), args.Error(1)
}

func (m *MockAuthService) Login(ctx context.Context, input appidentity.LoginInput) (*appidentity.LoginResult, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*appidentity.LoginResult), args.Error(1)
}

func (m *MockAuthService) RefreshToken(ctx context.Context, input appidentity.RefreshTokenInput) (*appidentity.RefreshTokenResult, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*appidentity.RefreshTokenResult), args.Error(1)
}

func (m *MockAuthService) Logout(ctx context.Context, input appidentity.LogoutInput) error {
	args := m.Called(ctx, input)
	return args.Error(0)
}

// MockProfileService is a mock implementation of ProfileUseCases
type MockProfileService struct {
	mock.Mock
}

func (m *MockProfileService) Get(ctx context.Context, userID uuid.UUID) (*appidentity.ProfileResult, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*appidentity.ProfileResult), args.Error(1)
}

func (m *MockProfileService) Update(ctx context.Context, userID uuid.UUID, input appidentity.UpdateProfileInput) (*appidentity.ProfileResult, error) {
	args := m.Called(ctx, userID, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*appidentity.ProfileResult), args.Error(1)
}
