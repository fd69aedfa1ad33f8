package payment

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/memoriascard/backend/internal/application/notification"
	"github.com/memoriascard/backend/internal/domain/identity"
	"github.com/memoriascard/backend/internal/domain/memorycard"
	"github.com/memoriascard/backend/internal/domain/payment"
	"github.com/memoriascard/backend/internal/domain/shared"
	"github.com/memoriascard/backend/internal/infrastructure/billing"
	"github.com/memoriascard/backend/internal/infrastructure/telemetry"
	"go.uber.org/zap"
)

const (
	returnKeyPrefix  = "return:"
	webhookKeyPrefix = "event:"

	// checkoutSessionPlaceholder is replaced by the processor with the session id
	checkoutSessionPlaceholder = "{CHECKOUT_SESSION_ID}"
)

// Config holds the payment flow settings
type Config struct {
	// Origin is the public site the processor redirects back to
	Origin string
	// LedgerTTL bounds how long a consumed return is remembered
	LedgerTTL time.Duration
}

// PaymentService runs the checkout state machine of a card:
// unpaid, checkout opened, return verified, paid.
type PaymentService struct {
	checkout Checkout
	webhooks WebhookVerifier
	cards    memorycard.Repository
	payments payment.Repository
	tx       TransactionScope
	ledger   payment.ReturnLedger
	notifier notification.Notifier
	metrics  *telemetry.Metrics
	config   Config
	logger   *zap.Logger
}

// PaymentServiceDeps contains the collaborators of PaymentService
type PaymentServiceDeps struct {
	Checkout Checkout
	Webhooks WebhookVerifier
	Cards    memorycard.Repository
	Payments payment.Repository
	Tx       TransactionScope
	Ledger   payment.ReturnLedger
	Notifier notification.Notifier
	Metrics  *telemetry.Metrics
	Config   Config
	Logger   *zap.Logger
}

// NewPaymentService creates a new PaymentService
func NewPaymentService(deps PaymentServiceDeps) *PaymentService {
	cfg := deps.Config
	cfg.Origin = strings.TrimRight(cfg.Origin, "/")
	if cfg.LedgerTTL <= 0 {
		cfg.LedgerTTL = 24 * time.Hour
	}
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PaymentService{
		checkout: deps.Checkout,
		webhooks: deps.Webhooks,
		cards:    deps.Cards,
		payments: deps.Payments,
		tx:       deps.Tx,
		ledger:   deps.Ledger,
		notifier: deps.Notifier,
		metrics:  deps.Metrics,
		config:   cfg,
		logger:   logger,
	}
}

// CreateCheckoutSession opens a checkout session for one of the user's unpaid
// cards and records a pending payment for it.
func (s *PaymentService) CreateCheckoutSession(ctx context.Context, sess identity.Session, cardID string) (*CheckoutResult, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "payment", "create_checkout",
		telemetry.SpanAttrCardID, cardID,
		telemetry.SpanAttrUserID, sess.Owner(),
	)
	defer span.End()

	result, err := s.createCheckoutSession(ctx, sess, cardID)
	s.metrics.RecordCheckout(err == nil)
	if err != nil {
		telemetry.RecordError(span, err)
		s.notifier.Notify(ctx, notification.Failure("Erro no pagamento", "Não foi possível iniciar o pagamento. Tente novamente."))
		return nil, err
	}
	telemetry.SetAttributes(span, telemetry.SpanAttrSessionID, result.SessionID)
	return result, nil
}

func (s *PaymentService) createCheckoutSession(ctx context.Context, sess identity.Session, cardID string) (*CheckoutResult, error) {
	if !sess.IsAuthenticated() {
		return nil, shared.ErrNotAuthenticated
	}
	cardID = strings.TrimSpace(cardID)
	if cardID == "" {
		return nil, ErrCardIDRequired
	}

	card, err := s.cards.FindByIDForUser(ctx, cardID, sess.Owner())
	if err != nil {
		if !errors.Is(err, memorycard.ErrCardNotFound) {
			s.logger.Error("Failed to load card for checkout", zap.String("card_id", cardID), zap.Error(err))
		}
		return nil, err
	}
	if card.IsPaid {
		return nil, ErrCardAlreadyPaid
	}

	customerID, err := s.checkout.FindOrCreateCustomer(ctx, billing.FindOrCreateCustomerInput{
		UserID: sess.UserID,
		Email:  sess.Email,
	})
	if err != nil {
		return nil, err
	}

	out, err := s.checkout.CreateCheckoutSession(ctx, billing.CreateCheckoutSessionInput{
		CustomerID: customerID,
		UserID:     sess.UserID,
		CardID:     card.ID,
		EventName:  card.EventName,
		PersonName: card.PersonName,
		SuccessURL: s.successURL(card.ID),
		CancelURL:  s.cancelURL(card.ID),
	})
	if err != nil {
		return nil, err
	}

	amount := out.AmountTotal
	if amount <= 0 {
		amount = s.checkout.UnitAmount()
	}
	currency := out.Currency
	if currency == "" {
		currency = s.checkout.Currency()
	}
	p, err := payment.NewPendingPayment(sess.UserID, card.ID, out.SessionID, amount, currency)
	if err != nil {
		return nil, err
	}
	if err := s.payments.Create(ctx, p); err != nil {
		s.logger.Error("Failed to record pending payment",
			zap.String("session_id", out.SessionID),
			zap.String("card_id", card.ID),
			zap.Error(err))
		return nil, fmt.Errorf("record payment for session %s: %w", out.SessionID, err)
	}

	s.logger.Info("Checkout session opened",
		zap.String("card_id", card.ID),
		zap.String("session_id", out.SessionID),
		zap.Int64("amount", amount))

	return &CheckoutResult{URL: out.URL, SessionID: out.SessionID}, nil
}

func (s *PaymentService) successURL(cardID string) string {
	return fmt.Sprintf("%s/dashboard?payment=%s&session_id=%s&card_id=%s",
		s.config.Origin, ReturnSuccess, checkoutSessionPlaceholder, url.QueryEscape(cardID))
}

func (s *PaymentService) cancelURL(cardID string) string {
	return fmt.Sprintf("%s/dashboard?payment=%s&card_id=%s",
		s.config.Origin, ReturnCanceled, url.QueryEscape(cardID))
}

// VerifyPaymentStatus asks the processor for the session's status. When it is
// paid, the payment row and the card are flipped to paid in one transaction;
// otherwise nothing is written.
func (s *PaymentService) VerifyPaymentStatus(ctx context.Context, sess identity.Session, sessionID string) (*VerifyResult, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "payment", "verify",
		telemetry.SpanAttrSessionID, sessionID,
		telemetry.SpanAttrUserID, sess.Owner(),
	)
	defer span.End()

	result, err := s.verifyPaymentStatus(ctx, sess, sessionID)
	if err != nil {
		s.metrics.RecordVerification("error")
		telemetry.RecordError(span, err)
		s.notifier.Notify(ctx, notification.Failure("Erro ao verificar pagamento", "Não foi possível confirmar o pagamento."))
		return nil, err
	}

	s.metrics.RecordVerification(result.Status)
	telemetry.SetAttributes(span,
		telemetry.SpanAttrPaymentStatus, result.Status,
		telemetry.SpanAttrCardID, result.CardID,
	)
	if result.Success {
		s.notifier.Notify(ctx, notification.Success("Pagamento confirmado!", "Seu cartão de memória foi salvo na sua dashboard."))
	} else {
		s.notifier.Notify(ctx, notification.Info("Processando pagamento", "Seu pagamento ainda está sendo processado."))
	}
	return result, nil
}

func (s *PaymentService) verifyPaymentStatus(ctx context.Context, sess identity.Session, sessionID string) (*VerifyResult, error) {
	if !sess.IsAuthenticated() {
		return nil, shared.ErrNotAuthenticated
	}
	sessionID = strings.TrimSpace(sessionID)
	if sessionID == "" {
		return nil, ErrSessionRequired
	}

	out, err := s.checkout.GetCheckoutSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if owner := out.UserID(); owner != "" && owner != sess.Owner() {
		s.logger.Warn("Checkout session verified by another user",
			zap.String("session_id", sessionID),
			zap.String("user_id", sess.Owner()))
		return nil, ErrSessionMismatch
	}

	if !out.PaymentStatus.IsPaid() {
		s.logger.Debug("Checkout session not paid yet",
			zap.String("session_id", sessionID),
			zap.String("status", out.PaymentStatus.String()))
		return &VerifyResult{Success: false, Status: out.PaymentStatus.String()}, nil
	}

	cardID := out.CardID()
	if err := s.markPaid(ctx, sessionID, sess.UserID, cardID); err != nil {
		return nil, err
	}
	return &VerifyResult{Success: true, Status: out.PaymentStatus.String(), CardID: cardID}, nil
}

// markPaid flips the session's payment and its card in one transaction.
// Both updates are idempotent so webhooks and returns may race.
func (s *PaymentService) markPaid(ctx context.Context, sessionID string, userID uuid.UUID, cardID string) error {
	if cardID == "" {
		return fmt.Errorf("checkout session %s carries no card id", sessionID)
	}
	err := s.tx.Execute(ctx, func(repos TransactionalRepositories) error {
		if err := repos.PaymentRepo().MarkPaidBySession(ctx, sessionID, userID); err != nil {
			if !errors.Is(err, shared.ErrNotFound) {
				return fmt.Errorf("mark payment paid: %w", err)
			}
			s.logger.Warn("No payment row for paid session",
				zap.String("session_id", sessionID),
				zap.String("card_id", cardID))
		}
		if err := repos.CardRepo().MarkPaid(ctx, cardID); err != nil {
			return fmt.Errorf("mark card paid: %w", err)
		}
		return nil
	})
	if err != nil {
		s.logger.Error("Failed to apply paid transition",
			zap.String("session_id", sessionID),
			zap.String("card_id", cardID),
			zap.Error(err))
		return err
	}

	s.logger.Info("Card unlocked",
		zap.String("session_id", sessionID),
		zap.String("card_id", cardID))
	return nil
}

// HandleReturn consumes the checkout return parameters exactly once per
// session. A replay of a verified return is answered from the ledger.
func (s *PaymentService) HandleReturn(ctx context.Context, sess identity.Session, input ReturnInput) (*ReturnResult, error) {
	switch input.Payment {
	case ReturnCanceled:
		s.logger.Info("Checkout canceled", zap.String("card_id", input.CardID))
		s.notifier.Notify(ctx, notification.Info("Pagamento cancelado", "Você pode tentar novamente quando quiser."))
		return &ReturnResult{Canceled: true, CardID: input.CardID}, nil
	case ReturnSuccess:
	default:
		return nil, ErrInvalidReturn
	}

	if !sess.IsAuthenticated() {
		return nil, shared.ErrNotAuthenticated
	}
	sessionID := strings.TrimSpace(input.SessionID)
	if sessionID == "" {
		return nil, ErrSessionRequired
	}

	key := returnKeyPrefix + sessionID
	claimed, err := s.ledger.Claim(ctx, key, s.config.LedgerTTL)
	if err != nil {
		s.logger.Error("Failed to claim payment return", zap.String("session_id", sessionID), zap.Error(err))
		return nil, fmt.Errorf("claim payment return: %w", err)
	}
	if !claimed {
		return s.replayReturn(ctx, key, sessionID)
	}

	result, err := s.VerifyPaymentStatus(ctx, sess, sessionID)
	if err != nil || !result.Success {
		if relErr := s.ledger.Release(ctx, key); relErr != nil {
			s.logger.Warn("Failed to release payment return", zap.String("session_id", sessionID), zap.Error(relErr))
		}
		if err != nil {
			return nil, err
		}
		return &ReturnResult{CardID: input.CardID, Verified: result}, nil
	}

	if input.CardID != "" && input.CardID != result.CardID {
		s.logger.Warn("Return card id differs from session metadata",
			zap.String("session_id", sessionID),
			zap.String("return_card_id", input.CardID),
			zap.String("session_card_id", result.CardID))
	}

	outcome, err := json.Marshal(result)
	if err == nil {
		err = s.ledger.Complete(ctx, key, outcome, s.config.LedgerTTL)
	}
	if err != nil {
		s.logger.Warn("Failed to record payment return outcome", zap.String("session_id", sessionID), zap.Error(err))
	}
	return &ReturnResult{CardID: result.CardID, Verified: result}, nil
}

func (s *PaymentService) replayReturn(ctx context.Context, key, sessionID string) (*ReturnResult, error) {
	raw, ok, err := s.ledger.Outcome(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("read payment return outcome: %w", err)
	}
	if !ok {
		return nil, ErrReturnInProgress
	}

	var result VerifyResult
	if err := json.Unmarshal(raw, &result); err != nil {
		return nil, fmt.Errorf("decode payment return outcome: %w", err)
	}
	s.metrics.RecordReturnReplay()
	s.logger.Debug("Payment return replayed", zap.String("session_id", sessionID))
	return &ReturnResult{CardID: result.CardID, Verified: &result, Replayed: true}, nil
}

// HandleWebhook verifies a processor callback and applies the paid transition
// for completed checkout sessions. Each event is handled once.
func (s *PaymentService) HandleWebhook(ctx context.Context, payload []byte, signature string) (*WebhookResult, error) {
	event, err := s.webhooks.ConstructWebhookEvent(payload, signature)
	if err != nil {
		s.logger.Warn("Rejected webhook", zap.Error(err))
		return nil, ErrInvalidWebhook
	}

	ctx, span := telemetry.StartServiceSpan(ctx, "payment", "webhook", "event_type", event.Type)
	defer span.End()

	result := &WebhookResult{EventID: event.ID, EventType: event.Type}

	switch event.Type {
	case billing.EventCheckoutSessionCompleted, billing.EventCheckoutSessionAsyncPaymentSucceeded:
	default:
		result.Message = "event type ignored"
		return result, nil
	}
	if event.Session == nil || !event.Session.PaymentStatus.IsPaid() {
		result.Message = "session not paid"
		return result, nil
	}

	key := webhookKeyPrefix + event.ID
	claimed, err := s.ledger.Claim(ctx, key, s.config.LedgerTTL)
	if err != nil {
		return nil, fmt.Errorf("claim webhook event: %w", err)
	}
	if !claimed {
		result.Message = "duplicate event"
		return result, nil
	}

	err = s.applyWebhookSession(ctx, event.Session)
	s.metrics.RecordWebhookEvent(event.Type, err == nil)
	if err != nil {
		telemetry.RecordError(span, err)
		if relErr := s.ledger.Release(ctx, key); relErr != nil {
			s.logger.Warn("Failed to release webhook event", zap.String("event_id", event.ID), zap.Error(relErr))
		}
		return nil, err
	}
	if err := s.ledger.Complete(ctx, key, []byte(event.Type), s.config.LedgerTTL); err != nil {
		s.logger.Warn("Failed to record webhook event", zap.String("event_id", event.ID), zap.Error(err))
	}

	result.Processed = true
	s.logger.Info("Webhook processed",
		zap.String("event_id", event.ID),
		zap.String("event_type", event.Type),
		zap.String("session_id", event.Session.SessionID))
	return result, nil
}

func (s *PaymentService) applyWebhookSession(ctx context.Context, out *billing.CheckoutSessionOutput) error {
	userID, err := uuid.Parse(out.UserID())
	if err != nil {
		return fmt.Errorf("checkout session %s has invalid user id: %w", out.SessionID, err)
	}
	return s.markPaid(ctx, out.SessionID, userID, out.CardID())
}

// History returns the user's payments joined with their cards, newest first
func (s *PaymentService) History(ctx context.Context, sess identity.Session, filter shared.Filter) (*shared.Paginated[HistoryItem], error) {
	if !sess.IsAuthenticated() {
		return nil, shared.ErrNotAuthenticated
	}
	filter = filter.Normalize()

	summaries, total, err := s.payments.ListByUser(ctx, sess.UserID, filter)
	if err != nil {
		s.logger.Error("Failed to list payments", zap.String("user_id", sess.Owner()), zap.Error(err))
		s.notifier.Notify(ctx, notification.Failure("Erro ao carregar pagamentos", "Não foi possível buscar seu histórico de pagamentos."))
		return nil, err
	}

	items := make([]HistoryItem, len(summaries))
	for i, sum := range summaries {
		items[i] = ToHistoryItem(sum)
	}
	page := shared.NewPaginated(items, total, filter.Page, filter.PageSize)
	return &page, nil
}
