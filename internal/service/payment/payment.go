package payment

import (
	"EduStream/internal/models"
	"EduStream/pkg/logger"
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	stripe "github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/checkout/session"
	"github.com/stripe/stripe-go/v76/webhook"
)

type paymentRepo interface {
	CreateSession(ctx context.Context, session *models.PaymentSession) error
	SessionByID(ctx context.Context, id string) (*models.PaymentSession, error)
	MarkStatus(ctx context.Context, id, status string) error
}

// sessionCreator is the slice of the Stripe API the service uses; the
// indirection exists so tests can run without the hosted endpoint.
type sessionCreator interface {
	New(params *stripe.CheckoutSessionParams) (*stripe.CheckoutSession, error)
}

type stripeSessions struct{}

func (stripeSessions) New(params *stripe.CheckoutSessionParams) (*stripe.CheckoutSession, error) {
	return session.New(params)
}

type PaymentService struct {
	log           logger.Log
	paymentRepo   paymentRepo
	sessions      sessionCreator
	webhookSecret string
	successURL    string
	cancelURL     string
}

func NewPaymentService(l logger.Log, repo paymentRepo, secretKey, webhookSecret, successURL, cancelURL string) *PaymentService {
	stripe.Key = secretKey
	return &PaymentService{
		log:           l,
		paymentRepo:   repo,
		sessions:      stripeSessions{},
		webhookSecret: webhookSecret,
		successURL:    successURL,
		cancelURL:     cancelURL,
	}
}

// CreateCheckoutSession opens a hosted card checkout for the given amount
// and records the pending session. The redirect URLs are cosmetic; only the
// signed webhook flips the recorded status.
func (s *PaymentService) CreateCheckoutSession(ctx context.Context, userID uuid.UUID, amountCents int64) (sessionID, redirectURL string, err error) {
	if amountCents <= 0 {
		return "", "", fmt.Errorf("amount must be positive, got %d", amountCents)
	}

	params := &stripe.CheckoutSessionParams{
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
		Mode:               stripe.String(string(stripe.CheckoutSessionModePayment)),
		SuccessURL:         stripe.String(s.successURL),
		CancelURL:          stripe.String(s.cancelURL),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
					Currency: stripe.String(string(stripe.CurrencyUSD)),
					ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
						Name: stripe.String("Premium Subscription"),
					},
					UnitAmount: stripe.Int64(amountCents),
				},
				Quantity: stripe.Int64(1),
			},
		},
	}

	sess, err := s.sessions.New(params)
	if err != nil {
		return "", "", fmt.Errorf("failed to create checkout session: %w", err)
	}

	record := &models.PaymentSession{
		ID:          sess.ID,
		UserID:      userID,
		AmountCents: amountCents,
	}
	if err := s.paymentRepo.CreateSession(ctx, record); err != nil {
		return "", "", err
	}

	return sess.ID, sess.URL, nil
}

// HandleWebhook verifies the event signature and advances the recorded
// session state. Unknown event types are acknowledged and ignored.
func (s *PaymentService) HandleWebhook(ctx context.Context, payload []byte, signature string) error {
	event, err := webhook.ConstructEvent(payload, signature, s.webhookSecret)
	if err != nil {
		return fmt.Errorf("webhook signature verification failed: %w", err)
	}
	return s.applyEvent(ctx, event)
}

func (s *PaymentService) applyEvent(ctx context.Context, event stripe.Event) error {
	var status string
	switch event.Type {
	case "checkout.session.completed":
		status = models.PaymentPaid
	case "checkout.session.expired", "checkout.session.async_payment_failed":
		status = models.PaymentFailed
	default:
		return nil
	}

	var sess stripe.CheckoutSession
	if err := json.Unmarshal(event.Data.Raw, &sess); err != nil {
		return fmt.Errorf("failed to decode event payload: %w", err)
	}

	if err := s.paymentRepo.MarkStatus(ctx, sess.ID, status); err != nil {
		return err
	}
	s.log.Info("payment session updated", "session_id", sess.ID, "status", status)
	return nil
}

func (s *PaymentService) Session(ctx context.Context, id string) (*models.PaymentSession, error) {
	return s.paymentRepo.SessionByID(ctx, id)
}
