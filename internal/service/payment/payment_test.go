package payment

import (
	"EduStream/internal/app_errors"
	"EduStream/internal/models"
	"EduStream/pkg/logger"
	"context"
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	stripe "github.com/stripe/stripe-go/v76"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePaymentRepo struct {
	sessions map[string]*models.PaymentSession
}

func newFakePaymentRepo() *fakePaymentRepo {
	return &fakePaymentRepo{sessions: make(map[string]*models.PaymentSession)}
}

func (f *fakePaymentRepo) CreateSession(_ context.Context, session *models.PaymentSession) error {
	stored := *session
	stored.Status = models.PaymentPending
	f.sessions[session.ID] = &stored
	return nil
}

func (f *fakePaymentRepo) SessionByID(_ context.Context, id string) (*models.PaymentSession, error) {
	s, ok := f.sessions[id]
	if !ok {
		return nil, app_errors.ErrPaymentSessionNotFound
	}
	return s, nil
}

// MarkStatus moves a session out of pending exactly once, like the
// conditional update in the real repository.
func (f *fakePaymentRepo) MarkStatus(_ context.Context, id, status string) error {
	s, ok := f.sessions[id]
	if !ok {
		return app_errors.ErrPaymentSessionNotFound
	}
	if s.Status == models.PaymentPending {
		s.Status = status
	}
	return nil
}

type fakeSessions struct {
	lastParams *stripe.CheckoutSessionParams
}

func (f *fakeSessions) New(params *stripe.CheckoutSessionParams) (*stripe.CheckoutSession, error) {
	f.lastParams = params
	return &stripe.CheckoutSession{
		ID:  "cs_test_123",
		URL: "https://checkout.stripe.test/cs_test_123",
	}, nil
}

func newTestService(repo *fakePaymentRepo) (*PaymentService, *fakeSessions) {
	sessions := &fakeSessions{}
	s := &PaymentService{
		log:           logger.NewDiscard(),
		paymentRepo:   repo,
		sessions:      sessions,
		webhookSecret: "whsec_test",
		successURL:    "https://app.local/success",
		cancelURL:     "https://app.local/cancel",
	}
	return s, sessions
}

func checkoutEvent(t *testing.T, eventType, sessionID string) stripe.Event {
	t.Helper()
	raw, err := json.Marshal(map[string]string{"id": sessionID})
	require.NoError(t, err)
	return stripe.Event{
		Type: stripe.EventType(eventType),
		Data: &stripe.EventData{Raw: raw},
	}
}

func TestCreateCheckoutSession(t *testing.T) {
	repo := newFakePaymentRepo()
	s, sessions := newTestService(repo)

	sessionID, url, err := s.CreateCheckoutSession(context.Background(), uuid.New(), 2999)
	require.NoError(t, err)
	assert.Equal(t, "cs_test_123", sessionID)
	assert.Equal(t, "https://checkout.stripe.test/cs_test_123", url)

	require.NotNil(t, sessions.lastParams)
	require.Len(t, sessions.lastParams.LineItems, 1)
	assert.Equal(t, int64(2999), *sessions.lastParams.LineItems[0].PriceData.UnitAmount)

	stored, err := repo.SessionByID(context.Background(), sessionID)
	require.NoError(t, err)
	assert.Equal(t, models.PaymentPending, stored.Status)
}

func TestCreateCheckoutSessionRejectsNonPositiveAmount(t *testing.T) {
	s, _ := newTestService(newFakePaymentRepo())

	_, _, err := s.CreateCheckoutSession(context.Background(), uuid.New(), 0)
	assert.Error(t, err)
	_, _, err = s.CreateCheckoutSession(context.Background(), uuid.New(), -100)
	assert.Error(t, err)
}

func TestApplyEvent(t *testing.T) {
	tests := []struct {
		name       string
		eventType  string
		wantStatus string
	}{
		{"completed", "checkout.session.completed", models.PaymentPaid},
		{"expired", "checkout.session.expired", models.PaymentFailed},
		{"async failure", "checkout.session.async_payment_failed", models.PaymentFailed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := newFakePaymentRepo()
			s, _ := newTestService(repo)

			sessionID, _, err := s.CreateCheckoutSession(context.Background(), uuid.New(), 2999)
			require.NoError(t, err)

			err = s.applyEvent(context.Background(), checkoutEvent(t, tt.eventType, sessionID))
			require.NoError(t, err)

			stored, err := repo.SessionByID(context.Background(), sessionID)
			require.NoError(t, err)
			assert.Equal(t, tt.wantStatus, stored.Status)
		})
	}
}

func TestApplyEventReplay(t *testing.T) {
	repo := newFakePaymentRepo()
	s, _ := newTestService(repo)

	sessionID, _, err := s.CreateCheckoutSession(context.Background(), uuid.New(), 2999)
	require.NoError(t, err)

	require.NoError(t, s.applyEvent(context.Background(), checkoutEvent(t, "checkout.session.completed", sessionID)))
	// a late expiry event must not downgrade a paid session
	require.NoError(t, s.applyEvent(context.Background(), checkoutEvent(t, "checkout.session.expired", sessionID)))

	stored, err := repo.SessionByID(context.Background(), sessionID)
	require.NoError(t, err)
	assert.Equal(t, models.PaymentPaid, stored.Status)
}

func TestApplyEventIgnoresUnknownTypes(t *testing.T) {
	repo := newFakePaymentRepo()
	s, _ := newTestService(repo)

	err := s.applyEvent(context.Background(), checkoutEvent(t, "invoice.created", "cs_whatever"))
	assert.NoError(t, err)
}

func TestHandleWebhookRejectsBadSignature(t *testing.T) {
	s, _ := newTestService(newFakePaymentRepo())

	err := s.HandleWebhook(context.Background(), []byte(`{}`), "t=1,v1=forged")
	assert.Error(t, err)
}
