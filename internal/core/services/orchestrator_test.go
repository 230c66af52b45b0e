package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/activegames/reservation/internal/core/domain"
	"github.com/activegames/reservation/internal/core/ports/mocks"
	"github.com/activegames/reservation/internal/core/services"
)

var testVenues = []domain.Venue{
	{ID: "1", Slug: "rishon-lezion", Name: "Rishon LeZion"},
}

func validCard() *domain.CardInput {
	return &domain.CardInput{
		Number:   "4111111111111111",
		Expiry:   "12/29",
		CVV:      "123",
		HolderID: "123456789",
	}
}

// paymentSession builds a session parked on the payment step with an
// accepted-terms draft and a quote matching the current pricing inputs.
func paymentSession(amount int) *domain.Session {
	draft := gameDraft()
	draft.TermsAccepted = true

	session := newSession(domain.StepPayment, draft)
	input := session.Draft.PricingInput("1", session.Locale)
	session.Quote = &domain.DepositQuote{Amount: amount, Total: float64(amount) * 2}
	session.QuoteInput = &input

	return session
}

func newOrchestrator(store *mocks.SessionStore, venues *mocks.VenueCatalog, orders *mocks.OrderGateway, journal *mocks.AttemptJournal, t *testing.T) *services.PaymentOrchestrator {
	terms := services.NewTermsGate(store, mocks.NewTermsProvider(t))

	return services.NewPaymentOrchestrator(store, venues, orders, journal, terms)
}

func TestConfirm_Success_CaptureAfterCreate(t *testing.T) {
	mockStore := mocks.NewSessionStore(t)
	mockVenues := mocks.NewVenueCatalog(t)
	mockOrders := mocks.NewOrderGateway(t)
	mockJournal := mocks.NewAttemptJournal(t)

	orchestrator := newOrchestrator(mockStore, mockVenues, mockOrders, mockJournal, t)

	ctx := context.Background()
	session := paymentSession(200)

	orderCreated := false

	mockStore.On("LoadSession", ctx, session.ID).Return(session, nil)
	mockVenues.On("List", ctx).Return(testVenues, nil)
	mockJournal.On("OpenBySession", ctx, session.ID).Return(nil, nil)
	mockOrders.On("CreateOrder", ctx, mock.AnythingOfType("domain.OrderSubmission")).
		Run(func(args mock.Arguments) { orderCreated = true }).
		Return(&domain.OrderResult{OrderID: "ord-1", Reference: "R-100", Status: domain.OrderPending}, nil)
	mockJournal.On("Create", ctx, mock.AnythingOfType("*domain.SubmissionAttempt")).Return(nil)
	mockJournal.On("SetStage", ctx, mock.AnythingOfType("uuid.UUID"), domain.StagePaymentAttempted).Return(nil)
	mockOrders.On("CaptureDeposit", ctx, "ord-1", 200, mock.AnythingOfType("domain.CardInput")).
		Run(func(args mock.Arguments) {
			assert.True(t, orderCreated, "capture must never run before the order exists")
		}).
		Return(nil)
	mockJournal.On("SetStage", ctx, mock.AnythingOfType("uuid.UUID"), domain.StagePaymentCaptured).Return(nil)
	mockJournal.On("Close", ctx, mock.AnythingOfType("uuid.UUID")).Return(nil)
	mockStore.On("SaveSession", ctx, session).Return(nil)

	got, err := orchestrator.Confirm(ctx, session.ID, validCard())

	assert.NoError(t, err)
	assert.Equal(t, domain.StepConfirmation, got.Step)
	if assert.NotNil(t, got.Confirmation) {
		assert.Equal(t, "R-100", got.Confirmation.Reference)
		assert.Equal(t, 200, got.Confirmation.DepositAmount)
		assert.True(t, got.Confirmation.PaymentCaptured)
	}
}

func TestConfirm_ZeroDepositSkipsCapture(t *testing.T) {
	mockStore := mocks.NewSessionStore(t)
	mockVenues := mocks.NewVenueCatalog(t)
	mockOrders := mocks.NewOrderGateway(t)
	mockJournal := mocks.NewAttemptJournal(t)

	orchestrator := newOrchestrator(mockStore, mockVenues, mockOrders, mockJournal, t)

	ctx := context.Background()
	session := paymentSession(0)

	mockStore.On("LoadSession", ctx, session.ID).Return(session, nil)
	mockVenues.On("List", ctx).Return(testVenues, nil)
	mockJournal.On("OpenBySession", ctx, session.ID).Return(nil, nil)
	mockOrders.On("CreateOrder", ctx, mock.AnythingOfType("domain.OrderSubmission")).
		Return(&domain.OrderResult{OrderID: "ord-2", Reference: "R-101", Status: domain.OrderConfirmed}, nil)
	mockJournal.On("Create", ctx, mock.AnythingOfType("*domain.SubmissionAttempt")).Return(nil)
	mockJournal.On("Close", ctx, mock.AnythingOfType("uuid.UUID")).Return(nil)
	mockStore.On("SaveSession", ctx, session).Return(nil)

	// No card is supplied and no CaptureDeposit expectation is set: a
	// capture call would fail the test.
	got, err := orchestrator.Confirm(ctx, session.ID, nil)

	assert.NoError(t, err)
	assert.Equal(t, domain.StepConfirmation, got.Step)
	assert.False(t, got.Confirmation.PaymentCaptured)
}

func TestConfirm_TermsNotAccepted(t *testing.T) {
	mockStore := mocks.NewSessionStore(t)
	mockVenues := mocks.NewVenueCatalog(t)
	mockOrders := mocks.NewOrderGateway(t)
	mockJournal := mocks.NewAttemptJournal(t)

	orchestrator := newOrchestrator(mockStore, mockVenues, mockOrders, mockJournal, t)

	ctx := context.Background()
	session := paymentSession(200)
	session.Draft.TermsAccepted = false

	mockStore.On("LoadSession", ctx, session.ID).Return(session, nil)

	_, err := orchestrator.Confirm(ctx, session.ID, validCard())

	var vErr *domain.ValidationError
	assert.ErrorAs(t, err, &vErr)
	assert.Equal(t, "terms_accepted", vErr.Field)
	mockOrders.AssertNotCalled(t, "CreateOrder", mock.Anything, mock.Anything)
}

func TestConfirm_QuoteUnavailable(t *testing.T) {
	mockStore := mocks.NewSessionStore(t)
	mockVenues := mocks.NewVenueCatalog(t)
	mockOrders := mocks.NewOrderGateway(t)
	mockJournal := mocks.NewAttemptJournal(t)

	orchestrator := newOrchestrator(mockStore, mockVenues, mockOrders, mockJournal, t)

	ctx := context.Background()
	session := paymentSession(200)
	session.ClearQuote()

	mockStore.On("LoadSession", ctx, session.ID).Return(session, nil)
	mockVenues.On("List", ctx).Return(testVenues, nil)

	_, err := orchestrator.Confirm(ctx, session.ID, validCard())

	assert.ErrorIs(t, err, domain.ErrQuoteUnavailable)
}

func TestConfirm_QuoteStale(t *testing.T) {
	mockStore := mocks.NewSessionStore(t)
	mockVenues := mocks.NewVenueCatalog(t)
	mockOrders := mocks.NewOrderGateway(t)
	mockJournal := mocks.NewAttemptJournal(t)

	orchestrator := newOrchestrator(mockStore, mockVenues, mockOrders, mockJournal, t)

	ctx := context.Background()
	session := paymentSession(200)
	session.Draft.Participants = 8 // drifted since the quote was computed

	mockStore.On("LoadSession", ctx, session.ID).Return(session, nil)
	mockVenues.On("List", ctx).Return(testVenues, nil)

	_, err := orchestrator.Confirm(ctx, session.ID, validCard())

	assert.ErrorIs(t, err, domain.ErrQuoteStale)
}

func TestConfirm_VenueNameMatchToleratesCaseAndSpacing(t *testing.T) {
	mockStore := mocks.NewSessionStore(t)
	mockVenues := mocks.NewVenueCatalog(t)
	mockOrders := mocks.NewOrderGateway(t)
	mockJournal := mocks.NewAttemptJournal(t)

	orchestrator := newOrchestrator(mockStore, mockVenues, mockOrders, mockJournal, t)

	ctx := context.Background()

	draft := gameDraft()
	draft.TermsAccepted = true
	draft.VenueSlug = ""
	draft.VenueName = "  rishon   LEZION "

	session := newSession(domain.StepPayment, draft)
	input := session.Draft.PricingInput("1", session.Locale)
	session.Quote = &domain.DepositQuote{Amount: 0}
	session.QuoteInput = &input

	mockStore.On("LoadSession", ctx, session.ID).Return(session, nil)
	mockVenues.On("List", ctx).Return(testVenues, nil)
	mockJournal.On("OpenBySession", ctx, session.ID).Return(nil, nil)
	mockOrders.On("CreateOrder", ctx, mock.MatchedBy(func(sub domain.OrderSubmission) bool {
		return sub.VenueID == "1"
	})).Return(&domain.OrderResult{OrderID: "ord-3", Reference: "R-102", Status: domain.OrderConfirmed}, nil)
	mockJournal.On("Create", ctx, mock.AnythingOfType("*domain.SubmissionAttempt")).Return(nil)
	mockJournal.On("Close", ctx, mock.AnythingOfType("uuid.UUID")).Return(nil)
	mockStore.On("SaveSession", ctx, session).Return(nil)

	got, err := orchestrator.Confirm(ctx, session.ID, nil)

	assert.NoError(t, err)
	assert.Equal(t, domain.StepConfirmation, got.Step)
}

func TestConfirm_RetryResumesAtCapture(t *testing.T) {
	mockStore := mocks.NewSessionStore(t)
	mockVenues := mocks.NewVenueCatalog(t)
	mockOrders := mocks.NewOrderGateway(t)
	mockJournal := mocks.NewAttemptJournal(t)

	orchestrator := newOrchestrator(mockStore, mockVenues, mockOrders, mockJournal, t)

	ctx := context.Background()
	session := paymentSession(200)

	now := time.Now()
	open := &domain.SubmissionAttempt{
		ID:            uuid.New(),
		SessionID:     session.ID,
		Stage:         domain.StageOrderCreated,
		OrderID:       "ord-4",
		Reference:     "R-103",
		OrderStatus:   domain.OrderPending,
		DepositAmount: 200,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	mockStore.On("LoadSession", ctx, session.ID).Return(session, nil)
	mockVenues.On("List", ctx).Return(testVenues, nil)
	mockJournal.On("OpenBySession", ctx, session.ID).Return(open, nil)
	mockJournal.On("SetStage", ctx, open.ID, domain.StagePaymentAttempted).Return(nil)
	mockOrders.On("CaptureDeposit", ctx, "ord-4", 200, mock.AnythingOfType("domain.CardInput")).Return(nil)
	mockJournal.On("SetStage", ctx, open.ID, domain.StagePaymentCaptured).Return(nil)
	mockJournal.On("Close", ctx, open.ID).Return(nil)
	mockStore.On("SaveSession", ctx, session).Return(nil)

	// CreateOrder has no expectation: a second order would fail the test.
	got, err := orchestrator.Confirm(ctx, session.ID, validCard())

	assert.NoError(t, err)
	assert.Equal(t, "R-103", got.Confirmation.Reference)
	assert.True(t, got.Confirmation.PaymentCaptured)
}

func TestConfirm_JournalLookupFailureCreatesNoOrder(t *testing.T) {
	mockStore := mocks.NewSessionStore(t)
	mockVenues := mocks.NewVenueCatalog(t)
	mockOrders := mocks.NewOrderGateway(t)
	mockJournal := mocks.NewAttemptJournal(t)

	orchestrator := newOrchestrator(mockStore, mockVenues, mockOrders, mockJournal, t)

	ctx := context.Background()
	session := paymentSession(200)

	mockStore.On("LoadSession", ctx, session.ID).Return(session, nil)
	mockVenues.On("List", ctx).Return(testVenues, nil)
	mockJournal.On("OpenBySession", ctx, session.ID).Return(nil, assert.AnError)

	// An open attempt may exist behind the outage; creating an order
	// without knowing would duplicate it.
	_, err := orchestrator.Confirm(ctx, session.ID, validCard())

	assert.Error(t, err)
	mockOrders.AssertNotCalled(t, "CreateOrder", mock.Anything, mock.Anything)
	assert.Equal(t, domain.StepPayment, session.Step, "session stays retryable")
}

func TestConfirm_CaptureFailureKeepsSessionOnPaymentStep(t *testing.T) {
	mockStore := mocks.NewSessionStore(t)
	mockVenues := mocks.NewVenueCatalog(t)
	mockOrders := mocks.NewOrderGateway(t)
	mockJournal := mocks.NewAttemptJournal(t)

	orchestrator := newOrchestrator(mockStore, mockVenues, mockOrders, mockJournal, t)

	ctx := context.Background()
	session := paymentSession(200)

	mockStore.On("LoadSession", ctx, session.ID).Return(session, nil)
	mockVenues.On("List", ctx).Return(testVenues, nil)
	mockJournal.On("OpenBySession", ctx, session.ID).Return(nil, nil)
	mockOrders.On("CreateOrder", ctx, mock.AnythingOfType("domain.OrderSubmission")).
		Return(&domain.OrderResult{OrderID: "ord-5", Reference: "R-104", Status: domain.OrderPending}, nil)
	mockJournal.On("Create", ctx, mock.AnythingOfType("*domain.SubmissionAttempt")).Return(nil)
	mockJournal.On("SetStage", ctx, mock.AnythingOfType("uuid.UUID"), domain.StagePaymentAttempted).Return(nil)
	mockOrders.On("CaptureDeposit", ctx, "ord-5", 200, mock.AnythingOfType("domain.CardInput")).Return(assert.AnError)

	_, err := orchestrator.Confirm(ctx, session.ID, validCard())

	var capErr *domain.PaymentCaptureError
	assert.ErrorAs(t, err, &capErr)
	assert.Equal(t, "ord-5", capErr.OrderID)
	assert.Equal(t, "R-104", capErr.Reference)
	assert.Equal(t, domain.StepPayment, session.Step, "session stays retryable")
}

func TestConfirm_MissingCardWhenDepositOwed(t *testing.T) {
	mockStore := mocks.NewSessionStore(t)
	mockVenues := mocks.NewVenueCatalog(t)
	mockOrders := mocks.NewOrderGateway(t)
	mockJournal := mocks.NewAttemptJournal(t)

	orchestrator := newOrchestrator(mockStore, mockVenues, mockOrders, mockJournal, t)

	ctx := context.Background()
	session := paymentSession(200)

	mockStore.On("LoadSession", ctx, session.ID).Return(session, nil)
	mockVenues.On("List", ctx).Return(testVenues, nil)
	mockJournal.On("OpenBySession", ctx, session.ID).Return(nil, nil)
	mockOrders.On("CreateOrder", ctx, mock.AnythingOfType("domain.OrderSubmission")).
		Return(&domain.OrderResult{OrderID: "ord-6", Reference: "R-105", Status: domain.OrderPending}, nil)
	mockJournal.On("Create", ctx, mock.AnythingOfType("*domain.SubmissionAttempt")).Return(nil)

	_, err := orchestrator.Confirm(ctx, session.ID, nil)

	var vErr *domain.ValidationError
	assert.ErrorAs(t, err, &vErr)
	assert.Equal(t, "card", vErr.Field)
}

func TestConfirm_OverlappingSubmissionsCreateOneOrder(t *testing.T) {
	mockStore := mocks.NewSessionStore(t)
	mockVenues := mocks.NewVenueCatalog(t)
	mockOrders := mocks.NewOrderGateway(t)
	mockJournal := mocks.NewAttemptJournal(t)

	orchestrator := newOrchestrator(mockStore, mockVenues, mockOrders, mockJournal, t)

	ctx := context.Background()
	session := paymentSession(0)

	entered := make(chan struct{})
	release := make(chan struct{})

	mockStore.On("LoadSession", ctx, session.ID).Return(session, nil)
	mockVenues.On("List", ctx).Return(testVenues, nil)
	mockJournal.On("OpenBySession", ctx, session.ID).Return(nil, nil)
	mockOrders.On("CreateOrder", ctx, mock.AnythingOfType("domain.OrderSubmission")).
		Run(func(args mock.Arguments) {
			close(entered)
			<-release
		}).
		Return(&domain.OrderResult{OrderID: "ord-7", Reference: "R-106", Status: domain.OrderConfirmed}, nil).
		Once()
	mockJournal.On("Create", ctx, mock.AnythingOfType("*domain.SubmissionAttempt")).Return(nil)
	mockJournal.On("Close", ctx, mock.AnythingOfType("uuid.UUID")).Return(nil)
	mockStore.On("SaveSession", ctx, session).Return(nil)

	done := make(chan error, 1)
	go func() {
		_, err := orchestrator.Confirm(ctx, session.ID, nil)
		done <- err
	}()

	<-entered

	// Second press while the first submission holds the guard.
	_, err := orchestrator.Confirm(ctx, session.ID, nil)
	assert.ErrorIs(t, err, domain.ErrSubmissionInProgress)

	close(release)
	assert.NoError(t, <-done)

	mockOrders.AssertNumberOfCalls(t, "CreateOrder", 1)
}

func TestConfirm_CompletedSession(t *testing.T) {
	mockStore := mocks.NewSessionStore(t)
	mockVenues := mocks.NewVenueCatalog(t)
	mockOrders := mocks.NewOrderGateway(t)
	mockJournal := mocks.NewAttemptJournal(t)

	orchestrator := newOrchestrator(mockStore, mockVenues, mockOrders, mockJournal, t)

	ctx := context.Background()
	session := paymentSession(200)
	session.Step = domain.StepConfirmation

	mockStore.On("LoadSession", ctx, session.ID).Return(session, nil)

	_, err := orchestrator.Confirm(ctx, session.ID, validCard())

	assert.ErrorIs(t, err, domain.ErrSessionCompleted)
}

func TestConfirm_MixedAreaSubmitsLaserWithAnnotation(t *testing.T) {
	mockStore := mocks.NewSessionStore(t)
	mockVenues := mocks.NewVenueCatalog(t)
	mockOrders := mocks.NewOrderGateway(t)
	mockJournal := mocks.NewAttemptJournal(t)

	orchestrator := newOrchestrator(mockStore, mockVenues, mockOrders, mockJournal, t)

	ctx := context.Background()

	draft := gameDraft()
	draft.TermsAccepted = true
	_ = draft.SelectArea(domain.AreaMixed)

	session := newSession(domain.StepPayment, draft)
	input := session.Draft.PricingInput("1", session.Locale)
	session.Quote = &domain.DepositQuote{Amount: 0}
	session.QuoteInput = &input

	mockStore.On("LoadSession", ctx, session.ID).Return(session, nil)
	mockVenues.On("List", ctx).Return(testVenues, nil)
	mockJournal.On("OpenBySession", ctx, session.ID).Return(nil, nil)
	mockOrders.On("CreateOrder", ctx, mock.MatchedBy(func(sub domain.OrderSubmission) bool {
		return sub.Area == domain.AreaLaser && sub.Quantity == 1 && sub.Note != ""
	})).Return(&domain.OrderResult{OrderID: "ord-8", Reference: "R-107", Status: domain.OrderConfirmed}, nil)
	mockJournal.On("Create", ctx, mock.AnythingOfType("*domain.SubmissionAttempt")).Return(nil)
	mockJournal.On("Close", ctx, mock.AnythingOfType("uuid.UUID")).Return(nil)
	mockStore.On("SaveSession", ctx, session).Return(nil)

	got, err := orchestrator.Confirm(ctx, session.ID, nil)

	assert.NoError(t, err)
	assert.Equal(t, domain.StepConfirmation, got.Step)
}
