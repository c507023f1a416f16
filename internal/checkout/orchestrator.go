package checkout

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/pasarseni/pasarseni-backend/internal/cart"
	"github.com/pasarseni/pasarseni-backend/pkg/auth"
	"github.com/pasarseni/pasarseni-backend/pkg/currency"
	pkgerrors "github.com/pasarseni/pasarseni-backend/pkg/errors"
	"github.com/pasarseni/pasarseni-backend/pkg/logger"
	"github.com/pasarseni/pasarseni-backend/pkg/metrics"
)

// SignInRedirect is where an unauthenticated checkout sends the buyer.
// The redirect query brings them back to their cart after signing in.
const SignInRedirect = "/signin?redirect=/cart"

// Pricing is the order total breakdown for one cart: the item subtotal,
// the marketplace service fee on top, and the amount the buyer pays.
type Pricing struct {
	Subtotal   currency.Money `json:"subtotal"`
	Commission currency.Money `json:"commission"`
	Total      currency.Money `json:"total"`
}

// Result describes the outcome of a checkout call for the owner.
type Result struct {
	State       State   `json:"state"`
	OrderID     string  `json:"orderId,omitempty"`
	RedirectURL string  `json:"redirectUrl,omitempty"`
	Message     string  `json:"message,omitempty"`
	Pricing     Pricing `json:"pricing"`
}

// Service orchestrates checkout: it prices the cart, gates on
// authentication, submits the order, and tracks per-owner lifecycle state.
type Service interface {
	Status(ctx context.Context, owner string) (Result, error)
	Quote(ctx context.Context, owner string) (Pricing, error)
	Submit(ctx context.Context, owner string, identity *auth.Identity) (Result, error)

	// CartChanged resets a settled checkout when the cart mutates. Wire it
	// as a cart service listener.
	CartChanged(owner string)
}

type session struct {
	state   State
	orderID string
	message string
	pricing Pricing
}

type service struct {
	carts     cart.Service
	submitter Submitter
	rate      float64
	logg      *logger.Logger
	met       *metrics.CheckoutMetrics

	mu       sync.Mutex
	sessions map[string]*session
}

// NewService builds the checkout orchestrator.
func NewService(carts cart.Service, submitter Submitter, rate float64, logg *logger.Logger, met *metrics.CheckoutMetrics) (Service, error) {
	if carts == nil {
		return nil, fmt.Errorf("cart service required")
	}
	if submitter == nil {
		return nil, fmt.Errorf("submitter required")
	}
	if rate < 0 || rate >= 1 {
		return nil, fmt.Errorf("commission rate must be in [0, 1), got %v", rate)
	}
	return &service{
		carts:     carts,
		submitter: submitter,
		rate:      rate,
		logg:      logg,
		met:       met,
		sessions:  map[string]*session{},
	}, nil
}

func (s *service) sessionFor(owner string) *session {
	if sess, ok := s.sessions[owner]; ok {
		return sess
	}
	sess := &session{state: StateIdle}
	s.sessions[owner] = sess
	return sess
}

func (s *service) Status(ctx context.Context, owner string) (Result, error) {
	if owner == "" {
		return Result{}, pkgerrors.New(pkgerrors.CodeValidation, "cart owner is required")
	}
	pricing, err := s.Quote(ctx, owner)
	if err != nil {
		return Result{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	sess := s.sessionFor(owner)
	return Result{
		State:       sess.state,
		OrderID:     sess.orderID,
		Message:     sess.message,
		Pricing:     pricing,
		RedirectURL: redirectFor(sess.state),
	}, nil
}

// Quote prices the owner's current cart: service fee on top of the
// subtotal, so Total is always Subtotal plus Commission exactly.
func (s *service) Quote(ctx context.Context, owner string) (Pricing, error) {
	subtotal, err := s.carts.Subtotal(ctx, owner)
	if err != nil {
		return Pricing{}, err
	}
	commission := currency.Commission(subtotal, s.rate)
	return Pricing{
		Subtotal:   subtotal,
		Commission: commission,
		Total:      subtotal + commission,
	}, nil
}

func (s *service) Submit(ctx context.Context, owner string, identity *auth.Identity) (Result, error) {
	if owner == "" {
		return Result{}, pkgerrors.New(pkgerrors.CodeValidation, "cart owner is required")
	}

	items, err := s.carts.Items(ctx, owner)
	if err != nil {
		return Result{}, err
	}
	pricing, err := s.Quote(ctx, owner)
	if err != nil {
		return Result{}, err
	}

	s.mu.Lock()
	sess := s.sessionFor(owner)
	switch {
	case sess.state == StateProcessing:
		// A submission is already in flight; report it instead of racing it.
		result := Result{State: StateProcessing, Pricing: pricing}
		s.mu.Unlock()
		s.met.IncOutcome("duplicate")
		return result, nil

	case len(items) == 0:
		s.mu.Unlock()
		s.met.IncOutcome("empty_cart")
		return Result{State: StateIdle, Pricing: pricing},
			pkgerrors.New(pkgerrors.CodeValidation, "nothing to check out")

	case identity == nil:
		sess.state = StateAwaitingAuth
		sess.message = ""
		s.mu.Unlock()
		s.met.IncOutcome("awaiting_auth")
		return Result{
			State:       StateAwaitingAuth,
			RedirectURL: SignInRedirect,
			Pricing:     pricing,
		}, nil
	}

	orderID := uuid.NewString()
	sess.state = StateProcessing
	sess.orderID = orderID
	sess.message = ""
	sess.pricing = pricing
	s.mu.Unlock()

	submission := OrderSubmission{
		OrderID:     orderID,
		UserID:      identity.UserID,
		Items:       items,
		Subtotal:    pricing.Subtotal,
		Commission:  pricing.Commission,
		Total:       pricing.Total,
		SubmittedAt: time.Now().UTC(),
	}

	start := time.Now()
	submitErr := s.submitter.Submit(ctx, submission)
	elapsed := time.Since(start)

	if submitErr != nil {
		s.met.ObserveSubmission("failed", elapsed)
		s.met.IncOutcome("failed")
		s.warn(ctx, owner, "order submission failed", submitErr)

		s.mu.Lock()
		sess.state = StateFailed
		sess.message = "order submission failed, your cart is unchanged"
		result := Result{
			State:   StateFailed,
			OrderID: orderID,
			Message: sess.message,
			Pricing: pricing,
		}
		s.mu.Unlock()
		return result, pkgerrors.Wrap(pkgerrors.CodeDependency, submitErr, "submit order")
	}

	s.met.ObserveSubmission("completed", elapsed)
	s.met.IncOutcome("completed")

	// Clearing the cart fires CartChanged; mark the session completed
	// afterwards so the listener reset does not swallow the outcome.
	if err := s.carts.ClearCart(ctx, owner); err != nil {
		s.warn(ctx, owner, "cart clear after checkout failed", err)
	}

	s.mu.Lock()
	sess.state = StateCompleted
	sess.message = ""
	result := Result{State: StateCompleted, OrderID: orderID, Pricing: pricing}
	s.mu.Unlock()
	return result, nil
}

// CartChanged resets settled sessions back to idle. An in-flight
// submission keeps its state; mutating the cart mid-submission does not
// cancel it.
func (s *service) CartChanged(owner string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[owner]
	if !ok || sess.state == StateProcessing {
		return
	}
	sess.state = StateIdle
	sess.orderID = ""
	sess.message = ""
}

func redirectFor(state State) string {
	if state == StateAwaitingAuth {
		return SignInRedirect
	}
	return ""
}

func (s *service) warn(ctx context.Context, owner, msg string, err error) {
	if s.logg == nil {
		return
	}
	ctx = s.logg.WithCartOwner(ctx, owner)
	ctx = s.logg.WithField(ctx, "error", err.Error())
	s.logg.Warn(ctx, msg)
}
