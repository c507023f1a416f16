package checkout

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/pasarseni/pasarseni-backend/internal/cart"
	"github.com/pasarseni/pasarseni-backend/pkg/auth"
	pkgerrors "github.com/pasarseni/pasarseni-backend/pkg/errors"
)

type fakeSlot struct {
	mu   sync.Mutex
	data map[string][]byte
}

func (f *fakeSlot) Load(_ context.Context, owner string) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.data[owner], nil
}

func (f *fakeSlot) Save(_ context.Context, owner string, payload []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.data[owner] = append([]byte(nil), payload...)
	return nil
}

func (f *fakeSlot) Clear(_ context.Context, owner string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.data, owner)
	return nil
}

type stubSubmitter struct {
	mu    sync.Mutex
	calls []OrderSubmission
	err   error
	// entered/release turn Submit into a barrier for concurrency tests.
	entered chan struct{}
	release chan struct{}
}

func (s *stubSubmitter) Submit(_ context.Context, submission OrderSubmission) error {
	if s.entered != nil {
		s.entered <- struct{}{}
		<-s.release
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, submission)
	return s.err
}

func (s *stubSubmitter) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.calls)
}

func buyer() *auth.Identity {
	return &auth.Identity{UserID: "user-1", Email: "raka@pasarseni.id", Name: "Raka"}
}

func setupCheckout(t *testing.T, sub Submitter) (Service, cart.Service) {
	t.Helper()

	carts, err := cart.NewService(&fakeSlot{data: map[string][]byte{}}, nil)
	if err != nil {
		t.Fatalf("cart.NewService: %v", err)
	}
	svc, err := NewService(carts, sub, 0.05, nil, nil)
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	carts.Subscribe(svc.CartChanged)
	return svc, carts
}

func fillCart(t *testing.T, carts cart.Service, owner string) {
	t.Helper()

	ctx := context.Background()
	if err := carts.AddItem(ctx, owner, cart.Candidate{
		ID:     "p1",
		Title:  "Patung Garuda",
		Price:  250_000,
		Artist: cart.Artist{FirstName: "Sari", LastName: "Putri"},
	}); err != nil {
		t.Fatalf("AddItem: %v", err)
	}
	if err := carts.UpdateQuantity(ctx, owner, "p1", 2); err != nil {
		t.Fatalf("UpdateQuantity: %v", err)
	}
}

func TestSubmitEmptyCartStaysIdle(t *testing.T) {
	t.Parallel()

	sub := &stubSubmitter{}
	svc, _ := setupCheckout(t, sub)

	result, err := svc.Submit(context.Background(), "user-1", buyer())

	appErr := pkgerrors.As(err)
	if appErr == nil || appErr.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
	if result.State != StateIdle {
		t.Fatalf("expected idle state, got %s", result.State)
	}
	if sub.callCount() != 0 {
		t.Fatal("empty cart must not reach the order backend")
	}
}

func TestSubmitUnauthenticatedAwaitsAuth(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	sub := &stubSubmitter{}
	svc, carts := setupCheckout(t, sub)
	fillCart(t, carts, "guest-abc")

	result, err := svc.Submit(ctx, "guest-abc", nil)
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if result.State != StateAwaitingAuth {
		t.Fatalf("expected awaiting_auth, got %s", result.State)
	}
	if result.RedirectURL != SignInRedirect {
		t.Fatalf("unexpected redirect %q", result.RedirectURL)
	}
	if sub.callCount() != 0 {
		t.Fatal("unauthenticated checkout must not reach the order backend")
	}

	// The cart is preserved for after sign-in.
	count, err := carts.ItemCount(ctx, "guest-abc")
	if err != nil {
		t.Fatalf("ItemCount: %v", err)
	}
	if count != 2 {
		t.Fatalf("cart should be untouched, got count %d", count)
	}
}

func TestSubmitSuccessClearsCart(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	sub := &stubSubmitter{}
	svc, carts := setupCheckout(t, sub)
	fillCart(t, carts, "user-1")

	result, err := svc.Submit(ctx, "user-1", buyer())
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if result.State != StateCompleted {
		t.Fatalf("expected completed, got %s", result.State)
	}
	if result.OrderID == "" {
		t.Fatal("completed checkout must carry an order id")
	}
	if result.Pricing.Subtotal != 500_000 || result.Pricing.Commission != 25_000 || result.Pricing.Total != 525_000 {
		t.Fatalf("unexpected pricing %+v", result.Pricing)
	}

	if sub.callCount() != 1 {
		t.Fatalf("expected 1 submission, got %d", sub.callCount())
	}
	got := sub.calls[0]
	if got.UserID != "user-1" || got.Total != 525_000 || len(got.Items) != 1 {
		t.Fatalf("unexpected submission %+v", got)
	}

	count, err := carts.ItemCount(ctx, "user-1")
	if err != nil {
		t.Fatalf("ItemCount: %v", err)
	}
	if count != 0 {
		t.Fatalf("cart should be empty after checkout, got %d", count)
	}
}

func TestSubmitFailureKeepsCart(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	sub := &stubSubmitter{err: errors.New("order backend down")}
	svc, carts := setupCheckout(t, sub)
	fillCart(t, carts, "user-1")

	result, err := svc.Submit(ctx, "user-1", buyer())

	appErr := pkgerrors.As(err)
	if appErr == nil || appErr.Code() != pkgerrors.CodeDependency {
		t.Fatalf("expected dependency error, got %v", err)
	}
	if result.State != StateFailed {
		t.Fatalf("expected failed, got %s", result.State)
	}
	if result.Message == "" {
		t.Fatal("failed checkout should carry a message")
	}

	count, err := carts.ItemCount(ctx, "user-1")
	if err != nil {
		t.Fatalf("ItemCount: %v", err)
	}
	if count != 2 {
		t.Fatalf("cart must survive a failed checkout, got %d", count)
	}

	// A retry with the same cart goes through.
	sub.mu.Lock()
	sub.err = nil
	sub.mu.Unlock()

	result, err = svc.Submit(ctx, "user-1", buyer())
	if err != nil {
		t.Fatalf("retry Submit: %v", err)
	}
	if result.State != StateCompleted {
		t.Fatalf("expected completed on retry, got %s", result.State)
	}
	if sub.callCount() != 2 {
		t.Fatalf("expected 2 submissions, got %d", sub.callCount())
	}
}

func TestSubmitWhileProcessingIsIgnored(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	sub := &stubSubmitter{
		entered: make(chan struct{}, 1),
		release: make(chan struct{}),
	}
	svc, carts := setupCheckout(t, sub)
	fillCart(t, carts, "user-1")

	done := make(chan Result, 1)
	go func() {
		result, _ := svc.Submit(ctx, "user-1", buyer())
		done <- result
	}()

	<-sub.entered

	second, err := svc.Submit(ctx, "user-1", buyer())
	if err != nil {
		t.Fatalf("second Submit: %v", err)
	}
	if second.State != StateProcessing {
		t.Fatalf("expected processing for concurrent submit, got %s", second.State)
	}

	close(sub.release)
	first := <-done
	if first.State != StateCompleted {
		t.Fatalf("expected first submit to complete, got %s", first.State)
	}
	if sub.callCount() != 1 {
		t.Fatalf("expected a single submission, got %d", sub.callCount())
	}
}

func TestCartMutationResetsSettledCheckout(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	sub := &stubSubmitter{}
	svc, carts := setupCheckout(t, sub)
	fillCart(t, carts, "user-1")

	if _, err := svc.Submit(ctx, "user-1", buyer()); err != nil {
		t.Fatalf("Submit: %v", err)
	}

	status, err := svc.Status(ctx, "user-1")
	if err != nil {
		t.Fatalf("Status: %v", err)
	}
	if status.State != StateCompleted {
		t.Fatalf("expected completed, got %s", status.State)
	}

	fillCart(t, carts, "user-1")

	status, err = svc.Status(ctx, "user-1")
	if err != nil {
		t.Fatalf("Status: %v", err)
	}
	if status.State != StateIdle {
		t.Fatalf("new cart activity should reset checkout to idle, got %s", status.State)
	}
}

func TestQuotePartitionsExactly(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	sub := &stubSubmitter{}
	svc, carts := setupCheckout(t, sub)

	if err := carts.AddItem(ctx, "user-1", cart.Candidate{
		ID:     "odd",
		Title:  "Sketsa",
		Price:  99,
		Artist: cart.Artist{FirstName: "A", LastName: "B"},
	}); err != nil {
		t.Fatalf("AddItem: %v", err)
	}

	pricing, err := svc.Quote(ctx, "user-1")
	if err != nil {
		t.Fatalf("Quote: %v", err)
	}
	if pricing.Subtotal+pricing.Commission != pricing.Total {
		t.Fatalf("total must equal subtotal plus commission: %+v", pricing)
	}
	if pricing.Commission != 5 {
		t.Fatalf("expected commission 5 on 99 at 5%%, got %d", pricing.Commission)
	}
}
