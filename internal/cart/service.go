package cart

import (
	"context"
	"fmt"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/pasarseni/pasarseni-backend/pkg/currency"
	pkgerrors "github.com/pasarseni/pasarseni-backend/pkg/errors"
	"github.com/pasarseni/pasarseni-backend/pkg/logger"
)

// Candidate is the catalog-derived item descriptor accepted at the façade
// boundary. It is validated here so the store only ever sees well-formed
// snapshots.
type Candidate struct {
	ID        string         `validate:"required"`
	Title     string         `validate:"required"`
	Price     currency.Money `validate:"gte=0"`
	ImageURL  string
	Artist    Artist
	IsDigital bool
}

// Service is the single shared cart façade. It manages one Store per owner
// key (authenticated user id or guest session), lazily rehydrated from the
// durable slot, and is the only entry point the rest of the application
// uses for cart state.
type Service interface {
	Items(ctx context.Context, owner string) ([]LineItem, error)
	ItemCount(ctx context.Context, owner string) (int, error)
	Subtotal(ctx context.Context, owner string) (currency.Money, error)
	AddItem(ctx context.Context, owner string, candidate Candidate) error
	RemoveItem(ctx context.Context, owner, id string) error
	UpdateQuantity(ctx context.Context, owner, id string, quantity int) error
	ClearCart(ctx context.Context, owner string) error
	IsInCart(ctx context.Context, owner, id string) (bool, error)

	// Subscribe registers a listener invoked after every effective mutation.
	Subscribe(listener func(owner string))
}

type service struct {
	slot DurableSlot
	logg *logger.Logger

	mu        sync.Mutex
	stores    map[string]*Store
	listeners []func(owner string)

	validate *validator.Validate
}

// NewService builds the cart façade. Construct exactly one per process:
// independent instances would race on the durable slot and desynchronize
// the displayed cart.
func NewService(slot DurableSlot, logg *logger.Logger) (Service, error) {
	if slot == nil {
		return nil, fmt.Errorf("durable slot required")
	}
	return &service{
		slot:     slot,
		logg:     logg,
		stores:   map[string]*Store{},
		validate: validator.New(),
	}, nil
}

func (s *service) Subscribe(listener func(owner string)) {
	if listener == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, listener)
}

// storeFor returns the owner's store, rehydrating it on first access.
// Callers must hold s.mu.
func (s *service) storeFor(ctx context.Context, owner string) *Store {
	if store, ok := s.stores[owner]; ok {
		return store
	}
	store := newStore(ctx, owner, s.slot, s.logg)
	s.stores[owner] = store
	return store
}

func checkOwner(owner string) error {
	if owner == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "cart owner is required")
	}
	return nil
}

func (s *service) Items(ctx context.Context, owner string) ([]LineItem, error) {
	if err := checkOwner(owner); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.storeFor(ctx, owner).Items(), nil
}

func (s *service) ItemCount(ctx context.Context, owner string) (int, error) {
	if err := checkOwner(owner); err != nil {
		return 0, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.storeFor(ctx, owner).ItemCount(), nil
}

func (s *service) Subtotal(ctx context.Context, owner string) (currency.Money, error) {
	if err := checkOwner(owner); err != nil {
		return 0, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.storeFor(ctx, owner).Subtotal(), nil
}

func (s *service) AddItem(ctx context.Context, owner string, candidate Candidate) error {
	if err := checkOwner(owner); err != nil {
		return err
	}
	if err := s.validate.Struct(candidate); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cart item")
	}

	item := LineItem{
		ID:        candidate.ID,
		Title:     candidate.Title,
		ImageURL:  candidate.ImageURL,
		Price:     candidate.Price,
		Artist:    candidate.Artist,
		IsDigital: candidate.IsDigital,
		Quantity:  1,
	}

	s.mutate(ctx, owner, func(store *Store) bool {
		return store.Add(ctx, item)
	})
	return nil
}

func (s *service) RemoveItem(ctx context.Context, owner, id string) error {
	if err := checkOwner(owner); err != nil {
		return err
	}
	s.mutate(ctx, owner, func(store *Store) bool {
		return store.Remove(ctx, id)
	})
	return nil
}

func (s *service) UpdateQuantity(ctx context.Context, owner, id string, quantity int) error {
	if err := checkOwner(owner); err != nil {
		return err
	}
	s.mutate(ctx, owner, func(store *Store) bool {
		return store.SetQuantity(ctx, id, quantity)
	})
	return nil
}

func (s *service) ClearCart(ctx context.Context, owner string) error {
	if err := checkOwner(owner); err != nil {
		return err
	}
	s.mutate(ctx, owner, func(store *Store) bool {
		return store.Clear(ctx)
	})
	return nil
}

func (s *service) IsInCart(ctx context.Context, owner, id string) (bool, error) {
	if err := checkOwner(owner); err != nil {
		return false, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.storeFor(ctx, owner).Has(id), nil
}

// mutate runs op under the service lock and notifies listeners afterwards
// when the cart actually changed.
func (s *service) mutate(ctx context.Context, owner string, op func(store *Store) bool) {
	s.mu.Lock()
	effective := op(s.storeFor(ctx, owner))
	listeners := s.listeners
	s.mu.Unlock()

	if !effective {
		return
	}
	for _, listener := range listeners {
		listener(owner)
	}
}
