package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/pasarseni/pasarseni-backend/api/middleware"
	"github.com/pasarseni/pasarseni-backend/api/responses"
	"github.com/pasarseni/pasarseni-backend/api/validators"
	cartsvc "github.com/pasarseni/pasarseni-backend/internal/cart"
	"github.com/pasarseni/pasarseni-backend/internal/catalog"
	checkoutsvc "github.com/pasarseni/pasarseni-backend/internal/checkout"
	"github.com/pasarseni/pasarseni-backend/pkg/currency"
	pkgerrors "github.com/pasarseni/pasarseni-backend/pkg/errors"
	"github.com/pasarseni/pasarseni-backend/pkg/logger"
)

type cartView struct {
	Items             []cartsvc.LineItem `json:"items"`
	ItemCount         int                `json:"item_count"`
	Subtotal          currency.Money     `json:"subtotal"`
	SubtotalDisplay   string             `json:"subtotal_display"`
	Commission        currency.Money     `json:"commission"`
	CommissionDisplay string             `json:"commission_display"`
	Total             currency.Money     `json:"total"`
	TotalDisplay      string             `json:"total_display"`
}

func newCartView(items []cartsvc.LineItem, count int, pricing checkoutsvc.Pricing) cartView {
	if items == nil {
		items = []cartsvc.LineItem{}
	}
	return cartView{
		Items:             items,
		ItemCount:         count,
		Subtotal:          pricing.Subtotal,
		SubtotalDisplay:   currency.Format(pricing.Subtotal, currency.FormatOptions{}),
		Commission:        pricing.Commission,
		CommissionDisplay: currency.Format(pricing.Commission, currency.FormatOptions{}),
		Total:             pricing.Total,
		TotalDisplay:      currency.Format(pricing.Total, currency.FormatOptions{}),
	}
}

func writeCartView(w http.ResponseWriter, r *http.Request, carts cartsvc.Service, quotes checkoutsvc.Service, logg *logger.Logger, owner string) {
	items, err := carts.Items(r.Context(), owner)
	if err != nil {
		responses.WriteError(r.Context(), logg, w, err)
		return
	}
	count, err := carts.ItemCount(r.Context(), owner)
	if err != nil {
		responses.WriteError(r.Context(), logg, w, err)
		return
	}
	pricing, err := quotes.Quote(r.Context(), owner)
	if err != nil {
		responses.WriteError(r.Context(), logg, w, err)
		return
	}
	responses.WriteSuccess(w, newCartView(items, count, pricing))
}

// CartGet returns the owner's cart with its pricing breakdown.
func CartGet(carts cartsvc.Service, quotes checkoutsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		owner := middleware.CartOwnerFromContext(r.Context())
		writeCartView(w, r, carts, quotes, logg, owner)
	}
}

type addCartItemRequest struct {
	ArtworkID string           `json:"artwork_id" validate:"required_without=Item"`
	Item      *cartItemPayload `json:"item" validate:"omitempty"`
}

type cartItemPayload struct {
	ID        string         `json:"id" validate:"required"`
	Title     string         `json:"title" validate:"required"`
	Price     currency.Money `json:"price" validate:"gte=0"`
	ImageURL  string         `json:"image_url"`
	Artist    artistPayload  `json:"artist"`
	IsDigital bool           `json:"is_digital"`
}

type artistPayload struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

func (p cartItemPayload) toCandidate() cartsvc.Candidate {
	return cartsvc.Candidate{
		ID:       p.ID,
		Title:    p.Title,
		Price:    p.Price,
		ImageURL: p.ImageURL,
		Artist: cartsvc.Artist{
			FirstName: p.Artist.FirstName,
			LastName:  p.Artist.LastName,
		},
		IsDigital: p.IsDigital,
	}
}

// CartAddItem adds an artwork to the cart, resolving it in the catalog
// when only an id is supplied; a caller-provided snapshot wins otherwise.
func CartAddItem(carts cartsvc.Service, quotes checkoutsvc.Service, listings catalog.Repository, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		owner := middleware.CartOwnerFromContext(r.Context())

		var payload addCartItemRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		candidate, err := payload.resolve(r, listings)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := carts.AddItem(r.Context(), owner, candidate); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		writeCartView(w, r, carts, quotes, logg, owner)
	}
}

func (p addCartItemRequest) resolve(r *http.Request, listings catalog.Repository) (cartsvc.Candidate, error) {
	if p.Item != nil {
		return p.Item.toCandidate(), nil
	}
	artwork, err := listings.FindByID(r.Context(), p.ArtworkID)
	if err != nil {
		return cartsvc.Candidate{}, err
	}
	return artwork.Candidate(), nil
}

type updateQuantityRequest struct {
	Quantity int `json:"quantity" validate:"gte=0"`
}

// CartUpdateQuantity sets a line item's quantity; zero removes it.
func CartUpdateQuantity(carts cartsvc.Service, quotes checkoutsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		owner := middleware.CartOwnerFromContext(r.Context())
		itemID := chi.URLParam(r, "itemID")
		if itemID == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "item id is required"))
			return
		}

		var payload updateQuantityRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := carts.UpdateQuantity(r.Context(), owner, itemID, payload.Quantity); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		writeCartView(w, r, carts, quotes, logg, owner)
	}
}

// CartRemoveItem deletes a line item; absent ids still return the cart.
func CartRemoveItem(carts cartsvc.Service, quotes checkoutsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		owner := middleware.CartOwnerFromContext(r.Context())
		itemID := chi.URLParam(r, "itemID")
		if itemID == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "item id is required"))
			return
		}

		if err := carts.RemoveItem(r.Context(), owner, itemID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		writeCartView(w, r, carts, quotes, logg, owner)
	}
}

// CartClear empties the cart.
func CartClear(carts cartsvc.Service, quotes checkoutsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		owner := middleware.CartOwnerFromContext(r.Context())

		if err := carts.ClearCart(r.Context(), owner); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		writeCartView(w, r, carts, quotes, logg, owner)
	}
}

// CartContains reports whether an artwork is already in the cart.
func CartContains(carts cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		owner := middleware.CartOwnerFromContext(r.Context())
		itemID := chi.URLParam(r, "itemID")

		in, err := carts.IsInCart(r.Context(), owner, itemID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]bool{"in_cart": in})
	}
}
