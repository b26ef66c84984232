package controllers

import (
	"context"
	"encoding/json"
	"maps"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/demolux/storefront/api/middleware"
	"github.com/demolux/storefront/api/responses"
	"github.com/demolux/storefront/api/validators"
	"github.com/demolux/storefront/internal/cart"
	"github.com/demolux/storefront/internal/catalog"
	"github.com/demolux/storefront/internal/content"
	"github.com/demolux/storefront/internal/personalize"
	pkgerrors "github.com/demolux/storefront/pkg/errors"
	"github.com/demolux/storefront/pkg/logger"
)

const maxLineQuantity = 99

type addCartItemRequest struct {
	Slug            string            `json:"slug" validate:"required,max=200"`
	Quantity        int               `json:"quantity" validate:"min=0,max=99"`
	SelectedOptions map[string]string `json:"selectedOptions"`
}

type updateCartItemRequest struct {
	Quantity        int               `json:"quantity" validate:"min=0,max=99"`
	SelectedOptions map[string]string `json:"selectedOptions"`
}

type removeCartItemRequest struct {
	SelectedOptions map[string]string `json:"selectedOptions"`
}

// loadCartRequest accepts a state as returned by the cart endpoints. The
// derived totals are ignored.
type loadCartRequest struct {
	Items     []cart.Item     `json:"items"`
	Total     json.RawMessage `json:"total,omitempty"`
	ItemCount int             `json:"itemCount,omitempty"`
}

// CartGet returns the session cart.
func CartGet(svc cart.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		store, ok := cartStore(w, r, svc, logg)
		if !ok {
			return
		}
		state, err := store.State(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, state)
	}
}

// CartAddItem looks the product up by slug, so prices always come from the CMS.
func CartAddItem(svc cart.Service, products content.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		store, ok := cartStore(w, r, svc, logg)
		if !ok {
			return
		}
		if products == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "content service unavailable"))
			return
		}

		var payload addCartItemRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		product, err := products.GetProductBySlug(ctx, payload.Slug, personalize.VariantsFromContext(ctx))
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		state, err := store.State(ctx)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		quantity := payload.Quantity
		if quantity <= 0 {
			quantity = 1
		}
		if lineQuantity(state, product.UID, payload.SelectedOptions)+quantity > maxLineQuantity {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeValidation, "quantity limit reached").
				WithDetails(map[string]any{"quantity": "must be at most 99"}))
			return
		}

		dispatch(ctx, w, store, cart.AddItem{Product: *product, Quantity: quantity, Options: payload.SelectedOptions}, logg)
	}
}

// CartUpdateItem sets the quantity of a line; zero removes it.
func CartUpdateItem(svc cart.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		store, ok := cartStore(w, r, svc, logg)
		if !ok {
			return
		}
		productID, err := productIDParam(r)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		var payload updateCartItemRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		dispatch(ctx, w, store, cart.UpdateQuantity{ProductID: productID, Options: payload.SelectedOptions, Quantity: payload.Quantity}, logg)
	}
}

// CartRemoveItem drops every line of the product, or only the line matching the
// optional {selectedOptions} body.
func CartRemoveItem(svc cart.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		store, ok := cartStore(w, r, svc, logg)
		if !ok {
			return
		}
		productID, err := productIDParam(r)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		var payload removeCartItemRequest
		if r.ContentLength > 0 {
			if err := validators.DecodeJSONBody(r, &payload); err != nil {
				responses.WriteError(ctx, logg, w, err)
				return
			}
		}
		dispatch(ctx, w, store, cart.RemoveItem{ProductID: productID, Options: payload.SelectedOptions}, logg)
	}
}

func CartClear(svc cart.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		store, ok := cartStore(w, r, svc, logg)
		if !ok {
			return
		}
		dispatch(r.Context(), w, store, cart.ClearCart{}, logg)
	}
}

// CartLoad replaces the cart with the posted items. Each line's product is
// resolved again by uid so titles and prices come from the CMS; totals are recomputed.
func CartLoad(svc cart.Service, products content.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		store, ok := cartStore(w, r, svc, logg)
		if !ok {
			return
		}
		if products == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "content service unavailable"))
			return
		}
		var payload loadCartRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		for i, item := range payload.Items {
			if strings.TrimSpace(item.Product.UID) == "" || item.Quantity < 1 || item.Quantity > maxLineQuantity {
				responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeValidation, "invalid cart item").
					WithDetails(map[string]any{"index": i}))
				return
			}
		}

		items, err := resolveCartItems(ctx, products, payload.Items)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		dispatch(ctx, w, store, cart.LoadCart{State: cart.State{Items: items}}, logg)
	}
}

// resolveCartItems swaps each posted product for the catalog's copy, with the
// visitor's variants applied. Unknown uids are a validation error.
func resolveCartItems(ctx context.Context, products content.Service, posted []cart.Item) ([]cart.Item, error) {
	if len(posted) == 0 {
		return posted, nil
	}
	all, err := products.GetAllProducts(ctx)
	if err != nil {
		return nil, err
	}
	byUID := make(map[string]catalog.Product, len(all))
	for _, p := range all {
		byUID[p.UID] = p
	}

	variants := personalize.VariantsFromContext(ctx)
	items := make([]cart.Item, 0, len(posted))
	for i, item := range posted {
		product, ok := byUID[strings.TrimSpace(item.Product.UID)]
		if !ok {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown product in cart").
				WithDetails(map[string]any{"index": i, "uid": item.Product.UID})
		}
		if len(variants) > 0 && product.Handle() != "" {
			personalized, err := products.GetProductBySlug(ctx, product.Handle(), variants)
			if err != nil {
				return nil, err
			}
			product = *personalized
		}
		item.Product = product
		items = append(items, item)
	}
	return items, nil
}

func cartStore(w http.ResponseWriter, r *http.Request, svc cart.Service, logg *logger.Logger) (*cart.Store, bool) {
	if svc == nil {
		responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable"))
		return nil, false
	}
	store, err := svc.Store(middleware.CartSessionFromContext(r.Context()))
	if err != nil {
		responses.WriteError(r.Context(), logg, w, err)
		return nil, false
	}
	return store, true
}

func productIDParam(r *http.Request) (string, error) {
	id := strings.TrimSpace(chi.URLParam(r, "productId"))
	if id == "" {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}
	return id, nil
}

func dispatch(ctx context.Context, w http.ResponseWriter, store *cart.Store, action cart.Action, logg *logger.Logger) {
	state, err := store.Dispatch(ctx, action)
	if err != nil {
		responses.WriteError(ctx, logg, w, err)
		return
	}
	responses.WriteSuccess(w, state)
}

func lineQuantity(state cart.State, productID string, options map[string]string) int {
	for _, item := range state.Items {
		if item.Product.UID == productID && maps.Equal(item.SelectedOptions, options) {
			return item.Quantity
		}
	}
	return 0
}
