package handlers

import (
	"net/http"

	"github.com/Rakhulsr/go-storefront/app/helpers"
	"github.com/Rakhulsr/go-storefront/app/services"
	"github.com/unrolled/render"
	"go.uber.org/zap"
)

type addToCartRequest struct {
	ProductID uint `json:"product_id"`
	Quantity  *int `json:"quantity"`
}

type updateQuantityRequest struct {
	Quantity int `json:"quantity"`
}

type updateNoteRequest struct {
	Note string `json:"note"`
}

type CartHandler struct {
	responder
	carts    *services.CartService
	checkout *services.CheckoutService
}

func NewCartHandler(carts *services.CartService, checkout *services.CheckoutService, render *render.Render, log *zap.Logger) *CartHandler {
	return &CartHandler{
		responder: responder{render: render, log: log},
		carts:     carts,
		checkout:  checkout,
	}
}

func (h *CartHandler) Get(w http.ResponseWriter, r *http.Request) {
	view, err := h.carts.GetCart(r.Context(), cartID(r))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.json(w, http.StatusOK, view)
}

// Add defaults a missing or zero quantity to 1.
func (h *CartHandler) Add(w http.ResponseWriter, r *http.Request) {
	var req addToCartRequest
	if err := helpers.DecodeJSON(w, r, &req); err != nil {
		h.badRequest(w, r, "body", err)
		return
	}
	quantity := 1
	if req.Quantity != nil && *req.Quantity != 0 {
		quantity = *req.Quantity
	}

	line, err := h.carts.AddToCart(r.Context(), cartID(r), req.ProductID, quantity)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.json(w, http.StatusCreated, line)
}

func (h *CartHandler) UpdateQuantity(w http.ResponseWriter, r *http.Request) {
	itemID, err := pathID(r, "id")
	if err != nil {
		h.badRequest(w, r, "id", err)
		return
	}
	var req updateQuantityRequest
	if err := helpers.DecodeJSON(w, r, &req); err != nil {
		h.badRequest(w, r, "body", err)
		return
	}

	line, err := h.carts.UpdateQuantity(r.Context(), cartID(r), itemID, req.Quantity)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.json(w, http.StatusOK, line)
}

func (h *CartHandler) UpdateNote(w http.ResponseWriter, r *http.Request) {
	itemID, err := pathID(r, "id")
	if err != nil {
		h.badRequest(w, r, "id", err)
		return
	}
	var req updateNoteRequest
	if err := helpers.DecodeJSON(w, r, &req); err != nil {
		h.badRequest(w, r, "body", err)
		return
	}

	line, err := h.carts.UpdateNote(r.Context(), cartID(r), itemID, req.Note)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.json(w, http.StatusOK, line)
}

func (h *CartHandler) Remove(w http.ResponseWriter, r *http.Request) {
	itemID, err := pathID(r, "id")
	if err != nil {
		h.badRequest(w, r, "id", err)
		return
	}
	if err := h.carts.RemoveItem(r.Context(), cartID(r), itemID); err != nil {
		h.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *CartHandler) Empty(w http.ResponseWriter, r *http.Request) {
	if err := h.carts.EmptyCart(r.Context(), cartID(r)); err != nil {
		h.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *CartHandler) Totals(w http.ResponseWriter, r *http.Request) {
	totals, err := h.carts.GetOrderTotals(r.Context(), cartID(r))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.json(w, http.StatusOK, totals)
}

func (h *CartHandler) Count(w http.ResponseWriter, r *http.Request) {
	count, err := h.carts.CountItems(r.Context(), cartID(r))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.json(w, http.StatusOK, map[string]int{"count": count})
}

func (h *CartHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	confirmation, err := h.checkout.Checkout(r.Context(), cartID(r))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.json(w, http.StatusOK, confirmation)
}
