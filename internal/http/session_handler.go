package http

import (
	"context"
	"fmt"
	"net/http"
	"time"

	d "github.com/VictorNogoceki/viveiro-plantas-vendas-sub000/domain"
	"github.com/VictorNogoceki/viveiro-plantas-vendas-sub000/internal/cart"
	"github.com/VictorNogoceki/viveiro-plantas-vendas-sub000/internal/session"
	"github.com/go-chi/chi/v5"
)

type ProductGetter interface {
	Get(ctx context.Context, id int64) (d.Product, error)
}

type SessionHandler struct {
	sessions *session.Manager
	products ProductGetter
	timeout  time.Duration
}

func NewSessionHandler(sessions *session.Manager, products ProductGetter, timeout time.Duration) *SessionHandler {
	return &SessionHandler{
		sessions: sessions,
		products: products,
		timeout:  timeout,
	}
}

type AddItemRequestDTO struct {
	ProductID int64 `json:"product_id"`
}

type SetQuantityRequestDTO struct {
	Quantity int `json:"quantity"`
}

type ToggleMethodRequestDTO struct {
	Selected bool `json:"selected"`
}

type SetTextRequestDTO struct {
	Text string `json:"text"`
}

type AddItemResponseDTO struct {
	Session session.View `json:"session"`
	Notice  string       `json:"notice,omitempty"`
}

func (h *SessionHandler) Create(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	s, err := h.sessions.Create(ctx)
	if err != nil {
		handleError(ctx, w, err)
		return
	}
	respondJSON(w, http.StatusCreated, s.View())
}

func (h *SessionHandler) Get(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	s, err := h.sessions.Get(ctx, chi.URLParam(r, "id"))
	if err != nil {
		handleError(ctx, w, err)
		return
	}
	respondJSON(w, http.StatusOK, s.View())
}

func (h *SessionHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	if err := h.sessions.Delete(ctx, chi.URLParam(r, "id")); err != nil {
		handleError(ctx, w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *SessionHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	var req AddItemRequestDTO
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.ProductID <= 0 {
		respondError(w, http.StatusBadRequest, "invalid_product_id", "product_id must be positive")
		return
	}

	product, err := h.products.Get(ctx, req.ProductID)
	if err != nil {
		handleError(ctx, w, err)
		return
	}

	var notice string
	s, err := h.sessions.Update(ctx, chi.URLParam(r, "id"), func(s *session.Session) error {
		s.Cart.OnChange(func(e cart.Event) {
			if e.Type == cart.EventItemAdded {
				notice = fmt.Sprintf("%s added to cart", e.Line.Product.Name)
			}
		})
		s.AddItem(product)
		return nil
	})
	if err != nil {
		handleError(ctx, w, err)
		return
	}
	respondJSON(w, http.StatusCreated, AddItemResponseDTO{Session: s.View(), Notice: notice})
}

func (h *SessionHandler) SetQuantity(w http.ResponseWriter, r *http.Request) {
	productID, ok := int64Param(w, r, "product_id")
	if !ok {
		return
	}
	var req SetQuantityRequestDTO
	if !decodeJSON(w, r, &req) {
		return
	}
	h.update(w, r, func(s *session.Session) error {
		s.SetQuantity(productID, req.Quantity)
		return nil
	})
}

func (h *SessionHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	productID, ok := int64Param(w, r, "product_id")
	if !ok {
		return
	}
	h.update(w, r, func(s *session.Session) error {
		s.RemoveItem(productID)
		return nil
	})
}

func (h *SessionHandler) Clear(w http.ResponseWriter, r *http.Request) {
	h.update(w, r, func(s *session.Session) error {
		s.Clear()
		return nil
	})
}

func (h *SessionHandler) ToggleMethod(w http.ResponseWriter, r *http.Request) {
	method, ok := methodParam(w, r)
	if !ok {
		return
	}
	var req ToggleMethodRequestDTO
	if !decodeJSON(w, r, &req) {
		return
	}
	h.update(w, r, func(s *session.Session) error {
		return s.Payments.Toggle(method, req.Selected)
	})
}

func (h *SessionHandler) SetText(w http.ResponseWriter, r *http.Request) {
	method, ok := methodParam(w, r)
	if !ok {
		return
	}
	var req SetTextRequestDTO
	if !decodeJSON(w, r, &req) {
		return
	}
	h.update(w, r, func(s *session.Session) error {
		return s.Payments.SetText(method, req.Text)
	})
}

func (h *SessionHandler) Focus(w http.ResponseWriter, r *http.Request) {
	method, ok := methodParam(w, r)
	if !ok {
		return
	}
	h.update(w, r, func(s *session.Session) error {
		return s.Payments.Focus(method)
	})
}

func (h *SessionHandler) Blur(w http.ResponseWriter, r *http.Request) {
	method, ok := methodParam(w, r)
	if !ok {
		return
	}
	h.update(w, r, func(s *session.Session) error {
		return s.Payments.Blur(method)
	})
}

func (h *SessionHandler) update(w http.ResponseWriter, r *http.Request, fn func(s *session.Session) error) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	s, err := h.sessions.Update(ctx, chi.URLParam(r, "id"), fn)
	if err != nil {
		handleError(ctx, w, err)
		return
	}
	respondJSON(w, http.StatusOK, s.View())
}

func methodParam(w http.ResponseWriter, r *http.Request) (d.PaymentMethod, bool) {
	method, err := d.ParsePaymentMethod(chi.URLParam(r, "method"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "unknown_payment_method", err.Error())
		return "", false
	}
	return method, true
}
