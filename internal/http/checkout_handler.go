package http

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	d "github.com/VictorNogoceki/viveiro-plantas-vendas-sub000/domain"
	"github.com/VictorNogoceki/viveiro-plantas-vendas-sub000/internal/cart"
	"github.com/VictorNogoceki/viveiro-plantas-vendas-sub000/internal/checkout"
	"github.com/VictorNogoceki/viveiro-plantas-vendas-sub000/internal/payment"
	"github.com/VictorNogoceki/viveiro-plantas-vendas-sub000/internal/session"
	"github.com/VictorNogoceki/viveiro-plantas-vendas-sub000/pkg/logger"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type SaleCommitter interface {
	Commit(ctx context.Context, c *cart.Cart, alloc *payment.Allocator, opts ...checkout.CommitOption) (*d.FinalizedSale, error)
	LoadSale(ctx context.Context, saleID int64) (*d.FinalizedSale, error)
}

type ReceiptRenderer interface {
	Render(sale *d.FinalizedSale) string
}

type CheckoutHandler struct {
	sessions *session.Manager
	checkout SaleCommitter
	receipts ReceiptRenderer
	timeout  time.Duration
}

func NewCheckoutHandler(sessions *session.Manager, committer SaleCommitter, receipts ReceiptRenderer, timeout time.Duration) *CheckoutHandler {
	return &CheckoutHandler{
		sessions: sessions,
		checkout: committer,
		receipts: receipts,
		timeout:  timeout,
	}
}

type CheckoutRequestDTO struct {
	Note string `json:"note"`
}

type ReceiptResponseDTO struct {
	Sale    *d.FinalizedSale `json:"sale"`
	Receipt string           `json:"receipt"`
}

// Checkout commits the session's cart. A failed commit leaves the session
// untouched. Once the commit is issued it runs to the end even if the client
// goes away, and the sale is returned even when saving the reset session fails.
func (h *CheckoutHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	var req CheckoutRequestDTO
	if r.ContentLength != 0 {
		if err := decodeBody(r.Body, &req); err != nil {
			respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
			return
		}
	}

	var opts []checkout.CommitOption
	if req.Note != "" {
		opts = append(opts, checkout.WithNote(req.Note))
	}

	s, err := h.sessions.Get(ctx, chi.URLParam(r, "id"))
	if err != nil {
		handleError(ctx, w, err)
		return
	}

	commitCtx := context.WithoutCancel(r.Context())
	sale, err := h.checkout.Commit(commitCtx, s.Cart, s.Payments, opts...)
	if err != nil {
		handleError(commitCtx, w, err)
		return
	}

	s.Reset()
	if err := h.sessions.Save(commitCtx, s); err != nil {
		logger.FromContext(commitCtx).Error("failed to reset session after checkout",
			zap.String("session_id", s.ID),
			zap.Int64("sale_id", sale.SaleID),
			zap.Error(err))
	}
	respondJSON(w, http.StatusCreated, ReceiptResponseDTO{Sale: sale, Receipt: h.receipts.Render(sale)})
}

func (h *CheckoutHandler) Receipt(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	saleID, ok := int64Param(w, r, "id")
	if !ok {
		return
	}
	sale, err := h.checkout.LoadSale(ctx, saleID)
	if err != nil {
		handleError(ctx, w, err)
		return
	}
	respondJSON(w, http.StatusOK, ReceiptResponseDTO{Sale: sale, Receipt: h.receipts.Render(sale)})
}

func decodeBody(body io.Reader, dst any) error {
	err := json.NewDecoder(body).Decode(dst)
	if err == io.EOF {
		return nil
	}
	return err
}
