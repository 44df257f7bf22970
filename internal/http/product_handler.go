package http

import (
	"context"
	"net/http"
	"time"

	d "github.com/VictorNogoceki/viveiro-plantas-vendas-sub000/domain"
)

type ProductLister interface {
	List(ctx context.Context) ([]d.Product, error)
}

type ProductHandler struct {
	catalog ProductLister
	timeout time.Duration
}

func NewProductHandler(catalog ProductLister, timeout time.Duration) *ProductHandler {
	return &ProductHandler{
		catalog: catalog,
		timeout: timeout,
	}
}

func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	products, err := h.catalog.List(ctx)
	if err != nil {
		handleError(ctx, w, err)
		return
	}
	if products == nil {
		products = []d.Product{}
	}
	respondJSON(w, http.StatusOK, products)
}
