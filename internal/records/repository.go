package records

import (
	"errors"
	"time"

	"github.com/VictorNogoceki/viveiro-plantas-vendas-sub000/internal/store"
)

var (
	ErrProductNotFound = errors.New("product not found")
	ErrSaleNotFound    = errors.New("sale not found")
	ErrMalformedRow    = errors.New("malformed row")
)

// Repository maps domain entities onto generic store rows.
type Repository struct {
	store store.Store
	now   func() time.Time
}

func NewRepository(s store.Store) *Repository {
	return &Repository{
		store: s,
		now:   func() time.Time { return time.Now().UTC() },
	}
}
