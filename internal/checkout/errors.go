package checkout

import (
	"errors"
	"fmt"
	"strings"

	d "github.com/VictorNogoceki/viveiro-plantas-vendas-sub000/domain"
)

var (
	ErrEmptyCart         = errors.New("cart is empty")
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrIllegalTransition = errors.New("illegal commit status transition")
)

// StepError reports the step a commit failed at. Rows written by the steps in
// Completed stay in the store unless compensation ran.
type StepError struct {
	Step        string
	Status      d.CommitStatus
	SaleID      int64
	Completed   []string
	Compensated bool
	Err         error
}

func (e *StepError) Error() string {
	if e.SaleID == 0 {
		return fmt.Sprintf("checkout failed at %s: %v", e.Step, e.Err)
	}
	return fmt.Sprintf("checkout failed at %s (sale #%d): %v", e.Step, e.SaleID, e.Err)
}

func (e *StepError) Unwrap() []error {
	if isStockRejection(e.Err) {
		return []error{e.Err, ErrInsufficientStock}
	}
	return []error{e.Err}
}

// Partial reports whether rows of the failed commit were left behind.
func (e *StepError) Partial() bool {
	return e.SaleID != 0 && !e.Compensated
}

// The store reports stock rejections only through its message.
func isStockRejection(err error) bool {
	return err != nil && strings.Contains(err.Error(), "insufficient stock")
}
