package payment

import (
	"fmt"

	d "github.com/VictorNogoceki/viveiro-plantas-vendas-sub000/domain"
	"github.com/shopspring/decimal"
)

type SlotState string

const (
	StateUnselected   SlotState = "unselected"
	StateAutoBalanced SlotState = "auto_balanced"
	StateEditing      SlotState = "editing"
	StateCommitted    SlotState = "committed"
)

// Slot holds one payment method. Value is authoritative for every total;
// Text is only the input buffer and is reconciled into Value on Blur.
type Slot struct {
	Method   d.PaymentMethod `json:"method"`
	Selected bool            `json:"selected"`
	Value    decimal.Decimal `json:"value"`
	Text     string          `json:"text"`
	State    SlotState       `json:"state"`
}

func (s Slot) Editing() bool {
	return s.State == StateEditing
}

// Allocator splits the cart subtotal across payment methods. With exactly one
// slot selected that slot follows the subtotal; with more than one, values are
// left to the operator and are not redistributed.
type Allocator struct {
	Slots    []Slot          `json:"slots"`
	Subtotal decimal.Decimal `json:"subtotal"`
}

func NewAllocator(subtotal decimal.Decimal, methods ...d.PaymentMethod) *Allocator {
	if len(methods) == 0 {
		methods = d.RegisterPaymentMethods()
	}
	a := &Allocator{Subtotal: subtotal, Slots: make([]Slot, 0, len(methods))}
	for _, m := range methods {
		a.Slots = append(a.Slots, Slot{Method: m, State: StateUnselected})
	}
	return a
}

func (a *Allocator) slot(m d.PaymentMethod) (*Slot, error) {
	for i := range a.Slots {
		if a.Slots[i].Method == m {
			return &a.Slots[i], nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrUnknownMethod, m)
}

// Slot returns a copy of the slot for m.
func (a *Allocator) Slot(m d.PaymentMethod) (Slot, error) {
	s, err := a.slot(m)
	if err != nil {
		return Slot{}, err
	}
	return *s, nil
}

func (a *Allocator) selected() []*Slot {
	var out []*Slot
	for i := range a.Slots {
		if a.Slots[i].Selected {
			out = append(out, &a.Slots[i])
		}
	}
	return out
}

// Toggle selects or deselects a method. A deselected slot is zeroed. If exactly
// one slot is selected afterwards it is forced to the subtotal.
func (a *Allocator) Toggle(m d.PaymentMethod, selected bool) error {
	s, err := a.slot(m)
	if err != nil {
		return err
	}

	s.Selected = selected
	if selected {
		if s.State == StateUnselected {
			s.State = StateCommitted
		}
	} else {
		s.Value = decimal.Zero
		s.Text = FormatAmount(decimal.Zero)
		s.State = StateUnselected
	}

	if sel := a.selected(); len(sel) == 1 {
		a.balance(sel[0])
	}
	return nil
}

func (a *Allocator) balance(s *Slot) {
	s.Value = a.Subtotal
	s.Text = FormatAmount(a.Subtotal)
	s.State = StateAutoBalanced
}

// SetText stores raw input verbatim and marks the slot as being edited.
func (a *Allocator) SetText(m d.PaymentMethod, raw string) error {
	s, err := a.slot(m)
	if err != nil {
		return err
	}
	s.Text = raw
	s.State = StateEditing
	return nil
}

func (a *Allocator) Focus(m d.PaymentMethod) error {
	s, err := a.slot(m)
	if err != nil {
		return err
	}
	s.State = StateEditing
	return nil
}

// Blur commits the text buffer into Value using ParseAmount and re-renders
// the buffer with two decimals.
func (a *Allocator) Blur(m d.PaymentMethod) error {
	s, err := a.slot(m)
	if err != nil {
		return err
	}
	s.Value = ParseAmount(s.Text)
	s.Text = FormatAmount(s.Value)
	if s.Selected {
		s.State = StateCommitted
	} else {
		s.State = StateUnselected
	}
	return nil
}

// SubtotalChanged records a new cart subtotal. A single selected slot that is
// not being edited follows it.
func (a *Allocator) SubtotalChanged(subtotal decimal.Decimal) {
	a.Subtotal = subtotal
	sel := a.selected()
	if len(sel) == 1 && !sel[0].Editing() {
		a.balance(sel[0])
	}
}

// TotalInformed sums Value over selected slots.
func (a *Allocator) TotalInformed() decimal.Decimal {
	total := decimal.Zero
	for _, s := range a.selected() {
		total = total.Add(s.Value)
	}
	return total
}

// Remaining is subtotal minus total informed; negative means change is due.
func (a *Allocator) Remaining() decimal.Decimal {
	return a.Subtotal.Sub(a.TotalInformed())
}

// Confirm resolves the selected slots with a positive value. It does not
// require the split to match the subtotal.
func (a *Allocator) Confirm() []d.Payment {
	var payments []d.Payment
	for _, s := range a.selected() {
		if s.Value.IsPositive() {
			payments = append(payments, d.Payment{Method: s.Method, Value: s.Value})
		}
	}
	return payments
}

// Reset deselects every slot, keeping the method set.
func (a *Allocator) Reset(subtotal decimal.Decimal) {
	a.Subtotal = subtotal
	for i := range a.Slots {
		a.Slots[i] = Slot{Method: a.Slots[i].Method, State: StateUnselected}
	}
}
