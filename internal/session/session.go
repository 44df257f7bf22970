package session

import (
	"time"

	d "github.com/VictorNogoceki/viveiro-plantas-vendas-sub000/domain"
	"github.com/VictorNogoceki/viveiro-plantas-vendas-sub000/internal/cart"
	"github.com/VictorNogoceki/viveiro-plantas-vendas-sub000/internal/payment"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Session is one checkout flow at a terminal. It owns its cart and payment
// allocation; nothing else holds a reference to them.
type Session struct {
	ID        string             `json:"id"`
	Cart      *cart.Cart         `json:"cart"`
	Payments  *payment.Allocator `json:"payments"`
	CreatedAt time.Time          `json:"created_at"`
	UpdatedAt time.Time          `json:"updated_at"`
}

func New(now time.Time) *Session {
	return &Session{
		ID:        uuid.NewString(),
		Cart:      cart.New(),
		Payments:  payment.NewAllocator(decimal.Zero),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func (s *Session) cartChanged() {
	s.Payments.SubtotalChanged(s.Cart.Subtotal())
}

func (s *Session) AddItem(p d.Product) cart.Line {
	line := s.Cart.AddItem(p)
	s.cartChanged()
	return line
}

func (s *Session) RemoveItem(productID int64) {
	s.Cart.RemoveItem(productID)
	s.cartChanged()
}

func (s *Session) SetQuantity(productID int64, quantity int) {
	s.Cart.SetQuantity(productID, quantity)
	s.cartChanged()
}

func (s *Session) Clear() {
	s.Cart.Clear()
	s.cartChanged()
}

// Reset starts a fresh sale after a successful checkout.
func (s *Session) Reset() {
	s.Cart.Clear()
	s.Payments.Reset(decimal.Zero)
}

type SlotView struct {
	Method   d.PaymentMethod   `json:"method"`
	Name     string            `json:"name"`
	Selected bool              `json:"selected"`
	Value    string            `json:"value"`
	Text     string            `json:"text"`
	State    payment.SlotState `json:"state"`
}

type LineView struct {
	ProductID int64  `json:"product_id"`
	Code      string `json:"code"`
	Name      string `json:"name"`
	Quantity  int    `json:"quantity"`
	UnitPrice string `json:"unit_price"`
	Total     string `json:"total"`
}

// View is the read model sent to terminals.
type View struct {
	ID            string     `json:"id"`
	Lines         []LineView `json:"lines"`
	Subtotal      string     `json:"subtotal"`
	ItemCount     int        `json:"item_count"`
	TotalInformed string     `json:"total_informed"`
	Remaining     string     `json:"remaining"`
	Slots         []SlotView `json:"slots"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

func (s *Session) View() View {
	v := View{
		ID:            s.ID,
		Lines:         make([]LineView, 0, len(s.Cart.Lines)),
		Subtotal:      payment.FormatAmount(s.Cart.Subtotal()),
		ItemCount:     s.Cart.ItemCount(),
		TotalInformed: payment.FormatAmount(s.Payments.TotalInformed()),
		Remaining:     payment.FormatAmount(s.Payments.Remaining()),
		Slots:         make([]SlotView, 0, len(s.Payments.Slots)),
		UpdatedAt:     s.UpdatedAt,
	}
	for _, l := range s.Cart.Lines {
		v.Lines = append(v.Lines, LineView{
			ProductID: l.Product.ID,
			Code:      l.Product.Code,
			Name:      l.Product.Name,
			Quantity:  l.Quantity,
			UnitPrice: payment.FormatAmount(l.Product.Price),
			Total:     payment.FormatAmount(l.Total()),
		})
	}
	for _, slot := range s.Payments.Slots {
		v.Slots = append(v.Slots, SlotView{
			Method:   slot.Method,
			Name:     slot.Method.Name(),
			Selected: slot.Selected,
			Value:    payment.FormatAmount(slot.Value),
			Text:     slot.Text,
			State:    slot.State,
		})
	}
	return v
}
