package cart

import (
	"time"

	d "github.com/VictorNogoceki/viveiro-plantas-vendas-sub000/domain"
	"github.com/shopspring/decimal"
)

// Line is one product in the cart. The unit price is captured from the
// product when the line is created and never follows later catalog changes.
type Line struct {
	Product  d.Product `json:"product"`
	Quantity int       `json:"quantity"`
	AddedAt  time.Time `json:"added_at"`
}

// Total is always quantity x captured unit price.
func (l Line) Total() decimal.Decimal {
	return l.Product.Price.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

type EventType string

const (
	EventItemAdded   EventType = "item_added"
	EventItemRemoved EventType = "item_removed"
	EventCleared     EventType = "cleared"
)

type Event struct {
	Type EventType
	Line Line
}

// Cart keeps one line per product in insertion order. Subtotal and item count
// are derived on every read.
type Cart struct {
	Lines []Line `json:"lines"`

	listener func(Event)
}

func New() *Cart {
	return &Cart{}
}

// OnChange registers a listener for UI notifications. It is not persisted
// with the cart.
func (c *Cart) OnChange(fn func(Event)) {
	c.listener = fn
}

func (c *Cart) notify(e Event) {
	if c.listener != nil {
		c.listener(e)
	}
}

func (c *Cart) indexOf(productID int64) int {
	for i := range c.Lines {
		if c.Lines[i].Product.ID == productID {
			return i
		}
	}
	return -1
}

// AddItem increments the existing line for the product or appends a new line
// with quantity 1. Stock is not checked here.
func (c *Cart) AddItem(p d.Product) Line {
	if i := c.indexOf(p.ID); i >= 0 {
		c.Lines[i].Quantity++
		c.notify(Event{Type: EventItemAdded, Line: c.Lines[i]})
		return c.Lines[i]
	}

	line := Line{Product: p, Quantity: 1, AddedAt: time.Now()}
	c.Lines = append(c.Lines, line)
	c.notify(Event{Type: EventItemAdded, Line: line})
	return line
}

// RemoveItem deletes the line for productID; missing lines are ignored.
func (c *Cart) RemoveItem(productID int64) {
	i := c.indexOf(productID)
	if i < 0 {
		return
	}
	removed := c.Lines[i]
	c.Lines = append(c.Lines[:i], c.Lines[i+1:]...)
	c.notify(Event{Type: EventItemRemoved, Line: removed})
}

// SetQuantity sets the line quantity; quantity <= 0 removes the line.
// Unknown products are ignored.
func (c *Cart) SetQuantity(productID int64, quantity int) {
	if quantity <= 0 {
		c.RemoveItem(productID)
		return
	}
	if i := c.indexOf(productID); i >= 0 {
		c.Lines[i].Quantity = quantity
	}
}

func (c *Cart) Clear() {
	c.Lines = nil
	c.notify(Event{Type: EventCleared})
}

func (c *Cart) Subtotal() decimal.Decimal {
	total := decimal.Zero
	for _, l := range c.Lines {
		total = total.Add(l.Total())
	}
	return total
}

func (c *Cart) ItemCount() int {
	count := 0
	for _, l := range c.Lines {
		count += l.Quantity
	}
	return count
}

func (c *Cart) IsEmpty() bool {
	return len(c.Lines) == 0
}

// Line returns the line for productID, if any.
func (c *Cart) Line(productID int64) (Line, bool) {
	if i := c.indexOf(productID); i >= 0 {
		return c.Lines[i], true
	}
	return Line{}, false
}

// Snapshot copies the lines into receipt form.
func (c *Cart) Snapshot() []d.SaleLine {
	lines := make([]d.SaleLine, 0, len(c.Lines))
	for _, l := range c.Lines {
		lines = append(lines, d.SaleLine{
			ProductID:   l.Product.ID,
			ProductCode: l.Product.Code,
			ProductName: l.Product.Name,
			Unit:        l.Product.Unit,
			Quantity:    l.Quantity,
			UnitPrice:   l.Product.Price,
			Total:       l.Total(),
		})
	}
	return lines
}
