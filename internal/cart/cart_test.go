package cart

import (
	"math/rand"
	"testing"

	d "github.com/VictorNogoceki/viveiro-plantas-vendas-sub000/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func product(id int64, price string) d.Product {
	return d.Product{
		ID:    id,
		Code:  "P" + decimal.NewFromInt(id).String(),
		Name:  "Product",
		Price: decimal.RequireFromString(price),
		Stock: 100,
		Unit:  "un",
	}
}

func TestAddItem_NewLine(t *testing.T) {
	c := New()
	line := c.AddItem(product(1, "15.90"))

	assert.Equal(t, 1, line.Quantity)
	assert.Len(t, c.Lines, 1)
	assert.True(t, c.Subtotal().Equal(decimal.RequireFromString("15.90")))
	assert.Equal(t, 1, c.ItemCount())
}

func TestAddItem_SameProductIncrements(t *testing.T) {
	c := New()
	p := product(1, "2.50")
	c.AddItem(p)
	line := c.AddItem(p)

	assert.Equal(t, 2, line.Quantity)
	require.Len(t, c.Lines, 1)
	assert.True(t, c.Lines[0].Total().Equal(decimal.RequireFromString("5.00")))
}

func TestAddItem_KeepsCapturedPrice(t *testing.T) {
	c := New()
	p := product(1, "10.00")
	c.AddItem(p)

	p.Price = decimal.RequireFromString("99.00")
	c.AddItem(p)

	assert.True(t, c.Subtotal().Equal(decimal.RequireFromString("20.00")))
}

func TestAddItem_NotifiesListener(t *testing.T) {
	c := New()
	var events []Event
	c.OnChange(func(e Event) { events = append(events, e) })

	c.AddItem(product(7, "1.00"))

	require.Len(t, events, 1)
	assert.Equal(t, EventItemAdded, events[0].Type)
	assert.Equal(t, int64(7), events[0].Line.Product.ID)
}

func TestSetQuantity(t *testing.T) {
	c := New()
	c.AddItem(product(1, "3.00"))
	c.SetQuantity(1, 4)

	line, ok := c.Line(1)
	require.True(t, ok)
	assert.Equal(t, 4, line.Quantity)
	assert.True(t, c.Subtotal().Equal(decimal.RequireFromString("12.00")))
}

func TestSetQuantity_ZeroOrNegativeRemoves(t *testing.T) {
	for _, qty := range []int{0, -1} {
		c := New()
		c.AddItem(product(1, "3.00"))
		c.AddItem(product(2, "4.00"))

		c.SetQuantity(1, qty)

		_, ok := c.Line(1)
		assert.False(t, ok, "quantity %d should remove the line", qty)
		assert.Len(t, c.Lines, 1)
	}
}

func TestSetQuantity_UnknownProductIgnored(t *testing.T) {
	c := New()
	c.SetQuantity(42, 3)
	assert.True(t, c.IsEmpty())
}

func TestRemoveItem(t *testing.T) {
	c := New()
	c.AddItem(product(1, "3.00"))
	c.AddItem(product(2, "4.00"))

	c.RemoveItem(1)
	c.RemoveItem(99)

	require.Len(t, c.Lines, 1)
	assert.Equal(t, int64(2), c.Lines[0].Product.ID)
}

func TestClear(t *testing.T) {
	c := New()
	c.AddItem(product(1, "3.00"))
	c.Clear()

	assert.True(t, c.IsEmpty())
	assert.True(t, c.Subtotal().IsZero())
	assert.Equal(t, 0, c.ItemCount())
}

func TestDerivedValuesMatchLines(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	prices := []string{"0.99", "1.50", "15.90", "7.33", "120.00"}
	c := New()

	for i := 0; i < 500; i++ {
		id := int64(rng.Intn(len(prices)))
		switch rng.Intn(3) {
		case 0:
			c.AddItem(product(id, prices[id]))
		case 1:
			c.SetQuantity(id, rng.Intn(6)-1)
		case 2:
			c.RemoveItem(id)
		}

		expected := decimal.Zero
		count := 0
		for _, l := range c.Lines {
			expected = expected.Add(l.Product.Price.Mul(decimal.NewFromInt(int64(l.Quantity))))
			count += l.Quantity
			assert.GreaterOrEqual(t, l.Quantity, 1)
		}
		require.True(t, c.Subtotal().Equal(expected))
		require.Equal(t, count, c.ItemCount())
	}
}

func TestSnapshot(t *testing.T) {
	c := New()
	c.AddItem(product(1, "2.00"))
	c.SetQuantity(1, 3)

	lines := c.Snapshot()
	require.Len(t, lines, 1)
	assert.Equal(t, 3, lines[0].Quantity)
	assert.True(t, lines[0].Total.Equal(decimal.RequireFromString("6")))
}
