package receipt

import (
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	d "github.com/VictorNogoceki/viveiro-plantas-vendas-sub000/domain"
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

const defaultWidth = 40

var ErrInvalidLocale = errors.New("receipt: invalid locale")

// Presenter renders finalized sales as plain-text receipts. It never mutates
// the sale it is given.
type Presenter struct {
	printer  *message.Printer
	currency string
	width    int
	location *time.Location
}

func NewPresenter(locale, currency string) (*Presenter, error) {
	tag, err := language.Parse(locale)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidLocale, locale)
	}
	return &Presenter{
		printer:  message.NewPrinter(tag),
		currency: currency,
		width:    defaultWidth,
		location: time.Local,
	}, nil
}

// Amount formats v with two decimals in the presenter's locale. The integer
// and cent parts are printed separately so no float conversion loses cents.
func (p *Presenter) Amount(v decimal.Decimal) string {
	r := v.Abs().Round(2)
	fixed := r.StringFixed(2)
	s := p.printer.Sprint(number.Decimal(r.IntPart())) + p.decimalSeparator() + fixed[len(fixed)-2:]
	if v.Round(2).IsNegative() {
		s = "-" + s
	}
	if p.currency == "" {
		return s
	}
	return p.currency + " " + s
}

func (p *Presenter) Render(sale *d.FinalizedSale) string {
	var b strings.Builder
	rule := strings.Repeat("-", p.width)

	b.WriteString(p.center(fmt.Sprintf("SALE #%d", sale.SaleID)))
	b.WriteString(p.center(sale.CreatedAt.In(p.location).Format("2006-01-02 15:04")))
	b.WriteString(rule + "\n")

	for _, l := range sale.Lines {
		name := l.ProductName
		if l.ProductCode != "" {
			name = l.ProductCode + " " + name
		}
		b.WriteString(name + "\n")
		qty := p.printer.Sprintf("  %d %s x %s", l.Quantity, l.Unit, p.Amount(l.UnitPrice))
		b.WriteString(p.columns(qty, p.Amount(l.Total)))
	}

	b.WriteString(rule + "\n")
	b.WriteString(p.columns("Subtotal", p.Amount(sale.Subtotal)))
	for _, pay := range sale.Payments {
		b.WriteString(p.columns(pay.Method.Name(), p.Amount(pay.Value)))
	}
	if change := sale.Change(); change.IsPositive() {
		b.WriteString(p.columns("Change", p.Amount(change)))
	}

	if sale.Note != "" {
		b.WriteString(rule + "\n")
		b.WriteString("Note: " + sale.Note + "\n")
	}
	return b.String()
}

func (p *Presenter) decimalSeparator() string {
	sample := p.printer.Sprint(number.Decimal(1.5, number.Scale(1)))
	return strings.TrimSuffix(strings.TrimPrefix(sample, "1"), "5")
}

func (p *Presenter) columns(left, right string) string {
	gap := p.width - utf8.RuneCountInString(left) - utf8.RuneCountInString(right)
	if gap < 1 {
		gap = 1
	}
	return left + strings.Repeat(" ", gap) + right + "\n"
}

func (p *Presenter) center(s string) string {
	pad := (p.width - utf8.RuneCountInString(s)) / 2
	if pad < 0 {
		pad = 0
	}
	return strings.Repeat(" ", pad) + s + "\n"
}
