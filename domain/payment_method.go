package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

type PaymentMethod string

const (
	PaymentCash       PaymentMethod = "cash"
	PaymentCreditCard PaymentMethod = "credit_card"
	PaymentDebitCard  PaymentMethod = "debit_card"
	PaymentPIX        PaymentMethod = "pix"

	// Only valid on cash-flow records, never offered at the register.
	PaymentTransfer PaymentMethod = "transfer"
	PaymentCheck    PaymentMethod = "check"
	PaymentOther    PaymentMethod = "other"
)

var paymentMethodNames = map[PaymentMethod]string{
	PaymentCash:       "Cash",
	PaymentCreditCard: "Credit Card",
	PaymentDebitCard:  "Debit Card",
	PaymentPIX:        "PIX",
	PaymentTransfer:   "Transfer",
	PaymentCheck:      "Check",
	PaymentOther:      "Other",
}

// RegisterPaymentMethods returns the slots offered by the payment step, in display order.
func RegisterPaymentMethods() []PaymentMethod {
	return []PaymentMethod{PaymentCash, PaymentCreditCard, PaymentDebitCard, PaymentPIX}
}

func ParsePaymentMethod(s string) (PaymentMethod, error) {
	m := PaymentMethod(s)
	if _, ok := paymentMethodNames[m]; !ok {
		return "", fmt.Errorf("unknown payment method %q", s)
	}
	return m, nil
}

// Name is the human readable label used in sale summaries and cash-flow descriptions.
func (m PaymentMethod) Name() string {
	if name, ok := paymentMethodNames[m]; ok {
		return name
	}
	return string(m)
}

func (m PaymentMethod) String() string {
	return string(m)
}

// Payment is a resolved (method, value) pair produced by confirming the allocation.
type Payment struct {
	Method PaymentMethod   `json:"method"`
	Value  decimal.Decimal `json:"value"`
}
