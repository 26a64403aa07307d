package order

import "github.com/pedidoz/backoffice/pkg/money"

// Total returns delivery + additional - discount + Σ(unit_price × quantity),
// rounded to two decimals. Add-on prices are already part of unit_price.
func Total(delivery, additional, discount float64, products []StoredProduct) float64 {
	values := make([]float64, 0, len(products)+3)
	values = append(values, delivery, additional, -discount)
	for _, p := range products {
		values = append(values, money.Mul(p.UnitPrice, float64(p.Quantity)))
	}
	return money.Sum(values...)
}

// PaymentStatusFor derives the payment status of an order from what was paid so far.
func PaymentStatusFor(total float64, payments []Payment) PaymentStatus {
	paid := Paid(payments)
	switch {
	case paid <= 0:
		return PaymentPending
	case paid < money.Round2(total):
		return PaymentPartial
	default:
		return PaymentPaid
	}
}

// Paid sums the payment amounts.
func Paid(payments []Payment) float64 {
	values := make([]float64, len(payments))
	for i, p := range payments {
		values[i] = p.Amount
	}
	return money.Sum(values...)
}
