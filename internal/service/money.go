package service

import "github.com/shopspring/decimal"

// money.go — pure money arithmetic for checkout. No state, no storage.
//
// Rounding policy: every monetary result is rounded to 2 decimal places
// (the currency's minor unit) with round-half-up. shopspring's Round is
// half-away-from-zero, which is identical for the non-negative amounts
// handled here. Applied uniformly — lines, tax, and aggregates.

const moneyPlaces = 2

// RoundMoney normalizes an amount to minor-unit precision.
func RoundMoney(d decimal.Decimal) decimal.Decimal {
	return d.Round(moneyPlaces)
}

// LineTotal computes unitPrice * quantity at minor-unit precision.
func LineTotal(unitPrice, quantity decimal.Decimal) decimal.Decimal {
	return RoundMoney(unitPrice.Mul(quantity))
}

// LineTax computes lineSubtotal * taxRate at minor-unit precision.
func LineTax(lineSubtotal, taxRate decimal.Decimal) decimal.Decimal {
	return RoundMoney(lineSubtotal.Mul(taxRate))
}

// MoneyLine is one computed checkout line.
type MoneyLine struct {
	Subtotal decimal.Decimal
	Tax      decimal.Decimal
	Total    decimal.Decimal
}

// ComputeLine derives a line's subtotal, tax and total from its frozen unit
// price, quantity and tax rate. Zero or negative quantities are rejected by
// the checkout processor before this is called.
func ComputeLine(unitPrice, quantity, taxRate decimal.Decimal) MoneyLine {
	subtotal := LineTotal(unitPrice, quantity)
	tax := LineTax(subtotal, taxRate)
	return MoneyLine{
		Subtotal: subtotal,
		Tax:      tax,
		Total:    subtotal.Add(tax),
	}
}

// MoneyTotals aggregates all lines of a sale.
type MoneyTotals struct {
	Subtotal decimal.Decimal
	Tax      decimal.Decimal
	Discount decimal.Decimal
	Total    decimal.Decimal
}

// Aggregate sums line subtotals and taxes and applies the sale-level
// discount: total = subtotal + tax - discount.
func Aggregate(lines []MoneyLine, discount decimal.Decimal) MoneyTotals {
	subtotal := decimal.Zero
	tax := decimal.Zero
	for _, l := range lines {
		subtotal = subtotal.Add(l.Subtotal)
		tax = tax.Add(l.Tax)
	}
	discount = RoundMoney(discount)
	return MoneyTotals{
		Subtotal: subtotal,
		Tax:      tax,
		Discount: discount,
		Total:    subtotal.Add(tax).Sub(discount),
	}
}

// SumPayments totals a set of payment amounts.
func SumPayments(amounts []decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	for _, a := range amounts {
		total = total.Add(a)
	}
	return total
}
