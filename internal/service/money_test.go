package service_test

import (
	"testing"

	"tillpoint/internal/service"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func TestRoundMoneyHalfUp(t *testing.T) {
	assert.Equal(t, "2.35", service.RoundMoney(dec("2.345")).String())
	assert.Equal(t, "2.34", service.RoundMoney(dec("2.344")).String())
	assert.Equal(t, "10", service.RoundMoney(dec("10.004")).String())
	assert.Equal(t, "0.01", service.RoundMoney(dec("0.005")).String())
}

func TestComputeLine(t *testing.T) {
	line := service.ComputeLine(dec("99.99"), dec("3"), dec("0.075"))

	assert.Equal(t, "299.97", line.Subtotal.String())
	// 299.97 * 0.075 = 22.49775 → 22.50
	assert.Equal(t, "22.5", line.Tax.String())
	assert.Equal(t, "322.47", line.Total.String())
}

func TestComputeLineFractionalQuantity(t *testing.T) {
	// Weight goods: 1.25 kg at 4.99 per kg, no tax.
	line := service.ComputeLine(dec("4.99"), dec("1.25"), decimal.Zero)

	// 4.99 * 1.25 = 6.2375 → 6.24
	assert.Equal(t, "6.24", line.Subtotal.String())
	assert.True(t, line.Tax.IsZero())
	assert.Equal(t, "6.24", line.Total.String())
}

func TestAggregateAppliesDiscount(t *testing.T) {
	lines := []service.MoneyLine{
		{Subtotal: dec("100"), Tax: dec("7.50"), Total: dec("107.50")},
		{Subtotal: dec("50"), Tax: decimal.Zero, Total: dec("50")},
	}

	totals := service.Aggregate(lines, dec("10"))

	assert.Equal(t, "150", totals.Subtotal.String())
	assert.Equal(t, "7.5", totals.Tax.String())
	assert.Equal(t, "10", totals.Discount.String())
	assert.Equal(t, "147.5", totals.Total.String())
}

func TestAggregateNoLines(t *testing.T) {
	totals := service.Aggregate(nil, decimal.Zero)
	assert.True(t, totals.Total.IsZero())
}

func TestSumPayments(t *testing.T) {
	total := service.SumPayments([]decimal.Decimal{dec("100.50"), dec("49.50")})
	assert.Equal(t, "150", total.String())
}
