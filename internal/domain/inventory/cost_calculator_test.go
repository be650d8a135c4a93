package inventory_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/pos-ledger/internal/domain/inventory"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestCostCalculator(t *testing.T) {
	tests := []struct {
		name   string
		qa, ca string
		qb, cb string
		want   string
	}{
		{"mismo costo", "10", "10", "10", "10", "10"},
		{"promedio ponderado", "10", "10", "10", "40", "25"},
		{"sin stock previo", "0", "0", "5", "12", "12"},
		{"suma cero", "5", "10", "-5", "10", "0"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := inventory.CostCalculator(d(tt.qa), d(tt.ca), d(tt.qb), d(tt.cb))
			assert.True(t, d(tt.want).Equal(got), "esperado %s, obtenido %s", tt.want, got)
		})
	}
}

func TestNextAverageCost(t *testing.T) {
	assert.True(t, d("25").Equal(inventory.NextAverageCost(10, d("10"), 10, d("40"))))
	// existencia negativa: el costo de la entrada reemplaza
	assert.True(t, d("7.5").Equal(inventory.NextAverageCost(-3, d("10"), 4, d("7.5"))))
	// salidas no tocan el costo
	assert.True(t, d("10").Equal(inventory.NextAverageCost(5, d("10"), -2, d("99"))))
	// redondeo a 2 decimales
	assert.True(t, d("3.33").Equal(inventory.NextAverageCost(2, d("0"), 1, d("10"))))
}

func TestRound2_MitadHaciaArriba(t *testing.T) {
	assert.Equal(t, "0.01", inventory.Round2(d("0.005")).StringFixed(2))
	assert.Equal(t, "2.35", inventory.Round2(d("2.345")).StringFixed(2))
}
