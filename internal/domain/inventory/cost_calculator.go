package inventory

import "github.com/shopspring/decimal"

// CostCalculator costo promedio ponderado entre dos lotes.
// Costo = ((QtyA * CostoA) + (QtyB * CostoB)) / (QtyA + QtyB); 0 si la suma no es positiva.
func CostCalculator(qtyA, costA, qtyB, costB decimal.Decimal) decimal.Decimal {
	sum := qtyA.Add(qtyB)
	if sum.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero
	}
	return qtyA.Mul(costA).Add(qtyB.Mul(costB)).Div(sum)
}

// Round2 redondea a 2 decimales, mitades alejándose de cero.
func Round2(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// NextAverageCost costo promedio del stock tras una entrada de inQty unidades a inCost.
// Con existencia nula o negativa el costo de la entrada reemplaza al anterior.
func NextAverageCost(stockQty int64, stockCost decimal.Decimal, inQty int64, inCost decimal.Decimal) decimal.Decimal {
	if inQty <= 0 {
		return stockCost
	}
	if stockQty <= 0 {
		return Round2(inCost)
	}
	return Round2(CostCalculator(decimal.NewFromInt(stockQty), stockCost, decimal.NewFromInt(inQty), inCost))
}

// LineAmount importe de una línea: cantidad por costo, redondeado.
func LineAmount(qty int64, cost decimal.Decimal) decimal.Decimal {
	return Round2(cost.Mul(decimal.NewFromInt(qty)))
}
