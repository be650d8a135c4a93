package inventory

import (
	"fmt"
	"math"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/pos-ledger/internal/domain"
)

// CandidateLine línea de orden de compra antes de normalizar.
type CandidateLine struct {
	ItemID   int64
	Quantity int64
	UnitCost decimal.NullDecimal
	Amount   decimal.Decimal
}

// LineSet mapa ordenado por artículo: conserva el orden de la primera aparición.
type LineSet struct {
	order []int64
	lines map[int64]CandidateLine
}

// NewLineSet crea un conjunto vacío.
func NewLineSet() *LineSet {
	return &LineSet{lines: make(map[int64]CandidateLine)}
}

// Add incorpora una línea. Si el artículo ya existe se fusiona con la línea acumulada
// (reducción por pares, no promedio global sobre todas las apariciones).
// Si la suma de cantidades desborda int64 la línea no se incorpora.
func (s *LineSet) Add(l CandidateLine) error {
	prev, ok := s.lines[l.ItemID]
	if !ok {
		s.order = append(s.order, l.ItemID)
		s.lines[l.ItemID] = l
		return nil
	}
	merged, err := mergePair(prev, l)
	if err != nil {
		return fmt.Errorf("artículo %d: %w", l.ItemID, err)
	}
	s.lines[l.ItemID] = merged
	return nil
}

// Len cantidad de artículos distintos.
func (s *LineSet) Len() int { return len(s.order) }

// Lines devuelve las líneas normalizadas en orden estable.
func (s *LineSet) Lines() []CandidateLine {
	out := make([]CandidateLine, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.lines[id])
	}
	return out
}

// AddQuantity suma dos cantidades; ErrInvalidInput si el resultado desborda int64.
func AddQuantity(a, b int64) (int64, error) {
	if (b > 0 && a > math.MaxInt64-b) || (b < 0 && a < math.MinInt64-b) {
		return 0, fmt.Errorf("cantidad fuera de rango: %w", domain.ErrInvalidInput)
	}
	return a + b, nil
}

func mergePair(acc, in CandidateLine) (CandidateLine, error) {
	qty, err := AddQuantity(acc.Quantity, in.Quantity)
	if err != nil {
		return CandidateLine{}, err
	}
	merged := CandidateLine{ItemID: acc.ItemID, Quantity: qty}

	if acc.UnitCost.Valid && in.UnitCost.Valid {
		cost := Round2(CostCalculator(
			decimal.NewFromInt(acc.Quantity), acc.UnitCost.Decimal,
			decimal.NewFromInt(in.Quantity), in.UnitCost.Decimal,
		))
		merged.UnitCost = decimal.NewNullDecimal(cost)
	} else {
		// sin ambos costos gana el de la línea entrante, aunque sea nulo
		merged.UnitCost = in.UnitCost
	}

	if merged.UnitCost.Valid {
		merged.Amount = LineAmount(qty, merged.UnitCost.Decimal)
	} else {
		merged.Amount = acc.Amount.Add(in.Amount)
	}
	return merged, nil
}

// NormalizeLines colapsa las líneas repetidas por artículo. No valida el signo de las
// cantidades, solo que su suma quepa en int64.
func NormalizeLines(in []CandidateLine) ([]CandidateLine, error) {
	set := NewLineSet()
	for _, l := range in {
		if err := set.Add(l); err != nil {
			return nil, err
		}
	}
	return set.Lines(), nil
}
