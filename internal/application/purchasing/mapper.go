package purchasing

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/pos-ledger/internal/application/dto"
	"github.com/jhoicas/pos-ledger/internal/domain/entity"
	"github.com/jhoicas/pos-ledger/internal/domain/inventory"
)

func toLines(orderID int64, lines []inventory.CandidateLine) []*entity.PurchaseOrderLine {
	out := make([]*entity.PurchaseOrderLine, 0, len(lines))
	for _, l := range lines {
		out = append(out, &entity.PurchaseOrderLine{
			PurchaseOrderID: orderID,
			ItemID:          l.ItemID,
			Quantity:        l.Quantity,
			UnitCost:        l.UnitCost,
			Amount:          l.Amount,
		})
	}
	return out
}

func bindCosts(orderID int64, costs []*entity.AdditionalCost) []*entity.AdditionalCost {
	out := make([]*entity.AdditionalCost, 0, len(costs))
	for _, c := range costs {
		out = append(out, &entity.AdditionalCost{PurchaseOrderID: orderID, Name: c.Name, Amount: c.Amount})
	}
	return out
}

func toPatch(in dto.PurchaseOrderPatchRequest) entity.PurchaseOrderPatch {
	return entity.PurchaseOrderPatch{
		OrderNumber:      in.OrderNumber,
		OrderedBy:        in.OrderedBy,
		SupplierID:       in.SupplierID,
		OrderDate:        in.OrderDate,
		ExpectedDate:     in.ExpectedDate,
		DestinationStore: in.DestinationStore,
		Status:           in.Status,
		Received:         in.Received,
		Notes:            in.Notes,
	}
}

func toOrderResponse(o *entity.PurchaseOrder) dto.PurchaseOrderResponse {
	return dto.PurchaseOrderResponse{
		ID:               o.ID,
		OrderNumber:      o.OrderNumber,
		OrderedBy:        o.OrderedBy,
		SupplierID:       o.SupplierID,
		OrderDate:        o.OrderDate,
		ExpectedDate:     o.ExpectedDate,
		DestinationStore: o.DestinationStore,
		Status:           o.Status,
		Received:         o.Received,
		Notes:            o.Notes,
		CreatedAt:        o.CreatedAt,
		UpdatedAt:        o.UpdatedAt,
	}
}

func toDetailResponse(o *entity.PurchaseOrder, lines []*entity.PurchaseOrderLine, costs []*entity.AdditionalCost) *dto.PurchaseOrderDetailResponse {
	out := &dto.PurchaseOrderDetailResponse{
		PurchaseOrderResponse: toOrderResponse(o),
		Items:                 make([]dto.PurchaseOrderLineResponse, 0, len(lines)),
		AdditionalCosts:       make([]dto.AdditionalCostResponse, 0, len(costs)),
	}
	for _, l := range lines {
		var cost *decimal.Decimal
		if l.UnitCost.Valid {
			c := l.UnitCost.Decimal
			cost = &c
		}
		out.Items = append(out.Items, dto.PurchaseOrderLineResponse{
			ID:          l.ID,
			ItemID:      l.ItemID,
			Quantity:    l.Quantity,
			ReceivedQty: l.ReceivedQty,
			UnitCost:    cost,
			Amount:      l.Amount,
		})
	}
	for _, c := range costs {
		out.AdditionalCosts = append(out.AdditionalCosts, dto.AdditionalCostResponse{
			ID:     c.ID,
			Name:   c.Name,
			Amount: c.Amount,
		})
	}
	return out
}
