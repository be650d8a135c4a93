package sales

import (
	"github.com/jhoicas/pos-ledger/internal/application/dto"
	"github.com/jhoicas/pos-ledger/internal/domain/entity"
)

func toPatch(in dto.SalePatchRequest) entity.SalePatch {
	return entity.SalePatch{
		CustomerID:     in.CustomerID,
		PaymentType:    in.PaymentType,
		SaleDate:       in.SaleDate,
		TotalQuantity:  in.TotalQuantity,
		TotalAmount:    in.TotalAmount,
		DiscountAmount: in.DiscountAmount,
	}
}

func toSaleResponse(s *entity.SaleMaster) dto.SaleResponse {
	return dto.SaleResponse{
		ID:             s.ID,
		CustomerID:     s.CustomerID,
		PaymentType:    s.PaymentType,
		SaleDate:       s.SaleDate,
		TotalQuantity:  s.TotalQuantity,
		TotalAmount:    s.TotalAmount,
		DiscountAmount: s.DiscountAmount,
		CreatedBy:      s.CreatedBy,
		UpdatedBy:      s.UpdatedBy,
		CreatedAt:      s.CreatedAt,
		UpdatedAt:      s.UpdatedAt,
	}
}

func toSaleWithItems(s *entity.SaleMaster, details []*entity.SaleDetail) *dto.SaleWithItemsResponse {
	out := &dto.SaleWithItemsResponse{
		SaleResponse: toSaleResponse(s),
		Items:        make([]dto.SaleDetailResponse, 0, len(details)),
	}
	for _, d := range details {
		out.Items = append(out.Items, dto.SaleDetailResponse{
			ID:        d.ID,
			ItemID:    d.ItemID,
			Quantity:  d.Quantity,
			UnitPrice: d.UnitPrice,
			Amount:    d.Amount,
			AvgCost:   d.AvgCost,
		})
	}
	return out
}

func toReturnResponse(r *entity.SaleReturn) dto.SaleReturnResponse {
	return dto.SaleReturnResponse{
		ID:             r.ID,
		SaleDetailsID:  r.SaleDetailID,
		ReturnQuantity: r.ReturnQuantity,
		CreatedBy:      r.CreatedBy,
		CreatedAt:      r.CreatedAt,
	}
}
