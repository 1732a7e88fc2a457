package orders

import "github.com/denimhub/denimhub-backend/pkg/db/models"

func toOrderDetail(order *models.Order) *OrderDetail {
	detail := &OrderDetail{
		ID:                   order.ID,
		OrderNumber:          order.OrderNumber,
		UniqueToken:          order.UniqueToken,
		UserID:               order.UserID,
		GuestEmail:           order.GuestEmail,
		CustomerName:         order.CustomerName,
		CustomerPhone:        order.CustomerPhone,
		Status:               order.Status,
		PaymentStatus:        order.PaymentStatus,
		Currency:             order.Currency,
		ExchangeRate:         order.ExchangeRate,
		Subtotal:             order.Subtotal,
		ShippingCost:         order.ShippingCost,
		TaxAmount:            order.TaxAmount,
		DiscountAmount:       order.DiscountAmount,
		MemberDiscountAmount: order.MemberDiscountAmount,
		TotalAmount:          order.TotalAmount,
		DiscountCode:         order.DiscountCode,
		Notes:                order.Notes,
		CreatedAt:            order.CreatedAt,
		UpdatedAt:            order.UpdatedAt,
		ApprovedAt:           order.ApprovedAt,
		Items:                make([]OrderItem, 0, len(order.Items)),
		Taxes:                make([]OrderCharge, 0, len(order.Taxes)),
		Discounts:            make([]OrderCharge, 0, len(order.Discounts)),
		History:              make([]HistoryEntry, 0, len(order.History)),
	}

	for _, item := range order.Items {
		detail.Items = append(detail.Items, OrderItem{
			ID:               item.ID,
			ProductVariantID: item.ProductVariantID,
			ProductID:        item.ProductID,
			ProductName:      item.ProductName,
			SizeName:         item.SizeName,
			ProductSKU:       item.ProductSKU,
			Quantity:         item.Quantity,
			UnitPrice:        item.UnitPrice,
			UnitCost:         item.UnitCost,
			Subtotal:         item.Subtotal,
		})
	}
	for _, tax := range order.Taxes {
		detail.Taxes = append(detail.Taxes, OrderCharge{
			ID:          tax.ID,
			Description: tax.Description,
			Amount:      tax.Amount,
			SortOrder:   tax.SortOrder,
		})
	}
	for _, discount := range order.Discounts {
		detail.Discounts = append(detail.Discounts, OrderCharge{
			ID:          discount.ID,
			Description: discount.Description,
			Amount:      discount.Amount,
			SortOrder:   discount.SortOrder,
		})
	}
	// Orders carry one payment stub; the latest row wins if more exist.
	if n := len(order.Payments); n > 0 {
		payment := order.Payments[n-1]
		detail.Payment = &Payment{
			ID:     payment.ID,
			Method: payment.Method,
			Amount: payment.Amount,
			Status: payment.Status,
			PaidAt: payment.PaidAt,
		}
	}
	if s := order.Shipping; s != nil {
		detail.Shipping = &Shipping{
			RecipientName:  s.RecipientName,
			Phone:          s.Phone,
			Address:        s.Address,
			City:           s.City,
			Province:       s.Province,
			PostalCode:     s.PostalCode,
			Country:        s.Country,
			Courier:        s.Courier,
			TrackingNumber: s.TrackingNumber,
			ShippingNotes:  s.ShippingNotes,
			ShippedAt:      s.ShippedAt,
			DeliveredAt:    s.DeliveredAt,
		}
	}
	for _, entry := range order.History {
		detail.History = append(detail.History, HistoryEntry{
			ID:          entry.ID,
			Status:      entry.Status,
			Title:       entry.Title,
			Description: entry.Description,
			Location:    entry.Location,
			CreatedBy:   entry.CreatedBy,
			CreatedAt:   entry.CreatedAt,
		})
	}
	return detail
}
