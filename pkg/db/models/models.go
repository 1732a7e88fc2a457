package models

// All lists every persisted model in dependency order for AutoMigrate.
func All() []any {
	return []any{
		&User{},
		&Product{},
		&Size{},
		&Warehouse{},
		&ProductVariant{},
		&InventoryMovement{},
		&Order{},
		&OrderItem{},
		&OrderTax{},
		&OrderDiscount{},
		&Payment{},
		&OrderShipping{},
		&OrderShippingHistory{},
		&Coupon{},
		&CouponUsage{},
		&Discount{},
		&ExchangeRate{},
		&ExchangeRateLog{},
		&ActivityLog{},
	}
}
