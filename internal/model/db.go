package model

// Tables lists every persisted entity, in migration order.
func Tables() []any {
	return []any{
		&Product{},
		&ProductVariant{},
		&Order{},
		&OrderItem{},
		&Payment{},
		&Shipment{},
		&OrderTracking{},
		&CartItem{},
		&ContentSetting{},
	}
}
