package model

import "time"

// CartItem is unique per (user, product, variant). VariantID is "" for products without variants
// so that the unique index also holds for them.
type CartItem struct {
	UserID    string    `gorm:"primaryKey;size:64;not null" json:"user_id"`
	ProductID string    `gorm:"primaryKey;size:64;not null" json:"product_id"`
	VariantID string    `gorm:"primaryKey;size:64;not null;default:''" json:"variant_id"`
	Quantity  int32     `gorm:"not null" json:"quantity"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ContentSetting stores an admin-edited JSON payload whose shape depends on SettingType.
type ContentSetting struct {
	SettingType string    `gorm:"primaryKey;size:64;not null"`
	Payload     string    `gorm:"type:text;not null"`
	UpdatedAt   time.Time
}
