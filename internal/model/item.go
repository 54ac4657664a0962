package model

import "github.com/google/uuid"

// Item is a stock-keeping unit. CurrentQuantity only moves through a logged Transaction.
type Item struct {
	BaseModel
	SKU               string     `gorm:"type:varchar(50);uniqueIndex;not null" json:"sku"`
	Name              string     `gorm:"type:varchar(255);not null" json:"name"`
	Description       string     `gorm:"type:text" json:"description"`
	CategoryID        *uuid.UUID `gorm:"type:uuid;index" json:"category_id"`
	Category          *Category  `gorm:"foreignKey:CategoryID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"category,omitempty"`
	CurrentQuantity   int        `gorm:"not null;default:0;check:chk_items_quantity_non_negative,current_quantity >= 0" json:"current_quantity"`
	LowStockThreshold int        `gorm:"not null;default:0;check:chk_items_threshold_non_negative,low_stock_threshold >= 0" json:"low_stock_threshold"`
	UnitOfMeasurement string     `gorm:"type:varchar(20);not null" json:"unit_of_measurement"`
}

// IsLowStock reports whether the item is at or below its threshold
func (i *Item) IsLowStock() bool {
	return i.CurrentQuantity <= i.LowStockThreshold
}

// ItemListRow is an item joined with its category name
type ItemListRow struct {
	Item
	CategoryName *string `json:"category_name"`
}
