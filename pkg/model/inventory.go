package model

// InventoryItem is stock kept aboard a yacht.
type InventoryItem struct {
	Base
	YachtID     string  `gorm:"column:yacht_id;size:36;not null;index" json:"yachtId"`
	Name        string  `gorm:"column:name;size:200;not null" json:"name"`
	Category    string  `gorm:"column:category;size:64" json:"category,omitempty"`
	SKU         string  `gorm:"column:sku;size:64" json:"sku,omitempty"`
	Quantity    float64 `gorm:"column:quantity;not null;default:0" json:"quantity"`
	MinQuantity float64 `gorm:"column:min_quantity;not null;default:0" json:"minQuantity"`
	Unit        string  `gorm:"column:unit;size:16" json:"unit,omitempty"`
	UnitPrice   float64 `gorm:"column:unit_price" json:"unitPrice,omitempty"`
	Currency    string  `gorm:"column:currency;size:3" json:"currency,omitempty"`
	Location    string  `gorm:"column:location;size:100" json:"location,omitempty"`
}

func (InventoryItem) TableName() string {
	return "inventory_items"
}

// LowStock reports whether the item is at or below its reorder threshold.
func (i *InventoryItem) LowStock() bool {
	return i.Quantity <= i.MinQuantity
}

// StockValue is the stock value of the item.
func (i *InventoryItem) StockValue() float64 {
	return i.Quantity * i.UnitPrice
}
