package models

// Product is a construction-materials catalog entry.
type Product struct {
	BaseModel
	SKU         string  `gorm:"uniqueIndex" json:"sku"`
	Name        string  `json:"name"`
	Category    string  `gorm:"index" json:"category"`
	Description string  `json:"description"`
	Unit        string  `json:"unit"` // bag|ton|m3|piece|roll
	UnitPrice   float64 `json:"unit_price"`
	InStock     bool    `json:"in_stock"`
}
