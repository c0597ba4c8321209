package model

import "time"

// InventoryRecord is a dated snapshot of production, sales, returns and
// defects for one product. Records are append-only: they can be deleted after
// re-authentication but never edited.
type InventoryRecord struct {
	ID        uint   `gorm:"primaryKey"`
	ProductID uint   `gorm:"not null;index"`
	Produced  int    `gorm:"not null;default:0"`
	Sold      int    `gorm:"not null;default:0"`
	Returned  int    `gorm:"not null;default:0"`
	Defective int    `gorm:"not null;default:0"`
	Date      string `gorm:"not null;size:30"`
	CreatedAt time.Time
}
