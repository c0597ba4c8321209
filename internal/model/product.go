package model

import "time"

// Product is a catalog entry identifying a sellable item. Product codes are
// not unique; the code is just another searchable label.
type Product struct {
	ID        uint   `gorm:"primaryKey"`
	Code      string `gorm:"not null;size:50"`
	Name      string `gorm:"not null;size:100"`
	Category  string `gorm:"size:100"`
	Flavors   string `gorm:"type:text"`
	Format    string `gorm:"size:100"`
	CreatedAt time.Time
	UpdatedAt time.Time
}
