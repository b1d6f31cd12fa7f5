package model

import (
	"time"
)

// ListingModel is the GORM model for the listings table.
// ImageURLs holds the comma-joined reference list; splitting and joining
// happen in the repository mappers.
type ListingModel struct {
	ID          int64     `gorm:"primaryKey;autoIncrement"`
	Title       string    `gorm:"type:varchar(255);not null"`
	Description string    `gorm:"type:text;not null"`
	Price       float64   `gorm:"type:numeric(12,2);not null"`
	Location    string    `gorm:"type:varchar(255);not null"`
	ImageURLs   string    `gorm:"column:image_urls;type:text;not null"`
	OwnerID     int64     `gorm:"index;not null"`
	CreatedAt   time.Time `gorm:"not null;default:now()"`
	UpdatedAt   time.Time `gorm:"not null;default:now()"`
}

// TableName specifies the table name for the ListingModel.
func (ListingModel) TableName() string {
	return "listings"
}
