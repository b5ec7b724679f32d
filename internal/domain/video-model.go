package domain

import "time"

type Video struct {
	ID           uint `gorm:"primaryKey"`
	OwnerID      uint `gorm:"index;not null"`
	Owner        User `gorm:"foreignKey:OwnerID"`
	Title        string
	Description  string
	VideoFileURL string
	ThumbnailURL string
	Duration     float64
	Views        int64
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
