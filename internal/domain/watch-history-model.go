package domain

import "time"

// WatchHistoryEntry records one watched video. Rows are returned in
// insertion order (ascending ID).
type WatchHistoryEntry struct {
	ID        uint  `gorm:"primaryKey"`
	UserID    uint  `gorm:"index;not null"`
	VideoID   uint  `gorm:"not null"`
	Video     Video `gorm:"foreignKey:VideoID"`
	CreatedAt time.Time
}
