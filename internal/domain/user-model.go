package domain

import "time"

// User is the credential and profile record. UserName is stored
// lowercased; RefreshToken mirrors the single refresh token currently
// accepted for rotation (empty = no active session).
type User struct {
	ID            uint   `gorm:"primaryKey"`
	UserName      string `gorm:"uniqueIndex;not null"`
	Email         string `gorm:"uniqueIndex;not null"`
	FullName      string `gorm:"not null"`
	PasswordHash  string
	AvatarURL     string `gorm:"not null"`
	CoverImageURL string
	RefreshToken  string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
