package domain

import "time"

// Subscription links a subscriber to a channel (a user viewed as the
// target of subscriptions). Consumed read-only for counts and the
// isSubscribed flag.
type Subscription struct {
	ID           uint `gorm:"primaryKey"`
	SubscriberID uint `gorm:"uniqueIndex:uidx_subscriptions_edge;not null"`
	ChannelID    uint `gorm:"uniqueIndex:uidx_subscriptions_edge;not null"`
	CreatedAt    time.Time
}
