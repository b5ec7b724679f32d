package repository

import (
	"errors"
	"log"

	"github.com/cliptube/user_service/internal/domain"
	"gorm.io/gorm"
)

// SubscriptionRepository reads subscription edges. This service never
// writes them; they are owned by the subscription service.
type SubscriptionRepository interface {
	CountSubscribers(channelID uint) (int64, error)
	CountSubscribedTo(subscriberID uint) (int64, error)
	IsSubscribed(subscriberID, channelID uint) (bool, error)
}

type subscriptionRepository struct {
	db *gorm.DB
}

func NewSubscriptionRepository(db *gorm.DB) SubscriptionRepository {
	return &subscriptionRepository{db: db}
}

func (r *subscriptionRepository) CountSubscribers(channelID uint) (int64, error) {
	var count int64
	err := r.db.Model(&domain.Subscription{}).
		Where("channel_id = ?", channelID).
		Count(&count).Error
	if err != nil {
		log.Printf("count subscribers error: %v", err)
		return 0, err
	}
	return count, nil
}

func (r *subscriptionRepository) CountSubscribedTo(subscriberID uint) (int64, error) {
	var count int64
	err := r.db.Model(&domain.Subscription{}).
		Where("subscriber_id = ?", subscriberID).
		Count(&count).Error
	if err != nil {
		log.Printf("count subscribed-to error: %v", err)
		return 0, err
	}
	return count, nil
}

func (r *subscriptionRepository) IsSubscribed(subscriberID, channelID uint) (bool, error) {
	if subscriberID == 0 {
		return false, nil
	}

	var edge domain.Subscription
	err := r.db.
		Where("subscriber_id = ? AND channel_id = ?", subscriberID, channelID).
		First(&edge).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		log.Printf("subscription lookup error: %v", err)
		return false, err
	}
	return true, nil
}
