package repository

import (
	"errors"
	"log"

	"github.com/cliptube/user_service/internal/domain"
	"gorm.io/gorm"
)

type WatchHistoryRepository interface {
	// ListByUserID returns entries in watch order with the video and
	// its owner loaded.
	ListByUserID(userID uint) ([]domain.WatchHistoryEntry, error)
	Append(entry *domain.WatchHistoryEntry) error
	FindVideoById(videoID uint) (*domain.Video, error)
}

type watchHistoryRepository struct {
	db *gorm.DB
}

func NewWatchHistoryRepository(db *gorm.DB) WatchHistoryRepository {
	return &watchHistoryRepository{db: db}
}

func (r *watchHistoryRepository) ListByUserID(userID uint) ([]domain.WatchHistoryEntry, error) {
	var entries []domain.WatchHistoryEntry
	err := r.db.
		Preload("Video.Owner").
		Where("user_id = ?", userID).
		Order("id ASC").
		Find(&entries).Error
	if err != nil {
		log.Printf("list watch history error: %v", err)
		return nil, err
	}
	return entries, nil
}

func (r *watchHistoryRepository) Append(entry *domain.WatchHistoryEntry) error {
	if entry == nil {
		return errors.New("nil entry")
	}

	if err := r.db.Create(entry).Error; err != nil {
		log.Printf("append watch history error: %v", err)
		return err
	}
	return nil
}

func (r *watchHistoryRepository) FindVideoById(videoID uint) (*domain.Video, error) {
	video := &domain.Video{}

	if err := r.db.First(video, videoID).Error; err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			log.Printf("find video by id error: %v", err)
		}
		return nil, err
	}
	return video, nil
}
