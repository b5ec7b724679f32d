package dto

import "time"

type ChannelProfileResponse struct {
	ID                uint   `json:"id"`
	UserName          string `json:"userName"`
	FullName          string `json:"fullName"`
	Email             string `json:"email"`
	Avatar            string `json:"avatar"`
	CoverImage        string `json:"coverImage"`
	SubscriberCount   int64  `json:"subscriberCount"`
	SubscribedToCount int64  `json:"channelsSubscribedToCount"`
	IsSubscribed      bool   `json:"isSubscribed"`
}

// VideoOwner is the minimal public projection of a video's owner.
type VideoOwner struct {
	FullName string `json:"fullName"`
	UserName string `json:"userName"`
	Avatar   string `json:"avatar"`
}

type WatchHistoryItem struct {
	VideoID   uint       `json:"videoId"`
	Title     string     `json:"title"`
	Thumbnail string     `json:"thumbnail"`
	Duration  float64    `json:"duration"`
	Views     int64      `json:"views"`
	WatchedAt time.Time  `json:"watchedAt"`
	Owner     VideoOwner `json:"owner"`
}
