package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/cliptube/user_service/internal/domain"
	"github.com/cliptube/user_service/internal/dto"
	"github.com/cliptube/user_service/internal/helper"
	"github.com/cliptube/user_service/internal/helper/utils"
	"github.com/cliptube/user_service/internal/interfaces"
	"github.com/cliptube/user_service/internal/repository"
	"gorm.io/gorm"
)

type UserService interface {
	// Auth
	Register(ctx context.Context, input dto.RegisterRequest) (*dto.UserResponse, error)
	Login(input dto.UserLogin) (*dto.LoginResponse, error)
	Logout(userID uint) error
	RefreshTokens(incoming string) (*dto.LoginResponse, error)
	// ResolveUser backs the auth middleware: loads the subject of a
	// verified access token.
	ResolveUser(userID uint) (*dto.UserResponse, error)

	// Profile
	CurrentUser(userID uint) (*dto.UserResponse, error)
	ChangePassword(userID uint, input dto.ChangePasswordRequest) error
	UpdateAccount(userID uint, input dto.UpdateAccountRequest) (*dto.UserResponse, error)
	UpdateAvatar(ctx context.Context, userID uint, localPath string) (*dto.UserResponse, error)
	UpdateCoverImage(ctx context.Context, userID uint, localPath string) (*dto.UserResponse, error)

	// Social reads
	ChannelProfile(requesterID uint, userName string) (*dto.ChannelProfileResponse, error)
	WatchHistory(userID uint) ([]dto.WatchHistoryItem, error)
	AddWatchEvent(userID, videoID uint) error
}

type userService struct {
	repo     repository.UserRepository
	subRepo  repository.SubscriptionRepository
	histRepo repository.WatchHistoryRepository
	uploader interfaces.Uploader
	producer interfaces.ProducerHandler
	auth     helper.Auth
}

func NewUserService(
	repo repository.UserRepository,
	subRepo repository.SubscriptionRepository,
	histRepo repository.WatchHistoryRepository,
	uploader interfaces.Uploader,
	producer interfaces.ProducerHandler,
	auth helper.Auth,
) UserService {
	return &userService{
		repo:     repo,
		subRepo:  subRepo,
		histRepo: histRepo,
		uploader: uploader,
		producer: producer,
		auth:     auth,
	}
}

/* =========================
   AUTH
========================= */

func (u *userService) Register(ctx context.Context, input dto.RegisterRequest) (*dto.UserResponse, error) {
	fullName := strings.TrimSpace(input.FullName)
	email := strings.TrimSpace(strings.ToLower(input.Email))
	userName := strings.TrimSpace(strings.ToLower(input.UserName))
	password := strings.TrimSpace(input.Password)

	if fullName == "" || email == "" || userName == "" || password == "" {
		return nil, utils.BadRequest("All fields are required")
	}

	existing, err := u.repo.FindUserByUserNameOrEmail(userName, email)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	if existing != nil && existing.ID != 0 {
		return nil, utils.Conflict("Username or email already exists")
	}

	if strings.TrimSpace(input.AvatarPath) == "" {
		return nil, utils.BadRequest("Avatar file is required")
	}

	avatarURL, err := u.uploader.UploadLocalFile(ctx, "cliptube/avatars", input.AvatarPath)
	if err != nil || avatarURL == "" {
		return nil, utils.BadRequest("Avatar file is required")
	}

	// cover image is optional and its upload failure is tolerated
	coverURL, err := u.uploader.UploadLocalFile(ctx, "cliptube/covers", input.CoverImagePath)
	if err != nil {
		coverURL = ""
	}

	hashed, err := helper.HashPassword(password)
	if err != nil {
		return nil, err
	}

	newUser := &domain.User{
		FullName:      fullName,
		Email:         email,
		UserName:      userName,
		PasswordHash:  hashed,
		AvatarURL:     avatarURL,
		CoverImageURL: coverURL,
	}

	usr, err := u.repo.CreateUser(newUser)
	if err != nil {
		if helper.IsDuplicateKey(err) {
			return nil, utils.Conflict("Username or email already exists")
		}
		return nil, err
	}

	// post-write consistency check
	created, err := u.repo.FindUserById(usr.ID)
	if err != nil || created == nil {
		return nil, utils.Internal("Error while registering the user account")
	}

	if u.producer != nil {
		payload := fmt.Sprintf(
			`{"user_id":%d,"email":"%s","user_name":"%s","registered_at":"%s"}`,
			created.ID, created.Email, created.UserName, time.Now().Format(time.RFC3339),
		)
		_ = u.producer.PublishMessage([]byte("user.registered"), []byte(payload))
	}

	resp := dto.NewUserResponse(created)
	return &resp, nil
}

func (u *userService) Login(input dto.UserLogin) (*dto.LoginResponse, error) {
	userName := strings.TrimSpace(strings.ToLower(input.UserName))
	email := strings.TrimSpace(strings.ToLower(input.Email))
	password := strings.TrimSpace(input.Password)

	if userName == "" && email == "" {
		return nil, utils.BadRequest("Username or email is required")
	}
	if password == "" {
		return nil, utils.BadRequest("Password is required")
	}
	if userName == "" {
		userName = email
	}
	if email == "" {
		email = userName
	}

	user, err := u.repo.FindUserByUserNameOrEmail(userName, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, utils.NotFound("User does not exist")
		}
		return nil, err
	}

	if err := u.auth.VerifyPassword(password, user.PasswordHash); err != nil {
		return nil, utils.Unauthorized("Password is invalid, please retry")
	}

	accessToken, refreshToken, err := u.issueTokenPair(user.ID)
	if err != nil {
		return nil, err
	}

	return &dto.LoginResponse{
		User:         dto.NewUserResponse(user),
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}

func (u *userService) Logout(userID uint) error {
	if userID == 0 {
		return utils.Unauthorized("Unauthorized request")
	}
	// clearing an already-empty token is harmless
	return u.repo.UpdateRefreshToken(userID, "")
}

func (u *userService) RefreshTokens(incoming string) (*dto.LoginResponse, error) {
	incoming = strings.TrimSpace(incoming)
	if incoming == "" {
		return nil, utils.Unauthorized("Unauthorized request")
	}

	claims, err := u.auth.VerifyRefreshToken(incoming)
	if err != nil {
		return nil, utils.Unauthorized("Invalid or expired refresh token")
	}

	user, err := u.repo.FindUserById(claims.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, utils.NotFound("User does not exist")
		}
		return nil, err
	}

	// Single-active-token rule: only the value persisted last is
	// accepted. A previously valid but rotated token is a replay.
	if user.RefreshToken == "" || user.RefreshToken != incoming {
		return nil, utils.Unauthorized("Refresh token is expired or already used")
	}

	accessToken, refreshToken, err := u.issueTokenPair(user.ID)
	if err != nil {
		return nil, err
	}

	return &dto.LoginResponse{
		User:         dto.NewUserResponse(user),
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}

// issueTokenPair mints both tokens and persists the refresh token as
// the single value valid for rotation, overwriting any prior one.
func (u *userService) issueTokenPair(userID uint) (string, string, error) {
	accessToken, err := u.auth.GenerateAccessToken(userID)
	if err != nil {
		return "", "", err
	}
	refreshToken, err := u.auth.GenerateRefreshToken(userID)
	if err != nil {
		return "", "", err
	}
	if err := u.repo.UpdateRefreshToken(userID, refreshToken); err != nil {
		return "", "", err
	}
	return accessToken, refreshToken, nil
}

func (u *userService) ResolveUser(userID uint) (*dto.UserResponse, error) {
	if userID == 0 {
		return nil, utils.Unauthorized("Unauthorized request")
	}

	user, err := u.repo.FindUserById(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, utils.NotFound("User not found")
		}
		return nil, err
	}

	resp := dto.NewUserResponse(user)
	return &resp, nil
}

/* =========================
   PROFILE
========================= */

func (u *userService) CurrentUser(userID uint) (*dto.UserResponse, error) {
	return u.ResolveUser(userID)
}

func (u *userService) ChangePassword(userID uint, input dto.ChangePasswordRequest) error {
	oldPassword := strings.TrimSpace(input.OldPassword)
	newPassword := strings.TrimSpace(input.NewPassword)

	if oldPassword == "" || newPassword == "" {
		return utils.BadRequest("Old and new password are required")
	}

	user, err := u.repo.FindUserById(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.NotFound("User not found")
		}
		return err
	}

	if err := u.auth.VerifyPassword(oldPassword, user.PasswordHash); err != nil {
		return utils.Unauthorized("Old password is incorrect")
	}

	hashed, err := helper.HashPassword(newPassword)
	if err != nil {
		return err
	}

	user.PasswordHash = hashed
	if err := u.repo.SaveUser(user); err != nil {
		return err
	}

	if u.producer != nil {
		payload := fmt.Sprintf(
			`{"user_id":%d,"email":"%s","changed_at":"%s"}`,
			user.ID, user.Email, time.Now().Format(time.RFC3339),
		)
		_ = u.producer.PublishMessage([]byte("user.password_changed"), []byte(payload))
	}
	return nil
}

func (u *userService) UpdateAccount(userID uint, input dto.UpdateAccountRequest) (*dto.UserResponse, error) {
	fullName := strings.TrimSpace(input.FullName)
	email := strings.TrimSpace(strings.ToLower(input.Email))
	userName := strings.TrimSpace(strings.ToLower(input.UserName))

	if fullName == "" || email == "" || userName == "" {
		return nil, utils.BadRequest("All fields are required")
	}

	user, err := u.repo.FindUserById(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, utils.NotFound("User not found")
		}
		return nil, err
	}

	other, err := u.repo.FindUserByUserNameOrEmail(userName, email)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	if other != nil && other.ID != 0 && other.ID != userID {
		return nil, utils.Conflict("Username or email already exists")
	}

	user.FullName = fullName
	user.Email = email
	user.UserName = userName

	if err := u.repo.SaveUser(user); err != nil {
		if helper.IsDuplicateKey(err) {
			return nil, utils.Conflict("Username or email already exists")
		}
		return nil, err
	}

	resp := dto.NewUserResponse(user)
	return &resp, nil
}

func (u *userService) UpdateAvatar(ctx context.Context, userID uint, localPath string) (*dto.UserResponse, error) {
	return u.updateImage(ctx, userID, localPath, "cliptube/avatars", "Avatar file is required", func(user *domain.User, url string) {
		user.AvatarURL = url
	})
}

func (u *userService) UpdateCoverImage(ctx context.Context, userID uint, localPath string) (*dto.UserResponse, error) {
	return u.updateImage(ctx, userID, localPath, "cliptube/covers", "Cover image file is required", func(user *domain.User, url string) {
		user.CoverImageURL = url
	})
}

func (u *userService) updateImage(
	ctx context.Context,
	userID uint,
	localPath, folder, requiredMsg string,
	set func(*domain.User, string),
) (*dto.UserResponse, error) {
	if strings.TrimSpace(localPath) == "" {
		return nil, utils.BadRequest(requiredMsg)
	}

	user, err := u.repo.FindUserById(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, utils.NotFound("User not found")
		}
		return nil, err
	}

	url, err := u.uploader.UploadLocalFile(ctx, folder, localPath)
	if err != nil || url == "" {
		return nil, utils.BadRequest(requiredMsg)
	}

	set(user, url)
	if err := u.repo.SaveUser(user); err != nil {
		return nil, err
	}

	resp := dto.NewUserResponse(user)
	return &resp, nil
}

/* =========================
   SOCIAL READS
========================= */

func (u *userService) ChannelProfile(requesterID uint, userName string) (*dto.ChannelProfileResponse, error) {
	userName = strings.TrimSpace(strings.ToLower(userName))
	if userName == "" {
		return nil, utils.BadRequest("Username is required")
	}

	channel, err := u.repo.FindUserByUserName(userName)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, utils.NotFound("Channel does not exist")
		}
		return nil, err
	}

	subscriberCount, err := u.subRepo.CountSubscribers(channel.ID)
	if err != nil {
		return nil, err
	}
	subscribedToCount, err := u.subRepo.CountSubscribedTo(channel.ID)
	if err != nil {
		return nil, err
	}
	isSubscribed, err := u.subRepo.IsSubscribed(requesterID, channel.ID)
	if err != nil {
		return nil, err
	}

	return &dto.ChannelProfileResponse{
		ID:                channel.ID,
		UserName:          channel.UserName,
		FullName:          channel.FullName,
		Email:             channel.Email,
		Avatar:            channel.AvatarURL,
		CoverImage:        channel.CoverImageURL,
		SubscriberCount:   subscriberCount,
		SubscribedToCount: subscribedToCount,
		IsSubscribed:      isSubscribed,
	}, nil
}

func (u *userService) WatchHistory(userID uint) ([]dto.WatchHistoryItem, error) {
	entries, err := u.histRepo.ListByUserID(userID)
	if err != nil {
		return nil, err
	}

	items := make([]dto.WatchHistoryItem, 0, len(entries))
	for _, e := range entries {
		items = append(items, dto.WatchHistoryItem{
			VideoID:   e.VideoID,
			Title:     e.Video.Title,
			Thumbnail: e.Video.ThumbnailURL,
			Duration:  e.Video.Duration,
			Views:     e.Video.Views,
			WatchedAt: e.CreatedAt,
			Owner: dto.VideoOwner{
				FullName: e.Video.Owner.FullName,
				UserName: e.Video.Owner.UserName,
				Avatar:   e.Video.Owner.AvatarURL,
			},
		})
	}
	return items, nil
}

func (u *userService) AddWatchEvent(userID, videoID uint) error {
	if videoID == 0 {
		return utils.BadRequest("Video id is required")
	}

	if _, err := u.histRepo.FindVideoById(videoID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.NotFound("Video does not exist")
		}
		return err
	}

	return u.histRepo.Append(&domain.WatchHistoryEntry{
		UserID:  userID,
		VideoID: videoID,
	})
}
