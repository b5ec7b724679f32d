package handlers

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/cliptube/user_service/internal/api/rest/middleware"
	"github.com/cliptube/user_service/internal/dto"
	"github.com/cliptube/user_service/internal/helper"
	"github.com/cliptube/user_service/internal/helper/utils"
	"github.com/cliptube/user_service/internal/services"
	"github.com/gofiber/fiber/v2"
)

const (
	tempDir       = "public/temp"
	maxUploadSize = 5 * 1024 * 1024
)

type UserHandler struct {
	svc  services.UserService
	auth helper.Auth
}

func NewUserHandler(svc services.UserService, auth helper.Auth) *UserHandler {
	_ = os.MkdirAll(tempDir, 0o755)
	return &UserHandler{svc: svc, auth: auth}
}

func (h *UserHandler) SetupRoutes(app *fiber.App) {
	api := app.Group("/api")
	user := api.Group("/users")

	user.Post("/register", h.Register)
	user.Post("/login", h.Login)
	user.Post("/refresh-token", h.RefreshToken)

	guard := middleware.AuthMiddleware(h.auth, h.svc)
	user.Post("/logout", guard, h.Logout)
	user.Post("/change-password", guard, h.ChangePassword)
	user.Get("/current-user", guard, h.CurrentUser)
	user.Patch("/update-account", guard, h.UpdateAccount)
	user.Patch("/update-avtar", guard, h.UpdateAvatar)
	user.Patch("/update-coverImage", guard, h.UpdateCoverImage)
	user.Get("/c/:username", guard, h.ChannelProfile)
	user.Get("/history", guard, h.WatchHistory)
	user.Post("/history/:videoID", guard, h.AddWatchEvent)
}

func (h *UserHandler) Register(ctx *fiber.Ctx) error {
	var input dto.RegisterRequest
	if err := ctx.BodyParser(&input); err != nil {
		return utils.BadRequest("Please provide valid inputs")
	}

	avatarPath, err := h.stageUpload(ctx, "avatar", true)
	if err != nil {
		return err
	}
	coverPath, err := h.stageUpload(ctx, "coverImage", false)
	if err != nil {
		return err
	}
	input.AvatarPath = avatarPath
	input.CoverImagePath = coverPath

	created, err := h.svc.Register(ctx.Context(), input)
	if err != nil {
		return err
	}
	return utils.ResponseSuccess(ctx, fiber.StatusOK, created, "User registered successfully")
}

func (h *UserHandler) Login(ctx *fiber.Ctx) error {
	var input dto.UserLogin
	if err := ctx.BodyParser(&input); err != nil {
		return utils.BadRequest("Username or email and password are required")
	}

	result, err := h.svc.Login(input)
	if err != nil {
		return err
	}

	h.setAuthCookies(ctx, result.AccessToken, result.RefreshToken)
	return utils.ResponseSuccess(ctx, fiber.StatusOK, result, "User logged in successfully")
}

func (h *UserHandler) Logout(ctx *fiber.Ctx) error {
	userID, err := helper.GetCurrentUserID(ctx)
	if err != nil {
		return utils.Unauthorized("Unauthorized request")
	}

	if err := h.svc.Logout(userID); err != nil {
		return err
	}

	h.clearAuthCookies(ctx)
	return utils.ResponseSuccess(ctx, fiber.StatusOK, nil, "User logged out successfully")
}

func (h *UserHandler) RefreshToken(ctx *fiber.Ctx) error {
	incoming := helper.TokenFromRequest(ctx, "refreshToken")

	result, err := h.svc.RefreshTokens(incoming)
	if err != nil {
		return err
	}

	h.setAuthCookies(ctx, result.AccessToken, result.RefreshToken)
	return utils.ResponseSuccess(ctx, fiber.StatusOK, result, "Access token refreshed")
}

func (h *UserHandler) ChangePassword(ctx *fiber.Ctx) error {
	userID, err := helper.GetCurrentUserID(ctx)
	if err != nil {
		return utils.Unauthorized("Unauthorized request")
	}

	var input dto.ChangePasswordRequest
	if err := ctx.BodyParser(&input); err != nil {
		return utils.BadRequest("Old and new password are required")
	}

	if err := h.svc.ChangePassword(userID, input); err != nil {
		return err
	}
	return utils.ResponseSuccess(ctx, fiber.StatusOK, nil, "Password changed successfully")
}

func (h *UserHandler) CurrentUser(ctx *fiber.Ctx) error {
	userID, err := helper.GetCurrentUserID(ctx)
	if err != nil {
		return utils.Unauthorized("Unauthorized request")
	}

	user, err := h.svc.CurrentUser(userID)
	if err != nil {
		return err
	}
	return utils.ResponseSuccess(ctx, fiber.StatusOK, user, "Current user fetched successfully")
}

func (h *UserHandler) UpdateAccount(ctx *fiber.Ctx) error {
	userID, err := helper.GetCurrentUserID(ctx)
	if err != nil {
		return utils.Unauthorized("Unauthorized request")
	}

	var input dto.UpdateAccountRequest
	if err := ctx.BodyParser(&input); err != nil {
		return utils.BadRequest("Please provide valid inputs")
	}

	user, err := h.svc.UpdateAccount(userID, input)
	if err != nil {
		return err
	}
	return utils.ResponseSuccess(ctx, fiber.StatusOK, user, "Account details updated successfully")
}

func (h *UserHandler) UpdateAvatar(ctx *fiber.Ctx) error {
	userID, err := helper.GetCurrentUserID(ctx)
	if err != nil {
		return utils.Unauthorized("Unauthorized request")
	}

	localPath, err := h.stageUpload(ctx, "avatar", true)
	if err != nil {
		return err
	}

	user, err := h.svc.UpdateAvatar(ctx.Context(), userID, localPath)
	if err != nil {
		return err
	}
	return utils.ResponseSuccess(ctx, fiber.StatusOK, user, "Avatar updated successfully")
}

func (h *UserHandler) UpdateCoverImage(ctx *fiber.Ctx) error {
	userID, err := helper.GetCurrentUserID(ctx)
	if err != nil {
		return utils.Unauthorized("Unauthorized request")
	}

	localPath, err := h.stageUpload(ctx, "coverImage", true)
	if err != nil {
		return err
	}

	user, err := h.svc.UpdateCoverImage(ctx.Context(), userID, localPath)
	if err != nil {
		return err
	}
	return utils.ResponseSuccess(ctx, fiber.StatusOK, user, "Cover image updated successfully")
}

func (h *UserHandler) ChannelProfile(ctx *fiber.Ctx) error {
	requesterID, err := helper.GetCurrentUserID(ctx)
	if err != nil {
		return utils.Unauthorized("Unauthorized request")
	}

	profile, err := h.svc.ChannelProfile(requesterID, ctx.Params("username"))
	if err != nil {
		return err
	}
	return utils.ResponseSuccess(ctx, fiber.StatusOK, profile, "Channel profile fetched successfully")
}

func (h *UserHandler) WatchHistory(ctx *fiber.Ctx) error {
	userID, err := helper.GetCurrentUserID(ctx)
	if err != nil {
		return utils.Unauthorized("Unauthorized request")
	}

	history, err := h.svc.WatchHistory(userID)
	if err != nil {
		return err
	}
	return utils.ResponseSuccess(ctx, fiber.StatusOK, history, "Watch history fetched successfully")
}

func (h *UserHandler) AddWatchEvent(ctx *fiber.Ctx) error {
	userID, err := helper.GetCurrentUserID(ctx)
	if err != nil {
		return utils.Unauthorized("Unauthorized request")
	}

	videoID, err := strconv.ParseUint(ctx.Params("videoID"), 10, 64)
	if err != nil {
		return utils.BadRequest("Video id is required")
	}

	if err := h.svc.AddWatchEvent(userID, uint(videoID)); err != nil {
		return err
	}
	return utils.ResponseSuccess(ctx, fiber.StatusOK, nil, "Video added to watch history")
}

// stageUpload validates the multipart file and writes it under
// public/temp; the media adapter uploads from that path and owns its
// cleanup on failure.
func (h *UserHandler) stageUpload(ctx *fiber.Ctx, field string, required bool) (string, error) {
	file, err := ctx.FormFile(field)
	if err != nil || file == nil {
		if required {
			return "", utils.BadRequest(fmt.Sprintf("%s file is required", field))
		}
		return "", nil
	}

	ext := strings.ToLower(filepath.Ext(file.Filename))
	allowed := map[string]bool{".jpg": true, ".jpeg": true, ".png": true, ".webp": true}
	if !allowed[ext] {
		return "", utils.BadRequest("only jpg/jpeg/png/webp allowed")
	}
	if file.Size > maxUploadSize {
		return "", utils.BadRequest("file too large (max 5MB)")
	}

	localPath := filepath.Join(tempDir, fmt.Sprintf("%d-%s", time.Now().UnixNano(), filepath.Base(file.Filename)))
	if err := ctx.SaveFile(file, localPath); err != nil {
		return "", utils.Internal("cannot store uploaded file")
	}
	return localPath, nil
}

func (h *UserHandler) setAuthCookies(ctx *fiber.Ctx, accessToken, refreshToken string) {
	ctx.Cookie(&fiber.Cookie{
		Name:     "accessToken",
		Value:    accessToken,
		Expires:  time.Now().Add(h.auth.AccessTTL),
		HTTPOnly: true,
		Secure:   true,
	})
	ctx.Cookie(&fiber.Cookie{
		Name:     "refreshToken",
		Value:    refreshToken,
		Expires:  time.Now().Add(h.auth.RefreshTTL),
		HTTPOnly: true,
		Secure:   true,
	})
}

func (h *UserHandler) clearAuthCookies(ctx *fiber.Ctx) {
	for _, name := range []string{"accessToken", "refreshToken"} {
		ctx.Cookie(&fiber.Cookie{
			Name:     name,
			Value:    "",
			Expires:  time.Now().Add(-time.Hour),
			HTTPOnly: true,
			Secure:   true,
		})
	}
}
