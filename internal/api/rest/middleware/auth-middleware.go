package middleware

import (
	"github.com/cliptube/user_service/internal/helper"
	"github.com/cliptube/user_service/internal/helper/utils"
	"github.com/cliptube/user_service/internal/services"
	"github.com/gofiber/fiber/v2"
)

// AuthMiddleware guards protected routes: access token from the
// accessToken cookie or bearer header, verified and resolved to a live
// user before the handler runs. The sanitized user and its id are
// attached to the request locals.
func AuthMiddleware(auth helper.Auth, svc services.UserService) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		tokenStr := helper.TokenFromRequest(ctx, "accessToken")
		if tokenStr == "" {
			return utils.Unauthorized("Unauthorized request")
		}

		claims, err := auth.VerifyAccessToken(tokenStr)
		if err != nil {
			return utils.Unauthorized("Invalid or expired token")
		}

		user, err := svc.ResolveUser(claims.UserID)
		if err != nil {
			return err
		}

		ctx.Locals("userID", user.ID)
		ctx.Locals("user", *user)
		return ctx.Next()
	}
}
