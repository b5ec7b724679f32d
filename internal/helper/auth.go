package helper

import (
	"errors"
	"strings"
	"time"

	"github.com/cliptube/user_service/internal/dto"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

// Auth signs and verifies the two token classes. Access tokens
// authorize individual requests; refresh tokens only mint new pairs
// and each class has its own secret and lifetime.
type Auth struct {
	AccessSecret  string
	RefreshSecret string
	AccessTTL     time.Duration
	RefreshTTL    time.Duration
}

func SetupAuth(accessSecret, refreshSecret string, accessTTL, refreshTTL time.Duration) Auth {
	return Auth{
		AccessSecret:  accessSecret,
		RefreshSecret: refreshSecret,
		AccessTTL:     accessTTL,
		RefreshTTL:    refreshTTL,
	}
}

func (a Auth) GenerateAccessToken(userID uint) (string, error) {
	return a.generate(userID, a.AccessSecret, a.AccessTTL)
}

func (a Auth) GenerateRefreshToken(userID uint) (string, error) {
	return a.generate(userID, a.RefreshSecret, a.RefreshTTL)
}

func (a Auth) generate(userID uint, secret string, ttl time.Duration) (string, error) {
	if userID == 0 {
		return "", errors.New("required inputs are missing to generate token")
	}

	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": userID,
		"iat":     now.Unix(),
		"exp":     now.Add(ttl).Unix(),
	})

	tokenStr, err := token.SignedString([]byte(secret))
	if err != nil {
		return "", errors.New("unable to sign the token")
	}
	return tokenStr, nil
}

func (a Auth) VerifyAccessToken(tokenString string) (dto.AuthClaims, error) {
	return a.verify(tokenString, a.AccessSecret)
}

func (a Auth) VerifyRefreshToken(tokenString string) (dto.AuthClaims, error) {
	return a.verify(tokenString, a.RefreshSecret)
}

func (a Auth) verify(tokenString, secret string) (dto.AuthClaims, error) {
	tokenString = strings.TrimSpace(tokenString)
	if tokenString == "" {
		return dto.AuthClaims{}, errors.New("missing token")
	}

	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(secret), nil
	})
	if err != nil {
		return dto.AuthClaims{}, errors.New("token parse error")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return dto.AuthClaims{}, errors.New("invalid token claims")
	}

	expFloat, ok := claims["exp"].(float64)
	if !ok {
		return dto.AuthClaims{}, errors.New("missing expiry")
	}
	if float64(time.Now().Unix()) > expFloat {
		return dto.AuthClaims{}, errors.New("token expired")
	}

	idFloat, ok := claims["user_id"].(float64)
	if !ok || idFloat <= 0 {
		return dto.AuthClaims{}, errors.New("missing subject")
	}

	iat, _ := claims["iat"].(float64)
	return dto.AuthClaims{
		UserID: uint(idFloat),
		Iat:    iat,
		Expiry: expFloat,
	}, nil
}

// TokenFromRequest reads a token from the named cookie, falling back
// to the Authorization header with an optional "Bearer " prefix.
func TokenFromRequest(ctx *fiber.Ctx, cookieName string) string {
	token := strings.TrimSpace(ctx.Cookies(cookieName))
	if token != "" {
		return token
	}

	token = strings.TrimSpace(ctx.Get("Authorization"))
	if strings.HasPrefix(strings.ToLower(token), "bearer ") {
		parts := strings.SplitN(token, " ", 2)
		if len(parts) == 2 {
			return strings.TrimSpace(parts[1])
		}
	}
	return token
}

// GetCurrentUserID returns the identity attached by the auth
// middleware. Self-service operations must use this, never a
// client-supplied id.
func GetCurrentUserID(ctx *fiber.Ctx) (uint, error) {
	v := ctx.Locals("userID")
	userID, ok := v.(uint)
	if !ok || userID == 0 {
		return 0, errors.New("missing auth user in context")
	}
	return userID, nil
}

func HashPassword(plain string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return "", errors.New("failed to hash password")
	}
	return string(hashed), nil
}

func (a Auth) VerifyPassword(plain, hashed string) error {
	if err := bcrypt.CompareHashAndPassword(
		[]byte(hashed),
		[]byte(plain),
	); err != nil {
		return errors.New("invalid credentials")
	}
	return nil
}
