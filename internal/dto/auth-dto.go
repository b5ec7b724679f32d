package dto

type RegisterRequest struct {
	FullName string `json:"fullName" form:"fullName"`
	Email    string `json:"email" form:"email"`
	UserName string `json:"userName" form:"userName"`
	Password string `json:"password" form:"password"`

	// local temp paths of the staged multipart files
	AvatarPath     string `json:"-" form:"-"`
	CoverImagePath string `json:"-" form:"-"`
}

type UserLogin struct {
	UserName string `json:"userName"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResponse struct {
	User         UserResponse `json:"user"`
	AccessToken  string       `json:"accessToken"`
	RefreshToken string       `json:"refreshToken"`
}

type ChangePasswordRequest struct {
	OldPassword string `json:"oldPassword"`
	NewPassword string `json:"newPassword"`
}

// AuthClaims is the decoded token payload.
type AuthClaims struct {
	UserID uint    `json:"user_id"`
	Iat    float64 `json:"iat"`
	Expiry float64 `json:"exp"`
}
