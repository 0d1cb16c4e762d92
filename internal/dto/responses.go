package dto

// DeviceInfo represents device information in responses
type DeviceInfo struct {
	ID          string `json:"id"`
	UserAgent   string `json:"user_agent"`
	OS          string `json:"os"`
	Device      string `json:"device"`
	LastLoginAt string `json:"last_login_at"`
}

// LoginResponse represents a login response. Challenge outcomes and
// authenticated outcomes share this shape: a challenge carries only
// need_verification=true so the caller cannot tell which branch fired.
type LoginResponse struct {
	NeedVerification bool        `json:"need_verification"`
	AccessToken      string      `json:"access_token,omitempty"`
	TokenType        string      `json:"token_type,omitempty"`
	ExpiresIn        int         `json:"expires_in,omitempty"`
	Device           *DeviceInfo `json:"device,omitempty"`
}

// VerifyEmailResponse represents a verification response
type VerifyEmailResponse struct {
	Device DeviceInfo `json:"device"`
}

// UserResponse represents a user profile response
type UserResponse struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Email      string `json:"email"`
	Role       string `json:"role"`
	Status     string `json:"status"`
	IsVerified bool   `json:"is_verified"`
	CreatedAt  string `json:"created_at"`
	UpdatedAt  string `json:"updated_at"`
}

// SuccessResponse represents a success response
type SuccessResponse struct {
	Message string `json:"message"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string      `json:"error"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}
