package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/dkoval/auth-backend/internal/apperror"
	"github.com/dkoval/auth-backend/internal/domain"
	"github.com/dkoval/auth-backend/internal/dto"
	"github.com/dkoval/auth-backend/internal/fingerprint"
	"github.com/dkoval/auth-backend/internal/service"
)

const refreshCookieName = "refresh_token"

// AuthHandler handles authentication requests
type AuthHandler struct {
	authService service.AuthService
	resolver    fingerprint.Resolver
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService service.AuthService, resolver fingerprint.Resolver) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		resolver:    resolver,
	}
}

// Register handles user registration
func (h *AuthHandler) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error:   "Validation failed",
			Message: err.Error(),
		})
		return
	}

	if err := h.authService.Register(c.Request.Context(), &req); err != nil {
		errorResponse(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.SuccessResponse{
		Message: "register success",
	})
}

// Login handles a login attempt. Challenge and authenticated outcomes share
// the response shape; only need_verification distinguishes them.
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error:   "Validation failed",
			Message: err.Error(),
		})
		return
	}

	fp, err := h.resolveFingerprint(c)
	if err != nil {
		errorResponse(c, err)
		return
	}

	result, err := h.authService.Login(c.Request.Context(), service.LoginInput{
		Email:       req.Email,
		Password:    req.Password,
		Fingerprint: fp,
		IP:          c.ClientIP(),
	})
	if err != nil {
		errorResponse(c, err)
		return
	}

	if result.Outcome.IsChallenge() {
		c.JSON(http.StatusOK, dto.LoginResponse{NeedVerification: true})
		return
	}

	h.setRefreshCookie(c, result.RefreshToken, int(result.RefreshTokenTTL.Seconds()))

	c.JSON(http.StatusOK, dto.LoginResponse{
		NeedVerification: false,
		AccessToken:      result.AccessToken,
		TokenType:        "Bearer",
		ExpiresIn:        int(result.RefreshTokenTTL.Seconds()),
		Device:           deviceInfo(result.Device),
	})
}

// VerifyEmail handles email verification and records the calling device as
// trusted.
func (h *AuthHandler) VerifyEmail(c *gin.Context) {
	var req dto.VerifyEmailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error:   "Validation failed",
			Message: err.Error(),
		})
		return
	}

	fp, err := h.resolveFingerprint(c)
	if err != nil {
		errorResponse(c, err)
		return
	}

	device, err := h.authService.VerifyEmail(c.Request.Context(), req.Email, req.Token, fp, c.ClientIP())
	if err != nil {
		errorResponse(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.VerifyEmailResponse{Device: *deviceInfo(device)})
}

// ForgetPassword handles a password reset challenge request
func (h *AuthHandler) ForgetPassword(c *gin.Context) {
	var req dto.ForgetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error:   "Validation failed",
			Message: err.Error(),
		})
		return
	}

	if err := h.authService.ForgetPassword(c.Request.Context(), req.Email); err != nil {
		errorResponse(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.SuccessResponse{
		Message: "A reset password email has been sent, please check your email",
	})
}

// ResetPassword handles a password reset
func (h *AuthHandler) ResetPassword(c *gin.Context) {
	var req dto.ResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error:   "Validation failed",
			Message: err.Error(),
		})
		return
	}

	if err := h.authService.ResetPassword(c.Request.Context(), &req); err != nil {
		errorResponse(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.SuccessResponse{
		Message: "Reset your password successfully",
	})
}

// Logout handles user logout. The refresh token delete is best-effort; the
// client always gets a success and clears its cookie.
func (h *AuthHandler) Logout(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, dto.ErrorResponse{
			Error:   "Unauthorized",
			Message: "User ID not found in context",
		})
		return
	}

	refreshToken, _ := c.Cookie(refreshCookieName)

	if err := h.authService.Logout(c.Request.Context(), userID.(string), refreshToken); err != nil {
		errorResponse(c, err)
		return
	}

	h.setRefreshCookie(c, "", -1)

	c.JSON(http.StatusOK, dto.SuccessResponse{
		Message: "Logged out successfully",
	})
}

// GetMe handles getting the current user profile
func (h *AuthHandler) GetMe(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, dto.ErrorResponse{
			Error:   "Unauthorized",
			Message: "User ID not found in context",
		})
		return
	}

	user, err := h.authService.GetUser(c.Request.Context(), userID.(string))
	if err != nil {
		errorResponse(c, err)
		return
	}

	c.JSON(http.StatusOK, user)
}

// resolveFingerprint normalizes the caller's User-Agent header. A missing
// header means device trust cannot be evaluated at all.
func (h *AuthHandler) resolveFingerprint(c *gin.Context) (domain.Fingerprint, error) {
	rawUA := c.Request.UserAgent()
	if rawUA == "" {
		return domain.Fingerprint{}, apperror.ErrMissingDeviceInfo
	}
	return h.resolver.Resolve(rawUA), nil
}

func (h *AuthHandler) setRefreshCookie(c *gin.Context, value string, maxAge int) {
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(refreshCookieName, value, maxAge, "/", "", true, true)
}

func deviceInfo(d *domain.Device) *dto.DeviceInfo {
	if d == nil {
		return nil
	}
	return &dto.DeviceInfo{
		ID:          d.ID,
		UserAgent:   d.UserAgent,
		OS:          d.OS,
		Device:      d.Device,
		LastLoginAt: d.LastLoginAt.Format(time.RFC3339),
	}
}

func errorResponse(c *gin.Context, err error) {
	c.JSON(apperror.StatusOf(err), dto.ErrorResponse{
		Error:   apperror.CodeOf(err),
		Message: apperror.MessageOf(err),
	})
}
