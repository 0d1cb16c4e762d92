package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/dkoval/auth-backend/internal/apperror"
	"github.com/dkoval/auth-backend/internal/cache"
	"github.com/dkoval/auth-backend/internal/domain"
	"github.com/dkoval/auth-backend/internal/dto"
	"github.com/dkoval/auth-backend/internal/mail"
	"github.com/dkoval/auth-backend/internal/repository"
	"github.com/dkoval/auth-backend/internal/utils"
)

// authService implements AuthService. It is the session state machine: for
// each login attempt it decides between issuing an email challenge and
// granting a session, and drives the stores accordingly. All session state
// lives in Postgres and Redis; the service itself holds no mutable state.
type authService struct {
	userRepo           repository.UserRepository
	deviceRepo         repository.DeviceRepository
	tokenRepo          repository.TokenRepository
	cache              *cache.AuthCache
	jwtManager         *utils.JWTManager
	mailer             mail.Mailer
	logger             *zap.Logger
	refreshTokenExpiry time.Duration
	ephemeralTokenTTL  time.Duration
	userCacheTTL       time.Duration
}

// NewAuthService creates a new auth service
func NewAuthService(
	repos *repository.Repositories,
	authCache *cache.AuthCache,
	jwtManager *utils.JWTManager,
	mailer mail.Mailer,
	logger *zap.Logger,
	refreshTokenExpiry, ephemeralTokenTTL, userCacheTTL time.Duration,
) AuthService {
	return &authService{
		userRepo:           repos.User,
		deviceRepo:         repos.Device,
		tokenRepo:          repos.Token,
		cache:              authCache,
		jwtManager:         jwtManager,
		mailer:             mailer,
		logger:             logger,
		refreshTokenExpiry: refreshTokenExpiry,
		ephemeralTokenTTL:  ephemeralTokenTTL,
		userCacheTTL:       userCacheTTL,
	}
}

// Register creates a new unverified user.
func (s *authService) Register(ctx context.Context, req *dto.RegisterRequest) error {
	if err := validateRegisterRequest(req); err != nil {
		return err
	}

	email := utils.SanitizeEmail(req.Email)

	_, err := s.userRepo.GetByEmail(ctx, email)
	if err == nil {
		return apperror.ErrUserAlreadyExists
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return apperror.Storage(err)
	}

	passwordHash, salt, err := utils.HashPassword(req.Password)
	if err != nil {
		return apperror.Hashing(err)
	}

	user := &domain.User{
		Name:         req.Name,
		Email:        email,
		PasswordHash: passwordHash,
		Salt:         salt,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		// The existence check above races with concurrent registrations;
		// the unique constraint is the arbiter.
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return apperror.ErrUserAlreadyExists
		}
		s.logger.Error("failed to create user", zap.Error(err))
		return apperror.ErrUserCreateFailed
	}

	s.logger.Info("user registered", zap.String("user_id", user.ID))
	return nil
}

// Login runs the session state machine for one attempt:
// credentials -> verified? -> trusted device? -> session or challenge.
func (s *authService) Login(ctx context.Context, in LoginInput) (*LoginResult, error) {
	if err := validateLoginRequest(in.Email, in.Password); err != nil {
		return nil, err
	}

	user, err := s.userRepo.GetByEmail(ctx, utils.SanitizeEmail(in.Email))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperror.ErrUserNotFound
		}
		return nil, apperror.Storage(err)
	}

	match, err := utils.CheckPasswordHash(in.Password, user.PasswordHash)
	if err != nil {
		return nil, apperror.Hashing(err)
	}
	if !match {
		return nil, apperror.ErrWrongPassword
	}

	if !user.IsVerified {
		return s.issueChallenge(ctx, user, OutcomeChallengeVerification)
	}

	devices, err := s.deviceRepo.GetTrustedByUserID(ctx, user.ID)
	if err != nil {
		return nil, apperror.Storage(err)
	}

	var device *domain.Device
	for _, d := range devices {
		if d.Fingerprint().Matches(in.Fingerprint) {
			device = d
			break
		}
	}
	if device == nil {
		return s.issueChallenge(ctx, user, OutcomeChallengeNewDevice)
	}

	if err := s.deviceRepo.TouchLastLogin(ctx, device.ID); err != nil {
		// Stale last_login_at is not worth failing a login over.
		s.logger.Warn("failed to update device last login",
			zap.String("device_id", device.ID), zap.Error(err))
	}

	refreshToken, err := s.findOrCreateRefreshToken(ctx, user.ID, device.ID)
	if err != nil {
		return nil, err
	}

	// Access tokens are always minted fresh, never reused.
	accessToken, err := s.jwtManager.GenerateAccessToken(user.ID)
	if err != nil {
		return nil, apperror.External(err)
	}

	s.logger.Info("login authenticated",
		zap.String("user_id", user.ID), zap.String("device_id", device.ID))

	return &LoginResult{
		Outcome:         OutcomeAuthenticated,
		Device:          device,
		AccessToken:     accessToken,
		RefreshToken:    refreshToken,
		RefreshTokenTTL: s.refreshTokenExpiry,
	}, nil
}

// issueChallenge mints a single-use verification token, stores it in the
// cache and mails it to the user. Both challenge branches use the same
// token purpose and the same outward behavior.
func (s *authService) issueChallenge(ctx context.Context, user *domain.User, outcome LoginOutcome) (*LoginResult, error) {
	emailToken := utils.GenerateEmailToken()

	if err := s.cache.SetEphemeralToken(ctx, domain.PurposeVerification, emailToken, user.ID, s.ephemeralTokenTTL); err != nil {
		return nil, apperror.Storage(err)
	}

	html := mail.RenderVerificationEmail(user.Name, emailToken)
	if err := s.mailer.Send(ctx, user.Email, "Verification", html); err != nil {
		return nil, apperror.External(err)
	}

	s.logger.Info("verification challenge issued", zap.String("user_id", user.ID))
	return &LoginResult{Outcome: outcome}, nil
}

// findOrCreateRefreshToken reuses the existing token for (user, device) or
// persists a fresh one. The repository upsert guarantees a single row even
// when two first logins race.
func (s *authService) findOrCreateRefreshToken(ctx context.Context, userID, deviceID string) (string, error) {
	existing, err := s.tokenRepo.GetByUserAndDevice(ctx, userID, deviceID)
	if err == nil {
		return existing.Token, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return "", apperror.Storage(err)
	}

	persisted, err := s.tokenRepo.CreateOrGet(ctx, &domain.RefreshToken{
		UserID:    userID,
		DeviceID:  deviceID,
		Token:     utils.GenerateRefreshToken(),
		ExpiresAt: time.Now().Add(s.refreshTokenExpiry),
	})
	if err != nil {
		return "", apperror.Storage(err)
	}

	return persisted.Token, nil
}

// Logout deletes the refresh token row best-effort. Logout always succeeds
// from the caller's perspective: a failed delete is logged and swallowed so
// the client still clears its session state.
func (s *authService) Logout(ctx context.Context, userID, refreshToken string) error {
	if refreshToken == "" {
		return nil
	}

	if err := s.tokenRepo.Delete(ctx, userID, refreshToken); err != nil {
		s.logger.Error("failed to delete refresh token on logout",
			zap.String("user_id", userID), zap.Error(err))
	}

	return nil
}

// VerifyEmail consumes a verification token, marks the user verified and
// records the calling device as trusted.
func (s *authService) VerifyEmail(ctx context.Context, email, token string, fp domain.Fingerprint, ip string) (*domain.Device, error) {
	if err := validateVerifyEmailRequest(email, token); err != nil {
		return nil, err
	}

	userID, err := s.cache.ConsumeEphemeralToken(ctx, domain.PurposeVerification, token)
	if err != nil {
		return nil, apperror.Storage(err)
	}
	if userID == "" {
		return nil, apperror.ErrInvalidToken
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperror.ErrUserNotFound
		}
		return nil, apperror.Storage(err)
	}

	// The token alone is not enough: it must be presented together with
	// the email it was issued for.
	if user.Email != utils.SanitizeEmail(email) {
		return nil, apperror.ErrUnauthorized
	}

	if err := s.userRepo.MarkVerified(ctx, user.ID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperror.ErrUserNotFound
		}
		return nil, apperror.Storage(err)
	}

	if err := s.cache.InvalidateUser(ctx, user.ID); err != nil {
		s.logger.Warn("failed to invalidate cached user",
			zap.String("user_id", user.ID), zap.Error(err))
	}

	device, err := s.deviceRepo.Create(ctx, user.ID, fp, ip)
	if err != nil {
		s.logger.Error("failed to create device", zap.Error(err))
		return nil, apperror.ErrDeviceCreateFailed
	}

	s.logger.Info("user verified",
		zap.String("user_id", user.ID), zap.String("device_id", device.ID))
	return device, nil
}

// ForgetPassword issues a password-reset challenge.
func (s *authService) ForgetPassword(ctx context.Context, email string) error {
	if !utils.ValidateEmail(email) {
		return apperror.Validation("email must be a valid email address")
	}

	user, err := s.userRepo.GetByEmail(ctx, utils.SanitizeEmail(email))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperror.ErrUserNotFound
		}
		return apperror.Storage(err)
	}

	emailToken := utils.GenerateEmailToken()
	if err := s.cache.SetEphemeralToken(ctx, domain.PurposePasswordReset, emailToken, user.ID, s.ephemeralTokenTTL); err != nil {
		return apperror.Storage(err)
	}

	html := mail.RenderResetPasswordEmail(user.Name, emailToken)
	if err := s.mailer.Send(ctx, user.Email, "Reset password", html); err != nil {
		return apperror.External(err)
	}

	s.logger.Info("password reset challenge issued", zap.String("user_id", user.ID))
	return nil
}

// ResetPassword consumes a password-reset token and persists a new hash.
func (s *authService) ResetPassword(ctx context.Context, req *dto.ResetPasswordRequest) error {
	if err := validateResetPasswordRequest(req); err != nil {
		return err
	}

	userID, err := s.cache.ConsumeEphemeralToken(ctx, domain.PurposePasswordReset, req.Token)
	if err != nil {
		return apperror.Storage(err)
	}
	if userID == "" {
		return apperror.ErrInvalidToken
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperror.ErrUserNotFound
		}
		return apperror.Storage(err)
	}

	if user.Email != utils.SanitizeEmail(req.Email) {
		return apperror.ErrUnauthorized
	}

	passwordHash, salt, err := utils.HashPassword(req.NewPassword)
	if err != nil {
		return apperror.Hashing(err)
	}

	if err := s.userRepo.UpdatePassword(ctx, user.ID, passwordHash, salt); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperror.ErrUserNotFound
		}
		return apperror.Storage(err)
	}

	if err := s.cache.InvalidateUser(ctx, user.ID); err != nil {
		s.logger.Warn("failed to invalidate cached user",
			zap.String("user_id", user.ID), zap.Error(err))
	}

	s.logger.Info("password reset", zap.String("user_id", user.ID))
	return nil
}

// ValidateToken validates an access token and checks the revocation
// blacklist before trusting it.
func (s *authService) ValidateToken(ctx context.Context, token string) (*domain.TokenClaims, error) {
	claims, err := s.jwtManager.ValidateAccessToken(token)
	if err != nil {
		return nil, err
	}

	blacklisted, err := s.cache.IsJTIBlacklisted(ctx, claims.JTI)
	if err != nil {
		return nil, apperror.Storage(err)
	}
	if blacklisted {
		return nil, apperror.ErrInvalidAccessToken
	}

	return claims, nil
}

// GetUser returns the user profile through the read-through cache.
func (s *authService) GetUser(ctx context.Context, userID string) (*dto.UserResponse, error) {
	user, err := s.cache.GetUser(ctx, userID)
	if err != nil {
		s.logger.Warn("user cache read failed", zap.Error(err))
	}

	if user == nil {
		user, err = s.userRepo.GetByID(ctx, userID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return nil, apperror.ErrUserNotFound
			}
			return nil, apperror.Storage(err)
		}

		if err := s.cache.SetUser(ctx, user, s.userCacheTTL); err != nil {
			s.logger.Warn("user cache write failed", zap.Error(err))
		}
	}

	return &dto.UserResponse{
		ID:         user.ID,
		Name:       user.Name,
		Email:      user.Email,
		Role:       string(user.Role),
		Status:     string(user.Status),
		IsVerified: user.IsVerified,
		CreatedAt:  user.CreatedAt.Format(time.RFC3339),
		UpdatedAt:  user.UpdatedAt.Format(time.RFC3339),
	}, nil
}
