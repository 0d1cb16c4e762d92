package service

import (
	"github.com/dkoval/auth-backend/internal/apperror"
	"github.com/dkoval/auth-backend/internal/dto"
	"github.com/dkoval/auth-backend/internal/utils"
)

const (
	minPasswordLen = 8
	maxPasswordLen = 20
	maxNameLen     = 20
)

func validateRegisterRequest(req *dto.RegisterRequest) error {
	if req.Name == "" {
		return apperror.Validation("name can't be empty")
	}
	if len(req.Name) > maxNameLen {
		return apperror.Validation("name can't be longer than 20 characters")
	}
	if !utils.ValidateName(req.Name) {
		return apperror.Validation("name must be letters, numbers or letters with numbers")
	}
	if !utils.ValidateEmail(req.Email) {
		return apperror.Validation("email must be a valid email address")
	}
	if err := validatePassword(req.Password); err != nil {
		return err
	}
	if req.Password != req.ConfirmPassword {
		return apperror.Validation("passwords do not match")
	}
	return nil
}

func validateLoginRequest(email, password string) error {
	if !utils.ValidateEmail(email) {
		return apperror.Validation("email must be a valid email address")
	}
	if password == "" {
		return apperror.Validation("password can't be empty")
	}
	return nil
}

func validateVerifyEmailRequest(email, token string) error {
	if !utils.ValidateEmail(email) {
		return apperror.Validation("email must be a valid email address")
	}
	if token == "" {
		return apperror.Validation("token can't be empty")
	}
	return nil
}

func validateResetPasswordRequest(req *dto.ResetPasswordRequest) error {
	if !utils.ValidateEmail(req.Email) {
		return apperror.Validation("email must be a valid email address")
	}
	if req.Token == "" {
		return apperror.Validation("token can't be empty")
	}
	if err := validatePassword(req.NewPassword); err != nil {
		return err
	}
	if req.NewPassword != req.ConfirmPassword {
		return apperror.Validation("passwords do not match")
	}
	return nil
}

func validatePassword(password string) error {
	if len(password) < minPasswordLen {
		return apperror.Validation("password must be at least 8 characters long")
	}
	if len(password) > maxPasswordLen {
		return apperror.Validation("password must be at most 20 characters long")
	}
	if !utils.IsStrongPassword(password) {
		return apperror.Validation("password must contain letters, numbers and special characters")
	}
	return nil
}
