package auth

import (
	"time"

	"github.com/Niwatda/softwareshop/model"
	"github.com/Niwatda/softwareshop/services"
	authutil "github.com/Niwatda/softwareshop/utils/auth"
	"github.com/Niwatda/softwareshop/utils/crypto"
	"github.com/Niwatda/softwareshop/utils/middleware"
	"github.com/Niwatda/softwareshop/utils/response"
	"github.com/gofiber/fiber/v2"
)

// ForgotPasswordRequest represents a password reset request
type ForgotPasswordRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// ResetPasswordRequest represents a password reset with token
type ResetPasswordRequest struct {
	Token       string `json:"token" validate:"required"`
	NewPassword string `json:"new_password" validate:"required,min=6"`
}

// ChangePasswordRequest represents a password change request
type ChangePasswordRequest struct {
	OldPassword string `json:"old_password" validate:"required"`
	NewPassword string `json:"new_password" validate:"required,min=6"`
}

// ForgotPassword handles password reset requests. The response never
// reveals whether the email exists.
func (h *AuthHandler) ForgotPassword(c *fiber.Ctx) error {
	var req ForgotPasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if req.Email == "" {
		return response.BadRequest(c, "Email is required")
	}

	neutral := "If the email exists, a password reset link will be sent"

	var user model.User
	if err := h.db.Where("email = ?", req.Email).First(&user).Error; err != nil {
		return response.SuccessWithMessage(c, neutral, nil)
	}

	resetToken, err := crypto.GenerateResetToken()
	if err != nil {
		return response.InternalServerError(c, "Failed to create reset token")
	}

	passwordReset := model.PasswordResetToken{
		UserID:    user.ID,
		Token:     resetToken,
		ExpiresAt: time.Now().Add(1 * time.Hour),
	}

	if err := h.db.Create(&passwordReset).Error; err != nil {
		return response.InternalServerError(c, "Failed to create reset token")
	}

	// Fire and forget; delivery failures are logged by the email service
	go func(email, token, name string) {
		emailService := services.NewEmailService()
		emailService.SendPasswordResetEmail(email, token, name)
	}(user.Email, resetToken, user.Name)

	return response.SuccessWithMessage(c, neutral, nil)
}

// ResetPassword handles password reset with token
func (h *AuthHandler) ResetPassword(c *fiber.Ctx) error {
	var req ResetPasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if req.Token == "" || req.NewPassword == "" {
		return response.BadRequest(c, "Token and new password are required")
	}

	if !authutil.IsPasswordValid(req.NewPassword) {
		return response.BadRequest(c, "Password must be at least 6 characters and contain a number")
	}

	var resetToken model.PasswordResetToken
	if err := h.db.Where("token = ?", req.Token).First(&resetToken).Error; err != nil {
		return response.BadRequest(c, "Invalid or expired reset token")
	}

	if resetToken.IsExpired() {
		return response.BadRequest(c, "Reset token has expired")
	}

	if resetToken.IsUsed() {
		return response.BadRequest(c, "Reset token has already been used")
	}

	var user model.User
	if err := h.db.First(&user, resetToken.UserID).Error; err != nil {
		return response.BadRequest(c, "Invalid or expired reset token")
	}

	hashedPassword, err := authutil.HashPassword(req.NewPassword)
	if err != nil {
		return response.InternalServerError(c, "Failed to process password")
	}

	// Update password and invalidate all existing sessions
	err = h.db.Model(&user).Updates(map[string]interface{}{
		"password_hash": hashedPassword,
		"token_version": user.TokenVersion + 1,
	}).Error
	if err != nil {
		return response.InternalServerError(c, "Failed to update password")
	}

	resetToken.MarkAsUsed()
	h.db.Save(&resetToken)

	return response.SuccessWithMessage(c, "Password has been reset successfully", nil)
}

// ChangePassword handles password change for an authenticated user
func (h *AuthHandler) ChangePassword(c *fiber.Ctx) error {
	user, ok := middleware.GetUser(c)
	if !ok {
		return response.Unauthorized(c, "Not authenticated")
	}

	var req ChangePasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if req.OldPassword == "" || req.NewPassword == "" {
		return response.BadRequest(c, "Old and new passwords are required")
	}

	if err := authutil.VerifyPassword(user.PasswordHash, req.OldPassword); err != nil {
		return response.Unauthorized(c, "Current password is incorrect")
	}

	if !authutil.IsPasswordValid(req.NewPassword) {
		return response.BadRequest(c, "Password must be at least 6 characters and contain a number")
	}

	hashedPassword, err := authutil.HashPassword(req.NewPassword)
	if err != nil {
		return response.InternalServerError(c, "Failed to process password")
	}

	// Bump token version so every outstanding token stops working
	err = h.db.Model(user).Updates(map[string]interface{}{
		"password_hash": hashedPassword,
		"token_version": user.TokenVersion + 1,
	}).Error
	if err != nil {
		return response.InternalServerError(c, "Failed to update password")
	}

	return response.SuccessWithMessage(c, "Password changed successfully. Please log in again.", nil)
}
