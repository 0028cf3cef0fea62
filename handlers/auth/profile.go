package auth

import (
	"github.com/Niwatda/softwareshop/utils/middleware"
	"github.com/Niwatda/softwareshop/utils/response"
	"github.com/Niwatda/softwareshop/utils/validation"
	"github.com/gofiber/fiber/v2"
)

// UpdateProfileRequest represents a profile update request
type UpdateProfileRequest struct {
	Name string `json:"name" validate:"required,min=2"`
}

// GetProfile returns the authenticated user's profile
func (h *AuthHandler) GetProfile(c *fiber.Ctx) error {
	user, ok := middleware.GetUser(c)
	if !ok {
		return response.Unauthorized(c, "Not authenticated")
	}

	return response.Success(c, toUserResponse(user))
}

// UpdateProfile updates the authenticated user's profile. Email and
// role are not editable here.
func (h *AuthHandler) UpdateProfile(c *fiber.Ctx) error {
	user, ok := middleware.GetUser(c)
	if !ok {
		return response.Unauthorized(c, "Not authenticated")
	}

	var req UpdateProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	name := validation.SanitizeString(req.Name)
	if len(name) < 2 {
		return response.BadRequest(c, "Name must be at least 2 characters")
	}

	if err := h.db.Model(user).Update("name", name).Error; err != nil {
		return response.InternalServerError(c, "Failed to update profile")
	}

	user.Name = name
	return response.Success(c, toUserResponse(user))
}
