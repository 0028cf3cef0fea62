package admin

import (
	"strconv"
	"strings"

	"github.com/Niwatda/softwareshop/database"
	"github.com/Niwatda/softwareshop/model"
	"github.com/Niwatda/softwareshop/utils/auth"
	"github.com/Niwatda/softwareshop/utils/middleware"
	"github.com/Niwatda/softwareshop/utils/response"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// ListUsersRequest represents the query parameters for listing users
type ListUsersRequest struct {
	Page   int    `query:"page"`
	Limit  int    `query:"limit"`
	Role   string `query:"role"`
	Search string `query:"search"`
}

// UpdateUserRequest represents the request body for updating a user;
// omitted fields keep their current values
type UpdateUserRequest struct {
	Name  string `json:"name" validate:"omitempty,min=2,max=255"`
	Email string `json:"email" validate:"omitempty,email"`
	Role  string `json:"role" validate:"omitempty,oneof=USER ADMIN"`
}

// adminUserView is a user row with their order count for the back office
type adminUserView struct {
	model.User
	OrderCount int64 `json:"order_count"`
}

// ResetUserPasswordRequest represents the admin password reset payload
type ResetUserPasswordRequest struct {
	NewPassword string `json:"new_password" validate:"required,min=6"`
}

// ListUsers retrieves all users with pagination and filters
// GET /admin/users
func ListUsers(c *fiber.Ctx, store database.Storage) error {
	db := store.GetDB()

	var req ListUsersRequest
	if err := c.QueryParser(&req); err != nil {
		return response.BadRequest(c, "Invalid query parameters")
	}

	if req.Page < 1 {
		req.Page = 1
	}
	if req.Limit < 1 || req.Limit > 100 {
		req.Limit = 20
	}

	query := db.Model(&model.User{})

	if req.Role != "" {
		query = query.Where("role = ?", req.Role)
	}

	if req.Search != "" {
		searchTerm := "%" + strings.ToLower(req.Search) + "%"
		query = query.Where("LOWER(name) LIKE ? OR LOWER(email) LIKE ?", searchTerm, searchTerm)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return response.InternalServerError(c, "Failed to fetch users")
	}

	var users []model.User
	err := query.Order("created_at DESC").
		Offset((req.Page - 1) * req.Limit).
		Limit(req.Limit).
		Find(&users).Error
	if err != nil {
		return response.InternalServerError(c, "Failed to fetch users")
	}

	views, err := withOrderCounts(db, users)
	if err != nil {
		return response.InternalServerError(c, "Failed to fetch users")
	}

	return response.Paginated(c, views, response.CalculatePagination(req.Page, req.Limit, total))
}

// withOrderCounts decorates user rows with their order counts in a
// single grouped query
func withOrderCounts(db *gorm.DB, users []model.User) ([]adminUserView, error) {
	views := make([]adminUserView, 0, len(users))
	if len(users) == 0 {
		return views, nil
	}

	ids := make([]uint, 0, len(users))
	for _, u := range users {
		ids = append(ids, u.ID)
	}

	var rows []struct {
		UserID uint
		Count  int64
	}
	err := db.Model(&model.Order{}).
		Select("user_id, COUNT(*) AS count").
		Where("user_id IN ?", ids).
		Group("user_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[uint]int64, len(rows))
	for _, r := range rows {
		counts[r.UserID] = r.Count
	}

	for _, u := range users {
		views = append(views, adminUserView{User: u, OrderCount: counts[u.ID]})
	}
	return views, nil
}

// GetUser retrieves one user with their order history
// GET /admin/users/:id
func GetUser(c *fiber.Ctx, store database.Storage) error {
	db := store.GetDB()

	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid user id")
	}

	var user model.User
	err = db.Preload("Orders.Product").First(&user, id).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return response.NotFound(c, "User not found")
		}
		return response.InternalServerError(c, "Failed to fetch user")
	}

	return response.Success(c, user)
}

// UpdateUser updates a user's name or role
// PUT /admin/users/:id
func UpdateUser(c *fiber.Ctx, store database.Storage) error {
	db := store.GetDB()

	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid user id")
	}

	var user model.User
	if err := db.First(&user, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return response.NotFound(c, "User not found")
		}
		return response.InternalServerError(c, "Failed to fetch user")
	}

	var req UpdateUserRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if err := reqValidator.ValidateStruct(req); err != nil {
		return response.ValidationError(c, err)
	}

	// An admin may not demote themselves; avoids locking everyone out
	if actor, ok := middleware.GetUser(c); ok && actor.ID == user.ID &&
		req.Role != "" && req.Role != model.RoleAdmin {
		return response.BadRequest(c, "You cannot change your own role")
	}

	updates := map[string]interface{}{}
	if req.Name != "" {
		updates["name"] = req.Name
	}
	if req.Email != "" {
		updates["email"] = req.Email
	}
	if req.Role != "" {
		updates["role"] = req.Role
		// Role changes invalidate outstanding tokens
		updates["token_version"] = user.TokenVersion + 1
	}

	if len(updates) == 0 {
		return response.BadRequest(c, "Nothing to update")
	}

	if err := db.Model(&user).Updates(updates).Error; err != nil {
		// The unique index on email is the duplicate check
		if err == gorm.ErrDuplicatedKey {
			return response.Conflict(c, "A user with this email already exists")
		}
		return response.InternalServerError(c, "Failed to update user")
	}

	return response.Success(c, user)
}

// DeleteUser soft-deletes a user; their orders cascade away with them
// DELETE /admin/users/:id
func DeleteUser(c *fiber.Ctx, store database.Storage) error {
	db := store.GetDB()

	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid user id")
	}

	if actor, ok := middleware.GetUser(c); ok && actor.ID == uint(id) {
		return response.BadRequest(c, "You cannot delete your own account")
	}

	result := db.Delete(&model.User{}, id)
	if result.Error != nil {
		return response.InternalServerError(c, "Failed to delete user")
	}
	if result.RowsAffected == 0 {
		return response.NotFound(c, "User not found")
	}

	return response.SuccessWithMessage(c, "User deleted", nil)
}

// ResetUserPassword sets a new password for a user and invalidates
// their sessions
// POST /admin/users/:id/reset-password
func ResetUserPassword(c *fiber.Ctx, store database.Storage) error {
	db := store.GetDB()

	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid user id")
	}

	var req ResetUserPasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if err := reqValidator.ValidateStruct(req); err != nil {
		return response.ValidationError(c, err)
	}

	if !auth.IsPasswordValid(req.NewPassword) {
		return response.BadRequest(c, "Password must be at least 6 characters and contain a number")
	}

	var user model.User
	if err := db.First(&user, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return response.NotFound(c, "User not found")
		}
		return response.InternalServerError(c, "Failed to fetch user")
	}

	hash, err := auth.HashPassword(req.NewPassword)
	if err != nil {
		return response.InternalServerError(c, "Failed to process password")
	}

	err = db.Model(&user).Updates(map[string]interface{}{
		"password_hash": hash,
		"token_version": user.TokenVersion + 1,
	}).Error
	if err != nil {
		return response.InternalServerError(c, "Failed to reset password")
	}

	return response.SuccessWithMessage(c, "Password reset successfully", nil)
}
