package admin

import (
	"encoding/json"
	"time"

	"github.com/Niwatda/softwareshop/database"
	"github.com/Niwatda/softwareshop/model"
	"github.com/Niwatda/softwareshop/utils/response"
	"github.com/gofiber/fiber/v2"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ListSettings retrieves all site settings
// GET /admin/site-settings
func ListSettings(c *fiber.Ctx, store database.Storage) error {
	db := store.GetDB()

	var settings []model.SiteSetting
	if err := db.Order("key ASC").Find(&settings).Error; err != nil {
		return response.InternalServerError(c, "Failed to fetch settings")
	}

	return response.Success(c, settings)
}

// GetSetting retrieves a specific setting by key
// GET /admin/site-settings/:key
func GetSetting(c *fiber.Ctx, store database.Storage) error {
	db := store.GetDB()

	key := c.Params("key")
	var setting model.SiteSetting
	if err := db.Where("key = ?", key).First(&setting).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return response.NotFound(c, "Setting not found")
		}
		return response.InternalServerError(c, "Failed to fetch setting")
	}

	return response.Success(c, setting)
}

// UpsertSetting creates or replaces the setting under a key. Values
// are free-form JSON; the storefront owns their shape.
// PUT /admin/site-settings/:key
func UpsertSetting(c *fiber.Ctx, store database.Storage) error {
	db := store.GetDB()

	key := c.Params("key")
	if key == "" {
		return response.BadRequest(c, "Setting key is required")
	}

	body := c.Body()
	if len(body) == 0 || !json.Valid(body) {
		return response.BadRequest(c, "Value must be valid JSON")
	}

	setting := model.SiteSetting{
		Key:   key,
		Value: datatypes.JSON(body),
	}

	// Resurrects a soft-deleted row under the same key
	err := db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "key"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"value":      datatypes.JSON(body),
			"updated_at": time.Now(),
			"deleted_at": nil,
		}),
	}).Create(&setting).Error
	if err != nil {
		return response.InternalServerError(c, "Failed to save setting")
	}

	return response.Success(c, setting)
}

// DeleteSetting removes a setting; the storefront falls back to its
// client-side defaults for missing keys
// DELETE /admin/site-settings/:key
func DeleteSetting(c *fiber.Ctx, store database.Storage) error {
	db := store.GetDB()

	key := c.Params("key")
	result := db.Where("key = ?", key).Delete(&model.SiteSetting{})
	if result.Error != nil {
		return response.InternalServerError(c, "Failed to delete setting")
	}
	if result.RowsAffected == 0 {
		return response.NotFound(c, "Setting not found")
	}

	return response.SuccessWithMessage(c, "Setting deleted", nil)
}
