package admin

import (
	"strconv"

	"github.com/Niwatda/softwareshop/database"
	"github.com/Niwatda/softwareshop/model"
	"github.com/Niwatda/softwareshop/utils/response"
	"github.com/gofiber/fiber/v2"
)

// ListAuditLogs retrieves admin audit logs with pagination
// GET /admin/audit
func ListAuditLogs(c *fiber.Ctx, store database.Storage) error {
	db := store.GetDB()

	page, _ := strconv.Atoi(c.Query("page", "1"))
	limit, _ := strconv.Atoi(c.Query("limit", "20"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	query := db.Model(&model.AdminAuditLog{})

	if action := c.Query("action"); action != "" {
		query = query.Where("action = ?", action)
	}
	if resource := c.Query("resource"); resource != "" {
		query = query.Where("resource = ?", resource)
	}
	if adminIDStr := c.Query("admin_id"); adminIDStr != "" {
		if adminID, err := strconv.ParseUint(adminIDStr, 10, 32); err == nil {
			query = query.Where("admin_id = ?", adminID)
		}
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return response.InternalServerError(c, "Failed to fetch audit logs")
	}

	var logs []model.AdminAuditLog
	err := query.Preload("Admin").
		Order("created_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&logs).Error
	if err != nil {
		return response.InternalServerError(c, "Failed to fetch audit logs")
	}

	return response.Paginated(c, logs, response.CalculatePagination(page, limit, total))
}
