package middleware

import (
	"strconv"

	"github.com/Niwatda/softwareshop/model"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// AdminAuditLog records an audit trail entry for an admin mutation.
// It must run after RequireAdmin so the acting admin is in context.
func AdminAuditLog(db *gorm.DB, action, resource string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		admin, ok := GetUser(c)
		if !ok || admin == nil {
			return c.Next() // continue without logging if no admin in context
		}

		var resourceID uint
		if id := c.Params("id"); id != "" {
			if parsedID, err := strconv.ParseUint(id, 10, 32); err == nil {
				resourceID = uint(parsedID)
			}
		}

		entry := model.AdminAuditLog{
			AdminID:     admin.ID,
			Action:      action,
			Resource:    resource,
			ResourceID:  resourceID,
			IPAddress:   c.IP(),
			UserAgent:   c.Get("User-Agent"),
			Description: c.Method() + " " + c.Path(),
		}

		err := c.Next()

		// Only record mutations that actually went through
		if c.Response().StatusCode() < 400 {
			db.Create(&entry)
		}

		return err
	}
}
