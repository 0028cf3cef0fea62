package admin

import (
	"github.com/Niwatda/softwareshop/database"
	"github.com/Niwatda/softwareshop/model"
	"github.com/Niwatda/softwareshop/utils/response"
	"github.com/gofiber/fiber/v2"
)

// DashboardStats summarizes the store for the admin dashboard
type DashboardStats struct {
	TotalUsers      int64         `json:"total_users"`
	TotalProducts   int64         `json:"total_products"`
	ActiveProducts  int64         `json:"active_products"`
	TotalOrders     int64         `json:"total_orders"`
	PendingOrders   int64         `json:"pending_orders"`
	CompletedOrders int64         `json:"completed_orders"`
	FailedOrders    int64         `json:"failed_orders"`
	TotalRevenue    int64         `json:"total_revenue"` // minor currency units, completed only
	RecentOrders    []model.Order `json:"recent_orders"`
}

// GetDashboardStats aggregates store-wide statistics
// GET /admin/stats
func GetDashboardStats(c *fiber.Ctx, store database.Storage) error {
	db := store.GetDB()

	stats := DashboardStats{}

	if err := db.Model(&model.User{}).Count(&stats.TotalUsers).Error; err != nil {
		return response.InternalServerError(c, "Failed to aggregate stats")
	}
	if err := db.Model(&model.Product{}).Count(&stats.TotalProducts).Error; err != nil {
		return response.InternalServerError(c, "Failed to aggregate stats")
	}
	if err := db.Model(&model.Product{}).Where("is_active = ?", true).Count(&stats.ActiveProducts).Error; err != nil {
		return response.InternalServerError(c, "Failed to aggregate stats")
	}
	if err := db.Model(&model.Order{}).Count(&stats.TotalOrders).Error; err != nil {
		return response.InternalServerError(c, "Failed to aggregate stats")
	}

	statusCounts := []struct {
		Status model.OrderStatus
		Count  int64
	}{}
	err := db.Model(&model.Order{}).
		Select("status, COUNT(*) AS count").
		Group("status").
		Scan(&statusCounts).Error
	if err != nil {
		return response.InternalServerError(c, "Failed to aggregate stats")
	}
	for _, sc := range statusCounts {
		switch sc.Status {
		case model.OrderStatusPending:
			stats.PendingOrders = sc.Count
		case model.OrderStatusCompleted:
			stats.CompletedOrders = sc.Count
		case model.OrderStatusFailed:
			stats.FailedOrders = sc.Count
		}
	}

	var revenue struct{ Total int64 }
	err = db.Model(&model.Order{}).
		Select("COALESCE(SUM(amount), 0) AS total").
		Where("status = ?", model.OrderStatusCompleted).
		Scan(&revenue).Error
	if err != nil {
		return response.InternalServerError(c, "Failed to aggregate stats")
	}
	stats.TotalRevenue = revenue.Total

	err = db.Preload("User").Preload("Product").
		Order("created_at DESC").
		Limit(10).
		Find(&stats.RecentOrders).Error
	if err != nil {
		return response.InternalServerError(c, "Failed to aggregate stats")
	}

	return response.Success(c, stats)
}
