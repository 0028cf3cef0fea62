package admin

import (
	"errors"
	"strconv"

	"github.com/Niwatda/softwareshop/database"
	"github.com/Niwatda/softwareshop/model"
	"github.com/Niwatda/softwareshop/services"
	"github.com/Niwatda/softwareshop/utils/response"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// UpdateOrderStatusRequest represents the admin order review decision
type UpdateOrderStatusRequest struct {
	Status model.OrderStatus `json:"status" validate:"required"`
}

// ListOrders retrieves orders for review, optionally filtered by status
// GET /admin/orders
func ListOrders(c *fiber.Ctx, store database.Storage) error {
	db := store.GetDB()

	page, _ := strconv.Atoi(c.Query("page", "1"))
	limit, _ := strconv.Atoi(c.Query("limit", "20"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	query := db.Model(&model.Order{})

	if status := c.Query("status"); status != "" {
		if !model.OrderStatus(status).IsValid() {
			return response.BadRequest(c, "Unknown order status filter")
		}
		query = query.Where("status = ?", status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return response.InternalServerError(c, "Failed to fetch orders")
	}

	var orders []model.Order
	err := query.Preload("User").Preload("Product").
		Order("created_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&orders).Error
	if err != nil {
		return response.InternalServerError(c, "Failed to fetch orders")
	}

	return response.Paginated(c, orders, response.CalculatePagination(page, limit, total))
}

// GetOrder retrieves one order with its buyer and product
// GET /admin/orders/:id
func GetOrder(c *fiber.Ctx, store database.Storage) error {
	db := store.GetDB()

	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid order id")
	}

	var order model.Order
	err = db.Preload("User").Preload("Product").First(&order, id).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return response.NotFound(c, "Order not found")
		}
		return response.InternalServerError(c, "Failed to fetch order")
	}

	return response.Success(c, order)
}

// UpdateOrderStatus moves a pending order to COMPLETED or FAILED after
// the admin has inspected the payment slip. The buyer is notified by
// email either way.
// PATCH /admin/orders/:id
func UpdateOrderStatus(c *fiber.Ctx, store database.Storage) error {
	db := store.GetDB()

	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid order id")
	}

	var req UpdateOrderStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	orderService := services.NewOrderService(db)
	order, err := orderService.Transition(c.Context(), uint(id), req.Status)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrOrderNotFound):
			return response.NotFound(c, "Order not found")
		case errors.Is(err, services.ErrInvalidTransition):
			return response.BadRequest(c, "Status must be COMPLETED or FAILED")
		case errors.Is(err, services.ErrOrderFinalized):
			return response.Conflict(c, "Order has already been finalized")
		case errors.Is(err, services.ErrAlreadyPurchased):
			return response.Conflict(c, "User already owns a completed order for this product")
		default:
			return response.InternalServerError(c, "Failed to update order")
		}
	}

	// Fire and forget; delivery failures are logged by the email service
	go func(o model.Order) {
		emailService := services.NewEmailService()
		if o.Status == model.OrderStatusCompleted {
			emailService.SendOrderConfirmationEmail(o.User.Email, o.User.Name, &o)
		} else {
			emailService.SendOrderRejectedEmail(o.User.Email, o.User.Name, &o)
		}
	}(*order)

	return response.Success(c, order)
}
