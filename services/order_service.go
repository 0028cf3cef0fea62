package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/Niwatda/softwareshop/model"
	"gorm.io/gorm"
)

var (
	// ErrProductNotFound is returned when the product does not exist
	// or is not active. Inactive products are indistinguishable from
	// missing ones to buyers.
	ErrProductNotFound = errors.New("product not found")

	// ErrAlreadyPurchased is returned when the user already has a
	// completed order for the product.
	ErrAlreadyPurchased = errors.New("product already purchased")

	// ErrOrderNotFound is returned when the order does not exist.
	ErrOrderNotFound = errors.New("order not found")

	// ErrOrderFinalized is returned when a transition targets an order
	// already in a terminal state.
	ErrOrderFinalized = errors.New("order is already finalized")

	// ErrInvalidTransition is returned for transition targets other
	// than COMPLETED or FAILED.
	ErrInvalidTransition = errors.New("invalid order status transition")
)

// OrderService owns the order lifecycle: checkout creates PENDING
// orders with a price snapshot, and admin review moves them to a
// terminal state exactly once.
type OrderService struct {
	db *gorm.DB
}

// NewOrderService creates a new order service
func NewOrderService(db *gorm.DB) *OrderService {
	return &OrderService{db: db}
}

// GetActiveProductBySlug loads a product buyers are allowed to see.
func (s *OrderService) GetActiveProductBySlug(ctx context.Context, slug string) (*model.Product, error) {
	var product model.Product
	err := s.db.WithContext(ctx).
		Where("slug = ? AND is_active = ?", slug, true).
		First(&product).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to load product: %w", err)
	}
	return &product, nil
}

// CreateOrder places a PENDING order for an active product. The amount
// is snapshotted from the current product price so later price edits
// never touch existing orders. A completed order for the same product
// blocks a second purchase; the partial unique index on orders backs
// the same rule at the database level, so concurrent approvals cannot
// produce two COMPLETED rows either.
func (s *OrderService) CreateOrder(ctx context.Context, userID uint, productSlug, slipImage string) (*model.Order, error) {
	product, err := s.GetActiveProductBySlug(ctx, productSlug)
	if err != nil {
		return nil, err
	}

	var completed int64
	err = s.db.WithContext(ctx).Model(&model.Order{}).
		Where("user_id = ? AND product_id = ? AND status = ?", userID, product.ID, model.OrderStatusCompleted).
		Count(&completed).Error
	if err != nil {
		return nil, fmt.Errorf("failed to check existing orders: %w", err)
	}
	if completed > 0 {
		return nil, ErrAlreadyPurchased
	}

	order := newPendingOrder(userID, product, slipImage)

	if err := s.db.WithContext(ctx).Create(&order).Error; err != nil {
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	order.Product = *product
	return &order, nil
}

// newPendingOrder builds a fresh order with the product price
// snapshotted into the amount. The snapshot never changes after this
// point, no matter how the product is edited later.
func newPendingOrder(userID uint, product *model.Product, slipImage string) model.Order {
	return model.Order{
		UserID:    userID,
		ProductID: product.ID,
		Amount:    product.Price,
		Status:    model.OrderStatusPending,
		SlipImage: slipImage,
	}
}

// canTransition validates an admin review decision. Only COMPLETED and
// FAILED are reachable targets, and only from a non-terminal order.
func canTransition(current, target model.OrderStatus) error {
	if target != model.OrderStatusCompleted && target != model.OrderStatusFailed {
		return ErrInvalidTransition
	}
	if current.IsTerminal() {
		return ErrOrderFinalized
	}
	return nil
}

// mapOrderWriteError converts driver-level failures into domain
// errors. The partial unique index on orders rejects a second
// COMPLETED row per (user, product) and surfaces as a duplicate key.
func mapOrderWriteError(err error) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrAlreadyPurchased
	}
	return fmt.Errorf("failed to update order status: %w", err)
}

// Transition moves a PENDING order to COMPLETED or FAILED. Terminal
// orders are immutable and the amount snapshot is never rewritten.
// The unique index rejects approving a second order for a product the
// user already owns, which surfaces here as ErrAlreadyPurchased.
func (s *OrderService) Transition(ctx context.Context, orderID uint, target model.OrderStatus) (*model.Order, error) {
	var order model.Order
	err := s.db.WithContext(ctx).
		Preload("User").
		Preload("Product").
		First(&order, orderID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("failed to load order: %w", err)
	}

	if err := canTransition(order.Status, target); err != nil {
		return nil, err
	}

	err = s.db.WithContext(ctx).Model(&order).Update("status", target).Error
	if err != nil {
		return nil, mapOrderWriteError(err)
	}

	order.Status = target
	return &order, nil
}

// ListUserOrders returns the user's orders, newest first.
func (s *OrderService) ListUserOrders(ctx context.Context, userID uint) ([]model.Order, error) {
	var orders []model.Order
	err := s.db.WithContext(ctx).
		Preload("Product").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&orders).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	return orders, nil
}

// ListPurchasedProducts returns products the user holds a completed
// order for. This is the source of the account downloads page.
func (s *OrderService) ListPurchasedProducts(ctx context.Context, userID uint) ([]model.Product, error) {
	var products []model.Product
	err := s.db.WithContext(ctx).
		Joins("JOIN orders ON orders.product_id = products.id AND orders.deleted_at IS NULL").
		Where("orders.user_id = ? AND orders.status = ?", userID, model.OrderStatusCompleted).
		Order("orders.created_at DESC").
		Find(&products).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list purchased products: %w", err)
	}
	return products, nil
}

// UserOrderStats summarizes a user's purchase history.
type UserOrderStats struct {
	TotalOrders     int64 `json:"total_orders"`
	CompletedOrders int64 `json:"completed_orders"`
	PendingOrders   int64 `json:"pending_orders"`
	TotalSpent      int64 `json:"total_spent"`
}

// GetUserStats aggregates order counts and completed spend for one user.
func (s *OrderService) GetUserStats(ctx context.Context, userID uint) (*UserOrderStats, error) {
	stats := &UserOrderStats{}
	db := s.db.WithContext(ctx).Model(&model.Order{})

	if err := db.Where("user_id = ?", userID).Count(&stats.TotalOrders).Error; err != nil {
		return nil, fmt.Errorf("failed to count orders: %w", err)
	}

	err := s.db.WithContext(ctx).Model(&model.Order{}).
		Where("user_id = ? AND status = ?", userID, model.OrderStatusCompleted).
		Count(&stats.CompletedOrders).Error
	if err != nil {
		return nil, fmt.Errorf("failed to count completed orders: %w", err)
	}

	err = s.db.WithContext(ctx).Model(&model.Order{}).
		Where("user_id = ? AND status = ?", userID, model.OrderStatusPending).
		Count(&stats.PendingOrders).Error
	if err != nil {
		return nil, fmt.Errorf("failed to count pending orders: %w", err)
	}

	var totalSpent struct{ Total int64 }
	err = s.db.WithContext(ctx).Model(&model.Order{}).
		Select("COALESCE(SUM(amount), 0) AS total").
		Where("user_id = ? AND status = ?", userID, model.OrderStatusCompleted).
		Scan(&totalSpent).Error
	if err != nil {
		return nil, fmt.Errorf("failed to sum spend: %w", err)
	}
	stats.TotalSpent = totalSpent.Total

	return stats, nil
}
