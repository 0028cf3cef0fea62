package services

import (
	"errors"
	"fmt"
	"testing"

	"github.com/Niwatda/softwareshop/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestCanTransitionTargets(t *testing.T) {
	// Admin review may only complete or fail a pending order
	assert.NoError(t, canTransition(model.OrderStatusPending, model.OrderStatusCompleted))
	assert.NoError(t, canTransition(model.OrderStatusPending, model.OrderStatusFailed))

	for _, target := range []model.OrderStatus{
		model.OrderStatusPending,
		model.OrderStatusRefunded,
		model.OrderStatus("CANCELLED"),
		model.OrderStatus(""),
	} {
		err := canTransition(model.OrderStatusPending, target)
		assert.ErrorIs(t, err, ErrInvalidTransition, "target %q", target)
	}
}

func TestCanTransitionTerminalOrdersAreImmutable(t *testing.T) {
	for _, current := range []model.OrderStatus{
		model.OrderStatusCompleted,
		model.OrderStatusFailed,
		model.OrderStatusRefunded,
	} {
		err := canTransition(current, model.OrderStatusCompleted)
		assert.ErrorIs(t, err, ErrOrderFinalized, "from %q", current)

		err = canTransition(current, model.OrderStatusFailed)
		assert.ErrorIs(t, err, ErrOrderFinalized, "from %q", current)
	}
}

func TestNewPendingOrderSnapshotsAmount(t *testing.T) {
	product := &model.Product{Price: 499000}
	product.ID = 7

	order := newPendingOrder(42, product, "slips/1700000000-slip.jpg")

	require.Equal(t, model.OrderStatusPending, order.Status)
	assert.Equal(t, uint(42), order.UserID)
	assert.Equal(t, uint(7), order.ProductID)
	assert.Equal(t, "slips/1700000000-slip.jpg", order.SlipImage)
	assert.Equal(t, int64(499000), order.Amount)

	// A later price edit never touches the snapshot
	product.Price = 999000
	assert.Equal(t, int64(499000), order.Amount)
}

func TestMapOrderWriteErrorDuplicatePurchase(t *testing.T) {
	// The partial unique index rejecting a second COMPLETED order for
	// the same user and product surfaces as a duplicate key
	err := mapOrderWriteError(gorm.ErrDuplicatedKey)
	assert.ErrorIs(t, err, ErrAlreadyPurchased)

	wrapped := fmt.Errorf("update: %w", gorm.ErrDuplicatedKey)
	assert.ErrorIs(t, mapOrderWriteError(wrapped), ErrAlreadyPurchased)

	other := mapOrderWriteError(errors.New("connection reset"))
	assert.NotErrorIs(t, other, ErrAlreadyPurchased)
	assert.Error(t, other)
}
