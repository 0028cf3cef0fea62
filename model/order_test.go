package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOrderStatusIsTerminal(t *testing.T) {
	assert.False(t, OrderStatusPending.IsTerminal())
	assert.True(t, OrderStatusCompleted.IsTerminal())
	assert.True(t, OrderStatusFailed.IsTerminal())
	assert.True(t, OrderStatusRefunded.IsTerminal())
}

func TestOrderStatusIsValid(t *testing.T) {
	for _, s := range []OrderStatus{OrderStatusPending, OrderStatusCompleted, OrderStatusRefunded, OrderStatusFailed} {
		assert.True(t, s.IsValid(), "%s should be valid", s)
	}
	assert.False(t, OrderStatus("CANCELLED").IsValid())
	assert.False(t, OrderStatus("").IsValid())
	assert.False(t, OrderStatus("completed").IsValid(), "status comparison is case-sensitive")
}

func TestUserIsAdmin(t *testing.T) {
	assert.True(t, (&User{Role: RoleAdmin}).IsAdmin())
	assert.False(t, (&User{Role: RoleUser}).IsAdmin())
	assert.False(t, (&User{}).IsAdmin())
}
