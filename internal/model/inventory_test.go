package model

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestStatusForQuantity(t *testing.T) {
	tests := []struct {
		quantity int
		want     StockStatus
	}{
		{-3, StatusOutOfStock},
		{0, StatusOutOfStock},
		{1, StatusLowStock},
		{4, StatusLowStock},
		{5, StatusInStock},
		{7, StatusInStock},
		{1000, StatusInStock},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, StatusForQuantity(tt.quantity), "quantity %d", tt.quantity)
	}
}

func TestInventoryItemApply(t *testing.T) {
	item := &InventoryItem{Quantity: 10, Status: StatusInStock}

	item.Apply(3)
	assert.Equal(t, 3, item.Quantity)
	assert.Equal(t, StatusLowStock, item.Status)

	item.Apply(0)
	assert.Equal(t, StatusOutOfStock, item.Status)
}

func TestProductWithStockDefaultsWhenInventoryMissing(t *testing.T) {
	p := Product{Name: "GPU"}
	p.ID = uuid.New()

	ws := p.WithStock(nil)
	assert.Equal(t, 0, ws.CurrentStock)
	assert.Equal(t, StatusOutOfStock, ws.Status)

	ws = p.WithStock(&InventoryItem{ProductID: p.ID, Quantity: 12, Status: StatusInStock})
	assert.Equal(t, 12, ws.CurrentStock)
	assert.Equal(t, StatusInStock, ws.Status)
}

func TestUserPassword(t *testing.T) {
	u := &User{}
	assert.NoError(t, u.SetPassword("hunter22!"))
	assert.NotEqual(t, "hunter22!", u.Password)
	assert.True(t, u.CheckPassword("hunter22!"))
	assert.False(t, u.CheckPassword("hunter23!"))
}

func TestRoleValid(t *testing.T) {
	assert.True(t, RoleSuperadmin.Valid())
	assert.True(t, RoleIntern.Valid())
	assert.False(t, Role("MASTER_ADMIN").Valid())
}
