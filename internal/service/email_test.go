package service

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/elegantjewellery/jewellery-api/internal/model"
)

func TestWelcomeMessage(t *testing.T) {
	subject, body := WelcomeMessage("Alice")
	assert.Equal(t, "Welcome to Elegant Jewellery!", subject)
	assert.Contains(t, body, "Welcome to Elegant Jewellery, Alice!")
}

func TestOrderConfirmationMessage(t *testing.T) {
	order := &model.Order{
		ID:          uuid.New(),
		Status:      model.OrderStatusPending,
		TotalAmount: decimal.NewFromInt(250),
	}
	subject, body := OrderConfirmationMessage("Bob", order)
	assert.Contains(t, subject, order.ID.String())
	assert.Contains(t, body, "Thank you for your order, Bob!")
	assert.Contains(t, body, string(model.OrderStatusPending))
}

func TestOrderStatusUpdateMessage(t *testing.T) {
	order := &model.Order{ID: uuid.New(), Status: model.OrderStatusShipped}
	subject, body := OrderStatusUpdateMessage("Carol", order)
	assert.Contains(t, subject, order.ID.String())
	assert.Contains(t, body, "Shipped")
}
