package handler

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/elegantjewellery/jewellery-api/internal/dto"
	"github.com/elegantjewellery/jewellery-api/internal/middleware"
	"github.com/elegantjewellery/jewellery-api/internal/model"
	"github.com/elegantjewellery/jewellery-api/internal/service"
)

type OrderHandler struct {
	orderService *service.OrderService
}

func NewOrderHandler(orderService *service.OrderService) *OrderHandler {
	return &OrderHandler{orderService: orderService}
}

func (h *OrderHandler) Checkout(c *gin.Context) {
	userID := middleware.GetUserID(c)

	order, err := h.orderService.Checkout(c.Request.Context(), userID)
	if err != nil {
		var stockErr *service.InsufficientStockError
		switch {
		case errors.Is(err, service.ErrEmptyCart):
			c.JSON(http.StatusBadRequest, dto.ErrorResponse("Cart is empty"))
		case errors.As(err, &stockErr):
			c.JSON(http.StatusBadRequest, dto.ErrorResponse(stockErr.Error(),
				fmt.Sprintf("Only %d items available", stockErr.Available)))
		case errors.Is(err, service.ErrStockDepleted):
			c.JSON(http.StatusBadRequest, dto.ErrorResponse("Insufficient stock"))
		case errors.Is(err, service.ErrProductNotFound):
			c.JSON(http.StatusBadRequest, dto.ErrorResponse("Product not found", err.Error()))
		default:
			c.JSON(http.StatusInternalServerError, dto.ErrorResponse("Error creating order", err.Error()))
		}
		return
	}

	c.JSON(http.StatusOK, dto.SuccessResponse(toOrderResponse(order), "Order created successfully"))
}

func (h *OrderHandler) ListOrders(c *gin.Context) {
	userID := middleware.GetUserID(c)

	orders, err := h.orderService.ListByUserID(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse("Error retrieving orders", err.Error()))
		return
	}

	c.JSON(http.StatusOK, dto.SuccessResponse(toOrderListResponse(orders), ""))
}

func (h *OrderHandler) ListAllOrders(c *gin.Context) {
	orders, err := h.orderService.ListAll(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse("Error retrieving orders", err.Error()))
		return
	}

	c.JSON(http.StatusOK, dto.SuccessResponse(toOrderListResponse(orders), ""))
}

func (h *OrderHandler) GetOrder(c *gin.Context) {
	userID := middleware.GetUserID(c)

	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse("Invalid order ID"))
		return
	}

	order, err := h.orderService.GetByID(c.Request.Context(), orderID, userID)
	if err != nil {
		if errors.Is(err, service.ErrOrderNotFound) {
			c.JSON(http.StatusNotFound, dto.ErrorResponse("Order not found"))
			return
		}
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse("Error retrieving order", err.Error()))
		return
	}

	c.JSON(http.StatusOK, dto.SuccessResponse(toOrderResponse(order), ""))
}

func (h *OrderHandler) UpdateStatus(c *gin.Context) {
	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse("Invalid order ID"))
		return
	}

	var req dto.UpdateOrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse("Validation failed", err.Error()))
		return
	}

	order, err := h.orderService.UpdateStatus(c.Request.Context(), orderID, req.Status)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidStatus):
			c.JSON(http.StatusBadRequest, dto.ErrorResponse("Invalid order status",
				fmt.Sprintf("Valid statuses are: %s", validStatusList())))
		case errors.Is(err, service.ErrOrderNotFound):
			c.JSON(http.StatusNotFound, dto.ErrorResponse("Order not found"))
		default:
			c.JSON(http.StatusInternalServerError, dto.ErrorResponse("Error updating order status", err.Error()))
		}
		return
	}

	c.JSON(http.StatusOK, dto.SuccessResponse(toOrderResponse(order), "Order status updated successfully"))
}

func validStatusList() string {
	out := ""
	for i, s := range model.ValidOrderStatuses {
		if i > 0 {
			out += ", "
		}
		out += string(s)
	}
	return out
}

func toOrderResponse(order *model.Order) dto.OrderResponse {
	items := make([]dto.OrderItemResponse, 0, len(order.Items))
	for _, item := range order.Items {
		items = append(items, dto.OrderItemResponse{
			ID:          item.ID,
			ProductID:   item.ProductID,
			ProductName: item.ProductName,
			Quantity:    item.Quantity,
			UnitPrice:   item.Price,
			Subtotal:    item.Price.Mul(decimal.NewFromInt(int64(item.Quantity))),
		})
	}
	return dto.OrderResponse{
		ID:          order.ID,
		UserID:      order.UserID,
		OrderDate:   order.CreatedAt,
		Status:      order.Status,
		TotalAmount: order.TotalAmount,
		Items:       items,
		UserName:    order.UserName,
	}
}

func toOrderListResponse(orders []model.Order) dto.OrderListResponse {
	items := make([]dto.OrderResponse, 0, len(orders))
	for i := range orders {
		items = append(items, toOrderResponse(&orders[i]))
	}
	return dto.OrderListResponse{Orders: items, Total: len(items)}
}
