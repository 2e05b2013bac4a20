package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/elegantjewellery/jewellery-api/internal/dto"
	"github.com/elegantjewellery/jewellery-api/internal/middleware"
	"github.com/elegantjewellery/jewellery-api/internal/service"
)

type CartHandler struct {
	svc *service.CartService
}

func NewCartHandler(svc *service.CartService) *CartHandler {
	return &CartHandler{svc: svc}
}

func (h *CartHandler) GetCart(c *gin.Context) {
	cart, err := h.svc.GetCart(c.Request.Context(), middleware.GetUserID(c))
	if err != nil {
		if errors.Is(err, service.ErrCartNotFound) {
			c.JSON(http.StatusNotFound, dto.ErrorResponse("Cart not found"))
			return
		}
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse("Error retrieving cart", err.Error()))
		return
	}
	items := make([]dto.CartItemResponse, 0, len(cart.Items))
	for _, item := range cart.Items {
		items = append(items, dto.CartItemResponse{
			ID: item.ID, ProductID: item.ProductID, Quantity: item.Quantity, Price: item.Price,
		})
	}
	c.JSON(http.StatusOK, dto.SuccessResponse(dto.CartResponse{ID: cart.ID, Items: items}, ""))
}

func (h *CartHandler) AddItem(c *gin.Context) {
	var req dto.AddCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse("Validation failed", err.Error()))
		return
	}
	if err := h.svc.AddItem(c.Request.Context(), middleware.GetUserID(c), req.ProductID, req.Quantity); err != nil {
		if errors.Is(err, service.ErrProductNotFound) {
			c.JSON(http.StatusNotFound, dto.ErrorResponse("Product not found"))
			return
		}
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse("Error adding item to cart", err.Error()))
		return
	}
	c.JSON(http.StatusOK, dto.SuccessResponse(nil, "Item added to cart"))
}

func (h *CartHandler) UpdateItem(c *gin.Context) {
	itemID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse("Invalid cart item ID"))
		return
	}
	var req dto.UpdateCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse("Validation failed", err.Error()))
		return
	}
	if err := h.svc.UpdateItem(c.Request.Context(), middleware.GetUserID(c), itemID, req.Quantity); err != nil {
		if errors.Is(err, service.ErrCartItemNotFound) {
			c.JSON(http.StatusNotFound, dto.ErrorResponse("Cart item not found"))
			return
		}
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse("Error updating cart item", err.Error()))
		return
	}
	c.JSON(http.StatusOK, dto.SuccessResponse(nil, "Cart item updated"))
}

func (h *CartHandler) DeleteItem(c *gin.Context) {
	itemID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse("Invalid cart item ID"))
		return
	}
	if err := h.svc.DeleteItem(c.Request.Context(), middleware.GetUserID(c), itemID); err != nil {
		if errors.Is(err, service.ErrCartItemNotFound) {
			c.JSON(http.StatusNotFound, dto.ErrorResponse("Cart item not found"))
			return
		}
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse("Error removing cart item", err.Error()))
		return
	}
	c.JSON(http.StatusOK, dto.SuccessResponse(nil, "Cart item removed"))
}

func (h *CartHandler) ClearCart(c *gin.Context) {
	if err := h.svc.ClearCart(c.Request.Context(), middleware.GetUserID(c)); err != nil {
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse("Error clearing cart", err.Error()))
		return
	}
	c.JSON(http.StatusOK, dto.SuccessResponse(nil, "Cart cleared"))
}
