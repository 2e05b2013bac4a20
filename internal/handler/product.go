package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/elegantjewellery/jewellery-api/internal/dto"
	"github.com/elegantjewellery/jewellery-api/internal/service"
)

type ProductHandler struct {
	productService *service.ProductService
}

func NewProductHandler(productService *service.ProductService) *ProductHandler {
	return &ProductHandler{productService: productService}
}

func (h *ProductHandler) Create(c *gin.Context) {
	var req dto.CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse("Validation failed", err.Error()))
		return
	}

	resp, err := h.productService.Create(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, service.ErrCategoryNotFound) {
			c.JSON(http.StatusBadRequest, dto.ErrorResponse("Category not found"))
			return
		}
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse("Error creating product", err.Error()))
		return
	}

	c.JSON(http.StatusOK, dto.SuccessResponse(resp, "Product created successfully"))
}

func (h *ProductHandler) GetByID(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse("Invalid product ID"))
		return
	}

	resp, err := h.productService.GetByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrProductNotFound) {
			c.JSON(http.StatusNotFound, dto.ErrorResponse("Product not found"))
			return
		}
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse("Error retrieving product", err.Error()))
		return
	}

	c.JSON(http.StatusOK, dto.SuccessResponse(resp, ""))
}

func (h *ProductHandler) List(c *gin.Context) {
	var req dto.ListProductsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse("Validation failed", err.Error()))
		return
	}

	resp, err := h.productService.List(c.Request.Context(), req)
	if err != nil {
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse("Error retrieving products", err.Error()))
		return
	}

	c.JSON(http.StatusOK, dto.SuccessResponse(resp, ""))
}

func (h *ProductHandler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse("Invalid product ID"))
		return
	}

	var req dto.UpdateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse("Validation failed", err.Error()))
		return
	}

	resp, err := h.productService.Update(c.Request.Context(), id, req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrProductNotFound):
			c.JSON(http.StatusNotFound, dto.ErrorResponse("Product not found"))
		case errors.Is(err, service.ErrCategoryNotFound):
			c.JSON(http.StatusBadRequest, dto.ErrorResponse("Category not found"))
		default:
			c.JSON(http.StatusInternalServerError, dto.ErrorResponse("Error updating product", err.Error()))
		}
		return
	}

	c.JSON(http.StatusOK, dto.SuccessResponse(resp, "Product updated successfully"))
}

func (h *ProductHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse("Invalid product ID"))
		return
	}

	if err := h.productService.Delete(c.Request.Context(), id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			c.JSON(http.StatusNotFound, dto.ErrorResponse("Product not found"))
			return
		}
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse("Error deleting product", err.Error()))
		return
	}

	c.JSON(http.StatusOK, dto.SuccessResponse(nil, "Product deleted successfully"))
}

func (h *ProductHandler) AdjustStock(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse("Invalid product ID"))
		return
	}

	var req dto.AdjustStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse("Validation failed", err.Error()))
		return
	}

	resp, err := h.productService.AdjustStock(c.Request.Context(), id, req.Delta)
	if err != nil {
		if errors.Is(err, service.ErrProductNotFound) {
			c.JSON(http.StatusNotFound, dto.ErrorResponse("Product not found"))
			return
		}
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse("Error updating stock", err.Error()))
		return
	}

	c.JSON(http.StatusOK, dto.SuccessResponse(resp, "Stock updated successfully"))
}
