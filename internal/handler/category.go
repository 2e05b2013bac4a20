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

type CategoryHandler struct {
	categoryService *service.CategoryService
}

func NewCategoryHandler(categoryService *service.CategoryService) *CategoryHandler {
	return &CategoryHandler{categoryService: categoryService}
}

func (h *CategoryHandler) Create(c *gin.Context) {
	var req dto.CategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse("Validation failed", err.Error()))
		return
	}

	resp, err := h.categoryService.Create(c.Request.Context(), req)
	if err != nil {
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse("Error creating category", err.Error()))
		return
	}

	c.JSON(http.StatusOK, dto.SuccessResponse(resp, "Category created successfully"))
}

func (h *CategoryHandler) GetByID(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse("Invalid category ID"))
		return
	}

	resp, err := h.categoryService.GetByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrCategoryNotFound) {
			c.JSON(http.StatusNotFound, dto.ErrorResponse("Category not found"))
			return
		}
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse("Error retrieving category", err.Error()))
		return
	}

	c.JSON(http.StatusOK, dto.SuccessResponse(resp, ""))
}

func (h *CategoryHandler) List(c *gin.Context) {
	resp, err := h.categoryService.List(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse("Error retrieving categories", err.Error()))
		return
	}

	c.JSON(http.StatusOK, dto.SuccessResponse(resp, ""))
}

func (h *CategoryHandler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse("Invalid category ID"))
		return
	}

	var req dto.CategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse("Validation failed", err.Error()))
		return
	}

	resp, err := h.categoryService.Update(c.Request.Context(), id, req)
	if err != nil {
		if errors.Is(err, service.ErrCategoryNotFound) {
			c.JSON(http.StatusNotFound, dto.ErrorResponse("Category not found"))
			return
		}
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse("Error updating category", err.Error()))
		return
	}

	c.JSON(http.StatusOK, dto.SuccessResponse(resp, "Category updated successfully"))
}

func (h *CategoryHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse("Invalid category ID"))
		return
	}

	if err := h.categoryService.Delete(c.Request.Context(), id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			c.JSON(http.StatusNotFound, dto.ErrorResponse("Category not found"))
			return
		}
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse("Error deleting category", err.Error()))
		return
	}

	c.JSON(http.StatusOK, dto.SuccessResponse(nil, "Category deleted successfully"))
}
