package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/elegantjewellery/jewellery-api/internal/dto"
	"github.com/elegantjewellery/jewellery-api/internal/model"
	"github.com/elegantjewellery/jewellery-api/internal/service"
)

type AuthHandler struct {
	authService *service.AuthService
}

func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse("Validation failed", err.Error()))
		return
	}

	resp, err := h.authService.Register(c.Request.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEmailExists):
			c.JSON(http.StatusBadRequest, dto.ErrorResponse("Email already exists"))
		case errors.Is(err, service.ErrInvalidRole):
			c.JSON(http.StatusBadRequest, dto.ErrorResponse("Invalid role",
				fmt.Sprintf("Valid roles are: %s", strings.Join(model.ValidRoles, ", "))))
		default:
			c.JSON(http.StatusInternalServerError, dto.ErrorResponse("Registration failed", err.Error()))
		}
		return
	}

	c.JSON(http.StatusOK, dto.SuccessResponse(resp, "Registration successful"))
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse("Validation failed", err.Error()))
		return
	}

	resp, err := h.authService.Login(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			c.JSON(http.StatusUnauthorized, dto.ErrorResponse("Login failed", "Invalid email or password"))
			return
		}
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse("Login failed", err.Error()))
		return
	}

	c.JSON(http.StatusOK, dto.SuccessResponse(resp, "Login successful"))
}

func (h *AuthHandler) CheckEmail(c *gin.Context) {
	email := c.Query("email")
	if email == "" {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse("Email is required"))
		return
	}

	exists, err := h.authService.CheckEmailExists(c.Request.Context(), email)
	if err != nil {
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse("Error checking email", err.Error()))
		return
	}

	c.JSON(http.StatusOK, dto.SuccessResponse(dto.CheckEmailResponse{Exists: exists}, ""))
}
