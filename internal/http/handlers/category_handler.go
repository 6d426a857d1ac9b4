package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/superfix/superfix-backend/internal/dto"
	"github.com/superfix/superfix-backend/internal/http/handlers/common"
	"github.com/superfix/superfix-backend/internal/interface/http/response"
	"github.com/superfix/superfix-backend/internal/service"
)

type CategoryHandler struct {
	categories *service.CategoryService
}

func NewCategoryHandler(categories *service.CategoryService) *CategoryHandler {
	return &CategoryHandler{categories: categories}
}

// List GET /categories
func (h *CategoryHandler) List(c *gin.Context) {
	list, err := h.categories.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, list)
}

// Add POST /categories
func (h *CategoryHandler) Add(c *gin.Context) {
	var req dto.CategoryRequest
	if err := common.BindJSON(c, &req); err != nil {
		response.Error(c, err)
		return
	}
	if err := h.categories.Add(c.Request.Context(), req.Name); err != nil {
		response.Error(c, err)
		return
	}
	h.List(c)
}

// Remove DELETE /categories/:name
func (h *CategoryHandler) Remove(c *gin.Context) {
	if err := h.categories.Remove(c.Request.Context(), c.Param("name")); err != nil {
		response.Error(c, err)
		return
	}
	h.List(c)
}
