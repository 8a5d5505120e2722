package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pageza/platewise/backend/internal/service"
	"github.com/pageza/platewise/backend/internal/types"
)

type FoodHandler struct {
	foodService service.IFoodService
}

func NewFoodHandler(foodService service.IFoodService) *FoodHandler {
	return &FoodHandler{foodService: foodService}
}

func (h *FoodHandler) RegisterRoutes(router *gin.RouterGroup) {
	foods := router.Group("/foods")
	{
		foods.GET("", h.Search)
		foods.POST("", h.Create)
		foods.GET("/products", h.SearchProducts)
		foods.GET("/barcode/:code", h.LookupBarcode)
		foods.GET("/:id", h.Get)
		foods.PUT("/:id", h.Update)
		foods.DELETE("/:id", h.Delete)
	}
}

func (h *FoodHandler) Search(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	items, err := h.foodService.Search(c.Request.Context(), userID, c.Query("q"), queryInt(c, "limit", 20))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"foods": items})
}

func (h *FoodHandler) SearchProducts(c *gin.Context) {
	products, err := h.foodService.SearchProducts(c.Request.Context(), c.Query("q"), queryInt(c, "limit", 20))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"products": products})
}

func (h *FoodHandler) LookupBarcode(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	item, err := h.foodService.LookupBarcode(c.Request.Context(), userID, c.Param("code"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

func (h *FoodHandler) Create(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	var req types.FoodItemRequest
	if !bindJSON(c, &req) {
		return
	}
	item, err := h.foodService.Create(c.Request.Context(), userID, &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, item)
}

func (h *FoodHandler) Get(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	item, err := h.foodService.Get(c.Request.Context(), userID, id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

func (h *FoodHandler) Update(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req types.FoodItemRequest
	if !bindJSON(c, &req) {
		return
	}
	item, err := h.foodService.Update(c.Request.Context(), userID, id, &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

func (h *FoodHandler) Delete(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.foodService.Delete(c.Request.Context(), userID, id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
