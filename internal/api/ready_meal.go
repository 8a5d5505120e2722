package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pageza/platewise/backend/internal/service"
	"github.com/pageza/platewise/backend/internal/types"
)

type ReadyMealHandler struct {
	readyMealService service.IReadyMealService
}

func NewReadyMealHandler(readyMealService service.IReadyMealService) *ReadyMealHandler {
	return &ReadyMealHandler{readyMealService: readyMealService}
}

func (h *ReadyMealHandler) RegisterRoutes(router *gin.RouterGroup) {
	meals := router.Group("/ready-meals")
	{
		meals.GET("", h.List)
		meals.POST("", h.Create)
		meals.GET("/low-stock", h.LowStock)
		meals.GET("/:id", h.Get)
		meals.PUT("/:id", h.Update)
		meals.DELETE("/:id", h.Delete)
		meals.POST("/:id/stock", h.AdjustStock)
	}
}

func (h *ReadyMealHandler) List(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	meals, err := h.readyMealService.List(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ready_meals": meals})
}

func (h *ReadyMealHandler) LowStock(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	meals, err := h.readyMealService.LowStock(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ready_meals": meals})
}

func (h *ReadyMealHandler) Create(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	var req types.ReadyMealRequest
	if !bindJSON(c, &req) {
		return
	}
	meal, err := h.readyMealService.Create(c.Request.Context(), userID, &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, meal)
}

func (h *ReadyMealHandler) Get(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	meal, err := h.readyMealService.Get(c.Request.Context(), userID, id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, meal)
}

func (h *ReadyMealHandler) Update(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req types.ReadyMealRequest
	if !bindJSON(c, &req) {
		return
	}
	meal, err := h.readyMealService.Update(c.Request.Context(), userID, id, &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, meal)
}

func (h *ReadyMealHandler) Delete(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.readyMealService.Delete(c.Request.Context(), userID, id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// AdjustStock adds delta (negative to consume) to the stock count.
func (h *ReadyMealHandler) AdjustStock(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req types.AdjustStockRequest
	if !bindJSON(c, &req) {
		return
	}
	meal, err := h.readyMealService.AdjustStock(c.Request.Context(), userID, id, req.Delta)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, meal)
}
