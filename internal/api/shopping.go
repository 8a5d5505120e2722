package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pageza/platewise/backend/internal/service"
	"github.com/pageza/platewise/backend/internal/types"
)

type ShoppingHandler struct {
	shoppingService service.IShoppingService
}

func NewShoppingHandler(shoppingService service.IShoppingService) *ShoppingHandler {
	return &ShoppingHandler{shoppingService: shoppingService}
}

func (h *ShoppingHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/shopping-categories", h.ListCategories)

	lists := router.Group("/shopping-lists")
	{
		lists.GET("", h.ListLists)
		lists.POST("", h.CreateList)
		lists.GET("/:id", h.GetList)
		lists.DELETE("/:id", h.DeleteList)
		lists.POST("/:id/items", h.AddItem)
		lists.POST("/:id/items/:itemId/toggle", h.TogglePurchased)
		lists.PUT("/:id/items/:itemId/cost", h.UpdateCost)
		lists.DELETE("/:id/items/:itemId", h.DeleteItem)
	}
}

func (h *ShoppingHandler) ListCategories(c *gin.Context) {
	cats, err := h.shoppingService.ListCategories(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"categories": cats})
}

func (h *ShoppingHandler) ListLists(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	lists, err := h.shoppingService.ListLists(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"shopping_lists": lists})
}

func (h *ShoppingHandler) CreateList(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	var req types.ShoppingListRequest
	if !bindJSON(c, &req) {
		return
	}
	list, err := h.shoppingService.CreateList(c.Request.Context(), userID, &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, list)
}

// GetList returns the list with items grouped by category and the total cost.
func (h *ShoppingHandler) GetList(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	view, err := h.shoppingService.GetList(c.Request.Context(), userID, id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

func (h *ShoppingHandler) DeleteList(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.shoppingService.DeleteList(c.Request.Context(), userID, id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *ShoppingHandler) AddItem(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	listID, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req types.ShoppingItemRequest
	if !bindJSON(c, &req) {
		return
	}
	item, err := h.shoppingService.AddItem(c.Request.Context(), userID, listID, &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, item)
}

func (h *ShoppingHandler) TogglePurchased(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	listID, ok := pathID(c, "id")
	if !ok {
		return
	}
	itemID, ok := pathID(c, "itemId")
	if !ok {
		return
	}
	item, err := h.shoppingService.TogglePurchased(c.Request.Context(), userID, listID, itemID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

func (h *ShoppingHandler) UpdateCost(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	listID, ok := pathID(c, "id")
	if !ok {
		return
	}
	itemID, ok := pathID(c, "itemId")
	if !ok {
		return
	}
	var req types.UpdateCostRequest
	if !bindJSON(c, &req) {
		return
	}
	item, err := h.shoppingService.UpdateCost(c.Request.Context(), userID, listID, itemID, &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

func (h *ShoppingHandler) DeleteItem(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	listID, ok := pathID(c, "id")
	if !ok {
		return
	}
	itemID, ok := pathID(c, "itemId")
	if !ok {
		return
	}
	if err := h.shoppingService.DeleteItem(c.Request.Context(), userID, listID, itemID); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
