package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pageza/platewise/backend/internal/service"
	"github.com/pageza/platewise/backend/internal/types"
)

// MealHandler serves meals, nutrition logs and the daily nutrition views.
type MealHandler struct {
	mealService service.IMealService
}

func NewMealHandler(mealService service.IMealService) *MealHandler {
	return &MealHandler{mealService: mealService}
}

func (h *MealHandler) RegisterRoutes(router *gin.RouterGroup) {
	meals := router.Group("/meals")
	{
		meals.GET("", h.ListMeals)
		meals.POST("", h.CreateMeal)
		meals.GET("/:id", h.GetMeal)
		meals.PUT("/:id", h.UpdateMeal)
		meals.DELETE("/:id", h.DeleteMeal)
		meals.POST("/:id/log", h.LogMealNutrition)
	}

	logs := router.Group("/nutrition-logs")
	{
		logs.POST("", h.CreateLog)
		logs.GET("/:id", h.GetLog)
		logs.PUT("/:id", h.UpdateLog)
		logs.DELETE("/:id", h.DeleteLog)
	}

	router.GET("/nutrition/daily", h.Daily)
	router.GET("/nutrition/goals", h.Goals)
}

func (h *MealHandler) ListMeals(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	meals, err := h.mealService.ListMeals(c.Request.Context(), userID, c.Query("from"), c.Query("to"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"meals": meals})
}

func (h *MealHandler) CreateMeal(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	var req types.MealRequest
	if !bindJSON(c, &req) {
		return
	}
	meal, err := h.mealService.CreateMeal(c.Request.Context(), userID, &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, meal)
}

func (h *MealHandler) GetMeal(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	meal, err := h.mealService.GetMeal(c.Request.Context(), userID, id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, meal)
}

func (h *MealHandler) UpdateMeal(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req types.MealRequest
	if !bindJSON(c, &req) {
		return
	}
	meal, err := h.mealService.UpdateMeal(c.Request.Context(), userID, id, &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, meal)
}

func (h *MealHandler) DeleteMeal(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.mealService.DeleteMeal(c.Request.Context(), userID, id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// LogMealNutrition writes a nutrition log computed from the meal's recipe or
// food item.
func (h *MealHandler) LogMealNutrition(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	entry, err := h.mealService.LogMealNutrition(c.Request.Context(), userID, id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, entry)
}

func (h *MealHandler) CreateLog(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	var req types.NutritionLogRequest
	if !bindJSON(c, &req) {
		return
	}
	entry, err := h.mealService.CreateNutritionLog(c.Request.Context(), userID, &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, entry)
}

func (h *MealHandler) GetLog(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	entry, err := h.mealService.GetNutritionLog(c.Request.Context(), userID, id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, entry)
}

func (h *MealHandler) UpdateLog(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req types.NutritionLogRequest
	if !bindJSON(c, &req) {
		return
	}
	entry, err := h.mealService.UpdateNutritionLog(c.Request.Context(), userID, id, &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, entry)
}

func (h *MealHandler) DeleteLog(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.mealService.DeleteNutritionLog(c.Request.Context(), userID, id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *MealHandler) Daily(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	daily, err := h.mealService.DailyNutrition(c.Request.Context(), userID, day(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, daily)
}

func (h *MealHandler) Goals(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	report, err := h.mealService.GoalProgress(c.Request.Context(), userID, day(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}
