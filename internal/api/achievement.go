package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pageza/platewise/backend/internal/service"
)

type AchievementHandler struct {
	achievementService service.IAchievementService
}

func NewAchievementHandler(achievementService service.IAchievementService) *AchievementHandler {
	return &AchievementHandler{achievementService: achievementService}
}

func (h *AchievementHandler) RegisterRoutes(router *gin.RouterGroup) {
	achievements := router.Group("/achievements")
	{
		achievements.GET("", h.Definitions)
		achievements.GET("/progress", h.Progress)
		achievements.GET("/earned", h.Earned)
		achievements.POST("/evaluate", h.Evaluate)
	}
}

func (h *AchievementHandler) Definitions(c *gin.Context) {
	defs, err := h.achievementService.Definitions(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"achievements": defs})
}

func (h *AchievementHandler) Progress(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	report, err := h.achievementService.Progress(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

func (h *AchievementHandler) Earned(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	earned, err := h.achievementService.Earned(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"achievements": earned})
}

// Evaluate awards every achievement the user now qualifies for.
func (h *AchievementHandler) Evaluate(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	report, err := h.achievementService.Evaluate(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}
