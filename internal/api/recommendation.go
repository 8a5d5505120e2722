package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pageza/platewise/backend/internal/middleware"
	"github.com/pageza/platewise/backend/internal/service"
)

type RecommendationHandler struct {
	recommendationService service.IRecommendationService
	limiter               *middleware.RateLimiter
}

// NewRecommendationHandler builds the handler. A nil limiter disables rate
// limiting.
func NewRecommendationHandler(recommendationService service.IRecommendationService, limiter *middleware.RateLimiter) *RecommendationHandler {
	return &RecommendationHandler{recommendationService: recommendationService, limiter: limiter}
}

func (h *RecommendationHandler) RegisterRoutes(router *gin.RouterGroup) {
	handlers := []gin.HandlerFunc{h.Suggest}
	if h.limiter != nil {
		handlers = append([]gin.HandlerFunc{h.limiter.RateLimitMiddleware()}, handlers...)
	}
	router.GET("/recommendations", handlers...)
}

func (h *RecommendationHandler) Suggest(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	recs, err := h.recommendationService.Suggest(c.Request.Context(), userID, day(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, recs)
}
