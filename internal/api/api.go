// Package api exposes the services over HTTP with gin.
package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/pageza/platewise/backend/internal/middleware"
	"github.com/pageza/platewise/backend/internal/service"
)

// Services holds everything the handlers call into.
type Services struct {
	Auth           service.IAuthService
	Profile        service.IProfileService
	Food           service.IFoodService
	Recipe         service.IRecipeService
	Meal           service.IMealService
	Plan           service.IPlanService
	Schedule       service.IScheduleService
	Shopping       service.IShoppingService
	Achievement    service.IAchievementService
	Community      service.ICommunityService
	ReadyMeal      service.IReadyMealService
	Identify       service.IIdentifyService
	Photo          service.IPhotoService
	Recommendation service.IRecommendationService
	Fitbit         service.IFitbitService
}

// Limiters are the per-user rate limiters of the expensive routes. Nil
// entries disable limiting.
type Limiters struct {
	Identify       *middleware.RateLimiter
	Recommendation *middleware.RateLimiter
}

// RegisterRoutes registers /health and every /api/v1 route.
func RegisterRoutes(router *gin.Engine, db *gorm.DB, redisClient *redis.Client, svc Services, limiters Limiters) {
	NewHealthHandler(db, redisClient).RegisterRoutes(router)

	v1 := router.Group("/api/v1")

	fitbitHandler := NewFitbitHandler(svc.Fitbit)
	NewAuthHandler(svc.Auth).RegisterRoutes(v1)
	fitbitHandler.RegisterCallback(v1)

	protected := v1.Group("")
	protected.Use(middleware.AuthMiddleware(svc.Auth))

	NewProfileHandler(svc.Profile).RegisterRoutes(protected)
	NewFoodHandler(svc.Food).RegisterRoutes(protected)
	NewRecipeHandler(svc.Recipe).RegisterRoutes(protected)
	NewMealHandler(svc.Meal).RegisterRoutes(protected)
	NewPlanHandler(svc.Plan).RegisterRoutes(protected)
	NewScheduleHandler(svc.Schedule).RegisterRoutes(protected)
	NewShoppingHandler(svc.Shopping).RegisterRoutes(protected)
	NewAchievementHandler(svc.Achievement).RegisterRoutes(protected)
	NewCommunityHandler(svc.Community).RegisterRoutes(protected)
	NewReadyMealHandler(svc.ReadyMeal).RegisterRoutes(protected)
	NewIdentifyHandler(svc.Identify, limiters.Identify).RegisterRoutes(protected)
	NewPhotoHandler(svc.Photo).RegisterRoutes(protected)
	NewRecommendationHandler(svc.Recommendation, limiters.Recommendation).RegisterRoutes(protected)
	fitbitHandler.RegisterRoutes(protected)

	registerRateLimitRoutes(protected, limiters)
}

// registerRateLimitRoutes lets clients see their remaining budget without
// spending a request.
func registerRateLimitRoutes(router *gin.RouterGroup, limiters Limiters) {
	named := map[string]*middleware.RateLimiter{
		"identify":        limiters.Identify,
		"recommendations": limiters.Recommendation,
	}

	router.GET("/rate-limits", func(c *gin.Context) {
		userID, ok := currentUser(c)
		if !ok {
			return
		}

		out := gin.H{}
		for name, rl := range named {
			if rl == nil {
				continue
			}
			remaining, resetTime, err := rl.GetRemainingRequests(c.Request.Context(), userID.String())
			if err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to check rate limit"})
				return
			}
			cfg := rl.Config()
			out[name] = gin.H{
				"limit":      cfg.Limit,
				"remaining":  remaining,
				"reset_time": resetTime.Unix(),
				"window":     cfg.Window.String(),
			}
		}
		c.JSON(http.StatusOK, out)
	})
}
