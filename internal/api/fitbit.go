package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pageza/platewise/backend/internal/service"
)

type FitbitHandler struct {
	fitbitService service.IFitbitService
}

func NewFitbitHandler(fitbitService service.IFitbitService) *FitbitHandler {
	return &FitbitHandler{fitbitService: fitbitService}
}

// RegisterRoutes registers the authenticated routes.
func (h *FitbitHandler) RegisterRoutes(router *gin.RouterGroup) {
	fitbit := router.Group("/fitbit")
	{
		fitbit.POST("/connect", h.Connect)
		fitbit.GET("/status", h.Status)
		fitbit.DELETE("", h.Disconnect)
	}
}

// RegisterCallback registers the OAuth redirect target. Fitbit calls it
// without our bearer token; the state parameter identifies the user.
func (h *FitbitHandler) RegisterCallback(router *gin.RouterGroup) {
	router.GET("/fitbit/callback", h.Callback)
}

func (h *FitbitHandler) Connect(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	url, err := h.fitbitService.Start(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"authorize_url": url})
}

func (h *FitbitHandler) Callback(c *gin.Context) {
	if reason := c.Query("error"); reason != "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "authorization denied: " + reason})
		return
	}
	status, err := h.fitbitService.Callback(c.Request.Context(), c.Query("state"), c.Query("code"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, status)
}

func (h *FitbitHandler) Status(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	status, err := h.fitbitService.Status(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, status)
}

func (h *FitbitHandler) Disconnect(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	if err := h.fitbitService.Disconnect(c.Request.Context(), userID); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
