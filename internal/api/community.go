package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pageza/platewise/backend/internal/service"
	"github.com/pageza/platewise/backend/internal/types"
)

type CommunityHandler struct {
	communityService service.ICommunityService
}

func NewCommunityHandler(communityService service.ICommunityService) *CommunityHandler {
	return &CommunityHandler{communityService: communityService}
}

func (h *CommunityHandler) RegisterRoutes(router *gin.RouterGroup) {
	community := router.Group("/community")
	{
		community.GET("/feed", h.Feed)
		community.POST("/shares", h.Share)
		community.GET("/shares/:id", h.GetShared)
		community.DELETE("/shares/:id", h.Unshare)
		community.PUT("/shares/:id/rating", h.Rate)
		community.GET("/shares/:id/comments", h.Comments)
		community.POST("/shares/:id/comments", h.AddComment)
	}
}

func (h *CommunityHandler) Feed(c *gin.Context) {
	shared, err := h.communityService.Feed(c.Request.Context(), queryInt(c, "limit", 20), queryInt(c, "offset", 0))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"recipes": shared})
}

func (h *CommunityHandler) Share(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	var req types.ShareRecipeRequest
	if !bindJSON(c, &req) {
		return
	}
	shared, err := h.communityService.Share(c.Request.Context(), userID, &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, shared)
}

func (h *CommunityHandler) GetShared(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	shared, err := h.communityService.GetShared(c.Request.Context(), userID, id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, shared)
}

func (h *CommunityHandler) Unshare(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.communityService.Unshare(c.Request.Context(), userID, id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Rate creates or replaces the caller's rating and returns the updated
// average.
func (h *CommunityHandler) Rate(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req types.RateRecipeRequest
	if !bindJSON(c, &req) {
		return
	}
	shared, err := h.communityService.Rate(c.Request.Context(), userID, id, &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, shared)
}

func (h *CommunityHandler) Comments(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	comments, err := h.communityService.Comments(c.Request.Context(), userID, id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"comments": comments})
}

func (h *CommunityHandler) AddComment(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req types.CommentRequest
	if !bindJSON(c, &req) {
		return
	}
	comment, err := h.communityService.AddComment(c.Request.Context(), userID, id, &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, comment)
}
