package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/pageza/platewise/backend/internal/service"
)

type PhotoHandler struct {
	photoService service.IPhotoService
}

func NewPhotoHandler(photoService service.IPhotoService) *PhotoHandler {
	return &PhotoHandler{photoService: photoService}
}

func (h *PhotoHandler) RegisterRoutes(router *gin.RouterGroup) {
	photos := router.Group("/photos")
	{
		photos.GET("", h.List)
		photos.POST("", h.Upload)
		photos.GET("/:id", h.Get)
		photos.DELETE("/:id", h.Delete)
		photos.POST("/:id/analyze", h.Analyze)
	}
}

// Upload stores a multipart "photo" with optional "description" and
// "meal_id" fields.
func (h *PhotoHandler) Upload(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	data, contentType, err := readImage(c, "photo")
	if err != nil {
		respondError(c, err)
		return
	}

	up := &service.PhotoUpload{
		Data:        data,
		ContentType: contentType,
		Description: c.PostForm("description"),
	}
	if raw := c.PostForm("meal_id"); raw != "" {
		mealID, err := uuid.Parse(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid meal_id"})
			return
		}
		up.MealID = &mealID
	}

	photo, err := h.photoService.Upload(c.Request.Context(), userID, up)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, photo)
}

func (h *PhotoHandler) List(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	photos, err := h.photoService.List(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"photos": photos})
}

func (h *PhotoHandler) Get(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	photo, err := h.photoService.Get(c.Request.Context(), userID, id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, photo)
}

func (h *PhotoHandler) Delete(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.photoService.Delete(c.Request.Context(), userID, id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Analyze estimates the photo's nutrition. With ?log=true the estimate is
// also written as a nutrition log.
func (h *PhotoHandler) Analyze(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	logNutrition, _ := strconv.ParseBool(c.Query("log"))

	analysis, err := h.photoService.Analyze(c.Request.Context(), userID, id, logNutrition)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, analysis)
}
