package api

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/pageza/platewise/backend/internal/middleware"
	"github.com/pageza/platewise/backend/internal/service"
	"github.com/pageza/platewise/backend/internal/types"
	"github.com/pageza/platewise/backend/internal/vision"
)

type IdentifyHandler struct {
	identifyService service.IIdentifyService
	limiter         *middleware.RateLimiter
}

// NewIdentifyHandler builds the handler. A nil limiter disables rate limiting.
func NewIdentifyHandler(identifyService service.IIdentifyService, limiter *middleware.RateLimiter) *IdentifyHandler {
	return &IdentifyHandler{identifyService: identifyService, limiter: limiter}
}

func (h *IdentifyHandler) RegisterRoutes(router *gin.RouterGroup) {
	identify := router.Group("/identify")
	if h.limiter != nil {
		identify.Use(h.limiter.RateLimitMiddleware())
	}
	{
		identify.POST("/photo", h.Photo)
		identify.POST("/barcode", h.Barcode)
	}
}

// Photo accepts either a multipart "photo" file with an optional "hint" field,
// or JSON {"image_url": ..., "hint": ...}.
func (h *IdentifyHandler) Photo(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	var img vision.Image
	var hint string
	if strings.HasPrefix(c.ContentType(), "multipart/") {
		data, contentType, err := readImage(c, "photo")
		if err != nil {
			respondError(c, err)
			return
		}
		img = vision.Image{Data: data, MIMEType: contentType}
		hint = c.PostForm("hint")
	} else {
		var req types.IdentifyPhotoRequest
		if !bindJSON(c, &req) {
			return
		}
		img = vision.Image{URL: req.ImageURL}
		hint = req.Hint
	}

	result, err := h.identifyService.IdentifyPhoto(c.Request.Context(), userID, img, hint)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// Barcode resolves a typed-in barcode to a food item.
func (h *IdentifyHandler) Barcode(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	var req types.BarcodeRequest
	if !bindJSON(c, &req) {
		return
	}
	item, err := h.identifyService.LookupBarcode(c.Request.Context(), userID, req.Code)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, item)
}
