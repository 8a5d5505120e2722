package api

import (
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pageza/platewise/backend/internal/service"
)

// readImage reads the named multipart file, refusing anything above
// service.MaxPhotoBytes.
func readImage(c *gin.Context, field string) ([]byte, string, error) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, service.MaxPhotoBytes+1<<20)

	fh, err := c.FormFile(field)
	if err != nil {
		return nil, "", fmt.Errorf("%w: %s file is required", service.ErrInvalidInput, field)
	}
	if fh.Size > service.MaxPhotoBytes {
		return nil, "", fmt.Errorf("%w: photo larger than %d bytes", service.ErrInvalidInput, service.MaxPhotoBytes)
	}

	f, err := fh.Open()
	if err != nil {
		return nil, "", fmt.Errorf("failed to open upload: %w", err)
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, service.MaxPhotoBytes+1))
	if err != nil {
		return nil, "", fmt.Errorf("failed to read upload: %w", err)
	}

	contentType := fh.Header.Get("Content-Type")
	if contentType == "" || contentType == "application/octet-stream" {
		contentType = http.DetectContentType(data)
	}
	return data, contentType, nil
}
