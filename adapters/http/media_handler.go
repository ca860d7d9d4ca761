package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/kyangwi/portfolio/internal/editor"
	"github.com/kyangwi/portfolio/pkg/apperror"
	"github.com/kyangwi/portfolio/pkg/logger"
)

type MediaHandler struct {
	comp     editor.Compressor
	uploader editor.Uploader
	logger   logger.Logger
}

func NewMediaHandler(comp editor.Compressor, uploader editor.Uploader, log logger.Logger) *MediaHandler {
	return &MediaHandler{
		comp:     comp,
		uploader: uploader,
		logger:   log,
	}
}

// UploadImage compresses a multipart upload into the inline data URI the
// admin UI embeds in its next save. The original is archived best effort.
func (h *MediaHandler) UploadImage(c *gin.Context) {
	fileHeader, err := c.FormFile("image")
	if err != nil {
		c.Error(apperror.NewInvalidInput("image file is required", err))
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.Error(apperror.NewInvalidInput("cannot open upload", err))
		return
	}
	defer file.Close()

	dataURI, err := h.comp.CompressToDataURI(file)
	if err != nil {
		c.Error(apperror.NewInvalidInput("image could not be processed", err))
		return
	}

	if h.uploader != nil {
		archive, err := fileHeader.Open()
		if err == nil {
			defer archive.Close()
			if _, err := h.uploader.Upload(c.Request.Context(), fileHeader.Filename, archive); err != nil {
				h.logger.Warn("archiving original image failed",
					zap.String("filename", fileHeader.Filename), zap.Error(err))
			}
		}
	}

	c.JSON(http.StatusOK, gin.H{"image_base64": dataURI})
}
