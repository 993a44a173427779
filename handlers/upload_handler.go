package handlers

import (
	"errors"
	"net/http"

	"blog-cms/helper"
	"blog-cms/services"

	"github.com/gin-gonic/gin"
)

type UploadHandler struct {
	uploadService services.UploadService
	maxBytes      int64
	Helper        *helper.HTTPHelper
}

func NewUploadHandler(uploadService services.UploadService, maxBytes int64, httpHelper *helper.HTTPHelper) *UploadHandler {
	return &UploadHandler{uploadService: uploadService, maxBytes: maxBytes, Helper: httpHelper}
}

// Upload takes a multipart form with the image in the "file" field.
func (h *UploadHandler) Upload(c *gin.Context) {
	// Room for the multipart envelope on top of the file itself.
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxBytes+1<<20)

	fh, err := c.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			h.Helper.SendBadRequest(c, "File is too large")
			return
		}
		h.Helper.SendBadRequest(c, "No file uploaded")
		return
	}
	if fh.Size > h.maxBytes {
		h.Helper.SendBadRequest(c, "File is too large")
		return
	}

	f, err := fh.Open()
	if err != nil {
		h.Helper.SendBadRequest(c, "Could not read uploaded file")
		return
	}
	defer f.Close()

	res, err := h.uploadService.Upload(c.Request.Context(), fh.Filename, f)
	if err != nil {
		h.Helper.SendError(c, err)
		return
	}

	h.Helper.SendSuccess(c, http.StatusOK, res)
}
