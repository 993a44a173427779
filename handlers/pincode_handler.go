package handlers

import (
	"net/http"

	"blog-cms/helper"
	"blog-cms/models"
	"blog-cms/services"

	"github.com/gin-gonic/gin"
)

type PincodeHandler struct {
	pincodeService services.PincodeService
	Helper         *helper.HTTPHelper
}

func NewPincodeHandler(pincodeService services.PincodeService, httpHelper *helper.HTTPHelper) *PincodeHandler {
	return &PincodeHandler{pincodeService: pincodeService, Helper: httpHelper}
}

func (h *PincodeHandler) GetPincode(c *gin.Context) {
	p, err := h.pincodeService.Lookup(c.Request.Context(), c.Param("pincode"))
	if err != nil {
		h.Helper.SendError(c, err)
		return
	}

	h.Helper.SendSuccess(c, http.StatusOK, p)
}

func (h *PincodeHandler) SearchPincodes(c *gin.Context) {
	var params models.PincodeSearchParams
	if err := c.ShouldBindQuery(&params); err != nil {
		h.Helper.SendBindError(c, err)
		return
	}

	results, err := h.pincodeService.Search(c.Request.Context(), params)
	if err != nil {
		h.Helper.SendError(c, err)
		return
	}

	h.Helper.SendSuccess(c, http.StatusOK, results)
}
