package handlers

import (
	"net/http"

	"blog-cms/helper"
	"blog-cms/middleware"
	"blog-cms/models"
	"blog-cms/services"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type BlogHandler struct {
	blogService services.BlogService
	Helper      *helper.HTTPHelper
}

func NewBlogHandler(blogService services.BlogService, httpHelper *helper.HTTPHelper) *BlogHandler {
	return &BlogHandler{blogService: blogService, Helper: httpHelper}
}

func (h *BlogHandler) CreateBlog(c *gin.Context) {
	author, ok := middleware.CurrentUser(c)
	if !ok {
		h.Helper.SendUnauthorizedError(c, "Token is missing")
		return
	}

	var req models.CreateBlogRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.Helper.SendBindError(c, err)
		return
	}

	blog, err := h.blogService.CreateBlog(c.Request.Context(), author, req)
	if err != nil {
		h.Helper.SendError(c, err)
		return
	}

	h.Helper.SendSuccess(c, http.StatusCreated, blog.View())
}

func (h *BlogHandler) GetBlogs(c *gin.Context) {
	var params models.BlogListParams
	if err := c.ShouldBindQuery(&params); err != nil {
		h.Helper.SendBindError(c, err)
		return
	}

	res, err := h.blogService.GetBlogs(c.Request.Context(), params)
	if err != nil {
		h.Helper.SendError(c, err)
		return
	}

	res.Links = h.Helper.GeneratePaging(c, res.Page, params.Limit, res.Pages)
	h.Helper.SendSuccess(c, http.StatusOK, res)
}

// GetBlog accepts either the blog id or its slug.
func (h *BlogHandler) GetBlog(c *gin.Context) {
	blog, err := h.blogService.GetBlog(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.Helper.SendError(c, err)
		return
	}

	h.Helper.SendSuccess(c, http.StatusOK, blog.View())
}

func (h *BlogHandler) UpdateVisibility(c *gin.Context) {
	id, ok := h.blogID(c)
	if !ok {
		return
	}

	var req models.UpdateVisibilityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.Helper.SendBindError(c, err)
		return
	}

	blog, err := h.blogService.UpdateVisibility(c.Request.Context(), id, *req.Visibility)
	if err != nil {
		h.Helper.SendError(c, err)
		return
	}

	h.Helper.SendSuccess(c, http.StatusOK, blog.View())
}

func (h *BlogHandler) LikeBlog(c *gin.Context) {
	id, ok := h.blogID(c)
	if !ok {
		return
	}

	blog, err := h.blogService.LikeBlog(c.Request.Context(), id)
	if err != nil {
		h.Helper.SendError(c, err)
		return
	}

	h.Helper.SendSuccess(c, http.StatusOK, blog.View())
}

func (h *BlogHandler) blogID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.Helper.SendBadRequest(c, "Invalid blog id")
		return uuid.Nil, false
	}
	return id, true
}
