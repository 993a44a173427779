package handlers

import (
	"crypto/subtle"
	"net/http"

	"blog-cms/helper"
	"blog-cms/models"
	"blog-cms/services"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const adminSignupKeyHeader = "X-Admin-Signup-Key"

type AdminHandler struct {
	authService  services.AuthService
	adminService services.AdminService
	signupKey    string
	Helper       *helper.HTTPHelper
}

// NewAdminHandler builds the admin endpoints. An empty signupKey leaves admin
// signup open.
func NewAdminHandler(authService services.AuthService, adminService services.AdminService, signupKey string, httpHelper *helper.HTTPHelper) *AdminHandler {
	return &AdminHandler{
		authService:  authService,
		adminService: adminService,
		signupKey:    signupKey,
		Helper:       httpHelper,
	}
}

func (h *AdminHandler) Signup(c *gin.Context) {
	if h.signupKey != "" {
		given := c.GetHeader(adminSignupKeyHeader)
		if subtle.ConstantTimeCompare([]byte(given), []byte(h.signupKey)) != 1 {
			h.Helper.SendForbiddenError(c, "Access denied")
			return
		}
	}

	var req models.SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.Helper.SendBindError(c, err)
		return
	}

	user, err := h.authService.SignupAdmin(c.Request.Context(), req)
	if err != nil {
		h.Helper.SendError(c, err)
		return
	}

	h.Helper.SendSuccess(c, http.StatusCreated, models.SignupResponse{
		Message: "Admin created successfully",
		ID:      user.ID,
		Name:    user.Name,
		Email:   user.Email,
		Role:    user.Role,
	})
}

func (h *AdminHandler) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.Helper.SendBindError(c, err)
		return
	}

	response, err := h.authService.AdminLogin(c.Request.Context(), req)
	if err != nil {
		h.Helper.SendError(c, err)
		return
	}

	h.Helper.SendSuccess(c, http.StatusOK, response)
}

func (h *AdminHandler) ApproveUser(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.Helper.SendBadRequest(c, "Invalid user id")
		return
	}

	var req models.ApproveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.Helper.SendBindError(c, err)
		return
	}

	user, err := h.adminService.ApproveUser(c.Request.Context(), id, *req.Approved)
	if err != nil {
		h.Helper.SendError(c, err)
		return
	}

	message := "User approved as author"
	if !*req.Approved {
		message = "User rejected"
	}
	h.Helper.SendSuccess(c, http.StatusOK, gin.H{
		"message": message,
		"user":    user.View(),
	})
}

func (h *AdminHandler) ListPending(c *gin.Context) {
	users, err := h.adminService.ListPending(c.Request.Context())
	if err != nil {
		h.Helper.SendError(c, err)
		return
	}

	views := make([]models.UserView, 0, len(users))
	for i := range users {
		views = append(views, users[i].View())
	}
	h.Helper.SendSuccess(c, http.StatusOK, views)
}
