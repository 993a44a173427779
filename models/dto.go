package models

import "github.com/google/uuid"

// SignupRequest has no role field: the role is decided by the route.
type SignupRequest struct {
	Name     string `json:"name" binding:"required,max=100"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6,max=72"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type AuthResponse struct {
	Message string   `json:"message"`
	Token   string   `json:"token"`
	User    UserView `json:"user"`
}

type SignupResponse struct {
	Message string    `json:"message"`
	ID      uuid.UUID `json:"id"`
	Name    string    `json:"name"`
	Email   string    `json:"email"`
	Role    Role      `json:"role"`
}

type ApproveRequest struct {
	Approved *bool `json:"approved" binding:"required"`
}

type CreateBlogRequest struct {
	Title       string            `json:"title" binding:"required,max=255"`
	CoverImage  string            `json:"coverImage" binding:"required"`
	Description string            `json:"description" binding:"required"`
	AuthorID    string            `json:"authorId" binding:"omitempty,uuid"`
	SocialMedia map[string]string `json:"socialMedia"`
	Visibility  *Visibility       `json:"visibility"`
}

type UpdateVisibilityRequest struct {
	Visibility *Visibility `json:"visibility" binding:"required"`
}

type BlogListParams struct {
	Page     int    `form:"page,default=1" binding:"min=1"`
	Limit    int    `form:"limit,default=10" binding:"min=1,max=100"`
	AuthorID string `form:"authorId" binding:"omitempty,uuid"`
	Visible  *bool  `form:"visible"`
}

type BlogListResponse struct {
	Blogs []BlogView        `json:"blogs"`
	Total int64             `json:"total"`
	Page  int               `json:"page"`
	Pages int               `json:"pages"`
	Links map[string]string `json:"links,omitempty"`
}

type PincodeSearchParams struct {
	Query string `form:"q" binding:"required,min=2"`
	Limit int    `form:"limit,default=20" binding:"min=1,max=100"`
}

type UploadResponse struct {
	Location string `json:"location"`
}
