package routes

import (
	"net/http"

	"blog-cms/handlers"
	"blog-cms/helper"
	"blog-cms/logger"
	"blog-cms/middleware"
	"blog-cms/models"
	"blog-cms/storage"

	"github.com/gin-gonic/gin"
)

type Handlers struct {
	Auth    *handlers.AuthHandler
	Admin   *handlers.AdminHandler
	Blog    *handlers.BlogHandler
	Upload  *handlers.UploadHandler
	Pincode *handlers.PincodeHandler
}

type Options struct {
	Guard       *middleware.AuthGuard
	Helper      *helper.HTTPHelper
	Metrics     *middleware.Metrics
	RateLimit   gin.HandlerFunc
	CORSOrigins []string
	// Uploads is set when the local store is active.
	Uploads *storage.LocalStore
	Log     logger.Logger
}

func NewRouter(h Handlers, opts Options) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger(opts.Log))
	if opts.Metrics != nil {
		router.Use(opts.Metrics.Middleware())
	}
	router.Use(middleware.CORS(opts.CORSOrigins))

	router.NoRoute(func(c *gin.Context) {
		opts.Helper.SendNotFoundError(c, "Route not found")
	})

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy"})
	})
	if opts.Metrics != nil {
		router.GET("/metrics", gin.WrapH(opts.Metrics.Handler()))
	}
	if opts.Uploads != nil {
		router.StaticFS(storage.UploadsPath, opts.Uploads.FileSystem())
	}

	throttle := opts.RateLimit
	if throttle == nil {
		throttle = func(c *gin.Context) { c.Next() }
	}
	guard := opts.Guard

	users := router.Group("/users")
	{
		users.POST("/signup", throttle, h.Auth.Signup)
		users.POST("/login", throttle, h.Auth.Login)
		users.GET("/me", guard.RequireUser(), h.Auth.GetProfile)
	}

	admin := router.Group("/admin")
	{
		admin.POST("/signup", throttle, h.Admin.Signup)
		admin.POST("/login", throttle, h.Admin.Login)

		protected := admin.Group("")
		protected.Use(guard.RequireToken(), guard.RequireRole(models.RoleAdmin))
		{
			protected.POST("/approve/:id", h.Admin.ApproveUser)
			protected.GET("/pending", h.Admin.ListPending)
		}
	}

	blogs := router.Group("/blogs")
	{
		blogs.GET("", h.Blog.GetBlogs)
		blogs.GET("/:id", h.Blog.GetBlog)
		blogs.POST("", guard.RequireUser(), guard.RequireAuthor(), h.Blog.CreateBlog)
		blogs.PATCH("/:id/visibility", guard.RequireToken(), h.Blog.UpdateVisibility)
		blogs.POST("/:id/like", h.Blog.LikeBlog)
	}

	router.POST("/upload", guard.RequireToken(), h.Upload.Upload)

	pincodes := router.Group("/pincodes")
	{
		pincodes.GET("", h.Pincode.SearchPincodes)
		pincodes.GET("/:pincode", h.Pincode.GetPincode)
	}

	return router
}
