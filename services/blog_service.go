package services

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"

	"blog-cms/logger"
	"blog-cms/models"
	"blog-cms/repositories"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
)

const (
	wordsPerMinute  = 200
	slugCreateTries = 3
	defaultPage     = 1
	defaultLimit    = 10
	maxLimit        = 100
)

type BlogService interface {
	CreateBlog(ctx context.Context, author *models.User, req models.CreateBlogRequest) (*models.Blog, error)
	GetBlogs(ctx context.Context, params models.BlogListParams) (*models.BlogListResponse, error)
	GetBlog(ctx context.Context, idOrSlug string) (*models.Blog, error)
	UpdateVisibility(ctx context.Context, id uuid.UUID, visibility models.Visibility) (*models.Blog, error)
	LikeBlog(ctx context.Context, id uuid.UUID) (*models.Blog, error)
}

type blogService struct {
	blogRepo repositories.BlogRepository
	userRepo repositories.UserRepository
	log      logger.Logger
}

func NewBlogService(blogRepo repositories.BlogRepository, userRepo repositories.UserRepository, log logger.Logger) BlogService {
	return &blogService{blogRepo: blogRepo, userRepo: userRepo, log: log}
}

func (s *blogService) CreateBlog(ctx context.Context, author *models.User, req models.CreateBlogRequest) (*models.Blog, error) {
	if author == nil || author.Role != models.RoleAuthor {
		return nil, models.ErrorForbidden{Message: "Only approved authors can post"}
	}

	authors := []models.User{*author}
	if req.AuthorID != "" {
		coID, err := uuid.Parse(req.AuthorID)
		if err != nil {
			return nil, models.ErrorValidation{Message: "Invalid authorId"}
		}
		if coID != author.ID {
			coAuthor, err := s.userRepo.GetByID(ctx, coID)
			if err != nil {
				if errors.Is(err, repositories.ErrRecordNotFound) {
					return nil, models.ErrorNotFound{Message: "Author not found"}
				}
				return nil, models.NewInternalError(err)
			}
			if coAuthor.Role != models.RoleAuthor {
				return nil, models.ErrorForbidden{Message: "Co-author is not an approved author"}
			}
			authors = append(authors, *coAuthor)
		}
	}

	visible := true
	if req.Visibility != nil {
		visible = bool(*req.Visibility)
	}

	title := strings.TrimSpace(req.Title)
	if title == "" {
		return nil, models.ErrorValidation{Message: "Title must not be blank"}
	}
	if strings.TrimSpace(req.Description) == "" {
		return nil, models.ErrorValidation{Message: "Description must not be blank"}
	}

	blog := &models.Blog{
		Title:       title,
		CoverImage:  req.CoverImage,
		Description: req.Description,
		Authors:     authors,
		SocialMedia: req.SocialMedia,
		ReadingTime: ReadingTime(req.Description),
		Visibility:  visible,
	}

	// The slug check and the insert are not atomic; a concurrent create of
	// the same title surfaces as a duplicate key and derivation runs again.
	var err error
	for attempt := 0; attempt < slugCreateTries; attempt++ {
		blog.Slug, err = s.uniqueSlug(ctx, blog.Title)
		if err != nil {
			return nil, models.NewInternalError(err)
		}
		err = s.blogRepo.Create(ctx, blog)
		if err == nil {
			break
		}
		if !errors.Is(err, repositories.ErrDuplicateKey) {
			return nil, models.NewInternalError(err)
		}
		blog.ID = uuid.Nil
		s.log.Debug("slug taken, retrying", "slug", blog.Slug, "attempt", attempt+1)
	}
	if err != nil {
		return nil, models.ErrorConflict{Message: "Could not allocate a unique slug"}
	}

	s.log.Info("blog created", "blog_id", blog.ID, "slug", blog.Slug, "author_id", author.ID)
	return blog, nil
}

func (s *blogService) uniqueSlug(ctx context.Context, title string) (string, error) {
	base := slug.Make(title)
	if base == "" {
		base = "blog"
	}

	candidate := base
	for i := 1; ; i++ {
		exists, err := s.blogRepo.SlugExists(ctx, candidate)
		if err != nil {
			return "", err
		}
		if !exists {
			return candidate, nil
		}
		candidate = fmt.Sprintf("%s-%d", base, i)
	}
}

// ReadingTime estimates minutes at 200 words per minute, rounded up.
func ReadingTime(text string) string {
	words := len(strings.Fields(text))
	minutes := int(math.Ceil(float64(words) / wordsPerMinute))
	return fmt.Sprintf("%d min", minutes)
}

func (s *blogService) GetBlogs(ctx context.Context, params models.BlogListParams) (*models.BlogListResponse, error) {
	page, limit := params.Page, params.Limit
	if page < 1 {
		page = defaultPage
	}
	if limit < 1 {
		limit = defaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}
	if page-1 > math.MaxInt/limit {
		return nil, models.ErrorValidation{Message: "Page is out of range"}
	}

	filter := repositories.BlogFilter{
		Visible: params.Visible,
		Offset:  (page - 1) * limit,
		Limit:   limit,
	}
	if params.AuthorID != "" {
		id, err := uuid.Parse(params.AuthorID)
		if err != nil {
			return nil, models.ErrorValidation{Message: "Invalid authorId"}
		}
		filter.AuthorID = &id
	}

	blogs, total, err := s.blogRepo.List(ctx, filter)
	if err != nil {
		return nil, models.NewInternalError(err)
	}

	return &models.BlogListResponse{
		Blogs: models.BlogViews(blogs),
		Total: total,
		Page:  page,
		Pages: TotalPages(total, limit),
	}, nil
}

func TotalPages(total int64, limit int) int {
	if limit <= 0 {
		return 0
	}
	return int(math.Ceil(float64(total) / float64(limit)))
}

func (s *blogService) GetBlog(ctx context.Context, idOrSlug string) (*models.Blog, error) {
	var (
		blog *models.Blog
		err  error
	)
	if id, parseErr := uuid.Parse(idOrSlug); parseErr == nil {
		blog, err = s.blogRepo.GetByID(ctx, id)
	} else {
		blog, err = s.blogRepo.GetBySlug(ctx, idOrSlug)
	}
	if err != nil {
		return nil, blogLookupError(err)
	}
	return blog, nil
}

func (s *blogService) UpdateVisibility(ctx context.Context, id uuid.UUID, visibility models.Visibility) (*models.Blog, error) {
	blog, err := s.blogRepo.UpdateVisibility(ctx, id, bool(visibility))
	if err != nil {
		return nil, blogLookupError(err)
	}
	return blog, nil
}

func (s *blogService) LikeBlog(ctx context.Context, id uuid.UUID) (*models.Blog, error) {
	blog, err := s.blogRepo.IncrementLikes(ctx, id)
	if err != nil {
		return nil, blogLookupError(err)
	}
	return blog, nil
}

func blogLookupError(err error) error {
	if errors.Is(err, repositories.ErrRecordNotFound) {
		return models.ErrorNotFound{Message: "Blog not found"}
	}
	return models.NewInternalError(err)
}
