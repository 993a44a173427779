package repositories

import (
	"context"
	"fmt"

	"blog-cms/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type BlogFilter struct {
	AuthorID *uuid.UUID
	Visible  *bool
	Offset   int
	Limit    int
}

type BlogRepository interface {
	Create(ctx context.Context, blog *models.Blog) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Blog, error)
	GetBySlug(ctx context.Context, slug string) (*models.Blog, error)
	SlugExists(ctx context.Context, slug string) (bool, error)
	List(ctx context.Context, filter BlogFilter) ([]models.Blog, int64, error)
	UpdateVisibility(ctx context.Context, id uuid.UUID, visible bool) (*models.Blog, error)
	IncrementLikes(ctx context.Context, id uuid.UUID) (*models.Blog, error)
}

type blogRepository struct {
	db *gorm.DB
}

func NewBlogRepository(db *gorm.DB) BlogRepository {
	return &blogRepository{db: db}
}

// Create inserts the blog and its blog_authors rows; the author users
// themselves are never upserted.
func (r *blogRepository) Create(ctx context.Context, blog *models.Blog) error {
	if err := r.db.WithContext(ctx).Omit("Authors.*").Create(blog).Error; err != nil {
		return fmt.Errorf("create blog: %w", translate(err))
	}
	return nil
}

func (r *blogRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Blog, error) {
	var blog models.Blog
	err := r.db.WithContext(ctx).Preload("Authors").Where("id = ?", id).First(&blog).Error
	if err != nil {
		return nil, fmt.Errorf("get blog %s: %w", id, translate(err))
	}
	return &blog, nil
}

func (r *blogRepository) GetBySlug(ctx context.Context, slug string) (*models.Blog, error) {
	var blog models.Blog
	err := r.db.WithContext(ctx).Preload("Authors").Where("slug = ?", slug).First(&blog).Error
	if err != nil {
		return nil, fmt.Errorf("get blog %q: %w", slug, translate(err))
	}
	return &blog, nil
}

func (r *blogRepository) SlugExists(ctx context.Context, slug string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Blog{}).Where("slug = ?", slug).Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("check slug: %w", translate(err))
	}
	return count > 0, nil
}

func (r *blogRepository) List(ctx context.Context, filter BlogFilter) ([]models.Blog, int64, error) {
	var (
		blogs []models.Blog
		total int64
	)

	query := r.db.WithContext(ctx).Model(&models.Blog{})
	if filter.AuthorID != nil {
		query = query.Joins("JOIN blog_authors ON blog_authors.blog_id = blogs.id").
			Where("blog_authors.user_id = ?", *filter.AuthorID)
	}
	if filter.Visible != nil {
		query = query.Where("blogs.visibility = ?", *filter.Visible)
	}
	query = query.Session(&gorm.Session{})

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count blogs: %w", translate(err))
	}

	err := query.Preload("Authors").
		Order("blogs.date desc").
		Offset(filter.Offset).
		Limit(filter.Limit).
		Find(&blogs).Error
	if err != nil {
		return nil, 0, fmt.Errorf("list blogs: %w", translate(err))
	}
	return blogs, total, nil
}

func (r *blogRepository) UpdateVisibility(ctx context.Context, id uuid.UUID, visible bool) (*models.Blog, error) {
	res := r.db.WithContext(ctx).Model(&models.Blog{}).Where("id = ?", id).Update("visibility", visible)
	if res.Error != nil {
		return nil, fmt.Errorf("update visibility: %w", translate(res.Error))
	}
	if res.RowsAffected == 0 {
		return nil, fmt.Errorf("update visibility of %s: %w", id, ErrRecordNotFound)
	}
	return r.GetByID(ctx, id)
}

func (r *blogRepository) IncrementLikes(ctx context.Context, id uuid.UUID) (*models.Blog, error) {
	res := r.db.WithContext(ctx).Model(&models.Blog{}).Where("id = ?", id).
		UpdateColumn("like_count", gorm.Expr("like_count + ?", 1))
	if res.Error != nil {
		return nil, fmt.Errorf("like blog: %w", translate(res.Error))
	}
	if res.RowsAffected == 0 {
		return nil, fmt.Errorf("like blog %s: %w", id, ErrRecordNotFound)
	}
	return r.GetByID(ctx, id)
}
