package services

import (
	"context"
	"fmt"
	"math"
	"strings"
	"testing"
	"time"

	"blog-cms/logger"
	"blog-cms/models"
	"blog-cms/repositories"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
)

type BlogServiceTestSuite struct {
	suite.Suite
	ctx    context.Context
	store  *repositories.MemoryStore
	blogs  BlogService
	author *models.User
}

func (s *BlogServiceTestSuite) SetupTest() {
	s.ctx = context.Background()
	s.store = repositories.NewMemoryStore()
	s.blogs = NewBlogService(s.store.Blogs(), s.store.Users(), logger.Nop())
	s.author = s.createUser("author@example.com", models.RoleAuthor)
}

func (s *BlogServiceTestSuite) createUser(email string, role models.Role) *models.User {
	u := &models.User{Name: strings.Split(email, "@")[0], Email: email, Password: "x", Role: role}
	s.Require().NoError(s.store.Users().Create(s.ctx, u))
	return u
}

func (s *BlogServiceTestSuite) create(title string) *models.Blog {
	blog, err := s.blogs.CreateBlog(s.ctx, s.author, models.CreateBlogRequest{
		Title:       title,
		CoverImage:  "http://localhost/uploads/c.png",
		Description: "short body",
	})
	s.Require().NoError(err)
	return blog
}

func (s *BlogServiceTestSuite) TestSlugCollision() {
	first := s.create("Hello World")
	second := s.create("Hello World")
	third := s.create("hello   world!")

	s.Equal("hello-world", first.Slug)
	s.Equal("hello-world-1", second.Slug)
	s.Equal("hello-world-2", third.Slug)
}

func (s *BlogServiceTestSuite) TestSlugFallback() {
	blog := s.create("!!!")
	s.Equal("blog", blog.Slug)
}

func (s *BlogServiceTestSuite) TestCreateDefaults() {
	blog := s.create("Defaults")

	s.True(blog.Visibility)
	s.Equal("1 min", blog.ReadingTime)
	s.Require().Len(blog.Authors, 1)
	s.Equal(s.author.ID, blog.Authors[0].ID)
	s.False(blog.Date.IsZero())
}

func (s *BlogServiceTestSuite) TestCreatePrivateWithCoAuthor() {
	co := s.createUser("co@example.com", models.RoleAuthor)
	private := models.VisibilityPrivate

	blog, err := s.blogs.CreateBlog(s.ctx, s.author, models.CreateBlogRequest{
		Title:       "Together",
		CoverImage:  "c.png",
		Description: "body",
		AuthorID:    co.ID.String(),
		Visibility:  &private,
		SocialMedia: map[string]string{"twitter": "@jane"},
	})
	s.Require().NoError(err)
	s.False(blog.Visibility)
	s.Len(blog.Authors, 2)
	s.Equal("@jane", blog.SocialMedia["twitter"])
}

func (s *BlogServiceTestSuite) TestCreateCoAuthorChecks() {
	pending := s.createUser("pending@example.com", models.RolePending)

	_, err := s.blogs.CreateBlog(s.ctx, s.author, models.CreateBlogRequest{
		Title: "x", CoverImage: "c", Description: "d", AuthorID: pending.ID.String(),
	})
	s.ErrorAs(err, &models.ErrorForbidden{})

	_, err = s.blogs.CreateBlog(s.ctx, s.author, models.CreateBlogRequest{
		Title: "x", CoverImage: "c", Description: "d", AuthorID: uuid.NewString(),
	})
	s.ErrorAs(err, &models.ErrorNotFound{})

	// Naming yourself as co-author is not a second author.
	blog, err := s.blogs.CreateBlog(s.ctx, s.author, models.CreateBlogRequest{
		Title: "x", CoverImage: "c", Description: "d", AuthorID: s.author.ID.String(),
	})
	s.Require().NoError(err)
	s.Len(blog.Authors, 1)
}

func (s *BlogServiceTestSuite) TestCreateRejectsBlankFields() {
	_, err := s.blogs.CreateBlog(s.ctx, s.author, models.CreateBlogRequest{Title: "   ", CoverImage: "c", Description: "d"})
	s.ErrorAs(err, &models.ErrorValidation{})
	s.EqualError(err, "Title must not be blank")

	_, err = s.blogs.CreateBlog(s.ctx, s.author, models.CreateBlogRequest{Title: "t", CoverImage: "c", Description: " \n\t"})
	s.ErrorAs(err, &models.ErrorValidation{})
	s.EqualError(err, "Description must not be blank")

	exists, err := s.store.Blogs().SlugExists(s.ctx, "blog")
	s.Require().NoError(err)
	s.False(exists)
}

func (s *BlogServiceTestSuite) TestCreateRequiresAuthor() {
	pending := s.createUser("p@example.com", models.RolePending)
	_, err := s.blogs.CreateBlog(s.ctx, pending, models.CreateBlogRequest{Title: "x", CoverImage: "c", Description: "d"})
	s.ErrorAs(err, &models.ErrorForbidden{})
	s.EqualError(err, "Only approved authors can post")
}

func (s *BlogServiceTestSuite) TestPagination() {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 12; i++ {
		blog := &models.Blog{
			Title:       fmt.Sprintf("Post %02d", i),
			Slug:        fmt.Sprintf("post-%02d", i),
			Authors:     []models.User{*s.author},
			Date:        base.Add(time.Duration(i) * time.Hour),
			ReadingTime: "1 min",
			Visibility:  true,
		}
		s.Require().NoError(s.store.Blogs().Create(s.ctx, blog))
	}

	res, err := s.blogs.GetBlogs(s.ctx, models.BlogListParams{Page: 2, Limit: 5})
	s.Require().NoError(err)
	s.Len(res.Blogs, 5)
	s.Equal(int64(12), res.Total)
	s.Equal(3, res.Pages)
	s.Equal(2, res.Page)
	// Newest first: page 2 starts at the sixth newest.
	s.Equal("post-06", res.Blogs[0].Slug)

	last, err := s.blogs.GetBlogs(s.ctx, models.BlogListParams{Page: 3, Limit: 5})
	s.Require().NoError(err)
	s.Len(last.Blogs, 2)

	beyond, err := s.blogs.GetBlogs(s.ctx, models.BlogListParams{Page: 9, Limit: 5})
	s.Require().NoError(err)
	s.Empty(beyond.Blogs)
	s.NotNil(beyond.Blogs)

	_, err = s.blogs.GetBlogs(s.ctx, models.BlogListParams{Page: math.MaxInt, Limit: 10})
	s.ErrorAs(err, &models.ErrorValidation{})
	s.EqualError(err, "Page is out of range")
}

func (s *BlogServiceTestSuite) TestListFilters() {
	other := s.createUser("other@example.com", models.RoleAuthor)
	s.create("Mine")
	_, err := s.blogs.CreateBlog(s.ctx, other, models.CreateBlogRequest{Title: "Theirs", CoverImage: "c", Description: "d"})
	s.Require().NoError(err)
	hidden := s.create("Hidden")
	_, err = s.blogs.UpdateVisibility(s.ctx, hidden.ID, models.VisibilityPrivate)
	s.Require().NoError(err)

	res, err := s.blogs.GetBlogs(s.ctx, models.BlogListParams{Page: 1, Limit: 10, AuthorID: other.ID.String()})
	s.Require().NoError(err)
	s.Require().Len(res.Blogs, 1)
	s.Equal("theirs", res.Blogs[0].Slug)

	visible := true
	res, err = s.blogs.GetBlogs(s.ctx, models.BlogListParams{Page: 1, Limit: 10, Visible: &visible})
	s.Require().NoError(err)
	s.EqualValues(2, res.Total)

	_, err = s.blogs.GetBlogs(s.ctx, models.BlogListParams{Page: 1, Limit: 10, AuthorID: "nope"})
	s.ErrorAs(err, &models.ErrorValidation{})
}

func (s *BlogServiceTestSuite) TestGetByIDOrSlug() {
	blog := s.create("Find Me")

	byID, err := s.blogs.GetBlog(s.ctx, blog.ID.String())
	s.Require().NoError(err)
	s.Equal(blog.ID, byID.ID)

	bySlug, err := s.blogs.GetBlog(s.ctx, "find-me")
	s.Require().NoError(err)
	s.Equal(blog.ID, bySlug.ID)

	_, err = s.blogs.GetBlog(s.ctx, "missing")
	s.ErrorAs(err, &models.ErrorNotFound{})
}

func (s *BlogServiceTestSuite) TestVisibilityAndLikes() {
	blog := s.create("Toggle")

	updated, err := s.blogs.UpdateVisibility(s.ctx, blog.ID, models.VisibilityPrivate)
	s.Require().NoError(err)
	s.False(updated.Visibility)

	liked, err := s.blogs.LikeBlog(s.ctx, blog.ID)
	s.Require().NoError(err)
	s.Equal(1, liked.LikeCount)

	_, err = s.blogs.UpdateVisibility(s.ctx, uuid.New(), models.VisibilityPublic)
	s.ErrorAs(err, &models.ErrorNotFound{})
	_, err = s.blogs.LikeBlog(s.ctx, uuid.New())
	s.ErrorAs(err, &models.ErrorNotFound{})
}

func TestBlogServiceTestSuite(t *testing.T) {
	suite.Run(t, new(BlogServiceTestSuite))
}

func TestReadingTime(t *testing.T) {
	tests := []struct {
		words int
		want  string
	}{
		{0, "0 min"},
		{1, "1 min"},
		{200, "1 min"},
		{201, "2 min"},
		{400, "2 min"},
		{1000, "5 min"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			text := strings.TrimSpace(strings.Repeat("word ", tt.words))
			assert.Equal(t, tt.want, ReadingTime(text))
		})
	}
}

func TestTotalPages(t *testing.T) {
	assert.Equal(t, 3, TotalPages(12, 5))
	assert.Equal(t, 0, TotalPages(0, 10))
	assert.Equal(t, 1, TotalPages(10, 10))
	assert.Equal(t, 0, TotalPages(5, 0))
}
