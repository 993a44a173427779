package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Blog struct {
	ID          uuid.UUID         `json:"id" gorm:"type:uuid;primaryKey"`
	Title       string            `json:"title" gorm:"not null"`
	CoverImage  string            `json:"coverImage" gorm:"not null"`
	Description string            `json:"description" gorm:"type:text;not null"`
	Authors     []User            `json:"authors" gorm:"many2many:blog_authors;"`
	SocialMedia map[string]string `json:"socialMedia" gorm:"serializer:json;type:jsonb"`
	Slug        string            `json:"slug" gorm:"uniqueIndex;not null"`
	Date        time.Time         `json:"date"`
	LikeCount   int               `json:"likeCount"`
	ReadingTime string            `json:"readingTime" gorm:"not null"`
	Visibility  bool              `json:"visibility"`
	CreatedAt   time.Time         `json:"createdAt"`
	UpdatedAt   time.Time         `json:"updatedAt"`
}

func (b *Blog) BeforeCreate(tx *gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	if b.Date.IsZero() {
		b.Date = time.Now().UTC()
	}
	return nil
}

// AuthorView is the public projection of a blog author.
type AuthorView struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Email string    `json:"email"`
}

type BlogView struct {
	ID          uuid.UUID         `json:"id"`
	Title       string            `json:"title"`
	CoverImage  string            `json:"coverImage"`
	Description string            `json:"description"`
	Authors     []AuthorView      `json:"authors"`
	SocialMedia map[string]string `json:"socialMedia"`
	Slug        string            `json:"slug"`
	Date        time.Time         `json:"date"`
	LikeCount   int               `json:"likeCount"`
	ReadingTime string            `json:"readingTime"`
	Visibility  bool              `json:"visibility"`
}

func (b *Blog) View() BlogView {
	authors := make([]AuthorView, 0, len(b.Authors))
	for _, a := range b.Authors {
		authors = append(authors, AuthorView{ID: a.ID, Name: a.Name, Email: a.Email})
	}
	social := b.SocialMedia
	if social == nil {
		social = map[string]string{}
	}
	return BlogView{
		ID:          b.ID,
		Title:       b.Title,
		CoverImage:  b.CoverImage,
		Description: b.Description,
		Authors:     authors,
		SocialMedia: social,
		Slug:        b.Slug,
		Date:        b.Date,
		LikeCount:   b.LikeCount,
		ReadingTime: b.ReadingTime,
		Visibility:  b.Visibility,
	}
}

func BlogViews(blogs []Blog) []BlogView {
	views := make([]BlogView, 0, len(blogs))
	for i := range blogs {
		views = append(views, blogs[i].View())
	}
	return views
}
