package repositories

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"blog-cms/models"

	"github.com/google/uuid"
)

// MemoryStore keeps users, blogs and pincodes in process memory. It backs
// DB_DRIVER=memory and the HTTP tests, and enforces the same uniqueness rules
// as the PostgreSQL schema.
type MemoryStore struct {
	mu          sync.RWMutex
	users       map[uuid.UUID]models.User
	emails      map[string]uuid.UUID
	blogs       map[uuid.UUID]models.Blog
	slugs       map[string]uuid.UUID
	pincodes    []models.Pincode
	nextPincode uint
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		users:  make(map[uuid.UUID]models.User),
		emails: make(map[string]uuid.UUID),
		blogs:  make(map[uuid.UUID]models.Blog),
		slugs:  make(map[string]uuid.UUID),
	}
}

func (m *MemoryStore) Users() UserRepository       { return &memoryUsers{m} }
func (m *MemoryStore) Blogs() BlogRepository       { return &memoryBlogs{m} }
func (m *MemoryStore) Pincodes() PincodeRepository { return &memoryPincodes{m} }

type memoryUsers struct{ m *MemoryStore }

func (r *memoryUsers) Create(_ context.Context, user *models.User) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()

	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	user.Email = models.NormalizeEmail(user.Email)
	if _, ok := r.m.emails[user.Email]; ok {
		return fmt.Errorf("create user: %w", ErrDuplicateKey)
	}
	now := time.Now().UTC()
	user.CreatedAt, user.UpdatedAt = now, now
	r.m.users[user.ID] = *user
	r.m.emails[user.Email] = user.ID
	return nil
}

func (r *memoryUsers) GetByID(_ context.Context, id uuid.UUID) (*models.User, error) {
	r.m.mu.RLock()
	defer r.m.mu.RUnlock()

	u, ok := r.m.users[id]
	if !ok {
		return nil, fmt.Errorf("get user %s: %w", id, ErrRecordNotFound)
	}
	return &u, nil
}

func (r *memoryUsers) GetByEmail(_ context.Context, email string) (*models.User, error) {
	r.m.mu.RLock()
	defer r.m.mu.RUnlock()

	id, ok := r.m.emails[models.NormalizeEmail(email)]
	if !ok {
		return nil, fmt.Errorf("get user by email: %w", ErrRecordNotFound)
	}
	u := r.m.users[id]
	return &u, nil
}

func (r *memoryUsers) UpdateRole(_ context.Context, id uuid.UUID, expected, next models.Role) (*models.User, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()

	u, ok := r.m.users[id]
	if !ok {
		return nil, fmt.Errorf("get user %s: %w", id, ErrRecordNotFound)
	}
	if u.Role != expected {
		return nil, fmt.Errorf("update role of %s: %w", id, ErrRoleChanged)
	}
	u.Role = next
	u.UpdatedAt = time.Now().UTC()
	r.m.users[id] = u
	return &u, nil
}

func (r *memoryUsers) ListByRole(_ context.Context, role models.Role) ([]models.User, error) {
	r.m.mu.RLock()
	defer r.m.mu.RUnlock()

	out := []models.User{}
	for _, u := range r.m.users {
		if u.Role == role {
			out = append(out, u)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

type memoryBlogs struct{ m *MemoryStore }

func (r *memoryBlogs) Create(_ context.Context, blog *models.Blog) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()

	if _, ok := r.m.slugs[blog.Slug]; ok {
		return fmt.Errorf("create blog: %w", ErrDuplicateKey)
	}
	if blog.ID == uuid.Nil {
		blog.ID = uuid.New()
	}
	now := time.Now().UTC()
	if blog.Date.IsZero() {
		blog.Date = now
	}
	blog.CreatedAt, blog.UpdatedAt = now, now
	r.m.blogs[blog.ID] = *blog
	r.m.slugs[blog.Slug] = blog.ID
	return nil
}

// hydrate refreshes author records the way a Preload would. Caller holds mu.
func (r *memoryBlogs) hydrate(b models.Blog) models.Blog {
	authors := make([]models.User, 0, len(b.Authors))
	for _, a := range b.Authors {
		if u, ok := r.m.users[a.ID]; ok {
			authors = append(authors, u)
		}
	}
	b.Authors = authors
	return b
}

func (r *memoryBlogs) GetByID(_ context.Context, id uuid.UUID) (*models.Blog, error) {
	r.m.mu.RLock()
	defer r.m.mu.RUnlock()

	b, ok := r.m.blogs[id]
	if !ok {
		return nil, fmt.Errorf("get blog %s: %w", id, ErrRecordNotFound)
	}
	b = r.hydrate(b)
	return &b, nil
}

func (r *memoryBlogs) GetBySlug(ctx context.Context, slug string) (*models.Blog, error) {
	r.m.mu.RLock()
	id, ok := r.m.slugs[slug]
	r.m.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("get blog %q: %w", slug, ErrRecordNotFound)
	}
	return r.GetByID(ctx, id)
}

func (r *memoryBlogs) SlugExists(_ context.Context, slug string) (bool, error) {
	r.m.mu.RLock()
	defer r.m.mu.RUnlock()

	_, ok := r.m.slugs[slug]
	return ok, nil
}

func (r *memoryBlogs) List(_ context.Context, filter BlogFilter) ([]models.Blog, int64, error) {
	r.m.mu.RLock()
	defer r.m.mu.RUnlock()

	matched := []models.Blog{}
	for _, b := range r.m.blogs {
		if filter.Visible != nil && b.Visibility != *filter.Visible {
			continue
		}
		if filter.AuthorID != nil && !hasAuthor(b, *filter.AuthorID) {
			continue
		}
		matched = append(matched, r.hydrate(b))
	}
	sort.Slice(matched, func(i, j int) bool {
		if matched[i].Date.Equal(matched[j].Date) {
			return matched[i].Slug < matched[j].Slug
		}
		return matched[i].Date.After(matched[j].Date)
	})

	total := int64(len(matched))
	start := min(max(filter.Offset, 0), len(matched))
	end := len(matched)
	if filter.Limit > 0 {
		end = min(start+filter.Limit, len(matched))
	}
	return matched[start:end], total, nil
}

func hasAuthor(b models.Blog, id uuid.UUID) bool {
	for _, a := range b.Authors {
		if a.ID == id {
			return true
		}
	}
	return false
}

func (r *memoryBlogs) update(id uuid.UUID, fn func(*models.Blog)) (*models.Blog, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()

	b, ok := r.m.blogs[id]
	if !ok {
		return nil, fmt.Errorf("update blog %s: %w", id, ErrRecordNotFound)
	}
	fn(&b)
	b.UpdatedAt = time.Now().UTC()
	r.m.blogs[id] = b
	b = r.hydrate(b)
	return &b, nil
}

func (r *memoryBlogs) UpdateVisibility(_ context.Context, id uuid.UUID, visible bool) (*models.Blog, error) {
	return r.update(id, func(b *models.Blog) { b.Visibility = visible })
}

func (r *memoryBlogs) IncrementLikes(_ context.Context, id uuid.UUID) (*models.Blog, error) {
	return r.update(id, func(b *models.Blog) { b.LikeCount++ })
}

type memoryPincodes struct{ m *MemoryStore }

func (r *memoryPincodes) GetByCode(_ context.Context, code string) (*models.Pincode, error) {
	r.m.mu.RLock()
	defer r.m.mu.RUnlock()

	for _, p := range r.m.pincodes {
		if p.Pincode == code {
			return &p, nil
		}
	}
	return nil, fmt.Errorf("get pincode %q: %w", code, ErrRecordNotFound)
}

func (r *memoryPincodes) Search(_ context.Context, query string, limit int) ([]models.Pincode, error) {
	r.m.mu.RLock()
	defer r.m.mu.RUnlock()

	q := strings.ToLower(query)
	out := []models.Pincode{}
	for _, p := range r.m.pincodes {
		if strings.Contains(strings.ToLower(p.City), q) ||
			strings.Contains(strings.ToLower(p.State), q) ||
			strings.Contains(p.Pincode, q) {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Pincode < out[j].Pincode })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *memoryPincodes) BulkCreate(_ context.Context, pincodes []models.Pincode) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()

	for _, p := range pincodes {
		r.m.nextPincode++
		p.ID = r.m.nextPincode
		r.m.pincodes = append(r.m.pincodes, p)
	}
	return nil
}
