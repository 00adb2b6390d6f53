// Package blog is a small in-memory application used to demonstrate and test
// the transport. Every table is a tracked resource, so queries report the
// tables they read and mutations report the tables they change.
package blog

import (
	"context"
	"fmt"
	"net/http"
	"slices"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
	"go.trai.ch/iceberg/internal/core/domain"
	"go.trai.ch/iceberg/internal/engine/tracker"
)

// Dependency tags reported by the blog procedures.
const (
	TagPosts   = "posts"
	TagStories = "stories"
)

// Post is a blog entry.
type Post struct {
	ID           string    `json:"id"`
	CreationTime time.Time `json:"creationTime"`
	Title        string    `json:"title"`
	Content      string    `json:"content"`
}

// Story is an image shown above the posts.
type Story struct {
	ID       string `json:"id"`
	ImageURL string `json:"imageUrl"`
}

// Option configures a Database.
type Option func(*Database)

// WithClock sets the time source for new posts.
func WithClock(now func() time.Time) Option {
	return func(d *Database) {
		d.now = now
	}
}

// WithIDs sets the generator for record ids.
func WithIDs(next func() string) Option {
	return func(d *Database) {
		d.newID = next
	}
}

// Database holds posts and stories in memory.
type Database struct {
	mu      sync.Mutex
	posts   *tracker.Resource[*[]Post]
	stories *tracker.Resource[*[]Story]
	now     func() time.Time
	newID   func() string
}

// NewDatabase creates an empty database.
func NewDatabase(opts ...Option) *Database {
	d := &Database{
		posts:   tracker.NewResource(TagPosts, &[]Post{}),
		stories: tracker.NewResource(TagStories, &[]Story{}),
		now:     time.Now,
		newID:   func() string { return ulid.Make().String() },
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Seed adds two posts and ten stories.
func (d *Database) Seed() {
	d.mu.Lock()
	defer d.mu.Unlock()

	now := d.now()
	posts := d.posts.Use(context.Background())
	*posts = append(*posts,
		Post{
			ID:           d.newID(),
			CreationTime: now.Add(-1000 * time.Second).UTC(),
			Title:        "Hello World!",
			Content:      "This is my first post.",
		},
		Post{
			ID:           d.newID(),
			CreationTime: now.Add(-500 * time.Second).UTC(),
			Title:        "Another post",
			Content:      "This is my second post.",
		},
	)

	stories := d.stories.Use(context.Background())
	for i := 1; i <= 10; i++ {
		*stories = append(*stories, Story{
			ID:       d.newID(),
			ImageURL: fmt.Sprintf("https://picsum.photos/seed/%d/64", i),
		})
	}
}

// Posts returns a copy of all posts.
func (d *Database) Posts(ctx context.Context) []Post {
	d.mu.Lock()
	defer d.mu.Unlock()
	return slices.Clone(*d.posts.Use(ctx))
}

// AddPost stores a new post and returns it.
func (d *Database) AddPost(ctx context.Context, title, content string) Post {
	d.mu.Lock()
	defer d.mu.Unlock()

	p := Post{
		ID:           d.newID(),
		CreationTime: d.now().UTC(),
		Title:        title,
		Content:      content,
	}
	posts := d.posts.Use(ctx)
	*posts = append(*posts, p)
	return p
}

// DeletePost removes the post with id.
func (d *Database) DeletePost(ctx context.Context, id string) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	posts := d.posts.Use(ctx)
	i := slices.IndexFunc(*posts, func(p Post) bool { return p.ID == id })
	if i < 0 {
		return domain.NewUserError(http.StatusNotFound, "Post not found")
	}
	*posts = slices.Delete(*posts, i, i+1)
	return nil
}

// Stories returns a copy of all stories.
func (d *Database) Stories(ctx context.Context) []Story {
	d.mu.Lock()
	defer d.mu.Unlock()
	return slices.Clone(*d.stories.Use(ctx))
}

// AddStory stores a new story and returns it.
func (d *Database) AddStory(ctx context.Context, imageURL string) Story {
	d.mu.Lock()
	defer d.mu.Unlock()

	s := Story{ID: d.newID(), ImageURL: imageURL}
	stories := d.stories.Use(ctx)
	*stories = append(*stories, s)
	return s
}

// DeleteStory removes the story with id.
func (d *Database) DeleteStory(ctx context.Context, id string) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	stories := d.stories.Use(ctx)
	i := slices.IndexFunc(*stories, func(s Story) bool { return s.ID == id })
	if i < 0 {
		return domain.NewUserError(http.StatusNotFound, "Story not found")
	}
	*stories = slices.Delete(*stories, i, i+1)
	return nil
}
