package blog

import (
	"context"
	"errors"
	"strings"

	"go.trai.ch/iceberg/internal/engine/procedure"
)

// CreatePostInput is the input of createPost.
type CreatePostInput struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

// Validate rejects posts without a title.
func (in CreatePostInput) Validate() error {
	if strings.TrimSpace(in.Title) == "" {
		return errors.New("title must not be empty")
	}
	return nil
}

// CreateStoryInput is the input of createStory.
type CreateStoryInput struct {
	ImageURL string `json:"imageUrl"`
}

// Validate rejects stories without an image.
func (in CreateStoryInput) Validate() error {
	if in.ImageURL == "" {
		return errors.New("imageUrl must not be empty")
	}
	return nil
}

// DeleteInput addresses a single record.
type DeleteInput struct {
	ID string `json:"id"`
}

// Register adds the blog procedures backed by db to reg.
func Register(reg *procedure.Registry, db *Database) error {
	procs := []struct {
		name string
		proc *procedure.Procedure
	}{
		{"getPosts", procedure.Query(func(ctx context.Context, _ procedure.Void) ([]Post, error) {
			return db.Posts(ctx), nil
		})},
		{"createPost", procedure.Mutation(func(ctx context.Context, in CreatePostInput) (string, error) {
			db.AddPost(ctx, in.Title, in.Content)
			return "Post created successfully", nil
		})},
		{"deletePost", procedure.Mutation(func(ctx context.Context, in DeleteInput) (string, error) {
			if err := db.DeletePost(ctx, in.ID); err != nil {
				return "", err
			}
			return "Post deleted successfully", nil
		})},
		{"getStories", procedure.Query(func(ctx context.Context, _ procedure.Void) ([]Story, error) {
			return db.Stories(ctx), nil
		})},
		{"createStory", procedure.Mutation(func(ctx context.Context, in CreateStoryInput) (string, error) {
			db.AddStory(ctx, in.ImageURL)
			return "Story created successfully", nil
		})},
		{"deleteStory", procedure.Mutation(func(ctx context.Context, in DeleteInput) (string, error) {
			if err := db.DeleteStory(ctx, in.ID); err != nil {
				return "", err
			}
			return "Story deleted successfully", nil
		})},
	}

	for _, p := range procs {
		if err := reg.Register(p.name, p.proc); err != nil {
			return err
		}
	}
	return nil
}

// NewRegistry returns a registry serving a freshly seeded database.
func NewRegistry() (*procedure.Registry, error) {
	db := NewDatabase()
	db.Seed()

	reg := procedure.NewRegistry()
	if err := Register(reg, db); err != nil {
		return nil, err
	}
	return reg, nil
}
