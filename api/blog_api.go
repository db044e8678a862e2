package api

import (
	"context"
	"net/http"
	"strings"

	"github.com/cppla/contentcorner/models"
)

// PostFilter narrows a post listing. Zero value lists everything.
type PostFilter struct {
	AuthorID uint
}

// PostDraft carries the text fields of a post create or edit.
type PostDraft struct {
	Title       string
	Description string
	Content     string
}

func (d PostDraft) validate(requireAll bool) error {
	if strings.TrimSpace(d.Title) == "" {
		return &ValidationError{Message: "please enter a title for your blog post"}
	}
	if strings.TrimSpace(d.Description) == "" {
		return &ValidationError{Message: "please enter a description for your blog post"}
	}
	if requireAll && strings.TrimSpace(d.Content) == "" {
		return &ValidationError{Message: "please enter your story content"}
	}
	return nil
}

func (d PostDraft) fields() map[string]string {
	return map[string]string{
		"title":       strings.TrimSpace(d.Title),
		"description": strings.TrimSpace(d.Description),
		"content":     strings.TrimSpace(d.Content),
	}
}

// FetchPosts lists posts, optionally restricted to one author.
func (c *Client) FetchPosts(ctx context.Context, filter PostFilter) ([]models.Post, error) {
	path := routeBlog
	if filter.AuthorID != 0 {
		path = blogByAuthor(filter.AuthorID)
	}
	return getJSON[[]models.Post](ctx, c, path)
}

// FetchPost loads one post with viewer-specific flags.
func (c *Client) FetchPost(ctx context.Context, id uint) (*models.Post, error) {
	return getJSON[*models.Post](ctx, c, blogByID(id))
}

// CreatePost publishes a new post. The image is required on create.
func (c *Client) CreatePost(ctx context.Context, draft PostDraft, image *FileAttachment) (*models.Post, error) {
	if err := draft.validate(true); err != nil {
		return nil, err
	}
	if image == nil {
		return nil, &ValidationError{Message: "please select an image for your blog post"}
	}
	return sendForm[*models.Post](ctx, c, routeBlog, draft.fields(), image)
}

// UpdatePost edits an existing post. Omitting the image keeps the current one.
// The API uses POST on the post path for edits.
func (c *Client) UpdatePost(ctx context.Context, id uint, draft PostDraft, image *FileAttachment) (*models.Post, error) {
	if err := draft.validate(true); err != nil {
		return nil, err
	}
	return sendForm[*models.Post](ctx, c, blogByID(id), draft.fields(), image)
}

// DeletePost removes a post owned by the current user.
func (c *Client) DeletePost(ctx context.Context, id uint) error {
	_, err := sendJSON[struct{}](ctx, c, http.MethodDelete, blogByID(id), nil)
	return err
}

type likeArgs struct {
	PostID uint `json:"blog_id"`
	Liked  bool `json:"liked"`
}

// SetLike records the desired like state for a post. The returned result may
// carry the server's authoritative count; when it does, that count wins over
// any client-computed delta.
func (c *Client) SetLike(ctx context.Context, postID uint, desired bool) (models.LikeResult, error) {
	return sendJSON[models.LikeResult](ctx, c, http.MethodPost, routeLike, likeArgs{PostID: postID, Liked: desired})
}
