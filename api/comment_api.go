package api

import (
	"context"
	"net/http"
	"strings"

	"github.com/cppla/contentcorner/models"
)

type commentArgs struct {
	PostID uint   `json:"blog_id"`
	Text   string `json:"comment"`
}

// FetchComments lists the comments on a post, oldest first as the server
// returns them.
func (c *Client) FetchComments(ctx context.Context, postID uint) ([]models.Comment, error) {
	return getJSON[[]models.Comment](ctx, c, commentsByPost(postID))
}

// PostComment adds a comment to a post. Empty text is rejected locally.
func (c *Client) PostComment(ctx context.Context, postID uint, text string) (*models.Comment, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, &ValidationError{Message: "please write a comment before posting"}
	}
	return sendJSON[*models.Comment](ctx, c, http.MethodPost, routeComment, commentArgs{PostID: postID, Text: text})
}

// UpdateComment edits a comment's text. Only the comment author may edit;
// the server enforces this with Forbidden.
func (c *Client) UpdateComment(ctx context.Context, id, postID uint, text string) (*models.Comment, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, &ValidationError{Message: "comment cannot be empty"}
	}
	return sendJSON[*models.Comment](ctx, c, http.MethodPut, commentByID(id), commentArgs{PostID: postID, Text: text})
}

// DeleteComment removes a comment. Allowed for the comment author and the
// post author; the server enforces this with Forbidden.
func (c *Client) DeleteComment(ctx context.Context, id uint) error {
	_, err := sendJSON[struct{}](ctx, c, http.MethodDelete, commentByID(id), nil)
	return err
}
