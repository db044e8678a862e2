package models

import "time"

// Comment is a reply to a post. The API nests the author under "user".
type Comment struct {
	ID        uint          `json:"id"`
	PostID    uint          `json:"blog_id"`
	Text      string        `json:"comment"`
	CreatedAt time.Time     `json:"created_at"`
	Author    CommentAuthor `json:"user"`
}

// CommentAuthor is the embedded author record on a comment.
type CommentAuthor struct {
	ID             uint   `json:"id"`
	Name           string `json:"name"`
	ProfilePicture string `json:"profile_picture"`
}
