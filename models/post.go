package models

import "time"

// Post is the client-side copy of a blog post as returned by the API.
// Like and comment counts are server-authoritative; a local copy may diverge
// only while an optimistic mutation on it is in flight.
type Post struct {
	ID                    uint      `json:"id"`
	AuthorID              uint      `json:"user_id"`
	AuthorName            string    `json:"username"`
	AuthorAvatar          string    `json:"profile_picture"`
	Title                 string    `json:"title"`
	Description           string    `json:"description"`
	Content               string    `json:"content"`
	ImagePath             string    `json:"image_path"`
	CreatedAt             time.Time `json:"created_at"`
	LikeCount             int       `json:"like_count"`
	CommentCount          int       `json:"comment_count"`
	LikedByCurrentUser    bool      `json:"liked_by_current_user"`
	ReportedByCurrentUser bool      `json:"reported_by_current_user"`
}

// LikeState is the slice of a post that a like toggle speculates on.
type LikeState struct {
	Liked bool
	Count int
}

// LikeState returns the current like slice of the post.
func (p *Post) LikeState() LikeState {
	return LikeState{Liked: p.LikedByCurrentUser, Count: p.LikeCount}
}

// SetLikeState writes a like slice back onto the post, clamping the count at zero.
func (p *Post) SetLikeState(s LikeState) {
	if s.Count < 0 {
		s.Count = 0
	}
	p.LikedByCurrentUser = s.Liked
	p.LikeCount = s.Count
}

// Toggle returns the speculative state after flipping the like flag.
func (s LikeState) Toggle() LikeState {
	if s.Liked {
		return LikeState{Liked: false, Count: s.Count - 1}
	}
	return LikeState{Liked: true, Count: s.Count + 1}
}
