package views

import (
	"strings"
	"testing"
	"time"

	"github.com/go-playground/assert/v2"

	"github.com/cppla/contentcorner/models"
)

func TestResolveAvatar(t *testing.T) {
	a := ResolveAvatar("", "alice")
	assert.Equal(t, a.Initial, "A")
	assert.Equal(t, a.ImageURL, "")

	a = ResolveAvatar("https://cdn.example.com/a.png", "alice")
	assert.Equal(t, a.ImageURL, "https://cdn.example.com/a.png")
	assert.Equal(t, a.Initial, "")

	a = ResolveAvatar("", "")
	assert.Equal(t, a.Initial, "?")
}

func TestFormatDate(t *testing.T) {
	ts, err := time.Parse(time.RFC3339, "2024-03-05T10:00:00Z")
	assert.Equal(t, err, nil)
	assert.Equal(t, FormatDate(ts), "March 5")

	ts, err = time.Parse(time.RFC3339, "2023-12-25T23:59:00Z")
	assert.Equal(t, err, nil)
	assert.Equal(t, FormatDate(ts), "December 25")
}

func TestCommentPermissions(t *testing.T) {
	const commentAuthor, postAuthor = uint(7), uint(9)

	// comment author: edit and delete
	assert.Equal(t, CanEditComment(7, commentAuthor), true)
	assert.Equal(t, CanDeleteComment(7, commentAuthor, postAuthor), true)

	// post author: delete only
	assert.Equal(t, CanEditComment(9, commentAuthor), false)
	assert.Equal(t, CanDeleteComment(9, commentAuthor, postAuthor), true)

	// anyone else: neither
	assert.Equal(t, CanEditComment(3, commentAuthor), false)
	assert.Equal(t, CanDeleteComment(3, commentAuthor, postAuthor), false)

	// signed out
	assert.Equal(t, CanEditComment(0, 0), false)
	assert.Equal(t, CanDeleteComment(0, 0, 0), false)
}

func TestPostPermissions(t *testing.T) {
	assert.Equal(t, CanManagePost(9, 9), true)
	assert.Equal(t, CanManagePost(7, 9), false)
	assert.Equal(t, CanManagePost(0, 0), false)
}

func TestProjectPost(t *testing.T) {
	created, _ := time.Parse(time.RFC3339, "2024-03-05T10:00:00Z")
	post := models.Post{
		ID:                    12,
		AuthorID:              9,
		AuthorName:            "bob",
		Title:                 "Morning rides",
		Description:           "a summary",
		Content:               "first paragraph\n\nsecond paragraph\n",
		CreatedAt:             created,
		LikeCount:             4,
		CommentCount:          2,
		LikedByCurrentUser:    true,
		ReportedByCurrentUser: true,
	}

	v := ProjectPost(post, 9)
	assert.Equal(t, v.Date, "March 5")
	assert.Equal(t, v.AuthorAvatar.Initial, "B")
	assert.Equal(t, v.Liked, true)
	assert.Equal(t, v.ReportDisabled, true)
	assert.Equal(t, v.CanEdit, true)
	assert.Equal(t, v.CanDelete, true)
	assert.Equal(t, len(v.Paragraphs), 2)
	assert.Equal(t, v.Paragraphs[0], "first paragraph")

	v = ProjectPost(post, 3)
	assert.Equal(t, v.CanEdit, false)
	assert.Equal(t, v.CanDelete, false)
}

func TestProjectPostSanitizesContent(t *testing.T) {
	post := models.Post{
		Title:   "hello <script>alert(1)</script>",
		Content: "safe <script>alert(1)</script> text",
	}
	v := ProjectPost(post, 0)
	assert.Equal(t, strings.Contains(v.Title, "script"), false)
	assert.Equal(t, strings.Contains(v.Title, "hello"), true)
	assert.Equal(t, strings.Contains(v.Paragraphs[0], "script"), false)
	assert.Equal(t, strings.Contains(v.Paragraphs[0], "safe"), true)
}

func TestProjectComment(t *testing.T) {
	created, _ := time.Parse(time.RFC3339, "2024-07-01T08:30:00Z")
	comment := models.Comment{
		ID:        5,
		Text:      "nice one",
		CreatedAt: created,
		Author:    models.CommentAuthor{ID: 7, Name: "carol"},
	}

	v := ProjectComment(comment, 7, 9)
	assert.Equal(t, v.Date, "July 1")
	assert.Equal(t, v.AuthorAvatar.Initial, "C")
	assert.Equal(t, v.CanEdit, true)
	assert.Equal(t, v.CanDelete, true)

	v = ProjectComment(comment, 9, 9)
	assert.Equal(t, v.CanEdit, false)
	assert.Equal(t, v.CanDelete, true)
}

func TestProjectProfileBioFallback(t *testing.T) {
	v := ProjectProfile(models.UserProfile{ID: 3, Username: "dave"})
	assert.Equal(t, v.Bio, "This user hasn't added a bio yet.")
	assert.Equal(t, v.Avatar.Initial, "D")

	v = ProjectProfile(models.UserProfile{
		ID:             3,
		Username:       "dave",
		Description:    "rides motorcycles",
		ProfilePicture: "https://cdn.example.com/d.png",
	})
	assert.Equal(t, v.Bio, "rides motorcycles")
	assert.Equal(t, v.Avatar.ImageURL, "https://cdn.example.com/d.png")
}
