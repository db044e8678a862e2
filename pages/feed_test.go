package pages

import (
	"context"
	"errors"
	"io"
	"net/http"
	"sync/atomic"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/assert/v2"

	"github.com/cppla/contentcorner/api"
	"github.com/cppla/contentcorner/optimistic"
)

func feedPostJSON(id uint, likeCount int) gin.H {
	return gin.H{
		"id":            id,
		"user_id":       9,
		"username":      "bob",
		"title":         "Post",
		"description":   "summary",
		"content":       "body",
		"created_at":    "2024-03-05T10:00:00Z",
		"like_count":    likeCount,
		"comment_count": 0,
	}
}

func TestFeedCardsToggleIndependently(t *testing.T) {
	block := make(chan struct{})
	r := gin.New()
	r.GET("/blog", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"data": []gin.H{feedPostJSON(1, 3), feedPostJSON(2, 10)}})
	})
	r.POST("/like", func(c *gin.Context) {
		var args struct {
			PostID uint `json:"blog_id"`
		}
		assert.Equal(t, c.ShouldBindJSON(&args), nil)
		if args.PostID == 1 {
			<-block
		}
		c.JSON(http.StatusOK, gin.H{"data": gin.H{}})
	})
	client, done := newPageClient(t, r)
	defer done()

	page := NewFeedPage(client, &recorder{}, io.Discard)
	assert.Equal(t, page.Load(context.Background()), nil)

	settledA, err := page.ToggleLike(context.Background(), 1)
	assert.Equal(t, err, nil)

	// the first card is gated, the second is not
	_, err = page.ToggleLike(context.Background(), 1)
	assert.Equal(t, err, optimistic.ErrMutationPending)

	settledB, err := page.ToggleLike(context.Background(), 2)
	assert.Equal(t, err, nil)
	outcome := <-settledB
	assert.Equal(t, outcome.Err, nil)

	close(block)
	<-settledA

	posts := page.Posts()
	assert.Equal(t, posts[0].LikeCount, 4)
	assert.Equal(t, posts[1].LikeCount, 11)
}

func TestFeedToggleUnknownPost(t *testing.T) {
	r := gin.New()
	r.GET("/blog", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"data": []gin.H{feedPostJSON(1, 3)}})
	})
	client, done := newPageClient(t, r)
	defer done()

	page := NewFeedPage(client, &recorder{}, io.Discard)
	assert.Equal(t, page.Load(context.Background()), nil)

	_, err := page.ToggleLike(context.Background(), 42)
	assert.Equal(t, err, ErrPostGone)
}

func TestFeedRollbackRestoresCard(t *testing.T) {
	r := gin.New()
	r.GET("/blog", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"data": []gin.H{feedPostJSON(1, 3)}})
	})
	r.POST("/like", func(c *gin.Context) {
		c.String(http.StatusInternalServerError, "boom")
	})
	client, done := newPageClient(t, r)
	defer done()

	notes := &recorder{}
	page := NewFeedPage(client, notes, io.Discard)
	assert.Equal(t, page.Load(context.Background()), nil)

	settled, err := page.ToggleLike(context.Background(), 1)
	assert.Equal(t, err, nil)
	outcome := <-settled
	assert.Equal(t, outcome.RolledBack, true)

	posts := page.Posts()
	assert.Equal(t, posts[0].LikeCount, 3)
	assert.Equal(t, posts[0].LikedByCurrentUser, false)
	assert.Equal(t, notes.contains("Error: Failed to update like. Please try again."), true)
}

func TestFeedReportDisablesCard(t *testing.T) {
	var hits int64
	r := gin.New()
	r.GET("/blog", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"data": []gin.H{feedPostJSON(1, 3)}})
	})
	r.POST("/reports", func(c *gin.Context) {
		atomic.AddInt64(&hits, 1)
		c.JSON(http.StatusOK, gin.H{"message": "reported"})
	})
	client, done := newPageClient(t, r)
	defer done()

	page := NewFeedPage(client, &recorder{}, io.Discard)
	assert.Equal(t, page.Load(context.Background()), nil)

	assert.Equal(t, page.Report(context.Background(), 1, "spam", "junk"), nil)
	assert.Equal(t, page.Posts()[0].ReportedByCurrentUser, true)

	err := page.Report(context.Background(), 1, "spam", "again")
	var ve *api.ValidationError
	assert.Equal(t, errors.As(err, &ve), true)
	assert.Equal(t, atomic.LoadInt64(&hits), int64(1))
}
