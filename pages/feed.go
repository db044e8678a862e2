package pages

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/cppla/contentcorner/api"
	"github.com/cppla/contentcorner/models"
	"github.com/cppla/contentcorner/optimistic"
	"github.com/cppla/contentcorner/views"
)

// FeedPage shows the post list with per-card like and flag controls. Its
// copies of the posts are independent of any detail page showing the same
// post; a navigation re-fetch is what brings them back in line.
type FeedPage struct {
	client *api.Client
	gate   *optimistic.Gate
	notify Notifier
	out    io.Writer

	mu     sync.Mutex
	posts  []models.Post
	closed bool
}

// NewFeedPage creates a feed page writing its renders to out.
func NewFeedPage(client *api.Client, notify Notifier, out io.Writer) *FeedPage {
	return &FeedPage{
		client: client,
		gate:   optimistic.NewGate(),
		notify: notify,
		out:    out,
	}
}

// Load fetches all posts and renders the feed.
func (p *FeedPage) Load(ctx context.Context) error {
	posts, err := p.client.FetchPosts(ctx, api.PostFilter{})
	if err != nil {
		p.notify.Notify("Error", userMessage(err, "Failed to load posts. Please try again."))
		return err
	}
	p.mu.Lock()
	p.posts = posts
	p.mu.Unlock()
	p.Render()
	return nil
}

// Close marks the page torn down; late reconciliations skip rendering.
func (p *FeedPage) Close() {
	p.mu.Lock()
	p.closed = true
	p.mu.Unlock()
}

// Posts returns the page's current post copies.
func (p *FeedPage) Posts() []models.Post {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]models.Post, len(p.posts))
	copy(out, p.posts)
	return out
}

// Render writes every post card.
func (p *FeedPage) Render() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return
	}
	viewer := p.client.Session().UserID()
	for _, post := range p.posts {
		writePostCard(p.out, views.ProjectPost(post, viewer))
	}
}

func (p *FeedPage) findLocked(postID uint) *models.Post {
	for i := range p.posts {
		if p.posts[i].ID == postID {
			return &p.posts[i]
		}
	}
	return nil
}

// cardTarget adapts one feed card's like slice to the mutation engine. The
// card counts as torn down when the page closed or the post left the list.
type cardTarget struct {
	p      *FeedPage
	postID uint
}

func (t cardTarget) State() models.LikeState {
	t.p.mu.Lock()
	defer t.p.mu.Unlock()
	if post := t.p.findLocked(t.postID); post != nil {
		return post.LikeState()
	}
	return models.LikeState{}
}

func (t cardTarget) Apply(s models.LikeState) {
	t.p.mu.Lock()
	defer t.p.mu.Unlock()
	if t.p.closed {
		return
	}
	post := t.p.findLocked(t.postID)
	if post == nil {
		return
	}
	post.SetLikeState(s)
	fmt.Fprintf(t.p.out, "%s\n", engagementLine(views.ProjectPost(*post, t.p.client.Session().UserID())))
}

func (t cardTarget) Alive() bool {
	t.p.mu.Lock()
	defer t.p.mu.Unlock()
	return !t.p.closed && t.p.findLocked(t.postID) != nil
}

// ToggleLike flips one card's like state optimistically. A second toggle on
// the same card while one is pending returns ErrMutationPending.
func (p *FeedPage) ToggleLike(ctx context.Context, postID uint) (<-chan optimistic.Outcome[models.LikeState], error) {
	p.mu.Lock()
	if p.findLocked(postID) == nil {
		p.mu.Unlock()
		return nil, ErrPostGone
	}
	p.mu.Unlock()

	settled := make(chan optimistic.Outcome[models.LikeState], 1)
	target := cardTarget{p: p, postID: postID}
	mutation := optimistic.Mutation[models.LikeState]{
		Key:       optimistic.Key{Entity: "post", ID: postID, Field: "like"},
		Transform: models.LikeState.Toggle,
		Commit: func(ctx context.Context, desired models.LikeState) (models.LikeState, bool, error) {
			result, err := p.client.SetLike(ctx, postID, desired.Liked)
			if err != nil {
				return models.LikeState{}, false, err
			}
			if result.Count == nil {
				return models.LikeState{}, false, nil
			}
			final := models.LikeState{Liked: desired.Liked, Count: *result.Count}
			if result.Liked != nil {
				final.Liked = *result.Liked
			}
			return final, true, nil
		},
	}
	_, err := optimistic.Run(ctx, p.gate, target, mutation, func(o optimistic.Outcome[models.LikeState]) {
		if o.RolledBack && target.Alive() {
			p.notify.Notify("Error", "Failed to update like. Please try again.")
		}
		settled <- o
	})
	if err != nil {
		return nil, err
	}
	return settled, nil
}

// Report files a report from a feed card's flag control and disables the
// control in this snapshot.
func (p *FeedPage) Report(ctx context.Context, postID uint, reasonType, reasonText string) error {
	p.mu.Lock()
	post := p.findLocked(postID)
	if post == nil {
		p.mu.Unlock()
		return ErrPostGone
	}
	if post.ReportedByCurrentUser {
		p.mu.Unlock()
		return &api.ValidationError{Message: "you already reported this post"}
	}
	p.mu.Unlock()

	err := p.client.SubmitReport(ctx, api.ReportArgs{PostID: postID, Type: reasonType, Reason: reasonText})
	if err != nil {
		p.notify.Notify("Error", userMessage(err, "Failed to submit report. Please try again."))
		return err
	}

	p.mu.Lock()
	if post := p.findLocked(postID); post != nil {
		post.ReportedByCurrentUser = true
	}
	p.mu.Unlock()

	p.notify.Notify("Report Submitted", "Thank you for reporting. We will review this blog.")
	return nil
}
