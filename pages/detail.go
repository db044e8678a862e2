package pages

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/cppla/contentcorner/api"
	"github.com/cppla/contentcorner/models"
	"github.com/cppla/contentcorner/optimistic"
	"github.com/cppla/contentcorner/utils"
	"github.com/cppla/contentcorner/views"
)

// DetailPage shows one post with its comment thread and engagement controls.
type DetailPage struct {
	client *api.Client
	gate   *optimistic.Gate
	notify Notifier
	out    io.Writer

	mu       sync.Mutex
	post     *models.Post
	comments []models.Comment
	closed   bool
}

// NewDetailPage creates a detail page writing its renders to out.
func NewDetailPage(client *api.Client, notify Notifier, out io.Writer) *DetailPage {
	return &DetailPage{
		client: client,
		gate:   optimistic.NewGate(),
		notify: notify,
		out:    out,
	}
}

// Load fetches the post and its comments and renders the page. A missing
// post returns ErrPostGone so the caller can navigate back to the feed. A
// failed comment fetch degrades to an empty thread.
func (p *DetailPage) Load(ctx context.Context, postID uint) error {
	post, err := p.client.FetchPost(ctx, postID)
	if err != nil {
		var nf *api.NotFoundError
		if errors.As(err, &nf) {
			return ErrPostGone
		}
		p.notify.Notify("Error", userMessage(err, "Failed to load the post. Please try again."))
		return err
	}

	comments, err := p.client.FetchComments(ctx, postID)
	if err != nil {
		if utils.Sugar != nil {
			utils.Sugar.Warnw("comment fetch failed", "post_id", postID, "err", err)
		}
		comments = nil
	}

	p.mu.Lock()
	p.post = post
	p.comments = comments
	p.mu.Unlock()

	p.Render()
	return nil
}

// Close marks the page torn down (navigation away). Reconciliations settling
// afterwards skip rendering.
func (p *DetailPage) Close() {
	p.mu.Lock()
	p.closed = true
	p.mu.Unlock()
}

// Post returns the page's current copy of the post.
func (p *DetailPage) Post() models.Post {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.post == nil {
		return models.Post{}
	}
	return *p.post
}

// Comments returns the page's current comment list copy.
func (p *DetailPage) Comments() []models.Comment {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]models.Comment, len(p.comments))
	copy(out, p.comments)
	return out
}

// Render writes the whole page: post, engagement line, comment thread.
func (p *DetailPage) Render() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.renderLocked()
}

func (p *DetailPage) renderLocked() {
	if p.post == nil || p.closed {
		return
	}
	viewer := p.client.Session().UserID()
	writePostDetail(p.out, views.ProjectPost(*p.post, viewer))
	fmt.Fprintf(p.out, "Comments (%d)\n", p.post.CommentCount)
	if len(p.comments) == 0 {
		fmt.Fprintln(p.out, "No comments yet. Be the first to comment!")
		return
	}
	for _, c := range p.comments {
		writeComment(p.out, views.ProjectComment(c, viewer, p.post.AuthorID))
	}
}

// likeTarget adapts the page's post copy to the mutation engine.
type likeTarget struct {
	p *DetailPage
}

func (t likeTarget) State() models.LikeState {
	t.p.mu.Lock()
	defer t.p.mu.Unlock()
	return t.p.post.LikeState()
}

func (t likeTarget) Apply(s models.LikeState) {
	t.p.mu.Lock()
	defer t.p.mu.Unlock()
	if t.p.post == nil || t.p.closed {
		return
	}
	t.p.post.SetLikeState(s)
	fmt.Fprintf(t.p.out, "%s\n", engagementLine(views.ProjectPost(*t.p.post, t.p.client.Session().UserID())))
}

func (t likeTarget) Alive() bool {
	t.p.mu.Lock()
	defer t.p.mu.Unlock()
	return !t.p.closed
}

// ToggleLike flips the like state optimistically and reconciles with the
// server in the background. The returned channel settles with the outcome.
// While a toggle is pending, another call returns ErrMutationPending.
func (p *DetailPage) ToggleLike(ctx context.Context) (<-chan optimistic.Outcome[models.LikeState], error) {
	p.mu.Lock()
	if p.post == nil {
		p.mu.Unlock()
		return nil, ErrPostGone
	}
	postID := p.post.ID
	p.mu.Unlock()

	settled := make(chan optimistic.Outcome[models.LikeState], 1)
	target := likeTarget{p}
	mutation := optimistic.Mutation[models.LikeState]{
		Key:       optimistic.Key{Entity: "post", ID: postID, Field: "like"},
		Transform: models.LikeState.Toggle,
		Commit:    p.commitLike(postID),
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

// commitLike issues the remote call and merges the server's authoritative
// count when the response carries one.
func (p *DetailPage) commitLike(postID uint) func(context.Context, models.LikeState) (models.LikeState, bool, error) {
	return func(ctx context.Context, desired models.LikeState) (models.LikeState, bool, error) {
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
	}
}

// PostComment publishes a comment, bumps the local count and refreshes the
// thread in the background.
func (p *DetailPage) PostComment(ctx context.Context, text string) error {
	p.mu.Lock()
	if p.post == nil {
		p.mu.Unlock()
		return ErrPostGone
	}
	postID := p.post.ID
	p.mu.Unlock()

	if _, err := p.client.PostComment(ctx, postID, text); err != nil {
		p.notify.Notify("Error", userMessage(err, "Failed to post comment. Please try again."))
		return err
	}

	p.mu.Lock()
	p.post.CommentCount++
	p.mu.Unlock()

	api.Go(ctx, func(ctx context.Context) ([]models.Comment, error) {
		return p.client.FetchComments(ctx, postID)
	}, api.NewCallback(func(comments []models.Comment, err error) {
		if err != nil {
			return
		}
		p.mu.Lock()
		defer p.mu.Unlock()
		if p.closed {
			return
		}
		p.comments = comments
		p.renderLocked()
	}))

	p.notify.Notify("Success!", "Comment posted successfully!")
	return nil
}

// EditComment saves new text for a comment the viewer authored. The control
// is never rendered for other viewers; a direct call without permission is
// rejected before any request.
func (p *DetailPage) EditComment(ctx context.Context, commentID uint, text string) error {
	p.mu.Lock()
	post := p.post
	var target *models.Comment
	for i := range p.comments {
		if p.comments[i].ID == commentID {
			target = &p.comments[i]
			break
		}
	}
	p.mu.Unlock()

	if post == nil || target == nil {
		return &api.NotFoundError{Message: "comment not found"}
	}
	if !views.CanEditComment(p.client.Session().UserID(), target.Author.ID) {
		return &api.ForbiddenError{Message: "only the comment author can edit it"}
	}

	updated, err := p.client.UpdateComment(ctx, commentID, post.ID, text)
	if err != nil {
		p.notify.Notify("Error", userMessage(err, "Failed to update comment. Please try again."))
		return err
	}

	p.mu.Lock()
	for i := range p.comments {
		if p.comments[i].ID == commentID {
			if updated != nil {
				p.comments[i].Text = updated.Text
			} else {
				p.comments[i].Text = text
			}
			break
		}
	}
	p.renderLocked()
	p.mu.Unlock()

	p.notify.Notify("Success", "Comment updated successfully.")
	return nil
}

// DeleteComment removes a comment the viewer may delete. An already-deleted
// comment (NotFound) is treated as a successful removal. The comment count
// never drops below zero.
func (p *DetailPage) DeleteComment(ctx context.Context, commentID uint) error {
	p.mu.Lock()
	post := p.post
	var target *models.Comment
	for i := range p.comments {
		if p.comments[i].ID == commentID {
			target = &p.comments[i]
			break
		}
	}
	p.mu.Unlock()

	if post == nil || target == nil {
		return nil
	}
	if !views.CanDeleteComment(p.client.Session().UserID(), target.Author.ID, post.AuthorID) {
		return &api.ForbiddenError{Message: "you cannot delete this comment"}
	}

	if err := p.client.DeleteComment(ctx, commentID); err != nil {
		var nf *api.NotFoundError
		if !errors.As(err, &nf) {
			p.notify.Notify("Error", userMessage(err, "Failed to delete comment. Please try again."))
			return err
		}
	}

	p.mu.Lock()
	kept := p.comments[:0]
	for _, c := range p.comments {
		if c.ID != commentID {
			kept = append(kept, c)
		}
	}
	p.comments = kept
	if p.post.CommentCount > 0 {
		p.post.CommentCount--
	}
	p.renderLocked()
	p.mu.Unlock()

	p.notify.Notify("Success", "Comment deleted successfully.")
	return nil
}

// ReportTypes lists the selectable report reasons.
func (p *DetailPage) ReportTypes(ctx context.Context) ([]models.ReportType, error) {
	return p.client.FetchReportTypes(ctx)
}

// Report files a report against the post and disables further reports in
// this snapshot. Reporting twice in one snapshot is rejected locally.
func (p *DetailPage) Report(ctx context.Context, reasonType, reasonText string) error {
	p.mu.Lock()
	if p.post == nil {
		p.mu.Unlock()
		return ErrPostGone
	}
	if p.post.ReportedByCurrentUser {
		p.mu.Unlock()
		return &api.ValidationError{Message: "you already reported this post"}
	}
	postID := p.post.ID
	p.mu.Unlock()

	err := p.client.SubmitReport(ctx, api.ReportArgs{PostID: postID, Type: reasonType, Reason: reasonText})
	if err != nil {
		p.notify.Notify("Error", userMessage(err, "Failed to submit report. Please try again."))
		return err
	}

	p.mu.Lock()
	p.post.ReportedByCurrentUser = true
	p.renderLocked()
	p.mu.Unlock()

	p.notify.Notify("Report Submitted", "Thank you for reporting. We will review this blog.")
	return nil
}

// AuthorInfo fetches the post author's profile for the author popup.
func (p *DetailPage) AuthorInfo(ctx context.Context) (views.ProfileView, error) {
	p.mu.Lock()
	if p.post == nil {
		p.mu.Unlock()
		return views.ProfileView{}, ErrPostGone
	}
	authorID := p.post.AuthorID
	p.mu.Unlock()

	profile, err := p.client.FetchUser(ctx, authorID)
	if err != nil {
		p.notify.Notify("Error", "Unable to load author information.")
		return views.ProfileView{}, err
	}
	return views.ProjectProfile(*profile), nil
}
