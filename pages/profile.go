package pages

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/cppla/contentcorner/api"
	"github.com/cppla/contentcorner/models"
	"github.com/cppla/contentcorner/views"
)

// ProfilePage shows a user's profile and their posts, with edit and delete
// controls when the viewer is that user.
type ProfilePage struct {
	client *api.Client
	notify Notifier
	out    io.Writer

	mu      sync.Mutex
	profile *models.UserProfile
	posts   []models.Post
	closed  bool
}

// NewProfilePage creates a profile page writing its renders to out.
func NewProfilePage(client *api.Client, notify Notifier, out io.Writer) *ProfilePage {
	return &ProfilePage{client: client, notify: notify, out: out}
}

// Load fetches the profile and the user's posts, then renders. A failed
// profile fetch falls back to the session's cached identity when the page is
// the viewer's own, the way the original page did.
func (p *ProfilePage) Load(ctx context.Context, userID uint) error {
	sess := p.client.Session()

	profile, err := p.client.FetchUser(ctx, userID)
	if err != nil {
		if userID != sess.UserID() {
			p.notify.Notify("Error", userMessage(err, "Failed to load the profile."))
			return err
		}
		profile = &models.UserProfile{
			ID:             sess.UserID(),
			Username:       sess.Username(),
			ProfilePicture: sess.AvatarURL(),
		}
	}

	posts, err := p.client.FetchPosts(ctx, api.PostFilter{AuthorID: userID})
	if err != nil {
		p.notify.Notify("Error", userMessage(err, "Failed to load posts. Please try again."))
		return err
	}

	p.mu.Lock()
	p.profile = profile
	p.posts = posts
	p.mu.Unlock()

	p.Render()
	return nil
}

// Close marks the page torn down.
func (p *ProfilePage) Close() {
	p.mu.Lock()
	p.closed = true
	p.mu.Unlock()
}

// Profile returns the page's current profile copy.
func (p *ProfilePage) Profile() models.UserProfile {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.profile == nil {
		return models.UserProfile{}
	}
	return *p.profile
}

// Posts returns the page's current post copies.
func (p *ProfilePage) Posts() []models.Post {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]models.Post, len(p.posts))
	copy(out, p.posts)
	return out
}

// Render writes the profile header and the post list.
func (p *ProfilePage) Render() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed || p.profile == nil {
		return
	}
	viewer := p.client.Session().UserID()
	writeProfile(p.out, views.ProjectProfile(*p.profile))
	fmt.Fprintln(p.out)
	for _, post := range p.posts {
		writePostCard(p.out, views.ProjectPost(post, viewer))
	}
}

// UpdateProfile saves profile changes and refreshes the session's cached
// identity so the avatar shown on other pages follows.
func (p *ProfilePage) UpdateProfile(ctx context.Context, update api.ProfileUpdate, avatar *api.FileAttachment) error {
	sess := p.client.Session()
	if update.ID == 0 {
		update.ID = sess.UserID()
	}
	if update.ID != sess.UserID() {
		return &api.ForbiddenError{Message: "you can only edit your own profile"}
	}

	updated, err := p.client.UpdateUser(ctx, update, avatar)
	if err != nil {
		p.notify.Notify("Error", userMessage(err, "Failed to update profile. Please try again."))
		return err
	}

	p.mu.Lock()
	if updated != nil {
		p.profile = updated
	} else if p.profile != nil {
		p.profile.Username = update.Username
		p.profile.Description = update.Description
		if update.RemoveAvatar {
			p.profile.ProfilePicture = ""
		}
	}
	profile := p.profile
	p.renderHeaderLocked()
	p.mu.Unlock()

	if profile != nil {
		sess.SetProfile(profile.Username, profile.ProfilePicture)
	}

	p.notify.Notify("Success", "Profile updated successfully.")
	return nil
}

func (p *ProfilePage) renderHeaderLocked() {
	if p.closed || p.profile == nil {
		return
	}
	writeProfile(p.out, views.ProjectProfile(*p.profile))
}

// DeletePost removes one of the viewer's posts. A post the server no longer
// knows about is treated as already deleted and removed from the list.
func (p *ProfilePage) DeletePost(ctx context.Context, postID uint) error {
	p.mu.Lock()
	var target *models.Post
	for i := range p.posts {
		if p.posts[i].ID == postID {
			target = &p.posts[i]
			break
		}
	}
	p.mu.Unlock()

	if target == nil {
		return nil
	}
	if !views.CanManagePost(p.client.Session().UserID(), target.AuthorID) {
		return &api.ForbiddenError{Message: "you can only delete your own posts"}
	}

	if err := p.client.DeletePost(ctx, postID); err != nil {
		var nf *api.NotFoundError
		if !errors.As(err, &nf) {
			p.notify.Notify("Error", userMessage(err, "Failed to delete the post. Please try again."))
			return err
		}
	}

	p.mu.Lock()
	kept := p.posts[:0]
	for _, post := range p.posts {
		if post.ID != postID {
			kept = append(kept, post)
		}
	}
	p.posts = kept
	p.mu.Unlock()

	p.notify.Notify("Success", "Post deleted successfully.")
	return nil
}
