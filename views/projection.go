// Package views maps entity state plus the viewer's identity onto display
// fields. Everything here is pure: no remote calls, no mutation.
package views

import (
	"fmt"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/cppla/contentcorner/models"
	"github.com/cppla/contentcorner/utils"
)

// Avatar is a resolved avatar source: the image reference when one exists,
// otherwise a single-character glyph derived from the display name. The glyph
// is derived, never stored.
type Avatar struct {
	ImageURL string
	Initial  string
}

// ResolveAvatar applies the uniform avatar rule used for posts, comments and
// profiles.
func ResolveAvatar(imageRef, displayName string) Avatar {
	if imageRef != "" {
		return Avatar{ImageURL: imageRef}
	}
	r, size := utf8.DecodeRuneInString(displayName)
	if size == 0 || r == utf8.RuneError {
		return Avatar{Initial: "?"}
	}
	return Avatar{Initial: string(unicode.ToUpper(r))}
}

// FormatDate renders a timestamp as "{MonthName} {DayOfMonth}". No year and
// no time of day, matching how dates appear throughout the UI.
func FormatDate(t time.Time) string {
	return fmt.Sprintf("%s %d", t.Month().String(), t.Day())
}

// CanEditComment: only the comment author may edit.
func CanEditComment(viewerID, commentAuthorID uint) bool {
	return viewerID != 0 && viewerID == commentAuthorID
}

// CanDeleteComment: the comment author and the post author may delete.
func CanDeleteComment(viewerID, commentAuthorID, postAuthorID uint) bool {
	if viewerID == 0 {
		return false
	}
	return viewerID == commentAuthorID || viewerID == postAuthorID
}

// CanManagePost: edit and delete are the post author's alone.
func CanManagePost(viewerID, postAuthorID uint) bool {
	return viewerID != 0 && viewerID == postAuthorID
}

// PostView is the renderable form of a post for a given viewer.
type PostView struct {
	ID             uint
	Title          string
	Summary        string
	Paragraphs     []string
	ImagePath      string
	AuthorID       uint
	AuthorName     string
	AuthorAvatar   Avatar
	Date           string
	LikeCount      int
	CommentCount   int
	Liked          bool
	ReportDisabled bool
	CanEdit        bool
	CanDelete      bool
}

// ProjectPost builds a post view. Fetched text is sanitized; the content body
// is split into paragraphs on newlines the way the original renderer did.
func ProjectPost(p models.Post, viewerID uint) PostView {
	var paragraphs []string
	for _, line := range strings.Split(utils.SanitizeHTML(p.Content), "\n") {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			paragraphs = append(paragraphs, trimmed)
		}
	}
	return PostView{
		ID:             p.ID,
		Title:          utils.SanitizeText(p.Title),
		Summary:        utils.SanitizeText(p.Description),
		Paragraphs:     paragraphs,
		ImagePath:      p.ImagePath,
		AuthorID:       p.AuthorID,
		AuthorName:     utils.SanitizeText(p.AuthorName),
		AuthorAvatar:   ResolveAvatar(p.AuthorAvatar, p.AuthorName),
		Date:           FormatDate(p.CreatedAt),
		LikeCount:      p.LikeCount,
		CommentCount:   p.CommentCount,
		Liked:          p.LikedByCurrentUser,
		ReportDisabled: p.ReportedByCurrentUser,
		CanEdit:        CanManagePost(viewerID, p.AuthorID),
		CanDelete:      CanManagePost(viewerID, p.AuthorID),
	}
}

// CommentView is the renderable form of a comment for a given viewer.
type CommentView struct {
	ID           uint
	AuthorID     uint
	AuthorName   string
	AuthorAvatar Avatar
	Date         string
	Text         string
	CanEdit      bool
	CanDelete    bool
}

// ProjectComment builds a comment view; postAuthorID feeds the delete rule.
func ProjectComment(c models.Comment, viewerID, postAuthorID uint) CommentView {
	return CommentView{
		ID:           c.ID,
		AuthorID:     c.Author.ID,
		AuthorName:   utils.SanitizeText(c.Author.Name),
		AuthorAvatar: ResolveAvatar(c.Author.ProfilePicture, c.Author.Name),
		Date:         FormatDate(c.CreatedAt),
		Text:         utils.SanitizeText(c.Text),
		CanEdit:      CanEditComment(viewerID, c.Author.ID),
		CanDelete:    CanDeleteComment(viewerID, c.Author.ID, postAuthorID),
	}
}

// ProfileView is the renderable form of a user profile.
type ProfileView struct {
	ID     uint
	Name   string
	Avatar Avatar
	Bio    string
}

// ProjectProfile builds a profile view with the empty-bio fallback text.
func ProjectProfile(u models.UserProfile) ProfileView {
	bio := utils.SanitizeText(u.Description)
	if strings.TrimSpace(bio) == "" {
		bio = "This user hasn't added a bio yet."
	}
	return ProfileView{
		ID:     u.ID,
		Name:   utils.SanitizeText(u.Username),
		Avatar: ResolveAvatar(u.ProfilePicture, u.Username),
		Bio:    bio,
	}
}
