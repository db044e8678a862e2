package pages

import (
	"fmt"
	"io"
	"strings"

	"github.com/cppla/contentcorner/views"
)

func avatarMark(a views.Avatar) string {
	if a.ImageURL != "" {
		return fmt.Sprintf("[img %s]", a.ImageURL)
	}
	return fmt.Sprintf("(%s)", a.Initial)
}

func writePostCard(w io.Writer, v views.PostView) {
	fmt.Fprintf(w, "#%d %s — %s %s · %s\n", v.ID, v.Title, avatarMark(v.AuthorAvatar), v.AuthorName, v.Date)
	if v.Summary != "" {
		fmt.Fprintf(w, "    %s\n", v.Summary)
	}
	fmt.Fprintf(w, "    %s\n", engagementLine(v))
}

func writePostDetail(w io.Writer, v views.PostView) {
	fmt.Fprintf(w, "%s\n", v.Title)
	fmt.Fprintf(w, "%s %s · %s\n", avatarMark(v.AuthorAvatar), v.AuthorName, v.Date)
	fmt.Fprintln(w, strings.Repeat("-", 40))
	for _, p := range v.Paragraphs {
		fmt.Fprintf(w, "%s\n\n", p)
	}
	fmt.Fprintf(w, "%s\n", engagementLine(v))
}

func engagementLine(v views.PostView) string {
	like := "like"
	if v.Liked {
		like = "unlike"
	}
	report := "report"
	if v.ReportDisabled {
		report = "reported"
	}
	return fmt.Sprintf("♥ %d · 💬 %d · [%s] [%s]", v.LikeCount, v.CommentCount, like, report)
}

func writeComment(w io.Writer, v views.CommentView) {
	actions := ""
	if v.CanEdit {
		actions += " [edit]"
	}
	if v.CanDelete {
		actions += " [delete]"
	}
	fmt.Fprintf(w, "%s %s · %s%s\n    %s\n", avatarMark(v.AuthorAvatar), v.AuthorName, v.Date, actions, v.Text)
}

func writeProfile(w io.Writer, v views.ProfileView) {
	fmt.Fprintf(w, "%s %s\n%s\n", avatarMark(v.Avatar), v.Name, v.Bio)
}
