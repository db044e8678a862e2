package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/docopt/docopt-go"

	"github.com/cppla/contentcorner/api"
	"github.com/cppla/contentcorner/config"
	"github.com/cppla/contentcorner/pages"
	"github.com/cppla/contentcorner/session"
	"github.com/cppla/contentcorner/utils"
)

const cornerVersion = "0.1.0"

func main() {
	usage := `Content Corner terminal client.

Usage:
    corner login --email=<email> --password=<password>
    corner logout
    corner feed
    corner read <post_id>
    corner post --title=<title> --description=<description> --content=<content> --image=<path>
    corner edit <post_id> --title=<title> --description=<description> --content=<content> [--image=<path>]
    corner delete <post_id>
    corner like <post_id>
    corner comment <post_id> <text>
    corner edit-comment <post_id> <comment_id> <text>
    corner delete-comment <post_id> <comment_id>
    corner report <post_id> --type=<type> --reason=<reason>
    corner report-types
    corner profile [<user_id>]
    corner profile-update [--username=<name>] [--bio=<bio>] [--avatar=<path>] [--remove-avatar]
    corner author <post_id>

Options:
    -h --help                  Show this screen.
    --version                  Show version.
    --email=<email>            Account email.
    --password=<password>      Account password.
    --title=<title>            Post title.
    --description=<description>  Short post summary.
    --content=<content>        Post body text.
    --image=<path>             Image file to attach.
    --type=<type>              Report reason type (see report-types).
    --reason=<reason>          Report reason description.
    --username=<name>          New username.
    --bio=<bio>                New profile bio.
    --avatar=<path>            New avatar image file.
    --remove-avatar            Remove the current avatar.`

	opts, err := docopt.ParseArgs(usage, os.Args[1:], cornerVersion)
	if err != nil {
		panic(err)
	}

	cfg := config.Load()
	if err := utils.InitLogger(cfg); err != nil {
		panic(err)
	}

	sess := session.New(session.NewCredentialStore(cfg.CredentialsPath))
	client := api.New(cfg, sess)
	defer client.Close()

	notify := pages.NotifierFunc(func(title, message string) {
		fmt.Printf("[%s] %s\n", title, message)
	})

	ctx := context.Background()
	app := &app{ctx: ctx, client: client, sess: sess, notify: notify}

	switch {
	case command(opts, "login"):
		app.login(optString(opts, "--email"), optString(opts, "--password"))
	case command(opts, "logout"):
		client.Logout()
		fmt.Println("Signed out.")
	case command(opts, "feed"):
		app.feed()
	case command(opts, "read"):
		app.read(optID(opts, "<post_id>"))
	case command(opts, "post"):
		app.createPost(opts)
	case command(opts, "edit"):
		app.editPost(opts)
	case command(opts, "delete"):
		app.deletePost(optID(opts, "<post_id>"))
	case command(opts, "like"):
		app.like(optID(opts, "<post_id>"))
	case command(opts, "comment"):
		app.comment(optID(opts, "<post_id>"), optString(opts, "<text>"))
	case command(opts, "edit-comment"):
		app.editComment(optID(opts, "<post_id>"), optID(opts, "<comment_id>"), optString(opts, "<text>"))
	case command(opts, "delete-comment"):
		app.deleteComment(optID(opts, "<post_id>"), optID(opts, "<comment_id>"))
	case command(opts, "report"):
		app.report(optID(opts, "<post_id>"), optString(opts, "--type"), optString(opts, "--reason"))
	case command(opts, "report-types"):
		app.reportTypes()
	case command(opts, "profile"):
		app.profile(optID(opts, "<user_id>"))
	case command(opts, "profile-update"):
		app.profileUpdate(opts)
	case command(opts, "author"):
		app.author(optID(opts, "<post_id>"))
	}
}

type app struct {
	ctx    context.Context
	client *api.Client
	sess   *session.Session
	notify pages.Notifier
}

func (a *app) login(email, password string) {
	result, err := a.client.Login(a.ctx, api.LoginArgs{Email: email, Password: password})
	if err != nil {
		fail(err)
	}
	fmt.Printf("Signed in as %s (user %d).\n", result.Username, result.UserID)
}

func (a *app) feed() {
	page := pages.NewFeedPage(a.client, a.notify, os.Stdout)
	if err := page.Load(a.ctx); err != nil {
		os.Exit(1)
	}
	page.Close()
}

func (a *app) read(postID uint) {
	page := pages.NewDetailPage(a.client, a.notify, os.Stdout)
	if err := page.Load(a.ctx, postID); err != nil {
		if err == pages.ErrPostGone {
			fmt.Println("That post no longer exists. Showing the feed instead.")
			a.feed()
			return
		}
		os.Exit(1)
	}
	page.Close()
}

func (a *app) like(postID uint) {
	page := pages.NewDetailPage(a.client, a.notify, os.Stdout)
	if err := page.Load(a.ctx, postID); err != nil {
		fail(err)
	}
	settled, err := page.ToggleLike(a.ctx)
	if err != nil {
		fail(err)
	}
	outcome := <-settled
	if outcome.Err != nil {
		os.Exit(1)
	}
	page.Close()
}

func (a *app) comment(postID uint, text string) {
	page := pages.NewDetailPage(a.client, a.notify, os.Stdout)
	if err := page.Load(a.ctx, postID); err != nil {
		fail(err)
	}
	if err := page.PostComment(a.ctx, text); err != nil {
		os.Exit(1)
	}
	page.Close()
}

func (a *app) editComment(postID, commentID uint, text string) {
	page := pages.NewDetailPage(a.client, a.notify, os.Stdout)
	if err := page.Load(a.ctx, postID); err != nil {
		fail(err)
	}
	if err := page.EditComment(a.ctx, commentID, text); err != nil {
		fail(err)
	}
	page.Close()
}

func (a *app) deleteComment(postID, commentID uint) {
	page := pages.NewDetailPage(a.client, a.notify, os.Stdout)
	if err := page.Load(a.ctx, postID); err != nil {
		fail(err)
	}
	if err := page.DeleteComment(a.ctx, commentID); err != nil {
		fail(err)
	}
	page.Close()
}

func (a *app) report(postID uint, reasonType, reasonText string) {
	page := pages.NewDetailPage(a.client, a.notify, os.Stdout)
	if err := page.Load(a.ctx, postID); err != nil {
		fail(err)
	}
	if err := page.Report(a.ctx, reasonType, reasonText); err != nil {
		os.Exit(1)
	}
	page.Close()
}

func (a *app) reportTypes() {
	types, err := a.client.FetchReportTypes(a.ctx)
	if err != nil {
		fail(err)
	}
	for _, t := range types {
		fmt.Printf("%s\t%s\n", t.Value, t.Label)
	}
}

func (a *app) profile(userID uint) {
	if userID == 0 {
		userID = a.sess.UserID()
	}
	if userID == 0 {
		fail(fmt.Errorf("sign in or pass a user id"))
	}
	page := pages.NewProfilePage(a.client, a.notify, os.Stdout)
	if err := page.Load(a.ctx, userID); err != nil {
		os.Exit(1)
	}
	page.Close()
}

func (a *app) profileUpdate(opts docopt.Opts) {
	page := pages.NewProfilePage(a.client, a.notify, os.Stdout)
	if err := page.Load(a.ctx, a.sess.UserID()); err != nil {
		os.Exit(1)
	}
	current := page.Profile()

	update := api.ProfileUpdate{
		ID:           a.sess.UserID(),
		Username:     current.Username,
		Description:  current.Description,
		RemoveAvatar: optBool(opts, "--remove-avatar"),
	}
	if v := optString(opts, "--username"); v != "" {
		update.Username = v
	}
	if v := optString(opts, "--bio"); v != "" {
		update.Description = v
	}

	var avatar *api.FileAttachment
	if path := optString(opts, "--avatar"); path != "" {
		f, err := os.Open(path)
		if err != nil {
			fail(err)
		}
		defer f.Close()
		avatar = &api.FileAttachment{Field: "profile_picture", Name: filepath.Base(path), Reader: f}
	}

	if err := page.UpdateProfile(a.ctx, update, avatar); err != nil {
		os.Exit(1)
	}
	page.Close()
}

func (a *app) createPost(opts docopt.Opts) {
	draft := api.PostDraft{
		Title:       optString(opts, "--title"),
		Description: optString(opts, "--description"),
		Content:     optString(opts, "--content"),
	}
	image := mustAttachment(optString(opts, "--image"), "image")
	post, err := a.client.CreatePost(a.ctx, draft, image)
	if err != nil {
		fail(err)
	}
	if post != nil {
		fmt.Printf("Published post %d.\n", post.ID)
	} else {
		fmt.Println("Published.")
	}
}

func (a *app) editPost(opts docopt.Opts) {
	draft := api.PostDraft{
		Title:       optString(opts, "--title"),
		Description: optString(opts, "--description"),
		Content:     optString(opts, "--content"),
	}
	var image *api.FileAttachment
	if path := optString(opts, "--image"); path != "" {
		image = mustAttachment(path, "image")
	}
	if _, err := a.client.UpdatePost(a.ctx, optID(opts, "<post_id>"), draft, image); err != nil {
		fail(err)
	}
	fmt.Println("Updated.")
}

func (a *app) deletePost(postID uint) {
	page := pages.NewProfilePage(a.client, a.notify, os.Stdout)
	if err := page.Load(a.ctx, a.sess.UserID()); err != nil {
		os.Exit(1)
	}
	if err := page.DeletePost(a.ctx, postID); err != nil {
		os.Exit(1)
	}
	page.Close()
}

func (a *app) author(postID uint) {
	page := pages.NewDetailPage(a.client, pages.NotifierFunc(func(string, string) {}), io.Discard)
	if err := page.Load(a.ctx, postID); err != nil {
		fail(err)
	}
	info, err := page.AuthorInfo(a.ctx)
	if err != nil {
		os.Exit(1)
	}
	fmt.Printf("%s\n%s\n", info.Name, info.Bio)
	page.Close()
}

func mustAttachment(path, field string) *api.FileAttachment {
	f, err := os.Open(path)
	if err != nil {
		fail(err)
	}
	return &api.FileAttachment{Field: field, Name: filepath.Base(path), Reader: f}
}

func command(opts docopt.Opts, name string) bool {
	v, _ := opts.Bool(name)
	return v
}

func optString(opts docopt.Opts, name string) string {
	if v, ok := opts[name]; ok && v != nil {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

func optBool(opts docopt.Opts, name string) bool {
	v, _ := opts.Bool(name)
	return v
}

func optID(opts docopt.Opts, name string) uint {
	s := optString(opts, name)
	if s == "" {
		return 0
	}
	id, err := strconv.ParseUint(s, 10, 32)
	if err != nil {
		fail(fmt.Errorf("invalid id %q", s))
	}
	return uint(id)
}

func fail(err error) {
	fmt.Fprintln(os.Stderr, err)
	os.Exit(1)
}
