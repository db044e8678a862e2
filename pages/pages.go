// Package pages holds the page controllers: each page owns an independently
// fetched copy of the entities it shows and renders it to a writer. Copies of
// the same entity on different pages are not coordinated; consistency between
// them comes from re-fetching on navigation, never from a shared cache.
package pages

import (
	"errors"

	"github.com/cppla/contentcorner/api"
)

// Notifier surfaces a user-visible, dismissible notification (the modal
// analog). Every page failure degrades to one of these plus consistent state.
type Notifier interface {
	Notify(title, message string)
}

// NotifierFunc adapts a function to the Notifier interface.
type NotifierFunc func(title, message string)

// Notify implements Notifier.
func (f NotifierFunc) Notify(title, message string) {
	f(title, message)
}

// ErrPostGone signals that a detail view's post no longer exists; the caller
// should navigate back to the feed.
var ErrPostGone = errors.New("post no longer exists")

// userMessage maps an error onto notification text, preferring structured
// messages the server meant for the user.
func userMessage(err error, fallback string) string {
	var ve *api.ValidationError
	if errors.As(err, &ve) {
		return ve.Message
	}
	var fe *api.ForbiddenError
	if errors.As(err, &fe) {
		return fe.Error()
	}
	var ue *api.UnauthorizedError
	if errors.As(err, &ue) {
		return "Please sign in and try again."
	}
	return fallback
}
