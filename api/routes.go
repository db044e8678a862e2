package api

import "fmt"

// Relative routes of the Content Corner API, joined onto the configured base
// URL by the client core.
const (
	routeBlog        = "/blog"
	routeLike        = "/like"
	routeComment     = "/comment"
	routeUser        = "/user"
	routeReportTypes = "/report-types"
	routeReports     = "/reports"
	routeLogin       = "/login"
)

func blogByID(id uint) string { return fmt.Sprintf("%s/%d", routeBlog, id) }

func blogByAuthor(authorID uint) string {
	return fmt.Sprintf("%s?user_id=%d", routeBlog, authorID)
}

func commentsByPost(postID uint) string { return fmt.Sprintf("%s/%d", routeComment, postID) }

func commentByID(id uint) string { return fmt.Sprintf("%s/%d", routeComment, id) }

func userByID(id uint) string { return fmt.Sprintf("%s/%d", routeUser, id) }
