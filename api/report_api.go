package api

import (
	"context"
	"net/http"
	"strings"

	"github.com/cppla/contentcorner/models"
)

// ReportArgs describes a report against a post.
type ReportArgs struct {
	PostID uint   `json:"blog_id"`
	Type   string `json:"type"`
	Reason string `json:"reason"`
}

// FetchReportTypes lists the selectable report reasons.
func (c *Client) FetchReportTypes(ctx context.Context) ([]models.ReportType, error) {
	return getJSON[[]models.ReportType](ctx, c, routeReportTypes)
}

// SubmitReport files a report. Both a reason type and a description are
// required, rejected locally when missing.
func (c *Client) SubmitReport(ctx context.Context, args ReportArgs) error {
	if strings.TrimSpace(args.Type) == "" {
		return &ValidationError{Message: "please select a reason for reporting"}
	}
	if strings.TrimSpace(args.Reason) == "" {
		return &ValidationError{Message: "please describe the issue in detail"}
	}
	args.Reason = strings.TrimSpace(args.Reason)
	_, err := sendJSON[struct{}](ctx, c, http.MethodPost, routeReports, args)
	return err
}
