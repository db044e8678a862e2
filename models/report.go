package models

// ReportType is one selectable reason for reporting a post.
type ReportType struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// LikeResult is the server's answer to a like toggle. Count and Liked are
// optional; when present they are authoritative and replace the client's
// optimistic delta.
type LikeResult struct {
	Count *int  `json:"like_count,omitempty"`
	Liked *bool `json:"liked,omitempty"`
}
